package bot

import (
	"strings"

	"FundKeeper/internal/model"
	"FundKeeper/internal/notifier"
)

// Menu builds the function keyboard. Tool-fund and export rows only appear
// for administrators; the report, undo, and clear rows are always shown
// (clear is admin-gated on press, like the original flow).
func Menu(isAdmin bool) *notifier.InlineKeyboardMarkup {
	rows := [][]notifier.InlineKeyboardButton{
		{{Text: "➕ Thêm quỹ", CallbackData: string(model.ActionAddMain)}},
		{{Text: "➖ Chi tiêu", CallbackData: string(model.ActionSpendMain)}},
	}
	if isAdmin {
		rows = append(rows,
			[]notifier.InlineKeyboardButton{{Text: "🛠️ Thêm quỹ dụng cụ", CallbackData: string(model.ActionAddTool)}},
			[]notifier.InlineKeyboardButton{{Text: "🛠️ Chi dụng cụ", CallbackData: string(model.ActionSpendTool)}},
		)
	}
	rows = append(rows,
		[]notifier.InlineKeyboardButton{{Text: "📊 Báo cáo", CallbackData: string(model.ActionReport)}},
		[]notifier.InlineKeyboardButton{{Text: "↩ Hoàn tác giao dịch cuối", CallbackData: string(model.ActionUndo)}},
	)
	if isAdmin {
		rows = append(rows, []notifier.InlineKeyboardButton{{Text: "📤 Xuất CSV", CallbackData: string(model.ActionExport)}})
	}
	rows = append(rows, []notifier.InlineKeyboardButton{{Text: "🧹 Xóa tin bot (admin)", CallbackData: string(model.ActionClear)}})

	return &notifier.InlineKeyboardMarkup{InlineKeyboard: rows}
}

// command extracts a leading slash command, stripping any @botname mention
// that group clients append.
func command(text string) string {
	text = strings.ToLower(strings.TrimSpace(text))
	if !strings.HasPrefix(text, "/") {
		return ""
	}
	cmd := strings.Fields(text)[0]
	if i := strings.Index(cmd, "@"); i > 0 {
		cmd = cmd[:i]
	}
	return cmd
}

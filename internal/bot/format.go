package bot

import (
	"fmt"
	"strings"
	"time"

	"FundKeeper/internal/ledger"
	"FundKeeper/internal/model"
	"FundKeeper/internal/money"
)

// Canned replies, kept verbatim from the deployed bot.
const (
	msgPickFunction        = "📌 Chọn chức năng:"
	msgPickFunctionFirst   = "⚠️ Vui lòng chọn chức năng trước."
	msgAdminOnly           = "⛔ Chỉ quản trị viên mới được dùng chức năng này."
	msgNothingToUndo       = "⚠️ Không có giao dịch nào để hoàn tác."
	msgUndoNotOwner        = "⛔ Bạn không thể hoàn tác giao dịch của người khác."
	msgDescriptionRequired = "❌ Thiếu mô tả khoản chi! Ví dụ: 50k rau\n👉 Nhập lại:"
	msgInternalError       = "⚠️ Có lỗi xảy ra, vui lòng thử lại."
	msgExportCaption       = "📤 Lịch sử quỹ (CSV)"
)

// modePrompt is the instruction sent when a mode is armed.
func modePrompt(action model.MenuAction) string {
	switch action {
	case model.ActionAddMain:
		return "👉 Nhập tiền nạp cho *Quỹ chính* (vd: 100k hoặc 300k A nộp):"
	case model.ActionSpendMain:
		return "👉 Nhập chi tiêu cho *Quỹ chính* (vd: 50k rau, 200k thịt):"
	case model.ActionAddTool:
		return "👉 Nhập tiền nạp cho *Quỹ dụng cụ* (vd: 300k hoặc 1m):"
	case model.ActionSpendTool:
		return "👉 Nhập chi tiêu cho *Quỹ dụng cụ* (vd: 200k dao):"
	}
	return msgPickFunction
}

// retryPrompt is the syntax-error reply for the still-armed mode.
func retryPrompt(mode model.Mode) string {
	switch mode {
	case model.ModeAwaitMainWithdraw:
		return "❌ Sai cú pháp ở một khoản! Ví dụ: 50k rau, 200k thịt\n👉 Nhập lại toàn bộ:"
	case model.ModeAwaitToolWithdraw:
		return "❌ Sai cú pháp! Ví dụ: 200k dao\n👉 Nhập lại:"
	default:
		return "❌ Sai cú pháp! Ví dụ: 50k hoặc 1m\n👉 Nhập lại:"
	}
}

// FormatResult renders a successful transaction reply.
func FormatResult(res *ledger.TxResult, actor model.Actor) string {
	switch {
	case res.Kind == model.KindDeposit && res.Fund == model.FundMain:
		return fmt.Sprintf("💰 NẠP %s\n🧾 %s — (%s)\n👉 Quỹ: %s",
			money.Format(res.Total), res.Entries[0].Description, actor.FirstName, money.Format(res.Balance))
	case res.Kind == model.KindDeposit:
		return fmt.Sprintf("🛠️ NẠP %s vào quỹ dụng cụ.\n👉 Quỹ dụng cụ: %s",
			money.Format(res.Total), money.Format(res.Balance))
	case res.Fund == model.FundTool:
		return fmt.Sprintf("🛠️ CHI %s — %s\n👉 Quỹ dụng cụ còn: %s",
			money.Format(res.Total), res.Entries[0].Description, money.Format(res.Balance))
	case res.Reset != nil:
		return fmt.Sprintf("🧾 CHI %s thành công.\n💵 Quỹ hiện tại: 0\n📦 Tự động backup và reset chu kỳ.",
			money.Format(res.Total))
	default:
		return fmt.Sprintf("🧾 CHI %s thành công!\n👉 Quỹ còn: %s",
			money.Format(res.Total), money.Format(res.Balance))
	}
}

// FormatUndo renders the undo confirmation with both live balances.
func FormatUndo(res *ledger.UndoResult) string {
	return fmt.Sprintf("🗑 HOÀN TÁC: %s — %s\n💵 Quỹ chính: %s\n🛠 Quỹ dụng cụ: %s",
		money.Format(res.Removed.Amount), res.Removed.Description,
		money.Format(res.MainBalance), money.Format(res.ToolBalance))
}

// FormatCleared renders the /clear confirmation.
func FormatCleared(deleted int) string {
	return fmt.Sprintf("🧹 Đã xoá %d tin nhắn bot. (Lịch sử quỹ không thay đổi)", deleted)
}

// FormatReport renders the monthly (or all-time) report: per fund, the
// deposit and withdrawal sections with totals and chronological entries,
// with an explicit "Không có" placeholder for empty sections.
func FormatReport(r *ledger.Report, loc *time.Location) string {
	var b strings.Builder

	if r.Period.IsZero() {
		b.WriteString("📊 *BÁO CÁO TOÀN BỘ*\n\n")
	} else {
		b.WriteString(fmt.Sprintf("📊 *BÁO CÁO THÁNG %02d/%d*\n\n", r.Period.Month, r.Period.Year))
	}

	b.WriteString("💰 *QUỸ CHÍNH*\n")
	writeFundSection(&b, r.Main, loc)
	b.WriteString(fmt.Sprintf("\n💵 Quỹ chính hiện tại: %s\n\n", money.Format(r.Main.Balance)))

	b.WriteString("🛠 *QUỸ DỤNG CỤ*\n")
	writeFundSection(&b, r.Tool, loc)
	b.WriteString(fmt.Sprintf("\n🧾 Quỹ dụng cụ hiện tại: %s", money.Format(r.Tool.Balance)))

	return b.String()
}

func writeFundSection(b *strings.Builder, fr ledger.FundReport, loc *time.Location) {
	b.WriteString(fmt.Sprintf("• Tổng nạp: %s\n", money.Format(fr.TotalDeposited)))
	writeEntries(b, "➕", fr.Deposits, loc)

	b.WriteString(fmt.Sprintf("\n• Tổng chi: %s\n", money.Format(fr.TotalWithdrawn)))
	writeEntries(b, "➖", fr.Withdrawals, loc)
}

func writeEntries(b *strings.Builder, marker string, entries []model.Transaction, loc *time.Location) {
	if len(entries) == 0 {
		b.WriteString("   Không có\n")
		return
	}
	for _, tx := range entries {
		b.WriteString(fmt.Sprintf("   %s %s — %s • %s\n",
			marker, money.Format(tx.Amount), tx.Description, tx.Time.In(loc).Format("02/01 15:04")))
	}
}

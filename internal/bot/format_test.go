package bot

import (
	"strings"
	"testing"
	"time"

	"FundKeeper/internal/ledger"
	"FundKeeper/internal/model"
)

func TestFormatReport_EmptySectionsShowPlaceholder(t *testing.T) {
	r := &ledger.Report{Period: ledger.Period{Year: 2025, Month: time.March}}
	text := FormatReport(r, time.UTC)

	if !strings.Contains(text, "BÁO CÁO THÁNG 03/2025") {
		t.Errorf("missing period header: %q", text)
	}
	if strings.Count(text, "Không có") != 4 {
		t.Errorf("want 4 empty-section placeholders, got %d", strings.Count(text, "Không có"))
	}
}

func TestFormatReport_EntriesAndTotals(t *testing.T) {
	r := &ledger.Report{
		Period: ledger.Period{Year: 2025, Month: time.March},
		Main: ledger.FundReport{
			Fund: model.FundMain,
			Deposits: []model.Transaction{
				{Amount: 100000, Description: "Nạp quỹ", Time: time.Date(2025, 3, 2, 9, 30, 0, 0, time.UTC)},
			},
			Withdrawals: []model.Transaction{
				{Amount: 30000, Description: "rau", Time: time.Date(2025, 3, 5, 18, 0, 0, 0, time.UTC)},
			},
			TotalDeposited: 100000,
			TotalWithdrawn: 30000,
			Balance:        70000,
		},
	}
	text := FormatReport(r, time.UTC)

	for _, want := range []string{
		"Tổng nạp: 100k",
		"Tổng chi: 30k",
		"➕ 100k — Nạp quỹ • 02/03 09:30",
		"➖ 30k — rau • 05/03 18:00",
		"Quỹ chính hiện tại: 70k",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("report missing %q:\n%s", want, text)
		}
	}
}

func TestMenu_AdminRows(t *testing.T) {
	member := Menu(false)
	admin := Menu(true)

	if len(admin.InlineKeyboard) != len(member.InlineKeyboard)+3 {
		t.Errorf("admin menu has %d rows, member %d, want +3",
			len(admin.InlineKeyboard), len(member.InlineKeyboard))
	}
	for _, row := range member.InlineKeyboard {
		for _, btn := range row {
			switch model.MenuAction(btn.CallbackData) {
			case model.ActionAddTool, model.ActionSpendTool, model.ActionExport:
				t.Errorf("member menu must not contain %s", btn.CallbackData)
			}
		}
	}
}

func TestCommand(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"/start", "/start"},
		{"/undo@fundkeeper_bot", "/undo"},
		{"  /Report extra words ", "/report"},
		{"50k rau", ""},
		{"", ""},
	}
	for _, tt := range tests {
		if got := command(tt.in); got != tt.want {
			t.Errorf("command(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

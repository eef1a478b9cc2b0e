// Package export renders the live ledger as a CSV document for on-demand
// download. Export never runs on the hot path of a transaction.
package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"time"

	"FundKeeper/internal/model"
)

var header = []string{"fund", "id", "time", "kind", "amount", "description", "actor"}

// RenderCSV serializes both funds' histories, main fund first, entries in
// chronological order, followed by one balance row per fund.
func RenderCSV(l *model.Ledger, loc *time.Location) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(header); err != nil {
		return nil, fmt.Errorf("write csv header: %w", err)
	}
	for _, id := range []model.FundID{model.FundMain, model.FundTool} {
		f := l.Fund(id)
		for _, tx := range f.History {
			row := []string{
				string(id),
				tx.ID,
				tx.Time.In(loc).Format("2006-01-02 15:04:05"),
				string(tx.Kind),
				fmt.Sprintf("%d", tx.Amount),
				tx.Description,
				tx.Actor,
			}
			if err := w.Write(row); err != nil {
				return nil, fmt.Errorf("write csv row: %w", err)
			}
		}
	}
	for _, id := range []model.FundID{model.FundMain, model.FundTool} {
		row := []string{string(id), "", "", "balance", fmt.Sprintf("%d", l.Fund(id).Balance), "", ""}
		if err := w.Write(row); err != nil {
			return nil, fmt.Errorf("write csv balance row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("flush csv: %w", err)
	}
	return buf.Bytes(), nil
}

// Filename returns a timestamped export file name.
func Filename(now time.Time) string {
	return "fund_export_" + now.Format("20060102_150405") + ".csv"
}

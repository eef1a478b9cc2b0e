package ledger

import (
	"time"

	"FundKeeper/internal/model"
)

// Period restricts a report to one calendar month in the deployment's time
// zone. The zero Period means all-time.
type Period struct {
	Year  int
	Month time.Month
}

// IsZero reports whether the period is the all-time filter.
func (p Period) IsZero() bool { return p.Year == 0 && p.Month == 0 }

// FundReport aggregates one fund's filtered history. Balance is the live
// balance, which reflects lifetime movements and may deliberately disagree
// with the period totals.
type FundReport struct {
	Fund           model.FundID
	Deposits       []model.Transaction
	Withdrawals    []model.Transaction
	TotalDeposited int64
	TotalWithdrawn int64
	Balance        int64
}

// Report holds both funds' aggregates for one period.
type Report struct {
	Period Period
	Main   FundReport
	Tool   FundReport
}

// BuildReport filters both funds' histories to the period and computes
// per-fund totals. Entries keep their chronological (insertion) order.
func (e *Engine) BuildReport(p Period) *Report {
	e.mu.Lock()
	defer e.mu.Unlock()
	return &Report{
		Period: p,
		Main:   e.buildFundReport(model.FundMain, p),
		Tool:   e.buildFundReport(model.FundTool, p),
	}
}

// MonthlyReport builds the report for the current calendar month.
func (e *Engine) MonthlyReport() *Report {
	now := e.now().In(e.loc)
	return e.BuildReport(Period{Year: now.Year(), Month: now.Month()})
}

func (e *Engine) buildFundReport(id model.FundID, p Period) FundReport {
	f := e.ledger.Fund(id)
	r := FundReport{Fund: id, Balance: f.Balance}
	for _, tx := range f.History {
		if !p.IsZero() {
			t := tx.Time.In(e.loc)
			if t.Year() != p.Year || t.Month() != p.Month {
				continue
			}
		}
		if tx.Kind == model.KindDeposit {
			r.Deposits = append(r.Deposits, tx)
			r.TotalDeposited += tx.Amount
		} else {
			r.Withdrawals = append(r.Withdrawals, tx)
			r.TotalWithdrawn += tx.Amount
		}
	}
	return r
}

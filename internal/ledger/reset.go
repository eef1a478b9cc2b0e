package ledger

import "FundKeeper/internal/model"

// CycleReset summarizes a period closed by a zero-balance withdrawal. The
// totals are computed from the archived snapshot, not the (now empty) live
// fund.
type CycleReset struct {
	ArchiveKey     string
	TotalDeposited int64
	TotalWithdrawn int64
	Entries        int
}

func summarizeCycle(f *model.Fund) *CycleReset {
	r := &CycleReset{Entries: len(f.History)}
	for _, tx := range f.History {
		if tx.Kind == model.KindDeposit {
			r.TotalDeposited += tx.Amount
		} else {
			r.TotalWithdrawn += tx.Amount
		}
	}
	return r
}

package recorder

import "FundKeeper/internal/model"

// TransactionEvent records one applied ledger transaction.
type TransactionEvent struct {
	ChatID       int64
	Fund         model.FundID
	Transaction  model.Transaction
	BalanceAfter int64
}

// UndoEvent records a reversed transaction.
type UndoEvent struct {
	ChatID       int64
	Fund         model.FundID
	Transaction  model.Transaction
	BalanceAfter int64
}

// ResetEvent records a cycle reset on the main fund.
type ResetEvent struct {
	ChatID         int64
	ArchiveKey     string
	TotalDeposited int64
	TotalWithdrawn int64
	Entries        int
}

// Recorder persists an audit trail for offline analysis. A recorder failure
// never fails the user-facing operation; callers log and continue.
type Recorder interface {
	RecordTransaction(evt *TransactionEvent) error
	RecordUndo(evt *UndoEvent) error
	RecordReset(evt *ResetEvent) error
	Close() error
}

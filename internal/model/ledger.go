package model

import "time"

// FundID identifies one of the pooled funds.
type FundID string

const (
	FundMain FundID = "main"
	FundTool FundID = "tool"
)

// TxKind distinguishes deposits from withdrawals. The sign of a movement is
// carried here; Transaction.Amount is always positive.
type TxKind string

const (
	KindDeposit  TxKind = "add"
	KindWithdraw TxKind = "spend"
)

// Transaction is one recorded deposit or withdrawal. Immutable once appended
// to a fund's history, except for removal of the tail entry by undo.
type Transaction struct {
	ID          string    `json:"id"`
	Time        time.Time `json:"time"`
	Kind        TxKind    `json:"kind"`
	Amount      int64     `json:"amount"`
	Description string    `json:"description"`
	Actor       string    `json:"actor"`
}

// Fund is a named pool of money. Balance equals the signed sum of all history
// entries since the last cycle reset.
type Fund struct {
	Balance int64         `json:"balance"`
	History []Transaction `json:"history"`
}

// Clone returns a deep copy of the fund.
func (f *Fund) Clone() *Fund {
	c := &Fund{Balance: f.Balance}
	if f.History != nil {
		c.History = make([]Transaction, len(f.History))
		copy(c.History, f.History)
	}
	return c
}

// Ledger is the whole durable fund record shared by a deployment.
type Ledger struct {
	Funds map[FundID]*Fund `json:"funds"`
}

// NewLedger returns an empty ledger.
func NewLedger() *Ledger {
	return &Ledger{Funds: make(map[FundID]*Fund)}
}

// Fund returns the fund with the given id, creating it with a zero balance on
// first use.
func (l *Ledger) Fund(id FundID) *Fund {
	if l.Funds == nil {
		l.Funds = make(map[FundID]*Fund)
	}
	f, ok := l.Funds[id]
	if !ok {
		f = &Fund{}
		l.Funds[id] = f
	}
	return f
}

// Clone returns a deep copy of the ledger.
func (l *Ledger) Clone() *Ledger {
	c := NewLedger()
	for id, f := range l.Funds {
		c.Funds[id] = f.Clone()
	}
	return c
}

// LastAction is the single per-chat undo slot: the most recently applied
// transaction and which fund it touched. A new transaction overwrites it.
type LastAction struct {
	Fund   FundID `json:"fund"`
	Kind   TxKind `json:"kind"`
	Amount int64  `json:"amount"`
}

// LastActionTable maps chat id to its undo slot.
type LastActionTable map[int64]*LastAction

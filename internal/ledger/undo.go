package ledger

import (
	"fmt"
	"log"

	"FundKeeper/internal/model"
)

// UndoResult describes a reversed transaction.
type UndoResult struct {
	Removed     model.Transaction
	Fund        model.FundID
	MainBalance int64
	ToolBalance int64
}

// Undo reverses the chat's single most recent transaction: the balance delta
// is reversed on the recorded fund and the tail entry of that fund's history
// is removed. Strictly single-level: the slot is cleared afterwards, so a
// second call with no new transaction fails with ErrNothingToUndo instead of
// double-reversing.
func (e *Engine) Undo(chatID int64, actor model.Actor) (*UndoResult, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	la := e.lastActions[chatID]
	if la == nil {
		return nil, ErrNothingToUndo
	}
	hist := e.ledger.Fund(la.Fund).History
	if len(hist) == 0 {
		// Stale slot, e.g. after a cycle reset archived the entry away.
		delete(e.lastActions, chatID)
		if err := e.store.SaveLastActions(e.lastActions); err != nil {
			log.Printf("[WARN] persist last actions: %v", err)
		}
		return nil, ErrNothingToUndo
	}

	tail := hist[len(hist)-1]
	if e.policy.EnforceUndoOwner && tail.Actor != "" && !model.SameIdentity(tail.Actor, actor.Display()) {
		return nil, ErrForbidden
	}

	next := e.ledger.Clone()
	f := next.Fund(la.Fund)
	f.History = f.History[:len(f.History)-1]
	if tail.Kind == model.KindDeposit {
		f.Balance -= tail.Amount
	} else {
		f.Balance += tail.Amount
	}

	if err := e.store.SaveLedger(next); err != nil {
		return nil, fmt.Errorf("persist ledger: %w", err)
	}
	e.ledger = next
	delete(e.lastActions, chatID)
	if err := e.store.SaveLastActions(e.lastActions); err != nil {
		log.Printf("[WARN] persist last actions: %v", err)
	}

	return &UndoResult{
		Removed:     tail,
		Fund:        la.Fund,
		MainBalance: next.Fund(model.FundMain).Balance,
		ToolBalance: next.Fund(model.FundTool).Balance,
	}, nil
}

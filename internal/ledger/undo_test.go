package ledger

import (
	"errors"
	"reflect"
	"testing"

	"FundKeeper/internal/model"
)

func TestUndo_IsExactInverse(t *testing.T) {
	e, _ := newTestEngine(t, DefaultPolicy())
	selectMode(t, e, member, model.ActionAddMain)
	if _, err := e.HandleText(model.TextInput{ChatID: chat, Actor: member, Text: "100k"}); err != nil {
		t.Fatalf("seed: %v", err)
	}
	before := e.Snapshot().Fund(model.FundMain)

	selectMode(t, e, member, model.ActionSpendMain)
	if _, err := e.HandleText(model.TextInput{ChatID: chat, Actor: member, Text: "30k rau"}); err != nil {
		t.Fatalf("withdraw: %v", err)
	}

	res, err := e.Undo(chat, member)
	if err != nil {
		t.Fatalf("Undo: %v", err)
	}
	if res.Removed.Amount != 30_000 || res.Removed.Kind != model.KindWithdraw {
		t.Errorf("unexpected removed entry: %+v", res.Removed)
	}

	after := e.Snapshot().Fund(model.FundMain)
	if after.Balance != before.Balance {
		t.Errorf("balance = %d, want %d", after.Balance, before.Balance)
	}
	if !reflect.DeepEqual(after.History, before.History) {
		t.Errorf("history not restored:\n got %+v\nwant %+v", after.History, before.History)
	}
}

func TestUndo_SecondCallFails(t *testing.T) {
	e, _ := newTestEngine(t, DefaultPolicy())
	selectMode(t, e, member, model.ActionAddMain)
	if _, err := e.HandleText(model.TextInput{ChatID: chat, Actor: member, Text: "100k"}); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if _, err := e.Undo(chat, member); err != nil {
		t.Fatalf("first undo: %v", err)
	}
	if _, err := e.Undo(chat, member); !errors.Is(err, ErrNothingToUndo) {
		t.Fatalf("second undo should fail with ErrNothingToUndo, got %v", err)
	}
}

func TestUndo_EmptySlot(t *testing.T) {
	e, _ := newTestEngine(t, DefaultPolicy())
	if _, err := e.Undo(chat, member); !errors.Is(err, ErrNothingToUndo) {
		t.Fatalf("expected ErrNothingToUndo, got %v", err)
	}
}

func TestUndo_OwnerEnforcement(t *testing.T) {
	e, _ := newTestEngine(t, Policy{EnforceUndoOwner: true})
	selectMode(t, e, member, model.ActionAddMain)
	if _, err := e.HandleText(model.TextInput{ChatID: chat, Actor: member, Text: "100k"}); err != nil {
		t.Fatalf("seed: %v", err)
	}

	if _, err := e.Undo(chat, admin); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden for a different actor, got %v", err)
	}
	if _, err := e.Undo(chat, member); err != nil {
		t.Fatalf("owner undo: %v", err)
	}
}

func TestUndo_OwnerCheckSkippedByPolicy(t *testing.T) {
	e, _ := newTestEngine(t, Policy{EnforceUndoOwner: false})
	selectMode(t, e, member, model.ActionAddMain)
	if _, err := e.HandleText(model.TextInput{ChatID: chat, Actor: member, Text: "100k"}); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if _, err := e.Undo(chat, admin); err != nil {
		t.Fatalf("undo by another actor should pass without owner enforcement: %v", err)
	}
}

func TestUndo_ReversesDeposit(t *testing.T) {
	e, _ := newTestEngine(t, DefaultPolicy())
	selectMode(t, e, admin, model.ActionAddTool)
	if _, err := e.HandleText(model.TextInput{ChatID: chat, Actor: admin, Text: "300k"}); err != nil {
		t.Fatalf("seed: %v", err)
	}

	res, err := e.Undo(chat, admin)
	if err != nil {
		t.Fatalf("Undo: %v", err)
	}
	if res.Fund != model.FundTool || res.ToolBalance != 0 {
		t.Errorf("unexpected result: %+v", res)
	}
}

// Undo reverses the last *transaction*, not the last user action: after a
// two-entry withdrawal batch, undo removes only the batch's final entry.
func TestUndo_LastTransactionNotLastBatch(t *testing.T) {
	e, _ := newTestEngine(t, DefaultPolicy())

	selectMode(t, e, member, model.ActionAddMain)
	if _, err := e.HandleText(model.TextInput{ChatID: chat, Actor: member, Text: "100k A"}); err != nil {
		t.Fatalf("deposit: %v", err)
	}
	main, _ := e.Balances()
	if main != 100_000 {
		t.Fatalf("balance = %d, want 100000", main)
	}

	selectMode(t, e, member, model.ActionSpendMain)
	if _, err := e.HandleText(model.TextInput{ChatID: chat, Actor: member, Text: "30k rau, 20k thit"}); err != nil {
		t.Fatalf("batch withdraw: %v", err)
	}
	main, _ = e.Balances()
	if main != 50_000 {
		t.Fatalf("balance = %d, want 50000", main)
	}
	if n := len(e.Snapshot().Fund(model.FundMain).History); n != 3 {
		t.Fatalf("history length = %d, want 3", n)
	}

	res, err := e.Undo(chat, member)
	if err != nil {
		t.Fatalf("Undo: %v", err)
	}
	if res.Removed.Amount != 20_000 || res.Removed.Description != "thit" {
		t.Errorf("undo should remove the batch's final entry, removed %+v", res.Removed)
	}
	main, _ = e.Balances()
	if main != 70_000 {
		t.Errorf("balance = %d, want 70000", main)
	}
	if n := len(e.Snapshot().Fund(model.FundMain).History); n != 2 {
		t.Errorf("history length = %d, want 2", n)
	}
}

// After a cycle reset the closing entry lives only in the archive; the undo
// slot is stale and must report nothing to undo rather than corrupting the
// fresh period.
func TestUndo_StaleSlotAfterCycleReset(t *testing.T) {
	e, _ := newTestEngine(t, DefaultPolicy())
	selectMode(t, e, member, model.ActionAddMain)
	if _, err := e.HandleText(model.TextInput{ChatID: chat, Actor: member, Text: "100k"}); err != nil {
		t.Fatalf("seed: %v", err)
	}
	selectMode(t, e, member, model.ActionSpendMain)
	res, err := e.HandleText(model.TextInput{ChatID: chat, Actor: member, Text: "100k tất toán"})
	if err != nil {
		t.Fatalf("closing withdrawal: %v", err)
	}
	if res.Reset == nil {
		t.Fatal("expected a cycle reset")
	}

	if _, err := e.Undo(chat, member); !errors.Is(err, ErrNothingToUndo) {
		t.Fatalf("expected ErrNothingToUndo on stale slot, got %v", err)
	}
	live := e.Snapshot().Fund(model.FundMain)
	if live.Balance != 0 || len(live.History) != 0 {
		t.Errorf("fresh period corrupted: balance=%d history=%d", live.Balance, len(live.History))
	}
}

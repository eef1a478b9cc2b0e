// Package ledger implements the shared-fund state machine: per-chat mode
// tracking, transaction application, single-step undo, monthly reports, and
// the zero-balance cycle reset.
package ledger

import (
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"FundKeeper/internal/model"
	"FundKeeper/internal/money"
)

// Store is the persistence boundary. Every record loads whole with a default
// when absent and saves whole, last write wins.
type Store interface {
	LoadLedger() (*model.Ledger, error)
	SaveLedger(*model.Ledger) error
	LoadModes() (model.ModeTable, error)
	SaveModes(model.ModeTable) error
	LoadLastActions() (model.LastActionTable, error)
	SaveLastActions(model.LastActionTable) error
	ArchiveLedger(key string, l *model.Ledger) error
}

// AdminOracle answers whether an actor administers a chat.
type AdminOracle interface {
	IsAdmin(chatID int64, actor model.Actor) bool
}

// Default descriptions recorded when the user omits one.
const (
	descDepositMain  = "Nạp quỹ"
	descDepositTool  = "Nạp quỹ dụng cụ"
	descWithdrawMain = "Chi tiêu"
	descWithdrawTool = "Chi dụng cụ"
)

// Engine drives all ledger mutations. One mutex guards ledger, modes, and
// undo slots together, so each request is a single atomic read-modify-write
// unit: append + balance update + mode transition commit together or not at
// all.
type Engine struct {
	mu     sync.Mutex
	store  Store
	oracle AdminOracle
	policy Policy
	loc    *time.Location
	now    func() time.Time

	ledger      *model.Ledger
	modes       model.ModeTable
	lastActions model.LastActionTable
}

// NewEngine loads all persisted records and returns a ready engine.
func NewEngine(store Store, oracle AdminOracle, policy Policy, loc *time.Location) (*Engine, error) {
	l, err := store.LoadLedger()
	if err != nil {
		return nil, fmt.Errorf("load ledger: %w", err)
	}
	modes, err := store.LoadModes()
	if err != nil {
		return nil, fmt.Errorf("load modes: %w", err)
	}
	actions, err := store.LoadLastActions()
	if err != nil {
		return nil, fmt.Errorf("load last actions: %w", err)
	}
	return &Engine{
		store:       store,
		oracle:      oracle,
		policy:      policy,
		loc:         loc,
		now:         time.Now,
		ledger:      l,
		modes:       modes,
		lastActions: actions,
	}, nil
}

// TxResult describes a successfully applied transaction (or batch).
type TxResult struct {
	Fund    model.FundID
	Kind    model.TxKind
	Entries []model.Transaction
	Total   int64
	Balance int64
	Reset   *CycleReset
}

// SelectMode handles a menu selection that arms an input mode. Tool-fund
// modes are admin-gated; a rejected attempt changes nothing.
func (e *Engine) SelectMode(ev model.MenuSelection) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	var mode model.Mode
	switch ev.Action {
	case model.ActionAddMain:
		mode = model.ModeAwaitMainDeposit
	case model.ActionSpendMain:
		mode = model.ModeAwaitMainWithdraw
	case model.ActionAddTool, model.ActionSpendTool:
		if !e.oracle.IsAdmin(ev.ChatID, ev.Actor) {
			return ErrForbidden
		}
		if ev.Action == model.ActionAddTool {
			mode = model.ModeAwaitToolDeposit
		} else {
			mode = model.ModeAwaitToolWithdraw
		}
	default:
		return fmt.Errorf("action %q does not arm a mode", ev.Action)
	}

	e.modes[ev.ChatID] = mode
	if err := e.store.SaveModes(e.modes); err != nil {
		delete(e.modes, ev.ChatID)
		return fmt.Errorf("persist modes: %w", err)
	}
	return nil
}

// Mode returns the chat's current expected-input mode.
func (e *Engine) Mode(chatID int64) model.Mode {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.modes[chatID]
}

// HandleText consumes a text input against the chat's armed mode. A parse or
// validation failure leaves the mode armed so the user can retry in place;
// only a successful transaction clears it.
func (e *Engine) HandleText(ev model.TextInput) (*TxResult, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	switch e.modes[ev.ChatID] {
	case model.ModeAwaitMainDeposit:
		return e.applyDeposit(ev, model.FundMain, descDepositMain)
	case model.ModeAwaitToolDeposit:
		if !e.oracle.IsAdmin(ev.ChatID, ev.Actor) {
			return nil, ErrForbidden
		}
		return e.applyDeposit(ev, model.FundTool, descDepositTool)
	case model.ModeAwaitMainWithdraw:
		return e.applyMainWithdraw(ev)
	case model.ModeAwaitToolWithdraw:
		if !e.oracle.IsAdmin(ev.ChatID, ev.Actor) {
			return nil, ErrForbidden
		}
		return e.applyToolWithdraw(ev)
	default:
		return nil, ErrNoActiveMode
	}
}

// Balances returns the live balances of both funds.
func (e *Engine) Balances() (main, tool int64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.ledger.Fund(model.FundMain).Balance, e.ledger.Fund(model.FundTool).Balance
}

// Snapshot returns a deep copy of the live ledger, for export.
func (e *Engine) Snapshot() *model.Ledger {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.ledger.Clone()
}

func (e *Engine) applyDeposit(ev model.TextInput, fund model.FundID, defaultDesc string) (*TxResult, error) {
	text := strings.TrimSpace(ev.Text)
	token := strings.SplitN(text, " ", 2)[0]
	amount, err := money.Parse(token, e.policy.AllowBareAmount)
	if err != nil {
		return nil, err
	}
	desc := strings.TrimSpace(strings.TrimPrefix(text, token))
	if desc == "" {
		desc = defaultDesc
	}
	return e.commit(ev.ChatID, fund, []model.Transaction{
		e.newTransaction(model.KindDeposit, amount, desc, ev.Actor),
	})
}

// applyMainWithdraw accepts one or more comma-separated "<amount> <desc>"
// entries. The batch is all-or-nothing: one bad entry rejects the whole
// message with no partial application.
func (e *Engine) applyMainWithdraw(ev model.TextInput) (*TxResult, error) {
	var items []string
	for _, it := range strings.Split(ev.Text, ",") {
		if it = strings.TrimSpace(it); it != "" {
			items = append(items, it)
		}
	}
	if len(items) == 0 {
		return nil, &money.ParseError{Token: ev.Text}
	}

	entries := make([]model.Transaction, 0, len(items))
	for _, it := range items {
		tx, err := e.parseWithdrawEntry(it, descWithdrawMain, ev.Actor)
		if err != nil {
			return nil, err
		}
		entries = append(entries, tx)
	}
	return e.commit(ev.ChatID, model.FundMain, entries)
}

// applyToolWithdraw accepts a single "<amount> <desc>" entry.
func (e *Engine) applyToolWithdraw(ev model.TextInput) (*TxResult, error) {
	tx, err := e.parseWithdrawEntry(strings.TrimSpace(ev.Text), descWithdrawTool, ev.Actor)
	if err != nil {
		return nil, err
	}
	return e.commit(ev.ChatID, model.FundTool, []model.Transaction{tx})
}

func (e *Engine) parseWithdrawEntry(item, defaultDesc string, actor model.Actor) (model.Transaction, error) {
	token := strings.SplitN(item, " ", 2)[0]
	amount, err := money.Parse(token, e.policy.AllowBareAmount)
	if err != nil {
		return model.Transaction{}, err
	}
	desc := strings.TrimSpace(strings.TrimPrefix(item, token))
	if desc == "" {
		if e.policy.RequireWithdrawDescription {
			return model.Transaction{}, ErrDescriptionRequired
		}
		desc = defaultDesc
	}
	return e.newTransaction(model.KindWithdraw, amount, desc, actor), nil
}

func (e *Engine) newTransaction(kind model.TxKind, amount int64, desc string, actor model.Actor) model.Transaction {
	return model.Transaction{
		ID:          uuid.NewString(),
		Time:        e.now().In(e.loc),
		Kind:        kind,
		Amount:      amount,
		Description: desc,
		Actor:       actor.Display(),
	}
}

// commit applies entries to a cloned ledger, runs the cycle-reset check,
// persists, and only then swaps the new state in. A failed write leaves the
// in-memory state untouched so the transaction is never reported committed.
func (e *Engine) commit(chatID int64, fundID model.FundID, entries []model.Transaction) (*TxResult, error) {
	next := e.ledger.Clone()
	f := next.Fund(fundID)
	var total int64
	for _, tx := range entries {
		f.History = append(f.History, tx)
		if tx.Kind == model.KindDeposit {
			f.Balance += tx.Amount
		} else {
			f.Balance -= tx.Amount
		}
		total += tx.Amount
	}

	last := entries[len(entries)-1]
	res := &TxResult{
		Fund:    fundID,
		Kind:    last.Kind,
		Entries: entries,
		Total:   total,
		Balance: f.Balance,
	}

	// Cycle reset: a main-fund withdrawal landing on exactly zero closes
	// the period. The full pre-reset record (including the closing batch)
	// is archived verbatim before the live history is cleared.
	if fundID == model.FundMain && last.Kind == model.KindWithdraw && f.Balance == 0 {
		reset := summarizeCycle(f)
		reset.ArchiveKey = "backup_" + e.now().In(e.loc).Format("20060102_150405")
		if err := e.store.ArchiveLedger(reset.ArchiveKey, next.Clone()); err != nil {
			return nil, fmt.Errorf("archive cycle: %w", err)
		}
		f.History = nil
		res.Reset = reset
	}

	if err := e.store.SaveLedger(next); err != nil {
		return nil, fmt.Errorf("persist ledger: %w", err)
	}
	e.ledger = next
	e.lastActions[chatID] = &model.LastAction{Fund: fundID, Kind: last.Kind, Amount: last.Amount}
	delete(e.modes, chatID)
	if err := e.store.SaveLastActions(e.lastActions); err != nil {
		log.Printf("[WARN] persist last actions: %v", err)
	}
	if err := e.store.SaveModes(e.modes); err != nil {
		log.Printf("[WARN] persist modes: %v", err)
	}
	return res, nil
}

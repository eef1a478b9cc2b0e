// Package bot turns Telegram updates into ledger operations and ledger
// results into chat replies. Updates are decoded once at this boundary into
// menu-selection and text-input events; the engine below never sees
// transport types.
package bot

import (
	"errors"
	"log"
	"time"

	"FundKeeper/internal/export"
	"FundKeeper/internal/ledger"
	"FundKeeper/internal/model"
	"FundKeeper/internal/money"
	"FundKeeper/internal/notifier"
	"FundKeeper/internal/recorder"
)

// Sender delivers outbound messages. *notifier.Client implements it.
type Sender interface {
	SendMessage(chatID int64, text string, markup *notifier.InlineKeyboardMarkup) (int, error)
	DeleteMessage(chatID int64, messageID int) error
	SendDocument(chatID int64, filename string, data []byte, caption string) error
	AnswerCallbackQuery(callbackID string) error
}

// MessageLog persists ids of bot-sent messages so /clear can delete them.
type MessageLog interface {
	LoadMessages() ([]model.SentMessage, error)
	SaveMessages([]model.SentMessage) error
}

// Handler routes updates between Telegram and the ledger engine.
type Handler struct {
	engine *ledger.Engine
	sender Sender
	oracle ledger.AdminOracle
	rec    recorder.Recorder
	msgLog MessageLog
	loc    *time.Location
	now    func() time.Time
}

// NewHandler wires the update dispatcher.
func NewHandler(engine *ledger.Engine, sender Sender, oracle ledger.AdminOracle, rec recorder.Recorder, msgLog MessageLog, loc *time.Location) *Handler {
	return &Handler{
		engine: engine,
		sender: sender,
		oracle: oracle,
		rec:    rec,
		msgLog: msgLog,
		loc:    loc,
		now:    time.Now,
	}
}

// HandleUpdate dispatches one inbound update. Every failure path replies to
// the user; nothing here is fatal to the process.
func (h *Handler) HandleUpdate(u notifier.Update) {
	switch {
	case u.CallbackQuery != nil:
		h.handleCallback(u.CallbackQuery)
	case u.Message != nil:
		h.handleMessage(u.Message)
	}
}

func (h *Handler) handleCallback(cq *notifier.CallbackQuery) {
	if cq.Message == nil || cq.From == nil {
		return
	}
	if err := h.sender.AnswerCallbackQuery(cq.ID); err != nil {
		log.Printf("[WARN] answer callback: %v", err)
	}

	ev := model.MenuSelection{
		ChatID: cq.Message.Chat.ID,
		Actor:  actorOf(cq.From),
		Action: model.MenuAction(cq.Data),
	}

	switch ev.Action {
	case model.ActionAddMain, model.ActionSpendMain, model.ActionAddTool, model.ActionSpendTool:
		h.armMode(ev)
	case model.ActionReport:
		h.sendAndLog(ev.ChatID, FormatReport(h.engine.MonthlyReport(), h.loc), nil)
	case model.ActionUndo:
		h.doUndo(ev.ChatID, ev.Actor)
	case model.ActionClear:
		h.doClear(ev.ChatID, ev.Actor)
	case model.ActionExport:
		h.doExport(ev.ChatID, ev.Actor)
	default:
		log.Printf("[WARN] unknown menu action %q in chat %d", cq.Data, ev.ChatID)
	}
}

func (h *Handler) armMode(ev model.MenuSelection) {
	if err := h.engine.SelectMode(ev); err != nil {
		if errors.Is(err, ledger.ErrForbidden) {
			h.sendAndLog(ev.ChatID, msgAdminOnly, nil)
			return
		}
		log.Printf("[ERROR] select mode %s: %v", ev.Action, err)
		h.sendAndLog(ev.ChatID, msgInternalError, nil)
		return
	}
	h.sendAndLog(ev.ChatID, modePrompt(ev.Action), nil)
}

func (h *Handler) handleMessage(msg *notifier.Message) {
	if msg.From == nil || msg.Text == "" {
		return
	}
	chatID := msg.Chat.ID
	actor := actorOf(msg.From)

	switch command(msg.Text) {
	case "/start":
		h.sendMenu(chatID, actor)
		return
	case "/undo":
		h.doUndo(chatID, actor)
		return
	case "/clear":
		h.doClear(chatID, actor)
		return
	case "/report":
		h.sendAndLog(chatID, FormatReport(h.engine.MonthlyReport(), h.loc), nil)
		return
	case "/export":
		h.doExport(chatID, actor)
		return
	}

	res, err := h.engine.HandleText(model.TextInput{ChatID: chatID, Actor: actor, Text: msg.Text})
	if err != nil {
		h.replyTextFailure(chatID, actor, err)
		return
	}

	h.recordResult(chatID, res)
	h.sendAndLog(chatID, FormatResult(res, actor), nil)
	h.sendMenu(chatID, actor)
}

// replyTextFailure maps an engine failure onto a user-facing reply. Parse
// and description failures keep the mode armed, so the reply invites a
// corrected resubmission.
func (h *Handler) replyTextFailure(chatID int64, actor model.Actor, err error) {
	var pe *money.ParseError
	switch {
	case errors.As(err, &pe):
		h.sendAndLog(chatID, retryPrompt(h.engine.Mode(chatID)), nil)
	case errors.Is(err, ledger.ErrDescriptionRequired):
		h.sendAndLog(chatID, msgDescriptionRequired, nil)
	case errors.Is(err, ledger.ErrNoActiveMode):
		h.sendAndLog(chatID, msgPickFunctionFirst, nil)
		h.sendMenu(chatID, actor)
	case errors.Is(err, ledger.ErrForbidden):
		h.sendAndLog(chatID, msgAdminOnly, nil)
	default:
		log.Printf("[ERROR] handle text in chat %d: %v", chatID, err)
		h.sendAndLog(chatID, msgInternalError, nil)
	}
}

func (h *Handler) doUndo(chatID int64, actor model.Actor) {
	res, err := h.engine.Undo(chatID, actor)
	switch {
	case errors.Is(err, ledger.ErrNothingToUndo):
		h.sendAndLog(chatID, msgNothingToUndo, nil)
		return
	case errors.Is(err, ledger.ErrForbidden):
		h.sendAndLog(chatID, msgUndoNotOwner, nil)
		return
	case err != nil:
		log.Printf("[ERROR] undo in chat %d: %v", chatID, err)
		h.sendAndLog(chatID, msgInternalError, nil)
		return
	}

	balance := res.MainBalance
	if res.Fund == model.FundTool {
		balance = res.ToolBalance
	}
	if err := h.rec.RecordUndo(&recorder.UndoEvent{
		ChatID:       chatID,
		Fund:         res.Fund,
		Transaction:  res.Removed,
		BalanceAfter: balance,
	}); err != nil {
		log.Printf("[ERROR] record undo: %v", err)
	}

	h.sendAndLog(chatID, FormatUndo(res), nil)
	h.sendMenu(chatID, actor)
}

func (h *Handler) doClear(chatID int64, actor model.Actor) {
	if !h.oracle.IsAdmin(chatID, actor) {
		h.sendAndLog(chatID, msgAdminOnly, nil)
		return
	}

	msgs, err := h.msgLog.LoadMessages()
	if err != nil {
		log.Printf("[ERROR] load message log: %v", err)
		h.sendAndLog(chatID, msgInternalError, nil)
		return
	}
	deleted := 0
	for _, m := range msgs {
		if err := h.sender.DeleteMessage(m.ChatID, m.MessageID); err != nil {
			log.Printf("[WARN] delete message %d in chat %d: %v", m.MessageID, m.ChatID, err)
			continue
		}
		deleted++
	}
	if err := h.msgLog.SaveMessages(nil); err != nil {
		log.Printf("[ERROR] reset message log: %v", err)
	}

	h.sendAndLog(chatID, FormatCleared(deleted), nil)
	h.sendMenu(chatID, actor)
}

func (h *Handler) doExport(chatID int64, actor model.Actor) {
	if !h.oracle.IsAdmin(chatID, actor) {
		h.sendAndLog(chatID, msgAdminOnly, nil)
		return
	}

	data, err := export.RenderCSV(h.engine.Snapshot(), h.loc)
	if err != nil {
		log.Printf("[ERROR] render export: %v", err)
		h.sendAndLog(chatID, msgInternalError, nil)
		return
	}
	name := export.Filename(h.now().In(h.loc))
	if err := h.sender.SendDocument(chatID, name, data, msgExportCaption); err != nil {
		log.Printf("[ERROR] send export document: %v", err)
		h.sendAndLog(chatID, msgInternalError, nil)
	}
}

// PushMonthlyReport sends the current month's report unprompted, used by the
// scheduled first-of-month push.
func (h *Handler) PushMonthlyReport(chatID int64) {
	h.sendAndLog(chatID, FormatReport(h.engine.MonthlyReport(), h.loc), nil)
}

func (h *Handler) recordResult(chatID int64, res *ledger.TxResult) {
	for _, tx := range res.Entries {
		if err := h.rec.RecordTransaction(&recorder.TransactionEvent{
			ChatID:       chatID,
			Fund:         res.Fund,
			Transaction:  tx,
			BalanceAfter: res.Balance,
		}); err != nil {
			log.Printf("[ERROR] record transaction: %v", err)
		}
	}
	if res.Reset != nil {
		if err := h.rec.RecordReset(&recorder.ResetEvent{
			ChatID:         chatID,
			ArchiveKey:     res.Reset.ArchiveKey,
			TotalDeposited: res.Reset.TotalDeposited,
			TotalWithdrawn: res.Reset.TotalWithdrawn,
			Entries:        res.Reset.Entries,
		}); err != nil {
			log.Printf("[ERROR] record reset: %v", err)
		}
	}
}

func (h *Handler) sendMenu(chatID int64, actor model.Actor) {
	h.sendAndLog(chatID, msgPickFunction, Menu(h.oracle.IsAdmin(chatID, actor)))
}

// sendAndLog delivers a message and records its id for later /clear.
func (h *Handler) sendAndLog(chatID int64, text string, markup *notifier.InlineKeyboardMarkup) {
	id, err := h.sender.SendMessage(chatID, text, markup)
	if err != nil {
		log.Printf("[ERROR] send message to chat %d: %v", chatID, err)
		return
	}
	msgs, err := h.msgLog.LoadMessages()
	if err != nil {
		log.Printf("[WARN] load message log: %v", err)
		return
	}
	msgs = append(msgs, model.SentMessage{ChatID: chatID, MessageID: id})
	if err := h.msgLog.SaveMessages(msgs); err != nil {
		log.Printf("[WARN] save message log: %v", err)
	}
}

func actorOf(u *notifier.User) model.Actor {
	return model.Actor{ID: u.ID, Username: u.Username, FirstName: u.FirstName}
}

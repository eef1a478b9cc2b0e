package model

import "strings"

// Mode is the expected-next-input state for a chat.
type Mode string

const (
	ModeNone              Mode = ""
	ModeAwaitMainDeposit  Mode = "add_quy"
	ModeAwaitMainWithdraw Mode = "chi_tieu"
	ModeAwaitToolDeposit  Mode = "add_dc"
	ModeAwaitToolWithdraw Mode = "spend_dc"
)

// ModeTable maps chat id to its current mode.
type ModeTable map[int64]Mode

// MenuAction is a button press decoded from a callback query.
type MenuAction string

const (
	ActionAddMain   MenuAction = "add_quy"
	ActionSpendMain MenuAction = "chi_tieu"
	ActionAddTool   MenuAction = "add_dc"
	ActionSpendTool MenuAction = "spend_dc"
	ActionReport    MenuAction = "report_all"
	ActionUndo      MenuAction = "undo"
	ActionClear     MenuAction = "clear_msgs"
	ActionExport    MenuAction = "export"
)

// Actor is the reporting user as seen by the chat platform. Username is a
// handle without the leading "@" and may be empty.
type Actor struct {
	ID        int64
	Username  string
	FirstName string
}

// Display returns the identity recorded on transactions: "@username" when the
// user has a handle, otherwise the first name. Display names are not stable
// ids; two users sharing one are indistinguishable here.
func (a Actor) Display() string {
	if a.Username != "" {
		return "@" + a.Username
	}
	return a.FirstName
}

// SameIdentity reports whether two recorded display identities refer to the
// same user, ignoring case and a leading "@".
func SameIdentity(a, b string) bool {
	norm := func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, "@"))
	}
	return norm(a) == norm(b)
}

// MenuSelection is a menu-button event from the inbound feed.
type MenuSelection struct {
	ChatID int64
	Actor  Actor
	Action MenuAction
}

// TextInput is a free-text event from the inbound feed.
type TextInput struct {
	ChatID int64
	Actor  Actor
	Text   string
}

// SentMessage records one bot-sent message so it can be deleted later.
type SentMessage struct {
	ChatID    int64 `json:"chat_id"`
	MessageID int   `json:"msg_id"`
}

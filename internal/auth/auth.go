// Package auth answers whether an actor administers a chat: a static
// username allow-list first, then a live chat-membership query with the
// allow-list as the only fallback when the query fails.
package auth

import (
	"log"
	"strings"

	"FundKeeper/internal/model"
)

// MemberSource queries the chat platform for a member's status.
type MemberSource interface {
	GetChatMember(chatID, userID int64) (string, error)
}

// Allowlist grants admin to a fixed set of usernames (without "@").
type Allowlist struct {
	usernames map[string]struct{}
}

// NewAllowlist builds an allow-list; entries are case-insensitive and may
// carry a leading "@".
func NewAllowlist(usernames []string) *Allowlist {
	set := make(map[string]struct{}, len(usernames))
	for _, u := range usernames {
		u = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(u), "@"))
		if u != "" {
			set[u] = struct{}{}
		}
	}
	return &Allowlist{usernames: set}
}

// IsAdmin reports whether the actor's username is on the list.
func (a *Allowlist) IsAdmin(_ int64, actor model.Actor) bool {
	if actor.Username == "" {
		return false
	}
	_, ok := a.usernames[strings.ToLower(actor.Username)]
	return ok
}

// ChatAdmins grants admin to allow-listed usernames and to live
// administrators/creators of the chat.
type ChatAdmins struct {
	source MemberSource
	static *Allowlist
}

// NewChatAdmins combines a live member source with a static allow-list.
func NewChatAdmins(source MemberSource, static *Allowlist) *ChatAdmins {
	return &ChatAdmins{source: source, static: static}
}

// IsAdmin checks the allow-list first, then queries the chat. A failed query
// denies rather than guesses.
func (c *ChatAdmins) IsAdmin(chatID int64, actor model.Actor) bool {
	if c.static.IsAdmin(chatID, actor) {
		return true
	}
	status, err := c.source.GetChatMember(chatID, actor.ID)
	if err != nil {
		log.Printf("[WARN] chat member lookup failed for chat %d: %v", chatID, err)
		return false
	}
	return status == "administrator" || status == "creator"
}

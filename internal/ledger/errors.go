package ledger

import "errors"

// Request-scoped failures. None of these leave a fund's balance inconsistent
// with its history; the caller turns them into user-facing replies.
var (
	// ErrForbidden means the acting identity is not an administrator for
	// an admin-gated operation. The chat's mode is left untouched.
	ErrForbidden = errors.New("not allowed")

	// ErrNothingToUndo means the chat has no undo slot, or the slot's
	// fund history is already empty.
	ErrNothingToUndo = errors.New("nothing to undo")

	// ErrNoActiveMode means text arrived while no input was expected.
	ErrNoActiveMode = errors.New("no active mode")

	// ErrDescriptionRequired means a withdrawal entry carried no
	// description under the description-mandatory policy. Recoverable:
	// the mode is kept so the user can resubmit.
	ErrDescriptionRequired = errors.New("description required")
)

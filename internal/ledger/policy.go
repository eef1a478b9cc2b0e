package ledger

// Policy collects the per-deployment behavior switches observed across
// installations. Every option is explicit here instead of living in
// divergent copies of the engine.
type Policy struct {
	// AllowBareAmount accepts suffixless digit tokens ("50") as raw
	// amounts. When false a recognized suffix (k/m/tr/ty) is mandatory.
	AllowBareAmount bool

	// RequireWithdrawDescription rejects withdrawal entries that carry no
	// description instead of defaulting one.
	RequireWithdrawDescription bool

	// EnforceUndoOwner restricts undo to the identity that recorded the
	// transaction being reversed.
	EnforceUndoOwner bool
}

// DefaultPolicy matches the primary deployment: suffix mandatory,
// withdrawal descriptions defaulted, undo restricted to the owner.
func DefaultPolicy() Policy {
	return Policy{
		AllowBareAmount:            false,
		RequireWithdrawDescription: false,
		EnforceUndoOwner:           true,
	}
}

package remote

import "cosmossdk.io/errors"

const codespace = "remote"

// The data source error taxonomy. Every DataSource implementation maps
// its failures onto exactly one of these sentinels (wrapped with
// call-site detail), so callers can branch with errors.Is instead of
// parsing messages.
var (
	// ErrNetwork is a transient transport-level failure. The request
	// may never have reached the remote.
	ErrNetwork = errors.Register(codespace, 1, "network failure")

	// ErrServer means the remote received the request and rejected it
	// or failed internally.
	ErrServer = errors.Register(codespace, 2, "server error")

	// ErrValidation means the payload was rejected before or at the
	// remote.
	ErrValidation = errors.Register(codespace, 3, "validation failed")

	// ErrNotFound means the target entity is absent remotely during
	// update. Delete never returns it; absent deletes succeed.
	ErrNotFound = errors.Register(codespace, 4, "not found")
)

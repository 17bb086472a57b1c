package cache

import "cosmossdk.io/errors"

const codespace = "cache"

var (
	// ErrIDConflict means the data source returned a created item
	// whose id collides with an existing entry. That is a contract
	// violation of the source and surfaces as an error, never as a
	// silent overwrite.
	ErrIDConflict = errors.Register(codespace, 1, "data source returned a duplicate id")

	// ErrClosed means the cache has been closed and no longer accepts
	// state-changing operations.
	ErrClosed = errors.Register(codespace, 2, "cache is closed")
)

package remote

import (
	"context"

	"github.com/krisalay/observable-cache/types"
)

// DataSource is the contract between the cache and the remote system of
// record. This can be a REST API, a database, or any external call.
type DataSource interface {

	/*
		List returns the full remote collection, in the order the
		remote considers canonical. The cache replaces its items with
		exactly this sequence on a successful fetch.

		Fails with ErrNetwork or ErrServer.
	*/
	List(ctx context.Context) ([]types.Item, error)

	/*
		Create stores a new item remotely and returns the canonical
		version, with the ID assigned by the remote. The cache appends
		the RETURNED item, never the candidate it was given.

		Fails with ErrNetwork, ErrServer or ErrValidation.
	*/
	Create(ctx context.Context, item types.Item) (types.Item, error)

	/*
		Update replaces the remote item with the same ID and returns
		the canonical version.

		Fails with ErrNetwork, ErrServer, ErrValidation, or
		ErrNotFound if the ID no longer exists remotely.
	*/
	Update(ctx context.Context, item types.Item) (types.Item, error)

	/*
		Delete removes the item with the given ID. Deleting an ID that
		does not exist remotely is SUCCESS, not an error. This keeps
		delete idempotent end to end.

		Fails with ErrNetwork or ErrServer.
	*/
	Delete(ctx context.Context, id string) error
}

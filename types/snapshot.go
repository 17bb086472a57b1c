package types

import "time"

// Status is the fetch/mutation state of the cache.
type Status string

const (
	// StatusIdle means no operation is in flight and the last one (if any) succeeded.
	StatusIdle Status = "idle"

	// StatusLoading means exactly one operation is currently in flight.
	StatusLoading Status = "loading"

	// StatusError means the last operation failed. Items keep their
	// last known-good contents; Err and ErrorMessage carry the failure.
	StatusError Status = "error"
)

/*
Snapshot is an immutable copy of the cache's state.

Observers receive a Snapshot on every state transition. A Snapshot
never aliases the cache's internal storage, so holding on to one
(or mutating its Items slice) cannot affect the cache.

Invariants maintained by the cache:
- Items contains no two entries with the same ID
- ErrorMessage is non-empty exactly when Status is StatusError
- Err is the structured error behind ErrorMessage, nil otherwise
- LastFetchTime is zero until the first successful fetch
*/
type Snapshot struct {
	Items         []Item    `json:"items"`
	Status        Status    `json:"status"`
	ErrorMessage  string    `json:"error_message,omitempty"`
	LastFetchTime time.Time `json:"last_fetch_time,omitempty"`

	// Err preserves the structured error so callers can branch on the
	// failure taxonomy with errors.Is instead of parsing ErrorMessage.
	Err error `json:"-"`
}

// Clone returns a deep copy of the snapshot. Items is copied into a
// fresh slice; Item itself contains only value fields.
func (s Snapshot) Clone() Snapshot {
	out := s
	if s.Items != nil {
		out.Items = make([]Item, len(s.Items))
		copy(out.Items, s.Items)
	}
	return out
}

// HasFetched reports whether the cache has completed at least one
// successful fetch.
func (s Snapshot) HasFetched() bool {
	return !s.LastFetchTime.IsZero()
}

// IndexOf returns the position of the item with the given id, or -1.
func (s Snapshot) IndexOf(id string) int {
	for i, it := range s.Items {
		if it.ID == id {
			return i
		}
	}
	return -1
}

package types

import (
	"strings"
	"time"
)

// Priority levels for categorizing items.
type Priority string

const (
	PriorityLow      Priority = "low"
	PriorityMedium   Priority = "medium"
	PriorityHigh     Priority = "high"
	PriorityCritical Priority = "critical"
)

// ItemState tracks the lifecycle of an item's payload.
// The cache itself never inspects it; it exists for consumers.
type ItemState string

const (
	StatePending    ItemState = "pending"
	StateInProgress ItemState = "in_progress"
	StateCompleted  ItemState = "completed"
	StateCancelled  ItemState = "cancelled"
)

/*
Item is a uniquely identified record managed by the cache.

The cache only ever inspects ID, Title and Description.
Everything else is opaque payload that travels through the
cache untouched:
- The remote data source assigns and owns the canonical values
- The cache stores whatever the source returns
- Observers receive copies, never the cache's own storage
*/
type Item struct {
	// ID uniquely identifies the item and is stable for its lifetime.
	// It is assigned by the remote data source on create.
	ID string `json:"id"`

	// Title and Description are display fields. Both may be empty.
	// Search matches against these two fields only.
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`

	// Payload fields below are opaque to the cache.
	Priority Priority  `json:"priority,omitempty"`
	State    ItemState `json:"status,omitempty"`

	CreatedAt   time.Time `json:"created_at,omitempty"`
	UpdatedAt   time.Time `json:"updated_at,omitempty"`
	DueDate     time.Time `json:"due_date,omitempty"`
	CompletedAt time.Time `json:"completed_at,omitempty"`
}

// Matches reports whether the query is a case-insensitive substring
// of the item's title or description. An empty query matches everything.
func (it Item) Matches(query string) bool {
	if query == "" {
		return true
	}
	q := strings.ToLower(query)
	return strings.Contains(strings.ToLower(it.Title), q) ||
		strings.Contains(strings.ToLower(it.Description), q)
}

// IsOverdue reports whether the item has a due date in the past
// and has not been completed.
func (it Item) IsOverdue(now time.Time) bool {
	if it.DueDate.IsZero() || it.State == StateCompleted {
		return false
	}
	return now.After(it.DueDate)
}

// Complete marks the item's payload as completed at the given time.
func (it *Item) Complete(now time.Time) {
	it.State = StateCompleted
	it.CompletedAt = now
	it.UpdatedAt = now
}

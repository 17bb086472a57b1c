package remote

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/krisalay/observable-cache/types"
)

// Op identifies one DataSource operation for fault injection and call
// counting.
type Op string

const (
	OpList   Op = "list"
	OpCreate Op = "create"
	OpUpdate Op = "update"
	OpDelete Op = "delete"
)

// Validation limits, matching the remote API's contract.
const (
	maxTitleLen       = 255
	maxDescriptionLen = 2000
)

/*
MemorySource is an in-memory DataSource.

It is the reference implementation of the DataSource contract and the
backing source for tests, the demo and the benchmark:
- Assigns UUIDs on create, like a real remote would
- Enforces the API's validation rules
- Preserves insertion order in List
- Supports per-operation fault injection and call counting
*/
type MemorySource struct {
	mu    sync.Mutex
	items map[string]types.Item
	order []string

	calls map[Op]int
	fail  map[Op]error

	// hook, when set, runs at the start of every operation, before the
	// lock is taken. Tests use it to park an operation in flight.
	hook func(Op)
}

func NewMemorySource() *MemorySource {
	return &MemorySource{
		items: make(map[string]types.Item),
		order: make([]string, 0),
		calls: make(map[Op]int),
		fail:  make(map[Op]error),
	}
}

// Seed loads items directly into the source, bypassing validation.
// IDs without a value get one assigned.
func (s *MemorySource) Seed(items ...types.Item) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, it := range items {
		if it.ID == "" {
			it.ID = uuid.NewString()
		}
		if _, ok := s.items[it.ID]; !ok {
			s.order = append(s.order, it.ID)
		}
		s.items[it.ID] = it
	}
}

// FailWith arms the given operation to fail once with err.
// The failure is consumed by the next call of that operation.
func (s *MemorySource) FailWith(op Op, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fail[op] = err
}

// Calls returns how many times the given operation has been invoked.
func (s *MemorySource) Calls(op Op) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[op]
}

// SetHook installs fn to run at the start of every operation.
func (s *MemorySource) SetHook(fn func(Op)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hook = fn
}

// begin records the call, runs the hook, and pops an armed failure.
func (s *MemorySource) begin(ctx context.Context, op Op) error {
	s.mu.Lock()
	s.calls[op]++
	hook := s.hook
	s.mu.Unlock()

	if hook != nil {
		hook(op)
	}

	if err := ctx.Err(); err != nil {
		return ErrNetwork.Wrap(err.Error())
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fail[op]; err != nil {
		delete(s.fail, op)
		return err
	}
	return nil
}

func (s *MemorySource) List(ctx context.Context) ([]types.Item, error) {
	if err := s.begin(ctx, OpList); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]types.Item, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.items[id])
	}
	return out, nil
}

func (s *MemorySource) Create(ctx context.Context, item types.Item) (types.Item, error) {
	if err := s.begin(ctx, OpCreate); err != nil {
		return types.Item{}, err
	}

	if err := validate(item); err != nil {
		return types.Item{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// The source owns ID assignment. A caller-provided ID is accepted
	// only if it is not already taken.
	if item.ID == "" {
		item.ID = uuid.NewString()
	} else if _, exists := s.items[item.ID]; exists {
		return types.Item{}, ErrValidation.Wrapf("id %q already exists", item.ID)
	}

	now := time.Now()
	item.CreatedAt = now
	item.UpdatedAt = now
	if item.Priority == "" {
		item.Priority = types.PriorityMedium
	}
	if item.State == "" {
		item.State = types.StatePending
	}

	s.items[item.ID] = item
	s.order = append(s.order, item.ID)
	return item, nil
}

func (s *MemorySource) Update(ctx context.Context, item types.Item) (types.Item, error) {
	if err := s.begin(ctx, OpUpdate); err != nil {
		return types.Item{}, err
	}

	if err := validate(item); err != nil {
		return types.Item{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.items[item.ID]
	if !ok {
		return types.Item{}, ErrNotFound.Wrapf("id %q", item.ID)
	}

	item.CreatedAt = existing.CreatedAt
	item.UpdatedAt = time.Now()
	if item.State == types.StateCompleted && existing.State != types.StateCompleted {
		item.CompletedAt = item.UpdatedAt
	}

	s.items[item.ID] = item
	return item, nil
}

func (s *MemorySource) Delete(ctx context.Context, id string) error {
	if err := s.begin(ctx, OpDelete); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Deleting an absent id is success by contract.
	if _, ok := s.items[id]; !ok {
		return nil
	}

	delete(s.items, id)
	for i, existing := range s.order {
		if existing == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}

// validate enforces the remote API's payload rules.
func validate(item types.Item) error {
	if strings.TrimSpace(item.Title) == "" {
		return ErrValidation.Wrap("title cannot be empty")
	}
	if len(item.Title) > maxTitleLen {
		return ErrValidation.Wrapf("title must be %d characters or less", maxTitleLen)
	}
	if len(item.Description) > maxDescriptionLen {
		return ErrValidation.Wrapf("description must be %d characters or less", maxDescriptionLen)
	}
	return nil
}

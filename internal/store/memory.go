package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryTable is an in-process Table. Every successful write publishes
// a change on the hub, the way the database triggers do for Postgres.
type MemoryTable[T any] struct {
	kind Kind[T]
	hub  *Hub
	now  func() time.Time

	mu   sync.Mutex
	rows []T
}

func NewMemoryTable[T any](kind Kind[T], hub *Hub) *MemoryTable[T] {
	return &MemoryTable[T]{kind: kind, hub: hub, now: time.Now}
}

func (t *MemoryTable[T]) List(_ context.Context, owner string, order Order) ([]T, error) {
	idx := t.kind.column(order.Field)
	if idx < 0 {
		return nil, fmt.Errorf("%w %q on %s", ErrUnknownColumn, order.Field, t.kind.Table)
	}

	t.mu.Lock()
	out := []T{}
	for _, r := range t.rows {
		if t.kind.Owner(r) == owner {
			out = append(out, r)
		}
	}
	t.mu.Unlock()

	sort.SliceStable(out, func(i, j int) bool {
		if order.Desc {
			return t.kind.after(&out[i], &out[j], idx)
		}
		return t.kind.after(&out[j], &out[i], idx)
	})
	return out, nil
}

func (t *MemoryTable[T]) Insert(_ context.Context, rec T) (T, error) {
	t.kind.SetID(&rec, uuid.NewString())
	t.kind.Stamp(&rec, t.now().UTC())

	t.mu.Lock()
	t.rows = append(t.rows, rec)
	t.mu.Unlock()

	t.hub.Publish(Change{Table: t.kind.Table, Owner: t.kind.Owner(rec), Event: EventInsert})
	return rec, nil
}

func (t *MemoryTable[T]) Update(_ context.Context, owner, id string, patch Patch) (T, error) {
	var zero T
	if _, err := t.kind.patchColumns(patch); err != nil {
		return zero, err
	}

	t.mu.Lock()
	i := t.find(owner, id)
	if i < 0 {
		t.mu.Unlock()
		return zero, ErrNotFound
	}
	updated, err := applyPatch(t.rows[i], patch)
	if err != nil {
		t.mu.Unlock()
		return zero, err
	}
	t.kind.SetID(&updated, id)
	t.kind.SetOwner(&updated, owner)
	t.rows[i] = updated
	t.mu.Unlock()

	t.hub.Publish(Change{Table: t.kind.Table, Owner: owner, Event: EventUpdate})
	return updated, nil
}

// Adjust adds delta to the integer column of owner's row id.
func (t *MemoryTable[T]) Adjust(_ context.Context, owner, id, column string, delta int) (T, error) {
	var zero T
	idx, err := t.kind.intColumn(column)
	if err != nil {
		return zero, err
	}

	t.mu.Lock()
	i := t.find(owner, id)
	if i < 0 {
		t.mu.Unlock()
		return zero, ErrNotFound
	}
	rec := t.rows[i]
	v := t.kind.Fields(&rec)[idx].(*int)
	if *v+delta < 0 {
		t.mu.Unlock()
		return zero, ErrInvalidQuantityChange
	}
	*v += delta
	t.rows[i] = rec
	t.mu.Unlock()

	t.hub.Publish(Change{Table: t.kind.Table, Owner: owner, Event: EventUpdate})
	return rec, nil
}

func (t *MemoryTable[T]) Delete(_ context.Context, owner, id string) error {
	t.mu.Lock()
	i := t.find(owner, id)
	if i < 0 {
		t.mu.Unlock()
		return ErrNotFound
	}
	t.rows = append(t.rows[:i], t.rows[i+1:]...)
	t.mu.Unlock()

	t.hub.Publish(Change{Table: t.kind.Table, Owner: owner, Event: EventDelete})
	return nil
}

func (t *MemoryTable[T]) Subscribe(ctx context.Context, owner string, events Event) (*Subscription, error) {
	return t.hub.Subscribe(ctx, t.kind.Table, owner, events), nil
}

// Len returns the number of rows across all owners.
func (t *MemoryTable[T]) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.rows)
}

func (t *MemoryTable[T]) find(owner, id string) int {
	for i, r := range t.rows {
		if t.kind.ID(r) == id && t.kind.Owner(r) == owner {
			return i
		}
	}
	return -1
}

// applyPatch merges patch into rec through its JSON form, so values
// decoded from a request body land in the right Go types.
func applyPatch[T any](rec T, patch Patch) (T, error) {
	var out T
	raw, err := json.Marshal(rec)
	if err != nil {
		return out, err
	}
	fields := map[string]any{}
	if err := json.Unmarshal(raw, &fields); err != nil {
		return out, err
	}
	for k, v := range patch {
		fields[k] = v
	}
	if raw, err = json.Marshal(fields); err != nil {
		return out, err
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return out, fmt.Errorf("invalid patch: %w", err)
	}
	return out, nil
}

// Package store is the remote-store collaborator: owner-scoped tables of
// records plus a push stream of table change notifications.
package store

import (
	"context"
	"errors"
)

var (
	ErrNotFound      = errors.New("record not found")
	ErrUnknownColumn = errors.New("unknown column")

	ErrInvalidQuantityChange = errors.New("quantity cannot go below zero")
)

// Order is a list ordering on one column.
type Order struct {
	Field string
	Desc  bool
}

// Patch is a partial record keyed by column name.
type Patch map[string]any

// Table is one resource kind in the remote store. Reads, updates and
// deletes only ever see rows owned by owner.
type Table[T any] interface {
	List(ctx context.Context, owner string, order Order) ([]T, error)
	Insert(ctx context.Context, rec T) (T, error)
	Update(ctx context.Context, owner, id string, patch Patch) (T, error)
	Delete(ctx context.Context, owner, id string) error
	// Subscribe delivers changes to owner's rows only.
	Subscribe(ctx context.Context, owner string, events Event) (*Subscription, error)
}

// Adjuster is implemented by tables that can move an integer column by a
// delta in one step. The result is never allowed below zero.
type Adjuster[T any] interface {
	Adjust(ctx context.Context, owner, id, column string, delta int) (T, error)
}

package store

import (
	"fmt"
	"slices"
	"sort"
	"time"
)

// Kind describes how records of type T map onto a table. Columns lists
// every column in scan order and must start with "id", "user_id".
// Fields returns pointers to rec's fields in the same order.
type Kind[T any] struct {
	Table   string
	OrderBy string
	Columns []string
	Fields  func(rec *T) []any
	// Stamp fills store-assigned defaults on insert.
	Stamp func(rec *T, now time.Time)
}

func (k Kind[T]) ID(rec T) string {
	return *k.Fields(&rec)[0].(*string)
}

func (k Kind[T]) Owner(rec T) string {
	return *k.Fields(&rec)[1].(*string)
}

func (k Kind[T]) SetID(rec *T, id string) {
	*k.Fields(rec)[0].(*string) = id
}

func (k Kind[T]) SetOwner(rec *T, owner string) {
	*k.Fields(rec)[1].(*string) = owner
}

func (k Kind[T]) column(name string) int {
	return slices.Index(k.Columns, name)
}

// intColumn returns the index of the writable integer column name.
func (k Kind[T]) intColumn(name string) (int, error) {
	if idx := k.column(name); idx > 1 {
		var zero T
		if _, ok := k.Fields(&zero)[idx].(*int); ok {
			return idx, nil
		}
	}
	return -1, fmt.Errorf("%w %q on %s: not an integer column", ErrUnknownColumn, name, k.Table)
}

// patchColumns validates p against the writable columns and returns its
// keys sorted.
func (k Kind[T]) patchColumns(p Patch) ([]string, error) {
	cols := make([]string, 0, len(p))
	for c := range p {
		if c == "id" || c == "user_id" || k.column(c) < 0 {
			return nil, fmt.Errorf("%w %q on %s", ErrUnknownColumn, c, k.Table)
		}
		cols = append(cols, c)
	}
	sort.Strings(cols)
	return cols, nil
}

// after reports whether a sorts after b on column idx.
func (k Kind[T]) after(a, b *T, idx int) bool {
	switch av := k.Fields(a)[idx].(type) {
	case *time.Time:
		return av.After(*k.Fields(b)[idx].(*time.Time))
	case *string:
		return *av > *k.Fields(b)[idx].(*string)
	case *float64:
		return *av > *k.Fields(b)[idx].(*float64)
	case *int:
		return *av > *k.Fields(b)[idx].(*int)
	}
	return false
}

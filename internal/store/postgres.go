package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/google/uuid"
)

const queryTimeout = 3 * time.Second

// PostgresTable stores records in a table laid out as described by its
// Kind. Change notifications do not come from here: triggers emit them
// and the Listener forwards them to the hub.
type PostgresTable[T any] struct {
	db   *sql.DB
	kind Kind[T]
	hub  *Hub
	now  func() time.Time
}

func NewPostgresTable[T any](db *sql.DB, kind Kind[T], hub *Hub) *PostgresTable[T] {
	return &PostgresTable[T]{db: db, kind: kind, hub: hub, now: time.Now}
}

func (t *PostgresTable[T]) List(ctx context.Context, owner string, order Order) ([]T, error) {
	if t.kind.column(order.Field) < 0 {
		return nil, fmt.Errorf("%w %q on %s", ErrUnknownColumn, order.Field, t.kind.Table)
	}
	dir := "ASC"
	if order.Desc {
		dir = "DESC"
	}
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE user_id = $1 ORDER BY %s %s`,
		t.columnList(), t.kind.Table, order.Field, dir)

	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	rows, err := t.db.QueryContext(ctx, query, owner)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	out := []T{}
	for rows.Next() {
		var rec T
		if err := rows.Scan(t.kind.Fields(&rec)...); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return out, nil
}

func (t *PostgresTable[T]) Insert(ctx context.Context, rec T) (T, error) {
	t.kind.SetID(&rec, uuid.NewString())
	t.kind.Stamp(&rec, t.now().UTC())

	placeholders := make([]string, len(t.kind.Columns))
	for i := range placeholders {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
	}
	query := fmt.Sprintf(`INSERT INTO %s (%s) VALUES (%s) RETURNING %s`,
		t.kind.Table, t.columnList(), strings.Join(placeholders, ", "), t.columnList())

	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var out T
	err := t.db.QueryRowContext(ctx, query, values(t.kind.Fields(&rec))...).Scan(t.kind.Fields(&out)...)
	if err != nil {
		return out, fmt.Errorf("db error: %w", err)
	}
	return out, nil
}

func (t *PostgresTable[T]) Update(ctx context.Context, owner, id string, patch Patch) (T, error) {
	var out T
	cols, err := t.kind.patchColumns(patch)
	if err != nil {
		return out, err
	}
	if len(cols) == 0 {
		return out, fmt.Errorf("%w: empty patch on %s", ErrUnknownColumn, t.kind.Table)
	}

	sets := make([]string, len(cols))
	args := make([]any, 0, len(cols)+2)
	for i, c := range cols {
		sets[i] = fmt.Sprintf("%s = $%d", c, i+1)
		args = append(args, patch[c])
	}
	args = append(args, id, owner)
	query := fmt.Sprintf(`UPDATE %s SET %s WHERE id = $%d AND user_id = $%d RETURNING %s`,
		t.kind.Table, strings.Join(sets, ", "), len(cols)+1, len(cols)+2, t.columnList())

	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	err = t.db.QueryRowContext(ctx, query, args...).Scan(t.kind.Fields(&out)...)
	if errors.Is(err, sql.ErrNoRows) {
		return out, ErrNotFound
	}
	if err != nil {
		return out, fmt.Errorf("db error: %w", err)
	}
	return out, nil
}

// Adjust adds delta to the integer column of owner's row id in a single
// statement, refusing results below zero.
func (t *PostgresTable[T]) Adjust(ctx context.Context, owner, id, column string, delta int) (T, error) {
	var out T
	if _, err := t.kind.intColumn(column); err != nil {
		return out, err
	}
	query := fmt.Sprintf(`UPDATE %s SET %s = %s + $1 WHERE id = $2 AND user_id = $3 AND %s + $1 >= 0 RETURNING %s`,
		t.kind.Table, column, column, column, t.columnList())

	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	err := t.db.QueryRowContext(ctx, query, delta, id, owner).Scan(t.kind.Fields(&out)...)
	if errors.Is(err, sql.ErrNoRows) {
		return out, t.rejected(ctx, owner, id)
	}
	if err != nil {
		return out, fmt.Errorf("db error: %w", err)
	}
	return out, nil
}

// rejected tells a missing row apart from an adjustment the guard refused.
func (t *PostgresTable[T]) rejected(ctx context.Context, owner, id string) error {
	query := fmt.Sprintf(`SELECT EXISTS (SELECT 1 FROM %s WHERE id = $1 AND user_id = $2)`, t.kind.Table)

	var exists bool
	if err := t.db.QueryRowContext(ctx, query, id, owner).Scan(&exists); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if !exists {
		return ErrNotFound
	}
	return ErrInvalidQuantityChange
}

func (t *PostgresTable[T]) Delete(ctx context.Context, owner, id string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE id = $1 AND user_id = $2`, t.kind.Table)

	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	res, err := t.db.ExecContext(ctx, query, id, owner)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	rowsAffected, _ := res.RowsAffected()
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (t *PostgresTable[T]) Subscribe(ctx context.Context, owner string, events Event) (*Subscription, error) {
	return t.hub.Subscribe(ctx, t.kind.Table, owner, events), nil
}

func (t *PostgresTable[T]) columnList() string {
	return strings.Join(t.kind.Columns, ", ")
}

// values dereferences the field pointers returned by Kind.Fields.
func values(ptrs []any) []any {
	out := make([]any, len(ptrs))
	for i, p := range ptrs {
		out[i] = reflect.ValueOf(p).Elem().Interface()
	}
	return out
}

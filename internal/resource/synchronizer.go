// Package resource keeps an owner-scoped, ordered local cache of one
// record kind in sync with the remote store.
package resource

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/rogerio-castellano/sabiboss/internal/notify"
	"github.com/rogerio-castellano/sabiboss/internal/session"
	"github.com/rogerio-castellano/sabiboss/internal/store"
)

var ErrNoIdentity = errors.New("not signed in")

// Identities supplies the current identity. *session.Provider
// implements it.
type Identities interface {
	Current() (session.Identity, bool)
	Watch() (<-chan session.Snapshot, func())
}

// Synchronizer is the cache of one resource kind. Writes patch the
// cache from the store's response; change notifications, including the
// ones caused by its own writes, trigger a full re-fetch.
type Synchronizer[T any] struct {
	table    store.Table[T]
	kind     store.Kind[T]
	ids      Identities
	notifier notify.Notifier
	logger   *slog.Logger
	msgs     Messages

	// ops serializes writes and re-fetches.
	ops sync.Mutex

	mu      sync.RWMutex
	items   []T
	loading bool
}

func New[T any](table store.Table[T], kind store.Kind[T], ids Identities, notifier notify.Notifier, logger *slog.Logger, msgs Messages) *Synchronizer[T] {
	if logger == nil {
		logger = slog.Default()
	}
	return &Synchronizer[T]{
		table:    table,
		kind:     kind,
		ids:      ids,
		notifier: notifier,
		logger:   logger.With("table", kind.Table),
		msgs:     msgs,
		loading:  true,
	}
}

// Items returns a copy of the cache in display order.
func (s *Synchronizer[T]) Items() []T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.items)
}

// Find returns the cached record with id.
func (s *Synchronizer[T]) Find(id string) (T, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := s.indexLocked(id); i >= 0 {
		return s.items[i], true
	}
	var zero T
	return zero, false
}

func (s *Synchronizer[T]) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// Create inserts rec for the current identity and prepends the stored
// record. Without an identity it fails without touching the store.
func (s *Synchronizer[T]) Create(ctx context.Context, rec T) bool {
	_, ok := s.Insert(ctx, rec)
	return ok
}

// Insert is Create returning the stored record.
func (s *Synchronizer[T]) Insert(ctx context.Context, rec T) (T, bool) {
	var zero T
	s.ops.Lock()
	defer s.ops.Unlock()

	id, ok := s.ids.Current()
	if !ok {
		return zero, false
	}

	s.kind.SetOwner(&rec, id.UserID)
	created, err := s.table.Insert(ctx, rec)
	if err != nil {
		s.fail(ctx, "create", err, s.msgs.CreateFailed)
		return zero, false
	}

	s.mu.Lock()
	s.items = slices.Insert(s.items, 0, created)
	s.mu.Unlock()

	s.notifierFor(ctx).Success(s.msgs.Created)
	return created, true
}

// Update applies patch to the record with id and replaces the cached
// entry in place. The cache is not re-sorted.
func (s *Synchronizer[T]) Update(ctx context.Context, id string, patch store.Patch) bool {
	_, ok := s.Patch(ctx, id, patch)
	return ok
}

// Patch is Update returning the stored record.
func (s *Synchronizer[T]) Patch(ctx context.Context, id string, patch store.Patch) (T, bool) {
	var zero T
	s.ops.Lock()
	defer s.ops.Unlock()

	ident, ok := s.ids.Current()
	if !ok {
		s.fail(ctx, "update", ErrNoIdentity, s.msgs.UpdateFailed)
		return zero, false
	}

	updated, err := s.table.Update(ctx, ident.UserID, id, patch)
	if err != nil {
		s.fail(ctx, "update", err, s.msgs.UpdateFailed)
		return zero, false
	}

	s.replace(id, updated)
	s.notifierFor(ctx).Success(s.msgs.Updated)
	return updated, true
}

// Adjust moves the integer column of the record with id by delta in the
// store and replaces the cached entry in place. Tables that are not a
// store.Adjuster reject it with store.ErrUnknownColumn.
func (s *Synchronizer[T]) Adjust(ctx context.Context, id, column string, delta int) (T, error) {
	var zero T
	s.ops.Lock()
	defer s.ops.Unlock()

	ident, ok := s.ids.Current()
	if !ok {
		s.fail(ctx, "adjust", ErrNoIdentity, s.msgs.UpdateFailed)
		return zero, ErrNoIdentity
	}

	adj, ok := s.table.(store.Adjuster[T])
	if !ok {
		err := fmt.Errorf("%w %q: %s cannot be adjusted", store.ErrUnknownColumn, column, s.kind.Table)
		s.fail(ctx, "adjust", err, s.msgs.UpdateFailed)
		return zero, err
	}
	updated, err := adj.Adjust(ctx, ident.UserID, id, column, delta)
	if err != nil {
		s.fail(ctx, "adjust", err, s.msgs.UpdateFailed)
		return zero, err
	}

	s.replace(id, updated)
	s.notifierFor(ctx).Success(s.msgs.Updated)
	return updated, nil
}

func (s *Synchronizer[T]) Delete(ctx context.Context, id string) bool {
	s.ops.Lock()
	defer s.ops.Unlock()

	ident, ok := s.ids.Current()
	if !ok {
		s.fail(ctx, "delete", ErrNoIdentity, s.msgs.DeleteFailed)
		return false
	}

	if err := s.table.Delete(ctx, ident.UserID, id); err != nil {
		s.fail(ctx, "delete", err, s.msgs.DeleteFailed)
		return false
	}

	s.mu.Lock()
	if i := s.indexLocked(id); i >= 0 {
		s.items = slices.Delete(s.items, i, i+1)
	}
	s.mu.Unlock()

	s.notifierFor(ctx).Success(s.msgs.Deleted)
	return true
}

// Refetch re-runs the list query and replaces the cache wholesale.
// Errors are logged and returned, never notified.
func (s *Synchronizer[T]) Refetch(ctx context.Context) error {
	s.ops.Lock()
	defer s.ops.Unlock()

	id, ok := s.ids.Current()
	if !ok {
		s.reset()
		return ErrNoIdentity
	}

	s.mu.Lock()
	s.loading = true
	s.mu.Unlock()

	items, err := s.table.List(ctx, id.UserID, store.Order{Field: s.kind.OrderBy, Desc: true})

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false
	if err != nil {
		s.logger.Error("refetch failed", "user_id", id.UserID, "error", err)
		return err
	}
	s.items = items
	return nil
}

// Run follows the identity until ctx ends. While one is present it
// holds a subscription to the identity's rows and re-fetches on every
// change.
func (s *Synchronizer[T]) Run(ctx context.Context) {
	snaps, cancel := s.ids.Watch()
	defer cancel()

	var (
		owner   string
		sub     *store.Subscription
		changes <-chan store.Change
	)
	closeSub := func() {
		if sub != nil {
			sub.Close()
			sub, changes = nil, nil
		}
	}
	defer closeSub()

	for {
		select {
		case <-ctx.Done():
			return

		case snap, ok := <-snaps:
			if !ok {
				return
			}
			next := ""
			if snap.Identity != nil {
				next = snap.Identity.UserID
			}
			if snap.State == session.Loading || next == owner {
				continue
			}

			closeSub()
			if owner != "" {
				s.reset()
			}
			owner = next
			if owner == "" {
				continue
			}

			var err error
			sub, err = s.table.Subscribe(ctx, owner, store.EventAll)
			if err != nil {
				s.logger.Error("subscribe failed", "user_id", owner, "error", err)
			} else {
				changes = sub.C
			}
			_ = s.Refetch(ctx)

		case change, ok := <-changes:
			if !ok {
				changes = nil
				continue
			}
			s.logger.Debug("change received", "event", change.Event.String())
			_ = s.Refetch(ctx)
		}
	}
}

func (s *Synchronizer[T]) reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = nil
	s.loading = false
}

func (s *Synchronizer[T]) replace(id string, rec T) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.indexLocked(id); i >= 0 {
		s.items[i] = rec
	}
}

func (s *Synchronizer[T]) indexLocked(id string) int {
	return slices.IndexFunc(s.items, func(rec T) bool { return s.kind.ID(rec) == id })
}

// notifierFor is the notifier, or a discarding one when ctx was marked
// with notify.Silence.
func (s *Synchronizer[T]) notifierFor(ctx context.Context) notify.Notifier {
	if notify.Silenced(ctx) {
		return notify.Discard
	}
	return s.notifier
}

func (s *Synchronizer[T]) fail(ctx context.Context, op string, err error, fallback string) {
	s.logger.Warn(op+" failed", "error", err)
	if errors.Is(err, ErrNoIdentity) {
		s.notifierFor(ctx).Error(fallback)
		return
	}
	s.notifierFor(ctx).Error(notify.Message(err, fallback))
}

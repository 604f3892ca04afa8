package store

import (
	"context"
	"strings"
	"sync"
)

// Event is a bit set of row change kinds.
type Event uint8

const (
	EventInsert Event = 1 << iota
	EventUpdate
	EventDelete

	EventAll = EventInsert | EventUpdate | EventDelete
)

func (e Event) String() string {
	switch e {
	case EventInsert:
		return "INSERT"
	case EventUpdate:
		return "UPDATE"
	case EventDelete:
		return "DELETE"
	case EventAll:
		return "*"
	}
	return "UNKNOWN"
}

// ParseEvent maps a trigger operation name (TG_OP) to an Event.
func ParseEvent(op string) (Event, bool) {
	switch strings.ToUpper(op) {
	case "INSERT":
		return EventInsert, true
	case "UPDATE":
		return EventUpdate, true
	case "DELETE":
		return EventDelete, true
	}
	return 0, false
}

// Change tells a subscriber that some row of Table owned by Owner
// changed. It does not say which one.
type Change struct {
	Table string `json:"table"`
	Owner string `json:"user_id"`
	Event Event  `json:"event"`
}

// Hub fans table changes out to subscribers. Delivery never blocks the
// publisher: each subscription buffers a single pending change and
// further changes are coalesced into it.
type Hub struct {
	mu   sync.Mutex
	subs map[string]map[*Subscription]struct{}
}

func NewHub() *Hub {
	return &Hub{subs: make(map[string]map[*Subscription]struct{})}
}

type Subscription struct {
	C <-chan Change

	c      chan Change
	table  string
	owner  string
	events Event
	hub    *Hub
	once   sync.Once
	stop   func() bool
}

// Subscribe registers for changes on table matching events and made to
// rows of owner. An empty owner receives changes of every owner. The
// subscription is closed when ctx ends or Close is called.
func (h *Hub) Subscribe(ctx context.Context, table, owner string, events Event) *Subscription {
	s := &Subscription{
		c:      make(chan Change, 1),
		table:  table,
		owner:  owner,
		events: events,
		hub:    h,
	}
	s.C = s.c

	h.mu.Lock()
	if h.subs[table] == nil {
		h.subs[table] = make(map[*Subscription]struct{})
	}
	h.subs[table][s] = struct{}{}
	h.mu.Unlock()

	stop := context.AfterFunc(ctx, s.Close)
	h.mu.Lock()
	s.stop = stop
	h.mu.Unlock()
	return s
}

func (h *Hub) Publish(c Change) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for s := range h.subs[c.Table] {
		if s.events&c.Event == 0 || (s.owner != "" && s.owner != c.Owner) {
			continue
		}
		select {
		case s.c <- c:
		default:
		}
	}
}

// Subscribers returns the number of open subscriptions on table.
func (h *Hub) Subscribers(table string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs[table])
}

// Close unregisters the subscription and closes C. Safe to call twice.
func (s *Subscription) Close() {
	s.once.Do(func() {
		s.hub.mu.Lock()
		delete(s.hub.subs[s.table], s)
		close(s.c)
		stop := s.stop
		s.hub.mu.Unlock()

		if stop != nil {
			stop()
		}
	})
}

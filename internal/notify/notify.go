// Package notify collects the user-facing success and error messages
// produced by session and resource operations until the UI drains them.
package notify

import (
	"context"
	"sync"
	"time"
)

type Level string

const (
	LevelSuccess Level = "success"
	LevelError   Level = "error"
)

type Notification struct {
	Level   Level     `json:"level"`
	Message string    `json:"message"`
	At      time.Time `json:"at"`
}

// Notifier is what operations use to surface a toast.
type Notifier interface {
	Success(msg string)
	Error(msg string)
}

// Feed is a bounded, concurrency-safe Notifier. Once full, the oldest
// notification is dropped.
type Feed struct {
	mu    sync.Mutex
	items []Notification
	max   int
	now   func() time.Time
}

const defaultFeedSize = 50

func NewFeed(max int) *Feed {
	if max <= 0 {
		max = defaultFeedSize
	}
	return &Feed{max: max, now: time.Now}
}

func (f *Feed) Success(msg string) { f.push(LevelSuccess, msg) }

func (f *Feed) Error(msg string) { f.push(LevelError, msg) }

func (f *Feed) push(level Level, msg string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.items = append(f.items, Notification{Level: level, Message: msg, At: f.now()})
	if over := len(f.items) - f.max; over > 0 {
		f.items = f.items[over:]
	}
}

// Drain returns the pending notifications, oldest first, and empties the feed.
func (f *Feed) Drain() []Notification {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := f.items
	f.items = nil
	if out == nil {
		return []Notification{}
	}
	return out
}

// Pending reports how many notifications wait to be drained.
func (f *Feed) Pending() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.items)
}

// Message returns err's text, or fallback when err carries none.
func Message(err error, fallback string) string {
	if err == nil || err.Error() == "" {
		return fallback
	}
	return err.Error()
}

type discard struct{}

func (discard) Success(string) {}
func (discard) Error(string)   {}

// Discard drops every notification.
var Discard Notifier = discard{}

type silenceKey struct{}

// Silence marks ctx so operations run with it skip their notifications.
// Bulk operations use it to report one summary instead of a toast per
// record.
func Silence(ctx context.Context) context.Context {
	return context.WithValue(ctx, silenceKey{}, true)
}

func Silenced(ctx context.Context) bool {
	v, _ := ctx.Value(silenceKey{}).(bool)
	return v
}

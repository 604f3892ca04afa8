package store

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
)

// ChangesChannel is the NOTIFY channel the table triggers publish on.
// Payloads look like {"table":"customers","op":"INSERT","user_id":"..."}.
const ChangesChannel = "table_changes"

// Listener holds a dedicated connection LISTENing on ChangesChannel and
// forwards every notification to the hub.
type Listener struct {
	dsn   string
	hub   *Hub
	log   *slog.Logger
	retry time.Duration
}

func NewListener(dsn string, hub *Hub, log *slog.Logger) *Listener {
	return &Listener{dsn: dsn, hub: hub, log: log, retry: 5 * time.Second}
}

// Run listens until ctx ends, reconnecting after connection failures.
func (l *Listener) Run(ctx context.Context) {
	for {
		err := l.listen(ctx)
		if ctx.Err() != nil {
			return
		}
		l.log.Warn("change listener disconnected", "error", err, "retry_in", l.retry)

		select {
		case <-ctx.Done():
			return
		case <-time.After(l.retry):
		}
	}
}

func (l *Listener) listen(ctx context.Context) error {
	conn, err := pgx.Connect(ctx, l.dsn)
	if err != nil {
		return err
	}
	defer conn.Close(context.Background())

	if _, err := conn.Exec(ctx, "LISTEN "+ChangesChannel); err != nil {
		return err
	}
	l.log.Info("listening for table changes", "channel", ChangesChannel)

	for {
		n, err := conn.WaitForNotification(ctx)
		if err != nil {
			return err
		}
		l.dispatch(n.Payload)
	}
}

func (l *Listener) dispatch(payload string) {
	var msg struct {
		Table string `json:"table"`
		Op    string `json:"op"`
		Owner string `json:"user_id"`
	}
	if err := json.Unmarshal([]byte(payload), &msg); err != nil {
		l.log.Warn("malformed change payload", "payload", payload, "error", err)
		return
	}
	ev, ok := ParseEvent(msg.Op)
	if !ok || msg.Table == "" || msg.Owner == "" {
		l.log.Warn("unexpected change payload", "payload", payload)
		return
	}
	l.hub.Publish(Change{Table: msg.Table, Owner: msg.Owner, Event: ev})
}

package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHub_FiltersByTableAndEvent(t *testing.T) {
	ctx := context.Background()
	hub := NewHub()

	deletes := hub.Subscribe(ctx, "sales", "", EventDelete)
	defer deletes.Close()
	all := hub.Subscribe(ctx, "sales", "", EventAll)
	defer all.Close()

	hub.Publish(Change{Table: "customers", Event: EventInsert})
	hub.Publish(Change{Table: "sales", Event: EventInsert})

	assert.Equal(t, Change{Table: "sales", Event: EventInsert}, <-all.C)
	assert.Len(t, deletes.C, 0)

	hub.Publish(Change{Table: "sales", Event: EventDelete})
	assert.Equal(t, Change{Table: "sales", Event: EventDelete}, <-deletes.C)
}

func TestHub_FiltersByOwner(t *testing.T) {
	ctx := context.Background()
	hub := NewHub()

	alice := hub.Subscribe(ctx, "customers", "alice", EventAll)
	defer alice.Close()
	everyone := hub.Subscribe(ctx, "customers", "", EventAll)
	defer everyone.Close()

	hub.Publish(Change{Table: "customers", Owner: "bob", Event: EventInsert})
	assert.Len(t, alice.C, 0)
	assert.Equal(t, Change{Table: "customers", Owner: "bob", Event: EventInsert}, <-everyone.C)

	hub.Publish(Change{Table: "customers", Owner: "alice", Event: EventUpdate})
	assert.Equal(t, Change{Table: "customers", Owner: "alice", Event: EventUpdate}, <-alice.C)
}

func TestHub_CoalescesPendingChanges(t *testing.T) {
	hub := NewHub()
	sub := hub.Subscribe(context.Background(), "inventory", "u1", EventAll)
	defer sub.Close()

	for i := 0; i < 5; i++ {
		hub.Publish(Change{Table: "inventory", Owner: "u1", Event: EventUpdate})
	}
	<-sub.C
	assert.Len(t, sub.C, 0)
}

func TestSubscription_CloseOnContextEnd(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	hub := NewHub()
	sub := hub.Subscribe(ctx, "expenses", "u1", EventAll)
	require.Equal(t, 1, hub.Subscribers("expenses"))

	cancel()
	_, open := <-sub.C
	assert.False(t, open)
	assert.Equal(t, 0, hub.Subscribers("expenses"))

	sub.Close()
	hub.Publish(Change{Table: "expenses", Event: EventInsert})
}

func TestParseEvent(t *testing.T) {
	for op, want := range map[string]Event{"INSERT": EventInsert, "update": EventUpdate, "DELETE": EventDelete} {
		got, ok := ParseEvent(op)
		assert.True(t, ok, op)
		assert.Equal(t, want, got, op)
	}
	_, ok := ParseEvent("TRUNCATE")
	assert.False(t, ok)
	assert.Equal(t, "*", EventAll.String())
}

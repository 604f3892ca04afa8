package workspace

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/rogerio-castellano/sabiboss/internal/auth"
	"github.com/rogerio-castellano/sabiboss/internal/session"
)

// Registry maps session tokens to live workspaces.
type Registry struct {
	deps Deps

	mu    sync.Mutex
	byTok map[string]*Workspace
}

func NewRegistry(deps Deps) *Registry {
	return &Registry{deps: deps, byTok: map[string]*Workspace{}}
}

// Open builds a new workspace restoring token ("" for signed out). It
// is not registered.
func (r *Registry) Open(ctx context.Context, token string) (*Workspace, error) {
	return New(ctx, r.deps, token)
}

// Resolve returns the workspace for token, restoring it from the token
// when this process has not seen it yet. A token that does not verify
// yields auth.ErrInvalidToken.
func (r *Registry) Resolve(ctx context.Context, token string) (*Workspace, error) {
	if token == "" {
		return nil, auth.ErrInvalidToken
	}
	if ws := r.Get(token); ws != nil {
		if ws.Session.State() == session.Authenticated {
			return ws, nil
		}
		r.Remove(token)
		return nil, auth.ErrInvalidToken
	}

	ws, err := New(ctx, r.deps, token)
	if err != nil {
		return nil, err
	}
	if ws.Session.State() != session.Authenticated {
		ws.Close()
		return nil, auth.ErrInvalidToken
	}

	r.mu.Lock()
	if existing, ok := r.byTok[token]; ok {
		r.mu.Unlock()
		ws.Close()
		return existing, nil
	}
	r.byTok[token] = ws
	r.mu.Unlock()
	return ws, nil
}

func (r *Registry) Get(token string) *Workspace {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.byTok[token]
}

// Put registers ws under token, closing any workspace it replaces.
func (r *Registry) Put(token string, ws *Workspace) {
	r.mu.Lock()
	old := r.byTok[token]
	r.byTok[token] = ws
	r.mu.Unlock()

	if old != nil && old != ws {
		old.Close()
	}
}

// Remove closes and forgets the workspace under token.
func (r *Registry) Remove(token string) {
	r.mu.Lock()
	ws := r.byTok[token]
	delete(r.byTok, token)
	r.mu.Unlock()

	if ws != nil {
		ws.Close()
	}
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.byTok)
}

// Reap closes every workspace whose session has ended and returns how
// many were removed.
func (r *Registry) Reap() int {
	var dead []*Workspace

	r.mu.Lock()
	for tok, ws := range r.byTok {
		if ws.Session.State() != session.Authenticated {
			dead = append(dead, ws)
			delete(r.byTok, tok)
		}
	}
	r.mu.Unlock()

	for _, ws := range dead {
		ws.Close()
	}
	return len(dead)
}

// RunReaper calls Reap every interval until ctx ends.
func (r *Registry) RunReaper(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := r.Reap(); n > 0 {
				r.logger().Info("reaped workspaces", "count", n)
			}
		}
	}
}

// CloseAll closes every registered workspace.
func (r *Registry) CloseAll() {
	r.mu.Lock()
	all := r.byTok
	r.byTok = map[string]*Workspace{}
	r.mu.Unlock()

	for _, ws := range all {
		ws.Close()
	}
}

func (r *Registry) logger() *slog.Logger {
	if r.deps.Logger != nil {
		return r.deps.Logger
	}
	return slog.Default()
}

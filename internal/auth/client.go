package auth

import (
	"context"
	"sync"
	"time"
)

// Client is one browser session's view of the auth service: it holds
// the current session, signs it out when the token expires and tells
// listeners about every change.
type Client struct {
	svc *Service

	mu        sync.Mutex
	token     string
	session   *Session
	timer     *time.Timer
	listeners map[int]func(Event, *Session)
	nextID    int
}

// NewClient returns a client that will try to restore token on the
// first CurrentSession call. An empty token starts signed out.
func NewClient(svc *Service, token string) *Client {
	return &Client{
		svc:       svc,
		token:     token,
		listeners: map[int]func(Event, *Session){},
	}
}

// CurrentSession returns the live session, or nil when signed out. A
// stored token that no longer verifies is dropped silently.
func (c *Client) CurrentSession(ctx context.Context) (*Session, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.session != nil {
		s := *c.session
		return &s, nil
	}
	if c.token == "" {
		return nil, nil
	}

	s, err := c.svc.Verify(ctx, c.token)
	if err != nil {
		c.token = ""
		return nil, nil
	}
	c.setLocked(&s)
	out := s
	return &out, nil
}

func (c *Client) SignUp(ctx context.Context, email, password string) (*Session, error) {
	s, err := c.svc.SignUp(ctx, email, password)
	if err != nil {
		return nil, err
	}
	c.establish(s)
	return &s, nil
}

func (c *Client) SignIn(ctx context.Context, email, password string) (*Session, error) {
	s, err := c.svc.SignIn(ctx, email, password)
	if err != nil {
		return nil, err
	}
	c.establish(s)
	return &s, nil
}

func (c *Client) SignOut(ctx context.Context) error {
	c.mu.Lock()
	token := c.token
	c.mu.Unlock()

	if token != "" {
		if err := c.svc.SignOut(ctx, token); err != nil {
			return err
		}
	}

	c.mu.Lock()
	c.setLocked(nil)
	c.mu.Unlock()
	c.emit(EventSignedOut, nil)
	return nil
}

// OnAuthStateChange registers fn for every later session change.
func (c *Client) OnAuthStateChange(fn func(Event, *Session)) (unsubscribe func()) {
	c.mu.Lock()
	id := c.nextID
	c.nextID++
	c.listeners[id] = fn
	c.mu.Unlock()

	return func() {
		c.mu.Lock()
		delete(c.listeners, id)
		c.mu.Unlock()
	}
}

// Close stops the expiry timer.
func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
}

func (c *Client) establish(s Session) {
	c.mu.Lock()
	c.setLocked(&s)
	c.mu.Unlock()

	out := s
	c.emit(EventSignedIn, &out)
}

func (c *Client) setLocked(s *Session) {
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	c.session = s
	if s == nil {
		c.token = ""
		return
	}

	c.token = s.Token
	id := s.ID
	c.timer = time.AfterFunc(time.Until(s.ExpiresAt), func() { c.expire(id) })
}

func (c *Client) expire(sessionID string) {
	c.mu.Lock()
	if c.session == nil || c.session.ID != sessionID {
		c.mu.Unlock()
		return
	}
	c.session = nil
	c.token = ""
	c.timer = nil
	c.mu.Unlock()

	c.emit(EventSignedOut, nil)
}

func (c *Client) emit(ev Event, s *Session) {
	c.mu.Lock()
	fns := make([]func(Event, *Session), 0, len(c.listeners))
	for _, fn := range c.listeners {
		fns = append(fns, fn)
	}
	c.mu.Unlock()

	for _, fn := range fns {
		fn(ev, s)
	}
}

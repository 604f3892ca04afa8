// Package session holds the current authenticated identity of one
// browser session and the sign-up, sign-in and sign-out operations.
package session

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"github.com/rogerio-castellano/sabiboss/internal/auth"
	"github.com/rogerio-castellano/sabiboss/internal/models"
	"github.com/rogerio-castellano/sabiboss/internal/notify"
)

const (
	RouteHome  = "/"
	RouteLogin = "/login"
)

const (
	// No email verification step follows sign-up, so the message does not ask for one.
	msgSignedUp  = "Account created successfully!"
	msgSignedIn  = "Logged in successfully!"
	msgSignedOut = "Logged out successfully!"
)

// Authenticator is the auth collaborator. *auth.Client implements it.
type Authenticator interface {
	SignUp(ctx context.Context, email, password string) (*auth.Session, error)
	SignIn(ctx context.Context, email, password string) (*auth.Session, error)
	SignOut(ctx context.Context) error
	CurrentSession(ctx context.Context) (*auth.Session, error)
	OnAuthStateChange(fn func(auth.Event, *auth.Session)) (unsubscribe func())
}

// Accounts creates the auxiliary records of a new identity.
// *store.Accounts implements it.
type Accounts interface {
	CreateProfile(ctx context.Context, p models.Profile) error
	CreateSubscription(ctx context.Context, s models.SubscriptionTier) error
	CreateNotificationSettings(ctx context.Context, n models.NotificationSettings) error
}

type Navigator interface {
	Navigate(route string)
}

type SignUpRequest struct {
	Email             string
	Password          string
	FullName          string
	Phone             string
	BusinessName      string
	BusinessType      string
	BusinessLocation  string
	PreferredLanguage string
}

// Provider tracks the session state machine Loading -> {Authenticated,
// Anonymous}. It never goes back to Loading.
type Provider struct {
	auth     Authenticator
	accounts Accounts
	nav      Navigator
	notifier notify.Notifier
	logger   *slog.Logger

	mu          sync.RWMutex
	snap        Snapshot
	token       string
	watchers    map[int]chan Snapshot
	nextID      int
	unsubscribe func()
}

func NewProvider(a Authenticator, accounts Accounts, nav Navigator, notifier notify.Notifier, logger *slog.Logger) *Provider {
	if logger == nil {
		logger = slog.Default()
	}
	return &Provider{
		auth:     a,
		accounts: accounts,
		nav:      nav,
		notifier: notifier,
		logger:   logger,
		snap:     Snapshot{State: Loading},
		watchers: map[int]chan Snapshot{},
	}
}

// Start subscribes to session changes and then checks for an existing
// session. An event that arrives first wins over the initial check.
func (p *Provider) Start(ctx context.Context) error {
	unsubscribe := p.auth.OnAuthStateChange(p.onAuthStateChange)
	p.mu.Lock()
	p.unsubscribe = unsubscribe
	p.mu.Unlock()

	s, err := p.auth.CurrentSession(ctx)
	if err != nil {
		p.logger.Warn("initial session check failed", "error", err)
	}
	p.resolve(s, true)
	return err
}

// Stop detaches the provider from the auth client and closes all watchers.
func (p *Provider) Stop() {
	p.mu.Lock()
	unsubscribe := p.unsubscribe
	p.unsubscribe = nil
	for id, ch := range p.watchers {
		delete(p.watchers, id)
		close(ch)
	}
	p.mu.Unlock()

	if unsubscribe != nil {
		unsubscribe()
	}
}

func (p *Provider) onAuthStateChange(ev auth.Event, s *auth.Session) {
	switch ev {
	case auth.EventSignedIn:
		p.resolve(s, false)
	case auth.EventSignedOut:
		p.resolve(nil, false)
	}
}

func (p *Provider) resolve(s *auth.Session, initial bool) {
	p.mu.Lock()
	if initial && p.snap.State != Loading {
		p.mu.Unlock()
		return
	}

	next := Snapshot{State: Anonymous}
	p.token = ""
	if s != nil {
		next = Snapshot{State: Authenticated, Identity: &Identity{UserID: s.UserID, Email: s.Email}}
		p.token = s.Token
	}
	p.snap = next
	for _, ch := range p.watchers {
		offer(ch, next)
	}
	p.mu.Unlock()
}

// offer replaces whatever is buffered in ch with snap.
func offer(ch chan Snapshot, snap Snapshot) {
	select {
	case <-ch:
	default:
	}
	ch <- snap
}

// SignUp registers the identity and creates its profile, free tier and
// default notification settings.
func (p *Provider) SignUp(ctx context.Context, req SignUpRequest) error {
	s, err := p.auth.SignUp(ctx, req.Email, req.Password)
	if err != nil {
		return err
	}

	lang := req.PreferredLanguage
	if lang == "" {
		lang = models.DefaultLanguage
	}
	profile := models.Profile{
		UserID:            s.UserID,
		FullName:          req.FullName,
		Phone:             req.Phone,
		Email:             s.Email,
		BusinessName:      optional(req.BusinessName),
		BusinessType:      optional(req.BusinessType),
		BusinessLocation:  optional(req.BusinessLocation),
		PreferredLanguage: lang,
	}
	if err := p.accounts.CreateProfile(ctx, profile); err != nil {
		return err
	}
	if err := p.accounts.CreateSubscription(ctx, models.SubscriptionTier{UserID: s.UserID, Tier: models.TierFree}); err != nil {
		return err
	}

	settings := models.NotificationSettings{UserID: s.UserID, LowStockAlerts: true, DailySummary: true}
	if err := p.accounts.CreateNotificationSettings(ctx, settings); err != nil {
		p.logger.Error("failed to create notification settings", "user_id", s.UserID, "error", err)
	}

	p.notifier.Success(msgSignedUp)
	p.nav.Navigate(RouteHome)
	return nil
}

func (p *Provider) SignIn(ctx context.Context, email, password string) error {
	if _, err := p.auth.SignIn(ctx, email, password); err != nil {
		return err
	}
	p.notifier.Success(msgSignedIn)
	p.nav.Navigate(RouteHome)
	return nil
}

func (p *Provider) SignOut(ctx context.Context) error {
	if err := p.auth.SignOut(ctx); err != nil {
		return err
	}
	p.notifier.Success(msgSignedOut)
	p.nav.Navigate(RouteLogin)
	return nil
}

// Current returns the signed-in identity, if any.
func (p *Provider) Current() (Identity, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.snap.Identity == nil {
		return Identity{}, false
	}
	return *p.snap.Identity, true
}

func (p *Provider) State() State {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.snap.State
}

func (p *Provider) Snapshot() Snapshot {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.snap
}

// Token returns the bearer token of the current session, or "".
func (p *Provider) Token() string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.token
}

// Watch returns a channel that always holds the latest snapshot,
// starting with the current one. cancel closes the channel.
func (p *Provider) Watch() (<-chan Snapshot, func()) {
	ch := make(chan Snapshot, 1)

	p.mu.Lock()
	id := p.nextID
	p.nextID++
	p.watchers[id] = ch
	ch <- p.snap
	p.mu.Unlock()

	return ch, func() {
		p.mu.Lock()
		defer p.mu.Unlock()
		if _, ok := p.watchers[id]; ok {
			delete(p.watchers, id)
			close(ch)
		}
	}
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

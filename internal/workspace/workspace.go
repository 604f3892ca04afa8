// Package workspace wires the per-browser-session components: auth
// client, session provider, the four resource synchronizers, the
// signup controller and the notification feed.
package workspace

import (
	"context"
	"log/slog"
	"sync"

	"github.com/rogerio-castellano/sabiboss/internal/auth"
	"github.com/rogerio-castellano/sabiboss/internal/models"
	"github.com/rogerio-castellano/sabiboss/internal/notify"
	"github.com/rogerio-castellano/sabiboss/internal/resource"
	"github.com/rogerio-castellano/sabiboss/internal/session"
	"github.com/rogerio-castellano/sabiboss/internal/signup"
	"github.com/rogerio-castellano/sabiboss/internal/store"
)

// Deps are the process-wide collaborators shared by all workspaces.
type Deps struct {
	Auth     *auth.Service
	Store    *store.Backend
	Logger   *slog.Logger
	FeedSize int
}

type Workspace struct {
	Auth      *auth.Client
	Session   *session.Provider
	Customers *resource.Synchronizer[models.Customer]
	Expenses  *resource.Synchronizer[models.Expense]
	Inventory *resource.Synchronizer[models.InventoryItem]
	Sales     *resource.Synchronizer[models.Sale]
	Signup    *signup.Controller
	Feed      *notify.Feed
	Routes    *Routes

	cancel    context.CancelFunc
	wg        sync.WaitGroup
	closeOnce sync.Once
}

// New builds a workspace, restoring token when it is not empty. The
// session state is resolved before New returns.
func New(ctx context.Context, deps Deps, token string) (*Workspace, error) {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	ws := &Workspace{
		Auth:   auth.NewClient(deps.Auth, token),
		Feed:   notify.NewFeed(deps.FeedSize),
		Routes: &Routes{},
	}
	ws.Session = session.NewProvider(ws.Auth, deps.Store.Accounts, ws.Routes, ws.Feed, logger)
	ws.Signup = signup.NewController(ws.Session, ws.Feed)

	b := deps.Store
	ws.Customers = resource.New(b.Customers, store.Customers, ws.Session, ws.Feed, logger, resource.CustomerMessages)
	ws.Expenses = resource.New(b.Expenses, store.Expenses, ws.Session, ws.Feed, logger, resource.ExpenseMessages)
	ws.Inventory = resource.New(b.Inventory, store.Inventory, ws.Session, ws.Feed, logger, resource.InventoryMessages)
	ws.Sales = resource.New(b.Sales, store.Sales, ws.Session, ws.Feed, logger, resource.SaleMessages)

	if err := ws.Session.Start(ctx); err != nil {
		ws.Session.Stop()
		ws.Auth.Close()
		return nil, err
	}

	runCtx, cancel := context.WithCancel(context.Background())
	ws.cancel = cancel
	for _, run := range []func(context.Context){ws.Customers.Run, ws.Expenses.Run, ws.Inventory.Run, ws.Sales.Run} {
		ws.wg.Add(1)
		go func() {
			defer ws.wg.Done()
			run(runCtx)
		}()
	}
	return ws, nil
}

// Close stops the synchronizers and detaches from the auth client.
func (ws *Workspace) Close() {
	ws.closeOnce.Do(func() {
		ws.cancel()
		ws.wg.Wait()
		ws.Session.Stop()
		ws.Auth.Close()
	})
}

// Metrics summarizes the cached records of the signed-in identity.
func (ws *Workspace) Metrics() Metrics {
	return ComputeMetrics(ws.Sales.Items(), ws.Expenses.Items(), ws.Customers.Items(), ws.Inventory.Items())
}

// Routes records the last navigation target until the HTTP layer
// takes it.
type Routes struct {
	mu   sync.Mutex
	next string
}

func (r *Routes) Navigate(route string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.next = route
}

// Take returns the pending route, or "", and clears it.
func (r *Routes) Take() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	route := r.next
	r.next = ""
	return route
}

package app

import (
	"context"

	"storefront/internal/admin"
	"storefront/internal/api"
	"storefront/internal/cart"
	"storefront/internal/config"
	"storefront/internal/credentials"
	"storefront/internal/logger"
	"storefront/internal/order"
	"storefront/internal/product"
	"storefront/internal/session"

	"go.uber.org/zap"
)

// Navigator is how the core asks the view layer to move. The only forced
// navigation is the 401 redirect to /login.
type Navigator interface {
	Path() string
	Go(path string)
}

// App is the root object: it owns the store handles so nothing reaches for
// ambient globals, and it runs the explicit orchestration between session
// transitions and the cart.
type App struct {
	Config   *config.Config
	Client   *api.Client
	Creds    *credentials.Store
	Session  *session.Store
	Cart     *cart.Store
	Products *product.Store
	Searcher *product.Searcher
	Orders   order.Gateway
	Admin    admin.Gateway

	nav Navigator
}

func New(cfg *config.Config, nav Navigator) *App {
	creds := credentials.NewStore(cfg.CredentialsFile)
	client := api.NewClient(cfg.APIBaseURL, cfg.HTTPTimeout, creds)

	productStore := product.NewStore(product.NewGateway(client))

	a := &App{
		Config:   cfg,
		Client:   client,
		Creds:    creds,
		Session:  session.NewStore(session.NewGateway(client), creds),
		Cart:     cart.NewStore(cart.NewGateway(client)),
		Products: productStore,
		Searcher: product.NewSearcher(productStore, cfg.SearchDebounce),
		Orders:   order.NewGateway(client),
		Admin:    admin.NewGateway(client),
		nav:      nav,
	}

	client.SetUnauthorizedHook(func() { a.forceLogout("unauthorized response") })
	return a
}

// Bootstrap settles the session from persisted credentials and, when it lands
// authenticated, loads the cart. Callers must not read the session as
// anonymous before this returns.
func (a *App) Bootstrap(ctx context.Context) {
	a.Session.Bootstrap(ctx)
	if a.Session.State().IsAuthenticated {
		if err := a.Cart.Fetch(ctx); err != nil {
			logger.FromCtx(ctx).Warn("cart fetch after bootstrap failed", zap.Error(err))
		}
	}
}

// Login authenticates and then fetches the cart. A cart fetch failure does
// not undo the login; the cart store keeps its error flag.
func (a *App) Login(ctx context.Context, email, password string) error {
	if _, err := a.Session.Login(ctx, email, password); err != nil {
		return err
	}
	if err := a.Cart.Fetch(ctx); err != nil {
		logger.FromCtx(ctx).Warn("cart fetch after login failed", zap.Error(err))
	}
	return nil
}

// Register creates the account and starts the (empty-cart) session.
func (a *App) Register(ctx context.Context, name, email, password string) error {
	if _, err := a.Session.Register(ctx, name, email, password); err != nil {
		return err
	}
	if err := a.Cart.Fetch(ctx); err != nil {
		logger.FromCtx(ctx).Warn("cart fetch after register failed", zap.Error(err))
	}
	return nil
}

// Logout clears the session and then issues the separate cart clear: the two
// stores stay decoupled, the coupling lives here.
func (a *App) Logout() {
	a.Session.Logout()
	a.Cart.ClearLocal()
}

// forceLogout is the agreed clear-and-redirect sequence for any 401,
// regardless of which store triggered the call. The persisted credentials are
// already gone by the time the hook fires; this resets in-memory state and
// moves the view, unless it is already on an auth page.
func (a *App) forceLogout(reason string) {
	a.Session.ForceLogout(reason)
	a.Cart.ClearLocal()

	if a.nav == nil {
		return
	}
	if p := a.nav.Path(); p != "/login" && p != "/register" {
		a.nav.Go("/login")
	}
}

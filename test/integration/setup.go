package integration

import (
	"context"
	"net/http/httptest"
	"testing"

	"storefront/internal/cart"
	"storefront/internal/gateway"
	"storefront/internal/metrics"
	"storefront/internal/model"
	"storefront/internal/nav"
	"storefront/internal/repository"
	"storefront/internal/router"
	"storefront/internal/session"
	"storefront/internal/storage"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/time/rate"
)

// Seeded accounts.
const (
	EmployeeEmail = "employee@example.com"
	CustomerEmail = "customer@example.com"
	Password      = "secret"
)

// StartBackend runs the in-memory backend on a test server and returns
// its base URL.
func StartBackend(t *testing.T) string {
	t.Helper()
	ctx := context.Background()

	b, err := router.NewBackend(repository.NewDB(repository.DefaultSeed()), router.Options{
		JWTSecret:  "integration",
		BcryptCost: bcrypt.MinCost,
		LoginRate:  rate.Inf,
	}, zerolog.Nop())
	require.NoError(t, err)
	require.NoError(t, b.SeedUser(ctx, EmployeeEmail, Password, model.RoleEmployee))
	require.NoError(t, b.SeedUser(ctx, CustomerEmail, Password, model.RoleCustomer))

	srv := httptest.NewServer(b.Handler)
	t.Cleanup(srv.Close)
	return srv.URL
}

// Client is one storefront instance with its own local storage.
type Client struct {
	Store    storage.Store
	Session  *session.Session
	Nav      *nav.Navigator
	API      *gateway.Client
	Cart     *cart.Cart
	Registry *prometheus.Registry
}

// NewClient wires a storefront against baseURL on top of store.
func NewClient(t *testing.T, baseURL string, store storage.Store) *Client {
	t.Helper()
	logger := zerolog.Nop()

	sess := session.New(store, logger)
	navigator := nav.NewNavigator(sess, logger)
	sess.SetRedirector(navigator)

	reg := prometheus.NewRegistry()
	api, err := gateway.New(gateway.Config{BaseURL: baseURL}, sess, metrics.NewRequestMetrics(reg), logger)
	require.NoError(t, err)

	c := cart.New(store, logger)
	c.Load(context.Background())

	return &Client{
		Store:    store,
		Session:  sess,
		Nav:      navigator,
		API:      api,
		Cart:     c,
		Registry: reg,
	}
}

// Login signs the client in through the API.
func (c *Client) Login(t *testing.T, email string) {
	t.Helper()
	ctx := context.Background()
	token, err := c.API.Login(ctx, model.Credentials{Email: email, Password: Password})
	require.NoError(t, err)
	require.NoError(t, c.Session.LoginWithEmail(ctx, token, email))
}

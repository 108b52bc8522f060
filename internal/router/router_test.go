package router

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"storefront/internal/model"
	"storefront/internal/repository"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/time/rate"
)

type testServer struct {
	handler  http.Handler
	employee string
	customer string
}

func setupTestServer(t *testing.T) *testServer {
	t.Helper()
	ctx := context.Background()

	b, err := NewBackend(repository.NewDB(repository.DefaultSeed()), Options{
		JWTSecret:  "test",
		BcryptCost: bcrypt.MinCost,
		LoginRate:  rate.Inf,
	}, zerolog.Nop())
	require.NoError(t, err)
	require.NoError(t, b.SeedUser(ctx, "emp@example.com", "pw", model.RoleEmployee))
	require.NoError(t, b.SeedUser(ctx, "cust@example.com", "pw", model.RoleCustomer))

	s := &testServer{handler: b.Handler}
	s.employee = s.login(t, "emp@example.com")
	s.customer = s.login(t, "cust@example.com")
	return s
}

func (s *testServer) do(method, path, token string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.handler.ServeHTTP(w, req)
	return w
}

func (s *testServer) login(t *testing.T, email string) string {
	t.Helper()
	w := s.do(http.MethodPost, "/login", "", model.Credentials{Email: email, Password: "pw"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp model.LoginResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	require.NotEmpty(t, resp.Token)
	return resp.Token
}

func TestRouter_Health(t *testing.T) {
	s := setupTestServer(t)

	w := s.do(http.MethodGet, "/health", "", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status": "healthy"}`, w.Body.String())
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestRouter_Access(t *testing.T) {
	s := setupTestServer(t)

	tests := []struct {
		name   string
		method string
		path   string
		body   any
		anon   int
		cust   int
		emp    int
	}{
		{name: "products", method: http.MethodGet, path: "/products", anon: 200, cust: 200, emp: 200},
		{name: "categories", method: http.MethodGet, path: "/categories", anon: 200, cust: 200, emp: 200},
		{name: "statuses", method: http.MethodGet, path: "/status", anon: 200, cust: 200, emp: 200},
		{name: "reviews", method: http.MethodGet, path: "/orders/opinions", anon: 401, cust: 200, emp: 200},
		{name: "own orders", method: http.MethodGet, path: "/orders/2", anon: 401, cust: 200, emp: 200},
		{name: "foreign orders", method: http.MethodGet, path: "/orders/1", anon: 401, cust: 403, emp: 200},
		{name: "all orders", method: http.MethodGet, path: "/orders", anon: 401, cust: 403, emp: 200},
		{name: "seo", method: http.MethodGet, path: "/products/1/seo-description", anon: 401, cust: 403, emp: 200},
		{name: "patch unknown order", method: http.MethodPatch, path: "/orders/99", body: model.OrderStatusPatch{StatusID: 1}, anon: 401, cust: 403, emp: 404},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.anon, s.do(tt.method, tt.path, "", tt.body).Code, "anonymous")
			assert.Equal(t, tt.cust, s.do(tt.method, tt.path, s.customer, tt.body).Code, "customer")
			assert.Equal(t, tt.emp, s.do(tt.method, tt.path, s.employee, tt.body).Code, "employee")
		})
	}
}

func TestRouter_InvalidTokenIsRejectedEverywhere(t *testing.T) {
	s := setupTestServer(t)

	w := s.do(http.MethodGet, "/products", "garbage", nil)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"error":"invalid token"}`, w.Body.String())
}

func TestRouter_OrderLifecycle(t *testing.T) {
	s := setupTestServer(t)

	order := model.OrderRequest{
		StatusID:     model.StatusIDNew,
		CustomerName: "Cust",
		Email:        "cust@example.com",
		PhoneNumber:  "123456789",
		Items:        []model.OrderItemRequest{{ProductID: 1, Quantity: 2}},
	}
	w := s.do(http.MethodPost, "/orders", "", order)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var created model.Order
	require.NoError(t, json.NewDecoder(w.Body).Decode(&created))
	assert.Equal(t, model.StatusNew, created.Status.Name)

	// Guest order is linked to the customer through the email.
	w = s.do(http.MethodGet, "/orders/2", s.customer, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var mine []model.Order
	require.NoError(t, json.NewDecoder(w.Body).Decode(&mine))
	require.Len(t, mine, 1)

	review := model.ReviewRequest{Rating: 4, Text: "ok"}
	w = s.do(http.MethodPost, "/orders/1/opinions", s.customer, review)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code, "open orders cannot be reviewed")

	w = s.do(http.MethodPatch, "/orders/1", s.employee, model.OrderStatusPatch{StatusID: 3})
	require.Equal(t, http.StatusNoContent, w.Code, w.Body.String())

	w = s.do(http.MethodPost, "/orders/1/opinions", s.customer, review)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = s.do(http.MethodPost, "/orders/1/opinions", s.customer, review)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestRouter_ValidationErrorsCarryMessage(t *testing.T) {
	s := setupTestServer(t)

	w := s.do(http.MethodPost, "/orders", "", model.OrderRequest{})

	require.Equal(t, http.StatusBadRequest, w.Code)
	var body map[string]string
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	assert.Contains(t, body["error"], "customerName: is required")
}

func TestRouter_Register(t *testing.T) {
	s := setupTestServer(t)
	creds := model.Credentials{Email: "new@example.com", Password: "pw"}

	w := s.do(http.MethodPost, "/register", "", creds)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.JSONEq(t, `{"message":"User registered successfully"}`, w.Body.String())

	w = s.do(http.MethodPost, "/register", "", creds)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = s.do(http.MethodPost, "/login", "", model.Credentials{Email: "new@example.com", Password: "bad"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRouter_InitCustom(t *testing.T) {
	s := setupTestServer(t)
	payload := model.InitCustomRequest{Products: []model.Product{
		{Name: "A", UnitPrice: mustDecimal("1.00"), UnitWeight: mustDecimal("0.5"), CategoryID: 1},
		{Name: "B", UnitPrice: mustDecimal("2.00"), UnitWeight: mustDecimal("0.5"), CategoryID: 2},
	}}

	w := s.do(http.MethodPost, "/init/custom", s.employee, payload)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = s.do(http.MethodPost, "/init/custom", s.employee, payload)
	assert.Equal(t, http.StatusConflict, w.Code, "a catalog of two products counts as initialized")
}

func TestRouter_PreflightAndUnknownMethod(t *testing.T) {
	s := setupTestServer(t)

	assert.Equal(t, http.StatusNoContent, s.do(http.MethodOptions, "/products", "", nil).Code)
	assert.Equal(t, http.StatusMethodNotAllowed, s.do(http.MethodDelete, "/products", "", nil).Code)
}

func mustDecimal(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

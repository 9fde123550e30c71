package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	nethttp "net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	apihttp "github.com/eventhorizon/marketplace/internal/api/http"
	"github.com/eventhorizon/marketplace/internal/api/http/handlers"
	"github.com/eventhorizon/marketplace/internal/auth"
	"github.com/eventhorizon/marketplace/internal/cart"
	"github.com/eventhorizon/marketplace/internal/checkout"
	"github.com/eventhorizon/marketplace/internal/config"
	"github.com/eventhorizon/marketplace/internal/domain"
	"github.com/eventhorizon/marketplace/internal/events"
	"github.com/eventhorizon/marketplace/internal/observability"
	"github.com/eventhorizon/marketplace/internal/repository"
	"github.com/eventhorizon/marketplace/internal/service"
)

type mockUserRepo struct {
	mock.Mock
}

func (m *mockUserRepo) Create(ctx context.Context, account *domain.UserAccount) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *mockUserRepo) Update(ctx context.Context, account *domain.UserAccount) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *mockUserRepo) GetByID(ctx context.Context, id string) (*domain.UserAccount, error) {
	args := m.Called(ctx, id)
	if account := args.Get(0); account != nil {
		return account.(*domain.UserAccount), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockUserRepo) GetByEmail(ctx context.Context, email string) (*domain.UserAccount, error) {
	args := m.Called(ctx, email)
	if account := args.Get(0); account != nil {
		return account.(*domain.UserAccount), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockUserRepo) BalanceByEmail(ctx context.Context, email string) (float64, error) {
	args := m.Called(ctx, email)
	return args.Get(0).(float64), args.Error(1)
}

type mockEventRepo struct {
	mock.Mock
}

func (m *mockEventRepo) Create(ctx context.Context, event *domain.Event) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *mockEventRepo) List(ctx context.Context) ([]domain.Event, error) {
	args := m.Called(ctx)
	if list := args.Get(0); list != nil {
		return list.([]domain.Event), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockEventRepo) ListByCategory(ctx context.Context, category domain.Category) ([]domain.Event, error) {
	args := m.Called(ctx, category)
	if list := args.Get(0); list != nil {
		return list.([]domain.Event), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockEventRepo) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	args := m.Called(ctx, id)
	if event := args.Get(0); event != nil {
		return event.(*domain.Event), args.Error(1)
	}
	return nil, args.Error(1)
}

var _ repository.UserRepository = (*mockUserRepo)(nil)
var _ repository.EventRepository = (*mockEventRepo)(nil)

type testServer struct {
	app      *fiber.App
	users    *mockUserRepo
	events   *mockEventRepo
	accounts *service.AccountService
}

// newTestServer wires the full route table over mocked repositories and
// in-memory cart storage. The checkout tick is a minute long so no
// countdown can complete mid-test.
func newTestServer(t *testing.T) *testServer {
	t.Helper()

	users := new(mockUserRepo)
	eventsRepo := new(mockEventRepo)
	logger := zap.NewNop()

	cfg := config.Config{
		Auth: config.AuthConfig{
			JWTSecret:             "test-secret",
			AccessTokenTTLMinutes: 60,
			BcryptCost:            4,
		},
	}

	accounts := service.NewAccountService(cfg, service.AccountDependencies{UserRepo: users})
	catalog := service.NewCatalogService(eventsRepo)
	carts := cart.NewStore(cart.NewMemoryStorage(), logger)
	flow := checkout.NewFlow(
		config.CheckoutConfig{VerificationSeconds: 1800, TickMillis: 60000},
		carts, events.NewInMemoryDispatcher(), logger,
	)
	t.Cleanup(flow.Close)

	metrics := observability.NewMetrics()
	app := fiber.New()
	apihttp.RegisterMiddlewares(app, logger, metrics, 0)
	apihttp.RegisterRoutes(app, apihttp.RouteConfig{
		Health:         handlers.NewHealthHandler("marketplace-test", "test", nil, nil),
		Metrics:        handlers.NewMetricsHandler(metrics),
		Events:         handlers.NewEventsHandler(catalog),
		Users:          handlers.NewUsersHandler(accounts, logger),
		Account:        handlers.NewAccountHandler(accounts),
		Cart:           handlers.NewCartHandler(carts, catalog),
		Checkout:       handlers.NewCheckoutHandler(flow),
		AuthMiddleware: auth.NewAuthMiddleware(accounts.TokenManager()),
	})

	return &testServer{app: app, users: users, events: eventsRepo, accounts: accounts}
}

func (s *testServer) token(t *testing.T, account *domain.UserAccount) string {
	t.Helper()
	token, _, err := s.accounts.TokenManager().GenerateToken(account)
	require.NoError(t, err)
	return token
}

func buyerAccount() *domain.UserAccount {
	return &domain.UserAccount{
		ID:      "u1",
		Email:   "buyer@example.com",
		Name:    "Buyer One",
		Balance: 125.5,
	}
}

func (s *testServer) do(t *testing.T, method, path, token string, body any) (*nethttp.Response, map[string]any) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	resp.Body.Close()

	var decoded map[string]any
	if len(raw) > 0 && json.Valid(raw) {
		require.NoError(t, json.Unmarshal(raw, &decoded))
	}
	return resp, decoded
}

func errorCode(body map[string]any) string {
	errObj, _ := body["error"].(map[string]any)
	code, _ := errObj["code"].(string)
	return code
}

func TestListEventsEmptyCatalog(t *testing.T) {
	s := newTestServer(t)
	s.events.On("List", mock.Anything).Return([]domain.Event{}, nil)

	resp, body := s.do(t, "GET", "/events", "", nil)

	assert.Equal(t, nethttp.StatusOK, resp.StatusCode)
	listed, ok := body["events"].([]any)
	require.True(t, ok, "events must be an array even when empty")
	assert.Empty(t, listed)
}

func TestListEventsByCategory(t *testing.T) {
	s := newTestServer(t)
	s.events.On("ListByCategory", mock.Anything, domain.CategorySports).Return([]domain.Event{
		{ID: "e2", Title: "City Derby Final", Category: domain.CategorySports, Price: 80},
	}, nil)

	resp, body := s.do(t, "GET", "/events?category=sports", "", nil)

	assert.Equal(t, nethttp.StatusOK, resp.StatusCode)
	listed := body["events"].([]any)
	require.Len(t, listed, 1)
	first := listed[0].(map[string]any)
	assert.Equal(t, "City Derby Final", first["title"])
	assert.Equal(t, 80.0, first["price"])
}

func TestNonGetEventsMethodNotAllowed(t *testing.T) {
	s := newTestServer(t)

	for _, method := range []string{"POST", "PUT", "DELETE"} {
		resp, body := s.do(t, method, "/events", "", map[string]string{"title": "nope"})

		assert.Equal(t, nethttp.StatusMethodNotAllowed, resp.StatusCode, method)
		assert.Equal(t, "METHOD_NOT_ALLOWED", errorCode(body), method)
	}
}

func TestUnknownRouteNotFound(t *testing.T) {
	s := newTestServer(t)

	resp, body := s.do(t, "GET", "/nope", "", nil)

	assert.Equal(t, nethttp.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "NOT_FOUND", errorCode(body))
}

func TestListEventsUnknownCategory(t *testing.T) {
	s := newTestServer(t)

	resp, body := s.do(t, "GET", "/events?category=cinema", "", nil)

	assert.Equal(t, nethttp.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "VALIDATION_FAILED", errorCode(body))
}

func TestEventCategories(t *testing.T) {
	s := newTestServer(t)

	resp, body := s.do(t, "GET", "/events/categories", "", nil)

	assert.Equal(t, nethttp.StatusOK, resp.StatusCode)
	categories := body["categories"].([]any)
	assert.Len(t, categories, 4)
}

func TestEventDetailNotFound(t *testing.T) {
	s := newTestServer(t)
	s.events.On("GetByID", mock.Anything, "ghost").Return(nil, pgx.ErrNoRows)

	resp, body := s.do(t, "GET", "/events/ghost", "", nil)

	assert.Equal(t, nethttp.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "NOT_FOUND", errorCode(body))
}

func TestSignup(t *testing.T) {
	s := newTestServer(t)
	s.users.On("GetByEmail", mock.Anything, "new@example.com").Return(nil, pgx.ErrNoRows)
	s.users.On("Create", mock.Anything, mock.AnythingOfType("*domain.UserAccount")).
		Run(func(args mock.Arguments) {
			args.Get(1).(*domain.UserAccount).ID = "u9"
		}).
		Return(nil)

	resp, body := s.do(t, "POST", "/auth/signup", "", map[string]string{
		"email": "new@example.com", "password": "hunter22", "name": "New Buyer",
	})

	assert.Equal(t, nethttp.StatusCreated, resp.StatusCode)
	user := body["user"].(map[string]any)
	assert.Equal(t, "u9", user["id"])
	assert.Equal(t, "new@example.com", user["email"])
}

func TestSignupMissingFields(t *testing.T) {
	s := newTestServer(t)

	resp, body := s.do(t, "POST", "/auth/signup", "", map[string]string{"email": "new@example.com"})

	assert.Equal(t, nethttp.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "VALIDATION_FAILED", errorCode(body))
}

func TestSignupDuplicateEmail(t *testing.T) {
	s := newTestServer(t)
	s.users.On("GetByEmail", mock.Anything, "taken@example.com").Return(buyerAccount(), nil)

	resp, body := s.do(t, "POST", "/auth/signup", "", map[string]string{
		"email": "taken@example.com", "password": "hunter22", "name": "Buyer",
	})

	assert.Equal(t, nethttp.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "VALIDATION_FAILED", errorCode(body))
}

func TestLoginFailuresLookIdentical(t *testing.T) {
	s := newTestServer(t)
	hash, err := auth.HashPassword("correct-horse", 4)
	require.NoError(t, err)
	known := buyerAccount()
	known.PasswordHash = hash
	s.users.On("GetByEmail", mock.Anything, "buyer@example.com").Return(known, nil)
	s.users.On("GetByEmail", mock.Anything, "ghost@example.com").Return(nil, pgx.ErrNoRows)

	wrongPass, wrongBody := s.do(t, "POST", "/auth/login", "", map[string]string{
		"email": "buyer@example.com", "password": "wrong-horse",
	})
	unknown, unknownBody := s.do(t, "POST", "/auth/login", "", map[string]string{
		"email": "ghost@example.com", "password": "whatever",
	})

	assert.Equal(t, nethttp.StatusUnauthorized, wrongPass.StatusCode)
	assert.Equal(t, nethttp.StatusUnauthorized, unknown.StatusCode)
	assert.Equal(t, wrongBody, unknownBody)
}

func TestLoginIssuesToken(t *testing.T) {
	s := newTestServer(t)
	hash, err := auth.HashPassword("correct-horse", 4)
	require.NoError(t, err)
	known := buyerAccount()
	known.PasswordHash = hash
	s.users.On("GetByEmail", mock.Anything, "buyer@example.com").Return(known, nil)

	resp, body := s.do(t, "POST", "/auth/login", "", map[string]string{
		"email": "buyer@example.com", "password": "correct-horse",
	})

	assert.Equal(t, nethttp.StatusOK, resp.StatusCode)
	user := body["user"].(map[string]any)
	assert.Equal(t, 125.5, user["balance"])

	authObj := body["auth"].(map[string]any)
	token := authObj["token"].(string)
	claims, err := s.accounts.TokenManager().ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.Subject)
}

func TestBalanceRequiresAuth(t *testing.T) {
	s := newTestServer(t)

	resp, body := s.do(t, "GET", "/user/balance", "", nil)

	assert.Equal(t, nethttp.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "UNAUTHORIZED", errorCode(body))
}

func TestBalanceReadsLiveValue(t *testing.T) {
	s := newTestServer(t)
	// The token carries 125.5 but the store has moved on.
	s.users.On("BalanceByEmail", mock.Anything, "buyer@example.com").Return(75.25, nil)

	resp, body := s.do(t, "GET", "/user/balance", s.token(t, buyerAccount()), nil)

	assert.Equal(t, nethttp.StatusOK, resp.StatusCode)
	assert.Equal(t, 75.25, body["balance"])
}

func TestBalanceForDeletedAccount(t *testing.T) {
	s := newTestServer(t)
	s.users.On("BalanceByEmail", mock.Anything, "buyer@example.com").Return(0.0, pgx.ErrNoRows)

	resp, body := s.do(t, "GET", "/user/balance", s.token(t, buyerAccount()), nil)

	assert.Equal(t, nethttp.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "NOT_FOUND", errorCode(body))
}

func TestCartLifecycle(t *testing.T) {
	s := newTestServer(t)
	s.events.On("GetByID", mock.Anything, "e1").Return(&domain.Event{
		ID: "e1", Title: "Midnight Skyline Tour", Price: 50,
	}, nil)
	token := s.token(t, buyerAccount())

	// Add twice; the same event/tier key merges.
	resp, _ := s.do(t, "POST", "/cart/items", token, map[string]any{
		"eventId": "e1", "tier": "general", "quantity": 2,
	})
	assert.Equal(t, nethttp.StatusOK, resp.StatusCode)
	resp, body := s.do(t, "POST", "/cart/items", token, map[string]any{
		"eventId": "e1", "tier": "general", "quantity": 1,
	})
	assert.Equal(t, nethttp.StatusOK, resp.StatusCode)
	items := body["items"].([]any)
	require.Len(t, items, 1)
	line := items[0].(map[string]any)
	assert.Equal(t, "e1-general", line["cartKey"])
	assert.Equal(t, 3.0, line["quantity"])
	assert.Equal(t, 150.0, body["total"])

	// VIP is a separate line at the marked-up price.
	resp, body = s.do(t, "POST", "/cart/items", token, map[string]any{
		"eventId": "e1", "tier": "vip", "quantity": 1,
	})
	assert.Equal(t, nethttp.StatusOK, resp.StatusCode)
	assert.Len(t, body["items"].([]any), 2)
	assert.Equal(t, 300.0, body["total"])

	// Quantity clamps to the allowed range.
	resp, body = s.do(t, "PATCH", "/cart/items/e1-general", token, map[string]any{"quantity": 99})
	assert.Equal(t, nethttp.StatusOK, resp.StatusCode)
	line = body["items"].([]any)[0].(map[string]any)
	assert.Equal(t, 10.0, line["quantity"])

	// Non-numeric quantity coerces to 1.
	resp, body = s.do(t, "PATCH", "/cart/items/e1-general", token, map[string]any{"quantity": "lots"})
	assert.Equal(t, nethttp.StatusOK, resp.StatusCode)
	line = body["items"].([]any)[0].(map[string]any)
	assert.Equal(t, 1.0, line["quantity"])

	resp, _ = s.do(t, "DELETE", "/cart/items/e1-general", token, nil)
	assert.Equal(t, nethttp.StatusOK, resp.StatusCode)
	resp, body = s.do(t, "GET", "/cart", token, nil)
	assert.Equal(t, nethttp.StatusOK, resp.StatusCode)
	assert.Len(t, body["items"].([]any), 1)
	assert.Equal(t, 150.0, body["total"])
}

func TestCartUpdateUnknownKey(t *testing.T) {
	s := newTestServer(t)
	token := s.token(t, buyerAccount())

	resp, body := s.do(t, "PATCH", "/cart/items/e9-vip", token, map[string]any{"quantity": 2})

	assert.Equal(t, nethttp.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "NOT_FOUND", errorCode(body))
}

func TestCartAddUnknownEvent(t *testing.T) {
	s := newTestServer(t)
	s.events.On("GetByID", mock.Anything, "ghost").Return(nil, pgx.ErrNoRows)
	token := s.token(t, buyerAccount())

	resp, body := s.do(t, "POST", "/cart/items", token, map[string]any{
		"eventId": "ghost", "tier": "general", "quantity": 1,
	})

	assert.Equal(t, nethttp.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "NOT_FOUND", errorCode(body))
}

func TestCheckoutMethodsCatalog(t *testing.T) {
	s := newTestServer(t)
	token := s.token(t, buyerAccount())

	resp, body := s.do(t, "GET", "/checkout/methods", token, nil)

	assert.Equal(t, nethttp.StatusOK, resp.StatusCode)
	listed := body["methods"].([]any)
	require.Len(t, listed, 8)
	first := listed[0].(map[string]any)
	assert.Equal(t, "bank_transfer", first["id"])
	assert.Equal(t, true, first["requiresReference"])
	details := first["details"].(map[string]any)
	assert.Equal(t, "International Commerce Bank", details["bankName"])
}

func TestCheckoutMethodQR(t *testing.T) {
	s := newTestServer(t)
	token := s.token(t, buyerAccount())

	req := httptest.NewRequest("GET", "/checkout/methods/alipay/qr", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, nethttp.StatusOK, resp.StatusCode)
	assert.Equal(t, "image/png", resp.Header.Get("Content-Type"))

	// Non-QR methods get a validation error instead of an image.
	badResp, body := s.do(t, "GET", "/checkout/methods/bank_transfer/qr", token, nil)
	assert.Equal(t, nethttp.StatusBadRequest, badResp.StatusCode)
	assert.Equal(t, "VALIDATION_FAILED", errorCode(body))
}

func TestCheckoutFlowOverHTTP(t *testing.T) {
	s := newTestServer(t)
	s.events.On("GetByID", mock.Anything, "e1").Return(&domain.Event{
		ID: "e1", Title: "Midnight Skyline Tour", Price: 50,
	}, nil)
	token := s.token(t, buyerAccount())

	resp, _ := s.do(t, "POST", "/cart/items", token, map[string]any{
		"eventId": "e1", "tier": "general", "quantity": 2,
	})
	require.Equal(t, nethttp.StatusOK, resp.StatusCode)

	resp, body := s.do(t, "POST", "/checkout/method", token, map[string]string{"method": "bank_transfer"})
	assert.Equal(t, nethttp.StatusOK, resp.StatusCode)
	assert.Equal(t, "awaiting_reference", body["state"])
	assert.Regexp(t, `^EVENT-\d{6}$`, body["paymentReference"])

	resp, body = s.do(t, "POST", "/checkout/reference", token, map[string]string{"reference": "TXN-42"})
	assert.Equal(t, nethttp.StatusOK, resp.StatusCode)
	assert.Equal(t, "verifying", body["state"])
	assert.Equal(t, 1800.0, body["timeLeft"])
	assert.Equal(t, 100.0, body["total"])

	resp, body = s.do(t, "GET", "/checkout/status", token, nil)
	assert.Equal(t, nethttp.StatusOK, resp.StatusCode)
	assert.Equal(t, "verifying", body["state"])

	resp, body = s.do(t, "POST", "/checkout/cancel", token, nil)
	assert.Equal(t, nethttp.StatusOK, resp.StatusCode)
	assert.Equal(t, "selecting_method", body["state"])

	// Cancel keeps the cart.
	resp, body = s.do(t, "GET", "/cart", token, nil)
	assert.Equal(t, nethttp.StatusOK, resp.StatusCode)
	assert.Len(t, body["items"].([]any), 1)
}

func TestCheckoutReferenceWithEmptyCart(t *testing.T) {
	s := newTestServer(t)
	token := s.token(t, buyerAccount())

	resp, _ := s.do(t, "POST", "/checkout/method", token, map[string]string{"method": "paypal"})
	require.Equal(t, nethttp.StatusOK, resp.StatusCode)

	resp, body := s.do(t, "POST", "/checkout/reference", token, map[string]string{"reference": "TXN-1"})

	assert.Equal(t, nethttp.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "VALIDATION_FAILED", errorCode(body))
}

func TestMetricsSnapshot(t *testing.T) {
	s := newTestServer(t)
	s.events.On("List", mock.Anything).Return([]domain.Event{}, nil)
	s.do(t, "GET", "/events", "", nil)

	resp, body := s.do(t, "GET", "/metrics", "", nil)

	assert.Equal(t, nethttp.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "requests")
	assert.Contains(t, body, "errors")
}

package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/amirhossein-jamali/booster-economy/internal/domain/entity"
	errs "github.com/amirhossein-jamali/booster-economy/internal/domain/error"
	coreport "github.com/amirhossein-jamali/booster-economy/internal/domain/port/core"
	"github.com/amirhossein-jamali/booster-economy/internal/domain/port/usecase"
	"github.com/amirhossein-jamali/booster-economy/internal/domain/usecase/achievement"
	"github.com/amirhossein-jamali/booster-economy/internal/domain/usecase/economy"
	"github.com/amirhossein-jamali/booster-economy/internal/domain/usecase/marketplace"
	"github.com/amirhossein-jamali/booster-economy/internal/domain/usecase/rarity"
	"github.com/amirhossein-jamali/booster-economy/internal/infrastructure/adapter/api/dto"
	"github.com/amirhossein-jamali/booster-economy/internal/infrastructure/adapter/api/handler"
	"github.com/amirhossein-jamali/booster-economy/internal/infrastructure/adapter/database/migration"
	"github.com/amirhossein-jamali/booster-economy/internal/infrastructure/adapter/logger"
	"github.com/amirhossein-jamali/booster-economy/internal/infrastructure/adapter/memory"
	"github.com/amirhossein-jamali/booster-economy/internal/infrastructure/adapter/metrics"
	"github.com/amirhossein-jamali/booster-economy/internal/infrastructure/adapter/random"
	timeadapter "github.com/amirhossein-jamali/booster-economy/internal/infrastructure/adapter/time"
	mockusecase "github.com/amirhossein-jamali/booster-economy/mocks/port/usecase"
)

var testStart = time.Date(2026, 5, 2, 10, 0, 0, 0, time.UTC)

type discardSink struct{}

func (discardSink) Record(context.Context, coreport.AuditEvent) {}

type openGate struct{}

func (openGate) Check(context.Context, uint64, string) error { return nil }

type testServer struct {
	router  *gin.Engine
	store   *memory.Store
	clock   *timeadapter.ManualTimeProvider
	metrics *metrics.Prometheus
}

func newTestServer(t *testing.T, gate usecase.Gatekeeper) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	catalog := migration.DemoCatalog()
	store := memory.NewStore()
	store.PutCards(catalog.Cards...)
	store.PutBoosters(catalog.Boosters...)
	store.PutAchievements(catalog.Achievements...)

	clock := timeadapter.NewManualTimeProvider(testStart)
	log := logger.NewNoopLogger()
	prom := metrics.NewPrometheus("booster_economy")
	sink := discardSink{}

	engine := economy.NewEngine(store, clock, sink, prom, log, economy.DefaultTxConfig())
	generator, err := rarity.NewGenerator(rarity.DefaultConfig(), random.NewSeeded(5), prom)
	require.NoError(t, err)
	tracker := achievement.NewTracker(engine, gate, sink, clock, log, achievement.DefaultConfig())
	economyService := economy.NewService(engine, gate, generator, rarity.NewRepositorySource(store),
		tracker, sink, clock, log, economy.DefaultConfig())
	marketplaceService := marketplace.NewService(engine, gate, sink, clock, log, marketplace.DefaultConfig())

	router := gin.New()
	SetupMiddlewares(router, log, clock, prom)
	SetupMetrics(router, "/metrics", prom.Handler())
	SetupRoutes(router, Handlers{
		Economy:     handler.NewEconomyHandler(economyService, log),
		Marketplace: handler.NewMarketplaceHandler(marketplaceService, log, 20),
		Achievement: handler.NewAchievementHandler(tracker, log),
		Health:      handler.NewHealthHandler(map[string]handler.Pinger{}, log),
	})

	return &testServer{router: router, store: store, clock: clock, metrics: prom}
}

func (s *testServer) do(t *testing.T, method, path string, accountID uint64, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if accountID != 0 {
		req.Header.Set("X-Account-ID", strconv.FormatUint(accountID, 10))
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func TestAccountRoutes(t *testing.T) {
	t.Run("missing account header is unauthorized", func(t *testing.T) {
		s := newTestServer(t, openGate{})

		w := s.do(t, http.MethodGet, "/accounts/me", 0, nil)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
	})

	t.Run("register then read", func(t *testing.T) {
		// Arrange
		s := newTestServer(t, openGate{})

		// Act
		created := s.do(t, http.MethodPost, "/accounts", 7, nil)
		read := s.do(t, http.MethodGet, "/accounts/me", 7, nil)

		// Assert
		require.Equal(t, http.StatusCreated, created.Code, created.Body.String())
		require.Equal(t, http.StatusOK, read.Code)
		account := decode[dto.AccountResponse](t, read)
		assert.Equal(t, uint64(7), account.AccountID)
		assert.Equal(t, economy.DefaultConfig().MaxAllotment, account.AvailableBoosters)
	})

	t.Run("unknown account is not found", func(t *testing.T) {
		s := newTestServer(t, openGate{})

		w := s.do(t, http.MethodGet, "/accounts/me", 99, nil)

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, errs.CodeAccountNotFound, decode[dto.ErrorResponse](t, w).Code)
	})

	t.Run("request id is echoed", func(t *testing.T) {
		s := newTestServer(t, openGate{})
		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		req.Header.Set("X-Request-ID", "req-42")
		w := httptest.NewRecorder()

		s.router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "req-42", w.Header().Get("X-Request-ID"))
	})
}

func TestBoosterRoutes(t *testing.T) {
	t.Run("allotment runs out", func(t *testing.T) {
		// Arrange
		s := newTestServer(t, openGate{})
		require.Equal(t, http.StatusCreated, s.do(t, http.MethodPost, "/accounts", 1, nil).Code)

		// Act
		var last *httptest.ResponseRecorder
		for i := 0; i < economy.DefaultConfig().MaxAllotment; i++ {
			last = s.do(t, http.MethodPost, "/boosters/1/open", 1, nil)
			require.Equal(t, http.StatusOK, last.Code, last.Body.String())
		}
		exhausted := s.do(t, http.MethodPost, "/boosters/1/open", 1, nil)

		// Assert
		opening := decode[dto.OpeningResponse](t, last)
		assert.Len(t, opening.Cards, economy.DefaultConfig().BoosterSize)
		assert.Equal(t, 0, opening.AvailableBoosters)
		assert.NotNil(t, opening.NextBoosterAt)
		assert.Equal(t, http.StatusConflict, exhausted.Code)
		assert.Equal(t, errs.CodeInsufficientAllotment, decode[dto.ErrorResponse](t, exhausted).Code)
	})

	t.Run("buying without funds", func(t *testing.T) {
		s := newTestServer(t, openGate{})
		s.store.PutAccounts(*entity.NewAccount(1, 10, 3, testStart))

		w := s.do(t, http.MethodPost, "/boosters/1/buy", 1, nil)

		assert.Equal(t, http.StatusPaymentRequired, w.Code)
	})

	t.Run("bad booster id", func(t *testing.T) {
		s := newTestServer(t, openGate{})

		w := s.do(t, http.MethodPost, "/boosters/abc/open", 1, nil)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("opening counts towards achievements", func(t *testing.T) {
		// Arrange
		s := newTestServer(t, openGate{})
		require.Equal(t, http.StatusCreated, s.do(t, http.MethodPost, "/accounts", 1, nil).Code)
		require.Equal(t, http.StatusOK, s.do(t, http.MethodPost, "/boosters/1/open", 1, nil).Code)

		// Act
		claim := s.do(t, http.MethodPost, "/achievements/1/claim", 1, nil)
		again := s.do(t, http.MethodPost, "/achievements/1/claim", 1, nil)
		list := s.do(t, http.MethodGet, "/achievements", 1, nil)

		// Assert
		require.Equal(t, http.StatusOK, claim.Code, claim.Body.String())
		assert.Equal(t, int64(50), decode[dto.ClaimResponse](t, claim).Amount)
		assert.Equal(t, http.StatusConflict, again.Code)
		statuses := decode[[]dto.AchievementStatusResponse](t, list)
		require.NotEmpty(t, statuses)
		for _, status := range statuses {
			if status.AchievementID == 1 {
				assert.True(t, status.Claimed)
			}
		}
	})
}

func TestRewardRoutes(t *testing.T) {
	// Arrange
	s := newTestServer(t, openGate{})
	require.Equal(t, http.StatusCreated, s.do(t, http.MethodPost, "/accounts", 1, nil).Code)

	// Act
	first := s.do(t, http.MethodPost, "/rewards/daily/claim", 1, nil)
	second := s.do(t, http.MethodPost, "/rewards/daily/claim", 1, nil)

	// Assert
	require.Equal(t, http.StatusOK, first.Code, first.Body.String())
	assert.Equal(t, economy.DefaultConfig().DailyReward, decode[dto.ClaimResponse](t, first).Balance)
	assert.Equal(t, http.StatusConflict, second.Code)
}

func TestMarketplaceRoutes(t *testing.T) {
	// Arrange
	s := newTestServer(t, openGate{})
	s.store.PutAccounts(*entity.NewAccount(1, 0, 3, testStart), *entity.NewAccount(2, 100, 3, testStart))
	s.store.PutInventory(1, 1, 2)

	// Act
	created := s.do(t, http.MethodPost, "/listings", 1, dto.CreateListingRequest{CardID: 1, Price: 100})
	require.Equal(t, http.StatusCreated, created.Code, created.Body.String())
	listing := decode[dto.ListingResponse](t, created)
	browse := s.do(t, http.MethodGet, "/listings?rarity=common", 2, nil)
	self := s.do(t, http.MethodPost, "/listings/"+strconv.FormatUint(listing.ListingID, 10)+"/purchase", 1, nil)
	bought := s.do(t, http.MethodPost, "/listings/"+strconv.FormatUint(listing.ListingID, 10)+"/purchase", 2, nil)
	after := s.do(t, http.MethodGet, "/listings", 2, nil)

	// Assert
	page := decode[dto.ListingPageResponse](t, browse)
	require.Len(t, page.Listings, 1)
	assert.Equal(t, 20, page.PageSize)
	assert.Equal(t, http.StatusUnprocessableEntity, self.Code)
	require.Equal(t, http.StatusOK, bought.Code, bought.Body.String())
	purchase := decode[dto.PurchaseResponse](t, bought)
	assert.Equal(t, int64(0), purchase.BuyerBalance)
	assert.Equal(t, string(entity.ListingSold), purchase.Listing.Status)
	assert.Empty(t, decode[dto.ListingPageResponse](t, after).Listings)

	t.Run("invalid body", func(t *testing.T) {
		w := s.do(t, http.MethodPost, "/listings", 1, map[string]any{"cardId": 1})

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("invalid rarity filter", func(t *testing.T) {
		w := s.do(t, http.MethodGet, "/listings?rarity=mythic", 1, nil)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestRateLimitedRequestsCarryRetryAfter(t *testing.T) {
	// Arrange
	gate := mockusecase.NewMockGatekeeper(t)
	gate.EXPECT().Check(mock.Anything, uint64(1), usecase.ActionClaimDaily).Return(&errs.RateLimitedError{
		AccountID:  1,
		Action:     usecase.ActionClaimDaily,
		Reason:     "per_minute",
		RetryAfter: 1500 * time.Millisecond,
		Err:        errs.ErrRateLimited,
	}).Once()
	s := newTestServer(t, gate)

	// Act
	w := s.do(t, http.MethodPost, "/rewards/daily/claim", 1, nil)

	// Assert
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "2", w.Header().Get("Retry-After"))
	assert.Equal(t, int64(2), decode[dto.ErrorResponse](t, w).RetryAfterSeconds)
}

func TestMetricsEndpoint(t *testing.T) {
	s := newTestServer(t, openGate{})
	s.do(t, http.MethodGet, "/health", 0, nil)

	w := s.do(t, http.MethodGet, "/metrics", 0, nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "http_requests_total")
}

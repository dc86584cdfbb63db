package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sangkips/dukahub-api/internal/config"
	"github.com/sangkips/dukahub-api/internal/domain/entity"
	infraRepo "github.com/sangkips/dukahub-api/internal/infrastructure/repository"
	"github.com/sangkips/dukahub-api/pkg/apperror"
	"github.com/sangkips/dukahub-api/pkg/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func decode(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return env
}

type revocations map[string]bool

func (r revocations) IsRevoked(_ context.Context, claims *utils.JWTClaims) (bool, error) {
	return r[claims.ID], nil
}

func authRouter(jwt *utils.JWTManager, checker RevocationChecker) *gin.Engine {
	r := gin.New()
	r.GET("/me", AuthMiddleware(jwt, checker), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user_id": c.MustGet("user_id"), "email": c.GetString("user_email")})
	})
	return r
}

func get(r http.Handler, path string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware(t *testing.T) {
	jwt := utils.NewJWTManager("test-secret", time.Hour, 24*time.Hour)
	userID := uuid.New()

	access, err := jwt.GenerateAccessToken(userID, "owner@duka.test")
	require.NoError(t, err)
	refresh, err := jwt.GenerateRefreshToken(userID)
	require.NoError(t, err)
	claims, err := jwt.ValidateAccessToken(access)
	require.NoError(t, err)

	t.Run("valid token", func(t *testing.T) {
		w := get(authRouter(jwt, revocations{}), "/me", map[string]string{"Authorization": "Bearer " + access})
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), userID.String())
		assert.Contains(t, w.Body.String(), "owner@duka.test")
	})

	tests := []struct {
		name    string
		header  string
		revoked revocations
		message string
	}{
		{"missing header", "", revocations{}, "Authorization header is required"},
		{"wrong scheme", "Token " + access, revocations{}, "Invalid authorization header format"},
		{"refresh token", "Bearer " + refresh, revocations{}, "Invalid or expired token"},
		{"garbage", "Bearer not-a-jwt", revocations{}, "Invalid or expired token"},
		{"signed out", "Bearer " + access, revocations{claims.ID: true}, "Session has been signed out"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			headers := map[string]string{}
			if tt.header != "" {
				headers["Authorization"] = tt.header
			}
			w := get(authRouter(jwt, tt.revoked), "/me", headers)
			assert.Equal(t, http.StatusUnauthorized, w.Code)
			env := decode(t, w)
			assert.False(t, env.Success)
			assert.Equal(t, tt.message, env.Message)
		})
	}
}

type stubResolver struct {
	business  *entity.Business
	err       error
	requested *uuid.UUID
}

func (s *stubResolver) ResolveBusiness(_ context.Context, _ uuid.UUID, requested *uuid.UUID) (*entity.Business, error) {
	s.requested = requested
	return s.business, s.err
}

func businessRouter(resolver BusinessResolver) *gin.Engine {
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("user_id", uuid.New())
		c.Next()
	})
	r.GET("/scoped", BusinessMiddleware(resolver), func(c *gin.Context) {
		id, ok := infraRepo.GetBusinessID(c.Request.Context())
		c.JSON(http.StatusOK, gin.H{"scoped": ok, "business_id": id, "gin_business_id": GetBusinessID(c)})
	})
	return r
}

func TestBusinessMiddlewareScopesRequestContext(t *testing.T) {
	business := &entity.Business{ID: uuid.New(), Name: "Duka"}
	resolver := &stubResolver{business: business}

	w := get(businessRouter(resolver), "/scoped", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Scoped        bool      `json:"scoped"`
		BusinessID    uuid.UUID `json:"business_id"`
		GinBusinessID uuid.UUID `json:"gin_business_id"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.True(t, body.Scoped)
	assert.Equal(t, business.ID, body.BusinessID)
	assert.Equal(t, business.ID, body.GinBusinessID)
	assert.Nil(t, resolver.requested)
}

func TestBusinessMiddlewarePassesRequestedBusiness(t *testing.T) {
	requested := uuid.New()
	resolver := &stubResolver{business: &entity.Business{ID: requested}}

	w := get(businessRouter(resolver), "/scoped", map[string]string{BusinessIDHeader: requested.String()})
	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, resolver.requested)
	assert.Equal(t, requested, *resolver.requested)
}

func TestBusinessMiddlewareRejects(t *testing.T) {
	t.Run("malformed header", func(t *testing.T) {
		w := get(businessRouter(&stubResolver{}), "/scoped", map[string]string{BusinessIDHeader: "nope"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("not the owner", func(t *testing.T) {
		w := get(businessRouter(&stubResolver{err: apperror.ErrForbidden}), "/scoped", nil)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("no business yet", func(t *testing.T) {
		w := get(businessRouter(&stubResolver{err: apperror.NewNotFoundError("Business")}), "/scoped", nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, "Business not found", decode(t, w).Message)
	})
}

type memoryIdempotencyRepo struct {
	mu   sync.Mutex
	keys map[string]*entity.IdempotencyKey
	fail error
}

func newMemoryIdempotencyRepo() *memoryIdempotencyRepo {
	return &memoryIdempotencyRepo{keys: map[string]*entity.IdempotencyKey{}}
}

func (r *memoryIdempotencyRepo) GetByKey(_ context.Context, key string, userID uuid.UUID) (*entity.IdempotencyKey, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fail != nil {
		return nil, r.fail
	}
	return r.keys[userID.String()+"/"+key], nil
}

func (r *memoryIdempotencyRepo) Reserve(_ context.Context, ikey *entity.IdempotencyKey) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fail != nil {
		return false, r.fail
	}
	id := ikey.UserID.String() + "/" + ikey.Key
	if existing, ok := r.keys[id]; ok && !existing.IsExpired() {
		return false, nil
	}
	c := *ikey
	c.Status = entity.IdempotencyPending
	r.keys[id] = &c
	return true, nil
}

func (r *memoryIdempotencyRepo) Complete(_ context.Context, ikey *entity.IdempotencyKey) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c := *ikey
	c.Status = entity.IdempotencyCompleted
	r.keys[ikey.UserID.String()+"/"+ikey.Key] = &c
	return nil
}

func (r *memoryIdempotencyRepo) Release(_ context.Context, key string, userID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	id := userID.String() + "/" + key
	if existing, ok := r.keys[id]; ok && existing.IsPending() {
		delete(r.keys, id)
	}
	return nil
}

func (r *memoryIdempotencyRepo) DeleteExpired(context.Context) (int64, error) {
	return 0, nil
}

func idempotencyRouter(repo *memoryIdempotencyRepo, userID uuid.UUID, calls *int, status int) *gin.Engine {
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("user_id", userID)
		c.Next()
	})
	cfg := IdempotencyConfig{Repo: repo}
	handler := func(c *gin.Context) {
		*calls++
		c.JSON(status, gin.H{"call": *calls})
	}
	r.POST("/sales", IdempotencyRequired(cfg), handler)
	r.POST("/products", Idempotency(cfg), handler)
	return r
}

func post(r http.Handler, path, key string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, nil)
	if key != "" {
		req.Header.Set(IdempotencyKeyHeader, key)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestIdempotencyRequiredReplaysFirstResponse(t *testing.T) {
	repo := newMemoryIdempotencyRepo()
	calls := 0
	r := idempotencyRouter(repo, uuid.New(), &calls, http.StatusCreated)

	first := post(r, "/sales", "sale-1")
	second := post(r, "/sales", "sale-1")

	assert.Equal(t, 1, calls)
	assert.Equal(t, http.StatusCreated, second.Code)
	assert.JSONEq(t, first.Body.String(), second.Body.String())
	assert.Equal(t, "true", second.Header().Get("X-Idempotency-Replayed"))

	post(r, "/sales", "sale-2")
	assert.Equal(t, 2, calls)
}

func TestIdempotencyRequiredRejectsMissingKey(t *testing.T) {
	calls := 0
	r := idempotencyRouter(newMemoryIdempotencyRepo(), uuid.New(), &calls, http.StatusCreated)

	w := post(r, "/sales", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Zero(t, calls)
}

func TestIdempotencyDoesNotStoreFailures(t *testing.T) {
	calls := 0
	r := idempotencyRouter(newMemoryIdempotencyRepo(), uuid.New(), &calls, http.StatusConflict)

	post(r, "/sales", "sale-1")
	w := post(r, "/sales", "sale-1")

	assert.Equal(t, 2, calls)
	assert.Empty(t, w.Header().Get("X-Idempotency-Replayed"))
}

func TestIdempotencyKeyBoundToEndpoint(t *testing.T) {
	calls := 0
	r := idempotencyRouter(newMemoryIdempotencyRepo(), uuid.New(), &calls, http.StatusCreated)

	post(r, "/products", "shared")
	w := post(r, "/sales", "shared")

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, 1, calls)
}

func TestIdempotencyOptionalWithoutKey(t *testing.T) {
	calls := 0
	r := idempotencyRouter(newMemoryIdempotencyRepo(), uuid.New(), &calls, http.StatusCreated)

	post(r, "/products", "")
	post(r, "/products", "")
	assert.Equal(t, 2, calls)
}

func TestIdempotencyConcurrentDuplicateIsRejected(t *testing.T) {
	repo := newMemoryIdempotencyRepo()
	userID := uuid.New()
	entered := make(chan struct{})
	release := make(chan struct{})
	var calls atomic.Int32

	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("user_id", userID)
		c.Next()
	})
	r.POST("/sales", IdempotencyRequired(IdempotencyConfig{Repo: repo}), func(c *gin.Context) {
		if calls.Add(1) == 1 {
			close(entered)
			<-release
		}
		c.JSON(http.StatusCreated, gin.H{"sale": "recorded"})
	})

	done := make(chan *httptest.ResponseRecorder)
	go func() { done <- post(r, "/sales", "sale-1") }()
	<-entered

	inFlight := post(r, "/sales", "sale-1")
	assert.Equal(t, http.StatusConflict, inFlight.Code)
	assert.Empty(t, inFlight.Header().Get("X-Idempotency-Replayed"))

	close(release)
	first := <-done
	assert.Equal(t, http.StatusCreated, first.Code)

	replayed := post(r, "/sales", "sale-1")
	assert.Equal(t, http.StatusCreated, replayed.Code)
	assert.Equal(t, "true", replayed.Header().Get("X-Idempotency-Replayed"))
	assert.Equal(t, int32(1), calls.Load())
}

func TestIdempotencyFailureReleasesReservation(t *testing.T) {
	repo := newMemoryIdempotencyRepo()
	userID := uuid.New()
	calls := 0
	r := idempotencyRouter(repo, userID, &calls, http.StatusConflict)

	post(r, "/sales", "sale-1")
	got, err := repo.GetByKey(context.Background(), "sale-1", userID)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestIdempotencyTakesOverStalePendingKey(t *testing.T) {
	repo := newMemoryIdempotencyRepo()
	userID := uuid.New()
	repo.keys[userID.String()+"/sale-1"] = &entity.IdempotencyKey{
		Key:       "sale-1",
		UserID:    userID,
		Endpoint:  "POST /sales",
		Status:    entity.IdempotencyPending,
		ExpiresAt: time.Now().Add(-time.Second),
	}
	calls := 0
	r := idempotencyRouter(repo, userID, &calls, http.StatusCreated)

	w := post(r, "/sales", "sale-1")
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, 1, calls)

	got, err := repo.GetByKey(context.Background(), "sale-1", userID)
	require.NoError(t, err)
	assert.Equal(t, entity.IdempotencyCompleted, got.Status)
}

func TestIdempotencyLookupFailure(t *testing.T) {
	repo := newMemoryIdempotencyRepo()
	repo.fail = errors.New("db down")
	calls := 0
	r := idempotencyRouter(repo, uuid.New(), &calls, http.StatusCreated)

	w := post(r, "/sales", "sale-1")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Zero(t, calls)
}

func TestBusinessRateLimiter(t *testing.T) {
	rl := NewBusinessRateLimiter(RateLimiterConfig{
		RequestsPerSecond: 0.001,
		BurstSize:         2,
		CleanupInterval:   time.Hour,
		EntryTTL:          time.Hour,
	})
	defer rl.Stop()

	busy, quiet := uuid.New(), uuid.New()
	r := gin.New()
	r.Use(func(c *gin.Context) {
		id, _ := uuid.Parse(c.GetHeader(BusinessIDHeader))
		c.Set("business_id", id)
		c.Next()
	})
	r.GET("/", rl.Middleware(), func(c *gin.Context) { c.Status(http.StatusOK) })

	hit := func(id uuid.UUID) int {
		return get(r, "/", map[string]string{BusinessIDHeader: id.String()}).Code
	}

	assert.Equal(t, http.StatusOK, hit(busy))
	assert.Equal(t, http.StatusOK, hit(busy))
	assert.Equal(t, http.StatusTooManyRequests, hit(busy))
	assert.Equal(t, http.StatusOK, hit(quiet))
	assert.Equal(t, 2, rl.Stats()["active_businesses"])
}

func TestRateLimiterConfigFrom(t *testing.T) {
	rl := RateLimiterConfigFrom(&config.RateLimitConfig{Requests: 120, Duration: 60})
	assert.InDelta(t, 2.0, rl.RequestsPerSecond, 1e-9)
	assert.Equal(t, 120, rl.BurstSize)

	fallback := RateLimiterConfigFrom(&config.RateLimitConfig{})
	assert.Equal(t, DefaultRateLimiterConfig(), fallback)
}

func TestCORSConfigAlwaysAllowsAPIHeaders(t *testing.T) {
	cfg := corsConfig(&config.CORSConfig{AllowedHeaders: []string{"Authorization"}})
	assert.Contains(t, cfg.AllowHeaders, "Authorization")
	assert.Contains(t, cfg.AllowHeaders, IdempotencyKeyHeader)
	assert.Contains(t, cfg.AllowHeaders, BusinessIDHeader)
	assert.NotEmpty(t, cfg.AllowOrigins)
}

func TestLoggerMiddlewareEchoesRequestID(t *testing.T) {
	r := gin.New()
	r.Use(LoggerMiddleware())
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, c.GetString("request_id")) })

	w := get(r, "/", map[string]string{"X-Request-ID": "abc"})
	assert.Equal(t, "abc", w.Header().Get("X-Request-ID"))
	assert.Equal(t, "abc", w.Body.String())

	w = get(r, "/", nil)
	_, err := uuid.Parse(w.Header().Get("X-Request-ID"))
	assert.NoError(t, err)
}

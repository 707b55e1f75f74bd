package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"mexared-ledger/internal/adapter/http/middleware"
	redisStore "mexared-ledger/internal/adapter/storage/redis"
	"mexared-ledger/pkg/apperror"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testActorHeader = "X-Test-Actor"

// rateLimitedRouter allows three requests a minute on /transfers. The
// caller's actor id comes from testActorHeader in place of a JWT.
func rateLimitedRouter(t *testing.T) (*gin.Engine, *miniredis.Miniredis) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	r := gin.New()
	r.Use(func(c *gin.Context) {
		if id, err := uuid.Parse(c.GetHeader(testActorHeader)); err == nil {
			c.Set(middleware.CtxActorID, id)
		}
		c.Next()
	})
	rule := middleware.RateLimitRule{Limit: 3, Window: time.Minute}
	r.POST("/transfers",
		middleware.RateLimiter(redisStore.NewRateLimitStore(client), "transfers", rule, zerolog.Nop()),
		func(c *gin.Context) { c.Status(http.StatusCreated) },
	)
	return r, mr
}

func postTransfer(r *gin.Engine, actor string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/transfers", nil)
	if actor != "" {
		req.Header.Set(testActorHeader, actor)
	}
	r.ServeHTTP(w, req)
	return w
}

func TestRateLimiter_LimitPerActor(t *testing.T) {
	r, _ := rateLimitedRouter(t)
	actor := uuid.NewString()

	for i := 0; i < 3; i++ {
		w := postTransfer(r, actor)
		require.Equal(t, http.StatusCreated, w.Code, "request %d", i+1)
		assert.Equal(t, "3", w.Header().Get("X-RateLimit-Limit"))
		assert.NotEmpty(t, w.Header().Get("X-RateLimit-Reset"))
	}

	w := postTransfer(r, actor)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "0", w.Header().Get("X-RateLimit-Remaining"))
	assert.NotEmpty(t, w.Header().Get("Retry-After"))
	assert.Contains(t, w.Body.String(), apperror.CodeRateLimited)

	// Another actor has its own budget.
	assert.Equal(t, http.StatusCreated, postTransfer(r, uuid.NewString()).Code)
}

func TestRateLimiter_AnonymousFallsBackToClientIP(t *testing.T) {
	r, _ := rateLimitedRouter(t)

	for i := 0; i < 3; i++ {
		require.Equal(t, http.StatusCreated, postTransfer(r, "").Code)
	}
	assert.Equal(t, http.StatusTooManyRequests, postTransfer(r, "").Code)
}

func TestRateLimiter_WindowExpiry(t *testing.T) {
	r, mr := rateLimitedRouter(t)
	actor := uuid.NewString()

	for i := 0; i < 3; i++ {
		postTransfer(r, actor)
	}
	require.Equal(t, http.StatusTooManyRequests, postTransfer(r, actor).Code)

	mr.FastForward(2 * time.Minute)
	assert.Equal(t, http.StatusCreated, postTransfer(r, actor).Code)
}

func TestRateLimiter_RedisDownFailsOpen(t *testing.T) {
	r, mr := rateLimitedRouter(t)
	mr.Close()

	assert.Equal(t, http.StatusCreated, postTransfer(r, uuid.NewString()).Code)
}

func TestDefaultRateLimitRules(t *testing.T) {
	rules := middleware.DefaultRateLimitRules()

	want := map[string]int64{"movements": 120, "transfers": 60, "margins": 60, "reads": 300, "reconcile": 10}
	require.Len(t, rules, len(want))
	for group, limit := range want {
		assert.Equal(t, limit, rules[group].Limit, group)
		assert.Equal(t, time.Minute, rules[group].Window, group)
	}
}

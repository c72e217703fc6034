package middleware

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/lotus-pos/internal/domain/entity"
	"github.com/sangkips/lotus-pos/pkg/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type memIdempotencyRepo struct {
	mu   sync.Mutex
	keys map[string]*entity.IdempotencyKey
}

func newMemIdempotencyRepo() *memIdempotencyRepo {
	return &memIdempotencyRepo{keys: map[string]*entity.IdempotencyKey{}}
}

func (r *memIdempotencyRepo) id(key string, employeeID uint) string {
	return fmt.Sprintf("%s/%d", key, employeeID)
}

func (r *memIdempotencyRepo) GetByKey(_ context.Context, key string, employeeID uint) (*entity.IdempotencyKey, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.keys[r.id(key, employeeID)], nil
}

func (r *memIdempotencyRepo) Create(_ context.Context, ikey *entity.IdempotencyKey) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.keys[r.id(ikey.Key, ikey.EmployeeID)] = ikey
	return nil
}

func (r *memIdempotencyRepo) DeleteExpired(context.Context) error { return nil }

func asEmployee(id uint, roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(ContextEmployeeID, id)
		c.Set(ContextEmployeeRoles, roles)
		c.Next()
	}
}

func TestAuthMiddleware(t *testing.T) {
	jwtManager := utils.NewJWTManager("secret", "lotus-pos")
	token, err := jwtManager.GenerateAccessToken(7, "Mai Tran", []string{"cashier"}, time.Hour)
	require.NoError(t, err)

	router := gin.New()
	router.GET("/me", AuthMiddleware(jwtManager), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"employee_id": GetEmployeeID(c), "name": c.GetString(ContextEmployeeName)})
	})

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic " + token, http.StatusUnauthorized},
		{"garbage token", "Bearer nope", http.StatusUnauthorized},
		{"valid token", "Bearer " + token, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.want, w.Code)
			if tt.want == http.StatusOK {
				assert.Contains(t, w.Body.String(), `"employee_id":7`)
				assert.Contains(t, w.Body.String(), "Mai Tran")
			}
		})
	}
}

func TestRequireRole(t *testing.T) {
	ok := func(c *gin.Context) { c.Status(http.StatusNoContent) }

	router := gin.New()
	router.POST("/cashier", asEmployee(7, "cashier"), RequireRole("manager", "admin"), ok)
	router.POST("/manager", asEmployee(8, "manager"), RequireRole("manager", "admin"), ok)
	router.POST("/nobody", RequireRole("manager"), ok)

	for path, want := range map[string]int{
		"/cashier": http.StatusForbidden,
		"/manager": http.StatusNoContent,
		"/nobody":  http.StatusForbidden,
	} {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, path, nil))
		assert.Equal(t, want, w.Code, path)
	}
}

func TestIdempotencyRequired(t *testing.T) {
	repo := newMemIdempotencyRepo()
	calls := 0

	router := gin.New()
	router.POST("/invoices", asEmployee(7), IdempotencyRequired(IdempotencyConfig{Repo: repo}), func(c *gin.Context) {
		calls++
		if c.Query("fail") == "1" {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false})
			return
		}
		c.JSON(http.StatusCreated, gin.H{"invoice": calls})
	})

	post := func(key, query string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/invoices"+query, strings.NewReader("{}"))
		if key != "" {
			req.Header.Set(IdempotencyKeyHeader, key)
		}
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	t.Run("key required", func(t *testing.T) {
		w := post("", "")
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, 0, calls)
	})

	t.Run("replays a stored response", func(t *testing.T) {
		first := post("pay-1", "")
		require.Equal(t, http.StatusCreated, first.Code)

		second := post("pay-1", "")
		assert.Equal(t, http.StatusCreated, second.Code)
		assert.Equal(t, "true", second.Header().Get("X-Idempotency-Replayed"))
		assert.JSONEq(t, first.Body.String(), second.Body.String())
		assert.Equal(t, 1, calls)
	})

	t.Run("failed attempts can be retried", func(t *testing.T) {
		failed := post("pay-2", "?fail=1")
		assert.Equal(t, http.StatusInternalServerError, failed.Code)

		retried := post("pay-2", "")
		assert.Equal(t, http.StatusCreated, retried.Code)
		assert.Empty(t, retried.Header().Get("X-Idempotency-Replayed"))
	})

	t.Run("expired keys are ignored", func(t *testing.T) {
		require.NoError(t, repo.Create(context.Background(), &entity.IdempotencyKey{
			Key: "old", EmployeeID: 7, ResponseCode: http.StatusCreated,
			ResponseBody: `{"stale":true}`, ExpiresAt: time.Now().Add(-time.Minute),
		}))
		w := post("old", "")
		assert.Equal(t, http.StatusCreated, w.Code)
		assert.NotContains(t, w.Body.String(), "stale")
	})
}

func TestRateLimiter_PerEmployee(t *testing.T) {
	rl := NewRateLimiter(RateLimiterConfig{RequestsPerSecond: 0.001, BurstSize: 2, CleanupInterval: time.Minute, EntryTTL: time.Minute})
	defer rl.Stop()

	router := gin.New()
	router.GET("/a", asEmployee(1), rl.Middleware(), func(c *gin.Context) { c.Status(http.StatusOK) })
	router.GET("/b", asEmployee(2), rl.Middleware(), func(c *gin.Context) { c.Status(http.StatusOK) })

	hit := func(path string) int {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		return w.Code
	}

	assert.Equal(t, http.StatusOK, hit("/a"))
	assert.Equal(t, http.StatusOK, hit("/a"))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/a", nil))
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "1", w.Header().Get("Retry-After"))
	assert.Equal(t, "0", w.Header().Get("X-RateLimit-Remaining"))
	assert.Contains(t, w.Body.String(), `"success":false`)

	// another employee has its own bucket
	assert.Equal(t, http.StatusOK, hit("/b"))
}

func TestLoggerMiddleware_SetsRequestID(t *testing.T) {
	router := gin.New()
	router.Use(LoggerMiddleware())
	router.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("X-Request-ID", "abc")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, "abc", w.Header().Get("X-Request-ID"))
}

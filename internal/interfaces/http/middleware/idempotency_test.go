package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hrms/backend/internal/infrastructure/cache"
	"github.com/hrms/backend/internal/interfaces/http/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingStore struct{}

func (failingStore) MarkProcessed(context.Context, string, time.Duration) (bool, error) {
	return false, errors.New("redis down")
}
func (failingStore) IsProcessed(context.Context, string) (bool, error) { return false, nil }
func (failingStore) Forget(context.Context, string) error            { return nil }
func (failingStore) Close() error                                    { return nil }

func idempotencyRouter(t *testing.T, status *int, calls *int) (*gin.Engine, *cache.InMemoryIdempotencyStore) {
	t.Helper()
	store := cache.NewInMemoryIdempotencyStore()
	t.Cleanup(func() { _ = store.Close() })

	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set(JWTUserIDKey, c.GetHeader("X-Test-User"))
		c.Next()
	})
	router.POST("/punch-in", Idempotency(store, time.Hour), func(c *gin.Context) {
		*calls++
		c.Status(*status)
	})
	return router, store
}

func sendPunch(router *gin.Engine, user, key string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/punch-in", nil)
	req.Header.Set("X-Test-User", user)
	if key != "" {
		req.Header.Set(IdempotencyKeyHeader, key)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestIdempotency_RejectsRepeatedKey(t *testing.T) {
	status, calls := http.StatusCreated, 0
	router, _ := idempotencyRouter(t, &status, &calls)

	first := sendPunch(router, "u1", "k-1")
	second := sendPunch(router, "u1", "k-1")

	assert.Equal(t, http.StatusCreated, first.Code)
	assert.Equal(t, http.StatusConflict, second.Code)
	assert.Contains(t, second.Body.String(), dto.ErrCodeDuplicateRequest)
	assert.Equal(t, 1, calls)
}

func TestIdempotency_KeysAreScopedPerUser(t *testing.T) {
	status, calls := http.StatusCreated, 0
	router, _ := idempotencyRouter(t, &status, &calls)

	assert.Equal(t, http.StatusCreated, sendPunch(router, "u1", "same").Code)
	assert.Equal(t, http.StatusCreated, sendPunch(router, "u2", "same").Code)
	assert.Equal(t, 2, calls)
}

func TestIdempotency_NoHeaderPassesThrough(t *testing.T) {
	status, calls := http.StatusCreated, 0
	router, store := idempotencyRouter(t, &status, &calls)

	sendPunch(router, "u1", "")
	sendPunch(router, "u1", "")

	assert.Equal(t, 2, calls)
	assert.Equal(t, 0, store.Size())
}

func TestIdempotency_ServerErrorReleasesKey(t *testing.T) {
	status, calls := http.StatusInternalServerError, 0
	router, _ := idempotencyRouter(t, &status, &calls)

	assert.Equal(t, http.StatusInternalServerError, sendPunch(router, "u1", "retry-me").Code)
	status = http.StatusCreated
	assert.Equal(t, http.StatusCreated, sendPunch(router, "u1", "retry-me").Code)
	assert.Equal(t, 2, calls)
}

func TestIdempotency_ClientErrorKeepsKey(t *testing.T) {
	status, calls := http.StatusConflict, 0
	router, _ := idempotencyRouter(t, &status, &calls)

	sendPunch(router, "u1", "k")
	w := sendPunch(router, "u1", "k")

	assert.Contains(t, w.Body.String(), dto.ErrCodeDuplicateRequest)
	assert.Equal(t, 1, calls)
}

func TestIdempotency_OversizedKey(t *testing.T) {
	status, calls := http.StatusCreated, 0
	router, _ := idempotencyRouter(t, &status, &calls)

	w := sendPunch(router, "u1", strings.Repeat("k", MaxIdempotencyKeyLength+1))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, 0, calls)
}

func TestIdempotency_StoreFailureFailsOpen(t *testing.T) {
	calls := 0
	router := gin.New()
	router.POST("/punch-in", Idempotency(failingStore{}, time.Hour), func(c *gin.Context) {
		calls++
		c.Status(http.StatusCreated)
	})

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodPost, "/punch-in", nil)
		req.Header.Set(IdempotencyKeyHeader, "k")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		require.Equal(t, http.StatusCreated, w.Code)
	}
	assert.Equal(t, 2, calls)
}

package middleware

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hrms/backend/internal/domain/shared"
	"github.com/hrms/backend/internal/infrastructure/logger"
	"github.com/hrms/backend/internal/interfaces/http/dto"
	"go.uber.org/zap"
)

// IdempotencyKeyHeader names the client-chosen key of a mutating request
const IdempotencyKeyHeader = "Idempotency-Key"

// MaxIdempotencyKeyLength bounds the header value
const MaxIdempotencyKeyLength = 255

// Idempotency rejects a repeated Idempotency-Key with 409 DUPLICATE_REQUEST.
// Keys are scoped to the caller and route. A 5xx response releases the key so
// the client may retry. Requests without the header pass through, and a store
// failure lets the request through rather than blocking a punch.
func Idempotency(store shared.IdempotencyStore, ttl time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := strings.TrimSpace(c.GetHeader(IdempotencyKeyHeader))
		if raw == "" {
			c.Next()
			return
		}
		if len(raw) > MaxIdempotencyKeyLength {
			c.AbortWithStatusJSON(http.StatusBadRequest, dto.NewErrorResponseWithRequestID(
				dto.ErrCodeInvalidInput, "Idempotency-Key is too long", getRequestID(c),
			))
			return
		}

		ctx := c.Request.Context()
		key := idempotencyKey(c, raw)
		fresh, err := store.MarkProcessed(ctx, key, ttl)
		if err != nil {
			logger.L(ctx).Warn("Idempotency store unavailable, processing request",
				zap.String("idempotency_key", raw),
				zap.Error(err),
			)
			c.Next()
			return
		}
		if !fresh {
			logger.L(ctx).Info("Duplicate request rejected", zap.String("idempotency_key", raw))
			c.AbortWithStatusJSON(http.StatusConflict, dto.NewErrorResponseWithRequestID(
				shared.ErrDuplicateRequest.Code, shared.ErrDuplicateRequest.Message, getRequestID(c),
			))
			return
		}

		c.Next()

		if c.Writer.Status() >= http.StatusInternalServerError {
			if err := store.Forget(context.WithoutCancel(ctx), key); err != nil {
				logger.L(ctx).Warn("Failed to release idempotency key",
					zap.String("idempotency_key", raw),
					zap.Error(err),
				)
			}
		}
	}
}

func idempotencyKey(c *gin.Context, raw string) string {
	return GetJWTUserID(c) + ":" + c.Request.Method + ":" + c.FullPath() + ":" + raw
}

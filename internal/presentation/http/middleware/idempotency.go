package middleware

import (
	"bytes"
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sangkips/dukahub-api/internal/domain/entity"
	"github.com/sangkips/dukahub-api/internal/domain/repository"
	"github.com/sangkips/dukahub-api/internal/presentation/http/dto/response"
)

const (
	// IdempotencyKeyHeader is the HTTP header for idempotency keys
	IdempotencyKeyHeader = "Idempotency-Key"
	// IdempotencyKeyTTL is how long keys are valid
	IdempotencyKeyTTL = 24 * time.Hour
	// IdempotencyPendingTTL bounds how long a reservation from a request
	// that never finished blocks the key
	IdempotencyPendingTTL = 2 * time.Minute
)

// IdempotencyConfig holds configuration for the idempotency middleware
type IdempotencyConfig struct {
	Repo repository.IdempotencyRepository
}

// responseWriter wraps gin.ResponseWriter to capture the response body
type responseWriter struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (w responseWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

// Idempotency replays the stored response when a write is retried with the
// same Idempotency-Key. Requests without the header run normally.
func Idempotency(config IdempotencyConfig) gin.HandlerFunc {
	return idempotency(config, false)
}

// IdempotencyRequired is the strict variant: POSTs without a key are rejected
func IdempotencyRequired(config IdempotencyConfig) gin.HandlerFunc {
	return idempotency(config, true)
}

func idempotency(config IdempotencyConfig, required bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method != http.MethodPost && c.Request.Method != http.MethodPut && c.Request.Method != http.MethodPatch {
			c.Next()
			return
		}

		key := c.GetHeader(IdempotencyKeyHeader)
		if key == "" {
			if required && c.Request.Method == http.MethodPost {
				response.BadRequest(c, IdempotencyKeyHeader+" header is required for this request")
				c.Abort()
				return
			}
			c.Next()
			return
		}

		userID, ok := c.Get("user_id")
		if !ok {
			response.Unauthorized(c, "User not authenticated")
			c.Abort()
			return
		}
		uid, ok := userID.(uuid.UUID)
		if !ok {
			response.Unauthorized(c, "Invalid user ID")
			c.Abort()
			return
		}

		endpoint := c.Request.Method + " " + c.FullPath()
		ctx := c.Request.Context()

		ikey := &entity.IdempotencyKey{
			Key:       key,
			UserID:    uid,
			Endpoint:  endpoint,
			ExpiresAt: time.Now().Add(IdempotencyPendingTTL),
		}
		reserved, err := config.Repo.Reserve(ctx, ikey)
		if err != nil {
			response.InternalServerError(c, "Failed to check idempotency key")
			c.Abort()
			return
		}

		if !reserved {
			existing, err := config.Repo.GetByKey(ctx, key, uid)
			if err != nil {
				response.InternalServerError(c, "Failed to check idempotency key")
				c.Abort()
				return
			}
			switch {
			case existing != nil && existing.Endpoint != endpoint:
				response.ErrorWithCode(c, http.StatusUnprocessableEntity, IdempotencyKeyHeader+" was already used for a different request")
			case existing == nil || existing.IsPending():
				response.ErrorWithCode(c, http.StatusConflict, "A request with this "+IdempotencyKeyHeader+" is still being processed")
			default:
				c.Header("X-Idempotency-Replayed", "true")
				c.Data(existing.ResponseCode, "application/json; charset=utf-8", []byte(existing.ResponseBody))
			}
			c.Abort()
			return
		}

		blw := &responseWriter{body: bytes.NewBufferString(""), ResponseWriter: c.Writer}
		c.Writer = blw

		c.Next()

		// the client may be gone by now, the key still has to be settled
		settle := context.WithoutCancel(ctx)

		// Only successful responses are replayed; failures may be retried
		status := c.Writer.Status()
		if status < 200 || status >= 300 {
			if err := config.Repo.Release(settle, key, uid); err != nil {
				log.Printf("[idempotency] failed to release key for %s: %v", endpoint, err)
			}
			return
		}

		ikey.ResponseCode = status
		ikey.ResponseBody = blw.body.String()
		ikey.ExpiresAt = time.Now().Add(IdempotencyKeyTTL)
		if err := config.Repo.Complete(settle, ikey); err != nil {
			log.Printf("[idempotency] failed to store key for %s: %v", endpoint, err)
		}
	}
}

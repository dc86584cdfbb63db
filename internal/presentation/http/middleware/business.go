package middleware

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sangkips/dukahub-api/internal/domain/entity"
	infraRepo "github.com/sangkips/dukahub-api/internal/infrastructure/repository"
	"github.com/sangkips/dukahub-api/internal/presentation/http/dto/response"
)

// BusinessIDHeader lets a client act on a business other than its current one
const BusinessIDHeader = "X-Business-ID"

// BusinessResolver finds the business a user acts on and checks ownership
type BusinessResolver interface {
	ResolveBusiness(ctx context.Context, userID uuid.UUID, requested *uuid.UUID) (*entity.Business, error)
}

// BusinessMiddleware resolves the business for the request from the
// X-Business-ID header or the user's current business, and scopes the
// request context to it. Must run after AuthMiddleware.
func BusinessMiddleware(resolver BusinessResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := c.Get("user_id")
		if !ok {
			response.Unauthorized(c, "User not authenticated")
			c.Abort()
			return
		}

		var requested *uuid.UUID
		if raw := c.GetHeader(BusinessIDHeader); raw != "" {
			id, err := uuid.Parse(raw)
			if err != nil {
				response.BadRequest(c, "Invalid "+BusinessIDHeader+" header")
				c.Abort()
				return
			}
			requested = &id
		}

		business, err := resolver.ResolveBusiness(c.Request.Context(), userID.(uuid.UUID), requested)
		if err != nil {
			response.Error(c, err)
			c.Abort()
			return
		}

		c.Set("business_id", business.ID)
		c.Set("business", business)

		ctx := infraRepo.WithBusiness(c.Request.Context(), business.ID)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// GetBusinessID retrieves the business ID from gin context
func GetBusinessID(c *gin.Context) uuid.UUID {
	businessID, exists := c.Get("business_id")
	if !exists {
		return uuid.Nil
	}
	id, ok := businessID.(uuid.UUID)
	if !ok {
		return uuid.Nil
	}
	return id
}

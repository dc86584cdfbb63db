package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sangkips/dukahub-api/internal/domain/entity"
	"github.com/sangkips/dukahub-api/pkg/apperror"
	"github.com/sangkips/dukahub-api/pkg/utils"
)

// GetUserID extracts the user ID from the Gin context
func GetUserID(c *gin.Context) *uuid.UUID {
	userIDVal, exists := c.Get("user_id")
	if !exists {
		return nil
	}
	userID, ok := userIDVal.(uuid.UUID)
	if !ok {
		return nil
	}
	return &userID
}

// GetClaims returns the validated access token claims set by AuthMiddleware
func GetClaims(c *gin.Context) *utils.JWTClaims {
	claims, exists := c.Get("user_claims")
	if !exists {
		return nil
	}
	jwtClaims, _ := claims.(*utils.JWTClaims)
	return jwtClaims
}

// GetBusiness returns the business resolved by BusinessMiddleware
func GetBusiness(c *gin.Context) *entity.Business {
	b, exists := c.Get("business")
	if !exists {
		return nil
	}
	business, _ := b.(*entity.Business)
	return business
}

// parseID reads a UUID path parameter
func parseID(c *gin.Context, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		return uuid.Nil, apperror.NewBadRequestError("Invalid " + name)
	}
	return id, nil
}

// parseOptionalID parses an optional UUID filter value
func parseOptionalID(raw, name string) (*uuid.UUID, error) {
	if raw == "" {
		return nil, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, apperror.NewBadRequestError("Invalid " + name)
	}
	return &id, nil
}

// parseThreshold reads the optional low-stock threshold override
func parseThreshold(c *gin.Context) (*int, error) {
	raw := c.Query("threshold")
	if raw == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return nil, apperror.NewFieldError("threshold", "Threshold must be a non-negative integer")
	}
	return &n, nil
}

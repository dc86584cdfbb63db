package middleware

import (
	"context"
	"log"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/dukahub-api/internal/presentation/http/dto/response"
	"github.com/sangkips/dukahub-api/pkg/utils"
)

// RevocationChecker reports whether a signed-out token is still presented
type RevocationChecker interface {
	IsRevoked(ctx context.Context, claims *utils.JWTClaims) (bool, error)
}

// AuthMiddleware creates a JWT authentication middleware. Tokens revoked by
// sign-out are rejected until they expire.
func AuthMiddleware(jwtManager *utils.JWTManager, revocations RevocationChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.Unauthorized(c, "Authorization header is required")
			c.Abort()
			return
		}

		// Extract token from "Bearer <token>"
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			response.Unauthorized(c, "Invalid authorization header format")
			c.Abort()
			return
		}

		claims, err := jwtManager.ValidateAccessToken(parts[1])
		if err != nil {
			response.Unauthorized(c, "Invalid or expired token")
			c.Abort()
			return
		}

		if revocations != nil {
			revoked, err := revocations.IsRevoked(c.Request.Context(), claims)
			if err != nil {
				log.Printf("[auth] revocation lookup failed for %s: %v", claims.ID, err)
				response.InternalServerError(c, "Failed to verify session")
				c.Abort()
				return
			}
			if revoked {
				response.Unauthorized(c, "Session has been signed out")
				c.Abort()
				return
			}
		}

		c.Set("user_id", claims.UserID)
		c.Set("user_email", claims.Email)
		c.Set("user_claims", claims)

		c.Next()
	}
}

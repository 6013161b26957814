package handlers

import (
	"net/http"
	"strings"

	"github.com/dsyengo/dekai-smart-poultry-backend/internal/services"
	"github.com/dsyengo/dekai-smart-poultry-backend/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const contextUserIDKey = "userID"

// AuthMiddleware verifies the bearer token and checks it against the active
// Redis session, so revoked tokens stop working before their JWT expiry.
func AuthMiddleware(jwtService *services.JWTService, sessionService services.SessionStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, found := strings.CutPrefix(header, "Bearer ")
		if !found || strings.TrimSpace(token) == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				utils.CreateErrorResponse("UNAUTHORIZED", "missing bearer token"))
			return
		}
		token = strings.TrimSpace(token)

		claims, err := jwtService.VerifyToken(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				utils.CreateErrorResponse("UNAUTHORIZED", "invalid or expired token"))
			return
		}

		userID, err := uuid.Parse(claims.UserID)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				utils.CreateErrorResponse("UNAUTHORIZED", "invalid token subject"))
			return
		}

		if err := sessionService.ValidateSession(c.Request.Context(), userID, token); err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				utils.CreateErrorResponse("UNAUTHORIZED", "session expired, please log in again"))
			return
		}

		c.Set(contextUserIDKey, userID)
		c.Next()
	}
}

// CurrentUserID reads the authenticated user id set by AuthMiddleware.
func CurrentUserID(c *gin.Context) (uuid.UUID, bool) {
	value, exists := c.Get(contextUserIDKey)
	if !exists {
		return uuid.Nil, false
	}
	userID, ok := value.(uuid.UUID)
	return userID, ok
}

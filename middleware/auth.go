package middleware

import (
	"net/http"
	"strings"

	"wanderlust/utils"

	"github.com/gin-gonic/gin"
)

// JWTAuthMiddleware requires a valid bearer token and stores the
// authenticated user id in the context as "userID".
func JWTAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				utils.FormatResponse(false, "Missing or invalid Authorization header", nil))
			return
		}
		tokenString := strings.TrimPrefix(authHeader, "Bearer ")

		userID, err := utils.ExtractUserIDFromToken(tokenString)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				utils.FormatResponse(false, "Invalid token", nil))
			return
		}

		c.Set("userID", userID)
		c.Next()
	}
}

// OptionalAuthMiddleware sets "userID" when a valid bearer token is present
// and lets anonymous requests through untouched. A malformed token is
// ignored rather than rejected.
func OptionalAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if strings.HasPrefix(authHeader, "Bearer ") {
			tokenString := strings.TrimPrefix(authHeader, "Bearer ")
			if userID, err := utils.ExtractUserIDFromToken(tokenString); err == nil {
				c.Set("userID", userID)
			}
		}
		c.Next()
	}
}

package middleware

import (
	"strings"

	"a-panel/internal/services"

	"github.com/gin-gonic/gin"
)

// AuthMiddleware verifies the bearer token on protected routes. Verification
// is stateless: signature and expiry against the server secret, no database
// access. A missing token is 403, a bad token is 401, matching the API
// contract downstream clients rely on.
func AuthMiddleware(tokenService *services.TokenService) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		token := extractBearerToken(authHeader)
		if token == "" {
			c.JSON(403, gin.H{"success": false, "message": "No token provided"})
			c.Abort()
			return
		}

		claims, err := tokenService.VerifyAccessToken(token)
		if err != nil {
			c.JSON(401, gin.H{"success": false, "message": "Unauthorized: Invalid or expired token"})
			c.Abort()
			return
		}

		c.Set("user_id", claims.UserID)
		c.Set("username", claims.Username)
		c.Set("role", claims.Role)

		c.Next()
	}
}

// extractBearerToken pulls the token out of an "Authorization: Bearer x"
// header, returning "" if the header is absent or malformed.
func extractBearerToken(authHeader string) string {
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return ""
	}
	return parts[1]
}

func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, exists := c.Get("role")
		if !exists {
			c.JSON(401, gin.H{"success": false, "message": "Unauthorized"})
			c.Abort()
			return
		}

		userRole := role.(string)
		hasRole := false
		for _, r := range roles {
			if userRole == r {
				hasRole = true
				break
			}
		}

		if !hasRole {
			c.JSON(403, gin.H{"success": false, "message": "Forbidden: insufficient permissions"})
			c.Abort()
			return
		}

		c.Next()
	}
}

package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	jwtsvc "pdfvault/internal/pkg/jwt"
	"pdfvault/internal/pkg/response"
)

// JWTAuth validates the bearer token and stores its subject under "owner".
func JWTAuth(jwt *jwtsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.GetHeader("Authorization")
		if h == "" {
			response.Error(c, http.StatusUnauthorized, "AUTH_HEADER_MISSING", "Missing Authorization header")
			return
		}

		if !strings.HasPrefix(h, "Bearer ") {
			response.Error(c, http.StatusUnauthorized, "INVALID_AUTH_FORMAT", "Invalid Authorization header")
			return
		}

		tokenStr := strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
		if tokenStr == "" {
			response.Error(c, http.StatusUnauthorized, "INVALID_AUTH_FORMAT", "Empty token")
			return
		}

		claims, err := jwt.ValidateToken(tokenStr)
		if err != nil {
			response.Error(c, http.StatusUnauthorized, "INVALID_TOKEN", "Invalid token")
			return
		}

		c.Set("owner", claims.Owner())
		c.Next()
	}
}

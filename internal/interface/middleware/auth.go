package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/moneta-app/moneta-server/pkg/helpers"
	"github.com/moneta-app/moneta-server/pkg/response"
)

// CtxUserIDKey is the gin context key holding the authenticated user id.
const CtxUserIDKey = "userID"

// Auth verifies the bearer token on every protected request and injects the
// resolved user id into the Gin context. Verification happens per request;
// nothing is memoized. Any failure short-circuits with 401 before handler
// code runs.
func Auth(jwt *helpers.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			response.AbortError(c, http.StatusUnauthorized, response.KindUnauthorized, "missing access token", nil)
			return
		}
		userID, err := jwt.Verify(token)
		if err != nil {
			msg := "invalid access token"
			if errors.Is(err, helpers.ErrTokenExpired) {
				msg = "access token expired"
			}
			response.AbortError(c, http.StatusUnauthorized, response.KindUnauthorized, msg, nil)
			return
		}
		c.Set(CtxUserIDKey, userID)
		c.Next()
	}
}

func bearerToken(c *gin.Context) string {
	h := c.GetHeader("Authorization")
	if h == "" {
		return ""
	}
	parts := strings.SplitN(h, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

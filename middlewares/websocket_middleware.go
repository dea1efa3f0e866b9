package middlewares

import (
	"errors"
	"net/http"

	"github.com/devleo10/dishly/utils"
	"github.com/gin-gonic/gin"
)

// WebSocketAuthMiddleware reads the token from ?token= because browsers
// cannot set headers on a websocket handshake.
func WebSocketAuthMiddleware(tokens *utils.TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.Query("token")
		if token == "" {
			utils.RespondError(c, http.StatusUnauthorized, errors.New("Unauthorized"))
			c.Abort()
			return
		}

		if !authenticate(c, tokens, token) {
			return
		}
		c.Next()
	}
}

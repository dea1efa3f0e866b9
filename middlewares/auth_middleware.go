package middlewares

import (
	"errors"
	"net/http"
	"strings"

	"github.com/devleo10/dishly/services"
	"github.com/devleo10/dishly/utils"
	"github.com/gin-gonic/gin"
)

const actorKey = "actor"

// AuthMiddleware verifies the bearer token and stores the caller in the
// context. user_id, email and role are also set for handlers that only need
// one of them.
func AuthMiddleware(tokens *utils.TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			utils.RespondError(c, http.StatusUnauthorized, errors.New("Unauthorized"))
			c.Abort()
			return
		}

		tokenString, ok := strings.CutPrefix(authHeader, "Bearer ")
		if !ok || strings.TrimSpace(tokenString) == "" {
			utils.RespondError(c, http.StatusUnauthorized, errors.New("Unauthorized"))
			c.Abort()
			return
		}

		if !authenticate(c, tokens, strings.TrimSpace(tokenString)) {
			return
		}
		c.Next()
	}
}

func authenticate(c *gin.Context, tokens *utils.TokenManager, tokenString string) bool {
	claims, err := tokens.ParseToken(tokenString)
	if err != nil {
		utils.RespondError(c, http.StatusUnauthorized, errors.New("Invalid token"))
		c.Abort()
		return false
	}

	c.Set(actorKey, services.Actor{UserID: claims.UserID, Email: claims.Email, Role: claims.Role})
	c.Set("user_id", claims.UserID)
	c.Set("email", claims.Email)
	c.Set("role", claims.Role)
	return true
}

// CurrentActor returns the caller stored by AuthMiddleware.
func CurrentActor(c *gin.Context) (services.Actor, bool) {
	v, ok := c.Get(actorKey)
	if !ok {
		return services.Actor{}, false
	}
	actor, ok := v.(services.Actor)
	return actor, ok
}

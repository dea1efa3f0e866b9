package middlewares

import (
	"errors"
	"net/http"

	"github.com/devleo10/dishly/models"
	"github.com/devleo10/dishly/services"
	"github.com/devleo10/dishly/utils"
	"github.com/gin-gonic/gin"
)

// RequireRoles guards a whole route group. It must run after AuthMiddleware.
func RequireRoles(action string, allowed ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := CurrentActor(c)
		if !ok {
			utils.RespondError(c, http.StatusUnauthorized, errors.New("Unauthorized"))
			c.Abort()
			return
		}

		if err := services.RequireRole(actor, action, allowed...); err != nil {
			utils.RespondError(c, http.StatusForbidden, err)
			c.Abort()
			return
		}
		c.Next()
	}
}

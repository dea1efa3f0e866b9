package utils

import (
	"github.com/gin-gonic/gin"
)

// RespondJSON writes payload with a top-level message, e.g.
// {"message": "Order created successfully", "order": {...}}.
func RespondJSON(c *gin.Context, code int, message string, payload gin.H) {
	body := gin.H{}
	for k, v := range payload {
		body[k] = v
	}
	if message != "" {
		body["message"] = message
	}
	c.JSON(code, body)
}

func RespondError(c *gin.Context, code int, err error) {
	c.JSON(code, gin.H{"message": err.Error()})
}

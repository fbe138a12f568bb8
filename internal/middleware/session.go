// internal/middleware/session.go
package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/javajoker/grocery-browser/internal/utils"
)

const SessionHeader = "X-Cart-Session"

// CartSessionRequired rejects requests without a well-formed cart session id.
func CartSessionRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := c.GetHeader(SessionHeader)
		if raw == "" {
			utils.UnauthorizedResponse(c, "")
			c.Abort()
			return
		}

		id, err := uuid.Parse(raw)
		if err != nil {
			utils.BadRequestResponse(c, "Invalid cart session id", nil)
			c.Abort()
			return
		}

		c.Set("cart_session", id.String())
		c.Next()
	}
}

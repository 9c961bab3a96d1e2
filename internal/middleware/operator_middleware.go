package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
)

// OperatorHeader carries the operator recorded on bills and acknowledgements.
const OperatorHeader = "X-User-ID"

// Operator copies the operator header into the context as "userID".
// The value is not verified; it only attributes records.
func Operator() gin.HandlerFunc {
	return func(c *gin.Context) {
		if id := strings.TrimSpace(c.GetHeader(OperatorHeader)); id != "" {
			c.Set("userID", id)
		}
		c.Next()
	}
}


package api

import (
	"crypto/subtle"

	"github.com/gin-gonic/gin"
)

// JobTokenHeader carries the shared secret that authorizes scheduler calls.
const JobTokenHeader = "X-Job-Token"

// RequireJobToken guards the job-trigger endpoints. The token is a single
// shared secret; an empty configured token disables the endpoints entirely
// rather than leaving them open.
func RequireJobToken(token string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token == "" {
			UnauthorizedResponse(c)
			c.Abort()
			return
		}
		got := c.GetHeader(JobTokenHeader)
		if subtle.ConstantTimeCompare([]byte(got), []byte(token)) != 1 {
			UnauthorizedResponse(c)
			c.Abort()
			return
		}
		c.Next()
	}
}

package middleware

import (
	"time"

	"github.com/didip/tollbooth/v6"
	"github.com/didip/tollbooth/v6/limiter"
	"github.com/gin-gonic/gin"
)

// RateLimit throttles per client IP at the HTTP layer. The auth surfaces
// additionally enforce their own per-principal issuance windows; this guard
// just keeps brute-force traffic off the bcrypt path.
func RateLimit(perSecond float64) gin.HandlerFunc {
	lmt := tollbooth.NewLimiter(perSecond, &limiter.ExpirableOptions{
		DefaultExpirationTTL: time.Hour,
	})
	lmt.SetIPLookups([]string{"X-Forwarded-For", "RemoteAddr", "X-Real-IP"})
	lmt.SetMessageContentType("application/json")
	lmt.SetMessage(`{"error":"too many requests, try later"}`)

	return func(c *gin.Context) {
		if httpError := tollbooth.LimitByRequest(lmt, c.Writer, c.Request); httpError != nil {
			c.Data(httpError.StatusCode, lmt.GetMessageContentType(), []byte(lmt.GetMessage()))
			c.Abort()
			return
		}
		c.Next()
	}
}

package v1

import (
	"math"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// reportLimitKey - часть тела обращения, по которой считается лимит
type reportLimitKey struct {
	ReporterID string `json:"reporter_id"`
}

// ReportRateLimitMiddleware - middleware, ограничивающий число обращений от одного автора.
// Ключом служит reporter_id из тела запроса, а без него IP клиента.
// Тело кешируется в контексте, поэтому хендлер читает его через ShouldBindBodyWithJSON.
func ReportRateLimitMiddleware(limiter ReportLimiter, log *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if limiter == nil {
			c.Next()
			return
		}

		key := "ip:" + c.ClientIP()
		var body reportLimitKey
		// Некорректное тело отклонит хендлер, здесь считаем его анонимным
		if err := c.ShouldBindBodyWithJSON(&body); err == nil && body.ReporterID != "" {
			key = "reporter:" + body.ReporterID
		}

		allowed, retryAfter, err := limiter.Allow(c.Request.Context(), key)
		if err != nil {
			log.WithError(err).WithField("key", key).Error("Failed to check report rate limit")
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
			return
		}

		if !allowed {
			log.WithField("key", key).Warn("Report rate limit exceeded")
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error":       "rate limit exceeded",
				"retry_after": math.Ceil(retryAfter.Seconds()),
			})
			return
		}

		c.Next()
	}
}

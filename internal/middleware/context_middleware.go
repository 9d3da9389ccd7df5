package middleware

import (
	"github.com/JerkingFan/Evalyze/internal/shared/contextutil"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ContextLogger assigns each request an ID and a scoped logger, and copies
// both into the standard context so services and repositories pick them up
// without importing gin. An inbound X-Request-ID is honored so a gateway
// in front can stitch traces across services.
func ContextLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		rid := c.GetHeader("X-Request-ID")
		if rid == "" {
			rid = uuid.New().String()
		}
		c.Header("X-Request-ID", rid)

		email := c.GetString("email")

		reqLogger := logger.With(
			zap.String("request_id", rid),
			zap.String("email", email),
		)

		ctx := c.Request.Context()
		ctx = contextutil.WithRequestID(ctx, rid)
		ctx = contextutil.WithUserID(ctx, email)
		ctx = contextutil.WithLogger(ctx, reqLogger)

		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

package emailauth

import (
	"github.com/JerkingFan/Evalyze/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler) {
	codes := r.Group("/auth/email-code")
	{
		codes.POST("/request", middleware.RateLimitByIP(1, 3), handler.RequestCode)
		codes.POST("/verify", middleware.RateLimitByIP(1, 5), handler.VerifyCode)
	}
}

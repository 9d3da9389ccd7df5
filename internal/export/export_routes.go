package export

import (
	"github.com/JerkingFan/Evalyze/internal/middleware"
	"github.com/JerkingFan/Evalyze/internal/rbac"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, rbacService rbac.Service) {
	exports := r.Group("/export")
	exports.Use(middleware.AuthMiddleware())
	{
		exports.GET("/json",
			middleware.RateLimitByUser(1, 3),
			middleware.RBACAuthorize(rbacService, "export", "read"),
			handler.ExportJSON,
		)
		exports.GET("/sql",
			middleware.RateLimitByUser(1, 3),
			middleware.RBACAuthorize(rbacService, "export", "read"),
			handler.ExportSQL,
		)
	}
}

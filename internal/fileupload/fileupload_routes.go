package fileupload

import (
	"github.com/JerkingFan/Evalyze/internal/middleware"
	"github.com/JerkingFan/Evalyze/internal/rbac"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, rbacService rbac.Service) {
	files := r.Group("/files")
	files.Use(middleware.AuthMiddleware())
	{
		files.POST("",
			middleware.RateLimitByUser(1, 5),
			middleware.RBACAuthorize(rbacService, "file", "create"),
			handler.Upload,
		)
		files.GET("",
			middleware.RateLimitByUser(2, 10),
			middleware.RBACAuthorize(rbacService, "file", "read"),
			handler.List,
		)
		files.GET("/:id/download",
			middleware.RateLimitByUser(2, 10),
			middleware.RBACAuthorize(rbacService, "file", "read"),
			handler.Download,
		)
		files.POST("/:id/analyze",
			middleware.RateLimitByUser(1, 3),
			middleware.RBACAuthorize(rbacService, "file", "read"),
			handler.Analyze,
		)
		files.DELETE("/:id",
			middleware.RateLimitByUser(2, 10),
			middleware.RBACAuthorize(rbacService, "file", "delete"),
			handler.Delete,
		)
	}
}

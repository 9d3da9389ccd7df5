package companycontent

import (
	"github.com/JerkingFan/Evalyze/internal/middleware"
	"github.com/JerkingFan/Evalyze/internal/rbac"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, rbacService rbac.Service) {
	contents := r.Group("/company-content")
	contents.Use(middleware.AuthMiddleware())
	{
		contents.POST("",
			middleware.RateLimitByUser(2, 10),
			middleware.RBACAuthorize(rbacService, "content", "create"),
			handler.Create,
		)
		contents.GET("",
			middleware.RateLimitByUser(2, 10),
			middleware.RBACAuthorize(rbacService, "content", "read"),
			handler.List,
		)
		contents.GET("/:id",
			middleware.RateLimitByUser(2, 10),
			middleware.RBACAuthorize(rbacService, "content", "read"),
			handler.GetByID,
		)
		contents.PUT("/:id",
			middleware.RateLimitByUser(2, 10),
			middleware.RBACAuthorize(rbacService, "content", "update"),
			handler.Update,
		)
		contents.DELETE("/:id",
			middleware.RateLimitByUser(2, 10),
			middleware.RBACAuthorize(rbacService, "content", "delete"),
			handler.Delete,
		)
	}
}

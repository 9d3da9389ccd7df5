package jobrole

import (
	"github.com/JerkingFan/Evalyze/internal/middleware"
	"github.com/JerkingFan/Evalyze/internal/rbac"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, rbacService rbac.Service) {
	jobRoles := r.Group("/job-roles")
	jobRoles.Use(middleware.AuthMiddleware())
	{
		jobRoles.POST("",
			middleware.RateLimitByUser(2, 10),
			middleware.RBACAuthorize(rbacService, "jobrole", "create"),
			handler.Create,
		)
		jobRoles.GET("",
			middleware.RateLimitByUser(2, 10),
			middleware.RBACAuthorize(rbacService, "jobrole", "read"),
			handler.List,
		)
		jobRoles.GET("/:id",
			middleware.RateLimitByUser(2, 10),
			middleware.RBACAuthorize(rbacService, "jobrole", "read"),
			handler.GetByID,
		)
		jobRoles.PUT("/:id",
			middleware.RateLimitByUser(2, 10),
			middleware.RBACAuthorize(rbacService, "jobrole", "update"),
			handler.Update,
		)
		jobRoles.DELETE("/:id",
			middleware.RateLimitByUser(2, 10),
			middleware.RBACAuthorize(rbacService, "jobrole", "delete"),
			handler.Delete,
		)
	}
}

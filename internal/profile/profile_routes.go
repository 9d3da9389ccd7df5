package profile

import (
	"github.com/JerkingFan/Evalyze/internal/middleware"
	"github.com/JerkingFan/Evalyze/internal/rbac"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, rbacService rbac.Service) {
	profiles := r.Group("/profiles")
	profiles.Use(middleware.AuthMiddleware())
	{
		profiles.POST("",
			middleware.RateLimitByUser(2, 10),
			middleware.RBACAuthorize(rbacService, "profile", "update"),
			handler.Save,
		)
		profiles.GET("/me",
			middleware.RateLimitByUser(2, 10),
			middleware.RBACAuthorize(rbacService, "profile", "read"),
			handler.GetMine,
		)
		profiles.GET("/company",
			middleware.RateLimitByUser(2, 10),
			middleware.RBACAuthorize(rbacService, "profile", "read"),
			handler.ListByCompany,
		)
		profiles.GET("/user/:userId",
			middleware.RateLimitByUser(2, 10),
			middleware.RBACAuthorize(rbacService, "profile", "read"),
			handler.GetByUserID,
		)
		profiles.PATCH("/user/:userId/status",
			middleware.RateLimitByUser(2, 10),
			middleware.RBACAuthorize(rbacService, "profile", "update"),
			handler.UpdateStatus,
		)
		profiles.GET("/user/:userId/snapshots",
			middleware.RateLimitByUser(2, 10),
			middleware.RBACAuthorize(rbacService, "profile", "read"),
			handler.ListSnapshots,
		)
		profiles.POST("/user/:userId/job-role",
			middleware.RateLimitByUser(2, 10),
			middleware.RBACAuthorize(rbacService, "profile", "update"),
			handler.AssignJobRole,
		)
		profiles.POST("/assign-job-role",
			middleware.RateLimitByUser(2, 10),
			middleware.RBACAuthorize(rbacService, "profile", "update"),
			handler.AssignJobRoleFlexible,
		)
		profiles.POST("/generate",
			middleware.RateLimitByUser(1, 3),
			middleware.RBACAuthorize(rbacService, "profile", "update"),
			handler.GenerateAIProfile,
		)
	}
}

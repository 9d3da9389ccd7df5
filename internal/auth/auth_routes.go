package auth

import (
	"github.com/JerkingFan/Evalyze/internal/middleware"
	"github.com/JerkingFan/Evalyze/internal/rbac"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, rbacService rbac.Service) {
	authGroup := r.Group("/auth")
	{
		authGroup.POST("/register", middleware.RateLimitByIP(1, 5), handler.Register)
		authGroup.POST("/login", middleware.RateLimitByIP(1, 5), handler.Login)
		authGroup.POST("/login/activation-code", middleware.RateLimitByIP(1, 5), handler.LoginByActivationCode)
		authGroup.POST("/logout", handler.Logout)

		protected := authGroup.Group("")
		protected.Use(middleware.AuthMiddleware())
		{
			protected.GET("/me", handler.Me)
			protected.POST("/employees",
				middleware.RateLimitByUser(2, 10),
				middleware.RBACAuthorize(rbacService, "employee", "create"),
				handler.CreateEmployee,
			)
		}
	}
}

package invitation

import (
	"github.com/JerkingFan/Evalyze/internal/middleware"
	"github.com/JerkingFan/Evalyze/internal/rbac"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, rbacService rbac.Service) {
	invitations := r.Group("/invitations")
	{
		// Redeeming a code happens before the caller has an account.
		invitations.GET("/code/:code", middleware.RateLimitByIP(1, 5), handler.GetByCode)
		invitations.POST("/accept", middleware.RateLimitByIP(1, 5), handler.Accept)

		protected := invitations.Group("")
		protected.Use(middleware.AuthMiddleware())
		{
			protected.POST("",
				middleware.RateLimitByUser(2, 10),
				middleware.RBACAuthorize(rbacService, "invitation", "create"),
				handler.Create,
			)
			protected.GET("",
				middleware.RateLimitByUser(2, 10),
				middleware.RBACAuthorize(rbacService, "invitation", "read"),
				handler.List,
			)
			protected.DELETE("/:id",
				middleware.RateLimitByUser(2, 10),
				middleware.RBACAuthorize(rbacService, "invitation", "delete"),
				handler.Delete,
			)
		}
	}
}

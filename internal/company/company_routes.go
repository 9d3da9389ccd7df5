package company

import (
	"github.com/JerkingFan/Evalyze/internal/middleware"
	"github.com/JerkingFan/Evalyze/internal/rbac"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, rbacService rbac.Service) {
	companies := r.Group("/companies")
	companies.Use(middleware.AuthMiddleware())
	{
		companies.GET("",
			middleware.RateLimitByUser(2, 10),
			middleware.RBACAuthorize(rbacService, "company", "read"),
			handler.GetAll,
		)
		companies.GET("/:id",
			middleware.RateLimitByUser(2, 10),
			middleware.RBACAuthorize(rbacService, "company", "read"),
			handler.GetByID,
		)
		companies.GET("/name/:name",
			middleware.RateLimitByUser(2, 10),
			middleware.RBACAuthorize(rbacService, "company", "read"),
			handler.GetByName,
		)
	}
}

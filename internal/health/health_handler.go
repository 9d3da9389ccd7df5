package health

import (
	"net/http"

	"github.com/JerkingFan/Evalyze/internal/shared/response"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type Handler struct {
	db *gorm.DB
}

func NewHandler(db *gorm.DB) *Handler {
	return &Handler{db: db}
}

func (h *Handler) Live(c *gin.Context) {
	response.Success(c, http.StatusOK, gin.H{"status": "ok"}, nil)
}

func (h *Handler) Ready(c *gin.Context) {
	sqlDB, err := h.db.DB()
	if err == nil {
		err = sqlDB.PingContext(c.Request.Context())
	}
	if err != nil {
		response.Error(c, http.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "Database is not reachable", nil)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"status": "ready"}, nil)
}

func RegisterRoutes(r *gin.RouterGroup, handler *Handler) {
	r.GET("/health", handler.Live)
	r.GET("/health/ready", handler.Ready)
}

package export

import (
	"net/http"

	"github.com/JerkingFan/Evalyze/internal/shared/response"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service Service
}

func NewHandler(s Service) *Handler {
	return &Handler{service: s}
}

func (h *Handler) ExportJSON(c *gin.Context) {
	doc, err := h.service.ExportJSON(c.Request.Context(), c.GetString("email"))
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, doc, nil)
}

func (h *Handler) ExportSQL(c *gin.Context) {
	dump, err := h.service.ExportSQL(c.Request.Context(), c.GetString("email"))
	if err != nil {
		response.FromError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="evalyze_export.sql"`)
	c.Data(http.StatusOK, "application/sql", dump)
}

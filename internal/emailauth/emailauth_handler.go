package emailauth

import (
	"net/http"

	"github.com/JerkingFan/Evalyze/internal/shared/apperror"
	"github.com/JerkingFan/Evalyze/internal/shared/response"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service Service
}

func NewHandler(s Service) *Handler {
	return &Handler{service: s}
}

func (h *Handler) RequestCode(c *gin.Context) {
	var req RequestCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.FromError(c, apperror.MapValidationError(err))
		return
	}

	if err := h.service.RequestCode(c.Request.Context(), req); err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"message": "Login code sent"}, nil)
}

func (h *Handler) VerifyCode(c *gin.Context) {
	var req VerifyCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.FromError(c, apperror.MapValidationError(err))
		return
	}

	resp, err := h.service.VerifyCode(c.Request.Context(), req)
	if err != nil {
		response.FromError(c, err)
		return
	}

	c.SetCookie("access_token", resp.Token, 24*60*60, "/", "", false, true)
	response.Success(c, http.StatusOK, resp, nil)
}

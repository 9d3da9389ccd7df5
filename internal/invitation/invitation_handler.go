package invitation

import (
	"net/http"
	"strings"

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

func (h *Handler) Create(c *gin.Context) {
	var req CreateInvitationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.FromError(c, apperror.MapValidationError(err))
		return
	}

	resp, err := h.service.Create(c.Request.Context(), c.GetString("email"), req)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, resp, nil)
}

// List returns the company's invitations. ?status=pending narrows the
// result to invitations that can still be redeemed.
func (h *Handler) List(c *gin.Context) {
	resp, err := h.service.ListByCompany(c.Request.Context(), c.GetString("email"))
	if err != nil {
		response.FromError(c, err)
		return
	}

	if strings.EqualFold(c.Query("status"), StatusPending) {
		pending := make([]InvitationResponse, 0, len(resp))
		for _, inv := range resp {
			if inv.Status == StatusPending && inv.IsValid {
				pending = append(pending, inv)
			}
		}
		resp = pending
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) GetByCode(c *gin.Context) {
	resp, err := h.service.GetByCode(c.Request.Context(), c.Param("code"))
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Accept(c *gin.Context) {
	var req AcceptInvitationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.FromError(c, apperror.MapValidationError(err))
		return
	}

	resp, err := h.service.Accept(c.Request.Context(), req)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.GetString("email"), c.Param("id")); err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"message": "Invitation deleted"}, nil)
}

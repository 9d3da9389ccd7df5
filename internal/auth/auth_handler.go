package auth

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

func (h *Handler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.FromError(c, apperror.MapValidationError(err))
		return
	}

	resp, err := h.service.Register(c.Request.Context(), req)
	if err != nil {
		response.FromError(c, err)
		return
	}

	setAccessCookie(c, resp.Token)
	response.Success(c, http.StatusCreated, resp, nil)
}

func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.FromError(c, apperror.MapValidationError(err))
		return
	}

	resp, err := h.service.Login(c.Request.Context(), req)
	if err != nil {
		response.FromError(c, err)
		return
	}

	setAccessCookie(c, resp.Token)
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) LoginByActivationCode(c *gin.Context) {
	var req ActivationLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.FromError(c, apperror.MapValidationError(err))
		return
	}

	resp, err := h.service.LoginByActivationCode(c.Request.Context(), req)
	if err != nil {
		response.FromError(c, err)
		return
	}

	setAccessCookie(c, resp.Token)
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) CreateEmployee(c *gin.Context) {
	var req CreateEmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.FromError(c, apperror.MapValidationError(err))
		return
	}

	resp, err := h.service.CreateEmployee(c.Request.Context(), c.GetString("email"), req)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, resp, nil)
}

func (h *Handler) Me(c *gin.Context) {
	resp, err := h.service.GetCurrentUser(c.Request.Context(), c.GetString("email"))
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Logout(c *gin.Context) {
	c.SetCookie("access_token", "", -1, "/", "", false, true)
	response.Success(c, http.StatusOK, gin.H{"message": "Logged out"}, nil)
}

func setAccessCookie(c *gin.Context, token string) {
	c.SetCookie("access_token", token, int(tokenTTL.Seconds()), "/", "", false, true)
}

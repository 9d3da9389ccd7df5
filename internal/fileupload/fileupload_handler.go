package fileupload

import (
	"fmt"
	"net/http"

	fileuploaderrors "github.com/JerkingFan/Evalyze/internal/fileupload/errors"
	"github.com/JerkingFan/Evalyze/internal/shared/response"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service Service
}

func NewHandler(s Service) *Handler {
	return &Handler{service: s}
}

func (h *Handler) Upload(c *gin.Context) {
	header, err := c.FormFile("file")
	if err != nil {
		response.FromError(c, fileuploaderrors.ErrFileRequired)
		return
	}

	resp, err := h.service.Upload(c.Request.Context(), c.GetString("email"), header)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, resp, nil)
}

func (h *Handler) List(c *gin.Context) {
	resp, err := h.service.List(c.Request.Context(), c.GetString("email"))
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Download(c *gin.Context) {
	f, reader, err := h.service.Open(c.Request.Context(), c.GetString("email"), c.Param("id"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	defer reader.Close()

	contentType := f.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", f.FileName))
	c.DataFromReader(http.StatusOK, f.SizeBytes, contentType, reader, nil)
}

func (h *Handler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.GetString("email"), c.Param("id")); err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"message": "File deleted"}, nil)
}

func (h *Handler) Analyze(c *gin.Context) {
	resp, err := h.service.Analyze(c.Request.Context(), c.GetString("email"), c.Param("id"))
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

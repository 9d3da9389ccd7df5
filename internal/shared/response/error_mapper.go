package response

import (
	"errors"
	"net/http"

	"github.com/JerkingFan/Evalyze/internal/shared/apperror"

	"github.com/gin-gonic/gin"
)

// FromError writes the envelope for a service error. AppErrors keep their
// code and status; anything else is treated as internal.
func FromError(c *gin.Context, err error) {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		Error(c, appErr.HTTPStatus, appErr.Code, appErr.Message, nil)
		return
	}

	Error(c, http.StatusInternalServerError, apperror.CodeInternalError, err.Error(), nil)
}

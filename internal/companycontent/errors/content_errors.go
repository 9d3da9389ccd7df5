package contenterrors

import (
	"net/http"

	"github.com/JerkingFan/Evalyze/internal/shared/apperror"
)

var (
	ErrContentNotFound = apperror.New(
		apperror.CodeNotFound,
		"Content not found",
		http.StatusNotFound,
	)

	ErrInvalidContentID = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid content id",
		http.StatusBadRequest,
	)
)

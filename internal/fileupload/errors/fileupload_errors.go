package fileuploaderrors

import (
	"net/http"

	"github.com/JerkingFan/Evalyze/internal/shared/apperror"
)

var (
	ErrFileNotFound = apperror.New(
		apperror.CodeNotFound,
		"File not found",
		http.StatusNotFound,
	)

	ErrInvalidFileID = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid file id",
		http.StatusBadRequest,
	)

	ErrFileRequired = apperror.New(
		apperror.CodeInvalidInput,
		"A file is required",
		http.StatusBadRequest,
	)

	ErrFileTooLarge = apperror.New(
		apperror.CodeInvalidInput,
		"File exceeds the maximum allowed size",
		http.StatusRequestEntityTooLarge,
	)
)

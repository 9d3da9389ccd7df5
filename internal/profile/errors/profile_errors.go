package profileerrors

import (
	"net/http"

	"github.com/JerkingFan/Evalyze/internal/shared/apperror"
)

var (
	ErrProfileNotFound = apperror.New(
		apperror.CodeNotFound,
		"Profile not found",
		http.StatusNotFound,
	)

	ErrInvalidStatus = apperror.New(
		apperror.CodeInvalidInput,
		"Status must be PENDING or COMPLETED",
		http.StatusBadRequest,
	)

	ErrNotCompanyMember = apperror.New(
		apperror.CodeForbidden,
		"User does not belong to your company",
		http.StatusForbidden,
	)

	ErrTargetRequired = apperror.New(
		apperror.CodeInvalidInput,
		"Either activation_code or email is required",
		http.StatusBadRequest,
	)
)

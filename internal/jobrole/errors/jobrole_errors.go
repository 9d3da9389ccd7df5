package jobroleerrors

import (
	"net/http"

	"github.com/JerkingFan/Evalyze/internal/shared/apperror"
)

var (
	ErrJobRoleNotFound = apperror.New(
		apperror.CodeNotFound,
		"Job role not found",
		http.StatusNotFound,
	)

	ErrInvalidJobRoleID = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid job role id",
		http.StatusBadRequest,
	)

	ErrInvalidRoleType = apperror.New(
		apperror.CodeInvalidInput,
		"Role type must be ROLE, VACANCY or TEMPLATE",
		http.StatusBadRequest,
	)
)

package emailautherrors

import (
	"net/http"

	"github.com/JerkingFan/Evalyze/internal/shared/apperror"
)

var (
	ErrCodeNotFound = apperror.New(
		apperror.CodeNotFound,
		"No active login code for this email",
		http.StatusNotFound,
	)

	ErrCodeExpired = apperror.New(
		apperror.CodeInvalidState,
		"Login code has expired",
		http.StatusGone,
	)

	ErrCodeMismatch = apperror.New(
		apperror.CodeUnauthorized,
		"Incorrect login code",
		http.StatusUnauthorized,
	)

	ErrTooManyAttempts = apperror.New(
		apperror.CodeForbidden,
		"Too many incorrect attempts, request a new code",
		http.StatusTooManyRequests,
	)
)

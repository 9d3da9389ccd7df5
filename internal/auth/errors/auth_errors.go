package autherrors

import (
	"net/http"

	"github.com/JerkingFan/Evalyze/internal/shared/apperror"
)

var (
	ErrUserNotFound = apperror.New(
		apperror.CodeNotFound,
		"User not found",
		http.StatusNotFound,
	)

	ErrInvalidCredentials = apperror.New(
		apperror.CodeUnauthorized,
		"Invalid credentials",
		http.StatusUnauthorized,
	)

	ErrEmailAlreadyExists = apperror.New(
		apperror.CodeConflict,
		"Email already exists",
		http.StatusConflict,
	)

	ErrPasswordRequired = apperror.New(
		apperror.CodeInvalidInput,
		"Password is required for company accounts",
		http.StatusBadRequest,
	)

	ErrEmployeeLogin = apperror.New(
		apperror.CodeForbidden,
		"Employees must sign in with an activation code",
		http.StatusForbidden,
	)

	ErrInvalidActivationCode = apperror.New(
		apperror.CodeNotFound,
		"Invalid activation code",
		http.StatusNotFound,
	)

	ErrInvalidToken = apperror.New(
		apperror.CodeUnauthorized,
		"Invalid or malformed token",
		http.StatusUnauthorized,
	)

	ErrTokenExpired = apperror.New(
		apperror.CodeUnauthorized,
		"Token has expired",
		http.StatusUnauthorized,
	)

	ErrTokenGeneration = apperror.New(
		apperror.CodeInternalError,
		"Failed to generate token",
		http.StatusInternalServerError,
	)
)

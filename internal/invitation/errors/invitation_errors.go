package invitationerrors

import (
	"net/http"

	"github.com/JerkingFan/Evalyze/internal/shared/apperror"
)

var (
	ErrInvitationNotFound = apperror.New(
		apperror.CodeNotFound,
		"Invitation not found",
		http.StatusNotFound,
	)

	ErrInvitationExpired = apperror.New(
		apperror.CodeInvalidState,
		"Invitation has expired",
		http.StatusGone,
	)

	ErrInvitationAlreadyAccepted = apperror.New(
		apperror.CodeInvalidState,
		"Invitation has already been accepted",
		http.StatusConflict,
	)

	ErrPendingInvitationExists = apperror.New(
		apperror.CodeConflict,
		"A pending invitation already exists for this email",
		http.StatusConflict,
	)

	ErrInvalidInvitationID = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid invitation id",
		http.StatusBadRequest,
	)
)

package chaterrors

import (
	"net/http"

	"go-leaveflow/internal/shared/apperror"
)

var (
	ErrPartnerNotFound = apperror.New(
		apperror.CodeNotFound,
		"User not found",
		http.StatusNotFound,
	)
	ErrInvalidPartnerID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid user id",
		http.StatusBadRequest,
	)
	ErrReceiverRequired = apperror.New(
		apperror.CodeValidation,
		"Receiver ID required",
		http.StatusBadRequest,
	)
	ErrEmptyMessage = apperror.New(
		apperror.CodeValidation,
		"Message or attachment required",
		http.StatusBadRequest,
	)
	ErrInvalidLastID = apperror.New(
		apperror.CodeInvalidInput,
		"last_id must be a non-negative integer",
		http.StatusBadRequest,
	)
	ErrInvalidWait = apperror.New(
		apperror.CodeInvalidInput,
		"wait must be a whole number of seconds",
		http.StatusBadRequest,
	)
	ErrAttachmentTooLarge = apperror.New(
		apperror.CodeTooLarge,
		"Attachment is too large",
		http.StatusRequestEntityTooLarge,
	)
)

package usererrors

import (
	"net/http"

	"go-leaveflow/internal/shared/apperror"
)

var (
	ErrUserNotFound = apperror.New(
		apperror.CodeNotFound,
		"User not found",
		http.StatusNotFound,
	)

	ErrUserAlreadyExists = apperror.New(
		apperror.CodeConflict,
		"User with the same email already exists",
		http.StatusConflict,
	)

	ErrInvalidUserID = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid user ID",
		http.StatusBadRequest,
	)

	ErrInvalidPhone = apperror.New(
		apperror.CodeValidation,
		"Phone number must be exactly 10 digits",
		http.StatusBadRequest,
	)

	ErrPasswordFieldsRequired = apperror.New(
		apperror.CodeValidation,
		"All password fields are required",
		http.StatusBadRequest,
	)

	ErrWrongPassword = apperror.New(
		apperror.CodeValidation,
		"Current password is incorrect",
		http.StatusBadRequest,
	)

	ErrPasswordConfirmMismatch = apperror.New(
		apperror.CodeValidation,
		"New passwords do not match",
		http.StatusBadRequest,
	)

	ErrPasswordUnchanged = apperror.New(
		apperror.CodeValidation,
		"New password must be different from the current password",
		http.StatusBadRequest,
	)

	ErrInvalidManager = apperror.New(
		apperror.CodeValidation,
		"Selected manager is not a manager",
		http.StatusBadRequest,
	)

	ErrSelfManager = apperror.New(
		apperror.CodeValidation,
		"You cannot be your own manager",
		http.StatusBadRequest,
	)

	ErrSelfDelete = apperror.New(
		apperror.CodeValidation,
		"You cannot delete your own account",
		http.StatusBadRequest,
	)

	ErrInvalidProfilePicture = apperror.New(
		apperror.CodeValidation,
		"Profile picture must be an image",
		http.StatusBadRequest,
	)
)

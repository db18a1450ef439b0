package leaveerrors

import (
	"net/http"

	"go-leaveflow/internal/shared/apperror"
)

var (
	ErrInvalidLeaveID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid leave id",
		http.StatusBadRequest,
	)
	ErrInvalidDateFormat = apperror.New(
		apperror.CodeInvalidInput,
		"invalid date format, expected YYYY-MM-DD",
		http.StatusBadRequest,
	)
	ErrInvalidDateRange = apperror.New(
		apperror.CodeValidation,
		"start_date must be before or equal end_date",
		http.StatusBadRequest,
	)
	ErrInvalidTotalDays = apperror.New(
		apperror.CodeValidation,
		"total_days must not be negative",
		http.StatusBadRequest,
	)
	ErrManagerRequired = apperror.New(
		apperror.CodeValidation,
		"Please select a manager",
		http.StatusBadRequest,
	)
	ErrInvalidManager = apperror.New(
		apperror.CodeValidation,
		"Selected manager is not valid",
		http.StatusBadRequest,
	)
	ErrManagerMismatch = apperror.New(
		apperror.CodeValidation,
		"Selected manager is not your assigned manager",
		http.StatusBadRequest,
	)
	ErrInvalidLeaveType = apperror.New(
		apperror.CodeValidation,
		"Selected leave type is not valid",
		http.StatusBadRequest,
	)
	ErrInvalidAction = apperror.New(
		apperror.CodeValidation,
		"action must be approve or reject",
		http.StatusBadRequest,
	)
	ErrInvalidStatusFilter = apperror.New(
		apperror.CodeValidation,
		"status must be pending, approved or rejected",
		http.StatusBadRequest,
	)
	ErrLeaveNotFound = apperror.New(
		apperror.CodeNotFound,
		"Leave request not found",
		http.StatusNotFound,
	)
	ErrAlreadyProcessed = apperror.New(
		apperror.CodeInvalidState,
		"This leave request has already been processed",
		http.StatusConflict,
	)
	ErrCancelNotPending = apperror.New(
		apperror.CodeInvalidState,
		"Only pending requests can be cancelled.",
		http.StatusConflict,
	)
	ErrApproverNotManager = apperror.New(
		apperror.CodeForbidden,
		"Only managers can approve or reject leave requests.",
		http.StatusForbidden,
	)
	ErrNotTeamMember = apperror.New(
		apperror.CodeForbidden,
		"You can only approve leaves for your team members.",
		http.StatusForbidden,
	)
)

package payrollerrors

import (
	"net/http"

	"go-payroll/internal/shared/apperror"
)

var (
	ErrRunNotFound = apperror.New(
		apperror.CodeNotFound,
		"Payroll run not found",
		http.StatusNotFound,
	)
	ErrRunPaidImmutable = apperror.New(
		apperror.CodeInvalidState,
		"A paid payroll run cannot be modified",
		http.StatusConflict,
	)
	ErrRunFlagged = apperror.New(
		apperror.CodeInvalidState,
		"A run flagged for review cannot be approved",
		http.StatusConflict,
	)
	ErrInvalidPeriod = apperror.New(
		apperror.CodeInvalidInput,
		"Period must be formatted as YYYY-MM",
		http.StatusBadRequest,
	)
	ErrInvalidOvertimeHours = apperror.New(
		apperror.CodeInvalidInput,
		"Overtime hours must be between 0 and 200",
		http.StatusBadRequest,
	)
	ErrNegativeBaseSalary = apperror.New(
		apperror.CodeInvalidInput,
		"Base salary must not be negative",
		http.StatusBadRequest,
	)
)

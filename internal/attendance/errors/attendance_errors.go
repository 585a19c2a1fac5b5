package attendanceerrors

import (
	"net/http"

	"go-payroll/internal/shared/apperror"
)

var (
	ErrInvalidTimestamp = apperror.New(
		apperror.CodeInvalidInput,
		"Timestamp must be RFC 3339 formatted",
		http.StatusBadRequest,
	)
	ErrInvalidDateRange = apperror.New(
		apperror.CodeInvalidInput,
		"Date range is invalid, expected from <= to in YYYY-MM-DD format",
		http.StatusBadRequest,
	)
)

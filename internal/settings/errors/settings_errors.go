package settingserrors

import (
	"net/http"

	"go-payroll/internal/shared/apperror"
)

var (
	ErrInvalidShiftTime = apperror.New(
		apperror.CodeInvalidInput,
		"Shift time must be in HH:MM format",
		http.StatusBadRequest,
	)
	ErrUnknownCountry = apperror.New(
		apperror.CodeInvalidInput,
		"Unknown tax jurisdiction code",
		http.StatusBadRequest,
	)
)

package attendance

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"go-payroll/internal/shared/apperror"
	"go-payroll/internal/shared/response"
	"go-payroll/internal/tenant"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

func (h *Handler) ClockIn(c *gin.Context) {
	companyID, err := tenant.FromContext(c.Request.Context())
	if err != nil {
		writeServiceError(c, err)
		return
	}

	var req ClockInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		if _, ok := err.(validator.ValidationErrors); ok {
			writeServiceError(c, apperror.MapValidationError(err))
			return
		}
		response.Error(c, http.StatusBadRequest, apperror.CodeInvalidInput, "Invalid request body", err.Error())
		return
	}

	resp, err := h.service.ClockIn(c.Request.Context(), companyID, req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, resp, nil)
}

func (h *Handler) List(c *gin.Context) {
	companyID, err := tenant.FromContext(c.Request.Context())
	if err != nil {
		writeServiceError(c, err)
		return
	}

	now := time.Now().UTC()
	from := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, -1)

	if raw := c.Query("from"); raw != "" {
		parsed, parseErr := time.Parse("2006-01-02", raw)
		if parseErr != nil {
			response.Error(c, http.StatusBadRequest, apperror.CodeInvalidInput, "Invalid from date", parseErr.Error())
			return
		}
		from = parsed
	}
	if raw := c.Query("to"); raw != "" {
		parsed, parseErr := time.Parse("2006-01-02", raw)
		if parseErr != nil {
			response.Error(c, http.StatusBadRequest, apperror.CodeInvalidInput, "Invalid to date", parseErr.Error())
			return
		}
		to = parsed
	}

	var employeeID *uuid.UUID
	if raw := c.Query("employee_id"); raw != "" {
		parsed, parseErr := uuid.Parse(raw)
		if parseErr != nil {
			response.Error(c, http.StatusBadRequest, apperror.CodeInvalidInput, "Invalid employee id", parseErr.Error())
			return
		}
		employeeID = &parsed
	}

	resp, err := h.service.List(c.Request.Context(), companyID, employeeID, from, to)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

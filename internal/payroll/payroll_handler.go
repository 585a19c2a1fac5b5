package payroll

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"go-payroll/internal/shared/apperror"
	"go-payroll/internal/shared/response"
	"go-payroll/internal/tenant"
)

type Handler struct {
	service Service
	rdb     *redis.Client
}

func NewHandler(service Service, rdb *redis.Client) *Handler {
	return &Handler{service: service, rdb: rdb}
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

func bindJSON(c *gin.Context, h *Handler, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		if _, ok := err.(validator.ValidationErrors); ok {
			h.writeServiceError(c, apperror.MapValidationError(err))
			return false
		}
		response.Error(c, http.StatusBadRequest, apperror.CodeInvalidInput, "Invalid request body", err.Error())
		return false
	}
	return true
}

func (h *Handler) runID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, apperror.CodeInvalidInput, "Invalid run id", err.Error())
		return uuid.Nil, false
	}
	return id, true
}

func (h *Handler) Calculate(c *gin.Context) {
	lockKey, _ := c.Get("idempotency_lock_key")
	cacheKey, _ := c.Get("idempotency_cache_key")

	if h.rdb != nil {
		if lk, ok := lockKey.(string); ok && lk != "" {
			defer h.rdb.Del(c.Request.Context(), lk)
		}
	}

	companyID, err := tenant.FromContext(c.Request.Context())
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	var req RunCalculationRequest
	if !bindJSON(c, h, &req) {
		return
	}

	resp, err := h.service.RunCalculation(c.Request.Context(), companyID, req.Period)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	if h.rdb != nil {
		if ck, ok := cacheKey.(string); ok && ck != "" {
			if payload, marshalErr := json.Marshal(resp); marshalErr == nil {
				_ = h.rdb.Set(c.Request.Context(), ck, payload, 24*time.Hour).Err()
			}
		}
	}

	response.Success(c, http.StatusCreated, resp, nil)
}

func (h *Handler) List(c *gin.Context) {
	companyID, err := tenant.FromContext(c.Request.Context())
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	period := c.Query("period")
	if period == "" {
		period = time.Now().UTC().Format("2006-01")
	}
	statusFilter := c.Query("status")

	resp, err := h.service.List(c.Request.Context(), companyID, period, statusFilter)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) UpdateOvertime(c *gin.Context) {
	companyID, err := tenant.FromContext(c.Request.Context())
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	runID, ok := h.runID(c)
	if !ok {
		return
	}

	var req UpdateOvertimeRequest
	if !bindJSON(c, h, &req) {
		return
	}

	resp, err := h.service.UpdateOvertime(c.Request.Context(), companyID, runID, req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Flag(c *gin.Context) {
	companyID, err := tenant.FromContext(c.Request.Context())
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	runID, ok := h.runID(c)
	if !ok {
		return
	}

	resp, err := h.service.Flag(c.Request.Context(), companyID, runID)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Approve(c *gin.Context) {
	companyID, err := tenant.FromContext(c.Request.Context())
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	runID, ok := h.runID(c)
	if !ok {
		return
	}

	resp, err := h.service.Approve(c.Request.Context(), companyID, runID)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) BulkApprove(c *gin.Context) {
	companyID, err := tenant.FromContext(c.Request.Context())
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	var req BulkApproveRequest
	if !bindJSON(c, h, &req) {
		return
	}

	resp, err := h.service.BulkApprove(c.Request.Context(), companyID, req.Period)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

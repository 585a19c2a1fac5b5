package analytics

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

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

func (h *Handler) Variance(c *gin.Context) {
	companyID, err := tenant.FromContext(c.Request.Context())
	if err != nil {
		writeServiceError(c, err)
		return
	}

	period := c.Query("period")
	if period == "" {
		period = time.Now().UTC().Format("2006-01")
	}

	report, err := h.service.Analyze(c.Request.Context(), companyID, period)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, report, nil)
}

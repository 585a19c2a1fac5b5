package tax

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"go-payroll/internal/shared/apperror"
	"go-payroll/internal/shared/response"
	"go-payroll/internal/tenant"
)

// CountryResolver supplies the tenant's configured jurisdiction when a
// request does not name one. Wired to the settings service at startup.
type CountryResolver interface {
	Country(ctx context.Context, companyID uuid.UUID) (string, error)
}

type Handler struct {
	resolver CountryResolver
}

func NewHandler(resolver CountryResolver) *Handler {
	return &Handler{resolver: resolver}
}

func (h *Handler) Report(c *gin.Context) {
	companyID, err := tenant.FromContext(c.Request.Context())
	if err != nil {
		httpErr := apperror.ToHTTP(err)
		response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
		return
	}

	income, err := strconv.ParseFloat(c.Query("income"), 64)
	if err != nil || income < 0 {
		response.Error(c, http.StatusBadRequest, apperror.CodeInvalidInput, "Income must be a non-negative number", nil)
		return
	}

	country := c.Query("country")
	if country == "" && h.resolver != nil {
		resolved, resolveErr := h.resolver.Country(c.Request.Context(), companyID)
		if resolveErr != nil {
			httpErr := apperror.ToHTTP(resolveErr)
			response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
			return
		}
		country = resolved
	}

	response.Success(c, http.StatusOK, GetTaxReport(income, country), nil)
}

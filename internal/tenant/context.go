package tenant

import (
	"context"

	"github.com/google/uuid"

	"go-payroll/internal/shared/apperror"
	"go-payroll/internal/shared/contextutil"
)

// FromContext resolves the authenticated tenant for the current request.
// Requests that slip past the auth middleware without a company claim get
// an unauthorized error rather than an empty-tenant query.
func FromContext(ctx context.Context) (uuid.UUID, error) {
	raw := contextutil.GetCompanyID(ctx)
	if raw == "" {
		return uuid.Nil, apperror.ErrUnauthorized
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, apperror.ErrUnauthorized
	}
	return id, nil
}

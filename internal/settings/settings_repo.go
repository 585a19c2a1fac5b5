package settings

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"go-payroll/internal/tenant"
)

//go:generate mockgen -source=settings_repo.go -destination=mocks/settings_repo_mock.go -package=mocks

type Repository interface {
	FindByCompany(ctx context.Context, companyID uuid.UUID) (*CompanySettings, error)
	Upsert(ctx context.Context, s *CompanySettings) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) FindByCompany(ctx context.Context, companyID uuid.UUID) (*CompanySettings, error) {
	var s CompanySettings
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		First(&s).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *repository) Upsert(ctx context.Context, s *CompanySettings) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "company_id"}},
			UpdateAll: true,
		}).
		Create(s).Error
}

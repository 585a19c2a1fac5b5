package payroll

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"go-payroll/internal/tenant"
)

//go:generate mockgen -source=payroll_repo.go -destination=mock/payroll_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Upsert(ctx context.Context, run *PayrollRun) error
	Update(ctx context.Context, run *PayrollRun) error
	FindByIDAndCompany(ctx context.Context, companyID, id uuid.UUID) (*PayrollRun, error)
	FindByEmployeeAndPeriod(ctx context.Context, companyID, employeeID uuid.UUID, period string) (*PayrollRun, error)
	FindAllByCompanyAndPeriod(ctx context.Context, companyID uuid.UUID, period string, statusFilter string) ([]PayrollRun, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

// WithTx binds the repository to an in-flight transaction so its statements
// commit or roll back together with the caller's other writes on that tx.
// The approve path relies on this: the run update and the outbox insert must
// share one transaction.
func (r *repository) WithTx(tx *sql.Tx) Repository {
	db, err := gorm.Open(postgres.New(postgres.Config{Conn: tx}), &gorm.Config{SkipDefaultTransaction: true})
	if err != nil {
		return r
	}
	return &repository{db: db}
}

// Upsert overwrites every computable field for an existing (employee, period)
// row. The unique index serializes concurrent writers on the same row.
func (r *repository) Upsert(ctx context.Context, run *PayrollRun) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{
				{Name: "company_id"},
				{Name: "employee_id"},
				{Name: "period"},
			},
			DoUpdates: clause.AssignmentColumns([]string{
				"base_salary", "housing_allowance", "transport_allowance",
				"overtime_hours", "overtime_pay", "bonus", "gross_pay",
				"tax", "provident_fund", "leave_deduction", "penalty",
				"net_pay", "currency", "status", "flagged_for_review",
				"generated_at", "updated_at",
			}),
		}).
		Create(run).Error
}

func (r *repository) Update(ctx context.Context, run *PayrollRun) error {
	return r.db.WithContext(ctx).Save(run).Error
}

func (r *repository) FindByIDAndCompany(ctx context.Context, companyID, id uuid.UUID) (*PayrollRun, error) {
	var run PayrollRun
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		First(&run, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &run, nil
}

func (r *repository) FindByEmployeeAndPeriod(ctx context.Context, companyID, employeeID uuid.UUID, period string) (*PayrollRun, error) {
	var run PayrollRun
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		Where("employee_id = ?", employeeID).
		Where("period = ?", period).
		First(&run).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &run, nil
}

func (r *repository) FindAllByCompanyAndPeriod(ctx context.Context, companyID uuid.UUID, period string, statusFilter string) ([]PayrollRun, error) {
	q := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		Where("period = ?", period)
	if statusFilter != "" {
		q = q.Where("status = ?", statusFilter)
	}

	var runs []PayrollRun
	err := q.Order("employee_id ASC").Find(&runs).Error
	return runs, err
}

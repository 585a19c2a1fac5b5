package analytics

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RunRow is the slice of a payroll run the analyzer needs; the full entity
// stays owned by the payroll package.
type RunRow struct {
	ID         uuid.UUID
	EmployeeID uuid.UUID
	BaseSalary float64
	Bonus      float64
	Tax        float64
	NetPay     float64
	Status     string
}

//go:generate mockgen -source=analytics_repo.go -destination=mock/analytics_repo_mock.go -package=mock
type Repository interface {
	SumPaidNetByPeriod(ctx context.Context, companyID uuid.UUID, period string) (float64, error)
	SumPaidTaxByYear(ctx context.Context, companyID uuid.UUID, year int) (float64, error)
	FindRunsByPeriod(ctx context.Context, companyID uuid.UUID, period string) ([]RunRow, error)
	ListEmployeesWithAttendanceIssues(ctx context.Context, companyID uuid.UUID, from, to time.Time) ([]uuid.UUID, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) SumPaidNetByPeriod(ctx context.Context, companyID uuid.UUID, period string) (float64, error) {
	var total float64
	err := r.db.WithContext(ctx).
		Table("payroll_runs").
		Select("COALESCE(SUM(net_pay), 0)").
		Where("company_id = ?", companyID).
		Where("period = ?", period).
		Where("status = ?", "PAID").
		Scan(&total).Error
	return total, err
}

func (r *repository) SumPaidTaxByYear(ctx context.Context, companyID uuid.UUID, year int) (float64, error) {
	var total float64
	err := r.db.WithContext(ctx).
		Table("payroll_runs").
		Select("COALESCE(SUM(tax), 0)").
		Where("company_id = ?", companyID).
		Where("period LIKE ?", fmtYearPrefix(year)).
		Where("status = ?", "PAID").
		Scan(&total).Error
	return total, err
}

func (r *repository) FindRunsByPeriod(ctx context.Context, companyID uuid.UUID, period string) ([]RunRow, error) {
	var rows []RunRow
	err := r.db.WithContext(ctx).
		Table("payroll_runs").
		Select("id, employee_id, base_salary, bonus, tax, net_pay, status").
		Where("company_id = ?", companyID).
		Where("period = ?", period).
		Scan(&rows).Error
	return rows, err
}

func (r *repository) ListEmployeesWithAttendanceIssues(ctx context.Context, companyID uuid.UUID, from, to time.Time) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.WithContext(ctx).
		Table("attendance_records").
		Distinct("employee_id").
		Where("company_id = ?", companyID).
		Where("attendance_date >= ? AND attendance_date <= ?", from.Format("2006-01-02"), to.Format("2006-01-02")).
		Where("is_late = ? OR status IN ?", true, []string{"ABSENT", "LATE", "HALF_DAY_DEDUCTION"}).
		Pluck("employee_id", &ids).Error
	return ids, err
}

func fmtYearPrefix(year int) string {
	return time.Date(year, 1, 1, 0, 0, 0, 0, time.UTC).Format("2006") + "-%"
}

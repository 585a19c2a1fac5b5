package attendance

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"go-payroll/internal/tenant"
)

//go:generate mockgen -source=attendance_repo.go -destination=mock/attendance_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Upsert(ctx context.Context, a *AttendanceRecord) error
	FindByEmployeeAndDate(ctx context.Context, companyID, employeeID uuid.UUID, date time.Time) (*AttendanceRecord, error)
	CountLateInRange(ctx context.Context, companyID, employeeID uuid.UUID, from, to time.Time, excludeDate time.Time) (int64, error)
	FindByEmployeeAndRange(ctx context.Context, companyID, employeeID uuid.UUID, from, to time.Time) ([]AttendanceRecord, error)
	FindAllByCompanyAndRange(ctx context.Context, companyID uuid.UUID, from, to time.Time) ([]AttendanceRecord, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

// WithTx binds the repository to an in-flight transaction so the day's
// upsert commits or rolls back together with the caller's other writes.
func (r *repository) WithTx(tx *sql.Tx) Repository {
	db, err := gorm.Open(postgres.New(postgres.Config{Conn: tx}), &gorm.Config{SkipDefaultTransaction: true})
	if err != nil {
		return r
	}
	return &repository{db: db}
}

// Upsert writes a day's record keyed by (company, employee, date). The unique
// index serializes concurrent clock-ins for the same day at the database.
func (r *repository) Upsert(ctx context.Context, a *AttendanceRecord) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{
				{Name: "company_id"},
				{Name: "employee_id"},
				{Name: "attendance_date"},
			},
			DoUpdates: clause.AssignmentColumns([]string{
				"clock_in", "is_late", "late_minutes", "status", "updated_at",
			}),
		}).
		Create(a).Error
}

func (r *repository) FindByEmployeeAndDate(ctx context.Context, companyID, employeeID uuid.UUID, date time.Time) (*AttendanceRecord, error) {
	var a AttendanceRecord
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		Where("employee_id = ?", employeeID).
		Where("attendance_date = ?", date.Format("2006-01-02")).
		First(&a).Error
	return &a, err
}

// CountLateInRange tallies late days, skipping excludeDate so a re-clock-in
// on the same date never counts its own previous record.
func (r *repository) CountLateInRange(ctx context.Context, companyID, employeeID uuid.UUID, from, to time.Time, excludeDate time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&AttendanceRecord{}).
		Scopes(tenant.Scope(companyID)).
		Where("employee_id = ?", employeeID).
		Where("attendance_date >= ? AND attendance_date <= ?", from.Format("2006-01-02"), to.Format("2006-01-02")).
		Where("attendance_date <> ?", excludeDate.Format("2006-01-02")).
		Where("is_late = ?", true).
		Count(&count).Error
	return count, err
}

func (r *repository) FindByEmployeeAndRange(ctx context.Context, companyID, employeeID uuid.UUID, from, to time.Time) ([]AttendanceRecord, error) {
	var rows []AttendanceRecord
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		Where("employee_id = ?", employeeID).
		Where("attendance_date >= ? AND attendance_date <= ?", from.Format("2006-01-02"), to.Format("2006-01-02")).
		Order("attendance_date ASC").
		Find(&rows).Error
	return rows, err
}

func (r *repository) FindAllByCompanyAndRange(ctx context.Context, companyID uuid.UUID, from, to time.Time) ([]AttendanceRecord, error) {
	var rows []AttendanceRecord
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		Where("attendance_date >= ? AND attendance_date <= ?", from.Format("2006-01-02"), to.Format("2006-01-02")).
		Order("attendance_date DESC, employee_id ASC").
		Find(&rows).Error
	return rows, err
}

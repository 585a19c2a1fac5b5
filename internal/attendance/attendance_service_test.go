package attendance

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"go-payroll/internal/employee"
	employeeerrors "go-payroll/internal/employee/errors"
	"go-payroll/internal/settings"
)

type fakeRepo struct {
	saved      *AttendanceRecord
	priorLates int64
	rows       []AttendanceRecord
}

func (f *fakeRepo) WithTx(tx *sql.Tx) Repository { return f }

func (f *fakeRepo) Upsert(ctx context.Context, a *AttendanceRecord) error {
	f.saved = a
	return nil
}

func (f *fakeRepo) FindByEmployeeAndDate(ctx context.Context, companyID, employeeID uuid.UUID, date time.Time) (*AttendanceRecord, error) {
	return f.saved, nil
}

func (f *fakeRepo) CountLateInRange(ctx context.Context, companyID, employeeID uuid.UUID, from, to, excludeDate time.Time) (int64, error) {
	return f.priorLates, nil
}

func (f *fakeRepo) FindByEmployeeAndRange(ctx context.Context, companyID, employeeID uuid.UUID, from, to time.Time) ([]AttendanceRecord, error) {
	return f.rows, nil
}

func (f *fakeRepo) FindAllByCompanyAndRange(ctx context.Context, companyID uuid.UUID, from, to time.Time) ([]AttendanceRecord, error) {
	return f.rows, nil
}

type fakeEmployeeRepo struct {
	emp *employee.Employee
}

func (f *fakeEmployeeRepo) FindAllActiveByCompany(ctx context.Context, companyID uuid.UUID) ([]employee.Employee, error) {
	if f.emp == nil {
		return nil, nil
	}
	return []employee.Employee{*f.emp}, nil
}

func (f *fakeEmployeeRepo) FindByIDAndCompany(ctx context.Context, companyID, id uuid.UUID) (*employee.Employee, error) {
	if f.emp == nil {
		return nil, employeeerrors.ErrEmployeeNotFound
	}
	return f.emp, nil
}

type fakeSettings struct {
	cfg *settings.CompanySettings
}

func (f *fakeSettings) Get(ctx context.Context, companyID uuid.UUID) (*settings.CompanySettings, error) {
	if f.cfg != nil {
		return f.cfg, nil
	}
	return settings.Defaults(companyID), nil
}

func (f *fakeSettings) Update(ctx context.Context, companyID uuid.UUID, req settings.UpdateSettingsRequest) (*settings.CompanySettings, error) {
	return f.cfg, nil
}

func newTestService(t *testing.T, repo *fakeRepo, emp *employee.Employee) (Service, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)

	svc := NewService(db, repo, &fakeEmployeeRepo{emp: emp}, &fakeSettings{}, zap.NewNop())
	return svc, mock, func() { db.Close() }
}

func activeEmployee(companyID uuid.UUID) *employee.Employee {
	return &employee.Employee{
		ID:         uuid.New(),
		CompanyID:  companyID,
		FullName:   "Jordan Rivers",
		Email:      "jordan@example.com",
		BaseSalary: 3000,
		IsActive:   true,
	}
}

func TestClockIn_WithinGraceIsPresent(t *testing.T) {
	companyID := uuid.New()
	emp := activeEmployee(companyID)
	repo := &fakeRepo{}
	svc, mock, closeDB := newTestService(t, repo, emp)
	defer closeDB()

	mock.ExpectBegin()
	mock.ExpectCommit()

	resp, err := svc.ClockIn(context.Background(), companyID, ClockInRequest{
		EmployeeID: emp.ID.String(),
		Timestamp:  "2026-03-10T09:10:00Z",
	})

	assert.NoError(t, err)
	assert.False(t, resp.IsLate)
	assert.Equal(t, 0, resp.LateMinutes)
	assert.Equal(t, StatusPresent, resp.Status)
	assert.False(t, resp.PenaltyApplied)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestClockIn_GraceBoundaryIsNotLate(t *testing.T) {
	companyID := uuid.New()
	emp := activeEmployee(companyID)
	svc, mock, closeDB := newTestService(t, &fakeRepo{}, emp)
	defer closeDB()

	mock.ExpectBegin()
	mock.ExpectCommit()

	// exactly shift start + grace period
	resp, err := svc.ClockIn(context.Background(), companyID, ClockInRequest{
		EmployeeID: emp.ID.String(),
		Timestamp:  "2026-03-10T09:15:00Z",
	})

	assert.NoError(t, err)
	assert.False(t, resp.IsLate)
	assert.Equal(t, StatusPresent, resp.Status)
}

func TestClockIn_PastGraceIsLate(t *testing.T) {
	companyID := uuid.New()
	emp := activeEmployee(companyID)
	repo := &fakeRepo{}
	svc, mock, closeDB := newTestService(t, repo, emp)
	defer closeDB()

	mock.ExpectBegin()
	mock.ExpectCommit()

	resp, err := svc.ClockIn(context.Background(), companyID, ClockInRequest{
		EmployeeID: emp.ID.String(),
		Timestamp:  "2026-03-10T09:40:00Z",
	})

	assert.NoError(t, err)
	assert.True(t, resp.IsLate)
	assert.Equal(t, 40, resp.LateMinutes)
	assert.Equal(t, StatusLate, resp.Status)
	assert.Equal(t, 1, resp.FlagCount)
	assert.False(t, resp.PenaltyApplied)
	assert.Equal(t, StatusLate, repo.saved.Status)
}

func TestClockIn_ThirdLateEscalatesToHalfDay(t *testing.T) {
	companyID := uuid.New()
	emp := activeEmployee(companyID)
	repo := &fakeRepo{priorLates: 2}
	svc, mock, closeDB := newTestService(t, repo, emp)
	defer closeDB()

	mock.ExpectBegin()
	mock.ExpectCommit()

	resp, err := svc.ClockIn(context.Background(), companyID, ClockInRequest{
		EmployeeID: emp.ID.String(),
		Timestamp:  "2026-03-12T10:05:00Z",
	})

	assert.NoError(t, err)
	assert.True(t, resp.IsLate)
	assert.Equal(t, 3, resp.FlagCount)
	assert.True(t, resp.PenaltyApplied)
	assert.Equal(t, StatusHalfDayDeduction, resp.Status)
	assert.Equal(t, StatusHalfDayDeduction, repo.saved.Status)
}

func TestClockIn_FourthLateStaysPlainLate(t *testing.T) {
	companyID := uuid.New()
	emp := activeEmployee(companyID)
	repo := &fakeRepo{priorLates: 3}
	svc, mock, closeDB := newTestService(t, repo, emp)
	defer closeDB()

	mock.ExpectBegin()
	mock.ExpectCommit()

	resp, err := svc.ClockIn(context.Background(), companyID, ClockInRequest{
		EmployeeID: emp.ID.String(),
		Timestamp:  "2026-03-13T10:05:00Z",
	})

	assert.NoError(t, err)
	assert.Equal(t, 4, resp.FlagCount)
	assert.False(t, resp.PenaltyApplied)
	assert.Equal(t, StatusLate, resp.Status)
}

func TestClockIn_UnknownEmployee(t *testing.T) {
	companyID := uuid.New()
	svc, _, closeDB := newTestService(t, &fakeRepo{}, nil)
	defer closeDB()

	_, err := svc.ClockIn(context.Background(), companyID, ClockInRequest{
		EmployeeID: uuid.New().String(),
		Timestamp:  "2026-03-10T09:00:00Z",
	})

	assert.ErrorIs(t, err, employeeerrors.ErrEmployeeNotFound)
}

func TestClockIn_InactiveEmployee(t *testing.T) {
	companyID := uuid.New()
	emp := activeEmployee(companyID)
	emp.IsActive = false
	svc, _, closeDB := newTestService(t, &fakeRepo{}, emp)
	defer closeDB()

	_, err := svc.ClockIn(context.Background(), companyID, ClockInRequest{
		EmployeeID: emp.ID.String(),
		Timestamp:  "2026-03-10T09:00:00Z",
	})

	assert.ErrorIs(t, err, employeeerrors.ErrEmployeeInactive)
}

func TestList_RejectsInvertedRange(t *testing.T) {
	companyID := uuid.New()
	svc, _, closeDB := newTestService(t, &fakeRepo{}, nil)
	defer closeDB()

	from := time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	_, err := svc.List(context.Background(), companyID, nil, from, to)
	assert.Error(t, err)
}

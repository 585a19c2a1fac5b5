package attendance

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	attendanceerrors "go-payroll/internal/attendance/errors"
	"go-payroll/internal/employee"
	employeeerrors "go-payroll/internal/employee/errors"
	"go-payroll/internal/settings"
)

//go:generate mockgen -source=attendance_service.go -destination=mock/attendance_service_mock.go -package=mock
type Service interface {
	ClockIn(ctx context.Context, companyID uuid.UUID, req ClockInRequest) (ClockInResponse, error)
	List(ctx context.Context, companyID uuid.UUID, employeeID *uuid.UUID, from, to time.Time) ([]AttendanceResponse, error)
}

type service struct {
	db        *sql.DB
	repo      Repository
	employees employee.Repository
	settings  settings.Service
	logger    *zap.Logger
}

func NewService(db *sql.DB, repo Repository, employees employee.Repository, settingsSvc settings.Service, logger *zap.Logger) Service {
	return &service{
		db:        db,
		repo:      repo,
		employees: employees,
		settings:  settingsSvc,
		logger:    logger,
	}
}

func (s *service) ClockIn(ctx context.Context, companyID uuid.UUID, req ClockInRequest) (ClockInResponse, error) {
	employeeID, err := uuid.Parse(req.EmployeeID)
	if err != nil {
		return ClockInResponse{}, employeeerrors.ErrEmployeeNotFound
	}

	clockIn := time.Now().UTC()
	if req.Timestamp != "" {
		parsed, parseErr := time.Parse(time.RFC3339, req.Timestamp)
		if parseErr != nil {
			return ClockInResponse{}, attendanceerrors.ErrInvalidTimestamp
		}
		clockIn = parsed.UTC()
	}

	emp, err := s.employees.FindByIDAndCompany(ctx, companyID, employeeID)
	if err != nil {
		return ClockInResponse{}, err
	}
	if !emp.IsActive {
		return ClockInResponse{}, employeeerrors.ErrEmployeeInactive
	}

	cfg, err := s.settings.Get(ctx, companyID)
	if err != nil {
		return ClockInResponse{}, err
	}
	rules := cfg.PenaltyRules()

	day := clockIn.Truncate(24 * time.Hour)
	isLate, lateMinutes, err := lateness(clockIn, day, rules)
	if err != nil {
		return ClockInResponse{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return ClockInResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	monthStart := time.Date(day.Year(), day.Month(), 1, 0, 0, 0, 0, time.UTC)
	monthEnd := monthStart.AddDate(0, 1, -1)
	priorLates, err := qtx.CountLateInRange(ctx, companyID, employeeID, monthStart, monthEnd, day)
	if err != nil {
		return ClockInResponse{}, err
	}

	flagCount := int(priorLates)
	status := StatusPresent
	penaltyApplied := false
	if isLate {
		flagCount++
		status = StatusLate
		// Every Nth late day in the month converts to a half-day absence.
		if rules.LateThreshold > 0 && flagCount%rules.LateThreshold == 0 {
			status = StatusHalfDayDeduction
			penaltyApplied = true
		}
	}

	row := &AttendanceRecord{
		ID:             uuid.New(),
		CompanyID:      companyID,
		EmployeeID:     employeeID,
		AttendanceDate: day,
		ClockIn:        &clockIn,
		IsLate:         isLate,
		LateMinutes:    lateMinutes,
		Status:         status,
	}

	if err := qtx.Upsert(ctx, row); err != nil {
		return ClockInResponse{}, err
	}
	if err := tx.Commit(); err != nil {
		return ClockInResponse{}, err
	}

	s.logger.Info("clock-in recorded",
		zap.String("company_id", companyID.String()),
		zap.String("employee_id", employeeID.String()),
		zap.String("status", status),
		zap.Int("late_minutes", lateMinutes),
		zap.Int("flag_count", flagCount),
	)

	return ClockInResponse{
		EmployeeID:     employeeID.String(),
		AttendanceDate: day.Format("2006-01-02"),
		Status:         status,
		IsLate:         isLate,
		LateMinutes:    lateMinutes,
		FlagCount:      flagCount,
		PenaltyApplied: penaltyApplied,
	}, nil
}

func (s *service) List(ctx context.Context, companyID uuid.UUID, employeeID *uuid.UUID, from, to time.Time) ([]AttendanceResponse, error) {
	if to.Before(from) {
		return nil, attendanceerrors.ErrInvalidDateRange
	}

	var (
		rows []AttendanceRecord
		err  error
	)
	if employeeID != nil {
		rows, err = s.repo.FindByEmployeeAndRange(ctx, companyID, *employeeID, from, to)
	} else {
		rows, err = s.repo.FindAllByCompanyAndRange(ctx, companyID, from, to)
	}
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	out := make([]AttendanceResponse, 0, len(rows))
	for _, row := range rows {
		out = append(out, mapToResponse(row))
	}
	return out, nil
}

// lateness measures a clock-in against the configured shift start plus grace
// period. Late minutes are counted from shift start, not from the grace cutoff.
func lateness(clockIn, day time.Time, rules settings.PenaltyRules) (bool, int, error) {
	shift, err := time.Parse("15:04", rules.ShiftStart)
	if err != nil {
		return false, 0, fmt.Errorf("parse shift start %q: %w", rules.ShiftStart, err)
	}

	shiftStart := time.Date(day.Year(), day.Month(), day.Day(), shift.Hour(), shift.Minute(), 0, 0, time.UTC)
	graceLimit := shiftStart.Add(time.Duration(rules.GracePeriodMins) * time.Minute)

	if !clockIn.After(graceLimit) {
		return false, 0, nil
	}
	return true, int(clockIn.Sub(shiftStart).Minutes()), nil
}

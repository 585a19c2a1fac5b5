package payroll

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"go-payroll/internal/attendance"
	"go-payroll/internal/employee"
	"go-payroll/internal/events"
	"go-payroll/internal/messaging/kafka"
	payrollerrors "go-payroll/internal/payroll/errors"
	"go-payroll/internal/settings"
	"go-payroll/internal/shared/contextutil"
)

const (
	StatusDraft         = "DRAFT"
	StatusPendingReview = "PENDING_REVIEW"
	StatusApproved      = "APPROVED"
	StatusPaid          = "PAID"
)

//go:generate mockgen -source=payroll_service.go -destination=mock/payroll_service_mock.go -package=mock
type Service interface {
	RunCalculation(ctx context.Context, companyID uuid.UUID, period string) (RunCalculationSummary, error)
	List(ctx context.Context, companyID uuid.UUID, period, statusFilter string) ([]PayrollRunResponse, error)
	UpdateOvertime(ctx context.Context, companyID, runID uuid.UUID, req UpdateOvertimeRequest) (PayrollRunResponse, error)
	Flag(ctx context.Context, companyID, runID uuid.UUID) (PayrollRunResponse, error)
	Approve(ctx context.Context, companyID, runID uuid.UUID) (PayrollRunResponse, error)
	BulkApprove(ctx context.Context, companyID uuid.UUID, period string) (BulkApproveSummary, error)
}

type service struct {
	db          *sql.DB
	repo        Repository
	employees   employee.Repository
	attendance  attendance.Repository
	settings    settings.Service
	outbox      kafka.OutboxRepository
	logger      *zap.Logger
	concurrency int
	runTimeout  time.Duration
}

type Config struct {
	Concurrency int
	RunTimeout  time.Duration
}

func NewService(
	db *sql.DB,
	repo Repository,
	employees employee.Repository,
	attendanceRepo attendance.Repository,
	settingsSvc settings.Service,
	outbox kafka.OutboxRepository,
	logger *zap.Logger,
	cfg Config,
) Service {
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 4
	}
	if cfg.RunTimeout <= 0 {
		cfg.RunTimeout = 2 * time.Minute
	}
	return &service{
		db:          db,
		repo:        repo,
		employees:   employees,
		attendance:  attendanceRepo,
		settings:    settingsSvc,
		outbox:      outbox,
		logger:      logger,
		concurrency: cfg.Concurrency,
		runTimeout:  cfg.RunTimeout,
	}
}

// RunCalculation upserts one run per active employee for the period.
// Employees are independent, so rows are computed concurrently; each row
// commits in its own transaction and committed rows stand if the deadline
// cuts the batch short.
func (s *service) RunCalculation(ctx context.Context, companyID uuid.UUID, period string) (RunCalculationSummary, error) {
	periodStart, periodEnd, err := parsePeriod(period)
	if err != nil {
		return RunCalculationSummary{}, err
	}

	cfg, err := s.settings.Get(ctx, companyID)
	if err != nil {
		return RunCalculationSummary{}, err
	}

	emps, err := s.employees.FindAllActiveByCompany(ctx, companyID)
	if err != nil {
		return RunCalculationSummary{}, err
	}

	runCtx, cancel := context.WithTimeout(ctx, s.runTimeout)
	defer cancel()

	summary := RunCalculationSummary{Period: period}
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(runCtx)
	g.SetLimit(s.concurrency)

	for _, emp := range emps {
		emp := emp
		g.Go(func() error {
			outcome, calcErr := s.calculateEmployee(gctx, companyID, emp, cfg, period, periodStart, periodEnd)

			mu.Lock()
			defer mu.Unlock()
			switch {
			case calcErr != nil:
				summary.Failed++
				s.logger.Error("payroll run row failed",
					zap.String("request_id", contextutil.GetRequestID(ctx)),
					zap.String("company_id", companyID.String()),
					zap.String("employee_id", emp.ID.String()),
					zap.String("period", period),
					zap.Error(calcErr),
				)
			case outcome == rowSkippedPaid:
				summary.Skipped++
			default:
				summary.Processed++
			}
			// Row failures are reported in the summary, not as a batch error.
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return summary, err
	}

	s.logger.Info("payroll run calculated",
		zap.String("company_id", companyID.String()),
		zap.String("period", period),
		zap.Int("processed", summary.Processed),
		zap.Int("skipped", summary.Skipped),
		zap.Int("failed", summary.Failed),
	)
	return summary, nil
}

type rowOutcome int

const (
	rowProcessed rowOutcome = iota
	rowSkippedPaid
)

func (s *service) calculateEmployee(
	ctx context.Context,
	companyID uuid.UUID,
	emp employee.Employee,
	cfg *settings.CompanySettings,
	period string,
	periodStart, periodEnd time.Time,
) (rowOutcome, error) {
	if emp.BaseSalary < 0 {
		return rowProcessed, payrollerrors.ErrNegativeBaseSalary
	}

	existing, err := s.repo.FindByEmployeeAndPeriod(ctx, companyID, emp.ID, period)
	if err != nil {
		return rowProcessed, err
	}
	// Paid runs are financially final; recalculation never touches them.
	if existing != nil && existing.Status == StatusPaid {
		return rowSkippedPaid, nil
	}

	records, err := s.attendance.FindByEmployeeAndRange(ctx, companyID, emp.ID, periodStart, periodEnd)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return rowProcessed, err
	}

	rules := cfg.PenaltyRules()
	penalty := attendance.ComputePenalty(emp.BaseSalary, records, rules)
	unpaidLeaveDays := 0.5 * float64(attendance.HalfDays(records))

	// Manual overtime edits survive recalculation; everything else is
	// recomputed from source data.
	overtimeHours := 0.0
	if existing != nil {
		overtimeHours = existing.OvertimeHours
	}

	bonus := 0.0
	if emp.PerformanceScore >= cfg.BonusThreshold {
		bonus = round2(emp.BaseSalary * cfg.BonusRate / 100)
	}

	breakdown := Calculate(CalcInput{
		BaseSalary:      emp.BaseSalary,
		OvertimeHours:   overtimeHours,
		UnpaidLeaveDays: unpaidLeaveDays,
		Jurisdiction:    cfg.Country,
		Bonus:           bonus,
		Policy: PayPolicy{
			StandardWorkHours:  cfg.StandardWorkHours,
			OvertimeMultiplier: cfg.OvertimeMultiplier,
			TransportAllowance: cfg.TransportAllowance,
		},
	})

	run := &PayrollRun{
		ID:                 uuid.New(),
		CompanyID:          companyID,
		EmployeeID:         emp.ID,
		Period:             period,
		BaseSalary:         breakdown.BaseSalary,
		HousingAllowance:   breakdown.HousingAllowance,
		TransportAllowance: breakdown.TransportAllowance,
		OvertimeHours:      overtimeHours,
		OvertimePay:        breakdown.OvertimePay,
		Bonus:              breakdown.Bonus,
		GrossPay:           breakdown.GrossPay,
		Tax:                breakdown.Tax,
		ProvidentFund:      breakdown.ProvidentFund,
		LeaveDeduction:     breakdown.LeaveDeduction,
		Penalty:            penalty.Total,
		NetPay:             round2(breakdown.NetPay - penalty.Total),
		Currency:           breakdown.TaxReport.Currency,
		Status:             StatusDraft,
		FlaggedForReview:   false,
		GeneratedAt:        time.Now().UTC(),
	}
	if existing != nil {
		run.ID = existing.ID
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return rowProcessed, err
	}
	defer tx.Rollback()

	if err := s.repo.WithTx(tx).Upsert(ctx, run); err != nil {
		return rowProcessed, err
	}
	if err := tx.Commit(); err != nil {
		return rowProcessed, err
	}
	return rowProcessed, nil
}

func (s *service) List(ctx context.Context, companyID uuid.UUID, period, statusFilter string) ([]PayrollRunResponse, error) {
	if _, _, err := parsePeriod(period); err != nil {
		return nil, err
	}

	runs, err := s.repo.FindAllByCompanyAndPeriod(ctx, companyID, period, statusFilter)
	if err != nil {
		return nil, err
	}

	prevPeriod, err := PreviousPeriod(period)
	if err != nil {
		return nil, err
	}
	prior, err := s.repo.FindAllByCompanyAndPeriod(ctx, companyID, prevPeriod, "")
	if err != nil {
		return nil, err
	}
	priorNet := make(map[uuid.UUID]float64, len(prior))
	for _, run := range prior {
		priorNet[run.EmployeeID] = run.NetPay
	}

	out := mapToListResponse(runs)
	for i, run := range runs {
		prev, ok := priorNet[run.EmployeeID]
		if !ok {
			continue
		}
		var change float64
		switch {
		case prev > 0:
			change = round2((run.NetPay - prev) / prev * 100)
		case run.NetPay > 0:
			change = 100
		}
		out[i].VarianceFromPrior = &change
	}
	return out, nil
}

// UpdateOvertime recomputes overtime pay, tax and net for one run while
// preserving its leave deduction, penalty and approval state.
func (s *service) UpdateOvertime(ctx context.Context, companyID, runID uuid.UUID, req UpdateOvertimeRequest) (PayrollRunResponse, error) {
	if req.Hours < 0 || req.Hours > 200 {
		return PayrollRunResponse{}, payrollerrors.ErrInvalidOvertimeHours
	}

	cfg, err := s.settings.Get(ctx, companyID)
	if err != nil {
		return PayrollRunResponse{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return PayrollRunResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	run, err := qtx.FindByIDAndCompany(ctx, companyID, runID)
	if err != nil {
		return PayrollRunResponse{}, mapRunError(err)
	}
	if run.Status == StatusPaid {
		return PayrollRunResponse{}, payrollerrors.ErrRunPaidImmutable
	}

	// Leave days are reconstructed from the stored deduction so the existing
	// penalty stays untouched by this single-field edit.
	unpaidLeaveDays := 0.0
	if run.BaseSalary > 0 {
		unpaidLeaveDays = run.LeaveDeduction / (run.BaseSalary / leaveDayDivisor)
	}

	breakdown := Calculate(CalcInput{
		BaseSalary:      run.BaseSalary,
		OvertimeHours:   req.Hours,
		UnpaidLeaveDays: unpaidLeaveDays,
		Jurisdiction:    cfg.Country,
		Bonus:           run.Bonus,
		Policy: PayPolicy{
			StandardWorkHours:  cfg.StandardWorkHours,
			OvertimeMultiplier: cfg.OvertimeMultiplier,
			TransportAllowance: run.TransportAllowance,
		},
	})

	run.OvertimeHours = req.Hours
	run.OvertimePay = breakdown.OvertimePay
	run.GrossPay = breakdown.GrossPay
	run.Tax = breakdown.Tax
	run.ProvidentFund = breakdown.ProvidentFund
	run.NetPay = round2(breakdown.NetPay - run.Penalty)

	if err := qtx.Update(ctx, run); err != nil {
		return PayrollRunResponse{}, err
	}
	if err := tx.Commit(); err != nil {
		return PayrollRunResponse{}, err
	}

	s.logger.Info("overtime updated",
		zap.String("company_id", companyID.String()),
		zap.String("run_id", runID.String()),
		zap.Float64("hours", req.Hours),
	)
	return mapToResponse(*run), nil
}

func (s *service) Flag(ctx context.Context, companyID, runID uuid.UUID) (PayrollRunResponse, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return PayrollRunResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	run, err := qtx.FindByIDAndCompany(ctx, companyID, runID)
	if err != nil {
		return PayrollRunResponse{}, mapRunError(err)
	}
	if run.Status == StatusPaid {
		return PayrollRunResponse{}, payrollerrors.ErrRunPaidImmutable
	}

	run.FlaggedForReview = !run.FlaggedForReview

	if err := qtx.Update(ctx, run); err != nil {
		return PayrollRunResponse{}, err
	}
	if err := tx.Commit(); err != nil {
		return PayrollRunResponse{}, err
	}
	return mapToResponse(*run), nil
}

// Approve is terminal: it marks the run PAID, stamps the payment time and
// queues the paid event through the outbox in the same transaction.
func (s *service) Approve(ctx context.Context, companyID, runID uuid.UUID) (PayrollRunResponse, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return PayrollRunResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	run, err := qtx.FindByIDAndCompany(ctx, companyID, runID)
	if err != nil {
		return PayrollRunResponse{}, mapRunError(err)
	}

	if err := s.approveInTx(ctx, tx, run); err != nil {
		return PayrollRunResponse{}, err
	}
	if err := tx.Commit(); err != nil {
		return PayrollRunResponse{}, err
	}

	s.logger.Info("payroll run paid",
		zap.String("company_id", companyID.String()),
		zap.String("run_id", runID.String()),
		zap.String("period", run.Period),
	)
	return mapToResponse(*run), nil
}

func (s *service) approveInTx(ctx context.Context, tx *sql.Tx, run *PayrollRun) error {
	if run.Status == StatusPaid {
		return payrollerrors.ErrRunPaidImmutable
	}
	if run.FlaggedForReview {
		return payrollerrors.ErrRunFlagged
	}

	now := time.Now().UTC()
	run.Status = StatusPaid
	run.PaidAt = &now

	if err := s.repo.WithTx(tx).Update(ctx, run); err != nil {
		return err
	}

	if s.outbox == nil {
		return nil
	}

	event := events.PayrollRunPaid{
		RunID:      run.ID.String(),
		CompanyID:  run.CompanyID.String(),
		EmployeeID: run.EmployeeID.String(),
		Period:     run.Period,
		NetPay:     run.NetPay,
		Tax:        run.Tax,
		PaidAt:     now.Format(time.RFC3339),
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	return s.outbox.WithTx(tx).Create(ctx, kafka.OutboxEvent{
		ID:            uuid.NewString(),
		RequestID:     contextutil.GetRequestID(ctx),
		CompanyID:     run.CompanyID.String(),
		AggregateType: "payroll_run",
		AggregateID:   run.ID.String(),
		EventType:     "payroll_run_paid",
		Topic:         events.TopicPayrollRunPaid,
		Payload:       payload,
		Status:        kafka.OutboxStatusPending,
	})
}

// BulkApprove walks every approvable run in the period. Rows fail or skip
// individually; the caller gets a per-row outcome list rather than an
// all-or-nothing error.
func (s *service) BulkApprove(ctx context.Context, companyID uuid.UUID, period string) (BulkApproveSummary, error) {
	if _, _, err := parsePeriod(period); err != nil {
		return BulkApproveSummary{}, err
	}

	runs, err := s.repo.FindAllByCompanyAndPeriod(ctx, companyID, period, "")
	if err != nil {
		return BulkApproveSummary{}, err
	}

	summary := BulkApproveSummary{Period: period}
	for i := range runs {
		run := &runs[i]
		outcome := BulkApproveOutcome{
			RunID:      run.ID.String(),
			EmployeeID: run.EmployeeID.String(),
		}

		switch {
		case run.Status != StatusDraft && run.Status != StatusPendingReview:
			outcome.Outcome = "skipped"
			outcome.Reason = "status " + run.Status
			summary.Skipped++
		case run.FlaggedForReview:
			outcome.Outcome = "skipped"
			outcome.Reason = "flagged for review"
			summary.Skipped++
		default:
			if err := s.approveOne(ctx, run); err != nil {
				outcome.Outcome = "failed"
				outcome.Reason = err.Error()
				summary.Failed++
				s.logger.Error("bulk approve row failed",
					zap.String("company_id", companyID.String()),
					zap.String("run_id", run.ID.String()),
					zap.Error(err),
				)
			} else {
				outcome.Outcome = "approved"
				summary.Approved++
			}
		}
		summary.Outcomes = append(summary.Outcomes, outcome)
	}

	s.logger.Info("bulk approve finished",
		zap.String("company_id", companyID.String()),
		zap.String("period", period),
		zap.Int("approved", summary.Approved),
		zap.Int("skipped", summary.Skipped),
		zap.Int("failed", summary.Failed),
	)
	return summary, nil
}

func (s *service) approveOne(ctx context.Context, run *PayrollRun) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := s.approveInTx(ctx, tx, run); err != nil {
		return err
	}
	return tx.Commit()
}

func mapRunError(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return payrollerrors.ErrRunNotFound
	}
	return err
}

func parsePeriod(period string) (time.Time, time.Time, error) {
	start, err := time.Parse("2006-01", period)
	if err != nil {
		return time.Time{}, time.Time{}, payrollerrors.ErrInvalidPeriod
	}
	end := start.AddDate(0, 1, -1)
	return start, end, nil
}

// PreviousPeriod returns the calendar month immediately before a YYYY-MM key.
func PreviousPeriod(period string) (string, error) {
	start, err := time.Parse("2006-01", period)
	if err != nil {
		return "", payrollerrors.ErrInvalidPeriod
	}
	return start.AddDate(0, -1, 0).Format("2006-01"), nil
}

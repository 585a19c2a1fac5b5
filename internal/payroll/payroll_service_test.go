package payroll

import (
	"context"
	"database/sql"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"go-payroll/internal/attendance"
	"go-payroll/internal/employee"
	"go-payroll/internal/messaging/kafka"
	payrollerrors "go-payroll/internal/payroll/errors"
	"go-payroll/internal/settings"
)

type fakeRunRepo struct {
	mu   sync.Mutex
	runs map[string]*PayrollRun
}

func newFakeRunRepo() *fakeRunRepo {
	return &fakeRunRepo{runs: make(map[string]*PayrollRun)}
}

func runKey(employeeID uuid.UUID, period string) string {
	return employeeID.String() + "|" + period
}

func (f *fakeRunRepo) WithTx(tx *sql.Tx) Repository { return f }

func (f *fakeRunRepo) Upsert(ctx context.Context, run *PayrollRun) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := runKey(run.EmployeeID, run.Period)
	if existing, ok := f.runs[key]; ok {
		run.ID = existing.ID
	}
	clone := *run
	f.runs[key] = &clone
	return nil
}

func (f *fakeRunRepo) Update(ctx context.Context, run *PayrollRun) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	clone := *run
	f.runs[runKey(run.EmployeeID, run.Period)] = &clone
	return nil
}

func (f *fakeRunRepo) FindByIDAndCompany(ctx context.Context, companyID, id uuid.UUID) (*PayrollRun, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, run := range f.runs {
		if run.ID == id && run.CompanyID == companyID {
			clone := *run
			return &clone, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeRunRepo) FindByEmployeeAndPeriod(ctx context.Context, companyID, employeeID uuid.UUID, period string) (*PayrollRun, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if run, ok := f.runs[runKey(employeeID, period)]; ok {
		clone := *run
		return &clone, nil
	}
	return nil, nil
}

func (f *fakeRunRepo) FindAllByCompanyAndPeriod(ctx context.Context, companyID uuid.UUID, period, statusFilter string) ([]PayrollRun, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []PayrollRun
	for _, run := range f.runs {
		if run.CompanyID == companyID && run.Period == period {
			if statusFilter == "" || run.Status == statusFilter {
				out = append(out, *run)
			}
		}
	}
	return out, nil
}

type fakeEmployeeRepo struct {
	emps []employee.Employee
}

func (f *fakeEmployeeRepo) FindAllActiveByCompany(ctx context.Context, companyID uuid.UUID) ([]employee.Employee, error) {
	return f.emps, nil
}

func (f *fakeEmployeeRepo) FindByIDAndCompany(ctx context.Context, companyID, id uuid.UUID) (*employee.Employee, error) {
	for i := range f.emps {
		if f.emps[i].ID == id {
			return &f.emps[i], nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

type fakeAttendanceRepo struct {
	records []attendance.AttendanceRecord
}

func (f *fakeAttendanceRepo) WithTx(tx *sql.Tx) attendance.Repository { return f }
func (f *fakeAttendanceRepo) Upsert(ctx context.Context, a *attendance.AttendanceRecord) error {
	return nil
}
func (f *fakeAttendanceRepo) FindByEmployeeAndDate(ctx context.Context, companyID, employeeID uuid.UUID, date time.Time) (*attendance.AttendanceRecord, error) {
	return nil, gorm.ErrRecordNotFound
}
func (f *fakeAttendanceRepo) CountLateInRange(ctx context.Context, companyID, employeeID uuid.UUID, from, to, excludeDate time.Time) (int64, error) {
	return 0, nil
}
func (f *fakeAttendanceRepo) FindByEmployeeAndRange(ctx context.Context, companyID, employeeID uuid.UUID, from, to time.Time) ([]attendance.AttendanceRecord, error) {
	return f.records, nil
}
func (f *fakeAttendanceRepo) FindAllByCompanyAndRange(ctx context.Context, companyID uuid.UUID, from, to time.Time) ([]attendance.AttendanceRecord, error) {
	return f.records, nil
}

type fakeSettings struct{}

func (fakeSettings) Get(ctx context.Context, companyID uuid.UUID) (*settings.CompanySettings, error) {
	return settings.Defaults(companyID), nil
}

func (fakeSettings) Update(ctx context.Context, companyID uuid.UUID, req settings.UpdateSettingsRequest) (*settings.CompanySettings, error) {
	return settings.Defaults(companyID), nil
}

type fakeOutbox struct {
	mu     sync.Mutex
	events []kafka.OutboxEvent
}

func (f *fakeOutbox) WithTx(tx *sql.Tx) kafka.OutboxRepository { return f }

func (f *fakeOutbox) Create(ctx context.Context, event kafka.OutboxEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, event)
	return nil
}

func (f *fakeOutbox) ListPending(ctx context.Context, limit int) ([]kafka.OutboxEvent, error) {
	return nil, nil
}
func (f *fakeOutbox) MarkSent(ctx context.Context, id string) error                  { return nil }
func (f *fakeOutbox) MarkFailed(ctx context.Context, id string, reason string) error { return nil }

type serviceFixture struct {
	svc    Service
	repo   *fakeRunRepo
	outbox *fakeOutbox
	mock   sqlmock.Sqlmock
	close  func()
}

func newFixture(t *testing.T, emps []employee.Employee, att *fakeAttendanceRepo) serviceFixture {
	t.Helper()
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	mock.MatchExpectationsInOrder(false)

	if att == nil {
		att = &fakeAttendanceRepo{}
	}
	repo := newFakeRunRepo()
	outbox := &fakeOutbox{}
	svc := NewService(db, repo, &fakeEmployeeRepo{emps: emps}, att, fakeSettings{}, outbox, zap.NewNop(), Config{Concurrency: 2})

	return serviceFixture{svc: svc, repo: repo, outbox: outbox, mock: mock, close: func() { db.Close() }}
}

func expectTx(mock sqlmock.Sqlmock, n int) {
	for i := 0; i < n; i++ {
		mock.ExpectBegin()
		mock.ExpectCommit()
	}
}

func testEmployee(companyID uuid.UUID, salary, score float64) employee.Employee {
	return employee.Employee{
		ID:               uuid.New(),
		CompanyID:        companyID,
		FullName:         "Casey Morgan",
		Email:            "casey@example.com",
		BaseSalary:       salary,
		PerformanceScore: score,
		IsActive:         true,
	}
}

func TestRunCalculation_CreatesDraftRuns(t *testing.T) {
	companyID := uuid.New()
	emp := testEmployee(companyID, 5000, 0)
	fx := newFixture(t, []employee.Employee{emp}, nil)
	defer fx.close()

	expectTx(fx.mock, 1)
	summary, err := fx.svc.RunCalculation(context.Background(), companyID, "2026-03")

	assert.NoError(t, err)
	assert.Equal(t, 1, summary.Processed)
	assert.Equal(t, 0, summary.Skipped)

	run := fx.repo.runs[runKey(emp.ID, "2026-03")]
	assert.NotNil(t, run)
	assert.Equal(t, StatusDraft, run.Status)
	assert.False(t, run.FlaggedForReview)
	assert.Equal(t, 6200.0, run.GrossPay)
	assert.Equal(t, 560.0, run.Tax)
	assert.Equal(t, 600.0, run.ProvidentFund)
	assert.Equal(t, 5040.0, run.NetPay)
}

func TestRunCalculation_BonusAboveThreshold(t *testing.T) {
	companyID := uuid.New()
	emp := testEmployee(companyID, 4000, 95)
	fx := newFixture(t, []employee.Employee{emp}, nil)
	defer fx.close()

	expectTx(fx.mock, 1)
	_, err := fx.svc.RunCalculation(context.Background(), companyID, "2026-03")
	assert.NoError(t, err)

	run := fx.repo.runs[runKey(emp.ID, "2026-03")]
	// 5% of base at score >= 90
	assert.Equal(t, 200.0, run.Bonus)
}

func TestRunCalculation_SkipsPaidRuns(t *testing.T) {
	companyID := uuid.New()
	emp := testEmployee(companyID, 5000, 0)
	fx := newFixture(t, []employee.Employee{emp}, nil)
	defer fx.close()

	paidAt := time.Now().UTC()
	paid := &PayrollRun{
		ID:         uuid.New(),
		CompanyID:  companyID,
		EmployeeID: emp.ID,
		Period:     "2026-03",
		BaseSalary: 5000,
		NetPay:     5040,
		Status:     StatusPaid,
		PaidAt:     &paidAt,
	}
	fx.repo.runs[runKey(emp.ID, "2026-03")] = paid

	summary, err := fx.svc.RunCalculation(context.Background(), companyID, "2026-03")

	assert.NoError(t, err)
	assert.Equal(t, 0, summary.Processed)
	assert.Equal(t, 1, summary.Skipped)
	assert.Equal(t, StatusPaid, fx.repo.runs[runKey(emp.ID, "2026-03")].Status)
}

func TestRunCalculation_Idempotent(t *testing.T) {
	companyID := uuid.New()
	emp := testEmployee(companyID, 5000, 0)
	fx := newFixture(t, []employee.Employee{emp}, nil)
	defer fx.close()

	expectTx(fx.mock, 2)
	_, err := fx.svc.RunCalculation(context.Background(), companyID, "2026-03")
	assert.NoError(t, err)
	first := *fx.repo.runs[runKey(emp.ID, "2026-03")]

	_, err = fx.svc.RunCalculation(context.Background(), companyID, "2026-03")
	assert.NoError(t, err)
	second := *fx.repo.runs[runKey(emp.ID, "2026-03")]

	assert.Equal(t, first.ID, second.ID)
	first.GeneratedAt = second.GeneratedAt
	assert.Equal(t, first, second)
}

func TestRunCalculation_AppliesAttendancePenalty(t *testing.T) {
	companyID := uuid.New()
	emp := testEmployee(companyID, 3000, 0)
	att := &fakeAttendanceRepo{records: []attendance.AttendanceRecord{
		{IsLate: true, Status: attendance.StatusLate},
		{IsLate: true, Status: attendance.StatusLate},
		{IsLate: true, Status: attendance.StatusLate},
	}}
	fx := newFixture(t, []employee.Employee{emp}, att)
	defer fx.close()

	expectTx(fx.mock, 1)
	_, err := fx.svc.RunCalculation(context.Background(), companyID, "2026-03")
	assert.NoError(t, err)

	run := fx.repo.runs[runKey(emp.ID, "2026-03")]
	assert.Equal(t, 50.0, run.Penalty)
	want := run.GrossPay - run.Tax - run.ProvidentFund - run.LeaveDeduction - run.Penalty
	assert.InDelta(t, want, run.NetPay, 0.011)
}

func TestRunCalculation_HalfDaysBecomeUnpaidLeave(t *testing.T) {
	companyID := uuid.New()
	emp := testEmployee(companyID, 3000, 0)
	att := &fakeAttendanceRepo{records: []attendance.AttendanceRecord{
		{IsLate: true, Status: attendance.StatusHalfDayDeduction},
	}}
	fx := newFixture(t, []employee.Employee{emp}, att)
	defer fx.close()

	expectTx(fx.mock, 1)
	_, err := fx.svc.RunCalculation(context.Background(), companyID, "2026-03")
	assert.NoError(t, err)

	run := fx.repo.runs[runKey(emp.ID, "2026-03")]
	// half a day at base/30 per day
	assert.Equal(t, 50.0, run.LeaveDeduction)
}

func TestUpdateOvertime_PreservesStatusAndPenalty(t *testing.T) {
	companyID := uuid.New()
	emp := testEmployee(companyID, 5000, 0)
	fx := newFixture(t, []employee.Employee{emp}, nil)
	defer fx.close()

	expectTx(fx.mock, 1)
	_, err := fx.svc.RunCalculation(context.Background(), companyID, "2026-03")
	assert.NoError(t, err)

	run := fx.repo.runs[runKey(emp.ID, "2026-03")]
	run.Status = StatusPendingReview
	run.Penalty = 50
	run.NetPay = round2(run.NetPay - 50)

	expectTx(fx.mock, 1)
	resp, err := fx.svc.UpdateOvertime(context.Background(), companyID, run.ID, UpdateOvertimeRequest{Hours: 8})

	assert.NoError(t, err)
	assert.Equal(t, StatusPendingReview, resp.Status)
	assert.Equal(t, 8.0, resp.OvertimeHours)
	// hourly 31.25 x 1.5 x 8
	assert.Equal(t, 375.0, resp.OvertimePay)
	assert.Equal(t, 50.0, resp.Penalty)
	want := resp.GrossPay - resp.Tax - resp.ProvidentFund - resp.LeaveDeduction - resp.Penalty
	assert.InDelta(t, want, resp.NetPay, 0.011)
}

func TestUpdateOvertime_RejectsPaidRun(t *testing.T) {
	companyID := uuid.New()
	fx := newFixture(t, nil, nil)
	defer fx.close()

	run := &PayrollRun{ID: uuid.New(), CompanyID: companyID, EmployeeID: uuid.New(), Period: "2026-03", Status: StatusPaid}
	fx.repo.runs[runKey(run.EmployeeID, run.Period)] = run

	expectTx(fx.mock, 1)
	_, err := fx.svc.UpdateOvertime(context.Background(), companyID, run.ID, UpdateOvertimeRequest{Hours: 5})
	assert.ErrorIs(t, err, payrollerrors.ErrRunPaidImmutable)
}

func TestUpdateOvertime_RejectsOutOfRangeHours(t *testing.T) {
	fx := newFixture(t, nil, nil)
	defer fx.close()

	_, err := fx.svc.UpdateOvertime(context.Background(), uuid.New(), uuid.New(), UpdateOvertimeRequest{Hours: 500})
	assert.ErrorIs(t, err, payrollerrors.ErrInvalidOvertimeHours)
}

func TestFlag_Toggles(t *testing.T) {
	companyID := uuid.New()
	fx := newFixture(t, nil, nil)
	defer fx.close()

	run := &PayrollRun{ID: uuid.New(), CompanyID: companyID, EmployeeID: uuid.New(), Period: "2026-03", Status: StatusDraft}
	fx.repo.runs[runKey(run.EmployeeID, run.Period)] = run

	expectTx(fx.mock, 2)
	resp, err := fx.svc.Flag(context.Background(), companyID, run.ID)
	assert.NoError(t, err)
	assert.True(t, resp.FlaggedForReview)

	resp, err = fx.svc.Flag(context.Background(), companyID, run.ID)
	assert.NoError(t, err)
	assert.False(t, resp.FlaggedForReview)
}

func TestApprove_RejectsFlaggedRun(t *testing.T) {
	companyID := uuid.New()
	fx := newFixture(t, nil, nil)
	defer fx.close()

	run := &PayrollRun{ID: uuid.New(), CompanyID: companyID, EmployeeID: uuid.New(), Period: "2026-03", Status: StatusDraft, FlaggedForReview: true}
	fx.repo.runs[runKey(run.EmployeeID, run.Period)] = run

	expectTx(fx.mock, 1)
	_, err := fx.svc.Approve(context.Background(), companyID, run.ID)

	assert.ErrorIs(t, err, payrollerrors.ErrRunFlagged)
	assert.Equal(t, StatusDraft, fx.repo.runs[runKey(run.EmployeeID, run.Period)].Status)
}

func TestApprove_MarksPaidAndQueuesEvent(t *testing.T) {
	companyID := uuid.New()
	fx := newFixture(t, nil, nil)
	defer fx.close()

	run := &PayrollRun{ID: uuid.New(), CompanyID: companyID, EmployeeID: uuid.New(), Period: "2026-03", Status: StatusDraft, NetPay: 5040}
	fx.repo.runs[runKey(run.EmployeeID, run.Period)] = run

	expectTx(fx.mock, 1)
	resp, err := fx.svc.Approve(context.Background(), companyID, run.ID)

	assert.NoError(t, err)
	assert.Equal(t, StatusPaid, resp.Status)
	assert.NotNil(t, resp.PaidAt)

	assert.Len(t, fx.outbox.events, 1)
	assert.Equal(t, "payroll_run_paid", fx.outbox.events[0].EventType)
	assert.Equal(t, kafka.OutboxStatusPending, fx.outbox.events[0].Status)
}

func TestApprove_RejectsAlreadyPaid(t *testing.T) {
	companyID := uuid.New()
	fx := newFixture(t, nil, nil)
	defer fx.close()

	run := &PayrollRun{ID: uuid.New(), CompanyID: companyID, EmployeeID: uuid.New(), Period: "2026-03", Status: StatusPaid}
	fx.repo.runs[runKey(run.EmployeeID, run.Period)] = run

	expectTx(fx.mock, 1)
	_, err := fx.svc.Approve(context.Background(), companyID, run.ID)
	assert.ErrorIs(t, err, payrollerrors.ErrRunPaidImmutable)
}

func TestBulkApprove_SkipsFlaggedAndPaid(t *testing.T) {
	companyID := uuid.New()
	fx := newFixture(t, nil, nil)
	defer fx.close()

	clean := &PayrollRun{ID: uuid.New(), CompanyID: companyID, EmployeeID: uuid.New(), Period: "2026-03", Status: StatusDraft}
	flagged := &PayrollRun{ID: uuid.New(), CompanyID: companyID, EmployeeID: uuid.New(), Period: "2026-03", Status: StatusPendingReview, FlaggedForReview: true}
	paid := &PayrollRun{ID: uuid.New(), CompanyID: companyID, EmployeeID: uuid.New(), Period: "2026-03", Status: StatusPaid}
	for _, run := range []*PayrollRun{clean, flagged, paid} {
		fx.repo.runs[runKey(run.EmployeeID, run.Period)] = run
	}

	expectTx(fx.mock, 1)
	summary, err := fx.svc.BulkApprove(context.Background(), companyID, "2026-03")

	assert.NoError(t, err)
	assert.Equal(t, 1, summary.Approved)
	assert.Equal(t, 2, summary.Skipped)
	assert.Len(t, summary.Outcomes, 3)

	assert.Equal(t, StatusPaid, fx.repo.runs[runKey(clean.EmployeeID, "2026-03")].Status)
	assert.Equal(t, StatusPendingReview, fx.repo.runs[runKey(flagged.EmployeeID, "2026-03")].Status)
	assert.True(t, fx.repo.runs[runKey(flagged.EmployeeID, "2026-03")].FlaggedForReview)
}

func TestList_RejectsMalformedPeriod(t *testing.T) {
	fx := newFixture(t, nil, nil)
	defer fx.close()

	_, err := fx.svc.List(context.Background(), uuid.New(), "March-2026", "")
	assert.ErrorIs(t, err, payrollerrors.ErrInvalidPeriod)
}

func TestList_VarianceAgainstPriorPeriod(t *testing.T) {
	companyID := uuid.New()
	fx := newFixture(t, nil, nil)
	defer fx.close()

	grew := uuid.New()
	fresh := uuid.New()
	fx.repo.runs[runKey(grew, "2026-02")] = &PayrollRun{ID: uuid.New(), CompanyID: companyID, EmployeeID: grew, Period: "2026-02", NetPay: 5000, Status: StatusPaid}
	fx.repo.runs[runKey(grew, "2026-03")] = &PayrollRun{ID: uuid.New(), CompanyID: companyID, EmployeeID: grew, Period: "2026-03", NetPay: 5500, Status: StatusDraft}
	fx.repo.runs[runKey(fresh, "2026-03")] = &PayrollRun{ID: uuid.New(), CompanyID: companyID, EmployeeID: fresh, Period: "2026-03", NetPay: 4000, Status: StatusDraft}

	out, err := fx.svc.List(context.Background(), companyID, "2026-03", "")
	assert.NoError(t, err)
	assert.Len(t, out, 2)

	byEmployee := make(map[string]PayrollRunResponse, len(out))
	for _, resp := range out {
		byEmployee[resp.EmployeeID] = resp
	}

	if assert.NotNil(t, byEmployee[grew.String()].VarianceFromPrior) {
		assert.InDelta(t, 10.0, *byEmployee[grew.String()].VarianceFromPrior, 0.001)
	}
	assert.Nil(t, byEmployee[fresh.String()].VarianceFromPrior)
}

package analytics

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"go-payroll/internal/payroll"
)

const (
	trendPeriods = 6
	// net pay above which a zero tax amount is suspicious
	taxMissMateriality = 1000.0
)

//go:generate mockgen -source=analytics_service.go -destination=mock/analytics_service_mock.go -package=mock
type Service interface {
	Analyze(ctx context.Context, companyID uuid.UUID, period string) (VarianceReport, error)
}

type service struct {
	repo   Repository
	logger *zap.Logger
}

func NewService(repo Repository, logger *zap.Logger) Service {
	return &service{repo: repo, logger: logger}
}

// Analyze compares the period's paid total against the prior period and
// attaches advisory anomaly signals. Everything here is derived on demand;
// nothing is persisted.
func (s *service) Analyze(ctx context.Context, companyID uuid.UUID, period string) (VarianceReport, error) {
	prevPeriod, err := payroll.PreviousPeriod(period)
	if err != nil {
		return VarianceReport{}, err
	}

	current, err := s.repo.SumPaidNetByPeriod(ctx, companyID, period)
	if err != nil {
		return VarianceReport{}, err
	}
	previous, err := s.repo.SumPaidNetByPeriod(ctx, companyID, prevPeriod)
	if err != nil {
		return VarianceReport{}, err
	}

	report := VarianceReport{
		Period:         period,
		PreviousPeriod: prevPeriod,
		CurrentTotal:   round2(current),
		PreviousTotal:  round2(previous),
		PercentChange:  percentChange(current, previous),
	}
	report.Status = varianceStatus(report.PercentChange)

	periodStart, _ := time.Parse("2006-01", period)
	ytd, err := s.repo.SumPaidTaxByYear(ctx, companyID, periodStart.Year())
	if err != nil {
		return VarianceReport{}, err
	}
	report.YTDTax = round2(ytd)

	anomalies, err := s.detectAnomalies(ctx, companyID, period, periodStart)
	if err != nil {
		return VarianceReport{}, err
	}
	report.Anomalies = anomalies

	trend, err := s.trendSeries(ctx, companyID, periodStart)
	if err != nil {
		return VarianceReport{}, err
	}
	report.Trend = trend

	s.logger.Debug("variance analyzed",
		zap.String("company_id", companyID.String()),
		zap.String("period", period),
		zap.Float64("percent_change", report.PercentChange),
		zap.String("status", report.Status),
		zap.Int("anomalies", len(report.Anomalies)),
	)
	return report, nil
}

func (s *service) detectAnomalies(ctx context.Context, companyID uuid.UUID, period string, periodStart time.Time) ([]Anomaly, error) {
	anomalies := make([]Anomaly, 0)

	runs, err := s.repo.FindRunsByPeriod(ctx, companyID, period)
	if err != nil {
		return nil, err
	}
	for _, run := range runs {
		if run.NetPay > taxMissMateriality && run.Tax == 0 {
			anomalies = append(anomalies, Anomaly{
				Type:       AnomalyTaxMiss,
				EmployeeID: run.EmployeeID.String(),
				RunID:      run.ID.String(),
				Message:    fmt.Sprintf("net pay %.2f with zero tax", run.NetPay),
			})
		}
		if run.Bonus > run.BaseSalary*0.5 {
			anomalies = append(anomalies, Anomaly{
				Type:       AnomalyHighBonus,
				EmployeeID: run.EmployeeID.String(),
				RunID:      run.ID.String(),
				Message:    fmt.Sprintf("bonus %.2f exceeds half of base %.2f", run.Bonus, run.BaseSalary),
			})
		}
	}

	periodEnd := periodStart.AddDate(0, 1, -1)
	flagged, err := s.repo.ListEmployeesWithAttendanceIssues(ctx, companyID, periodStart, periodEnd)
	if err != nil {
		return nil, err
	}
	for _, employeeID := range flagged {
		anomalies = append(anomalies, Anomaly{
			Type:       AnomalyAttendanceAlert,
			EmployeeID: employeeID.String(),
			Message:    "late or absent at least once this period",
		})
	}

	return anomalies, nil
}

// trendSeries returns the last six periods' paid totals, oldest first,
// zero-filled for months with no paid runs.
func (s *service) trendSeries(ctx context.Context, companyID uuid.UUID, periodStart time.Time) ([]TrendPoint, error) {
	trend := make([]TrendPoint, 0, trendPeriods)
	for i := trendPeriods - 1; i >= 0; i-- {
		key := periodStart.AddDate(0, -i, 0).Format("2006-01")
		total, err := s.repo.SumPaidNetByPeriod(ctx, companyID, key)
		if err != nil {
			return nil, err
		}
		trend = append(trend, TrendPoint{Period: key, NetPay: round2(total)})
	}
	return trend, nil
}

func percentChange(current, previous float64) float64 {
	switch {
	case previous > 0:
		return round2((current - previous) / previous * 100)
	case current > 0:
		return 100
	default:
		return 0
	}
}

func varianceStatus(change float64) string {
	switch {
	case change > 15:
		return VarianceCritical
	case change < 0:
		return VarianceOptimized
	default:
		return VarianceStable
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

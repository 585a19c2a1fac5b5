package attendance

import (
	"math"

	"go-payroll/internal/settings"
)

type PenaltyResult struct {
	LateCount     int
	LatePenalty   float64
	AbsentDays    int
	AbsentPenalty float64
	Total         float64
}

// ComputePenalty derives the period's attendance deduction from finalized
// records. Days already escalated to HALF_DAY_DEDUCTION are excluded from
// the late tally here: they were penalized through the half-day conversion
// and must not also push the flat penalty over its threshold.
func ComputePenalty(baseSalary float64, records []AttendanceRecord, rules settings.PenaltyRules) PenaltyResult {
	var result PenaltyResult

	for _, rec := range records {
		switch {
		case rec.Status == StatusAbsent:
			result.AbsentDays++
		case rec.IsLate && rec.Status != StatusHalfDayDeduction:
			result.LateCount++
		}
	}

	if rules.LateThreshold > 0 && result.LateCount >= rules.LateThreshold {
		result.LatePenalty = rules.LatePenaltyAmount
	}

	result.AbsentPenalty = round2(float64(result.AbsentDays) * baseSalary * (rules.AbsentDeductionRate / 100))
	result.Total = round2(result.LatePenalty + result.AbsentPenalty)
	return result
}

// HalfDays counts escalated records; the orchestrator treats each as half an
// unpaid leave day.
func HalfDays(records []AttendanceRecord) int {
	n := 0
	for _, rec := range records {
		if rec.Status == StatusHalfDayDeduction {
			n++
		}
	}
	return n
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

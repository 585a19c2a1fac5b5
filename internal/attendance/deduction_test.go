package attendance

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"go-payroll/internal/settings"
)

func defaultRules() settings.PenaltyRules {
	return settings.PenaltyRules{
		ShiftStart:          "09:00",
		GracePeriodMins:     15,
		LateThreshold:       3,
		LatePenaltyAmount:   50,
		AbsentDeductionRate: 5.0,
	}
}

func lateDays(n int) []AttendanceRecord {
	records := make([]AttendanceRecord, n)
	for i := range records {
		records[i] = AttendanceRecord{IsLate: true, LateMinutes: 30, Status: StatusLate}
	}
	return records
}

func TestComputePenalty_BelowThresholdNoLatePenalty(t *testing.T) {
	result := ComputePenalty(3000, lateDays(2), defaultRules())

	assert.Equal(t, 2, result.LateCount)
	assert.Equal(t, 0.0, result.LatePenalty)
	assert.Equal(t, 0.0, result.Total)
}

func TestComputePenalty_AtThresholdFlatPenalty(t *testing.T) {
	result := ComputePenalty(3000, lateDays(3), defaultRules())

	assert.Equal(t, 3, result.LateCount)
	assert.Equal(t, 50.0, result.LatePenalty)
	assert.Equal(t, 50.0, result.Total)
}

func TestComputePenalty_FlatNotPerIncident(t *testing.T) {
	// 4 late days in a month, threshold 3: still a single flat 50.
	result := ComputePenalty(3000, lateDays(4), defaultRules())

	assert.Equal(t, 4, result.LateCount)
	assert.Equal(t, 50.0, result.LatePenalty)
	assert.Equal(t, 0.0, result.AbsentPenalty)
	assert.Equal(t, 50.0, result.Total)
}

func TestComputePenalty_AbsentDeduction(t *testing.T) {
	records := []AttendanceRecord{
		{Status: StatusAbsent},
		{Status: StatusAbsent},
		{Status: StatusPresent},
	}

	result := ComputePenalty(3000, records, defaultRules())

	assert.Equal(t, 2, result.AbsentDays)
	// 2 days * 3000 * 5%
	assert.Equal(t, 300.0, result.AbsentPenalty)
	assert.Equal(t, 300.0, result.Total)
}

func TestComputePenalty_HalfDayExcludedFromLateTally(t *testing.T) {
	records := []AttendanceRecord{
		{IsLate: true, Status: StatusLate},
		{IsLate: true, Status: StatusLate},
		{IsLate: true, Status: StatusHalfDayDeduction},
	}

	result := ComputePenalty(3000, records, defaultRules())

	// the escalated day was already penalized as a half-day absence
	assert.Equal(t, 2, result.LateCount)
	assert.Equal(t, 0.0, result.LatePenalty)
}

func TestHalfDays(t *testing.T) {
	records := []AttendanceRecord{
		{Status: StatusHalfDayDeduction},
		{Status: StatusLate},
		{Status: StatusHalfDayDeduction},
	}

	assert.Equal(t, 2, HalfDays(records))
}

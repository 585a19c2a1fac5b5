package payroll

import (
	"math"

	"go-payroll/internal/tax"
)

// Fixed pay policy. Housing and provident fund are percentages of base
// salary regardless of jurisdiction; unpaid leave is valued at a thirtieth
// of base per day.
const (
	housingRate       = 0.20
	providentFundRate = 0.12
	leaveDayDivisor   = 30.0
)

// PayPolicy carries the tenant-configurable knobs of the calculator.
type PayPolicy struct {
	StandardWorkHours  float64
	OvertimeMultiplier float64
	TransportAllowance float64
}

type CalcInput struct {
	BaseSalary      float64
	OvertimeHours   float64
	UnpaidLeaveDays float64
	Jurisdiction    string
	Bonus           float64
	Policy          PayPolicy
}

type Breakdown struct {
	BaseSalary         float64
	HousingAllowance   float64
	TransportAllowance float64
	OvertimePay        float64
	Bonus              float64
	GrossPay           float64
	ProvidentFund      float64
	LeaveDeduction     float64
	TaxableIncome      float64
	Tax                float64
	NetPay             float64
	TaxReport          tax.Report
}

// Calculate composes one employee-period pay breakdown. It is deterministic
// and side-effect free; attendance penalties are netted by the orchestrator,
// not here, so the function stays jurisdiction/tax-only.
func Calculate(in CalcInput) Breakdown {
	housing := round2(in.BaseSalary * housingRate)
	transport := in.Policy.TransportAllowance

	hourlyRate := 0.0
	if in.Policy.StandardWorkHours > 0 {
		hourlyRate = in.BaseSalary / in.Policy.StandardWorkHours
	}
	overtimePay := round2(in.OvertimeHours * hourlyRate * in.Policy.OvertimeMultiplier)

	gross := round2(in.BaseSalary + housing + transport + overtimePay + in.Bonus)
	providentFund := round2(in.BaseSalary * providentFundRate)
	leaveDeduction := round2(in.UnpaidLeaveDays * (in.BaseSalary / leaveDayDivisor))

	taxable := round2(gross - providentFund - leaveDeduction)
	if taxable < 0 {
		taxable = 0
	}

	taxReport := tax.GetTaxReport(taxable, in.Jurisdiction)
	net := round2(gross - taxReport.TotalTax - providentFund - leaveDeduction)

	return Breakdown{
		BaseSalary:         in.BaseSalary,
		HousingAllowance:   housing,
		TransportAllowance: transport,
		OvertimePay:        overtimePay,
		Bonus:              in.Bonus,
		GrossPay:           gross,
		ProvidentFund:      providentFund,
		LeaveDeduction:     leaveDeduction,
		TaxableIncome:      taxable,
		Tax:                taxReport.TotalTax,
		NetPay:             net,
		TaxReport:          taxReport,
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

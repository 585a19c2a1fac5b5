package payroll

import "time"

type RunCalculationRequest struct {
	Period string `json:"period" binding:"required,len=7"`
}

type UpdateOvertimeRequest struct {
	Hours float64 `json:"hours" binding:"gte=0,lte=200"`
}

type BulkApproveRequest struct {
	Period string `json:"period" binding:"required,len=7"`
}

type PayrollRunResponse struct {
	ID                 string   `json:"id"`
	EmployeeID         string   `json:"employeeId"`
	EmployeeName       string   `json:"employeeName,omitempty"`
	Period             string   `json:"period"`
	BaseSalary         float64  `json:"baseSalary"`
	HousingAllowance   float64  `json:"housingAllowance"`
	TransportAllowance float64  `json:"transportAllowance"`
	OvertimeHours      float64  `json:"overtimeHours"`
	OvertimePay        float64  `json:"overtimePay"`
	Bonus              float64  `json:"bonus"`
	GrossPay           float64  `json:"grossPay"`
	Tax                float64  `json:"tax"`
	ProvidentFund      float64  `json:"providentFund"`
	LeaveDeduction     float64  `json:"leaveDeduction"`
	Penalty            float64  `json:"penalty"`
	NetPay             float64  `json:"netPay"`
	Currency           string   `json:"currency"`
	Status             string   `json:"status"`
	FlaggedForReview   bool     `json:"flaggedForReview"`
	GeneratedAt        string   `json:"generatedAt"`
	PaidAt             *string  `json:"paidAt,omitempty"`
	VarianceFromPrior  *float64 `json:"varianceFromPrior,omitempty"`
}

type RunCalculationSummary struct {
	Period    string `json:"period"`
	Processed int    `json:"processed"`
	Skipped   int    `json:"skipped"`
	Failed    int    `json:"failed"`
}

type BulkApproveOutcome struct {
	RunID      string `json:"runId"`
	EmployeeID string `json:"employeeId"`
	Outcome    string `json:"outcome"`
	Reason     string `json:"reason,omitempty"`
}

type BulkApproveSummary struct {
	Period   string               `json:"period"`
	Approved int                  `json:"approved"`
	Skipped  int                  `json:"skipped"`
	Failed   int                  `json:"failed"`
	Outcomes []BulkApproveOutcome `json:"outcomes"`
}

func mapToResponse(run PayrollRun) PayrollRunResponse {
	resp := PayrollRunResponse{
		ID:                 run.ID.String(),
		EmployeeID:         run.EmployeeID.String(),
		Period:             run.Period,
		BaseSalary:         run.BaseSalary,
		HousingAllowance:   run.HousingAllowance,
		TransportAllowance: run.TransportAllowance,
		OvertimeHours:      run.OvertimeHours,
		OvertimePay:        run.OvertimePay,
		Bonus:              run.Bonus,
		GrossPay:           run.GrossPay,
		Tax:                run.Tax,
		ProvidentFund:      run.ProvidentFund,
		LeaveDeduction:     run.LeaveDeduction,
		Penalty:            run.Penalty,
		NetPay:             run.NetPay,
		Currency:           run.Currency,
		Status:             run.Status,
		FlaggedForReview:   run.FlaggedForReview,
		GeneratedAt:        run.GeneratedAt.UTC().Format(time.RFC3339),
	}
	if run.PaidAt != nil {
		paidAt := run.PaidAt.UTC().Format(time.RFC3339)
		resp.PaidAt = &paidAt
	}
	return resp
}

func mapToListResponse(runs []PayrollRun) []PayrollRunResponse {
	out := make([]PayrollRunResponse, 0, len(runs))
	for _, run := range runs {
		out = append(out, mapToResponse(run))
	}
	return out
}

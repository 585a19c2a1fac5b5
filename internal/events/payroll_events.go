package events

// Topics carrying payroll lifecycle events out of the engine.
const (
	TopicPayrollRunPaid = "payroll.run.paid"
)

// PayrollRunPaid is emitted through the transactional outbox when a run
// reaches its terminal PAID state. Consumers project it into the
// read-optimized store; the relational tables stay the source of truth.
type PayrollRunPaid struct {
	RunID      string  `json:"runId"`
	CompanyID  string  `json:"companyId"`
	EmployeeID string  `json:"employeeId"`
	Period     string  `json:"period"`
	NetPay     float64 `json:"netPay"`
	Tax        float64 `json:"tax"`
	PaidAt     string  `json:"paidAt"`
}

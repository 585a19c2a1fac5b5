package analytics

const (
	VarianceCritical  = "CRITICAL"
	VarianceOptimized = "OPTIMIZED"
	VarianceStable    = "STABLE"
)

const (
	AnomalyTaxMiss         = "TAX_MISS"
	AnomalyHighBonus       = "HIGH_BONUS"
	AnomalyAttendanceAlert = "ATTENDANCE_ALERT"
)

type Anomaly struct {
	Type       string `json:"type"`
	EmployeeID string `json:"employeeId"`
	RunID      string `json:"runId,omitempty"`
	Message    string `json:"message"`
}

type TrendPoint struct {
	Period string  `json:"period"`
	NetPay float64 `json:"netPay"`
}

type VarianceReport struct {
	Period         string       `json:"period"`
	PreviousPeriod string       `json:"previousPeriod"`
	CurrentTotal   float64      `json:"currentTotal"`
	PreviousTotal  float64      `json:"previousTotal"`
	PercentChange  float64      `json:"percentChange"`
	Status         string       `json:"status"`
	YTDTax         float64      `json:"ytdTax"`
	Anomalies      []Anomaly    `json:"anomalies"`
	Trend          []TrendPoint `json:"trend"`
}

package payroll

import (
	"time"

	"github.com/google/uuid"
)

type PayrollRun struct {
	ID                 uuid.UUID  `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`
	CompanyID          uuid.UUID  `gorm:"column:company_id;type:uuid;not null;uniqueIndex:uq_payroll_run_period"`
	EmployeeID         uuid.UUID  `gorm:"column:employee_id;type:uuid;not null;uniqueIndex:uq_payroll_run_period"`
	Period             string     `gorm:"column:period;type:varchar(7);not null;uniqueIndex:uq_payroll_run_period"`
	BaseSalary         float64    `gorm:"column:base_salary;not null"`
	HousingAllowance   float64    `gorm:"column:housing_allowance;not null"`
	TransportAllowance float64    `gorm:"column:transport_allowance;not null"`
	OvertimeHours      float64    `gorm:"column:overtime_hours;not null;default:0"`
	OvertimePay        float64    `gorm:"column:overtime_pay;not null;default:0"`
	Bonus              float64    `gorm:"column:bonus;not null;default:0"`
	GrossPay           float64    `gorm:"column:gross_pay;not null"`
	Tax                float64    `gorm:"column:tax;not null"`
	ProvidentFund      float64    `gorm:"column:provident_fund;not null"`
	LeaveDeduction     float64    `gorm:"column:leave_deduction;not null;default:0"`
	Penalty            float64    `gorm:"column:penalty;not null;default:0"`
	NetPay             float64    `gorm:"column:net_pay;not null"`
	Currency           string     `gorm:"column:currency;type:varchar(5);not null;default:'$'"`
	Status             string     `gorm:"column:status;type:varchar(20);not null;default:DRAFT"`
	FlaggedForReview   bool       `gorm:"column:flagged_for_review;not null;default:false"`
	GeneratedAt        time.Time  `gorm:"column:generated_at;type:timestamptz;not null"`
	PaidAt             *time.Time `gorm:"column:paid_at;type:timestamptz"`
	CreatedAt          time.Time  `gorm:"column:created_at"`
	UpdatedAt          time.Time  `gorm:"column:updated_at"`
}

func (PayrollRun) TableName() string {
	return "payroll_runs"
}

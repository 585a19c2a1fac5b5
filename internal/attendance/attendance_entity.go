package attendance

import (
	"time"

	"github.com/google/uuid"
)

const (
	StatusPresent          = "PRESENT"
	StatusLate             = "LATE"
	StatusAbsent           = "ABSENT"
	StatusHalfDayDeduction = "HALF_DAY_DEDUCTION"
)

type AttendanceRecord struct {
	ID             uuid.UUID  `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`
	CompanyID      uuid.UUID  `gorm:"column:company_id;type:uuid;not null;uniqueIndex:uq_attendance_day"`
	EmployeeID     uuid.UUID  `gorm:"column:employee_id;type:uuid;not null;uniqueIndex:uq_attendance_day"`
	AttendanceDate time.Time  `gorm:"column:attendance_date;type:date;not null;uniqueIndex:uq_attendance_day"`
	ClockIn        *time.Time `gorm:"column:clock_in;type:timestamptz"`
	IsLate         bool       `gorm:"column:is_late;not null;default:false"`
	LateMinutes    int        `gorm:"column:late_minutes;not null;default:0"`
	Status         string     `gorm:"column:status;type:varchar(20);not null;default:PRESENT"`
	CreatedAt      time.Time  `gorm:"column:created_at"`
	UpdatedAt      time.Time  `gorm:"column:updated_at"`
}

func (AttendanceRecord) TableName() string {
	return "attendance_records"
}

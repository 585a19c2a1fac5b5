package employee

import (
	"time"

	"github.com/google/uuid"
)

type Employee struct {
	ID               uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CompanyID        uuid.UUID `gorm:"type:uuid;not null;index"`
	FullName         string    `gorm:"type:varchar(120);not null"`
	Email            string    `gorm:"type:varchar(160);not null;uniqueIndex:uq_employee_email"`
	BaseSalary       float64   `gorm:"not null"`
	PerformanceScore float64   `gorm:"not null;default:0"`
	IsActive         bool      `gorm:"not null;default:true"`
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

func (Employee) TableName() string {
	return "employees"
}

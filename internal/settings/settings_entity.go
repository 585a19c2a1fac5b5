package settings

import (
	"time"

	"github.com/google/uuid"
)

type CompanySettings struct {
	ID                  uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CompanyID           uuid.UUID `gorm:"type:uuid;not null;uniqueIndex"`
	CompanyName         string    `gorm:"type:varchar(120);not null"`
	Country             string    `gorm:"type:varchar(8);not null;default:'USA'"`
	ShiftStart          string    `gorm:"type:varchar(5);not null;default:'09:00'"`
	ShiftEnd            string    `gorm:"type:varchar(5);not null;default:'17:00'"`
	GracePeriodMins     int       `gorm:"not null;default:15"`
	StandardWorkHours   float64   `gorm:"not null;default:160"`
	OvertimeMultiplier  float64   `gorm:"not null;default:1.5"`
	TransportAllowance  float64   `gorm:"not null;default:200"`
	BonusThreshold      float64   `gorm:"not null;default:90"`
	BonusRate           float64   `gorm:"not null;default:5.0"`
	LateThreshold       int       `gorm:"not null;default:3"`
	LatePenaltyAmount   float64   `gorm:"not null;default:50"`
	AbsentDeductionRate float64   `gorm:"not null;default:5.0"`
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

func (CompanySettings) TableName() string {
	return "company_settings"
}

// PenaltyRules is the attendance-facing slice of CompanySettings, passed by
// value into the deduction engine so the pure functions never touch storage.
type PenaltyRules struct {
	ShiftStart          string
	GracePeriodMins     int
	LateThreshold       int
	LatePenaltyAmount   float64
	AbsentDeductionRate float64
}

func (s CompanySettings) PenaltyRules() PenaltyRules {
	return PenaltyRules{
		ShiftStart:          s.ShiftStart,
		GracePeriodMins:     s.GracePeriodMins,
		LateThreshold:       s.LateThreshold,
		LatePenaltyAmount:   s.LatePenaltyAmount,
		AbsentDeductionRate: s.AbsentDeductionRate,
	}
}

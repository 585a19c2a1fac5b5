package settings

import (
	"context"
	"regexp"

	"github.com/google/uuid"
	"go.uber.org/zap"

	settingserrors "go-payroll/internal/settings/errors"
	"go-payroll/internal/tax"
)

//go:generate mockgen -source=settings_service.go -destination=mocks/settings_service_mock.go -package=mocks

type Service interface {
	// Get returns the company settings, falling back to defaults when the
	// company has never saved a row.
	Get(ctx context.Context, companyID uuid.UUID) (*CompanySettings, error)
	Update(ctx context.Context, companyID uuid.UUID, req UpdateSettingsRequest) (*CompanySettings, error)
}

type service struct {
	repo   Repository
	logger *zap.Logger
}

func NewService(repo Repository, logger *zap.Logger) Service {
	return &service{repo: repo, logger: logger}
}

var shiftTimePattern = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d$`)

// Defaults returns the configuration a company starts with before anything
// is saved. Calculation code must never branch on "settings missing".
func Defaults(companyID uuid.UUID) *CompanySettings {
	return &CompanySettings{
		CompanyID:           companyID,
		CompanyName:         "My Company",
		Country:             tax.DefaultJurisdiction,
		ShiftStart:          "09:00",
		ShiftEnd:            "17:00",
		GracePeriodMins:     15,
		StandardWorkHours:   160,
		OvertimeMultiplier:  1.5,
		TransportAllowance:  200,
		BonusThreshold:      90,
		BonusRate:           5.0,
		LateThreshold:       3,
		LatePenaltyAmount:   50,
		AbsentDeductionRate: 5.0,
	}
}

func (s *service) Get(ctx context.Context, companyID uuid.UUID) (*CompanySettings, error) {
	stored, err := s.repo.FindByCompany(ctx, companyID)
	if err != nil {
		return nil, err
	}
	if stored == nil {
		return Defaults(companyID), nil
	}
	return stored, nil
}

func (s *service) Update(ctx context.Context, companyID uuid.UUID, req UpdateSettingsRequest) (*CompanySettings, error) {
	current, err := s.Get(ctx, companyID)
	if err != nil {
		return nil, err
	}

	applyUpdate(current, req)

	if !shiftTimePattern.MatchString(current.ShiftStart) || !shiftTimePattern.MatchString(current.ShiftEnd) {
		return nil, settingserrors.ErrInvalidShiftTime
	}
	if !tax.Known(current.Country) {
		return nil, settingserrors.ErrUnknownCountry
	}

	if err := s.repo.Upsert(ctx, current); err != nil {
		return nil, err
	}

	s.logger.Info("company settings updated",
		zap.String("company_id", companyID.String()),
		zap.String("country", current.Country),
	)
	return current, nil
}

func applyUpdate(dst *CompanySettings, req UpdateSettingsRequest) {
	if req.CompanyName != nil {
		dst.CompanyName = *req.CompanyName
	}
	if req.Country != nil {
		dst.Country = *req.Country
	}
	if req.ShiftStart != nil {
		dst.ShiftStart = *req.ShiftStart
	}
	if req.ShiftEnd != nil {
		dst.ShiftEnd = *req.ShiftEnd
	}
	if req.GracePeriodMins != nil {
		dst.GracePeriodMins = *req.GracePeriodMins
	}
	if req.StandardWorkHours != nil {
		dst.StandardWorkHours = *req.StandardWorkHours
	}
	if req.OvertimeMultiplier != nil {
		dst.OvertimeMultiplier = *req.OvertimeMultiplier
	}
	if req.TransportAllowance != nil {
		dst.TransportAllowance = *req.TransportAllowance
	}
	if req.BonusThreshold != nil {
		dst.BonusThreshold = *req.BonusThreshold
	}
	if req.BonusRate != nil {
		dst.BonusRate = *req.BonusRate
	}
	if req.LateThreshold != nil {
		dst.LateThreshold = *req.LateThreshold
	}
	if req.LatePenaltyAmount != nil {
		dst.LatePenaltyAmount = *req.LatePenaltyAmount
	}
	if req.AbsentDeductionRate != nil {
		dst.AbsentDeductionRate = *req.AbsentDeductionRate
	}
}

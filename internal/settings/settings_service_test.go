package settings

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	settingserrors "go-payroll/internal/settings/errors"
)

type fakeRepo struct {
	stored   *CompanySettings
	upserted *CompanySettings
	findErr  error
}

func (f *fakeRepo) FindByCompany(ctx context.Context, companyID uuid.UUID) (*CompanySettings, error) {
	return f.stored, f.findErr
}

func (f *fakeRepo) Upsert(ctx context.Context, s *CompanySettings) error {
	f.upserted = s
	return nil
}

func TestGetReturnsDefaultsWhenNothingSaved(t *testing.T) {
	companyID := uuid.New()
	svc := NewService(&fakeRepo{}, zap.NewNop())

	got, err := svc.Get(context.Background(), companyID)

	assert.NoError(t, err)
	assert.Equal(t, companyID, got.CompanyID)
	assert.Equal(t, "USA", got.Country)
	assert.Equal(t, "09:00", got.ShiftStart)
	assert.Equal(t, 15, got.GracePeriodMins)
	assert.Equal(t, 160.0, got.StandardWorkHours)
	assert.Equal(t, 1.5, got.OvertimeMultiplier)
	assert.Equal(t, 200.0, got.TransportAllowance)
	assert.Equal(t, 90.0, got.BonusThreshold)
	assert.Equal(t, 5.0, got.BonusRate)
	assert.Equal(t, 3, got.LateThreshold)
	assert.Equal(t, 50.0, got.LatePenaltyAmount)
}

func TestGetPrefersStoredSettings(t *testing.T) {
	companyID := uuid.New()
	stored := Defaults(companyID)
	stored.Country = "DE"
	stored.LateThreshold = 5
	svc := NewService(&fakeRepo{stored: stored}, zap.NewNop())

	got, err := svc.Get(context.Background(), companyID)

	assert.NoError(t, err)
	assert.Equal(t, "DE", got.Country)
	assert.Equal(t, 5, got.LateThreshold)
}

func TestUpdateAppliesPartialChanges(t *testing.T) {
	companyID := uuid.New()
	repo := &fakeRepo{}
	svc := NewService(repo, zap.NewNop())

	country := "IN"
	grace := 30
	got, err := svc.Update(context.Background(), companyID, UpdateSettingsRequest{
		Country:         &country,
		GracePeriodMins: &grace,
	})

	assert.NoError(t, err)
	assert.Equal(t, "IN", got.Country)
	assert.Equal(t, 30, got.GracePeriodMins)
	// untouched fields keep their defaults
	assert.Equal(t, 1.5, got.OvertimeMultiplier)
	assert.NotNil(t, repo.upserted)
}

func TestUpdateRejectsMalformedShiftTime(t *testing.T) {
	svc := NewService(&fakeRepo{}, zap.NewNop())

	bad := "9am"
	_, err := svc.Update(context.Background(), uuid.New(), UpdateSettingsRequest{ShiftStart: &bad})

	assert.ErrorIs(t, err, settingserrors.ErrInvalidShiftTime)
}

func TestUpdateRejectsUnknownJurisdiction(t *testing.T) {
	svc := NewService(&fakeRepo{}, zap.NewNop())

	bad := "ZZ"
	_, err := svc.Update(context.Background(), uuid.New(), UpdateSettingsRequest{Country: &bad})

	assert.ErrorIs(t, err, settingserrors.ErrUnknownCountry)
}

func TestPenaltyRulesProjection(t *testing.T) {
	s := Defaults(uuid.New())
	s.LateThreshold = 4
	s.LatePenaltyAmount = 75

	rules := s.PenaltyRules()

	assert.Equal(t, "09:00", rules.ShiftStart)
	assert.Equal(t, 15, rules.GracePeriodMins)
	assert.Equal(t, 4, rules.LateThreshold)
	assert.Equal(t, 75.0, rules.LatePenaltyAmount)
	assert.Equal(t, 5.0, rules.AbsentDeductionRate)
}

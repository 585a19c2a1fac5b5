package settings

type UpdateSettingsRequest struct {
	CompanyName         *string  `json:"companyName" binding:"omitempty,min=2,max=120"`
	Country             *string  `json:"country" binding:"omitempty,len=2|len=3"`
	ShiftStart          *string  `json:"shiftStart" binding:"omitempty,len=5"`
	ShiftEnd            *string  `json:"shiftEnd" binding:"omitempty,len=5"`
	GracePeriodMins     *int     `json:"gracePeriodMins" binding:"omitempty,gte=0,lte=120"`
	StandardWorkHours   *float64 `json:"standardWorkHours" binding:"omitempty,gt=0"`
	OvertimeMultiplier  *float64 `json:"overtimeMultiplier" binding:"omitempty,gte=1"`
	TransportAllowance  *float64 `json:"transportAllowance" binding:"omitempty,gte=0"`
	BonusThreshold      *float64 `json:"bonusThreshold" binding:"omitempty,gte=0,lte=100"`
	BonusRate           *float64 `json:"bonusRate" binding:"omitempty,gte=0"`
	LateThreshold       *int     `json:"lateThreshold" binding:"omitempty,gte=1"`
	LatePenaltyAmount   *float64 `json:"latePenaltyAmount" binding:"omitempty,gte=0"`
	AbsentDeductionRate *float64 `json:"absentDeductionRate" binding:"omitempty,gte=0,lte=100"`
}

type SettingsResponse struct {
	CompanyName         string  `json:"companyName"`
	Country             string  `json:"country"`
	ShiftStart          string  `json:"shiftStart"`
	ShiftEnd            string  `json:"shiftEnd"`
	GracePeriodMins     int     `json:"gracePeriodMins"`
	StandardWorkHours   float64 `json:"standardWorkHours"`
	OvertimeMultiplier  float64 `json:"overtimeMultiplier"`
	TransportAllowance  float64 `json:"transportAllowance"`
	BonusThreshold      float64 `json:"bonusThreshold"`
	BonusRate           float64 `json:"bonusRate"`
	LateThreshold       int     `json:"lateThreshold"`
	LatePenaltyAmount   float64 `json:"latePenaltyAmount"`
	AbsentDeductionRate float64 `json:"absentDeductionRate"`
}

func toResponse(s *CompanySettings) SettingsResponse {
	return SettingsResponse{
		CompanyName:         s.CompanyName,
		Country:             s.Country,
		ShiftStart:          s.ShiftStart,
		ShiftEnd:            s.ShiftEnd,
		GracePeriodMins:     s.GracePeriodMins,
		StandardWorkHours:   s.StandardWorkHours,
		OvertimeMultiplier:  s.OvertimeMultiplier,
		TransportAllowance:  s.TransportAllowance,
		BonusThreshold:      s.BonusThreshold,
		BonusRate:           s.BonusRate,
		LateThreshold:       s.LateThreshold,
		LatePenaltyAmount:   s.LatePenaltyAmount,
		AbsentDeductionRate: s.AbsentDeductionRate,
	}
}

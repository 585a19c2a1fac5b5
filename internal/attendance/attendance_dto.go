package attendance

import "time"

type ClockInRequest struct {
	EmployeeID string `json:"employeeId" binding:"required,uuid"`
	// Timestamp is optional; when empty the server clock is used.
	Timestamp string `json:"timestamp" binding:"omitempty"`
}

type ClockInResponse struct {
	EmployeeID     string `json:"employeeId"`
	AttendanceDate string `json:"attendanceDate"`
	Status         string `json:"status"`
	IsLate         bool   `json:"isLate"`
	LateMinutes    int    `json:"lateMinutes"`
	FlagCount      int    `json:"flagCount"`
	PenaltyApplied bool   `json:"penaltyApplied"`
}

type AttendanceResponse struct {
	ID             string  `json:"id"`
	EmployeeID     string  `json:"employeeId"`
	AttendanceDate string  `json:"attendanceDate"`
	ClockIn        *string `json:"clockIn,omitempty"`
	IsLate         bool    `json:"isLate"`
	LateMinutes    int     `json:"lateMinutes"`
	Status         string  `json:"status"`
}

func mapToResponse(a AttendanceRecord) AttendanceResponse {
	resp := AttendanceResponse{
		ID:             a.ID.String(),
		EmployeeID:     a.EmployeeID.String(),
		AttendanceDate: a.AttendanceDate.Format("2006-01-02"),
		IsLate:         a.IsLate,
		LateMinutes:    a.LateMinutes,
		Status:         a.Status,
	}
	if a.ClockIn != nil {
		formatted := a.ClockIn.UTC().Format(time.RFC3339)
		resp.ClockIn = &formatted
	}
	return resp
}

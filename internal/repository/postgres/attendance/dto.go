package attendance

import (
	"encoding/json"
	"time"

	"github.com/Azure/go-autorest/autorest/date"
	"github.com/uptrace/bun"
)

type Filter struct {
	Limit    *int
	Offset   *int
	Page     *int
	Search   *string
	BranchID *int
	UserID   *int
	Status   *string
	Date     *string
}

type GetListResponse struct {
	ID                 int        `json:"id"`
	UserID             *int       `json:"user_id"`
	StaffID            *string    `json:"staff_id"`
	FullName           *string    `json:"full_name"`
	BranchID           *int       `json:"branch_id"`
	Branch             *string    `json:"branch"`
	DeviceID           *int       `json:"device_id"`
	WorkDay            *date.Date `json:"work_day"`
	Status             *string    `json:"status"`
	ConfidenceScore    *float64   `json:"confidence_score,omitempty"`
	VerificationMethod *string    `json:"verification_method"`
	ClockIn            *time.Time `json:"clock_in,omitempty"`
	ClockOut           *time.Time `json:"clock_out,omitempty"`
	TotalHours         string     `json:"total_hours"`
}

func (r *GetListResponse) MarshalJSON() ([]byte, error) {
	type Alias GetListResponse
	aux := &struct {
		ClockIn  string `json:"clock_in,omitempty"`
		ClockOut string `json:"clock_out,omitempty"`
		*Alias
	}{
		Alias: (*Alias)(r),
	}

	if r.ClockIn != nil {
		aux.ClockIn = r.ClockIn.Format("15:04")
	}
	if r.ClockOut != nil {
		aux.ClockOut = r.ClockOut.Format("15:04")
	}

	return json.Marshal(aux)
}

type GetDetailByIdResponse struct {
	ID                 int        `json:"id"`
	UserID             *int       `json:"user_id"`
	StaffID            *string    `json:"staff_id"`
	FullName           *string    `json:"full_name"`
	BranchID           *int       `json:"branch_id"`
	Branch             *string    `json:"branch"`
	DeviceID           *int       `json:"device_id"`
	WorkDay            *date.Date `json:"work_day"`
	Status             *string    `json:"status"`
	ConfidenceScore    *float64   `json:"confidence_score,omitempty"`
	VerificationMethod *string    `json:"verification_method"`
	PhotoUrl           *string    `json:"photo_url,omitempty"`
	ClockIn            *time.Time `json:"clock_in,omitempty"`
	ClockOut           *time.Time `json:"clock_out,omitempty"`
	TotalHours         string     `json:"total_hours"`
}

// ClockInRequest is an attendance event ready for the remote insert, either
// from a live recorder attempt or from the offline queue flush.
type ClockInRequest struct {
	UserID             int
	DeviceID           int
	OrganizationID     int
	BranchID           int
	ClockIn            time.Time
	ConfidenceScore    *float64
	VerificationMethod string
	PhotoUrl           *string
	CreatedBy          int
}

type ClockInResponse struct {
	bun.BaseModel `bun:"table:attendance_events"`

	ID                 int       `json:"id" bun:"-"`
	UserID             int       `json:"user_id" bun:"user_id"`
	DeviceID           int       `json:"device_id" bun:"device_id"`
	OrganizationID     int       `json:"organization_id" bun:"organization_id"`
	BranchID           int       `json:"branch_id" bun:"branch_id"`
	WorkDay            string    `json:"work_day" bun:"work_day"`
	ClockIn            time.Time `json:"clock_in" bun:"clock_in"`
	Status             string    `json:"status" bun:"status"`
	ConfidenceScore    *float64  `json:"confidence_score,omitempty" bun:"confidence_score"`
	VerificationMethod string    `json:"verification_method" bun:"verification_method"`
	PhotoUrl           *string   `json:"photo_url,omitempty" bun:"photo_url"`
	Synced             bool      `json:"synced" bun:"synced"`
	CreatedAt          time.Time `json:"-" bun:"created_at"`
	CreatedBy          int       `json:"-" bun:"created_by"`
}

type ClockOutRequest struct {
	UserID   int `json:"user_id" form:"user_id"`
	BranchID int `json:"branch_id" form:"branch_id"`
}

type ClockOutResponse struct {
	ID         int       `json:"id"`
	UserID     int       `json:"user_id"`
	ClockOut   time.Time `json:"clock_out"`
	TotalHours string    `json:"total_hours"`
}

type UpdateRequest struct {
	ID       int     `json:"id" form:"id"`
	ClockIn  string  `json:"clock_in" form:"clock_in"`
	ClockOut string  `json:"clock_out" form:"clock_out"`
	Status   *string `json:"status" form:"status"`
}

type GetStatisticResponse struct {
	TotalStaff   *int `json:"total_staff"`
	PresentToday *int `json:"present_today"`
	AbsentToday  *int `json:"absent_today"`
	FaceVerified *int `json:"face_verified"`
	StillIn      *int `json:"still_in"`
}

type PieChartResponse struct {
	Present *int `json:"present"`
	Absent  *int `json:"absent"`
}

type BarChartResponse struct {
	Branch     *string  `json:"branch"`
	Percentage *float64 `json:"percentage"`
}

type GraphRequest struct {
	Month    date.Date
	Interval int
}

type GraphResponse struct {
	Percentage *float64   `json:"percentage"`
	WorkDay    *date.Date `json:"work_day"`
}

// ExportRow is one line of the attendance excel report.
type ExportRow struct {
	StaffID            string
	FullName           string
	Branch             string
	WorkDay            string
	ClockIn            string
	ClockOut           string
	Status             string
	VerificationMethod string
}

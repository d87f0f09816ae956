package entity

import (
	"time"

	"github.com/uptrace/bun"
)

// Attendance statuses and verification methods stored on attendance_events.
const (
	AttendanceStatusPresent = "present"

	VerificationFace   = "face"
	VerificationManual = "manual"
)

type AttendanceEvent struct {
	bun.BaseModel `bun:"table:attendance_events"`

	BasicEntity
	UserID             *int       `json:"user_id" bun:"user_id"`
	DeviceID           *int       `json:"device_id" bun:"device_id"`
	OrganizationID     *int       `json:"organization_id" bun:"organization_id"`
	BranchID           *int       `json:"branch_id" bun:"branch_id"`
	ClockIn            *time.Time `json:"clock_in" bun:"clock_in"`
	ClockOut           *time.Time `json:"clock_out,omitempty" bun:"clock_out"`
	WorkDay            string     `json:"work_day" bun:"work_day"`
	Status             *string    `json:"status" bun:"status"`
	ConfidenceScore    *float64   `json:"confidence_score,omitempty" bun:"confidence_score"`
	VerificationMethod *string    `json:"verification_method" bun:"verification_method"`
	Synced             *bool      `json:"synced" bun:"synced"`
	PhotoUrl           *string    `json:"photo_url,omitempty" bun:"photo_url"`
}

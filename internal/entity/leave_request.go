package entity

import (
	"github.com/uptrace/bun"
)

// Leave request statuses.
const (
	LeaveStatusPending  = "pending"
	LeaveStatusApproved = "approved"
	LeaveStatusRejected = "rejected"
)

type LeaveRequest struct {
	bun.BaseModel `bun:"table:leave_requests"`

	BasicEntity
	UserID         *int    `json:"user_id" bun:"user_id"`
	OrganizationID *int    `json:"organization_id" bun:"organization_id"`
	LeaveType      *string `json:"leave_type" bun:"leave_type"`
	StartDay       string  `json:"start_day" bun:"start_day"`
	EndDay         string  `json:"end_day" bun:"end_day"`
	Reason         *string `json:"reason" bun:"reason"`
	Status         *string `json:"status" bun:"status"`
	ReviewedBy     *int    `json:"reviewed_by,omitempty" bun:"reviewed_by"`
}

package leave

import (
	"time"

	"github.com/uptrace/bun"
)

type Filter struct {
	Limit          *int
	Offset         *int
	Page           *int
	UserID         *int
	Status         *string
	OrganizationID *int
}

type GetListResponse struct {
	ID         int     `json:"id"`
	UserID     *int    `json:"user_id"`
	FullName   *string `json:"full_name"`
	LeaveType  *string `json:"leave_type"`
	StartDay   string  `json:"start_day"`
	EndDay     string  `json:"end_day"`
	Reason     *string `json:"reason"`
	Status     *string `json:"status"`
	ReviewedBy *int    `json:"reviewed_by,omitempty"`
	Reviewer   *string `json:"reviewer,omitempty"`
}

type CreateRequest struct {
	UserID         *int    `json:"user_id" form:"user_id"`
	OrganizationID *int    `json:"organization_id" form:"organization_id"`
	LeaveType      *string `json:"leave_type" form:"leave_type"`
	StartDay       *string `json:"start_day" form:"start_day"`
	EndDay         *string `json:"end_day" form:"end_day"`
	Reason         *string `json:"reason" form:"reason"`
}

type CreateResponse struct {
	bun.BaseModel `bun:"table:leave_requests"`

	ID             int       `json:"id" bun:"-"`
	UserID         *int      `json:"user_id" bun:"user_id"`
	OrganizationID *int      `json:"organization_id" bun:"organization_id"`
	LeaveType      *string   `json:"leave_type" bun:"leave_type"`
	StartDay       string    `json:"start_day" bun:"start_day"`
	EndDay         string    `json:"end_day" bun:"end_day"`
	Reason         *string   `json:"reason" bun:"reason"`
	Status         string    `json:"status" bun:"status"`
	CreatedAt      time.Time `json:"-" bun:"created_at"`
	CreatedBy      int       `json:"-" bun:"created_by"`
}

type ReviewRequest struct {
	ID     int     `json:"id" form:"id"`
	Status *string `json:"status" form:"status"`
}

package visitor

import (
	"time"

	"github.com/uptrace/bun"
)

type Filter struct {
	Limit          *int
	Offset         *int
	Page           *int
	Search         *string
	BranchID       *int
	OrganizationID *int
	Date           *string
	Open           *bool
}

type GetListResponse struct {
	ID         int        `json:"id"`
	FullName   *string    `json:"full_name"`
	Phone      *string    `json:"phone"`
	Purpose    *string    `json:"purpose"`
	BranchID   *int       `json:"branch_id"`
	Branch     *string    `json:"branch"`
	HostUserID *int       `json:"host_user_id"`
	Host       *string    `json:"host"`
	BadgeNo    *string    `json:"badge_no"`
	CheckIn    *time.Time `json:"check_in"`
	CheckOut   *time.Time `json:"check_out,omitempty"`
}

type GetDetailByIdResponse struct {
	ID             int        `json:"id"`
	OrganizationID *int       `json:"organization_id"`
	BranchID       *int       `json:"branch_id"`
	Branch         *string    `json:"branch"`
	FullName       *string    `json:"full_name"`
	Phone          *string    `json:"phone"`
	Purpose        *string    `json:"purpose"`
	HostUserID     *int       `json:"host_user_id"`
	Host           *string    `json:"host"`
	BadgeNo        *string    `json:"badge_no"`
	CheckIn        *time.Time `json:"check_in"`
	CheckOut       *time.Time `json:"check_out,omitempty"`
}

type CheckInRequest struct {
	OrganizationID *int    `json:"organization_id" form:"organization_id"`
	BranchID       *int    `json:"branch_id" form:"branch_id"`
	FullName       *string `json:"full_name" form:"full_name"`
	Phone          *string `json:"phone" form:"phone"`
	Purpose        *string `json:"purpose" form:"purpose"`
	HostUserID     *int    `json:"host_user_id" form:"host_user_id"`
}

type CheckInResponse struct {
	bun.BaseModel `bun:"table:visitors"`

	ID             int       `json:"id" bun:"-"`
	OrganizationID *int      `json:"organization_id" bun:"organization_id"`
	BranchID       *int      `json:"branch_id" bun:"branch_id"`
	FullName       *string   `json:"full_name" bun:"full_name"`
	Phone          *string   `json:"phone" bun:"phone"`
	Purpose        *string   `json:"purpose" bun:"purpose"`
	HostUserID     *int      `json:"host_user_id" bun:"host_user_id"`
	BadgeNo        string    `json:"badge_no" bun:"badge_no"`
	CheckIn        time.Time `json:"check_in" bun:"check_in"`
	CreatedAt      time.Time `json:"-" bun:"created_at"`
	CreatedBy      int       `json:"-" bun:"created_by"`
}

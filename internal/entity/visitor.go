package entity

import (
	"time"

	"github.com/uptrace/bun"
)

type Visitor struct {
	bun.BaseModel `bun:"table:visitors"`

	BasicEntity
	OrganizationID *int       `json:"organization_id" bun:"organization_id"`
	BranchID       *int       `json:"branch_id" bun:"branch_id"`
	FullName       *string    `json:"full_name" bun:"full_name"`
	Phone          *string    `json:"phone" bun:"phone"`
	Purpose        *string    `json:"purpose" bun:"purpose"`
	HostUserID     *int       `json:"host_user_id" bun:"host_user_id"`
	BadgeNo        *string    `json:"badge_no" bun:"badge_no"`
	CheckIn        *time.Time `json:"check_in" bun:"check_in"`
	CheckOut       *time.Time `json:"check_out,omitempty" bun:"check_out"`
}

type Customer struct {
	bun.BaseModel `bun:"table:customers"`

	BasicEntity
	OrganizationID *int    `json:"organization_id" bun:"organization_id"`
	FullName       *string `json:"full_name" bun:"full_name"`
	Phone          *string `json:"phone" bun:"phone"`
	Email          *string `json:"email" bun:"email"`
	Notes          *string `json:"notes" bun:"notes"`
}

type Vehicle struct {
	bun.BaseModel `bun:"table:vehicles"`

	BasicEntity
	OrganizationID *int       `json:"organization_id" bun:"organization_id"`
	BranchID       *int       `json:"branch_id" bun:"branch_id"`
	PlateNo        *string    `json:"plate_no" bun:"plate_no"`
	OwnerName      *string    `json:"owner_name" bun:"owner_name"`
	VehicleType    *string    `json:"vehicle_type" bun:"vehicle_type"`
	EntryTime      *time.Time `json:"entry_time" bun:"entry_time"`
	ExitTime       *time.Time `json:"exit_time,omitempty" bun:"exit_time"`
}

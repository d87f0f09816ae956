package vehicle

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
	Inside         *bool
}

type GetListResponse struct {
	ID          int        `json:"id"`
	PlateNo     *string    `json:"plate_no"`
	OwnerName   *string    `json:"owner_name"`
	VehicleType *string    `json:"vehicle_type"`
	BranchID    *int       `json:"branch_id"`
	Branch      *string    `json:"branch"`
	EntryTime   *time.Time `json:"entry_time"`
	ExitTime    *time.Time `json:"exit_time,omitempty"`
}

type EntryRequest struct {
	OrganizationID *int    `json:"organization_id" form:"organization_id"`
	BranchID       *int    `json:"branch_id" form:"branch_id"`
	PlateNo        *string `json:"plate_no" form:"plate_no"`
	OwnerName      *string `json:"owner_name" form:"owner_name"`
	VehicleType    *string `json:"vehicle_type" form:"vehicle_type"`
}

type EntryResponse struct {
	bun.BaseModel `bun:"table:vehicles"`

	ID             int       `json:"id" bun:"-"`
	OrganizationID *int      `json:"organization_id" bun:"organization_id"`
	BranchID       *int      `json:"branch_id" bun:"branch_id"`
	PlateNo        *string   `json:"plate_no" bun:"plate_no"`
	OwnerName      *string   `json:"owner_name" bun:"owner_name"`
	VehicleType    *string   `json:"vehicle_type" bun:"vehicle_type"`
	EntryTime      time.Time `json:"entry_time" bun:"entry_time"`
	CreatedAt      time.Time `json:"-" bun:"created_at"`
	CreatedBy      int       `json:"-" bun:"created_by"`
}

package entity

import (
	"github.com/uptrace/bun"
)

type User struct {
	bun.BaseModel `bun:"table:users"`

	BasicEntity
	OrganizationID *int    `json:"organization_id" bun:"organization_id"`
	BranchID       *int    `json:"branch_id" bun:"branch_id"`
	StaffID        *string `json:"staff_id" bun:"staff_id"`
	FullName       *string `json:"full_name" bun:"full_name"`
	Password       *string `json:"password" bun:"password"`
	Role           *string `json:"role" bun:"role"`
	Phone          *string `json:"phone" bun:"phone"`
	Email          *string `json:"email" bun:"email"`
	PhotoUrl       *string `json:"photo_url" bun:"photo_url"`
}

package customer

import (
	"time"

	"github.com/uptrace/bun"
)

type Filter struct {
	Limit          *int
	Offset         *int
	Page           *int
	Search         *string
	OrganizationID *int
}

type GetListResponse struct {
	ID       int     `json:"id"`
	FullName *string `json:"full_name"`
	Phone    *string `json:"phone"`
	Email    *string `json:"email"`
	Notes    *string `json:"notes"`
}

type GetDetailByIdResponse struct {
	ID             int     `json:"id"`
	OrganizationID *int    `json:"organization_id"`
	FullName       *string `json:"full_name"`
	Phone          *string `json:"phone"`
	Email          *string `json:"email"`
	Notes          *string `json:"notes"`
}

type CreateRequest struct {
	OrganizationID *int    `json:"organization_id" form:"organization_id"`
	FullName       *string `json:"full_name" form:"full_name"`
	Phone          *string `json:"phone" form:"phone"`
	Email          *string `json:"email" form:"email"`
	Notes          *string `json:"notes" form:"notes"`
}

type CreateResponse struct {
	bun.BaseModel `bun:"table:customers"`

	ID             int       `json:"id" bun:"-"`
	OrganizationID *int      `json:"organization_id" bun:"organization_id"`
	FullName       *string   `json:"full_name" bun:"full_name"`
	Phone          *string   `json:"phone" bun:"phone"`
	Email          *string   `json:"email" bun:"email"`
	Notes          *string   `json:"notes" bun:"notes"`
	CreatedAt      time.Time `json:"-" bun:"created_at"`
	CreatedBy      int       `json:"-" bun:"created_by"`
}

type UpdateRequest struct {
	ID       int     `json:"id" form:"id"`
	FullName *string `json:"full_name" form:"full_name"`
	Phone    *string `json:"phone" form:"phone"`
	Email    *string `json:"email" form:"email"`
	Notes    *string `json:"notes" form:"notes"`
}

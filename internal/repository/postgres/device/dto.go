package device

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
	Active         *bool
}

type SignInRequest struct {
	Token string `json:"token" form:"token"`
}

type GetListResponse struct {
	ID             int        `json:"id"`
	OrganizationID *int       `json:"organization_id"`
	BranchID       *int       `json:"branch_id"`
	Branch         *string    `json:"branch"`
	Name           *string    `json:"name"`
	Active         *bool      `json:"active"`
	LastSeenAt     *time.Time `json:"last_seen_at,omitempty"`
}

type GetDetailByIdResponse struct {
	ID             int        `json:"id"`
	OrganizationID *int       `json:"organization_id"`
	Organization   *string    `json:"organization"`
	BranchID       *int       `json:"branch_id"`
	Branch         *string    `json:"branch"`
	Name           *string    `json:"name"`
	Active         *bool      `json:"active"`
	LastSeenAt     *time.Time `json:"last_seen_at,omitempty"`
}

type CreateRequest struct {
	OrganizationID *int    `json:"organization_id" form:"organization_id"`
	BranchID       *int    `json:"branch_id" form:"branch_id"`
	Name           *string `json:"name" form:"name"`
}

type CreateResponse struct {
	bun.BaseModel `bun:"table:devices"`

	ID             int       `json:"id" bun:"-"`
	OrganizationID *int      `json:"organization_id" bun:"organization_id"`
	BranchID       *int      `json:"branch_id" bun:"branch_id"`
	Name           *string   `json:"name" bun:"name"`
	Token          string    `json:"token" bun:"token"`
	Active         bool      `json:"active" bun:"active"`
	CreatedAt      time.Time `json:"-" bun:"created_at"`
	CreatedBy      int       `json:"-" bun:"created_by"`
}

type UpdateRequest struct {
	ID       int     `json:"id" form:"id"`
	BranchID *int    `json:"branch_id" form:"branch_id"`
	Name     *string `json:"name" form:"name"`
	Active   *bool   `json:"active" form:"active"`
}

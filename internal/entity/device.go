package entity

import (
	"time"

	"github.com/uptrace/bun"
)

type Device struct {
	bun.BaseModel `bun:"table:devices"`

	BasicEntity
	OrganizationID *int       `json:"organization_id" bun:"organization_id"`
	BranchID       *int       `json:"branch_id" bun:"branch_id"`
	Name           *string    `json:"name" bun:"name"`
	Token          *string    `json:"-" bun:"token"`
	Active         *bool      `json:"active" bun:"active"`
	LastSeenAt     *time.Time `json:"last_seen_at,omitempty" bun:"last_seen_at"`
}

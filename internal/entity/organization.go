package entity

import (
	"github.com/uptrace/bun"
)

type Organization struct {
	bun.BaseModel `bun:"table:organizations"`

	BasicEntity
	Name     *string `json:"name" bun:"name"`
	Timezone *string `json:"timezone" bun:"timezone"`
	Address  *string `json:"address" bun:"address"`
	Phone    *string `json:"phone" bun:"phone"`
	Email    *string `json:"email" bun:"email"`
	LogoUrl  *string `json:"logo_url" bun:"logo_url"`
}

type Branch struct {
	bun.BaseModel `bun:"table:branches"`

	BasicEntity
	OrganizationID *int     `json:"organization_id" bun:"organization_id"`
	Name           *string  `json:"name" bun:"name"`
	Address        *string  `json:"address" bun:"address"`
	Latitude       *float64 `json:"latitude" bun:"latitude"`
	Longitude      *float64 `json:"longitude" bun:"longitude"`
	Radius         *int     `json:"radius" bun:"radius"`
}

package branch

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
	ID             int      `json:"id"`
	OrganizationID *int     `json:"organization_id"`
	Organization   *string  `json:"organization"`
	Name           *string  `json:"name"`
	Address        *string  `json:"address"`
	Latitude       *float64 `json:"latitude"`
	Longitude      *float64 `json:"longitude"`
	Radius         *int     `json:"radius"`
	Devices        int      `json:"devices"`
}

type GetDetailByIdResponse struct {
	ID             int      `json:"id"`
	OrganizationID *int     `json:"organization_id"`
	Organization   *string  `json:"organization"`
	Name           *string  `json:"name"`
	Address        *string  `json:"address"`
	Latitude       *float64 `json:"latitude"`
	Longitude      *float64 `json:"longitude"`
	Radius         *int     `json:"radius"`
}

type CreateRequest struct {
	OrganizationID *int     `json:"organization_id" form:"organization_id"`
	Name           *string  `json:"name" form:"name"`
	Address        *string  `json:"address" form:"address"`
	Latitude       *float64 `json:"latitude" form:"latitude"`
	Longitude      *float64 `json:"longitude" form:"longitude"`
	Radius         *int     `json:"radius" form:"radius"`
}

type CreateResponse struct {
	bun.BaseModel `bun:"table:branches"`

	ID             int       `json:"id" bun:"-"`
	OrganizationID *int      `json:"organization_id" bun:"organization_id"`
	Name           *string   `json:"name" bun:"name"`
	Address        *string   `json:"address" bun:"address"`
	Latitude       *float64  `json:"latitude" bun:"latitude"`
	Longitude      *float64  `json:"longitude" bun:"longitude"`
	Radius         *int      `json:"radius" bun:"radius"`
	CreatedAt      time.Time `json:"-" bun:"created_at"`
	CreatedBy      int       `json:"-" bun:"created_by"`
}

type UpdateRequest struct {
	ID        int      `json:"id" form:"id"`
	Name      *string  `json:"name" form:"name"`
	Address   *string  `json:"address" form:"address"`
	Latitude  *float64 `json:"latitude" form:"latitude"`
	Longitude *float64 `json:"longitude" form:"longitude"`
	Radius    *int     `json:"radius" form:"radius"`
}

package organization

import (
	"time"

	"github.com/uptrace/bun"
)

type Filter struct {
	Limit  *int
	Offset *int
	Page   *int
	Search *string
}

type GetListResponse struct {
	ID       int     `json:"id"`
	Name     *string `json:"name"`
	Timezone *string `json:"timezone"`
	Address  *string `json:"address"`
	Phone    *string `json:"phone"`
	Email    *string `json:"email"`
	LogoUrl  *string `json:"logo_url"`
	Branches int     `json:"branches"`
}

type GetDetailByIdResponse struct {
	ID       int     `json:"id"`
	Name     *string `json:"name"`
	Timezone *string `json:"timezone"`
	Address  *string `json:"address"`
	Phone    *string `json:"phone"`
	Email    *string `json:"email"`
	LogoUrl  *string `json:"logo_url"`
}

type CreateRequest struct {
	Name     *string `json:"name" form:"name"`
	Timezone *string `json:"timezone" form:"timezone"`
	Address  *string `json:"address" form:"address"`
	Phone    *string `json:"phone" form:"phone"`
	Email    *string `json:"email" form:"email"`
	LogoUrl  *string `json:"logo_url" form:"logo_url"`
}

type CreateResponse struct {
	bun.BaseModel `bun:"table:organizations"`

	ID        int       `json:"id" bun:"-"`
	Name      *string   `json:"name" bun:"name"`
	Timezone  *string   `json:"timezone" bun:"timezone"`
	Address   *string   `json:"address" bun:"address"`
	Phone     *string   `json:"phone" bun:"phone"`
	Email     *string   `json:"email" bun:"email"`
	LogoUrl   *string   `json:"logo_url" bun:"logo_url"`
	CreatedAt time.Time `json:"-" bun:"created_at"`
	CreatedBy int       `json:"-" bun:"created_by"`
}

type UpdateRequest struct {
	ID       int     `json:"id" form:"id"`
	Name     *string `json:"name" form:"name"`
	Timezone *string `json:"timezone" form:"timezone"`
	Address  *string `json:"address" form:"address"`
	Phone    *string `json:"phone" form:"phone"`
	Email    *string `json:"email" form:"email"`
	LogoUrl  *string `json:"logo_url" form:"logo_url"`
}

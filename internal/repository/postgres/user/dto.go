package user

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
	Role           *string
	OrganizationID *int
}

type SignInRequest struct {
	StaffID  string `json:"staff_id" form:"staff_id"`
	Password string `json:"password" form:"password"`
}

type RefreshTokenRequest struct {
	AccessToken  string `json:"access_token" form:"access_token"`
	RefreshToken string `json:"refresh_token" form:"refresh_token"`
}

type GetListResponse struct {
	ID             int     `json:"id"`
	StaffID        *string `json:"staff_id"`
	FullName       *string `json:"full_name"`
	Role           *string `json:"role"`
	OrganizationID *int    `json:"organization_id"`
	BranchID       *int    `json:"branch_id"`
	Branch         *string `json:"branch"`
	Phone          *string `json:"phone"`
	Email          *string `json:"email"`
	PhotoUrl       *string `json:"photo_url"`
}

type GetDetailByIdResponse struct {
	ID             int     `json:"id"`
	StaffID        *string `json:"staff_id"`
	FullName       *string `json:"full_name"`
	Role           *string `json:"role"`
	OrganizationID *int    `json:"organization_id"`
	Organization   *string `json:"organization"`
	BranchID       *int    `json:"branch_id"`
	Branch         *string `json:"branch"`
	Phone          *string `json:"phone"`
	Email          *string `json:"email"`
	PhotoUrl       *string `json:"photo_url"`
	FaceEnrolled   bool    `json:"face_enrolled"`
}

type CreateRequest struct {
	StaffID        *string `json:"staff_id" form:"staff_id"`
	Password       *string `json:"password" form:"password"`
	Role           *string `json:"role" form:"role"`
	FullName       *string `json:"full_name" form:"full_name"`
	OrganizationID *int    `json:"organization_id" form:"organization_id"`
	BranchID       *int    `json:"branch_id" form:"branch_id"`
	Phone          *string `json:"phone" form:"phone"`
	Email          *string `json:"email" form:"email"`
	PhotoUrl       *string `json:"photo_url" form:"photo_url"`
}

type CreateResponse struct {
	bun.BaseModel `bun:"table:users"`

	ID             int       `json:"id" bun:"-"`
	StaffID        *string   `json:"staff_id" bun:"staff_id"`
	Password       *string   `json:"-" bun:"password"`
	Role           *string   `json:"role" bun:"role"`
	FullName       *string   `json:"full_name" bun:"full_name"`
	OrganizationID *int      `json:"organization_id" bun:"organization_id"`
	BranchID       *int      `json:"branch_id" bun:"branch_id"`
	Phone          *string   `json:"phone" bun:"phone"`
	Email          *string   `json:"email" bun:"email"`
	PhotoUrl       *string   `json:"photo_url" bun:"photo_url"`
	CreatedAt      time.Time `json:"-" bun:"created_at"`
	CreatedBy      int       `json:"-" bun:"created_by"`
}

type UpdateRequest struct {
	ID       int     `json:"id" form:"id"`
	StaffID  *string `json:"staff_id" form:"staff_id"`
	Password *string `json:"password" form:"password"`
	Role     *string `json:"role" form:"role"`
	FullName *string `json:"full_name" form:"full_name"`
	BranchID *int    `json:"branch_id" form:"branch_id"`
	Phone    *string `json:"phone" form:"phone"`
	Email    *string `json:"email" form:"email"`
	PhotoUrl *string `json:"photo_url" form:"photo_url"`
}

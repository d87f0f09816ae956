package user

import "mime/multipart"

type EnrollFaceRequest struct {
	OrganizationID *int                  `json:"organization_id" form:"organization_id"`
	Photo          *multipart.FileHeader `json:"-" form:"photo"`
}

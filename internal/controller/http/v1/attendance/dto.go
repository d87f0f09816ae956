package attendance

import "mime/multipart"

type MarkByFaceRequest struct {
	BranchID *int                  `json:"branch_id" form:"branch_id"`
	Photo    *multipart.FileHeader `json:"-" form:"photo"`
}

type ManualClockInRequest struct {
	UserID   *int `json:"user_id" form:"user_id"`
	BranchID *int `json:"branch_id" form:"branch_id"`
}

type SetOnlineRequest struct {
	Online *bool `json:"online" form:"online"`
}

package user

import (
	"context"

	"presence/backend/internal/repository/postgres/faceembedding"
	"presence/backend/internal/repository/postgres/user"
	"presence/backend/internal/syncqueue"
	"presence/backend/internal/vision"
)

type User interface {
	GetList(ctx context.Context, filter user.Filter) ([]user.GetListResponse, int, error)
	GetDetailById(ctx context.Context, id int) (user.GetDetailByIdResponse, error)
	Create(ctx context.Context, request user.CreateRequest) (user.CreateResponse, error)
	UpdateColumns(ctx context.Context, request user.UpdateRequest) error
	Delete(ctx context.Context, id int) error
}

type FaceEmbedding interface {
	Enroll(ctx context.Context, request faceembedding.EnrollRequest) (faceembedding.EnrollResponse, error)
	GetList(ctx context.Context, filter faceembedding.Filter) ([]faceembedding.GetListResponse, int, error)
	Delete(ctx context.Context, id int) error
}

type Extractor interface {
	Extract(ctx context.Context, image []byte) (vision.Extraction, error)
}

type Queue interface {
	EnqueueEmbedding(ctx context.Context, p *syncqueue.PendingEmbedding) error
}

package leave

import (
	"context"

	"presence/backend/internal/repository/postgres/leave"
)

type Leave interface {
	GetList(ctx context.Context, filter leave.Filter) ([]leave.GetListResponse, int, error)
	Create(ctx context.Context, request leave.CreateRequest) (leave.CreateResponse, error)
	Review(ctx context.Context, request leave.ReviewRequest) error
	Delete(ctx context.Context, id int) error
}

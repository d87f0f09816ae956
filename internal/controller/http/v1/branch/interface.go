package branch

import (
	"context"

	"presence/backend/internal/repository/postgres/branch"
)

type Branch interface {
	GetList(ctx context.Context, filter branch.Filter) ([]branch.GetListResponse, int, error)
	GetDetailById(ctx context.Context, id int) (branch.GetDetailByIdResponse, error)
	Create(ctx context.Context, request branch.CreateRequest) (branch.CreateResponse, error)
	UpdateColumns(ctx context.Context, request branch.UpdateRequest) error
	Delete(ctx context.Context, id int) error
}

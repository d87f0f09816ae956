package visitor

import (
	"context"

	"presence/backend/internal/repository/postgres/visitor"
)

type Visitor interface {
	GetList(ctx context.Context, filter visitor.Filter) ([]visitor.GetListResponse, int, error)
	GetDetailById(ctx context.Context, id int) (visitor.GetDetailByIdResponse, error)
	CheckIn(ctx context.Context, request visitor.CheckInRequest) (visitor.CheckInResponse, error)
	CheckOut(ctx context.Context, id int) error
	Delete(ctx context.Context, id int) error
}

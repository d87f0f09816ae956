package organization

import (
	"context"

	"presence/backend/internal/repository/postgres/organization"
)

type Organization interface {
	GetList(ctx context.Context, filter organization.Filter) ([]organization.GetListResponse, int, error)
	GetDetailById(ctx context.Context, id int) (organization.GetDetailByIdResponse, error)
	Create(ctx context.Context, request organization.CreateRequest) (organization.CreateResponse, error)
	UpdateColumns(ctx context.Context, request organization.UpdateRequest) error
	Delete(ctx context.Context, id int) error
}

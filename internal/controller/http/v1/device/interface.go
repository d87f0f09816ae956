package device

import (
	"context"

	"presence/backend/internal/repository/postgres/device"
)

type Device interface {
	GetList(ctx context.Context, filter device.Filter) ([]device.GetListResponse, int, error)
	GetDetailById(ctx context.Context, id int) (device.GetDetailByIdResponse, error)
	Create(ctx context.Context, request device.CreateRequest) (device.CreateResponse, error)
	Heartbeat(ctx context.Context) error
	UpdateColumns(ctx context.Context, request device.UpdateRequest) error
	Delete(ctx context.Context, id int) error
}

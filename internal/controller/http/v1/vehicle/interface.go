package vehicle

import (
	"context"

	"presence/backend/internal/repository/postgres/vehicle"
)

type Vehicle interface {
	GetList(ctx context.Context, filter vehicle.Filter) ([]vehicle.GetListResponse, int, error)
	Entry(ctx context.Context, request vehicle.EntryRequest) (vehicle.EntryResponse, error)
	Exit(ctx context.Context, id int) error
	Delete(ctx context.Context, id int) error
}

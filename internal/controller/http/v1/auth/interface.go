package auth

import (
	"context"

	"presence/backend/internal/entity"
)

type User interface {
	GetByStaffID(ctx context.Context, staffID string) (entity.User, error)
}

type Device interface {
	GetByToken(ctx context.Context, token string) (entity.Device, error)
}

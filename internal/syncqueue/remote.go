package syncqueue

import (
	"context"
	"time"

	"presence/backend/internal/entity"
	"presence/backend/internal/repository/postgres/attendance"
	"presence/backend/internal/repository/postgres/faceembedding"

	"github.com/pkg/errors"
)

// RemoteDeliverer flushes pending entries into the postgres repositories.
type RemoteDeliverer struct {
	attendance *attendance.Repository
	embeddings *faceembedding.Repository
}

func NewRemoteDeliverer(att *attendance.Repository, emb *faceembedding.Repository) *RemoteDeliverer {
	return &RemoteDeliverer{attendance: att, embeddings: emb}
}

func (d *RemoteDeliverer) DeliverAttendance(ctx context.Context, p PendingAttendance) error {
	clockIn, err := time.Parse(time.RFC3339, p.ClockIn)
	if err != nil {
		return errors.Wrap(err, "parsing queued clock in")
	}

	confidence := p.Confidence
	method := entity.VerificationFace

	return d.attendance.Deliver(ctx, attendance.ClockInRequest{
		UserID:             p.UserID,
		DeviceID:           p.DeviceID,
		OrganizationID:     p.OrganizationID,
		BranchID:           p.BranchID,
		ClockIn:            clockIn,
		ConfidenceScore:    &confidence,
		VerificationMethod: method,
		PhotoUrl:           p.PhotoUrl,
	})
}

func (d *RemoteDeliverer) DeliverEmbedding(ctx context.Context, p PendingEmbedding) error {
	return d.embeddings.SaveFromQueue(ctx, p.UserID, p.OrganizationID, p.Descriptor, p.Quality)
}

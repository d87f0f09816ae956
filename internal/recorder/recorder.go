// Package recorder drives a single face-based attendance attempt through
// extraction, remote matching, duplicate checking and the final commit,
// falling back to the local queue when the store is unreachable.
package recorder

import (
	"context"
	"log"
	"time"

	"github.com/pkg/errors"

	"presence/backend/internal/entity"
	"presence/backend/internal/repository/postgres"
	"presence/backend/internal/repository/postgres/attendance"
	"presence/backend/internal/repository/postgres/faceembedding"
	"presence/backend/internal/syncqueue"
	"presence/backend/internal/vision"
)

type State string

const (
	StateCapturing      State = "capturing"
	StateExtracting     State = "extracting"
	StateMatching       State = "matching"
	StateDuplicateCheck State = "duplicate_check"
	StateCommitting     State = "committing"
	StateCommitted      State = "committed"
	StateQueued         State = "queued"
	StateRejected       State = "rejected"
)

type Reason string

const (
	ReasonNoFaceDetected Reason = "no_face_detected"
	ReasonMultipleFaces  Reason = "multiple_faces"
	ReasonLowQuality     Reason = "low_quality"
	ReasonNoMatchFound   Reason = "no_match_found"
	ReasonAlreadyMarked  Reason = "already_marked"
)

type Extractor interface {
	Extract(ctx context.Context, image []byte) (vision.Extraction, error)
}

type Matcher interface {
	Match(ctx context.Context, embedding []float32, organizationID int, threshold float64) ([]faceembedding.MatchCandidate, error)
}

type EventStore interface {
	ExistsForDay(ctx context.Context, userID, branchID int, workDay string) (bool, error)
	CreateClockIn(ctx context.Context, request attendance.ClockInRequest) (attendance.ClockInResponse, error)
}

type Queue interface {
	EnqueueAttendance(ctx context.Context, p *syncqueue.PendingAttendance) error
}

// Attempt is one captured frame from a device.
type Attempt struct {
	Image          []byte
	DeviceID       int
	OrganizationID int
	BranchID       int
	PhotoUrl       *string
	CreatedBy      int
}

// Result is the terminal outcome of an attempt. State is one of
// StateCommitted, StateQueued or StateRejected; Reason is set only for
// rejections.
type Result struct {
	State      State                         `json:"state"`
	Reason     Reason                        `json:"reason,omitempty"`
	Matched    *faceembedding.MatchCandidate `json:"matched,omitempty"`
	Confidence float64                       `json:"confidence,omitempty"`
	EventID    int                           `json:"event_id,omitempty"`
	LocalID    string                        `json:"local_id,omitempty"`
}

type Recorder struct {
	extractor Extractor
	matcher   Matcher
	events    EventStore
	queue     Queue
	threshold float64

	now func() time.Time
}

func New(extractor Extractor, matcher Matcher, events EventStore, queue Queue, threshold float64) *Recorder {
	return &Recorder{
		extractor: extractor,
		matcher:   matcher,
		events:    events,
		queue:     queue,
		threshold: threshold,
		now:       time.Now,
	}
}

// Mark runs one attempt to completion. Bad frames (no face, several faces,
// low quality) and unknown faces come back as a rejection Result with a nil
// error; only transport failures that leave the attempt undecided return an
// error.
func (rec *Recorder) Mark(ctx context.Context, attempt Attempt) (Result, error) {
	extraction, err := rec.extractor.Extract(ctx, attempt.Image)
	if err != nil {
		if reason, ok := rejectionReason(err); ok {
			return Result{State: StateRejected, Reason: reason}, nil
		}
		return Result{State: StateExtracting}, errors.Wrap(err, "extracting face")
	}

	candidates, err := rec.matcher.Match(ctx, extraction.Embedding, attempt.OrganizationID, rec.threshold)
	if err != nil {
		return Result{State: StateMatching}, errors.Wrap(err, "matching face")
	}
	if len(candidates) == 0 {
		return Result{State: StateRejected, Reason: ReasonNoMatchFound}, nil
	}
	best := candidates[0]

	clockIn := rec.now()
	workDay := clockIn.Format("2006-01-02")

	exists, err := rec.events.ExistsForDay(ctx, best.UserID, attempt.BranchID, workDay)
	if err != nil {
		// The store is unreachable; the queue keeps the attempt. Replay
		// dedupes on delivery, so a duplicate queued here is harmless.
		log.Printf("recorder: duplicate check failed, queueing: %v", err)
		return rec.enqueue(ctx, attempt, best, clockIn)
	}
	if exists {
		return Result{State: StateRejected, Reason: ReasonAlreadyMarked, Matched: &best, Confidence: best.Similarity}, nil
	}

	confidence := best.Similarity
	response, err := rec.events.CreateClockIn(ctx, attendance.ClockInRequest{
		UserID:             best.UserID,
		DeviceID:           attempt.DeviceID,
		OrganizationID:     attempt.OrganizationID,
		BranchID:           attempt.BranchID,
		ClockIn:            clockIn,
		ConfidenceScore:    &confidence,
		VerificationMethod: entity.VerificationFace,
		PhotoUrl:           attempt.PhotoUrl,
		CreatedBy:          attempt.CreatedBy,
	})
	if errors.Is(err, postgres.ErrAlreadyExists) {
		// Another device won the race between the check and the insert.
		return Result{State: StateRejected, Reason: ReasonAlreadyMarked, Matched: &best, Confidence: best.Similarity}, nil
	}
	if err != nil {
		log.Printf("recorder: clock-in insert failed, queueing: %v", err)
		return rec.enqueue(ctx, attempt, best, clockIn)
	}

	return Result{
		State:      StateCommitted,
		Matched:    &best,
		Confidence: best.Similarity,
		EventID:    response.ID,
	}, nil
}

func (rec *Recorder) enqueue(ctx context.Context, attempt Attempt, best faceembedding.MatchCandidate, clockIn time.Time) (Result, error) {
	pending := syncqueue.PendingAttendance{
		UserID:         best.UserID,
		DeviceID:       attempt.DeviceID,
		OrganizationID: attempt.OrganizationID,
		BranchID:       attempt.BranchID,
		ClockIn:        clockIn.Format(time.RFC3339),
		Confidence:     best.Similarity,
		PhotoUrl:       attempt.PhotoUrl,
	}
	if err := rec.queue.EnqueueAttendance(ctx, &pending); err != nil {
		return Result{State: StateCommitting}, errors.Wrap(err, "queueing attendance")
	}

	return Result{
		State:      StateQueued,
		Matched:    &best,
		Confidence: best.Similarity,
		LocalID:    pending.LocalID,
	}, nil
}

func rejectionReason(err error) (Reason, bool) {
	switch {
	case errors.Is(err, vision.ErrNoFaceDetected):
		return ReasonNoFaceDetected, true
	case errors.Is(err, vision.ErrMultipleFacesDetected):
		return ReasonMultipleFaces, true
	case errors.Is(err, vision.ErrLowQuality):
		return ReasonLowQuality, true
	}
	return "", false
}

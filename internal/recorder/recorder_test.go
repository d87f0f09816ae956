package recorder

import (
	"context"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"

	"presence/backend/internal/repository/postgres"
	"presence/backend/internal/repository/postgres/attendance"
	"presence/backend/internal/repository/postgres/faceembedding"
	"presence/backend/internal/syncqueue"
	"presence/backend/internal/vision"
)

type fakeExtractor struct {
	extraction vision.Extraction
	err        error
}

func (f *fakeExtractor) Extract(ctx context.Context, image []byte) (vision.Extraction, error) {
	return f.extraction, f.err
}

type fakeMatcher struct {
	candidates []faceembedding.MatchCandidate
	err        error
}

func (f *fakeMatcher) Match(ctx context.Context, embedding []float32, organizationID int, threshold float64) ([]faceembedding.MatchCandidate, error) {
	return f.candidates, f.err
}

type fakeEvents struct {
	exists    bool
	existsErr error
	insertErr error

	created []attendance.ClockInRequest
}

func (f *fakeEvents) ExistsForDay(ctx context.Context, userID, branchID int, workDay string) (bool, error) {
	return f.exists, f.existsErr
}

func (f *fakeEvents) CreateClockIn(ctx context.Context, request attendance.ClockInRequest) (attendance.ClockInResponse, error) {
	if f.insertErr != nil {
		return attendance.ClockInResponse{}, f.insertErr
	}
	f.created = append(f.created, request)
	return attendance.ClockInResponse{ID: 42, UserID: request.UserID}, nil
}

type fakeQueue struct {
	queued []syncqueue.PendingAttendance
	err    error
}

func (f *fakeQueue) EnqueueAttendance(ctx context.Context, p *syncqueue.PendingAttendance) error {
	if f.err != nil {
		return f.err
	}
	p.LocalID = "local-1"
	f.queued = append(f.queued, *p)
	return nil
}

func goodExtraction() vision.Extraction {
	return vision.Extraction{
		Embedding: make([]float32, 128),
		Quality:   82.5,
	}
}

func candidate(userID int, similarity float64) faceembedding.MatchCandidate {
	return faceembedding.MatchCandidate{UserID: userID, Similarity: similarity}
}

func testAttempt() Attempt {
	return Attempt{
		Image:          []byte("jpeg"),
		DeviceID:       7,
		OrganizationID: 1,
		BranchID:       3,
	}
}

func TestMarkCommitted(t *testing.T) {
	events := &fakeEvents{}
	queue := &fakeQueue{}
	rec := New(
		&fakeExtractor{extraction: goodExtraction()},
		&fakeMatcher{candidates: []faceembedding.MatchCandidate{candidate(11, 0.91), candidate(12, 0.72)}},
		events, queue, 0.65,
	)
	rec.now = func() time.Time { return time.Date(2026, 3, 9, 8, 30, 0, 0, time.UTC) }

	result, err := rec.Mark(context.Background(), testAttempt())
	require.NoError(t, err)
	require.Equal(t, StateCommitted, result.State)
	require.Equal(t, 42, result.EventID)
	require.Equal(t, 11, result.Matched.UserID)
	require.InDelta(t, 0.91, result.Confidence, 1e-9)

	require.Len(t, events.created, 1)
	require.Equal(t, 11, events.created[0].UserID)
	require.Equal(t, time.Date(2026, 3, 9, 8, 30, 0, 0, time.UTC), events.created[0].ClockIn)
	require.Empty(t, queue.queued)
}

func TestMarkRejections(t *testing.T) {
	cases := []struct {
		name       string
		extractErr error
		candidates []faceembedding.MatchCandidate
		reason     Reason
	}{
		{"no face", vision.ErrNoFaceDetected, nil, ReasonNoFaceDetected},
		{"multiple faces", vision.ErrMultipleFacesDetected, nil, ReasonMultipleFaces},
		{"low quality", errors.Wrap(vision.ErrLowQuality, "quality 31.2 below 50.0"), nil, ReasonLowQuality},
		{"no match", nil, []faceembedding.MatchCandidate{}, ReasonNoMatchFound},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			events := &fakeEvents{}
			queue := &fakeQueue{}
			rec := New(
				&fakeExtractor{extraction: goodExtraction(), err: tc.extractErr},
				&fakeMatcher{candidates: tc.candidates},
				events, queue, 0.65,
			)

			result, err := rec.Mark(context.Background(), testAttempt())
			require.NoError(t, err)
			require.Equal(t, StateRejected, result.State)
			require.Equal(t, tc.reason, result.Reason)
			require.Empty(t, events.created)
			require.Empty(t, queue.queued)
		})
	}
}

func TestMarkAlreadyMarked(t *testing.T) {
	events := &fakeEvents{exists: true}
	rec := New(
		&fakeExtractor{extraction: goodExtraction()},
		&fakeMatcher{candidates: []faceembedding.MatchCandidate{candidate(11, 0.88)}},
		events, &fakeQueue{}, 0.65,
	)

	result, err := rec.Mark(context.Background(), testAttempt())
	require.NoError(t, err)
	require.Equal(t, StateRejected, result.State)
	require.Equal(t, ReasonAlreadyMarked, result.Reason)
	require.Equal(t, 11, result.Matched.UserID)
	require.Empty(t, events.created)
}

func TestMarkAlreadyMarkedOnInsertRace(t *testing.T) {
	// The pre-check misses a concurrent insert; the unique index catches it.
	events := &fakeEvents{insertErr: postgres.ErrAlreadyExists}
	queue := &fakeQueue{}
	rec := New(
		&fakeExtractor{extraction: goodExtraction()},
		&fakeMatcher{candidates: []faceembedding.MatchCandidate{candidate(11, 0.88)}},
		events, queue, 0.65,
	)

	result, err := rec.Mark(context.Background(), testAttempt())
	require.NoError(t, err)
	require.Equal(t, StateRejected, result.State)
	require.Equal(t, ReasonAlreadyMarked, result.Reason)
	require.Empty(t, queue.queued)
}

func TestMarkQueuedWhenInsertFails(t *testing.T) {
	events := &fakeEvents{insertErr: errors.New("connection refused")}
	queue := &fakeQueue{}
	rec := New(
		&fakeExtractor{extraction: goodExtraction()},
		&fakeMatcher{candidates: []faceembedding.MatchCandidate{candidate(11, 0.79)}},
		events, queue, 0.65,
	)
	rec.now = func() time.Time { return time.Date(2026, 3, 9, 8, 30, 0, 0, time.UTC) }

	result, err := rec.Mark(context.Background(), testAttempt())
	require.NoError(t, err)
	require.Equal(t, StateQueued, result.State)
	require.Equal(t, "local-1", result.LocalID)
	require.Equal(t, 11, result.Matched.UserID)

	require.Len(t, queue.queued, 1)
	require.Equal(t, 11, queue.queued[0].UserID)
	require.Equal(t, "2026-03-09T08:30:00Z", queue.queued[0].ClockIn)
	require.InDelta(t, 0.79, queue.queued[0].Confidence, 1e-9)
}

func TestMarkQueuedWhenDuplicateCheckFails(t *testing.T) {
	events := &fakeEvents{existsErr: errors.New("connection refused")}
	queue := &fakeQueue{}
	rec := New(
		&fakeExtractor{extraction: goodExtraction()},
		&fakeMatcher{candidates: []faceembedding.MatchCandidate{candidate(11, 0.79)}},
		events, queue, 0.65,
	)

	result, err := rec.Mark(context.Background(), testAttempt())
	require.NoError(t, err)
	require.Equal(t, StateQueued, result.State)
	require.Len(t, queue.queued, 1)
	require.Empty(t, events.created)
}

func TestMarkErrorsAreTerminal(t *testing.T) {
	t.Run("extractor transport", func(t *testing.T) {
		rec := New(
			&fakeExtractor{err: errors.Wrap(vision.ErrDetector, "status 502")},
			&fakeMatcher{}, &fakeEvents{}, &fakeQueue{}, 0.65,
		)
		_, err := rec.Mark(context.Background(), testAttempt())
		require.Error(t, err)
		require.ErrorIs(t, err, vision.ErrDetector)
	})

	t.Run("matcher transport", func(t *testing.T) {
		rec := New(
			&fakeExtractor{extraction: goodExtraction()},
			&fakeMatcher{err: errors.Wrap(faceembedding.ErrRemoteMatch, "dial tcp")},
			&fakeEvents{}, &fakeQueue{}, 0.65,
		)
		_, err := rec.Mark(context.Background(), testAttempt())
		require.Error(t, err)
		require.ErrorIs(t, err, faceembedding.ErrRemoteMatch)
	})

	t.Run("queue write fails too", func(t *testing.T) {
		rec := New(
			&fakeExtractor{extraction: goodExtraction()},
			&fakeMatcher{candidates: []faceembedding.MatchCandidate{candidate(11, 0.79)}},
			&fakeEvents{insertErr: errors.New("connection refused")},
			&fakeQueue{err: errors.New("disk full")}, 0.65,
		)
		_, err := rec.Mark(context.Background(), testAttempt())
		require.Error(t, err)
	})
}

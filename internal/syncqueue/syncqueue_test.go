package syncqueue

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

type fakeDeliverer struct {
	mu sync.Mutex

	attendance []PendingAttendance
	embeddings []PendingEmbedding

	failAttendance map[string]bool
	failEmbeddings map[int]bool

	// When set, DeliverAttendance blocks until the channel is closed.
	block chan struct{}
}

func newFakeDeliverer() *fakeDeliverer {
	return &fakeDeliverer{
		failAttendance: map[string]bool{},
		failEmbeddings: map[int]bool{},
	}
}

func (f *fakeDeliverer) DeliverAttendance(ctx context.Context, p PendingAttendance) error {
	if f.block != nil {
		<-f.block
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if f.failAttendance[p.LocalID] {
		return errors.New("remote write failed")
	}
	f.attendance = append(f.attendance, p)
	return nil
}

func (f *fakeDeliverer) DeliverEmbedding(ctx context.Context, p PendingEmbedding) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.failEmbeddings[p.UserID] {
		return errors.New("remote write failed")
	}
	f.embeddings = append(f.embeddings, p)
	return nil
}

func (f *fakeDeliverer) attendanceCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.attendance)
}

func openTestStore(t *testing.T) *Store {
	t.Helper()

	store, err := Open(filepath.Join(t.TempDir(), "pending.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func pendingRecord(userID int) *PendingAttendance {
	return &PendingAttendance{
		UserID:         userID,
		DeviceID:       7,
		OrganizationID: 1,
		BranchID:       2,
		ClockIn:        time.Now().UTC().Format(time.RFC3339),
		Confidence:     0.81,
	}
}

func TestEnqueueAssignsLocalID(t *testing.T) {
	store := openTestStore(t)
	q := New(store, newFakeDeliverer(), time.Minute)

	p := pendingRecord(1)
	require.NoError(t, q.EnqueueAttendance(context.Background(), p))
	require.NotEmpty(t, p.LocalID)

	list, err := store.ListAttendance(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, p.LocalID, list[0].LocalID)
}

func TestQueueSurvivesReopen(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "pending.db")

	store, err := Open(path)
	require.NoError(t, err)

	p := pendingRecord(1)
	require.NoError(t, store.InsertAttendance(context.Background(), p))
	require.NoError(t, store.Close())

	// Simulated process restart: a fresh store over the same file sees the
	// same pending list and the next sync delivers it.
	store, err = Open(path)
	require.NoError(t, err)
	defer store.Close()

	list, err := store.ListAttendance(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, p.LocalID, list[0].LocalID)

	deliverer := newFakeDeliverer()
	q := New(store, deliverer, time.Minute)

	report := q.SyncAttendance(context.Background())
	require.Equal(t, 1, report.Synced)
	require.Equal(t, 1, deliverer.attendanceCount())

	list, err = store.ListAttendance(context.Background())
	require.NoError(t, err)
	require.Empty(t, list)
}

func TestSyncPartialFailure(t *testing.T) {
	store := openTestStore(t)
	deliverer := newFakeDeliverer()
	q := New(store, deliverer, time.Minute)

	var records []*PendingAttendance
	for i := 1; i <= 5; i++ {
		p := pendingRecord(i)
		require.NoError(t, q.EnqueueAttendance(context.Background(), p))
		records = append(records, p)
	}
	deliverer.failAttendance[records[2].LocalID] = true

	report := q.SyncAttendance(context.Background())
	require.Equal(t, 4, report.Synced)
	require.Equal(t, 1, report.Failed)
	require.Len(t, report.Errors, 1)
	require.Equal(t, records[2].LocalID, report.Errors[0].Key)

	// Exactly the failed record is still queued.
	list, err := store.ListAttendance(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, records[2].LocalID, list[0].LocalID)

	// The next run delivers it once the remote recovers.
	deliverer.failAttendance = map[string]bool{}
	report = q.SyncAttendance(context.Background())
	require.Equal(t, 1, report.Synced)

	list, err = store.ListAttendance(context.Background())
	require.NoError(t, err)
	require.Empty(t, list)
}

func TestSyncCoalescing(t *testing.T) {
	store := openTestStore(t)
	deliverer := newFakeDeliverer()
	deliverer.block = make(chan struct{})
	q := New(store, deliverer, time.Minute)

	require.NoError(t, q.EnqueueAttendance(context.Background(), pendingRecord(1)))

	done := make(chan SyncReport, 1)
	go func() {
		done <- q.SyncAttendance(context.Background())
	}()

	// Wait until the first sync holds the busy flag.
	require.Eventually(t, func() bool { return q.busy.Load() }, time.Second, time.Millisecond)

	second := q.SyncAttendance(context.Background())
	require.True(t, second.Skipped)
	require.Zero(t, second.Synced)

	close(deliverer.block)
	first := <-done
	require.Equal(t, 1, first.Synced)
}

func TestEmbeddingLastWriteWins(t *testing.T) {
	store := openTestStore(t)
	q := New(store, newFakeDeliverer(), time.Minute)
	ctx := context.Background()

	older := time.Now().Add(-time.Hour)
	newer := time.Now()

	require.NoError(t, q.EnqueueEmbedding(ctx, &PendingEmbedding{
		UserID: 1, OrganizationID: 1, Descriptor: Descriptor{0.1, 0.2}, CapturedAt: older,
	}))
	require.NoError(t, q.EnqueueEmbedding(ctx, &PendingEmbedding{
		UserID: 1, OrganizationID: 1, Descriptor: Descriptor{0.3, 0.4}, CapturedAt: newer,
	}))

	list, err := store.ListEmbeddings(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, Descriptor{0.3, 0.4}, list[0].Descriptor)

	// A stale update arriving after the newer one must not clobber it.
	require.NoError(t, q.EnqueueEmbedding(ctx, &PendingEmbedding{
		UserID: 1, OrganizationID: 1, Descriptor: Descriptor{0.5, 0.6}, CapturedAt: older,
	}))

	list, err = store.ListEmbeddings(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, Descriptor{0.3, 0.4}, list[0].Descriptor)
}

func TestSyncEmbeddings(t *testing.T) {
	store := openTestStore(t)
	deliverer := newFakeDeliverer()
	q := New(store, deliverer, time.Minute)
	ctx := context.Background()

	require.NoError(t, q.EnqueueEmbedding(ctx, &PendingEmbedding{
		UserID: 1, OrganizationID: 1, Descriptor: Descriptor{0.1}, CapturedAt: time.Now(),
	}))
	require.NoError(t, q.EnqueueEmbedding(ctx, &PendingEmbedding{
		UserID: 2, OrganizationID: 1, Descriptor: Descriptor{0.2}, CapturedAt: time.Now(),
	}))
	deliverer.failEmbeddings[2] = true

	report := q.SyncEmbeddings(ctx)
	require.Equal(t, 1, report.Synced)
	require.Equal(t, 1, report.Failed)

	list, err := store.ListEmbeddings(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, 2, list[0].UserID)
}

func TestOnlineTransitionTriggersSync(t *testing.T) {
	store := openTestStore(t)
	deliverer := newFakeDeliverer()
	q := New(store, deliverer, time.Minute)

	q.SetOnline(false)
	require.NoError(t, q.EnqueueAttendance(context.Background(), pendingRecord(1)))

	q.SetOnline(true)

	require.Eventually(t, func() bool {
		return deliverer.attendanceCount() == 1
	}, 2*time.Second, 10*time.Millisecond)

	// Already online: no second sync fires.
	q.SetOnline(true)
	time.Sleep(50 * time.Millisecond)
	require.Equal(t, 1, deliverer.attendanceCount())
}

func TestPendingCounts(t *testing.T) {
	store := openTestStore(t)
	q := New(store, newFakeDeliverer(), time.Minute)
	ctx := context.Background()

	require.NoError(t, q.EnqueueAttendance(ctx, pendingRecord(1)))
	require.NoError(t, q.EnqueueAttendance(ctx, pendingRecord(2)))
	require.NoError(t, q.EnqueueEmbedding(ctx, &PendingEmbedding{
		UserID: 3, OrganizationID: 1, Descriptor: Descriptor{0.1}, CapturedAt: time.Now(),
	}))

	att, emb, err := q.Pending(ctx)
	require.NoError(t, err)
	require.Equal(t, 2, att)
	require.Equal(t, 1, emb)
}

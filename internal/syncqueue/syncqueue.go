package syncqueue

import (
	"context"
	"log"
	"strconv"
	"sync"
	"sync/atomic"
	"time"
)

// Deliverer pushes one pending entry to the remote store. Implementations
// must be safe for repeated delivery of the same entry; the queue is
// at-least-once.
type Deliverer interface {
	DeliverAttendance(ctx context.Context, p PendingAttendance) error
	DeliverEmbedding(ctx context.Context, p PendingEmbedding) error
}

// EntryError reports one entry that failed to deliver during a sync run.
type EntryError struct {
	Kind    string `json:"kind"` // "attendance" or "embedding"
	Key     string `json:"key"`  // local id or user id
	Message string `json:"message"`
}

// SyncReport summarises one sync run. Partial failure is expected: one bad
// record must not block the rest.
type SyncReport struct {
	Synced  int          `json:"synced"`
	Failed  int          `json:"failed"`
	Skipped bool         `json:"skipped"` // another sync was already running
	Errors  []EntryError `json:"errors,omitempty"`
}

// Queue drains the durable store towards the remote deliverer. One sync runs
// at a time; a request arriving while one is in flight is a no-op.
type Queue struct {
	store     *Store
	deliverer Deliverer
	interval  time.Duration

	busy   atomic.Bool
	online atomic.Bool

	stopOnce sync.Once
	stop     chan struct{}
	wg       sync.WaitGroup
}

// startupDelay is how long after Start the first sync attempt runs.
const startupDelay = 5 * time.Second

func New(store *Store, deliverer Deliverer, interval time.Duration) *Queue {
	q := &Queue{
		store:     store,
		deliverer: deliverer,
		interval:  interval,
		stop:      make(chan struct{}),
	}
	q.online.Store(true)
	return q
}

// EnqueueAttendance stores an attendance event for later delivery. The
// record must not be lost: callers treat a successful enqueue as a soft
// success.
func (q *Queue) EnqueueAttendance(ctx context.Context, p *PendingAttendance) error {
	return q.store.InsertAttendance(ctx, p)
}

// EnqueueEmbedding stores a face embedding update for later delivery,
// last-write-wins per user.
func (q *Queue) EnqueueEmbedding(ctx context.Context, p *PendingEmbedding) error {
	return q.store.UpsertEmbedding(ctx, p)
}

// Pending reports the queued entry counts.
func (q *Queue) Pending(ctx context.Context) (attendance int, embeddings int, err error) {
	return q.store.Counts(ctx)
}

// SetOnline records the connectivity state. An offline-to-online transition
// triggers an immediate sync.
func (q *Queue) SetOnline(online bool) {
	was := q.online.Swap(online)
	if online && !was {
		q.wg.Add(1)
		go func() {
			defer q.wg.Done()
			q.PerformFullSync(context.Background())
		}()
	}
}

// Online reports the last recorded connectivity state.
func (q *Queue) Online() bool {
	return q.online.Load()
}

// SyncAttendance attempts delivery of every pending attendance record
// independently. Successes are deleted; failures stay queued for the next
// trigger.
func (q *Queue) SyncAttendance(ctx context.Context) SyncReport {
	if !q.busy.CompareAndSwap(false, true) {
		return SyncReport{Skipped: true}
	}
	defer q.busy.Store(false)

	return q.syncAttendanceLocked(ctx)
}

// SyncEmbeddings attempts delivery of every pending embedding update.
func (q *Queue) SyncEmbeddings(ctx context.Context) SyncReport {
	if !q.busy.CompareAndSwap(false, true) {
		return SyncReport{Skipped: true}
	}
	defer q.busy.Store(false)

	return q.syncEmbeddingsLocked(ctx)
}

// PerformFullSync runs both queues under one busy guard.
func (q *Queue) PerformFullSync(ctx context.Context) SyncReport {
	if !q.busy.CompareAndSwap(false, true) {
		return SyncReport{Skipped: true}
	}
	defer q.busy.Store(false)

	report := q.syncAttendanceLocked(ctx)
	embReport := q.syncEmbeddingsLocked(ctx)

	report.Synced += embReport.Synced
	report.Failed += embReport.Failed
	report.Errors = append(report.Errors, embReport.Errors...)

	return report
}

func (q *Queue) syncAttendanceLocked(ctx context.Context) SyncReport {
	var report SyncReport

	pending, err := q.store.ListAttendance(ctx)
	if err != nil {
		log.Printf("sync queue: listing pending attendance: %v", err)
		return report
	}

	for _, p := range pending {
		if err := q.deliverer.DeliverAttendance(ctx, p); err != nil {
			report.Failed++
			report.Errors = append(report.Errors, EntryError{
				Kind:    "attendance",
				Key:     p.LocalID,
				Message: err.Error(),
			})
			log.Printf("sync queue: attendance %s not delivered: %v", p.LocalID, err)
			continue
		}

		if err := q.store.DeleteAttendance(ctx, p.LocalID); err != nil {
			// The entry will be re-delivered next run; the remote side
			// tolerates the resend.
			log.Printf("sync queue: removing delivered attendance %s: %v", p.LocalID, err)
		}
		report.Synced++
	}

	return report
}

func (q *Queue) syncEmbeddingsLocked(ctx context.Context) SyncReport {
	var report SyncReport

	pending, err := q.store.ListEmbeddings(ctx)
	if err != nil {
		log.Printf("sync queue: listing pending embeddings: %v", err)
		return report
	}

	for _, p := range pending {
		if err := q.deliverer.DeliverEmbedding(ctx, p); err != nil {
			report.Failed++
			report.Errors = append(report.Errors, EntryError{
				Kind:    "embedding",
				Key:     strconv.Itoa(p.UserID),
				Message: err.Error(),
			})
			log.Printf("sync queue: embedding for user %d not delivered: %v", p.UserID, err)
			continue
		}

		if err := q.store.DeleteEmbedding(ctx, p.UserID, p.CapturedAt); err != nil {
			log.Printf("sync queue: removing delivered embedding for user %d: %v", p.UserID, err)
		}
		report.Synced++
	}

	return report
}

// Start launches the background sync loop: one run shortly after start when
// online, then one per interval. There is no backoff; a failed run waits for
// the next tick.
func (q *Queue) Start() {
	q.wg.Add(1)
	go func() {
		defer q.wg.Done()

		select {
		case <-time.After(startupDelay):
			if q.Online() {
				q.PerformFullSync(context.Background())
			}
		case <-q.stop:
			return
		}

		ticker := time.NewTicker(q.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				if q.Online() {
					q.PerformFullSync(context.Background())
				}
			case <-q.stop:
				return
			}
		}
	}()
}

// Stop halts the background loop and waits for an in-flight run to finish.
func (q *Queue) Stop() {
	q.stopOnce.Do(func() { close(q.stop) })
	q.wg.Wait()
}

// Package syncqueue keeps attendance events and face-embedding updates that
// could not reach the remote store, and retries them until delivered. The
// queue is durable: entries live in an embedded sqlite database and survive a
// process restart.
package syncqueue

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

// Descriptor is a face embedding stored as json in sqlite.
type Descriptor []float32

func (d Descriptor) Value() (driver.Value, error) {
	return json.Marshal(d)
}

func (d *Descriptor) Scan(src interface{}) error {
	switch v := src.(type) {
	case []byte:
		return json.Unmarshal(v, d)
	case string:
		return json.Unmarshal([]byte(v), d)
	case nil:
		*d = nil
		return nil
	default:
		return errors.Errorf("unsupported descriptor source %T", src)
	}
}

// PendingAttendance is a not-yet-committed attendance event. Entries are
// immutable once written; they are only ever deleted, never updated.
type PendingAttendance struct {
	bun.BaseModel `bun:"table:pending_attendance"`

	LocalID        string    `json:"local_id" bun:"local_id,pk"`
	UserID         int       `json:"user_id" bun:"user_id"`
	DeviceID       int       `json:"device_id" bun:"device_id"`
	OrganizationID int       `json:"organization_id" bun:"organization_id"`
	BranchID       int       `json:"branch_id" bun:"branch_id"`
	ClockIn        string    `json:"clock_in" bun:"clock_in"` // RFC3339
	Confidence     float64   `json:"confidence" bun:"confidence"`
	PhotoUrl       *string   `json:"photo_url,omitempty" bun:"photo_url"`
	CreatedAt      time.Time `json:"created_at" bun:"created_at"`
}

// PendingEmbedding is a not-yet-committed face embedding update, keyed by
// user. A newer update for the same user supersedes the stored one.
type PendingEmbedding struct {
	bun.BaseModel `bun:"table:pending_embeddings"`

	UserID         int        `json:"user_id" bun:"user_id,pk"`
	OrganizationID int        `json:"organization_id" bun:"organization_id"`
	Descriptor     Descriptor `json:"descriptor" bun:"descriptor"`
	Quality        float64    `json:"quality" bun:"quality"`
	CapturedAt     time.Time  `json:"captured_at" bun:"captured_at"`
}

// Store is the durable queue storage. Open it once per process and hand it to
// the Queue.
type Store struct {
	db *bun.DB
}

// Open opens (or creates) the queue database at path and ensures the tables
// exist. Use ":memory:" for throwaway stores.
func Open(path string) (*Store, error) {
	sqldb, err := sql.Open(sqliteshim.ShimName, path)
	if err != nil {
		return nil, errors.Wrap(err, "opening queue database")
	}

	// One writer at a time keeps sqlite happy under the sync goroutine.
	sqldb.SetMaxOpenConns(1)

	db := bun.NewDB(sqldb, sqlitedialect.New())

	ctx := context.Background()
	for _, model := range []interface{}{(*PendingAttendance)(nil), (*PendingEmbedding)(nil)} {
		if _, err := db.NewCreateTable().Model(model).IfNotExists().Exec(ctx); err != nil {
			return nil, errors.Wrap(err, "creating queue tables")
		}
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// InsertAttendance appends one pending attendance record. A missing LocalID
// is assigned here.
func (s *Store) InsertAttendance(ctx context.Context, p *PendingAttendance) error {
	if p.LocalID == "" {
		p.LocalID = uuid.NewString()
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now()
	}

	if _, err := s.db.NewInsert().Model(p).Exec(ctx); err != nil {
		return errors.Wrap(err, "inserting pending attendance")
	}

	return nil
}

// UpsertEmbedding stores a pending embedding update, last-write-wins per
// user. An incoming update older than the stored one is ignored so an
// out-of-order retry cannot clobber a newer capture.
func (s *Store) UpsertEmbedding(ctx context.Context, p *PendingEmbedding) error {
	if p.CapturedAt.IsZero() {
		p.CapturedAt = time.Now()
	}

	return s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		var existing PendingEmbedding
		err := tx.NewSelect().Model(&existing).Where("user_id = ?", p.UserID).Scan(ctx)
		if err != nil && !errors.Is(err, sql.ErrNoRows) {
			return errors.Wrap(err, "selecting pending embedding")
		}
		if err == nil {
			if existing.CapturedAt.After(p.CapturedAt) {
				return nil
			}
			if _, err := tx.NewDelete().Model((*PendingEmbedding)(nil)).Where("user_id = ?", p.UserID).Exec(ctx); err != nil {
				return errors.Wrap(err, "replacing pending embedding")
			}
		}

		if _, err := tx.NewInsert().Model(p).Exec(ctx); err != nil {
			return errors.Wrap(err, "inserting pending embedding")
		}

		return nil
	})
}

// ListAttendance returns all pending attendance records, oldest first.
func (s *Store) ListAttendance(ctx context.Context) ([]PendingAttendance, error) {
	var list []PendingAttendance
	if err := s.db.NewSelect().Model(&list).Order("created_at ASC").Scan(ctx); err != nil {
		return nil, errors.Wrap(err, "listing pending attendance")
	}
	return list, nil
}

// ListEmbeddings returns all pending embedding updates, oldest first.
func (s *Store) ListEmbeddings(ctx context.Context) ([]PendingEmbedding, error) {
	var list []PendingEmbedding
	if err := s.db.NewSelect().Model(&list).Order("captured_at ASC").Scan(ctx); err != nil {
		return nil, errors.Wrap(err, "listing pending embeddings")
	}
	return list, nil
}

// DeleteAttendance removes a delivered attendance record.
func (s *Store) DeleteAttendance(ctx context.Context, localID string) error {
	if _, err := s.db.NewDelete().Model((*PendingAttendance)(nil)).Where("local_id = ?", localID).Exec(ctx); err != nil {
		return errors.Wrap(err, "deleting pending attendance")
	}
	return nil
}

// DeleteEmbedding removes a delivered embedding update, but only if it has
// not been superseded since the sync run read it.
func (s *Store) DeleteEmbedding(ctx context.Context, userID int, capturedAt time.Time) error {
	if _, err := s.db.NewDelete().
		Model((*PendingEmbedding)(nil)).
		Where("user_id = ? AND captured_at <= ?", userID, capturedAt).
		Exec(ctx); err != nil {
		return errors.Wrap(err, "deleting pending embedding")
	}
	return nil
}

// Counts reports the number of queued entries of each kind.
func (s *Store) Counts(ctx context.Context) (attendance int, embeddings int, err error) {
	attendance, err = s.db.NewSelect().Model((*PendingAttendance)(nil)).Count(ctx)
	if err != nil {
		return 0, 0, errors.Wrap(err, "counting pending attendance")
	}
	embeddings, err = s.db.NewSelect().Model((*PendingEmbedding)(nil)).Count(ctx)
	if err != nil {
		return 0, 0, errors.Wrap(err, "counting pending embeddings")
	}
	return attendance, embeddings, nil
}

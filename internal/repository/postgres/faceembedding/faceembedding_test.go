package faceembedding

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"io"
	"testing"

	"presence/backend/internal/entity"
	"presence/backend/internal/pkg/repository/postgresql"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
)

// fakeConn answers every query with canned rows or a canned error, standing in
// for the similarity search without a live database.
type fakeConn struct {
	queryErr error
	rows     [][]driver.Value
}

func (c *fakeConn) Prepare(string) (driver.Stmt, error) { return nil, errors.New("not supported") }
func (c *fakeConn) Close() error                        { return nil }
func (c *fakeConn) Begin() (driver.Tx, error)           { return nil, errors.New("not supported") }

func (c *fakeConn) QueryContext(ctx context.Context, query string, args []driver.NamedValue) (driver.Rows, error) {
	if c.queryErr != nil {
		return nil, c.queryErr
	}
	return &fakeRows{rows: c.rows}, nil
}

type fakeRows struct {
	rows [][]driver.Value
	idx  int
}

func (r *fakeRows) Columns() []string {
	return []string{"user_id", "full_name", "staff_id", "similarity"}
}

func (r *fakeRows) Close() error { return nil }

func (r *fakeRows) Next(dest []driver.Value) error {
	if r.idx >= len(r.rows) {
		return io.EOF
	}
	copy(dest, r.rows[r.idx])
	r.idx++
	return nil
}

type fakeDriver struct{}

func (fakeDriver) Open(string) (driver.Conn, error) { return nil, errors.New("not supported") }

type fakeConnector struct {
	conn *fakeConn
}

func (c fakeConnector) Connect(context.Context) (driver.Conn, error) { return c.conn, nil }
func (c fakeConnector) Driver() driver.Driver                        { return fakeDriver{} }

func newTestRepository(conn *fakeConn) *Repository {
	sqldb := sql.OpenDB(fakeConnector{conn: conn})
	db := bun.NewDB(sqldb, pgdialect.New())
	return NewRepository(&postgresql.Database{DB: db})
}

func makeDescriptor(dim int) []float32 {
	descriptor := make([]float32, dim)
	for i := range descriptor {
		descriptor[i] = float32(i) / float32(dim)
	}
	return descriptor
}

func TestMatchRejectsWrongDimension(t *testing.T) {
	repo := newTestRepository(&fakeConn{})

	list, err := repo.Match(context.Background(), makeDescriptor(12), 1, 0.65)
	require.ErrorIs(t, err, ErrRemoteMatch)
	require.Nil(t, list)
}

func TestMatchWrapsTransportFailure(t *testing.T) {
	repo := newTestRepository(&fakeConn{queryErr: errors.New("connection refused")})

	list, err := repo.Match(context.Background(), makeDescriptor(entity.EmbeddingDim), 1, 0.65)
	require.ErrorIs(t, err, ErrRemoteMatch)
	require.Contains(t, err.Error(), "connection refused")
	require.Nil(t, list)
}

func TestMatchEmptyResultIsNotError(t *testing.T) {
	repo := newTestRepository(&fakeConn{})

	list, err := repo.Match(context.Background(), makeDescriptor(entity.EmbeddingDim), 1, 0.65)
	require.NoError(t, err)
	require.Nil(t, list)
}

func TestMatchReturnsRankedCandidates(t *testing.T) {
	repo := newTestRepository(&fakeConn{
		rows: [][]driver.Value{
			{int64(7), "Alice Smith", "E-001", 0.91},
			{int64(9), "Bob Jones", "E-002", 0.72},
		},
	})

	list, err := repo.Match(context.Background(), makeDescriptor(entity.EmbeddingDim), 1, 0.65)
	require.NoError(t, err)
	require.Len(t, list, 2)

	require.Equal(t, 7, list[0].UserID)
	require.NotNil(t, list[0].FullName)
	require.Equal(t, "Alice Smith", *list[0].FullName)
	require.NotNil(t, list[0].StaffID)
	require.Equal(t, "E-001", *list[0].StaffID)
	require.InDelta(t, 0.91, list[0].Similarity, 1e-9)

	require.Equal(t, 9, list[1].UserID)
	require.InDelta(t, 0.72, list[1].Similarity, 1e-9)
}

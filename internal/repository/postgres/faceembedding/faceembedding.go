package faceembedding

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"time"

	"presence/backend/foundation/web"
	"presence/backend/internal/auth"
	"presence/backend/internal/entity"
	"presence/backend/internal/pkg/repository/postgresql"
	"presence/backend/internal/repository/postgres"

	"github.com/pgvector/pgvector-go"
	"github.com/pkg/errors"
	"github.com/uptrace/bun"
)

// ErrRemoteMatch wraps transport failures of the similarity search. An empty
// candidate list is not an error.
var ErrRemoteMatch = errors.New("remote match failed")

// matchLimit bounds the candidate list returned by one search.
const matchLimit = 5

type Repository struct {
	*postgresql.Database
}

func NewRepository(database *postgresql.Database) *Repository {
	return &Repository{Database: database}
}

// Match runs the similarity search against the enrolled primary embeddings of
// one organization. Ranking and threshold application both happen in the
// query; the first row of a non-empty result is the best match.
func (r Repository) Match(ctx context.Context, embedding []float32, organizationID int, threshold float64) ([]MatchCandidate, error) {
	if len(embedding) != entity.EmbeddingDim {
		return nil, errors.Wrapf(ErrRemoteMatch, "descriptor length %d, want %d", len(embedding), entity.EmbeddingDim)
	}

	query := `
		SELECT
			f.user_id,
			u.full_name,
			u.staff_id,
			1 - (f.embedding <=> ?) AS similarity
		FROM face_embeddings f
		JOIN users u ON u.id = f.user_id AND u.deleted_at IS NULL
		WHERE
			f.deleted_at IS NULL
			AND f.is_primary = true
			AND f.organization_id = ?
			AND 1 - (f.embedding <=> ?) >= ?
		ORDER BY f.embedding <=> ?
		LIMIT ?
	`

	vec := pgvector.NewVector(embedding)
	rows, err := r.QueryContext(ctx, query, vec, organizationID, vec, threshold, vec, matchLimit)
	if err != nil {
		return nil, errors.Wrap(ErrRemoteMatch, err.Error())
	}
	defer rows.Close()

	var list []MatchCandidate
	for rows.Next() {
		var candidate MatchCandidate
		if err = rows.Scan(
			&candidate.UserID,
			&candidate.FullName,
			&candidate.StaffID,
			&candidate.Similarity,
		); err != nil {
			return nil, errors.Wrap(ErrRemoteMatch, err.Error())
		}
		list = append(list, candidate)
	}
	if err = rows.Err(); err != nil {
		return nil, errors.Wrap(ErrRemoteMatch, err.Error())
	}

	return list, nil
}

// Enroll stores a new primary embedding for the user, demoting any previous
// primary so at most one is used for matching.
func (r Repository) Enroll(ctx context.Context, request EnrollRequest) (EnrollResponse, error) {
	claims, err := r.CheckClaims(ctx, auth.RoleEmployee, auth.RoleDevice)
	if err != nil {
		return EnrollResponse{}, err
	}

	if len(request.Embedding) != entity.EmbeddingDim {
		return EnrollResponse{}, web.NewRequestError(
			errors.Errorf("descriptor length %d, want %d", len(request.Embedding), entity.EmbeddingDim),
			http.StatusBadRequest,
		)
	}

	var response EnrollResponse

	err = r.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewUpdate().
			Table("face_embeddings").
			Where("deleted_at IS NULL AND user_id = ? AND is_primary = true", request.UserID).
			Set("is_primary = false").
			Set("updated_at = ?", time.Now()).
			Set("updated_by = ?", claims.UserId).
			Exec(ctx); err != nil {
			return errors.Wrap(err, "demoting previous primary embedding")
		}

		response = EnrollResponse{
			UserID:         request.UserID,
			OrganizationID: request.OrganizationID,
			Embedding:      pgvector.NewVector(request.Embedding),
			Quality:        request.Quality,
			IsPrimary:      true,
			CreatedAt:      time.Now(),
			CreatedBy:      claims.UserId,
		}

		if _, err := tx.NewInsert().Model(&response).Returning("id").Exec(ctx, &response.ID); err != nil {
			return errors.Wrap(err, "inserting face embedding")
		}

		return nil
	})
	if err != nil {
		return EnrollResponse{}, web.NewRequestError(err, http.StatusBadRequest)
	}

	return response, nil
}

// SaveFromQueue is the sync-queue flush path for a pending embedding update.
// It performs the same demote-and-insert as Enroll but runs without request
// claims; the queue owns the ordering decision.
func (r Repository) SaveFromQueue(ctx context.Context, userID, organizationID int, descriptor []float32, quality float64) error {
	if len(descriptor) != entity.EmbeddingDim {
		return errors.Errorf("descriptor length %d, want %d", len(descriptor), entity.EmbeddingDim)
	}

	return r.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewUpdate().
			Table("face_embeddings").
			Where("deleted_at IS NULL AND user_id = ? AND is_primary = true", userID).
			Set("is_primary = false").
			Set("updated_at = ?", time.Now()).
			Exec(ctx); err != nil {
			return errors.Wrap(err, "demoting previous primary embedding")
		}

		row := EnrollResponse{
			UserID:         userID,
			OrganizationID: organizationID,
			Embedding:      pgvector.NewVector(descriptor),
			Quality:        quality,
			IsPrimary:      true,
			CreatedAt:      time.Now(),
		}

		if _, err := tx.NewInsert().Model(&row).Exec(ctx); err != nil {
			return errors.Wrap(err, "inserting face embedding")
		}

		return nil
	})
}

// GetList lists enrolled embeddings with their owners, newest first.
func (r Repository) GetList(ctx context.Context, filter Filter) ([]GetListResponse, int, error) {
	_, err := r.CheckClaims(ctx)
	if err != nil {
		return nil, 0, err
	}

	whereQuery := `
		WHERE
			f.deleted_at IS NULL
	`

	if filter.UserID != nil {
		whereQuery += fmt.Sprintf(" AND f.user_id = %d", *filter.UserID)
	}

	orderQuery := "ORDER BY f.created_at desc"

	var limitQuery, offsetQuery string

	if filter.Page != nil && filter.Limit != nil {
		offset := (*filter.Page - 1) * (*filter.Limit)
		filter.Offset = &offset
	}

	if filter.Limit != nil {
		limitQuery = fmt.Sprintf(" LIMIT %d", *filter.Limit)
	}
	if filter.Offset != nil {
		offsetQuery = fmt.Sprintf(" OFFSET %d", *filter.Offset)
	}

	query := fmt.Sprintf(`
		SELECT
			f.id,
			f.user_id,
			u.full_name,
			u.staff_id,
			f.quality,
			f.is_primary,
			f.created_at
		FROM face_embeddings f
		LEFT JOIN users u ON u.id = f.user_id
		%s %s %s %s
	`, whereQuery, orderQuery, limitQuery, offsetQuery)

	rows, err := r.QueryContext(ctx, query)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, 0, web.NewRequestError(postgres.ErrNotFound, http.StatusNotFound)
	}
	if err != nil {
		return nil, 0, web.NewRequestError(errors.Wrap(err, "selecting face embeddings"), http.StatusInternalServerError)
	}
	defer rows.Close()

	var list []GetListResponse
	for rows.Next() {
		var detail GetListResponse
		if err = rows.Scan(
			&detail.ID,
			&detail.UserID,
			&detail.FullName,
			&detail.StaffID,
			&detail.Quality,
			&detail.IsPrimary,
			&detail.CreatedAt,
		); err != nil {
			return nil, 0, web.NewRequestError(errors.Wrap(err, "scanning face embedding list"), http.StatusBadRequest)
		}
		list = append(list, detail)
	}

	countQuery := fmt.Sprintf(`
		SELECT
			count(f.id)
		FROM face_embeddings f
		%s
	`, whereQuery)

	count := 0
	if err = r.QueryRowContext(ctx, countQuery).Scan(&count); err != nil {
		return nil, 0, web.NewRequestError(errors.Wrap(err, "scanning face embedding count"), http.StatusInternalServerError)
	}

	return list, count, nil
}

func (r Repository) Delete(ctx context.Context, id int) error {
	return r.DeleteRow(ctx, "face_embeddings", id)
}

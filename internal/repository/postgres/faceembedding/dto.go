package faceembedding

import (
	"time"

	"github.com/pgvector/pgvector-go"
	"github.com/uptrace/bun"
)

type Filter struct {
	Limit  *int
	Offset *int
	Page   *int
	UserID *int
}

// MatchCandidate is one enrolled identity returned by the similarity search,
// ranked by similarity descending.
type MatchCandidate struct {
	UserID     int     `json:"user_id"`
	FullName   *string `json:"full_name"`
	StaffID    *string `json:"staff_id"`
	Similarity float64 `json:"similarity"`
}

type EnrollRequest struct {
	UserID         int
	OrganizationID int
	Embedding      []float32
	Quality        float64
}

type EnrollResponse struct {
	bun.BaseModel `bun:"table:face_embeddings"`

	ID             int             `json:"id" bun:"-"`
	UserID         int             `json:"user_id" bun:"user_id"`
	OrganizationID int             `json:"organization_id" bun:"organization_id"`
	Embedding      pgvector.Vector `json:"-" bun:"embedding"`
	Quality        float64         `json:"quality" bun:"quality"`
	IsPrimary      bool            `json:"is_primary" bun:"is_primary"`
	CreatedAt      time.Time       `json:"-" bun:"created_at"`
	CreatedBy      int             `json:"-" bun:"created_by"`
}

type GetListResponse struct {
	ID        int        `json:"id"`
	UserID    *int       `json:"user_id"`
	FullName  *string    `json:"full_name"`
	StaffID   *string    `json:"staff_id"`
	Quality   *float64   `json:"quality"`
	IsPrimary *bool      `json:"is_primary"`
	CreatedAt *time.Time `json:"created_at"`
}

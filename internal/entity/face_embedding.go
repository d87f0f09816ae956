package entity

import (
	"github.com/pgvector/pgvector-go"
	"github.com/uptrace/bun"
)

// EmbeddingDim is the fixed descriptor length used across the system. Every
// stored and matched vector must have exactly this many components.
const EmbeddingDim = 128

type FaceEmbedding struct {
	bun.BaseModel `bun:"table:face_embeddings"`

	BasicEntity
	UserID         *int            `json:"user_id" bun:"user_id"`
	OrganizationID *int            `json:"organization_id" bun:"organization_id"`
	Embedding      pgvector.Vector `json:"-" bun:"embedding,type:vector(128)"`
	Quality        *float64        `json:"quality" bun:"quality"`
	IsPrimary      *bool           `json:"is_primary" bun:"is_primary"`
}

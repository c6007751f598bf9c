package models

import (
	"portal/src/types"

	"github.com/google/uuid"
)

// Document is a vault file. ObjectID links customer-scoped documents
// to the owning customer record.
type Document struct {
	ID         uuid.UUID        `gorm:"type:uuid;primaryKey" json:"id"`
	TeamID     uuid.UUID        `gorm:"type:uuid;index" json:"-"`
	ObjectID   *uuid.UUID       `gorm:"type:uuid;index" json:"object_id,omitempty"`
	Title      *string          `json:"title,omitempty"`
	Name       string           `json:"name,omitempty"`
	PathTokens types.PathTokens `gorm:"type:jsonb" json:"path_tokens,omitempty"`
	Metadata   *types.JSONB     `gorm:"type:jsonb" json:"metadata,omitempty"`

	types.Timestamps
}

package models

import (
	"portal/src/types"

	"github.com/google/uuid"
)

type Team struct {
	ID    uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name  string    `json:"name,omitempty"`
	Email string    `json:"email,omitempty"`

	Customers []Customer `gorm:"foreignKey:team_id" json:"-"`

	types.Timestamps
}

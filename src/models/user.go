package models

import (
	"portal/src/types"

	"github.com/google/uuid"
)

type User struct {
	ID       uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	Name     string     `json:"name,omitempty"`
	Email    string     `json:"email,omitempty"`
	TeamID   *uuid.UUID `gorm:"type:uuid" json:"team_id,omitempty"`

	Team *Team `gorm:"foreignKey:team_id" json:"-"`

	types.Timestamps
}

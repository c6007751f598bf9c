package models

import (
	"portal/src/types"

	"github.com/google/uuid"
)

type Customer struct {
	ID               uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	TeamID           uuid.UUID `gorm:"type:uuid;index" json:"team_id"`
	Name             string    `json:"name,omitempty"`
	Email            string    `json:"email,omitempty"`
	CountryCode      *string   `json:"country_code,omitempty"`
	PortalID         *string   `gorm:"uniqueIndex" json:"portal_id,omitempty"`
	PortalEnabled    bool      `gorm:"default:false" json:"portal_enabled"`
	StripeCustomerID *string   `json:"-"`

	Team     *Team           `gorm:"foreignKey:team_id" json:"team,omitempty"`
	Requests []ClientRequest `gorm:"foreignKey:customer_id;constraint:OnDelete:CASCADE" json:"-"`
	Messages []PortalMessage `gorm:"foreignKey:customer_id;constraint:OnDelete:CASCADE" json:"-"`

	types.Timestamps
}

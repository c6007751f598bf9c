package models

import (
	"time"

	"portal/src/types"

	"github.com/google/uuid"
)

// ClientRequest is one unit of client work moving through the
// delivery pipeline. Priority orders the backlog only.
//
// Active is a derived marker: true while status is outside
// {backlog, completed}, NULL otherwise. A partial unique index on
// (team_id, customer_id) WHERE active enforces the single active
// engagement rule at the storage layer (see boot.InitDb).
type ClientRequest struct {
	ID          uuid.UUID           `gorm:"type:uuid;primaryKey" json:"id"`
	TeamID      uuid.UUID           `gorm:"type:uuid;index:idx_client_requests_scope" json:"-"`
	CustomerID  uuid.UUID           `gorm:"type:uuid;index:idx_client_requests_scope" json:"customer_id"`
	Title       string              `json:"title"`
	Details     *string             `json:"details,omitempty"`
	Status      types.RequestStatus `gorm:"default:'backlog'" json:"status"`
	Priority    int                 `json:"priority"`
	Active      *bool               `json:"-"`
	RequestedBy *string             `json:"requested_by,omitempty"`
	StagingURL  *string             `json:"staging_url,omitempty"`
	Resources   types.Resources     `gorm:"type:jsonb;default:'[]'" json:"resources"`
	Attachments types.Attachments   `gorm:"type:jsonb;default:'[]'" json:"attachments"`
	CompletedAt *time.Time          `json:"completed_at,omitempty"`

	Customer *Customer `gorm:"foreignKey:customer_id" json:"-"`

	types.Timestamps
}

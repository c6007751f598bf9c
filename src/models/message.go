package models

import (
	"portal/src/types"

	"github.com/google/uuid"
)

// PortalMessage is one entry in a customer conversation. RequestID is
// a weak reference: the message outlives the request it points to.
// Messages are immutable after creation.
type PortalMessage struct {
	ID           uuid.UUID         `gorm:"type:uuid;primaryKey" json:"id"`
	TeamID       uuid.UUID         `gorm:"type:uuid;index:idx_portal_messages_scope" json:"-"`
	CustomerID   uuid.UUID         `gorm:"type:uuid;index:idx_portal_messages_scope" json:"customer_id"`
	RequestID    *uuid.UUID        `gorm:"type:uuid" json:"request_id,omitempty"`
	SenderType   types.SenderType  `json:"sender_type"`
	SenderUserID *uuid.UUID        `gorm:"type:uuid" json:"sender_user_id,omitempty"`
	SenderName   *string           `json:"sender_name,omitempty"`
	Message      string            `json:"message"`
	Attachments  types.Attachments `gorm:"type:jsonb;default:'[]'" json:"attachments"`

	types.Timestamps
}

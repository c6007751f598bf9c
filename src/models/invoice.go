package models

import (
	"time"

	"portal/src/types"

	"github.com/google/uuid"
)

type Invoice struct {
	ID            uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	TeamID        uuid.UUID  `gorm:"type:uuid;index:idx_invoices_scope" json:"-"`
	CustomerID    uuid.UUID  `gorm:"type:uuid;index:idx_invoices_scope" json:"customer_id"`
	InvoiceNumber string     `json:"invoice_number,omitempty"`
	Status        string     `gorm:"default:'draft'" json:"status,omitempty"`
	Amount        float64    `json:"amount"`
	Currency      string     `json:"currency,omitempty"`
	DueDate       *time.Time `json:"due_date,omitempty"`
	PaidAt        *time.Time `json:"paid_at,omitempty"`

	Customer *Customer `gorm:"foreignKey:customer_id" json:"-"`

	types.Timestamps
}

package utils

import (
	"strconv"

	"portal/src/db"
	"portal/src/models"

	"github.com/google/uuid"
)

type InvoiceSummary struct {
	TotalCount   int64   `json:"total_count"`
	OpenCount    int64   `json:"open_count"`
	OverdueCount int64   `json:"overdue_count"`
	AmountDue    float64 `json:"amount_due"`
	Currency     string  `json:"currency,omitempty"`
}

// GetCustomerInvoiceSummary aggregates the invoice figures shown on
// the portal home.
func GetCustomerInvoiceSummary(teamId uuid.UUID, customerId uuid.UUID) (*InvoiceSummary, error) {
	db := db.GetDb()

	summary := InvoiceSummary{}
	if err := db.
		Model(&models.Invoice{}).
		Where(&models.Invoice{TeamID: teamId, CustomerID: customerId}).
		Count(&summary.TotalCount).Error; err != nil {
		return nil, err
	}
	if err := db.
		Model(&models.Invoice{}).
		Where(&models.Invoice{TeamID: teamId, CustomerID: customerId}).
		Where("status IN ?", []string{"unpaid", "overdue"}).
		Count(&summary.OpenCount).Error; err != nil {
		return nil, err
	}
	if err := db.
		Model(&models.Invoice{}).
		Where(&models.Invoice{TeamID: teamId, CustomerID: customerId, Status: "overdue"}).
		Count(&summary.OverdueCount).Error; err != nil {
		return nil, err
	}
	type dueRow struct {
		Amount   float64
		Currency string
	}
	var due dueRow
	if err := db.
		Model(&models.Invoice{}).
		Where(&models.Invoice{TeamID: teamId, CustomerID: customerId}).
		Where("status IN ?", []string{"unpaid", "overdue"}).
		Select("COALESCE(SUM(amount), 0) AS amount, MAX(currency) AS currency").
		Scan(&due).Error; err != nil {
		return nil, err
	}
	summary.AmountDue = due.Amount
	summary.Currency = due.Currency
	return &summary, nil
}

// GetCustomerPortalInvoices returns one page of invoices, newest
// first, with an opaque offset cursor for the next page.
func GetCustomerPortalInvoices(teamId uuid.UUID, customerId uuid.UUID, cursor string, pageSize int) ([]models.Invoice, *string, error) {
	if pageSize <= 0 || pageSize > 50 {
		pageSize = 10
	}
	offset := 0
	if cursor != "" {
		parsed, err := strconv.Atoi(cursor)
		if err == nil && parsed > 0 {
			offset = parsed
		}
	}

	var invoices []models.Invoice
	db := db.GetDb()
	if err := db.
		Where(&models.Invoice{TeamID: teamId, CustomerID: customerId}).
		Order("created_at desc").
		Offset(offset).
		Limit(pageSize + 1).
		Find(&invoices).Error; err != nil {
		return nil, nil, err
	}

	var nextCursor *string
	if len(invoices) > pageSize {
		invoices = invoices[:pageSize]
		cursorValue := strconv.Itoa(offset + pageSize)
		nextCursor = &cursorValue
	}
	return invoices, nextCursor, nil
}

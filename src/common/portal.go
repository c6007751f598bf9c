package common

import (
	"errors"
	"strings"

	"portal/src/db"
	"portal/src/models"
	"portal/src/types"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// GetCustomerByPortalId resolves the customer whose portal is enabled
// for the short id. Returns nil when no such portal exists.
func GetCustomerByPortalId(portalId string) (*models.Customer, error) {
	var customer models.Customer
	db := db.GetDb()
	err := db.
		Where("portal_id = ? AND portal_enabled = ?", portalId, true).
		Preload("Team").
		First(&customer).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &customer, nil
}

// RequirePortalAccess is the sole authorization boundary for portal
// operations. It re-runs on every call: the email on file can change
// between requests, so a session-level boolean is never cached.
func RequirePortalAccess(portalId string, sessionEmail string) (*models.Customer, *types.PortalError) {
	customer, err := GetCustomerByPortalId(portalId)
	if err != nil {
		return nil, types.NewPortalError(types.ErrKindNotFound, "Customer portal not found", err)
	}
	if customer == nil {
		return nil, types.NewPortalError(types.ErrKindNotFound, "Customer portal not found", nil)
	}

	customerEmail := NormalizeEmail(customer.Email)
	callerEmail := NormalizeEmail(sessionEmail)
	if customerEmail == "" || callerEmail == "" || customerEmail != callerEmail {
		return nil, types.NewPortalError(types.ErrKindUnauthorized, "Signed-in email does not match the customer email on file", nil)
	}
	return customer, nil
}

// GetCustomerById is the dashboard-side scope check: the customer
// must belong to the caller's team.
func GetCustomerById(customerId uuid.UUID, teamId uuid.UUID) (*models.Customer, error) {
	var customer models.Customer
	db := db.GetDb()
	err := db.
		Preload("Team").
		Where(&models.Customer{ID: customerId, TeamID: teamId}).
		First(&customer).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &customer, nil
}

// GetCustomerPortalAssets lists the customer's vault documents,
// newest first, skipping folder placeholder objects.
func GetCustomerPortalAssets(teamId uuid.UUID, customerId uuid.UUID, pageSize int) ([]models.Document, error) {
	if pageSize <= 0 || pageSize > 50 {
		pageSize = 20
	}
	var documents []models.Document
	db := db.GetDb()
	if err := db.
		Where("team_id = ? AND object_id = ?", teamId, customerId).
		Where("path_tokens IS NOT NULL").
		Where("name NOT LIKE ?", "%.folderPlaceholder").
		Order("created_at desc").
		Limit(pageSize).
		Find(&documents).Error; err != nil {
		return nil, err
	}
	return documents, nil
}

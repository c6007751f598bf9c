package utils

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"portal/src/db"
	"portal/src/models"
	"portal/src/types"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ListClientRequests returns every request for one customer in the
// order the pipeline view renders: priority first, then creation
// time for ties.
func ListClientRequests(teamId uuid.UUID, customerId uuid.UUID) ([]models.ClientRequest, error) {
	var requests []models.ClientRequest
	db := db.GetDb()
	if err := db.
		Where(&models.ClientRequest{TeamID: teamId, CustomerID: customerId}).
		Order("priority asc, created_at asc").
		Find(&requests).Error; err != nil {
		return nil, err
	}
	return requests, nil
}

type CreateClientRequestParams struct {
	TeamID      uuid.UUID
	CustomerID  uuid.UUID
	Title       string
	Details     *string
	RequestedBy *string
	Attachments []types.Attachment
}

// CreateClientRequest inserts a new backlog request with priority
// max+1 for the customer. The max read and the insert share one
// transaction serialized by an advisory lock on the (team, customer)
// pair, so concurrent creates cannot observe the same max.
//
// The title length floor is re-checked after trimming; binding
// validates the raw string, so whitespace padding could otherwise
// smuggle a too-short title past it.
func CreateClientRequest(params *CreateClientRequestParams) (*models.ClientRequest, error) {
	title := strings.TrimSpace(params.Title)
	if titleLen := utf8.RuneCountInString(title); titleLen < 3 || titleLen > 160 {
		return nil, types.NewPortalError(types.ErrKindValidation, "Title must be between 3 and 160 characters.", nil)
	}

	request := models.ClientRequest{
		ID:          uuid.New(),
		TeamID:      params.TeamID,
		CustomerID:  params.CustomerID,
		Title:       title,
		Details:     trimOptional(params.Details),
		RequestedBy: trimOptional(params.RequestedBy),
		Status:      types.RequestStatusBacklog,
		Resources:   types.Resources{},
		Attachments: params.Attachments,
	}
	if request.Attachments == nil {
		request.Attachments = types.Attachments{}
	}

	db := db.GetDb()
	err := db.Transaction(func(tx *gorm.DB) error {
		lockKey := fmt.Sprintf("client_requests:%s:%s", params.TeamID, params.CustomerID)
		if err := tx.Exec("SELECT pg_advisory_xact_lock(hashtext(?))", lockKey).Error; err != nil {
			return err
		}
		var maxPriority int
		if err := tx.
			Model(&models.ClientRequest{}).
			Where(&models.ClientRequest{TeamID: params.TeamID, CustomerID: params.CustomerID}).
			Select("COALESCE(MAX(priority), 0)").
			Scan(&maxPriority).Error; err != nil {
			return err
		}
		request.Priority = maxPriority + 1
		return tx.Create(&request).Error
	})
	if err != nil {
		return nil, err
	}
	return &request, nil
}

// UpdateClientRequest applies a status and/or resources change.
// Completed requests get completedAt stamped; any other status clears
// it. The active marker follows the status so the partial unique
// index can reject a second active request. Returns nil when the
// request is not visible to this (team, customer) scope.
func UpdateClientRequest(teamId uuid.UUID, customerId uuid.UUID, requestId uuid.UUID, status *types.RequestStatus, resources *types.Resources) (*models.ClientRequest, error) {
	updates := map[string]any{}
	if status != nil {
		updates["status"] = *status
		if status.IsActive() {
			updates["active"] = true
		} else {
			updates["active"] = nil
		}
		if *status == types.RequestStatusCompleted {
			updates["completed_at"] = gorm.Expr("now()")
		} else {
			updates["completed_at"] = nil
		}
	}
	if resources != nil {
		updates["resources"] = NormalizeRequestResources(*resources, nil)
	}

	var updated models.ClientRequest
	db := db.GetDb()
	err := db.Transaction(func(tx *gorm.DB) error {
		result := tx.
			Model(&models.ClientRequest{}).
			Where(&models.ClientRequest{ID: requestId, TeamID: teamId, CustomerID: customerId}).
			Updates(updates)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return tx.
			Where(&models.ClientRequest{ID: requestId, TeamID: teamId, CustomerID: customerId}).
			First(&updated).Error
	})
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &updated, nil
}

// NextBacklogOrder computes the applied backlog order: the caller's
// ids filtered to the current backlog set and deduplicated, followed
// by every omitted backlog item in its prior relative order. The
// result is always a permutation of the existing set, so a partial
// client view can never drop or duplicate items it did not know
// about.
func NextBacklogOrder(existing []uuid.UUID, requested []uuid.UUID) []uuid.UUID {
	allowed := make(map[uuid.UUID]bool, len(existing))
	for _, id := range existing {
		allowed[id] = true
	}
	next := make([]uuid.UUID, 0, len(existing))
	seen := make(map[uuid.UUID]bool, len(requested))
	for _, id := range requested {
		if !allowed[id] || seen[id] {
			continue
		}
		seen[id] = true
		next = append(next, id)
	}
	for _, id := range existing {
		if !seen[id] {
			next = append(next, id)
		}
	}
	return next
}

// ReorderBacklogRequests rewrites backlog priorities as 1..N and
// returns the applied order. The backlog read and the rewrite share
// one transaction holding the same (team, customer) advisory lock as
// create, so the membership snapshot cannot go stale mid-rewrite;
// each priority write still re-checks backlog status in its WHERE.
func ReorderBacklogRequests(teamId uuid.UUID, customerId uuid.UUID, requestIds []uuid.UUID) ([]uuid.UUID, error) {
	db := db.GetDb()

	nextOrder := []uuid.UUID{}
	err := db.Transaction(func(tx *gorm.DB) error {
		lockKey := fmt.Sprintf("client_requests:%s:%s", teamId, customerId)
		if err := tx.Exec("SELECT pg_advisory_xact_lock(hashtext(?))", lockKey).Error; err != nil {
			return err
		}

		var existing []models.ClientRequest
		if err := tx.
			Select("id").
			Where(&models.ClientRequest{TeamID: teamId, CustomerID: customerId, Status: types.RequestStatusBacklog}).
			Order("priority asc, created_at asc").
			Find(&existing).Error; err != nil {
			return err
		}
		if len(existing) == 0 {
			return nil
		}

		existingIds := make([]uuid.UUID, 0, len(existing))
		for _, request := range existing {
			existingIds = append(existingIds, request.ID)
		}
		nextOrder = NextBacklogOrder(existingIds, requestIds)

		for index, requestId := range nextOrder {
			if err := tx.
				Model(&models.ClientRequest{}).
				Where(&models.ClientRequest{ID: requestId, TeamID: teamId, CustomerID: customerId, Status: types.RequestStatusBacklog}).
				Update("priority", index+1).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return nextOrder, nil
}

func trimOptional(value *string) *string {
	if value == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

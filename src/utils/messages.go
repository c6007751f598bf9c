package utils

import (
	"strings"

	"portal/src/config"
	"portal/src/db"
	"portal/src/models"
	"portal/src/types"

	"github.com/google/uuid"
)

// ListPortalMessages returns the most recent messages first so a
// limited page always truncates the oldest end. Chronological display
// is the caller's reversal.
func ListPortalMessages(teamId uuid.UUID, customerId uuid.UUID, limit int) ([]models.PortalMessage, error) {
	if limit <= 0 {
		limit = config.DefaultMessagePageSize
	}
	if limit > config.MaxMessagePageSize {
		limit = config.MaxMessagePageSize
	}
	var messages []models.PortalMessage
	db := db.GetDb()
	if err := db.
		Where(&models.PortalMessage{TeamID: teamId, CustomerID: customerId}).
		Order("created_at desc").
		Limit(limit).
		Find(&messages).Error; err != nil {
		return nil, err
	}
	return messages, nil
}

type CreatePortalMessageParams struct {
	TeamID       uuid.UUID
	CustomerID   uuid.UUID
	RequestID    *string
	SenderType   types.SenderType
	SenderUserID *uuid.UUID
	SenderName   *string
	Message      string
	Attachments  []types.Attachment
}

// CreatePortalMessage inserts one conversation entry. Whitespace-only
// request ids and sender names are normalized to absent; the request
// reference stays weak (no ownership check, the request may already
// be gone). A message that trims down to nothing is rejected here;
// binding only sees the raw string.
func CreatePortalMessage(params *CreatePortalMessageParams) (*models.PortalMessage, error) {
	body := strings.TrimSpace(params.Message)
	if body == "" {
		return nil, types.NewPortalError(types.ErrKindValidation, "Message cannot be empty.", nil)
	}

	var requestId *uuid.UUID
	if normalized := trimOptional(params.RequestID); normalized != nil {
		parsed, err := uuid.Parse(*normalized)
		if err != nil {
			return nil, types.NewPortalError(types.ErrKindValidation, "Invalid request ID format for message association.", err)
		}
		requestId = &parsed
	}

	message := models.PortalMessage{
		ID:           uuid.New(),
		TeamID:       params.TeamID,
		CustomerID:   params.CustomerID,
		RequestID:    requestId,
		SenderType:   params.SenderType,
		SenderUserID: params.SenderUserID,
		SenderName:   trimOptional(params.SenderName),
		Message:      body,
		Attachments:  params.Attachments,
	}
	if message.Attachments == nil {
		message.Attachments = types.Attachments{}
	}

	db := db.GetDb()
	if err := db.Create(&message).Error; err != nil {
		return nil, err
	}
	return &message, nil
}

package types

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"gorm.io/gorm"
)

type Timestamps struct {
	CreatedAt time.Time      `gorm:"autoCreateTime:nano" json:"created_at,omitempty"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime:nano" json:"updated_at,omitempty"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty,omitnil"`
}

type RequestStatus string

const (
	RequestStatusBacklog        RequestStatus = "backlog"
	RequestStatusInProgress     RequestStatus = "in_progress"
	RequestStatusInQA           RequestStatus = "in_qa"
	RequestStatusAwaitingReview RequestStatus = "awaiting_review"
	RequestStatusCompleted      RequestStatus = "completed"
)

// IsActive reports whether the status counts against the
// one-active-request-per-customer constraint.
func (s RequestStatus) IsActive() bool {
	return s != RequestStatusBacklog && s != RequestStatusCompleted
}

func (s RequestStatus) Valid() bool {
	switch s {
	case RequestStatusBacklog, RequestStatusInProgress, RequestStatusInQA,
		RequestStatusAwaitingReview, RequestStatusCompleted:
		return true
	}
	return false
}

type SenderType string

const (
	SenderTypeClient     SenderType = "client"
	SenderTypeFreelancer SenderType = "freelancer"
)

// Attachment is a stored file reference. DownloadURL is resolved at
// read time and never persisted.
type Attachment struct {
	Name        string   `json:"name"`
	Path        []string `json:"path"`
	Size        int64    `json:"size"`
	Type        string   `json:"type"`
	DownloadURL *string  `json:"downloadUrl" gorm:"-"`
}

type Attachments []Attachment

func (a Attachments) Value() (driver.Value, error) {
	valueString, err := json.Marshal(a)
	return string(valueString), err
}
func (a *Attachments) Scan(value any) error {
	b, ok := value.([]byte)
	if !ok {
		s, ok := value.(string)
		if !ok {
			return errors.New("type assertion to []byte failed")
		}
		b = []byte(s)
	}
	return json.Unmarshal(b, a)
}

// Resource is a labeled external link attached to a request.
type Resource struct {
	Label string `json:"label"`
	URL   string `json:"url"`
}

type Resources []Resource

func (r Resources) Value() (driver.Value, error) {
	valueString, err := json.Marshal(r)
	return string(valueString), err
}
func (r *Resources) Scan(value any) error {
	b, ok := value.([]byte)
	if !ok {
		s, ok := value.(string)
		if !ok {
			return errors.New("type assertion to []byte failed")
		}
		b = []byte(s)
	}
	return json.Unmarshal(b, r)
}

type PathTokens []string

func (p PathTokens) Value() (driver.Value, error) {
	valueString, err := json.Marshal(p)
	return string(valueString), err
}
func (p *PathTokens) Scan(value any) error {
	b, ok := value.([]byte)
	if !ok {
		s, ok := value.(string)
		if !ok {
			return errors.New("type assertion to []byte failed")
		}
		b = []byte(s)
	}
	return json.Unmarshal(b, p)
}

type JSONB map[string]any

func (a JSONB) Value() (driver.Value, error) {
	valueString, err := json.Marshal(a)
	return string(valueString), err
}
func (a *JSONB) Scan(value any) error {
	b, ok := value.([]byte)
	if !ok {
		return errors.New("type assertion to []byte failed")
	}
	return json.Unmarshal(b, a)
}

type AttachmentBody struct {
	Name string   `json:"name" binding:"required,min=1,max=260"`
	Path []string `json:"path" binding:"required,min=1,max=32,dive,min=1"`
	Size int64    `json:"size" binding:"required,gt=0,max=26214400"`
	Type string   `json:"type" binding:"required,min=1,max=120"`
}

type ResourceBody struct {
	Label string `json:"label" binding:"required,min=1,max=80"`
	URL   string `json:"url" binding:"required,httpurl"`
}

type SendPortalLoginLinkRequestBody struct {
	Email string `json:"email" binding:"required,email"`
}

type VerifyPortalLoginCodeRequestBody struct {
	Email string `json:"email" binding:"required,email"`
	Code  string `json:"code" binding:"required,len=6,numeric"`
}

type CreatePortalRequestRequestBody struct {
	Title       string           `json:"title" binding:"required,min=3,max=160"`
	Details     *string          `json:"details,omitempty" binding:"omitempty,max=2000"`
	RequestedBy *string          `json:"requested_by,omitempty" binding:"omitempty,max=120"`
	Attachments []AttachmentBody `json:"attachments,omitempty" binding:"omitempty,max=10"`
}

type ReorderPortalRequestsRequestBody struct {
	RequestIDs []string `json:"request_ids" binding:"required,dive,uuid"`
}

type CreatePortalMessageRequestBody struct {
	RequestID   *string          `json:"request_id,omitempty" binding:"omitempty"`
	SenderName  *string          `json:"sender_name,omitempty" binding:"omitempty,max=120"`
	Message     string           `json:"message" binding:"required,min=1,max=5000"`
	Attachments []AttachmentBody `json:"attachments,omitempty" binding:"omitempty,max=10"`
}

type CreateAttachmentUploadRequestBody struct {
	FileName    string `json:"file_name" binding:"required,min=1,max=260"`
	ContentType string `json:"content_type" binding:"required,min=1,max=120"`
	Scope       string `json:"scope,omitempty" binding:"omitempty,oneof=request message"`
}

type UpdatePortalRequestRequestBody struct {
	Status    *RequestStatus  `json:"status,omitempty"`
	Resources *[]ResourceBody `json:"resources,omitempty" binding:"omitempty,max=10,dive"`
}

type CreateCustomerMessageRequestBody struct {
	RequestID   *string          `json:"request_id,omitempty" binding:"omitempty,uuid"`
	Message     string           `json:"message" binding:"required,min=1,max=5000"`
	Attachments []AttachmentBody `json:"attachments,omitempty" binding:"omitempty,max=10"`
}

type TogglePortalRequestBody struct {
	Enabled bool `json:"enabled"`
}

type CreateCheckoutRequestBody struct {
	Plan string `json:"plan" binding:"required"`
}

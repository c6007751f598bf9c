package common

import (
	"context"
	"log"
	"strings"
	"sync"
	"time"

	"portal/src/config"
	"portal/src/models"
	"portal/src/types"

	awslib "portal/src/lib/aws"

	"github.com/google/uuid"
)

// signDownloadURL is swapped out in tests.
var signDownloadURL = awslib.S3SignedDownloadURL

// signAttachmentBatch resolves a download URL for every attachment in
// the batch concurrently. One attachment's signing failure leaves its
// DownloadURL nil and never delays or fails the others.
func signAttachmentBatch(ctx context.Context, batch []*types.Attachment, ttl time.Duration) {
	bucket := config.GetVaultBucket()
	var wg sync.WaitGroup
	for _, attachment := range batch {
		if len(attachment.Path) == 0 {
			continue
		}
		wg.Add(1)
		go func(attachment *types.Attachment) {
			defer wg.Done()
			key := strings.Join(attachment.Path, "/")
			url, err := signDownloadURL(ctx, bucket, key, ttl)
			if err != nil {
				log.Printf("Could not sign download link for [%s]: %s\n", key, err.Error())
				return
			}
			attachment.DownloadURL = &url
		}(attachment)
	}
	wg.Wait()
}

// WithSignedRequestAttachments decorates every request attachment in
// place with a time-limited download link.
func WithSignedRequestAttachments(ctx context.Context, requests []models.ClientRequest) {
	batch := []*types.Attachment{}
	for i := range requests {
		for j := range requests[i].Attachments {
			batch = append(batch, &requests[i].Attachments[j])
		}
	}
	signAttachmentBatch(ctx, batch, config.AttachmentDownloadTTL)
}

func WithSignedMessageAttachments(ctx context.Context, messages []models.PortalMessage) {
	batch := []*types.Attachment{}
	for i := range messages {
		for j := range messages[i].Attachments {
			batch = append(batch, &messages[i].Attachments[j])
		}
	}
	signAttachmentBatch(ctx, batch, config.AttachmentDownloadTTL)
}

type PortalAsset struct {
	ID          uuid.UUID `json:"id"`
	Title       *string   `json:"title,omitempty"`
	FileName    string    `json:"file_name,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	DownloadURL *string   `json:"download_url"`
}

// SignPortalAssets maps vault documents to portal asset payloads with
// 60-minute download links, resolved concurrently.
func SignPortalAssets(ctx context.Context, documents []models.Document) []PortalAsset {
	bucket := config.GetVaultBucket()
	assets := make([]PortalAsset, len(documents))
	var wg sync.WaitGroup
	for i, document := range documents {
		fileName := document.Name
		if len(document.PathTokens) > 0 {
			fileName = document.PathTokens[len(document.PathTokens)-1]
		}
		assets[i] = PortalAsset{
			ID:        document.ID,
			Title:     document.Title,
			FileName:  fileName,
			CreatedAt: document.CreatedAt,
		}
		if len(document.PathTokens) == 0 {
			continue
		}
		wg.Add(1)
		go func(i int, key string) {
			defer wg.Done()
			url, err := signDownloadURL(ctx, bucket, key, config.AssetDownloadTTL)
			if err != nil {
				log.Printf("Could not sign asset link for [%s]: %s\n", key, err.Error())
				return
			}
			assets[i].DownloadURL = &url
		}(i, strings.Join(document.PathTokens, "/"))
	}
	wg.Wait()
	return assets
}

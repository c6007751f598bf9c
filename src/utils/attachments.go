package utils

import (
	"path/filepath"
	"strings"

	"portal/src/config"
	"portal/src/types"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
)

var portalAttachmentFolders = map[string]bool{
	"portal-requests": true,
	"portal-messages": true,
	"messages":        true,
}

// SanitizePortalAttachments keeps only attachments whose storage path
// actually belongs to the authenticated team and customer:
// [teamId, "customers", customerId, <allowed folder>, ...]. Mismatched
// paths are stale client payloads or forged references to another
// tenant's files; they are dropped rather than failing the write, and
// the dropped count is returned so callers can log it.
func SanitizePortalAttachments(attachments []types.Attachment, teamId uuid.UUID, customerId uuid.UUID) ([]types.Attachment, int) {
	kept := []types.Attachment{}
	dropped := 0
	for _, attachment := range attachments {
		if len(attachment.Path) < 4 {
			dropped++
			continue
		}
		if attachment.Path[0] != teamId.String() ||
			attachment.Path[1] != "customers" ||
			attachment.Path[2] != customerId.String() ||
			!portalAttachmentFolders[attachment.Path[3]] {
			dropped++
			continue
		}
		if len(kept) == config.MaxPortalAttachments {
			dropped++
			continue
		}
		kept = append(kept, attachment)
	}
	return kept, dropped
}

// SanitizePortalFileName flattens a client-supplied file name into a
// safe object key segment, preserving the extension.
func SanitizePortalFileName(fileName string) string {
	base := strings.ReplaceAll(fileName, "\\", "/")
	base = filepath.Base(base)
	ext := filepath.Ext(base)
	name := slug.Make(strings.TrimSuffix(base, ext))
	if name == "" {
		name = "attachment"
	}
	return name + strings.ToLower(ext)
}

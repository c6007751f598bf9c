package utils

import (
	"fmt"
	"testing"

	"portal/src/types"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func portalPath(teamId uuid.UUID, customerId uuid.UUID, folder string, name string) []string {
	return []string{teamId.String(), "customers", customerId.String(), folder, name}
}

func TestSanitizePortalAttachments(t *testing.T) {
	teamId := uuid.New()
	customerId := uuid.New()
	otherTeam := uuid.New()
	otherCustomer := uuid.New()

	t.Run("keeps paths scoped to the caller", func(t *testing.T) {
		attachments := []types.Attachment{
			{Name: "brief.pdf", Path: portalPath(teamId, customerId, "portal-requests", "brief.pdf")},
			{Name: "note.txt", Path: portalPath(teamId, customerId, "portal-messages", "note.txt")},
			{Name: "legacy.txt", Path: portalPath(teamId, customerId, "messages", "legacy.txt")},
		}
		kept, dropped := SanitizePortalAttachments(attachments, teamId, customerId)

		assert.Len(t, kept, 3)
		assert.Zero(t, dropped)
	})

	t.Run("drops paths belonging to another tenant", func(t *testing.T) {
		attachments := []types.Attachment{
			{Name: "theirs.pdf", Path: portalPath(otherTeam, customerId, "portal-requests", "theirs.pdf")},
			{Name: "other.pdf", Path: portalPath(teamId, otherCustomer, "portal-requests", "other.pdf")},
			{Name: "vault.pdf", Path: []string{teamId.String(), "customers", customerId.String(), "vault", "vault.pdf"}},
			{Name: "short.pdf", Path: []string{teamId.String(), "customers"}},
			{Name: "ok.pdf", Path: portalPath(teamId, customerId, "portal-requests", "ok.pdf")},
		}
		kept, dropped := SanitizePortalAttachments(attachments, teamId, customerId)

		assert.Len(t, kept, 1)
		assert.Equal(t, "ok.pdf", kept[0].Name)
		assert.Equal(t, 4, dropped)
	})

	t.Run("caps the kept list", func(t *testing.T) {
		attachments := []types.Attachment{}
		for i := 0; i < 12; i++ {
			name := fmt.Sprintf("file-%d.pdf", i)
			attachments = append(attachments, types.Attachment{
				Name: name,
				Path: portalPath(teamId, customerId, "portal-requests", name),
			})
		}
		kept, dropped := SanitizePortalAttachments(attachments, teamId, customerId)

		assert.Len(t, kept, 10)
		assert.Equal(t, 2, dropped)
	})

	t.Run("empty input keeps nothing and drops nothing", func(t *testing.T) {
		kept, dropped := SanitizePortalAttachments(nil, teamId, customerId)

		assert.Empty(t, kept)
		assert.Zero(t, dropped)
	})
}

func TestSanitizePortalFileName(t *testing.T) {
	assert.Equal(t, "quarterly-report.pdf", SanitizePortalFileName("Quarterly Report.PDF"))
	assert.Equal(t, "passwd", SanitizePortalFileName("../../etc/passwd"))
	assert.Equal(t, "invoice.png", SanitizePortalFileName("C:\\Users\\someone\\Invoice.png"))
	assert.Equal(t, "attachment.pdf", SanitizePortalFileName("???.pdf"))
}

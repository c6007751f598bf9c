package config

import (
	"fmt"
	"os"
	"time"
)

func GetDSN() string {
	DATABASE_HOST := os.Getenv("DATABASE_HOST")
	DATABASE_PORT := os.Getenv("DATABASE_PORT")
	DATABASE_SSLMODE := os.Getenv("DATABASE_SSLMODE")
	DATABASE_TIMEZONE := os.Getenv("DATABASE_TIMEZONE")
	DATABASE_USER := os.Getenv("DATABASE_USER")
	DATABASE_PASSWORD := os.Getenv("DATABASE_PASSWORD")
	DATABASE_NAME := os.Getenv("DATABASE_NAME")
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=%s", DATABASE_HOST, DATABASE_USER, DATABASE_PASSWORD, DATABASE_NAME, DATABASE_PORT, DATABASE_SSLMODE, DATABASE_TIMEZONE)
	return dsn
}

func GetVaultBucket() string {
	bucket := os.Getenv("S3_VAULT_BUCKET")
	if bucket == "" {
		bucket = "vault"
	}
	return bucket
}

const (
	// Signed download links for request/message attachments.
	AttachmentDownloadTTL = 30 * time.Minute
	// Signed download links for vault assets.
	AssetDownloadTTL = 60 * time.Minute
	// Presigned upload URLs handed to the portal uploader.
	UploadURLTTL = 15 * time.Minute
	// Login codes expire together with their cached entry.
	LoginCodeTTL = 15 * time.Minute
	// Portal session tokens minted after code verification.
	PortalSessionTTL = 12 * time.Hour

	MaxPortalAttachments = 10
	MaxPortalResources   = 10

	DefaultMessagePageSize = 100
	MaxMessagePageSize     = 200
)

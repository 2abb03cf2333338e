package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Storage backend selectors.
const (
	StorageBackendDrive = "drive"
	StorageBackendR2    = "r2"
)

// Config holds every configuration parameter of the application.
type Config struct {
	ServerPort  int
	Environment string

	// Google service account shared by the Sheets and Drive clients.
	GoogleClientEmail string
	GooglePrivateKey  string

	// One spreadsheet per registration flow.
	WorkshopSheetID string
	EventSheetID    string

	// Attachment storage.
	StorageBackend     string
	DriveFolderID      string
	R2AccountID        string
	R2AccessKeyID      string
	R2SecretAccessKey  string
	R2BucketName       string
	R2PublicBaseURL    string
	R2AttachmentPrefix string
}

// Load reads the configuration from environment variables, optionally
// seeding them from a .env file. Missing credentials or sheet identifiers
// are fatal: no request could possibly succeed without them.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Environment:        strings.TrimSpace(os.Getenv("ENVIRONMENT")),
		GoogleClientEmail:  strings.TrimSpace(os.Getenv("GOOGLE_CLIENT_EMAIL")),
		GooglePrivateKey:   normalizePrivateKey(os.Getenv("GOOGLE_PRIVATE_KEY")),
		WorkshopSheetID:    strings.TrimSpace(os.Getenv("GOOGLE_SHEET_ID_WORKSHOP")),
		EventSheetID:       strings.TrimSpace(os.Getenv("GOOGLE_SHEET_ID_TECHELONS")),
		StorageBackend:     strings.TrimSpace(os.Getenv("STORAGE_BACKEND")),
		DriveFolderID:      strings.TrimSpace(os.Getenv("GOOGLE_DRIVE_FOLDER_ID")),
		R2AccountID:        strings.TrimSpace(os.Getenv("R2_ACCOUNT_ID")),
		R2AccessKeyID:      strings.TrimSpace(os.Getenv("R2_ACCESS_KEY_ID")),
		R2SecretAccessKey:  strings.TrimSpace(os.Getenv("R2_SECRET_ACCESS_KEY")),
		R2BucketName:       strings.TrimSpace(os.Getenv("R2_BUCKET_NAME")),
		R2PublicBaseURL:    strings.TrimSpace(os.Getenv("R2_PUBLIC_BASE_URL")),
		R2AttachmentPrefix: strings.TrimSpace(os.Getenv("R2_ATTACHMENT_PREFIX")),
	}

	if cfg.GoogleClientEmail == "" || cfg.GooglePrivateKey == "" {
		return nil, fmt.Errorf("GOOGLE_CLIENT_EMAIL and GOOGLE_PRIVATE_KEY environment variables are required")
	}
	if cfg.WorkshopSheetID == "" {
		return nil, fmt.Errorf("GOOGLE_SHEET_ID_WORKSHOP environment variable is not set")
	}
	if cfg.EventSheetID == "" {
		return nil, fmt.Errorf("GOOGLE_SHEET_ID_TECHELONS environment variable is not set")
	}

	if cfg.StorageBackend == "" {
		cfg.StorageBackend = StorageBackendDrive
	}
	switch cfg.StorageBackend {
	case StorageBackendDrive:
		if cfg.DriveFolderID == "" {
			return nil, fmt.Errorf("GOOGLE_DRIVE_FOLDER_ID environment variable is not set")
		}
	case StorageBackendR2:
		if cfg.R2AccountID == "" || cfg.R2AccessKeyID == "" || cfg.R2SecretAccessKey == "" ||
			cfg.R2BucketName == "" || cfg.R2PublicBaseURL == "" {
			return nil, fmt.Errorf("R2_ACCOUNT_ID, R2_ACCESS_KEY_ID, R2_SECRET_ACCESS_KEY, R2_BUCKET_NAME and R2_PUBLIC_BASE_URL are required for the r2 backend")
		}
	default:
		return nil, fmt.Errorf("STORAGE_BACKEND must be %q or %q, got %q", StorageBackendDrive, StorageBackendR2, cfg.StorageBackend)
	}

	portStr := os.Getenv("SERVER_PORT")
	if portStr == "" {
		portStr = "8080"
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, fmt.Errorf("invalid SERVER_PORT environment variable: %w", err)
	}
	if port <= 0 || port > 65535 {
		return nil, fmt.Errorf("SERVER_PORT must be between 1 and 65535, got %d", port)
	}
	cfg.ServerPort = port

	return cfg, nil
}

// IsDevelopment reports whether the development configuration is active.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// normalizePrivateKey converts the escaped newlines that env files and
// deployment dashboards introduce into real ones.
func normalizePrivateKey(key string) string {
	return strings.ReplaceAll(strings.TrimSpace(key), `\n`, "\n")
}

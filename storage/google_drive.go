package storage

import (
	"context"
	"errors"
	"fmt"
	"io"

	"golang.org/x/oauth2/google"
	"golang.org/x/oauth2/jwt"
	drivev3 "google.golang.org/api/drive/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

// GoogleDriveUploaderConfig configures the Drive-backed uploader. Every
// uploaded file lands in the configured folder.
type GoogleDriveUploaderConfig struct {
	ClientEmail string
	PrivateKey  string
	FolderID    string
}

type googleDriveUploader struct {
	srv      *drivev3.Service
	folderID string
}

// NewGoogleDriveUploader authorizes the service account for the drive.file
// scope and returns an uploader writing into the configured folder.
func NewGoogleDriveUploader(ctx context.Context, cfg GoogleDriveUploaderConfig) (FileUploader, error) {
	if cfg.ClientEmail == "" || cfg.PrivateKey == "" {
		return nil, errors.New("invalid Google Drive configuration: credentials are required")
	}
	if cfg.FolderID == "" {
		return nil, errors.New("invalid Google Drive configuration: folder ID is required")
	}

	conf := &jwt.Config{
		Email:      cfg.ClientEmail,
		PrivateKey: []byte(cfg.PrivateKey),
		Scopes:     []string{drivev3.DriveFileScope},
		TokenURL:   google.JWTTokenURL,
	}

	srv, err := drivev3.NewService(ctx, option.WithTokenSource(conf.TokenSource(ctx)))
	if err != nil {
		return nil, fmt.Errorf("create Drive service: %w", err)
	}

	return &googleDriveUploader{srv: srv, folderID: cfg.FolderID}, nil
}

func (u *googleDriveUploader) Upload(ctx context.Context, name string, contentType string, reader io.Reader) (*UploadResult, error) {
	meta := &drivev3.File{
		Name:    name,
		Parents: []string{u.folderID},
	}

	created, err := u.srv.Files.Create(meta).
		Media(reader, googleapi.ContentType(contentType)).
		Fields("id").
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("failed to upload file to Drive (name: %s): %w", name, err)
	}

	return &UploadResult{
		ID:   created.Id,
		Name: name,
		URL:  fmt.Sprintf("https://drive.google.com/file/d/%s/view", created.Id),
	}, nil
}

func (u *googleDriveUploader) Delete(ctx context.Context, id string) error {
	if err := u.srv.Files.Delete(id).Context(ctx).Do(); err != nil {
		return fmt.Errorf("failed to delete file from Drive (id: %s): %w", id, err)
	}
	return nil
}

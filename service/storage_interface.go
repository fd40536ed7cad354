package service

import (
	"context"

	"radha-kanna-retail/models"
)

// ItemMetadata is the descriptive data attached to an upload. Each
// field is sent individually to the remote store.
type ItemMetadata struct {
	Name        string
	Price       string
	Description string
	Category    string
}

// UploadInput is one binary upload plus its target folder and metadata.
type UploadInput struct {
	Content     []byte
	ContentType string
	Folder      string
	Metadata    ItemMetadata
}

// ObjectStorageInterface defines the contract for the external image
// store: a black-box write returning a remote identity, and a black-box
// folder listing used by the viewer surfaces.
type ObjectStorageInterface interface {
	Upload(ctx context.Context, in UploadInput) (*models.UploadResult, error)
	ListFolder(ctx context.Context, folder string) ([]models.StoredObject, error)
}

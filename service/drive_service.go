package service

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"strings"
	"sync"

	"radha-kanna-retail/models"

	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"
)

// DriveService is an ObjectStorage implementation backed by Google
// Drive: one subfolder of a root folder per category, item metadata
// carried in appProperties.
// Implements ObjectStorageInterface
type DriveService struct {
	client       *drive.Service
	rootFolderID string

	mu      sync.Mutex
	folders map[string]string // category -> folder id
}

// NewDriveService creates a new DriveService instance
// credentialsPath should be the path to the Service Account JSON file
func NewDriveService(credentialsPath, rootFolderID string) (*DriveService, error) {
	ctx := context.Background()

	// option.WithCredentialsFile automatically handles Service Account authentication
	driveService, err := drive.NewService(ctx, option.WithCredentialsFile(credentialsPath))
	if err != nil {
		return nil, fmt.Errorf("failed to create drive service: %w", err)
	}

	if rootFolderID == "" {
		return nil, fmt.Errorf("drive root folder id is required")
	}

	return &DriveService{
		client:       driveService,
		rootFolderID: rootFolderID,
		folders:      make(map[string]string),
	}, nil
}

// Ensure DriveService implements ObjectStorageInterface
var _ ObjectStorageInterface = (*DriveService)(nil)

// folderIDFor resolves (creating on demand) the Drive folder backing a
// category. Resolved ids are cached for the process lifetime.
func (ds *DriveService) folderIDFor(category string) (string, error) {
	ds.mu.Lock()
	defer ds.mu.Unlock()

	if id, ok := ds.folders[category]; ok {
		return id, nil
	}

	query := fmt.Sprintf(
		"'%s' in parents and name = '%s' and mimeType = 'application/vnd.google-apps.folder' and trashed=false",
		ds.rootFolderID, strings.ReplaceAll(category, "'", "\\'"))

	r, err := ds.client.Files.List().Q(query).Fields("files(id)").Do()
	if err != nil {
		return "", fmt.Errorf("failed to look up category folder: %w", err)
	}

	if len(r.Files) > 0 {
		ds.folders[category] = r.Files[0].Id
		return r.Files[0].Id, nil
	}

	folder, err := ds.client.Files.Create(&drive.File{
		Name:     category,
		MimeType: "application/vnd.google-apps.folder",
		Parents:  []string{ds.rootFolderID},
	}).Fields("id").Do()
	if err != nil {
		return "", fmt.Errorf("failed to create category folder: %w", err)
	}

	log.Printf("📁 Created Drive folder for category %s (id: %s)", category, folder.Id)
	ds.folders[category] = folder.Id
	return folder.Id, nil
}

// Upload stores one image in the category's folder. The resulting file
// id and its public URL form the item's remote identity.
func (ds *DriveService) Upload(ctx context.Context, in UploadInput) (*models.UploadResult, error) {
	folderID, err := ds.folderIDFor(in.Folder)
	if err != nil {
		return nil, err
	}

	name := in.Metadata.Name
	if name == "" {
		name = "untitled"
	}

	meta := &drive.File{
		Name:    name,
		Parents: []string{folderID},
		AppProperties: map[string]string{
			"name":        in.Metadata.Name,
			"price":       in.Metadata.Price,
			"description": in.Metadata.Description,
			"category":    in.Metadata.Category,
		},
	}

	call := ds.client.Files.Create(meta).
		Media(bytes.NewReader(in.Content)).
		Fields("id")

	file, err := call.Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to upload file: %w", err)
	}

	return &models.UploadResult{
		RemoteID:  file.Id,
		RemoteURL: fmt.Sprintf("https://drive.google.com/uc?id=%s", file.Id),
	}, nil
}

// ListFolder lists all image files in a category's folder.
func (ds *DriveService) ListFolder(ctx context.Context, folder string) ([]models.StoredObject, error) {
	folderID, err := ds.folderIDFor(folder)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf("'%s' in parents and trashed=false", folderID)

	var allFiles []*drive.File
	pageToken := ""
	for {
		call := ds.client.Files.List().
			Q(query).
			Fields("nextPageToken, files(id, name, mimeType)")

		if pageToken != "" {
			call = call.PageToken(pageToken)
		}

		r, err := call.Context(ctx).Do()
		if err != nil {
			return nil, fmt.Errorf("failed to list files: %w", err)
		}

		allFiles = append(allFiles, r.Files...)
		pageToken = r.NextPageToken

		if pageToken == "" {
			break
		}
	}

	imageMimeTypes := map[string]string{
		"image/png":  "png",
		"image/jpeg": "jpg",
		"image/jpg":  "jpg",
	}

	var objects []models.StoredObject
	for _, file := range allFiles {
		format, ok := imageMimeTypes[strings.ToLower(file.MimeType)]
		if !ok {
			continue
		}

		objects = append(objects, models.StoredObject{
			RemoteID:  file.Id,
			RemoteURL: fmt.Sprintf("https://drive.google.com/uc?id=%s", file.Id),
			Format:    format,
		})
	}

	return objects, nil
}

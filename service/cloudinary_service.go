package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"radha-kanna-retail/models"
)

// CloudinaryService talks to the Cloudinary HTTP API: unsigned uploads
// into per-category folders and an authenticated folder search for the
// viewer listings.
// Implements ObjectStorageInterface
type CloudinaryService struct {
	cloudName    string
	uploadPreset string
	apiKey       string
	apiSecret    string
	folderPrefix string // e.g. "products"
	httpClient   *http.Client
}

// NewCloudinaryService creates a new CloudinaryService instance.
// apiKey/apiSecret are only required for folder listings; unsigned
// uploads need just the cloud name and upload preset.
func NewCloudinaryService(cloudName, uploadPreset, apiKey, apiSecret string) (*CloudinaryService, error) {
	if cloudName == "" || uploadPreset == "" {
		return nil, fmt.Errorf("cloudinary cloud name and upload preset are required")
	}

	return &CloudinaryService{
		cloudName:    cloudName,
		uploadPreset: uploadPreset,
		apiKey:       apiKey,
		apiSecret:    apiSecret,
		folderPrefix: "products",
		httpClient:   &http.Client{Timeout: 60 * time.Second},
	}, nil
}

// Ensure CloudinaryService implements ObjectStorageInterface
var _ ObjectStorageInterface = (*CloudinaryService)(nil)

// folderFor returns the remote folder for a category, e.g. "products/Toys".
func (s *CloudinaryService) folderFor(category string) string {
	if s.folderPrefix == "" {
		return category
	}
	return s.folderPrefix + "/" + category
}

// uploadResponse is the subset of Cloudinary's upload response we use.
type uploadResponse struct {
	PublicID  string `json:"public_id"`
	SecureURL string `json:"secure_url"`
	Error     struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Upload submits one image to Cloudinary's unsigned upload endpoint.
// Metadata fields are attached individually as contextual key/value
// pairs so the store keeps them alongside the asset.
func (s *CloudinaryService) Upload(ctx context.Context, in UploadInput) (*models.UploadResult, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	part, err := writer.CreateFormFile("file", "upload")
	if err != nil {
		return nil, fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := part.Write(in.Content); err != nil {
		return nil, fmt.Errorf("failed to write file content: %w", err)
	}

	fields := map[string]string{
		"upload_preset":        s.uploadPreset,
		"folder":               s.folderFor(in.Folder),
		"context[name]":        in.Metadata.Name,
		"context[price]":       in.Metadata.Price,
		"context[description]": in.Metadata.Description,
		"context[category]":    in.Metadata.Category,
	}
	for key, value := range fields {
		if err := writer.WriteField(key, value); err != nil {
			return nil, fmt.Errorf("failed to write form field %s: %w", key, err)
		}
	}

	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize form: %w", err)
	}

	uploadURL := fmt.Sprintf("https://api.cloudinary.com/v1_1/%s/image/upload", s.cloudName)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, uploadURL, &body)
	if err != nil {
		return nil, fmt.Errorf("failed to build upload request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("upload request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read upload response: %w", err)
	}

	var parsed uploadResponse
	if err := json.Unmarshal(data, &parsed); err != nil {
		return nil, fmt.Errorf("failed to decode upload response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		if parsed.Error.Message != "" {
			return nil, fmt.Errorf("upload rejected: %s", parsed.Error.Message)
		}
		return nil, fmt.Errorf("upload rejected with status %d", resp.StatusCode)
	}

	if parsed.PublicID == "" || parsed.SecureURL == "" {
		return nil, fmt.Errorf("upload response missing public_id or secure_url")
	}

	log.Printf("✅ Uploaded asset to %s (public_id: %s)", s.folderFor(in.Folder), parsed.PublicID)
	return &models.UploadResult{
		RemoteID:  parsed.PublicID,
		RemoteURL: parsed.SecureURL,
	}, nil
}

// searchResponse is the subset of Cloudinary's search response we use.
type searchResponse struct {
	Resources []struct {
		PublicID  string `json:"public_id"`
		SecureURL string `json:"secure_url"`
		Format    string `json:"format"`
	} `json:"resources"`
}

// ListFolder lists the assets stored under a category's folder.
func (s *CloudinaryService) ListFolder(ctx context.Context, folder string) ([]models.StoredObject, error) {
	if s.apiKey == "" || s.apiSecret == "" {
		return nil, fmt.Errorf("cloudinary api credentials are required for folder listings")
	}

	payload := map[string]interface{}{
		"expression":  fmt.Sprintf("folder:%s", s.folderFor(folder)),
		"max_results": 30,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode search request: %w", err)
	}

	searchURL := fmt.Sprintf("https://api.cloudinary.com/v1_1/%s/resources/search", s.cloudName)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, searchURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build search request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth(s.apiKey, s.apiSecret)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("search rejected with status %d", resp.StatusCode)
	}

	var parsed searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("failed to decode search response: %w", err)
	}

	objects := make([]models.StoredObject, 0, len(parsed.Resources))
	for _, res := range parsed.Resources {
		objects = append(objects, models.StoredObject{
			RemoteID:  res.PublicID,
			RemoteURL: res.SecureURL,
			Format:    res.Format,
		})
	}

	return objects, nil
}

// DisplayName derives a readable item name from a remote id, which is
// the public id's last path segment.
func DisplayName(remoteID string) string {
	if idx := strings.LastIndex(remoteID, "/"); idx >= 0 {
		return remoteID[idx+1:]
	}
	return remoteID
}

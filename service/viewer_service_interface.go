package service

import (
	"context"

	"radha-kanna-retail/models"
)

// ViewerServiceInterface defines the contract for the read-only viewer
// surfaces: listings assembled from the remote store's folders.
type ViewerServiceInterface interface {
	// Listing returns category order plus the viewer items per category.
	Listing(ctx context.Context) ([]string, map[string][]models.ViewerItem, error)
	// CategoryItems returns the viewer items of one category.
	CategoryItems(ctx context.Context, category string) ([]models.ViewerItem, error)
	// CategoryObjects returns the raw folder listing of one category.
	CategoryObjects(ctx context.Context, category string) ([]models.StoredObject, error)
}

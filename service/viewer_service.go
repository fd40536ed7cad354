package service

import (
	"context"
	"fmt"
	"log"

	"radha-kanna-retail/models"
)

// ViewerService assembles the category listings served to end users.
// The listing always reflects what is actually in the remote store;
// name, price and description are filled in from the local catalog when
// a listed object matches a synced item's remote id.
// Implements ViewerServiceInterface
type ViewerService struct {
	store   CatalogStoreInterface
	storage ObjectStorageInterface
}

// NewViewerService creates a new ViewerService.
func NewViewerService(store CatalogStoreInterface, storage ObjectStorageInterface) *ViewerService {
	return &ViewerService{store: store, storage: storage}
}

// Ensure ViewerService implements ViewerServiceInterface
var _ ViewerServiceInterface = (*ViewerService)(nil)

// Listing builds the full category → items mapping. A single category's
// listing failure yields an empty list for that category, not a failed
// response.
func (s *ViewerService) Listing(ctx context.Context) ([]string, map[string][]models.ViewerItem, error) {
	order := s.store.Categories()
	listing := make(map[string][]models.ViewerItem, len(order))

	for _, category := range order {
		items, err := s.CategoryItems(ctx, category)
		if err != nil {
			log.Printf("❌ Error fetching listing for category %s: %v", category, err)
			listing[category] = []models.ViewerItem{}
			continue
		}
		listing[category] = items
	}

	return order, listing, nil
}

// CategoryItems lists one category's folder and enriches the entries
// with local catalog fields.
func (s *ViewerService) CategoryItems(ctx context.Context, category string) ([]models.ViewerItem, error) {
	objects, err := s.storage.ListFolder(ctx, category)
	if err != nil {
		return nil, fmt.Errorf("failed to list folder for %s: %w", category, err)
	}

	byRemoteID := s.persistedByRemoteID()

	items := make([]models.ViewerItem, 0, len(objects))
	for _, obj := range objects {
		item := models.ViewerItem{
			Name:          DisplayName(obj.RemoteID),
			CloudinaryURL: obj.RemoteURL,
		}
		if local, ok := byRemoteID[obj.RemoteID]; ok {
			if local.Name != "" {
				item.Name = local.Name
			}
			item.Price = local.Price
			item.Description = local.Description
		}
		items = append(items, item)
	}

	return items, nil
}

// CategoryObjects returns the raw folder listing for the admin surface.
func (s *ViewerService) CategoryObjects(ctx context.Context, category string) ([]models.StoredObject, error) {
	objects, err := s.storage.ListFolder(ctx, category)
	if err != nil {
		return nil, fmt.Errorf("failed to list folder for %s: %w", category, err)
	}
	return objects, nil
}

// persistedByRemoteID indexes the catalog's synced items by remote id.
func (s *ViewerService) persistedByRemoteID() map[string]models.PersistentItem {
	snapshot := s.store.Snapshot()
	byID := make(map[string]models.PersistentItem)
	for _, items := range snapshot.Categories {
		for _, item := range items {
			if item.RemoteID != "" {
				byID[item.RemoteID] = item
			}
		}
	}
	return byID
}

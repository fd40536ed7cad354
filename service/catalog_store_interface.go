package service

import (
	"context"

	"radha-kanna-retail/models"
)

// CatalogStoreInterface defines the contract for the category/item
// state manager. Positional operations address items by their index
// within a category; the ByID variants address them by the stable
// identifier assigned at creation and are immune to index shifts.
type CatalogStoreInterface interface {
	CreateCategory(ctx context.Context, name string) error
	AddItems(ctx context.Context, category string, files []models.FileUpload) error
	EditField(ctx context.Context, category string, index int, field, value string) error
	DeleteItem(ctx context.Context, category string, index int) error
	MoveItem(ctx context.Context, fromCategory string, index int, toCategory string) error

	EditFieldByID(ctx context.Context, category, itemID, field, value string) error
	DeleteItemByID(ctx context.Context, category, itemID string) error
	MoveItemByID(ctx context.Context, fromCategory, itemID, toCategory string) error

	Categories() []string
	ActiveCategory() string
	Items(category string) ([]*models.Item, error)
	Item(category string, index int) (*models.Item, error)
	ItemCount() int
	Snapshot() *models.PersistentSnapshot

	SyncPlan() []SyncCandidate
	SetRemoteIdentity(category, itemID string, result models.UploadResult) error
	PersistSnapshot(ctx context.Context) error
}

package service

import (
	"context"
	"fmt"
	"log"
	"sort"
	"strings"
	"sync"

	"radha-kanna-retail/models"
	"radha-kanna-retail/repository"

	"github.com/google/uuid"
)

// CatalogStore owns the in-memory mapping of category name to its
// ordered list of items, and is the only component that mutates it.
// Every mutation synchronously rewrites the durable snapshot before
// returning, so a crash right after a call cannot lose committed state
// for already-synced items. All calls are serialized through one mutex
// (single-writer design), which also covers a sync pass mutating items
// through SetRemoteIdentity.
// Implements CatalogStoreInterface
type CatalogStore struct {
	mu         sync.Mutex
	order      []string // category insertion order
	categories map[string][]*models.Item
	active     string

	snapshots repository.SnapshotRepositoryInterface
	previews  PreviewServiceInterface
}

// NewCatalogStore creates an empty CatalogStore.
func NewCatalogStore(snapshots repository.SnapshotRepositoryInterface, previews PreviewServiceInterface) *CatalogStore {
	return &CatalogStore{
		categories: make(map[string][]*models.Item),
		snapshots:  snapshots,
		previews:   previews,
	}
}

// Ensure CatalogStore implements CatalogStoreInterface
var _ CatalogStoreInterface = (*CatalogStore)(nil)

// Rehydrate replaces the in-memory catalog with the last persisted
// snapshot. Rehydrated items carry no blob or preview; they get fresh
// stable identifiers. The first category becomes the active selection.
func (s *CatalogStore) Rehydrate(ctx context.Context) error {
	snapshot, err := s.snapshots.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to rehydrate catalog: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.order = nil
	s.categories = make(map[string][]*models.Item)
	restore := func(name string) {
		persisted, ok := snapshot.Categories[name]
		if !ok {
			return
		}
		if _, dup := s.categories[name]; dup {
			return
		}
		items := make([]*models.Item, 0, len(persisted))
		for _, p := range persisted {
			items = append(items, &models.Item{
				ID:          uuid.NewString(),
				Name:        p.Name,
				Price:       p.Price,
				Description: p.Description,
				RemoteID:    p.RemoteID,
				RemoteURL:   p.RemoteURL,
			})
		}
		s.order = append(s.order, name)
		s.categories[name] = items
	}

	for _, name := range snapshot.CategoryOrder {
		restore(name)
	}

	// Categories the order array does not mention still rehydrate; a
	// stale order must never drop their items.
	var unlisted []string
	for name := range snapshot.Categories {
		if _, ok := s.categories[name]; !ok {
			unlisted = append(unlisted, name)
		}
	}
	sort.Strings(unlisted)
	for _, name := range unlisted {
		restore(name)
	}

	if len(s.order) > 0 {
		s.active = s.order[0]
	}

	log.Printf("📦 Catalog rehydrated: %d categories, %d items", len(s.order), s.itemCountLocked())
	return nil
}

// CreateCategory inserts an empty category and marks it active. An
// existing category is only re-selected, never replaced.
func (s *CatalogStore) CreateCategory(ctx context.Context, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("%w: category name is empty", models.ErrInvalidInput)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.active = name
	if _, exists := s.categories[name]; exists {
		return nil
	}

	s.categories[name] = []*models.Item{}
	s.order = append(s.order, name)

	return s.persistLocked(ctx)
}

// AddItems appends one unsynced item per input file to the end of the
// category's sequence, in input order.
func (s *CatalogStore) AddItems(ctx context.Context, category string, files []models.FileUpload) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.categories[category]; category == "" || !exists {
		return fmt.Errorf("%w: unknown category %q", models.ErrInvalidInput, category)
	}
	if len(files) == 0 {
		return nil
	}

	for _, file := range files {
		item := &models.Item{
			ID:          uuid.NewString(),
			LocalBlob:   file.Content,
			ContentType: file.ContentType,
		}

		if s.previews != nil {
			path, err := s.previews.Materialize(item.ID, file.Content)
			if err != nil {
				log.Printf("⚠️  Warning: failed to materialize preview for %s: %v", file.Filename, err)
			} else {
				item.PreviewPath = path
			}
		}

		s.categories[category] = append(s.categories[category], item)
	}

	return s.persistLocked(ctx)
}

// EditField replaces one of the editable fields (name/price/description)
// of the item at the given position. Remote identity is never touched.
func (s *CatalogStore) EditField(ctx context.Context, category string, index int, field, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	item, err := s.itemAtLocked(category, index)
	if err != nil {
		return err
	}
	return s.editLocked(ctx, item, field, value)
}

// EditFieldByID is EditField addressed by the item's stable identifier.
func (s *CatalogStore) EditFieldByID(ctx context.Context, category, itemID, field, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	index, err := s.indexOfLocked(category, itemID)
	if err != nil {
		return err
	}
	return s.editLocked(ctx, s.categories[category][index], field, value)
}

func (s *CatalogStore) editLocked(ctx context.Context, item *models.Item, field, value string) error {
	if !models.EditableFields[field] {
		return fmt.Errorf("%w: field %q is not editable", models.ErrInvalidInput, field)
	}

	switch field {
	case "name":
		item.Name = value
	case "price":
		item.Price = value
	case "description":
		item.Description = value
	}

	return s.persistLocked(ctx)
}

// DeleteItem removes the item at the given position, shifting later
// indices down by one. The item's preview is released with it.
func (s *CatalogStore) DeleteItem(ctx context.Context, category string, index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.deleteLocked(ctx, category, index)
}

// DeleteItemByID is DeleteItem addressed by the item's stable identifier.
func (s *CatalogStore) DeleteItemByID(ctx context.Context, category, itemID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	index, err := s.indexOfLocked(category, itemID)
	if err != nil {
		return err
	}
	return s.deleteLocked(ctx, category, index)
}

func (s *CatalogStore) deleteLocked(ctx context.Context, category string, index int) error {
	item, err := s.itemAtLocked(category, index)
	if err != nil {
		return err
	}

	if s.previews != nil {
		s.previews.Release(item.PreviewPath)
	}

	items := s.categories[category]
	s.categories[category] = append(items[:index], items[index+1:]...)

	return s.persistLocked(ctx)
}

// MoveItem removes the item from its category and appends it, with all
// fields intact, to the end of the target category. A move never forces
// a re-upload: the remote identity travels with the item, and so does
// an unsynced item's blob and preview. Moving to the same, an empty or
// an unknown target is a no-op.
func (s *CatalogStore) MoveItem(ctx context.Context, fromCategory string, index int, toCategory string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.moveLocked(ctx, fromCategory, index, toCategory)
}

// MoveItemByID is MoveItem addressed by the item's stable identifier.
func (s *CatalogStore) MoveItemByID(ctx context.Context, fromCategory, itemID, toCategory string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	index, err := s.indexOfLocked(fromCategory, itemID)
	if err != nil {
		return err
	}
	return s.moveLocked(ctx, fromCategory, index, toCategory)
}

func (s *CatalogStore) moveLocked(ctx context.Context, fromCategory string, index int, toCategory string) error {
	if _, exists := s.categories[fromCategory]; !exists {
		return fmt.Errorf("%w: unknown category %q", models.ErrInvalidInput, fromCategory)
	}

	if toCategory == "" || toCategory == fromCategory {
		return nil
	}
	if _, exists := s.categories[toCategory]; !exists {
		return nil
	}

	item, err := s.itemAtLocked(fromCategory, index)
	if err != nil {
		return err
	}

	items := s.categories[fromCategory]
	s.categories[fromCategory] = append(items[:index], items[index+1:]...)
	s.categories[toCategory] = append(s.categories[toCategory], item)

	return s.persistLocked(ctx)
}

// SetRemoteIdentity joins the remote id and URL on an item in a single
// step and drops its local blob and preview. The identity is immutable:
// an item that already has one keeps it. The caller persists the
// snapshot separately (once per sync pass, not per item).
func (s *CatalogStore) SetRemoteIdentity(category, itemID string, result models.UploadResult) error {
	if result.RemoteID == "" || result.RemoteURL == "" {
		return fmt.Errorf("%w: remote identity requires both id and url", models.ErrInvalidInput)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	item := s.findByIDLocked(category, itemID)
	if item == nil {
		return fmt.Errorf("item %s no longer present in catalog", itemID)
	}
	if item.Synced() {
		return nil
	}

	item.RemoteID = result.RemoteID
	item.RemoteURL = result.RemoteURL
	item.LocalBlob = nil
	item.ContentType = ""

	if s.previews != nil {
		s.previews.Release(item.PreviewPath)
	}
	item.PreviewPath = ""

	return nil
}

// findByIDLocked looks the item up in its expected category first, then
// everywhere, since it may have been moved since the caller last saw it.
func (s *CatalogStore) findByIDLocked(category, itemID string) *models.Item {
	for _, item := range s.categories[category] {
		if item.ID == itemID {
			return item
		}
	}
	for _, name := range s.order {
		if name == category {
			continue
		}
		for _, item := range s.categories[name] {
			if item.ID == itemID {
				return item
			}
		}
	}
	return nil
}

// SyncCandidate is one item captured at the start of a sync pass,
// together with everything needed to upload it without going back to
// the store.
type SyncCandidate struct {
	Category    string
	Index       int
	ItemID      string
	Synced      bool
	Content     []byte
	ContentType string
	Metadata    ItemMetadata
}

// SyncPlan captures the catalog in category-then-index order for one
// sync pass. Positions added afterwards belong to the next pass.
func (s *CatalogStore) SyncPlan() []SyncCandidate {
	s.mu.Lock()
	defer s.mu.Unlock()

	var plan []SyncCandidate
	for _, name := range s.order {
		for index, item := range s.categories[name] {
			candidate := SyncCandidate{
				Category:    name,
				Index:       index,
				ItemID:      item.ID,
				Synced:      item.Synced(),
				ContentType: item.ContentType,
				Metadata: ItemMetadata{
					Name:        item.Name,
					Price:       item.Price,
					Description: item.Description,
					Category:    name,
				},
			}
			if item.LocalBlob != nil {
				candidate.Content = make([]byte, len(item.LocalBlob))
				copy(candidate.Content, item.LocalBlob)
			}
			plan = append(plan, candidate)
		}
	}
	return plan
}

// Categories returns category names in insertion order.
func (s *CatalogStore) Categories() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	names := make([]string, len(s.order))
	copy(names, s.order)
	return names
}

// ActiveCategory returns the currently selected category.
func (s *CatalogStore) ActiveCategory() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active
}

// Items returns deep copies of a category's items in sequence order.
func (s *CatalogStore) Items(category string) ([]*models.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	items, exists := s.categories[category]
	if !exists {
		return nil, fmt.Errorf("%w: unknown category %q", models.ErrInvalidInput, category)
	}

	copies := make([]*models.Item, 0, len(items))
	for _, item := range items {
		copies = append(copies, item.Clone())
	}
	return copies, nil
}

// Item returns a deep copy of the item at the given position.
func (s *CatalogStore) Item(category string, index int) (*models.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	item, err := s.itemAtLocked(category, index)
	if err != nil {
		return nil, err
	}
	return item.Clone(), nil
}

// ItemCount returns the total number of items across all categories.
func (s *CatalogStore) ItemCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.itemCountLocked()
}

func (s *CatalogStore) itemCountLocked() int {
	total := 0
	for _, items := range s.categories {
		total += len(items)
	}
	return total
}

// Snapshot returns the durable projection of the catalog.
func (s *CatalogStore) Snapshot() *models.PersistentSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *CatalogStore) snapshotLocked() *models.PersistentSnapshot {
	snapshot := &models.PersistentSnapshot{
		CategoryOrder: make([]string, len(s.order)),
		Categories:    make(map[string][]models.PersistentItem, len(s.order)),
	}
	copy(snapshot.CategoryOrder, s.order)

	for _, name := range s.order {
		items := s.categories[name]
		persisted := make([]models.PersistentItem, 0, len(items))
		for _, item := range items {
			persisted = append(persisted, item.Persistent())
		}
		snapshot.Categories[name] = persisted
	}
	return snapshot
}

// PersistSnapshot rewrites the durable snapshot. Used by the sync
// engine once after a full pass.
func (s *CatalogStore) PersistSnapshot(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.persistLocked(ctx)
}

// persistLocked writes the snapshot while holding the store lock, so
// snapshots always reach storage in mutation order. The in-memory
// mutation stands even when the write fails; callers may retry the
// persist without re-issuing the mutation.
func (s *CatalogStore) persistLocked(ctx context.Context) error {
	if s.snapshots == nil {
		return nil
	}
	if err := s.snapshots.Save(ctx, s.snapshotLocked()); err != nil {
		return err
	}
	return nil
}

func (s *CatalogStore) itemAtLocked(category string, index int) (*models.Item, error) {
	items, exists := s.categories[category]
	if !exists {
		return nil, fmt.Errorf("%w: unknown category %q", models.ErrInvalidInput, category)
	}
	if index < 0 || index >= len(items) {
		return nil, fmt.Errorf("%w: index %d in category %q (size %d)", models.ErrIndexOutOfRange, index, category, len(items))
	}
	return items[index], nil
}

func (s *CatalogStore) indexOfLocked(category, itemID string) (int, error) {
	items, exists := s.categories[category]
	if !exists {
		return 0, fmt.Errorf("%w: unknown category %q", models.ErrInvalidInput, category)
	}
	for index, item := range items {
		if item.ID == itemID {
			return index, nil
		}
	}
	return 0, fmt.Errorf("%w: item %s not found in category %q", models.ErrIndexOutOfRange, itemID, category)
}

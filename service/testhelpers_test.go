package service

import (
	"context"
	"fmt"
	"sync"

	"radha-kanna-retail/models"
)

// -------- test fakes --------

type fakeSnapshotRepo struct {
	mu       sync.Mutex
	saves    int
	last     *models.PersistentSnapshot
	saveErr  error
	loadSnap *models.PersistentSnapshot
	loadErr  error
}

func (f *fakeSnapshotRepo) Save(ctx context.Context, snapshot *models.PersistentSnapshot) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %v", models.ErrPersistence, err)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.saveErr != nil {
		return fmt.Errorf("%w: %v", models.ErrPersistence, f.saveErr)
	}
	f.saves++
	f.last = snapshot
	return nil
}

func (f *fakeSnapshotRepo) Load(ctx context.Context) (*models.PersistentSnapshot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.loadErr != nil {
		return nil, f.loadErr
	}
	if f.loadSnap != nil {
		return f.loadSnap, nil
	}
	return &models.PersistentSnapshot{Categories: map[string][]models.PersistentItem{}}, nil
}

func (f *fakeSnapshotRepo) saveCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.saves
}

type fakePreviews struct {
	mu           sync.Mutex
	materialized []string
	released     []string
	failNext     bool
}

func (f *fakePreviews) Materialize(itemID string, content []byte) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failNext {
		f.failNext = false
		return "", fmt.Errorf("decode failed")
	}
	path := "previews/" + itemID + ".jpg"
	f.materialized = append(f.materialized, path)
	return path, nil
}

func (f *fakePreviews) Read(path string) ([]byte, error) {
	return []byte("jpeg"), nil
}

func (f *fakePreviews) Release(path string) {
	if path == "" {
		return
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.released = append(f.released, path)
}

// fakeStorage scripts upload outcomes by item name and records the
// order uploads were issued in.
type fakeStorage struct {
	mu       sync.Mutex
	uploads  []UploadInput
	failFor  map[string]error // metadata name -> error
	nextID   int
	onUpload func(in UploadInput) // called before each upload
	listings map[string][]models.StoredObject
	listErr  error
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{
		failFor:  make(map[string]error),
		listings: make(map[string][]models.StoredObject),
	}
}

func (f *fakeStorage) Upload(ctx context.Context, in UploadInput) (*models.UploadResult, error) {
	if f.onUpload != nil {
		f.onUpload(in)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if err, ok := f.failFor[in.Metadata.Name]; ok {
		return nil, err
	}

	f.uploads = append(f.uploads, in)
	f.nextID++
	id := fmt.Sprintf("products/%s/asset-%d", in.Folder, f.nextID)
	return &models.UploadResult{
		RemoteID:  id,
		RemoteURL: "https://cdn.example.com/" + id,
	}, nil
}

func (f *fakeStorage) ListFolder(ctx context.Context, folder string) ([]models.StoredObject, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.listings[folder], nil
}

func (f *fakeStorage) uploadCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.uploads)
}

package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"radha-kanna-retail/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) (*CatalogStore, *fakeSnapshotRepo, *fakePreviews) {
	t.Helper()
	repo := &fakeSnapshotRepo{}
	previews := &fakePreviews{}
	return NewCatalogStore(repo, previews), repo, previews
}

func addFiles(t *testing.T, s *CatalogStore, category string, n int) {
	t.Helper()
	files := make([]models.FileUpload, 0, n)
	for i := 0; i < n; i++ {
		files = append(files, models.FileUpload{
			Filename:    "photo.jpg",
			ContentType: "image/jpeg",
			Content:     []byte{0xff, 0xd8, byte(i)},
		})
	}
	require.NoError(t, s.AddItems(context.Background(), category, files))
}

func TestCreateCategory(t *testing.T) {
	ctx := context.Background()

	t.Run("empty name rejected", func(t *testing.T) {
		s, repo, _ := newTestStore(t)
		err := s.CreateCategory(ctx, "   ")
		assert.ErrorIs(t, err, models.ErrInvalidInput)
		assert.Empty(t, s.Categories())
		assert.Zero(t, repo.saveCount())
	})

	t.Run("new category persisted and selected", func(t *testing.T) {
		s, repo, _ := newTestStore(t)
		require.NoError(t, s.CreateCategory(ctx, "Toys"))
		assert.Equal(t, []string{"Toys"}, s.Categories())
		assert.Equal(t, "Toys", s.ActiveCategory())
		assert.Equal(t, 1, repo.saveCount())
	})

	t.Run("existing category only re-selected", func(t *testing.T) {
		s, _, _ := newTestStore(t)
		require.NoError(t, s.CreateCategory(ctx, "Toys"))
		addFiles(t, s, "Toys", 2)
		require.NoError(t, s.CreateCategory(ctx, "Books"))
		require.NoError(t, s.CreateCategory(ctx, "Toys"))

		assert.Equal(t, []string{"Toys", "Books"}, s.Categories())
		assert.Equal(t, "Toys", s.ActiveCategory())
		items, err := s.Items("Toys")
		require.NoError(t, err)
		assert.Len(t, items, 2, "re-creating a category must not drop its items")
	})

	t.Run("name is trimmed", func(t *testing.T) {
		s, _, _ := newTestStore(t)
		require.NoError(t, s.CreateCategory(ctx, "  Toys  "))
		assert.Equal(t, []string{"Toys"}, s.Categories())
	})
}

func TestAddItems(t *testing.T) {
	ctx := context.Background()

	t.Run("unknown category rejected", func(t *testing.T) {
		s, _, _ := newTestStore(t)
		err := s.AddItems(ctx, "Nope", []models.FileUpload{{Content: []byte{1}}})
		assert.ErrorIs(t, err, models.ErrInvalidInput)
	})

	t.Run("empty category name rejected", func(t *testing.T) {
		s, _, _ := newTestStore(t)
		err := s.AddItems(ctx, "", []models.FileUpload{{Content: []byte{1}}})
		assert.ErrorIs(t, err, models.ErrInvalidInput)
	})

	t.Run("items appended unsynced in input order", func(t *testing.T) {
		s, _, previews := newTestStore(t)
		require.NoError(t, s.CreateCategory(ctx, "Toys"))
		addFiles(t, s, "Toys", 3)

		items, err := s.Items("Toys")
		require.NoError(t, err)
		require.Len(t, items, 3)
		for i, item := range items {
			assert.False(t, item.Synced())
			assert.Empty(t, item.RemoteID)
			assert.Empty(t, item.RemoteURL)
			assert.Equal(t, []byte{0xff, 0xd8, byte(i)}, item.LocalBlob, "input order preserved")
			assert.NotEmpty(t, item.ID)
			assert.NotEmpty(t, item.PreviewPath)
		}
		assert.Len(t, previews.materialized, 3)
	})

	t.Run("preview failure does not abort the add", func(t *testing.T) {
		s, _, previews := newTestStore(t)
		previews.failNext = true
		require.NoError(t, s.CreateCategory(ctx, "Toys"))
		addFiles(t, s, "Toys", 1)

		items, err := s.Items("Toys")
		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.Empty(t, items[0].PreviewPath)
	})
}

func TestEditField(t *testing.T) {
	ctx := context.Background()

	t.Run("edits named field only", func(t *testing.T) {
		s, _, _ := newTestStore(t)
		require.NoError(t, s.CreateCategory(ctx, "Toys"))
		addFiles(t, s, "Toys", 2)

		require.NoError(t, s.EditField(ctx, "Toys", 1, "price", "499"))

		items, err := s.Items("Toys")
		require.NoError(t, err)
		assert.Equal(t, "499", items[1].Price)
		assert.Empty(t, items[0].Price, "item 0 unaffected")
	})

	t.Run("index out of range", func(t *testing.T) {
		s, _, _ := newTestStore(t)
		require.NoError(t, s.CreateCategory(ctx, "Toys"))
		addFiles(t, s, "Toys", 1)

		assert.ErrorIs(t, s.EditField(ctx, "Toys", 1, "name", "x"), models.ErrIndexOutOfRange)
		assert.ErrorIs(t, s.EditField(ctx, "Toys", -1, "name", "x"), models.ErrIndexOutOfRange)
	})

	t.Run("remote identity is not editable", func(t *testing.T) {
		s, _, _ := newTestStore(t)
		require.NoError(t, s.CreateCategory(ctx, "Toys"))
		addFiles(t, s, "Toys", 1)

		assert.ErrorIs(t, s.EditField(ctx, "Toys", 0, "remoteId", "abc"), models.ErrInvalidInput)
		assert.ErrorIs(t, s.EditField(ctx, "Toys", 0, "remoteUrl", "https://x"), models.ErrInvalidInput)
	})

	t.Run("editing a synced item keeps its identity", func(t *testing.T) {
		s, _, _ := newTestStore(t)
		require.NoError(t, s.CreateCategory(ctx, "Toys"))
		addFiles(t, s, "Toys", 1)

		items, err := s.Items("Toys")
		require.NoError(t, err)
		require.NoError(t, s.SetRemoteIdentity("Toys", items[0].ID, models.UploadResult{
			RemoteID: "abc", RemoteURL: "https://cdn/abc",
		}))

		require.NoError(t, s.EditField(ctx, "Toys", 0, "name", "Teddy"))

		items, err = s.Items("Toys")
		require.NoError(t, err)
		assert.Equal(t, "Teddy", items[0].Name)
		assert.Equal(t, "abc", items[0].RemoteID)
		assert.Equal(t, "https://cdn/abc", items[0].RemoteURL)
	})
}

func TestDeleteItem(t *testing.T) {
	ctx := context.Background()

	t.Run("removes item and shifts indices", func(t *testing.T) {
		s, _, _ := newTestStore(t)
		require.NoError(t, s.CreateCategory(ctx, "Toys"))
		addFiles(t, s, "Toys", 3)
		require.NoError(t, s.EditField(ctx, "Toys", 2, "name", "last"))

		require.NoError(t, s.DeleteItem(ctx, "Toys", 0))

		items, err := s.Items("Toys")
		require.NoError(t, err)
		require.Len(t, items, 2)
		assert.Equal(t, "last", items[1].Name, "later items shifted down by one")
	})

	t.Run("releases the preview", func(t *testing.T) {
		s, _, previews := newTestStore(t)
		require.NoError(t, s.CreateCategory(ctx, "Toys"))
		addFiles(t, s, "Toys", 1)

		items, err := s.Items("Toys")
		require.NoError(t, err)
		path := items[0].PreviewPath

		require.NoError(t, s.DeleteItem(ctx, "Toys", 0))
		assert.Contains(t, previews.released, path)
	})

	t.Run("index out of range", func(t *testing.T) {
		s, _, _ := newTestStore(t)
		require.NoError(t, s.CreateCategory(ctx, "Toys"))
		assert.ErrorIs(t, s.DeleteItem(ctx, "Toys", 0), models.ErrIndexOutOfRange)
	})
}

func TestMoveItem(t *testing.T) {
	ctx := context.Background()

	setup := func(t *testing.T) (*CatalogStore, *fakeSnapshotRepo) {
		s, repo, _ := newTestStore(t)
		require.NoError(t, s.CreateCategory(ctx, "Toys"))
		require.NoError(t, s.CreateCategory(ctx, "Books"))
		addFiles(t, s, "Toys", 2)
		require.NoError(t, s.EditField(ctx, "Toys", 1, "price", "499"))
		return s, repo
	}

	t.Run("moves item to end of target", func(t *testing.T) {
		s, _ := setup(t)
		require.NoError(t, s.MoveItem(ctx, "Toys", 0, "Books"))

		toys, err := s.Items("Toys")
		require.NoError(t, err)
		require.Len(t, toys, 1)
		assert.Equal(t, "499", toys[0].Price, "formerly index 1, now index 0")

		books, err := s.Items("Books")
		require.NoError(t, err)
		assert.Len(t, books, 1)
	})

	t.Run("same, empty or unknown target is a no-op", func(t *testing.T) {
		s, repo := setup(t)
		before := repo.saveCount()

		require.NoError(t, s.MoveItem(ctx, "Toys", 0, "Toys"))
		require.NoError(t, s.MoveItem(ctx, "Toys", 0, ""))
		require.NoError(t, s.MoveItem(ctx, "Toys", 0, "Nope"))

		toys, err := s.Items("Toys")
		require.NoError(t, err)
		assert.Len(t, toys, 2)
		assert.Equal(t, before, repo.saveCount(), "no-ops must not rewrite the snapshot")
	})

	t.Run("unknown source rejected", func(t *testing.T) {
		s, _ := setup(t)
		assert.ErrorIs(t, s.MoveItem(ctx, "Nope", 0, "Books"), models.ErrInvalidInput)
	})

	t.Run("index out of range", func(t *testing.T) {
		s, _ := setup(t)
		assert.ErrorIs(t, s.MoveItem(ctx, "Toys", 5, "Books"), models.ErrIndexOutOfRange)
	})

	t.Run("remote identity travels with the item", func(t *testing.T) {
		s, _ := setup(t)
		items, err := s.Items("Toys")
		require.NoError(t, err)
		require.NoError(t, s.SetRemoteIdentity("Toys", items[0].ID, models.UploadResult{
			RemoteID: "abc", RemoteURL: "https://cdn/abc",
		}))

		require.NoError(t, s.MoveItem(ctx, "Toys", 0, "Books"))

		books, err := s.Items("Books")
		require.NoError(t, err)
		require.Len(t, books, 1)
		assert.Equal(t, "abc", books[0].RemoteID)
		assert.Equal(t, "https://cdn/abc", books[0].RemoteURL)
	})
}

// Moves are count-neutral; the total across categories is additions
// minus deletions.
func TestItemCountConservation(t *testing.T) {
	ctx := context.Background()
	s, _, _ := newTestStore(t)

	require.NoError(t, s.CreateCategory(ctx, "Toys"))
	require.NoError(t, s.CreateCategory(ctx, "Books"))
	require.NoError(t, s.CreateCategory(ctx, "Games"))

	addFiles(t, s, "Toys", 4)     // +4
	addFiles(t, s, "Books", 2)    // +2
	require.NoError(t, s.MoveItem(ctx, "Toys", 1, "Games"))
	require.NoError(t, s.MoveItem(ctx, "Books", 0, "Toys"))
	require.NoError(t, s.DeleteItem(ctx, "Games", 0)) // -1
	require.NoError(t, s.MoveItem(ctx, "Toys", 0, "Books"))
	require.NoError(t, s.DeleteItem(ctx, "Books", 0)) // -1

	assert.Equal(t, 4, s.ItemCount())
}

func TestSetRemoteIdentity(t *testing.T) {
	ctx := context.Background()

	t.Run("joins id and url and drops the blob", func(t *testing.T) {
		s, _, previews := newTestStore(t)
		require.NoError(t, s.CreateCategory(ctx, "Toys"))
		addFiles(t, s, "Toys", 1)

		items, err := s.Items("Toys")
		require.NoError(t, err)
		path := items[0].PreviewPath

		require.NoError(t, s.SetRemoteIdentity("Toys", items[0].ID, models.UploadResult{
			RemoteID: "abc", RemoteURL: "https://cdn/abc",
		}))

		items, err = s.Items("Toys")
		require.NoError(t, err)
		assert.True(t, items[0].Synced())
		assert.Equal(t, "abc", items[0].RemoteID)
		assert.Equal(t, "https://cdn/abc", items[0].RemoteURL)
		assert.Nil(t, items[0].LocalBlob)
		assert.Empty(t, items[0].PreviewPath)
		assert.Contains(t, previews.released, path)
	})

	t.Run("rejects a half identity", func(t *testing.T) {
		s, _, _ := newTestStore(t)
		require.NoError(t, s.CreateCategory(ctx, "Toys"))
		addFiles(t, s, "Toys", 1)

		items, err := s.Items("Toys")
		require.NoError(t, err)

		assert.Error(t, s.SetRemoteIdentity("Toys", items[0].ID, models.UploadResult{RemoteID: "abc"}))
		assert.Error(t, s.SetRemoteIdentity("Toys", items[0].ID, models.UploadResult{RemoteURL: "https://cdn/abc"}))

		items, err = s.Items("Toys")
		require.NoError(t, err)
		assert.False(t, items[0].Synced(), "no state change on rejection")
	})

	t.Run("identity is immutable once set", func(t *testing.T) {
		s, _, _ := newTestStore(t)
		require.NoError(t, s.CreateCategory(ctx, "Toys"))
		addFiles(t, s, "Toys", 1)

		items, err := s.Items("Toys")
		require.NoError(t, err)
		id := items[0].ID

		require.NoError(t, s.SetRemoteIdentity("Toys", id, models.UploadResult{
			RemoteID: "abc", RemoteURL: "https://cdn/abc",
		}))
		require.NoError(t, s.SetRemoteIdentity("Toys", id, models.UploadResult{
			RemoteID: "other", RemoteURL: "https://cdn/other",
		}))

		items, err = s.Items("Toys")
		require.NoError(t, err)
		assert.Equal(t, "abc", items[0].RemoteID)
		assert.Equal(t, "https://cdn/abc", items[0].RemoteURL)
	})

	t.Run("finds an item that was moved meanwhile", func(t *testing.T) {
		s, _, _ := newTestStore(t)
		require.NoError(t, s.CreateCategory(ctx, "Toys"))
		require.NoError(t, s.CreateCategory(ctx, "Books"))
		addFiles(t, s, "Toys", 1)

		items, err := s.Items("Toys")
		require.NoError(t, err)
		id := items[0].ID

		require.NoError(t, s.MoveItem(ctx, "Toys", 0, "Books"))
		require.NoError(t, s.SetRemoteIdentity("Toys", id, models.UploadResult{
			RemoteID: "abc", RemoteURL: "https://cdn/abc",
		}))

		books, err := s.Items("Books")
		require.NoError(t, err)
		assert.Equal(t, "abc", books[0].RemoteID)
	})
}

func TestByIDOperations(t *testing.T) {
	ctx := context.Background()
	s, _, _ := newTestStore(t)
	require.NoError(t, s.CreateCategory(ctx, "Toys"))
	require.NoError(t, s.CreateCategory(ctx, "Books"))
	addFiles(t, s, "Toys", 3)

	items, err := s.Items("Toys")
	require.NoError(t, err)
	target := items[2].ID

	// Deleting an earlier item shifts positions, the id still resolves.
	require.NoError(t, s.DeleteItem(ctx, "Toys", 0))
	require.NoError(t, s.EditFieldByID(ctx, "Toys", target, "name", "Teddy"))
	require.NoError(t, s.MoveItemByID(ctx, "Toys", target, "Books"))

	books, err := s.Items("Books")
	require.NoError(t, err)
	require.Len(t, books, 1)
	assert.Equal(t, "Teddy", books[0].Name)

	assert.ErrorIs(t, s.EditFieldByID(ctx, "Toys", target, "name", "x"), models.ErrIndexOutOfRange)
	require.NoError(t, s.DeleteItemByID(ctx, "Books", target))
	assert.Equal(t, 1, s.ItemCount())
}

func TestRehydrateKeepsUnlistedCategories(t *testing.T) {
	ctx := context.Background()

	// A snapshot whose order array went stale: "Books" holds items but
	// is not listed.
	repo := &fakeSnapshotRepo{loadSnap: &models.PersistentSnapshot{
		CategoryOrder: []string{"Toys"},
		Categories: map[string][]models.PersistentItem{
			"Toys":  {{Name: "Teddy", Price: "499"}},
			"Books": {{Name: "Atlas", Price: "899", RemoteID: "abc", RemoteURL: "https://cdn/abc"}},
		},
	}}
	s := NewCatalogStore(repo, &fakePreviews{})
	require.NoError(t, s.Rehydrate(ctx))

	assert.Equal(t, []string{"Toys", "Books"}, s.Categories(), "unlisted categories appended, not dropped")

	books, err := s.Items("Books")
	require.NoError(t, err)
	require.Len(t, books, 1)
	assert.Equal(t, "Atlas", books[0].Name)
	assert.Equal(t, "abc", books[0].RemoteID)
}

func TestPersistenceFailureKeepsMutation(t *testing.T) {
	ctx := context.Background()
	s, repo, _ := newTestStore(t)
	require.NoError(t, s.CreateCategory(ctx, "Toys"))

	repo.saveErr = errors.New("disk full")
	err := s.AddItems(ctx, "Toys", []models.FileUpload{{Content: []byte{1}}})
	assert.ErrorIs(t, err, models.ErrPersistence)

	items, lerr := s.Items("Toys")
	require.NoError(t, lerr)
	assert.Len(t, items, 1, "in-memory mutation stands despite the failed write")

	// Retrying persistence alone succeeds, without re-issuing the add.
	repo.saveErr = nil
	require.NoError(t, s.PersistSnapshot(ctx))
	require.NotNil(t, repo.last)
	assert.Len(t, repo.last.Categories["Toys"], 1)
}

func TestSnapshotRoundTrip(t *testing.T) {
	ctx := context.Background()
	s, _, _ := newTestStore(t)

	require.NoError(t, s.CreateCategory(ctx, "Toys"))
	require.NoError(t, s.CreateCategory(ctx, "Books"))
	addFiles(t, s, "Toys", 2)
	addFiles(t, s, "Books", 1)
	require.NoError(t, s.EditField(ctx, "Toys", 0, "name", "Teddy"))
	require.NoError(t, s.EditField(ctx, "Toys", 0, "price", "499"))
	require.NoError(t, s.EditField(ctx, "Toys", 0, "description", "soft"))

	items, err := s.Items("Toys")
	require.NoError(t, err)
	require.NoError(t, s.SetRemoteIdentity("Toys", items[0].ID, models.UploadResult{
		RemoteID: "abc", RemoteURL: "https://cdn/abc",
	}))

	snapshot := s.Snapshot()

	// Serialize and rebuild a store from the decoded snapshot.
	payload, err := json.Marshal(snapshot)
	require.NoError(t, err)
	var decoded models.PersistentSnapshot
	require.NoError(t, json.Unmarshal(payload, &decoded))

	repo2 := &fakeSnapshotRepo{loadSnap: &decoded}
	restored := NewCatalogStore(repo2, &fakePreviews{})
	require.NoError(t, restored.Rehydrate(ctx))

	assert.Equal(t, s.Categories(), restored.Categories())
	assert.Equal(t, "Toys", restored.ActiveCategory(), "first category selected after rehydration")

	toys, err := restored.Items("Toys")
	require.NoError(t, err)
	require.Len(t, toys, 2)
	assert.Equal(t, "Teddy", toys[0].Name)
	assert.Equal(t, "499", toys[0].Price)
	assert.Equal(t, "soft", toys[0].Description)
	assert.Equal(t, "abc", toys[0].RemoteID)
	assert.Equal(t, "https://cdn/abc", toys[0].RemoteURL)
	for _, item := range toys {
		assert.Nil(t, item.LocalBlob, "blobs never survive a round trip")
		assert.Empty(t, item.PreviewPath, "previews never survive a round trip")
	}
}

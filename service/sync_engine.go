package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"radha-kanna-retail/models"
)

// defaultUploadTimeout bounds each item's upload. The remote store
// specifies no timeout of its own; expiry counts as that item's
// failure, not a fatal abort.
const defaultUploadTimeout = 30 * time.Second

// SyncEngine uploads every not-yet-synced catalog item to the remote
// image store and merges the resulting remote identity back into the
// item. Items that already carry a remote identity are skipped, which
// is what makes repeated passes idempotent.
// Implements SyncEngineInterface
type SyncEngine struct {
	store         CatalogStoreInterface
	storage       ObjectStorageInterface
	uploadTimeout time.Duration
}

// NewSyncEngine creates a new SyncEngine.
func NewSyncEngine(store CatalogStoreInterface, storage ObjectStorageInterface) *SyncEngine {
	return &SyncEngine{
		store:         store,
		storage:       storage,
		uploadTimeout: defaultUploadTimeout,
	}
}

// Ensure SyncEngine implements SyncEngineInterface
var _ SyncEngineInterface = (*SyncEngine)(nil)

// SyncAll runs one sync pass over the whole catalog.
//
// The category list is captured once at the start; items added while
// the pass runs belong to the next pass. Uploads are issued strictly in
// category-then-index order, one at a time. A single item's failure is
// recorded and the pass continues. Cancellation is honored between
// items: no new uploads are issued and the partial report is returned
// together with the context error.
//
// The snapshot is persisted once after the full pass, not per item, to
// avoid write amplification. An interruption mid-pass can therefore
// lose the durability (not the upload) of identities merged since the
// last persist; the next pass re-reads the store and skips them anyway.
func (e *SyncEngine) SyncAll(ctx context.Context) (*models.SyncResult, error) {
	plan := e.store.SyncPlan()
	log.Printf("🔄 Starting sync pass: %d items to consider", len(plan))

	result := &models.SyncResult{}
	var stopped error

	for _, candidate := range plan {
		if err := ctx.Err(); err != nil {
			stopped = err
			break
		}

		if candidate.Synced {
			result.Skipped++
			continue
		}

		if candidate.Content == nil {
			// An unsynced item without bytes cannot be uploaded. This
			// does not occur under normal store usage but must not
			// fail the pass.
			log.Printf("⏭️  Skipping %s[%d]: no local content", candidate.Category, candidate.Index)
			result.Skipped++
			continue
		}

		if err := e.uploadOne(ctx, candidate); err != nil {
			log.Printf("❌ Upload failed for %s[%d]: %v", candidate.Category, candidate.Index, err)
			result.Failed++
			result.Failures = append(result.Failures, models.UploadFailure{
				Category: candidate.Category,
				Index:    candidate.Index,
				ItemID:   candidate.ItemID,
				Reason:   err.Error(),
			})
			continue
		}

		result.Uploaded++
	}

	// The persist must outlive a canceled pass context: identities
	// merged before the cancel have to reach durable storage.
	if err := e.store.PersistSnapshot(context.WithoutCancel(ctx)); err != nil {
		log.Printf("❌ Failed to persist snapshot after sync pass: %v", err)
		if stopped == nil {
			stopped = err
		}
	}

	log.Printf("🎉 Sync pass completed: %d uploaded, %d skipped, %d failed",
		result.Uploaded, result.Skipped, result.Failed)
	return result, stopped
}

// uploadOne submits a single item and joins the returned identity onto
// it. The per-item timeout turns a stuck upload into that item's
// failure.
func (e *SyncEngine) uploadOne(ctx context.Context, candidate SyncCandidate) error {
	uploadCtx, cancel := context.WithTimeout(ctx, e.uploadTimeout)
	defer cancel()

	uploaded, err := e.storage.Upload(uploadCtx, UploadInput{
		Content:     candidate.Content,
		ContentType: candidate.ContentType,
		Folder:      candidate.Category,
		Metadata:    candidate.Metadata,
	})
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return fmt.Errorf("upload timed out after %s: %w", e.uploadTimeout, err)
		}
		return err
	}

	if err := e.store.SetRemoteIdentity(candidate.Category, candidate.ItemID, *uploaded); err != nil {
		return fmt.Errorf("failed to record remote identity: %w", err)
	}
	return nil
}

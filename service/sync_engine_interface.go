package service

import (
	"context"

	"radha-kanna-retail/models"
)

// SyncEngineInterface defines the contract for synchronization of the
// catalog with the remote image store. SyncAll walks the catalog in
// category-then-index order, uploads every item without a remote
// identity and reports an aggregate result. Re-running a pass never
// re-uploads a previously synced item.
type SyncEngineInterface interface {
	SyncAll(ctx context.Context) (*models.SyncResult, error)
}

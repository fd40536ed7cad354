package repository

import (
	"context"

	"radha-kanna-retail/models"
)

// SnapshotRepositoryInterface defines the contract for durable catalog
// snapshot storage. The snapshot is rewritten wholesale after every
// catalog mutation and after every sync pass.
type SnapshotRepositoryInterface interface {
	Save(ctx context.Context, snapshot *models.PersistentSnapshot) error
	Load(ctx context.Context) (*models.PersistentSnapshot, error)
}

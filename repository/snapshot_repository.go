package repository

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sort"
	"time"

	"radha-kanna-retail/db"
	"radha-kanna-retail/models"
)

// snapshotKey is the key-value record under which the whole catalog
// snapshot is stored.
const snapshotKey = "categoriesData"

// SnapshotRepository stores the catalog snapshot as a single JSON record
// in the app_state table.
// Implements SnapshotRepositoryInterface
type SnapshotRepository struct {
	db *sql.DB
}

// NewSnapshotRepository creates a new SnapshotRepository backed by the
// shared database connection.
func NewSnapshotRepository() *SnapshotRepository {
	return &SnapshotRepository{db: db.DB}
}

// NewSnapshotRepositoryWithDB creates a SnapshotRepository with an
// explicit connection. Used by tests.
func NewSnapshotRepositoryWithDB(database *sql.DB) *SnapshotRepository {
	return &SnapshotRepository{db: database}
}

// Ensure SnapshotRepository implements SnapshotRepositoryInterface
var _ SnapshotRepositoryInterface = (*SnapshotRepository)(nil)

// Save rewrites the snapshot record wholesale.
func (r *SnapshotRepository) Save(ctx context.Context, snapshot *models.PersistentSnapshot) error {
	payload, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}

	query := `
		INSERT INTO app_state (key, value, updated_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (key) DO UPDATE SET value = $2, updated_at = $3
	`

	if _, err := r.db.ExecContext(ctx, query, snapshotKey, payload, time.Now()); err != nil {
		log.Printf("❌ Error persisting catalog snapshot: %v", err)
		return fmt.Errorf("%w: %v", models.ErrPersistence, err)
	}

	return nil
}

// Load reads the snapshot record written by the last session. A missing
// record yields an empty snapshot, not an error.
func (r *SnapshotRepository) Load(ctx context.Context) (*models.PersistentSnapshot, error) {
	var payload []byte
	query := `SELECT value FROM app_state WHERE key = $1`
	err := r.db.QueryRowContext(ctx, query, snapshotKey).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return &models.PersistentSnapshot{Categories: map[string][]models.PersistentItem{}}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog snapshot: %w", err)
	}

	snapshot, err := decodeSnapshot(payload)
	if err != nil {
		return nil, err
	}

	log.Printf("✓ Loaded catalog snapshot: %d categories", len(snapshot.CategoryOrder))
	return snapshot, nil
}

// decodeSnapshot decodes the stored payload. Older sessions stored a
// bare category→items object without an explicit order array; those are
// still readable, with category order recovered from JSON key order.
func decodeSnapshot(payload []byte) (*models.PersistentSnapshot, error) {
	var snapshot models.PersistentSnapshot
	if err := json.Unmarshal(payload, &snapshot); err == nil && snapshot.Categories != nil {
		snapshot.CategoryOrder = appendUnlisted(snapshot.CategoryOrder, snapshot.Categories)
		return &snapshot, nil
	}

	// Legacy layout: {"Toys": [...], "Books": [...]}
	var legacy map[string][]models.PersistentItem
	if err := json.Unmarshal(payload, &legacy); err != nil {
		return nil, fmt.Errorf("failed to decode catalog snapshot: %w", err)
	}
	snapshot = models.PersistentSnapshot{Categories: legacy}
	order, err := legacyKeyOrder(payload)
	if err != nil {
		for name := range legacy {
			order = append(order, name)
		}
	}
	snapshot.CategoryOrder = order
	return &snapshot, nil
}

// appendUnlisted adds categories the order array does not mention, so a
// truncated or stale order never drops their items. Stragglers are
// appended in sorted order for a stable result.
func appendUnlisted(order []string, categories map[string][]models.PersistentItem) []string {
	listed := make(map[string]bool, len(order))
	for _, name := range order {
		listed[name] = true
	}
	var missing []string
	for name := range categories {
		if !listed[name] {
			missing = append(missing, name)
		}
	}
	sort.Strings(missing)
	return append(order, missing...)
}

// legacyKeyOrder extracts top-level object keys in document order.
func legacyKeyOrder(payload []byte) ([]string, error) {
	dec := json.NewDecoder(bytes.NewReader(payload))
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, fmt.Errorf("snapshot is not a JSON object")
	}

	var order []string
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("unexpected token in snapshot")
		}
		order = append(order, key)

		var skip json.RawMessage
		if err := dec.Decode(&skip); err != nil {
			return nil, err
		}
	}
	return order, nil
}

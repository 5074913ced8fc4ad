package content

import (
	"context"

	models "lmscontent/internal/domain/models/content"
)

// RecordStore is the schemaless document store holding folder and file records.
// Implementations never filter server-side on scoping fields; callers fetch
// whole collections and filter in memory.
type RecordStore interface {
	// Insert stores a record and returns its id. A record carrying an "id"
	// field keeps that id; otherwise one is generated.
	Insert(ctx context.Context, collection string, record models.Record) (string, error)

	// QueryAll returns every record in the collection. Each record carries
	// its id under the "id" key.
	QueryAll(ctx context.Context, collection string) ([]models.Record, error)

	// Get returns one record by id or domain.ErrNotFound.
	Get(ctx context.Context, collection, id string) (models.Record, error)

	// Update merges patch into the record. Returns domain.ErrNotFound if absent.
	Update(ctx context.Context, collection, id string, patch models.Record) error

	// Delete removes the record. Returns domain.ErrNotFound if absent.
	Delete(ctx context.Context, collection, id string) error
}

package postgres

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"maps"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"lmscontent/internal/domain"
	models "lmscontent/internal/domain/models/content"
	contentRepo "lmscontent/internal/domain/repositories/content"
)

// RecordStore keeps schemaless records as JSONB rows keyed by
// (collection, id). Rows are listed in insertion order.
type RecordStore struct {
	pool   *pgxpool.Pool
	tables *TableNames
	logger *slog.Logger
}

// NewRecordStore creates a JSONB-backed record store
func NewRecordStore(config *RepositoryConfig) *RecordStore {
	return &RecordStore{
		pool:   config.Pool,
		tables: config.Tables,
		logger: config.Logger,
	}
}

var _ contentRepo.RecordStore = (*RecordStore)(nil)

// Insert stores a record. A record without an id gets a UUID.
func (r *RecordStore) Insert(ctx context.Context, collection string, record models.Record) (string, error) {
	rec := maps.Clone(record)
	if rec == nil {
		rec = models.Record{}
	}
	id := recordKey(rec[models.FieldID])
	if id == "" {
		id = uuid.NewString()
		rec[models.FieldID] = id
	}

	data, err := encodeRecord(rec)
	if err != nil {
		return "", fmt.Errorf("encode record: %w", err)
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (collection, id, data)
		VALUES ($1, $2, $3)
	`, r.tables.Records)

	if _, err := GetExecutor(ctx, r.pool).Exec(ctx, query, collection, id, data); err != nil {
		if IsPgDuplicateError(err) {
			return "", &domain.ConflictError{
				Message:      fmt.Sprintf("record %s already exists in %s", id, collection),
				ResourceType: collection,
				ResourceID:   id,
			}
		}
		return "", wrapErr("insert record", err)
	}

	r.logger.Debug("record inserted", "collection", collection, "id", id)
	return id, nil
}

// QueryAll returns the whole collection.
func (r *RecordStore) QueryAll(ctx context.Context, collection string) ([]models.Record, error) {
	query := fmt.Sprintf(`
		SELECT id, data
		FROM %s
		WHERE collection = $1
		ORDER BY seq
	`, r.tables.Records)

	rows, err := GetExecutor(ctx, r.pool).Query(ctx, query, collection)
	if err != nil {
		return nil, wrapErr("query records", err)
	}
	defer rows.Close()

	records := make([]models.Record, 0)
	for rows.Next() {
		var (
			id   string
			data []byte
		)
		if err := rows.Scan(&id, &data); err != nil {
			return nil, wrapErr("scan record", err)
		}
		rec, err := decodeRecord(id, data)
		if err != nil {
			// one corrupt row must not hide the rest
			r.logger.Warn("skipping undecodable record", "collection", collection, "id", id, "error", err)
			continue
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapErr("iterate records", err)
	}

	return records, nil
}

// Get returns one record by id
func (r *RecordStore) Get(ctx context.Context, collection, id string) (models.Record, error) {
	id = recordKey(id)
	query := fmt.Sprintf(`
		SELECT data
		FROM %s
		WHERE collection = $1 AND id = $2
	`, r.tables.Records)

	var data []byte
	err := GetExecutor(ctx, r.pool).QueryRow(ctx, query, collection, id).Scan(&data)
	if err != nil {
		if IsPgNoRowsError(err) {
			return nil, domain.NewNotFound(collection+" record", id)
		}
		return nil, wrapErr("get record", err)
	}

	rec, err := decodeRecord(id, data)
	if err != nil {
		return nil, fmt.Errorf("decode record %s: %w", id, err)
	}
	return rec, nil
}

// Update merges patch into the stored document. Keys set to nil become JSON null.
func (r *RecordStore) Update(ctx context.Context, collection, id string, patch models.Record) error {
	id = recordKey(id)
	patch = maps.Clone(patch)
	delete(patch, models.FieldID)

	data, err := encodeRecord(patch)
	if err != nil {
		return fmt.Errorf("encode patch: %w", err)
	}

	query := fmt.Sprintf(`
		UPDATE %s
		SET data = data || $3::jsonb, updated_at = now()
		WHERE collection = $1 AND id = $2
	`, r.tables.Records)

	result, err := GetExecutor(ctx, r.pool).Exec(ctx, query, collection, id, data)
	if err != nil {
		return wrapErr("update record", err)
	}
	if result.RowsAffected() == 0 {
		return domain.NewNotFound(collection+" record", id)
	}

	r.logger.Debug("record updated", "collection", collection, "id", id, "fields", len(patch))
	return nil
}

// Delete removes a record
func (r *RecordStore) Delete(ctx context.Context, collection, id string) error {
	id = recordKey(id)
	query := fmt.Sprintf(`
		DELETE FROM %s
		WHERE collection = $1 AND id = $2
	`, r.tables.Records)

	result, err := GetExecutor(ctx, r.pool).Exec(ctx, query, collection, id)
	if err != nil {
		return wrapErr("delete record", err)
	}
	if result.RowsAffected() == 0 {
		return domain.NewNotFound(collection+" record", id)
	}

	r.logger.Debug("record deleted", "collection", collection, "id", id)
	return nil
}

// recordKey is the row id for a record id. Lookups use it as well so
// numeric ids match however the caller spells them.
func recordKey(v any) string {
	return models.CanonicalID(v)
}

func encodeRecord(rec models.Record) ([]byte, error) {
	if rec == nil {
		rec = models.Record{}
	}
	return json.Marshal(rec)
}

// decodeRecord keeps numbers as json.Number so large numeric ids survive,
// and fills in the row id when the document lacks one.
func decodeRecord(id string, data []byte) (models.Record, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	rec := models.Record{}
	if err := dec.Decode(&rec); err != nil {
		return nil, err
	}
	if recordKey(rec[models.FieldID]) == "" {
		rec[models.FieldID] = id
	}
	return rec, nil
}

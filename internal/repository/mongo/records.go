// Package mongo stores content records in MongoDB collections as written
// by the legacy dashboards.
package mongo

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"math"
	"strconv"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"lmscontent/internal/domain"
	models "lmscontent/internal/domain/models/content"
	contentRepo "lmscontent/internal/domain/repositories/content"
)

// Connect opens a client and pings the primary.
func Connect(ctx context.Context, uri string) (*mongo.Client, error) {
	if uri == "" {
		return nil, errors.New("MONGO_URI is not set")
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect to mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongo: %w", err)
	}
	return client, nil
}

// RecordStore implements the record store over one database.
type RecordStore struct {
	db     *mongo.Database
	logger *slog.Logger
}

// NewRecordStore creates a store over db.
func NewRecordStore(db *mongo.Database, logger *slog.Logger) *RecordStore {
	return &RecordStore{db: db, logger: logger}
}

var _ contentRepo.RecordStore = (*RecordStore)(nil)

// Insert stores the record with _id set to its id.
func (s *RecordStore) Insert(ctx context.Context, collection string, record models.Record) (string, error) {
	doc := maps.Clone(record)
	if doc == nil {
		doc = models.Record{}
	}
	id := idString(doc[models.FieldID])
	if id == "" {
		id = uuid.NewString()
		doc[models.FieldID] = id
	}
	doc["_id"] = id

	if _, err := s.db.Collection(collection).InsertOne(ctx, bson.M(doc)); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return "", &domain.ConflictError{
				Message:      fmt.Sprintf("record %s already exists in %s", id, collection),
				ResourceType: collection,
				ResourceID:   id,
			}
		}
		return "", wrapErr("insert record", err)
	}

	s.logger.Debug("record inserted", "collection", collection, "id", id)
	return id, nil
}

// QueryAll returns every document in natural order.
func (s *RecordStore) QueryAll(ctx context.Context, collection string) ([]models.Record, error) {
	cursor, err := s.db.Collection(collection).Find(ctx, bson.D{})
	if err != nil {
		return nil, wrapErr("query records", err)
	}
	defer cursor.Close(ctx)

	records := make([]models.Record, 0)
	for cursor.Next(ctx) {
		var doc bson.M
		if err := cursor.Decode(&doc); err != nil {
			s.logger.Warn("skipping undecodable document", "collection", collection, "error", err)
			continue
		}
		records = append(records, toRecord(doc))
	}
	if err := cursor.Err(); err != nil {
		return nil, wrapErr("iterate records", err)
	}
	return records, nil
}

// Get looks a record up by _id or id. Hex ids also match ObjectIDs.
func (s *RecordStore) Get(ctx context.Context, collection, id string) (models.Record, error) {
	var doc bson.M
	err := s.db.Collection(collection).FindOne(ctx, idFilter(id)).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.NewNotFound(collection+" record", id)
		}
		return nil, wrapErr("get record", err)
	}
	return toRecord(doc), nil
}

// Update applies patch with $set.
func (s *RecordStore) Update(ctx context.Context, collection, id string, patch models.Record) error {
	set := maps.Clone(patch)
	delete(set, models.FieldID)
	delete(set, "_id")
	if len(set) == 0 {
		return nil
	}

	result, err := s.db.Collection(collection).UpdateOne(ctx, idFilter(id), bson.M{"$set": bson.M(set)})
	if err != nil {
		return wrapErr("update record", err)
	}
	if result.MatchedCount == 0 {
		return domain.NewNotFound(collection+" record", id)
	}

	s.logger.Debug("record updated", "collection", collection, "id", id, "fields", len(set))
	return nil
}

// Delete removes one document.
func (s *RecordStore) Delete(ctx context.Context, collection, id string) error {
	result, err := s.db.Collection(collection).DeleteOne(ctx, idFilter(id))
	if err != nil {
		return wrapErr("delete record", err)
	}
	if result.DeletedCount == 0 {
		return domain.NewNotFound(collection+" record", id)
	}

	s.logger.Debug("record deleted", "collection", collection, "id", id)
	return nil
}

// idFilter matches records written by this service (_id = id string) and
// legacy ones keyed by ObjectID or by a numeric _id or id field. Mongo
// compares numbers across int32, int64 and double, so one numeric form is
// enough.
func idFilter(id string) bson.M {
	id = models.CanonicalID(id)
	or := bson.A{
		bson.M{"_id": id},
		bson.M{models.FieldID: id},
	}
	if n, ok := numericID(id); ok {
		or = append(or,
			bson.M{"_id": n},
			bson.M{models.FieldID: n},
		)
	}
	if oid, err := primitive.ObjectIDFromHex(id); err == nil {
		or = append(or, bson.M{"_id": oid})
	}
	return bson.M{"$or": or}
}

func numericID(id string) (any, bool) {
	if i, err := strconv.ParseInt(id, 10, 64); err == nil {
		return i, true
	}
	if f, err := strconv.ParseFloat(id, 64); err == nil && !math.IsNaN(f) && !math.IsInf(f, 0) {
		return f, true
	}
	return nil, false
}

func idString(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case primitive.ObjectID:
		return x.Hex()
	default:
		return models.CanonicalID(x)
	}
}

// toRecord converts BSON-specific values to the plain types the normalizer
// understands.
func toRecord(doc bson.M) models.Record {
	rec := make(models.Record, len(doc))
	for k, v := range doc {
		rec[k] = plain(v)
	}
	if idString(rec[models.FieldID]) == "" {
		if id := idString(rec["_id"]); id != "" {
			rec[models.FieldID] = id
		}
	}
	return rec
}

func plain(v any) any {
	switch x := v.(type) {
	case primitive.ObjectID:
		return x.Hex()
	case primitive.DateTime:
		return x.Time().UTC()
	case primitive.Timestamp:
		return time.Unix(int64(x.T), 0).UTC()
	case primitive.Decimal128:
		return x.String()
	case primitive.Null, primitive.Undefined:
		return nil
	case bson.M:
		out := make(map[string]any, len(x))
		for k, e := range x {
			out[k] = plain(e)
		}
		return out
	case bson.D:
		out := make(map[string]any, len(x))
		for _, e := range x {
			out[e.Key] = plain(e.Value)
		}
		return out
	case bson.A:
		out := make([]any, len(x))
		for i, e := range x {
			out[i] = plain(e)
		}
		return out
	default:
		return v
	}
}

// wrapErr treats anything the server did not answer as a transport failure.
func wrapErr(op string, err error) error {
	var cmdErr mongo.CommandError
	var writeErr mongo.WriteException
	var bulkErr mongo.BulkWriteException
	if errors.As(err, &cmdErr) || errors.As(err, &writeErr) || errors.As(err, &bulkErr) {
		return fmt.Errorf("%s: %w", op, err)
	}
	return &domain.TransportError{Op: op, Err: err}
}

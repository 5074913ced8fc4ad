package mongo

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"lmscontent/internal/domain"
	models "lmscontent/internal/domain/models/content"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestToRecordConvertsBSONTypes(t *testing.T) {
	oid := primitive.NewObjectID()
	parent := primitive.NewObjectID()
	created := time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)

	rec := toRecord(bson.M{
		"_id":       oid,
		"parentId":  parent,
		"batchId":   int32(7),
		"createdAt": primitive.NewDateTimeFromTime(created),
		"tags":      bson.A{"a", primitive.Null{}},
		"owner":     bson.D{{Key: "id", Value: int64(3)}},
	})

	assert.Equal(t, oid.Hex(), rec["id"])
	assert.Equal(t, oid.Hex(), rec["_id"])
	assert.Equal(t, parent.Hex(), rec["parentId"])
	assert.Equal(t, int32(7), rec["batchId"])
	assert.Equal(t, created, rec["createdAt"])
	assert.Equal(t, []any{"a", nil}, rec["tags"])
	assert.Equal(t, map[string]any{"id": int64(3)}, rec["owner"])
}

func TestToRecordKeepsExplicitID(t *testing.T) {
	rec := toRecord(bson.M{"_id": primitive.NewObjectID(), "id": 12})
	assert.Equal(t, 12, rec["id"])
}

func TestIDFilter(t *testing.T) {
	f := idFilter("abc")
	assert.Len(t, f["$or"], 2)

	oid := primitive.NewObjectID()
	f = idFilter(oid.Hex())
	or := f["$or"].(bson.A)
	assert.Equal(t, bson.M{"_id": oid}, or[len(or)-1])
}

func TestIDFilterMatchesNumericLegacyIDs(t *testing.T) {
	tests := []struct {
		id   string
		want any
	}{
		{"7", int64(7)},
		{" 1700000000 ", int64(1700000000)},
		{"7.5", 7.5},
	}
	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			or := idFilter(tt.id)["$or"].(bson.A)
			assert.Contains(t, or, bson.M{models.FieldID: tt.want})
			assert.Contains(t, or, bson.M{"_id": tt.want})
			assert.Contains(t, or, bson.M{"_id": strings.TrimSpace(tt.id)})
		})
	}

	assert.Len(t, idFilter("abc")["$or"], 2)
}

func TestIDStringMatchesNormalizer(t *testing.T) {
	assert.Equal(t, "1700000000", idString(float64(1700000000)))
	assert.Equal(t, "7", idString(int32(7)))
	oid := primitive.NewObjectID()
	assert.Equal(t, oid.Hex(), idString(oid))
}

func TestWrapErr(t *testing.T) {
	assert.ErrorIs(t, wrapErr("op", context.DeadlineExceeded), domain.ErrTransport)
	assert.ErrorIs(t, wrapErr("op", errors.New("server selection timeout")), domain.ErrTransport)

	cmdErr := mongo.CommandError{Code: 13, Message: "unauthorized"}
	err := wrapErr("op", cmdErr)
	assert.NotErrorIs(t, err, domain.ErrTransport)
}

func TestRecordStoreAgainstMockDeployment(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("query all", func(mt *mtest.T) {
		oid := primitive.NewObjectID()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "lms.folders", mtest.FirstBatch,
			bson.D{{Key: "_id", Value: oid}, {Key: "name", Value: "Week1"}, {Key: "parentId", Value: nil}},
			bson.D{{Key: "_id", Value: "f2"}, {Key: "id", Value: int32(2)}, {Key: "parentId", Value: "0"}},
		))

		store := NewRecordStore(mt.DB, testLogger())
		recs, err := store.QueryAll(context.Background(), "folders")
		require.NoError(mt, err)
		require.Len(mt, recs, 2)
		assert.Equal(mt, oid.Hex(), recs[0]["id"])
		assert.Equal(mt, "Week1", recs[0]["name"])
		assert.Equal(mt, int32(2), recs[1]["id"])
	})

	mt.Run("get missing", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "lms.folders", mtest.FirstBatch))

		store := NewRecordStore(mt.DB, testLogger())
		_, err := store.Get(context.Background(), "folders", "nope")
		assert.ErrorIs(mt, err, domain.ErrNotFound)
	})

	mt.Run("insert", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		store := NewRecordStore(mt.DB, testLogger())
		id, err := store.Insert(context.Background(), "folders", models.Record{"name": "Week1"})
		require.NoError(mt, err)
		assert.NotEmpty(mt, id)
	})

	mt.Run("insert duplicate", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{
			Index:   0,
			Code:    11000,
			Message: "duplicate key error",
		}))

		store := NewRecordStore(mt.DB, testLogger())
		_, err := store.Insert(context.Background(), "folders", models.Record{"id": "f1"})
		assert.ErrorIs(mt, err, domain.ErrConflict)
	})

	mt.Run("update missing", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "n", Value: 0},
			bson.E{Key: "nModified", Value: 0},
		))

		store := NewRecordStore(mt.DB, testLogger())
		err := store.Update(context.Background(), "folders", "f1", models.Record{"name": "x"})
		assert.ErrorIs(mt, err, domain.ErrNotFound)
	})

	mt.Run("update legacy numeric id", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "n", Value: 1},
			bson.E{Key: "nModified", Value: 1},
		))

		store := NewRecordStore(mt.DB, testLogger())
		require.NoError(mt, store.Update(context.Background(), "folders", "1700000000", models.Record{"name": "Renamed"}))

		evt := mt.GetStartedEvent()
		require.NotNil(mt, evt)
		clauses, err := evt.Command.Lookup("updates", "0", "q", "$or").Array().Values()
		require.NoError(mt, err)
		numeric := false
		for _, c := range clauses {
			v, err := c.Document().LookupErr("id")
			if err == nil && v.Type == bson.TypeInt64 && v.Int64() == 1700000000 {
				numeric = true
			}
		}
		assert.True(mt, numeric, "filter should match the numeric id field")
	})

	mt.Run("delete", func(mt *mtest.T) {
		mt.AddMockResponses(
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}),
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}),
		)

		store := NewRecordStore(mt.DB, testLogger())
		require.NoError(mt, store.Delete(context.Background(), "learnflow_content", "a"))
		assert.ErrorIs(mt, store.Delete(context.Background(), "learnflow_content", "a"), domain.ErrNotFound)
	})
}

package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lmscontent/internal/domain"
	models "lmscontent/internal/domain/models/content"
)

func TestNewTableNames(t *testing.T) {
	tables := NewTableNames("dev_")
	assert.Equal(t, "dev_content_records", tables.Records)
	assert.Equal(t, "dev_schema_migrations", tables.Migrations)
}

func TestRecordRoundTrip(t *testing.T) {
	created := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	data, err := encodeRecord(models.Record{
		"id":        "abc",
		"parentId":  nil,
		"batchId":   12345678901234,
		"createdAt": created,
	})
	require.NoError(t, err)

	rec, err := decodeRecord("abc", data)
	require.NoError(t, err)
	assert.Equal(t, "abc", rec["id"])
	assert.Nil(t, rec["parentId"])
	assert.Contains(t, rec, "parentId")
	assert.Equal(t, json.Number("12345678901234"), rec["batchId"])
	assert.Equal(t, "2024-05-01T12:00:00Z", rec["createdAt"])
}

func TestDecodeRecordFillsMissingID(t *testing.T) {
	rec, err := decodeRecord("row-7", []byte(`{"name":"Week 1"}`))
	require.NoError(t, err)
	assert.Equal(t, "row-7", rec["id"])

	rec, err = decodeRecord("row-7", []byte(`{"id":7}`))
	require.NoError(t, err)
	assert.Equal(t, json.Number("7"), rec["id"])

	_, err = decodeRecord("x", []byte(`[1,2]`))
	assert.Error(t, err)
}

// Row ids must match the id the normalizer reports, or listed records
// could not be renamed or deleted.
func TestRecordKeyMatchesNormalizedID(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want string
	}{
		{"float from json", float64(1700000000), "1700000000"},
		{"integral float", 7.0, "7"},
		{"json number", json.Number("42"), "42"},
		{"int", 7, "7"},
		{"padded string", " abc ", "abc"},
		{"fraction", 7.5, "7.5"},
		{"nil", nil, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, recordKey(tt.in))
			assert.Equal(t, models.CanonicalID(tt.in), recordKey(tt.in))
		})
	}

	data, err := encodeRecord(models.Record{"id": float64(1700000000)})
	require.NoError(t, err)
	rec, err := decodeRecord("1700000000", data)
	require.NoError(t, err)
	assert.Equal(t, "1700000000", recordKey(rec["id"]))
}

func TestWrapErr(t *testing.T) {
	tests := []struct {
		name          string
		err           error
		wantTransport bool
	}{
		{"connection refused", &net.OpError{Op: "dial", Err: errors.New("refused")}, true},
		{"context deadline", context.DeadlineExceeded, true},
		{"server error", &pgconn.PgError{Code: "42P01", Message: "relation does not exist"}, false},
		{"no rows", pgx.ErrNoRows, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := wrapErr("op", tt.err)
			assert.Equal(t, tt.wantTransport, errors.Is(err, domain.ErrTransport))
			assert.ErrorIs(t, err, tt.err)
		})
	}

	assert.NoError(t, wrapErr("op", nil))
}

func TestIsPgDuplicateError(t *testing.T) {
	assert.True(t, IsPgDuplicateError(&pgconn.PgError{Code: "23505"}))
	assert.False(t, IsPgDuplicateError(&pgconn.PgError{Code: "23503"}))
	assert.False(t, IsPgDuplicateError(errors.New("other")))
}

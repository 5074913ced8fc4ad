package azure

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"testing"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lmscontent/internal/domain"
)

// Azurite's published development account.
const devConnectionString = "DefaultEndpointsProtocol=http;AccountName=devstoreaccount1;" +
	"AccountKey=Eby8vdM02xNOcqFlqUwJPLlmEtlCDXJ1OUzFT50uSRZ6IFsuFq2UVErCz4I6tq/K1SZFPTOtr/KBHBeksoGMGw==;" +
	"BlobEndpoint=http://127.0.0.1:10000/devstoreaccount1;"

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestNewValidation(t *testing.T) {
	_, err := New(Config{ConnectionString: devConnectionString}, discard())
	assert.Error(t, err)

	_, err = New(Config{ConnectionString: "not a connection string", Container: "lms"}, discard())
	assert.Error(t, err)

	s, err := New(Config{ConnectionString: devConnectionString, Container: "lms"}, discard())
	require.NoError(t, err)
	assert.Equal(t, "lms", s.container)
}

func TestRetrievalURLWithPublicBase(t *testing.T) {
	s, err := New(Config{
		ConnectionString: devConnectionString,
		Container:        "lms",
		PublicBaseURL:    "https://cdn.example.com/lms",
	}, discard())
	require.NoError(t, err)

	u, err := s.RetrievalURL(context.Background(), "courses/1/12_week 1.pdf")
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/lms/courses/1/12_week%201.pdf", u)
}

func TestRejectsBadLocations(t *testing.T) {
	s, err := New(Config{ConnectionString: devConnectionString, Container: "lms"}, discard())
	require.NoError(t, err)
	ctx := context.Background()

	for _, loc := range []string{"", "../escape", "https://firebasestorage.googleapis.com/v0/b/x/o/a.pdf"} {
		assert.ErrorIs(t, s.Delete(ctx, loc), domain.ErrValidation, "location %q", loc)
		_, err := s.Put(ctx, loc, strings.NewReader("x"), 1, "")
		assert.ErrorIs(t, err, domain.ErrValidation, "location %q", loc)
	}
}

func TestWrapErr(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{"blob not found", &azcore.ResponseError{ErrorCode: "BlobNotFound", StatusCode: http.StatusNotFound}, domain.ErrNotFound},
		{"head 404 without code", &azcore.ResponseError{StatusCode: http.StatusNotFound}, domain.ErrNotFound},
		{"auth failure", &azcore.ResponseError{ErrorCode: "AuthorizationFailure", StatusCode: http.StatusForbidden}, domain.ErrForbidden},
		{"no response", errors.New("dial tcp 127.0.0.1:10000: connect: connection refused"), domain.ErrTransport},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, wrapErr("op", tt.err), tt.want)
		})
	}

	err := wrapErr("op", &azcore.ResponseError{ErrorCode: "ServerBusy", StatusCode: http.StatusServiceUnavailable})
	assert.NotErrorIs(t, err, domain.ErrTransport)
	assert.NotErrorIs(t, err, domain.ErrNotFound)
}

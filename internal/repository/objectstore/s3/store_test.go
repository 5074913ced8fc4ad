package s3

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lmscontent/internal/domain"
)

type fakeAPI struct {
	objects map[string][]byte
	headErr error
	puts    []*s3.PutObjectInput
}

func (f *fakeAPI) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	data, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.objects[*in.Key] = data
	f.puts = append(f.puts, in)
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeAPI) HeadObject(_ context.Context, in *s3.HeadObjectInput, _ ...func(*s3.Options)) (*s3.HeadObjectOutput, error) {
	if f.headErr != nil {
		return nil, f.headErr
	}
	if _, ok := f.objects[*in.Key]; !ok {
		return nil, &smithy.GenericAPIError{Code: "NotFound", Message: "Not Found"}
	}
	return &s3.HeadObjectOutput{}, nil
}

func (f *fakeAPI) DeleteObject(_ context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	delete(f.objects, *in.Key)
	return &s3.DeleteObjectOutput{}, nil
}

type fakePresigner struct {
	expires time.Duration
}

func (f *fakePresigner) PresignGetObject(_ context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
	var opts s3.PresignOptions
	for _, fn := range optFns {
		fn(&opts)
	}
	f.expires = opts.Expires
	return &v4.PresignedHTTPRequest{URL: "https://bucket.s3.amazonaws.com/" + *in.Key + "?X-Amz-Signature=x"}, nil
}

func newTestStore(t *testing.T) (*Store, *fakeAPI, *fakePresigner) {
	t.Helper()
	api := &fakeAPI{objects: map[string][]byte{}}
	presigner := &fakePresigner{}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s := NewWithClient(api, presigner, Config{Bucket: "lms", URLExpiry: 30 * time.Minute}, logger)
	return s, api, presigner
}

func TestPutAndRetrieve(t *testing.T) {
	s, api, presigner := newTestStore(t)
	ctx := context.Background()

	stored, err := s.Put(ctx, "courses/1/batches/2/17_a.pdf", strings.NewReader("pdf"), 3, "application/pdf")
	require.NoError(t, err)
	assert.Equal(t, "courses/1/batches/2/17_a.pdf", stored.Location)
	assert.Empty(t, stored.URL)

	require.Len(t, api.puts, 1)
	assert.Equal(t, "application/pdf", *api.puts[0].ContentType)
	assert.Equal(t, int64(3), *api.puts[0].ContentLength)

	u, err := s.RetrievalURL(ctx, stored.Location)
	require.NoError(t, err)
	assert.Contains(t, u, "courses/1/batches/2/17_a.pdf")
	assert.Equal(t, 30*time.Minute, presigner.expires)

	_, err = s.RetrievalURL(ctx, "courses/1/missing.pdf")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestPutUnknownSize(t *testing.T) {
	s, api, _ := newTestStore(t)

	_, err := s.Put(context.Background(), "a/b.bin", strings.NewReader("xyz"), -1, "")
	require.NoError(t, err)
	assert.Nil(t, api.puts[0].ContentLength)
	assert.Nil(t, api.puts[0].ContentType)
}

func TestDelete(t *testing.T) {
	s, api, _ := newTestStore(t)
	ctx := context.Background()
	api.objects["a/b.pdf"] = []byte("x")

	require.NoError(t, s.Delete(ctx, "a/b.pdf"))
	assert.Empty(t, api.objects)
	assert.ErrorIs(t, s.Delete(ctx, "a/b.pdf"), domain.ErrNotFound)

	api.headErr = errors.New("dial tcp: i/o timeout")
	assert.ErrorIs(t, s.Delete(ctx, "a/c.pdf"), domain.ErrTransport)
}

func TestWrapErr(t *testing.T) {
	assert.ErrorIs(t, wrapErr("op", &smithy.GenericAPIError{Code: "NoSuchKey"}), domain.ErrNotFound)
	assert.ErrorIs(t, wrapErr("op", &smithy.GenericAPIError{Code: "AccessDenied"}), domain.ErrForbidden)
	assert.ErrorIs(t, wrapErr("op", errors.New("connection reset")), domain.ErrTransport)

	err := wrapErr("op", &smithy.GenericAPIError{Code: "SlowDown"})
	assert.NotErrorIs(t, err, domain.ErrTransport)
}

// Package s3 stores uploads in Amazon S3 through aws-sdk-go-v2.
package s3

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"

	"lmscontent/internal/domain"
	contentRepo "lmscontent/internal/domain/repositories/content"
	"lmscontent/internal/repository/objectstore"
)

// Config describes the bucket. Empty keys fall back to the default
// credential chain.
type Config struct {
	Region        string
	Endpoint      string
	AccessKey     string
	SecretKey     string
	Bucket        string
	PublicBaseURL string
	URLExpiry     time.Duration
}

// API is the part of the S3 client the store uses.
type API interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	HeadObject(ctx context.Context, in *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error)
	DeleteObject(ctx context.Context, in *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// Presigner issues presigned GET requests.
type Presigner interface {
	PresignGetObject(ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error)
}

// Store implements the object store on S3.
type Store struct {
	api       API
	presigner Presigner
	bucket    string
	publicURL string
	expiry    time.Duration
	logger    *slog.Logger
}

// New loads AWS configuration and builds the client and presigner.
func New(ctx context.Context, cfg Config, logger *slog.Logger) (*Store, error) {
	if strings.TrimSpace(cfg.Bucket) == "" {
		return nil, fmt.Errorf("s3 bucket is required")
	}

	opts := []func(*config.LoadOptions) error{config.WithRegion(cfg.Region)}
	if cfg.AccessKey != "" && cfg.SecretKey != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}
	awsCfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	return NewWithClient(client, s3.NewPresignClient(client), cfg, logger), nil
}

// NewWithClient builds a store over existing clients.
func NewWithClient(api API, presigner Presigner, cfg Config, logger *slog.Logger) *Store {
	if cfg.URLExpiry <= 0 {
		cfg.URLExpiry = time.Hour
	}
	return &Store{
		api:       api,
		presigner: presigner,
		bucket:    cfg.Bucket,
		publicURL: cfg.PublicBaseURL,
		expiry:    cfg.URLExpiry,
		logger:    logger.With("store", "s3", "bucket", cfg.Bucket),
	}
}

var _ contentRepo.ObjectStore = (*Store)(nil)

// Put uploads the body. Streams are sent with an unsigned payload so the
// body does not need to be seekable.
func (s *Store) Put(ctx context.Context, path string, body io.Reader, size int64, contentType string) (contentRepo.StoredObject, error) {
	key, err := objectstore.Key(path)
	if err != nil {
		return contentRepo.StoredObject{}, err
	}

	in := &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
		Body:   body,
	}
	if contentType != "" {
		in.ContentType = aws.String(contentType)
	}
	if size >= 0 {
		in.ContentLength = aws.Int64(size)
	}

	if _, err := s.api.PutObject(ctx, in, s3.WithAPIOptions(v4.SwapComputePayloadSHA256ForUnsignedPayloadMiddleware)); err != nil {
		return contentRepo.StoredObject{}, wrapErr("put object "+key, err)
	}

	s.logger.Debug("object stored", "key", key, "size", size)
	return contentRepo.StoredObject{
		Location: key,
		URL:      objectstore.PublicURL(s.publicURL, key),
	}, nil
}

// RetrievalURL presigns a GET after checking the object exists.
func (s *Store) RetrievalURL(ctx context.Context, location string) (string, error) {
	key, err := objectstore.Key(location)
	if err != nil {
		return "", err
	}
	if u := objectstore.PublicURL(s.publicURL, key); u != "" {
		return u, nil
	}

	if err := s.head(ctx, key); err != nil {
		return "", err
	}
	req, err := s.presigner.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(s.expiry))
	if err != nil {
		return "", wrapErr("presign object "+key, err)
	}
	return req.URL, nil
}

// Delete removes the object. DeleteObject succeeds for missing keys, so
// existence is checked first.
func (s *Store) Delete(ctx context.Context, location string) error {
	key, err := objectstore.Key(location)
	if err != nil {
		return err
	}
	if err := s.head(ctx, key); err != nil {
		return err
	}

	if _, err := s.api.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}); err != nil {
		return wrapErr("delete object "+key, err)
	}

	s.logger.Debug("object removed", "key", key)
	return nil
}

func (s *Store) head(ctx context.Context, key string) error {
	_, err := s.api.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return wrapErr("head object "+key, err)
	}
	return nil
}

// wrapErr maps S3 API error codes to domain errors. Anything without an API
// error never got an answer from S3.
func wrapErr(op string, err error) error {
	var apiErr smithy.APIError
	if !errors.As(err, &apiErr) {
		return &domain.TransportError{Op: op, Err: err}
	}
	switch apiErr.ErrorCode() {
	case "NoSuchKey", "NotFound", "NoSuchBucket":
		return &domain.NotFoundError{Message: fmt.Sprintf("%s: object not found", op)}
	case "AccessDenied", "Forbidden":
		return &domain.ForbiddenError{Message: fmt.Sprintf("%s: access denied", op)}
	}
	return fmt.Errorf("%s: %w", op, err)
}

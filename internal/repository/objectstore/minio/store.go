// Package minio stores uploads in an S3-compatible bucket through minio-go.
package minio

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"lmscontent/internal/domain"
	contentRepo "lmscontent/internal/domain/repositories/content"
	"lmscontent/internal/repository/objectstore"
)

// Config describes the bucket and credentials.
type Config struct {
	Endpoint      string
	Region        string
	AccessKey     string
	SecretKey     string
	Bucket        string
	UseSSL        bool
	PublicBaseURL string
	URLExpiry     time.Duration
}

// Store implements the object store on a MinIO or S3-compatible server.
type Store struct {
	client    *minio.Client
	bucket    string
	region    string
	publicURL string
	expiry    time.Duration
	logger    *slog.Logger

	initOnce sync.Once
	initErr  error
}

// New validates cfg and builds the client. No request is made until first use.
func New(cfg Config, logger *slog.Logger) (*Store, error) {
	endpoint := strings.TrimSpace(cfg.Endpoint)
	if endpoint == "" {
		return nil, fmt.Errorf("minio endpoint is required")
	}
	access := strings.TrimSpace(cfg.AccessKey)
	secret := strings.TrimSpace(cfg.SecretKey)
	if access == "" || secret == "" {
		return nil, fmt.Errorf("minio access key and secret key are required")
	}
	bucket := strings.TrimSpace(cfg.Bucket)
	if bucket == "" {
		return nil, fmt.Errorf("minio bucket is required")
	}
	region := strings.TrimSpace(cfg.Region)
	if region == "" {
		region = "us-east-1"
	}
	if cfg.URLExpiry <= 0 {
		cfg.URLExpiry = time.Hour
	}

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(access, secret, ""),
		Secure: cfg.UseSSL,
		Region: region,
	})
	if err != nil {
		return nil, fmt.Errorf("init minio client: %w", err)
	}

	return &Store{
		client:    client,
		bucket:    bucket,
		region:    region,
		publicURL: cfg.PublicBaseURL,
		expiry:    cfg.URLExpiry,
		logger:    logger.With("store", "minio", "bucket", bucket),
	}, nil
}

var _ contentRepo.ObjectStore = (*Store)(nil)

func (s *Store) ensureBucket(ctx context.Context) error {
	s.initOnce.Do(func() {
		exists, err := s.client.BucketExists(ctx, s.bucket)
		if err != nil {
			s.initErr = wrapErr("check bucket", err)
			return
		}
		if exists {
			return
		}
		s.initErr = s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{Region: s.region})
		if s.initErr == nil {
			s.logger.Info("bucket created")
		}
	})
	return s.initErr
}

// Put streams the body to the bucket. size may be -1.
func (s *Store) Put(ctx context.Context, path string, body io.Reader, size int64, contentType string) (contentRepo.StoredObject, error) {
	key, err := objectstore.Key(path)
	if err != nil {
		return contentRepo.StoredObject{}, err
	}
	if err := s.ensureBucket(ctx); err != nil {
		return contentRepo.StoredObject{}, fmt.Errorf("ensure bucket: %w", err)
	}

	info, err := s.client.PutObject(ctx, s.bucket, key, body, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return contentRepo.StoredObject{}, wrapErr("put object "+key, err)
	}

	s.logger.Debug("object stored", "key", key, "size", info.Size)
	return contentRepo.StoredObject{
		Location: key,
		URL:      objectstore.PublicURL(s.publicURL, key),
	}, nil
}

// RetrievalURL presigns a GET for the object.
func (s *Store) RetrievalURL(ctx context.Context, location string) (string, error) {
	key, err := objectstore.Key(location)
	if err != nil {
		return "", err
	}
	if u := objectstore.PublicURL(s.publicURL, key); u != "" {
		return u, nil
	}

	if _, err := s.client.StatObject(ctx, s.bucket, key, minio.StatObjectOptions{}); err != nil {
		return "", wrapErr("stat object "+key, err)
	}
	u, err := s.client.PresignedGetObject(ctx, s.bucket, key, s.expiry, nil)
	if err != nil {
		return "", wrapErr("presign object "+key, err)
	}
	return u.String(), nil
}

// Delete removes the object, reporting NotFound when it is already gone.
func (s *Store) Delete(ctx context.Context, location string) error {
	key, err := objectstore.Key(location)
	if err != nil {
		return err
	}

	// RemoveObject succeeds for missing keys, so check first.
	if _, err := s.client.StatObject(ctx, s.bucket, key, minio.StatObjectOptions{}); err != nil {
		return wrapErr("stat object "+key, err)
	}
	if err := s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return wrapErr("remove object "+key, err)
	}

	s.logger.Debug("object removed", "key", key)
	return nil
}

// wrapErr maps S3 error codes onto domain errors. Errors without a code
// never reached the server.
func wrapErr(op string, err error) error {
	resp := minio.ToErrorResponse(err)
	switch resp.Code {
	case "NoSuchKey", "NoSuchBucket", "NotFound":
		return &domain.NotFoundError{Message: fmt.Sprintf("%s: object not found", op)}
	case "AccessDenied":
		return &domain.ForbiddenError{Message: fmt.Sprintf("%s: access denied", op)}
	case "":
		return &domain.TransportError{Op: op, Err: err}
	}
	return fmt.Errorf("%s: %w", op, err)
}

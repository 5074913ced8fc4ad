// Package azure stores uploads in Azure Blob Storage.
package azure

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/blob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/bloberror"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/sas"

	"lmscontent/internal/domain"
	contentRepo "lmscontent/internal/domain/repositories/content"
	"lmscontent/internal/repository/objectstore"
)

type Config struct {
	ConnectionString string
	Container        string
	PublicBaseURL    string
	URLExpiry        time.Duration
}

// Store implements the object store on a blob container. Retrieval URLs are
// read-only SAS links signed with the connection string's account key.
type Store struct {
	client    *azblob.Client
	container string
	publicURL string
	expiry    time.Duration
	logger    *slog.Logger

	once    sync.Once
	initErr error
}

// New validates the connection string and creates the client. The container
// is created on first write.
func New(cfg Config, logger *slog.Logger) (*Store, error) {
	if strings.TrimSpace(cfg.Container) == "" {
		return nil, fmt.Errorf("azure container is required")
	}
	client, err := azblob.NewClientFromConnectionString(cfg.ConnectionString, nil)
	if err != nil {
		return nil, fmt.Errorf("create storage client: %w", err)
	}
	if cfg.URLExpiry <= 0 {
		cfg.URLExpiry = time.Hour
	}

	return &Store{
		client:    client,
		container: cfg.Container,
		publicURL: cfg.PublicBaseURL,
		expiry:    cfg.URLExpiry,
		logger:    logger.With("store", "azure", "container", cfg.Container),
	}, nil
}

var _ contentRepo.ObjectStore = (*Store)(nil)

func (s *Store) ensureContainer(ctx context.Context) error {
	s.once.Do(func() {
		_, err := s.client.CreateContainer(ctx, s.container, nil)
		if err != nil && !bloberror.HasCode(err, bloberror.ContainerAlreadyExists) {
			s.initErr = wrapErr("create container", err)
			return
		}
		s.logger.Info("storage container ready")
	})
	return s.initErr
}

func (s *Store) Put(ctx context.Context, path string, body io.Reader, size int64, contentType string) (contentRepo.StoredObject, error) {
	key, err := objectstore.Key(path)
	if err != nil {
		return contentRepo.StoredObject{}, err
	}
	if err := s.ensureContainer(ctx); err != nil {
		return contentRepo.StoredObject{}, err
	}

	opts := &azblob.UploadStreamOptions{}
	if contentType != "" {
		opts.HTTPHeaders = &blob.HTTPHeaders{BlobContentType: &contentType}
	}
	if _, err := s.client.UploadStream(ctx, s.container, key, body, opts); err != nil {
		return contentRepo.StoredObject{}, wrapErr("upload blob "+key, err)
	}

	s.logger.Debug("blob stored", "key", key, "size", size)
	return contentRepo.StoredObject{
		Location: key,
		URL:      objectstore.PublicURL(s.publicURL, key),
	}, nil
}

func (s *Store) RetrievalURL(ctx context.Context, location string) (string, error) {
	key, err := objectstore.Key(location)
	if err != nil {
		return "", err
	}
	if u := objectstore.PublicURL(s.publicURL, key); u != "" {
		return u, nil
	}

	blobClient := s.blobClient(key)
	if _, err := blobClient.GetProperties(ctx, nil); err != nil {
		return "", wrapErr("get blob properties "+key, err)
	}

	u, err := blobClient.GetSASURL(sas.BlobPermissions{Read: true}, time.Now().UTC().Add(s.expiry), nil)
	if err != nil {
		return "", fmt.Errorf("sign blob url %s: %w", key, err)
	}
	return u, nil
}

func (s *Store) Delete(ctx context.Context, location string) error {
	key, err := objectstore.Key(location)
	if err != nil {
		return err
	}

	if _, err := s.client.DeleteBlob(ctx, s.container, key, nil); err != nil {
		return wrapErr("delete blob "+key, err)
	}

	s.logger.Debug("blob removed", "key", key)
	return nil
}

func (s *Store) blobClient(key string) *blob.Client {
	return s.client.
		ServiceClient().
		NewContainerClient(s.container).
		NewBlobClient(key)
}

// wrapErr maps storage service error codes to domain errors. Errors that
// carry no service response are transport failures.
func wrapErr(op string, err error) error {
	var respErr *azcore.ResponseError
	if !errors.As(err, &respErr) {
		return &domain.TransportError{Op: op, Err: err}
	}

	switch {
	case bloberror.HasCode(err, bloberror.BlobNotFound, bloberror.ContainerNotFound),
		respErr.StatusCode == http.StatusNotFound:
		return &domain.NotFoundError{Message: fmt.Sprintf("%s: blob not found", op)}
	case bloberror.HasCode(err, bloberror.AuthorizationFailure, bloberror.AuthenticationFailed),
		respErr.StatusCode == http.StatusForbidden:
		return &domain.ForbiddenError{Message: fmt.Sprintf("%s: access denied", op)}
	}
	return fmt.Errorf("%s: %w", op, err)
}

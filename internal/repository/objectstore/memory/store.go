// Package memory provides an in-process ObjectStore for tests and local runs.
package memory

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"sync"

	"lmscontent/internal/domain"
	contentRepo "lmscontent/internal/domain/repositories/content"
)

// Object is one stored binary.
type Object struct {
	Data        []byte
	ContentType string
}

// Store keeps objects in a map keyed by path.
type Store struct {
	mu      sync.RWMutex
	bucket  string
	objects map[string]Object
}

// New creates an empty store. URLs are issued under memory://bucket/.
func New(bucket string) *Store {
	return &Store{bucket: bucket, objects: make(map[string]Object)}
}

var _ contentRepo.ObjectStore = (*Store)(nil)

func (s *Store) Put(ctx context.Context, path string, body io.Reader, size int64, contentType string) (contentRepo.StoredObject, error) {
	if err := ctx.Err(); err != nil {
		return contentRepo.StoredObject{}, err
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return contentRepo.StoredObject{}, fmt.Errorf("read object body: %w", err)
	}
	if size >= 0 && int64(len(data)) != size {
		return contentRepo.StoredObject{}, fmt.Errorf("object %s: read %d bytes, expected %d", path, len(data), size)
	}

	s.mu.Lock()
	s.objects[path] = Object{Data: data, ContentType: contentType}
	s.mu.Unlock()

	return contentRepo.StoredObject{Location: path, URL: s.url(path)}, nil
}

func (s *Store) RetrievalURL(ctx context.Context, location string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if _, ok := s.objects[location]; !ok {
		return "", domain.NewNotFound("object", location)
	}
	return s.url(location), nil
}

func (s *Store) Delete(ctx context.Context, location string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.objects[location]; !ok {
		return domain.NewNotFound("object", location)
	}
	delete(s.objects, location)
	return nil
}

// Object returns a stored object, for inspection in tests.
func (s *Store) Object(location string) (Object, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	o, ok := s.objects[location]
	return o, ok
}

// Len reports how many objects are stored.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.objects)
}

func (s *Store) url(location string) string {
	return (&url.URL{Scheme: "memory", Host: s.bucket, Path: "/" + location}).String()
}

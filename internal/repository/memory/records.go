// Package memory provides an in-process RecordStore. It keeps insertion
// order so listings are deterministic.
package memory

import (
	"context"
	"fmt"
	"maps"
	"sync"

	"github.com/google/uuid"

	"lmscontent/internal/domain"
	models "lmscontent/internal/domain/models/content"
	contentRepo "lmscontent/internal/domain/repositories/content"
)

type collection struct {
	order []string
	docs  map[string]models.Record
}

// RecordStore is a concurrency-safe map of collections.
type RecordStore struct {
	mu          sync.RWMutex
	collections map[string]*collection
}

// NewRecordStore creates an empty store.
func NewRecordStore() *RecordStore {
	return &RecordStore{collections: make(map[string]*collection)}
}

var _ contentRepo.RecordStore = (*RecordStore)(nil)

func (s *RecordStore) coll(name string) *collection {
	c, ok := s.collections[name]
	if !ok {
		c = &collection{docs: make(map[string]models.Record)}
		s.collections[name] = c
	}
	return c
}

// idKey is the map key for a record id; lookups go through it too so a
// numeric id and its string form find the same record.
func idKey(v any) string {
	return models.CanonicalID(v)
}

func (s *RecordStore) Insert(ctx context.Context, name string, record models.Record) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	rec := maps.Clone(record)
	if rec == nil {
		rec = models.Record{}
	}
	id := idKey(rec[models.FieldID])
	if id == "" {
		id = uuid.NewString()
		rec[models.FieldID] = id
	}

	c := s.coll(name)
	if _, exists := c.docs[id]; exists {
		return "", &domain.ConflictError{
			Message:      fmt.Sprintf("record %s already exists in %s", id, name),
			ResourceType: name,
			ResourceID:   id,
		}
	}
	c.docs[id] = rec
	c.order = append(c.order, id)
	return id, nil
}

func (s *RecordStore) QueryAll(ctx context.Context, name string) ([]models.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.collections[name]
	if !ok {
		return []models.Record{}, nil
	}
	out := make([]models.Record, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, maps.Clone(c.docs[id]))
	}
	return out, nil
}

func (s *RecordStore) Get(ctx context.Context, name, id string) (models.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	id = idKey(id)
	if c, ok := s.collections[name]; ok {
		if rec, ok := c.docs[id]; ok {
			return maps.Clone(rec), nil
		}
	}
	return nil, domain.NewNotFound("record", id)
}

func (s *RecordStore) Update(ctx context.Context, name, id string, patch models.Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	id = idKey(id)
	c, ok := s.collections[name]
	if !ok {
		return domain.NewNotFound("record", id)
	}
	rec, ok := c.docs[id]
	if !ok {
		return domain.NewNotFound("record", id)
	}
	for k, v := range patch {
		if k == models.FieldID {
			continue
		}
		rec[k] = v
	}
	return nil
}

func (s *RecordStore) Delete(ctx context.Context, name, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	id = idKey(id)
	c, ok := s.collections[name]
	if !ok {
		return domain.NewNotFound("record", id)
	}
	if _, ok := c.docs[id]; !ok {
		return domain.NewNotFound("record", id)
	}
	delete(c.docs, id)
	for i, key := range c.order {
		if key == id {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
	return nil
}

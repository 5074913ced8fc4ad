package content

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"lmscontent/internal/domain/models"
	contentModels "lmscontent/internal/domain/models/content"
	contentRepo "lmscontent/internal/domain/repositories/content"
	contentSvc "lmscontent/internal/domain/services/content"
	"lmscontent/internal/repository/memory"
	objmem "lmscontent/internal/repository/objectstore/memory"
	"lmscontent/internal/service/auth"
)

var errInjected = errors.New("injected failure")

var testCollections = contentModels.Collections{Folders: "folders", Items: "learnflow_content"}

// flakyRecords wraps a RecordStore with switchable failures.
type flakyRecords struct {
	contentRepo.RecordStore

	mu         sync.Mutex
	failQuery  error
	failInsert error
	failDelete error
	failUpdate error
	queries    int
}

func (f *flakyRecords) set(fn func(f *flakyRecords)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	fn(f)
}

func (f *flakyRecords) QueryAll(ctx context.Context, c string) ([]contentModels.Record, error) {
	f.mu.Lock()
	err := f.failQuery
	f.queries++
	f.mu.Unlock()
	if err != nil {
		return nil, err
	}
	return f.RecordStore.QueryAll(ctx, c)
}

func (f *flakyRecords) Insert(ctx context.Context, c string, r contentModels.Record) (string, error) {
	f.mu.Lock()
	err := f.failInsert
	f.mu.Unlock()
	if err != nil {
		return "", err
	}
	return f.RecordStore.Insert(ctx, c, r)
}

func (f *flakyRecords) Update(ctx context.Context, c, id string, p contentModels.Record) error {
	f.mu.Lock()
	err := f.failUpdate
	f.mu.Unlock()
	if err != nil {
		return err
	}
	return f.RecordStore.Update(ctx, c, id, p)
}

func (f *flakyRecords) Delete(ctx context.Context, c, id string) error {
	f.mu.Lock()
	err := f.failDelete
	f.mu.Unlock()
	if err != nil {
		return err
	}
	return f.RecordStore.Delete(ctx, c, id)
}

// flakyObjects wraps an ObjectStore with switchable failures.
type flakyObjects struct {
	*objmem.Store

	failDelete error
	urlCalls   int
}

func (f *flakyObjects) Delete(ctx context.Context, location string) error {
	if f.failDelete != nil {
		return f.failDelete
	}
	return f.Store.Delete(ctx, location)
}

func (f *flakyObjects) RetrievalURL(ctx context.Context, location string) (string, error) {
	f.urlCalls++
	return f.Store.RetrievalURL(ctx, location)
}

type fixture struct {
	records  *flakyRecords
	objects  *flakyObjects
	query    contentSvc.QueryService
	mutation contentSvc.MutationService
	admin    context.Context
	student  context.Context
}

func newFixture(t *testing.T, policy DeletePolicy) *fixture {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	records := &flakyRecords{RecordStore: memory.NewRecordStore()}
	objects := &flakyObjects{Store: objmem.New("test")}
	normalizer := newTestNormalizer(t)
	authorizer := auth.NewSurfaceAuthorizer()

	query := NewQueryService(records, testCollections, normalizer, authorizer, logger)
	mutation := NewMutationService(records, objects, query, testCollections, normalizer, authorizer,
		MutationOptions{DeletePolicy: policy, MaxUploadBytes: 1 << 20, URLCacheTTL: time.Minute},
		logger,
	)
	mutation.(*mutationService).now = func() time.Time {
		return time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	}

	return &fixture{
		records:  records,
		objects:  objects,
		query:    query,
		mutation: mutation,
		admin:    models.WithActor(context.Background(), models.Actor{UserID: "admin-1", Surface: models.SurfaceAdmin}),
		student:  models.WithActor(context.Background(), models.Actor{UserID: "student-1", Surface: models.SurfaceStudent}),
	}
}

func (fx *fixture) seed(t *testing.T, collection string, recs ...contentModels.Record) {
	t.Helper()
	for _, r := range recs {
		_, err := fx.records.RecordStore.Insert(context.Background(), collection, r)
		require.NoError(t, err)
	}
}

package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kernelci/backend-go/internal/data"
	"github.com/kernelci/backend-go/internal/domain/model"
)

var frozenTime = time.Date(2014, 7, 1, 12, 0, 0, 0, time.UTC)

func newTestService(t *testing.T, repo *stubJobRepo, cache *stubCacheRepo) *JobService {
	t.Helper()
	opts := JobServiceOptions{
		Repo:         repo,
		TimeProvider: data.NewFixedTimeProvider(frozenTime),
	}
	if cache != nil {
		opts.Cache = cache
	}
	svc, err := NewJobService(opts)
	require.NoError(t, err)
	return svc
}

func TestNewJobService_RequiresRepo(t *testing.T) {
	_, err := NewJobService(JobServiceOptions{})

	assert.Error(t, err)
}

func TestJobService_Upsert_StampsUpdated(t *testing.T) {
	repo := newStubJobRepo()
	svc := newTestService(t, repo, nil)

	doc := model.NewJobDocumentFor("myjob", "3.10")
	require.NoError(t, svc.Upsert(context.Background(), doc))

	require.NotNil(t, doc.Updated)
	assert.Equal(t, "2014-07-01T12:00:00Z", *doc.Updated)
	assert.Equal(t, 1, repo.saves)
}

func TestJobService_Upsert_RefreshesCache(t *testing.T) {
	repo := newStubJobRepo()
	cache := newStubCacheRepo()
	svc := newTestService(t, repo, cache)

	doc := model.NewJobDocumentFor("myjob", "3.10")
	require.NoError(t, svc.Upsert(context.Background(), doc))

	raw := cache.entries[data.JobCacheKey("myjob-3.10")]
	require.NotNil(t, raw)
	cached, err := model.JobFromJSON(raw)
	require.NoError(t, err)
	assert.Equal(t, "myjob-3.10", cached.ID)
}

func TestJobService_Get_ServesFromCache(t *testing.T) {
	repo := newStubJobRepo()
	cache := newStubCacheRepo()
	svc := newTestService(t, repo, cache)

	doc := model.NewJobDocumentFor("myjob", "3.10")
	require.NoError(t, svc.Upsert(context.Background(), doc))

	got, err := svc.Get(context.Background(), "myjob-3.10")
	require.NoError(t, err)
	assert.Equal(t, "myjob-3.10", got.ID)
	assert.Zero(t, repo.finds, "cache hit must not touch the store")
}

func TestJobService_Get_BackfillsCacheOnMiss(t *testing.T) {
	repo := newStubJobRepo()
	cache := newStubCacheRepo()
	doc := model.NewJobDocumentFor("myjob", "3.10")
	repo.docs[doc.ID] = doc
	svc := newTestService(t, repo, cache)

	got, err := svc.Get(context.Background(), "myjob-3.10")
	require.NoError(t, err)
	assert.Equal(t, "myjob-3.10", got.ID)
	assert.Equal(t, 1, repo.finds)
	assert.NotNil(t, cache.entries[data.JobCacheKey("myjob-3.10")])
}

func TestJobService_Get_CacheErrorFallsBackToStore(t *testing.T) {
	repo := newStubJobRepo()
	doc := model.NewJobDocumentFor("myjob", "3.10")
	repo.docs[doc.ID] = doc
	cache := newStubCacheRepo()
	cache.err = errors.New("redis down")
	svc := newTestService(t, repo, cache)

	got, err := svc.Get(context.Background(), "myjob-3.10")
	require.NoError(t, err)
	assert.Equal(t, "myjob-3.10", got.ID)
}

func TestJobService_Get_NotFound(t *testing.T) {
	svc := newTestService(t, newStubJobRepo(), nil)

	_, err := svc.Get(context.Background(), "missing-1.0")

	assert.ErrorIs(t, err, data.ErrJobNotFound)
}

func TestJobService_Delete_InvalidatesCache(t *testing.T) {
	repo := newStubJobRepo()
	cache := newStubCacheRepo()
	svc := newTestService(t, repo, cache)

	doc := model.NewJobDocumentFor("myjob", "3.10")
	require.NoError(t, svc.Upsert(context.Background(), doc))
	require.NoError(t, svc.Delete(context.Background(), "myjob-3.10"))

	assert.Empty(t, repo.docs)
	assert.Empty(t, cache.entries)
}

func TestJobService_Count(t *testing.T) {
	repo := newStubJobRepo()
	svc := newTestService(t, repo, nil)

	require.NoError(t, svc.Upsert(context.Background(), model.NewJobDocumentFor("a", "1")))
	require.NoError(t, svc.Upsert(context.Background(), model.NewJobDocumentFor("b", "2")))

	n, err := svc.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
}

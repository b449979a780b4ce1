package data

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kernelci/backend-go/internal/testutil"
)

func TestRedisCacheRepo_SetGetDelete(t *testing.T) {
	client := testutil.SetupTestRedis(t)
	repo := NewRedisCacheRepo(client)
	ctx := context.Background()

	key := JobCacheKey("myjob-3.10")

	missing, err := repo.Get(ctx, key)
	require.NoError(t, err)
	assert.Nil(t, missing, "miss must return nil, not an error")

	require.NoError(t, repo.Set(ctx, key, []byte(`{"_id":"myjob-3.10"}`), time.Minute))

	got, err := repo.Get(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, []byte(`{"_id":"myjob-3.10"}`), got)

	deleted, err := repo.Delete(ctx, key)
	require.NoError(t, err)
	assert.True(t, deleted)

	deleted, err = repo.Delete(ctx, key)
	require.NoError(t, err)
	assert.False(t, deleted)
}

func TestRedisCacheRepo_EmptyKey(t *testing.T) {
	repo := NewRedisCacheRepo(nil)
	ctx := context.Background()

	_, err := repo.Get(ctx, "")
	assert.Error(t, err)

	assert.Error(t, repo.Set(ctx, "", nil, time.Minute))

	_, err = repo.Delete(ctx, "")
	assert.Error(t, err)
}

func TestJobCacheKey(t *testing.T) {
	assert.Equal(t, "kci:job:myjob-3.10", JobCacheKey("myjob-3.10"))
}

package cache

import (
	"context"
	"testing"
	"time"

	"pantry-finder/internal/infrastructure/config"
	"pantry-finder/internal/pkg/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestManager 建立不啟動清理協程、時間可控的管理器
func newTestManager(maxSize int, ttl time.Duration) (*CacheManager, *time.Time) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	m := NewManager(config.CacheConfig{Enabled: true, MaxSize: maxSize, TTL: ttl})
	m.now = func() time.Time { return now }
	return m, &now
}

func TestManagerGetSet(t *testing.T) {
	m, _ := newTestManager(10, time.Minute)
	defer m.Close()
	ctx := context.Background()

	_, err := m.Get(ctx, "mealdb", "/filter.php:eggs")
	assert.ErrorIs(t, err, common.ErrCacheMiss)

	require.NoError(t, m.Set(ctx, "mealdb", "/filter.php:eggs", `{"meals":null}`))
	got, err := m.Get(ctx, "mealdb", "/filter.php:eggs")
	require.NoError(t, err)
	assert.Equal(t, `{"meals":null}`, got)

	// 不同命名空間互不影響
	_, err = m.Get(ctx, "shopping", "/filter.php:eggs")
	assert.ErrorIs(t, err, common.ErrCacheMiss)

	require.NoError(t, m.Delete(ctx, "mealdb", "/filter.php:eggs"))
	_, err = m.Get(ctx, "mealdb", "/filter.php:eggs")
	assert.ErrorIs(t, err, common.ErrCacheMiss)
}

func TestManagerExpiry(t *testing.T) {
	m, now := newTestManager(10, time.Minute)
	defer m.Close()
	ctx := context.Background()

	require.NoError(t, m.Set(ctx, "ns", "k", "v"))
	*now = now.Add(59 * time.Second)
	_, err := m.Get(ctx, "ns", "k")
	require.NoError(t, err)

	*now = now.Add(2 * time.Second)
	_, err = m.Get(ctx, "ns", "k")
	assert.ErrorIs(t, err, common.ErrCacheMiss)

	stats := m.Stats()
	assert.Equal(t, int64(1), stats["hits"])
	assert.Equal(t, int64(1), stats["misses"])
	assert.Equal(t, int64(1), stats["evictions"])
	assert.Equal(t, 0, stats["size"])
}

func TestManagerEvictsLeastUsed(t *testing.T) {
	m, now := newTestManager(2, time.Hour)
	defer m.Close()
	ctx := context.Background()

	require.NoError(t, m.Set(ctx, "ns", "a", "1"))
	*now = now.Add(time.Second)
	require.NoError(t, m.Set(ctx, "ns", "b", "2"))
	_, err := m.Get(ctx, "ns", "a")
	require.NoError(t, err)

	require.NoError(t, m.Set(ctx, "ns", "c", "3"))

	_, err = m.Get(ctx, "ns", "b")
	assert.ErrorIs(t, err, common.ErrCacheMiss)
	_, err = m.Get(ctx, "ns", "a")
	assert.NoError(t, err)
	_, err = m.Get(ctx, "ns", "c")
	assert.NoError(t, err)
}

func TestManagerOverwriteAtCapacity(t *testing.T) {
	m, _ := newTestManager(1, time.Hour)
	defer m.Close()
	ctx := context.Background()

	require.NoError(t, m.Set(ctx, "ns", "a", "1"))
	require.NoError(t, m.Set(ctx, "ns", "a", "2"))

	got, err := m.Get(ctx, "ns", "a")
	require.NoError(t, err)
	assert.Equal(t, "2", got)
	assert.Equal(t, 1, m.Stats()["size"])
}

func TestManagerExpiredEntriesFreeCapacity(t *testing.T) {
	m, now := newTestManager(1, time.Minute)
	defer m.Close()
	ctx := context.Background()

	require.NoError(t, m.Set(ctx, "ns", "old", "1"))
	*now = now.Add(2 * time.Minute)
	require.NoError(t, m.Set(ctx, "ns", "new", "2"))

	_, err := m.Get(ctx, "ns", "old")
	assert.ErrorIs(t, err, common.ErrCacheMiss)
	got, err := m.Get(ctx, "ns", "new")
	require.NoError(t, err)
	assert.Equal(t, "2", got)
}

func TestManagerCloseIsIdempotent(t *testing.T) {
	m := NewManager(config.CacheConfig{Enabled: true, MaxSize: 1, TTL: time.Minute, CleanupInterval: time.Millisecond})
	assert.NoError(t, m.Close())
	assert.NoError(t, m.Close())
}

func TestNewStore(t *testing.T) {
	cfg := &config.Config{Cache: config.CacheConfig{Enabled: false}}
	store, err := NewStore(context.Background(), cfg)
	require.NoError(t, err)
	assert.Nil(t, store)

	cfg.Cache = config.CacheConfig{Enabled: true, Driver: config.CacheDriverMemory, MaxSize: 5, TTL: time.Minute}
	store, err = NewStore(context.Background(), cfg)
	require.NoError(t, err)
	require.NotNil(t, store)
	assert.IsType(t, &CacheManager{}, store)
	assert.NoError(t, store.Close())

	cfg.Cache.Driver = "memcached"
	_, err = NewStore(context.Background(), cfg)
	assert.Error(t, err)
}

func TestNewListStore(t *testing.T) {
	lists, owned := NewListStore(nil)
	require.True(t, owned)
	defer lists.Close()

	m, ok := lists.(*CacheManager)
	require.True(t, ok)
	assert.Equal(t, listTTL, m.config.TTL)
	assert.Equal(t, listMaxSize, m.config.MaxSize)
}

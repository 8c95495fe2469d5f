package cache

import (
	"context"
	"fmt"
	"time"

	"pantry-finder/internal/infrastructure/config"
	"pantry-finder/internal/pkg/common"
)

// Store 以命名空間區分的字串鍵值緩存。
// 找不到或已過期時 Get 回傳 common.ErrCacheMiss。
type Store interface {
	Get(ctx context.Context, namespace, key string) (string, error)
	Set(ctx context.Context, namespace, key, value string) error
	Delete(ctx context.Context, namespace, key string) error
	Stats() map[string]interface{}
	Close() error
}

var (
	_ Store = (*CacheManager)(nil)
	_ Store = (*RedisStore)(nil)
)

// NewStore 依設定建立緩存；停用時回傳 nil
func NewStore(ctx context.Context, cfg *config.Config) (Store, error) {
	if !cfg.Cache.Enabled {
		common.LogInfo("Cache disabled")
		return nil, nil
	}

	switch cfg.Cache.Driver {
	case config.CacheDriverMemory:
		return NewManager(cfg.Cache), nil
	case config.CacheDriverRedis:
		rs, err := NewRedisStore(ctx, cfg.Cache, cfg.Redis)
		if err != nil {
			return nil, err
		}
		return rs, nil
	default:
		return nil, fmt.Errorf("unknown cache driver %q", cfg.Cache.Driver)
	}
}

// 購物清單存放設定
const (
	listTTL             = 30 * 24 * time.Hour
	listMaxSize         = 10000
	listCleanupInterval = time.Hour
)

// NewListStore 建立購物清單使用的存放區。
// 主緩存為 Redis 時共用同一個連線，只延長存活時間；否則建立獨立的記憶體緩存。
// owned 為 true 時呼叫端負責 Close。
func NewListStore(primary Store) (store Store, owned bool) {
	cfg := config.CacheConfig{
		Enabled:         true,
		Driver:          config.CacheDriverMemory,
		MaxSize:         listMaxSize,
		TTL:             listTTL,
		CleanupInterval: listCleanupInterval,
	}

	if rs, ok := primary.(*RedisStore); ok {
		cfg.Driver = config.CacheDriverRedis
		return newRedisStore(rs.client, cfg), false
	}
	return NewManager(cfg), true
}

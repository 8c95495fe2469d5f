package cache

import (
	"context"
	"errors"
	"fmt"

	"pantry-finder/internal/infrastructure/config"
	"pantry-finder/internal/pkg/common"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// RedisStore Redis 緩存服務
type RedisStore struct {
	client *redis.Client
	config config.CacheConfig
	prefix string
}

// NewRedisStore 創建 Redis 緩存服務
func NewRedisStore(ctx context.Context, cfg config.CacheConfig, rcfg config.RedisConfig) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     rcfg.Addr,
		Password: rcfg.Password,
		DB:       rcfg.DB,
	})

	// 測試連接
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	common.LogInfo("快取管理員已初始化",
		zap.String("driver", config.CacheDriverRedis),
		zap.String("addr", rcfg.Addr),
		zap.Duration("存活時間", cfg.TTL),
	)

	return newRedisStore(client, cfg), nil
}

func newRedisStore(client *redis.Client, cfg config.CacheConfig) *RedisStore {
	return &RedisStore{
		client: client,
		config: cfg,
		prefix: "pantry",
	}
}

// Get 獲取緩存
func (s *RedisStore) Get(ctx context.Context, namespace, key string) (string, error) {
	val, err := s.client.Get(ctx, s.key(namespace, key)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			common.LogCacheMiss(namespace, key)
			return "", common.ErrCacheMiss
		}
		return "", fmt.Errorf("failed to get cache: %w", err)
	}

	common.LogCacheHit(namespace, key)
	return val, nil
}

// Set 設置緩存
func (s *RedisStore) Set(ctx context.Context, namespace, key, value string) error {
	if err := s.client.Set(ctx, s.key(namespace, key), value, s.config.TTL).Err(); err != nil {
		return fmt.Errorf("failed to set cache: %w", err)
	}
	return nil
}

// Delete 刪除緩存
func (s *RedisStore) Delete(ctx context.Context, namespace, key string) error {
	if err := s.client.Del(ctx, s.key(namespace, key)).Err(); err != nil {
		return fmt.Errorf("failed to delete cache: %w", err)
	}
	return nil
}

// Stats 獲取 Redis 連線池統計
func (s *RedisStore) Stats() map[string]interface{} {
	ps := s.client.PoolStats()
	return map[string]interface{}{
		"driver":      config.CacheDriverRedis,
		"hits":        ps.Hits,
		"misses":      ps.Misses,
		"timeouts":    ps.Timeouts,
		"total_conns": ps.TotalConns,
		"idle_conns":  ps.IdleConns,
	}
}

// Close 關閉 Redis 連線
func (s *RedisStore) Close() error {
	return s.client.Close()
}

// key 生成緩存鍵
func (s *RedisStore) key(namespace, key string) string {
	return fmt.Sprintf("%s:%s:%s", s.prefix, namespace, key)
}

package services

import (
	"context"
	"encoding/json"
	"time"

	"github.com/go-redis/redis/v8"

	"icare-http-service/config"
)

// Cache keys and TTLs. Redis only backs best-effort read caches; the
// database stays the source of truth for every dedup decision.
const (
	todayKeysCacheKey  = "face:detected_today"
	alertStatsCacheKey = "alerts:stats"

	todayKeysCacheTTL  = 30 * time.Second
	alertStatsCacheTTL = 15 * time.Second
)

// RedisService handles Redis operations
type RedisService struct {
	Client *redis.Client
	Ctx    context.Context
}

// NewRedisService creates a new Redis service
func NewRedisService(cfg *config.Config) *RedisService {
	client := redis.NewClient(&redis.Options{
		Addr: cfg.GetRedisAddr(),
		DB:   cfg.RedisDB,
	})

	return &RedisService{
		Client: client,
		Ctx:    context.Background(),
	}
}

// Set sets a key-value pair in Redis with expiration
func (s *RedisService) Set(key string, value interface{}, expiration time.Duration) error {
	jsonValue, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return s.Client.Set(s.Ctx, key, jsonValue, expiration).Err()
}

// Get gets a value from Redis by key
func (s *RedisService) Get(key string, dest interface{}) error {
	val, err := s.Client.Get(s.Ctx, key).Result()
	if err != nil {
		return err
	}
	return json.Unmarshal([]byte(val), dest)
}

// Delete deletes a key from Redis
func (s *RedisService) Delete(key string) error {
	return s.Client.Del(s.Ctx, key).Err()
}

// CacheTodayDetectedKeys caches today's detected maYTe list for the AI
// module's frequent polling
func (s *RedisService) CacheTodayDetectedKeys(keys []string) error {
	return s.Set(todayKeysCacheKey, keys, todayKeysCacheTTL)
}

// GetTodayDetectedKeys reads the cached maYTe list; redis.Nil on miss
func (s *RedisService) GetTodayDetectedKeys() ([]string, error) {
	var keys []string
	if err := s.Get(todayKeysCacheKey, &keys); err != nil {
		return nil, err
	}
	return keys, nil
}

// InvalidateTodayDetectedKeys drops the cached list after an insert or
// an operational reset
func (s *RedisService) InvalidateTodayDetectedKeys() error {
	return s.Delete(todayKeysCacheKey)
}

// CacheAlertStats caches the dashboard statistics block
func (s *RedisService) CacheAlertStats(stats interface{}) error {
	return s.Set(alertStatsCacheKey, stats, alertStatsCacheTTL)
}

// GetAlertStats reads the cached statistics block into dest
func (s *RedisService) GetAlertStats(dest interface{}) error {
	return s.Get(alertStatsCacheKey, dest)
}

// InvalidateAlertStats drops the cached statistics block
func (s *RedisService) InvalidateAlertStats() error {
	return s.Delete(alertStatsCacheKey)
}

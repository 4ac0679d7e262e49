package payment

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/profinder/backend/internal/models"
)

const settlementKeyPrefix = "settlement:"

// RedisStore keys settlements by proof fingerprint with SETNX, which gives
// the same check-and-insert atomicity as MemoryStore across multiple
// server instances. The dedup window is the key TTL.
type RedisStore struct {
	client *redis.Client
	window time.Duration
}

func NewRedisStore(client *redis.Client, window time.Duration) *RedisStore {
	return &RedisStore{
		client: client,
		window: window,
	}
}

func (s *RedisStore) PutIfAbsent(ctx context.Context, settlement models.Settlement) (bool, error) {
	data, err := json.Marshal(settlement)
	if err != nil {
		return false, fmt.Errorf("failed to marshal settlement: %w", err)
	}

	inserted, err := s.client.SetNX(ctx, settlementKeyPrefix+settlement.ProofFingerprint, data, s.window).Result()
	if err != nil {
		return false, fmt.Errorf("failed to store settlement: %w", err)
	}
	return inserted, nil
}

func (s *RedisStore) Get(ctx context.Context, fingerprint string) (*models.Settlement, error) {
	data, err := s.client.Get(ctx, settlementKeyPrefix+fingerprint).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load settlement: %w", err)
	}

	var settlement models.Settlement
	if err := json.Unmarshal([]byte(data), &settlement); err != nil {
		return nil, fmt.Errorf("failed to unmarshal settlement: %w", err)
	}
	return &settlement, nil
}

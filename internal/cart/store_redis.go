package cart

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"TrailStore/internal/shop"
)

// RedisStore keeps each cart as a JSON snapshot under cart:<user>. Carts are
// session state, so they expire after a day of inactivity.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client, ttl: 24 * time.Hour}
}

func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *RedisStore) Load(ctx context.Context, userID string) ([]shop.Line, error) {
	raw, err := s.client.Get(ctx, cartKey(userID)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load cart: %w", err)
	}

	var lines []shop.Line
	if err := json.Unmarshal([]byte(raw), &lines); err != nil {
		return nil, fmt.Errorf("decode cart: %w", err)
	}
	return lines, nil
}

func (s *RedisStore) Save(ctx context.Context, userID string, lines []shop.Line) error {
	key := cartKey(userID)

	if len(lines) == 0 {
		if err := s.client.Del(ctx, key).Err(); err != nil {
			return fmt.Errorf("clear cart: %w", err)
		}
		return nil
	}

	raw, err := json.Marshal(lines)
	if err != nil {
		return fmt.Errorf("encode cart: %w", err)
	}
	if err := s.client.Set(ctx, key, raw, s.ttl).Err(); err != nil {
		return fmt.Errorf("save cart: %w", err)
	}
	return nil
}

func cartKey(userID string) string {
	return "cart:" + userID
}

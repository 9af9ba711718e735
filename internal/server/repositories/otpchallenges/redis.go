package otpchallenges

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rashid4567/recruitiq/internal/common"
	"github.com/rashid4567/recruitiq/internal/server/models"
)

// RedisRepository stores challenges as JSON values with a TTL matching the
// challenge expiry, so abandoned challenges vanish on their own.
type RedisRepository struct {
	client *redis.Client
}

// NewRedisRepository constructs a repository over the given Redis client.
func NewRedisRepository(client *redis.Client) *RedisRepository {
	return &RedisRepository{client: client}
}

func key(email string) string {
	return "otp:" + strings.ToLower(email)
}

// Put stores the challenge under otp:<email>, replacing any previous value.
func (r *RedisRepository) Put(ctx context.Context, challenge *models.OtpChallenge) error {
	data, err := json.Marshal(challenge)
	if err != nil {
		return fmt.Errorf("marshal challenge: %w", err)
	}
	ttl := time.Until(challenge.ExpiresAt)
	if ttl <= 0 {
		ttl = time.Second
	}
	if err := r.client.Set(ctx, key(challenge.Email), data, ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

// Get returns the pending challenge for email.
func (r *RedisRepository) Get(ctx context.Context, email string) (*models.OtpChallenge, error) {
	data, err := r.client.Get(ctx, key(email)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("redis get: %w", err)
	}
	challenge := &models.OtpChallenge{}
	if err := json.Unmarshal(data, challenge); err != nil {
		return nil, fmt.Errorf("unmarshal challenge: %w", err)
	}
	return challenge, nil
}

// Delete removes the pending challenge for email.
func (r *RedisRepository) Delete(ctx context.Context, email string) error {
	if err := r.client.Del(ctx, key(email)).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}

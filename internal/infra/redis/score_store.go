package redis

import (
	"context"

	"github.com/redis/go-redis/v9"
)

// ScoreStore keeps cumulative user scores in Redis under user:{userID}:score.
// INCRBY makes the add-and-read atomic across service instances.
type ScoreStore struct {
	client *redis.Client
}

func NewScoreStore(client *redis.Client) *ScoreStore {
	return &ScoreStore{client: client}
}

// AddScore atomically adds delta to the user's total and returns the new value.
func (s *ScoreStore) AddScore(ctx context.Context, userID string, delta int) (int, error) {
	total, err := s.client.IncrBy(ctx, s.key(userID), int64(delta)).Result()
	if err != nil {
		return 0, err
	}
	return int(total), nil
}

func (s *ScoreStore) key(userID string) string {
	return "user:" + userID + ":score"
}

package session

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// Store revokes login sessions. Sessions live in Redis under
// session:{userID}:{sessionID}; revoking all of them signs the caller out
// of every device.
type Store struct {
	rdb *redis.Client
}

func NewStore(rdb *redis.Client) *Store {
	return &Store{rdb: rdb}
}

// RevokeAll deletes every session key for the user and reports how many
// sessions were revoked. Zero is not an error; a second invocation after a
// completed deletion finds nothing to revoke.
func (s *Store) RevokeAll(ctx context.Context, userID string) (int64, error) {
	pattern := fmt.Sprintf("session:%s:*", userID)

	var revoked int64
	iter := s.rdb.Scan(ctx, 0, pattern, 100).Iterator()
	for iter.Next(ctx) {
		n, err := s.rdb.Del(ctx, iter.Val()).Result()
		if err != nil {
			return revoked, fmt.Errorf("failed to delete session key: %w", err)
		}
		revoked += n
	}
	if err := iter.Err(); err != nil {
		return revoked, fmt.Errorf("failed to scan sessions: %w", err)
	}
	return revoked, nil
}

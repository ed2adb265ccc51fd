package session

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"auracare/internal/domain"
)

const (
	fieldToken    = "token"
	fieldIdentity = "identity"
)

// RedisStore keeps the session in redis under a per-process scope key, for
// hosts that want the session to outlive the process. Semantics match the
// in-memory store: both fields live in one hash so they appear and vanish
// together, and any decode failure on load degrades to empty.
type RedisStore struct {
	client *redis.Client
	scope  string
	ttl    time.Duration
	logger *slog.Logger
}

func NewRedisStore(client *redis.Client, scope string, ttl time.Duration, logger *slog.Logger) *RedisStore {
	return &RedisStore{client: client, scope: scope, ttl: ttl, logger: logger}
}

func (s *RedisStore) key() string {
	return fmt.Sprintf("auracare:session:%s", s.scope)
}

func (s *RedisStore) Save(ctx context.Context, identity domain.Identity, token string) error {
	raw, err := json.Marshal(identity)
	if err != nil {
		return err
	}
	pipe := s.client.TxPipeline()
	pipe.HSet(ctx, s.key(), fieldToken, token, fieldIdentity, raw)
	pipe.Expire(ctx, s.key(), s.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

func (s *RedisStore) Load(ctx context.Context) (domain.Identity, string, bool) {
	fields, err := s.client.HGetAll(ctx, s.key()).Result()
	if err != nil {
		s.logger.WarnContext(ctx, "session load failed, treating as empty", "error", err)
		return domain.Identity{}, "", false
	}
	token, raw := fields[fieldToken], fields[fieldIdentity]
	if token == "" || raw == "" {
		return domain.Identity{}, "", false
	}
	var identity domain.Identity
	if err := json.Unmarshal([]byte(raw), &identity); err != nil {
		return domain.Identity{}, "", false
	}
	return identity, token, true
}

func (s *RedisStore) Clear(ctx context.Context) error {
	if err := s.client.Del(ctx, s.key()).Err(); err != nil && err != redis.Nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

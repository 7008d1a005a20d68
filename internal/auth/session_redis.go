package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const sessionKeyPrefix = "session:"

// validateScript applies the session rules atomically inside Redis so that
// concurrent requests on one session serialize their activity refresh.
// Ordering mirrors checkSession: corruption, idle timeout, refresh, address
// binding; a failed binding check does not roll the refresh back because the
// key is deleted outright. KEYS[1] session hash; ARGV[1] now (unix seconds),
// ARGV[2] observed address, ARGV[3] idle timeout seconds.
var validateScript = redis.NewScript(`
local last = redis.call('HGET', KEYS[1], 'last_activity')
local bound = redis.call('HGET', KEYS[1], 'bound_address')
local principal = redis.call('HGET', KEYS[1], 'principal')
if not last or not bound or not principal then
  redis.call('DEL', KEYS[1])
  return {'corrupt'}
end
local now = tonumber(ARGV[1])
local idle = tonumber(ARGV[3])
if now - tonumber(last) > idle then
  redis.call('DEL', KEYS[1])
  return {'expired'}
end
redis.call('HSET', KEYS[1], 'last_activity', ARGV[1])
if bound ~= ARGV[2] then
  redis.call('DEL', KEYS[1])
  return {'rebound'}
end
redis.call('EXPIRE', KEYS[1], idle * 2)
return {'ok', principal}
`)

// RedisSessionStore is the production SessionStore backed by a Redis hash
// per session.
type RedisSessionStore struct {
	client      *redis.Client
	idleTimeout time.Duration
	now         func() time.Time
}

// NewRedisSessionStore builds a store with the given idle timeout.
func NewRedisSessionStore(client *redis.Client, idleTimeout time.Duration) *RedisSessionStore {
	if idleTimeout <= 0 {
		idleTimeout = DefaultIdleTimeout
	}
	return &RedisSessionStore{client: client, idleTimeout: idleTimeout, now: time.Now}
}

// Create starts a new session bound to the observed client address.
func (s *RedisSessionStore) Create(ctx context.Context, principal Principal, clientAddress string) (*Session, error) {
	session := &Session{
		Key:          uuid.NewString(),
		Principal:    principal,
		LastActivity: s.now(),
		BoundAddress: clientAddress,
	}

	payload, err := json.Marshal(principal)
	if err != nil {
		return nil, fmt.Errorf("encode principal: %w", err)
	}

	key := sessionKeyPrefix + session.Key
	pipe := s.client.TxPipeline()
	pipe.HSet(ctx, key,
		"principal", payload,
		"last_activity", session.LastActivity.Unix(),
		"bound_address", session.BoundAddress,
	)
	pipe.Expire(ctx, key, s.idleTimeout*2)
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, fmt.Errorf("store session: %w", err)
	}
	return session, nil
}

// Validate checks session freshness and address binding atomically.
func (s *RedisSessionStore) Validate(ctx context.Context, key, observedAddress string) (*Principal, error) {
	exists, err := s.client.Exists(ctx, sessionKeyPrefix+key).Result()
	if err != nil {
		return nil, fmt.Errorf("lookup session: %w", err)
	}
	if exists == 0 {
		return nil, ErrNoSession
	}

	raw, err := validateScript.Run(ctx, s.client,
		[]string{sessionKeyPrefix + key},
		s.now().Unix(),
		observedAddress,
		int(s.idleTimeout/time.Second),
	).Result()
	if err != nil {
		return nil, fmt.Errorf("validate session: %w", err)
	}

	reply, ok := raw.([]interface{})
	if !ok || len(reply) == 0 {
		return nil, fmt.Errorf("validate session: unexpected reply %T", raw)
	}

	switch reply[0] {
	case "ok":
		var principal Principal
		if err := json.Unmarshal([]byte(reply[1].(string)), &principal); err != nil {
			return nil, fmt.Errorf("decode principal: %w", err)
		}
		return &principal, nil
	case "corrupt":
		return nil, ErrSessionCorrupt
	case "expired":
		return nil, ErrSessionExpired
	case "rebound":
		return nil, ErrSessionRebound
	default:
		return nil, fmt.Errorf("validate session: unexpected status %v", reply[0])
	}
}

// Destroy removes the session. Unknown keys are a no-op.
func (s *RedisSessionStore) Destroy(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, sessionKeyPrefix+key).Err(); err != nil {
		return fmt.Errorf("destroy session: %w", err)
	}
	return nil
}

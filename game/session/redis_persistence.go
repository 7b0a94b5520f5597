package session

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/gomodule/redigo/redis"
	"github.com/wricardo/mcp-training/monopoly/game/service"
)

// DefaultRedisPrefix namespaces every key the Redis store writes
const DefaultRedisPrefix = "monopoly:"

// RedisPersistence implements SessionPersistence on Redis. Each session is
// one string key holding the JSON document; a set indexes the IDs.
type RedisPersistence struct {
	pool   *redis.Pool
	prefix string
	ttl    time.Duration
	codec  codec
}

// RedisOption configures a RedisPersistence
type RedisOption func(*RedisPersistence)

// WithRedisPrefix overrides the key prefix
func WithRedisPrefix(prefix string) RedisOption {
	return func(r *RedisPersistence) {
		r.prefix = prefix
	}
}

// WithRedisTTL expires stored sessions ttl after their last save. Zero keeps them forever.
func WithRedisTTL(ttl time.Duration) RedisOption {
	return func(r *RedisPersistence) {
		r.ttl = ttl
	}
}

// NewRedisPool creates a connection pool for addr, either host:port or a redis:// URL
func NewRedisPool(addr string) *redis.Pool {
	return &redis.Pool{
		MaxIdle:     10,
		IdleTimeout: 60 * time.Second,
		Dial: func() (redis.Conn, error) {
			if strings.Contains(addr, "://") {
				return redis.DialURL(addr)
			}
			return redis.Dial("tcp", addr)
		},
		TestOnBorrow: func(c redis.Conn, t time.Time) error {
			if time.Since(t) < time.Minute {
				return nil
			}
			_, err := c.Do("PING")
			return err
		},
	}
}

// NewRedisPersistence creates a Redis session store and checks the connection
func NewRedisPersistence(pool *redis.Pool, configManager service.ConfigManager, opts ...RedisOption) (*RedisPersistence, error) {
	r := &RedisPersistence{
		pool:   pool,
		prefix: DefaultRedisPrefix,
		codec:  codec{configs: configManager},
	}
	for _, opt := range opts {
		opt(r)
	}

	conn := pool.Get()
	defer conn.Close()
	if _, err := conn.Do("PING"); err != nil {
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return r, nil
}

// Close closes the connection pool
func (r *RedisPersistence) Close() error {
	return r.pool.Close()
}

func (r *RedisPersistence) sessionKey(id string) string {
	return r.prefix + "session:" + id
}

func (r *RedisPersistence) indexKey() string {
	return r.prefix + "sessions"
}

// Save writes the session document and adds it to the index
func (r *RedisPersistence) Save(session *service.Session) error {
	payload, err := r.codec.encode(session)
	if err != nil {
		return err
	}

	conn := r.pool.Get()
	defer conn.Close()

	args := redis.Args{}.Add(r.sessionKey(session.ID), payload)
	if r.ttl > 0 {
		args = args.Add("PX", r.ttl.Milliseconds())
	}

	if err := conn.Send("MULTI"); err != nil {
		return fmt.Errorf("save session %s: %w", session.ID, err)
	}
	if err := conn.Send("SET", args...); err != nil {
		return fmt.Errorf("save session %s: %w", session.ID, err)
	}
	if err := conn.Send("SADD", r.indexKey(), session.ID); err != nil {
		return fmt.Errorf("save session %s: %w", session.ID, err)
	}
	if _, err := conn.Do("EXEC"); err != nil {
		return fmt.Errorf("save session %s: %w", session.ID, err)
	}
	return nil
}

// Load reads and restores a session
func (r *RedisPersistence) Load(id string) (*service.Session, error) {
	conn := r.pool.Get()
	defer conn.Close()

	payload, err := redis.Bytes(conn.Do("GET", r.sessionKey(id)))
	if err != nil {
		if errors.Is(err, redis.ErrNil) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("load session %s: %w", id, err)
	}
	return r.codec.decode(payload)
}

// Delete removes the session document and its index entry
func (r *RedisPersistence) Delete(id string) error {
	conn := r.pool.Get()
	defer conn.Close()

	n, err := redis.Int(conn.Do("DEL", r.sessionKey(id)))
	if err != nil {
		return fmt.Errorf("delete session %s: %w", id, err)
	}
	if _, err := conn.Do("SREM", r.indexKey(), id); err != nil {
		return fmt.Errorf("delete session %s: %w", id, err)
	}
	if n == 0 {
		return ErrSessionNotFound
	}
	return nil
}

// ListAll returns the indexed session IDs whose documents still exist.
// Index entries left behind by expired keys are pruned.
func (r *RedisPersistence) ListAll() ([]string, error) {
	conn := r.pool.Get()
	defer conn.Close()

	ids, err := redis.Strings(conn.Do("SMEMBERS", r.indexKey()))
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	sort.Strings(ids)

	live := ids[:0]
	for _, id := range ids {
		exists, err := redis.Bool(conn.Do("EXISTS", r.sessionKey(id)))
		if err != nil {
			return nil, fmt.Errorf("list sessions: %w", err)
		}
		if !exists {
			if _, err := conn.Do("SREM", r.indexKey(), id); err != nil {
				return nil, fmt.Errorf("prune session %s: %w", id, err)
			}
			continue
		}
		live = append(live, id)
	}
	return live, nil
}

// Exists checks if the session document exists
func (r *RedisPersistence) Exists(id string) bool {
	conn := r.pool.Get()
	defer conn.Close()

	exists, err := redis.Bool(conn.Do("EXISTS", r.sessionKey(id)))
	return err == nil && exists
}

package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultRedisKey = "mailvet:domains"

// redisFact is the hash-field encoding of a Fact.
type redisFact struct {
	RegistrationAlive  bool   `json:"registration_alive"`
	MailExchangeExists bool   `json:"mail_exchange_exists"`
	CheckedAt          string `json:"checked_at"`
}

// RedisStore persists snapshots in a Redis hash, one field per domain.
// The load-once/save-once lifecycle matches FileStore: the run still works
// against the in-memory Cache and the hash is rewritten at the end.
type RedisStore struct {
	client *redis.Client
	key    string
	now    func() time.Time
}

// NewRedisStore connects to Redis and verifies the connection. An empty key
// selects the default hash key.
func NewRedisStore(ctx context.Context, addr, password, key string) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       0,
		Protocol: 2,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("connect redis: %w", err)
	}

	if key == "" {
		key = defaultRedisKey
	}

	return &RedisStore{
		client: client,
		key:    key,
		now:    time.Now,
	}, nil
}

var _ Store = (*RedisStore)(nil)

// Load reads every domain fact from the hash. Fields that fail to decode
// are skipped, mirroring the malformed-row policy of the file codecs.
func (s *RedisStore) Load(ctx context.Context) (*Cache, error) {
	fields, err := s.client.HGetAll(ctx, s.key).Result()
	if err != nil {
		return nil, fmt.Errorf("load cache from redis: %w", err)
	}

	c := New()
	for domain, encoded := range fields {
		var rf redisFact
		if err := json.Unmarshal([]byte(encoded), &rf); err != nil {
			continue
		}

		f := Fact{
			RegistrationAlive:  rf.RegistrationAlive,
			MailExchangeExists: rf.MailExchangeExists,
		}
		f.CheckedAt, f.CheckedAtRaw = parseCheckedAt(rf.CheckedAt)
		c.Put(domain, f)
	}

	return c, nil
}

// Save rewrites the hash with the full cache contents.
func (s *RedisStore) Save(ctx context.Context, c *Cache) error {
	now := s.now()

	fields := make(map[string]string, c.Len())
	for _, domain := range c.Domains() {
		f, _ := c.Get(domain)
		encoded, err := json.Marshal(redisFact{
			RegistrationAlive:  f.RegistrationAlive,
			MailExchangeExists: f.MailExchangeExists,
			CheckedAt:          f.CheckedAtText(now),
		})
		if err != nil {
			return fmt.Errorf("encode cache entry for %s: %w", domain, err)
		}
		fields[domain] = string(encoded)
	}

	pipe := s.client.TxPipeline()
	pipe.Del(ctx, s.key)
	if len(fields) > 0 {
		pipe.HSet(ctx, s.key, fields)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("save cache to redis: %w", err)
	}
	return nil
}

// Close releases the underlying Redis connection.
func (s *RedisStore) Close() error {
	return s.client.Close()
}

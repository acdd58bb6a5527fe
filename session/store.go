package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/redis/go-redis/v9"
)

// Store keeps signed-in sessions by token.
type Store interface {
	Get(ctx context.Context, token string) (*Session, bool, error)
	Set(ctx context.Context, s *Session, ttl time.Duration) error
	Remove(ctx context.Context, token string) error
}

// CacheStore keeps sessions in process memory.
type CacheStore struct {
	cache *cache.Cache
}

func NewCacheStore(expiration time.Duration) *CacheStore {
	return &CacheStore{cache: cache.New(expiration, 1*time.Minute)}
}

func (s *CacheStore) Get(_ context.Context, token string) (*Session, bool, error) {
	value, found := s.cache.Get(token)
	if !found {
		return nil, false, nil
	}
	stored, ok := value.(*Session)
	if !ok {
		return nil, false, nil
	}
	clone := stored.Clone()
	return &clone, true, nil
}

func (s *CacheStore) Set(_ context.Context, session *Session, ttl time.Duration) error {
	clone := session.Clone()
	clone.Context = nil
	s.cache.Set(session.Token, &clone, ttl)
	return nil
}

func (s *CacheStore) Remove(_ context.Context, token string) error {
	s.cache.Delete(token)
	return nil
}

// Tokens lists the stored tokens.
func (s *CacheStore) Tokens() []string {
	var tokens []string
	for k := range s.cache.Items() {
		tokens = append(tokens, k)
	}
	return tokens
}

const redisKeyPrefix = "studioboard:session:"

// RedisStore shares sessions between service instances.
type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

// ConnectRedis opens a client and checks it with a ping.
func ConnectRedis(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{Addr: addr, Password: password, DB: db})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return client, nil
}

func (s *RedisStore) Get(ctx context.Context, token string) (*Session, bool, error) {
	data, err := s.client.Get(ctx, RedisKey(token)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("session get: %w", err)
	}
	session, err := DecodeSession(data)
	if err != nil {
		return nil, false, err
	}
	return session, true, nil
}

func (s *RedisStore) Set(ctx context.Context, session *Session, ttl time.Duration) error {
	data, err := EncodeSession(session)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, RedisKey(session.Token), data, ttl).Err()
}

func (s *RedisStore) Remove(ctx context.Context, token string) error {
	return s.client.Del(ctx, RedisKey(token)).Err()
}

func RedisKey(token string) string {
	return redisKeyPrefix + token
}

func EncodeSession(s *Session) ([]byte, error) {
	return json.Marshal(s)
}

func DecodeSession(data []byte) (*Session, error) {
	s := Session{}
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("session decode: %w", err)
	}
	return &s, nil
}

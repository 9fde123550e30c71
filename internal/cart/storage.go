package cart

import (
	"context"
	"sync"

	"github.com/redis/go-redis/v9"
)

// Storage is the durable slot a cart is mirrored into on every mutation.
// Missing keys report found=false rather than an error.
type Storage interface {
	Load(ctx context.Context, key string) (data []byte, found bool, err error)
	Save(ctx context.Context, key string, data []byte) error
	Clear(ctx context.Context, key string) error
}

// RedisStorage persists cart slots in Redis.
type RedisStorage struct {
	client *redis.Client
}

// NewRedisStorage wraps a connected client.
func NewRedisStorage(client *redis.Client) *RedisStorage {
	return &RedisStorage{client: client}
}

func (s *RedisStorage) Load(ctx context.Context, key string) ([]byte, bool, error) {
	data, err := s.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return data, true, nil
}

func (s *RedisStorage) Save(ctx context.Context, key string, data []byte) error {
	return s.client.Set(ctx, key, data, 0).Err()
}

func (s *RedisStorage) Clear(ctx context.Context, key string) error {
	return s.client.Del(ctx, key).Err()
}

// MemoryStorage is an in-process Storage used by tests.
type MemoryStorage struct {
	mu    sync.Mutex
	slots map[string][]byte
}

// NewMemoryStorage creates an empty in-memory storage.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{slots: make(map[string][]byte)}
}

func (s *MemoryStorage) Load(_ context.Context, key string) ([]byte, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.slots[key]
	if !ok {
		return nil, false, nil
	}
	copied := make([]byte, len(data))
	copy(copied, data)
	return copied, true, nil
}

func (s *MemoryStorage) Save(_ context.Context, key string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := make([]byte, len(data))
	copy(copied, data)
	s.slots[key] = copied
	return nil
}

func (s *MemoryStorage) Clear(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.slots, key)
	return nil
}

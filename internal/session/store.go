package session

import (
	"context"       // Context for Redis operations
	"encoding/json" // JSON encoding/decoding
	"sync"          // Guards the in-memory map
	"time"          // Time durations

	"github.com/redis/go-redis/v9" // Redis client
)

// Record is what a store keeps for one live session
type Record struct {
	UserID    uint      `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

// Store persists session records by session id
type Store interface {
	Save(ctx context.Context, id string, rec Record, ttl time.Duration) error
	// Load reports found=false for unknown or expired ids.
	Load(ctx context.Context, id string) (rec Record, found bool, err error)
	Delete(ctx context.Context, id string) error
}

// RedisStore keeps sessions in Redis under session:<id>
type RedisStore struct {
	rdb *redis.Client
}

// NewRedisStore creates a Store backed by rdb.
func NewRedisStore(rdb *redis.Client) *RedisStore { return &RedisStore{rdb: rdb} }

func redisKey(id string) string { return "session:" + id }

// Save marshals rec to JSON and stores it with a TTL
func (s *RedisStore) Save(ctx context.Context, id string, rec Record, ttl time.Duration) error {
	b, err := json.Marshal(rec) // Marshal value to JSON
	if err != nil {
		return err
	}
	return s.rdb.Set(ctx, redisKey(id), b, ttl).Err()
}

// Load retrieves a record and unmarshals it
func (s *RedisStore) Load(ctx context.Context, id string) (Record, bool, error) {
	var rec Record
	val, err := s.rdb.Get(ctx, redisKey(id)).Result()
	if err == redis.Nil {
		return rec, false, nil // Key does not exist
	} else if err != nil {
		return rec, false, err // Other Redis error
	}
	return rec, true, json.Unmarshal([]byte(val), &rec)
}

// Delete removes a session key
func (s *RedisStore) Delete(ctx context.Context, id string) error {
	return s.rdb.Del(ctx, redisKey(id)).Err()
}

// MemoryStore keeps sessions in process memory. Sessions do not survive a restart.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	now     func() time.Time
}

type memoryEntry struct {
	rec     Record
	expires time.Time
}

// NewMemoryStore creates an empty in-process Store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string]memoryEntry), now: time.Now}
}

// Save stores rec under id until ttl elapses.
func (s *MemoryStore) Save(_ context.Context, id string, rec Record, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[id] = memoryEntry{rec: rec, expires: s.now().Add(ttl)}
	return nil
}

// Load returns the record for id if it exists and has not expired.
func (s *MemoryStore) Load(_ context.Context, id string) (Record, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[id]
	if !ok {
		return Record{}, false, nil
	}
	if !s.now().Before(e.expires) {
		delete(s.entries, id)
		return Record{}, false, nil
	}
	return e.rec, true, nil
}

// Delete removes the record for id.
func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, id)
	return nil
}

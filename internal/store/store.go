// Package store keeps the last known status of recent transactions so the
// relay can answer status lookups without calling the gateway.
package store

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/emickson/mobile-action-bar-backend/internal/payment"
)

// Record is the cached state of one transaction.
type Record struct {
	TransactionID string         `json:"transactionId"`
	Status        payment.Status `json:"status"`
	Gateway       string         `json:"gateway,omitempty"`
	PaidAt        string         `json:"paidAt,omitempty"`
	UpdatedAt     time.Time      `json:"updatedAt"`
}

// StatusStore is a TTL-bounded map of transaction id to Record.
type StatusStore interface {
	Put(ctx context.Context, rec Record) error
	Get(ctx context.Context, transactionID string) (Record, bool, error)
	// Sweep drops expired entries and returns how many were removed.
	Sweep(now time.Time) int
}

// Connect opens a Redis client and pings it. An empty addr returns (nil, nil);
// callers treat a nil client as "use in-memory implementations".
func Connect(addr, pass string, db int) (*redis.Client, error) {
	if addr == "" {
		return nil, nil
	}
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: pass,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}
	return client, nil
}

// New returns a Redis-backed store, or an in-memory one when client is nil.
func New(client *redis.Client, ttl time.Duration) StatusStore {
	if ttl <= 0 {
		ttl = 2 * time.Hour
	}
	if client == nil {
		return NewMemory(ttl)
	}
	return &redisStore{client: client, prefix: "pix:status", ttl: ttl}
}

type redisStore struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

func (s *redisStore) key(id string) string {
	return s.prefix + ":" + id
}

func (s *redisStore) Put(ctx context.Context, rec Record) error {
	raw, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, s.key(rec.TransactionID), raw, s.ttl).Err()
}

func (s *redisStore) Get(ctx context.Context, id string) (Record, bool, error) {
	raw, err := s.client.Get(ctx, s.key(id)).Bytes()
	if err == redis.Nil {
		return Record{}, false, nil
	}
	if err != nil {
		return Record{}, false, err
	}
	var rec Record
	if err := json.Unmarshal(raw, &rec); err != nil {
		return Record{}, false, err
	}
	return rec, true, nil
}

// Sweep is a no-op: Redis expires keys itself.
func (s *redisStore) Sweep(time.Time) int { return 0 }

type memoryEntry struct {
	rec     Record
	expires time.Time
}

// Memory is the in-process StatusStore.
type Memory struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	ttl     time.Duration
	now     func() time.Time
}

func NewMemory(ttl time.Duration) *Memory {
	return &Memory{
		entries: make(map[string]memoryEntry),
		ttl:     ttl,
		now:     time.Now,
	}
}

func (m *Memory) Put(_ context.Context, rec Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[rec.TransactionID] = memoryEntry{rec: rec, expires: m.now().Add(m.ttl)}
	return nil
}

func (m *Memory) Get(_ context.Context, id string) (Record, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entries[id]
	if !ok || !e.expires.After(m.now()) {
		return Record{}, false, nil
	}
	return e.rec, true, nil
}

func (m *Memory) Sweep(now time.Time) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	removed := 0
	for id, e := range m.entries {
		if !e.expires.After(now) {
			delete(m.entries, id)
			removed++
		}
	}
	return removed
}

// Len reports the number of entries, expired or not.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

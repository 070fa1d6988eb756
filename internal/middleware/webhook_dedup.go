package middleware

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// WebhookDeduper tracks webhook deliveries that were already processed.
type WebhookDeduper interface {
	Seen(ctx context.Context, key string) (bool, error)
}

type redisWebhookDeduper struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

func (d *redisWebhookDeduper) Seen(ctx context.Context, key string) (bool, error) {
	ok, err := d.client.SetNX(ctx, d.prefix+":"+key, "1", d.ttl).Result()
	if err != nil {
		return false, err
	}
	// false => already exists => duplicate
	return !ok, nil
}

type memoryWebhookDeduper struct {
	mu     sync.Mutex
	seen   map[string]time.Time
	ttl    time.Duration
	nextGC time.Time
	now    func() time.Time
}

func newMemoryWebhookDeduper(ttl time.Duration, now func() time.Time) *memoryWebhookDeduper {
	return &memoryWebhookDeduper{
		seen:   make(map[string]time.Time),
		ttl:    ttl,
		nextGC: now().Add(ttl),
		now:    now,
	}
}

func (d *memoryWebhookDeduper) Seen(_ context.Context, key string) (bool, error) {
	now := d.now()

	d.mu.Lock()
	defer d.mu.Unlock()

	if exp, ok := d.seen[key]; ok && exp.After(now) {
		return true, nil
	}

	d.seen[key] = now.Add(d.ttl)
	if now.After(d.nextGC) {
		for k, exp := range d.seen {
			if exp.Before(now) {
				delete(d.seen, k)
			}
		}
		d.nextGC = now.Add(d.ttl)
	}

	return false, nil
}

// NewWebhookDeduper uses Redis when client is non-nil, in-memory otherwise.
func NewWebhookDeduper(client *redis.Client, ttl time.Duration) WebhookDeduper {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	if client == nil {
		return newMemoryWebhookDeduper(ttl, time.Now)
	}
	return &redisWebhookDeduper{
		client: client,
		prefix: "pix:webhook",
		ttl:    ttl,
	}
}

// WebhookDedup acknowledges repeated deliveries of an identical body to the
// same path with 200 "OK" without running the handler again.
func WebhookDedup(deduper WebhookDeduper, log *zap.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if deduper == nil {
				return next(c)
			}

			req := c.Request()
			if req.Body == nil {
				return next(c)
			}

			rawBody, err := io.ReadAll(req.Body)
			if err != nil {
				return next(c)
			}
			req.Body = io.NopCloser(bytes.NewBuffer(rawBody))
			if len(rawBody) == 0 {
				return next(c)
			}

			sum := sha256.Sum256(append([]byte(req.URL.Path+"\n"), rawBody...))
			isDuplicate, err := deduper.Seen(req.Context(), hex.EncodeToString(sum[:]))
			if err != nil {
				log.Warn("webhook dedup unavailable", zap.Error(err))
				return next(c)
			}
			if isDuplicate {
				log.Info("duplicate webhook dropped", zap.String("path", req.URL.Path))
				return c.String(http.StatusOK, "OK")
			}

			return next(c)
		}
	}
}

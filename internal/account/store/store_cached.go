package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"accountd/internal/account/models"
	"accountd/pkg/domain"
)

const (
	cacheKeyPrefix  = "accountd:account:"
	defaultCacheTTL = 5 * time.Minute
)

// CachedStore is a redis read-through cache in front of another Backend.
// Writes go to the backend first and then invalidate the cached entry. Redis
// failures are logged and the backend answers instead.
type CachedStore struct {
	backend Backend
	redis   *redis.Client
	ttl     time.Duration
	logger  *slog.Logger
}

// CacheOption configures a CachedStore.
type CacheOption func(*CachedStore)

func WithCacheTTL(ttl time.Duration) CacheOption {
	return func(c *CachedStore) {
		if ttl > 0 {
			c.ttl = ttl
		}
	}
}

func WithCacheLogger(logger *slog.Logger) CacheOption {
	return func(c *CachedStore) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewCached wraps backend with a redis cache.
func NewCached(backend Backend, client *redis.Client, opts ...CacheOption) *CachedStore {
	c := &CachedStore{
		backend: backend,
		redis:   client,
		ttl:     defaultCacheTTL,
		logger:  slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// cacheEntry stores the account in decoder shape so a cache hit is validated
// exactly like a stored or imported document.
type cacheEntry struct {
	Document  json.RawMessage `json:"document"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

func (c *CachedStore) Create(ctx context.Context, record *models.AccountRecord) error {
	if err := c.backend.Create(ctx, record); err != nil {
		return err
	}
	c.invalidate(ctx, record.ID)
	return nil
}

func (c *CachedStore) FindByID(ctx context.Context, id domain.AccountID) (*models.AccountRecord, error) {
	if rec, ok := c.lookup(ctx, id); ok {
		return rec, nil
	}
	rec, err := c.backend.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	c.fill(ctx, rec)
	return rec, nil
}

func (c *CachedStore) ListByStatus(ctx context.Context, statuses ...models.Status) ([]*models.AccountRecord, error) {
	return c.backend.ListByStatus(ctx, statuses...)
}

func (c *CachedStore) Execute(ctx context.Context, id domain.AccountID, fn TransitionFunc) (*models.AccountRecord, error) {
	rec, err := c.backend.Execute(ctx, id, fn)
	if err != nil {
		return nil, err
	}
	c.invalidate(ctx, id)
	return rec, nil
}

func (c *CachedStore) lookup(ctx context.Context, id domain.AccountID) (*models.AccountRecord, bool) {
	raw, err := c.redis.Get(ctx, cacheKey(id)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.WarnContext(ctx, "account cache read failed", "account_id", id.String(), "error", err)
		}
		return nil, false
	}
	rec, err := decodeEntry(id, raw)
	if err != nil {
		c.logger.WarnContext(ctx, "discarding corrupt account cache entry", "account_id", id.String(), "error", err)
		c.invalidate(ctx, id)
		return nil, false
	}
	return rec, true
}

func (c *CachedStore) fill(ctx context.Context, rec *models.AccountRecord) {
	doc, err := models.EncodeJSON(rec.Account)
	if err != nil {
		return
	}
	raw, err := json.Marshal(cacheEntry{Document: doc, CreatedAt: rec.CreatedAt, UpdatedAt: rec.UpdatedAt})
	if err != nil {
		return
	}
	if err := c.redis.Set(ctx, cacheKey(rec.ID), raw, c.ttl).Err(); err != nil {
		c.logger.WarnContext(ctx, "account cache write failed", "account_id", rec.ID.String(), "error", err)
	}
}

func (c *CachedStore) invalidate(ctx context.Context, id domain.AccountID) {
	if err := c.redis.Del(ctx, cacheKey(id)).Err(); err != nil {
		c.logger.WarnContext(ctx, "account cache invalidation failed", "account_id", id.String(), "error", err)
	}
}

func decodeEntry(id domain.AccountID, raw []byte) (*models.AccountRecord, error) {
	var entry cacheEntry
	if err := json.Unmarshal(raw, &entry); err != nil {
		return nil, fmt.Errorf("unmarshal cache entry: %w", err)
	}
	acct, err := models.DecodeJSON(entry.Document)
	if err != nil {
		return nil, err
	}
	return &models.AccountRecord{ID: id, Account: acct, CreatedAt: entry.CreatedAt, UpdatedAt: entry.UpdatedAt}, nil
}

func cacheKey(id domain.AccountID) string {
	return cacheKeyPrefix + id.String()
}

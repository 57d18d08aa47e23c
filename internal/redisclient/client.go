package redisclient

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"strings"
	"time"

	"storefront/internal/models"

	"github.com/go-redis/redis/v8"
)

//go:embed scripts/set_selection.lua
var setSelectionScript string

const (
	itemField   = "item"
	optionField = "opt:"
)

// ErrSessionNotFound is returned when a card session expired or never existed
var ErrSessionNotFound = errors.New("card session not found")

// Client stores card sessions as Redis hashes with a sliding TTL
type Client struct {
	rdb          *redis.Client
	ttl          time.Duration
	selectScript *redis.Script
}

// NewClient creates a new Redis client with the selection script loaded.
// A non-positive ttl keeps sessions until they are deleted.
func NewClient(addr, password string, db int, ttl time.Duration) (*Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return newClient(rdb, ttl), nil
}

func newClient(rdb *redis.Client, ttl time.Duration) *Client {
	return &Client{
		rdb:          rdb,
		ttl:          ttl,
		selectScript: redis.NewScript(setSelectionScript),
	}
}

// Close closes the Redis connection
func (c *Client) Close() error {
	return c.rdb.Close()
}

// Ping reports whether Redis is reachable
func (c *Client) Ping(ctx context.Context) error {
	return c.rdb.Ping(ctx).Err()
}

// ttlMillis converts the session TTL for PEXPIRE; 0 means the key never expires
func ttlMillis(ttl time.Duration) int64 {
	if ttl <= 0 {
		return 0
	}
	return ttl.Milliseconds()
}

func sessionKey(id string) string {
	return fmt.Sprintf("card:%s", id)
}

// CreateSession stores a new, empty selection for an item card
func (c *Client) CreateSession(ctx context.Context, session *models.CardSession) error {
	key := sessionKey(session.ID)

	pipe := c.rdb.TxPipeline()
	pipe.HSet(ctx, key, itemField, session.ItemID)
	for name, value := range session.Selections {
		pipe.HSet(ctx, key, optionField+name, value)
	}
	if ms := ttlMillis(c.ttl); ms > 0 {
		pipe.PExpire(ctx, key, time.Duration(ms)*time.Millisecond)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("create card session: %w", err)
	}
	return nil
}

// GetSession loads a card session
func (c *Client) GetSession(ctx context.Context, id string) (*models.CardSession, error) {
	result, err := c.rdb.HGetAll(ctx, sessionKey(id)).Result()
	if err != nil {
		return nil, fmt.Errorf("get card session: %w", err)
	}

	itemID, ok := result[itemField]
	if !ok {
		return nil, ErrSessionNotFound
	}

	session := &models.CardSession{
		ID:         id,
		ItemID:     itemID,
		Selections: make(map[string]string),
	}
	for field, value := range result {
		if name, isOpt := strings.CutPrefix(field, optionField); isOpt {
			session.Selections[name] = value
		}
	}
	return session, nil
}

// SetSelection atomically updates one option of an existing session and
// slides its TTL. An empty value clears the option.
func (c *Client) SetSelection(ctx context.Context, id, name, value string) error {
	result, err := c.selectScript.Run(ctx, c.rdb,
		[]string{sessionKey(id)}, optionField+name, value, ttlMillis(c.ttl)).Result()
	if err != nil {
		return fmt.Errorf("set selection script failed: %w", err)
	}

	updated, ok := result.(int64)
	if !ok {
		return fmt.Errorf("unexpected script result type")
	}
	if updated == 0 {
		return ErrSessionNotFound
	}
	return nil
}

// DeleteSession discards a card session
func (c *Client) DeleteSession(ctx context.Context, id string) error {
	return c.rdb.Del(ctx, sessionKey(id)).Err()
}

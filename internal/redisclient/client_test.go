package redisclient

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"storefront/internal/models"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionKey(t *testing.T) {
	assert.Equal(t, "card:abc", sessionKey("abc"))
}

var errCaptured = errors.New("captured")

// captureHook records commands and stops them before they reach the network
type captureHook struct {
	cmds []redis.Cmder
}

func (h *captureHook) BeforeProcess(ctx context.Context, cmd redis.Cmder) (context.Context, error) {
	h.cmds = append(h.cmds, cmd)
	return ctx, errCaptured
}

func (h *captureHook) AfterProcess(context.Context, redis.Cmder) error { return nil }

func (h *captureHook) BeforeProcessPipeline(ctx context.Context, cmds []redis.Cmder) (context.Context, error) {
	h.cmds = append(h.cmds, cmds...)
	return ctx, errCaptured
}

func (h *captureHook) AfterProcessPipeline(context.Context, []redis.Cmder) error { return nil }

func (h *captureHook) names() []string {
	names := make([]string, 0, len(h.cmds))
	for _, cmd := range h.cmds {
		names = append(names, cmd.Name())
	}
	return names
}

func capturingClient(t *testing.T, ttl time.Duration) (*Client, *captureHook) {
	t.Helper()
	rdb := redis.NewClient(&redis.Options{Addr: "127.0.0.1:0"})
	t.Cleanup(func() { rdb.Close() })

	hook := &captureHook{}
	rdb.AddHook(hook)
	return newClient(rdb, ttl), hook
}

func TestTTLMillis(t *testing.T) {
	assert.Equal(t, int64(0), ttlMillis(0))
	assert.Equal(t, int64(0), ttlMillis(-time.Second))
	assert.Equal(t, int64(1800000), ttlMillis(30*time.Minute))
}

func TestCreateSessionExpiresOnlyWithPositiveTTL(t *testing.T) {
	ctx := context.Background()
	session := &models.CardSession{ID: "s1", ItemID: "dragon-flexi"}

	client, hook := capturingClient(t, 0)
	assert.ErrorIs(t, client.CreateSession(ctx, session), errCaptured)
	assert.Contains(t, hook.names(), "hset")
	assert.NotContains(t, hook.names(), "pexpire")

	client, hook = capturingClient(t, time.Minute)
	assert.ErrorIs(t, client.CreateSession(ctx, session), errCaptured)
	assert.Contains(t, hook.names(), "pexpire")
}

func TestSetSelectionPassesTTLToScript(t *testing.T) {
	ctx := context.Background()

	client, hook := capturingClient(t, 0)
	assert.ErrorIs(t, client.SetSelection(ctx, "s1", "Color", ""), errCaptured)
	require.NotEmpty(t, hook.cmds)
	args := hook.cmds[0].Args()
	assert.Equal(t, []interface{}{"card:s1", "opt:Color", "", int64(0)}, args[len(args)-4:])

	client, hook = capturingClient(t, 2*time.Second)
	assert.ErrorIs(t, client.SetSelection(ctx, "s1", "Color", "Gold"), errCaptured)
	args = hook.cmds[0].Args()
	assert.Equal(t, int64(2000), args[len(args)-1])
}

func TestSelectionScriptGuardsExpiry(t *testing.T) {
	assert.Contains(t, setSelectionScript, "if ttl and ttl > 0 then")
	assert.Contains(t, setSelectionScript, "redis.call('HDEL', KEYS[1], ARGV[1])")
}

// Integration test - requires a Redis at REDIS_TEST_ADDR
func TestSessionLifecycle(t *testing.T) {
	addr := os.Getenv("REDIS_TEST_ADDR")
	if addr == "" {
		t.Skip("Integration test - requires Redis")
	}

	client, err := NewClient(addr, "", 0, time.Minute)
	require.NoError(t, err)
	defer client.Close()

	ctx := context.Background()
	session := &models.CardSession{ID: uuid.New().String(), ItemID: "dragon-flexi"}

	require.NoError(t, client.CreateSession(ctx, session))
	defer client.DeleteSession(ctx, session.ID)

	require.NoError(t, client.SetSelection(ctx, session.ID, "Color", "Gold"))
	require.NoError(t, client.SetSelection(ctx, session.ID, "Scale", "Large"))
	require.NoError(t, client.SetSelection(ctx, session.ID, "Scale", ""))

	got, err := client.GetSession(ctx, session.ID)
	require.NoError(t, err)
	assert.Equal(t, "dragon-flexi", got.ItemID)
	assert.Equal(t, map[string]string{"Color": "Gold"}, got.Selections)

	require.NoError(t, client.DeleteSession(ctx, session.ID))
	_, err = client.GetSession(ctx, session.ID)
	assert.ErrorIs(t, err, ErrSessionNotFound)
	assert.ErrorIs(t, client.SetSelection(ctx, session.ID, "Color", "Gold"), ErrSessionNotFound)
}

package session

import (
	"context"
	"encoding/json"
	"os"
	"testing"
	"time"

	"github.com/jonathan/portfolio-site/internal/gallery"
	"github.com/jonathan/portfolio-site/internal/types"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleState(id string) *State {
	s := NewState(id)
	s.Status = types.StatusResult
	s.Record = acme()
	s.Language = types.LangEN
	c := gallery.Open("booking-platform", 3).Next()
	s.Gallery = &c
	s.Generation = 4
	s.UpdatedAt = time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	return s
}

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	defer store.Close()

	_, err := store.Load(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	s := sampleState("s1")
	require.NoError(t, store.Save(ctx, s))
	assert.Equal(t, 1, store.Len())

	s.Record.Company = "mutated after save"
	loaded, err := store.Load(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "Acme", loaded.Record.Company)

	loaded.Record.KeySkills[0] = "mutated after load"
	again, err := store.Load(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "Go", again.Record.KeySkills[0])

	require.NoError(t, store.Delete(ctx, "s1"))
	_, err = store.Load(ctx, "s1")
	assert.ErrorIs(t, err, ErrNotFound)

	assert.Error(t, store.Save(ctx, &State{}))
}

func TestState_EmptyStackSurvives(t *testing.T) {
	s := sampleState("s1")
	s.Record.Stack = []string{}

	clone := s.Clone()
	require.NotNil(t, clone.Record.Stack)
	assert.Empty(t, clone.Record.Stack)

	data, err := json.Marshal(s)
	require.NoError(t, err)
	var decoded State
	require.NoError(t, json.Unmarshal(data, &decoded))
	require.NotNil(t, decoded.Record.Stack)

	s.Record.Stack = nil
	data, err = json.Marshal(s.Record)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "stack")
}

func TestMemoryStore_Expiry(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	store := NewMemoryStore(WithMemoryTTL(time.Hour), WithClock(func() time.Time { return now }))

	require.NoError(t, store.Save(ctx, sampleState("old")))
	now = now.Add(30 * time.Minute)
	require.NoError(t, store.Save(ctx, sampleState("fresh")))

	now = now.Add(45 * time.Minute)
	_, err := store.Load(ctx, "old")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, 1, store.Len())

	loaded, err := store.Load(ctx, "fresh")
	require.NoError(t, err)
	assert.Equal(t, "fresh", loaded.ID)

	now = now.Add(time.Hour)
	assert.Equal(t, 1, store.Sweep())
	assert.Equal(t, 0, store.Len())

	require.NoError(t, store.Close())
	require.NoError(t, store.Close())
}

func TestNewID_Unique(t *testing.T) {
	assert.NotEqual(t, NewID(), NewID())
	assert.Len(t, NewID(), 36)
}

func TestRedisStore(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set")
	}

	client := redis.NewClient(&redis.Options{Addr: addr, DB: 15})
	defer client.Close()
	ctx := context.Background()
	require.NoError(t, client.Ping(ctx).Err())

	store := NewRedisStore(client, time.Minute)
	id := NewID()
	defer store.Delete(ctx, id)

	_, err := store.Load(ctx, id)
	assert.ErrorIs(t, err, ErrNotFound)

	want := sampleState(id)
	require.NoError(t, store.Save(ctx, want))

	got, err := store.Load(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	ttl, err := client.TTL(ctx, "portfolio:session:"+id).Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))
}

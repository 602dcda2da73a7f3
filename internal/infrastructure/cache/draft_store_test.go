package cache

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/storefront/backend/internal/domain/design"
	"github.com/storefront/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func sampleDraft(t *testing.T) design.Draft {
	t.Helper()
	doc := design.NewDocument("prod-1", "Classic Tee", []design.View{design.DefaultView()})
	require.NoError(t, doc.AddElement(doc.ActiveView, design.NewTextElement("t1")))
	require.NoError(t, doc.SetQuantity(3))
	return design.Draft{Items: []*design.Document{doc}, SavedAt: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
}

func TestMemoryDraftStore(t *testing.T) {
	store := NewMemoryDraftStore(time.Hour)
	t.Cleanup(func() { _ = store.Close() })
	ctx := context.Background()

	t.Run("empty slot", func(t *testing.T) {
		_, err := store.Load(ctx, "user-1")
		assert.ErrorIs(t, err, design.ErrDraftNotFound)
	})

	t.Run("save then load round trips", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, "user-1", sampleDraft(t)))
		got, err := store.Load(ctx, "user-1")
		require.NoError(t, err)
		require.Len(t, got.Items, 1)
		assert.Equal(t, 3, got.Items[0].Quantity)
		assert.Equal(t, 1, got.Items[0].ElementCount())
		assert.True(t, got.SavedAt.Equal(sampleDraft(t).SavedAt))
	})

	t.Run("owners are isolated", func(t *testing.T) {
		_, err := store.Load(ctx, "user-2")
		assert.ErrorIs(t, err, design.ErrDraftNotFound)
	})

	t.Run("save replaces the single slot", func(t *testing.T) {
		d := sampleDraft(t)
		d.Items = append(d.Items, d.Items[0].Clone())
		require.NoError(t, store.Save(ctx, "user-1", d))
		got, err := store.Load(ctx, "user-1")
		require.NoError(t, err)
		assert.Len(t, got.Items, 2)
		assert.Equal(t, 1, store.Size())
	})

	t.Run("clear empties the slot", func(t *testing.T) {
		require.NoError(t, store.Clear(ctx, "user-1"))
		_, err := store.Load(ctx, "user-1")
		assert.ErrorIs(t, err, design.ErrDraftNotFound)
		assert.NoError(t, store.Clear(ctx, "user-1"))
	})
}

func TestMemoryDraftStore_Expiry(t *testing.T) {
	store := NewMemoryDraftStore(time.Minute)
	t.Cleanup(func() { _ = store.Close() })
	ctx := context.Background()

	now := time.Now()
	store.now = func() time.Time { return now }
	require.NoError(t, store.Save(ctx, "user-1", sampleDraft(t)))

	now = now.Add(2 * time.Minute)
	_, err := store.Load(ctx, "user-1")
	assert.ErrorIs(t, err, design.ErrDraftNotFound)

	store.cleanup()
	assert.Zero(t, store.Size())
}

func TestMemoryDraftStore_CloseTwice(t *testing.T) {
	store := NewMemoryDraftStore(time.Minute)
	assert.NoError(t, store.Close())
	assert.NoError(t, store.Close())
}

// fakeRedis implements the three commands the draft store uses
type fakeRedis struct {
	redis.Cmdable
	mu   sync.Mutex
	data map[string]string
	ttls map[string]time.Duration
}

func newFakeRedis() *fakeRedis {
	return &fakeRedis{data: map[string]string{}, ttls: map[string]time.Duration{}}
}

func (f *fakeRedis) Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	switch v := value.(type) {
	case []byte:
		f.data[key] = string(v)
	case string:
		f.data[key] = v
	}
	f.ttls[key] = expiration
	cmd := redis.NewStatusCmd(ctx)
	cmd.SetVal("OK")
	return cmd
}

func (f *fakeRedis) Get(ctx context.Context, key string) *redis.StringCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	cmd := redis.NewStringCmd(ctx)
	v, ok := f.data[key]
	if !ok {
		cmd.SetErr(redis.Nil)
		return cmd
	}
	cmd.SetVal(v)
	return cmd
}

func (f *fakeRedis) Del(ctx context.Context, keys ...string) *redis.IntCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for _, k := range keys {
		if _, ok := f.data[k]; ok {
			delete(f.data, k)
			n++
		}
	}
	cmd := redis.NewIntCmd(ctx)
	cmd.SetVal(n)
	return cmd
}

func TestRedisDraftStore(t *testing.T) {
	client := newFakeRedis()
	store := NewRedisDraftStore(client, "shop", 48*time.Hour)
	ctx := context.Background()

	assert.Equal(t, "shop:user-1:current_order", store.Key("user-1"))

	_, err := store.Load(ctx, "user-1")
	assert.ErrorIs(t, err, design.ErrDraftNotFound)

	require.NoError(t, store.Save(ctx, "user-1", sampleDraft(t)))
	assert.Equal(t, 48*time.Hour, client.ttls["shop:user-1:current_order"])

	got, err := store.Load(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, got.Items, 1)
	assert.Equal(t, "prod-1", got.Items[0].ProductID)

	require.NoError(t, store.Clear(ctx, "user-1"))
	_, err = store.Load(ctx, "user-1")
	assert.ErrorIs(t, err, design.ErrDraftNotFound)
}

func TestRedisDraftStore_DefaultPrefix(t *testing.T) {
	store := NewRedisDraftStore(newFakeRedis(), "", time.Hour)
	assert.Equal(t, "draft:abc:current_order", store.Key("abc"))
}

func TestNewDraftStore(t *testing.T) {
	logger := zap.NewNop()

	t.Run("memory", func(t *testing.T) {
		store, err := NewDraftStore(config.DraftConfig{Driver: config.DraftDriverMemory, TTL: time.Hour}, nil, logger)
		require.NoError(t, err)
		mem, ok := store.(*MemoryDraftStore)
		require.True(t, ok)
		_ = mem.Close()
	})

	t.Run("redis", func(t *testing.T) {
		store, err := NewDraftStore(config.DraftConfig{Driver: config.DraftDriverRedis}, newFakeRedis(), logger)
		require.NoError(t, err)
		assert.IsType(t, &RedisDraftStore{}, store)
	})

	t.Run("redis without client", func(t *testing.T) {
		_, err := NewDraftStore(config.DraftConfig{Driver: config.DraftDriverRedis}, nil, logger)
		assert.Error(t, err)
	})

	t.Run("unknown driver", func(t *testing.T) {
		_, err := NewDraftStore(config.DraftConfig{Driver: "etcd"}, nil, logger)
		assert.Error(t, err)
	})
}

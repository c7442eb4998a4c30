package session

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	dconfig "mttr-dashboard/domain/config"
)

func sample() Upload {
	return Upload{
		Name:       "tickets.xlsx",
		Data:       []byte("PK\x03\x04payload"),
		UploadedAt: time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC),
	}
}

// exerciseStore runs the behaviour every Store must share.
func exerciseStore(t *testing.T, s Store) {
	ctx := context.Background()
	id := NewID()

	_, err := s.Load(ctx, id)
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, s.Save(ctx, id, sample()))
	got, err := s.Load(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, sample().Name, got.Name)
	assert.Equal(t, sample().Data, got.Data)
	assert.True(t, sample().UploadedAt.Equal(got.UploadedAt))

	require.NoError(t, s.Delete(ctx, id))
	_, err = s.Load(ctx, id)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStore(t *testing.T) {
	exerciseStore(t, NewMemoryStore(time.Hour))
}

func TestMemoryStoreExpiry(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	s := NewMemoryStore(time.Hour)
	s.now = func() time.Time { return now }

	require.NoError(t, s.Save(ctx, "a", sample()))
	now = now.Add(59 * time.Minute)
	_, err := s.Load(ctx, "a")
	require.NoError(t, err)

	now = now.Add(time.Minute)
	_, err = s.Load(ctx, "a")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, s.Save(ctx, "b", sample()))
	now = now.Add(2 * time.Hour)
	require.NoError(t, s.Save(ctx, "c", sample()))
	assert.Equal(t, 1, s.Len(), "expired entries are swept on save")
}

func TestRedisStore(t *testing.T) {
	mr := miniredis.RunT(t)
	s, err := NewRedisStore(context.Background(), WithAddress(mr.Addr()), WithTTL(time.Minute))
	require.NoError(t, err)
	defer s.Close()

	exerciseStore(t, s)

	id := NewID()
	require.NoError(t, s.Save(context.Background(), id, sample()))
	assert.Equal(t, time.Minute, mr.TTL(keyPrefix+id))
	mr.FastForward(2 * time.Minute)
	_, err = s.Load(context.Background(), id)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestNewRedisStoreUnreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	_, err := NewRedisStore(context.Background(), WithAddress(addr))
	assert.Error(t, err)
}

func TestNew(t *testing.T) {
	cfg := dconfig.Default()

	s, err := New(context.Background(), cfg, zap.NewNop())
	require.NoError(t, err)
	assert.IsType(t, &MemoryStore{}, s)

	mr := miniredis.RunT(t)
	cfg.Session.Store = dconfig.StoreRedis
	cfg.Redis.Addr = mr.Addr()
	s, err = New(context.Background(), cfg, zap.NewNop())
	require.NoError(t, err)
	assert.IsType(t, &RedisStore{}, s)
	require.NoError(t, s.Close())
}

func TestIDs(t *testing.T) {
	id := NewID()
	assert.True(t, ValidID(id))
	assert.False(t, ValidID("../../etc/passwd"))

	up := sample()
	assert.Equal(t, id+":"+"1748768400000000000", up.Key(id))
}

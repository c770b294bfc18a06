package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type entry struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func TestMemory_SetGet(t *testing.T) {
	m := NewMemory(time.Minute)
	defer m.Close()
	ctx := context.Background()

	require.NoError(t, m.Set(ctx, "products:1", entry{Name: "taza", Count: 2}, 0))

	var got entry
	found, err := m.Get(ctx, "products:1", &got)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, entry{Name: "taza", Count: 2}, got)

	found, err = m.Get(ctx, "products:2", &got)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestMemory_Expiration(t *testing.T) {
	m := NewMemory(time.Minute)
	defer m.Close()
	ctx := context.Background()

	require.NoError(t, m.Set(ctx, "k", entry{Name: "x"}, time.Nanosecond))
	time.Sleep(time.Millisecond)

	var got entry
	found, err := m.Get(ctx, "k", &got)
	require.NoError(t, err)
	assert.False(t, found)

	m.purge(time.Now())
	assert.Equal(t, 0, m.Size())
}

func TestMemory_DeleteByPrefix(t *testing.T) {
	m := NewMemory(time.Minute)
	defer m.Close()
	ctx := context.Background()

	for _, key := range []string{"products:list:1", "products:a", "posts:a"} {
		require.NoError(t, m.Set(ctx, key, 1, 0))
	}

	require.NoError(t, m.DeleteByPrefix(ctx, "products:"))
	assert.Equal(t, 1, m.Size())

	var n int
	found, _ := m.Get(ctx, "posts:a", &n)
	assert.True(t, found)

	require.NoError(t, m.Delete(ctx, "posts:a"))
	assert.Equal(t, 0, m.Size())
}

func TestMemory_CloseTwice(t *testing.T) {
	m := NewMemory(time.Minute)
	assert.NoError(t, m.Close())
	assert.NoError(t, m.Close())
}

func TestNew(t *testing.T) {
	store, err := New("", time.Minute)
	require.NoError(t, err)
	assert.IsType(t, &Memory{}, store)
	store.Close()

	store, err = New("redis://localhost:6379/0", time.Minute)
	require.NoError(t, err)
	assert.IsType(t, &Redis{}, store)
	store.Close()

	_, err = New("memcached://localhost", time.Minute)
	assert.Error(t, err)
}

type fakeRedisClient struct {
	data    map[string][]byte
	scans   [][]string
	deleted []string
	ttl     time.Duration
	pingErr error
}

func (f *fakeRedisClient) Get(_ context.Context, key string) *redis.StringCmd {
	v, ok := f.data[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(string(v), nil)
}

func (f *fakeRedisClient) Set(_ context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd {
	f.data[key] = value.([]byte)
	f.ttl = expiration
	return redis.NewStatusResult("OK", nil)
}

func (f *fakeRedisClient) Del(_ context.Context, keys ...string) *redis.IntCmd {
	f.deleted = append(f.deleted, keys...)
	return redis.NewIntResult(int64(len(keys)), nil)
}

// Scan devuelve una página por llamada; el cursor es el índice de la siguiente
func (f *fakeRedisClient) Scan(_ context.Context, cursor uint64, _ string, _ int64) *redis.ScanCmd {
	next := cursor + 1
	if int(next) >= len(f.scans) {
		next = 0
	}
	return redis.NewScanCmdResult(f.scans[cursor], next, nil)
}

func (f *fakeRedisClient) Ping(context.Context) *redis.StatusCmd {
	return redis.NewStatusResult("PONG", f.pingErr)
}

func (f *fakeRedisClient) Close() error { return nil }

func TestRedis_SetGet(t *testing.T) {
	client := &fakeRedisClient{data: map[string][]byte{}}
	store := &Redis{client: client, ttl: 2 * time.Minute, namespace: "test"}
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "posts:1", entry{Name: "hola"}, 0))
	assert.Equal(t, 2*time.Minute, client.ttl)
	assert.Contains(t, client.data, "test:posts:1")

	var got entry
	found, err := store.Get(ctx, "posts:1", &got)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "hola", got.Name)

	found, err = store.Get(ctx, "posts:2", &got)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestRedis_DeleteByPrefix(t *testing.T) {
	client := &fakeRedisClient{
		data:  map[string][]byte{},
		scans: [][]string{{"test:products:a", "test:products:b"}, {}, {"test:products:c"}},
	}
	store := &Redis{client: client, namespace: "test"}

	require.NoError(t, store.DeleteByPrefix(context.Background(), "products:"))
	assert.Equal(t, []string{"test:products:a", "test:products:b", "test:products:c"}, client.deleted)
}

func TestRedis_Ping(t *testing.T) {
	client := &fakeRedisClient{pingErr: errors.New("down")}
	store := &Redis{client: client}
	assert.Error(t, store.Ping(context.Background()))
}

func TestNewRedis_Validation(t *testing.T) {
	_, err := NewRedis(RedisConfig{})
	assert.Error(t, err)

	_, err = NewRedis(RedisConfig{URL: "http://nope"})
	assert.Error(t, err)
}

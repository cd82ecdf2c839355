package storage

import (
	"context"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alturino/storefront/internal/config"
)

func newStores(t *testing.T) map[string]Store {
	t.Helper()

	sqliteStore, err := NewSQLiteStore(context.Background(), filepath.Join(t.TempDir(), "storefront.db"))
	require.NoError(t, err)

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	stores := map[string]Store{
		DRIVER_MEMORY: NewMemoryStore(),
		DRIVER_SQLITE: sqliteStore,
		DRIVER_REDIS:  NewRedisStore(client, "test"),
	}
	t.Cleanup(func() {
		for _, store := range stores {
			store.Close()
		}
	})
	return stores
}

func TestKeyValueStore(t *testing.T) {
	for driver, store := range newStores(t) {
		t.Run(driver, func(t *testing.T) {
			c := context.Background()

			_, ok, err := store.Get(c, KEY_TOKEN)
			require.NoError(t, err)
			assert.False(t, ok, "given empty store should miss")

			require.NoError(t, store.Set(c, KEY_TOKEN, "token-1"))
			require.NoError(t, store.Set(c, KEY_USER, `{"id":1}`))
			value, ok, err := store.Get(c, KEY_TOKEN)
			require.NoError(t, err)
			assert.True(t, ok)
			assert.Equal(t, "token-1", value)

			require.NoError(t, store.Set(c, KEY_TOKEN, "token-2"))
			value, _, err = store.Get(c, KEY_TOKEN)
			require.NoError(t, err)
			assert.Equal(t, "token-2", value, "given existing key should overwrite")

			require.NoError(t, store.Delete(c, KEY_TOKEN, KEY_USER, KEY_DARK_THEME))
			for _, key := range []string{KEY_TOKEN, KEY_USER} {
				_, ok, err = store.Get(c, key)
				require.NoError(t, err)
				assert.False(t, ok, "given deleted key=%s should miss", key)
			}

			assert.NoError(t, store.Delete(c))
		})
	}
}

func TestSQLiteStorePersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "storefront.db")
	c := context.Background()

	first, err := NewSQLiteStore(c, path)
	require.NoError(t, err)
	require.NoError(t, first.Set(c, KEY_DARK_THEME, "true"))
	require.NoError(t, first.Close())

	second, err := NewSQLiteStore(c, path)
	require.NoError(t, err)
	defer second.Close()

	value, ok, err := second.Get(c, KEY_DARK_THEME)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "true", value)
}

func TestRedisStoreNamespacesKeys(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	store := NewRedisStore(client, "shop")
	defer store.Close()

	require.NoError(t, store.Set(context.Background(), KEY_TOKEN, "abc"))

	stored, err := mr.Get("shop:" + KEY_TOKEN)
	require.NoError(t, err)
	assert.Equal(t, "abc", stored)
}

func TestOpen(t *testing.T) {
	mr := miniredis.RunT(t)
	port, err := strconv.Atoi(mr.Port())
	require.NoError(t, err)

	tests := []struct {
		name        string
		storage     config.Storage
		expectedErr bool
	}{
		{name: "given memory driver should open memory store", storage: config.Storage{Driver: DRIVER_MEMORY}},
		{name: "given sqlite driver should open sqlite store", storage: config.Storage{Driver: DRIVER_SQLITE, SqlitePath: filepath.Join(t.TempDir(), "a.db")}},
		{name: "given redis driver should open redis store", storage: config.Storage{Driver: "Redis"}},
		{name: "given unknown driver should fail", storage: config.Storage{Driver: "etcd"}, expectedErr: true},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			cfg := &config.Config{
				Storage: test.storage,
				Cache:   config.Cache{Host: mr.Host(), Port: uint16(port)},
			}

			store, err := Open(context.Background(), cfg)
			if test.expectedErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			defer store.Close()
			assert.NoError(t, store.Set(context.Background(), KEY_TOKEN, "x"))
		})
	}
}

package session

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/medvault/internal/config"
)

func backends(t *testing.T) map[string]KV {
	t.Helper()

	file, err := OpenFile(filepath.Join(t.TempDir(), "nested", "session.json"), nil)
	require.NoError(t, err)

	lite, err := OpenSQLite(filepath.Join(t.TempDir(), "session.db"))
	require.NoError(t, err)

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)
	rds, err := OpenRedis(context.Background(), config.RedisConnection{AddressRedis: mr.Addr()}, "test")
	require.NoError(t, err)

	all := map[string]KV{
		"memory": NewMemory(),
		"file":   file,
		"sqlite": lite,
		"redis":  rds,
	}
	t.Cleanup(func() {
		for _, kv := range all {
			_ = kv.Close()
		}
	})
	return all
}

func TestKV_Contract(t *testing.T) {
	ctx := context.Background()
	for name, kv := range backends(t) {
		t.Run(name, func(t *testing.T) {
			_, found, err := kv.Get(ctx, "missing")
			require.NoError(t, err)
			assert.False(t, found)

			require.NoError(t, kv.Remove(ctx, "missing"))

			require.NoError(t, kv.Set(ctx, "a", "1"))
			v, found, err := kv.Get(ctx, "a")
			require.NoError(t, err)
			assert.True(t, found)
			assert.Equal(t, "1", v)

			require.NoError(t, kv.SetMany(ctx, map[string]string{"a": "2", "b": "3"}))
			v, _, _ = kv.Get(ctx, "a")
			assert.Equal(t, "2", v)
			v, _, _ = kv.Get(ctx, "b")
			assert.Equal(t, "3", v)

			require.NoError(t, kv.Remove(ctx, "a", "b"))
			_, found, _ = kv.Get(ctx, "a")
			assert.False(t, found)
			_, found, _ = kv.Get(ctx, "b")
			assert.False(t, found)
		})
	}
}

func TestFile_SurvivesReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "session.json")

	f, err := OpenFile(path, nil)
	require.NoError(t, err)
	require.NoError(t, f.Set(ctx, KeyToken, "tok123"))
	require.NoError(t, f.Close())

	reopened, err := OpenFile(path, nil)
	require.NoError(t, err)
	v, found, err := reopened.Get(ctx, KeyToken)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "tok123", v)
}

func TestFile_MalformedDocumentTreatedAsEmpty(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "session.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"token":"tok123","user":`), 0o600))

	f, err := OpenFile(path, nil)
	require.NoError(t, err)

	_, found, err := f.Get(ctx, KeyToken)
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, f.SetMany(ctx, map[string]string{KeyToken: "tok456", KeyUser: `{"role":"PATIENT"}`}))
	v, found, err := f.Get(ctx, KeyToken)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "tok456", v)

	require.NoError(t, os.WriteFile(path, []byte("garbage"), 0o600))
	require.NoError(t, f.Remove(ctx, KeyToken, KeyUser))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.JSONEq(t, `{}`, string(data))
}

func TestSQLite_SurvivesReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "session.db")

	s, err := OpenSQLite(path)
	require.NoError(t, err)
	require.NoError(t, s.Set(ctx, KeyUser, `{"role":"ADMIN"}`))
	require.NoError(t, s.Close())

	reopened, err := OpenSQLite(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = reopened.Close() })
	v, found, err := reopened.Get(ctx, KeyUser)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, `{"role":"ADMIN"}`, v)
}

func TestOpen_RequiresPath(t *testing.T) {
	_, err := OpenFile("", nil)
	assert.Error(t, err)
	_, err = OpenSQLite(" ")
	assert.Error(t, err)
}

func TestOpenRedis_InvalidAddr(t *testing.T) {
	kv, err := OpenRedis(context.Background(), config.RedisConnection{AddressRedis: "127.0.0.1:1"}, "")
	assert.Nil(t, kv)
	assert.Error(t, err)
}

func TestRedis_Namespace(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	kv, err := OpenRedis(context.Background(), config.RedisConnection{AddressRedis: mr.Addr()}, "clinic")
	require.NoError(t, err)
	t.Cleanup(func() { _ = kv.Close() })

	require.NoError(t, kv.Set(context.Background(), KeyToken, "tok"))
	got, err := mr.Get("clinic:token")
	require.NoError(t, err)
	assert.Equal(t, "tok", got)
}

func TestOpen_Drivers(t *testing.T) {
	ctx := context.Background()

	kv, err := Open(ctx, config.SessionStore{Driver: config.StoreMemory}, nil)
	require.NoError(t, err)
	assert.IsType(t, &Memory{}, kv)

	kv, err = Open(ctx, config.SessionStore{Driver: config.StoreFile, Path: filepath.Join(t.TempDir(), "s.json")}, nil)
	require.NoError(t, err)
	assert.IsType(t, &File{}, kv)

	_, err = Open(ctx, config.SessionStore{Driver: "etcd"}, nil)
	assert.Error(t, err)
}

func TestMemory_Closed(t *testing.T) {
	m := NewMemory()
	require.NoError(t, m.Close())

	_, _, err := m.Get(context.Background(), "a")
	assert.ErrorIs(t, err, ErrClosed)
	assert.ErrorIs(t, m.Set(context.Background(), "a", "b"), ErrClosed)
}

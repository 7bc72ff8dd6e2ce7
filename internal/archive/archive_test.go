// ABOUTME: Tests for the local archive drivers and page keys.
// ABOUTME: Charm and S3 need remote services and are covered through the shared contract only.
package archive

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPageKey(t *testing.T) {
	a := PageKey("https://example.test/exercises/?limit=50&offset=0")
	b := PageKey(" https://example.test/exercises/?limit=50&offset=0 ")
	c := PageKey("https://example.test/exercises/?limit=50&offset=50")

	require.Equal(t, a, b, "surrounding whitespace must not change the key")
	require.NotEqual(t, a, c)
	require.True(t, strings.HasPrefix(a, "pages/"))
	require.True(t, strings.HasSuffix(a, ".json"))
	require.Len(t, a, len("pages/")+64+len(".json"))
}

func TestDrivers(t *testing.T) {
	drivers := map[string]func(t *testing.T) Store{
		"fs": func(t *testing.T) Store {
			s, err := NewFS(t.TempDir())
			require.NoError(t, err)
			return s
		},
		"memory": func(t *testing.T) Store {
			return NewMemory()
		},
		"badger": func(t *testing.T) Store {
			s, err := NewBadger(t.TempDir())
			require.NoError(t, err)
			return s
		},
		"badger in memory": func(t *testing.T) Store {
			s, err := NewBadger("")
			require.NoError(t, err)
			return s
		},
	}

	for name, open := range drivers {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			store := open(t)
			t.Cleanup(func() { _ = store.Close() })

			key := PageKey("https://example.test/page/1")
			_, err := store.Get(ctx, key)
			require.ErrorIs(t, err, ErrNotFound)

			require.NoError(t, store.Put(ctx, key, []byte(`{"results": []}`)))
			got, err := store.Get(ctx, key)
			require.NoError(t, err)
			require.Equal(t, `{"results": []}`, string(got))

			require.NoError(t, store.Put(ctx, key, []byte(`{"results": [1]}`)))
			got, err = store.Get(ctx, key)
			require.NoError(t, err)
			require.Equal(t, `{"results": [1]}`, string(got))
		})
	}
}

func TestFSRejectsTraversal(t *testing.T) {
	store, err := NewFS(t.TempDir())
	require.NoError(t, err)

	for _, key := range []string{"", "../escape.json", "/abs.json", "pages/../../x"} {
		err := store.Put(context.Background(), key, []byte("x"))
		require.Error(t, err, "key %q", key)
	}
}

func TestFSRequiresDir(t *testing.T) {
	_, err := NewFS("")
	require.Error(t, err)
}

func TestOpen(t *testing.T) {
	ctx := context.Background()

	store, err := Open(ctx, Config{Driver: "fs", Dir: t.TempDir()})
	require.NoError(t, err)
	require.Equal(t, DriverFS, store.Driver())

	store, err = Open(ctx, Config{Driver: " Memory "})
	require.NoError(t, err)
	require.Equal(t, DriverMemory, store.Driver())

	_, err = Open(ctx, Config{Driver: "ftp"})
	require.Error(t, err)

	_, err = Open(ctx, Config{Driver: "s3"})
	require.Error(t, err, "s3 without a bucket must fail")

	require.False(t, Config{}.Enabled())
	require.True(t, Config{Driver: "fs"}.Enabled())
}

func TestMemoryCopiesData(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	data := []byte("abc")
	require.NoError(t, m.Put(ctx, "k", data))
	data[0] = 'x'

	got, err := m.Get(ctx, "k")
	require.NoError(t, err)
	require.Equal(t, "abc", string(got))
	require.Equal(t, 1, m.Len())

	require.NoError(t, m.Close())
	_, err = m.Get(ctx, "k")
	require.True(t, errors.Is(err, ErrNotFound))
}

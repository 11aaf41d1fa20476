package objectstore

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStore_PutDelete(t *testing.T) {
	root := t.TempDir()
	store, err := NewLocalStore(root, "http://cdn.test/uploads/")
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, "products/1-a.png", strings.NewReader("data"), 4, "image/png"))

	b, err := os.ReadFile(filepath.Join(root, "products", "1-a.png"))
	require.NoError(t, err)
	assert.Equal(t, "data", string(b))
	assert.Equal(t, "http://cdn.test/uploads/products/1-a.png", store.URL("products/1-a.png"))

	require.NoError(t, store.Delete(ctx, "products/1-a.png"))
	require.NoError(t, store.Delete(ctx, "products/1-a.png"))

	_, err = os.Stat(filepath.Join(root, "products", "1-a.png"))
	assert.True(t, os.IsNotExist(err))
}

func TestLocalStore_RejectsEscapingKeys(t *testing.T) {
	store, err := NewLocalStore(t.TempDir(), "http://cdn.test")
	require.NoError(t, err)

	err = store.Put(context.Background(), "../outside.txt", strings.NewReader("x"), 1, "text/plain")
	assert.Error(t, err)
	assert.Error(t, store.Delete(context.Background(), "/etc/passwd"))
}

func TestLocalStore_ConcurrentPutsOfOneKey(t *testing.T) {
	root := t.TempDir()
	store, err := NewLocalStore(root, "http://cdn.test")
	require.NoError(t, err)

	var wg sync.WaitGroup
	errs := make([]error, 8)
	for i := range errs {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs[i] = store.Put(context.Background(), "p/k.png", strings.NewReader(strings.Repeat("x", 4096)), 4096, "image/png")
		}()
	}
	wg.Wait()

	for _, err := range errs {
		assert.NoError(t, err)
	}

	entries, err := os.ReadDir(filepath.Join(root, "p"))
	require.NoError(t, err)
	require.Len(t, entries, 1)

	b, err := os.ReadFile(filepath.Join(root, "p", "k.png"))
	require.NoError(t, err)
	assert.Len(t, b, 4096)
}

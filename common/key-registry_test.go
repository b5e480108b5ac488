package bscommon

import (
	"bytes"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestKeyRegistryPersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "submitted-keys.json")
	k1 := bytes.Repeat([]byte{0x01}, 48)
	k2 := bytes.Repeat([]byte{0xab}, 48)

	registry, err := NewKeyRegistry(path)
	require.NoError(t, err)
	require.Equal(t, 0, registry.Count())
	registered, err := registry.IsRegistered(k1)
	require.NoError(t, err)
	require.False(t, registered)

	require.NoError(t, registry.Add(k1, k2))
	registered, err = registry.IsRegistered(k2)
	require.NoError(t, err)
	require.True(t, registered)

	// A fresh instance sees the saved keys
	reloaded, err := NewKeyRegistry(path)
	require.NoError(t, err)
	require.Equal(t, 2, reloaded.Count())
	registered, err = reloaded.IsRegistered(k1)
	require.NoError(t, err)
	require.True(t, registered)
}

func TestKeyRegistryIsCaseInsensitive(t *testing.T) {
	path := filepath.Join(t.TempDir(), "submitted-keys.json")
	contents := `{"pubkeys":["0xABABABABABABABABABABABABABABABABABABABABABABABABABABABABABABABABABABABABABABABABABABABABABABABAB"]}`
	require.NoError(t, os.WriteFile(path, []byte(contents), 0600))

	registry, err := NewKeyRegistry(path)
	require.NoError(t, err)
	registered, err := registry.IsRegistered(bytes.Repeat([]byte{0xab}, 48))
	require.NoError(t, err)
	require.True(t, registered)
}

func TestKeyRegistryCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "submitted-keys.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0600))
	_, err := NewKeyRegistry(path)
	require.Error(t, err)
}

func TestKeyRegistryConcurrentReads(t *testing.T) {
	registry, err := NewKeyRegistry(filepath.Join(t.TempDir(), "submitted-keys.json"))
	require.NoError(t, err)
	key := bytes.Repeat([]byte{0x05}, 48)
	require.NoError(t, registry.Add(key))

	wg := sync.WaitGroup{}
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			registered, err := registry.IsRegistered(key)
			if err != nil || !registered {
				t.Error("expected key to be registered")
			}
		}()
	}
	wg.Wait()
}

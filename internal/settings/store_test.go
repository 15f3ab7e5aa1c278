package settings

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStoreMissingFileStartsEmpty(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "settings.json")

	store, err := Open(path)
	require.NoError(t, err)

	_, ok := store.Read("ngrok_token")
	assert.False(t, ok)
}

func TestFileStoreWriteThenRead(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "settings.json")

	store, err := Open(path)
	require.NoError(t, err)

	require.NoError(t, store.Write("zrok_token", "secret-token"))

	val, ok := store.Read("zrok_token")
	assert.True(t, ok)
	assert.Equal(t, "secret-token", val)

	// The value must survive a reopen, since the notebook layer reads the
	// same file between runs.
	reopened, err := Open(path)
	require.NoError(t, err)
	val, ok = reopened.Read("zrok_token")
	assert.True(t, ok)
	assert.Equal(t, "secret-token", val)
}

func TestFileStoreReadsExistingSettingsJSON(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "settings.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"ngrok_token": "abc123", "public_ip": "203.0.113.7"}`), 0o644))

	store, err := Open(path)
	require.NoError(t, err)

	token, ok := store.Read("ngrok_token")
	assert.True(t, ok)
	assert.Equal(t, "abc123", token)

	ip, ok := store.Read("public_ip")
	assert.True(t, ok)
	assert.Equal(t, "203.0.113.7", ip)
}

func TestFileStoreEmptyValueReportsAbsent(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "settings.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"zrok_token": ""}`), 0o644))

	store, err := Open(path)
	require.NoError(t, err)

	// An empty token must not activate a credential-gated provider.
	_, ok := store.Read("zrok_token")
	assert.False(t, ok)
}

func TestMemStore(t *testing.T) {
	t.Parallel()
	store := NewMemStore(map[string]string{"a": "1"})

	val, ok := store.Read("a")
	assert.True(t, ok)
	assert.Equal(t, "1", val)

	_, ok = store.Read("missing")
	assert.False(t, ok)

	require.NoError(t, store.Write("b", "2"))
	val, ok = store.Read("b")
	assert.True(t, ok)
	assert.Equal(t, "2", val)
}

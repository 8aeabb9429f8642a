package file

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *ConfigStore {
	t.Helper()

	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)
	return store
}

func TestNewConfigStore_Path(t *testing.T) {
	tmpDir := t.TempDir()

	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(tmpDir, "config.toml"), store.Path())
}

func TestSetAndGet(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.Set(KeyLLMModel, "llama3.2"))

	val, ok := store.Get(KeyLLMModel)
	assert.True(t, ok)
	assert.Equal(t, "llama3.2", val)
}

func TestGetString_WrongTypeOrMissing(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.Set(KeyRetrievalTopK, 5))
	assert.Equal(t, "", store.GetString(KeyRetrievalTopK))
	assert.Equal(t, "", store.GetString("missing"))
}

func TestGetInt(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.Set(KeyChunkSize, 512))
	assert.Equal(t, 512, store.GetInt(KeyChunkSize))
	assert.Equal(t, 0, store.GetInt("missing"))
}

func TestGetBool(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.Set("docs.watch", true))
	assert.True(t, store.GetBool("docs.watch"))
	assert.False(t, store.GetBool("missing"))
}

func TestGetStringSlice(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.Set("docs.extensions", []string{".md", ".pdf"}))
	assert.Equal(t, []string{".md", ".pdf"}, store.GetStringSlice("docs.extensions"))
	assert.Nil(t, store.GetStringSlice("missing"))
}

func TestPersistenceRoundTrip(t *testing.T) {
	tmpDir := t.TempDir()

	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)
	require.NoError(t, store.Set(KeyLLMProvider, "openai"))
	require.NoError(t, store.Set(KeyRetrievalTopK, 5))

	// A fresh store reads the same values back.
	reloaded, err := NewConfigStore(tmpDir)
	require.NoError(t, err)
	assert.Equal(t, "openai", reloaded.GetString(KeyLLMProvider))
	assert.Equal(t, 5, reloaded.GetInt(KeyRetrievalTopK))
}

func TestDottedKeysWrittenAsTables(t *testing.T) {
	tmpDir := t.TempDir()

	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)
	require.NoError(t, store.Set(KeyLLMModel, "gpt-4o-mini"))

	data, err := os.ReadFile(store.Path())
	require.NoError(t, err)
	assert.Contains(t, string(data), "[llm]")
	assert.Contains(t, string(data), "model = 'gpt-4o-mini'")
}

func TestFilePermissions(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.Set(KeyLLMAPIKey, "secret"))

	info, err := os.Stat(store.Path())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

package persist

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/valmeida/aetria/pkg/state"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestFileStore(t *testing.T) *FileStore {
	t.Helper()
	path := filepath.Join(t.TempDir(), "save", SaveKey+".json")
	return NewFileStore(path, testLogger())
}

func TestFileStore_SaveLoad(t *testing.T) {
	ctx := context.Background()
	store := newTestFileStore(t)

	snap := testSnapshot(3, 4)
	snap.GameState.Player.Nome = "Kael"

	require.NoError(t, store.Save(ctx, snap))

	loaded, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Kael", loaded.GameState.Player.Nome)
	assert.Len(t, loaded.TurnHistory, 3)
	assert.Len(t, loaded.ChatHistory, 4)
}

func TestFileStore_SaveIsBounded(t *testing.T) {
	ctx := context.Background()
	store := newTestFileStore(t)

	require.NoError(t, store.Save(ctx, testSnapshot(TurnHistoryCap+15, ChatHistoryCap+5)))

	loaded, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Len(t, loaded.TurnHistory, TurnHistoryCap)
	assert.Len(t, loaded.ChatHistory, ChatHistoryCap)
}

func TestFileStore_LoadNoSave(t *testing.T) {
	store := newTestFileStore(t)
	_, err := store.Load(context.Background())
	assert.ErrorIs(t, err, ErrNoSave)
}

func TestFileStore_LoadCorruptedClearsSave(t *testing.T) {
	ctx := context.Background()
	store := newTestFileStore(t)

	require.NoError(t, os.MkdirAll(filepath.Dir(store.path), 0o755))
	require.NoError(t, os.WriteFile(store.path, []byte("{{ not json"), 0o644))

	_, err := store.Load(ctx)
	assert.ErrorIs(t, err, ErrNoSave)

	exists, err := store.Exists(ctx)
	require.NoError(t, err)
	assert.False(t, exists, "corrupted save should have been removed")
}

func TestFileStore_LoadMigratesLegacySave(t *testing.T) {
	ctx := context.Background()
	store := newTestFileStore(t)

	legacy := `{"gameState":{"version":1,"player":{"harem":{"membros":["npc_1"]}}},"turnHistory":[],"chatHistory":[]}`
	require.NoError(t, os.MkdirAll(filepath.Dir(store.path), 0o755))
	require.NoError(t, os.WriteFile(store.path, []byte(legacy), 0o644))

	loaded, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, state.CurrentVersion, loaded.GameState.Version)
	assert.Equal(t, []string{"npc_1"}, loaded.GameState.Player.CirculoIntimo.Membros)
}

func TestFileStore_DeleteAndExists(t *testing.T) {
	ctx := context.Background()
	store := newTestFileStore(t)

	exists, err := store.Exists(ctx)
	require.NoError(t, err)
	assert.False(t, exists)

	require.NoError(t, store.Save(ctx, testSnapshot(1, 1)))

	exists, err = store.Exists(ctx)
	require.NoError(t, err)
	assert.True(t, exists)

	require.NoError(t, store.Delete(ctx))

	exists, err = store.Exists(ctx)
	require.NoError(t, err)
	assert.False(t, exists)

	// Deleting an absent save is not an error.
	assert.NoError(t, store.Delete(ctx))
}

func TestFileStore_SaveSurvivesOverwrite(t *testing.T) {
	ctx := context.Background()
	store := newTestFileStore(t)

	first := testSnapshot(2, 2)
	first.GameState.Player.Nome = "Primeiro"
	require.NoError(t, store.Save(ctx, first))

	second := testSnapshot(2, 2)
	second.GameState.Player.Nome = "Segundo"
	require.NoError(t, store.Save(ctx, second))

	loaded, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Segundo", loaded.GameState.Player.Nome)
}

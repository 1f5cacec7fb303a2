package persist

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/valmeida/aetria/pkg/state"
)

func TestExportImport_RoundTrip(t *testing.T) {
	snap := testSnapshot(6, 8)
	snap.GameState.Player.Nome = "Aria"
	snap.GameState.Flags["porto_visitado"] = true

	var buf bytes.Buffer
	require.NoError(t, Export(&buf, snap))

	imported, err := Import(&buf)
	require.NoError(t, err)
	assert.Equal(t, "Aria", imported.GameState.Player.Nome)
	assert.True(t, imported.GameState.Flags["porto_visitado"])
	assert.Len(t, imported.TurnHistory, 6)
	assert.Len(t, imported.ChatHistory, 8)
}

func TestExport_NotBounded(t *testing.T) {
	snap := testSnapshot(TurnHistoryCap+20, ChatHistoryCap+10)

	var buf bytes.Buffer
	require.NoError(t, Export(&buf, snap))

	imported, err := Import(&buf)
	require.NoError(t, err)
	assert.Len(t, imported.TurnHistory, TurnHistoryCap+20)
	assert.Len(t, imported.ChatHistory, ChatHistoryCap+10)
}

func TestImport_RejectsInvalid(t *testing.T) {
	cases := []struct {
		name  string
		input string
	}{
		{"not json", "not json at all"},
		{"missing gameState", `{"turnHistory":[],"chatHistory":[]}`},
		{"missing turnHistory", `{"gameState":{},"chatHistory":[]}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Import(strings.NewReader(tc.input))
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidSnapshot)
		})
	}
}

func TestImport_MigratesLegacyExport(t *testing.T) {
	legacy := `{
		"gameState": {"version": 1, "player": {"harem": {"membros": ["npc_1"]}}},
		"turnHistory": [],
		"chatHistory": []
	}`
	imported, err := Import(strings.NewReader(legacy))
	require.NoError(t, err)
	assert.Equal(t, state.CurrentVersion, imported.GameState.Version)
	assert.Equal(t, []string{"npc_1"}, imported.GameState.Player.CirculoIntimo.Membros)
}

package app

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/valmeida/aetria/internal/persist"
	"github.com/valmeida/aetria/internal/services"
	"github.com/valmeida/aetria/internal/turn"
	"github.com/valmeida/aetria/pkg/chat"
	"github.com/valmeida/aetria/pkg/state"
)

// memStore is an in-memory SaveStore with injectable failures.
type memStore struct {
	mu        sync.Mutex
	snap      *persist.Snapshot
	saveErr   error
	saveCalls int
}

func (m *memStore) Save(ctx context.Context, snap persist.Snapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saveCalls++
	if m.saveErr != nil {
		return m.saveErr
	}
	bounded := persist.Bounded(snap)
	m.snap = &bounded
	return nil
}

func (m *memStore) Load(ctx context.Context) (*persist.Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.snap == nil {
		return nil, persist.ErrNoSave
	}
	return m.snap, nil
}

func (m *memStore) Delete(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.snap = nil
	return nil
}

func (m *memStore) Exists(ctx context.Context) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snap != nil, nil
}

func (m *memStore) Ping(ctx context.Context) error { return nil }
func (m *memStore) Close() error                   { return nil }

func (m *memStore) calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saveCalls
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func replyWith(narrative string, gs *state.GameState) string {
	data, err := json.Marshal(gs)
	if err != nil {
		panic(err)
	}
	return fmt.Sprintf("%s\n\n```json\n%s\n```", narrative, data)
}

func instantExecutor(llm services.LLMService) *turn.Executor {
	p := turn.DefaultRetryPolicy()
	p.InitialBackoff = 0
	return turn.NewExecutor(llm, nil, testLogger()).WithRetryPolicy(p)
}

// newPlayingController fast-forwards a controller into the Playing
// phase with one committed opening turn.
func newPlayingController(t *testing.T, llm *services.MockLLMService, store persist.SaveStore) *Controller {
	t.Helper()
	c := NewController(instantExecutor(llm), store, testLogger())

	// Echo the created character back, as the game master would.
	opening := state.Default()
	opening.Player.Nome = "Kael"
	llm.GenerateTurnFunc = func(ctx context.Context, messages []chat.Message) (string, error) {
		return replyWith("A aventura começa.", opening), nil
	}

	_, err := c.Start(context.Background())
	require.NoError(t, err)
	require.NoError(t, c.NewGame(context.Background()))
	require.NoError(t, c.FinishCreation(context.Background(), CreationData{
		Nome:   "Kael",
		Idade:  19,
		Origem: "plebeu",
		Atributos: state.Attributes{
			Forca: 100, Agilidade: 100, Vigor: 100, Inteligencia: 100, Vontade: 100,
			Percepcao: 100, Carisma: 100, Sorte: 100, Tecnica: 100, Afinidade: 100,
		},
	}))
	return c
}

func drainNotices(c *Controller) []string {
	var out []string
	for {
		select {
		case msg := <-c.Notices():
			out = append(out, msg)
		default:
			return out
		}
	}
}

func TestController_Lifecycle(t *testing.T) {
	llm := services.NewMockLLMService()
	store := &memStore{}
	c := NewController(instantExecutor(llm), store, testLogger())

	assert.Equal(t, PhaseLoading, c.Phase())

	hasSave, err := c.Start(context.Background())
	require.NoError(t, err)
	assert.False(t, hasSave)
	assert.Equal(t, PhaseStartScreen, c.Phase())

	require.NoError(t, c.NewGame(context.Background()))
	assert.Equal(t, PhaseCreation, c.Phase())
	assert.Nil(t, c.GameState())

	require.NoError(t, c.FinishCreation(context.Background(), CreationData{
		Nome:   "Aria",
		Idade:  22,
		Origem: "nobreza_menor",
		Atributos: state.Attributes{
			Forca: 80, Agilidade: 80, Vigor: 120, Inteligencia: 100, Vontade: 120,
			Percepcao: 100, Carisma: 100, Sorte: 100, Tecnica: 100, Afinidade: 100,
		},
	}))
	assert.Equal(t, PhasePlaying, c.Phase())

	// The synthetic opening turn went through the executor.
	require.Equal(t, 1, llm.CallCount())
	opening := llm.GenerateTurnCalls[0]
	assert.Contains(t, opening[len(opening)-1].Content, firstAction)

	// Creation data landed in the snapshot sent out, with derived
	// pools computed from the chosen attributes.
	assert.Contains(t, opening[len(opening)-1].Content, "Aria")
	assert.Contains(t, opening[len(opening)-1].Content, fmt.Sprintf(`"HP_max": %d`, 120*7))

	assert.Len(t, c.TurnHistory(), 1)
	assert.Len(t, c.ChatHistory(), 2)
}

func TestController_SendInputCommits(t *testing.T) {
	llm := services.NewMockLLMService()
	next := state.Default()
	next.Player.Nome = "Kael"
	next.Time.Dia = 3
	c := newPlayingController(t, llm, &memStore{})
	llm.GenerateTurnFunc = func(ctx context.Context, messages []chat.Message) (string, error) {
		return replyWith("A estrada segue para o norte.", next), nil
	}
	require.NoError(t, c.SendInput(context.Background(), "Seguir a estrada"))

	gs := c.GameState()
	assert.Equal(t, 3, gs.Time.Dia)

	turns := c.TurnHistory()
	require.Len(t, turns, 2)
	assert.Equal(t, "A estrada segue para o norte.", turns[1].Narrative)

	log := c.ChatHistory()
	require.Len(t, log, 4)
	assert.Equal(t, "Seguir a estrada", log[2].Content)
	assert.Equal(t, chat.RoleModel, log[3].Role)
}

func TestController_FailedTurnLeavesTripleUntouched(t *testing.T) {
	llm := services.NewMockLLMService()
	c := newPlayingController(t, llm, &memStore{})

	before, err := json.Marshal(c.GameState())
	require.NoError(t, err)
	turnsBefore := len(c.TurnHistory())
	chatBefore := len(c.ChatHistory())
	drainNotices(c)

	for name, fn := range map[string]func(ctx context.Context, messages []chat.Message) (string, error){
		"service error": func(ctx context.Context, messages []chat.Message) (string, error) {
			return "", services.ErrContentBlocked
		},
		"no state block": func(ctx context.Context, messages []chat.Message) (string, error) {
			return "Narrativa sem estado.", nil
		},
	} {
		t.Run(name, func(t *testing.T) {
			llm.GenerateTurnFunc = fn
			err := c.SendInput(context.Background(), "agir")
			require.Error(t, err)

			after, err2 := json.Marshal(c.GameState())
			require.NoError(t, err2)
			assert.JSONEq(t, string(before), string(after))
			assert.Len(t, c.TurnHistory(), turnsBefore)
			assert.Len(t, c.ChatHistory(), chatBefore)
			assert.False(t, c.Busy())
			assert.NotEmpty(t, drainNotices(c))
		})
	}
}

func TestController_ConcurrentInputDropped(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})
	llm := services.NewMockLLMService()
	llm.GenerateTurnFunc = func(ctx context.Context, messages []chat.Message) (string, error) {
		select {
		case <-started:
		default:
			close(started)
		}
		<-release
		return replyWith("ok", state.Default()), nil
	}

	cSlow := NewController(instantExecutor(llm), &memStore{}, testLogger())
	cSlow.mu.Lock()
	cSlow.gs = state.Default()
	cSlow.turns = []state.Turn{}
	cSlow.chatLog = []chat.Message{}
	cSlow.phase = PhasePlaying
	cSlow.mu.Unlock()

	done := make(chan error, 1)
	go func() {
		done <- cSlow.SendInput(context.Background(), "primeira ação")
	}()

	<-started
	assert.True(t, cSlow.Busy())
	err := cSlow.SendInput(context.Background(), "segunda ação")
	assert.ErrorIs(t, err, ErrTurnInFlight)

	close(release)
	require.NoError(t, <-done)
	assert.False(t, cSlow.Busy())

	// Only the first action resolved.
	assert.Len(t, cSlow.TurnHistory(), 1)
}

func TestController_AutosaveGating(t *testing.T) {
	cases := []struct {
		name     string
		autosave bool
		emit     bool
		saved    bool
	}{
		{"both set", true, true, true},
		{"setting off", false, true, false},
		{"no emit signal", true, false, false},
		{"neither", false, false, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			next := state.Default()
			next.UI.Settings.Autosave = tc.autosave
			next.UI.Intents.EmitStateChanged = tc.emit

			llm := services.NewMockLLMService()
			store := &memStore{}
			c := newPlayingController(t, llm, store)
			base := store.calls()

			llm.GenerateTurnFunc = func(ctx context.Context, messages []chat.Message) (string, error) {
				return replyWith("ok", next), nil
			}
			require.NoError(t, c.SendInput(context.Background(), "agir"))

			if tc.saved {
				assert.Equal(t, base+1, store.calls())
			} else {
				assert.Equal(t, base, store.calls())
			}

			// Manual save works regardless of the gate.
			require.NoError(t, c.Save(context.Background()))
		})
	}
}

func TestController_StorageQuota(t *testing.T) {
	llm := services.NewMockLLMService()
	store := &memStore{}
	c := newPlayingController(t, llm, store)
	drainNotices(c)

	store.saveErr = fmt.Errorf("%w: disk full", persist.ErrStorageQuota)
	err := c.Save(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, persist.ErrStorageQuota)

	notices := drainNotices(c)
	require.NotEmpty(t, notices)
	assert.Contains(t, notices[0], "armazenamento")

	// The game stays fully playable.
	store.saveErr = nil
	require.NoError(t, c.SendInput(context.Background(), "continuar jogando"))
	assert.Len(t, c.TurnHistory(), 2)
}

func TestController_CommittedToastSurfaces(t *testing.T) {
	next := state.Default()
	msg := "Quest atualizada!"
	next.UI.Toast = &msg

	llm := services.NewMockLLMService()
	c := newPlayingController(t, llm, &memStore{})
	drainNotices(c)

	llm.GenerateTurnFunc = func(ctx context.Context, messages []chat.Message) (string, error) {
		return replyWith("ok", next), nil
	}
	require.NoError(t, c.SendInput(context.Background(), "agir"))
	assert.Contains(t, drainNotices(c), "Quest atualizada!")
}

func TestController_SaveAndLoad(t *testing.T) {
	llm := services.NewMockLLMService()
	store := &memStore{}
	c := newPlayingController(t, llm, store)
	require.NoError(t, c.Save(context.Background()))

	c2 := NewController(instantExecutor(llm), store, testLogger())
	hasSave, err := c2.Start(context.Background())
	require.NoError(t, err)
	assert.True(t, hasSave)

	require.NoError(t, c2.LoadSave(context.Background()))
	assert.Equal(t, PhasePlaying, c2.Phase())
	assert.Equal(t, "Kael", c2.GameState().Player.Nome)
	assert.Len(t, c2.TurnHistory(), 1)
}

func TestController_LoadWithoutSave(t *testing.T) {
	c := NewController(instantExecutor(services.NewMockLLMService()), &memStore{}, testLogger())
	_, err := c.Start(context.Background())
	require.NoError(t, err)

	err = c.LoadSave(context.Background())
	assert.ErrorIs(t, err, persist.ErrNoSave)
	assert.Contains(t, drainNotices(c), "Nenhum jogo salvo encontrado.")
}

func TestController_ExportImport(t *testing.T) {
	llm := services.NewMockLLMService()
	store := &memStore{}
	c := newPlayingController(t, llm, store)

	var buf bytes.Buffer
	require.NoError(t, c.Export(&buf))

	c2 := NewController(instantExecutor(llm), &memStore{}, testLogger())
	_, err := c2.Start(context.Background())
	require.NoError(t, err)
	require.NoError(t, c2.Import(context.Background(), &buf))

	assert.Equal(t, PhasePlaying, c2.Phase())
	assert.Equal(t, "Kael", c2.GameState().Player.Nome)
	assert.Len(t, c2.TurnHistory(), 1)
	assert.Len(t, c2.ChatHistory(), 2)
}

func TestController_ImportInvalidLeavesGameAlone(t *testing.T) {
	llm := services.NewMockLLMService()
	c := newPlayingController(t, llm, &memStore{})
	drainNotices(c)

	err := c.Import(context.Background(), strings.NewReader(`{"chatHistory":[]}`))
	require.Error(t, err)
	assert.ErrorIs(t, err, persist.ErrInvalidSnapshot)
	assert.Contains(t, drainNotices(c), "Arquivo de jogo inválido.")
	assert.Equal(t, "Kael", c.GameState().Player.Nome)
}

func TestController_ExportFilename(t *testing.T) {
	llm := services.NewMockLLMService()
	c := newPlayingController(t, llm, &memStore{})

	name := c.ExportFilename()
	assert.True(t, strings.HasPrefix(name, "aetria-save-Kael-"), name)
	assert.True(t, strings.HasSuffix(name, ".json"), name)
}

func TestController_ToggleAutosave(t *testing.T) {
	llm := services.NewMockLLMService()
	c := newPlayingController(t, llm, &memStore{})

	// Autosave starts on; the toggle asks the game master to turn it
	// off and the echoed state reflects that.
	require.True(t, c.GameState().UI.Settings.Autosave)

	echo := state.Default()
	echo.UI.Settings.Autosave = false
	llm.GenerateTurnFunc = func(ctx context.Context, messages []chat.Message) (string, error) {
		return replyWith("Autosave desativado.", echo), nil
	}
	require.NoError(t, c.ToggleAutosave(context.Background()))

	// The toggle went through the game master as a command turn.
	last := llm.GenerateTurnCalls[llm.CallCount()-1]
	assert.Contains(t, last[len(last)-1].Content, "autosave desativado")
	assert.False(t, c.GameState().UI.Settings.Autosave)
}

func TestController_NoticesNeverBlock(t *testing.T) {
	c := NewController(instantExecutor(services.NewMockLLMService()), &memStore{}, testLogger())
	for i := 0; i < 100; i++ {
		c.notify("mensagem")
	}
	// Channel capacity exceeded without deadlock; extras were dropped.
	assert.NotEmpty(t, drainNotices(c))
}

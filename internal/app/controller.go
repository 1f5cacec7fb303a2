// Package app owns the canonical in-memory game: the current state,
// the turn history and the chat transcript. Every mutation goes through
// the Controller, which sequences the turn pipeline and the persistence
// layer and guarantees that a turn's effects land together or not at
// all.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/valmeida/aetria/internal/persist"
	"github.com/valmeida/aetria/internal/services"
	"github.com/valmeida/aetria/internal/turn"
	"github.com/valmeida/aetria/pkg/chat"
	"github.com/valmeida/aetria/pkg/state"
)

// Phase is the controller's coarse lifecycle state.
type Phase string

const (
	PhaseLoading     Phase = "loading"
	PhaseStartScreen Phase = "start_screen"
	PhaseCreation    Phase = "creation"
	PhasePlaying     Phase = "playing"
)

// firstAction is the synthetic opening turn issued right after
// character creation.
const firstAction = "Começar o jogo."

var (
	// ErrTurnInFlight is returned when input arrives while a previous
	// turn is still resolving. The input is dropped, not queued.
	ErrTurnInFlight = errors.New("a turn is already in flight")

	// ErrWrongPhase marks an operation invoked outside its phase.
	ErrWrongPhase = errors.New("operation not available in this phase")
)

// CreationData is what the player chooses on the creation screen.
type CreationData struct {
	Nome      string
	Idade     int
	Origem    string
	Atributos state.Attributes
}

// Controller is the single owner of the canonical triple. All methods
// are safe for concurrent use; at most one turn resolves at a time.
type Controller struct {
	mu      sync.Mutex
	phase   Phase
	busy    bool
	gs      *state.GameState
	turns   []state.Turn
	chatLog []chat.Message

	exec    *turn.Executor
	store   persist.SaveStore
	logger  *slog.Logger
	notices chan string
}

// NewController wires the turn executor and the save store together.
func NewController(exec *turn.Executor, store persist.SaveStore, logger *slog.Logger) *Controller {
	return &Controller{
		phase:   PhaseLoading,
		exec:    exec,
		store:   store,
		logger:  logger,
		notices: make(chan string, 16),
	}
}

// Start probes for an existing save and lands on the start screen.
// It returns whether a continue option should be offered.
func (c *Controller) Start(ctx context.Context) (bool, error) {
	hasSave, err := c.store.Exists(ctx)
	if err != nil {
		c.logger.Warn("Save probe failed", "error", err)
		hasSave = false
	}

	c.mu.Lock()
	c.phase = PhaseStartScreen
	c.mu.Unlock()
	return hasSave, nil
}

// Notices is the transient user-notification channel. Messages are
// non-blocking and dropped when nobody reads fast enough.
func (c *Controller) Notices() <-chan string {
	return c.notices
}

// Phase returns the current lifecycle phase.
func (c *Controller) Phase() Phase {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.phase
}

// Busy reports whether a turn is in flight.
func (c *Controller) Busy() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.busy
}

// GameState returns a deep copy of the current state, or nil before a
// game exists. Callers never see partially-applied mutations.
func (c *Controller) GameState() *state.GameState {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.gs == nil {
		return nil
	}
	return c.gs.DeepCopy()
}

// TurnHistory returns a copy of the committed turn log.
func (c *Controller) TurnHistory() []state.Turn {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]state.Turn, len(c.turns))
	copy(out, c.turns)
	return out
}

// ChatHistory returns a copy of the rolling transcript.
func (c *Controller) ChatHistory() []chat.Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]chat.Message, len(c.chatLog))
	copy(out, c.chatLog)
	return out
}

// NewGame discards the persisted save and the in-memory triple and
// moves to character creation.
func (c *Controller) NewGame(ctx context.Context) error {
	c.mu.Lock()
	if c.busy {
		c.mu.Unlock()
		return ErrTurnInFlight
	}
	c.gs = nil
	c.turns = nil
	c.chatLog = nil
	c.phase = PhaseCreation
	c.mu.Unlock()

	if err := c.store.Delete(ctx); err != nil {
		c.logger.Warn("Failed to clear save on new game", "error", err)
	}
	return nil
}

// FinishCreation builds the initial state from the chosen character,
// computes the derived resource pools and issues the synthetic opening
// turn.
func (c *Controller) FinishCreation(ctx context.Context, data CreationData) error {
	c.mu.Lock()
	if c.phase != PhaseCreation {
		c.mu.Unlock()
		return fmt.Errorf("%w: finish creation from %s", ErrWrongPhase, c.phase)
	}
	if c.busy {
		c.mu.Unlock()
		return ErrTurnInFlight
	}

	gs := state.Default()
	gs.Seed = state.NewSeed()
	gs.Player.Nome = data.Nome
	gs.Player.Idade = data.Idade
	gs.Player.Origem = data.Origem
	gs.Player.Atributos = data.Atributos
	gs.Player.ApplyDerived()

	c.gs = gs
	c.turns = []state.Turn{}
	c.chatLog = []chat.Message{}
	c.phase = PhasePlaying
	c.mu.Unlock()

	return c.SendInput(ctx, firstAction)
}

// SendInput resolves one player action. While a turn is in flight,
// further input is rejected with ErrTurnInFlight. On failure the triple
// is untouched and the player gets a notice; on success state, history,
// transcript and the conditional autosave commit together.
func (c *Controller) SendInput(ctx context.Context, text string) error {
	c.mu.Lock()
	if c.phase != PhasePlaying || c.gs == nil {
		c.mu.Unlock()
		return fmt.Errorf("%w: send input from %s", ErrWrongPhase, c.phase)
	}
	if c.busy {
		c.mu.Unlock()
		return ErrTurnInFlight
	}
	c.busy = true
	base := c.gs
	transcript := make([]chat.Message, len(c.chatLog))
	copy(transcript, c.chatLog)
	c.mu.Unlock()

	res, err := c.exec.Run(ctx, text, base, transcript)

	c.mu.Lock()
	c.busy = false
	if err != nil {
		c.mu.Unlock()
		c.logger.Warn("Turn failed", "error", err)
		c.notify(userMessage(err))
		return err
	}

	c.gs = res.Turn.State
	c.turns = append(c.turns, res.Turn)
	c.chatLog = append(c.chatLog, res.UserEntry, res.ModelEntry)
	autosave := c.gs.UI.Settings.Autosave && c.gs.UI.Intents.EmitStateChanged
	toast := c.gs.UI.Toast
	c.mu.Unlock()

	if toast != nil && *toast != "" {
		c.notify(*toast)
	}
	if autosave {
		if err := c.Save(ctx); err != nil {
			// Already notified inside Save; the turn stands.
			c.logger.Warn("Autosave failed", "error", err)
		}
	}
	return nil
}

// Save writes the current triple to the store. Manual saves are always
// available; failures never touch the in-memory game.
func (c *Controller) Save(ctx context.Context) error {
	c.mu.Lock()
	if c.gs == nil {
		c.mu.Unlock()
		return fmt.Errorf("%w: nothing to save", ErrWrongPhase)
	}
	snap := persist.Snapshot{
		GameState:   c.gs,
		TurnHistory: c.turns,
		ChatHistory: c.chatLog,
	}
	c.mu.Unlock()

	if err := c.store.Save(ctx, snap); err != nil {
		c.notify(userMessage(err))
		return err
	}
	return nil
}

// LoadSave replaces the in-memory triple with the persisted one and
// enters play.
func (c *Controller) LoadSave(ctx context.Context) error {
	c.mu.Lock()
	if c.busy {
		c.mu.Unlock()
		return ErrTurnInFlight
	}
	c.mu.Unlock()

	snap, err := c.store.Load(ctx)
	if err != nil {
		if errors.Is(err, persist.ErrNoSave) {
			c.notify("Nenhum jogo salvo encontrado.")
		} else {
			c.notify(userMessage(err))
		}
		return err
	}

	c.mu.Lock()
	c.gs = snap.GameState
	c.turns = snap.TurnHistory
	c.chatLog = snap.ChatHistory
	c.phase = PhasePlaying
	c.mu.Unlock()
	return nil
}

// Export writes the full, unbounded triple to w.
func (c *Controller) Export(w io.Writer) error {
	c.mu.Lock()
	if c.gs == nil {
		c.mu.Unlock()
		return fmt.Errorf("%w: nothing to export", ErrWrongPhase)
	}
	snap := persist.Snapshot{
		GameState:   c.gs,
		TurnHistory: c.turns,
		ChatHistory: c.chatLog,
	}
	c.mu.Unlock()

	return persist.Export(w, snap)
}

// ExportFilename suggests a name for the export file.
func (c *Controller) ExportFilename() string {
	name := "jogo"
	c.mu.Lock()
	if c.gs != nil && c.gs.Player.Nome != "" {
		name = c.gs.Player.Nome
	}
	c.mu.Unlock()
	return fmt.Sprintf("aetria-save-%s-%d.json", name, time.Now().Unix())
}

// Import replaces the triple with a user-provided export file, persists
// it and enters play. An invalid file leaves the current game alone.
func (c *Controller) Import(ctx context.Context, r io.Reader) error {
	c.mu.Lock()
	if c.busy {
		c.mu.Unlock()
		return ErrTurnInFlight
	}
	c.mu.Unlock()

	snap, err := persist.Import(r)
	if err != nil {
		c.notify("Arquivo de jogo inválido.")
		return err
	}

	c.mu.Lock()
	c.gs = snap.GameState
	c.turns = snap.TurnHistory
	c.chatLog = snap.ChatHistory
	c.phase = PhasePlaying
	c.mu.Unlock()

	if err := c.Save(ctx); err != nil {
		c.logger.Warn("Failed to persist imported game", "error", err)
	}
	return nil
}

// ToggleAutosave flips the setting through the game master so the next
// state echoes it back, keeping the model authoritative over the ui
// sub-document.
func (c *Controller) ToggleAutosave(ctx context.Context) error {
	c.mu.Lock()
	if c.gs == nil {
		c.mu.Unlock()
		return fmt.Errorf("%w: no game in progress", ErrWrongPhase)
	}
	target := !c.gs.UI.Settings.Autosave
	c.mu.Unlock()

	word := "desativado"
	if target {
		word = "ativado"
	}
	return c.SendInput(ctx, fmt.Sprintf("Comando do sistema: autosave %s. Defina ui.settings.autosave e confirme em uma frase.", word))
}

// notify pushes a transient message, dropping it if nobody is reading.
func (c *Controller) notify(msg string) {
	select {
	case c.notices <- msg:
	default:
	}
}

// userMessage maps pipeline errors onto the player-facing wording.
func userMessage(err error) string {
	switch {
	case errors.Is(err, services.ErrQuotaExhausted):
		return "Cota da API esgotada. Verifique seu plano e tente mais tarde."
	case errors.Is(err, services.ErrContentBlocked):
		return "A resposta foi bloqueada pelos filtros de segurança. Tente reformular a ação."
	case errors.Is(err, services.ErrOverloaded):
		return "O serviço está sobrecarregado. Tente novamente em instantes."
	case errors.Is(err, turn.ErrMalformedResponse):
		return "A resposta da IA veio malformada e o turno foi descartado. Tente novamente."
	case errors.Is(err, persist.ErrStorageQuota):
		return "Espaço de armazenamento esgotado. O jogo continua, mas não foi salvo."
	default:
		return "Algo deu errado. Tente novamente."
	}
}

package prompts

import (
	"encoding/json"
	"fmt"

	"github.com/valmeida/aetria/pkg/chat"
	"github.com/valmeida/aetria/pkg/state"
)

// DefaultHistoryLimit bounds the rolling transcript replayed to the game
// master. The full state snapshot travels separately inside the user
// message, so the window can stay small.
const DefaultHistoryLimit = 20

// Builder constructs the outbound message list for one turn using a
// fluent interface. It separates context assembly from game state
// ownership: the builder never mutates what it is given.
type Builder struct {
	gs           *state.GameState
	transcript   []chat.Message
	action       string
	historyLimit int
	system       string
}

// New creates a builder with the fixed system instruction and default
// history window.
func New() *Builder {
	return &Builder{
		historyLimit: DefaultHistoryLimit,
		system:       GameMasterPrompt,
	}
}

// WithGameState sets the snapshot serialized into the user message.
func (b *Builder) WithGameState(gs *state.GameState) *Builder {
	b.gs = gs
	return b
}

// WithTranscript sets the rolling conversation history.
func (b *Builder) WithTranscript(transcript []chat.Message) *Builder {
	b.transcript = transcript
	return b
}

// WithAction sets the player's raw text action.
func (b *Builder) WithAction(action string) *Builder {
	b.action = action
	return b
}

// WithHistoryLimit overrides the transcript window size.
func (b *Builder) WithHistoryLimit(limit int) *Builder {
	b.historyLimit = limit
	return b
}

// Build assembles the final message list: system instruction, windowed
// transcript, then the action formatted together with the serialized
// state snapshot.
func (b *Builder) Build() ([]chat.Message, error) {
	if b.gs == nil {
		return nil, fmt.Errorf("game state is required")
	}
	if b.action == "" {
		return nil, fmt.Errorf("player action is required")
	}

	snapshot, err := json.MarshalIndent(b.gs, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to serialize game state: %w", err)
	}

	messages := make([]chat.Message, 0, b.historyLimit+2)
	messages = append(messages, chat.Message{
		Role:    chat.RoleSystem,
		Content: b.system,
	})
	messages = append(messages, chat.Window(b.transcript, b.historyLimit)...)
	messages = append(messages, chat.Message{
		Role:    chat.RoleUser,
		Content: FormatAction(b.action, snapshot),
	})
	return messages, nil
}

// FormatAction pairs the player's action with the full state snapshot
// for this turn. Only the short action text later enters the rolling
// transcript; the snapshot is out-of-band context.
func FormatAction(action string, snapshot []byte) string {
	return fmt.Sprintf("AÇÃO DO JOGADOR: %q\n\nESTADO ATUAL DO JOGO PARA ESTE TURNO:\n```json\n%s\n```\n", action, snapshot)
}

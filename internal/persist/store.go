// Package persist moves the (state, history, chat-log) triple between
// memory and durable storage, and between memory and user-exchanged
// files.
package persist

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/valmeida/aetria/pkg/chat"
	"github.com/valmeida/aetria/pkg/state"
)

// Truncation bounds applied at the persistence boundary. These are
// policy constants, not part of the save schema: the in-memory copies
// keep growing for display, only the persisted view is bounded.
const (
	TurnHistoryCap = 40
	ChatHistoryCap = 20
)

// SaveKey is the well-known slot name, versioned with the schema.
const SaveKey = "aetria:save:v3"

var (
	// ErrStorageQuota marks a save rejected for lack of space. It is
	// reported distinctly because gameplay continues unaffected; only
	// persistence is degraded.
	ErrStorageQuota = errors.New("storage quota exceeded")

	// ErrNoSave means no usable save exists: either nothing was ever
	// written or the persisted document could not be parsed and was
	// cleared.
	ErrNoSave = errors.New("no usable save")

	// ErrInvalidSnapshot marks an import file missing the required
	// gameState or turnHistory members.
	ErrInvalidSnapshot = errors.New("invalid save file")
)

// Snapshot is the persisted triple.
type Snapshot struct {
	GameState   *state.GameState `json:"gameState"`
	TurnHistory []state.Turn     `json:"turnHistory"`
	ChatHistory []chat.Message   `json:"chatHistory"`
}

// SaveStore is one durable slot for a Snapshot.
type SaveStore interface {
	// Save writes the bounded view of the snapshot as one atomic
	// document. Quota failures are reported as ErrStorageQuota.
	Save(ctx context.Context, snap Snapshot) error

	// Load reads and migrates the stored snapshot. A missing or
	// corrupted document yields ErrNoSave; corruption also clears the
	// entry.
	Load(ctx context.Context) (*Snapshot, error)

	// Delete removes the stored snapshot, if any.
	Delete(ctx context.Context) error

	// Exists reports whether a save is present without reading it.
	Exists(ctx context.Context) (bool, error)

	// Ping tests the store connection.
	Ping(ctx context.Context) error

	// Close releases the store.
	Close() error
}

// Bounded returns a copy of the snapshot with history and chat log
// truncated to the persistence caps, most recent entries kept in order.
// The input is not mutated.
func Bounded(snap Snapshot) Snapshot {
	out := snap
	if len(out.TurnHistory) > TurnHistoryCap {
		out.TurnHistory = out.TurnHistory[len(out.TurnHistory)-TurnHistoryCap:]
	}
	out.ChatHistory = chat.Window(out.ChatHistory, ChatHistoryCap)
	return out
}

// rawSnapshot defers member decoding so the game state can go through
// migration before it is typed.
type rawSnapshot struct {
	GameState   map[string]any `json:"gameState"`
	TurnHistory []state.Turn   `json:"turnHistory"`
	ChatHistory []chat.Message `json:"chatHistory"`
}

// decodeSnapshot parses a serialized snapshot, runs the stored game
// state through schema migration and returns the typed triple.
func decodeSnapshot(data []byte) (*Snapshot, error) {
	var raw rawSnapshot
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse snapshot: %w", err)
	}
	if raw.GameState == nil {
		return nil, fmt.Errorf("%w: missing gameState", ErrInvalidSnapshot)
	}

	gs, err := state.Decode(state.Upgrade(raw.GameState))
	if err != nil {
		return nil, fmt.Errorf("failed to decode migrated state: %w", err)
	}

	snap := &Snapshot{
		GameState:   gs,
		TurnHistory: raw.TurnHistory,
		ChatHistory: raw.ChatHistory,
	}
	if snap.TurnHistory == nil {
		snap.TurnHistory = []state.Turn{}
	}
	if snap.ChatHistory == nil {
		snap.ChatHistory = []chat.Message{}
	}
	return snap, nil
}

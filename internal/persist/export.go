package persist

import (
	"encoding/json"
	"fmt"
	"io"
)

// Export writes the full snapshot as indented JSON. Export is not
// bounded: the player gets everything that is in memory, not the
// truncated autosave form.
func Export(w io.Writer, snap Snapshot) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(snap); err != nil {
		return fmt.Errorf("failed to export snapshot: %w", err)
	}
	return nil
}

// Import reads a previously exported snapshot. The document must carry
// both a game state and a turn history to be accepted; the game state
// is migrated to the current schema on the way in.
func Import(r io.Reader) (*Snapshot, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read import: %w", err)
	}

	var raw rawSnapshot
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSnapshot, err)
	}
	if raw.GameState == nil {
		return nil, fmt.Errorf("%w: missing game state", ErrInvalidSnapshot)
	}
	if raw.TurnHistory == nil {
		return nil, fmt.Errorf("%w: missing turn history", ErrInvalidSnapshot)
	}

	snap, err := decodeSnapshot(data)
	if err != nil {
		return nil, err
	}
	return snap, nil
}

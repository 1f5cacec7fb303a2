package persist

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"syscall"
)

// FileStore is the default SaveStore: one JSON document at a well-known
// path. Writes go through a temp file and rename so a crash mid-write
// never corrupts the previous save.
type FileStore struct {
	path   string
	logger *slog.Logger
}

var _ SaveStore = (*FileStore)(nil)

// NewFileStore creates a file-backed store. The parent directory is
// created on first save.
func NewFileStore(path string, logger *slog.Logger) *FileStore {
	return &FileStore{path: path, logger: logger}
}

// DefaultSavePath is the store location under the user config dir.
func DefaultSavePath() string {
	base, err := os.UserConfigDir()
	if err != nil {
		base = "."
	}
	return filepath.Join(base, "aetria", SaveKey+".json")
}

func (f *FileStore) Save(ctx context.Context, snap Snapshot) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := json.Marshal(Bounded(snap))
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(f.path), 0o755); err != nil {
		return fmt.Errorf("failed to create save directory: %w", err)
	}

	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		_ = os.Remove(tmp)
		if isQuotaError(err) {
			return fmt.Errorf("%w: %v", ErrStorageQuota, err)
		}
		return fmt.Errorf("failed to write save: %w", err)
	}
	if err := os.Rename(tmp, f.path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("failed to commit save: %w", err)
	}

	f.logger.Debug("Save written", "path", f.path, "bytes", len(data))
	return nil
}

func (f *FileStore) Load(ctx context.Context) (*Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(f.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNoSave
		}
		return nil, fmt.Errorf("failed to read save: %w", err)
	}

	snap, err := decodeSnapshot(data)
	if err != nil {
		// A corrupted save would fail every future load the same way;
		// clear it so the start screen offers a clean slate.
		f.logger.Warn("Clearing corrupted save", "path", f.path, "error", err)
		_ = os.Remove(f.path)
		return nil, ErrNoSave
	}
	return snap, nil
}

func (f *FileStore) Delete(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.Remove(f.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to delete save: %w", err)
	}
	return nil
}

func (f *FileStore) Exists(ctx context.Context) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	_, err := os.Stat(f.path)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	return false, err
}

func (f *FileStore) Ping(ctx context.Context) error {
	return ctx.Err()
}

func (f *FileStore) Close() error {
	return nil
}

// isQuotaError reports whether a write failed for lack of space.
func isQuotaError(err error) bool {
	if errors.Is(err, syscall.ENOSPC) || errors.Is(err, syscall.EDQUOT) {
		return true
	}
	// Some filesystems surface quota failures as plain errors.
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "no space left") || strings.Contains(msg, "quota exceeded")
}

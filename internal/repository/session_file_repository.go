package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"
)

var errCorruptSession = errors.New("session file is not valid JSON")

// FileSessionRepository persists session entries as one JSON document.
// An undecodable file reads as an error but never blocks Set or Delete.
type FileSessionRepository struct {
	path   string
	logger *zap.Logger
	mu     sync.Mutex
}

// NewFileSessionRepository constructs a file backed session store at path.
func NewFileSessionRepository(path string, logger *zap.Logger) *FileSessionRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FileSessionRepository{path: path, logger: logger}
}

// Path returns the backing file location.
func (r *FileSessionRepository) Path() string {
	return r.path
}

// Get returns the stored value for key.
func (r *FileSessionRepository) Get(ctx context.Context, key string) (string, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	entries, err := r.read()
	if err != nil {
		return "", false, err
	}
	value, ok := entries[key]
	return value, ok, nil
}

// Set stores value under key, replacing the file atomically.
func (r *FileSessionRepository) Set(ctx context.Context, key, value string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	entries, err := r.readOrReset()
	if err != nil {
		return err
	}
	entries[key] = value
	return r.write(entries)
}

// Delete removes keys; the file is removed once empty.
func (r *FileSessionRepository) Delete(ctx context.Context, keys ...string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	entries, err := r.readOrReset()
	if err != nil {
		return err
	}
	for _, key := range keys {
		delete(entries, key)
	}
	if len(entries) == 0 {
		if err := os.Remove(r.path); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("remove session file: %w", err)
		}
		return nil
	}
	return r.write(entries)
}

func (r *FileSessionRepository) read() (map[string]string, error) {
	entries := make(map[string]string)
	raw, err := os.ReadFile(r.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return entries, nil
		}
		return nil, fmt.Errorf("read session file: %w", err)
	}
	if len(raw) == 0 {
		return entries, nil
	}
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, fmt.Errorf("decode session file %s: %w: %v", r.path, errCorruptSession, err)
	}
	return entries, nil
}

// readOrReset treats a corrupt file as empty so it gets replaced or removed.
func (r *FileSessionRepository) readOrReset() (map[string]string, error) {
	entries, err := r.read()
	if errors.Is(err, errCorruptSession) {
		r.logger.Warn("discarding unreadable session file", zap.String("path", r.path), zap.Error(err))
		return make(map[string]string), nil
	}
	return entries, err
}

func (r *FileSessionRepository) write(entries map[string]string) error {
	payload, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("encode session file: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(r.path), 0o700); err != nil {
		return fmt.Errorf("prepare session directory: %w", err)
	}
	tmp := r.path + ".tmp"
	if err := os.WriteFile(tmp, payload, 0o600); err != nil {
		return fmt.Errorf("write session file: %w", err)
	}
	if err := os.Rename(tmp, r.path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("replace session file: %w", err)
	}
	return nil
}

// Package eventlog persists the import audit trail as a single JSON array
// file. Appends are serialized read-modify-write operations so the file is
// never left partially written.
package eventlog

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/prodcat/backend/internal/domain"
)

// FileLog implements domain.EventLog on top of a JSON array file. A mutex
// serializes appends from concurrent imports to avoid lost updates.
type FileLog struct {
	path string
	mu   sync.Mutex
}

// NewFileLog creates a file-backed event log at path, creating the parent
// directory if needed.
func NewFileLog(path string) (*FileLog, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating event log directory: %w", err)
	}
	return &FileLog{path: path}, nil
}

// Append adds one entry to the log. The whole array is re-read and
// rewritten under the lock.
func (l *FileLog) Append(event string, details map[string]any) error {
	if details == nil {
		details = map[string]any{}
	}
	entry := domain.EventLogEntry{
		Timestamp: time.Now(),
		Event:     event,
		Details:   details,
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	entries, err := l.read()
	if err != nil {
		return err
	}
	entries = append(entries, entry)

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding event log: %w", err)
	}
	if err := os.WriteFile(l.path, data, 0o644); err != nil {
		return fmt.Errorf("writing event log: %w", err)
	}
	return nil
}

// Entries returns all logged entries in append order. A missing file is an
// empty log, not an error.
func (l *FileLog) Entries() ([]domain.EventLogEntry, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.read()
}

func (l *FileLog) read() ([]domain.EventLogEntry, error) {
	data, err := os.ReadFile(l.path)
	if errors.Is(err, fs.ErrNotExist) {
		return []domain.EventLogEntry{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading event log: %w", err)
	}

	var entries []domain.EventLogEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("decoding event log: %w", err)
	}
	return entries, nil
}

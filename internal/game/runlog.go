package game

import (
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Record describes one completed level.
type Record struct {
	Timestamp time.Time `json:"timestamp"`
	Player    string    `json:"player,omitempty"`
	Level     string    `json:"level"`
	Index     int       `json:"index"`
	Random    bool      `json:"random"`
	Moves     int       `json:"moves"`
	Undos     int       `json:"undos"`
	Seconds   float64   `json:"seconds"`
}

// ProgressLog appends records as JSON lines. Safe for concurrent use by
// several sessions.
type ProgressLog struct {
	mu     sync.Mutex
	path   string
	logger *slog.Logger
}

// NewProgressLog logs to progress.jsonl in the user's data directory.
func NewProgressLog(logger *slog.Logger) (*ProgressLog, error) {
	dir, err := progressDir()
	if err != nil {
		return nil, err
	}
	return OpenProgressLog(filepath.Join(dir, "progress.jsonl"), logger), nil
}

// OpenProgressLog logs to path. Nothing is touched until the first Append.
func OpenProgressLog(path string, logger *slog.Logger) *ProgressLog {
	if logger == nil {
		logger = slog.Default()
	}
	return &ProgressLog{path: path, logger: logger}
}

// Path returns the file records go to.
func (pl *ProgressLog) Path() string { return pl.path }

// Append writes rec as a single JSON line.
// Errors are logged but never interrupt play.
func (pl *ProgressLog) Append(rec Record) {
	pl.mu.Lock()
	defer pl.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(pl.path), 0o755); err != nil {
		pl.logger.Warn("progress log: cannot create data dir", "error", err)
		return
	}
	f, err := os.OpenFile(pl.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		pl.logger.Warn("progress log: cannot open file", "error", err)
		return
	}
	defer f.Close()
	data, err := json.Marshal(rec)
	if err != nil {
		pl.logger.Warn("progress log: cannot marshal JSON", "error", err)
		return
	}
	f.Write(append(data, '\n')) //nolint:errcheck
}

// progressDir returns the directory where progress is stored.
// Follows XDG Base Directory spec: $XDG_DATA_HOME/homebound,
// defaulting to ~/.local/share/homebound.
func progressDir() (string, error) {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		dataHome = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataHome, "homebound"), nil
}

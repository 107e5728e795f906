package ledger

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"go.uber.org/zap"
)

// FileStore persists the chain as one JSON document on local disk. Writes go
// through a temp file and an atomic rename, so a crash mid-save never leaves
// a half-written chain behind. When the document no longer parses, Load
// moves it aside to <path>.corrupt so the bytes stay available for
// inspection, then reports a *CorruptError.
type FileStore struct {
	path   string
	logger *zap.Logger
}

func NewFileStore(path string, logger *zap.Logger) *FileStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FileStore{path: path, logger: logger}
}

// Load implements Store.
func (s *FileStore) Load(_ context.Context) ([]Record, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNotExist
	}
	if err != nil {
		return nil, fmt.Errorf("read chain file: %w", err)
	}

	var recs []Record
	if err := json.Unmarshal(data, &recs); err != nil {
		quarantine := s.path + ".corrupt"
		if renameErr := os.Rename(s.path, quarantine); renameErr != nil {
			s.logger.Warn("could not quarantine corrupt chain file", zap.Error(renameErr))
		} else {
			s.logger.Warn("quarantined corrupt chain file", zap.String("to", quarantine))
		}
		return nil, &CorruptError{Source: s.path, Err: err}
	}
	return recs, nil
}

// Save implements Store.
func (s *FileStore) Save(_ context.Context, recs []Record) error {
	data, err := json.MarshalIndent(recs, "", "  ")
	if err != nil {
		return fmt.Errorf("encode chain: %w", err)
	}
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create chain directory: %w", err)
		}
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write chain file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace chain file: %w", err)
	}
	return nil
}

package storage

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"stockwatch/internal/stock"
	logx "stockwatch/pkg/logx"
)

// fileStore keeps the whole state in one JSON file.
//
// Saves go through a tmp file + rename so a crash mid-write leaves either
// the old state or the new one, never a torn file. (Rename atomicity is a
// filesystem property; on the platforms we deploy to it holds.)
type fileStore struct {
	log  logx.Logger
	mu   sync.Mutex
	path string
}

func openFile(cfg Config, log logx.Logger) (Store, error) {
	path := strings.TrimSpace(cfg.Path)
	if path == "" {
		return nil, errors.New("storage.path is required for file driver")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	return &fileStore{log: log, path: path}, nil
}

func (s *fileStore) Load(ctx context.Context) (*stock.State, error) {
	_ = ctx
	s.mu.Lock()
	defer s.mu.Unlock()

	b, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			s.log.Warn("state file unreadable; starting fresh", logx.String("path", s.path), logx.Err(err))
		}
		return nil, nil
	}

	var st stock.State
	if err := json.Unmarshal(b, &st); err != nil {
		s.log.Warn("state file corrupt; starting fresh", logx.String("path", s.path), logx.Err(err))
		return nil, nil
	}
	st.Normalize()
	return &st, nil
}

func (s *fileStore) Save(ctx context.Context, st *stock.State) error {
	_ = ctx
	s.mu.Lock()
	defer s.mu.Unlock()

	b, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return err
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, s.path)
}

func (s *fileStore) Close() error { return nil }

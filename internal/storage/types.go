package storage

import (
	"context"
	"time"

	"stockwatch/internal/stock"
)

// Config configures storage.
//
// Driver values:
//   - "file": single JSON file, atomic tmp+rename writes
//   - "sqlite": SQLite database file (single-row state table)
type Config struct {
	Driver      string
	Path        string
	BusyTimeout time.Duration // sqlite only; 0 means default
}

// Store is the held-state persistence API.
//
// Load returns (nil, nil) when there is no usable prior state; corruption is
// treated the same way (logged, not surfaced). Save failures are surfaced so
// callers can log them, but they are never fatal to a cycle.
type Store interface {
	Load(ctx context.Context) (*stock.State, error)
	Save(ctx context.Context, st *stock.State) error
	Close() error
}

package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stockwatch/internal/stock"
	logx "stockwatch/pkg/logx"
)

func TestOpenUnknownDriver(t *testing.T) {
	t.Parallel()
	_, err := Open(Config{Driver: "postgres", Path: "x"}, logx.Nop())
	require.Error(t, err)
}

func TestFileStoreRoundTrip(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "state.json")
	s, err := Open(Config{Driver: "file", Path: path}, logx.Nop())
	require.NoError(t, err)
	defer s.Close()

	ctx := context.Background()

	// Absent file reads as no state, not an error.
	st, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Nil(t, st)

	want := stock.NewState()
	want.Seeds = []stock.Item{{Name: "Cactus", Count: 4}}
	want.MessageID = "msg-1"
	require.NoError(t, s.Save(ctx, want))

	got, err := s.Load(ctx)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, want.Seeds, got.Seeds)
	assert.Equal(t, "msg-1", got.MessageID)
	assert.NotNil(t, got.Gear, "normalize must leave no nil slices")
}

func TestFileStoreCorruptFileStartsFresh(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "state.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	s, err := Open(Config{Path: path}, logx.Nop())
	require.NoError(t, err)
	defer s.Close()

	st, err := s.Load(context.Background())
	require.NoError(t, err)
	assert.Nil(t, st)
}

func TestSQLiteStoreRoundTrip(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "state.db")
	s, err := Open(Config{Driver: "sqlite", Path: path}, logx.Nop())
	require.NoError(t, err)
	defer s.Close()

	ctx := context.Background()

	st, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Nil(t, st)

	want := stock.NewState()
	want.Gear = []stock.Item{{Name: "Banana Gun", Count: 2}}
	require.NoError(t, s.Save(ctx, want))

	// Second save overwrites the single row.
	want.Gear = []stock.Item{{Name: "Banana Gun", Count: 7}}
	require.NoError(t, s.Save(ctx, want))

	got, err := s.Load(ctx)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, []stock.Item{{Name: "Banana Gun", Count: 7}}, got.Gear)
	assert.Empty(t, got.MessageID)
}

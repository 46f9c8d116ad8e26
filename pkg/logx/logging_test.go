package logx

import (
	"context"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

type nullSender struct{}

func (nullSender) SendText(ctx context.Context, text string) error { return nil }

func TestParseLevel(t *testing.T) {
	t.Parallel()
	assert.Equal(t, zerolog.DebugLevel, parseLevel("debug", zerolog.InfoLevel))
	assert.Equal(t, zerolog.WarnLevel, parseLevel("WARNING", zerolog.InfoLevel))
	assert.Equal(t, zerolog.InfoLevel, parseLevel("bogus", zerolog.InfoLevel))
	assert.Equal(t, zerolog.InfoLevel, parseLevel("  ", zerolog.InfoLevel))
}

func TestFormatWebhookJSON(t *testing.T) {
	t.Parallel()
	got := formatWebhookJSON([]byte(`{"level":"error","message":"publish failed","status":404}` + "\n"))
	assert.True(t, strings.HasPrefix(got, "[ERROR] publish failed"))
	assert.Contains(t, got, "status=404")
}

func TestFormatWebhookJSONNonJSON(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "plain line", formatWebhookJSON([]byte("  plain line \n")))
}

func TestTruncateCapsLength(t *testing.T) {
	t.Parallel()
	long := strings.Repeat("a", 3000)
	got := truncate(long, 1900)
	assert.Len(t, got, 1900)
	assert.True(t, strings.HasSuffix(got, "..."))
	assert.Equal(t, "short", truncate("short", 1900))
}

func TestWebhookWriterHonorsMinLevel(t *testing.T) {
	t.Parallel()
	s := &Service{whQueue: make(chan string, 4)}
	s.mu.Lock()
	s.sender = nullSender{}
	s.limiter = rate.NewLimiter(rate.Inf, 1)
	s.minLevel = zerolog.WarnLevel
	s.mu.Unlock()

	w := &webhookWriter{svc: s}

	line := []byte(`{"level":"info","message":"quiet"}`)
	_, err := w.WriteLevel(zerolog.InfoLevel, line)
	require.NoError(t, err)
	assert.Empty(t, s.whQueue)

	line = []byte(`{"level":"error","message":"loud"}`)
	_, err = w.WriteLevel(zerolog.ErrorLevel, line)
	require.NoError(t, err)
	require.Len(t, s.whQueue, 1)
	assert.Equal(t, "[ERROR] loud", <-s.whQueue)
}

func TestNopLoggerIsInert(t *testing.T) {
	t.Parallel()
	l := Nop()
	assert.False(t, l.IsZero())
	l.Error("nothing happens", String("k", "v"))

	var zero Logger
	assert.True(t, zero.IsZero())
	zero.Info("also nothing")
}

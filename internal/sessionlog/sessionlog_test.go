package sessionlog

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vburojevic/slotw/internal/domain"
)

func TestWriterAppendsDisplayLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "A_log_20250101_000000.log")
	w := New(path, 0, nil, nil)
	assert.Equal(t, path, w.Path())

	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err), "file is opened lazily")

	w.HandleEvent(domain.LogEvent{Kind: domain.KindPayment, Timestamp: "[10:00:00]", Content: "100円支払いました"})
	w.HandleEvent(domain.LogEvent{Kind: domain.KindLoss, Content: "[Man10Slot]外れました"})
	require.NoError(t, w.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "[10:00:00] 100円支払いました\n[Man10Slot]外れました\n", string(data))
	assert.Equal(t, 2, w.Lines())
}

func TestWriterAppendsToExistingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "A_log_20250101_000000.log")
	require.NoError(t, os.WriteFile(path, []byte("earlier\n"), 0o644))

	w := New(path, 1, nil, nil)
	w.HandleEvent(domain.LogEvent{Content: "later"})
	require.NoError(t, w.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "earlier\nlater\n", string(data))
}

func TestWriterReportsFailureOnce(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "not-a-dir")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))

	var reported []error
	w := New(filepath.Join(blocker, "A_log.log"), 0, func(err error) { reported = append(reported, err) }, nil)

	w.HandleEvent(domain.LogEvent{Content: "one"})
	w.HandleEvent(domain.LogEvent{Content: "two"})

	assert.Len(t, reported, 1)
	assert.True(t, w.Disabled())
	assert.Zero(t, w.Lines())
	assert.NoError(t, w.Close())
}

func TestWriterStopsAtSizeCap(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "A_log_20250101_000000.log")

	var reported []error
	w := New(path, 1, func(err error) { reported = append(reported, err) }, nil)

	line := domain.LogEvent{Content: strings.Repeat("x", 1023)} // 1 KiB with the newline
	for i := 0; i < 1100; i++ {
		w.HandleEvent(line)
	}
	require.NoError(t, w.Close())

	assert.Equal(t, 1024, w.Lines())
	assert.True(t, w.Disabled())
	require.Len(t, reported, 1)
	assert.ErrorIs(t, reported[0], ErrLimitReached)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, int64(1<<20), info.Size())

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "the log is never rolled into a second file")
}

package runlog

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiscardIsNoOp(t *testing.T) {
	t.Parallel()

	w := Discard()
	assert.NoError(t, w.Write([]byte("device output")))
	assert.NoError(t, w.Line("Response sent: 'A'"))
	assert.NoError(t, w.Close())
}

func TestNilWriterIsNoOp(t *testing.T) {
	t.Parallel()

	var w *Writer
	assert.NoError(t, w.Write([]byte("x")))
	assert.NoError(t, w.Line("y"))
	assert.NoError(t, w.Close())
}

func TestOpenWritesHeaderAndContent(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "capture.log")

	w, err := Open(path)
	require.NoError(t, err)

	require.NoError(t, w.Write([]byte("hello from device")))
	require.NoError(t, w.Line("\nResponse sent: 'A'"))
	require.NoError(t, w.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	lines := strings.SplitN(string(data), "\n", 2)
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "dutrun "), "header line: %q", lines[0])
	assert.Contains(t, lines[1], "hello from device")
	assert.Contains(t, lines[1], "Response sent: 'A'")
}

func TestOpenTruncatesExisting(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "capture.log")
	require.NoError(t, os.WriteFile(path, []byte("stale content"), 0o644))

	w, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "stale content")
}

func TestOpenBadPath(t *testing.T) {
	t.Parallel()

	_, err := Open(filepath.Join(t.TempDir(), "missing-dir", "capture.log"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to open run log")
}

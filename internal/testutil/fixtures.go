package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// HappyScriptJSON is a minimal valid test script covering a start block,
// an end block, an explicit idle timeout, and one user-defined prompt.
const HappyScriptJSON = `{
  "start": {"prompt": "Press a key to start:", "response": "A", "timeout": 10},
  "end": {"prompt": "TEST DONE"},
  "timeout": 120,
  "example": {"prompt": "Example user-defined prompt", "response": "Example user-defined response"}
}`

// WriteScript writes a test script to a temp directory and returns its
// path. The extension of name selects the format the loader will use.
func WriteScript(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

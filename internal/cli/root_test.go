package cli

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExitCode(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 0, ExitCode(nil))
	assert.Equal(t, 1, ExitCode(&exitError{code: 1, err: errors.New("timed out")}))
	assert.Equal(t, 2, ExitCode(&exitError{code: 2, err: errors.New("bad script")}))

	// Errors without an explicit code are infrastructure failures.
	assert.Equal(t, 2, ExitCode(errors.New("something else")))

	// Wrapped exit errors still map to their code.
	wrapped := fmt.Errorf("context: %w", &exitError{code: 1, err: errors.New("timed out")})
	assert.Equal(t, 1, ExitCode(wrapped))
}

func TestExitErrorUnwrap(t *testing.T) {
	t.Parallel()

	inner := errors.New("port busy")
	ee := &exitError{code: 2, err: fmt.Errorf("failed to open: %w", inner)}

	assert.Equal(t, "failed to open: port busy", ee.Error())
	assert.True(t, errors.Is(ee, inner))
}

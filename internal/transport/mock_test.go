package transport

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockTransport_ImmediateBytes(t *testing.T) {
	t.Parallel()

	m := NewMockTransport(nil)
	m.QueueString("ab")

	b, ok, err := m.ReadByte(time.Second)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, byte('a'), b)

	b, ok, err = m.ReadByte(time.Second)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, byte('b'), b)
}

func TestMockTransport_DelayCarriesOver(t *testing.T) {
	t.Parallel()

	var elapsed time.Duration
	m := NewMockTransport(func(d time.Duration) { elapsed += d })
	m.QueueByte('x', 7*time.Second)

	// First read's window is too short: no byte, full window consumed.
	b, ok, err := m.ReadByte(5 * time.Second)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, 5*time.Second, elapsed)

	// The residual 2s fits in the next window.
	b, ok, err = m.ReadByte(5 * time.Second)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, byte('x'), b)
	assert.Equal(t, 7*time.Second, elapsed)
}

func TestMockTransport_DelayEqualToDeadlineTimesOut(t *testing.T) {
	t.Parallel()

	var elapsed time.Duration
	m := NewMockTransport(func(d time.Duration) { elapsed += d })
	m.QueueByte('x', 5*time.Second)

	// A delay exactly equal to the deadline expires the read.
	_, ok, err := m.ReadByte(5 * time.Second)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, 5*time.Second, elapsed)

	// Residual delay is zero, so the next read delivers immediately.
	b, ok, err := m.ReadByte(time.Second)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, byte('x'), b)
	assert.Equal(t, 5*time.Second, elapsed)
}

func TestMockTransport_ExhaustedScriptTimesOut(t *testing.T) {
	t.Parallel()

	var elapsed time.Duration
	m := NewMockTransport(func(d time.Duration) { elapsed += d })

	_, ok, err := m.ReadByte(3 * time.Second)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, 3*time.Second, elapsed)
}

func TestMockTransport_QueuedError(t *testing.T) {
	t.Parallel()

	m := NewMockTransport(nil)
	m.QueueError(errors.New("boom"))

	_, _, err := m.ReadByte(time.Second)
	assert.EqualError(t, err, "boom")
}

func TestMockTransport_RecordsCalls(t *testing.T) {
	t.Parallel()

	m := NewMockTransport(nil)
	m.QueueString("z")

	_, _, _ = m.ReadByte(2 * time.Second)
	require.NoError(t, m.Write([]byte("ok")))
	require.NoError(t, m.Close())

	calls := m.Calls()
	require.Len(t, calls, 3)
	assert.Equal(t, "read", calls[0].Op)
	assert.Equal(t, 2*time.Second, calls[0].Deadline)
	assert.Equal(t, "write", calls[1].Op)
	assert.Equal(t, []byte("ok"), calls[1].Data)
	assert.Equal(t, "close", calls[2].Op)

	assert.Equal(t, [][]byte{[]byte("ok")}, m.Writes())
	assert.True(t, m.Closed())
}

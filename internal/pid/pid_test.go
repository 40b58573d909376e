package pid_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codeberg.org/mutker/fanctl/internal/errors"
	"codeberg.org/mutker/fanctl/internal/pid"
)

func TestWriteAndRemove(t *testing.T) {
	require.NoError(t, pid.Write())
	t.Cleanup(func() { _ = pid.Remove() })

	// The file now points at this live process, so a second instance
	// must be refused.
	err := pid.Write()
	assert.Equal(t, errors.ErrAlreadyRunning, errors.CodeOf(err))

	require.NoError(t, pid.Remove())
	require.NoError(t, pid.Write())
	require.NoError(t, pid.Remove())
}

func TestRemoveWithoutFile(t *testing.T) {
	require.NoError(t, pid.Remove())
	assert.NoError(t, pid.Remove())
}

package retry

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunSucceedsImmediately(t *testing.T) {
	calls := 0
	err := Run(func() error {
		calls++
		return nil
	}, 3, time.Millisecond)

	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestRunSucceedsAfterRetries(t *testing.T) {
	calls := 0
	err := Run(func() error {
		calls++
		if calls < 3 {
			return errors.New("transient")
		}
		return nil
	}, 5, time.Millisecond)

	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestRunExhaustsAttempts(t *testing.T) {
	lastErr := errors.New("persistent")

	calls := 0
	err := Run(func() error {
		calls++
		return lastErr
	}, 4, time.Millisecond)

	require.ErrorIs(t, err, lastErr)
	assert.Equal(t, 4, calls)
}

package domainerrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCodedErrors(t *testing.T) {
	t.Run("new carries code and message", func(t *testing.T) {
		err := New(CodeNotFound, "account not found")
		assert.True(t, HasCode(err, CodeNotFound))
		assert.False(t, HasCode(err, CodeConflict))
		assert.Equal(t, "account not found", err.Error())
	})

	t.Run("wrap preserves cause", func(t *testing.T) {
		cause := errors.New("connection reset")
		err := Wrap(cause, CodeInternal, "failed to load account")
		require.Error(t, err)
		assert.ErrorIs(t, err, cause)
		assert.Equal(t, "failed to load account: connection reset", err.Error())
		assert.Equal(t, "failed to load account", MessageOf(err))
	})

	t.Run("wrap nil returns nil", func(t *testing.T) {
		assert.NoError(t, Wrap(nil, CodeInternal, "unused"))
	})

	t.Run("outermost code wins", func(t *testing.T) {
		inner := New(CodeInvariantViolation, "bad state")
		outer := Wrap(inner, CodeConflict, "cannot verify")
		assert.Equal(t, CodeConflict, CodeOf(outer))
		assert.True(t, Is(outer, CodeConflict))
	})

	t.Run("plain errors default to internal", func(t *testing.T) {
		err := fmt.Errorf("boom")
		assert.Equal(t, CodeInternal, CodeOf(err))
		assert.Equal(t, "boom", MessageOf(err))
	})
}

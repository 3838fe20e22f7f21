package domainerrors

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHasCode(t *testing.T) {
	t.Run("matches direct code", func(t *testing.T) {
		err := New(CodeNotFound, "badge not found")
		assert.True(t, HasCode(err, CodeNotFound))
		assert.False(t, HasCode(err, CodeConflict))
	})

	t.Run("matches wrapped code at any depth", func(t *testing.T) {
		inner := New(CodeConflict, "badge number already exists")
		outer := Wrap(inner, CodeInternal, "create badge")
		assert.True(t, HasCode(outer, CodeInternal))
		assert.True(t, HasCode(outer, CodeConflict))
	})

	t.Run("plain errors have no code", func(t *testing.T) {
		assert.False(t, HasCode(errors.New("boom"), CodeInternal))
	})
}

func TestWrapPreservesCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := Wrap(cause, CodeInternal, "list badges")

	require.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "list badges")
	assert.Contains(t, err.Error(), "connection refused")
}

func TestCodeOf(t *testing.T) {
	assert.Equal(t, CodeValidation, CodeOf(New(CodeValidation, "missing cin")))
	assert.Equal(t, CodeInternal, CodeOf(errors.New("unexpected")))

	wrapped := Wrap(New(CodeNotFound, "no badge"), CodeBadRequest, "bad lookup")
	assert.Equal(t, CodeBadRequest, CodeOf(wrapped))
}

package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrap(t *testing.T) {
	t.Run("wraps error with context", func(t *testing.T) {
		err := Wrap(ErrNotFound, "order not found")
		require.Error(t, err)
		assert.Equal(t, "order not found: not found", err.Error())
		assert.True(t, Is(err, ErrNotFound))
	})

	t.Run("returns nil for nil error", func(t *testing.T) {
		assert.NoError(t, Wrap(nil, "context"))
	})

	t.Run("preserves chain through multiple wraps", func(t *testing.T) {
		err := Wrap(Wrap(ErrConflict, "inner"), "outer")
		assert.True(t, Is(err, ErrConflict))
	})
}

func TestMarkTransient(t *testing.T) {
	t.Run("returns nil for nil error", func(t *testing.T) {
		assert.NoError(t, MarkTransient(nil))
	})

	t.Run("keeps the original message", func(t *testing.T) {
		err := MarkTransient(New("storage timeout"))
		assert.Equal(t, "storage timeout", err.Error())
	})

	t.Run("preserves sentinel matching", func(t *testing.T) {
		err := MarkTransient(Wrap(ErrConflict, "write race"))
		assert.True(t, Is(err, ErrConflict))
	})
}

func TestIsTransient(t *testing.T) {
	t.Run("false for nil", func(t *testing.T) {
		assert.False(t, IsTransient(nil))
	})

	t.Run("false for plain errors", func(t *testing.T) {
		assert.False(t, IsTransient(ErrNotFound))
		assert.False(t, IsTransient(Wrap(ErrInvalidInput, "bad units")))
	})

	t.Run("true for marked errors", func(t *testing.T) {
		assert.True(t, IsTransient(MarkTransient(New("timeout"))))
	})

	t.Run("true for ErrUnavailable", func(t *testing.T) {
		assert.True(t, IsTransient(ErrUnavailable))
	})

	t.Run("survives wrapping", func(t *testing.T) {
		err := fmt.Errorf("relay: %w", Wrap(ErrUnavailable, "append failed"))
		assert.True(t, IsTransient(err))
	})
}

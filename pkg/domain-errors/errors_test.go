package domainerrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHasCode(t *testing.T) {
	t.Run("direct coded error", func(t *testing.T) {
		err := New(CodeInvalidPin, "wrong pin")
		assert.True(t, HasCode(err, CodeInvalidPin))
		assert.False(t, HasCode(err, CodeUnknownIdentity))
	})

	t.Run("wrapped coded error", func(t *testing.T) {
		inner := New(CodeDeviceInUse, "active session exists")
		err := fmt.Errorf("complete login: %w", inner)
		assert.True(t, HasCode(err, CodeDeviceInUse))
	})

	t.Run("uncoded error", func(t *testing.T) {
		assert.False(t, HasCode(errors.New("plain"), CodeInternal))
		assert.Equal(t, CodeInternal, CodeOf(errors.New("plain")))
	})
}

func TestIsComparesByCode(t *testing.T) {
	sentinel := New(CodeNotFound, "record not found")
	err := Wrap(errors.New("sql: no rows"), CodeNotFound, "identity lookup")
	assert.True(t, errors.Is(err, sentinel))
}

func TestOperatorMessagesAreDistinct(t *testing.T) {
	seen := make(map[string]Code)
	for code, msg := range operatorMessages {
		prev, dup := seen[msg]
		require.False(t, dup, "codes %s and %s share a message", prev, code)
		seen[msg] = code
	}
}

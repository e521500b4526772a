package domainerrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHasCode(t *testing.T) {
	t.Run("matches outer code", func(t *testing.T) {
		err := New(CodeValidation, "bad")
		assert.True(t, HasCode(err, CodeValidation))
		assert.False(t, HasCode(err, CodeInternal))
	})

	t.Run("matches code deeper in the chain", func(t *testing.T) {
		inner := New(CodeNotFound, "missing")
		outer := Wrap(fmt.Errorf("lookup: %w", inner), CodeUnavailable, "try later")
		assert.True(t, HasCode(outer, CodeUnavailable))
		assert.True(t, HasCode(outer, CodeNotFound))
		assert.False(t, Is(outer, CodeNotFound))
	})

	t.Run("plain errors carry no code", func(t *testing.T) {
		assert.False(t, HasCode(errors.New("boom"), CodeInternal))
		assert.Equal(t, CodeInternal, CodeOf(errors.New("boom")))
	})
}

func TestMessage(t *testing.T) {
	err := Wrap(errors.New("dial tcp: refused"), CodeUnavailable, "service unavailable")
	assert.Equal(t, "service unavailable", Message(err))
	assert.Equal(t, "service unavailable: dial tcp: refused", err.Error())
	assert.Equal(t, "", Message(nil))
}

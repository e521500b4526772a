package domain

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "clicker/pkg/domain-errors"
)

// TestParseClickerID_Invariants validates the parsing invariant:
// "clicker ids must be valid, non-empty, non-nil UUIDs"
func TestParseClickerID_Invariants(t *testing.T) {
	t.Run("rejects empty string", func(t *testing.T) {
		_, err := ParseClickerID("")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("rejects invalid format", func(t *testing.T) {
		_, err := ParseClickerID("some-clicker-uuid")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("rejects nil UUID", func(t *testing.T) {
		_, err := ParseClickerID(uuid.Nil.String())
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("accepts valid UUID", func(t *testing.T) {
		valid := uuid.New()
		id, err := ParseClickerID(valid.String())
		require.NoError(t, err)
		assert.Equal(t, ClickerID(valid), id)
		assert.Equal(t, valid.String(), id.String())
		assert.False(t, id.IsNil())
	})
}

func TestParseID_BoundaryInputs(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"Null byte injection", "550e8400\x00-e29b-41d4-a716-446655440000", true},
		{"Oversized input", strings.Repeat("a", 1000), true},
		{"Whitespace only", "   ", true},
		{"Uppercase valid UUID", "550E8400-E29B-41D4-A716-446655440000", false},
		{"Valid UUID lowercase", "550e8400-e29b-41d4-a716-446655440000", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, errClicker := ParseClickerID(tt.input)
			_, errLogin := ParseLoginID(tt.input)
			if tt.wantErr {
				require.Error(t, errClicker)
				require.Error(t, errLogin)
				assert.True(t, dErrors.HasCode(errClicker, dErrors.CodeInvalidInput))
			} else {
				require.NoError(t, errClicker)
				require.NoError(t, errLogin)
			}
		})
	}
}

func TestSessionExpired(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	assert.False(t, Session{Token: "t"}.Expired(now), "zero expiry never expires")
	assert.False(t, Session{Token: "t", ExpiresAt: now.Add(time.Minute)}.Expired(now))
	assert.True(t, Session{Token: "t", ExpiresAt: now}.Expired(now))
}

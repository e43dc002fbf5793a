package logging

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoggerLevels(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := NewWithWriter(&buf, false, true)

	logger.Info("provisioned %d attendees", 3)
	logger.Warn("duplicate first name: %s", "raymon")
	logger.Error("delete failed: %s", "team_x")

	out := buf.String()
	assert.Contains(t, out, "✓ provisioned 3 attendees")
	assert.Contains(t, out, "⚠ duplicate first name: raymon")
	assert.Contains(t, out, "✗ delete failed: team_x")
}

func TestLoggerDebugSuppressed(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := NewWithWriter(&buf, false, true)
	logger.Debug("should not appear")
	assert.Empty(t, buf.String())

	debugged := NewWithWriter(&buf, true, true)
	debugged.Debug("visible now")
	assert.Contains(t, buf.String(), "[debug] visible now")
}

func TestLoggerColorMarks(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := NewWithWriter(&buf, false, false)
	logger.Info("colored")
	assert.Contains(t, buf.String(), "\033[32m")
}

func TestSecretRedaction(t *testing.T) {
	t.Parallel()

	s := Secret("hvs.CAESIJ...")
	assert.Equal(t, "[REDACTED]", s.String())
	assert.Equal(t, "[REDACTED]", fmt.Sprintf("%s", s))
	assert.Equal(t, "[REDACTED]", fmt.Sprintf("%v", s))
	assert.Equal(t, "[REDACTED]", fmt.Sprintf("%#v", s))
}

func TestRedact(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		secrets []string
		want    string
	}{
		{
			name:    "replaces known secret",
			input:   "login failed for token hvs.abcdef",
			secrets: []string{"hvs.abcdef"},
			want:    "login failed for token [REDACTED]",
		},
		{
			name:    "ignores trivially short values",
			input:   "path a/b not found",
			secrets: []string{"a/b"},
			want:    "path a/b not found",
		},
		{
			name:    "multiple secrets",
			input:   "user raymon password VaultWorkshop-raymon!",
			secrets: []string{"VaultWorkshop-raymon!"},
			want:    "user raymon password [REDACTED]",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, Redact(tt.input, tt.secrets))
		})
	}
}

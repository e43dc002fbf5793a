package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigErrorMessage(t *testing.T) {
	t.Parallel()

	err := ConfigError{
		Field:      "roster",
		Message:    "roster file not found",
		Suggestion: "Pass --roster with the attendee CSV export",
	}

	msg := err.Error()
	assert.Contains(t, msg, "Configuration error in field 'roster'")
	assert.Contains(t, msg, "roster file not found")
	assert.Contains(t, msg, "Pass --roster")
}

func TestRemoteErrorWrapsCause(t *testing.T) {
	t.Parallel()

	cause := stderrors.New("connection refused")
	err := RemoteError{Operation: "namespace list", Message: "cluster unreachable", Err: cause}

	assert.Contains(t, err.Error(), "during namespace list")
	assert.Contains(t, err.Error(), "connection refused")
	assert.ErrorIs(t, err, cause)
}

func TestAttendeeErrorIdentifiesRecord(t *testing.T) {
	t.Parallel()

	cause := stderrors.New("secret not found")
	err := AttendeeError{ID: "raymon-epping-at-ibm-com", Step: "wrap", Err: cause}

	assert.Contains(t, err.Error(), "raymon-epping-at-ibm-com")
	assert.Contains(t, err.Error(), "wrap failed")
	assert.ErrorIs(t, err, cause)
}

func TestConsumedErrorPreservesRawResponse(t *testing.T) {
	t.Parallel()

	err := ConsumedError{Raw: "wrapping token is not valid or does not exist"}
	assert.Contains(t, err.Error(), "wrapping token is not valid or does not exist")
	assert.Contains(t, err.Error(), "Reissue a fresh token")
}

func TestIsFatal(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"config error", ConfigError{Message: "missing"}, true},
		{"remote error", RemoteError{Message: "down"}, true},
		{"confirmation error", ConfirmationError{}, true},
		{"wrapped remote error", fmt.Errorf("outer: %w", RemoteError{Message: "down"}), true},
		{"attendee error", AttendeeError{ID: "x", Step: "creds", Err: stderrors.New("bad")}, false},
		{"consumed error", ConsumedError{}, false},
		{"plain error", stderrors.New("anything"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, IsFatal(tt.err))
		})
	}
}

func TestRemoteSuggestion(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want string
	}{
		{"connection refused", stderrors.New("dial tcp: connection refused"), "VAULT_ADDR"},
		{"permission denied", stderrors.New("1 error occurred: permission denied"), "admin token"},
		{"invalid token", stderrors.New("invalid token"), "wsops login"},
		{"tls failure", stderrors.New("tls: bad certificate"), "VAULT_CACERT"},
		{"unknown", stderrors.New("weird"), "wsops preflight"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := RemoteSuggestion(tt.err)
			require.NotEmpty(t, got)
			assert.Contains(t, got, tt.want)
		})
	}
}

// Package errors defines the wsops error taxonomy.
//
// Fatal errors (ConfigError, RemoteError, ConfirmationError) abort the run
// and print the unmet precondition plus a remediation hint. AttendeeError is
// never fatal: batch loops log it, record the skip, and continue with the
// remaining attendees. ConsumedError carries the cluster's verbatim unwrap
// failure back to the caller without retrying.
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// ConfigError reports missing or invalid configuration. Pre-flight, non-retryable.
type ConfigError struct {
	Field      string
	Value      interface{}
	Message    string
	Suggestion string
}

func (e ConfigError) Error() string {
	msg := "Configuration error"
	if e.Field != "" {
		msg += fmt.Sprintf(" in field '%s'", e.Field)
	}
	if e.Value != nil {
		msg += fmt.Sprintf(" (value: %v)", e.Value)
	}
	msg += ": " + e.Message
	if e.Suggestion != "" {
		msg += "\n  💡 " + e.Suggestion
	}
	return msg
}

// RemoteError reports an unreachable or unauthorized cluster. Fatal for the run.
type RemoteError struct {
	Operation  string
	Message    string
	Suggestion string
	Err        error
}

func (e RemoteError) Error() string {
	msg := "Cluster error"
	if e.Operation != "" {
		msg += " during " + e.Operation
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Err != nil {
		msg += "\n  Details: " + e.Err.Error()
	}
	if e.Suggestion != "" {
		msg += "\n  💡 " + e.Suggestion
	}
	return msg
}

func (e RemoteError) Unwrap() error { return e.Err }

// AttendeeError reports a single attendee's failed step. Logged and skipped;
// the batch continues.
type AttendeeError struct {
	ID   string
	Step string
	Err  error
}

func (e AttendeeError) Error() string {
	return fmt.Sprintf("attendee %s: %s failed: %v", e.ID, e.Step, e.Err)
}

func (e AttendeeError) Unwrap() error { return e.Err }

// ConfirmationError reports a declined or mistyped destructive-action
// confirmation. Fatal, with zero partial action taken.
type ConfirmationError struct {
	Message    string
	Suggestion string
}

func (e ConfirmationError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = "confirmation rejected"
	}
	if e.Suggestion != "" {
		msg += "\n  💡 " + e.Suggestion
	}
	return msg
}

// ConsumedError reports an unwrap attempt on an already-used or expired
// token. The cluster's raw response is preserved; the operation is never
// retried because a wrap token is single-use.
type ConsumedError struct {
	Raw string
	Err error
}

func (e ConsumedError) Error() string {
	msg := "wrapped token already consumed or expired"
	if e.Raw != "" {
		msg += ": " + e.Raw
	}
	msg += "\n  💡 Reissue a fresh token with 'wsops full --skip-tf --skip-creds'"
	return msg
}

func (e ConsumedError) Unwrap() error { return e.Err }

// IsFatal reports whether err should abort the whole run rather than one
// attendee's step.
func IsFatal(err error) bool {
	var (
		cfg     ConfigError
		remote  RemoteError
		confirm ConfirmationError
	)
	return errors.As(err, &cfg) || errors.As(err, &remote) || errors.As(err, &confirm)
}

// RemoteSuggestion maps common cluster error text to a remediation hint.
func RemoteSuggestion(err error) string {
	if err == nil {
		return ""
	}
	errStr := strings.ToLower(err.Error())
	switch {
	case strings.Contains(errStr, "connection refused"), strings.Contains(errStr, "no such host"):
		return "Check that the cluster is running and VAULT_ADDR points at it"
	case strings.Contains(errStr, "permission denied"):
		return "Check the admin token's permissions, or run 'wsops login' with a fresh token"
	case strings.Contains(errStr, "invalid token"), strings.Contains(errStr, "missing client token"):
		return "The admin token is missing, expired, or invalid. Run 'wsops login'"
	case strings.Contains(errStr, "namespace"):
		return "Check the parent namespace setting in wsops.yaml (VAULT_NAMESPACE)"
	case strings.Contains(errStr, "tls"):
		return "Check TLS settings; VAULT_CACERT may be required for this cluster"
	case strings.Contains(errStr, "timeout"):
		return "The call timed out. Check network connectivity and retry"
	default:
		return "Run 'wsops preflight' for diagnostics"
	}
}

package config

import (
	"os"
	"strings"

	"github.com/zalando/go-keyring"

	wserrors "github.com/systmms/wsops/internal/errors"
	"github.com/systmms/wsops/internal/secure"
)

// Keyring coordinates for the stored admin token.
const (
	KeyringService = "wsops"
	KeyringUser    = "vault-admin"
)

// AdminToken resolves the admin token, in priority order: the VAULT_TOKEN
// environment variable, then the OS keyring entry written by 'wsops login'.
// The plaintext is sealed into protected memory before returning.
func AdminToken() (*secure.Token, error) {
	if tok := os.Getenv("VAULT_TOKEN"); tok != "" {
		return secure.NewToken(strings.TrimSpace(tok)), nil
	}

	tok, err := keyring.Get(KeyringService, KeyringUser)
	if err == nil && tok != "" {
		return secure.NewToken(strings.TrimSpace(tok)), nil
	}

	return nil, wserrors.ConfigError{
		Field:      "token",
		Message:    "no admin token available",
		Suggestion: "Set VAULT_TOKEN or store one with 'wsops login'",
	}
}

// StoreAdminToken writes the admin token to the OS keyring.
func StoreAdminToken(token string) error {
	if strings.TrimSpace(token) == "" {
		return wserrors.ConfigError{
			Field:   "token",
			Message: "refusing to store an empty token",
		}
	}
	if err := keyring.Set(KeyringService, KeyringUser, strings.TrimSpace(token)); err != nil {
		return wserrors.ConfigError{
			Field:      "token",
			Message:    "failed to write token to the OS keyring: " + err.Error(),
			Suggestion: "Use VAULT_TOKEN if no keyring backend is available",
		}
	}
	return nil
}

// ForgetAdminToken removes the stored token. A missing entry is not an error.
func ForgetAdminToken() error {
	err := keyring.Delete(KeyringService, KeyringUser)
	if err != nil && err != keyring.ErrNotFound {
		return wserrors.ConfigError{
			Field:   "token",
			Message: "failed to remove token from the OS keyring: " + err.Error(),
		}
	}
	return nil
}

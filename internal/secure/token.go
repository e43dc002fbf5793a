// Package secure keeps the admin token encrypted in memory for the
// lifetime of a run.
//
// The token is held in a memguard enclave: encrypted at rest
// (XSalsa20Poly1305), mlocked where the platform allows it, and wiped on
// destruction. Callers access the plaintext only inside Use, which
// destroys the decrypted buffer before returning. Call memguard.Purge()
// in main on exit for full cleanup.
package secure

import (
	"fmt"
	"sync"

	"github.com/awnumar/memguard"
)

// Token is an admin token held in protected memory.
type Token struct {
	mu      sync.RWMutex
	enclave *memguard.Enclave
}

// NewToken seals the given token string into protected memory. The caller
// should drop its own copy of the plaintext afterwards.
func NewToken(value string) *Token {
	return &Token{enclave: memguard.NewEnclave([]byte(value))}
}

// Use decrypts the token and passes the plaintext to fn. The decrypted
// buffer is wiped when fn returns; fn must not retain the string beyond
// the call it hands it to.
func (t *Token) Use(fn func(token string) error) error {
	t.mu.RLock()
	enclave := t.enclave
	t.mu.RUnlock()

	if enclave == nil {
		return fmt.Errorf("admin token has been destroyed")
	}

	buf, err := enclave.Open()
	if err != nil {
		return fmt.Errorf("failed to open token enclave: %w", err)
	}
	defer buf.Destroy()

	return fn(buf.String())
}

// Destroy drops the enclave. Idempotent; Use fails afterwards.
func (t *Token) Destroy() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.enclave = nil
}

package secure

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenUse(t *testing.T) {
	t.Parallel()

	tok := NewToken("hvs.admin-token")

	var seen string
	err := tok.Use(func(token string) error {
		seen = token
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, "hvs.admin-token", seen)

	// Reusable until destroyed.
	err = tok.Use(func(token string) error {
		assert.Equal(t, "hvs.admin-token", token)
		return nil
	})
	require.NoError(t, err)
}

func TestTokenDestroy(t *testing.T) {
	t.Parallel()

	tok := NewToken("hvs.short-lived")
	tok.Destroy()
	tok.Destroy() // idempotent

	err := tok.Use(func(string) error { return nil })
	assert.Error(t, err)
}

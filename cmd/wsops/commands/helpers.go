package commands

import (
	"path/filepath"
	"strings"

	"github.com/systmms/wsops/internal/config"
	"github.com/systmms/wsops/internal/desired"
	"github.com/systmms/wsops/internal/vault"
)

// firstLine trims a multi-line error message down to its first line for
// table cells.
func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}

// varFilePath locates the desired-state file inside the Terraform
// working directory.
func varFilePath(cfg *config.Config) string {
	return filepath.Join(cfg.Definition.Terraform.Dir, cfg.Definition.Terraform.VarFile)
}

// loadPlan loads and validates the current desired-state file.
func loadPlan(cfg *config.Config) (*desired.Plan, error) {
	return desired.LoadFile(varFilePath(cfg))
}

// newAdminClient builds a cluster client authenticated with the resolved
// admin token. The token plaintext only exists inside the enclave callback
// and the client itself.
func newAdminClient(cfg *config.Config) (*vault.Client, error) {
	addr, err := cfg.RequireAddress()
	if err != nil {
		return nil, err
	}

	adminToken, err := config.AdminToken()
	if err != nil {
		return nil, err
	}
	defer adminToken.Destroy()

	var client *vault.Client
	err = adminToken.Use(func(token string) error {
		var innerErr error
		client, innerErr = vault.New(vault.Config{
			Address: addr,
			Token:   token,
			Timeout: cfg.Timeout(),
		}, cfg.Logger)
		return innerErr
	})
	if err != nil {
		return nil, err
	}
	return client, nil
}

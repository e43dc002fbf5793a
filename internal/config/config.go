// Package config loads wsops.yaml and resolves the runtime settings every
// command shares: cluster address, parent namespace, workshop naming, and
// file locations.
package config

import (
	"os"
	"time"

	wserrors "github.com/systmms/wsops/internal/errors"
	"github.com/systmms/wsops/internal/logging"
	"gopkg.in/yaml.v3"
)

// Defaults applied when wsops.yaml omits a field.
const (
	DefaultParentNamespace = "admin"
	DefaultTeamPrefix      = "team_"
	DefaultWrapTTL         = "60m"
	DefaultTimeout         = 30 * time.Second
	DefaultOutputDir       = "output"
	DefaultTerraformDir    = "terraform"
	DefaultVarFile         = "attendees.auto.tfvars.json"
)

// Config holds the runtime configuration assembled from flags, wsops.yaml,
// and environment variables.
type Config struct {
	Path           string
	Logger         *logging.Logger
	NonInteractive bool
	Definition     *Definition
}

// Definition mirrors the wsops.yaml structure.
type Definition struct {
	Vault     VaultConfig     `yaml:"vault"`
	Workshop  WorkshopConfig  `yaml:"workshop"`
	Terraform TerraformConfig `yaml:"terraform"`
}

// VaultConfig describes the target cluster.
type VaultConfig struct {
	Address         string `yaml:"address"`
	ParentNamespace string `yaml:"parent_namespace"`
	TimeoutMs       int    `yaml:"timeout_ms,omitempty"`
}

// WorkshopConfig describes workshop naming and output locations.
type WorkshopConfig struct {
	TeamPrefix string `yaml:"team_prefix"`
	WrapTTL    string `yaml:"wrap_ttl"`
	Roster     string `yaml:"roster,omitempty"`
	OutputDir  string `yaml:"output_dir"`
}

// TerraformConfig locates the external provisioning engine's working set.
type TerraformConfig struct {
	Dir     string `yaml:"dir"`
	VarFile string `yaml:"var_file"`
}

// Load reads and parses wsops.yaml, applies defaults, and overlays
// environment variables. A missing file is not an error: every field has a
// default or an env source, and prepare/unwrap work without a config file.
func (c *Config) Load() error {
	def := &Definition{}

	if c.Path != "" {
		data, err := os.ReadFile(c.Path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, def); err != nil {
				return wserrors.ConfigError{
					Field:      "path",
					Value:      c.Path,
					Message:    "invalid YAML in configuration file",
					Suggestion: "Check indentation and quoting in " + c.Path,
				}
			}
		case os.IsNotExist(err):
			// Defaults only.
		default:
			return wserrors.ConfigError{
				Field:      "path",
				Value:      c.Path,
				Message:    "failed to read configuration file: " + err.Error(),
				Suggestion: "Check file permissions",
			}
		}
	}

	applyDefaults(def)
	applyEnv(def)
	c.Definition = def
	return nil
}

func applyDefaults(def *Definition) {
	if def.Vault.ParentNamespace == "" {
		def.Vault.ParentNamespace = DefaultParentNamespace
	}
	if def.Workshop.TeamPrefix == "" {
		def.Workshop.TeamPrefix = DefaultTeamPrefix
	}
	if def.Workshop.WrapTTL == "" {
		def.Workshop.WrapTTL = DefaultWrapTTL
	}
	if def.Workshop.OutputDir == "" {
		def.Workshop.OutputDir = DefaultOutputDir
	}
	if def.Terraform.Dir == "" {
		def.Terraform.Dir = DefaultTerraformDir
	}
	if def.Terraform.VarFile == "" {
		def.Terraform.VarFile = DefaultVarFile
	}
}

func applyEnv(def *Definition) {
	if addr := os.Getenv("VAULT_ADDR"); addr != "" {
		def.Vault.Address = addr
	}
	if ns := os.Getenv("VAULT_NAMESPACE"); ns != "" {
		def.Vault.ParentNamespace = ns
	}
}

// Timeout returns the per-call network timeout. This bounds each remote
// call and is unrelated to the 60-minute wrap TTL.
func (c *Config) Timeout() time.Duration {
	if c.Definition != nil && c.Definition.Vault.TimeoutMs > 0 {
		return time.Duration(c.Definition.Vault.TimeoutMs) * time.Millisecond
	}
	return DefaultTimeout
}

// RequireAddress returns the cluster address or a fatal ConfigError.
func (c *Config) RequireAddress() (string, error) {
	if c.Definition == nil || c.Definition.Vault.Address == "" {
		return "", wserrors.ConfigError{
			Field:      "vault.address",
			Message:    "cluster address is not set",
			Suggestion: "Set VAULT_ADDR or vault.address in wsops.yaml",
		}
	}
	return c.Definition.Vault.Address, nil
}

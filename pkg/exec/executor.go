// Package exec abstracts execution of external binaries so commands that
// shell out (the Terraform runner) can be tested against a mock.
package exec

import (
	"bytes"
	"context"
	"os/exec"
)

// CommandExecutor runs external commands. Implementations must honor the
// context for cancellation and timeouts.
type CommandExecutor interface {
	// Execute runs name with args in dir (empty dir means the current
	// directory) and returns captured stdout and stderr.
	Execute(ctx context.Context, dir, name string, args ...string) (stdout []byte, stderr []byte, err error)

	// LookPath reports where name resolves on PATH.
	LookPath(name string) (string, error)
}

// RealCommandExecutor is the production implementation backed by os/exec.
type RealCommandExecutor struct{}

// Execute runs the command and captures its output.
func (r *RealCommandExecutor) Execute(ctx context.Context, dir, name string, args ...string) ([]byte, []byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()
	return stdout.Bytes(), stderr.Bytes(), err
}

// LookPath resolves name on PATH.
func (r *RealCommandExecutor) LookPath(name string) (string, error) {
	return exec.LookPath(name)
}

// DefaultExecutor returns the production executor.
func DefaultExecutor() CommandExecutor {
	return &RealCommandExecutor{}
}

package terraform

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockExecutor records invocations and plays back canned results.
type mockExecutor struct {
	calls    [][]string
	dirs     []string
	stdout   []byte
	stderr   []byte
	execErr  error
	lookErr  error
}

func (m *mockExecutor) Execute(_ context.Context, dir, name string, args ...string) ([]byte, []byte, error) {
	m.calls = append(m.calls, append([]string{name}, args...))
	m.dirs = append(m.dirs, dir)
	return m.stdout, m.stderr, m.execErr
}

func (m *mockExecutor) LookPath(name string) (string, error) {
	if m.lookErr != nil {
		return "", m.lookErr
	}
	return "/usr/local/bin/" + name, nil
}

func TestEnsureBinary(t *testing.T) {
	t.Parallel()

	ok := &Runner{Dir: "tf", Exec: &mockExecutor{}}
	assert.NoError(t, ok.EnsureBinary())

	missing := &Runner{Dir: "tf", Exec: &mockExecutor{lookErr: errors.New("not found")}}
	err := missing.EnsureBinary()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "terraform binary not found")
}

func TestInitAndApplyArguments(t *testing.T) {
	t.Parallel()

	mock := &mockExecutor{}
	runner := &Runner{Dir: "tf", Exec: mock}

	require.NoError(t, runner.Init(context.Background()))
	require.NoError(t, runner.Apply(context.Background(), "attendees.auto.tfvars.json"))

	require.Len(t, mock.calls, 2)
	assert.Equal(t, []string{"terraform", "init", "-input=false", "-no-color"}, mock.calls[0])
	assert.Equal(t, []string{
		"terraform", "apply", "-auto-approve", "-input=false", "-no-color",
		"-var-file=attendees.auto.tfvars.json",
	}, mock.calls[1])
	assert.Equal(t, []string{"tf", "tf"}, mock.dirs)
}

func TestApplySurfacesStderr(t *testing.T) {
	t.Parallel()

	mock := &mockExecutor{stderr: []byte("Error: Invalid provider configuration\n"), execErr: errors.New("exit status 1")}
	runner := &Runner{Dir: "tf", Exec: mock}

	err := runner.Apply(context.Background(), "vars.json")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Invalid provider configuration")
}

func TestOutputs(t *testing.T) {
	t.Parallel()

	payload := `{
		"raymon-epping-at-ibm-com": {
			"namespace_path": "admin/team_raymon-e",
			"email": "raymon.epping@ibm.com",
			"first_name": "Raymon",
			"last_name": "Epping",
			"company": "IBM"
		}
	}`
	mock := &mockExecutor{stdout: []byte(payload)}
	runner := &Runner{Dir: "tf", Exec: mock}

	outputs, err := runner.Outputs(context.Background())
	require.NoError(t, err)
	require.Len(t, outputs, 1)
	assert.Equal(t, "admin/team_raymon-e", outputs["raymon-epping-at-ibm-com"].NamespacePath)

	require.Len(t, mock.calls, 1)
	assert.Equal(t, []string{"terraform", "output", "-json", "attendees"}, mock.calls[0])
}

func TestOutputsRejectsGarbage(t *testing.T) {
	t.Parallel()

	mock := &mockExecutor{stdout: []byte("not json")}
	runner := &Runner{Dir: "tf", Exec: mock}

	_, err := runner.Outputs(context.Background())
	assert.Error(t, err)
}

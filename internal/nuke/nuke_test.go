package nuke

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	wserrors "github.com/systmms/wsops/internal/errors"
	"github.com/systmms/wsops/internal/logging"
)

func TestBuildPlanExpectedOnly(t *testing.T) {
	t.Parallel()

	targets := BuildPlan([]string{"team_b", "team_a"}, []string{"team_a", "team_c"}, false)
	assert.Equal(t, []Target{
		{Name: "team_a", Origin: OriginExpected},
		{Name: "team_b", Origin: OriginExpected},
	}, targets)
}

func TestBuildPlanWithOrphans(t *testing.T) {
	t.Parallel()

	// Live set has team_c that the desired state does not know about.
	targets := BuildPlan([]string{"team_a", "team_b"}, []string{"team_a", "team_b", "team_c"}, true)
	assert.Equal(t, []Target{
		{Name: "team_a", Origin: OriginExpected},
		{Name: "team_b", Origin: OriginExpected},
		{Name: "team_c", Origin: OriginOrphan},
	}, targets)
}

func TestBuildPlanDeduplicates(t *testing.T) {
	t.Parallel()

	targets := BuildPlan([]string{"team_a", "team_a"}, []string{"team_a"}, true)
	assert.Equal(t, []Target{{Name: "team_a", Origin: OriginExpected}}, targets)
}

func TestAllowed(t *testing.T) {
	t.Parallel()

	env := func(value string) func(string) string {
		return func(key string) string {
			if key == AllowEnvVar {
				return value
			}
			return ""
		}
	}

	tests := []struct {
		name    string
		value   string
		wantErr bool
	}{
		{"unset", "", true},
		{"false", "false", true},
		{"zero", "0", true},
		{"garbage", "yes please", true},
		{"true", "true", false},
		{"one", "1", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := Allowed(env(tt.value))
			if tt.wantErr {
				require.Error(t, err)
				var confirm wserrors.ConfirmationError
				assert.ErrorAs(t, err, &confirm)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestConfirm(t *testing.T) {
	t.Parallel()

	t.Run("exact phrase accepted", func(t *testing.T) {
		t.Parallel()
		var out bytes.Buffer
		err := Confirm(strings.NewReader(ConfirmPhrase+"\n"), &out, false)
		assert.NoError(t, err)
		assert.Contains(t, out.String(), ConfirmPhrase)
	})

	t.Run("wrong phrase rejected", func(t *testing.T) {
		t.Parallel()
		var out bytes.Buffer
		err := Confirm(strings.NewReader("yes\n"), &out, false)
		require.Error(t, err)
		var confirm wserrors.ConfirmationError
		assert.ErrorAs(t, err, &confirm)
	})

	t.Run("empty input rejected", func(t *testing.T) {
		t.Parallel()
		var out bytes.Buffer
		err := Confirm(strings.NewReader(""), &out, false)
		assert.Error(t, err)
	})

	t.Run("non-interactive fails closed", func(t *testing.T) {
		t.Parallel()
		var out bytes.Buffer
		err := Confirm(strings.NewReader(ConfirmPhrase+"\n"), &out, true)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "non-interactive")
		// The prompt must never have been printed.
		assert.Empty(t, out.String())
	})
}

// fakeDeleter records deletions and fails the configured names.
type fakeDeleter struct {
	fail    map[string]error
	deleted []string
}

func (f *fakeDeleter) DeleteNamespace(_ context.Context, parent, name string) error {
	if err, ok := f.fail[name]; ok {
		return err
	}
	f.deleted = append(f.deleted, parent+"/"+name)
	return nil
}

func TestExecuteContinueOnError(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := logging.NewWithWriter(&buf, false, true)

	deleter := &fakeDeleter{fail: map[string]error{"team_b": errors.New("permission denied")}}
	targets := []Target{
		{Name: "team_a", Origin: OriginExpected},
		{Name: "team_b", Origin: OriginExpected},
		{Name: "team_c", Origin: OriginOrphan},
	}

	report := Execute(context.Background(), deleter, "admin", targets, logger)

	// team_b failed but team_c was still deleted.
	assert.Equal(t, []string{"admin/team_a", "admin/team_c"}, deleter.deleted)
	require.Len(t, report.Deleted, 2)
	require.Len(t, report.Failed, 1)
	assert.Equal(t, "team_b", report.Failed[0].Target.Name)
	assert.Contains(t, buf.String(), "failed to delete admin/team_b")
}

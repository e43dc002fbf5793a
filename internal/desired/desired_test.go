package desired

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/systmms/wsops/internal/roster"
)

func identitiesFixture() []roster.Identity {
	return []roster.Identity{
		{
			Attendee: roster.Attendee{FirstName: "Raymon", LastName: "Epping", Email: "raymon.epping@ibm.com", Company: "IBM"},
			ID:       "raymon-epping-at-ibm-com",
			Suffix:   "raymon-e",
		},
		{
			Attendee: roster.Attendee{FirstName: "Raymon", LastName: "Brown", Email: "raymon.brown@ibm.com", Company: "IBM"},
			ID:       "raymon-brown-at-ibm-com",
			Suffix:   "raymon-b",
		},
	}
}

func TestBuild(t *testing.T) {
	t.Parallel()

	plan, err := Build(identitiesFixture())
	require.NoError(t, err)
	require.Len(t, plan.Attendees, 2)

	epping := plan.Attendees["raymon-epping-at-ibm-com"]
	assert.Equal(t, "raymon.epping@ibm.com", epping.Email)
	assert.Equal(t, "raymon-e", epping.NamespaceSuffix)
	assert.Equal(t, "IBM", epping.Company)
}

func TestBuildRejectsDuplicateID(t *testing.T) {
	t.Parallel()

	ids := identitiesFixture()
	dup := ids[0]
	ids = append(ids, dup)

	_, err := Build(ids)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate attendee id")
}

func TestBuildRejectsFoldedEmailCollision(t *testing.T) {
	t.Parallel()

	// Distinct emails whose punctuation folds to the same ID are treated
	// like any other duplicate: a validation error, never an overwrite.
	ids := []roster.Identity{
		{
			Attendee: roster.Attendee{FirstName: "Ann", LastName: "Bell", Email: "a.b@example.com"},
			ID:       roster.DeriveID("a.b@example.com"),
			Suffix:   "ann",
		},
		{
			Attendee: roster.Attendee{FirstName: "Al", LastName: "Burke", Email: "a_b@example.com"},
			ID:       roster.DeriveID("a_b@example.com"),
			Suffix:   "al",
		},
	}

	_, err := Build(ids)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate attendee id")
	assert.Contains(t, err.Error(), "a.b@example.com")
	assert.Contains(t, err.Error(), "a_b@example.com")
}

func TestEncodeIsByteStable(t *testing.T) {
	t.Parallel()

	plan, err := Build(identitiesFixture())
	require.NoError(t, err)

	first, err := plan.Encode()
	require.NoError(t, err)

	// Rebuild from the same input; output must be byte-identical.
	again, err := Build(identitiesFixture())
	require.NoError(t, err)
	second, err := again.Encode()
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestWriteAndLoadRoundTrip(t *testing.T) {
	t.Parallel()

	plan, err := Build(identitiesFixture())
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "attendees.auto.tfvars.json")
	require.NoError(t, plan.WriteFile(path))

	loaded, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, plan.Attendees, loaded.Attendees)
}

func TestLoadFileMissing(t *testing.T) {
	t.Parallel()

	_, err := LoadFile(filepath.Join(t.TempDir(), "absent.json"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "wsops prepare")
}

func TestDecodeRejectsMalformedInput(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
	}{
		{"not json", "attendees = {}"},
		{"missing attendees key", `{"teams": {}}`},
		{"entry missing email", `{"attendees": {"x": {"first_name": "A", "last_name": "B"}}}`},
		{"empty email", `{"attendees": {"x": {"email": "", "first_name": "A", "last_name": "B"}}}`},
		{"unexpected top-level key", `{"attendees": {}, "extra": 1}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := Decode([]byte(tt.input), "test")
			assert.Error(t, err)
		})
	}
}

func TestNamespaceFallback(t *testing.T) {
	t.Parallel()

	withSuffix := Attendee{FirstName: "Raymon", NamespaceSuffix: "raymon-e"}
	assert.Equal(t, "team_raymon-e", Namespace("team_", withSuffix))

	noSuffix := Attendee{FirstName: "Raymon"}
	assert.Equal(t, "team_raymon", Namespace("team_", noSuffix))
}

func TestExpectedNamespaces(t *testing.T) {
	t.Parallel()

	plan := &Plan{Attendees: map[string]Attendee{
		"b": {FirstName: "Bea", NamespaceSuffix: "bea"},
		"a": {FirstName: "Ana", NamespaceSuffix: "ana"},
		"c": {FirstName: "Cleo"}, // missing suffix, falls back to first name
	}}

	assert.Equal(t, []string{"team_ana", "team_bea", "team_cleo"}, plan.ExpectedNamespaces("team_"))
}

func TestWriteFileReplacesPrevious(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "attendees.auto.tfvars.json")
	require.NoError(t, os.WriteFile(path, []byte("old generation"), 0o644))

	plan, err := Build(identitiesFixture())
	require.NoError(t, err)
	require.NoError(t, plan.WriteFile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "old generation")
	assert.Contains(t, string(data), `"attendees"`)
}

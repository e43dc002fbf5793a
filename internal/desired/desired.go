// Package desired builds and serializes the canonical attendee map that
// the Terraform provisioning engine and every downstream component consume.
//
// The Plan is an explicit value: components receive it as a parameter and
// never read the file from an ambient location. A regeneration fully
// replaces the file; nothing is merged incrementally.
package desired

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	wserrors "github.com/systmms/wsops/internal/errors"
	"github.com/systmms/wsops/internal/roster"
)

// Attendee is one entry in the desired-state map.
type Attendee struct {
	Email           string `json:"email"`
	FirstName       string `json:"first_name"`
	LastName        string `json:"last_name"`
	Company         string `json:"company"`
	NamespaceSuffix string `json:"namespace_suffix"`
}

// Plan is the desired state for one workshop generation, keyed by
// attendee ID.
type Plan struct {
	Attendees map[string]Attendee `json:"attendees"`
}

// Build assembles a Plan from assigned identities. Two records mapping to
// the same ID means duplicate emails in the export; that is surfaced as a
// validation error rather than a silent last-write-wins overwrite.
func Build(identities []roster.Identity) (*Plan, error) {
	plan := &Plan{Attendees: make(map[string]Attendee, len(identities))}
	for _, id := range identities {
		if prev, dup := plan.Attendees[id.ID]; dup {
			return nil, wserrors.ConfigError{
				Field:      "attendees",
				Value:      id.ID,
				Message:    fmt.Sprintf("duplicate attendee id for emails %q and %q", prev.Email, id.Email),
				Suggestion: "Remove the duplicate row from the roster export and rerun 'wsops prepare'",
			}
		}
		plan.Attendees[id.ID] = Attendee{
			Email:           id.Email,
			FirstName:       id.FirstName,
			LastName:        id.LastName,
			Company:         id.Company,
			NamespaceSuffix: id.Suffix,
		}
	}
	return plan, nil
}

// Encode renders the plan as the Terraform variable file payload. Map keys
// marshal in sorted order, so the same plan always yields the same bytes.
func (p *Plan) Encode() ([]byte, error) {
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode desired state: %w", err)
	}
	return append(data, '\n'), nil
}

// WriteFile writes the plan to path, replacing any previous generation.
func (p *Plan) WriteFile(path string) error {
	data, err := p.Encode()
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write desired state to %s: %w", path, err)
	}
	return nil
}

// IDs returns the attendee IDs in sorted order.
func (p *Plan) IDs() []string {
	ids := make([]string, 0, len(p.Attendees))
	for id := range p.Attendees {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Namespace returns the namespace name (without parent) for one attendee,
// falling back to the lowercased first name when the suffix is missing.
func Namespace(prefix string, a Attendee) string {
	suffix := a.NamespaceSuffix
	if suffix == "" {
		suffix = strings.ToLower(a.FirstName)
	}
	return prefix + suffix
}

// ExpectedNamespaces returns the sorted set of namespace names that should
// exist for this plan.
func (p *Plan) ExpectedNamespaces(prefix string) []string {
	set := map[string]bool{}
	for _, a := range p.Attendees {
		set[Namespace(prefix, a)] = true
	}
	names := make([]string, 0, len(set))
	for name := range set {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

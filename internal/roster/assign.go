package roster

import (
	"fmt"
	"strings"

	"github.com/systmms/wsops/internal/logging"
)

// Assign derives identities and namespace suffixes for the attendees, in
// input order.
//
// Suffix rules: an attendee whose lowercased first name is unique gets
// that name alone; every member of a shared-first-name group gets
// first-lastinitial. If two attendees still collide (same first name and
// same last initial), later members get a numeric disambiguator in input
// order (raymon-e, raymon-e2, ...). Each shared group and each deeper
// collision is logged before the result is returned.
func Assign(attendees []Attendee, logger *logging.Logger) []Identity {
	identities := make([]Identity, len(attendees))
	byFirst := map[string][]int{}

	for i, a := range attendees {
		firstLower := strings.ToLower(strings.TrimSpace(a.FirstName))
		lastInitial := ""
		if trimmed := strings.TrimSpace(a.LastName); trimmed != "" {
			lastInitial = strings.ToLower(trimmed[:1])
		}
		identities[i] = Identity{
			Attendee:    a,
			ID:          DeriveID(a.Email),
			FirstLower:  firstLower,
			LastInitial: lastInitial,
		}
		byFirst[firstLower] = append(byFirst[firstLower], i)
	}

	for i := range identities {
		id := &identities[i]
		if len(byFirst[id.FirstLower]) == 1 {
			id.Suffix = id.FirstLower
			continue
		}
		id.Suffix = id.FirstLower + "-" + id.LastInitial
	}

	for first, group := range byFirst {
		if len(group) > 1 && logger != nil {
			logger.Warn("duplicate first name %q shared by %d attendees; using last-initial suffixes", first, len(group))
		}
	}

	dedupe(identities, logger)
	return identities
}

// dedupe resolves suffixes that are still duplicated after the
// last-initial pass (same first name and same last initial). The first
// holder keeps the suffix; later ones get the lowest free numeric tail.
func dedupe(identities []Identity, logger *logging.Logger) {
	taken := map[string]bool{}
	for i := range identities {
		id := &identities[i]
		if !taken[id.Suffix] {
			taken[id.Suffix] = true
			continue
		}
		resolved := ""
		for n := 2; ; n++ {
			candidate := fmt.Sprintf("%s%d", id.Suffix, n)
			if !taken[candidate] {
				resolved = candidate
				break
			}
		}
		if logger != nil {
			logger.Warn("namespace suffix collision for %s (%s %s); assigning %q", id.Email, id.FirstName, id.LastName, resolved)
		}
		id.Suffix = resolved
		taken[resolved] = true
	}
}

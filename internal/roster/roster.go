// Package roster turns the raw attendee export into unique, stable
// identifiers and namespace suffixes.
package roster

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	wserrors "github.com/systmms/wsops/internal/errors"
)

// Attendee is one raw record from the registration export.
type Attendee struct {
	FirstName string
	LastName  string
	Email     string
	Company   string
}

// Identity is the derived, collision-free identity for one attendee.
type Identity struct {
	Attendee

	// ID is a deterministic function of the email address: lowercase,
	// '@' becomes "-at-", any other non-alphanumeric rune becomes '-'.
	// See DeriveID for the collision caveat.
	ID string

	FirstLower  string
	LastInitial string

	// Suffix is the namespace suffix, unique within one assignment run.
	Suffix string
}

// Parse reads the attendee CSV export. The header row must contain
// first_name, last_name, and email columns; company is optional. A record
// with an empty email is malformed input and fails the parse.
func Parse(r io.Reader) ([]Attendee, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, wserrors.ConfigError{
			Field:      "roster",
			Message:    "failed to read roster header: " + err.Error(),
			Suggestion: "Export the attendee list as CSV with a first_name,last_name,email header",
		}
	}

	cols := map[string]int{}
	for i, name := range header {
		cols[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, required := range []string{"first_name", "last_name", "email"} {
		if _, ok := cols[required]; !ok {
			return nil, wserrors.ConfigError{
				Field:      "roster",
				Message:    fmt.Sprintf("roster is missing the %q column", required),
				Suggestion: "Expected header: first_name,last_name,email,company",
			}
		}
	}

	field := func(record []string, name string) string {
		idx, ok := cols[name]
		if !ok || idx >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[idx])
	}

	var attendees []Attendee
	row := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		row++
		if err != nil {
			return nil, wserrors.ConfigError{
				Field:   "roster",
				Message: fmt.Sprintf("malformed CSV at row %d: %v", row, err),
			}
		}

		a := Attendee{
			FirstName: field(record, "first_name"),
			LastName:  field(record, "last_name"),
			Email:     field(record, "email"),
			Company:   field(record, "company"),
		}
		if a.Email == "" {
			return nil, wserrors.ConfigError{
				Field:      "roster",
				Message:    fmt.Sprintf("row %d has no email address", row),
				Suggestion: "Every attendee record needs an email; fix the export and rerun",
			}
		}
		attendees = append(attendees, a)
	}

	return attendees, nil
}

// DeriveID computes the attendee identifier from an email address. Distinct
// emails almost always yield distinct IDs, but the mapping is not injective
// (every punctuation rune except '@' folds to '-'); a residual collision is
// caught by the duplicate-ID validation at plan build.
func DeriveID(email string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(email) {
		switch {
		case r == '@':
			b.WriteString("-at-")
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		default:
			b.WriteRune('-')
		}
	}
	return b.String()
}

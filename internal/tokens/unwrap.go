package tokens

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	wserrors "github.com/systmms/wsops/internal/errors"
)

// TokenEnvVar is consulted when no token argument is given.
const TokenEnvVar = "WSOPS_WRAPPED_TOKEN"

// Unwrapper is the single cluster operation redemption needs.
type Unwrapper interface {
	Unwrap(ctx context.Context, token string) (map[string]interface{}, error)
}

// Shape tags the recognized unwrap payload layouts. Wrap sources differ
// (a KV-v2 secret versus an arbitrary wrapped response), so the payload is
// a tagged variant rather than ad-hoc field probing.
type Shape int

const (
	// ShapeKVv2 is the nested KV-v2 layout: data.data.{attendee,email,quote}.
	ShapeKVv2 Shape = iota
	// ShapeFlat is the flat layout: data.{attendee,email,quote}.
	ShapeFlat
	// ShapeRaw is anything else; rendered verbatim.
	ShapeRaw
)

// Payload is the parsed result of one unwrap.
type Payload struct {
	Shape    Shape
	Attendee string
	Email    string
	Quote    string
	Raw      map[string]interface{}
}

// Reveal redeems the token once and parses the result. The unwrap call is
// never retried: a wrap token is single-use, so a failure means the token
// is gone and a fresh one must be issued.
func Reveal(ctx context.Context, u Unwrapper, token string) (Payload, error) {
	data, err := u.Unwrap(ctx, token)
	if err != nil {
		return Payload{}, err
	}
	return ParsePayload(data), nil
}

// ParsePayload classifies the unwrap response into one of the known shapes.
func ParsePayload(data map[string]interface{}) Payload {
	if nested, ok := data["data"].(map[string]interface{}); ok {
		if p, matched := storyFields(nested); matched {
			p.Shape = ShapeKVv2
			p.Raw = data
			return p
		}
	}
	if p, matched := storyFields(data); matched {
		p.Shape = ShapeFlat
		p.Raw = data
		return p
	}
	return Payload{Shape: ShapeRaw, Raw: data}
}

// storyFields extracts the story fields from a candidate map. A map
// matches when at least one of the three fields is present as a string.
func storyFields(m map[string]interface{}) (Payload, bool) {
	p := Payload{}
	matched := false
	if v, ok := m["attendee"].(string); ok {
		p.Attendee = v
		matched = true
	}
	if v, ok := m["email"].(string); ok {
		p.Email = v
		matched = true
	}
	if v, ok := m["quote"].(string); ok {
		p.Quote = v
		matched = true
	}
	return p, matched
}

// Render formats the payload for the attendee's terminal.
func (p Payload) Render() string {
	if p.Shape == ShapeRaw {
		data, err := json.MarshalIndent(p.Raw, "", "  ")
		if err != nil {
			return fmt.Sprintf("%v", p.Raw)
		}
		return string(data)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Attendee: %s\n", p.Attendee)
	fmt.Fprintf(&sb, "Email:    %s\n", p.Email)
	fmt.Fprintf(&sb, "Quote:    %s\n", p.Quote)
	return sb.String()
}

// ResolveToken finds the wrapped token, in priority order: the command
// argument, the WSOPS_WRAPPED_TOKEN environment variable, then a single
// line piped on stdin.
func ResolveToken(arg string, getenv func(string) string, stdin io.Reader) (string, error) {
	if tok := strings.TrimSpace(arg); tok != "" {
		return tok, nil
	}
	if tok := strings.TrimSpace(getenv(TokenEnvVar)); tok != "" {
		return tok, nil
	}
	if stdin != nil {
		scanner := bufio.NewScanner(stdin)
		if scanner.Scan() {
			if tok := strings.TrimSpace(scanner.Text()); tok != "" {
				return tok, nil
			}
		}
	}
	return "", wserrors.ConfigError{
		Field:      "token",
		Message:    "no wrapped token provided",
		Suggestion: "Pass the token as an argument, set " + TokenEnvVar + ", or pipe it on stdin",
	}
}

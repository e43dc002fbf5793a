package nuke

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	wserrors "github.com/systmms/wsops/internal/errors"
)

// AllowEnvVar must be explicitly true before any deletion may run. Its
// absence is a hard stop, not a prompt.
const AllowEnvVar = "WSOPS_ALLOW_NUKE"

// ConfirmPhrase is the exact text the operator must type.
const ConfirmPhrase = "nuke the workshop"

// Allowed checks the environment allow-flag. This check never prompts: a
// missing or falsy flag fails immediately so automation cannot hang.
func Allowed(getenv func(string) string) error {
	raw := getenv(AllowEnvVar)
	if raw == "" {
		return wserrors.ConfirmationError{
			Message:    AllowEnvVar + " is not set; refusing to delete anything",
			Suggestion: "Export " + AllowEnvVar + "=true to arm the nuke command",
		}
	}
	allowed, err := strconv.ParseBool(raw)
	if err != nil || !allowed {
		return wserrors.ConfirmationError{
			Message:    fmt.Sprintf("%s=%q does not arm deletion; refusing to delete anything", AllowEnvVar, raw),
			Suggestion: "Export " + AllowEnvVar + "=true to arm the nuke command",
		}
	}
	return nil
}

// Confirm requires the operator to type the confirmation phrase exactly.
// In non-interactive mode it fails closed instead of waiting on a prompt
// that nothing will answer.
func Confirm(in io.Reader, out io.Writer, nonInteractive bool) error {
	if nonInteractive {
		return wserrors.ConfirmationError{
			Message:    "cannot prompt for confirmation in non-interactive mode",
			Suggestion: "Rerun interactively, or use --dry-run to inspect the plan",
		}
	}

	fmt.Fprintf(out, "Type %q to confirm deletion: ", ConfirmPhrase)
	scanner := bufio.NewScanner(in)
	if !scanner.Scan() {
		return wserrors.ConfirmationError{Message: "no confirmation received"}
	}
	if strings.TrimSpace(scanner.Text()) != ConfirmPhrase {
		return wserrors.ConfirmationError{
			Message: "confirmation text did not match; nothing was deleted",
		}
	}
	return nil
}

package s3270

import (
	"strings"

	"github.com/termscript/go-s3270/status"
)

// Command is a single scripting instruction and the decoder of its reply.
//
// A Command value carries its own accumulation state for one execution and
// must not be executed twice or concurrently.
type Command[V any] interface {
	// Encode returns the command line without terminator, e.g. "MoveCursor(0,0)".
	Encode() string
	// HandleData receives each data line of the reply, prefix stripped, in arrival order.
	HandleData(line string)
	// Output returns the typed result. It is only called after the reply was accepted.
	Output() V
}

// OutcomeHandler is implemented by commands that turn the reply outcome into
// their own result. For such commands the error outcome is not a failure.
type OutcomeHandler interface {
	HandleOutcome(outcome Outcome)
}

// StatusHandler is implemented by commands that inspect the status line of their reply.
// ok is false when the status line did not match the status grammar.
type StatusHandler interface {
	HandleStatus(st status.Status, ok bool)
}

// FormatCommand builds a command line of the form Name(arg1,arg2,...).
func FormatCommand(name string, args ...string) string {
	var sb strings.Builder

	sb.Grow(len(name) + 2 + 8*len(args))
	sb.WriteString(name)
	sb.WriteByte('(')
	for i, arg := range args {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(arg)
	}
	sb.WriteByte(')')

	return sb.String()
}

var quoteReplacer = strings.NewReplacer(
	`\`, `\\`,
	`"`, `\"`,
	"\n", `\n`,
	"\r", `\r`,
	"\t", `\t`,
)

// QuoteString returns s as a double quoted command argument.
func QuoteString(s string) string {
	return `"` + quoteReplacer.Replace(s) + `"`
}

// Discard is embedded by commands that have no data and no result.
type Discard struct{}

// HandleData ignores data lines.
func (Discard) HandleData(string) {}

// Output returns the empty result.
func (Discard) Output() struct{} { return struct{}{} }

// Succeeded is embedded by commands whose result is whether the host answered ok.
type Succeeded struct {
	ok bool
}

// HandleData ignores data lines.
func (*Succeeded) HandleData(string) {}

// HandleOutcome records the outcome.
func (s *Succeeded) HandleOutcome(outcome Outcome) { s.ok = outcome == OutcomeOK }

// Output reports whether the host answered ok.
func (s *Succeeded) Output() bool { return s.ok }

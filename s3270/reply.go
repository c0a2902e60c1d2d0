package s3270

import (
	"strings"

	"github.com/termscript/go-s3270/internal/util"
	"github.com/termscript/go-s3270/status"
)

// Wire markers of a reply.
const (
	// DataPrefix starts every data line of a reply.
	DataPrefix = "data:"

	// OKLine is the outcome line of a successful command.
	OKLine = "ok"

	// ErrorLine is the outcome line of a failed command.
	ErrorLine = "error"
)

// Outcome is the final token of a reply.
type Outcome uint8

const (
	// OutcomeOK means the host completed the command.
	OutcomeOK Outcome = iota
	// OutcomeError means the host rejected or failed the command.
	OutcomeError
)

// String returns the wire form of o.
func (o Outcome) String() string {
	if o == OutcomeOK {
		return OKLine
	}

	return ErrorLine
}

// ParseOutcome decodes an outcome line.
func ParseOutcome(line string) (Outcome, bool) {
	switch line {
	case OKLine:
		return OutcomeOK, true
	case ErrorLine:
		return OutcomeError, true
	default:
		return OutcomeError, false
	}
}

// IsOutcomeLine reports whether line terminates a reply.
func IsOutcomeLine(line string) bool {
	_, ok := ParseOutcome(line)
	return ok
}

// IsDataLine reports whether line carries command data.
func IsDataLine(line string) bool {
	return strings.HasPrefix(line, DataPrefix)
}

// TrimData strips the data prefix and the single space following it.
func TrimData(line string) string {
	line = strings.TrimPrefix(line, DataPrefix)
	return strings.TrimPrefix(line, " ")
}

// Reply is a framed host reply.
type Reply struct {
	// Data holds the data lines, prefix stripped, in arrival order.
	Data []string
	// StatusLine is the raw status line preceding the outcome.
	StatusLine string
	// Outcome is the final token of the reply.
	Outcome Outcome
}

// Status parses the status line of the reply.
func (r Reply) Status() (status.Status, bool) {
	return status.TryParse(r.StatusLine)
}

// DecodeReply frames the raw lines of one reply: data lines, then exactly one
// status line, then the outcome line as the last element.
func DecodeReply(lines []string) (Reply, error) {
	n := len(lines)
	if n == 0 {
		return Reply{}, malformed("empty reply")
	}

	outcome, ok := ParseOutcome(lines[n-1])
	if !ok {
		return Reply{}, malformed("reply does not end with an outcome line, got %q", lines[n-1])
	}

	if n < 2 {
		return Reply{}, malformed("missing status line before %q", lines[n-1])
	}

	statusLine := lines[n-2]
	if IsDataLine(statusLine) || IsOutcomeLine(statusLine) {
		return Reply{}, malformed("expected status line before %q, got %q", lines[n-1], statusLine)
	}

	data := make([]string, 0, n-2)
	for _, line := range lines[:n-2] {
		if !IsDataLine(line) {
			return Reply{}, malformed("unexpected line %q before status line", line)
		}
		data = append(data, TrimData(line))
	}

	return Reply{
		Data:       data,
		StatusLine: statusLine,
		Outcome:    outcome,
	}, nil
}

// Deliver hands a framed reply to cmd and returns its result.
//
// On the error outcome it returns a *CommandError without calling Output,
// unless cmd implements OutcomeHandler.
func Deliver[V any](cmd Command[V], reply Reply) (V, error) {
	var zero V

	handler, handlesOutcome := cmd.(OutcomeHandler)
	if reply.Outcome != OutcomeOK && !handlesOutcome {
		return zero, &CommandError{
			Command:    cmd.Encode(),
			Data:       util.CloneSlice(reply.Data, 0),
			StatusLine: reply.StatusLine,
		}
	}

	for _, line := range reply.Data {
		cmd.HandleData(line)
	}

	if sh, ok := cmd.(StatusHandler); ok {
		sh.HandleStatus(reply.Status())
	}

	if handlesOutcome {
		handler.HandleOutcome(reply.Outcome)
	}

	return cmd.Output(), nil
}

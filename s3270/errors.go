package s3270

import (
	"errors"
	"fmt"
	"strings"
)

// Connection-level errors.
var (
	// ErrConnectTimeout indicates the connect retry budget was exhausted before the
	// host's scripting port accepted a connection.
	ErrConnectTimeout = errors.New("s3270: connect retry budget exhausted")

	// ErrNotConnected indicates an operation was attempted without a live connection.
	ErrNotConnected = errors.New("s3270: not connected")

	// ErrAlreadyConnected indicates connect was called while already connected.
	ErrAlreadyConnected = errors.New("s3270: already connected")

	// ErrConnConfigNil indicates that a nil connection config was provided.
	ErrConnConfigNil = errors.New("s3270: connection config is nil")
)

// Command-level errors.
var (
	// ErrCommandFailed indicates the host answered a command with the error outcome.
	// Errors of type *CommandError match it with errors.Is.
	ErrCommandFailed = errors.New("s3270: command failed")

	// ErrMalformedReply indicates the reply stream ended or broke the framing rules
	// before an outcome line arrived.
	ErrMalformedReply = errors.New("s3270: malformed reply")

	// ErrLineTooLong indicates a reply line exceeded the configured maximum length.
	ErrLineTooLong = errors.New("s3270: reply line too long")

	// ErrReplyTimeout indicates the configured read timeout expired while waiting for a reply.
	ErrReplyTimeout = errors.New("s3270: reply timeout")

	// ErrNotASCII indicates an outgoing command contained bytes outside 7-bit ASCII.
	ErrNotASCII = errors.New("s3270: command is not 7-bit ASCII")

	// ErrInvalidCommand indicates an outgoing command would not fit on a single line.
	ErrInvalidCommand = errors.New("s3270: command contains a line break")
)

// CommandError is returned when the host answers a command with the error outcome.
type CommandError struct {
	// Command is the encoded command line.
	Command string
	// Data holds the data lines received before the outcome, usually the host's error message.
	Data []string
	// StatusLine is the raw status line of the reply.
	StatusLine string
}

// Error implements the error interface.
func (e *CommandError) Error() string {
	if len(e.Data) == 0 {
		return fmt.Sprintf("s3270: command %s failed", e.Command)
	}

	return fmt.Sprintf("s3270: command %s failed: %s", e.Command, strings.Join(e.Data, "; "))
}

// Is reports whether target is ErrCommandFailed.
func (e *CommandError) Is(target error) bool {
	return target == ErrCommandFailed
}

func malformed(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrMalformedReply, fmt.Sprintf(format, args...))
}

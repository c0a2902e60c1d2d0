package scriptconn

import (
	"errors"
	"fmt"
	"strings"

	"github.com/termscript/go-s3270/s3270"
)

// Execute sends cmd over c, waits for its whole reply and returns the command's result.
//
// A reply ending in "error" fails with a *s3270.CommandError unless cmd
// implements s3270.OutcomeHandler. A reply that breaks the framing rules fails
// with an error matching s3270.ErrMalformedReply. Failed commands are never
// retried.
//
// Execute must not be called concurrently on the same connection.
func Execute[V any](c *Connection, cmd s3270.Command[V]) (V, error) {
	var zero V

	line := cmd.Encode()
	if err := c.SendLine(line); err != nil {
		return zero, err
	}
	c.metrics.incCommandSendCount(commandName(line))

	lines, err := c.ReadReplyUntil(s3270.IsOutcomeLine)
	if err != nil {
		if errors.Is(err, s3270.ErrMalformedReply) {
			c.metrics.incMalformedReplyCount()
		}
		c.logger.Debug("s3270: failed to read reply", "command", line, "lines", len(lines), "error", err)

		return zero, fmt.Errorf("s3270: execute %s: %w", line, err)
	}

	reply, err := s3270.DecodeReply(lines)
	if err != nil {
		c.metrics.incMalformedReplyCount()
		c.logger.Warn("s3270: malformed reply", "command", line, "lines", lines, "error", err)

		return zero, fmt.Errorf("s3270: execute %s: %w", line, err)
	}

	c.recordStatus(reply)
	c.metrics.addDataLineRecvCount(len(reply.Data))
	if reply.Outcome == s3270.OutcomeOK {
		c.metrics.incCommandOKCount()
	} else {
		c.metrics.incCommandErrCount()
	}

	c.logger.Debug("s3270: command executed",
		"command", line,
		"outcome", reply.Outcome.String(),
		"dataLines", len(reply.Data))

	return s3270.Deliver(cmd, reply)
}

// commandName returns the action name of an encoded command line.
func commandName(line string) string {
	if i := strings.IndexByte(line, '('); i >= 0 {
		return line[:i]
	}

	return line
}

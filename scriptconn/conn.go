package scriptconn

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/termscript/go-s3270/internal/pool"
	"github.com/termscript/go-s3270/internal/util"
	"github.com/termscript/go-s3270/logger"
	"github.com/termscript/go-s3270/s3270"
	"github.com/termscript/go-s3270/status"
)

const tcpKeepAlive = 30 * time.Second

// Connection is a client of the scripting port of a terminal emulator.
//
// It owns one TCP socket and the line reader and writer built on it. The
// reader and writer are non-nil exactly while the socket is open.
//
// The scripting protocol has no request ids, so only one command may be in
// flight at a time. Connection does not serialize Execute, SendLine or
// ReadReplyUntil; callers issuing commands from several goroutines must do
// so themselves. Disconnect may be called from any goroutine and aborts a
// blocked read.
type Connection struct {
	pctx      context.Context
	cfg       *ConnectionConfig
	logger    logger.Logger
	sessionID uuid.UUID

	// mu guards the handle fields below, not the command exchange.
	mu         sync.Mutex
	tcpConn    net.Conn
	reader     *bufio.Reader
	writer     *bufio.Writer
	lastStatus status.Status
	hasStatus  bool

	metrics *ConnectionMetrics
}

// NewConnection creates a new scripting connection with the given context and configuration.
//
// The connection is not opened; call Connect. Cancelling ctx aborts a running
// Connect but does not close an established socket.
func NewConnection(ctx context.Context, cfg *ConnectionConfig) (*Connection, error) {
	if cfg == nil {
		return nil, s3270.ErrConnConfigNil
	}

	id := uuid.New()

	return &Connection{
		pctx:      ctx,
		cfg:       cfg,
		logger:    cfg.logger.With("session", id.String()),
		sessionID: id,
		metrics:   newConnectionMetrics(),
	}, nil
}

// Connect opens the socket to the scripting port.
//
// The emulator may not be listening yet, so Connect dials up to
// ConnectAttempts times, pausing ConnectRetryInterval between attempts.
// Failed attempts are only logged at trace level. When the budget is
// exhausted the returned error matches s3270.ErrConnectTimeout and wraps the
// last dial error.
//
// It returns s3270.ErrAlreadyConnected when the socket is already open, and
// the context error when the connection's context is cancelled.
func (c *Connection) Connect() error {
	if c.IsConnected() {
		return s3270.ErrAlreadyConnected
	}

	address := c.cfg.Addr()
	dialer := &net.Dialer{KeepAlive: tcpKeepAlive}

	c.metrics.resetConnRetryGauge()

	var lastErr error
	for attempt := 1; attempt <= c.cfg.connectAttempts; attempt++ {
		if attempt > 1 {
			c.metrics.incConnRetryGauge()
			if err := pool.Sleep(c.pctx, c.cfg.connectRetryInterval); err != nil {
				return fmt.Errorf("s3270: connect to %s aborted: %w", address, err)
			}
		}

		conn, err := c.dial(dialer, address)
		if err != nil {
			if ctxErr := c.pctx.Err(); ctxErr != nil {
				return fmt.Errorf("s3270: connect to %s aborted: %w", address, ctxErr)
			}

			c.logger.Trace("s3270: dial failed", "address", address, "attempt", attempt, "error", err)
			lastErr = err

			continue
		}

		c.mu.Lock()
		if c.tcpConn != nil {
			c.mu.Unlock()
			_ = conn.Close()

			return s3270.ErrAlreadyConnected
		}
		c.setupConn(conn)
		c.mu.Unlock()

		c.metrics.resetConnRetryGauge()
		c.logger.Debug("s3270: connected",
			"attempt", attempt,
			"localAddr", conn.LocalAddr(),
			"remoteAddr", conn.RemoteAddr())

		return nil
	}

	return fmt.Errorf("%w: %s after %d attempts: %w", s3270.ErrConnectTimeout, address, c.cfg.connectAttempts, lastErr)
}

func (c *Connection) dial(dialer *net.Dialer, address string) (net.Conn, error) {
	c.metrics.incConnectAttemptCount()

	dialCtx, cancel := context.WithTimeout(c.pctx, c.cfg.dialTimeout)
	defer cancel()

	return dialer.DialContext(dialCtx, "tcp", address)
}

// setupConn must be called with c.mu held.
func (c *Connection) setupConn(conn net.Conn) {
	if tcpConn, ok := conn.(*net.TCPConn); ok {
		_ = tcpConn.SetNoDelay(true)
	}

	c.tcpConn = conn
	// room for the longest accepted line and its "\r\n"
	c.reader = bufio.NewReaderSize(conn, c.cfg.maxLineLength+2)
	c.writer = bufio.NewWriter(conn)
	c.hasStatus = false
}

// Disconnect releases the writer, the reader and the socket, in that order.
//
// Every step is best effort: failures are logged at debug level and never
// returned. Disconnect is idempotent and safe to call after a failed
// Connect or from another goroutine while a reply is being read.
func (c *Connection) Disconnect() {
	c.mu.Lock()
	conn := c.tcpConn
	c.writer = nil
	c.reader = nil
	c.tcpConn = nil
	c.mu.Unlock()

	if conn == nil {
		return
	}

	// SendLine flushes before returning, so the writer holds no pending bytes.
	if tcpConn, ok := conn.(*net.TCPConn); ok {
		if err := tcpConn.CloseWrite(); err != nil {
			c.logger.Debug("s3270: failed to close writer", "error", err)
		}
		if err := tcpConn.CloseRead(); err != nil {
			c.logger.Debug("s3270: failed to close reader", "error", err)
		}
	}

	if err := conn.Close(); err != nil {
		c.logger.Debug("s3270: failed to close socket", "error", err)
	}

	c.logger.Debug("s3270: disconnected", "remoteAddr", conn.RemoteAddr())
}

// IsConnected reports whether the socket is open.
func (c *Connection) IsConnected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.tcpConn != nil
}

// isCurrent reports whether conn is still the open socket of c.
func (c *Connection) isCurrent(conn net.Conn) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.tcpConn == conn
}

// SendLine writes line followed by "\n" and flushes it.
//
// The wire is 7-bit ASCII with one command per line; a line holding other
// bytes fails with s3270.ErrNotASCII and a line holding "\r" or "\n" fails
// with s3270.ErrInvalidCommand, before anything is written.
func (c *Connection) SendLine(line string) error {
	if !util.IsASCII(line) {
		return fmt.Errorf("%w: %q", s3270.ErrNotASCII, line)
	}
	if strings.ContainsAny(line, "\r\n") {
		return fmt.Errorf("%w: %q", s3270.ErrInvalidCommand, line)
	}

	c.mu.Lock()
	conn, w := c.tcpConn, c.writer
	c.mu.Unlock()

	if w == nil {
		return s3270.ErrNotConnected
	}

	if c.cfg.writeTimeout > 0 {
		if err := conn.SetWriteDeadline(time.Now().Add(c.cfg.writeTimeout)); err != nil {
			c.logger.Debug("s3270: failed to set write deadline", "error", err)
		}
		defer c.clearDeadline(conn.SetWriteDeadline, "write")
	}

	if _, err := w.WriteString(line + "\n"); err != nil {
		return fmt.Errorf("s3270: send %q: %w", line, err)
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("s3270: send %q: %w", line, err)
	}

	c.logger.Trace("s3270: line sent", "line", line)

	return nil
}

func (c *Connection) clearDeadline(set func(time.Time) error, kind string) {
	if err := set(time.Time{}); err != nil {
		c.logger.Debug("s3270: failed to clear deadline", "kind", kind, "error", err)
	}
}

// ReadReplyUntil reads lines until done reports true for one of them.
//
// It returns every line read, including the one accepted by done, with the
// "\n" or "\r\n" terminator stripped. Bytes outside 7-bit ASCII are replaced
// with U+FFFD.
//
// When the stream ends first, the lines read so far are returned with an
// error matching s3270.ErrMalformedReply. A line longer than MaxLineLength
// fails with s3270.ErrLineTooLong, and an expired read timeout with
// s3270.ErrReplyTimeout.
func (c *Connection) ReadReplyUntil(done func(line string) bool) ([]string, error) {
	c.mu.Lock()
	conn, r := c.tcpConn, c.reader
	c.mu.Unlock()

	if r == nil {
		return nil, s3270.ErrNotConnected
	}

	if c.cfg.readTimeout > 0 {
		if err := conn.SetReadDeadline(time.Now().Add(c.cfg.readTimeout)); err != nil {
			c.logger.Debug("s3270: failed to set read deadline", "error", err)
		}
		defer c.clearDeadline(conn.SetReadDeadline, "read")
	}

	var lines []string
	for {
		line, err := c.readLine(r)
		if err != nil {
			if !c.isCurrent(conn) {
				err = fmt.Errorf("%w: %w", s3270.ErrNotConnected, err)
			}

			return lines, err
		}

		c.logger.Trace("s3270: line received", "line", line)
		lines = append(lines, line)

		if done(line) {
			return lines, nil
		}
	}
}

// readLine returns the next line without its terminator. A final line cut
// short by the end of the stream is returned as is; the end of the stream
// surfaces on the following call.
func (c *Connection) readLine(r *bufio.Reader) (string, error) {
	buf, err := r.ReadSlice('\n')
	switch {
	case err == nil:
		buf = buf[:len(buf)-1]
	case errors.Is(err, bufio.ErrBufferFull):
		return "", fmt.Errorf("%w: %w: longer than %d bytes", s3270.ErrMalformedReply, s3270.ErrLineTooLong, c.cfg.maxLineLength)
	case errors.Is(err, io.EOF):
		if len(buf) == 0 {
			return "", fmt.Errorf("%w: connection closed before the outcome line: %w", s3270.ErrMalformedReply, err)
		}
	case errors.Is(err, os.ErrDeadlineExceeded):
		return "", fmt.Errorf("%w: %w", s3270.ErrReplyTimeout, err)
	default:
		return "", fmt.Errorf("s3270: read reply: %w", err)
	}

	line := strings.TrimSuffix(string(buf), "\r")
	if len(line) > c.cfg.maxLineLength {
		return "", fmt.Errorf("%w: %w: longer than %d bytes", s3270.ErrMalformedReply, s3270.ErrLineTooLong, c.cfg.maxLineLength)
	}

	return util.ReplaceNonASCII(line), nil
}

// LastStatus returns the status line of the most recent framed reply.
// ok is false before the first reply, after Connect, or when the line did not
// match the status grammar.
func (c *Connection) LastStatus() (status.Status, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.lastStatus, c.hasStatus
}

func (c *Connection) recordStatus(reply s3270.Reply) {
	st, ok := reply.Status()

	c.mu.Lock()
	c.lastStatus, c.hasStatus = st, ok
	c.mu.Unlock()

	if !ok {
		c.logger.Debug("s3270: unparsable status line", "line", reply.StatusLine)
	}
}

// Addr returns the dial address of the scripting port.
func (c *Connection) Addr() string { return c.cfg.Addr() }

// SessionID returns the random id attached to every log entry of this connection.
func (c *Connection) SessionID() uuid.UUID { return c.sessionID }

// GetMetrics returns the connection metrics.
func (c *Connection) GetMetrics() *ConnectionMetrics { return c.metrics }

// GetLogger returns the connection logger.
func (c *Connection) GetLogger() logger.Logger { return c.logger }

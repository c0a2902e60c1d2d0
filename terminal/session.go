// Package terminal offers screen level operations, such as filling a field
// or waiting for the keyboard to unlock, on top of a scripting connection.
//
// A Session serializes its operations, so unlike a bare
// scriptconn.Connection it may be shared by several goroutines. Composite
// operations like FillField are not atomic on the host: a failure part way
// leaves the screen partly modified.
package terminal

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/termscript/go-s3270/command"
	"github.com/termscript/go-s3270/s3270"
	"github.com/termscript/go-s3270/scriptconn"
	"github.com/termscript/go-s3270/status"
)

// Session drives one emulator through its scripting connection.
type Session struct {
	mu     sync.Mutex
	conn   *scriptconn.Connection
	closed atomic.Bool
}

// Open connects to the scripting port described by cfg and returns a Session on it.
// The emulator must already be running; Open only retries as configured in cfg.
func Open(ctx context.Context, cfg *scriptconn.ConnectionConfig) (*Session, error) {
	conn, err := scriptconn.NewConnection(ctx, cfg)
	if err != nil {
		return nil, err
	}

	if err := conn.Connect(); err != nil {
		return nil, err
	}

	return &Session{conn: conn}, nil
}

// NewSession wraps an already connected connection.
func NewSession(conn *scriptconn.Connection) *Session {
	return &Session{conn: conn}
}

// Close disconnects the scripting connection. A command blocked on its reply
// is aborted. Close is idempotent; every later call fails with
// s3270.ErrNotConnected.
func (s *Session) Close() {
	s.closed.Store(true)
	s.conn.Disconnect()
}

// Conn returns the underlying connection.
func (s *Session) Conn() *scriptconn.Connection { return s.conn }

// Status returns the status line of the most recent reply.
func (s *Session) Status() (status.Status, bool) { return s.conn.LastStatus() }

// Run executes any command on the session, serialized with the other operations.
func Run[V any](s *Session, cmd s3270.Command[V]) (V, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return exec(s, cmd)
}

// exec must be called with s.mu held.
func exec[V any](s *Session, cmd s3270.Command[V]) (V, error) {
	if s.closed.Load() {
		var zero V
		return zero, s3270.ErrNotConnected
	}

	return scriptconn.Execute(s.conn, cmd)
}

// Wait waits in the emulator until cond holds. It reports false when the
// host's timeout expired first. timeoutSeconds <= 0 uses the host default.
func (s *Session) Wait(cond command.WaitCondition, timeoutSeconds int) (bool, error) {
	return Run[bool](s, command.NewWait(cond, timeoutSeconds))
}

// WaitUnlock waits until the keyboard is unlocked.
func (s *Session) WaitUnlock(timeoutSeconds int) (bool, error) {
	return s.Wait(command.WaitUnlock, timeoutSeconds)
}

// WaitField waits until the screen has an input field.
func (s *Session) WaitField(timeoutSeconds int) (bool, error) {
	return s.Wait(command.WaitInputField, timeoutSeconds)
}

// WaitNVTMode waits until the emulator is in NVT mode.
func (s *Session) WaitNVTMode(timeoutSeconds int) (bool, error) {
	return s.Wait(command.WaitNVTMode, timeoutSeconds)
}

// ExpectText waits until text appears on the screen and fails otherwise.
func (s *Session) ExpectText(text string) error {
	_, err := Run[struct{}](s, command.NewExpectText(text))
	return err
}

// ExpectTextTimeout waits until text appears on the screen; it reports false
// when the host's timeout expired first.
func (s *Session) ExpectTextTimeout(text string, timeoutSeconds int) (bool, error) {
	return Run[bool](s, command.NewExpectTextTimeout(text, timeoutSeconds))
}

// FillField replaces the content of the input field at the 1-based position
// row, col with text. It moves the cursor, deletes the field and types text,
// stopping at the first failing step.
func (s *Session) FillField(row, col int, text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := exec[struct{}](s, command.NewMoveCursor(row, col)); err != nil {
		return err
	}

	if _, err := exec[struct{}](s, command.NewSendKeys(command.DeleteField)); err != nil {
		s.conn.GetLogger().Debug("s3270: fill field interrupted", "step", "DeleteField", "row", row, "col", col, "error", err)
		return err
	}

	if _, err := exec[struct{}](s, command.NewSendString(text)); err != nil {
		s.conn.GetLogger().Debug("s3270: fill field interrupted", "step", "String", "row", row, "col", col, "error", err)
		return err
	}

	return nil
}

// GetText reads length characters at the 1-based position row, col.
func (s *Session) GetText(row, col, length int) (string, error) {
	return Run[string](s, command.NewReadCell(row, col, length))
}

// GetRegion reads the rectangle between the 1-based corners, one string per row.
func (s *Session) GetRegion(row1, col1, row2, col2 int) ([]string, error) {
	return Run[[]string](s, command.NewReadRegion(row1, col1, row2, col2))
}

// GetTextInterval reads row from col1 to col2, both included.
func (s *Session) GetTextInterval(row, col1, col2 int) (string, error) {
	rows, err := Run[[]string](s, command.NewReadRegion(row, col1, row, col2))
	if err != nil || len(rows) == 0 {
		return "", err
	}

	return rows[0], nil
}

// ContainsText reports whether text is shown at the 1-based position row, col.
func (s *Session) ContainsText(row, col int, text string) (bool, error) {
	got, err := s.GetText(row, col, len(text))
	if err != nil {
		return false, err
	}

	return got == text, nil
}

// SendEnter presses Enter.
func (s *Session) SendEnter() error {
	return s.SendKeys(command.Enter)
}

// SendKeys presses key.
func (s *Session) SendKeys(key command.Key) error {
	_, err := Run[struct{}](s, command.NewSendKeys(key))
	return err
}

// SendPF presses the program function key PFn.
func (s *Session) SendPF(n int) error {
	_, err := Run[struct{}](s, command.NewSendPF(n))
	return err
}

// SendString types text at the cursor position.
func (s *Session) SendString(text string) error {
	_, err := Run[struct{}](s, command.NewSendString(text))
	return err
}

// PrintScreen returns the whole screen as text, each row followed by "\n".
func (s *Session) PrintScreen() (string, error) {
	return Run[string](s, command.NewPrintText())
}

// Connect asks the emulator to connect to host and reports whether it succeeded.
func (s *Session) Connect(host string) (bool, error) {
	return Run[bool](s, command.NewConnect(host))
}

// Disconnect closes the emulator's host connection and waits for it to drop.
// The scripting connection stays open; use Close to release it.
func (s *Session) Disconnect() (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := exec[struct{}](s, command.NewSendKeys(command.Disconnect)); err != nil {
		return false, err
	}

	return exec[bool](s, command.NewWait(command.WaitDisconnect, 0))
}

// IsConnected reports whether the emulator is connected to a host.
func (s *Session) IsConnected() (bool, error) {
	return Run[bool](s, command.NewIsConnected())
}

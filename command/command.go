package command

import (
	"strconv"
	"strings"

	"github.com/termscript/go-s3270/s3270"
	"github.com/termscript/go-s3270/status"
)

var (
	_ s3270.Command[struct{}] = (*MoveCursor)(nil)
	_ s3270.Command[string]   = (*ReadCell)(nil)
	_ s3270.Command[[]string] = (*ReadRegion)(nil)
	_ s3270.Command[bool]     = (*Wait)(nil)
	_ s3270.Command[struct{}] = (*ExpectText)(nil)
	_ s3270.Command[bool]     = (*ExpectTextTimeout)(nil)
	_ s3270.Command[bool]     = (*Connect)(nil)
	_ s3270.Command[bool]     = (*IsConnected)(nil)
	_ s3270.Command[struct{}] = (*SendKeys)(nil)
	_ s3270.Command[struct{}] = (*SendPF)(nil)
	_ s3270.Command[struct{}] = (*SendPA)(nil)
	_ s3270.Command[struct{}] = (*SendString)(nil)
	_ s3270.Command[string]   = (*PrintText)(nil)

	_ s3270.OutcomeHandler = (*IsConnected)(nil)
	_ s3270.StatusHandler  = (*IsConnected)(nil)
)

// MoveCursor moves the cursor to a screen position.
type MoveCursor struct {
	s3270.Discard
	row, col int
}

// NewMoveCursor creates a MoveCursor command for the 1-based position row, col.
func NewMoveCursor(row, col int) *MoveCursor {
	return &MoveCursor{row: row - 1, col: col - 1}
}

func (c *MoveCursor) Encode() string {
	return s3270.FormatCommand("MoveCursor", strconv.Itoa(c.row), strconv.Itoa(c.col))
}

// ReadCell reads length characters starting at a screen position.
type ReadCell struct {
	row, col, length int
	text             string
}

// NewReadCell creates a ReadCell command for the 1-based position row, col.
func NewReadCell(row, col, length int) *ReadCell {
	return &ReadCell{row: row - 1, col: col - 1, length: length}
}

func (c *ReadCell) Encode() string {
	return s3270.FormatCommand("Ascii", strconv.Itoa(c.row), strconv.Itoa(c.col), strconv.Itoa(c.length))
}

func (c *ReadCell) HandleData(line string) { c.text = line }

// Output returns the text read, or "" when the host sent no data line.
func (c *ReadCell) Output() string { return c.text }

// ReadRegion reads a rectangle of the screen, one string per row.
type ReadRegion struct {
	row, col, rows, cols int
	lines                []string
}

// NewReadRegion creates a ReadRegion command spanning the 1-based corners
// row1, col1 and row2, col2, both included. The corners may be given in any
// order.
func NewReadRegion(row1, col1, row2, col2 int) *ReadRegion {
	row1, row2 = min(row1, row2), max(row1, row2)
	col1, col2 = min(col1, col2), max(col1, col2)
	rows := row2 - row1 + 1

	return &ReadRegion{
		row:   row1 - 1,
		col:   col1 - 1,
		rows:  rows,
		cols:  col2 - col1 + 1,
		lines: make([]string, 0, rows),
	}
}

func (c *ReadRegion) Encode() string {
	return s3270.FormatCommand("Ascii",
		strconv.Itoa(c.row), strconv.Itoa(c.col), strconv.Itoa(c.rows), strconv.Itoa(c.cols))
}

func (c *ReadRegion) HandleData(line string) { c.lines = append(c.lines, line) }

func (c *ReadRegion) Output() []string { return c.lines }

// Wait blocks in the host until a condition holds or the host's timeout expires.
type Wait struct {
	s3270.Succeeded
	cond    WaitCondition
	timeout int
}

// NewWait creates a Wait command. A timeoutSeconds of zero or less lets the
// host apply its default timeout.
func NewWait(cond WaitCondition, timeoutSeconds int) *Wait {
	return &Wait{cond: cond, timeout: timeoutSeconds}
}

func (c *Wait) Encode() string {
	if c.timeout <= 0 {
		return s3270.FormatCommand("Wait", string(c.cond))
	}

	return s3270.FormatCommand("Wait", strconv.Itoa(c.timeout), string(c.cond))
}

// ExpectText blocks in the host until text appears on the screen.
// The error outcome fails the command.
type ExpectText struct {
	s3270.Discard
	text string
}

func NewExpectText(text string) *ExpectText {
	return &ExpectText{text: text}
}

func (c *ExpectText) Encode() string {
	return s3270.FormatCommand("Expect", s3270.QuoteString(c.text))
}

// ExpectTextTimeout is ExpectText bounded by a host side timeout.
// Its result is false when the text did not appear in time.
type ExpectTextTimeout struct {
	s3270.Succeeded
	text    string
	timeout int
}

// NewExpectTextTimeout creates an ExpectTextTimeout command. A timeoutSeconds
// of zero or less lets the host apply its default timeout.
func NewExpectTextTimeout(text string, timeoutSeconds int) *ExpectTextTimeout {
	return &ExpectTextTimeout{text: text, timeout: timeoutSeconds}
}

func (c *ExpectTextTimeout) Encode() string {
	if c.timeout <= 0 {
		return s3270.FormatCommand("Expect", s3270.QuoteString(c.text))
	}

	return s3270.FormatCommand("Expect", s3270.QuoteString(c.text), strconv.Itoa(c.timeout))
}

// Connect asks the emulator to connect to a 3270 host.
type Connect struct {
	s3270.Succeeded
	host string
}

// NewConnect creates a Connect command. host is passed as is and may carry
// the emulator's prefixes and port suffix, e.g. "L:mainframe:992".
func NewConnect(host string) *Connect {
	return &Connect{host: host}
}

func (c *Connect) Encode() string {
	return s3270.FormatCommand("Connect", c.host)
}

// IsConnected asks whether the emulator is connected to a host. The answer is
// taken from the status line of the reply.
type IsConnected struct {
	ok        bool
	connected bool
}

func NewIsConnected() *IsConnected {
	return &IsConnected{}
}

func (c *IsConnected) Encode() string {
	return s3270.FormatCommand("Query", "ConnectionState")
}

func (c *IsConnected) HandleData(string) {}

func (c *IsConnected) HandleOutcome(outcome s3270.Outcome) { c.ok = outcome == s3270.OutcomeOK }

func (c *IsConnected) HandleStatus(st status.Status, ok bool) { c.connected = ok && st.IsConnected() }

func (c *IsConnected) Output() bool { return c.ok && c.connected }

// SendKeys presses a key of the emulated keyboard.
type SendKeys struct {
	s3270.Discard
	key Key
}

func NewSendKeys(key Key) *SendKeys {
	return &SendKeys{key: key}
}

func (c *SendKeys) Encode() string {
	return s3270.FormatCommand(string(c.key))
}

// SendPF presses a program function key, PF1 to PF24.
type SendPF struct {
	s3270.Discard
	n int
}

func NewSendPF(n int) *SendPF {
	return &SendPF{n: n}
}

func (c *SendPF) Encode() string {
	return s3270.FormatCommand("PF", strconv.Itoa(c.n))
}

// SendPA presses a program attention key, PA1 to PA3.
type SendPA struct {
	s3270.Discard
	n int
}

func NewSendPA(n int) *SendPA {
	return &SendPA{n: n}
}

func (c *SendPA) Encode() string {
	return s3270.FormatCommand("PA", strconv.Itoa(c.n))
}

// SendString types text at the cursor position.
type SendString struct {
	s3270.Discard
	text string
}

func NewSendString(text string) *SendString {
	return &SendString{text: text}
}

func (c *SendString) Encode() string {
	return s3270.FormatCommand("String", s3270.QuoteString(c.text))
}

// PrintText reads the whole screen as text, one line per row.
type PrintText struct {
	sb strings.Builder
}

func NewPrintText() *PrintText {
	return &PrintText{}
}

func (c *PrintText) Encode() string {
	return s3270.FormatCommand("PrintText", "string")
}

func (c *PrintText) HandleData(line string) {
	c.sb.WriteString(line)
	c.sb.WriteByte('\n')
}

// Output returns every row followed by "\n".
func (c *PrintText) Output() string { return c.sb.String() }

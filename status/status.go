package status

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// linePattern describes the fixed prompt line written by the host after every command.
var linePattern = regexp.MustCompile(`^` +
	`([ULE]) ` + // keyboard state
	`([FU]) ` + // screen formatting
	`([UP]) ` + // protection of the field under the cursor
	`(N|C\(([^)]+)\)) ` + // host connection, with host name when connected
	`([NCLPI]) ` + // emulator mode
	`([2345]) ` + // model number
	`(\d+) ` + // rows on display
	`(\d+) ` + // cols on display
	`(\d+) ` + // cursor row, 0 based
	`(\d+) ` + // cursor col, 0 based
	`0x[0-9A-Fa-f]+ ` + // window id, ignored
	`(\d+\.\d+)` + // time of the last command, seconds
	`$`)

// submatch indexes of linePattern.
const (
	groupKeyboard = iota + 1
	groupFormatting
	groupProtection
	groupConnection
	groupHost
	groupMode
	groupModel
	groupRows
	groupCols
	groupCursorRow
	groupCursorCol
	groupCommandTime
)

// Status is the decoded status line of a host reply.
//
// A Status value is only produced by TryParse from a line that matched the
// whole grammar; its fields are never partially populated.
type Status struct {
	KeyboardLock    KeyboardLock
	Formatting      Formatting
	FieldProtection FieldProtection
	Connection      ConnectionState
	// Host is the connected host name; empty when not connected.
	Host         string
	EmulatorMode EmulatorMode
	ModelNumber  int
	ScreenRows   int
	ScreenCols   int
	// CursorRow and CursorCol are zero based.
	CursorRow int
	CursorCol int
	// CommandTime is the time the host spent on the last command.
	CommandTime time.Duration
}

// TryParse decodes a status line.
//
// It reports false when the line does not match the status grammar exactly:
// a wrong token, a missing or extra field, or a numeric field that does not fit.
// It never panics on malformed input.
func TryParse(line string) (Status, bool) {
	m := linePattern.FindStringSubmatch(line)
	if m == nil {
		return Status{}, false
	}

	var nums [4]int
	for i, g := range []int{groupRows, groupCols, groupCursorRow, groupCursorCol} {
		n, err := strconv.Atoi(m[g])
		if err != nil {
			return Status{}, false
		}
		nums[i] = n
	}

	secs, err := strconv.ParseFloat(m[groupCommandTime], 64)
	if err != nil {
		return Status{}, false
	}

	model, _ := strconv.Atoi(m[groupModel]) // [2345] always parses

	return Status{
		KeyboardLock:    mustLookup(keyboardLocks, m[groupKeyboard][0]),
		Formatting:      mustLookup(formattings, m[groupFormatting][0]),
		FieldProtection: mustLookup(fieldProtections, m[groupProtection][0]),
		Connection:      mustLookup(connectionStates, m[groupConnection][0]),
		Host:            m[groupHost],
		EmulatorMode:    mustLookup(emulatorModes, m[groupMode][0]),
		ModelNumber:     model,
		ScreenRows:      nums[0],
		ScreenCols:      nums[1],
		CursorRow:       nums[2],
		CursorCol:       nums[3],
		CommandTime:     time.Duration(math.Round(secs * float64(time.Second))),
	}, true
}

// IsKeyboardUnlocked reports whether the keyboard accepts input.
func (s Status) IsKeyboardUnlocked() bool { return s.KeyboardLock == Unlocked }

// IsConnected reports whether the emulator is connected to a host.
func (s Status) IsConnected() bool { return s.Connection == Connected }

// IsProtectedField reports whether the field under the cursor is protected.
func (s Status) IsProtectedField() bool { return s.FieldProtection == Protected }

// Is3270Mode reports whether the emulator is in 3270 mode.
func (s Status) Is3270Mode() bool { return s.EmulatorMode == Mode3270 }

// String renders s as a status line. The window id is always rendered as 0x0.
func (s Status) String() string {
	var sb strings.Builder

	sb.WriteByte(s.KeyboardLock.Code())
	sb.WriteByte(' ')
	sb.WriteByte(s.Formatting.Code())
	sb.WriteByte(' ')
	sb.WriteByte(s.FieldProtection.Code())
	sb.WriteByte(' ')
	sb.WriteByte(s.Connection.Code())
	if s.Connection == Connected {
		sb.WriteString("(" + s.Host + ")")
	}
	fmt.Fprintf(&sb, " %c %d %d %d %d %d 0x0 %.3f",
		s.EmulatorMode.Code(),
		s.ModelNumber,
		s.ScreenRows,
		s.ScreenCols,
		s.CursorRow,
		s.CursorCol,
		s.CommandTime.Seconds(),
	)

	return sb.String()
}

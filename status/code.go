package status

import "fmt"

// coded is implemented by the single-character enumerations of the status line.
type coded interface {
	~uint8
	Code() byte
}

// mustLookup resolves a wire code into its enumeration value.
// The status grammar only admits known codes, so a miss is a programming error.
func mustLookup[T coded](values []T, code byte) T {
	for _, v := range values {
		if v.Code() == code {
			return v
		}
	}

	panic(fmt.Sprintf("status: invalid code %q", code))
}

func codeAt(table []byte, i uint8) byte {
	if int(i) >= len(table) {
		return '?'
	}

	return table[i]
}

func nameAt(table []string, i uint8) string {
	if int(i) >= len(table) {
		return "unknown"
	}

	return table[i]
}

// KeyboardLock is the keyboard state field.
type KeyboardLock uint8

const (
	Unlocked KeyboardLock = iota
	Locked
	LockedForError
)

var (
	keyboardLocks     = []KeyboardLock{Unlocked, Locked, LockedForError}
	keyboardLockCodes = []byte{Unlocked: 'U', Locked: 'L', LockedForError: 'E'}
	keyboardLockNames = []string{Unlocked: "unlocked", Locked: "locked", LockedForError: "locked-for-error"}
)

// Code returns the wire code of k.
func (k KeyboardLock) Code() byte { return codeAt(keyboardLockCodes, uint8(k)) }

func (k KeyboardLock) String() string { return nameAt(keyboardLockNames, uint8(k)) }

// Formatting tells whether the screen is formatted.
type Formatting uint8

const (
	Formatted Formatting = iota
	Unformatted
)

var (
	formattings     = []Formatting{Formatted, Unformatted}
	formattingCodes = []byte{Formatted: 'F', Unformatted: 'U'}
	formattingNames = []string{Formatted: "formatted", Unformatted: "unformatted"}
)

// Code returns the wire code of f.
func (f Formatting) Code() byte { return codeAt(formattingCodes, uint8(f)) }

func (f Formatting) String() string { return nameAt(formattingNames, uint8(f)) }

// FieldProtection is the protection of the field under the cursor.
type FieldProtection uint8

const (
	Unprotected FieldProtection = iota
	Protected
)

var (
	fieldProtections     = []FieldProtection{Unprotected, Protected}
	fieldProtectionCodes = []byte{Unprotected: 'U', Protected: 'P'}
	fieldProtectionNames = []string{Unprotected: "unprotected", Protected: "protected"}
)

// Code returns the wire code of p.
func (p FieldProtection) Code() byte { return codeAt(fieldProtectionCodes, uint8(p)) }

func (p FieldProtection) String() string { return nameAt(fieldProtectionNames, uint8(p)) }

// ConnectionState is the host connection field. The host name of a
// connected emulator is kept in Status.Host.
type ConnectionState uint8

const (
	NotConnected ConnectionState = iota
	Connected
)

var (
	connectionStates     = []ConnectionState{NotConnected, Connected}
	connectionStateCodes = []byte{NotConnected: 'N', Connected: 'C'}
	connectionStateNames = []string{NotConnected: "not-connected", Connected: "connected"}
)

// Code returns the wire code of c.
func (c ConnectionState) Code() byte { return codeAt(connectionStateCodes, uint8(c)) }

func (c ConnectionState) String() string { return nameAt(connectionStateNames, uint8(c)) }

// EmulatorMode is the emulator mode field.
type EmulatorMode uint8

const (
	ModeNotConnected EmulatorMode = iota
	NVTCharacter
	NVTLine
	Pending
	Mode3270
)

var (
	emulatorModes     = []EmulatorMode{ModeNotConnected, NVTCharacter, NVTLine, Pending, Mode3270}
	emulatorModeCodes = []byte{ModeNotConnected: 'N', NVTCharacter: 'C', NVTLine: 'L', Pending: 'P', Mode3270: 'I'}
	emulatorModeNames = []string{
		ModeNotConnected: "not-connected",
		NVTCharacter:     "nvt-character",
		NVTLine:          "nvt-line",
		Pending:          "pending",
		Mode3270:         "3270",
	}
)

// Code returns the wire code of m.
func (m EmulatorMode) Code() byte { return codeAt(emulatorModeCodes, uint8(m)) }

func (m EmulatorMode) String() string { return nameAt(emulatorModeNames, uint8(m)) }

package status

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTryParse_ValidLines(t *testing.T) {
	lines := []string{
		"U F U C(192.168.111.1) I 3 24 80 8 17 0x0 0.321",
		"U F U C(192.168.111.1) I 3 24 80 8 21 0x0 0.001",
		"L U U C(192.168.111.1) I 3 24 80 0 0 0x0 0.126",
		"U F U C(192.168.111.1) I 3 24 80 13 21 0x0 0.003",
		"U F P C(192.168.111.1) I 3 24 80 16 48 0x0 0.001",
		"E U U N N 2 24 80 0 0 0x1a2B 12.000",
		"U F U C(mainframe.example.com) L 5 27 132 26 131 0xFFFF 0.000",
	}

	for _, line := range lines {
		t.Run(line, func(t *testing.T) {
			_, ok := TryParse(line)
			assert.True(t, ok)
		})
	}
}

func TestTryParse_InvalidLines(t *testing.T) {
	tests := []struct {
		name string
		line string
	}{
		{"extra field", "U F U C(192.168.111.1) I 3 24 80 8 21 0x0 0.001 abc"},
		{"missing time", "U F U C(192.168.111.1) I 3 24 80 8 17 0x0"},
		{"wrong keyboard", "Z F U C(192.168.111.1) I 3 24 80 8 17 0x0 0.123"},
		{"wrong formatting", "U J U C(192.168.111.1) I 3 24 80 8 17 0x0 0.123"},
		{"wrong protection field", "U F G C(192.168.111.1) I 3 24 80 13 21 0x0 0.003"},
		{"wrong connection status", "U F P X(192.168.111.1) I 3 24 80 16 48 0x0 0.001"},
		{"missing connection host", "U F P C() I 3 24 80 16 48 0x0 0.001"},
		{"wrong emulator mode", "U F P C(192.168.111.1) Y 3 24 80 16 48 0x0 0.001"},
		{"unsupported model number", "U F P C(192.168.111.1) I 9 24 80 16 48 0x0 0.001"},
		{"host on not connected", "U F P N(192.168.111.1) I 3 24 80 16 48 0x0 0.001"},
		{"leading space", " U F U N N 2 24 80 0 0 0x0 0.001"},
		{"trailing space", "U F U N N 2 24 80 0 0 0x0 0.001 "},
		{"double space", "U F U N N 2  24 80 0 0 0x0 0.001"},
		{"bad window id", "U F U N N 2 24 80 0 0 0xZZ 0.001"},
		{"integer time", "U F U N N 2 24 80 0 0 0x0 1"},
		{"negative cursor", "U F U N N 2 24 80 -1 0 0x0 0.001"},
		{"overflowing rows", "U F U N N 2 99999999999999999999999 80 0 0 0x0 0.001"},
		{"empty", ""},
		{"outcome marker", "ok"},
		{"data line", "data: U F U N N 2 24 80 0 0 0x0 0.001"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st, ok := TryParse(tt.line)
			assert.False(t, ok)
			assert.Equal(t, Status{}, st)
		})
	}
}

func TestTryParse_Fields(t *testing.T) {
	st, ok := TryParse("U F U C(192.168.111.1) I 3 24 80 8 17 0x0 0.321")
	require.True(t, ok)

	assert.Equal(t, Unlocked, st.KeyboardLock)
	assert.Equal(t, Formatted, st.Formatting)
	assert.Equal(t, Unprotected, st.FieldProtection)
	assert.Equal(t, Connected, st.Connection)
	assert.Equal(t, "192.168.111.1", st.Host)
	assert.Equal(t, Mode3270, st.EmulatorMode)
	assert.Equal(t, 3, st.ModelNumber)
	assert.Equal(t, 24, st.ScreenRows)
	assert.Equal(t, 80, st.ScreenCols)
	assert.Equal(t, 8, st.CursorRow)
	assert.Equal(t, 17, st.CursorCol)
	assert.Equal(t, 321*time.Millisecond, st.CommandTime)

	assert.True(t, st.IsKeyboardUnlocked())
	assert.True(t, st.IsConnected())
	assert.False(t, st.IsProtectedField())
	assert.True(t, st.Is3270Mode())
}

func TestTryParse_NotConnected(t *testing.T) {
	st, ok := TryParse("E U P N N 4 43 80 1 2 0x0 0.000")
	require.True(t, ok)

	assert.Equal(t, LockedForError, st.KeyboardLock)
	assert.Equal(t, Unformatted, st.Formatting)
	assert.Equal(t, Protected, st.FieldProtection)
	assert.Equal(t, NotConnected, st.Connection)
	assert.Empty(t, st.Host)
	assert.Equal(t, ModeNotConnected, st.EmulatorMode)
	assert.False(t, st.IsConnected())
	assert.True(t, st.IsProtectedField())
}

func TestTryParse_EmulatorModes(t *testing.T) {
	modes := map[string]EmulatorMode{
		"N": ModeNotConnected,
		"C": NVTCharacter,
		"L": NVTLine,
		"P": Pending,
		"I": Mode3270,
	}

	for code, mode := range modes {
		st, ok := TryParse("U F U C(host) " + code + " 2 24 80 0 0 0x0 0.001")
		require.True(t, ok, code)
		assert.Equal(t, mode, st.EmulatorMode)
		assert.Equal(t, code[0], mode.Code())
	}
}

func TestStatus_String(t *testing.T) {
	lines := []string{
		"U F U C(192.168.111.1) I 3 24 80 8 17 0x0 0.321",
		"E U P N N 4 43 80 1 2 0x0 0.000",
	}

	for _, line := range lines {
		st, ok := TryParse(line)
		require.True(t, ok)
		assert.Equal(t, line, st.String())
	}
}

func TestTryParse_Garbage(t *testing.T) {
	garbage := strings.Repeat("U F U C(", 10000)
	_, ok := TryParse(garbage)
	assert.False(t, ok)

	_, ok = TryParse(string([]byte{0x00, 0xff, 0xfe, ' ', 'U'}))
	assert.False(t, ok)
}

func TestMustLookup_Unknown(t *testing.T) {
	assert.Panics(t, func() { mustLookup(keyboardLocks, 'Z') })
	assert.Equal(t, byte('?'), KeyboardLock(9).Code())
	assert.Equal(t, "unknown", EmulatorMode(9).String())
}

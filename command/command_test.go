package command

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/termscript/go-s3270/internal/fakehost"
	"github.com/termscript/go-s3270/s3270"
	"github.com/termscript/go-s3270/scriptconn"
)

const disconnectedStatus = "U U U N N 4 43 80 0 0 0x0 0.000"

type encoder interface {
	Encode() string
}

func TestEncode(t *testing.T) {
	tests := []struct {
		name     string
		cmd      encoder
		expected string
	}{
		{"move cursor origin", NewMoveCursor(1, 1), "MoveCursor(0,0)"},
		{"move cursor", NewMoveCursor(5, 20), "MoveCursor(4,19)"},
		{"read cell origin", NewReadCell(1, 1, 10), "Ascii(0,0,10)"},
		{"read cell", NewReadCell(3, 10, 8), "Ascii(2,9,8)"},
		{"read region", NewReadRegion(2, 5, 4, 14), "Ascii(1,4,3,10)"},
		{"read single row", NewReadRegion(1, 1, 1, 80), "Ascii(0,0,1,80)"},
		{"read region swapped rows", NewReadRegion(4, 5, 2, 14), "Ascii(1,4,3,10)"},
		{"read region swapped corners", NewReadRegion(4, 14, 2, 5), "Ascii(1,4,3,10)"},
		{"wait", NewWait(WaitUnlock, 0), "Wait(Unlock)"},
		{"wait negative timeout", NewWait(WaitInputField, -1), "Wait(InputField)"},
		{"wait timeout", NewWait(WaitNVTMode, 30), "Wait(30,NVTMode)"},
		{"wait disconnect", NewWait(WaitDisconnect, 0), "Wait(Disconnect)"},
		{"expect", NewExpectText("READY"), `Expect("READY")`},
		{"expect quoted", NewExpectText(`say "hi"`), `Expect("say \"hi\"")`},
		{"expect timeout", NewExpectTextTimeout("READY", 5), `Expect("READY",5)`},
		{"expect host timeout", NewExpectTextTimeout("READY", 0), `Expect("READY")`},
		{"expect negative timeout", NewExpectTextTimeout("READY", -3), `Expect("READY")`},
		{"connect", NewConnect("192.168.111.1"), "Connect(192.168.111.1)"},
		{"is connected", NewIsConnected(), "Query(ConnectionState)"},
		{"enter", NewSendKeys(Enter), "Enter()"},
		{"delete field", NewSendKeys(DeleteField), "DeleteField()"},
		{"disconnect", NewSendKeys(Disconnect), "Disconnect()"},
		{"pf", NewSendPF(3), "PF(3)"},
		{"pa", NewSendPA(1), "PA(1)"},
		{"string", NewSendString("user01"), `String("user01")`},
		{"string escaped", NewSendString(`a\b`), `String("a\\b")`},
		{"print text", NewPrintText(), "PrintText(string)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.cmd.Encode())
		})
	}
}

func okReply(data ...string) s3270.Reply {
	return s3270.Reply{Data: data, StatusLine: fakehost.StatusLine, Outcome: s3270.OutcomeOK}
}

func errorReply(data ...string) s3270.Reply {
	return s3270.Reply{Data: data, StatusLine: fakehost.StatusLine, Outcome: s3270.OutcomeError}
}

func TestReadCell(t *testing.T) {
	text, err := s3270.Deliver[string](NewReadCell(1, 1, 5), okReply("HELLO"))
	require.NoError(t, err)
	assert.Equal(t, "HELLO", text)

	text, err = s3270.Deliver[string](NewReadCell(1, 1, 5), okReply())
	require.NoError(t, err)
	assert.Empty(t, text)

	_, err = s3270.Deliver[string](NewReadCell(1, 1, 5), errorReply("Invalid argument"))
	require.ErrorIs(t, err, s3270.ErrCommandFailed)
}

func TestReadRegion(t *testing.T) {
	rows, err := s3270.Deliver[[]string](NewReadRegion(1, 1, 3, 4), okReply("abcd", "efgh", "ijkl"))
	require.NoError(t, err)
	assert.Equal(t, []string{"abcd", "efgh", "ijkl"}, rows)

	rows, err = s3270.Deliver[[]string](NewReadRegion(1, 1, 3, 4), okReply())
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestBoolOutcomes(t *testing.T) {
	tests := []struct {
		name string
		cmd  func() s3270.Command[bool]
	}{
		{"wait", func() s3270.Command[bool] { return NewWait(WaitUnlock, 10) }},
		{"expect timeout", func() s3270.Command[bool] { return NewExpectTextTimeout("READY", 10) }},
		{"connect", func() s3270.Command[bool] { return NewConnect("mainframe") }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ok, err := s3270.Deliver(tt.cmd(), okReply())
			require.NoError(t, err)
			assert.True(t, ok)

			ok, err = s3270.Deliver(tt.cmd(), errorReply("timed out"))
			require.NoError(t, err)
			assert.False(t, ok)
		})
	}
}

func TestExpectText_Error(t *testing.T) {
	_, err := s3270.Deliver[struct{}](NewExpectText("READY"), errorReply("Wait timed out"))
	require.ErrorIs(t, err, s3270.ErrCommandFailed)

	_, err = s3270.Deliver[struct{}](NewExpectText("READY"), okReply())
	require.NoError(t, err)
}

func TestIsConnected(t *testing.T) {
	ok, err := s3270.Deliver[bool](NewIsConnected(), okReply("connected"))
	require.NoError(t, err)
	assert.True(t, ok)

	reply := okReply("not-connected")
	reply.StatusLine = disconnectedStatus
	ok, err = s3270.Deliver[bool](NewIsConnected(), reply)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = s3270.Deliver[bool](NewIsConnected(), errorReply())
	require.NoError(t, err)
	assert.False(t, ok)

	reply = okReply()
	reply.StatusLine = "unparsable"
	ok, err = s3270.Deliver[bool](NewIsConnected(), reply)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestPrintText(t *testing.T) {
	screen, err := s3270.Deliver[string](NewPrintText(), okReply("line 1", "", "line 3"))
	require.NoError(t, err)
	assert.Equal(t, "line 1\n\nline 3\n", screen)
}

func TestExecuteOverSocket(t *testing.T) {
	require := require.New(t)

	host, err := fakehost.Start(func(line string) []string {
		switch line {
		case "Ascii(0,0,2,3)":
			return fakehost.OK("abc", "def")
		case "Wait(5,Unlock)":
			return fakehost.Error("Wait timed out")
		default:
			return fakehost.OK()
		}
	})
	require.NoError(err)
	defer host.Close()

	cfg, err := scriptconn.NewConnectionConfig(host.Host(), host.Port())
	require.NoError(err)
	conn, err := scriptconn.NewConnection(context.Background(), cfg)
	require.NoError(err)
	require.NoError(conn.Connect())
	defer conn.Disconnect()

	_, err = scriptconn.Execute[struct{}](conn, NewMoveCursor(1, 1))
	require.NoError(err)

	rows, err := scriptconn.Execute[[]string](conn, NewReadRegion(1, 1, 2, 3))
	require.NoError(err)
	require.Equal([]string{"abc", "def"}, rows)

	unlocked, err := scriptconn.Execute[bool](conn, NewWait(WaitUnlock, 5))
	require.NoError(err)
	require.False(unlocked)

	connected, err := scriptconn.Execute[bool](conn, NewIsConnected())
	require.NoError(err)
	require.True(connected)

	require.Equal([]string{"MoveCursor(0,0)", "Ascii(0,0,2,3)", "Wait(5,Unlock)", "Query(ConnectionState)"}, host.Received())
}

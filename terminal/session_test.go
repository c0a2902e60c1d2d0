package terminal

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/termscript/go-s3270/command"
	"github.com/termscript/go-s3270/internal/fakehost"
	"github.com/termscript/go-s3270/logger"
	"github.com/termscript/go-s3270/s3270"
	"github.com/termscript/go-s3270/scriptconn"
)

func TestMain(m *testing.M) {
	level, _ := logger.ParseLevel(os.Getenv("LOG_LEVEL"))
	logger.SetLevel(level)

	os.Exit(m.Run())
}

const notConnectedStatus = "U U U N N 4 43 80 0 0 0x0 0.000"

// screen answers like an emulator showing a login panel.
func screen(line string) []string {
	switch line {
	case "Ascii(0,0,5)":
		return fakehost.OK("LOGON")
	case "Ascii(1,9,1,8)":
		return fakehost.OK("USERID  ")
	case "Ascii(0,0,2,5)":
		return fakehost.OK("LOGON", "     ")
	case "PrintText(string)":
		return fakehost.OK("LOGON", "USERID ==>")
	case "Wait(3,Unlock)":
		return fakehost.Error("Wait timed out")
	case `Expect("MISSING")`:
		return fakehost.Error("Expect timed out")
	case "Connect(unreachable)":
		return fakehost.Error("Connection failed")
	case "Wait(Disconnect)":
		return []string{notConnectedStatus, "ok"}
	default:
		return fakehost.OK()
	}
}

func openSession(t *testing.T, respond fakehost.Responder) (*Session, *fakehost.Host) {
	t.Helper()

	host, err := fakehost.Start(respond)
	require.NoError(t, err)
	t.Cleanup(func() { _ = host.Close() })

	cfg, err := scriptconn.NewConnectionConfig(host.Host(), host.Port(), scriptconn.WithReadTimeout(5*time.Second))
	require.NoError(t, err)

	s, err := Open(context.Background(), cfg)
	require.NoError(t, err)
	t.Cleanup(s.Close)

	return s, host
}

func TestOpen_NoListener(t *testing.T) {
	host, err := fakehost.Start(screen)
	require.NoError(t, err)
	port := host.Port()
	require.NoError(t, host.Close())

	cfg, err := scriptconn.NewConnectionConfig("127.0.0.1", port, scriptconn.WithConnectAttempts(2))
	require.NoError(t, err)

	s, err := Open(context.Background(), cfg)
	require.ErrorIs(t, err, s3270.ErrConnectTimeout)
	require.Nil(t, s)
}

func TestSession_FillField(t *testing.T) {
	s, host := openSession(t, screen)

	require.NoError(t, s.FillField(2, 10, "user01"))
	require.Equal(t, []string{"MoveCursor(1,9)", "DeleteField()", `String("user01")`}, host.Received())
}

func TestSession_FillFieldStopsOnFailure(t *testing.T) {
	s, host := openSession(t, func(line string) []string {
		if line == "DeleteField()" {
			return fakehost.Error("Keyboard locked")
		}
		return fakehost.OK()
	})

	err := s.FillField(2, 10, "user01")
	require.ErrorIs(t, err, s3270.ErrCommandFailed)

	var cmdErr *s3270.CommandError
	require.True(t, errors.As(err, &cmdErr))
	require.Equal(t, "DeleteField()", cmdErr.Command)

	// the cursor move is not rolled back and the text is never typed
	require.Equal(t, []string{"MoveCursor(1,9)", "DeleteField()"}, host.Received())
}

func TestSession_ReadScreen(t *testing.T) {
	require := require.New(t)
	s, _ := openSession(t, screen)

	text, err := s.GetText(1, 1, 5)
	require.NoError(err)
	require.Equal("LOGON", text)

	ok, err := s.ContainsText(1, 1, "LOGON")
	require.NoError(err)
	require.True(ok)

	ok, err = s.ContainsText(1, 1, "HELLO")
	require.NoError(err)
	require.False(ok)

	rows, err := s.GetRegion(1, 1, 2, 5)
	require.NoError(err)
	require.Equal([]string{"LOGON", "     "}, rows)

	interval, err := s.GetTextInterval(2, 10, 17)
	require.NoError(err)
	require.Equal("USERID  ", interval)

	interval, err = s.GetTextInterval(9, 1, 2)
	require.NoError(err)
	require.Empty(interval)

	printed, err := s.PrintScreen()
	require.NoError(err)
	require.Equal("LOGON\nUSERID ==>\n", printed)
}

func TestSession_Waits(t *testing.T) {
	require := require.New(t)
	s, host := openSession(t, screen)

	ok, err := s.WaitUnlock(0)
	require.NoError(err)
	require.True(ok)

	ok, err = s.WaitUnlock(3)
	require.NoError(err)
	require.False(ok)

	ok, err = s.WaitField(10)
	require.NoError(err)
	require.True(ok)

	ok, err = s.WaitNVTMode(0)
	require.NoError(err)
	require.True(ok)

	require.NoError(s.ExpectText("LOGON"))
	require.ErrorIs(s.ExpectText("MISSING"), s3270.ErrCommandFailed)

	ok, err = s.ExpectTextTimeout("MISSING", 2)
	require.NoError(err)
	require.True(ok)

	require.Equal([]string{
		"Wait(Unlock)",
		"Wait(3,Unlock)",
		"Wait(10,InputField)",
		"Wait(NVTMode)",
		`Expect("LOGON")`,
		`Expect("MISSING")`,
		`Expect("MISSING",2)`,
	}, host.Received())
}

func TestSession_Keys(t *testing.T) {
	s, host := openSession(t, screen)

	require.NoError(t, s.SendString("secret"))
	require.NoError(t, s.SendEnter())
	require.NoError(t, s.SendKeys(command.Clear))
	require.NoError(t, s.SendPF(3))

	require.Equal(t, []string{`String("secret")`, "Enter()", "Clear()", "PF(3)"}, host.Received())
}

func TestSession_HostConnection(t *testing.T) {
	require := require.New(t)
	s, host := openSession(t, screen)

	ok, err := s.Connect("mainframe")
	require.NoError(err)
	require.True(ok)

	ok, err = s.Connect("unreachable")
	require.NoError(err)
	require.False(ok)

	ok, err = s.IsConnected()
	require.NoError(err)
	require.True(ok)

	st, ok := s.Status()
	require.True(ok)
	require.True(st.IsConnected())

	ok, err = s.Disconnect()
	require.NoError(err)
	require.True(ok)

	st, ok = s.Status()
	require.True(ok)
	require.False(st.IsConnected())

	require.Equal([]string{
		"Connect(mainframe)",
		"Connect(unreachable)",
		"Query(ConnectionState)",
		"Disconnect()",
		"Wait(Disconnect)",
	}, host.Received())
}

func TestSession_Concurrent(t *testing.T) {
	s, host := openSession(t, func(line string) []string {
		return fakehost.OK(line)
	})

	const workers = 8
	const perWorker = 20

	var wg sync.WaitGroup
	errs := make(chan error, workers*perWorker)
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				length := w*perWorker + i + 1
				want := fmt.Sprintf("Ascii(0,0,%d)", length)
				got, err := s.GetText(1, 1, length)
				if err != nil {
					errs <- err
					continue
				}
				if got != want {
					errs <- fmt.Errorf("got %q, want %q", got, want)
				}
			}
		}(w)
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		require.NoError(t, err)
	}
	require.Len(t, host.Received(), workers*perWorker)
}

func TestSession_Close(t *testing.T) {
	s, _ := openSession(t, screen)

	s.Close()
	s.Close()

	require.False(t, s.Conn().IsConnected())

	_, err := s.GetText(1, 1, 5)
	require.ErrorIs(t, err, s3270.ErrNotConnected)
	require.ErrorIs(t, s.FillField(1, 1, "x"), s3270.ErrNotConnected)
	_, err = s.Disconnect()
	require.ErrorIs(t, err, s3270.ErrNotConnected)
}

func TestNewSession(t *testing.T) {
	host, err := fakehost.Start(screen)
	require.NoError(t, err)
	defer host.Close()

	cfg, err := scriptconn.NewConnectionConfig(host.Host(), host.Port())
	require.NoError(t, err)
	conn, err := scriptconn.NewConnection(context.Background(), cfg)
	require.NoError(t, err)
	require.NoError(t, conn.Connect())

	s := NewSession(conn)
	defer s.Close()

	text, err := s.GetText(1, 1, 5)
	require.NoError(t, err)
	require.Equal(t, "LOGON", text)
	require.Same(t, conn, s.Conn())
}

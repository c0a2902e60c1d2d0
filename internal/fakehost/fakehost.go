// Package fakehost runs a scripted stand-in for the scripting port of a
// terminal emulator. It is used by tests that need a real TCP peer.
package fakehost

import (
	"bufio"
	"net"
	"strings"
	"sync"

	"github.com/termscript/go-s3270/internal/util"
	"github.com/termscript/go-s3270/logger"
)

// StatusLine is a connected 3270 status line used by canned replies.
const StatusLine = "U F U C(127.0.0.1) I 4 43 80 0 0 0x0 0.000"

// Hangup makes the host close the connection when it appears in a reply.
// Lines before it are written first.
const Hangup = "\x00hangup"

// Responder returns the raw reply lines for one received command line.
// A nil result sends nothing.
type Responder func(line string) []string

// OK builds a successful reply carrying data lines.
func OK(data ...string) []string {
	return reply("ok", data)
}

// Error builds a failed reply carrying data lines.
func Error(data ...string) []string {
	return reply("error", data)
}

func reply(outcome string, data []string) []string {
	lines := make([]string, 0, len(data)+2)
	for _, d := range data {
		lines = append(lines, "data: "+d)
	}

	return append(lines, StatusLine, outcome)
}

// Host is a fake scripting port listening on the loopback interface.
type Host struct {
	listener net.Listener
	respond  Responder
	logger   logger.Logger

	mu       sync.Mutex
	received []string
	conns    map[net.Conn]struct{}
	accepted int
	closed   bool

	wg sync.WaitGroup
}

// Start listens on a random loopback port and serves every accepted
// connection with respond.
func Start(respond Responder) (*Host, error) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return nil, err
	}

	h := &Host{
		listener: listener,
		respond:  respond,
		logger:   logger.With("component", "fakehost"),
		conns:    make(map[net.Conn]struct{}),
	}

	h.wg.Add(1)
	go h.acceptLoop()

	return h, nil
}

// Host returns the listening IP address.
func (h *Host) Host() string {
	return h.listener.Addr().(*net.TCPAddr).IP.String() //nolint:forcetypeassert
}

// Port returns the listening TCP port.
func (h *Host) Port() int {
	return h.listener.Addr().(*net.TCPAddr).Port //nolint:forcetypeassert
}

// Received returns a copy of every line received so far, in order.
func (h *Host) Received() []string {
	h.mu.Lock()
	defer h.mu.Unlock()

	return util.CloneSlice(h.received, 0)
}

// Accepted returns the number of connections accepted so far.
func (h *Host) Accepted() int {
	h.mu.Lock()
	defer h.mu.Unlock()

	return h.accepted
}

// DropConnections closes every open connection and keeps listening.
func (h *Host) DropConnections() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for conn := range h.conns {
		_ = conn.Close()
	}
}

// Close stops listening, closes every connection and waits for the serving goroutines.
func (h *Host) Close() error {
	h.mu.Lock()
	h.closed = true
	h.mu.Unlock()

	err := h.listener.Close()
	h.DropConnections()
	h.wg.Wait()

	return err
}

func (h *Host) acceptLoop() {
	defer h.wg.Done()

	for {
		conn, err := h.listener.Accept()
		if err != nil {
			return
		}

		h.mu.Lock()
		if h.closed {
			h.mu.Unlock()
			_ = conn.Close()

			return
		}
		h.conns[conn] = struct{}{}
		h.accepted++
		h.mu.Unlock()

		h.wg.Add(1)
		go h.serve(conn)
	}
}

func (h *Host) serve(conn net.Conn) {
	defer h.wg.Done()
	defer func() {
		h.mu.Lock()
		delete(h.conns, conn)
		h.mu.Unlock()
		_ = conn.Close()
	}()

	scanner := bufio.NewScanner(conn)
	for scanner.Scan() {
		line := strings.TrimSuffix(scanner.Text(), "\r")

		h.mu.Lock()
		h.received = append(h.received, line)
		h.mu.Unlock()

		h.logger.Debug("fakehost: line received", "line", line)

		if !h.write(conn, h.respond(line)) {
			return
		}
	}
}

// write sends lines and reports whether the connection should stay open.
func (h *Host) write(conn net.Conn, lines []string) bool {
	var sb strings.Builder
	hangup := false
	for _, line := range lines {
		if line == Hangup {
			hangup = true
			break
		}
		sb.WriteString(line)
		sb.WriteByte('\n')
	}

	if sb.Len() > 0 {
		if _, err := conn.Write([]byte(sb.String())); err != nil {
			return false
		}
	}

	return !hangup
}

// Package scriptconn connects to the scripting port of an s3270 compatible
// terminal emulator and executes commands over it.
//
// Key Features:
//   - Bounded retry connect: the emulator may still be starting its listener, so
//     Connect dials several times before failing with s3270.ErrConnectTimeout.
//   - Line based exchange: one ASCII command line out, reply lines in until the
//     "ok" or "error" outcome line.
//   - Typed execution: Execute runs any s3270.Command and returns its result.
//   - Best effort teardown: Disconnect never fails and may be called repeatedly.
//   - Metrics: atomic counters for attempts, commands, outcomes and data lines.
//
// Connection Establishment:
//   - Create a ConnectionConfig with NewConnectionConfig and the With* options.
//   - Create a Connection with NewConnection.
//   - Call Connect once the emulator has been started.
//
// Usage Example:
//
//	cfg, err := scriptconn.NewConnectionConfig(scriptconn.DefaultHost, scriptconn.DefaultPort,
//	    scriptconn.WithReadTimeout(30*time.Second),
//	)
//	// ... handle error ...
//
//	conn, err := scriptconn.NewConnection(ctx, cfg)
//	// ... handle error ...
//
//	if err := conn.Connect(); err != nil {
//	    // ... handle error ...
//	}
//	defer conn.Disconnect()
//
//	rows, err := scriptconn.Execute[[]string](conn, command.NewReadRegion(1, 1, 24, 80))
//
// Concurrency:
//
// The protocol carries no request ids, so replies can only be matched to
// commands by order. A Connection runs one command at a time and does not
// serialize callers itself; the terminal package wraps a Connection with the
// locking needed to share it.
//
// Timeouts:
//
// By default a reply is awaited forever, as the emulator enforces the timeouts
// of its own Wait and Expect actions. WithReadTimeout bounds every reply; an
// expired deadline fails with s3270.ErrReplyTimeout and leaves the connection
// open with the remainder of that reply unread.
package scriptconn

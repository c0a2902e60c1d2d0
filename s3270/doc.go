// Package s3270 defines the command/response protocol spoken over the
// scripting socket of an s3270 compatible terminal emulator.
//
// Every command is one ASCII line of the form Name(arg1,arg2,...). The host
// answers with zero or more data lines, a status line and an outcome line:
//
//	data: first row of text
//	data: second row of text
//	U F U C(192.168.111.1) I 3 24 80 8 17 0x0 0.321
//	ok
//
// [Command] is the contract implemented by every catalog command: it encodes
// its request line, receives the data lines of its reply and produces a typed
// result. [DecodeReply] frames the raw lines of one reply and [Deliver] hands
// the framed reply to a command.
//
// A reply ending in "error" fails with a [*CommandError], which matches
// [ErrCommandFailed], unless the command implements [OutcomeHandler] and maps
// the outcome into its own result.
//
// The status line grammar lives in the status package; the socket side lives in
// the scriptconn package.
package s3270

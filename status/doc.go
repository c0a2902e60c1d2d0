// Package status decodes the status line that terminates every reply of an
// s3270 scripting host.
//
// The status line is a fixed sequence of twelve space separated fields:
//
//	U F U C(192.168.111.1) I 3 24 80 8 17 0x0 0.321
//	| | | |                | | |  |  |  |  |   time of the last command, seconds
//	| | | |                | | |  |  |  |  window id (ignored)
//	| | | |                | | |  |  |  cursor column, 0 based
//	| | | |                | | |  |  cursor row, 0 based
//	| | | |                | | |  columns
//	| | | |                | | rows
//	| | | |                | model number (2-5)
//	| | | |                emulator mode (N, C, L, P, I)
//	| | | connection (N, or C(host))
//	| | field protection (U, P)
//	| formatting (F, U)
//	keyboard (U, L, E)
//
// TryParse accepts a line only when it matches this grammar exactly.
package status

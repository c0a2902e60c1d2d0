// Package command is the catalog of scripting commands understood by s3270
// compatible emulators.
//
// Every constructor returns a fresh s3270.Command value owning the state of one
// execution. Screen coordinates are 1-based, as shown on the terminal, and are
// encoded 0-based on the wire:
//
//	command.NewMoveCursor(1, 1)        // MoveCursor(0,0)
//	command.NewReadCell(3, 10, 8)      // Ascii(2,9,8)
//	command.NewReadRegion(1, 1, 2, 80) // Ascii(0,0,2,80)
//
// Commands whose result is a bool (Wait, timed Expect, Connect, IsConnected)
// report the host's "error" outcome as false instead of failing.
package command

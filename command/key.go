package command

// Key is the name of an emulator action that takes no argument, such as Enter.
type Key string

// Keys of the 3270 keyboard.
const (
	Enter       Key = "Enter"
	Tab         Key = "Tab"
	BackTab     Key = "BackTab"
	Home        Key = "Home"
	Clear       Key = "Clear"
	Reset       Key = "Reset"
	EraseEOF    Key = "EraseEOF"
	EraseInput  Key = "EraseInput"
	DeleteField Key = "DeleteField"
	Attn        Key = "Attn"
	SysReq      Key = "SysReq"
	Disconnect  Key = "Disconnect"
)

// WaitCondition is the condition awaited by a Wait command.
type WaitCondition string

const (
	// WaitUnlock waits until the keyboard is unlocked.
	WaitUnlock WaitCondition = "Unlock"
	// WaitInputField waits until the screen has an input field.
	WaitInputField WaitCondition = "InputField"
	// WaitNVTMode waits until the emulator is in NVT mode.
	WaitNVTMode WaitCondition = "NVTMode"
	// WaitDisconnect waits until the host connection is closed.
	WaitDisconnect WaitCondition = "Disconnect"
)

package memory

import "github.com/kenballus/gb/bit"

// Button identifies one of the eight DMG joypad inputs.
type Button uint8

const (
	ButtonA Button = iota
	ButtonB
	ButtonSelect
	ButtonStart
	ButtonRight
	ButtonLeft
	ButtonUp
	ButtonDown
)

// Joypad tracks the active-low electrical state of the eight buttons and
// synthesizes the P1 register from the host's last row selection.
type Joypad struct {
	actionRow    uint8 // bits 0-3: A,B,Select,Start. 1 = released, 0 = pressed.
	directionRow uint8 // bits 0-3: Right,Left,Up,Down. 1 = released, 0 = pressed.
	selectBits   uint8 // bits 4-5 of P1, as last written by the program.

	JoypadInterruptHandler func()
}

// NewJoypad returns a Joypad with every button released and both rows
// selected (select bits are active-low).
func NewJoypad() *Joypad {
	return &Joypad{
		actionRow:    0x0F,
		directionRow: 0x0F,
		selectBits:   0x00,
	}
}

// Read synthesizes the P1 register: bits 6-7 always read 1, bit 4/5 echo
// the program's row selection, and bits 0-3 report whichever selected
// row(s) are active, ANDed together when both rows are selected.
func (j *Joypad) Read() uint8 {
	result := uint8(0xC0) | j.selectBits

	selectAction := !bit.IsSet(5, j.selectBits)
	selectDirection := !bit.IsSet(4, j.selectBits)

	switch {
	case selectAction && selectDirection:
		result |= j.actionRow & j.directionRow & 0x0F
	case selectAction:
		result |= j.actionRow & 0x0F
	case selectDirection:
		result |= j.directionRow & 0x0F
	default:
		result |= 0x0F
	}

	return result
}

// Write updates the row-selection bits (4-5); the low nibble is read-only
// from the bus's point of view.
func (j *Joypad) Write(value uint8) {
	j.selectBits = value & 0x30
}

// Press clears the button's bit (active-low) and raises the Joypad
// interrupt regardless of which row the program currently has selected.
func (j *Joypad) Press(btn Button) {
	switch btn {
	case ButtonRight:
		j.directionRow = bit.Clear(0, j.directionRow)
	case ButtonLeft:
		j.directionRow = bit.Clear(1, j.directionRow)
	case ButtonUp:
		j.directionRow = bit.Clear(2, j.directionRow)
	case ButtonDown:
		j.directionRow = bit.Clear(3, j.directionRow)
	case ButtonA:
		j.actionRow = bit.Clear(0, j.actionRow)
	case ButtonB:
		j.actionRow = bit.Clear(1, j.actionRow)
	case ButtonSelect:
		j.actionRow = bit.Clear(2, j.actionRow)
	case ButtonStart:
		j.actionRow = bit.Clear(3, j.actionRow)
	}
	if j.JoypadInterruptHandler != nil {
		j.JoypadInterruptHandler()
	}
}

// Release sets the button's bit back to released.
func (j *Joypad) Release(btn Button) {
	switch btn {
	case ButtonRight:
		j.directionRow = bit.Set(0, j.directionRow)
	case ButtonLeft:
		j.directionRow = bit.Set(1, j.directionRow)
	case ButtonUp:
		j.directionRow = bit.Set(2, j.directionRow)
	case ButtonDown:
		j.directionRow = bit.Set(3, j.directionRow)
	case ButtonA:
		j.actionRow = bit.Set(0, j.actionRow)
	case ButtonB:
		j.actionRow = bit.Set(1, j.actionRow)
	case ButtonSelect:
		j.actionRow = bit.Set(2, j.actionRow)
	case ButtonStart:
		j.actionRow = bit.Set(3, j.actionRow)
	}
}

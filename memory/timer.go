package memory

import "github.com/kenballus/gb/addr"

// timaPeriod maps TAC's clock-select bits (1-0) to the number of M-cycles
// between TIMA increments: 00 -> 256, 01 -> 4, 10 -> 16, 11 -> 64.
var timaPeriod = [4]uint64{256, 4, 16, 64}

// Timer models DIV/TIMA/TMA/TAC off a single free-running M-cycle counter:
// DIV advances once every 64 cycles, TIMA advances once every timaPeriod[n]
// cycles while TAC's enable bit is set. Both ride the same counter, so a
// DIV write (which only clears the visible register, not the counter)
// never resyncs TIMA's phase.
type Timer struct {
	cycleCount uint64

	div  byte
	tima byte
	tma  byte
	tac  byte

	TimerInterruptHandler func()
}

// Tick advances the timer by the given number of M-cycles.
func (t *Timer) Tick(cycles int) {
	for i := 0; i < cycles; i++ {
		t.cycleCount++

		if t.cycleCount%64 == 0 {
			t.div++
		}

		if t.tac&0x04 == 0 {
			continue
		}

		period := timaPeriod[t.tac&0x03]
		if t.cycleCount%period != 0 {
			continue
		}

		if t.tima == 0xFF {
			t.tima = t.tma
			if t.TimerInterruptHandler != nil {
				t.TimerInterruptHandler()
			}
		} else {
			t.tima++
		}
	}
}

func (t *Timer) Read(address uint16) byte {
	switch address {
	case addr.DIV:
		return t.div
	case addr.TIMA:
		return t.tima
	case addr.TMA:
		return t.tma
	case addr.TAC:
		return t.tac
	default:
		return 0xFF
	}
}

func (t *Timer) Write(address uint16, value byte) {
	switch address {
	case addr.DIV:
		t.div = 0
	case addr.TIMA:
		t.tima = value
	case addr.TMA:
		t.tma = value
	case addr.TAC:
		t.tac = value
	}
}

package serial

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kenballus/gb/addr"
)

// sendByte performs the SB-then-SC sequence a program uses to push one
// byte out the link port.
func sendByte(s *LogSink, b byte) {
	s.Write(addr.SB, b)
	s.Write(addr.SC, 0x81)
}

func TestTransferEmitsAndCompletes(t *testing.T) {
	fired := 0
	s := NewLogSink(func() { fired++ })

	sendByte(s, 'A')

	assert.Equal(t, "A", s.Output())
	assert.Equal(t, 1, fired, "serial interrupt on completion")
	assert.Equal(t, byte(0xFF), s.Read(addr.SB), "SB reads back the idle line")
	assert.Zero(t, s.Read(addr.SC)&0x80, "start bit cleared")
}

func TestLineBufferedFlush(t *testing.T) {
	var lines []string
	s := NewLogSink(nil, WithLineHandler(func(line string) { lines = append(lines, line) }))

	for _, b := range []byte("Passed\n") {
		sendByte(s, b)
	}

	assert.Equal(t, []string{"Passed"}, lines)
	assert.Equal(t, "Passed\n", s.Output())
}

func TestNULTerminatorFlushesLine(t *testing.T) {
	var lines []string
	s := NewLogSink(nil, WithLineHandler(func(line string) { lines = append(lines, line) }))

	sendByte(s, 'o')
	sendByte(s, 'k')
	sendByte(s, 0)

	assert.Equal(t, []string{"ok"}, lines)
}

func TestNoTransferWithoutStartBit(t *testing.T) {
	fired := 0
	s := NewLogSink(func() { fired++ })

	s.Write(addr.SB, 'X')
	s.Write(addr.SC, 0x01) // clock source set, start bit clear

	assert.Empty(t, s.Output())
	assert.Zero(t, fired, "a transfer that never starts never raises the interrupt")
	assert.Equal(t, byte('X'), s.Read(addr.SB), "SB keeps the latched byte")
}

func TestNoTransferOnExternalClock(t *testing.T) {
	fired := 0
	s := NewLogSink(func() { fired++ })

	s.Write(addr.SB, 'X')
	s.Write(addr.SC, 0x80) // start bit set but external clock: no partner, no shift

	assert.Empty(t, s.Output())
	assert.Zero(t, fired)
}

// Package serial implements the debug console sink attached to the
// SB/SC serial registers. It is the acceptance channel for test ROMs
// that report results over the link port.
package serial

import (
	"log/slog"

	"github.com/kenballus/gb/addr"
	"github.com/kenballus/gb/bit"
)

// LogSink is a serial device that logs outgoing bytes as text instead of
// shifting them to a second console. Bytes written to SB are latched when
// SC's start bit and internal-clock bit are both set, buffered into a
// line, and flushed as a "[SERIAL]" log line on newline, carriage return
// or NUL.
type LogSink struct {
	irqHandler func()
	sb, sc     byte
	logger     *slog.Logger

	defaultRX byte // value SB reads back after a transfer completes

	line        []byte
	lineHandler func(string)
	output      []byte
}

// Option configures a LogSink.
type Option func(*LogSink)

// WithLineHandler invokes fn for every completed line, in addition to
// logging it. The acceptance tests use this to watch for pass/fail
// reports.
func WithLineHandler(fn func(string)) Option {
	return func(s *LogSink) { s.lineHandler = fn }
}

// WithLogger routes the [SERIAL] lines to a specific logger instead of
// slog's default.
func WithLogger(l *slog.Logger) Option {
	return func(s *LogSink) { s.logger = l }
}

// NewLogSink creates a logging serial device. irq is called when a
// transfer completes and should be wired to request the Serial interrupt.
func NewLogSink(irq func(), opts ...Option) *LogSink {
	s := &LogSink{
		irqHandler: irq,
		defaultRX:  0xFF,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *LogSink) Write(address uint16, value byte) {
	switch address {
	case addr.SB:
		s.sb = value
	case addr.SC:
		s.sc = value
		s.maybeTransfer()
	}
}

func (s *LogSink) Read(address uint16) byte {
	switch address {
	case addr.SB:
		return s.sb
	case addr.SC:
		return s.sc
	default:
		return 0xFF
	}
}

// Output returns every byte emitted so far, line breaks included.
func (s *LogSink) Output() string { return string(s.output) }

// maybeTransfer completes a transfer when SC's start bit (7) and internal
// clock bit (0) are both set. With no console on the other end the
// transfer is instantaneous: the byte goes to the log, SB reads back
// 0xFF, the start bit clears, and the Serial interrupt fires.
func (s *LogSink) maybeTransfer() {
	if !bit.IsSet(7, s.sc) || !bit.IsSet(0, s.sc) {
		return
	}

	b := s.sb
	s.output = append(s.output, b)
	if b == 0 || b == '\n' || b == '\r' {
		s.flushLine()
	} else {
		s.line = append(s.line, b)
	}

	s.sb = s.defaultRX
	s.sc = bit.Clear(7, s.sc)
	if s.irqHandler != nil {
		s.irqHandler()
	}
}

func (s *LogSink) flushLine() {
	if len(s.line) == 0 {
		return
	}
	line := string(s.line)
	s.line = s.line[:0]
	s.logger.Info("[SERIAL]", "line", line)
	if s.lineHandler != nil {
		s.lineHandler(line)
	}
}

package outwriter

import (
	"io"
	"os"
	"time"
	"unicode/utf8"

	"golang.org/x/term"
)

// PacedWriter writes one character at a time with a delay in between,
// producing a typewriter effect on interactive terminals.
type PacedWriter struct {
	w     io.Writer
	pace  time.Duration
	sleep func(time.Duration)
}

// NewPacedWriter wraps w so that every character is delayed by pace.
// A non-positive pace returns w unchanged.
func NewPacedWriter(w io.Writer, pace time.Duration) io.Writer {
	if pace <= 0 {
		return w
	}
	return &PacedWriter{w: w, pace: pace, sleep: time.Sleep}
}

// Write implements io.Writer.
func (p *PacedWriter) Write(b []byte) (int, error) {
	written := 0
	for written < len(b) {
		_, size := utf8.DecodeRune(b[written:])
		n, err := p.w.Write(b[written : written+size])
		written += n
		if err != nil {
			return written, err
		}
		p.sleep(p.pace)
	}
	return written, nil
}

// IsInteractive reports whether f is attached to a terminal.
func IsInteractive(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// OperatorWriter returns the writer for operator-facing text on f.
// Pacing only applies when f is a terminal.
func OperatorWriter(f *os.File, pace time.Duration) io.Writer {
	if !IsInteractive(f) {
		return f
	}
	return NewPacedWriter(f, pace)
}

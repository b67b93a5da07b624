// Package prompt reads validated answers from an operator.
package prompt

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/huangsam/kpitrend/internal/contract"
)

// Options controls the retry policy of a Prompter.
type Options struct {
	MaxAttempts int // Attempts per question, 0 means unbounded
}

// Prompter asks questions on out and reads one line per answer from in.
type Prompter struct {
	in   *bufio.Reader
	out  io.Writer
	opts Options
}

// New creates a Prompter.
func New(in io.Reader, out io.Writer, opts Options) *Prompter {
	return &Prompter{in: bufio.NewReader(in), out: out, opts: opts}
}

// Out returns the writer questions are printed on.
func (p *Prompter) Out() io.Writer {
	return p.out
}

// Say prints text to the operator.
func (p *Prompter) Say(format string, args ...any) {
	_, _ = fmt.Fprintf(p.out, format, args...)
}

// readLine returns the next line without its line ending.
// A final line without a newline is returned as-is; io.EOF is returned when nothing is left.
func (p *Prompter) readLine() (string, error) {
	line, err := p.in.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && line != "" {
			return strings.TrimRight(line, "\r"), nil
		}
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// Ask prints question, reads an answer and hands it to accept.
// Errors that IsRecoverable reports are shown to the operator and the question is asked again.
// Any other error from accept is returned as-is.
func (p *Prompter) Ask(question string, accept func(answer string) error) error {
	for attempt := 1; ; attempt++ {
		p.Say("%s", question)
		answer, err := p.readLine()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return fmt.Errorf("input closed before a valid answer: %w", io.ErrUnexpectedEOF)
			}
			return fmt.Errorf("failed to read input: %w", err)
		}

		err = accept(answer)
		if err == nil {
			return nil
		}
		if !contract.IsRecoverable(err) {
			return err
		}

		contract.Logger.Debug().Err(err).Int("attempt", attempt).Msg("rejected answer")
		p.Say("%s\n", contract.AdvisoryColor.Sprintf("Invalid data: %v, please try again.", err))
		if p.opts.MaxAttempts > 0 && attempt >= p.opts.MaxAttempts {
			return fmt.Errorf("%w (%d attempts): %w", contract.ErrAttemptsExhausted, attempt, err)
		}
	}
}

package prompt

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/huangsam/kpitrend/internal/contract"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	color.NoColor = true
}

func acceptDigits(got *string) func(string) error {
	return func(answer string) error {
		if strings.TrimSpace(answer) == "" || strings.Trim(answer, "0123456789") != "" {
			return fmt.Errorf("%w: %q is not a number", contract.ErrInvalidInput, answer)
		}
		*got = answer
		return nil
	}
}

func TestAsk_FirstAnswerAccepted(t *testing.T) {
	var out bytes.Buffer
	p := New(strings.NewReader("42\n"), &out, Options{})

	var got string
	require.NoError(t, p.Ask("Value:\n", acceptDigits(&got)))
	assert.Equal(t, "42", got)
	assert.Equal(t, "Value:\n", out.String())
}

func TestAsk_RepromptsOnInvalidInput(t *testing.T) {
	var out bytes.Buffer
	p := New(strings.NewReader("abc\n-1\n\n7\r\n"), &out, Options{})

	var got string
	require.NoError(t, p.Ask("Value:\n", acceptDigits(&got)))
	assert.Equal(t, "7", got)
	assert.Equal(t, 4, strings.Count(out.String(), "Value:"))
	assert.Equal(t, 3, strings.Count(out.String(), "please try again"))
	assert.Contains(t, out.String(), `"abc" is not a number`)
}

func TestAsk_DateNotFoundIsRecoverable(t *testing.T) {
	p := New(strings.NewReader("01/01/1900\n22/02/2022\n"), io.Discard, Options{})

	calls := 0
	err := p.Ask("Date:\n", func(answer string) error {
		calls++
		if answer != "22/02/2022" {
			return fmt.Errorf("%w: %s", contract.ErrDateNotFound, answer)
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}

func TestAsk_MaxAttempts(t *testing.T) {
	p := New(strings.NewReader("a\nb\nc\n1\n"), io.Discard, Options{MaxAttempts: 3})

	var got string
	err := p.Ask("Value:\n", acceptDigits(&got))
	require.Error(t, err)
	assert.ErrorIs(t, err, contract.ErrAttemptsExhausted)
	assert.ErrorIs(t, err, contract.ErrInvalidInput)
	assert.Empty(t, got)
}

func TestAsk_NonRecoverableErrorReturned(t *testing.T) {
	p := New(strings.NewReader("22/02/2022\n"), io.Discard, Options{})
	boom := fmt.Errorf("%w: connection reset", contract.ErrCollaboratorUnavailable)

	err := p.Ask("Date:\n", func(string) error { return boom })
	assert.ErrorIs(t, err, contract.ErrCollaboratorUnavailable)
}

func TestAsk_InputClosed(t *testing.T) {
	p := New(strings.NewReader("abc\n"), io.Discard, Options{})

	var got string
	err := p.Ask("Value:\n", acceptDigits(&got))
	assert.ErrorIs(t, err, io.ErrUnexpectedEOF)
}

func TestAsk_LastLineWithoutNewline(t *testing.T) {
	p := New(strings.NewReader("12"), io.Discard, Options{})

	var got string
	require.NoError(t, p.Ask("Value:\n", acceptDigits(&got)))
	assert.Equal(t, "12", got)
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("tty gone") }

func TestAsk_ReadError(t *testing.T) {
	p := New(failingReader{}, io.Discard, Options{})
	err := p.Ask("Value:\n", func(string) error { return nil })
	assert.ErrorContains(t, err, "tty gone")
}

func TestSayAndOut(t *testing.T) {
	var out bytes.Buffer
	p := New(strings.NewReader(""), &out, Options{})
	p.Say("hello %s\n", "operator")
	assert.Equal(t, "hello operator\n", out.String())
	assert.Same(t, &out, p.Out())
}

package review

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Input supplies operator responses. Ask blocks until a full line is
// available and returns it without the line terminator; it returns io.EOF
// once the operator's input is exhausted.
type Input interface {
	Ask(prompt string) (string, error)
}

// LineInput reads one response per line from r, echoing prompts to w.
type LineInput struct {
	r *bufio.Reader
	w io.Writer
}

// NewLineInput returns a LineInput. All prompts of a session must share one
// LineInput so buffered input is not lost between them.
func NewLineInput(r io.Reader, w io.Writer) *LineInput {
	return &LineInput{r: bufio.NewReader(r), w: w}
}

// Ask writes prompt and reads the next line. A final line without a
// newline is still returned; io.EOF is reported only when nothing was read.
func (l *LineInput) Ask(prompt string) (string, error) {
	if prompt != "" {
		fmt.Fprint(l.w, prompt)
	}
	line, err := l.r.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && line != "" {
			return strings.TrimRight(line, "\r\n"), nil
		}
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// Confirm asks a yes/no question. Only "y" and "yes" (any case, surrounding
// whitespace ignored) count as yes; end of input counts as no.
func Confirm(in Input, prompt string) (bool, error) {
	answer, err := in.Ask(prompt)
	if err != nil {
		if errors.Is(err, io.EOF) {
			return false, nil
		}
		return false, err
	}
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true, nil
	}
	return false, nil
}

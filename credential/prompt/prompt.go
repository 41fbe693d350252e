// Package prompt asks the operator for a line of text, either through an
// interactive terminal form or over plain streams.
package prompt

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/mattn/go-isatty"

	"github.com/reglet-dev/privrepo/credential/ports"
)

// IsTerminal reports whether the file refers to a terminal device.
var IsTerminal = func(file *os.File) bool {
	if file == nil {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// New picks a prompter for the current process: the console form when
// both stdin and stdout are terminals, otherwise plain streams.
func New() ports.Prompter {
	if IsTerminal(os.Stdin) && IsTerminal(os.Stdout) {
		return NewConsolePrompter()
	}
	return NewStreamPrompter(os.Stdin, os.Stderr)
}

// runInput is swapped in tests.
var runInput = func(title string, value *string) error {
	return huh.NewInput().
		Title(title).
		Value(value).
		Run()
}

// ConsolePrompter reads input through a terminal form. Input is echoed;
// secrets and plain values go through the same path.
type ConsolePrompter struct{}

// NewConsolePrompter creates a new ConsolePrompter.
func NewConsolePrompter() *ConsolePrompter {
	return &ConsolePrompter{}
}

// Prompt shows text as the form title and returns the entered line.
func (p *ConsolePrompter) Prompt(text string) (string, error) {
	var value string
	if err := runInput(strings.TrimSpace(text), &value); err != nil {
		return "", fmt.Errorf("prompt input: %w", err)
	}
	return value, nil
}

// StreamPrompter writes the prompt to out and reads one line from in.
type StreamPrompter struct {
	in  *bufio.Reader
	out io.Writer
}

// NewStreamPrompter creates a prompter over arbitrary streams.
func NewStreamPrompter(in io.Reader, out io.Writer) *StreamPrompter {
	return &StreamPrompter{in: bufio.NewReader(in), out: out}
}

// Prompt prints text on its own line and blocks until a line is read.
// A final line without a newline is accepted; EOF before any input is an error.
func (p *StreamPrompter) Prompt(text string) (string, error) {
	if _, err := fmt.Fprintln(p.out, text); err != nil {
		return "", fmt.Errorf("write prompt: %w", err)
	}
	line, err := p.in.ReadString('\n')
	if err != nil {
		if !errors.Is(err, io.EOF) || line == "" {
			return "", fmt.Errorf("read input: %w", err)
		}
	}
	return strings.TrimRight(line, "\r\n"), nil
}

package labeling

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// QuitToken ends the session from any prompt, releasing a held claim first.
const QuitToken = "quit"

// ErrQuit is returned by prompt helpers when the operator types the quit
// token or input reaches EOF. It is a control signal, not a failure.
var ErrQuit = errors.New("operator quit")

// Prompter collects validated operator input. Malformed input never
// propagates; it is re-prompted with no retry limit.
type Prompter struct {
	sc  *bufio.Scanner
	out io.Writer
}

// NewPrompter constructs a Prompter reading from in and writing prompts to out.
func NewPrompter(in io.Reader, out io.Writer) *Prompter {
	sc := bufio.NewScanner(in)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	return &Prompter{sc: sc, out: out}
}

// Line prompts for a non-empty free-text line.
func (p *Prompter) Line(label string) (string, error) {
	for {
		raw, err := p.raw(label)
		if err != nil {
			return "", err
		}
		if raw != "" {
			return raw, nil
		}
		fmt.Fprintln(p.out, errorStyle.Render("Input cannot be empty. Please try again."))
	}
}

// LineOrDefault prompts for a line, returning def when the operator just
// presses Enter.
func (p *Prompter) LineOrDefault(label, def string) (string, error) {
	raw, err := p.raw(label)
	if err != nil {
		return "", err
	}
	if raw == "" {
		return def, nil
	}
	return raw, nil
}

// Int prompts for an integer in [min, max], re-prompting on anything else.
func (p *Prompter) Int(label string, min, max int) (int, error) {
	for {
		raw, err := p.raw(label)
		if err != nil {
			return 0, err
		}
		val, convErr := strconv.Atoi(raw)
		if convErr != nil {
			fmt.Fprintln(p.out, errorStyle.Render("Invalid input. Please enter a number."))
			continue
		}
		if val < min || val > max {
			fmt.Fprintln(p.out, errorStyle.Render(fmt.Sprintf("Value must be between %d and %d. Please try again.", min, max)))
			continue
		}
		return val, nil
	}
}

// Bool prompts for a yes/no answer from a fixed token set.
func (p *Prompter) Bool(label string) (bool, error) {
	for {
		raw, err := p.raw(label)
		if err != nil {
			return false, err
		}
		switch raw {
		case "yes", "y", "true", "t":
			return true, nil
		case "no", "n", "false", "f":
			return false, nil
		}
		fmt.Fprintln(p.out, errorStyle.Render("Invalid input. Please enter 'yes' or 'no'."))
	}
}

// Pause waits for the operator to press Enter, still honoring the quit token.
func (p *Prompter) Pause(label string) error {
	fmt.Fprint(p.out, label)
	if !p.sc.Scan() {
		return ErrQuit
	}
	if strings.ToLower(strings.TrimSpace(p.sc.Text())) == QuitToken {
		return ErrQuit
	}
	return nil
}

// raw reads one trimmed, lowercased line, translating the quit token and EOF
// into ErrQuit.
func (p *Prompter) raw(label string) (string, error) {
	fmt.Fprint(p.out, label)
	if !p.sc.Scan() {
		if err := p.sc.Err(); err != nil {
			return "", fmt.Errorf("read input: %w", err)
		}
		return "", ErrQuit
	}
	raw := strings.ToLower(strings.TrimSpace(p.sc.Text()))
	if raw == QuitToken {
		return "", ErrQuit
	}
	return raw, nil
}

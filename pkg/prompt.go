package release

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// Prompter gathers interactive decisions from the user. The workflow only
// depends on this interface so tests can script answers without a terminal.
type Prompter interface {
	// Confirm asks a yes/no question. An empty answer takes def.
	Confirm(prompt string, def bool) (bool, error)
	// Input asks for free text. An empty answer takes def.
	Input(prompt, def string) (string, error)
}

// TermPrompter reads answers line by line from in. When in reaches EOF
// (stdin not a terminal, or a scripted pipe running dry) every prompt
// resolves to its default.
type TermPrompter struct {
	in  *bufio.Reader
	out io.Writer
}

func NewTermPrompter(in io.Reader, out io.Writer) *TermPrompter {
	return &TermPrompter{in: bufio.NewReader(in), out: out}
}

func (p *TermPrompter) readLine() (string, error) {
	line, err := p.in.ReadString('\n')
	line = strings.TrimSpace(line)
	if err == io.EOF {
		return line, nil
	}
	return line, err
}

func (p *TermPrompter) Confirm(prompt string, def bool) (bool, error) {
	hint := "y/N"
	if def {
		hint = "Y/n"
	}
	fmt.Fprintf(p.out, "%s [%s]: ", prompt, hint)
	answer, err := p.readLine()
	if err != nil {
		return def, err
	}
	if answer == "" {
		return def, nil
	}
	return strings.HasPrefix(strings.ToLower(answer), "y"), nil
}

func (p *TermPrompter) Input(prompt, def string) (string, error) {
	if def != "" {
		fmt.Fprintf(p.out, "%s [%s]: ", prompt, def)
	} else {
		fmt.Fprintf(p.out, "%s: ", prompt)
	}
	answer, err := p.readLine()
	if err != nil {
		return def, err
	}
	if answer == "" {
		return def, nil
	}
	return answer, nil
}

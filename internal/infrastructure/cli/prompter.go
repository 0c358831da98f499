package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/doeshing/iop/internal/ports"
)

// Prompter implements ports.Prompter using stdin/stdout.
type Prompter struct {
	in     *bufio.Reader
	out    io.Writer
	secret func() (string, error)
}

// NewPrompter constructs a prompter referencing stdio.
// Secrets are read without echo when in is a terminal.
func NewPrompter(in io.Reader, out io.Writer) *Prompter {
	if in == nil {
		in = os.Stdin
	}
	if out == nil {
		out = os.Stdout
	}
	p := &Prompter{
		in:  bufio.NewReader(in),
		out: out,
	}
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		fd := int(f.Fd())
		p.secret = func() (string, error) {
			raw, err := term.ReadPassword(fd)
			fmt.Fprintln(p.out)
			return string(raw), err
		}
	}
	return p
}

// Ask prints prompt and returns the line typed, without the trailing newline.
// A final line without newline is accepted; EOF with nothing typed is an error.
func (p *Prompter) Ask(prompt string) (string, error) {
	fmt.Fprint(p.out, prompt)
	return p.readLine()
}

// AskSecret is Ask without echo.
func (p *Prompter) AskSecret(prompt string) (string, error) {
	fmt.Fprint(p.out, prompt)
	if p.secret != nil {
		return p.secret()
	}
	return p.readLine()
}

func (p *Prompter) readLine() (string, error) {
	line, err := p.in.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && line != "" {
			return strings.TrimRight(line, "\r\n"), nil
		}
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

var _ ports.Prompter = (*Prompter)(nil)

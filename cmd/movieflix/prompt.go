package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// prompter asks for values the user did not pass as flags.
type prompter struct {
	in   *bufio.Reader
	out  io.Writer
	file *os.File
}

func newPrompter(cmd *cobra.Command) *prompter {
	input := cmd.InOrStdin()
	p := &prompter{in: bufio.NewReader(input), out: cmd.ErrOrStderr()}
	if f, ok := input.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		p.file = f
	}
	return p
}

func (p *prompter) readLine() (string, error) {
	line, err := p.in.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		if errors.Is(err, io.EOF) {
			return "", errors.New("input ended before a value was provided")
		}
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// ask returns current when set, otherwise reads a non-empty line.
func (p *prompter) ask(label, current string) (string, error) {
	if strings.TrimSpace(current) != "" {
		return current, nil
	}
	fmt.Fprintf(p.out, "%s: ", label)
	value, err := p.readLine()
	if err != nil {
		return "", err
	}
	value = strings.TrimSpace(value)
	if value == "" {
		return "", fmt.Errorf("%s is required", strings.ToLower(label))
	}
	return value, nil
}

// secret reads a value without echoing it when stdin is a terminal.
func (p *prompter) secret(label, current string) (string, error) {
	if current != "" {
		return current, nil
	}
	fmt.Fprintf(p.out, "%s: ", label)
	var value string
	if p.file != nil {
		raw, err := term.ReadPassword(int(p.file.Fd()))
		fmt.Fprintln(p.out)
		if err != nil {
			return "", fmt.Errorf("read %s: %w", strings.ToLower(label), err)
		}
		value = string(raw)
	} else {
		line, err := p.readLine()
		if err != nil {
			return "", err
		}
		value = line
	}
	if value == "" {
		return "", fmt.Errorf("%s is required", strings.ToLower(label))
	}
	return value, nil
}

// confirm asks a yes/no question; anything but y/yes is no.
func (p *prompter) confirm(question string) (bool, error) {
	fmt.Fprintf(p.out, "%s [y/N]: ", question)
	answer, err := p.readLine()
	if err != nil {
		return false, err
	}
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}

package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

var (
	errEmptyInput       = errors.New("no input provided")
	errPasswordMismatch = errors.New("passwords do not match")
)

// streams are the process I/O of one command run. Secrets are read from in
// without echo when it is a terminal, and one per line otherwise.
type streams struct {
	in    *os.File
	out   io.Writer
	err   io.Writer
	lines *bufio.Reader
}

func newStreams(in *os.File, out, errOut io.Writer) *streams {
	return &streams{in: in, out: out, err: errOut, lines: bufio.NewReader(in)}
}

func (s *streams) isTerminal() bool {
	return term.IsTerminal(int(s.in.Fd()))
}

// secret prompts for a value that must not be echoed.
func (s *streams) secret(prompt string) (string, error) {
	if !s.isTerminal() {
		return s.line()
	}

	fmt.Fprint(s.err, prompt)
	value, err := term.ReadPassword(int(s.in.Fd()))
	fmt.Fprintln(s.err)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", strings.TrimSuffix(strings.ToLower(prompt), ": "), err)
	}
	return string(value), nil
}

// newPassword prompts for a new password, twice on a terminal.
func (s *streams) newPassword(prompt string) (string, error) {
	password, err := s.secret(prompt)
	if err != nil {
		return "", err
	}
	if !s.isTerminal() {
		return password, nil
	}

	again, err := s.secret("Repeat password: ")
	if err != nil {
		return "", err
	}
	if again != password {
		return "", errPasswordMismatch
	}
	return password, nil
}

// text prompts for a value that may be echoed, such as a recovery phrase.
func (s *streams) text(prompt string) (string, error) {
	if s.isTerminal() {
		fmt.Fprint(s.err, prompt)
	}
	return s.line()
}

func (s *streams) line() (string, error) {
	line, err := s.lines.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		if errors.Is(err, io.EOF) {
			return "", errEmptyInput
		}
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

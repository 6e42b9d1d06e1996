// Package input provides the formula readers used by interactive checker
// sessions: a readline-backed reader for terminals and a plain buffered
// reader for everything else.
package input

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/chzyer/readline"
)

// Reader produces one formula line at a time from some source of input.
type Reader interface {
	// ReadFormula returns the next non-blank line. At end of input it
	// returns io.EOF.
	ReadFormula() (string, error)

	// Close releases any resources held by the reader.
	Close() error
}

// DirectReader reads formulas from a generic input stream. It does not
// sanitize control or escape sequences and is intended for pipes and tests.
type DirectReader struct {
	r *bufio.Reader
}

// NewDirectReader creates a DirectReader on the provided stream.
func NewDirectReader(r io.Reader) *DirectReader {
	return &DirectReader{r: bufio.NewReader(r)}
}

// Close is a no-op for DirectReader; it exists so callers can treat all
// readers uniformly.
func (dr *DirectReader) Close() error {
	return nil
}

// ReadFormula reads the next line containing non-space characters. At end of
// input it returns io.EOF.
func (dr *DirectReader) ReadFormula() (string, error) {
	for {
		line, err := dr.r.ReadString('\n')
		line = strings.TrimSpace(line)
		if line != "" {
			return line, nil
		}
		if err != nil {
			if err == io.EOF {
				return "", io.EOF
			}
			return "", err
		}
	}
}

// InteractiveReader reads formulas from a terminal through a Go
// implementation of GNU Readline, keeping the input clear of editing escape
// sequences and enabling history.
type InteractiveReader struct {
	rl *readline.Instance
}

// NewInteractiveReader creates an InteractiveReader and initializes
// readline. The returned reader must have Close called on it before disposal
// to properly tear down readline resources.
func NewInteractiveReader() (*InteractiveReader, error) {
	rl, err := readline.NewEx(&readline.Config{
		Prompt: "ltl> ",
	})
	if err != nil {
		return nil, fmt.Errorf("create readline config: %w", err)
	}
	return &InteractiveReader{rl: rl}, nil
}

// Close tears down readline resources.
func (ir *InteractiveReader) Close() error {
	return ir.rl.Close()
}

// ReadFormula prompts for and reads the next non-blank line. Ctrl-C on an
// empty line, or ctrl-D, ends input with io.EOF.
func (ir *InteractiveReader) ReadFormula() (string, error) {
	for {
		line, err := ir.rl.Readline()
		if err == readline.ErrInterrupt {
			if len(line) == 0 {
				return "", io.EOF
			}
			continue
		}
		if err != nil {
			return "", err
		}
		line = strings.TrimSpace(line)
		if line != "" {
			return line, nil
		}
	}
}

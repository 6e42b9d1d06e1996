// Package tempo decides satisfiability of linear temporal logic formulas and
// produces ultimately periodic witness models for the satisfiable ones. It
// ties together the formula frontend (lexing, parsing, past-time
// translation) and the tableau solver, and adds batch and interactive
// drivers on top.
package tempo

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/tempo-ltl/tempo/internal/input"
	"github.com/tempo-ltl/tempo/internal/ltl"
	"github.com/tempo-ltl/tempo/internal/solver"
	"github.com/tempo-ltl/tempo/internal/trace"
)

// Options configures how formulas are solved.
type Options struct {
	// MaxDepth caps the tableau's time-step depth; 0 means unlimited.
	MaxDepth uint64

	// DisableSAT turns the propositional accelerator off.
	DisableSAT bool
}

// Verdict is the outcome of checking one formula.
type Verdict struct {
	// Result is SAT, UNSAT, or UNDEFINED (interrupted before a verdict).
	Result solver.Result

	// Model is the witness trace when Result is SAT, nil otherwise.
	Model *solver.Model

	// Formula is the parsed input, after past-time translation if one was
	// needed.
	Formula *ltl.Formula
}

// Check parses and solves a single formula. Parse and unsupported-construct
// problems come back as errors; depth exhaustion is not an error and simply
// yields UNSAT.
func Check(formula string, opts Options) (Verdict, error) {
	f, err := ltl.Parse(formula)
	if err != nil {
		return Verdict{}, err
	}

	if ltl.HasPast(f) {
		f = ltl.Translate(f)
		trace.Debugf("Translated past-time formula: %s", f)
	}

	sv, err := solver.New(f, solver.Options{
		MaxDepth:   opts.MaxDepth,
		DisableSAT: opts.DisableSAT,
	})
	if err != nil {
		return Verdict{}, err
	}

	res := sv.Solution()
	return Verdict{
		Result:  res,
		Model:   sv.Model(),
		Formula: f,
	}, nil
}

// Batch reads newline-separated formulas from r, skipping blank lines and
// '#' comments, and calls handle for each with its 1-based formula number.
// Handling stops early when handle returns false. The returned error only
// reports problems reading r itself.
func Batch(r io.Reader, opts Options, handle func(n int, line string, v Verdict, err error) bool) error {
	sc := bufio.NewScanner(r)
	n := 0
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		n++
		v, err := Check(line, opts)
		if !handle(n, line, v, err) {
			return nil
		}
	}
	return sc.Err()
}

// Session is an interactive checking session attached to an input and an
// output stream: it reads one formula at a time, solves it, and reports the
// verdict (and model, when configured) until input runs out.
type Session struct {
	in        input.Reader
	out       *bufio.Writer
	opts      Options
	showModel bool
}

// NewSession creates a session on the given streams. When in is os.Stdin and
// out is os.Stdout, a readline-backed reader is used (unless forceDirect is
// set); otherwise input is read directly. NewSession does not itself check
// whether stdin is a terminal.
func NewSession(in io.Reader, out io.Writer, opts Options, showModel bool, forceDirect bool) (*Session, error) {
	if in == nil {
		in = os.Stdin
	}
	if out == nil {
		out = os.Stdout
	}

	s := &Session{
		out:       bufio.NewWriter(out),
		opts:      opts,
		showModel: showModel,
	}

	useReadline := !forceDirect && in == os.Stdin && out == os.Stdout
	if useReadline {
		rd, err := input.NewInteractiveReader()
		if err != nil {
			return nil, fmt.Errorf("initializing interactive-mode input reader: %w", err)
		}
		s.in = rd
	} else {
		s.in = input.NewDirectReader(in)
	}

	return s, nil
}

// Close releases the session's input resources.
func (s *Session) Close() error {
	return s.in.Close()
}

// Run checks formulas until end of input. Syntax errors are reported on the
// session output and do not end the session.
func (s *Session) Run() error {
	for {
		line, err := s.in.ReadFormula()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("reading formula: %w", err)
		}

		v, err := Check(line, s.opts)
		if err != nil {
			s.printErr(err)
			continue
		}

		if v.Result == solver.Satisfiable {
			s.printf("The formula is %s!\n", trace.Good("satisfiable"))
			if s.showModel && v.Model != nil {
				s.printf("The following model was found:\n%s\n", v.Model.Pretty())
			}
		} else {
			s.printf("The formula is %s!\n", trace.Bad("unsatisfiable"))
		}
	}
}

func (s *Session) printErr(err error) {
	if synErr, ok := err.(*ltl.SyntaxError); ok {
		s.printf("%s\n", synErr.FullMessage())
		return
	}
	s.printf("%v\n", err)
}

func (s *Session) printf(format string, a ...interface{}) {
	fmt.Fprintf(s.out, format, a...)
	s.out.Flush()
}

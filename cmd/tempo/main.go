/*
Tempo checks satisfiability of linear temporal logic formulas.

It reads formulas — from a batch file, from the command line, or
interactively — decides each one with a one-pass tableau, and can print an
ultimately periodic model for the satisfiable ones.

Usage:

	tempo [flags] [filename]

The positional filename is a batch file with one formula per line; blank
lines are skipped and lines starting with "#" are comments. The default "-"
reads from stdin, interactively when stdin is a terminal.

The flags are:

	--version
		Give the current version of tempo and then exit.

	-l, --ltl FORMULA
		Check the single formula given on the command line; the filename is
		ignored.

	-m, --model
		Print a model after the verdict when the formula is satisfiable.

	-p, --parsable
		Emit machine-parsable output: SAT or UNSAT on one line, with the
		model appended after ";" when --model is also given.

	-t, --test
		Compare each verdict against the batch file's sibling ".answer"
		file. Line k of the answer file holds the expected parsable model of
		formula k; an empty line means UNSAT.

	-v, --verbosity N
		Output verbosity from 0 (total silence, even for errors) to 5
		(full diagnostics). Defaults to 3.

	--maximum-depth N
		The maximum depth to descend into the tableau (the maximum size of
		the model). Unlimited by default.

	--no-sat
		Disable the propositional SAT accelerator. Verdicts do not depend
		on it.

	--config FILE
		Read defaults (verbosity, maximum-depth, sat, color) from the given
		TOML file. Defaults to "tempo.toml" if present.

	-d, --direct
		Force reading stdin directly instead of through readline, even on a
		terminal.

The exit status is 0 when every formula was processed to a verdict, and 1
when any formula failed to parse or input could not be read.
*/
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/spf13/pflag"

	"github.com/tempo-ltl/tempo"
	"github.com/tempo-ltl/tempo/internal/config"
	"github.com/tempo-ltl/tempo/internal/ltl"
	"github.com/tempo-ltl/tempo/internal/solver"
	"github.com/tempo-ltl/tempo/internal/trace"
	"github.com/tempo-ltl/tempo/internal/version"
)

const (
	// ExitSuccess indicates that every formula was processed to a verdict.
	ExitSuccess = iota

	// ExitInputError indicates a parse error or unreadable input.
	ExitInputError
)

var (
	returnCode    int     = ExitSuccess
	flagVersion   *bool   = pflag.Bool("version", false, "Gives the version info")
	flagLTL       *string = pflag.StringP("ltl", "l", "", "The LTL formula to solve, provided directly on the command line")
	flagModel     *bool   = pflag.BoolP("model", "m", false, "Generates and prints a model of the formula, when satisfiable")
	flagParsable  *bool   = pflag.BoolP("parsable", "p", false, "Generates machine-parsable output")
	flagTest      *bool   = pflag.BoolP("test", "t", false, "Compare each verdict against the batch file's sibling .answer file")
	flagVerbosity *int    = pflag.IntP("verbosity", "v", int(trace.Message), "The level of verbosity of the output, from 0 (silent) to 5")
	flagMaxDepth  *uint64 = pflag.Uint64("maximum-depth", 0, "The maximum depth to descend into the tableau (0 = unlimited)")
	flagNoSAT     *bool   = pflag.Bool("no-sat", false, "Disable the propositional SAT accelerator")
	flagConfig    *string = pflag.String("config", "tempo.toml", "TOML file with default settings")
	flagDirect    *bool   = pflag.BoolP("direct", "d", false, "Force reading stdin directly instead of through readline")
)

func main() {
	defer func() {
		if panicErr := recover(); panicErr != nil {
			// we are panicking, make sure we dont lose the panic just because
			// we checked
			panic(fmt.Sprintf("unrecoverable panic occured: %v", panicErr))
		} else {
			os.Exit(returnCode)
		}
	}()

	pflag.Parse()

	if *flagVersion {
		fmt.Printf("%s\n", version.Current)
		return
	}

	opts, ok := applyConfig()
	if !ok {
		returnCode = ExitInputError
		return
	}

	if *flagLTL != "" {
		if !solve(*flagLTL) {
			returnCode = ExitInputError
		}
		return
	}

	filename := "-"
	if pflag.NArg() > 0 {
		filename = pflag.Arg(0)
	}

	if filename == "-" {
		if isatty.IsTerminal(os.Stdin.Fd()) && !*flagDirect {
			runInteractive(opts)
			return
		}
		if !batch(os.Stdin, nil) {
			returnCode = ExitInputError
		}
		return
	}

	file, err := os.Open(filename)
	if err != nil {
		trace.Errorf("Unable to open the file %q: %v", filename, err)
		returnCode = ExitInputError
		return
	}
	defer file.Close()

	var answers []string
	if *flagTest {
		answers, err = readAnswers(filename + ".answer")
		if err != nil {
			trace.Errorf("%v", err)
			returnCode = ExitInputError
			return
		}
	}

	if !batch(file, answers) {
		returnCode = ExitInputError
	}
}

// applyConfig folds config-file defaults under the explicitly given flags
// and returns the resulting solve options.
func applyConfig() (tempo.Options, bool) {
	cfg, err := config.Load(*flagConfig, pflag.CommandLine.Changed("config"))
	if err != nil {
		trace.Errorf("%v", err)
		return tempo.Options{}, false
	}

	if cfg.HasVerbosity && !pflag.CommandLine.Changed("verbosity") {
		*flagVerbosity = cfg.Verbosity
	}
	if cfg.HasMaximumDepth && !pflag.CommandLine.Changed("maximum-depth") {
		*flagMaxDepth = cfg.MaximumDepth
	}
	if cfg.HasSAT && !pflag.CommandLine.Changed("no-sat") {
		*flagNoSAT = !cfg.SAT
	}
	if cfg.HasColor && !cfg.Color {
		color.NoColor = true
	}

	trace.SetLevel(trace.Level(*flagVerbosity))

	return tempo.Options{
		MaxDepth:   *flagMaxDepth,
		DisableSAT: *flagNoSAT,
	}, true
}

func options() tempo.Options {
	return tempo.Options{
		MaxDepth:   *flagMaxDepth,
		DisableSAT: *flagNoSAT,
	}
}

// batch checks every formula in the given stream. It returns whether all of
// them parsed.
func batch(f *os.File, answers []string) bool {
	clean := true
	err := tempo.Batch(f, options(), func(n int, line string, v tempo.Verdict, err error) bool {
		var expected *string
		if answers != nil {
			e := ""
			if n-1 < len(answers) {
				e = answers[n-1]
			}
			expected = &e
		}
		if !report(n, v, err, expected) {
			clean = false
		}
		return true
	})
	if err != nil {
		trace.Errorf("Reading input: %v", err)
		return false
	}
	return clean
}

// solve checks a single command-line formula. Test mode does not apply here;
// answer files belong to batch files.
func solve(formula string) bool {
	v, err := tempo.Check(formula, options())
	return report(0, v, err, nil)
}

// report prints the verdict (and model, test result) of one formula. It
// returns false when the formula failed to parse.
func report(num int, v tempo.Verdict, err error, expected *string) bool {
	if err != nil {
		numPart := ""
		if num > 0 {
			numPart = fmt.Sprintf(" n° %d", num)
		}
		if synErr, ok := err.(*ltl.SyntaxError); ok {
			trace.Errorf("Syntax error in formula%s: %s. Skipping...", numPart, synErr.Error())
		} else {
			trace.Errorf("Error in formula%s: %v. Skipping...", numPart, err)
		}
		return false
	}

	if num > 0 && !*flagParsable {
		printProgress(v.Formula, num)
	}

	sat := v.Result == solver.Satisfiable

	if *flagParsable {
		if sat {
			fmt.Print(trace.Good("SAT"))
			if *flagModel && v.Model != nil {
				fmt.Print(";")
				fmt.Print(v.Model.Parsable())
			}
		} else {
			fmt.Print(trace.Bad("UNSAT"))
		}
		fmt.Println()
	} else {
		if sat {
			trace.Messagef("The formula is %s!", trace.Good("satisfiable"))
			if *flagModel && v.Model != nil {
				trace.Messagef("The following model was found:\n%s", v.Model.Pretty())
			}
		} else {
			trace.Messagef("The formula is %s!", trace.Bad("unsatisfiable"))
		}
	}

	if expected != nil {
		got := ""
		if sat && v.Model != nil {
			got = v.Model.Parsable()
		}
		if got == *expected {
			trace.Messagef("Test %s", trace.Good("PASSED"))
		} else {
			trace.Messagef("Test %s: expected %q but got %q", trace.Bad("FAILED"), *expected, got)
		}
	}

	return true
}

// printProgress emits the "Solving formula n° K" line, truncated so the
// formula fits an 80-column console.
func printProgress(f *ltl.Formula, num int) {
	msg := fmt.Sprintf("Solving formula n° %d: ", num)
	formula := strings.ReplaceAll(f.String(), "\n", "")

	ellipses := ""
	if len(formula)+len(msg) > 80 {
		formula = formula[:80-len(msg)-3]
		ellipses = "..."
	}

	trace.Messagef("%s%s%s", msg, formula, ellipses)
}

func runInteractive(opts tempo.Options) {
	session, err := tempo.NewSession(os.Stdin, os.Stdout, opts, *flagModel, *flagDirect)
	if err != nil {
		trace.Errorf("%v", err)
		returnCode = ExitInputError
		return
	}
	defer session.Close()

	if err := session.Run(); err != nil {
		trace.Errorf("%v", err)
		returnCode = ExitInputError
	}
}

// readAnswers loads the expected-answer file for test mode: one expected
// parsable model per formula, empty meaning UNSAT.
func readAnswers(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("unable to open the answer file %q: %w", path, err)
	}
	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	for i := range lines {
		lines[i] = strings.TrimSpace(lines[i])
	}
	return lines, nil
}

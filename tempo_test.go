package tempo

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tempo-ltl/tempo/internal/ltl"
	"github.com/tempo-ltl/tempo/internal/solver"
)

func Test_Check(t *testing.T) {
	testCases := []struct {
		name      string
		input     string
		expect    solver.Result
		expectErr bool
	}{
		{name: "satisfiable atom", input: "a", expect: solver.Satisfiable},
		{name: "contradiction", input: "a & !a", expect: solver.Unsatisfiable},
		{name: "always versus eventually", input: "G a & F !a", expect: solver.Unsatisfiable},
		{name: "until with blocked promise", input: "(a U b) & G !b", expect: solver.Unsatisfiable},
		{name: "spec scenario five", input: "G (a -> X b) & a & !b", expect: solver.Satisfiable},
		{name: "yesterday has no origin", input: "Y a", expect: solver.Unsatisfiable},
		{name: "yesterday reached from the second instant", input: "X Y a", expect: solver.Satisfiable},
		{name: "parse error", input: "a &", expectErr: true},
		{name: "garbage", input: "@@@", expectErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			v, err := Check(tc.input, Options{})

			if tc.expectErr {
				assert.Error(err)
				return
			}
			if !assert.NoError(err) {
				return
			}
			assert.Equal(tc.expect, v.Result)
			if v.Result == solver.Satisfiable {
				assert.NotNil(v.Model)
			} else {
				assert.Nil(v.Model)
			}
		})
	}
}

func Test_Check_pastFormulaIsTranslated(t *testing.T) {
	assert := assert.New(t)

	v, err := Check("P a & !a", Options{})

	require.NoError(t, err)
	assert.False(ltl.HasPast(v.Formula))
	// P a at the origin is just a: requiring !a alongside is contradictory.
	assert.Equal(solver.Unsatisfiable, v.Result)
}

func Test_Batch(t *testing.T) {
	assert := assert.New(t)

	in := strings.NewReader(`
# a comment line
a & !a

a | b
# another comment
G a
`)

	type outcome struct {
		n      int
		result solver.Result
	}
	var got []outcome

	err := Batch(in, Options{}, func(n int, line string, v Verdict, err error) bool {
		require.NoError(t, err, "formula %d (%q)", n, line)
		got = append(got, outcome{n: n, result: v.Result})
		return true
	})

	require.NoError(t, err)
	assert.Equal([]outcome{
		{n: 1, result: solver.Unsatisfiable},
		{n: 2, result: solver.Satisfiable},
		{n: 3, result: solver.Satisfiable},
	}, got)
}

func Test_Batch_stopsWhenHandlerSaysSo(t *testing.T) {
	assert := assert.New(t)

	in := strings.NewReader("a\nb\nc\n")
	calls := 0

	err := Batch(in, Options{}, func(n int, line string, v Verdict, err error) bool {
		calls++
		return false
	})

	require.NoError(t, err)
	assert.Equal(1, calls)
}

func Test_Session_runsOverDirectInput(t *testing.T) {
	assert := assert.New(t)

	in := strings.NewReader("a & !a\na\n")
	var out strings.Builder

	session, err := NewSession(in, &out, Options{}, false, true)
	require.NoError(t, err)
	defer session.Close()

	err = session.Run()

	require.NoError(t, err)
	assert.Contains(out.String(), "unsatisfiable")
	assert.Contains(out.String(), "satisfiable")
}

func Test_Session_reportsSyntaxErrors(t *testing.T) {
	assert := assert.New(t)

	in := strings.NewReader("a &&& b\na\n")
	var out strings.Builder

	session, err := NewSession(in, &out, Options{}, false, true)
	require.NoError(t, err)
	defer session.Close()

	err = session.Run()

	require.NoError(t, err)
	assert.Contains(out.String(), "syntax error")
	assert.Contains(out.String(), "satisfiable")
}

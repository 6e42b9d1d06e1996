package ltl

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_Translate_removesPastOperators(t *testing.T) {
	inputs := []string{
		"Y a",
		"a S b",
		"a T b",
		"P a",
		"H a",
		"G (a -> Y b)",
		"(P a) & (b S c) -> F a",
		"Y (a S b)",
	}

	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			assert := assert.New(t)

			f, err := Parse(input)
			if !assert.NoError(err) {
				return
			}
			assert.True(HasPast(f), "test input %q should contain a past operator", input)

			translated := Translate(f)

			assert.False(HasPast(translated), "translation of %q still contains past operators: %q", input, translated)

			// the result must stay inside the fragment the solver accepts.
			_, err = Simplify(translated)
			assert.NoError(err)
		})
	}
}

func Test_Translate_introducesFreshLetters(t *testing.T) {
	assert := assert.New(t)

	f, err := Parse("Y a")
	if !assert.NoError(err) {
		return
	}

	translated := Translate(f)
	names := Atoms(translated)

	assert.Contains(names, "a")
	assert.Len(names, 2, "one fresh letter should have been introduced, got %v", names)
	for name := range names {
		if name == "a" {
			continue
		}
		assert.NotEqual("a", name)
	}
}

func Test_Translate_freshLettersAvoidInputVocabulary(t *testing.T) {
	assert := assert.New(t)

	// "ya0" is the name the scheme would pick first for "Y a"; occupying it
	// must push the translator to a different one.
	f, err := Parse("Y a & ya0")
	if !assert.NoError(err) {
		return
	}

	translated := Translate(f)
	names := Atoms(translated)

	assert.Contains(names, "a")
	assert.Contains(names, "ya0")
	assert.Len(names, 3)
}

func Test_Translate_futureOnlyFormulaKeepsMeaning(t *testing.T) {
	assert := assert.New(t)

	f, err := Parse("G (a -> X b)")
	if !assert.NoError(err) {
		return
	}

	translated := Translate(f)

	// no past operators means no fresh letters and no axioms.
	assert.True(f.Equal(translated), "future-only formula changed: %q", translated)
}

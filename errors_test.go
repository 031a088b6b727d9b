package metric

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_Pos_String_WithAndWithoutSource(t *testing.T) {
	assert.Equal(t, "3:7", Pos{Line: 3, Col: 7}.String())
	assert.Equal(t, "units.def:3:7", Pos{Line: 3, Col: 7, Source: "units.def"}.String())
}

func Test_Pos_Snippet_CaretAndContext(t *testing.T) {
	src := "first line\nsecond line\nthird line"
	snippet := Pos{Line: 2, Col: 5}.Snippet(src)

	assert.Contains(t, snippet, "   1 | first line")
	assert.Contains(t, snippet, "   2 | second line")
	assert.Contains(t, snippet, "   3 | third line")
	// caret under column 5 of the offending line
	assert.Contains(t, snippet, "     |     ^")
}

func Test_SyntaxError_WithSnippet(t *testing.T) {
	src := "let x = 1\nf(1"
	err := &SyntaxError{Pos: Pos{Line: 2, Col: 4}, Msg: "expected ')'"}

	msg := err.WithSnippet(src)
	assert.Contains(t, msg, "SYNTAX ERROR at")
	assert.Contains(t, msg, "   1 | let x = 1")
	assert.Contains(t, msg, "   2 | f(1")
	assert.Contains(t, msg, "expected ')'")
	assert.Contains(t, msg, "^")
}

func Test_WrapWithSource_SyntaxError_RendersSnippet(t *testing.T) {
	src := "1 + \nunit"
	err := WrapWithSource(&SyntaxError{Pos: Pos{Line: 2, Col: 1}, Msg: "unknown unit"}, src)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SYNTAX ERROR at")
	assert.Contains(t, err.Error(), "unknown unit")
}

func Test_WrapWithSource_OtherErrorsPassThroughUnchanged(t *testing.T) {
	orig := &UnknownUnitNameError{Name: "furlong", Pos: Pos{Line: 1, Col: 1}}
	wrapped := WrapWithSource(orig, "furlong to meters")
	assert.Same(t, orig, wrapped)
}

func Test_ErrorTaxonomy_MessagesNameTheOffendingValue(t *testing.T) {
	cases := []struct {
		err  error
		want []string
	}{
		{&UnknownUnitNameError{Name: "zorkmid", Pos: Pos{Line: 1, Col: 1}}, []string{"zorkmid"}},
		{&UnknownPropertyNameError{Name: "flerbosity", Pos: Pos{Line: 1, Col: 1}}, []string{"flerbosity"}},
		{&DuplicateUnitNameError{Name: "meter"}, []string{"meter"}},
		{&DuplicatePropertyNameError{Name: "length"}, []string{"length"}},
		{&DuplicateDerivedPropertyError{Dimensions: "length / time"}, []string{"length / time"}},
		{&IncompatibleUnitsError{From: "meter", To: "second"}, []string{"meter", "second"}},
		{&IncompatibleBaseUnitError{Unit: "foot", BaseProperty: "mass", WantProperty: "length"}, []string{"foot", "mass", "length"}},
		{&InvalidEmptyPropertyError{Property: "luminosity"}, []string{"luminosity"}},
		{&NonAdditiveQuantitiesError{Unit: "celsius"}, []string{"celsius"}},
		{&ArithmeticError{Msg: "division by zero"}, []string{"division by zero"}},
		{&IllegalStateError{Msg: "token was not produced by this tokenizer"}, []string{"token was not produced"}},
	}
	for _, c := range cases {
		msg := c.err.Error()
		for _, want := range c.want {
			assert.True(t, strings.Contains(msg, want), "error %q missing %q", msg, want)
		}
	}
}

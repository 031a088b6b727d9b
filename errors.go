// errors.go: the error taxonomy for the unit-algebra engine and parser.
//
// Every error the core raises is one of the distinct kinds below. None of
// them are recovered from internally: the first failure aborts the current
// operation (tokenize / parse / evaluate) and is handed back to the caller
// as-is. Syntax-adjacent errors carry a Pos so the caller can render a
// caret-annotated snippet with Pos.Snippet.
package metric

import (
	"fmt"
	"strings"
)

// Pos is a 1-based source location, optionally tied to a named source (a
// file path, or "" for an anonymous query string).
type Pos struct {
	Line   int
	Col    int
	Source string
}

func (p Pos) String() string {
	if p.Source != "" {
		return fmt.Sprintf("%s:%d:%d", p.Source, p.Line, p.Col)
	}
	return fmt.Sprintf("%d:%d", p.Line, p.Col)
}

// Snippet renders a Python-style caret snippet for the given full source
// text: the offending line, one line of context on either side, and a caret
// under the 1-based column.
func (p Pos) Snippet(src string) string {
	lines := strings.Split(src, "\n")
	if len(lines) == 0 {
		lines = []string{""}
	}
	line := p.Line
	if line < 1 {
		line = 1
	}
	if line > len(lines) {
		line = len(lines)
	}
	col := p.Col
	if col < 1 {
		col = 1
	}

	var b strings.Builder
	if line > 1 {
		fmt.Fprintf(&b, "%4d | %s\n", line-1, lines[line-2])
	}
	fmt.Fprintf(&b, "%4d | %s\n", line, lines[line-1])
	fmt.Fprintf(&b, "     | %s^\n", strings.Repeat(" ", col-1))
	if line < len(lines) {
		fmt.Fprintf(&b, "%4d | %s\n", line+1, lines[line])
	}
	return b.String()
}

// SyntaxError is a tokenization or grammar violation.
type SyntaxError struct {
	Pos Pos
	Msg string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("syntax error at %s: %s", e.Pos, e.Msg)
}

// WithSnippet renders e with a caret-annotated snippet of src.
func (e *SyntaxError) WithSnippet(src string) string {
	return fmt.Sprintf("SYNTAX ERROR at %s: %s\n\n%s", e.Pos, e.Msg, e.Pos.Snippet(src))
}

// UnknownUnitNameError is raised when a name does not resolve to a registered unit.
type UnknownUnitNameError struct {
	Name string
	Pos  Pos
}

func (e *UnknownUnitNameError) Error() string {
	return fmt.Sprintf("unknown unit name %q at %s", e.Name, e.Pos)
}

// UnknownPropertyNameError is raised when a name does not resolve to a registered property.
type UnknownPropertyNameError struct {
	Name string
	Pos  Pos
}

func (e *UnknownPropertyNameError) Error() string {
	return fmt.Sprintf("unknown property name %q at %s", e.Name, e.Pos)
}

// DuplicateUnitNameError is raised when a unit name collides with one already registered.
type DuplicateUnitNameError struct {
	Name string
}

func (e *DuplicateUnitNameError) Error() string {
	return fmt.Sprintf("duplicate unit name %q", e.Name)
}

// DuplicatePropertyNameError is raised when a property name collides with one already registered.
type DuplicatePropertyNameError struct {
	Name string
}

func (e *DuplicatePropertyNameError) Error() string {
	return fmt.Sprintf("duplicate property name %q", e.Name)
}

// DuplicateDerivedPropertyError is raised when two derived properties reduce to the same dimensions.
type DuplicateDerivedPropertyError struct {
	Dimensions string
}

func (e *DuplicateDerivedPropertyError) Error() string {
	return fmt.Sprintf("two derived properties collapse to the same dimensions: %s", e.Dimensions)
}

// IncompatibleUnitsError is raised when a conversion or comparison spans dimensions.
type IncompatibleUnitsError struct {
	From, To string
}

func (e *IncompatibleUnitsError) Error() string {
	return fmt.Sprintf("incompatible units: %s is not compatible with %s", e.From, e.To)
}

// IncompatibleBaseUnitError is raised when a unit definition references a base
// unit belonging to a different property.
type IncompatibleBaseUnitError struct {
	Unit, BaseProperty, WantProperty string
}

func (e *IncompatibleBaseUnitError) Error() string {
	return fmt.Sprintf("unit %q references base unit of property %q, expected %q",
		e.Unit, e.BaseProperty, e.WantProperty)
}

// InvalidEmptyPropertyError is raised when a fundamental property has no atomic units at freeze time.
type InvalidEmptyPropertyError struct {
	Property string
}

func (e *InvalidEmptyPropertyError) Error() string {
	return fmt.Sprintf("fundamental property %q has no units", e.Property)
}

// NonAdditiveQuantitiesError is raised when a sum of quantities of size >= 2 includes an offsetted unit.
type NonAdditiveQuantitiesError struct {
	Unit string
}

func (e *NonAdditiveQuantitiesError) Error() string {
	return fmt.Sprintf("unit %q has a nonzero offset and cannot participate in a sum of quantities", e.Unit)
}

// ArithmeticError covers divide-by-zero, rounding-necessary-but-forbidden,
// and non-finite floating-point input.
type ArithmeticError struct {
	Msg string
}

func (e *ArithmeticError) Error() string {
	return "arithmetic error: " + e.Msg
}

// IllegalStateError is raised when an operation is invoked in a state that
// does not allow it: e.g. rewinding the Tokenizer to a token it never
// emitted, registering a unit on a frozen property, or loading currencies
// with no currency source.
type IllegalStateError struct {
	Msg string
}

func (e *IllegalStateError) Error() string {
	return "illegal state: " + e.Msg
}

// WrapWithSource renders err with a caret-annotated snippet of src when err
// carries source position information (currently *SyntaxError). All other
// errors are returned unchanged.
func WrapWithSource(err error, src string) error {
	if se, ok := err.(*SyntaxError); ok {
		return fmt.Errorf("%s", se.WithSnippet(src))
	}
	return err
}

// query.go: Quantity, the immutable (value, unit) pair the evaluator
// operates on, and ConversionQuery, the parsed result of a query string.
package metric

import "strings"

// Quantity is an immutable (Rational value, *Unit unit) pair.
type Quantity struct {
	Value Rational
	Unit  *Unit
}

// NewQuantity pairs value with unit.
func NewQuantity(value Rational, unit *Unit) Quantity { return Quantity{Value: value, Unit: unit} }

// Equal holds when both quantities are dimensionally compatible and convert
// to the same rational in q's unit. It is restricted to same-dimension
// quantities: comparing across dimensions is a programming error, not a
// silent "not equal". Use ApproximatelyEqual for the lax comparison.
func (q Quantity) Equal(other Quantity) bool {
	if !q.Unit.IsCompatibleWith(other.Unit) {
		panic("metric: Equal called on quantities of incompatible dimensions; use ApproximatelyEqual")
	}
	converted, _ := other.Unit.ConvertTo(other.Value, q.Unit)
	return q.Value.Equal(converted)
}

// ApproximatelyEqual is the lax counterpart to Equal: quantities of
// incompatible dimensions are simply unequal rather than a programming
// error.
func (q Quantity) ApproximatelyEqual(other Quantity) bool {
	if !q.Unit.IsCompatibleWith(other.Unit) {
		return false
	}
	return q.Equal(other)
}

// Compare converts other into q's unit and delegates to rational ordering.
func (q Quantity) Compare(other Quantity) (int, error) {
	converted, err := other.Unit.ConvertTo(other.Value, q.Unit)
	if err != nil {
		return 0, err
	}
	return q.Value.Compare(converted), nil
}

// ConvertTo converts q into dest, returning a new Quantity.
func (q Quantity) ConvertTo(dest *Unit) (Quantity, error) {
	v, err := q.Unit.ConvertTo(q.Value, dest)
	if err != nil {
		return Quantity{}, err
	}
	return Quantity{Value: v, Unit: dest}, nil
}

// SumQuantities sums a list of quantities into dest: an empty list sums
// to zero at destination; a single quantity is simply converted; two or
// more quantities fail with *NonAdditiveQuantitiesError if any involved unit
// carries a nonzero offset (since offsetted scales do not add: 0C + 0C is
// not 0C), otherwise each is converted and accumulated.
func SumQuantities(dest *Unit, qs []Quantity) (Quantity, error) {
	if len(qs) == 0 {
		return Quantity{Value: Zero, Unit: dest}, nil
	}
	if len(qs) == 1 {
		return qs[0].ConvertTo(dest)
	}
	for _, q := range qs {
		if !q.Unit.Offset().IsZero() {
			return Quantity{}, &NonAdditiveQuantitiesError{Unit: q.Unit.CanonicalLongName()}
		}
	}
	total := Zero
	for _, q := range qs {
		converted, err := q.ConvertTo(dest)
		if err != nil {
			return Quantity{}, err
		}
		total = total.Add(converted.Value)
	}
	return Quantity{Value: total, Unit: dest}, nil
}

// ConversionQuery is the fully-resolved result of parsing a query string:
// the original quantity list, their sum (in the source property's shared
// scale), and the final result (the sum converted to Dest).
type ConversionQuery struct {
	Quantities []Quantity
	Sum        Quantity
	Result     Quantity
	Dest       *Unit
	univ       *Universe
}

// NewConversionQuery sums qs and converts the sum to dest (or, if dest is
// nil, to the first quantity's property's base unit).
func NewConversionQuery(univ *Universe, qs []Quantity, dest *Unit) (*ConversionQuery, error) {
	if len(qs) == 0 {
		return nil, &IllegalStateError{Msg: "a query needs at least one quantity"}
	}
	if dest == nil {
		dest = qs[0].Unit.Property().BaseUnit()
	}
	sumDest := qs[0].Unit
	sum, err := SumQuantities(sumDest, qs)
	if err != nil {
		return nil, err
	}
	result, err := sum.ConvertTo(dest)
	if err != nil {
		return nil, err
	}
	return &ConversionQuery{Quantities: qs, Sum: sum, Result: result, Dest: dest, univ: univ}, nil
}

func (q *ConversionQuery) formatQuantity(qty Quantity) string {
	num := q.univ.FormatNumber(qty.Value)
	name := qty.Unit.CanonicalLongName()
	if qty.Value.Abs().Compare(One) != 0 {
		name = Pluralize(name)
	}
	return num + " " + name
}

// Expression renders the original quantity list: "q1" alone, or
// "(q1) + (q2) + ..." for two or more.
func (q *ConversionQuery) Expression() string {
	if len(q.Quantities) == 1 {
		return q.formatQuantity(q.Quantities[0])
	}
	parts := make([]string, len(q.Quantities))
	for i, qty := range q.Quantities {
		parts[i] = "(" + q.formatQuantity(qty) + ")"
	}
	return strings.Join(parts, " + ")
}

// ResultString renders "expression = value unit".
func (q *ConversionQuery) ResultString() string {
	return q.Expression() + " = " + q.formatQuantity(q.Result)
}

// QueryString renders "expression in plural_unit_name".
func (q *ConversionQuery) QueryString() string {
	return q.Expression() + " in " + Pluralize(q.Dest.CanonicalLongName())
}

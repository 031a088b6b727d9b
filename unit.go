// unit.go: Property, the dimensional-algebra home for a set of Units, and
// Unit itself — atomic, prefixed, or derived.
//
// Properties form an open-ended graph rather than a fixed enum: a derived
// property's dimensions are themselves a factorization over other
// properties, and all conversion math runs on exact Rational arithmetic.
package metric

import "strings"

// Property represents a physical dimension within a universe: length, time,
// a derived property like speed, or a currency's unit-of-account.
type Property struct {
	names      []string
	nameSet    map[string]bool
	dimensions Factorization[*Property]
	units      []*Unit
	unitByName map[string]*Unit
	baseUnit   *Unit
	frozen     bool
}

// NewFundamentalProperty creates a property whose sole dimension is itself.
// names[0] is the canonical name; the rest are synonyms.
func NewFundamentalProperty(names []string) *Property {
	p := &Property{
		names:      append([]string(nil), names...),
		nameSet:    toSet(names),
		unitByName: map[string]*Unit{},
	}
	p.dimensions = SingleFactor(p, 1)
	return p
}

// NewDerivedProperty creates a property whose dimensions are the reduction
// of dims (a factorization over other properties' dimensions).
func NewDerivedProperty(names []string, dims Factorization[*Property]) *Property {
	return &Property{
		names:      append([]string(nil), names...),
		nameSet:    toSet(names),
		dimensions: dims,
		unitByName: map[string]*Unit{},
	}
}

// Names returns the property's registered names in registration order.
func (p *Property) Names() []string { return append([]string(nil), p.names...) }

// CanonicalName returns the first registered name.
func (p *Property) CanonicalName() string {
	if len(p.names) == 0 {
		return ""
	}
	return p.names[0]
}

// Dimensions returns the property's reduced dimensional factorization.
func (p *Property) Dimensions() Factorization[*Property] { return p.dimensions }

// IsFundamental reports whether p's dimensions are exactly self^1.
func (p *Property) IsFundamental() bool {
	return p.dimensions.Len() == 1 && p.dimensions.Exponent(p) == 1
}

// BaseUnit returns the property's base unit (the first one registered, or
// the synthesized base unit of a derived property), or nil if none yet.
func (p *Property) BaseUnit() *Unit { return p.baseUnit }

// Units returns the property's units in registration order.
func (p *Property) Units() []*Unit { return append([]*Unit(nil), p.units...) }

// HasUnit reports whether name resolves to a unit of this property.
func (p *Property) HasUnit(name string) bool {
	_, ok := p.unitByName[name]
	return ok
}

// GetUnit looks up a unit by any of its registered names.
func (p *Property) GetUnit(name string) (*Unit, bool) {
	u, ok := p.unitByName[name]
	return u, ok
}

// RegisterUnit adds u to the property: validates name uniqueness against
// both this property's own index and u's owning universe's atomic-unit
// index (univ may be nil when the property is not yet attached), inserts
// every name variant, and sets u as the base unit if this is the first one.
func (p *Property) RegisterUnit(u *Unit, univ *Universe) error {
	if p.frozen {
		return &IllegalStateError{Msg: "cannot register a unit on a frozen property"}
	}
	names := u.allRegistrationNames()
	for _, n := range names {
		if _, exists := p.unitByName[n]; exists {
			return &DuplicateUnitNameError{Name: n}
		}
		if univ != nil && univ.HasUnit(n) {
			return &DuplicateUnitNameError{Name: n}
		}
	}
	for _, n := range names {
		p.unitByName[n] = u
		if univ != nil {
			univ.unitByName[n] = u
		}
	}
	u.property = p
	p.units = append(p.units, u)
	if univ != nil {
		univ.units = append(univ.units, u)
	}
	if p.baseUnit == nil {
		p.baseUnit = u
	}
	return nil
}

// Freeze finalizes the property: a fundamental property must have at least
// one atomic unit.
func (p *Property) Freeze() error {
	if p.IsFundamental() && len(p.units) == 0 {
		return &InvalidEmptyPropertyError{Property: p.CanonicalName()}
	}
	p.frozen = true
	return nil
}

// Unit is a named, scaled measure: atomic (registered directly), prefixed
// (derived from a base unit by a UnitPrefix), or derived (a product/quotient
// of other units). property is nil for an *invalid* synthesized unit.
type Unit struct {
	property *Property

	longNames  []string // singular forms, registration order
	shortNames []string

	multiplier Rational
	offset     Rational

	prefix *UnitPrefix
	base   *Unit // the unit this one is a prefixed variant of, if any

	factors Factorization[*Unit] // set only for derived units
}

// NewAtomicUnit creates a base or derived-within-property unit with an
// explicit multiplier/offset relative to its property's base unit.
func NewAtomicUnit(longNames, shortNames []string, multiplier, offset Rational) *Unit {
	return &Unit{
		longNames:  append([]string(nil), longNames...),
		shortNames: append([]string(nil), shortNames...),
		multiplier: multiplier,
		offset:     offset,
	}
}

// NewPrefixedUnit builds the prefixed variant of base under prefix: names
// are the concatenation of the prefix and the base unit's names, multiplier
// is prefix.Multiplier() * base.Multiplier(), offset is always zero.
// Fails if base is itself already prefixed.
func NewPrefixedUnit(prefix UnitPrefix, base *Unit) (*Unit, error) {
	if base.prefix != nil {
		return nil, &IllegalStateError{Msg: "cannot stack a prefix onto an already-prefixed unit " + base.CanonicalLongName()}
	}
	var longNames, shortNames []string
	for _, n := range base.longNames {
		longNames = append(longNames, prefix.LongName+n)
	}
	for _, n := range base.shortNames {
		shortNames = append(shortNames, prefix.ShortName+n)
	}
	u := &Unit{
		longNames:  longNames,
		shortNames: shortNames,
		multiplier: prefix.Multiplier().Mul(base.multiplier),
		offset:     Zero,
		prefix:     &prefix,
		base:       base,
	}
	return u, nil
}

// NewDerivedUnit synthesizes a unit from factors (after the caller has
// already unrolled nested derived units), computing its multiplier as the
// product of each factor's multiplier raised to its exponent. factors must
// be non-empty and must not be a single unit to the first power (a single
// unit with another exponent, such as m^2, is accepted). No factor may
// itself carry a nonzero offset. The caller (Universe.UnitForFactors) is
// responsible for attaching the property.
func NewDerivedUnit(factors Factorization[*Unit]) (*Unit, error) {
	if factors.Len() == 0 {
		return nil, &IllegalStateError{Msg: "a derived unit needs at least one factor"}
	}
	if only := factors.Items(); len(only) == 1 && factors.Exponent(only[0]) == 1 {
		return nil, &IllegalStateError{Msg: "a single unit raised to the first power is not a derived unit"}
	}
	mult := One
	for _, f := range factors.Items() {
		if !f.offset.IsZero() {
			return nil, &IllegalStateError{Msg: "unit " + f.CanonicalLongName() + " has a nonzero offset and cannot participate in a derived unit"}
		}
		p, err := f.multiplier.Pow(factors.Exponent(f))
		if err != nil {
			return nil, err
		}
		mult = mult.Mul(p)
	}
	return &Unit{multiplier: mult, offset: Zero, factors: factors}, nil
}

// Property returns the unit's property, or nil if this is an invalid synthesized unit.
func (u *Unit) Property() *Property { return u.property }

// IsValid reports whether u has an attached property.
func (u *Unit) IsValid() bool { return u.property != nil }

// IsDerived reports whether u was synthesized from a product/quotient of other units.
func (u *Unit) IsDerived() bool { return u.factors.Len() > 0 }

// Factors returns u's derivation, or the empty factorization for non-derived units.
func (u *Unit) Factors() Factorization[*Unit] { return u.factors }

// Multiplier and Offset implement base_value = value*multiplier + offset.
func (u *Unit) Multiplier() Rational { return u.multiplier }
func (u *Unit) Offset() Rational     { return u.offset }

// IsBase reports whether u is its property's base unit.
func (u *Unit) IsBase() bool { return u.property != nil && u.property.baseUnit == u }

// LongNames and ShortNames return u's registered name variants (singular long forms only).
func (u *Unit) LongNames() []string  { return append([]string(nil), u.longNames...) }
func (u *Unit) ShortNames() []string { return append([]string(nil), u.shortNames...) }

// CanonicalLongName returns u's first long name, or its first short name if it has none.
func (u *Unit) CanonicalLongName() string {
	if len(u.longNames) > 0 {
		return u.longNames[0]
	}
	if len(u.shortNames) > 0 {
		return u.shortNames[0]
	}
	return ""
}

// allRegistrationNames enumerates every name-index entry a unit occupies:
// each long name and its plural, and each short name. A long name of the
// form "degree X" is pluralized as "degrees X" and also registers the bare
// "X" (so "degree celsius", "degrees celsius" and "celsius" all resolve).
func (u *Unit) allRegistrationNames() []string {
	var out []string
	seen := map[string]bool{}
	add := func(n string) {
		if n != "" && !seen[n] {
			seen[n] = true
			out = append(out, n)
		}
	}
	for _, n := range u.longNames {
		add(n)
		if rest, ok := strings.CutPrefix(n, "degree "); ok {
			add("degrees " + rest)
			add(rest)
			continue
		}
		add(Pluralize(n))
	}
	for _, n := range u.shortNames {
		add(n)
	}
	return out
}

// IsCompatibleWith reports whether u and v may be converted between:
// both valid, with equal property dimensions.
func (u *Unit) IsCompatibleWith(v *Unit) bool {
	if !u.IsValid() || !v.IsValid() {
		return false
	}
	return u.property.dimensions.Equal(v.property.dimensions)
}

// ConvertTo converts x (measured in u) into v's scale. Fails with
// *IncompatibleUnitsError if the units are not dimensionally compatible.
func (u *Unit) ConvertTo(x Rational, v *Unit) (Rational, error) {
	if u == v {
		return x, nil
	}
	if !u.IsCompatibleWith(v) {
		return Rational{}, &IncompatibleUnitsError{From: u.CanonicalLongName(), To: v.CanonicalLongName()}
	}
	xBase := x
	if !u.IsBase() {
		xBase = x.Mul(u.multiplier).Add(u.offset)
	}
	if v.IsBase() {
		return xBase, nil
	}
	return xBase.Sub(v.offset).Div(v.multiplier)
}

// universe.go: Universe, the frozen-after-construction registry of every
// Property and Unit known to a loaded unit-definition file.
//
// An open registry that the parser populates property-by-property, rather
// than a fixed compiled-in table.
package metric

import "strings"

// CurrencyUnitSource is the external collaborator a universe loader may
// consult when a property_def is written as `name_list '$' currency_block`.
// It is invoked at most once during construction and never by the frozen
// universe itself.
type CurrencyUnitSource interface {
	// CurrencyUnits returns one definition per currency code the source
	// knows about. BaseCode names the currency every other multiplier is
	// relative to; multiplier is (1 unit of Code) expressed in BaseCode.
	CurrencyUnits() ([]CurrencyUnitDef, error)
}

// CurrencyUnitDef is one (code, long_name, base_code, multiplier, offset)
// triple for a single currency unit.
type CurrencyUnitDef struct {
	Code       string
	LongName   string
	BaseCode   string
	Multiplier Rational
	Offset     Rational
}

// Universe is the owning registry produced by parsing a universe definition
// file. Every field is write-once during construction and read-only after,
// except the derived-unit memoization cache, which UnitForFactors keeps
// filling on demand; that cache is not guarded by any lock.
type Universe struct {
	properties     []*Property
	propByName     map[string]*Property
	propByDims     map[string]*Property // keyed by dimensions.ToCanonicalString
	units          []*Unit
	unitByName     map[string]*Unit
	derivedByFacts map[string]*Unit // keyed by factors.ToCanonicalString
	numberFormat   func(Rational) string
	currencySource CurrencyUnitSource
}

// NewUniverse creates an empty, unfrozen registry. formatter defaults to
// Rational.Format when nil; currencySource may be nil if the file never
// declares a currency property.
func NewUniverse(formatter func(Rational) string, currencySource CurrencyUnitSource) *Universe {
	if formatter == nil {
		formatter = func(r Rational) string { return r.Format() }
	}
	return &Universe{
		propByName:     map[string]*Property{},
		propByDims:     map[string]*Property{},
		unitByName:     map[string]*Unit{},
		derivedByFacts: map[string]*Unit{},
		numberFormat:   formatter,
		currencySource: currencySource,
	}
}

// FormatNumber renders r with the universe's injected formatter.
func (u *Universe) FormatNumber(r Rational) string { return u.numberFormat(r) }

// CurrencySource returns the registered currency collaborator, or nil.
func (u *Universe) CurrencySource() CurrencyUnitSource { return u.currencySource }

// HasUnit reports whether name resolves to any registered atomic unit.
func (u *Universe) HasUnit(name string) bool {
	_, ok := u.unitByName[name]
	return ok
}

// GetUnit looks up an atomic unit by any of its registered names.
func (u *Universe) GetUnit(name string) (*Unit, error) {
	if un, ok := u.unitByName[name]; ok {
		return un, nil
	}
	return nil, &UnknownUnitNameError{Name: name}
}

// HasProperty reports whether name resolves to a registered property.
func (u *Universe) HasProperty(name string) bool {
	_, ok := u.propByName[name]
	return ok
}

// GetProperty looks up a property by any of its registered names.
func (u *Universe) GetProperty(name string) (*Property, error) {
	if p, ok := u.propByName[name]; ok {
		return p, nil
	}
	return nil, &UnknownPropertyNameError{Name: name}
}

// Properties returns every registered property in registration order.
func (u *Universe) Properties() []*Property { return append([]*Property(nil), u.properties...) }

// RegisterProperty adds p to the registry. Fails with
// *DuplicatePropertyNameError on a colliding name, or
// *DuplicateDerivedPropertyError when p is non-fundamental and its reduced
// dimensions collide with an already-registered property's.
func (u *Universe) RegisterProperty(p *Property) error {
	for _, n := range p.names {
		if _, exists := u.propByName[n]; exists {
			return &DuplicatePropertyNameError{Name: n}
		}
	}
	dimKey := p.dimensions.ToCanonicalString(propertyItemName)
	if !p.IsFundamental() {
		if existing, exists := u.propByDims[dimKey]; exists {
			return &DuplicateDerivedPropertyError{Dimensions: existing.dimensions.ToCanonicalString(propertyItemName)}
		}
	}
	for _, n := range p.names {
		u.propByName[n] = p
	}
	u.propByDims[dimKey] = p
	u.properties = append(u.properties, p)
	return nil
}

// RegisterUnit registers u as an atomic unit of its already-attached
// property, reflecting it into the universe's own name index. Callers that
// have not yet attached u to a property should call Property.RegisterUnit
// instead, which calls back into this index itself.
func (u *Universe) RegisterUnit(unit *Unit) error {
	if unit.property == nil {
		return &IllegalStateError{Msg: "cannot register a unit with no property"}
	}
	return unit.property.RegisterUnit(unit, u)
}

func propertyItemName(p *Property) string { return p.CanonicalName() }
func unitItemName(u *Unit) string         { return u.CanonicalLongName() }

// UnitFactorsFor resolves a Factorization<string> of unit names into a
// Factorization<*Unit>, failing with *UnknownUnitNameError on the first name
// that does not resolve.
func (u *Universe) UnitFactorsFor(names Factorization[string]) (Factorization[*Unit], error) {
	out := EmptyFactorization[*Unit]()
	for _, name := range names.Items() {
		unit, err := u.GetUnit(name)
		if err != nil {
			return Factorization[*Unit]{}, err
		}
		out = out.MulItem(unit, names.Exponent(name))
	}
	return out, nil
}

// unrollDerived expands any factor that is itself a derived unit into its
// own factorization (raised to the outer exponent), so the memoization key
// is always expressed in terms of non-derived units: "m/s * kg" is always
// represented as "m kg / s".
func unrollDerived(f Factorization[*Unit]) Factorization[*Unit] {
	out := EmptyFactorization[*Unit]()
	for _, item := range f.Items() {
		exp := f.Exponent(item)
		if item.IsDerived() {
			inner := unrollDerived(item.factors).Pow(exp)
			out = out.Mul(inner)
		} else {
			out = out.MulItem(item, exp)
		}
	}
	return out
}

// UnitForFactors resolves factors to a single *Unit: a single-item
// factorization with exponent 1 returns that unit directly; otherwise the
// (unrolled) combination is looked up in, or inserted into, the derived-unit
// memoization cache so that two queries built from the same factors return
// the identical *Unit instance.
func (u *Universe) UnitForFactors(factors Factorization[*Unit]) (*Unit, error) {
	rolled := unrollDerived(factors)
	if rolled.Len() == 1 {
		only := rolled.Items()[0]
		if rolled.Exponent(only) == 1 {
			return only, nil
		}
	}
	key := rolled.ToCanonicalString(unitItemName)
	if cached, ok := u.derivedByFacts[key]; ok {
		return cached, nil
	}
	derived, err := NewDerivedUnit(rolled)
	if err != nil {
		return nil, err
	}
	u.attachDerivedProperty(derived, rolled)
	u.derivedByFacts[key] = derived
	return derived, nil
}

// attachDerivedProperty resolves which property a derived unit belongs to:
// reduce the factors' dimensions; if they match a registered
// property's dimensions exactly, attach it; else if the reduction collapses
// to a single fundamental property, attach that; otherwise the unit is left
// invalid (property stays nil).
func (u *Universe) attachDerivedProperty(derived *Unit, factors Factorization[*Unit]) {
	dims := EmptyFactorization[*Property]()
	for _, f := range factors.Items() {
		if f.property == nil {
			return
		}
		dims = dims.Mul(f.property.dimensions.Pow(factors.Exponent(f)))
	}
	key := dims.ToCanonicalString(propertyItemName)
	if p, ok := u.propByDims[key]; ok {
		derived.property = p
		return
	}
	if dims.Len() == 1 {
		only := dims.Items()[0]
		if dims.Exponent(only) == 1 && only.IsFundamental() {
			derived.property = only
		}
	}
}

// LoadCurrencies consults the registered CurrencyUnitSource and registers a
// fundamental currency property with one atomic unit per returned
// definition, the base currency acting as the property's base unit.
// nameOverrides, keyed by currency code, supplements each unit's long names
// with whatever the universe file's currency block spelled out for that
// code. Fails with *IllegalStateError if no source was registered.
func (u *Universe) LoadCurrencies(propertyNames []string, nameOverrides map[string][]string) error {
	if u.currencySource == nil {
		return &IllegalStateError{Msg: "no currency source registered for this universe"}
	}
	defs, err := u.currencySource.CurrencyUnits()
	if err != nil {
		return err
	}
	prop := NewFundamentalProperty(propertyNames)
	if err := u.RegisterProperty(prop); err != nil {
		return err
	}
	longNamesFor := func(d CurrencyUnitDef) []string {
		names := append([]string{strings.ToLower(d.LongName)}, nameOverrides[d.Code]...)
		return names
	}
	byCode := map[string]*Unit{}
	// base currency first, so it becomes the property's base unit
	for _, d := range defs {
		if d.Code == d.BaseCode {
			unit := NewAtomicUnit(longNamesFor(d), []string{d.Code}, One, Zero)
			if err := prop.RegisterUnit(unit, u); err != nil {
				return err
			}
			byCode[d.Code] = unit
			break
		}
	}
	for _, d := range defs {
		if _, done := byCode[d.Code]; done {
			continue
		}
		unit := NewAtomicUnit(longNamesFor(d), []string{d.Code}, d.Multiplier, d.Offset)
		if err := prop.RegisterUnit(unit, u); err != nil {
			return err
		}
		byCode[d.Code] = unit
	}
	return prop.Freeze()
}

// parser.go: the two grammars this engine needs — a universe definition
// file and a query string — sharing one tokenizer and one recursive-descent
// factor-expression core.
//
// Single-token-lookahead recursive descent built directly on the
// tokenizer, non-recovering on the first error.
package metric

import (
	"fmt"
	"strings"
)

// Parser drives one grammar (universe file or query string) over a single
// Tokenizer, resolving names against univ as it goes.
type Parser struct {
	tok  *Tokenizer
	univ *Universe
	src  string
	buf  *Token
}

func (p *Parser) peek() (Token, error) {
	if p.buf != nil {
		return *p.buf, nil
	}
	t, err := p.tok.Next()
	if err != nil {
		return Token{}, err
	}
	p.buf = &t
	return t, nil
}

func (p *Parser) advance() (Token, error) {
	t, err := p.peek()
	if err != nil {
		return Token{}, err
	}
	p.buf = nil
	return t, nil
}

func (p *Parser) expect(kind TokenKind) (Token, error) {
	t, err := p.advance()
	if err != nil {
		return Token{}, err
	}
	if t.Kind != kind {
		return Token{}, syntaxErr(t, fmt.Sprintf("expected %s, got %q", kind, t.Text))
	}
	return t, nil
}

func syntaxErr(t Token, msg string) error {
	return &SyntaxError{Pos: t.Pos, Msg: msg}
}

func isWordText(t Token, text string) bool {
	return (t.Kind == WORD || t.Kind == KEYWORD) && t.Text == text
}

// --- names ------------------------------------------------------------

// parseName consumes name := WORD WORD*, joining consecutive words with a
// single space.
func (p *Parser) parseName() (string, error) {
	first, err := p.advance()
	if err != nil {
		return "", err
	}
	if first.Kind != WORD {
		return "", syntaxErr(first, "expected a name")
	}
	words := []string{first.Text}
	for {
		t, err := p.peek()
		if err != nil {
			return "", err
		}
		if t.Kind != WORD {
			break
		}
		p.advance()
		words = append(words, t.Text)
	}
	return strings.Join(words, " "), nil
}

// parseNameList consumes name_list := name (',' name)*.
func (p *Parser) parseNameList() ([]string, error) {
	var names []string
	n, err := p.parseName()
	if err != nil {
		return nil, err
	}
	names = append(names, n)
	for {
		t, err := p.peek()
		if err != nil {
			return nil, err
		}
		if t.Kind != COMMA {
			break
		}
		p.advance()
		n, err := p.parseName()
		if err != nil {
			return nil, err
		}
		names = append(names, n)
	}
	return names, nil
}

// parseShortNameList consumes a comma-separated list of single-word short names.
func (p *Parser) parseShortNameList() ([]string, error) {
	var out []string
	for {
		t, err := p.expect(WORD)
		if err != nil {
			return nil, err
		}
		out = append(out, t.Text)
		nt, err := p.peek()
		if err != nil {
			return nil, err
		}
		if nt.Kind != COMMA {
			break
		}
		p.advance()
	}
	return out, nil
}

// parsePrefixList consumes prefix_list := WORD (',' WORD)*.
func (p *Parser) parsePrefixList() ([]string, error) {
	var out []string
	for {
		t, err := p.expect(WORD)
		if err != nil {
			return nil, err
		}
		out = append(out, t.Text)
		nt, err := p.peek()
		if err != nil {
			return nil, err
		}
		if nt.Kind != COMMA {
			break
		}
		p.advance()
	}
	return out, nil
}

// --- numbers ------------------------------------------------------------

func (p *Parser) parseNumberOrPI() (Rational, error) {
	t, err := p.advance()
	if err != nil {
		return Rational{}, err
	}
	if t.Kind == NUMBER {
		return t.Num, nil
	}
	if isWordText(t, "PI") {
		return PI, nil
	}
	return Rational{}, syntaxErr(t, "expected a number or PI")
}

// parseNumberValue consumes the `number` production: an optional sign, a
// NUMBER or PI, and any combination of trailing '* (NUMBER|PI)' / '/
// (NUMBER|PI)' terms.
func (p *Parser) parseNumberValue() (Rational, error) {
	neg := false
	t, err := p.peek()
	if err != nil {
		return Rational{}, err
	}
	if t.Kind == PLUS || t.Kind == MINUS {
		p.advance()
		neg = t.Kind == MINUS
	}
	val, err := p.parseNumberOrPI()
	if err != nil {
		return Rational{}, err
	}
	if neg {
		val = val.Neg()
	}
	for {
		t, err := p.peek()
		if err != nil {
			return Rational{}, err
		}
		switch t.Kind {
		case STAR:
			p.advance()
			rhs, err := p.parseNumberOrPI()
			if err != nil {
				return Rational{}, err
			}
			val = val.Mul(rhs)
		case SLASH:
			p.advance()
			rhs, err := p.parseNumberOrPI()
			if err != nil {
				return Rational{}, err
			}
			val, err = val.Div(rhs)
			if err != nil {
				return Rational{}, err
			}
		default:
			return val, nil
		}
	}
}

// parseExponentSuffix consumes an optional exponent := '^' ('+'|'-')? NUMBER,
// returning 1 when no '^' is present.
func (p *Parser) parseExponentSuffix() (int, error) {
	t, err := p.peek()
	if err != nil {
		return 0, err
	}
	if t.Kind != CARET {
		return 1, nil
	}
	p.advance()
	sign := 1
	t, err = p.peek()
	if err != nil {
		return 0, err
	}
	if t.Kind == PLUS || t.Kind == MINUS {
		p.advance()
		if t.Kind == MINUS {
			sign = -1
		}
	}
	numTok, err := p.expect(NUMBER)
	if err != nil {
		return 0, err
	}
	rounded, err := numTok.Num.Round(RoundUnnecessary)
	if err != nil {
		return 0, syntaxErr(numTok, "exponent must be an integer")
	}
	return sign * int(rounded.Num().Int64()), nil
}

// --- factor expressions ------------------------------------------------

// parseUnitName greedily consumes a unit name: a leading
// "square"/"cubic"/"inverse" word unconditionally pulls in the next word and
// contributes an exponent multiplier (2, 3, -1); after that, the name keeps
// extending one word at a time only while the longer candidate is itself
// known (known resolves a full candidate name against the active registry —
// unit or property names depending on the calling grammar context).
func (p *Parser) parseUnitName(known func(string) bool) (string, int, error) {
	first, err := p.advance()
	if err != nil {
		return "", 0, err
	}
	if first.Kind != WORD {
		return "", 0, syntaxErr(first, "expected a unit name")
	}
	mult := 1
	name := first.Text
	switch first.Text {
	case "square":
		mult = 2
	case "cubic":
		mult = 3
	case "inverse":
		mult = -1
	}
	if mult != 1 {
		nt, err := p.expect(WORD)
		if err != nil {
			return "", 0, err
		}
		name = nt.Text
	}
	for {
		t, err := p.peek()
		if err != nil {
			return "", 0, err
		}
		if t.Kind != WORD {
			break
		}
		extended := name + " " + t.Text
		if !known(extended) {
			break
		}
		p.advance()
		name = extended
	}
	return name, mult, nil
}

// parseFactor consumes factor := '(' factor_expr ')' exponent? | unit_name exponent?.
func (p *Parser) parseFactor(known func(string) bool) (Factorization[string], error) {
	t, err := p.peek()
	if err != nil {
		return Factorization[string]{}, err
	}
	if t.Kind == LPAREN {
		p.advance()
		inner, err := p.parseFactorExpr(known)
		if err != nil {
			return Factorization[string]{}, err
		}
		if _, err := p.expect(RPAREN); err != nil {
			return Factorization[string]{}, err
		}
		exp, err := p.parseExponentSuffix()
		if err != nil {
			return Factorization[string]{}, err
		}
		return inner.Pow(exp), nil
	}
	name, mult, err := p.parseUnitName(known)
	if err != nil {
		return Factorization[string]{}, err
	}
	exp, err := p.parseExponentSuffix()
	if err != nil {
		return Factorization[string]{}, err
	}
	return SingleFactor(name, exp*mult), nil
}

// continuesFactor reports whether t can start another adjacent factor
// without an explicit operator (mul_expr/div_expr's implicit-multiply via a
// bare LPAREN or WORD).
func continuesFactor(t Token) bool {
	return t.Kind == LPAREN || t.Kind == WORD
}

// parseMulExpr consumes mul_expr := factor (('*' | LPAREN | WORD) factor)*.
func (p *Parser) parseMulExpr(known func(string) bool) (Factorization[string], error) {
	acc, err := p.parseFactor(known)
	if err != nil {
		return Factorization[string]{}, err
	}
	for {
		t, err := p.peek()
		if err != nil {
			return Factorization[string]{}, err
		}
		if t.Kind == STAR {
			p.advance()
		} else if !continuesFactor(t) {
			return acc, nil
		}
		nf, err := p.parseFactor(known)
		if err != nil {
			return Factorization[string]{}, err
		}
		acc = acc.Mul(nf)
	}
}

// parseDivExpr consumes div_expr := factor (('*'|'/'|'per'|LPAREN|WORD) factor)*.
func (p *Parser) parseDivExpr(known func(string) bool) (Factorization[string], error) {
	acc, err := p.parseFactor(known)
	if err != nil {
		return Factorization[string]{}, err
	}
	for {
		t, err := p.peek()
		if err != nil {
			return Factorization[string]{}, err
		}
		switch {
		case t.Kind == STAR:
			p.advance()
		case t.Kind == SLASH || isWordText(t, "per"):
			p.advance()
			nf, err := p.parseFactor(known)
			if err != nil {
				return Factorization[string]{}, err
			}
			acc = acc.Div(nf)
			continue
		case continuesFactor(t):
			// implicit multiply, fall through
		default:
			return acc, nil
		}
		nf, err := p.parseFactor(known)
		if err != nil {
			return Factorization[string]{}, err
		}
		acc = acc.Mul(nf)
	}
}

// parseFactorExpr consumes factor_expr := mul_expr (('/' | 'per') div_expr)?.
func (p *Parser) parseFactorExpr(known func(string) bool) (Factorization[string], error) {
	left, err := p.parseMulExpr(known)
	if err != nil {
		return Factorization[string]{}, err
	}
	t, err := p.peek()
	if err != nil {
		return Factorization[string]{}, err
	}
	if t.Kind == SLASH || isWordText(t, "per") {
		p.advance()
		right, err := p.parseDivExpr(known)
		if err != nil {
			return Factorization[string]{}, err
		}
		return left.Div(right), nil
	}
	return left, nil
}

// --- universe definition file grammar -----------------------------------

// ParseUniverseFile parses src (labeled source, for diagnostics) into a new
// frozen Universe. currencySrc may be nil if the file declares no currency property.
func ParseUniverseFile(src, source string, currencySrc CurrencyUnitSource) (*Universe, error) {
	tok := NewTokenizer(src, source)
	tok.RegisterKeyword("per")
	tok.RegisterKeyword("PI")
	univ := NewUniverse(nil, currencySrc)
	p := &Parser{tok: tok, univ: univ, src: src}
	for {
		t, err := p.peek()
		if err != nil {
			return nil, WrapWithSource(err, src)
		}
		if t.Kind == EOF {
			break
		}
		if err := p.parsePropertyDef(); err != nil {
			return nil, WrapWithSource(err, src)
		}
	}
	return univ, nil
}

func (p *Parser) parsePropertyDef() error {
	names, err := p.parseNameList()
	if err != nil {
		return err
	}
	t, err := p.peek()
	if err != nil {
		return err
	}
	if t.Kind == DOLLAR {
		p.advance()
		overrides, err := p.parseCurrencyBlock()
		if err != nil {
			return err
		}
		return p.univ.LoadCurrencies(names, overrides)
	}

	dims := EmptyFactorization[*Property]()
	unitFactors := EmptyFactorization[*Unit]()
	isDerived := t.Kind == EQUALS
	if isDerived {
		p.advance()
		known := func(name string) bool { return p.univ.HasProperty(name) }
		factorsStr, err := p.parseFactorExpr(known)
		if err != nil {
			return err
		}
		for _, name := range factorsStr.Items() {
			exp := factorsStr.Exponent(name)
			prop, err := p.univ.GetProperty(name)
			if err != nil {
				return err
			}
			dims = dims.Mul(prop.Dimensions().Pow(exp))
			unitFactors = unitFactors.MulItem(prop.BaseUnit(), exp)
		}
	}

	var prop *Property
	if isDerived {
		prop = NewDerivedProperty(names, dims)
	} else {
		prop = NewFundamentalProperty(names)
	}
	if err := p.univ.RegisterProperty(prop); err != nil {
		return err
	}
	if isDerived {
		baseUnit, err := p.univ.UnitForFactors(unitFactors)
		if err != nil {
			return err
		}
		baseUnit.property = prop
		prop.baseUnit = baseUnit
		prop.units = append(prop.units, baseUnit)
	}

	if _, err := p.expect(LBRACE); err != nil {
		return err
	}
	for {
		t, err := p.peek()
		if err != nil {
			return err
		}
		if t.Kind == RBRACE {
			p.advance()
			break
		}
		if err := p.parseUnitDef(prop); err != nil {
			return err
		}
	}
	return prop.Freeze()
}

func (p *Parser) parseCurrencyBlock() (map[string][]string, error) {
	if _, err := p.expect(LBRACE); err != nil {
		return nil, err
	}
	out := map[string][]string{}
	for {
		t, err := p.peek()
		if err != nil {
			return nil, err
		}
		if t.Kind == RBRACE {
			p.advance()
			break
		}
		codeTok, err := p.expect(WORD)
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(COLON); err != nil {
			return nil, err
		}
		names, err := p.parseNameList()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(SEMICOLON); err != nil {
			return nil, err
		}
		out[codeTok.Text] = names
	}
	return out, nil
}

// parseUnitDef consumes one unit_def and registers it (and any of its
// prefixed variants) onto prop. Long names are optional in practice — the
// derived-property shorthand `(mps) = meters per second;` names a unit by
// short name alone — so an empty name_list is accepted here.
func (p *Parser) parseUnitDef(prop *Property) error {
	var prefixNames []string
	t, err := p.peek()
	if err != nil {
		return err
	}
	if t.Kind == LBRACE {
		p.advance()
		prefixNames, err = p.parsePrefixList()
		if err != nil {
			return err
		}
		if _, err := p.expect(RBRACE); err != nil {
			return err
		}
	}

	var longNames []string
	t, err = p.peek()
	if err != nil {
		return err
	}
	if t.Kind == WORD {
		longNames, err = p.parseNameList()
		if err != nil {
			return err
		}
	}

	var shortNames []string
	t, err = p.peek()
	if err != nil {
		return err
	}
	if t.Kind == LPAREN {
		p.advance()
		shortNames, err = p.parseShortNameList()
		if err != nil {
			return err
		}
		if _, err := p.expect(RPAREN); err != nil {
			return err
		}
	}

	multiplier, offset := One, Zero
	hasExpr := false
	t, err = p.peek()
	if err != nil {
		return err
	}
	if t.Kind == EQUALS {
		hasExpr = true
		p.advance()
		m := One
		nt, err := p.peek()
		if err != nil {
			return err
		}
		if nt.Kind == NUMBER || nt.Kind == PLUS || nt.Kind == MINUS || isWordText(nt, "PI") {
			m, err = p.parseNumberValue()
			if err != nil {
				return err
			}
		}
		known := func(name string) bool { return p.univ.HasUnit(name) }
		factorsStr, err := p.parseFactorExpr(known)
		if err != nil {
			return err
		}
		unitFactors, err := p.univ.UnitFactorsFor(factorsStr)
		if err != nil {
			return err
		}
		baseExpr, err := p.univ.UnitForFactors(unitFactors)
		if err != nil {
			return err
		}
		if baseExpr.IsValid() && prop.baseUnit != nil && prop.baseUnit.IsValid() &&
			!baseExpr.property.dimensions.Equal(prop.baseUnit.property.dimensions) {
			return &IncompatibleBaseUnitError{
				Unit:         strings.Join(longNames, ", "),
				BaseProperty: baseExpr.Property().CanonicalName(),
				WantProperty: prop.CanonicalName(),
			}
		}
		multiplier = m.Mul(baseExpr.Multiplier())
		offset = m.Mul(baseExpr.Offset())

		t, err = p.peek()
		if err != nil {
			return err
		}
		if t.Kind == PLUS || t.Kind == MINUS {
			p.advance()
			extra, err := p.parseNumberValue()
			if err != nil {
				return err
			}
			if t.Kind == MINUS {
				extra = extra.Neg()
			}
			offset = offset.Add(extra)
		}
	}
	if _, err := p.expect(SEMICOLON); err != nil {
		return err
	}

	if len(prop.units) == 0 {
		if hasExpr {
			return &SyntaxError{Pos: t.Pos, Msg: "the base unit of a fundamental property must not have a defining expression"}
		}
		multiplier, offset = One, Zero
	}

	unit := NewAtomicUnit(longNames, shortNames, multiplier, offset)
	if err := prop.RegisterUnit(unit, p.univ); err != nil {
		return err
	}
	for _, pname := range prefixNames {
		pfx, ok := PrefixByLongName(pname)
		if !ok {
			return &SyntaxError{Pos: t.Pos, Msg: fmt.Sprintf("unknown prefix name %q", pname)}
		}
		prefixed, err := NewPrefixedUnit(pfx, unit)
		if err != nil {
			return err
		}
		if err := prop.RegisterUnit(prefixed, p.univ); err != nil {
			return err
		}
	}
	return nil
}

// --- query grammar --------------------------------------------------------

// ParseQuery parses src against an already-frozen universe.
func ParseQuery(univ *Universe, src string) (*ConversionQuery, error) {
	tok := NewTokenizer(src, "")
	for _, kw := range []string{"per", "in", "to", "as", "and", "plus", "PI"} {
		tok.RegisterKeyword(kw)
	}
	p := &Parser{tok: tok, univ: univ, src: src}

	qs, err := p.parseQuantityList()
	if err != nil {
		return nil, WrapWithSource(err, src)
	}

	var dest *Unit
	t, err := p.peek()
	if err != nil {
		return nil, WrapWithSource(err, src)
	}
	if isWordText(t, "in") || isWordText(t, "to") || isWordText(t, "as") {
		p.advance()
		known := func(name string) bool { return p.univ.HasUnit(name) }
		factorsStr, err := p.parseFactorExpr(known)
		if err != nil {
			return nil, WrapWithSource(err, src)
		}
		unitFactors, err := p.univ.UnitFactorsFor(factorsStr)
		if err != nil {
			return nil, WrapWithSource(err, src)
		}
		dest, err = p.univ.UnitForFactors(unitFactors)
		if err != nil {
			return nil, WrapWithSource(err, src)
		}
	}

	t, err = p.peek()
	if err != nil {
		return nil, WrapWithSource(err, src)
	}
	if t.Kind != EOF {
		return nil, WrapWithSource(syntaxErr(t, fmt.Sprintf("unexpected trailing input %q", t.Text)), src)
	}

	q, err := NewConversionQuery(univ, qs, dest)
	if err != nil {
		return nil, WrapWithSource(err, src)
	}
	return q, nil
}

func (p *Parser) parseQuantityList() ([]Quantity, error) {
	var qs []Quantity
	q, err := p.parseQuantity()
	if err != nil {
		return nil, err
	}
	qs = append(qs, q)
	for {
		t, err := p.peek()
		if err != nil {
			return nil, err
		}
		if t.Kind == COMMA || t.Kind == PLUS || isWordText(t, "and") || isWordText(t, "plus") {
			p.advance()
			q, err := p.parseQuantity()
			if err != nil {
				return nil, err
			}
			qs = append(qs, q)
			continue
		}
		break
	}
	return qs, nil
}

func (p *Parser) parseQuantity() (Quantity, error) {
	val, err := p.parseNumberValue()
	if err != nil {
		return Quantity{}, err
	}
	known := func(name string) bool { return p.univ.HasUnit(name) }
	factorsStr, err := p.parseFactorExpr(known)
	if err != nil {
		return Quantity{}, err
	}
	unitFactors, err := p.univ.UnitFactorsFor(factorsStr)
	if err != nil {
		return Quantity{}, err
	}
	unit, err := p.univ.UnitForFactors(unitFactors)
	if err != nil {
		return Quantity{}, err
	}
	return NewQuantity(val, unit), nil
}

// prefix.go: the closed set of SI decimal and IEC binary unit prefixes.
//
// The table is built once into an immutable slice and indexed eagerly into
// two case-sensitive maps at package init; this package never mutates
// either afterward.
package metric

// UnitPrefix is a named multiplier applied to a base unit (e.g. "kilo"/"k" -> 1000).
type UnitPrefix struct {
	LongName  string
	ShortName string
	Base      int // 10 or 2
	Scale     int
	mult      Rational
}

// Multiplier returns the prefix's exact scale factor, base^scale.
func (p UnitPrefix) Multiplier() Rational { return p.mult }

func mustPow(base Rational, n int) Rational {
	r, err := base.Pow(n)
	if err != nil {
		panic(err)
	}
	return r
}

func newPrefix(long, short string, base, scale int) UnitPrefix {
	return UnitPrefix{
		LongName:  long,
		ShortName: short,
		Base:      base,
		Scale:     scale,
		mult:      mustPow(NewRationalInt(int64(base)), scale),
	}
}

// Prefixes is the closed, ordered list of every recognized prefix.
var Prefixes = []UnitPrefix{
	newPrefix("yotta", "Y", 10, 24),
	newPrefix("zetta", "Z", 10, 21),
	newPrefix("exa", "E", 10, 18),
	newPrefix("peta", "P", 10, 15),
	newPrefix("tera", "T", 10, 12),
	newPrefix("giga", "G", 10, 9),
	newPrefix("mega", "M", 10, 6),
	newPrefix("kilo", "k", 10, 3),
	newPrefix("hecto", "h", 10, 2),
	newPrefix("deca", "da", 10, 1),
	newPrefix("deci", "d", 10, -1),
	newPrefix("centi", "c", 10, -2),
	newPrefix("milli", "m", 10, -3),
	newPrefix("micro", "u", 10, -6),
	newPrefix("nano", "n", 10, -9),
	newPrefix("pico", "p", 10, -12),
	newPrefix("femto", "f", 10, -15),
	newPrefix("atto", "a", 10, -18),
	newPrefix("zepto", "z", 10, -21),
	newPrefix("yocto", "y", 10, -24),

	newPrefix("kibi", "Ki", 2, 10),
	newPrefix("mebi", "Mi", 2, 20),
	newPrefix("gibi", "Gi", 2, 30),
	newPrefix("tebi", "Ti", 2, 40),
	newPrefix("pebi", "Pi", 2, 50),
	newPrefix("exbi", "Ei", 2, 60),
	newPrefix("zebi", "Zi", 2, 70),
	newPrefix("yobi", "Yi", 2, 80),
}

var (
	prefixByLong  = map[string]UnitPrefix{}
	prefixByShort = map[string]UnitPrefix{}
)

func init() {
	for _, p := range Prefixes {
		prefixByLong[p.LongName] = p
		prefixByShort[p.ShortName] = p
	}
}

// PrefixByLongName looks up a prefix by its case-sensitive long name (e.g. "kilo").
func PrefixByLongName(name string) (UnitPrefix, bool) {
	p, ok := prefixByLong[name]
	return p, ok
}

// PrefixByShortName looks up a prefix by its case-sensitive short name (e.g. "k").
func PrefixByShortName(name string) (UnitPrefix, bool) {
	p, ok := prefixByShort[name]
	return p, ok
}

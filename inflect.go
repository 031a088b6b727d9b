// inflect.go: a small ordered rule engine for English singular/plural inflection.
//
// Unit long names are registered and displayed in both forms, so the
// universe needs a plural_of/singular_of pair that agree with each other on
// the canonical round trip: singular(plural(w)) == w. Both directions are
// built from one source of truth (irregulars and uninflected words) so they
// cannot drift apart.
//
// Rules are tried in order and the first applicable one wins.
package metric

import (
	"regexp"
	"strings"
)

// Rule is one inflection step: a predicate and a transform over the inner
// (whitespace-trimmed) word.
type Rule interface {
	AppliesTo(word string) bool
	ApplyTo(word string) string
}

type ruleFunc struct {
	applies func(string) bool
	apply   func(string) string
}

func (r ruleFunc) AppliesTo(word string) bool { return r.applies(word) }
func (r ruleFunc) ApplyTo(word string) string { return r.apply(word) }

// IdentityRule always applies and returns the word unchanged.
func IdentityRule() Rule {
	return ruleFunc{
		applies: func(string) bool { return true },
		apply:   func(w string) string { return w },
	}
}

// PatternReplaceRule applies when pattern matches anywhere in the word, replacing
// the match per regexp.ReplaceAllString semantics (replacement may use $1-style groups).
func PatternReplaceRule(pattern *regexp.Regexp, replacement string) Rule {
	return ruleFunc{
		applies: pattern.MatchString,
		apply:   func(w string) string { return pattern.ReplaceAllString(w, replacement) },
	}
}

// PatternFuncRule applies when pattern matches, computing the replacement from the
// matched submatches via fn.
func PatternFuncRule(pattern *regexp.Regexp, fn func(match []string) string) Rule {
	return ruleFunc{
		applies: pattern.MatchString,
		apply: func(w string) string {
			loc := pattern.FindStringSubmatchIndex(w)
			if loc == nil {
				return w
			}
			groups := pattern.FindStringSubmatch(w)
			repl := fn(groups)
			return w[:loc[0]] + repl + w[loc[1]:]
		},
	}
}

// SuffixReplaceRule applies when word ends with suffix, swapping it for replacement.
func SuffixReplaceRule(suffix, replacement string) Rule {
	return ruleFunc{
		applies: func(w string) bool { return strings.HasSuffix(w, suffix) },
		apply:   func(w string) string { return strings.TrimSuffix(w, suffix) + replacement },
	}
}

// SuffixDisjunctionRule applies when word ends with any of suffixes, swapping
// whichever one matched for replacement.
func SuffixDisjunctionRule(suffixes []string, replacement string) Rule {
	return ruleFunc{
		applies: func(w string) bool {
			for _, s := range suffixes {
				if strings.HasSuffix(w, s) {
					return true
				}
			}
			return false
		},
		apply: func(w string) string {
			for _, s := range suffixes {
				if strings.HasSuffix(w, s) {
					return strings.TrimSuffix(w, s) + replacement
				}
			}
			return w
		},
	}
}

// OnlyForWords restricts inner to applying only when word is exactly one of set.
func OnlyForWords(set []string, inner Rule) Rule {
	allow := toSet(set)
	return ruleFunc{
		applies: func(w string) bool { return allow[w] && inner.AppliesTo(w) },
		apply:   inner.ApplyTo,
	}
}

// ExceptForWords restricts inner to applying only when word is not one of set.
func ExceptForWords(set []string, inner Rule) Rule {
	deny := toSet(set)
	return ruleFunc{
		applies: func(w string) bool { return !deny[w] && inner.AppliesTo(w) },
		apply:   inner.ApplyTo,
	}
}

// ForWordsMatching restricts inner to words that match pattern.
func ForWordsMatching(pattern *regexp.Regexp, inner Rule) Rule {
	return ruleFunc{
		applies: func(w string) bool { return pattern.MatchString(w) && inner.AppliesTo(w) },
		apply:   inner.ApplyTo,
	}
}

// ForWordsNotMatching restricts inner to words that do not match pattern.
func ForWordsNotMatching(pattern *regexp.Regexp, inner Rule) Rule {
	return ruleFunc{
		applies: func(w string) bool { return !pattern.MatchString(w) && inner.AppliesTo(w) },
		apply:   inner.ApplyTo,
	}
}

// ConstrainedBy restricts inner to words for which pred holds.
func ConstrainedBy(pred func(string) bool, inner Rule) Rule {
	return ruleFunc{
		applies: func(w string) bool { return pred(w) && inner.AppliesTo(w) },
		apply:   inner.ApplyTo,
	}
}

func toSet(words []string) map[string]bool {
	m := make(map[string]bool, len(words))
	for _, w := range words {
		m[w] = true
	}
	return m
}

// Inflector applies an ordered rule list: the first rule whose AppliesTo
// matches the inner word wins. Leading/trailing whitespace is preserved
// around the transform, and the output's letter-case mirrors the input's
// (all-uppercase, Capitalized, or left as-is).
type Inflector struct {
	rules []Rule
}

// NewInflector builds an Inflector from an ordered rule list. Callers should
// end the list with IdentityRule() so every word has some match.
func NewInflector(rules []Rule) *Inflector {
	return &Inflector{rules: append([]Rule(nil), rules...)}
}

var wordBoundary = regexp.MustCompile(`^(\s*)(.*\S)?(\s*)$`)

// Apply runs the rule list against word, restoring surrounding whitespace
// and matching the original's letter case.
func (inf *Inflector) Apply(word string) string {
	if strings.TrimSpace(word) == "" {
		return word
	}
	m := wordBoundary.FindStringSubmatch(word)
	lead, inner, trail := m[1], m[2], m[3]
	if inner == "" {
		return word
	}
	lower := strings.ToLower(inner)
	var out string
	for _, r := range inf.rules {
		if r.AppliesTo(lower) {
			out = r.ApplyTo(lower)
			break
		}
	}
	if out == "" {
		out = inner
	}
	return lead + matchCase(inner, out) + trail
}

func matchCase(original, result string) string {
	switch {
	case original == strings.ToUpper(original) && original != strings.ToLower(original):
		return strings.ToUpper(result)
	case isCapitalized(original):
		return capitalize(result)
	default:
		return result
	}
}

func isCapitalized(s string) bool {
	if s == "" {
		return false
	}
	first := s[:1]
	return first == strings.ToUpper(first) && first != strings.ToLower(first) && s[1:] == strings.ToLower(s[1:])
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + strings.ToLower(s[1:])
}

// --- English singular/plural tables: single source of truth -----------------

// irregularPlurals maps a singular form to its irregular plural. Both
// Pluralize and Singularize consult this map (in the appropriate direction)
// before falling through to the general rule list.
var irregularPlurals = map[string]string{
	"foot":  "feet",
	"tooth": "teeth",
	"goose": "geese",
	"man":   "men",
	"woman": "women",
	"child": "children",
	"mouse": "mice",
	"person": "people",
	"die":   "dice",
	"ox":    "oxen",
}

// uninflectedWords never change between singular and plural.
var uninflectedWords = []string{
	"equipment", "information", "series", "species", "fish", "sheep",
	"moose", "deer", "celsius", "fahrenheit", "kelvin",
}

var irregularSingularFromPlural = reverseMap(irregularPlurals)

func reverseMap(m map[string]string) map[string]string {
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[v] = k
	}
	return out
}

var (
	consonant              = `[^aeiouAEIOU]`
	reConsonantY           = regexp.MustCompile(consonant + `y$`)
	reSibilantSuffix       = regexp.MustCompile(`(s|sh|ch|x|z)$`)
	reSingularIesConsonant = regexp.MustCompile(consonant + `ies$`)
	reSingularSibilantEs   = regexp.MustCompile(`(s|sh|ch|x|z)es$`)
	reSingularVesFtoF      = regexp.MustCompile(`([aeiou])ves$`)
	reSingularVesLfToLf    = regexp.MustCompile(`lves$`)
)

var pluralizeIrregular = ruleFunc{
	applies: func(w string) bool { _, ok := irregularPlurals[w]; return ok },
	apply:   func(w string) string { return irregularPlurals[w] },
}

var singularizeIrregular = ruleFunc{
	applies: func(w string) bool { _, ok := irregularSingularFromPlural[w]; return ok },
	apply:   func(w string) string { return irregularSingularFromPlural[w] },
}

var pluralizer = NewInflector([]Rule{
	OnlyForWords(uninflectedWords, IdentityRule()),
	pluralizeIrregular,
	ForWordsMatching(reConsonantY, SuffixReplaceRule("y", "ies")),
	PatternReplaceRule(regexp.MustCompile(`(.)lf$`), "${1}lves"),
	PatternReplaceRule(regexp.MustCompile(`(.)fe$`), "${1}ves"),
	PatternReplaceRule(reSibilantSuffix, "${1}es"),
	SuffixReplaceRule("", "s"),
})

var singularizer = NewInflector([]Rule{
	OnlyForWords(uninflectedWords, IdentityRule()),
	singularizeIrregular,
	ForWordsMatching(reSingularIesConsonant, SuffixReplaceRule("ies", "y")),
	ForWordsMatching(reSingularVesLfToLf, SuffixReplaceRule("lves", "lf")),
	ForWordsMatching(reSingularVesFtoF, SuffixReplaceRule("ves", "fe")),
	ForWordsMatching(reSingularSibilantEs, SuffixReplaceRule("es", "")),
	SuffixReplaceRule("s", ""),
	IdentityRule(),
})

// Pluralize returns the English plural of word, preserving whitespace and letter case.
func Pluralize(word string) string { return pluralizer.Apply(word) }

// Singularize returns the English singular of word, preserving whitespace and letter case.
func Singularize(word string) string { return singularizer.Apply(word) }

// internal/match/match.go
//
// Match evaluator: compares one attribute of a guessed character against the
// same attribute of the target.
//
// Rules per attribute type:
//   - list:  set comparison. Correct on set equality, Partial on a non-empty
//            intersection, Wrong otherwise. Scalars count as singleton sets.
//   - year:  first 4-digit run of each value; Correct iff the years match.
//   - other: loose scalar equality (see LooseEqual).
//
// Ordinal attributes (year, or text flagged ordinal) can also produce a
// directional hint. Nothing in this package returns an error: malformed
// values degrade to 0.

package match

import (
	"regexp"
	"strconv"

	"github.com/robalobadob/hsr-guess/internal/dataset"
	"github.com/robalobadob/hsr-guess/internal/schema"
)

// Verdict is the per-attribute outcome of comparing a guess to the target.
type Verdict string

const (
	Correct Verdict = "correct"
	Partial Verdict = "partial"
	Wrong   Verdict = "wrong"
)

// Hint points from the guessed value towards the target value.
type Hint string

const (
	HintNone   Hint = ""
	HintHigher Hint = "higher" // target is higher than the guess
	HintLower  Hint = "lower"  // target is lower than the guess
)

// Evaluate returns the verdict for a single attribute.
func Evaluate(a schema.Attribute, guess, target dataset.Value) Verdict {
	switch a.Type {
	case schema.TypeList:
		return compareSets(guess.Items(), target.Items())
	case schema.TypeYear:
		if ExtractYear(guess.String()) == ExtractYear(target.String()) {
			return Correct
		}
		return Wrong
	case schema.TypeImage, schema.TypeText:
		fallthrough
	default:
		if LooseEqual(guess.String(), target.String()) {
			return Correct
		}
		return Wrong
	}
}

// HintFor returns the direction from guess to target for ordinal attributes.
// Non-ordinal attributes and equal values yield HintNone.
func HintFor(a schema.Attribute, guess, target dataset.Value) Hint {
	if !a.IsOrdinal() {
		return HintNone
	}
	g, t := Numeric(a, guess), Numeric(a, target)
	switch {
	case g < t:
		return HintHigher
	case g > t:
		return HintLower
	default:
		return HintNone
	}
}

// Result bundles a verdict with its optional hint.
type Result struct {
	Verdict Verdict `json:"verdict"`
	Hint    Hint    `json:"hint,omitempty"`
}

// Compare evaluates one attribute and, when hints are on and the verdict is
// Wrong, attaches the direction for ordinal attributes.
func Compare(a schema.Attribute, guess, target dataset.Value, hints bool) Result {
	r := Result{Verdict: Evaluate(a, guess, target)}
	if hints && r.Verdict == Wrong {
		r.Hint = HintFor(a, guess, target)
	}
	return r
}

func compareSets(guess, target []string) Verdict {
	g, t := toSet(guess), toSet(target)
	common := 0
	for k := range g {
		if _, ok := t[k]; ok {
			common++
		}
	}
	switch {
	case common == len(g) && common == len(t):
		return Correct
	case common > 0:
		return Partial
	default:
		return Wrong
	}
}

func toSet(items []string) map[string]struct{} {
	m := make(map[string]struct{}, len(items))
	for _, s := range items {
		m[s] = struct{}{}
	}
	return m
}

var yearRe = regexp.MustCompile(`\d{4}`)

// ExtractYear returns the first 4-digit run in s, or 0 if there is none.
func ExtractYear(s string) int {
	m := yearRe.FindString(s)
	if m == "" {
		return 0
	}
	n, _ := strconv.Atoi(m)
	return n
}

// Numeric returns the ordering value of an ordinal attribute: the year for
// year attributes, the leading integer for everything else.
func Numeric(a schema.Attribute, v dataset.Value) int {
	if a.Type == schema.TypeYear {
		return ExtractYear(v.String())
	}
	return LeadingInt(v.String())
}

// LeadingInt parses an optional sign and leading digits, ignoring leading
// whitespace and any trailing text ("5 star" -> 5). No digits yields 0.
func LeadingInt(s string) int {
	i := 0
	for i < len(s) && (s[i] == ' ' || s[i] == '\t' || s[i] == '\n' || s[i] == '\r') {
		i++
	}
	neg := false
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		neg = s[i] == '-'
		i++
	}
	n, digits := 0, 0
	for ; i < len(s) && s[i] >= '0' && s[i] <= '9'; i++ {
		n = n*10 + int(s[i]-'0')
		digits++
		if digits > 18 {
			break
		}
	}
	if neg {
		return -n
	}
	return n
}

// LooseEqual compares two scalars. Values that both parse as numbers are
// compared numerically ("5" == "5.0"); anything else is compared as text.
func LooseEqual(a, b string) bool {
	if a == b {
		return true
	}
	fa, errA := strconv.ParseFloat(a, 64)
	fb, errB := strconv.ParseFloat(b, 64)
	return errA == nil && errB == nil && fa == fb
}

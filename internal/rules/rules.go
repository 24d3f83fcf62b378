// Package rules implements the consistency rule engine for translated
// segments. Each rule is a pure predicate over a (source, target) pair; rules
// are evaluated independently and violations accumulate, so a single pair can
// trip several rules at once.
package rules

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Rule is one consistency check. Check returns true when the pair violates
// the rule.
type Rule interface {
	Name() string
	Description() string
	Check(source, target string) bool
}

// DefaultRules returns the built-in rule set in evaluation order. New rules
// are added by appending to this list.
func DefaultRules() []Rule {
	return []Rule{
		&sourceLanguageLeak{},
		&abbreviationConsistency{},
		&properCapitalization{},
	}
}

// ByName returns the built-in rule with the given name, if any.
func ByName(name string) (Rule, bool) {
	for _, r := range DefaultRules() {
		if r.Name() == name {
			return r, true
		}
	}
	return nil, false
}

// sourceLanguageLeak flags target text that still carries diagnostic
// Portuguese markers: combining tildes and cedillas, characteristic word
// endings, or standalone function words.
type sourceLanguageLeak struct{}

var (
	// Endings without diacritics that survive naive accent stripping.
	portugueseEndings = regexp.MustCompile(`(?i)\p{L}{2,}(?:mente|idade|agem|ções|ção)\b`)

	// Function words that have no English reading. Ambiguous ones such as
	// "no" and "do" are deliberately excluded.
	portugueseStopwords = regexp.MustCompile(`(?i)\b(?:da|das|dos|na|nas|pelo|pela|uma|foi|são|também|porém)\b`)
)

func (r *sourceLanguageLeak) Name() string { return "no_leaked_source_language" }

func (r *sourceLanguageLeak) Description() string {
	return "target text must not contain Portuguese morphological markers"
}

func (r *sourceLanguageLeak) Check(source, target string) bool {
	// Decomposing first catches every accented form with one scan instead
	// of enumerating precomposed code points.
	for _, c := range norm.NFD.String(target) {
		if c == '̃' || c == '̧' {
			return true
		}
	}
	if portugueseEndings.MatchString(target) {
		return true
	}
	return portugueseStopwords.MatchString(target)
}

// abbreviationConsistency flags target text that defines the same
// abbreviation with two different expansions, e.g. "Convolutional Neural
// Network (CNN)" followed later by "Custom Node Network (CNN)".
type abbreviationConsistency struct{}

var abbreviationDefPattern = regexp.MustCompile(`\(([A-Z]{2,10})\)`)

func (r *abbreviationConsistency) Name() string { return "consistent_abbreviations" }

func (r *abbreviationConsistency) Description() string {
	return "an abbreviation must expand identically everywhere it is defined"
}

func (r *abbreviationConsistency) Check(source, target string) bool {
	seen := make(map[string]string)
	for _, loc := range abbreviationDefPattern.FindAllStringSubmatchIndex(target, -1) {
		abbr := target[loc[2]:loc[3]]
		expansion := expansionBefore(target[:loc[0]], len(abbr))
		if expansion == "" {
			continue
		}
		if prev, ok := seen[abbr]; ok && prev != expansion {
			return true
		}
		seen[abbr] = expansion
	}
	return false
}

// expansionBefore takes the n words immediately preceding an abbreviation's
// opening parenthesis as its expansion, normalized for comparison.
func expansionBefore(prefix string, n int) string {
	words := strings.Fields(prefix)
	if len(words) < n {
		return ""
	}
	expansion := words[len(words)-n:]
	for i, w := range expansion {
		expansion[i] = strings.ToLower(strings.Trim(w, ".,;:"))
	}
	return strings.Join(expansion, " ")
}

// properCapitalization flags recognized technical terms written in a
// non-canonical capitalization, such as "u-net" for "U-Net".
type properCapitalization struct{}

// canonicalTerms is the fixed set of terms with a single accepted spelling.
var canonicalTerms = []string{
	"U-Net",
	"Attention U-Net",
	"IoU",
	"Dice coefficient",
	"F1-score",
	"ASTM A572",
	"LaTeX",
	"MATLAB",
	"ReLU",
	"Adam",
}

func (r *properCapitalization) Name() string { return "proper_capitalization" }

func (r *properCapitalization) Description() string {
	return "technical terms must use their canonical capitalization"
}

func (r *properCapitalization) Check(source, target string) bool {
	runes := []rune(target)
	for _, canonical := range canonicalTerms {
		needle := []rune(canonical)
		for i := 0; i+len(needle) <= len(runes); i++ {
			if !foldedMatchAt(runes, needle, i) {
				continue
			}
			if string(runes[i:i+len(needle)]) != canonical {
				return true
			}
		}
	}
	return false
}

// foldedMatchAt reports a case-insensitive whole-word match of needle in
// runes at offset i.
func foldedMatchAt(runes, needle []rune, i int) bool {
	for k, r := range needle {
		if unicode.ToLower(runes[i+k]) != unicode.ToLower(r) {
			return false
		}
	}
	if i > 0 && isWordRune(runes[i-1]) {
		return false
	}
	end := i + len(needle)
	if end < len(runes) && isWordRune(runes[end]) && isWordRune(needle[len(needle)-1]) {
		return false
	}
	return true
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

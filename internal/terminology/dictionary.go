// Package terminology provides a static, domain-partitioned Portuguese to
// English term dictionary for technical documents, with exact-phrase lookup,
// bulk enumeration, and consistency scanning of translated text.
package terminology

import (
	"fmt"
	"os"
	"sort"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"

	"tm-engine/internal/logger"
	"tm-engine/internal/types"
)

// Domain is a disjoint technical-term category.
type Domain string

const (
	DomainStructural      Domain = "structural-engineering"
	DomainDeepLearning    Domain = "deep-learning"
	DomainSegmentation    Domain = "segmentation-metrics"
	DomainStatistics      Domain = "statistics"
	DomainAcademicWriting Domain = "academic-writing"
	DomainFiguresTables   Domain = "figures-tables"
	DomainAbbreviations   Domain = "abbreviations"
	DomainUnits           Domain = "units"
)

// Domains returns all domains in fixed priority order. The order doubles as
// the domain-priority list for term-by-term resolution.
func Domains() []Domain {
	return []Domain{
		DomainStructural,
		DomainDeepLearning,
		DomainSegmentation,
		DomainStatistics,
		DomainAcademicWriting,
		DomainFiguresTables,
		DomainAbbreviations,
		DomainUnits,
	}
}

// TermPair is one source→target mapping within a domain.
type TermPair struct {
	Source string `json:"source" yaml:"source"`
	Target string `json:"target" yaml:"target"`
}

// ConsistencyCheck reports terminology findings in a translated text.
// Inconsistencies lists source-language terms still present; MixedUsage lists
// term pairs where both the source and the target form appear. A pair flagged
// as mixed usage is not repeated under Inconsistencies.
type ConsistencyCheck struct {
	Inconsistencies []string `json:"inconsistencies"`
	MixedUsage      []string `json:"mixed_usage"`
}

// foldLower lowercases with Portuguese casing rules so accented phrases stay
// comparable. A fresh Caser per call: cases.Caser is documented as possibly
// stateful and not shareable between goroutines, and dictionary reads may
// run concurrently.
func foldLower(s string) string {
	return cases.Lower(language.Portuguese).String(s)
}

// Dictionary is a domain-partitioned term mapping. Within a domain the source
// phrase is unique; lookups are case-insensitive exact-phrase matches.
type Dictionary struct {
	terms map[Domain]map[string]string
}

// NewDictionary creates a Dictionary preloaded with the built-in term tables.
func NewDictionary() *Dictionary {
	d := &Dictionary{terms: make(map[Domain]map[string]string)}
	for domain, pairs := range builtinTerms {
		table := make(map[string]string, len(pairs))
		for src, tgt := range pairs {
			table[foldLower(src)] = tgt
		}
		d.terms[domain] = table
	}
	return d
}

// knownDomain reports whether domain is one of the fixed enumerated domains.
func knownDomain(domain Domain) bool {
	for _, d := range Domains() {
		if d == domain {
			return true
		}
	}
	return false
}

// Translate returns the target-language phrase for term in the given domain.
// An unknown domain is a programmer error and fails fast. A lookup miss is
// non-fatal: the original term is returned unchanged and a warning is logged.
// Callers must treat an unchanged return value as "no translation available",
// not as evidence the term is already correct.
func (d *Dictionary) Translate(term string, domain Domain) (string, error) {
	target, found, err := d.Lookup(term, domain)
	if err != nil {
		return "", err
	}
	if !found {
		logger.Warn("term not found",
			logger.String("term", term),
			logger.String("domain", string(domain)))
		return term, nil
	}
	return target, nil
}

// Lookup is like Translate but reports the miss explicitly instead of logging.
func (d *Dictionary) Lookup(term string, domain Domain) (string, bool, error) {
	if !knownDomain(domain) {
		return "", false, types.NewAppErrorWithDetails(types.ErrUnknownDomain,
			"unknown terminology domain", string(domain), nil)
	}
	table := d.terms[domain]
	if table == nil {
		return "", false, nil
	}
	target, ok := table[foldLower(term)]
	return target, ok, nil
}

// Enumerate returns every term pair in the domain, ordered by source phrase
// for deterministic bulk scans.
func (d *Dictionary) Enumerate(domain Domain) ([]TermPair, error) {
	if !knownDomain(domain) {
		return nil, types.NewAppErrorWithDetails(types.ErrUnknownDomain,
			"unknown terminology domain", string(domain), nil)
	}

	table := d.terms[domain]
	pairs := make([]TermPair, 0, len(table))
	for src, tgt := range table {
		pairs = append(pairs, TermPair{Source: src, Target: tgt})
	}
	sort.Slice(pairs, func(i, j int) bool {
		return pairs[i].Source < pairs[j].Source
	})
	return pairs, nil
}

// AddTerm registers a new source→target mapping in the domain, replacing any
// existing mapping for the same source phrase.
func (d *Dictionary) AddTerm(source, target string, domain Domain) error {
	if !knownDomain(domain) {
		return types.NewAppErrorWithDetails(types.ErrUnknownDomain,
			"unknown terminology domain", string(domain), nil)
	}
	if source == "" || target == "" {
		return types.NewAppError(types.ErrInvalidInput, "term source and target must be non-empty", nil)
	}

	if d.terms[domain] == nil {
		d.terms[domain] = make(map[string]string)
	}
	d.terms[domain][foldLower(source)] = target
	return nil
}

// termsFile is the YAML layout for user-supplied terminology extensions.
type termsFile struct {
	Domains map[string][]TermPair `yaml:"domains"`
}

// LoadTerms merges term pairs from a YAML file into the dictionary.
// The file maps domain names to lists of {source, target} pairs.
func (d *Dictionary) LoadTerms(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return types.NewAppErrorWithDetails(types.ErrConfig, "failed to read terms file", path, err)
	}

	var file termsFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return types.NewAppErrorWithDetails(types.ErrConfig, "malformed terms file", path, err)
	}

	added := 0
	for name, pairs := range file.Domains {
		domain := Domain(name)
		for _, p := range pairs {
			if err := d.AddTerm(p.Source, p.Target, domain); err != nil {
				return err
			}
			added++
		}
	}

	logger.Info("terminology extensions loaded",
		logger.String("path", path),
		logger.Int("terms", added))
	return nil
}

// CheckConsistency scans translated text against every term pair in the
// domain. Text containing the source-language form is flagged as an
// inconsistency; text containing both the source and the target form is
// flagged as mixed usage instead, which is a stronger signal of an incomplete
// translation.
func (d *Dictionary) CheckConsistency(text string, domain Domain) (*ConsistencyCheck, error) {
	pairs, err := d.Enumerate(domain)
	if err != nil {
		return nil, err
	}

	check := &ConsistencyCheck{}
	folded := foldLower(text)

	for _, p := range pairs {
		// Identity mappings (abbreviations, units) carry no signal.
		if foldLower(p.Source) == foldLower(p.Target) {
			continue
		}
		if !containsPhrase(folded, p.Source) {
			continue
		}
		if containsPhrase(folded, foldLower(p.Target)) {
			check.MixedUsage = append(check.MixedUsage,
				fmt.Sprintf("both %q and %q present", p.Source, p.Target))
		} else {
			check.Inconsistencies = append(check.Inconsistencies,
				fmt.Sprintf("source-language term %q found", p.Source))
		}
	}

	return check, nil
}

// ReplaceTerms rewrites every whole-phrase occurrence of the domain's source
// terms in text with their target forms. Longer source phrases are applied
// first so compound terms win over their sub-phrases. Returns the rewritten
// text and whether anything changed.
func (d *Dictionary) ReplaceTerms(text string, domain Domain) (string, bool, error) {
	pairs, err := d.Enumerate(domain)
	if err != nil {
		return "", false, err
	}

	sort.SliceStable(pairs, func(i, j int) bool {
		return len([]rune(pairs[i].Source)) > len([]rune(pairs[j].Source))
	})

	changed := false
	for _, p := range pairs {
		if foldLower(p.Source) == foldLower(p.Target) {
			continue
		}
		var hit bool
		text, hit = replacePhrase(text, p.Source, p.Target)
		changed = changed || hit
	}
	return text, changed, nil
}

// replacePhrase substitutes every case-insensitive whole-phrase occurrence of
// phrase in text with target, using the same boundary discipline as
// containsPhrase.
func replacePhrase(text, phrase, target string) (string, bool) {
	runes := []rune(text)
	needle := []rune(foldLower(phrase))
	if len(needle) == 0 {
		return text, false
	}
	replacement := []rune(target)

	var out []rune
	changed := false
	for i := 0; i < len(runes); {
		if phraseAt(runes, needle, i) {
			out = append(out, replacement...)
			i += len(needle)
			changed = true
			continue
		}
		out = append(out, runes[i])
		i++
	}
	if !changed {
		return text, false
	}
	return string(out), true
}

// phraseAt reports whether the folded needle matches runes at offset i with
// whole-phrase boundaries on both sides.
func phraseAt(runes, needle []rune, i int) bool {
	if i+len(needle) > len(runes) {
		return false
	}
	for k, r := range needle {
		if unicode.ToLower(runes[i+k]) != r {
			return false
		}
	}
	if i > 0 && isWordRune(runes[i-1]) && isWordRune(needle[0]) {
		return false
	}
	end := i + len(needle)
	if end < len(runes) && isWordRune(runes[end]) && isWordRune(needle[len(needle)-1]) {
		return false
	}
	return true
}

// containsPhrase reports whether folded text contains phrase as a whole
// phrase, i.e. not embedded inside a longer word. Both inputs must already be
// case folded. Phrase boundaries are checked with Unicode letter/digit
// classes; ASCII \b word boundaries misfire on accented Portuguese endings.
func containsPhrase(text, phrase string) bool {
	if phrase == "" {
		return false
	}
	runes := []rune(text)
	needle := []rune(phrase)

	for i := 0; i+len(needle) <= len(runes); i++ {
		if !runesEqual(runes[i:i+len(needle)], needle) {
			continue
		}
		if i > 0 && isWordRune(runes[i-1]) && isWordRune(needle[0]) {
			continue
		}
		end := i + len(needle)
		if end < len(runes) && isWordRune(runes[end]) && isWordRune(needle[len(needle)-1]) {
			continue
		}
		return true
	}
	return false
}

func runesEqual(a, b []rune) bool {
	for i := range b {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

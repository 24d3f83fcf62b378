// Package preserver extracts the structural inventory of a LaTeX document and
// performs reversible protect/restore of non-translatable spans via
// placeholder substitution.
//
// Protection runs a fixed, ordered pipeline of pattern families: display and
// inline math, citations, cross-references, formatting commands, labels, and
// numeric-unit expressions. Order matters: later families must not re-match
// text already replaced by earlier placeholders. Placeholders are built from
// private-use-area delimiters that cannot occur in a legal document, so
// accidental re-matching is structurally impossible rather than merely
// unlikely.
package preserver

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"tm-engine/internal/logger"
)

// ElementKind classifies a preserved span.
type ElementKind string

const (
	KindMath      ElementKind = "math"
	KindCitation  ElementKind = "citation"
	KindReference ElementKind = "reference"
	KindCommand   ElementKind = "command"
	KindLabel     ElementKind = "label"
	KindUnit      ElementKind = "unit"
)

// Placeholder delimiters. U+E000/U+E001 are private-use code points absent
// from any document alphabet a translator could legitimately produce.
const (
	placeholderOpen  = ''
	placeholderClose = ''
)

// placeholderPattern matches any placeholder-shaped token, known or not.
var placeholderPattern = regexp.MustCompile(`\x{E000}[A-Z]+:\d+\x{E001}`)

// PreservedElement is one protected span.
type PreservedElement struct {
	Placeholder string      `json:"placeholder"`
	Original    string      `json:"original"`
	Kind        ElementKind `json:"kind"`
}

// PreservedMap owns the placeholder→original mapping for the duration of one
// protect→restore round trip. Each Protect call starts a fresh map with fresh
// counters; maps must not be reused across documents.
type PreservedMap struct {
	elements map[string]PreservedElement
	order    []string
	counters map[string]int
}

func newPreservedMap() *PreservedMap {
	return &PreservedMap{
		elements: make(map[string]PreservedElement),
		counters: make(map[string]int),
	}
}

// Len returns the number of preserved elements.
func (m *PreservedMap) Len() int {
	return len(m.elements)
}

// Elements returns the preserved elements in minting order.
func (m *PreservedMap) Elements() []PreservedElement {
	out := make([]PreservedElement, 0, len(m.order))
	for _, ph := range m.order {
		out = append(out, m.elements[ph])
	}
	return out
}

// Get looks up a preserved element by placeholder.
func (m *PreservedMap) Get(placeholder string) (PreservedElement, bool) {
	el, ok := m.elements[placeholder]
	return el, ok
}

// mint creates a fresh placeholder in the family namespace and records the
// span. Indexes increase monotonically per family, so placeholders never
// collide across families or within one call.
func (m *PreservedMap) mint(family string, kind ElementKind, original string) string {
	idx := m.counters[family]
	m.counters[family]++
	ph := fmt.Sprintf("%c%s:%d%c", placeholderOpen, family, idx, placeholderClose)
	m.elements[ph] = PreservedElement{Placeholder: ph, Original: original, Kind: kind}
	m.order = append(m.order, ph)
	return ph
}

// span is a half-open [Start, End) byte range in the text being protected.
type span struct {
	start int
	end   int
}

// stage is one pattern family in the protection pipeline.
type stage struct {
	family string
	kind   ElementKind
	find   func(text string) []span
}

// StructurePreserver protects and restores non-translatable document spans.
// The zero value is not usable; construct with NewStructurePreserver.
type StructurePreserver struct {
	stages []stage
}

// NewStructurePreserver creates a preserver with the fixed stage pipeline.
func NewStructurePreserver() *StructurePreserver {
	return &StructurePreserver{
		stages: []stage{
			{family: "MATH", kind: KindMath, find: findMathSpans},
			{family: "CITE", kind: KindCitation, find: regexSpans(citationPattern)},
			{family: "REF", kind: KindReference, find: regexSpans(crossRefPattern)},
			{family: "CMD", kind: KindCommand, find: findCommandSpans},
			{family: "LABEL", kind: KindLabel, find: regexSpans(labelPattern)},
			{family: "UNIT", kind: KindUnit, find: regexSpans(unitPattern)},
		},
	}
}

// Protect replaces every non-translatable span with a fresh placeholder and
// returns the protected text together with the map needed to reverse the
// substitution.
func (p *StructurePreserver) Protect(text string) (string, *PreservedMap) {
	pm := newPreservedMap()
	result := text

	for _, st := range p.stages {
		result = applyStage(result, st, pm)
	}

	logger.Debug("protected document spans",
		logger.Int("elements", pm.Len()),
		logger.Int("originalLength", len(text)),
		logger.Int("protectedLength", len(result)))

	return result, pm
}

// applyStage replaces every match of one family, in first-to-last textual
// order, with freshly minted placeholders.
func applyStage(text string, st stage, pm *PreservedMap) string {
	spans := dropOverlaps(st.find(text))
	if len(spans) == 0 {
		return text
	}

	var sb strings.Builder
	sb.Grow(len(text))
	last := 0
	for _, s := range spans {
		sb.WriteString(text[last:s.start])
		sb.WriteString(pm.mint(st.family, st.kind, text[s.start:s.end]))
		last = s.end
	}
	sb.WriteString(text[last:])
	return sb.String()
}

// dropOverlaps sorts spans by start position and removes overlapping spans,
// keeping the earlier (and, at equal start, the larger) one.
func dropOverlaps(spans []span) []span {
	if len(spans) <= 1 {
		return spans
	}

	sort.Slice(spans, func(i, j int) bool {
		if spans[i].start == spans[j].start {
			return spans[i].end-spans[i].start > spans[j].end-spans[j].start
		}
		return spans[i].start < spans[j].start
	})

	out := spans[:0]
	lastEnd := -1
	for _, s := range spans {
		if s.start < lastEnd {
			continue
		}
		out = append(out, s)
		lastEnd = s.end
	}
	return out
}

// RestoreReport itemizes structural-integrity violations observed while
// restoring placeholders. Both missing and fabricated placeholders are
// reported, never thrown: the orchestrator decides whether to halt.
type RestoreReport struct {
	// Missing lists placeholders present in the map but absent from the text
	// (the translator dropped protected content).
	Missing []string `json:"missing,omitempty"`
	// Fabricated lists placeholder-shaped tokens absent from the map (the
	// translator invented lookalike text).
	Fabricated []string `json:"fabricated,omitempty"`
	// Duplicated lists placeholders appearing more than once in the text.
	Duplicated []string `json:"duplicated,omitempty"`
	// Clean is true when the restore saw no violations.
	Clean bool `json:"clean"`
}

// Restore replaces every placeholder with its original span and reports any
// placeholder that went missing, was fabricated, or was duplicated.
//
// Replacement runs to a fixpoint: a later stage may have protected a span
// whose original text contains an earlier stage's placeholder (a citation
// inside a footnote, math inside \textbf), so one pass is not enough. The
// expansion is acyclic because a placeholder's original can only carry
// tokens minted before it.
func (p *StructurePreserver) Restore(text string, pm *PreservedMap) (string, *RestoreReport) {
	report := &RestoreReport{}
	seen := make(map[string]int)

	current := text
	for {
		replaced := false
		var sb strings.Builder
		sb.Grow(len(current))
		last := 0
		for _, loc := range placeholderPattern.FindAllStringIndex(current, -1) {
			token := current[loc[0]:loc[1]]
			sb.WriteString(current[last:loc[0]])
			if el, ok := pm.Get(token); ok {
				sb.WriteString(el.Original)
				seen[token]++
				replaced = true
			} else {
				sb.WriteString(token)
			}
			last = loc[1]
		}
		sb.WriteString(current[last:])
		current = sb.String()
		if !replaced {
			break
		}
	}

	// Only tokens that survived the fixpoint are fabricated: keep them
	// visible in the output so the orchestrator can locate them.
	for _, token := range placeholderPattern.FindAllString(current, -1) {
		report.Fabricated = append(report.Fabricated, token)
	}

	for _, ph := range pm.order {
		switch seen[ph] {
		case 0:
			report.Missing = append(report.Missing, ph)
		case 1:
			// Replaced exactly once, as minted.
		default:
			report.Duplicated = append(report.Duplicated, ph)
		}
	}

	report.Clean = len(report.Missing) == 0 && len(report.Fabricated) == 0 && len(report.Duplicated) == 0
	if !report.Clean {
		logger.Warn("restore detected structural violations",
			logger.Int("missing", len(report.Missing)),
			logger.Int("fabricated", len(report.Fabricated)),
			logger.Int("duplicated", len(report.Duplicated)))
	}

	return current, report
}

// ---------------------------------------------------------------------------
// Pattern families
// ---------------------------------------------------------------------------

var (
	// Citations: \cite and natbib variants, with optional star and options.
	citationPattern = regexp.MustCompile(`\\(?:cite|citep|citet|citealp|citeauthor|citeyear)\*?(?:\[[^\]]*\])*\{[^}]*\}`)

	// Cross-references to labels, equations, and pages.
	crossRefPattern = regexp.MustCompile(`\\(?:ref|eqref|pageref|autoref|nameref)\{[^}]*\}`)

	// Labels.
	labelPattern = regexp.MustCompile(`\\label\{[^}]*\}`)

	// Numeric-unit expressions. The digits must directly precede the unit;
	// digits inside a placeholder are separated from following text by the
	// closing delimiter, so protected math can never feed this family.
	unitPattern = regexp.MustCompile(`\d+(?:[.,]\d+)?\s*(?:(?:GPa|MPa|ksi|kN|GHz|MHz|Hz|GB|MB|mm|cm|kg|px|pixels)\b|\\?%|°C)`)

	// Formatting commands whose argument must survive verbatim.
	hrefPattern    = regexp.MustCompile(`\\href\{[^}]*\}\{[^}]*\}`)
	cmdArgPattern  = regexp.MustCompile(`\\(?:textbf|textit|texttt|emph|footnote|url)\{[^}]*\}`)
	bareCmdPattern = regexp.MustCompile(`\\(?:LaTeX|TeX|item)\b`)
)

// regexSpans adapts a compiled pattern into a stage finder.
func regexSpans(re *regexp.Regexp) func(string) []span {
	return func(text string) []span {
		var spans []span
		for _, loc := range re.FindAllStringIndex(text, -1) {
			spans = append(spans, span{start: loc[0], end: loc[1]})
		}
		return spans
	}
}

// findCommandSpans finds formatting-command spans. \href is matched before
// the single-argument commands so its second brace group is captured whole.
func findCommandSpans(text string) []span {
	spans := regexSpans(hrefPattern)(text)
	spans = append(spans, regexSpans(cmdArgPattern)(text)...)
	spans = append(spans, regexSpans(bareCmdPattern)(text)...)
	return spans
}

// mathEnvironments are the display-math environment names recognized by the
// math family, including matrix environments.
var mathEnvironments = []string{
	"equation", "equation*",
	"align", "align*",
	"alignat", "alignat*",
	"gather", "gather*",
	"multline", "multline*",
	"flalign", "flalign*",
	"eqnarray", "eqnarray*",
	"math", "displaymath",
	"split", "subequations",
	"cases",
	"matrix", "pmatrix", "bmatrix", "vmatrix", "Vmatrix", "Bmatrix",
	"smallmatrix",
}

var (
	doubleDollarPattern = regexp.MustCompile(`\$\$[\s\S]*?\$\$`)
	bracketMathPattern  = regexp.MustCompile(`\\\[[\s\S]*?\\\]`)
	parenMathPattern    = regexp.MustCompile(`\\\([\s\S]*?\\\)`)
)

// findMathSpans collects every math region: named environments first (they
// can contain the other patterns), then display math, then inline math.
// Overlap removal keeps the enclosing region.
func findMathSpans(text string) []span {
	var spans []span

	for _, env := range mathEnvironments {
		spans = append(spans, findEnvironmentSpans(text, env)...)
	}
	spans = append(spans, regexSpans(doubleDollarPattern)(text)...)
	spans = append(spans, regexSpans(bracketMathPattern)(text)...)
	spans = append(spans, regexSpans(parenMathPattern)(text)...)
	spans = append(spans, findSingleDollarSpans(text)...)

	return spans
}

// findEnvironmentSpans finds all \begin{env}...\end{env} regions, handling
// nested occurrences of the same environment.
func findEnvironmentSpans(text, env string) []span {
	beginTag := fmt.Sprintf("\\begin{%s}", env)

	var spans []span
	startIdx := 0
	for {
		beginPos := strings.Index(text[startIdx:], beginTag)
		if beginPos == -1 {
			break
		}
		beginPos += startIdx

		endPos := findEnvironmentEnd(text, beginPos, env)
		if endPos == -1 {
			startIdx = beginPos + len(beginTag)
			continue
		}

		spans = append(spans, span{start: beginPos, end: endPos})
		startIdx = endPos
	}
	return spans
}

// findEnvironmentEnd finds the offset just past the \end{env} matching the
// \begin{env} at startPos, or -1 when unbalanced.
func findEnvironmentEnd(text string, startPos int, env string) int {
	beginTag := fmt.Sprintf("\\begin{%s}", env)
	endTag := fmt.Sprintf("\\end{%s}", env)

	depth := 1
	searchPos := startPos + len(beginTag)

	for depth > 0 && searchPos < len(text) {
		nextBegin := strings.Index(text[searchPos:], beginTag)
		nextEnd := strings.Index(text[searchPos:], endTag)

		if nextEnd == -1 {
			return -1
		}

		if nextBegin != -1 && nextBegin < nextEnd {
			depth++
			searchPos += nextBegin + len(beginTag)
		} else {
			depth--
			if depth == 0 {
				return searchPos + nextEnd + len(endTag)
			}
			searchPos += nextEnd + len(endTag)
		}
	}

	return -1
}

// findSingleDollarSpans finds $...$ inline math, skipping $$...$$ display
// math and escaped dollar signs.
func findSingleDollarSpans(text string) []span {
	var spans []span

	i := 0
	for i < len(text) {
		if i > 0 && text[i-1] == '\\' && text[i] == '$' {
			i++
			continue
		}

		// Skip $$...$$; the display pattern already claimed it.
		if i+1 < len(text) && text[i] == '$' && text[i+1] == '$' {
			endIdx := strings.Index(text[i+2:], "$$")
			if endIdx >= 0 {
				i = i + 2 + endIdx + 2
			} else {
				i += 2
			}
			continue
		}

		if text[i] == '$' {
			start := i
			i++
			for i < len(text) {
				if text[i] == '\\' && i+1 < len(text) && text[i+1] == '$' {
					i += 2
					continue
				}
				if i+1 < len(text) && text[i] == '$' && text[i+1] == '$' {
					i += 2
					continue
				}
				if text[i] == '$' {
					if i > start+1 {
						spans = append(spans, span{start: start, end: i + 1})
					}
					i++
					break
				}
				i++
			}
			continue
		}

		i++
	}

	return spans
}

// Package memory implements the translation memory: a store of translated
// segments keyed by content and context, with lexical similarity retrieval,
// terminology-backed fallback translation, consistency validation, and
// quality metrics. A single instance is mutated only through AddSegment;
// reads never mutate state.
package memory

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"tm-engine/internal/logger"
	"tm-engine/internal/rules"
	"tm-engine/internal/terminology"
	"tm-engine/internal/types"
)

// Resolution sources reported by TranslateWithMemory.
const (
	SourceExactMatch      = "exact_match"
	SourceSimilarityMatch = "similarity_match"
	SourceTerminologyDict = "terminology_dict"
	SourceNoMatch         = "no_match"
)

// CanonicalContexts is the fixed context list coverage is measured against.
var CanonicalContexts = []string{
	"abstract",
	"introduction",
	"methodology",
	"results",
	"discussion",
	"conclusions",
}

// Params holds the empirical retrieval constants. They are configuration,
// not law; the defaults mirror the values the engine was tuned with.
type Params struct {
	SimilarityThreshold float64 `json:"similarity_threshold"`
	ReuseThreshold      float64 `json:"reuse_threshold"`
	ContextBonus        float64 `json:"context_bonus"`
}

// DefaultParams returns the standard retrieval constants.
func DefaultParams() Params {
	return Params{
		SimilarityThreshold: 0.7,
		ReuseThreshold:      0.8,
		ContextBonus:        0.1,
	}
}

// Segment is one source-language unit of text paired with its accepted
// translation. Segments are never mutated in place; a re-translation records
// a new segment and the old one stays in history.
type Segment struct {
	ID           string    `json:"id"`
	SourceText   string    `json:"source_text"`
	TargetText   string    `json:"target_text"`
	Context      string    `json:"context"`
	Timestamp    time.Time `json:"timestamp"`
	QualityScore float64   `json:"quality_score"`
}

// Candidate is one ranked retrieval result from FindSimilar.
type Candidate struct {
	Segment      *Segment `json:"segment"`
	Similarity   float64  `json:"similarity"`
	ContextMatch bool     `json:"context_match"`
	TotalScore   float64  `json:"total_score"`
}

// Result is the outcome of a TranslateWithMemory resolution.
type Result struct {
	Text       string  `json:"text"`
	Confidence float64 `json:"confidence"`
	Source     string  `json:"source"`
}

// ConsistencyReport aggregates rule violations and terminology findings for
// one context's stored segments. It is produced on demand and not persisted.
type ConsistencyReport struct {
	IsConsistent    bool     `json:"is_consistent"`
	Issues          []string `json:"issues"`
	Warnings        []string `json:"warnings"`
	Context         string   `json:"context"`
	SegmentsChecked int      `json:"segments_checked"`
}

// Metrics summarizes the memory's overall state.
type Metrics struct {
	OverallQuality   float64  `json:"overall_quality"`
	ConsistencyScore float64  `json:"consistency_score"`
	CoverageScore    float64  `json:"coverage_score"`
	TotalSegments    int      `json:"total_segments"`
	ContextsCovered  []string `json:"contexts_covered"`
}

// foldLower lowercases with Portuguese casing rules. A fresh Caser per call:
// cases.Caser is documented as possibly stateful and not shareable between
// goroutines, and FindSimilar/TranslateWithMemory reads may run concurrently.
func foldLower(s string) string {
	return cases.Lower(language.Portuguese).String(s)
}

// TranslationMemory owns the segment store and its context index. It is not
// safe for concurrent writers; callers running parallel translation must
// serialize AddSegment.
type TranslationMemory struct {
	dict   *terminology.Dictionary
	rules  []rules.Rule
	params Params

	segments     []*Segment
	byID         map[string]*Segment
	contextIndex map[string][]string
}

// NewTranslationMemory creates an empty memory backed by the given
// terminology dictionary, with the default rule set.
func NewTranslationMemory(dict *terminology.Dictionary, params Params) *TranslationMemory {
	return &TranslationMemory{
		dict:         dict,
		rules:        rules.DefaultRules(),
		params:       params,
		byID:         make(map[string]*Segment),
		contextIndex: make(map[string][]string),
	}
}

// AddSegment records a translated segment and updates the context index.
func (m *TranslationMemory) AddSegment(sourceText, targetText, context string, quality float64) (*Segment, error) {
	if sourceText == "" {
		return nil, types.NewAppError(types.ErrInvalidInput, "segment source text must be non-empty", nil)
	}
	if quality < 0 || quality > 1 {
		return nil, types.NewAppErrorWithDetails(types.ErrInvalidInput,
			"quality score must be in [0, 1]", fmt.Sprintf("%g", quality), nil)
	}

	seg := &Segment{
		ID:           uuid.NewString(),
		SourceText:   sourceText,
		TargetText:   targetText,
		Context:      context,
		Timestamp:    time.Now().UTC(),
		QualityScore: quality,
	}
	m.segments = append(m.segments, seg)
	m.byID[seg.ID] = seg
	m.contextIndex[context] = append(m.contextIndex[context], seg.ID)

	logger.Debug("segment recorded",
		logger.String("id", seg.ID),
		logger.String("context", context),
		logger.Float64("quality", quality))
	return seg, nil
}

// Segments returns the stored segments in insertion order.
func (m *TranslationMemory) Segments() []*Segment {
	return m.segments
}

// FindSimilar ranks stored segments by Jaccard similarity of their source
// text against the query, adding the context bonus when the stored context
// equals the query context. Candidates whose total score falls below
// threshold are excluded; a non-positive threshold falls back to the
// configured SimilarityThreshold. Ordering is deterministic: total score
// descending, ties broken by insertion order.
func (m *TranslationMemory) FindSimilar(sourceText, context string, threshold float64) []*Candidate {
	if threshold <= 0 {
		threshold = m.params.SimilarityThreshold
	}
	queryTokens := tokenize(sourceText)

	var candidates []*Candidate
	for _, seg := range m.segments {
		similarity := jaccard(queryTokens, tokenize(seg.SourceText))
		contextMatch := seg.Context == context
		total := similarity
		if contextMatch {
			total += m.params.ContextBonus
		}
		if total < threshold {
			continue
		}
		candidates = append(candidates, &Candidate{
			Segment:      seg,
			Similarity:   similarity,
			ContextMatch: contextMatch,
			TotalScore:   total,
		})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].TotalScore > candidates[j].TotalScore
	})
	return candidates
}

// TranslateWithMemory resolves a source segment through three tiers, first
// hit wins: exact match, best similarity candidate at the reuse threshold,
// then term-by-term terminology resolution across the domain priority list.
// If nothing applies the original text comes back unchanged.
func (m *TranslationMemory) TranslateWithMemory(sourceText, context string) (*Result, error) {
	for _, seg := range m.segments {
		if seg.SourceText == sourceText {
			return &Result{Text: seg.TargetText, Confidence: 1.0, Source: SourceExactMatch}, nil
		}
	}

	if candidates := m.FindSimilar(sourceText, context, m.params.ReuseThreshold); len(candidates) > 0 {
		best := candidates[0]
		// The stored target is reused verbatim, no sub-segment adaptation.
		return &Result{
			Text:       best.Segment.TargetText,
			Confidence: math.Min(best.TotalScore, 1.0),
			Source:     SourceSimilarityMatch,
		}, nil
	}

	text := sourceText
	changed := false
	for _, domain := range terminology.Domains() {
		out, hit, err := m.dict.ReplaceTerms(text, domain)
		if err != nil {
			return nil, err
		}
		text = out
		changed = changed || hit
	}
	if changed {
		return &Result{Text: text, Confidence: 0.5, Source: SourceTerminologyDict}, nil
	}

	return &Result{Text: sourceText, Confidence: 0, Source: SourceNoMatch}, nil
}

// ValidateConsistency applies every registered rule to each segment recorded
// under context and scans targets against the academic-writing terminology.
// Rule violations and mixed source/target usage are issues; residual
// source-language terms alone are warnings. A context with no recorded
// segments is trivially consistent.
func (m *TranslationMemory) ValidateConsistency(context string) (*ConsistencyReport, error) {
	report := &ConsistencyReport{
		IsConsistent: true,
		Context:      context,
	}

	for _, id := range m.contextIndex[context] {
		seg := m.byID[id]
		if seg == nil {
			continue
		}
		report.SegmentsChecked++

		for _, rule := range m.rules {
			if rule.Check(seg.SourceText, seg.TargetText) {
				report.Issues = append(report.Issues, fmt.Sprintf(
					"%s: %s (segment %s)", rule.Name(), rule.Description(), seg.ID))
			}
		}

		check, err := m.dict.CheckConsistency(seg.TargetText, terminology.DomainAcademicWriting)
		if err != nil {
			return nil, err
		}
		for _, mixed := range check.MixedUsage {
			report.Issues = append(report.Issues, fmt.Sprintf("segment %s: %s", seg.ID, mixed))
		}
		for _, inconsistency := range check.Inconsistencies {
			report.Warnings = append(report.Warnings, fmt.Sprintf("segment %s: %s", seg.ID, inconsistency))
		}
	}

	report.IsConsistent = len(report.Issues) == 0
	if !report.IsConsistent {
		logger.Warn("consistency violations in context",
			logger.String("context", context),
			logger.Int("issues", len(report.Issues)))
	}
	return report, nil
}

// QualityMetrics computes the memory's aggregate quality, consistency, and
// canonical-context coverage.
func (m *TranslationMemory) QualityMetrics() (*Metrics, error) {
	metrics := &Metrics{
		TotalSegments:    len(m.segments),
		ConsistencyScore: 1.0,
	}

	var qualitySum float64
	seen := make(map[string]bool)
	for _, seg := range m.segments {
		qualitySum += seg.QualityScore
		if !seen[seg.Context] {
			seen[seg.Context] = true
			metrics.ContextsCovered = append(metrics.ContextsCovered, seg.Context)
		}
	}
	if len(m.segments) > 0 {
		metrics.OverallQuality = qualitySum / float64(len(m.segments))
	}

	if len(metrics.ContextsCovered) > 0 {
		var consistencySum float64
		for _, context := range metrics.ContextsCovered {
			report, err := m.ValidateConsistency(context)
			if err != nil {
				return nil, err
			}
			if report.IsConsistent {
				consistencySum += 1.0
			} else {
				consistencySum += math.Max(0, 1.0-0.1*float64(len(report.Issues)))
			}
		}
		metrics.ConsistencyScore = consistencySum / float64(len(metrics.ContextsCovered))
	}

	covered := 0
	for _, canonical := range CanonicalContexts {
		if seen[canonical] {
			covered++
		}
	}
	metrics.CoverageScore = float64(covered) / float64(len(CanonicalContexts))

	return metrics, nil
}

// snapshot is the persisted form of the memory: segment store, context
// index, rule set, and retrieval parameters in one blob.
type snapshot struct {
	Version      int                 `json:"version"`
	SavedAt      time.Time           `json:"saved_at"`
	Params       Params              `json:"params"`
	Rules        []string            `json:"rules"`
	Segments     []*Segment          `json:"segments"`
	ContextIndex map[string][]string `json:"context_index"`
}

const snapshotVersion = 1

// ExportMemory serializes the full memory state to path as a single JSON
// blob, creating parent directories as needed.
func (m *TranslationMemory) ExportMemory(path string) error {
	snap := snapshot{
		Version:      snapshotVersion,
		SavedAt:      time.Now().UTC(),
		Params:       m.params,
		Segments:     m.segments,
		ContextIndex: m.contextIndex,
	}
	for _, rule := range m.rules {
		snap.Rules = append(snap.Rules, rule.Name())
	}

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return types.NewAppError(types.ErrMemoryExport, "failed to serialize memory", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return types.NewAppErrorWithDetails(types.ErrMemoryExport, "failed to create memory directory", path, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return types.NewAppErrorWithDetails(types.ErrMemoryExport, "failed to write memory file", path, err)
	}

	logger.Info("memory exported",
		logger.String("path", path),
		logger.Int("segments", len(m.segments)))
	return nil
}

// ImportMemory replaces the memory state with the contents of a previously
// exported blob. It fails fast if the file is absent, malformed, or names an
// unknown rule.
func (m *TranslationMemory) ImportMemory(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return types.NewAppErrorWithDetails(types.ErrMemoryImport, "failed to read memory file", path, err)
	}

	var snap snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return types.NewAppErrorWithDetails(types.ErrMemoryImport, "malformed memory file", path, err)
	}

	ruleSet := make([]rules.Rule, 0, len(snap.Rules))
	for _, name := range snap.Rules {
		rule, ok := rules.ByName(name)
		if !ok {
			return types.NewAppErrorWithDetails(types.ErrMemoryImport, "unknown consistency rule", name, nil)
		}
		ruleSet = append(ruleSet, rule)
	}
	if len(ruleSet) == 0 {
		ruleSet = rules.DefaultRules()
	}

	byID := make(map[string]*Segment, len(snap.Segments))
	for _, seg := range snap.Segments {
		byID[seg.ID] = seg
	}
	contextIndex := snap.ContextIndex
	if contextIndex == nil {
		contextIndex = make(map[string][]string)
		for _, seg := range snap.Segments {
			contextIndex[seg.Context] = append(contextIndex[seg.Context], seg.ID)
		}
	}

	if snap.Params != (Params{}) {
		m.params = snap.Params
	}
	m.rules = ruleSet
	m.segments = snap.Segments
	m.byID = byID
	m.contextIndex = contextIndex

	logger.Info("memory imported",
		logger.String("path", path),
		logger.Int("segments", len(m.segments)))
	return nil
}

// tokenize folds text and splits it into a word set on everything that is
// not a letter or digit.
func tokenize(text string) map[string]bool {
	words := strings.FieldsFunc(foldLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	set := make(map[string]bool, len(words))
	for _, w := range words {
		set[w] = true
	}
	return set
}

// jaccard computes intersection over union of two word sets. Two empty sets
// share no evidence either way and score zero.
func jaccard(a, b map[string]bool) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 0
	}
	intersection := 0
	for w := range a {
		if b[w] {
			intersection++
		}
	}
	union := len(a) + len(b) - intersection
	return float64(intersection) / float64(union)
}

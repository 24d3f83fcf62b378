// Package pipeline drives a full document translation pass: segmentation,
// structural protection, memory-first resolution, external translation,
// restoration, and final validation. The core packages stay synchronous and
// I/O free; this is the layer that sequences them.
package pipeline

import (
	"context"
	"regexp"
	"strings"

	"tm-engine/internal/logger"
	"tm-engine/internal/memory"
	"tm-engine/internal/preserver"
	"tm-engine/internal/terminology"
	"tm-engine/internal/translate"
	"tm-engine/internal/validator"
)

// Pipeline owns one document-translation session.
type Pipeline struct {
	dict       *terminology.Dictionary
	memory     *memory.TranslationMemory
	preserver  *preserver.StructurePreserver
	validator  *validator.DocumentValidator
	translator translate.Translator
}

// New wires a pipeline over the given collaborators.
func New(dict *terminology.Dictionary, mem *memory.TranslationMemory, translator translate.Translator) *Pipeline {
	sp := preserver.NewStructurePreserver()
	return &Pipeline{
		dict:       dict,
		memory:     mem,
		preserver:  sp,
		validator:  validator.NewDocumentValidator(mem, sp),
		translator: translator,
	}
}

// Segment is one translatable block of the input document with its
// section-derived context label.
type Segment struct {
	Text    string
	Context string
}

// Result summarizes one Run.
type Result struct {
	Translated      string
	Report          *validator.Report
	Metrics         *memory.Metrics
	SegmentsReused  int
	SegmentsFresh   int
	RestoreFailures int
}

var sectionHeaderPattern = regexp.MustCompile(`\\(?:section|subsection|subsubsection)\*?\{([^}]*)\}`)

// sectionContexts maps lowercased section titles, in either language, to the
// canonical context labels coverage is measured against.
var sectionContexts = map[string]string{
	"resumo":                "abstract",
	"abstract":              "abstract",
	"introdução":            "introduction",
	"introduction":          "introduction",
	"metodologia":           "methodology",
	"methodology":           "methodology",
	"materiais e métodos":   "methodology",
	"materials and methods": "methodology",
	"resultados":            "results",
	"results":               "results",
	"discussão":             "discussion",
	"discussion":            "discussion",
	"conclusões":            "conclusions",
	"conclusions":           "conclusions",
}

// SegmentDocument splits a document into blank-line separated blocks and
// labels each with the context of the most recent section header. Text
// before the first header is labeled "preamble".
func SegmentDocument(document string) []Segment {
	blocks := strings.Split(document, "\n\n")
	context := "preamble"

	var segments []Segment
	for _, block := range blocks {
		if m := sectionHeaderPattern.FindStringSubmatch(block); m != nil {
			title := strings.ToLower(strings.TrimSpace(m[1]))
			if mapped, ok := sectionContexts[title]; ok {
				context = mapped
			} else {
				context = "body"
			}
		}
		if strings.TrimSpace(block) == "" {
			continue
		}
		segments = append(segments, Segment{Text: block, Context: context})
	}
	return segments
}

// Quality scores recorded per segment, by how the translation was obtained.
const (
	qualityReused  = 0.95
	qualityClean   = 0.9
	qualityDamaged = 0.6
)

// Run translates the whole document segment by segment and validates the
// result. Memory hits short-circuit the external translator; fresh
// translations are recorded back into memory with a quality score that
// reflects whether every protected token survived.
func (p *Pipeline) Run(ctx context.Context, document string) (*Result, error) {
	segments := SegmentDocument(document)
	result := &Result{}

	contextsSeen := make(map[string]bool)
	var contexts []string
	outputs := make([]string, 0, len(segments))

	for _, seg := range segments {
		if !contextsSeen[seg.Context] {
			contextsSeen[seg.Context] = true
			contexts = append(contexts, seg.Context)
		}

		resolved, err := p.memory.TranslateWithMemory(seg.Text, seg.Context)
		if err != nil {
			return nil, err
		}
		if resolved.Source == memory.SourceExactMatch || resolved.Source == memory.SourceSimilarityMatch {
			outputs = append(outputs, resolved.Text)
			result.SegmentsReused++
			logger.Debug("segment reused from memory",
				logger.String("context", seg.Context),
				logger.String("source", resolved.Source),
				logger.Float64("confidence", resolved.Confidence))
			continue
		}

		protected, preserved := p.preserver.Protect(seg.Text)
		candidate, err := p.translator.Translate(ctx, protected, seg.Context)
		if err != nil {
			return nil, err
		}
		restored, restoreReport := p.preserver.Restore(candidate, preserved)

		quality := qualityClean
		if !restoreReport.Clean {
			quality = qualityDamaged
			result.RestoreFailures++
			logger.Warn("translator damaged protected tokens",
				logger.String("context", seg.Context),
				logger.Int("missing", len(restoreReport.Missing)),
				logger.Int("fabricated", len(restoreReport.Fabricated)))
		}

		if _, err := p.memory.AddSegment(seg.Text, restored, seg.Context, quality); err != nil {
			return nil, err
		}
		outputs = append(outputs, restored)
		result.SegmentsFresh++
	}

	result.Translated = strings.Join(outputs, "\n\n")

	report, err := p.validator.Validate(document, result.Translated, contexts)
	if err != nil {
		return nil, err
	}
	result.Report = report

	metrics, err := p.memory.QualityMetrics()
	if err != nil {
		return nil, err
	}
	result.Metrics = metrics

	logger.Info("document translated",
		logger.Int("segments", len(segments)),
		logger.Int("reused", result.SegmentsReused),
		logger.Int("fresh", result.SegmentsFresh),
		logger.Bool("valid", report.Valid))
	return result, nil
}

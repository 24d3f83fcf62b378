// Package validator composes the structural integrity check and the
// per-context consistency checks into one document-level report.
package validator

import (
	"fmt"

	"tm-engine/internal/logger"
	"tm-engine/internal/memory"
	"tm-engine/internal/preserver"
)

// DocumentValidator runs every validation the engine knows about over a
// translated document and its recorded segments.
type DocumentValidator struct {
	memory    *memory.TranslationMemory
	preserver *preserver.StructurePreserver
}

// Report is the combined validation outcome. Validation never fails hard;
// mismatches accumulate here and the caller decides whether to halt.
type Report struct {
	Valid       bool                                 `json:"valid"`
	Structure   *preserver.IntegrityReport           `json:"structure"`
	Consistency map[string]*memory.ConsistencyReport `json:"consistency"`
	Issues      []string                             `json:"issues"`
	Warnings    []string                             `json:"warnings"`
	Summary     string                               `json:"summary"`
}

// NewDocumentValidator creates a validator over the given memory and
// structure preserver.
func NewDocumentValidator(m *memory.TranslationMemory, p *preserver.StructurePreserver) *DocumentValidator {
	return &DocumentValidator{memory: m, preserver: p}
}

// Validate checks the translated document's structure against the original
// and the recorded segments of every given context for consistency. Contexts
// are checked in the order given so the report is deterministic.
func (v *DocumentValidator) Validate(original, translated string, contexts []string) (*Report, error) {
	report := &Report{
		Valid:       true,
		Consistency: make(map[string]*memory.ConsistencyReport, len(contexts)),
	}

	report.Structure = v.preserver.ValidateIntegrity(original, translated)
	if !report.Structure.StructurePreserved {
		report.Valid = false
		report.Issues = append(report.Issues, report.Structure.Issues...)
	}

	for _, context := range contexts {
		consistency, err := v.memory.ValidateConsistency(context)
		if err != nil {
			return nil, err
		}
		report.Consistency[context] = consistency
		if !consistency.IsConsistent {
			report.Valid = false
		}
		for _, issue := range consistency.Issues {
			report.Issues = append(report.Issues, fmt.Sprintf("[%s] %s", context, issue))
		}
		for _, warning := range consistency.Warnings {
			report.Warnings = append(report.Warnings, fmt.Sprintf("[%s] %s", context, warning))
		}
	}

	report.Summary = fmt.Sprintf("%d issues, %d warnings across %d contexts",
		len(report.Issues), len(report.Warnings), len(contexts))

	logger.Info("document validated",
		logger.Bool("valid", report.Valid),
		logger.Int("issues", len(report.Issues)),
		logger.Int("warnings", len(report.Warnings)))
	return report, nil
}

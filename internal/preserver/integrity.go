package preserver

import (
	"fmt"
	"sort"

	"tm-engine/internal/logger"
)

// IntegrityReport compares the structural skeletons of a source document and
// its translation. Mismatches are reported, not thrown: a single drifted
// count should not abort an otherwise mostly correct document pass.
type IntegrityReport struct {
	StructurePreserved bool               `json:"structure_preserved"`
	Issues             []string           `json:"issues"`
	Original           *DocumentStructure `json:"original"`
	Translated         *DocumentStructure `json:"translated"`
}

// ValidateIntegrity re-analyzes both documents, compares per-category counts,
// and additionally verifies that citation and reference identifiers are
// preserved as a set, not just in number.
func (p *StructurePreserver) ValidateIntegrity(original, translated string) *IntegrityReport {
	report := &IntegrityReport{
		StructurePreserved: true,
		Original:           p.Analyze(original),
		Translated:         p.Analyze(translated),
	}

	origCounts := report.Original.Counts()
	transCounts := report.Translated.Counts()

	// Fixed category order keeps the issue list deterministic.
	for _, category := range []string{"sections", "figures", "tables", "equations", "citations", "references", "commands"} {
		if origCounts[category] != transCounts[category] {
			report.StructurePreserved = false
			report.Issues = append(report.Issues, fmt.Sprintf(
				"%s count mismatch: %d vs %d",
				category, origCounts[category], transCounts[category]))
		}
	}

	report.Issues = append(report.Issues,
		identifierDrift("citation", report.Original.Citations, report.Translated.Citations)...)
	report.Issues = append(report.Issues,
		identifierDrift("reference", report.Original.References, report.Translated.References)...)
	if len(report.Issues) > 0 {
		report.StructurePreserved = false
	}

	if !report.StructurePreserved {
		logger.Warn("structural integrity violations detected",
			logger.Int("issues", len(report.Issues)))
	}

	return report
}

// identifierDrift compares two identifier lists as sets and itemizes lost and
// invented identifiers.
func identifierDrift(kind string, original, translated []string) []string {
	origSet := make(map[string]bool, len(original))
	for _, id := range original {
		origSet[id] = true
	}
	transSet := make(map[string]bool, len(translated))
	for _, id := range translated {
		transSet[id] = true
	}

	var lost, invented []string
	for id := range origSet {
		if !transSet[id] {
			lost = append(lost, id)
		}
	}
	for id := range transSet {
		if !origSet[id] {
			invented = append(invented, id)
		}
	}
	sort.Strings(lost)
	sort.Strings(invented)

	var issues []string
	for _, id := range lost {
		issues = append(issues, fmt.Sprintf("%s %q missing from translation", kind, id))
	}
	for _, id := range invented {
		issues = append(issues, fmt.Sprintf("%s %q not present in original", kind, id))
	}
	return issues
}

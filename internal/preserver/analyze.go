package preserver

import (
	"regexp"
	"strconv"
	"strings"

	"tm-engine/internal/logger"
)

// DocumentStructure is a snapshot of a document's structural inventory:
// counts and ordered lists per category. It is captured by Analyze and used
// only for before/after comparison; immutable once captured.
type DocumentStructure struct {
	HasPreamble   bool     `json:"has_preamble"`
	DocumentClass string   `json:"document_class,omitempty"`
	Title         string   `json:"title,omitempty"`
	Author        string   `json:"author,omitempty"`
	Date          string   `json:"date,omitempty"`
	Sections      []string `json:"sections"`
	Figures       []string `json:"figures"`
	Tables        []string `json:"tables"`
	Equations     []string `json:"equations"`
	Citations     []string `json:"citations"`
	References    []string `json:"references"`
	Commands      []string `json:"commands"`
}

// Counts returns the per-category element counts.
func (s *DocumentStructure) Counts() map[string]int {
	return map[string]int{
		"sections":   len(s.Sections),
		"figures":    len(s.Figures),
		"tables":     len(s.Tables),
		"equations":  len(s.Equations),
		"citations":  len(s.Citations),
		"references": len(s.References),
		"commands":   len(s.Commands),
	}
}

var (
	documentClassPattern = regexp.MustCompile(`\\documentclass(?:\[[^\]]*\])?\{([^}]+)\}`)
	titlePattern         = regexp.MustCompile(`\\title\s*\{([^}]*)\}`)
	authorPattern        = regexp.MustCompile(`\\author\s*\{([^}]*)\}`)
	datePattern          = regexp.MustCompile(`\\date\s*\{([^}]*)\}`)
	sectionPattern       = regexp.MustCompile(`\\(?:section|subsection|subsubsection)\*?\{([^}]*)\}`)
	captionPattern       = regexp.MustCompile(`\\caption\s*\{([^}]*)\}`)
	labelArgPattern      = regexp.MustCompile(`\\label\{([^}]*)\}`)
	citeKeysPattern      = regexp.MustCompile(`\\(?:cite|citep|citet|citealp|citeauthor|citeyear)\*?(?:\[[^\]]*\])*\{([^}]*)\}`)
	bibItemPattern       = regexp.MustCompile(`\\bibitem(?:\[[^\]]*\])?\{([^}]*)\}`)
	newCommandPattern    = regexp.MustCompile(`\\(?:re)?newcommand\*?\{?\\([A-Za-z@]+)\}?`)
	equationBodyPattern  = regexp.MustCompile(`\$\$[\s\S]*?\$\$|\\\[[\s\S]*?\\\]`)
)

// displayEquationEnvs are the environments counted as numbered or display
// equations by Analyze.
var displayEquationEnvs = []string{
	"equation", "equation*",
	"align", "align*",
	"gather", "gather*",
	"multline", "multline*",
	"eqnarray", "eqnarray*",
}

// Analyze extracts the structural inventory of the document. Extraction is
// purely pattern-based; a document with zero matches for a category yields an
// empty list, not an error.
func (p *StructurePreserver) Analyze(text string) *DocumentStructure {
	s := &DocumentStructure{}

	if m := documentClassPattern.FindStringSubmatch(text); m != nil {
		s.HasPreamble = true
		s.DocumentClass = m[1]
	}
	if m := titlePattern.FindStringSubmatch(text); m != nil {
		s.Title = m[1]
	}
	if m := authorPattern.FindStringSubmatch(text); m != nil {
		s.Author = m[1]
	}
	if m := datePattern.FindStringSubmatch(text); m != nil {
		s.Date = m[1]
	}

	for _, m := range sectionPattern.FindAllStringSubmatch(text, -1) {
		s.Sections = append(s.Sections, m[1])
	}

	s.Figures = environmentIdentifiers(text, "figure", "figure*")
	s.Tables = environmentIdentifiers(text, "table", "table*", "longtable")

	for _, env := range displayEquationEnvs {
		for _, sp := range findEnvironmentSpans(text, env) {
			s.Equations = append(s.Equations, identifierForBlock(text[sp.start:sp.end], env, len(s.Equations)))
		}
	}
	for range equationBodyPattern.FindAllString(text, -1) {
		s.Equations = append(s.Equations, identifierForBlock("", "display", len(s.Equations)))
	}

	for _, m := range citeKeysPattern.FindAllStringSubmatch(text, -1) {
		for _, key := range strings.Split(m[1], ",") {
			key = strings.TrimSpace(key)
			if key != "" {
				s.Citations = append(s.Citations, key)
			}
		}
	}

	for _, m := range bibItemPattern.FindAllStringSubmatch(text, -1) {
		s.References = append(s.References, m[1])
	}

	for _, m := range newCommandPattern.FindAllStringSubmatch(text, -1) {
		s.Commands = append(s.Commands, m[1])
	}

	logger.Debug("analyzed document structure",
		logger.Int("sections", len(s.Sections)),
		logger.Int("figures", len(s.Figures)),
		logger.Int("tables", len(s.Tables)),
		logger.Int("equations", len(s.Equations)),
		logger.Int("citations", len(s.Citations)),
		logger.Int("references", len(s.References)))

	return s
}

// environmentIdentifiers collects one identifier per environment block, in
// document order: the block's \label if present, otherwise its \caption,
// otherwise an ordinal.
func environmentIdentifiers(text string, envs ...string) []string {
	var spans []span
	for _, env := range envs {
		spans = append(spans, findEnvironmentSpans(text, env)...)
	}
	spans = dropOverlaps(spans)

	var ids []string
	for _, sp := range spans {
		block := text[sp.start:sp.end]
		ids = append(ids, identifierForBlock(block, envs[0], len(ids)))
	}
	return ids
}

// identifierForBlock picks a stable identifier for an environment block.
func identifierForBlock(block, env string, ordinal int) string {
	if m := labelArgPattern.FindStringSubmatch(block); m != nil {
		return m[1]
	}
	if m := captionPattern.FindStringSubmatch(block); m != nil {
		return m[1]
	}
	return env + "-" + strconv.Itoa(ordinal+1)
}

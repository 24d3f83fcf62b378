// Property-based tests for the protect/restore pipeline. These validate the
// round-trip and uniqueness invariants across many generated documents.
package preserver

import (
	"math/rand"
	"strings"
	"testing"
)

const propertyIterations = 100

// newPropertyRand returns a reproducible source for property tests.
func newPropertyRand() *rand.Rand {
	return rand.New(rand.NewSource(42))
}

// generateProse generates random Portuguese-flavored prose.
func generateProse(r *rand.Rand) string {
	words := []string{
		"a", "corrosão", "foi", "observada", "nas", "vigas", "de", "aço",
		"o", "modelo", "apresentou", "resultados", "superiores", "para",
		"segmentação", "das", "imagens", "com", "precisão", "elevada",
	}
	var sb strings.Builder
	n := r.Intn(12) + 3
	for i := 0; i < n; i++ {
		if i > 0 {
			sb.WriteString(" ")
		}
		sb.WriteString(words[r.Intn(len(words))])
	}
	sb.WriteString(".")
	return sb.String()
}

// generateProtectedFragment generates a random non-translatable fragment.
func generateProtectedFragment(r *rand.Rand) string {
	fragments := []string{
		`$x + y$`,
		`$\sigma_{max} = 345$`,
		`$$a^2 + b^2 = c^2$$`,
		`\[ E = mc^2 \]`,
		"\\begin{equation}\nIoU = \\frac{TP}{TP + FP + FN}\n\\end{equation}",
		`\cite{silva2021}`,
		`\citep{moreira2019,santos2020}`,
		`\ref{fig:arch}`,
		`\eqref{eq:dice}`,
		`\label{sec:results}`,
		`\textbf{ASTM A572}`,
		`\emph{in situ}`,
		`\footnote{medição em campo}`,
		`\url{https://example.org/dataset}`,
		`150 MPa`,
		`12.5 mm`,
		`95\%`,
		// Nested: an earlier family's span inside a later family's argument.
		`\footnote{see \cite{moreira2019} for details}`,
		`\footnote{both $a + b$ and \citep{santos2020} appear}`,
		`\textbf{the bound $x \le 1$ holds}`,
		`\emph{cf. \ref{fig:setup}}`,
	}
	return fragments[r.Intn(len(fragments))]
}

// generateDocument interleaves prose and protected fragments.
func generateDocument(r *rand.Rand) string {
	var sb strings.Builder
	blocks := r.Intn(8) + 1
	for i := 0; i < blocks; i++ {
		sb.WriteString(generateProse(r))
		sb.WriteString(" ")
		sb.WriteString(generateProtectedFragment(r))
		sb.WriteString("\n")
	}
	return sb.String()
}

// Property: for any document, restore(protect(d)) == d byte for byte when no
// translation happens in between.
func TestPropertyProtectRestoreRoundTrip(t *testing.T) {
	r := newPropertyRand()
	p := NewStructurePreserver()

	for i := 0; i < propertyIterations; i++ {
		doc := generateDocument(r)

		protected, pm := p.Protect(doc)
		restored, report := p.Restore(protected, pm)

		if restored != doc {
			t.Fatalf("iteration %d: round trip mismatch\n got %q\nwant %q", i, restored, doc)
		}
		if !report.Clean {
			t.Fatalf("iteration %d: unclean report on untouched text: %+v", i, report)
		}
	}
}

// Property: every placeholder minted by one Protect call is distinct and
// occurs exactly once, either in the protected text or inside exactly one
// other element's original span (nested protection).
func TestPropertyPlaceholderUniqueness(t *testing.T) {
	r := newPropertyRand()
	p := NewStructurePreserver()

	for i := 0; i < propertyIterations; i++ {
		doc := generateDocument(r)

		protected, pm := p.Protect(doc)

		occurrences := make(map[string]int)
		for _, tok := range placeholderPattern.FindAllString(protected, -1) {
			occurrences[tok]++
		}
		for _, el := range pm.Elements() {
			for _, tok := range placeholderPattern.FindAllString(el.Original, -1) {
				occurrences[tok]++
			}
		}

		total := 0
		for tok, n := range occurrences {
			if n != 1 {
				t.Fatalf("iteration %d: placeholder %q occurs %d times", i, tok, n)
			}
			if _, ok := pm.Get(tok); !ok {
				t.Fatalf("iteration %d: placeholder %q not in map", i, tok)
			}
			total++
		}
		if total != pm.Len() {
			t.Fatalf("iteration %d: %d distinct placeholders, map size %d",
				i, total, pm.Len())
		}
	}
}

// Property: no protected span survives in the protected text, and restore
// with simulated prose edits outside placeholders preserves all placeholders.
func TestPropertyTranslationSimulation(t *testing.T) {
	r := newPropertyRand()
	p := NewStructurePreserver()

	for i := 0; i < propertyIterations; i++ {
		doc := generateDocument(r)

		protected, pm := p.Protect(doc)

		// Simulate a translator that rewrites prose but keeps tokens intact.
		translated := strings.ReplaceAll(protected, "corrosão", "corrosion")
		translated = strings.ReplaceAll(translated, "vigas de aço", "steel beams")

		_, report := p.Restore(translated, pm)
		if !report.Clean {
			t.Fatalf("iteration %d: prose edits must not disturb placeholders: %+v", i, report)
		}
	}
}

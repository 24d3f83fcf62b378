package terminology

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"tm-engine/internal/types"
)

func TestTranslateKnownTerm(t *testing.T) {
	d := NewDictionary()

	got, err := d.Translate("corrosão", DomainStructural)
	if err != nil {
		t.Fatalf("Translate: %v", err)
	}
	if got != "corrosion" {
		t.Errorf("Translate(corrosão) = %q, want %q", got, "corrosion")
	}
}

func TestTranslateCaseInsensitive(t *testing.T) {
	d := NewDictionary()

	tests := []struct {
		term   string
		domain Domain
		want   string
	}{
		{"Corrosão", DomainStructural, "corrosion"},
		{"APRENDIZADO PROFUNDO", DomainDeepLearning, "deep learning"},
		{"Resumo", DomainAcademicWriting, "abstract"},
		{"latex", DomainAbbreviations, "LaTeX"},
	}

	for _, tt := range tests {
		got, err := d.Translate(tt.term, tt.domain)
		if err != nil {
			t.Fatalf("Translate(%q, %s): %v", tt.term, tt.domain, err)
		}
		if got != tt.want {
			t.Errorf("Translate(%q, %s) = %q, want %q", tt.term, tt.domain, got, tt.want)
		}
	}
}

func TestTranslateWrongDomainPassesThrough(t *testing.T) {
	d := NewDictionary()

	// "corrosão" lives in the structural domain; looking it up under
	// statistics is a miss and returns the term unchanged.
	got, err := d.Translate("corrosão", DomainStatistics)
	if err != nil {
		t.Fatalf("Translate: %v", err)
	}
	if got != "corrosão" {
		t.Errorf("Translate(corrosão, statistics) = %q, want unchanged", got)
	}
}

func TestTranslateUnknownDomainFails(t *testing.T) {
	d := NewDictionary()

	_, err := d.Translate("corrosão", Domain("geology"))
	if err == nil {
		t.Fatal("expected error for unknown domain")
	}
	appErr, ok := err.(*types.AppError)
	if !ok || appErr.Code != types.ErrUnknownDomain {
		t.Errorf("want AppError with ErrUnknownDomain, got %v", err)
	}
}

func TestLookupReportsMiss(t *testing.T) {
	d := NewDictionary()

	_, found, err := d.Lookup("termo inexistente", DomainStructural)
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if found {
		t.Error("Lookup of unknown term should report not found")
	}
}

func TestEnumerateOrdered(t *testing.T) {
	d := NewDictionary()

	pairs, err := d.Enumerate(DomainStatistics)
	if err != nil {
		t.Fatalf("Enumerate: %v", err)
	}
	if len(pairs) == 0 {
		t.Fatal("statistics domain should not be empty")
	}
	for i := 1; i < len(pairs); i++ {
		if pairs[i-1].Source >= pairs[i].Source {
			t.Fatalf("pairs not sorted: %q before %q", pairs[i-1].Source, pairs[i].Source)
		}
	}
}

func TestEnumerateUnknownDomain(t *testing.T) {
	d := NewDictionary()
	if _, err := d.Enumerate(Domain("bogus")); err == nil {
		t.Fatal("expected error for unknown domain")
	}
}

func TestAddTerm(t *testing.T) {
	d := NewDictionary()

	if err := d.AddTerm("fadiga", "fatigue", DomainStructural); err != nil {
		t.Fatalf("AddTerm: %v", err)
	}
	got, err := d.Translate("Fadiga", DomainStructural)
	if err != nil {
		t.Fatalf("Translate: %v", err)
	}
	if got != "fatigue" {
		t.Errorf("Translate(Fadiga) = %q, want %q", got, "fatigue")
	}
}

func TestAddTermValidation(t *testing.T) {
	d := NewDictionary()

	if err := d.AddTerm("", "x", DomainStructural); err == nil {
		t.Error("empty source should fail")
	}
	if err := d.AddTerm("x", "y", Domain("nope")); err == nil {
		t.Error("unknown domain should fail")
	}
}

func TestLoadTerms(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "terms.yaml")
	content := `domains:
  structural-engineering:
    - source: fadiga
      target: fatigue
    - source: flambagem
      target: buckling
  statistics:
    - source: variância
      target: variance
`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}

	d := NewDictionary()
	if err := d.LoadTerms(path); err != nil {
		t.Fatalf("LoadTerms: %v", err)
	}

	got, _ := d.Translate("flambagem", DomainStructural)
	if got != "buckling" {
		t.Errorf("Translate(flambagem) = %q, want %q", got, "buckling")
	}
	got, _ = d.Translate("variância", DomainStatistics)
	if got != "variance" {
		t.Errorf("Translate(variância) = %q, want %q", got, "variance")
	}
}

func TestLoadTermsMalformed(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(path, []byte(":\n -"), 0600); err != nil {
		t.Fatal(err)
	}

	d := NewDictionary()
	if err := d.LoadTerms(path); err == nil {
		t.Fatal("malformed YAML should fail fast")
	}
}

func TestCheckConsistencyFlagsSourceTerm(t *testing.T) {
	d := NewDictionary()

	check, err := d.CheckConsistency("The corrosão was severe near the flange.", DomainStructural)
	if err != nil {
		t.Fatalf("CheckConsistency: %v", err)
	}
	if len(check.Inconsistencies) == 0 {
		t.Error("expected inconsistency for lingering source term")
	}
	if len(check.MixedUsage) != 0 {
		t.Errorf("unexpected mixed usage: %v", check.MixedUsage)
	}
}

func TestCheckConsistencyMixedUsage(t *testing.T) {
	d := NewDictionary()

	// Both forms present: reported under MixedUsage only.
	text := "A corrosão was observed; corrosion products covered the web."
	check, err := d.CheckConsistency(text, DomainStructural)
	if err != nil {
		t.Fatalf("CheckConsistency: %v", err)
	}

	foundMixed := false
	for _, m := range check.MixedUsage {
		if m == `both "corrosão" and "corrosion" present` {
			foundMixed = true
		}
	}
	if !foundMixed {
		t.Errorf("expected corrosão/corrosion under MixedUsage, got %v", check.MixedUsage)
	}
	for _, issue := range check.Inconsistencies {
		if issue == `source-language term "corrosão" found` {
			t.Error("mixed-usage pair must not also appear under Inconsistencies")
		}
	}
}

func TestCheckConsistencyCleanText(t *testing.T) {
	d := NewDictionary()

	check, err := d.CheckConsistency("Corrosion was observed on the steel beams.", DomainStructural)
	if err != nil {
		t.Fatalf("CheckConsistency: %v", err)
	}
	if len(check.Inconsistencies) != 0 || len(check.MixedUsage) != 0 {
		t.Errorf("clean text should pass: %+v", check)
	}
}

func TestReplaceTerms(t *testing.T) {
	d := NewDictionary()

	out, changed, err := d.ReplaceTerms("A corrosão atmosférica reduz a tensão de escoamento.", DomainStructural)
	if err != nil {
		t.Fatalf("ReplaceTerms: %v", err)
	}
	if !changed {
		t.Fatal("replacement expected")
	}
	// Compound phrases win over their sub-phrases: "corrosão atmosférica"
	// must not degrade to "corrosion atmosférica".
	if !strings.Contains(out, "atmospheric corrosion") {
		t.Errorf("compound term not applied: %q", out)
	}
	if !strings.Contains(out, "yield strength") {
		t.Errorf("yield strength not applied: %q", out)
	}
	if strings.Contains(out, "corrosão") {
		t.Errorf("source term left behind: %q", out)
	}
}

func TestReplaceTermsNoMatch(t *testing.T) {
	d := NewDictionary()

	in := "Nothing here matches any structural term."
	out, changed, err := d.ReplaceTerms(in, DomainStructural)
	if err != nil {
		t.Fatalf("ReplaceTerms: %v", err)
	}
	if changed || out != in {
		t.Errorf("text should be untouched, got %q", out)
	}
}

func TestContainsPhraseNoPartialWordMatch(t *testing.T) {
	// "média" must not match inside "intermédiaria"-style words.
	if containsPhrase("a intermédia foi usada", "média") {
		t.Error("phrase matched inside a longer word")
	}
	if !containsPhrase("a média foi usada", "média") {
		t.Error("whole-word phrase should match")
	}
}

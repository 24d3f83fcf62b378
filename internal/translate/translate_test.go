package translate

import (
	"context"
	"strings"
	"testing"
)

func TestMockTranslatorEchoes(t *testing.T) {
	m := &MockTranslator{}

	in := "A corrosão MATH:0 foi observada."
	got, err := m.Translate(context.Background(), in, "results")
	if err != nil {
		t.Fatalf("Translate: %v", err)
	}
	if got != in {
		t.Errorf("echo mock changed the text: %q", got)
	}
	if m.Calls != 1 {
		t.Errorf("Calls = %d, want 1", m.Calls)
	}
}

func TestMockTranslatorTransform(t *testing.T) {
	m := &MockTranslator{
		Transform: func(s string) string {
			return strings.ReplaceAll(s, "corrosão", "corrosion")
		},
	}

	got, err := m.Translate(context.Background(), "A corrosão MATH:0.", "results")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(got, "corrosion") {
		t.Errorf("transform not applied: %q", got)
	}
	if !strings.Contains(got, "MATH:0") {
		t.Errorf("protected token must survive the transform: %q", got)
	}
}

func TestNewOpenAITranslatorRequiresKey(t *testing.T) {
	if _, err := NewOpenAITranslator(context.Background(), "", "", "gpt-4o"); err == nil {
		t.Error("missing API key must fail fast")
	}
}

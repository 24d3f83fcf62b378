package config

import (
	"os"
	"path/filepath"
	"testing"

	"tm-engine/internal/types"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	dir := t.TempDir()
	m, err := NewConfigManager(filepath.Join(dir, "nonexistent.json"))
	if err != nil {
		t.Fatalf("NewConfigManager: %v", err)
	}

	if err := m.Load(); err != nil {
		t.Fatalf("Load: %v", err)
	}

	cfg := m.Get()
	if cfg.SimilarityThreshold != DefaultSimilarityThreshold {
		t.Errorf("SimilarityThreshold = %v, want %v", cfg.SimilarityThreshold, DefaultSimilarityThreshold)
	}
	if cfg.ReuseThreshold != DefaultReuseThreshold {
		t.Errorf("ReuseThreshold = %v, want %v", cfg.ReuseThreshold, DefaultReuseThreshold)
	}
	if cfg.ContextBonus != DefaultContextBonus {
		t.Errorf("ContextBonus = %v, want %v", cfg.ContextBonus, DefaultContextBonus)
	}
	if cfg.OpenAIBaseURL != DefaultBaseURL {
		t.Errorf("OpenAIBaseURL = %q, want %q", cfg.OpenAIBaseURL, DefaultBaseURL)
	}
}

func TestLoadInvalidJSONFallsBack(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.json")
	if err := os.WriteFile(path, []byte("{not json"), 0600); err != nil {
		t.Fatal(err)
	}

	m, err := NewConfigManager(path)
	if err != nil {
		t.Fatalf("NewConfigManager: %v", err)
	}
	if err := m.Load(); err != nil {
		t.Fatalf("Load should tolerate malformed config: %v", err)
	}
	if m.Get().OpenAIModel != DefaultModel {
		t.Errorf("model = %q, want default %q", m.Get().OpenAIModel, DefaultModel)
	}
}

func TestSaveAndReload(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cfg", "tm-engine-config.json")

	m, err := NewConfigManager(path)
	if err != nil {
		t.Fatalf("NewConfigManager: %v", err)
	}

	if err := m.Update(&types.Config{
		OpenAIModel:         "gpt-4o-mini",
		SimilarityThreshold: 0.6,
		ReuseThreshold:      0.85,
		ContextBonus:        0.2,
	}); err != nil {
		t.Fatalf("Update: %v", err)
	}

	m2, err := NewConfigManager(path)
	if err != nil {
		t.Fatalf("NewConfigManager: %v", err)
	}
	if err := m2.Load(); err != nil {
		t.Fatalf("Load: %v", err)
	}

	cfg := m2.Get()
	if cfg.OpenAIModel != "gpt-4o-mini" {
		t.Errorf("model = %q", cfg.OpenAIModel)
	}
	if cfg.SimilarityThreshold != 0.6 || cfg.ReuseThreshold != 0.85 || cfg.ContextBonus != 0.2 {
		t.Errorf("thresholds not persisted: %+v", cfg)
	}
}

func TestEnvironmentAPIKey(t *testing.T) {
	t.Setenv(EnvOpenAIAPIKey, "sk-test-key")

	dir := t.TempDir()
	m, err := NewConfigManager(filepath.Join(dir, "cfg.json"))
	if err != nil {
		t.Fatalf("NewConfigManager: %v", err)
	}
	if err := m.Load(); err != nil {
		t.Fatalf("Load: %v", err)
	}

	if m.Get().OpenAIAPIKey != "sk-test-key" {
		t.Errorf("API key not taken from environment, got %q", m.Get().OpenAIAPIKey)
	}
}

func TestUpdateNilConfig(t *testing.T) {
	dir := t.TempDir()
	m, err := NewConfigManager(filepath.Join(dir, "cfg.json"))
	if err != nil {
		t.Fatalf("NewConfigManager: %v", err)
	}

	err = m.Update(nil)
	if err == nil {
		t.Fatal("Update(nil) should fail")
	}
	appErr, ok := err.(*types.AppError)
	if !ok || appErr.Code != types.ErrInvalidInput {
		t.Errorf("want AppError with ErrInvalidInput, got %v", err)
	}
}

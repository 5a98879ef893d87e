package app

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yml"))
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.BaseURL != "http://localhost:5000/api" {
		t.Errorf("BaseURL = %q", cfg.BaseURL)
	}
	if cfg.Persona != "friendly" || cfg.Theme != "aurora" {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
}

func TestLoadConfigFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	data := []byte("base_url: https://docs.example.com/api\npersona: technical\nreduce_motion: true\n")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.BaseURL != "https://docs.example.com/api" {
		t.Errorf("BaseURL = %q", cfg.BaseURL)
	}
	if cfg.Persona != "technical" || !cfg.ReduceMotion {
		t.Errorf("file values not applied: %+v", cfg)
	}
	if cfg.Theme != "aurora" {
		t.Errorf("unset fields must keep defaults, got theme %q", cfg.Theme)
	}
}

func TestLoadConfigEnvWinsOverFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	if err := os.WriteFile(path, []byte("persona: technical\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("DOCCHAT_PERSONA", "creative")
	t.Setenv("DOCCHAT_THEME", "paper")

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Persona != "creative" {
		t.Errorf("env must override file, got %q", cfg.Persona)
	}
	if cfg.Theme != "paper" {
		t.Errorf("env not applied, got %q", cfg.Theme)
	}
}

func TestSaveConfigRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yml")
	want := Config{BaseURL: "http://10.0.0.5:5000/api", Persona: "creative", Theme: "paper", NoColor: true}

	if err := SaveConfig(want, path); err != nil {
		t.Fatalf("SaveConfig: %v", err)
	}
	got, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if got != want {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", got, want)
	}
}

func TestStatDocument(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "report.pdf")
	if err := os.WriteFile(path, []byte("%PDF-1.4"), 0o644); err != nil {
		t.Fatal(err)
	}

	doc, err := StatDocument(path)
	if err != nil {
		t.Fatalf("StatDocument: %v", err)
	}
	if doc.Name != "report.pdf" || doc.Size != 8 || doc.Path != path {
		t.Errorf("unexpected document: %+v", doc)
	}

	for _, bad := range []string{"", filepath.Join(dir, "missing.pdf"), dir} {
		if _, err := StatDocument(bad); err == nil {
			t.Errorf("StatDocument(%q): expected error", bad)
		}
	}
}

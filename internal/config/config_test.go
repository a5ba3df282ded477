package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoadProjectConfigDefaultsWhenMissing(t *testing.T) {
	projectDir := t.TempDir()
	reviewDir := filepath.Join(projectDir, ReviewDir)
	if err := os.MkdirAll(reviewDir, 0o755); err != nil {
		t.Fatal(err)
	}
	c := &Config{ProjectDir: projectDir, ReviewProjectDir: reviewDir, Project: defaultProjectConfig()}
	if err := c.loadProjectConfig(); err != nil {
		t.Fatalf("loadProjectConfig returned error: %v", err)
	}
	if c.Project.Version != 1 {
		t.Fatalf("expected default version == 1, got %d", c.Project.Version)
	}
	if got := c.MinSubmitDuration(); got != 15*time.Second {
		t.Fatalf("expected default floor of 15s, got %v", got)
	}
	if c.Artifact().Status != "pending review" {
		t.Fatalf("expected default status label, got %q", c.Artifact().Status)
	}
}

func TestLoadProjectConfigParsesYaml(t *testing.T) {
	projectDir := t.TempDir()
	reviewDir := filepath.Join(projectDir, ReviewDir)
	if err := os.MkdirAll(reviewDir, 0o755); err != nil {
		t.Fatal(err)
	}
	configYAML := strings.TrimSpace(`
version: 1
review:
  publish_url: http://files.internal:9000/api/
  metrics_url: http://metrics.internal:9000/api
  min_submit_seconds: 6
artifact:
  name: Test Data Agent
  document: outputs/data/generated.xlsx
  source: outputs/data/generated.xlsx
  destination: outputs/approved/generated.xlsx
catalog:
  path: catalog/items.yaml
`)
	if err := os.WriteFile(filepath.Join(reviewDir, "config.yaml"), []byte(configYAML), 0o644); err != nil {
		t.Fatal(err)
	}
	c := &Config{ProjectDir: projectDir, ReviewProjectDir: reviewDir, Project: defaultProjectConfig()}
	if err := c.loadProjectConfig(); err != nil {
		t.Fatalf("loadProjectConfig returned error: %v", err)
	}
	if got := c.PublishBaseURL(); got != "http://files.internal:9000/api" {
		t.Fatalf("publish url not normalized, got %q", got)
	}
	if got := c.MinSubmitDuration(); got != 6*time.Second {
		t.Fatalf("floor = %v, want 6s", got)
	}
	if !strings.HasPrefix(c.Artifact().Document, projectDir) {
		t.Fatalf("expected document path to be resolved, got %s", c.Artifact().Document)
	}
	if !strings.HasPrefix(c.CatalogPath(), projectDir) {
		t.Fatalf("expected catalog path to be resolved, got %s", c.CatalogPath())
	}
}

func TestLoadProjectConfigValidation(t *testing.T) {
	projectDir := t.TempDir()
	reviewDir := filepath.Join(projectDir, ReviewDir)
	if err := os.MkdirAll(reviewDir, 0o755); err != nil {
		t.Fatal(err)
	}
	configYAML := strings.TrimSpace(`
version: 1
artifact:
  name: Broken Artifact
  source: ""
  destination: ""
`)
	if err := os.WriteFile(filepath.Join(reviewDir, "config.yaml"), []byte(configYAML), 0o644); err != nil {
		t.Fatal(err)
	}
	c := &Config{ProjectDir: projectDir, ReviewProjectDir: reviewDir, Project: defaultProjectConfig()}
	if err := c.loadProjectConfig(); err == nil {
		t.Fatalf("expected validation error but got none")
	}
}

func TestInitReviewDirSeedsConfig(t *testing.T) {
	projectDir := t.TempDir()
	if err := InitReviewDir(projectDir); err != nil {
		t.Fatalf("init: %v", err)
	}
	if _, err := os.Stat(filepath.Join(projectDir, ReviewDir, "config.yaml")); err != nil {
		t.Fatalf("config.yaml missing: %v", err)
	}
	if _, err := os.Stat(filepath.Join(projectDir, ReviewDir, "logs")); err != nil {
		t.Fatalf("logs dir missing: %v", err)
	}
	cfg, err := NewConfig(projectDir)
	if err != nil {
		t.Fatalf("new config from seeded file: %v", err)
	}
	if cfg.Artifact().Name == "" {
		t.Fatalf("seeded config must name the artifact")
	}
}

func TestSetArtifactDocumentPersists(t *testing.T) {
	projectDir := t.TempDir()
	if err := InitReviewDir(projectDir); err != nil {
		t.Fatalf("init: %v", err)
	}
	cfg, err := NewConfig(projectDir)
	if err != nil {
		t.Fatalf("new config: %v", err)
	}
	if err := cfg.SetArtifactDocument("uploads/latest.xlsx"); err != nil {
		t.Fatalf("set document: %v", err)
	}
	reloaded, err := NewConfig(projectDir)
	if err != nil {
		t.Fatalf("reload config: %v", err)
	}
	if !strings.HasSuffix(reloaded.Artifact().Document, filepath.Join("uploads", "latest.xlsx")) {
		t.Fatalf("document not persisted, got %q", reloaded.Artifact().Document)
	}
}

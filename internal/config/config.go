// internal/config/config.go
//
// This package handles configuration and the .reviewdeck directory
// structure. Every project that uses reviewdeck gets a .reviewdeck/
// folder created in its root, holding the project config and logs.

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	// ReviewDir is the name of the directory we create in each project.
	ReviewDir = ".reviewdeck"

	// defaultMinSubmitSeconds is the UX floor on the submit busy state.
	defaultMinSubmitSeconds = 15
)

const defaultProjectConfigYAML = `# reviewdeck project configuration
version: 1

# Platform endpoints. The publish endpoint serves the copy-file call that
# moves a reviewed artifact to its canonical location; the metrics
# endpoint serves per-agent execution summaries.
review:
  publish_url: http://localhost:8080/api
  metrics_url: http://localhost:8080/api
  min_submit_seconds: 15

# The artifact under review.
artifact:
  name: Test Case Generator Agent
  description: Generates functional test cases from requirement documents
  status: pending review
  document: outputs/regeneration/RegeneratedTestCases.xlsx
  source: outputs/regeneration/RegeneratedTestCases.xlsx
  destination: outputs/test-design/test-case/RegeneratedTestCases.xlsx

# Optional path to a YAML catalog of review items. The bundled catalog
# is used when empty.
catalog:
  path: ""
`

// ReviewConfig holds endpoint and submission tuning.
type ReviewConfig struct {
	PublishURL       string `yaml:"publish_url"`
	MetricsURL       string `yaml:"metrics_url"`
	MinSubmitSeconds int    `yaml:"min_submit_seconds"`
}

// ArtifactConfig describes the artifact under review and where its
// document lives locally and on the file service.
type ArtifactConfig struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description,omitempty"`
	Status      string `yaml:"status,omitempty"`
	Document    string `yaml:"document"`
	Source      string `yaml:"source"`
	Destination string `yaml:"destination"`
}

// CatalogConfig points at an optional catalog file.
type CatalogConfig struct {
	Path string `yaml:"path,omitempty"`
}

// ProjectConfig models .reviewdeck/config.yaml.
type ProjectConfig struct {
	Version  int            `yaml:"version"`
	Review   ReviewConfig   `yaml:"review"`
	Artifact ArtifactConfig `yaml:"artifact"`
	Catalog  CatalogConfig  `yaml:"catalog"`
}

// Config holds the runtime configuration for reviewdeck.
type Config struct {
	// ProjectDir is the directory where the user ran `reviewdeck` from.
	ProjectDir string

	// ReviewProjectDir is ProjectDir/.reviewdeck.
	ReviewProjectDir string

	Project ProjectConfig
}

// InitReviewDir creates the .reviewdeck directory structure in the given
// project directory and seeds the default config file. Called when the
// TUI starts up.
func InitReviewDir(projectDir string) error {
	reviewDir := filepath.Join(projectDir, ReviewDir)
	dirs := []string{
		filepath.Join(reviewDir, "logs"),
		filepath.Join(reviewDir, "uploads"),
	}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return ensureProjectConfig(filepath.Join(reviewDir, "config.yaml"))
}

// NewConfig creates a new Config instance populated with project
// settings.
func NewConfig(projectDir string) (*Config, error) {
	cfg := &Config{
		ProjectDir:       projectDir,
		ReviewProjectDir: filepath.Join(projectDir, ReviewDir),
		Project:          defaultProjectConfig(),
	}
	if err := cfg.loadProjectConfig(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LogsDir returns the path to the logs directory.
func (c *Config) LogsDir() string {
	return filepath.Join(c.ReviewProjectDir, "logs")
}

// LogbookPath returns the session log file location.
func (c *Config) LogbookPath() string {
	return filepath.Join(c.LogsDir(), "review.log")
}

// ProjectConfigPath returns the on-disk location for the project config
// file.
func (c *Config) ProjectConfigPath() string {
	return filepath.Join(c.ReviewProjectDir, "config.yaml")
}

// PublishBaseURL returns the file-service API root.
func (c *Config) PublishBaseURL() string {
	return c.Project.Review.PublishURL
}

// MetricsBaseURL returns the metrics API root.
func (c *Config) MetricsBaseURL() string {
	return c.Project.Review.MetricsURL
}

// MinSubmitDuration returns the minimum visible-processing duration the
// submission pipeline enforces.
func (c *Config) MinSubmitDuration() time.Duration {
	return time.Duration(c.Project.Review.MinSubmitSeconds) * time.Second
}

// Artifact returns the configured artifact description.
func (c *Config) Artifact() ArtifactConfig {
	return c.Project.Artifact
}

// CatalogPath returns the configured catalog file, empty when the
// bundled catalog should be used.
func (c *Config) CatalogPath() string {
	return c.Project.Catalog.Path
}

// SetArtifactDocument updates the local document path and persists the
// value back to .reviewdeck/config.yaml so the next launch reopens the
// same document.
func (c *Config) SetArtifactDocument(path string) error {
	path = strings.TrimSpace(path)
	if path == "" {
		return fmt.Errorf("config: document path is required")
	}
	c.Project.Artifact.Document = path
	return c.saveProjectConfig()
}

func (c *Config) loadProjectConfig() error {
	path := c.ProjectConfigPath()
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("config: read %s: %w", path, err)
	}

	var parsed ProjectConfig
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		return fmt.Errorf("config: parse %s: %w", path, err)
	}

	parsed.applyDefaults()
	parsed.normalize(c.ProjectDir)
	if err := parsed.validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}

	c.Project = parsed
	return nil
}

func defaultProjectConfig() ProjectConfig {
	return ProjectConfig{
		Version: 1,
		Review: ReviewConfig{
			PublishURL:       "http://localhost:8080/api",
			MetricsURL:       "http://localhost:8080/api",
			MinSubmitSeconds: defaultMinSubmitSeconds,
		},
		Artifact: ArtifactConfig{
			Name:        "Test Case Generator Agent",
			Status:      "pending review",
			Document:    "outputs/regeneration/RegeneratedTestCases.xlsx",
			Source:      "outputs/regeneration/RegeneratedTestCases.xlsx",
			Destination: "outputs/test-design/test-case/RegeneratedTestCases.xlsx",
		},
	}
}

func (pc *ProjectConfig) applyDefaults() {
	if pc.Version == 0 {
		pc.Version = 1
	}
	defaults := defaultProjectConfig()
	if strings.TrimSpace(pc.Review.PublishURL) == "" {
		pc.Review.PublishURL = defaults.Review.PublishURL
	}
	if strings.TrimSpace(pc.Review.MetricsURL) == "" {
		pc.Review.MetricsURL = defaults.Review.MetricsURL
	}
	if pc.Review.MinSubmitSeconds == 0 {
		pc.Review.MinSubmitSeconds = defaults.Review.MinSubmitSeconds
	}
	if strings.TrimSpace(pc.Artifact.Name) == "" {
		pc.Artifact.Name = defaults.Artifact.Name
	}
	if strings.TrimSpace(pc.Artifact.Status) == "" {
		pc.Artifact.Status = defaults.Artifact.Status
	}
}

func (pc *ProjectConfig) normalize(base string) {
	pc.Review.PublishURL = strings.TrimRight(strings.TrimSpace(pc.Review.PublishURL), "/")
	pc.Review.MetricsURL = strings.TrimRight(strings.TrimSpace(pc.Review.MetricsURL), "/")
	pc.Artifact.Name = strings.TrimSpace(pc.Artifact.Name)
	pc.Artifact.Source = strings.TrimSpace(pc.Artifact.Source)
	pc.Artifact.Destination = strings.TrimSpace(pc.Artifact.Destination)
	pc.Artifact.Document = resolvePath(base, pc.Artifact.Document)
	pc.Catalog.Path = resolvePath(base, pc.Catalog.Path)
}

func (pc *ProjectConfig) validate() error {
	if pc.Version < 1 {
		return fmt.Errorf("config version must be >= 1")
	}
	if pc.Review.MinSubmitSeconds < 0 {
		return fmt.Errorf("review.min_submit_seconds must not be negative")
	}
	for field, value := range map[string]string{
		"review.publish_url": pc.Review.PublishURL,
		"review.metrics_url": pc.Review.MetricsURL,
	} {
		if _, err := url.ParseRequestURI(value); err != nil {
			return fmt.Errorf("%s: %w", field, err)
		}
	}
	if pc.Artifact.Source == "" {
		return fmt.Errorf("artifact.source is required")
	}
	if pc.Artifact.Destination == "" {
		return fmt.Errorf("artifact.destination is required")
	}
	return nil
}

func resolvePath(base, candidate string) string {
	trimmed := strings.TrimSpace(candidate)
	if trimmed == "" {
		return ""
	}
	if filepath.IsAbs(trimmed) {
		return filepath.Clean(trimmed)
	}
	return filepath.Clean(filepath.Join(base, trimmed))
}

func ensureProjectConfig(path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return os.WriteFile(path, []byte(defaultProjectConfigYAML), 0o644)
}

func (c *Config) saveProjectConfig() error {
	if c == nil {
		return fmt.Errorf("config: nil receiver")
	}
	c.Project.applyDefaults()
	if err := c.Project.validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if err := os.MkdirAll(c.ReviewProjectDir, 0o755); err != nil {
		return fmt.Errorf("config: ensure review dir: %w", err)
	}
	data, err := yaml.Marshal(c.Project)
	if err != nil {
		return fmt.Errorf("config: encode config: %w", err)
	}
	if err := os.WriteFile(c.ProjectConfigPath(), data, 0o644); err != nil {
		return fmt.Errorf("config: write project config: %w", err)
	}
	return nil
}

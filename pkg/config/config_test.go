package config

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg == nil {
		t.Fatal("DefaultConfig() returned nil")
	}

	if cfg.API.BaseURL != "https://api.dandiarchive.org/api" {
		t.Errorf("expected default API.BaseURL='https://api.dandiarchive.org/api', got %q", cfg.API.BaseURL)
	}

	if cfg.API.Dandiset != "000026" {
		t.Errorf("expected default API.Dandiset='000026', got %q", cfg.API.Dandiset)
	}

	if cfg.API.Version != "draft" {
		t.Errorf("expected default API.Version='draft', got %q", cfg.API.Version)
	}

	if cfg.API.PageSize != 1000 {
		t.Errorf("expected default API.PageSize=1000, got %d", cfg.API.PageSize)
	}

	if cfg.Viewer.BaseURL != "https://neuroglancer-demo.appspot.com/#!" {
		t.Errorf("expected Neuroglancer viewer base, got %q", cfg.Viewer.BaseURL)
	}

	if cfg.Viewer.Contrast != 100.0 {
		t.Errorf("expected default Viewer.Contrast=100, got %v", cfg.Viewer.Contrast)
	}

	if cfg.Viewer.Intensity != 1.0 {
		t.Errorf("expected default Viewer.Intensity=1, got %v", cfg.Viewer.Intensity)
	}

	if !reflect.DeepEqual(cfg.Refine.Modalities, []string{"SPIM"}) {
		t.Errorf("expected default Refine.Modalities=[SPIM], got %v", cfg.Refine.Modalities)
	}

	if cfg.Refine.Extension != "ome.zarr" {
		t.Errorf("expected default Refine.Extension='ome.zarr', got %q", cfg.Refine.Extension)
	}

	if cfg.Plots.IndexFile != "DANDI_interactive_plot_selector.html" {
		t.Errorf("expected default index file name, got %q", cfg.Plots.IndexFile)
	}

	if !reflect.DeepEqual(cfg.Plots.OverviewModalities, []string{"STER", "SPIM", "OCT"}) {
		t.Errorf("expected default overview modalities, got %v", cfg.Plots.OverviewModalities)
	}
}

func TestLoad_NonExistentFile(t *testing.T) {
	// Loading a non-existent file should return default config
	cfg, err := Load("/nonexistent/path/config.yaml")

	if err != nil {
		t.Fatalf("unexpected error loading non-existent file: %v", err)
	}

	if cfg == nil {
		t.Fatal("Load() returned nil config")
	}

	// Should return default values
	if cfg.API.Dandiset != "000026" {
		t.Errorf("expected default API.Dandiset='000026', got %q", cfg.API.Dandiset)
	}

	if cfg.API.PageSize != 1000 {
		t.Errorf("expected default API.PageSize=1000, got %d", cfg.API.PageSize)
	}
}

func TestSave_And_Load(t *testing.T) {
	// Create a temporary directory for testing
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "config.yaml")

	// Create a custom config
	cfg := DefaultConfig()
	cfg.API.Dandiset = "000108"
	cfg.API.PageSize = 250
	cfg.Viewer.Contrast = 42.5
	cfg.Refine.Modalities = []string{"SPIM", "OCT"}
	cfg.Plots.Dir = "/tmp/out"

	// Save the config
	err := cfg.Save(configPath)
	if err != nil {
		t.Fatalf("failed to save config: %v", err)
	}

	// Verify file was created
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		t.Fatal("config file was not created")
	}

	// Load the config back
	loadedCfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	// Verify values match
	if loadedCfg.API.Dandiset != cfg.API.Dandiset {
		t.Errorf("API.Dandiset: expected %q, got %q", cfg.API.Dandiset, loadedCfg.API.Dandiset)
	}

	if loadedCfg.API.PageSize != cfg.API.PageSize {
		t.Errorf("API.PageSize: expected %d, got %d", cfg.API.PageSize, loadedCfg.API.PageSize)
	}

	if loadedCfg.Viewer.Contrast != cfg.Viewer.Contrast {
		t.Errorf("Viewer.Contrast: expected %v, got %v", cfg.Viewer.Contrast, loadedCfg.Viewer.Contrast)
	}

	if !reflect.DeepEqual(loadedCfg.Refine.Modalities, cfg.Refine.Modalities) {
		t.Errorf("Refine.Modalities: expected %v, got %v", cfg.Refine.Modalities, loadedCfg.Refine.Modalities)
	}

	if loadedCfg.Plots.Dir != cfg.Plots.Dir {
		t.Errorf("Plots.Dir: expected %q, got %q", cfg.Plots.Dir, loadedCfg.Plots.Dir)
	}
}

func TestLoad_AppliesDefaults(t *testing.T) {
	// Create a config file with missing values
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "config.yaml")

	// Create a partial config (only the dandiset and contrast are set)
	yamlContent := `api:
  dandiset: "000108"
viewer:
  contrast: 50
`
	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to create test config file: %v", err)
	}

	// Load the config
	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	// Should apply defaults for missing values
	if cfg.API.BaseURL != "https://api.dandiarchive.org/api" {
		t.Errorf("expected default API.BaseURL, got %q", cfg.API.BaseURL)
	}

	if cfg.API.PageSize != 1000 {
		t.Errorf("expected default API.PageSize=1000, got %d", cfg.API.PageSize)
	}

	if cfg.Viewer.Intensity != 1.0 {
		t.Errorf("expected default Viewer.Intensity=1, got %v", cfg.Viewer.Intensity)
	}

	if !reflect.DeepEqual(cfg.Refine.Modalities, []string{"SPIM"}) {
		t.Errorf("expected default Refine.Modalities=[SPIM], got %v", cfg.Refine.Modalities)
	}

	// Should preserve specified values
	if cfg.API.Dandiset != "000108" {
		t.Errorf("expected API.Dandiset='000108', got %q", cfg.API.Dandiset)
	}

	if cfg.Viewer.Contrast != 50.0 {
		t.Errorf("expected Viewer.Contrast=50, got %v", cfg.Viewer.Contrast)
	}
}

func TestLoad_ZeroPageSize(t *testing.T) {
	// Create a config file with zero page_size
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "config.yaml")

	yamlContent := `api:
  page_size: 0
`
	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to create test config file: %v", err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	// Should apply default for zero/negative page_size
	if cfg.API.PageSize != 1000 {
		t.Errorf("expected default API.PageSize=1000 for zero value, got %d", cfg.API.PageSize)
	}
}

func TestLoad_InvertedDisplayRange(t *testing.T) {
	// A range whose max does not exceed its min falls back to the default window
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "config.yaml")

	yamlContent := `viewer:
  range_min: 500
  range_max: 100
`
	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to create test config file: %v", err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Viewer.RangeMin != 0 || cfg.Viewer.RangeMax != 2000 {
		t.Errorf("expected default range [0, 2000], got [%d, %d]", cfg.Viewer.RangeMin, cfg.Viewer.RangeMax)
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	// Create a config file with invalid YAML
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "config.yaml")

	yamlContent := `api:
  dandiset: [invalid yaml structure
`
	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to create test config file: %v", err)
	}

	_, err := Load(configPath)
	if err == nil {
		t.Fatal("expected error loading invalid YAML, got nil")
	}
}

func TestSave_CreatesDirectory(t *testing.T) {
	// Save to a path where directory doesn't exist
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "nested", "dir", "config.yaml")

	cfg := DefaultConfig()
	err := cfg.Save(configPath)

	if err != nil {
		t.Fatalf("failed to save config: %v", err)
	}

	// Verify directory was created
	dir := filepath.Dir(configPath)
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		t.Fatal("directory was not created")
	}

	// Verify file exists
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		t.Fatal("config file was not created")
	}
}

func TestSave_ValidYAML(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "config.yaml")

	cfg := DefaultConfig()
	cfg.API.Dandiset = "000212"
	cfg.Viewer.Backend = "gcs"

	err := cfg.Save(configPath)
	if err != nil {
		t.Fatalf("failed to save config: %v", err)
	}

	// Read the file and verify it's valid YAML
	data, err := os.ReadFile(configPath)
	if err != nil {
		t.Fatalf("failed to read config file: %v", err)
	}

	// Verify content contains expected values
	content := string(data)
	if !strings.Contains(content, "000212") {
		t.Error("config file should contain '000212'")
	}
	if !strings.Contains(content, "gcs") {
		t.Error("config file should contain 'gcs'")
	}
	if !strings.Contains(content, "ome.zarr") {
		t.Error("config file should contain 'ome.zarr'")
	}
}

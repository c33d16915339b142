package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// APIConfig holds archive API settings
type APIConfig struct {
	BaseURL        string `yaml:"base_url"`
	Dandiset       string `yaml:"dandiset"`
	Version        string `yaml:"version"`
	PageSize       int    `yaml:"page_size"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

// ViewerConfig holds Neuroglancer link-building settings
type ViewerConfig struct {
	BaseURL      string  `yaml:"base_url"`
	SourcePrefix string  `yaml:"source_prefix"`
	Backend      string  `yaml:"backend"`
	Contrast     float64 `yaml:"contrast"`
	Intensity    float64 `yaml:"intensity"`
	RangeMin     int     `yaml:"range_min"`
	RangeMax     int     `yaml:"range_max"`
}

// RefineConfig selects which records get viewer URLs
type RefineConfig struct {
	Modalities []string `yaml:"modalities"`
	Extension  string   `yaml:"extension"`
}

// PlotsConfig holds artifact output settings
type PlotsConfig struct {
	Dir                string   `yaml:"dir"`
	IndexFile          string   `yaml:"index_file"`
	OverviewModalities []string `yaml:"overview_modalities"`
}

type Config struct {
	API    APIConfig    `yaml:"api"`
	Viewer ViewerConfig `yaml:"viewer"`
	Refine RefineConfig `yaml:"refine"`
	Plots  PlotsConfig  `yaml:"plots"`
}

// DefaultConfig returns a Config struct with default values
func DefaultConfig() *Config {
	return &Config{
		API: APIConfig{
			BaseURL:        "https://api.dandiarchive.org/api",
			Dandiset:       "000026",
			Version:        "draft",
			PageSize:       1000,
			TimeoutSeconds: 60,
		},
		Viewer: ViewerConfig{
			BaseURL:      "https://neuroglancer-demo.appspot.com/#!",
			SourcePrefix: "zarr://",
			Backend:      "s3",
			Contrast:     100.0,
			Intensity:    1.0,
			RangeMin:     0,
			RangeMax:     2000,
		},
		Refine: RefineConfig{
			Modalities: []string{"SPIM"},
			Extension:  "ome.zarr",
		},
		Plots: PlotsConfig{
			Dir:                "./plots",
			IndexFile:          "DANDI_interactive_plot_selector.html",
			OverviewModalities: []string{"STER", "SPIM", "OCT"},
		},
	}
}

// Load reads configuration from the specified file path
func Load(path string) (*Config, error) {
	// Start with default config
	cfg := DefaultConfig()

	// Try to read the file
	data, err := os.ReadFile(path)
	if err != nil {
		// If file doesn't exist, return default config (not an error)
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Parse YAML
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	// Apply defaults for essential values if missing
	if cfg.API.BaseURL == "" {
		cfg.API.BaseURL = "https://api.dandiarchive.org/api"
	}
	if cfg.API.Dandiset == "" {
		cfg.API.Dandiset = "000026"
	}
	if cfg.API.Version == "" {
		cfg.API.Version = "draft"
	}
	if cfg.API.PageSize <= 0 {
		cfg.API.PageSize = 1000
	}
	if cfg.API.TimeoutSeconds <= 0 {
		cfg.API.TimeoutSeconds = 60
	}
	if cfg.Viewer.BaseURL == "" {
		cfg.Viewer.BaseURL = "https://neuroglancer-demo.appspot.com/#!"
	}
	if cfg.Viewer.SourcePrefix == "" {
		cfg.Viewer.SourcePrefix = "zarr://"
	}
	if cfg.Viewer.Backend == "" {
		cfg.Viewer.Backend = "s3"
	}
	if cfg.Viewer.Contrast == 0 {
		cfg.Viewer.Contrast = 100.0
	}
	if cfg.Viewer.Intensity == 0 {
		cfg.Viewer.Intensity = 1.0
	}
	if cfg.Viewer.RangeMax <= cfg.Viewer.RangeMin {
		cfg.Viewer.RangeMin = 0
		cfg.Viewer.RangeMax = 2000
	}
	if len(cfg.Refine.Modalities) == 0 {
		cfg.Refine.Modalities = []string{"SPIM"}
	}
	if cfg.Refine.Extension == "" {
		cfg.Refine.Extension = "ome.zarr"
	}
	if cfg.Plots.Dir == "" {
		cfg.Plots.Dir = "./plots"
	}
	if cfg.Plots.IndexFile == "" {
		cfg.Plots.IndexFile = "DANDI_interactive_plot_selector.html"
	}
	if len(cfg.Plots.OverviewModalities) == 0 {
		cfg.Plots.OverviewModalities = []string{"STER", "SPIM", "OCT"}
	}

	return cfg, nil
}

// Save persists the current configuration to the specified file path
func (c *Config) Save(path string) error {
	// Create directory if it doesn't exist
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

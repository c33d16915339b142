package workspace

import (
	"fmt"
	"os"
	"path/filepath"
)

// Workspace represents the managed state and artifact directories for dandiscope
type Workspace struct {
	RootPath        string
	CheckpointsPath string
	PlotsPath       string
	IndexFile       string
	ConfigPath      string
}

// New creates a new Workspace instance with XDG-compliant state paths.
// The plots directory and index file come from configuration and resolve
// relative to the working directory when not absolute.
func New(plotsDir, indexFile string) (*Workspace, error) {
	rootPath, rootErr := getStateRoot()
	configPath, configErr := ConfigPath()
	if rootErr != nil {
		return nil, fmt.Errorf("failed to determine state root: %w", rootErr)
	}
	if configErr != nil {
		return nil, fmt.Errorf("failed to determine config path: %w", configErr)
	}

	if plotsDir == "" {
		plotsDir = "./plots"
	}
	if indexFile == "" {
		indexFile = "DANDI_interactive_plot_selector.html"
	}

	ws := &Workspace{
		RootPath:        rootPath,
		CheckpointsPath: filepath.Join(rootPath, "checkpoints"),
		PlotsPath:       plotsDir,
		IndexFile:       indexFile,
		ConfigPath:      configPath,
	}

	return ws, nil
}

// getStateRoot returns the state root directory path
// Follows XDG Base Directory specification on Unix and uses AppData on Windows
func getStateRoot() (string, error) {
	// Check XDG_DATA_HOME first (Unix-like systems)
	if xdgDataHome := os.Getenv("XDG_DATA_HOME"); xdgDataHome != "" {
		return filepath.Join(xdgDataHome, "dandiscope"), nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	// Check if we're on Windows by looking for APPDATA
	if appData := os.Getenv("APPDATA"); appData != "" {
		return filepath.Join(appData, "dandiscope"), nil
	}

	// Fall back to ~/.local/share/dandiscope (Unix-like systems)
	return filepath.Join(homeDir, ".local", "share", "dandiscope"), nil
}

// ConfigPath returns the configuration file path. It is resolved before the
// workspace itself exists so the config can decide the artifact directories.
func ConfigPath() (string, error) {
	// Check XDG_CONFIG_HOME first (Unix-like systems)
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, "dandiscope", "config.yaml"), nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	// Check if we're on Windows by looking for APPDATA
	if appData := os.Getenv("APPDATA"); appData != "" {
		return filepath.Join(appData, "dandiscope-config", "config.yaml"), nil
	}

	// Fall back to ~/.config/dandiscope/config.yaml (Unix-like systems)
	return filepath.Join(homeDir, ".config", "dandiscope", "config.yaml"), nil
}

// Initialize creates the workspace directory structure if it doesn't exist
func (w *Workspace) Initialize() error {
	directories := []string{
		w.RootPath,
		w.CheckpointsPath,
		w.PlotsPath,
	}

	for _, dir := range directories {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	return nil
}

// Exists checks if the workspace has been initialized
func (w *Workspace) Exists() bool {
	info, err := os.Stat(w.RootPath)
	if err != nil {
		return false
	}
	return info.IsDir()
}

// RecordsPath returns the path to the harvested records checkpoint
func (w *Workspace) RecordsPath() string {
	return filepath.Join(w.CheckpointsPath, "records.json")
}

// ViewerRowsPath returns the path to the viewer rows checkpoint
func (w *Workspace) ViewerRowsPath() string {
	return filepath.Join(w.CheckpointsPath, "viewer_rows.json")
}

// PlotPath returns the full path for a plot file
func (w *Workspace) PlotPath(filename string) string {
	return filepath.Join(w.PlotsPath, filename)
}

// IndexPagePath returns the path the index page is written to. A bare file
// name lands in the working directory, next to the plots directory, so the
// page's relative links resolve.
func (w *Workspace) IndexPagePath() string {
	return w.IndexFile
}

// PlotHref returns the link target for a plot file as used from the index page
func (w *Workspace) PlotHref(filename string) string {
	return filepath.ToSlash(filepath.Join(w.PlotsPath, filename))
}

// CleanCheckpoints removes all files in the checkpoints directory
func (w *Workspace) CleanCheckpoints() error {
	return removeEntries(w.CheckpointsPath)
}

// CleanPlots removes all files in the plots directory
func (w *Workspace) CleanPlots() error {
	return removeEntries(w.PlotsPath)
}

func removeEntries(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read directory %s: %w", dir, err)
	}

	for _, entry := range entries {
		path := filepath.Join(dir, entry.Name())
		if err := os.RemoveAll(path); err != nil {
			return fmt.Errorf("failed to remove %s: %w", path, err)
		}
	}

	return nil
}

package workspace

import (
	"os"
	"path/filepath"
	"testing"
)

func TestWorkspace_CheckpointPaths(t *testing.T) {
	w := &Workspace{
		CheckpointsPath: "/test/state/checkpoints",
	}

	tests := []struct {
		name     string
		got      string
		expected string
	}{
		{"records", w.RecordsPath(), "/test/state/checkpoints/records.json"},
		{"viewer rows", w.ViewerRowsPath(), "/test/state/checkpoints/viewer_rows.json"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.expected {
				t.Errorf("path = %q, want %q", tt.got, tt.expected)
			}
		})
	}
}

func TestWorkspace_PlotPath(t *testing.T) {
	w := &Workspace{
		PlotsPath: "/test/out/plots",
	}

	tests := []struct {
		name     string
		filename string
		expected string
	}{
		{"overview plot", "modality_subject.html", "/test/out/plots/modality_subject.html"},
		{"subject plot", "sub-MITU01.html", "/test/out/plots/sub-MITU01.html"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := w.PlotPath(tt.filename)
			if result != tt.expected {
				t.Errorf("PlotPath(%q) = %q, want %q", tt.filename, result, tt.expected)
			}
		})
	}
}

func TestWorkspace_PlotHref(t *testing.T) {
	w := &Workspace{
		PlotsPath: "./plots",
	}

	result := w.PlotHref("MITU01.html")
	expected := "plots/MITU01.html"

	if result != expected {
		t.Errorf("PlotHref() = %q, want %q", result, expected)
	}
}

func TestWorkspace_IndexPagePath(t *testing.T) {
	w := &Workspace{
		IndexFile: "DANDI_interactive_plot_selector.html",
	}

	if got := w.IndexPagePath(); got != "DANDI_interactive_plot_selector.html" {
		t.Errorf("IndexPagePath() = %q, want the configured index file", got)
	}
}

func TestNew_Defaults(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", t.TempDir())
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	w, err := New("", "")
	if err != nil {
		t.Fatalf("New() returned error: %v", err)
	}

	if w.PlotsPath != "./plots" {
		t.Errorf("expected default plots dir './plots', got %q", w.PlotsPath)
	}

	if w.IndexFile != "DANDI_interactive_plot_selector.html" {
		t.Errorf("expected default index file, got %q", w.IndexFile)
	}

	if filepath.Base(filepath.Dir(w.RecordsPath())) != "checkpoints" {
		t.Errorf("records checkpoint should live under checkpoints/, got %q", w.RecordsPath())
	}
}

func TestNew_XDGPaths(t *testing.T) {
	dataHome := t.TempDir()
	configHome := t.TempDir()
	t.Setenv("XDG_DATA_HOME", dataHome)
	t.Setenv("XDG_CONFIG_HOME", configHome)

	w, err := New("./plots", "index.html")
	if err != nil {
		t.Fatalf("New() returned error: %v", err)
	}

	expectedRoot := filepath.Join(dataHome, "dandiscope")
	if w.RootPath != expectedRoot {
		t.Errorf("RootPath = %q, want %q", w.RootPath, expectedRoot)
	}

	expectedConfig := filepath.Join(configHome, "dandiscope", "config.yaml")
	if w.ConfigPath != expectedConfig {
		t.Errorf("ConfigPath = %q, want %q", w.ConfigPath, expectedConfig)
	}
}

func TestWorkspace_Initialize(t *testing.T) {
	tempDir := t.TempDir()

	w := &Workspace{
		RootPath:        filepath.Join(tempDir, "state"),
		CheckpointsPath: filepath.Join(tempDir, "state", "checkpoints"),
		PlotsPath:       filepath.Join(tempDir, "plots"),
	}

	if err := w.Initialize(); err != nil {
		t.Fatalf("Initialize() returned error: %v", err)
	}

	for _, dir := range []string{w.RootPath, w.CheckpointsPath, w.PlotsPath} {
		info, err := os.Stat(dir)
		if err != nil {
			t.Fatalf("expected directory %s to exist: %v", dir, err)
		}
		if !info.IsDir() {
			t.Errorf("expected %s to be a directory", dir)
		}
	}

	// Second call must succeed on existing directories
	if err := w.Initialize(); err != nil {
		t.Errorf("Initialize() on existing workspace returned error: %v", err)
	}

	if !w.Exists() {
		t.Error("Exists() = false after Initialize()")
	}
}

func TestWorkspace_CleanCheckpoints(t *testing.T) {
	tempDir := t.TempDir()
	w := &Workspace{
		RootPath:        tempDir,
		CheckpointsPath: filepath.Join(tempDir, "checkpoints"),
		PlotsPath:       filepath.Join(tempDir, "plots"),
	}

	if err := w.Initialize(); err != nil {
		t.Fatalf("Initialize() returned error: %v", err)
	}

	if err := os.WriteFile(w.RecordsPath(), []byte("[]"), 0644); err != nil {
		t.Fatalf("failed to seed checkpoint: %v", err)
	}

	if err := w.CleanCheckpoints(); err != nil {
		t.Fatalf("CleanCheckpoints() returned error: %v", err)
	}

	entries, err := os.ReadDir(w.CheckpointsPath)
	if err != nil {
		t.Fatalf("failed to read checkpoints dir: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("expected empty checkpoints dir, found %d entries", len(entries))
	}
}

func TestWorkspace_CleanPlots_MissingDir(t *testing.T) {
	w := &Workspace{
		PlotsPath: filepath.Join(t.TempDir(), "never-created"),
	}

	// Cleaning a directory that was never created is not an error
	if err := w.CleanPlots(); err != nil {
		t.Errorf("CleanPlots() on missing dir returned error: %v", err)
	}
}

func TestWorkspace_Exists_Uninitialized(t *testing.T) {
	w := &Workspace{
		RootPath: filepath.Join(t.TempDir(), "never-created"),
	}

	if w.Exists() {
		t.Error("Exists() = true for uninitialized workspace")
	}
}

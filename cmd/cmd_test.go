package cmd

import (
	"path/filepath"
	"testing"

	"dandiscope/internal/core/ports/mocks"
	"dandiscope/internal/core/services"
	"dandiscope/pkg/workspace"
)

// TestCommandStructure verifies that all commands are properly registered
func TestCommandStructure(t *testing.T) {
	commands := []string{
		"run", "harvest", "urls", "plots", "pages", "stats",
		"explore", "matrix", "watch", "clean", "config", "doctor", "version",
	}

	for _, cmdName := range commands {
		t.Run(cmdName, func(t *testing.T) {
			cmd, _, err := rootCmd.Find([]string{cmdName})
			if err != nil {
				t.Errorf("Command '%s' not found: %v", cmdName, err)
			}
			if cmd == nil {
				t.Errorf("Command '%s' is nil", cmdName)
			}
			if cmd.Use == "" {
				t.Errorf("Command '%s' has no Use field", cmdName)
			}
		})
	}
}

// TestRootCommandExists verifies the root command is properly configured
func TestRootCommandExists(t *testing.T) {
	if rootCmd == nil {
		t.Fatal("Root command is nil")
	}

	if rootCmd.Use != "dandiscope" {
		t.Errorf("Expected root command Use to be 'dandiscope', got '%s'", rootCmd.Use)
	}

	if rootCmd.Short == "" {
		t.Error("Root command Short description is empty")
	}
}

// TestCommandsHaveHelp verifies all commands have help text
func TestCommandsHaveHelp(t *testing.T) {
	commands := rootCmd.Commands()

	if len(commands) == 0 {
		t.Fatal("No commands registered")
	}

	for _, cmd := range commands {
		t.Run(cmd.Name(), func(t *testing.T) {
			if cmd.Short == "" {
				t.Errorf("Command '%s' has no Short description", cmd.Name())
			}
		})
	}
}

// TestServiceInitialization verifies services can be initialized with mocks
func TestServiceInitialization(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", t.TempDir())
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	mockRepo := mocks.NewMockDatasetRepository()
	mockCheckpoints := mocks.NewMockCheckpointStore()
	mockGrids := mocks.NewMockGridRenderer()
	mockPages := mocks.NewMockPageRenderer()

	dir := t.TempDir()
	ws, err := workspace.New(filepath.Join(dir, "plots"), filepath.Join(dir, "index.html"))
	if err != nil {
		t.Fatalf("Failed to create workspace: %v", err)
	}

	harvest := services.NewHarvestService(mockRepo, mockCheckpoints)
	if harvest == nil {
		t.Error("HarvestService is nil")
	}

	viewer := services.NewViewerService(mockRepo, mockCheckpoints)
	if viewer == nil {
		t.Error("ViewerService is nil")
	}

	plot := services.NewPlotService(mockCheckpoints, mockGrids, ws)
	if plot == nil {
		t.Error("PlotService is nil")
	}

	page := services.NewPageService(mockCheckpoints, mockPages, ws)
	if page == nil {
		t.Error("PageService is nil")
	}
}

// TestFlagsExist verifies important flags are registered
func TestFlagsExist(t *testing.T) {
	tests := []struct {
		command  string
		flagName string
	}{
		{"run", "dandiset"},
		{"run", "version"},
		{"run", "open"},
		{"harvest", "dandiset"},
		{"harvest", "version"},
		{"urls", "copy"},
		{"urls", "show"},
		{"urls", "open"},
		{"plots", "overview"},
		{"pages", "open"},
		{"watch", "quiet"},
		{"clean", "checkpoints"},
		{"clean", "plots"},
		{"config", "init"},
	}

	for _, tt := range tests {
		t.Run(tt.command+"_"+tt.flagName, func(t *testing.T) {
			cmd, _, err := rootCmd.Find([]string{tt.command})
			if err != nil {
				t.Fatalf("Command '%s' not found: %v", tt.command, err)
			}

			flag := cmd.Flags().Lookup(tt.flagName)
			if flag == nil {
				t.Errorf("Flag '--%s' not found on command '%s'", tt.flagName, tt.command)
			}
		})
	}
}

// TestVersionCommand verifies version command exists and answers its alias
func TestVersionCommand(t *testing.T) {
	cmd, _, err := rootCmd.Find([]string{"version"})
	if err != nil {
		t.Fatalf("Version command not found: %v", err)
	}

	if cmd == nil {
		t.Fatal("Version command is nil")
	}

	aliased, _, err := rootCmd.Find([]string{"v"})
	if err != nil {
		t.Fatalf("Alias 'v' not found: %v", err)
	}

	if aliased != cmd {
		t.Error("Alias 'v' does not resolve to the version command")
	}
}

package cmd

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	"dandiscope/pkg/ui"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check the health of your dandiscope setup",
	Long: `Diagnose issues with your dandiscope setup.

Checks for:
  - Configuration file and workspace directories
  - Checkpoint freshness
  - Archive API reachability
  - Environment (EDITOR, browser)`,
	Run: runDoctor,
}

func runDoctor(cmd *cobra.Command, args []string) {
	fmt.Println(ui.FormatTitle("🏥 Dandiscope Doctor"))
	fmt.Println()

	// 1. Configuration
	checkStep("Configuration File", func() error {
		if _, err := os.Stat(appWorkspace.ConfigPath); os.IsNotExist(err) {
			return fmt.Errorf("missing at %s (using defaults)", appWorkspace.ConfigPath)
		}
		return nil
	})

	// 2. Workspace structure
	checkStep("State Directory", func() error {
		if !appWorkspace.Exists() {
			return fmt.Errorf("not found at %s (created on first harvest)", appWorkspace.RootPath)
		}
		return nil
	})

	checkStep("Plots Directory", func() error {
		if _, err := os.Stat(appWorkspace.PlotsPath); os.IsNotExist(err) {
			return fmt.Errorf("missing at %s (created on first plot)", appWorkspace.PlotsPath)
		}
		return nil
	})

	// 3. Checkpoints
	checkStep("Records Checkpoint", func() error {
		if !checkpointStore.RecordsExist() {
			return fmt.Errorf("missing (run 'dandiscope harvest')")
		}
		return nil
	})

	checkStep("Viewer Checkpoint", func() error {
		if !checkpointStore.ViewerRowsExist() {
			return fmt.Errorf("missing (run 'dandiscope urls')")
		}
		return nil
	})

	checkStep("Index Page", func() error {
		if _, err := os.Stat(appWorkspace.IndexPagePath()); os.IsNotExist(err) {
			return fmt.Errorf("missing (run 'dandiscope pages')")
		}
		return nil
	})

	// 4. Archive reachability
	checkStep("Archive API", func() error {
		client := &http.Client{Timeout: 5 * time.Second}
		url := fmt.Sprintf("%s/dandisets/%s/", appConfig.API.BaseURL, appConfig.API.Dandiset)

		resp, err := client.Get(url)
		if err != nil {
			return fmt.Errorf("unreachable: %v", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("dandiset %s returned status %d", appConfig.API.Dandiset, resp.StatusCode)
		}
		return nil
	})

	// 5. Environment
	checkStep("EDITOR Variable", func() error {
		if os.Getenv("EDITOR") == "" {
			return fmt.Errorf("not set (using fallback 'vi')")
		}
		return nil
	})
}

// checkStep runs a check function and prints the result nicely
func checkStep(name string, check func() error) {
	err := check()
	if err == nil {
		fmt.Printf("%s %s\n", ui.FormatSuccess("✔"), name)
	} else {
		fmt.Printf("%s %s\n", ui.FormatError("✘"), name)
		fmt.Printf("    %s\n", ui.StyleMuted.Render(err.Error()))
	}
}

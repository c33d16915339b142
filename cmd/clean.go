package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"dandiscope/pkg/ui"
)

var (
	cleanCheckpoints bool
	cleanPlots       bool
)

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Remove checkpoints and generated artifacts",
	Long: `Remove checkpointed tables, generated plots, and the index page.

Without flags everything goes. With --checkpoints or --plots only the named
part is removed.

Examples:
  dandiscope clean                # Remove everything
  dandiscope clean --checkpoints  # Force the next run to re-harvest
  dandiscope clean --plots        # Remove plots and the index page only`,
	RunE: runClean,
}

func init() {
	cleanCmd.Flags().BoolVar(&cleanCheckpoints, "checkpoints", false, "Remove only the checkpointed tables")
	cleanCmd.Flags().BoolVar(&cleanPlots, "plots", false, "Remove only the plots and index page")
}

func runClean(cmd *cobra.Command, args []string) error {
	all := !cleanCheckpoints && !cleanPlots

	if all || cleanCheckpoints {
		fmt.Print(ui.StyleWarning.Render("Cleaning checkpoints... "))
		if err := appWorkspace.CleanCheckpoints(); err != nil {
			fmt.Println(ui.FormatError("Failed"))
			return err
		}
		fmt.Println(ui.FormatSuccess("Done"))
	}

	if all || cleanPlots {
		fmt.Print(ui.StyleWarning.Render("Cleaning plots... "))
		if err := appWorkspace.CleanPlots(); err != nil {
			fmt.Println(ui.FormatError("Failed"))
			return err
		}

		// The index page lives outside the plots directory
		if err := os.Remove(appWorkspace.IndexPagePath()); err != nil && !os.IsNotExist(err) {
			fmt.Println(ui.FormatError("Failed"))
			return err
		}
		fmt.Println(ui.FormatSuccess("Done"))
	}

	fmt.Println(ui.FormatMuted("Artifacts removed. Run 'dandiscope run' to regenerate."))
	return nil
}

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"dandiscope/internal/core/services"
	"dandiscope/pkg/ui"
)

var plotsOverviewOnly bool

// plotsCmd represents the plots command
var plotsCmd = &cobra.Command{
	Use:   "plots",
	Short: "Generate heatmap plots from the checkpointed tables",
	Long: `Render the modality-by-subject overview grid and one interactive
stain-by-sample grid per subject as self-contained HTML files.

Cells of the subject grids open their viewer URL when clicked. The overview
aggregates asset counts per (subject, modality) cell.

Examples:
  dandiscope plots
  dandiscope plots --overview`,
	RunE: runPlots,
}

func init() {
	plotsCmd.Flags().BoolVar(&plotsOverviewOnly, "overview", false, "Render only the overview grid")
}

func runPlots(cmd *cobra.Command, args []string) error {
	ctx := getContext()

	if plotsOverviewOnly {
		if err := ensureRecords(ctx); err != nil {
			return err
		}

		path, err := plotService.GenerateOverview(ctx, appConfig.Plots.OverviewModalities)
		if err != nil {
			fmt.Println(ui.FormatError("Failed to generate overview plot"))
			return err
		}
		fmt.Println(ui.FormatSuccess("Generated overview plot"))
		fmt.Println("  " + ui.IconPlot + " " + path)
		return nil
	}

	if err := ensureViewerRows(ctx); err != nil {
		return err
	}

	resp, err := plotService.Execute(ctx, services.PlotRequest{
		OverviewModalities: appConfig.Plots.OverviewModalities,
	})
	if err != nil {
		fmt.Println(ui.FormatError("Failed to generate plots"))
		return err
	}

	fmt.Println(ui.FormatSuccess(fmt.Sprintf("Generated %d plots", len(resp.Artifacts))))
	for _, artifact := range resp.Artifacts {
		fmt.Println("  " + ui.IconPlot + " " + artifact)
	}
	return nil
}

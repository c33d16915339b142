package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"dandiscope/internal/core/services"
	"dandiscope/pkg/ui"
)

var (
	runDandiset    string
	runVersionFlag string
	runOpen        bool
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the full pipeline from harvest to index page",
	Long: `Execute every stage in order:

  1. Harvest asset metadata from the archive
  2. Render the modality-by-subject overview plot
  3. Build viewer URLs for the refined assets
  4. Render one interactive plot per subject
  5. Build the index page linking everything

Each stage checkpoints its table, so individual stages can be rerun later
with the harvest, urls, plots and pages commands.

Examples:
  dandiscope run
  dandiscope run --dandiset 000108 --version draft --open`,
	RunE: runPipeline,
}

func init() {
	runCmd.Flags().StringVar(&runDandiset, "dandiset", "", "Dataset identifier (default from config)")
	runCmd.Flags().StringVar(&runVersionFlag, "version", "", "Dataset version (default from config)")
	runCmd.Flags().BoolVar(&runOpen, "open", false, "Open the index page when done")
}

func runPipeline(cmd *cobra.Command, args []string) error {
	ctx := getContext()
	dandiset, version := datasetCoordinates(runDandiset, runVersionFlag)

	// Stage 1: harvest
	fmt.Println(ui.FormatStage(1, 5, fmt.Sprintf("Harvesting %s@%s", dandiset, version)))
	harvestResp, err := harvestService.Execute(ctx, services.HarvestRequest{
		DatasetID: dandiset,
		Version:   version,
	})
	if err != nil {
		return err
	}
	fmt.Println(ui.FormatSuccess(fmt.Sprintf("%d assets harvested", len(harvestResp.Records))))
	fmt.Println()

	// Stage 2: overview plot
	fmt.Println(ui.FormatStage(2, 5, "Rendering overview plot"))
	overviewPath, err := plotService.GenerateOverview(ctx, appConfig.Plots.OverviewModalities)
	if err != nil {
		return err
	}
	fmt.Println(ui.FormatSuccess(overviewPath))
	fmt.Println()

	// Stage 3: viewer URLs
	fmt.Println(ui.FormatStage(3, 5, "Building viewer URLs"))
	viewerResp, err := viewerService.Execute(ctx, viewerRequest())
	if err != nil {
		return err
	}
	fmt.Println(ui.FormatSuccess(fmt.Sprintf("%d rows (%d assets refined, %d resolved)",
		len(viewerResp.Rows), viewerResp.Refined, viewerResp.Resolved)))
	fmt.Println()

	// Stage 4: subject plots
	fmt.Println(ui.FormatStage(4, 5, "Rendering subject plots"))
	subjectPaths, err := plotService.GenerateSubjectPlots(ctx)
	if err != nil {
		return err
	}
	fmt.Println(ui.FormatSuccess(fmt.Sprintf("%d subject plots", len(subjectPaths))))
	fmt.Println()

	// Stage 5: index page
	fmt.Println(ui.FormatStage(5, 5, "Building index page"))
	pageResp, err := pageService.Execute(ctx, services.PageRequest{})
	if err != nil {
		return err
	}
	fmt.Println(ui.FormatSuccess(pageResp.Path))
	fmt.Println()

	fmt.Println(ui.FormatRocket("Pipeline complete"))
	if runOpen {
		return openBrowser(pageResp.Path)
	}
	return nil
}

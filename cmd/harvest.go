package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"dandiscope/internal/core/services"
	"dandiscope/pkg/ui"
)

var (
	harvestDandiset string
	harvestVersion  string
)

// harvestCmd represents the harvest command
var harvestCmd = &cobra.Command{
	Use:   "harvest",
	Short: "Harvest asset metadata from the archive",
	Long: `Walk the archive's paginated asset listing for one dataset version and
parse every asset path into a normalized record.

Key-value tokens in the filename (sub-X, sample-Y, stain-Z, ...) become
columns; the trailing token becomes the modality. The resulting table is
checkpointed so later stages can run without touching the network again.

Examples:
  dandiscope harvest
  dandiscope harvest --dandiset 000108 --version draft`,
	RunE: runHarvest,
}

func init() {
	harvestCmd.Flags().StringVar(&harvestDandiset, "dandiset", "", "Dataset identifier (default from config)")
	harvestCmd.Flags().StringVar(&harvestVersion, "version", "", "Dataset version (default from config)")
}

func runHarvest(cmd *cobra.Command, args []string) error {
	dandiset, version := datasetCoordinates(harvestDandiset, harvestVersion)

	fmt.Println(ui.FormatRocket(fmt.Sprintf("Harvesting %s@%s from %s", dandiset, version, appConfig.API.BaseURL)))

	ctx := getContext()
	resp, err := harvestService.Execute(ctx, services.HarvestRequest{
		DatasetID: dandiset,
		Version:   version,
	})
	if err != nil {
		fmt.Println(ui.FormatError("Harvest failed"))
		return err
	}

	printHarvestSummary(resp)
	fmt.Println(ui.FormatMuted("Checkpoint: " + appWorkspace.RecordsPath()))
	return nil
}

// datasetCoordinates resolves the dataset ID and version, preferring flags
// over configuration.
func datasetCoordinates(flagDandiset, flagVersion string) (string, string) {
	dandiset := appConfig.API.Dandiset
	if flagDandiset != "" {
		dandiset = flagDandiset
	}
	version := appConfig.API.Version
	if flagVersion != "" {
		version = flagVersion
	}
	return dandiset, version
}

func printHarvestSummary(resp *services.HarvestResponse) {
	subjects := map[string]bool{}
	modalities := map[string]int{}
	parsed := 0

	for _, rec := range resp.Records {
		if rec.Subject != "" {
			subjects[rec.Subject] = true
			parsed++
		}
		if rec.Modality != "" {
			modalities[rec.Modality]++
		}
	}

	fmt.Println(ui.FormatSuccess(fmt.Sprintf("Harvested %d assets", len(resp.Records))))
	fmt.Println(ui.FormatMuted(fmt.Sprintf("%d with a subject, across %d subjects, %d modalities",
		parsed, len(subjects), len(modalities))))
}

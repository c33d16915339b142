package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"dandiscope/internal/adapters/checkpoint"
	"dandiscope/internal/adapters/dandi"
	"dandiscope/internal/adapters/render"
	"dandiscope/internal/core/services"
	"dandiscope/pkg/config"
	"dandiscope/pkg/ui"
	"dandiscope/pkg/workspace"
)

var (
	// Global workspace and configuration
	appWorkspace *workspace.Workspace
	appConfig    *config.Config

	// Services
	harvestService *services.HarvestService
	viewerService  *services.ViewerService
	plotService    *services.PlotService
	pageService    *services.PageService

	// Adapters
	datasetRepo     *dandi.Client
	checkpointStore *checkpoint.Store
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "dandiscope",
	Short: "Dandiscope - DANDI archive metadata explorer",
	Long: ui.StyleTitle.Render("Dandiscope") + " - DANDI Metadata Explorer\n\n" +
		"A CLI for harvesting file-level metadata from a DANDI archive,\n" +
		"parsing key-value encoded filenames into tables, and generating\n" +
		"interactive heatmap plots wired to a Neuroglancer viewer.",
	PersistentPreRunE: initializeApp,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	// Add subcommands
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(harvestCmd)
	rootCmd.AddCommand(urlsCmd)
	rootCmd.AddCommand(plotsCmd)
	rootCmd.AddCommand(pagesCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(exploreCmd)
	rootCmd.AddCommand(matrixCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(cleanCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(doctorCmd)
	rootCmd.AddCommand(versionCmd)
}

// initializeApp initializes the application components
func initializeApp(cmd *cobra.Command, args []string) error {
	// Resolve and load configuration first: it decides where artifacts go
	configPath, err := workspace.ConfigPath()
	if err != nil {
		return fmt.Errorf("failed to locate config: %w", err)
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Println(ui.FormatError("Invalid configuration file"))
		fmt.Println(ui.FormatInfo("Fix or remove " + configPath))
		os.Exit(1)
	}
	appConfig = cfg

	ws, err := workspace.New(cfg.Plots.Dir, cfg.Plots.IndexFile)
	if err != nil {
		return fmt.Errorf("failed to initialize workspace: %w", err)
	}
	appWorkspace = ws

	// Initialize adapters
	datasetRepo = dandi.NewClient(
		cfg.API.BaseURL,
		cfg.API.PageSize,
		time.Duration(cfg.API.TimeoutSeconds)*time.Second,
	)
	checkpointStore = checkpoint.NewStore(ws.RecordsPath(), ws.ViewerRowsPath())
	gridRenderer := render.NewEChartsGridRenderer()
	pageRenderer := render.NewIndexPageRenderer()

	// Initialize services
	harvestService = services.NewHarvestService(datasetRepo, checkpointStore)
	viewerService = services.NewViewerService(datasetRepo, checkpointStore)
	plotService = services.NewPlotService(checkpointStore, gridRenderer, ws)
	pageService = services.NewPageService(checkpointStore, pageRenderer, ws)

	return nil
}

// getContext returns a context for operations
func getContext() context.Context {
	return context.Background()
}

// ensureRecords harvests the configured dataset when no records checkpoint
// exists yet, so later stages can run standalone.
func ensureRecords(ctx context.Context) error {
	if checkpointStore.RecordsExist() {
		return nil
	}

	dandiset, version := datasetCoordinates("", "")
	fmt.Println(ui.FormatInfo(fmt.Sprintf("No harvest checkpoint found, harvesting %s@%s first", dandiset, version)))

	_, err := harvestService.Execute(ctx, services.HarvestRequest{
		DatasetID: dandiset,
		Version:   version,
	})
	return err
}

// ensureViewerRows builds the viewer table when no viewer checkpoint exists
// yet, harvesting first if needed.
func ensureViewerRows(ctx context.Context) error {
	if checkpointStore.ViewerRowsExist() {
		return nil
	}

	if err := ensureRecords(ctx); err != nil {
		return err
	}

	fmt.Println(ui.FormatInfo("No viewer checkpoint found, building viewer URLs first"))
	_, err := viewerService.Execute(ctx, viewerRequest())
	return err
}

// viewerRequest assembles the URL-building request from configuration,
// shared by the urls and run commands.
func viewerRequest() services.BuildViewerRowsRequest {
	return services.BuildViewerRowsRequest{
		Modalities:   appConfig.Refine.Modalities,
		Extension:    appConfig.Refine.Extension,
		Backend:      appConfig.Viewer.Backend,
		ViewerBase:   appConfig.Viewer.BaseURL,
		SourcePrefix: appConfig.Viewer.SourcePrefix,
		Contrast:     appConfig.Viewer.Contrast,
		Intensity:    appConfig.Viewer.Intensity,
		RangeMin:     appConfig.Viewer.RangeMin,
		RangeMax:     appConfig.Viewer.RangeMax,
	}
}

package cmd

import (
	"fmt"
	"log"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"dandiscope/internal/core/services"
	"dandiscope/pkg/ui"
)

var watchQuiet bool

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Rebuild plots and index page when checkpoints change",
	Long: `Run a watcher that monitors the checkpoint directory and regenerates
the plots and index page whenever a checkpoint is rewritten.

This keeps the artifacts current while harvest and urls stages are rerun,
by hand or from a scheduler.

Use --quiet to suppress rebuild notifications.`,
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().BoolVarP(&watchQuiet, "quiet", "q", false, "Suppress rebuild notifications")
}

func runWatch(cmd *cobra.Command, args []string) error {
	ctx := getContext()

	// The checkpoint directory must exist before it can be watched
	if err := appWorkspace.Initialize(); err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(appWorkspace.CheckpointsPath); err != nil {
		return fmt.Errorf("failed to watch checkpoint directory: %w", err)
	}

	if !watchQuiet {
		fmt.Println(ui.FormatRocket("Starting dandiscope watcher..."))
		fmt.Println(ui.FormatMuted("Watching: " + appWorkspace.CheckpointsPath))
		fmt.Println(ui.FormatMuted("Press Ctrl+C to stop"))
		fmt.Println()
	}

	// Debounce timer to avoid rebuilding on every partial write
	var debounceTimer *time.Timer
	debounceDuration := 500 * time.Millisecond
	needsRebuild := false

	doRebuild := func() {
		if !needsRebuild {
			return
		}
		needsRebuild = false

		if !watchQuiet {
			fmt.Println(ui.FormatInfo("Checkpoint changes detected, rebuilding artifacts..."))
		}

		resp, err := plotService.Execute(ctx, services.PlotRequest{
			OverviewModalities: appConfig.Plots.OverviewModalities,
		})
		if err != nil {
			if !watchQuiet {
				fmt.Println(ui.FormatError("Plot rebuild failed: " + err.Error()))
			}
			log.Printf("Plot rebuild error: %v", err)
			return
		}

		pageResp, err := pageService.Execute(ctx, services.PageRequest{})
		if err != nil {
			if !watchQuiet {
				fmt.Println(ui.FormatError("Index rebuild failed: " + err.Error()))
			}
			log.Printf("Index rebuild error: %v", err)
			return
		}

		if !watchQuiet {
			fmt.Println(ui.FormatSuccess(fmt.Sprintf("Artifacts updated (%d plots, %d links)",
				len(resp.Artifacts), len(pageResp.Links))))
		}
	}

	// Event loop
	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}

			// Only care about checkpoint files
			if !strings.HasSuffix(event.Name, ".json") {
				continue
			}

			// Filter out temporary files
			baseName := filepath.Base(event.Name)
			if strings.HasPrefix(baseName, ".") || strings.HasPrefix(baseName, "~") {
				continue
			}

			if event.Has(fsnotify.Create) ||
				event.Has(fsnotify.Write) ||
				event.Has(fsnotify.Remove) ||
				event.Has(fsnotify.Rename) {

				needsRebuild = true

				// Reset debounce timer
				if debounceTimer != nil {
					debounceTimer.Stop()
				}
				debounceTimer = time.AfterFunc(debounceDuration, doRebuild)
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Printf("Watcher error: %v", err)

		case <-ctx.Done():
			if !watchQuiet {
				fmt.Println()
				fmt.Println(ui.FormatMuted("Watcher stopped"))
			}
			return nil
		}
	}
}

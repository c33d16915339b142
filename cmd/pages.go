package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"dandiscope/internal/core/services"
	"dandiscope/pkg/ui"
)

var pagesOpen bool

// pagesCmd represents the pages command
var pagesCmd = &cobra.Command{
	Use:   "pages",
	Short: "Build the index page linking every plot",
	Long: `Write the plot selector page: a single HTML document offering the
overview grid and every per-subject grid behind a dropdown.

The page lands next to the plots directory so its relative links resolve.

Examples:
  dandiscope pages
  dandiscope pages --open`,
	RunE: runPages,
}

func init() {
	pagesCmd.Flags().BoolVar(&pagesOpen, "open", false, "Open the index page in the browser")
}

func runPages(cmd *cobra.Command, args []string) error {
	ctx := getContext()

	resp, err := pageService.Execute(ctx, services.PageRequest{})
	if err != nil {
		fmt.Println(ui.FormatError("Failed to build index page"))
		return err
	}

	fmt.Println(ui.FormatSuccess(fmt.Sprintf("Index page links %d plots", len(resp.Links))))
	fmt.Println("  " + ui.IconLink + " " + resp.Path)

	if pagesOpen {
		return openBrowser(resp.Path)
	}
	return nil
}

package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/atotto/clipboard"
	fuzzyfinder "github.com/ktr0731/go-fuzzyfinder"
	"github.com/spf13/cobra"

	"dandiscope/internal/core/domain"
	"dandiscope/pkg/ui"
)

var (
	urlsCopy bool
	urlsShow bool
	urlsOpen bool
)

// urlsCmd represents the urls command
var urlsCmd = &cobra.Command{
	Use:   "urls",
	Short: "Build viewer URLs for the harvested assets",
	Long: `Refine the harvested table to viewable assets, resolve their storage
URLs, and build one Neuroglancer link per asset plus one OVERLAP link per
(subject, sample) group combining every stain in primary colors.

The augmented table is checkpointed for the plot and page stages.

Examples:
  dandiscope urls            # Build and summarize
  dandiscope urls --copy     # Pick a row, copy its URL to the clipboard
  dandiscope urls --show     # Pick a row, inspect its viewer config
  dandiscope urls --open     # Pick a row, open it in the browser`,
	RunE: runUrls,
}

func init() {
	urlsCmd.Flags().BoolVar(&urlsCopy, "copy", false, "Select a row and copy its URL to the clipboard")
	urlsCmd.Flags().BoolVar(&urlsShow, "show", false, "Select a row and print its decoded viewer config")
	urlsCmd.Flags().BoolVar(&urlsOpen, "open", false, "Select a row and open its URL in the browser")
}

func runUrls(cmd *cobra.Command, args []string) error {
	ctx := getContext()

	if err := ensureRecords(ctx); err != nil {
		return err
	}

	resp, err := viewerService.Execute(ctx, viewerRequest())
	if err != nil {
		fmt.Println(ui.FormatError("Failed to build viewer URLs"))
		return err
	}

	overlaps := 0
	for _, row := range resp.Rows {
		if row.IsOverlap() {
			overlaps++
		}
	}

	fmt.Println(ui.FormatSuccess(fmt.Sprintf("Built %d viewer URLs (%d per-asset, %d overlap)",
		len(resp.Rows), len(resp.Rows)-overlaps, overlaps)))
	fmt.Println(ui.FormatMuted(fmt.Sprintf("%d assets refined, %d content URLs resolved",
		resp.Refined, resp.Resolved)))
	fmt.Println()

	if len(resp.Rows) == 0 {
		fmt.Println(ui.FormatWarning("No assets matched the refine filter"))
		return nil
	}

	switch {
	case urlsCopy:
		return copyRowURL(resp.Rows)
	case urlsShow:
		return showRowConfig(resp.Rows)
	case urlsOpen:
		return openRowURL(resp.Rows)
	}

	printRowTable(resp.Rows)
	fmt.Println(ui.FormatMuted("Checkpoint: " + appWorkspace.ViewerRowsPath()))
	return nil
}

// pickRow lets the user fuzzy-select one viewer row
func pickRow(rows []domain.ViewerRow) (*domain.ViewerRow, error) {
	idx, err := fuzzyfinder.Find(
		rows,
		func(i int) string {
			return fmt.Sprintf("%s / %s / %s", rows[i].Subject, rows[i].Sample, rows[i].Stain)
		},
		fuzzyfinder.WithPreviewWindow(func(i, w, h int) string {
			if i == -1 {
				return ""
			}
			row := rows[i]
			return fmt.Sprintf("Subject:  %s\nSample:   %s\nStain:    %s\nModality: %s\n\n%s",
				row.Subject, row.Sample, row.Stain, row.Modality, ui.Truncate(row.URL, w*h/2))
		}),
	)
	if err != nil {
		return nil, nil // Cancelled
	}
	return &rows[idx], nil
}

func copyRowURL(rows []domain.ViewerRow) error {
	row, err := pickRow(rows)
	if err != nil || row == nil {
		return err
	}

	if err := clipboard.WriteAll(row.URL); err != nil {
		return fmt.Errorf("failed to copy to clipboard: %w", err)
	}
	fmt.Println(ui.FormatSuccess(fmt.Sprintf("Copied URL for %s/%s/%s", row.Subject, row.Sample, row.Stain)))
	return nil
}

func openRowURL(rows []domain.ViewerRow) error {
	row, err := pickRow(rows)
	if err != nil || row == nil {
		return err
	}

	fmt.Println(ui.FormatInfo(fmt.Sprintf("Opening %s/%s/%s in the browser", row.Subject, row.Sample, row.Stain)))
	return openBrowser(row.URL)
}

func showRowConfig(rows []domain.ViewerRow) error {
	row, err := pickRow(rows)
	if err != nil || row == nil {
		return err
	}

	pretty, err := decodeViewerConfig(row.URL)
	if err != nil {
		return err
	}

	fmt.Println(ui.FormatTitle(fmt.Sprintf("%s / %s / %s", row.Subject, row.Sample, row.Stain)))
	fmt.Println()
	fmt.Println(highlightJSON(pretty))
	return nil
}

// decodeViewerConfig recovers the indented JSON config from a viewer URL
func decodeViewerConfig(viewerURL string) (string, error) {
	idx := strings.Index(viewerURL, "#!")
	if idx == -1 {
		return "", fmt.Errorf("no config fragment in URL")
	}

	raw, err := url.PathUnescape(viewerURL[idx+2:])
	if err != nil {
		return "", fmt.Errorf("failed to decode config fragment: %w", err)
	}

	var buf bytes.Buffer
	if err := json.Indent(&buf, []byte(raw), "", "  "); err != nil {
		return "", fmt.Errorf("failed to format config: %w", err)
	}
	return buf.String(), nil
}

// highlightJSON applies syntax highlighting to a JSON document
func highlightJSON(content string) string {
	lexer := lexers.Get("json")
	if lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)

	style := styles.Get("monokai")
	if style == nil {
		style = styles.Fallback
	}

	formatter := formatters.TTY16m

	var buf strings.Builder
	iterator, err := lexer.Tokenise(nil, content)
	if err != nil {
		return content
	}

	err = formatter.Format(&buf, style, iterator)
	if err != nil {
		return content
	}

	return buf.String()
}

func printRowTable(rows []domain.ViewerRow) {
	table := ui.NewTable([]ui.TableColumn{
		{Header: "Subject", Width: 10, Align: "left"},
		{Header: "Sample", Width: 8, Align: "left"},
		{Header: "Stain", Width: 10, Align: "left"},
		{Header: "Modality", Width: 10, Align: "left"},
		{Header: "URL", Width: 40, Align: "left", MaxWidth: 40},
	})

	for _, row := range rows {
		table.AddRow([]string{row.Subject, row.Sample, row.Stain, row.Modality, row.URL})
	}

	fmt.Print(table.Render())
	fmt.Println()
}

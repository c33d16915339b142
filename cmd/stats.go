package cmd

import (
	"fmt"
	"os"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"dandiscope/pkg/ui"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show statistics for the checkpointed tables",
	Long: `Analyze the harvested records and viewer rows.

Includes:
  - Asset counts and parse coverage
  - Modality, stain and extension distributions
  - Viewer URL counts per subject`,
	RunE: runStats,
}

func runStats(cmd *cobra.Command, args []string) error {
	if !checkpointStore.RecordsExist() {
		fmt.Println(ui.FormatWarning("No harvest checkpoint found"))
		fmt.Println(ui.FormatInfo("Run 'dandiscope harvest' first"))
		return nil
	}

	records, err := checkpointStore.LoadRecords()
	if err != nil {
		return err
	}

	// Aggregate the record table
	subjects := map[string]bool{}
	samples := map[string]bool{}
	modalityCounts := map[string]int{}
	stainCounts := map[string]int{}
	extensionCounts := map[string]int{}
	withSubject, withSample, withStain := 0, 0, 0

	for _, rec := range records {
		if rec.Subject != "" {
			subjects[rec.Subject] = true
			withSubject++
		}
		if rec.Sample != "" {
			samples[rec.Sample] = true
			withSample++
		}
		if rec.Stain != "" {
			stainCounts[rec.Stain]++
			withStain++
		}
		if rec.Modality != "" {
			modalityCounts[rec.Modality]++
		}
		if rec.Extension != "" {
			extensionCounts[rec.Extension]++
		}
	}

	fmt.Println()
	fmt.Println(ui.FormatTitle("Dataset Analytics"))
	fmt.Println()

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 4, ' ', 0)
	fmt.Fprintf(w, "%s\t%d\n", ui.StyleBold.Render("Total Assets:"), len(records))
	fmt.Fprintf(w, "%s\t%d\n", ui.StyleBold.Render("Subjects:"), len(subjects))
	fmt.Fprintf(w, "%s\t%d\n", ui.StyleBold.Render("Samples:"), len(samples))
	fmt.Fprintf(w, "%s\t%d / %d / %d\n", ui.StyleBold.Render("Parsed sub/sample/stain:"),
		withSubject, withSample, withStain)
	w.Flush()
	fmt.Println()

	renderDistribution("Modalities", modalityCounts)
	renderDistribution("Stains", stainCounts)
	renderDistribution("Extensions", extensionCounts)

	// Viewer rows are optional: the urls stage may not have run yet
	if !checkpointStore.ViewerRowsExist() {
		fmt.Println(ui.FormatMuted("No viewer checkpoint yet. Run 'dandiscope urls' to build URLs."))
		return nil
	}

	rows, err := checkpointStore.LoadViewerRows()
	if err != nil {
		return err
	}

	perSubject := map[string]int{}
	overlaps := 0
	for _, row := range rows {
		perSubject[row.Subject]++
		if row.IsOverlap() {
			overlaps++
		}
	}

	fmt.Println(ui.StyleHeader.Render("Viewer URLs"))
	fmt.Printf("%d total, %d per-asset, %d overlap\n", len(rows), len(rows)-overlaps, overlaps)
	fmt.Println()
	renderDistribution("URLs per subject", perSubject)

	return nil
}

// renderDistribution prints a sorted horizontal bar chart of the counts
func renderDistribution(title string, counts map[string]int) {
	if len(counts) == 0 {
		return
	}

	fmt.Println(ui.StyleHeader.Render(title))

	type pair struct {
		Name  string
		Count int
	}
	var sorted []pair
	maxCount := 0
	for k, v := range counts {
		sorted = append(sorted, pair{k, v})
		if v > maxCount {
			maxCount = v
		}
	}
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Count != sorted[j].Count {
			return sorted[i].Count > sorted[j].Count
		}
		return sorted[i].Name < sorted[j].Name
	})

	// Limit to the top 10
	limit := 10
	if len(sorted) < limit {
		limit = len(sorted)
	}

	for i := 0; i < limit; i++ {
		fmt.Println(ui.RenderBar(sorted[i].Name, sorted[i].Count, maxCount, 20))
	}
	fmt.Println()
}

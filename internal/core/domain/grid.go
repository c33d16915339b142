package domain

import (
	"fmt"
	"sort"
)

// GridCell is one (sample, stain) cell handed to the renderer. Value drives
// the cell color: a count for aggregate grids, a category index for
// per-stain coloring. URL is the click payload of interactive grids and may
// be empty, in which case the renderer must surface the gap visibly instead
// of dropping the cell.
type GridCell struct {
	Sample string
	Stain  string
	Value  float64
	URL    string
}

// Grid is the reshaped table the external renderer consumes: ordered
// category axes plus cells. Unique (sample, stain) combinations must stay
// visually distinguishable by color.
type Grid struct {
	Title       string
	Samples     []string
	Stains      []string
	Cells       []GridCell
	Interactive bool
}

// OverviewTitle labels the modality-by-subject aggregate grid.
const OverviewTitle = "Modality x Subject"

// OverviewPlotFile is the artifact name of the overview grid. Subject grids
// are named after their subject.
const OverviewPlotFile = "modality_subject.html"

// BuildOverviewGrid shapes harvested records into the modality-by-subject
// count grid. Rows missing either field are excluded rather than failing,
// and only the selected modalities participate. Duplicate (subject,
// modality) pairs aggregate into cell counts.
func BuildOverviewGrid(records []AssetRecord, modalities []string) Grid {
	counts := map[[2]string]int{}
	for _, rec := range records {
		if rec.Subject == "" || rec.Modality == "" {
			continue
		}
		if !rec.HasModality(modalities) {
			continue
		}
		counts[[2]string{rec.Subject, rec.Modality}]++
	}

	var subjects, present []string
	seenSubject := map[string]bool{}
	seenModality := map[string]bool{}
	for key := range counts {
		if !seenSubject[key[0]] {
			seenSubject[key[0]] = true
			subjects = append(subjects, key[0])
		}
		if !seenModality[key[1]] {
			seenModality[key[1]] = true
			present = append(present, key[1])
		}
	}
	sort.Strings(subjects)
	sort.Strings(present)

	grid := Grid{
		Title:   OverviewTitle,
		Samples: subjects,
		Stains:  present,
	}
	for _, subject := range subjects {
		for _, modality := range present {
			n := counts[[2]string{subject, modality}]
			if n == 0 {
				continue
			}
			grid.Cells = append(grid.Cells, GridCell{
				Sample: subject,
				Stain:  modality,
				Value:  float64(n),
			})
		}
	}
	return grid
}

// BuildSubjectGrid shapes the given subject's viewer rows into an
// interactive stain-by-sample grid. The synthetic OVERLAP stain appears as a
// regular category. Cell values carry the stain's category index so the
// renderer colors each stain row distinctly.
func BuildSubjectGrid(subject string, rows []ViewerRow) Grid {
	var own []ViewerRow
	for _, row := range rows {
		if row.Subject == subject {
			own = append(own, row)
		}
	}
	sort.SliceStable(own, func(i, j int) bool {
		if own[i].Sample != own[j].Sample {
			return own[i].Sample < own[j].Sample
		}
		return own[i].Stain < own[j].Stain
	})

	var samples, stains []string
	seenSample := map[string]bool{}
	seenStain := map[string]bool{}
	for _, row := range own {
		if !seenSample[row.Sample] {
			seenSample[row.Sample] = true
			samples = append(samples, row.Sample)
		}
		if !seenStain[row.Stain] {
			seenStain[row.Stain] = true
			stains = append(stains, row.Stain)
		}
	}

	stainIndex := map[string]int{}
	for i, stain := range stains {
		stainIndex[stain] = i
	}

	grid := Grid{
		Title:       fmt.Sprintf("%s - Stain x Sample", subject),
		Samples:     samples,
		Stains:      stains,
		Interactive: true,
	}
	for _, row := range own {
		grid.Cells = append(grid.Cells, GridCell{
			Sample: row.Sample,
			Stain:  row.Stain,
			Value:  float64(stainIndex[row.Stain] + 1),
			URL:    row.URL,
		})
	}
	return grid
}

// Subjects returns the distinct subjects of the rows in ascending order.
func Subjects(rows []ViewerRow) []string {
	var subjects []string
	seen := map[string]bool{}
	for _, row := range rows {
		if row.Subject == "" || seen[row.Subject] {
			continue
		}
		seen[row.Subject] = true
		subjects = append(subjects, row.Subject)
	}
	sort.Strings(subjects)
	return subjects
}

// PageLink pairs a human-readable label with a generated artifact path for
// the index page.
type PageLink struct {
	Label string
	Path  string
}

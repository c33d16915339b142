package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/event"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/types"

	"dandiscope/internal/core/domain"
)

// categoryColors color stain rows apart on interactive grids. Cell values
// carry the stain's category index, so with one color per stain the visual
// map resolves each index to its own color.
var categoryColors = []string{
	"#1f77b4", "#ff7f0e", "#2ca02c", "#d62728", "#9467bd",
	"#8c564b", "#e377c2", "#7f7f7f", "#bcbd22", "#17becf",
}

// countColors shade aggregate grids from sparse to dense
var countColors = []string{"#e0f3f8", "#74add1", "#313695"}

// clickHandler opens the cell's viewer URL. Cells without one alert instead
// of silently doing nothing, so data gaps stay visible in the artifact.
// Kept on one line with single-quoted strings so it survives the chart
// serializer's function embedding untouched.
const clickHandler = `function (params) { var urls = %s; var url = urls[params.value[0]][params.value[1]]; if (url) { window.open(url); } else { alert('No URL found for this selection.'); } }`

// EChartsGridRenderer renders grids as standalone HTML heat maps
type EChartsGridRenderer struct{}

// NewEChartsGridRenderer creates a grid renderer
func NewEChartsGridRenderer() *EChartsGridRenderer {
	return &EChartsGridRenderer{}
}

// Render writes the grid as a self-contained HTML heat map. Interactive
// grids additionally carry a click listener resolving cells to viewer URLs.
func (r *EChartsGridRenderer) Render(grid domain.Grid, w io.Writer) error {
	sampleIndex := make(map[string]int, len(grid.Samples))
	for i, sample := range grid.Samples {
		sampleIndex[sample] = i
	}
	stainIndex := make(map[string]int, len(grid.Stains))
	for i, stain := range grid.Stains {
		stainIndex[stain] = i
	}

	data := make([]opts.HeatMapData, 0, len(grid.Cells))
	maxValue := 0.0
	for _, cell := range grid.Cells {
		if cell.Value > maxValue {
			maxValue = cell.Value
		}
		data = append(data, opts.HeatMapData{
			Value: [3]interface{}{sampleIndex[cell.Sample], stainIndex[cell.Stain], cell.Value},
		})
	}

	hm := charts.NewHeatMap()

	globalOpts := []charts.GlobalOpts{
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle: grid.Title,
			Width:     "1200px",
			Height:    "600px",
		}),
		charts.WithTitleOpts(opts.Title{Title: grid.Title}),
		charts.WithXAxisOpts(opts.XAxis{
			Type:      "category",
			SplitArea: &opts.SplitArea{Show: opts.Bool(true)},
			AxisLabel: &opts.AxisLabel{Show: opts.Bool(true), Rotate: 45},
		}),
		charts.WithYAxisOpts(opts.YAxis{
			Type:      "category",
			Data:      grid.Stains,
			SplitArea: &opts.SplitArea{Show: opts.Bool(true)},
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "item"}),
		charts.WithVisualMapOpts(r.visualMap(grid, maxValue)),
	}

	if grid.Interactive {
		listener := r.clickListener(grid, sampleIndex, stainIndex)
		globalOpts = append(globalOpts, charts.WithEventListeners(*listener))
	}

	hm.SetGlobalOptions(globalOpts...)
	hm.SetXAxis(grid.Samples).AddSeries("cells", data)

	if err := hm.Render(w); err != nil {
		return fmt.Errorf("failed to render grid %q: %w", grid.Title, err)
	}

	return nil
}

// visualMap picks the coloring model: one color per stain category on
// interactive grids, a density gradient on aggregate grids.
func (r *EChartsGridRenderer) visualMap(grid domain.Grid, maxValue float64) opts.VisualMap {
	if grid.Interactive {
		colors := make([]string, 0, len(grid.Stains))
		for i := range grid.Stains {
			colors = append(colors, categoryColors[i%len(categoryColors)])
		}
		if len(colors) == 0 {
			colors = categoryColors[:1]
		}
		return opts.VisualMap{
			Min:        1,
			Max:        float32(len(grid.Stains)),
			Calculable: opts.Bool(false),
			Show:       opts.Bool(false),
			InRange:    &opts.VisualMapInRange{Color: colors},
		}
	}

	return opts.VisualMap{
		Min:        0,
		Max:        float32(maxValue),
		Calculable: opts.Bool(true),
		InRange:    &opts.VisualMapInRange{Color: countColors},
	}
}

// clickListener embeds the cell URL lookup table and the click handler
func (r *EChartsGridRenderer) clickListener(grid domain.Grid, sampleIndex, stainIndex map[string]int) *event.Listener {
	urls := make([][]string, len(grid.Samples))
	for i := range urls {
		urls[i] = make([]string, len(grid.Stains))
	}
	for _, cell := range grid.Cells {
		urls[sampleIndex[cell.Sample]][stainIndex[cell.Stain]] = cell.URL
	}

	return &event.Listener{
		EventName: "click",
		Handler:   types.FuncStr(fmt.Sprintf(clickHandler, jsStringMatrix(urls))),
	}
}

// jsStringMatrix renders a nested string slice as a single-quoted JS array
// literal. Viewer URLs are percent-encoded and never contain quotes, but the
// escaping keeps arbitrary values safe anyway.
func jsStringMatrix(matrix [][]string) string {
	var sb strings.Builder
	sb.WriteString("[")
	for i, row := range matrix {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString("[")
		for j, v := range row {
			if j > 0 {
				sb.WriteString(", ")
			}
			v = strings.ReplaceAll(v, `\`, `\\`)
			v = strings.ReplaceAll(v, `'`, `\'`)
			sb.WriteString("'" + v + "'")
		}
		sb.WriteString("]")
	}
	sb.WriteString("]")
	return sb.String()
}

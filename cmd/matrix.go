package cmd

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/spf13/cobra"

	"dandiscope/internal/core/domain"
	"dandiscope/pkg/ui"
)

var matrixCmd = &cobra.Command{
	Use:   "matrix [subject]",
	Short: "Terminal matrix view of samples and stains",
	Long: `Navigate a subject's stain-by-sample matrix directly in the terminal.

Filled cells carry a viewer URL; empty cells mark gaps in the dataset.

Controls:
  - ↑↓←→ / hjkl : Move between cells
  - Tab / n     : Next subject
  - p           : Previous subject
  - Enter       : Open the cell's viewer URL
  - q / Esc     : Quit`,
	RunE: runMatrix,
}

func runMatrix(cmd *cobra.Command, args []string) error {
	if !checkpointStore.ViewerRowsExist() {
		fmt.Println(ui.FormatWarning("No viewer checkpoint found"))
		fmt.Println(ui.FormatInfo("Run 'dandiscope urls' first"))
		return nil
	}

	rows, err := checkpointStore.LoadViewerRows()
	if err != nil {
		return err
	}

	subjects := domain.Subjects(rows)
	if len(subjects) == 0 {
		fmt.Println(ui.FormatWarning("Viewer table is empty."))
		return nil
	}

	start := 0
	if len(args) > 0 {
		for i, subject := range subjects {
			if subject == args[0] {
				start = i
				break
			}
		}
	}

	view, err := NewMatrixView(rows, subjects, start)
	if err != nil {
		return err
	}
	return view.Run()
}

// MatrixView provides a terminal-based matrix navigator over viewer rows
type MatrixView struct {
	rows       []domain.ViewerRow
	subjects   []string
	subjectIdx int
	grid       domain.Grid
	cells      map[[2]string]domain.GridCell
	screen     tcell.Screen
	width      int
	height     int
	cursorCol  int
	cursorRow  int
	status     string
}

// NewMatrixView creates a new matrix navigator starting at the given subject
func NewMatrixView(rows []domain.ViewerRow, subjects []string, start int) (*MatrixView, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}

	if err := screen.Init(); err != nil {
		return nil, err
	}

	width, height := screen.Size()

	v := &MatrixView{
		rows:       rows,
		subjects:   subjects,
		subjectIdx: start,
		screen:     screen,
		width:      width,
		height:     height,
	}
	v.loadSubject()

	return v, nil
}

// loadSubject rebuilds the grid and cell index for the current subject
func (v *MatrixView) loadSubject() {
	v.grid = domain.BuildSubjectGrid(v.subjects[v.subjectIdx], v.rows)

	v.cells = make(map[[2]string]domain.GridCell)
	for _, cell := range v.grid.Cells {
		v.cells[[2]string{cell.Sample, cell.Stain}] = cell
	}

	v.cursorCol = 0
	v.cursorRow = 0
	v.status = ""
}

// Run starts the interactive viewer
func (v *MatrixView) Run() error {
	defer v.screen.Fini()

	v.screen.Clear()
	v.render()

	for {
		ev := v.screen.PollEvent()

		switch ev := ev.(type) {
		case *tcell.EventResize:
			v.width, v.height = ev.Size()
			v.screen.Sync()
			v.render()

		case *tcell.EventKey:
			if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC || ev.Rune() == 'q' {
				return nil
			}

			v.handleKeyPress(ev)
			v.render()
		}
	}
}

// handleKeyPress processes keyboard input
func (v *MatrixView) handleKeyPress(ev *tcell.EventKey) {
	switch ev.Key() {
	case tcell.KeyUp:
		v.moveCursor(0, -1)
	case tcell.KeyDown:
		v.moveCursor(0, 1)
	case tcell.KeyLeft:
		v.moveCursor(-1, 0)
	case tcell.KeyRight:
		v.moveCursor(1, 0)
	case tcell.KeyTab:
		v.switchSubject(1)
	case tcell.KeyEnter:
		v.openSelected()
	}

	// Vim-style navigation
	switch ev.Rune() {
	case 'k':
		v.moveCursor(0, -1)
	case 'j':
		v.moveCursor(0, 1)
	case 'h':
		v.moveCursor(-1, 0)
	case 'l':
		v.moveCursor(1, 0)
	case 'n':
		v.switchSubject(1)
	case 'p':
		v.switchSubject(-1)
	}
}

// moveCursor moves the cell cursor, clamped to the grid
func (v *MatrixView) moveCursor(dx, dy int) {
	if len(v.grid.Samples) == 0 || len(v.grid.Stains) == 0 {
		return
	}

	v.cursorCol += dx
	v.cursorRow += dy

	if v.cursorCol < 0 {
		v.cursorCol = 0
	}
	if v.cursorCol >= len(v.grid.Samples) {
		v.cursorCol = len(v.grid.Samples) - 1
	}
	if v.cursorRow < 0 {
		v.cursorRow = 0
	}
	if v.cursorRow >= len(v.grid.Stains) {
		v.cursorRow = len(v.grid.Stains) - 1
	}
}

// switchSubject cycles through the subject list
func (v *MatrixView) switchSubject(delta int) {
	v.subjectIdx += delta
	if v.subjectIdx < 0 {
		v.subjectIdx = len(v.subjects) - 1
	}
	if v.subjectIdx >= len(v.subjects) {
		v.subjectIdx = 0
	}
	v.loadSubject()
}

// openSelected opens the viewer URL under the cursor, if any
func (v *MatrixView) openSelected() {
	cell, ok := v.selectedCell()
	if !ok {
		v.status = "No asset at this cell"
		return
	}
	if cell.URL == "" {
		v.status = "No URL found for this selection"
		return
	}

	if err := openBrowser(cell.URL); err != nil {
		v.status = "Failed to open browser: " + err.Error()
		return
	}
	v.status = fmt.Sprintf("Opened %s / %s", cell.Sample, cell.Stain)
}

func (v *MatrixView) selectedCell() (domain.GridCell, bool) {
	if v.cursorCol >= len(v.grid.Samples) || v.cursorRow >= len(v.grid.Stains) {
		return domain.GridCell{}, false
	}
	key := [2]string{v.grid.Samples[v.cursorCol], v.grid.Stains[v.cursorRow]}
	cell, ok := v.cells[key]
	return cell, ok
}

// cellColors distinguish stains; they cycle when stains outnumber them
var cellColors = []tcell.Color{
	tcell.ColorRed, tcell.ColorGreen, tcell.ColorBlue,
	tcell.ColorYellow, tcell.ColorFuchsia, tcell.ColorAqua,
}

// render draws the interface
func (v *MatrixView) render() {
	v.screen.Clear()

	const labelWidth = 14
	const colWidth = 6

	y := 0

	// Header
	titleStyle := tcell.StyleDefault.Bold(true).Foreground(tcell.ColorPurple)
	title := fmt.Sprintf("┌─ %s  (%d/%d subjects)", v.subjects[v.subjectIdx], v.subjectIdx+1, len(v.subjects))
	v.drawText(0, y, title, titleStyle)
	y++
	summary := fmt.Sprintf("│  %d samples x %d stains, %d cells",
		len(v.grid.Samples), len(v.grid.Stains), len(v.grid.Cells))
	v.drawText(0, y, summary, tcell.StyleDefault.Foreground(tcell.ColorGray))
	y += 2

	if len(v.grid.Cells) == 0 {
		v.drawText(0, y, "No viewable assets for this subject", tcell.StyleDefault)
		v.screen.Show()
		return
	}

	// Column headers: samples across the top
	headerStyle := tcell.StyleDefault.Bold(true)
	for col, sample := range v.grid.Samples {
		x := labelWidth + col*colWidth
		if x+colWidth > v.width {
			break
		}
		style := headerStyle
		if col == v.cursorCol {
			style = style.Foreground(tcell.ColorYellow)
		}
		v.drawText(x, y, clipCell(sample, colWidth-1), style)
	}
	y++

	// One row per stain
	for row, stain := range v.grid.Stains {
		if y >= v.height-4 {
			break
		}

		labelStyle := tcell.StyleDefault
		if row == v.cursorRow {
			labelStyle = labelStyle.Bold(true).Foreground(tcell.ColorYellow)
		}
		v.drawText(0, y, clipCell(stain, labelWidth-1), labelStyle)

		for col, sample := range v.grid.Samples {
			x := labelWidth + col*colWidth
			if x+colWidth > v.width {
				break
			}

			cell, ok := v.cells[[2]string{sample, stain}]
			style := tcell.StyleDefault
			text := " ··"
			if ok {
				color := cellColors[row%len(cellColors)]
				style = style.Foreground(color)
				text = " ██"
				if cell.URL == "" {
					text = " ▒▒"
				}
			}

			if col == v.cursorCol && row == v.cursorRow {
				style = style.Reverse(true)
			}
			v.drawText(x, y, text, style)
		}
		y++
	}

	// Footer
	footerY := v.height - 2
	if v.status != "" {
		v.drawText(0, footerY-1, v.status, tcell.StyleDefault.Foreground(tcell.ColorYellow))
	}
	helpText := "↑↓←→/hjkl: Move │ Enter: Open │ Tab/n/p: Subject │ q/Esc: Quit"
	v.drawText(0, footerY, helpText, tcell.StyleDefault.Foreground(tcell.ColorGray))

	v.screen.Show()
}

// drawText draws text at the specified position
func (v *MatrixView) drawText(x, y int, text string, style tcell.Style) {
	col := x
	for _, r := range text {
		if col >= v.width {
			break
		}
		v.screen.SetContent(col, y, r, nil, style)
		col++
	}
}

// clipCell truncates a label to fit a fixed-width column
func clipCell(s string, width int) string {
	if len(s) <= width {
		return s
	}
	if width <= 1 {
		return s[:width]
	}
	return s[:width-1] + "…"
}

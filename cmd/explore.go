package cmd

import (
	"fmt"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"dandiscope/internal/core/domain"
	"dandiscope/pkg/ui"
)

var exploreCmd = &cobra.Command{
	Use:   "explore",
	Short: "Interactive viewer row browser",
	Long: `Browse the URL-augmented table in an interactive terminal view.

Controls:
  - ↑/↓ / k/j : Navigate
  - Enter     : Open the row's viewer URL in the browser
  - c         : Copy the URL to the clipboard
  - q         : Quit`,
	RunE: runExplore,
}

func runExplore(cmd *cobra.Command, args []string) error {
	if !checkpointStore.ViewerRowsExist() {
		fmt.Println(ui.FormatWarning("No viewer checkpoint found"))
		fmt.Println(ui.FormatInfo("Run 'dandiscope urls' first"))
		return nil
	}

	rows, err := checkpointStore.LoadViewerRows()
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		fmt.Println(ui.FormatWarning("Viewer table is empty."))
		return nil
	}

	p := tea.NewProgram(initialExploreModel(rows))
	if _, err := p.Run(); err != nil {
		return err
	}
	return nil
}

// --- TUI Model ---

type exploreModel struct {
	table  table.Model
	rows   []domain.ViewerRow
	status string
}

func initialExploreModel(rows []domain.ViewerRow) exploreModel {
	columns := []table.Column{
		{Title: "Subject", Width: 10},
		{Title: "Sample", Width: 8},
		{Title: "Stain", Width: 12},
		{Title: "Modality", Width: 10},
		{Title: "URL", Width: 40},
	}

	tableRows := []table.Row{}
	for _, row := range rows {
		tableRows = append(tableRows, table.Row{
			row.Subject,
			row.Sample,
			row.Stain,
			row.Modality,
			ui.Truncate(row.URL, 40),
		})
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithRows(tableRows),
		table.WithFocused(true),
		table.WithHeight(15),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(ui.ColorMuted).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(ui.ColorDefault).
		Background(ui.ColorPrimary).
		Bold(true)
	t.SetStyles(s)

	return exploreModel{
		table: t,
		rows:  rows,
	}
}

func (m exploreModel) Init() tea.Cmd { return nil }

func (m exploreModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit

		case "enter":
			idx := m.table.Cursor()
			if idx < len(m.rows) {
				target := m.rows[idx]
				if err := openBrowser(target.URL); err != nil {
					m.status = "Failed to open browser: " + err.Error()
				} else {
					m.status = fmt.Sprintf("Opened %s/%s/%s", target.Subject, target.Sample, target.Stain)
				}
			}

		case "c":
			idx := m.table.Cursor()
			if idx < len(m.rows) {
				target := m.rows[idx]
				if err := clipboard.WriteAll(target.URL); err != nil {
					m.status = "Failed to copy: " + err.Error()
				} else {
					m.status = fmt.Sprintf("Copied URL for %s/%s/%s", target.Subject, target.Sample, target.Stain)
				}
			}
		}
	}

	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m exploreModel) View() string {
	view := "\n" +
		ui.StyleTitle.Render(" "+ui.IconLink+" Viewer Rows ") + "\n\n" +
		m.table.View() + "\n\n"

	if m.status != "" {
		view += ui.FormatMuted(" "+m.status) + "\n"
	}

	view += ui.FormatMuted(" [Enter] Open  [c] Copy URL  [q] Quit") + "\n"
	return view
}

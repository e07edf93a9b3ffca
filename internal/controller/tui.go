package controller

import (
	"fmt"
	"io"
	"sort"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	m "github.com/scad-tools/flatscad/internal/model"
)

// TUI implements UI as an interactive Bubble Tea browser over the results.
type TUI struct {
	output io.Writer
	mode   StartMode
}

// NewTUI creates a new TUI writing to the given output.
func NewTUI(output io.Writer) *TUI {
	return &TUI{output: output}
}

// Start initializes the UI.
func (t *TUI) Start(options ...StartOption) error {
	var config StartConfig
	for _, option := range options {
		option(&config)
	}

	t.mode = config.mode

	return nil
}

// Close finalizes the UI.
func (t *TUI) Close() {

}

// DisplayInventory shows discovered files with their entry counts in a
// filterable list.
func (t *TUI) DisplayInventory(inventories []m.Inventory) error {
	sort.Slice(inventories, func(i, j int) bool {
		return inventories[i].File < inventories[j].File
	})

	items := make([]list.Item, 0, len(inventories))
	for _, inventory := range inventories {
		items = append(items, rowItem{
			path: string(inventory.File),
			detail: fmt.Sprintf("%d sections  %d vars  %d modules  %d functions",
				inventory.Sections, inventory.Variables, inventory.Modules, inventory.Functions),
			count: inventory.Total(),
		})
	}

	return t.browse("flatscad · source inventory", items)
}

// DisplaySummary shows one row per merged root file.
func (t *TUI) DisplaySummary(results []m.MergeResult) error {
	items := make([]list.Item, 0, len(results))

	for _, result := range results {
		detail := "-> " + string(result.Output)
		if result.Err != nil {
			detail = "skipped: " + result.Err.Error()
		}

		if n := result.Warnings(); n > 0 {
			detail = fmt.Sprintf("%s  (%d warnings)", detail, n)
		}

		items = append(items, rowItem{
			path:   string(result.Root),
			detail: detail,
			count:  len(result.Entries),
		})
	}

	return t.browse("flatscad · merge summary", items)
}

func (t *TUI) browse(title string, items []list.Item) error {
	model := newBrowserModel(title, items)

	program := tea.NewProgram(model, tea.WithOutput(t.output))
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("cannot run result browser: %w", err)
	}

	return nil
}

// rowItem is one selectable row in the browser.
type rowItem struct {
	path   string
	detail string
	count  int
}

func (r rowItem) FilterValue() string {
	return r.path
}

// rowDelegate renders one row: count, path, and a dimmed detail column.
type rowDelegate struct{}

func (d rowDelegate) Height() int  { return 1 }
func (d rowDelegate) Spacing() int { return 0 }
func (d rowDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd {
	return nil
}

func (d rowDelegate) Render(w io.Writer, lm list.Model, index int, item list.Item) {
	row, ok := item.(rowItem)
	if !ok {
		return
	}

	countStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true).Width(6).Align(lipgloss.Right)
	pathStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("14"))
	detailStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("8"))

	if index == lm.Index() {
		selected := lipgloss.NewStyle().Foreground(lipgloss.Color("0")).Background(lipgloss.Color("6")).Bold(true)
		pathStyle = selected
		countStyle = selected.Width(6).Align(lipgloss.Right)
		detailStyle = selected
	}

	width := lm.Width() - 8
	line := fmt.Sprintf("%s  %s  %s",
		countStyle.Render(fmt.Sprintf("%d", row.count)),
		pathStyle.Render(truncateToWidth(row.path, width/2)),
		detailStyle.Render(truncateToWidth(row.detail, width/2)),
	)

	_, _ = fmt.Fprint(w, line)
}

// browserModel is the Bubble Tea model behind both display modes.
type browserModel struct {
	title  string
	width  int
	height int
	rows   list.Model
}

func newBrowserModel(title string, items []list.Item) browserModel {
	rows := list.New(items, rowDelegate{}, 80, 20)
	rows.SetShowPagination(false)
	rows.SetShowFilter(true)
	rows.SetShowHelp(false)
	rows.SetShowTitle(false)
	rows.SetShowStatusBar(false)
	rows.FilterInput.Placeholder = "Filter by path…"

	return browserModel{title: title, rows: rows}
}

func (b browserModel) Init() tea.Cmd {
	return nil
}

func (b browserModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		b.width = msg.Width
		b.height = msg.Height
		b.rows.SetWidth(b.width - 6)

		listHeight := b.height - 7
		if listHeight < 5 {
			listHeight = 5
		}

		b.rows.SetHeight(listHeight)

		return b, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return b, tea.Quit
		}
	}

	var cmd tea.Cmd
	b.rows, cmd = b.rows.Update(msg)

	return b, cmd
}

func (b browserModel) View() string {
	titleStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("205")).
		Bold(true).
		Padding(1, 0, 0, 2)

	container := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("6")).
		Margin(0, 1).
		Padding(0, 1)

	footerStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("8")).
		Align(lipgloss.Center).
		Width(b.width)

	return lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render(b.title),
		container.Render(b.rows.View()),
		footerStyle.Render("↑/k up • ↓/j down • / filter • q quit"),
	)
}

func truncateToWidth(text string, width int) string {
	if width <= 0 {
		return ""
	}

	if lipgloss.Width(text) <= width {
		return text
	}

	const ellipsis = "…"

	if width <= 1 {
		return ellipsis
	}

	maxWidth := width - lipgloss.Width(ellipsis)

	currentWidth := 0

	result := make([]rune, 0, len(text))
	for _, r := range text {
		rWidth := lipgloss.Width(string(r))
		if currentWidth+rWidth > maxWidth {
			break
		}

		result = append(result, r)
		currentWidth += rWidth
	}

	return string(result) + ellipsis
}

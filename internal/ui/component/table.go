package component

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/rovshanmuradov/copytrade-dashboard/internal/ui/style"
)

// TableColumn represents a column configuration
type TableColumn struct {
	Header string
	Width  int // 0 shares the remaining width
	Align  lipgloss.Position
}

type tableRow struct {
	data  []string
	style *lipgloss.Style
}

// Table renders rows of plain-text cells with an optional selection and a
// scrolling window of at most height-2 rows.
type Table struct {
	columns     []TableColumn
	rows        []tableRow
	width       int
	height      int
	selectedRow int
	offset      int
	emptyText   string

	headerStyle      lipgloss.Style
	rowStyle         lipgloss.Style
	selectedRowStyle lipgloss.Style
	borderStyle      lipgloss.Style

	showBorder bool
	selectable bool
}

// NewTable creates a new table component
func NewTable() *Table {
	palette := style.DefaultPalette()

	return &Table{
		emptyText: "No data",

		headerStyle: lipgloss.NewStyle().
			Foreground(palette.Secondary).
			Bold(true).
			Padding(0, 1),

		rowStyle: lipgloss.NewStyle().
			Foreground(palette.Text).
			Padding(0, 1),

		selectedRowStyle: lipgloss.NewStyle().
			Foreground(palette.Background).
			Background(palette.Primary).
			Padding(0, 1),

		borderStyle: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(palette.TextMuted),

		showBorder: true,
		selectable: true,
	}
}

// AddColumn adds a column to the table
func (t *Table) AddColumn(header string, width int, align lipgloss.Position) *Table {
	t.columns = append(t.columns, TableColumn{Header: header, Width: width, Align: align})
	return t
}

// SetRows replaces all rows and clamps the selection.
func (t *Table) SetRows(rows [][]string) *Table {
	t.rows = make([]tableRow, len(rows))
	for i, data := range rows {
		t.rows[i] = tableRow{data: data}
	}
	if t.selectedRow >= len(t.rows) {
		t.selectedRow = max(len(t.rows)-1, 0)
	}
	t.scroll()
	return t
}

// SetRowStyle sets a custom style for a specific row
func (t *Table) SetRowStyle(rowIndex int, s lipgloss.Style) *Table {
	if rowIndex >= 0 && rowIndex < len(t.rows) {
		s = s.Padding(0, 1)
		t.rows[rowIndex].style = &s
	}
	return t
}

// SetSize sets the table dimensions
func (t *Table) SetSize(width, height int) *Table {
	t.width = width
	t.height = height
	t.scroll()
	return t
}

// SetEmptyText sets what View shows when there are no rows.
func (t *Table) SetEmptyText(text string) *Table {
	t.emptyText = text
	return t
}

// SetSelectedRow sets the currently selected row
func (t *Table) SetSelectedRow(index int) *Table {
	if index >= 0 && index < len(t.rows) {
		t.selectedRow = index
		t.scroll()
	}
	return t
}

// GetSelectedRow returns the currently selected row index
func (t *Table) GetSelectedRow() int {
	return t.selectedRow
}

// MoveUp moves selection up
func (t *Table) MoveUp() *Table {
	if t.selectable && t.selectedRow > 0 {
		t.selectedRow--
		t.scroll()
	}
	return t
}

// MoveDown moves selection down
func (t *Table) MoveDown() *Table {
	if t.selectable && t.selectedRow < len(t.rows)-1 {
		t.selectedRow++
		t.scroll()
	}
	return t
}

// GotoBottom selects the last row.
func (t *Table) GotoBottom() *Table {
	if len(t.rows) > 0 {
		t.selectedRow = len(t.rows) - 1
		t.scroll()
	}
	return t
}

// SetSelectable enables/disables row selection
func (t *Table) SetSelectable(selectable bool) *Table {
	t.selectable = selectable
	return t
}

// SetShowBorder enables/disables table border
func (t *Table) SetShowBorder(show bool) *Table {
	t.showBorder = show
	return t
}

// GetRowCount returns the number of rows
func (t *Table) GetRowCount() int {
	return len(t.rows)
}

// visibleRows is how many data rows fit below the header.
func (t *Table) visibleRows() int {
	n := t.height - 2
	if t.showBorder {
		n -= 2
	}
	if t.height <= 0 || n < 1 {
		return len(t.rows)
	}
	return n
}

func (t *Table) scroll() {
	n := t.visibleRows()
	if t.selectedRow < t.offset {
		t.offset = t.selectedRow
	}
	if t.selectedRow >= t.offset+n {
		t.offset = t.selectedRow - n + 1
	}
	if t.offset > len(t.rows)-n {
		t.offset = max(len(t.rows)-n, 0)
	}
}

// View renders the table
func (t *Table) View() string {
	if len(t.columns) == 0 {
		return ""
	}
	widths := t.columnWidths()

	var content strings.Builder
	cells := make([]string, len(t.columns))
	for i, col := range t.columns {
		cells[i] = renderCell(col.Header, widths[i], col.Align, t.headerStyle)
	}
	content.WriteString(strings.Join(cells, "│"))
	content.WriteString("\n")

	seps := make([]string, len(t.columns))
	for i := range t.columns {
		seps[i] = strings.Repeat("─", widths[i])
	}
	content.WriteString(strings.Join(seps, "┼"))

	if len(t.rows) == 0 {
		content.WriteString("\n")
		content.WriteString(style.MutedStyle.Padding(0, 1).Render(t.emptyText))
	}

	end := min(t.offset+t.visibleRows(), len(t.rows))
	for rowIndex := t.offset; rowIndex < end; rowIndex++ {
		row := t.rows[rowIndex]
		rowStyle := t.rowStyle
		if row.style != nil {
			rowStyle = *row.style
		}
		if t.selectable && rowIndex == t.selectedRow {
			rowStyle = t.selectedRowStyle
		}

		for i, col := range t.columns {
			data := ""
			if i < len(row.data) {
				data = row.data[i]
			}
			cells[i] = renderCell(data, widths[i], col.Align, rowStyle)
		}
		content.WriteString("\n")
		content.WriteString(strings.Join(cells, "│"))
	}

	if t.showBorder {
		return t.borderStyle.Render(content.String())
	}
	return content.String()
}

// renderCell truncates by rune so multi-byte symbols survive.
func renderCell(content string, width int, align lipgloss.Position, s lipgloss.Style) string {
	inner := width - 2 // padding
	if inner < 1 {
		inner = 1
	}
	runes := []rune(content)
	if len(runes) > inner {
		if inner > 3 {
			content = string(runes[:inner-1]) + "…"
		} else {
			content = string(runes[:inner])
		}
	}
	return s.Width(width).Align(align).Render(content)
}

// columnWidths spreads the width left by fixed columns over the auto ones.
func (t *Table) columnWidths() []int {
	widths := make([]int, len(t.columns))
	fixed, auto := 0, 0
	for i, col := range t.columns {
		widths[i] = col.Width
		if col.Width > 0 {
			fixed += col.Width
		} else {
			auto++
		}
	}
	if auto == 0 {
		return widths
	}

	avail := t.width - fixed - (len(t.columns) - 1)
	if t.showBorder {
		avail -= 2
	}
	each := 12
	if auto > 0 && avail/auto > each {
		each = avail / auto
	}
	for i := range widths {
		if widths[i] <= 0 {
			widths[i] = each
		}
	}
	return widths
}

// Package heatgrid draws a heat map scene into terminal cells.
//
// The scene is laid out in terminal units: one unit is one column
// horizontally and one row vertically.
package heatgrid

import (
	"math"
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/x/ansi"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/kpumuk/kiqheat/internal/heatmap"
	"github.com/kpumuk/kiqheat/internal/mathutil"
	"github.com/kpumuk/kiqheat/internal/ui/charts"
)

// Styles holds the styles of the grid.
type Styles struct {
	Label    lipgloss.Style
	Selected lipgloss.Style
	Cursor   lipgloss.Style
	Muted    lipgloss.Style
}

// DefaultStyles returns default styles.
func DefaultStyles() Styles {
	return Styles{
		Label:    lipgloss.NewStyle(),
		Selected: lipgloss.NewStyle().Bold(true),
		Cursor:   lipgloss.NewStyle().Bold(true),
		Muted:    lipgloss.NewStyle().Faint(true),
	}
}

// CursorGlyph marks the cell under the keyboard cursor.
const CursorGlyph = "◆"

// Model is the heat grid component state.
type Model struct {
	styles       Styles
	width        int
	height       int
	scene        heatmap.Scene
	cursorCol    int
	cursorRow    int
	showCursor   bool
	emptyMessage string
}

// Option is used to set options in New.
type Option func(*Model)

// New creates a new heat grid model.
func New(opts ...Option) Model {
	m := Model{
		styles:       DefaultStyles(),
		showCursor:   true,
		emptyMessage: "No job metrics",
	}
	for _, opt := range opts {
		opt(&m)
	}
	return m
}

// WithStyles sets the styles.
func WithStyles(s Styles) Option {
	return func(m *Model) { m.styles = s }
}

// WithSize sets the dimensions.
func WithSize(w, h int) Option {
	return func(m *Model) { m.width, m.height = w, h }
}

// WithEmptyMessage sets the message shown when the scene has no cells.
func WithEmptyMessage(msg string) Option {
	return func(m *Model) { m.emptyMessage = msg }
}

// SetStyles sets the styles.
func (m *Model) SetStyles(s Styles) {
	m.styles = s
}

// SetSize sets the dimensions.
func (m *Model) SetSize(w, h int) {
	m.width = w
	m.height = h
}

// Width returns the width.
func (m Model) Width() int {
	return m.width
}

// Height returns the height.
func (m Model) Height() int {
	return m.height
}

// SetScene replaces the scene and keeps the cursor inside the grid.
func (m *Model) SetScene(sc heatmap.Scene) {
	m.scene = sc
	cols, rows := m.Dims()
	m.cursorCol = mathutil.Clamp(m.cursorCol, 0, max(cols-1, 0))
	m.cursorRow = mathutil.Clamp(m.cursorRow, 0, max(rows-1, 0))
}

// Scene returns the scene being drawn.
func (m Model) Scene() heatmap.Scene {
	return m.scene
}

// SetShowCursor toggles the cursor marker.
func (m *Model) SetShowCursor(show bool) {
	m.showCursor = show
}

// Dims returns the number of columns and rows that hold cells.
func (m Model) Dims() (cols, rows int) {
	for _, cv := range m.scene.Cells {
		cols = max(cols, cv.Col+1)
		rows = max(rows, cv.Row+1)
	}
	return cols, rows
}

// Cursor returns the column and row index under the cursor.
func (m Model) Cursor() (col, row int) {
	return m.cursorCol, m.cursorRow
}

// MoveCursor moves the cursor by dc columns and dr rows. Rows are counted
// from the bottom, so a positive dr moves up.
func (m *Model) MoveCursor(dc, dr int) {
	cols, rows := m.Dims()
	if cols == 0 || rows == 0 {
		return
	}
	m.cursorCol = mathutil.Clamp(m.cursorCol+dc, 0, cols-1)
	m.cursorRow = mathutil.Clamp(m.cursorRow+dr, 0, rows-1)
}

// SetCursor places the cursor on the given column and row, clamped to the
// grid.
func (m *Model) SetCursor(col, row int) {
	cols, rows := m.Dims()
	m.cursorCol = mathutil.Clamp(col, 0, max(cols-1, 0))
	m.cursorRow = mathutil.Clamp(row, 0, max(rows-1, 0))
}

// CursorCell returns the cell under the cursor, if there is one.
func (m Model) CursorCell() (heatmap.CellView, bool) {
	for _, cv := range m.scene.Cells {
		if cv.Col == m.cursorCol && cv.Row == m.cursorRow {
			return cv, true
		}
	}
	return heatmap.CellView{}, false
}

// HitAt returns what the terminal cell (x, y) of the component shows.
// Points are sampled at the center of the terminal cell.
func (m Model) HitAt(x, y int) heatmap.Hit {
	if x < 0 || y < 0 || x >= m.width || y >= m.height {
		return heatmap.Hit{}
	}
	return m.scene.Hit(float64(x)+0.5, float64(y)+0.5)
}

// span converts a scene interval to terminal columns or rows.
func span(offset, start, size float64) (int, int) {
	return int(math.Round(offset + start)), int(math.Round(offset + start + size))
}

type pixel struct {
	text  string
	fill  string
	style lipgloss.Style
}

// View renders the grid.
func (m Model) View() string {
	if m.width <= 0 || m.height <= 0 {
		return ""
	}
	if len(m.scene.Cells) == 0 {
		return charts.RenderCentered(m.width, m.height, m.styles.Muted.Render(m.emptyMessage))
	}

	buf := make([][]pixel, m.height)
	for y := range buf {
		buf[y] = make([]pixel, m.width)
	}
	put := func(x, y int, p pixel) {
		if x >= 0 && y >= 0 && x < m.width && y < m.height {
			buf[y][x] = p
		}
	}

	for _, cv := range m.scene.Cells {
		x0, x1 := span(m.scene.OffsetX, cv.Rect.X, cv.Rect.Width)
		y0, y1 := span(m.scene.OffsetY, cv.Rect.Y, cv.Rect.Height)
		// Wide cells keep a one column gutter so neighbors stay apart.
		if x1-x0 >= 3 {
			x1--
		}
		fill := cv.DisplayFill().Clamped().Hex()
		for y := y0; y < y1; y++ {
			for x := x0; x < x1; x++ {
				put(x, y, pixel{fill: fill})
			}
		}
		if m.showCursor && cv.Col == m.cursorCol && cv.Row == m.cursorRow && x1 > x0 && y1 > y0 {
			put(x0+(x1-x0-1)/2, y0+(y1-y0-1)/2, pixel{text: CursorGlyph, fill: fill, style: m.styles.Cursor.Foreground(lipgloss.Color(contrast(cv.DisplayFill())))})
		}
	}

	m.drawColumnLabels(put)
	m.drawRowLabels(put)

	lines := make([]string, m.height)
	for y, row := range buf {
		lines[y] = renderRow(row)
	}
	return strings.Join(lines, "\n")
}

// drawColumnLabels writes column labels on the first row below the grid,
// centered on their column and skipped where they would overlap.
func (m Model) drawColumnLabels(put func(x, y int, p pixel)) {
	y := int(math.Round(m.scene.OffsetY + m.scene.GridHeight))
	lastEnd := -1
	for _, l := range m.scene.ColLabels {
		text := []rune(l.Text)
		center := int(math.Floor(m.scene.OffsetX + l.X))
		start := max(center-len(text)/2, 0)
		if (lastEnd >= 0 && start <= lastEnd+1) || start+len(text) > m.width {
			continue
		}
		for i, r := range text {
			put(start+i, y, pixel{text: string(r), style: m.labelStyle(m.cursorCol == l.Index)})
		}
		lastEnd = start + len(text) - 1
	}
}

// drawRowLabels right-aligns row labels in the left margin.
func (m Model) drawRowLabels(put func(x, y int, p pixel)) {
	avail := int(m.scene.OffsetX) - 1
	if avail <= 0 {
		return
	}
	for _, l := range m.scene.RowLabels {
		y := int(math.Floor(m.scene.OffsetY + l.Y))
		text := []rune(ansi.Truncate(l.Text, avail, "…"))
		start := avail - len(text)
		for i, r := range text {
			put(start+i, y, pixel{text: string(r), style: m.labelStyle(m.cursorRow == l.Index)})
		}
	}
}

func (m Model) labelStyle(current bool) lipgloss.Style {
	if current {
		return m.styles.Selected
	}
	return m.styles.Label
}

// renderRow joins a row of pixels, styling runs of equal fill at once.
func renderRow(row []pixel) string {
	var sb strings.Builder
	for i := 0; i < len(row); {
		p := row[i]
		if p.text != "" {
			style := p.style
			if p.fill != "" {
				style = style.Background(lipgloss.Color(p.fill))
			}
			sb.WriteString(style.Render(p.text))
			i++
			continue
		}
		j := i
		for j < len(row) && row[j].text == "" && row[j].fill == p.fill {
			j++
		}
		blank := strings.Repeat(" ", j-i)
		if p.fill != "" {
			blank = lipgloss.NewStyle().Background(lipgloss.Color(p.fill)).Render(blank)
		}
		sb.WriteString(blank)
		i = j
	}
	return sb.String()
}

// contrast picks black or white text for a background.
func contrast(bg colorful.Color) string {
	l, _, _ := bg.Lab()
	if l > 0.6 {
		return "#000000"
	}
	return "#FFFFFF"
}

package layout

import (
	"fmt"
	"math"

	"github.com/flanksource/commons/logger"
	"github.com/flanksource/informe/api"
	"github.com/samber/lo"
)

// GridStyle holds the vertical rhythm of a field row, in mm.
//
// Label and value paddings are offsets from a common origin, so only their
// difference separates the label line from the first value line:
//
//	label line
//	ValueTopPadding - LabelTopPadding
//	value lines
//	BottomPadding
type GridStyle struct {
	LabelTopPadding float64 `yaml:"labelTopPadding" json:"labelTopPadding"`
	ValueTopPadding float64 `yaml:"valueTopPadding" json:"valueTopPadding"`
	BottomPadding   float64 `yaml:"bottomPadding" json:"bottomPadding"`
	// CellPadding is the horizontal inset on each side of a column.
	CellPadding   float64 `yaml:"cellPadding" json:"cellPadding"`
	AlternateRows bool    `yaml:"alternateRows" json:"alternateRows"`
	Separators    bool    `yaml:"separators" json:"separators"`
}

func DefaultGridStyle() GridStyle {
	return GridStyle{
		LabelTopPadding: 1.5,
		ValueTopPadding: 2.5,
		BottomPadding:   2,
		CellPadding:     2,
		AlternateRows:   true,
		Separators:      false,
	}
}

func (s GridStyle) Validate() error {
	if s.LabelTopPadding < 0 || s.BottomPadding < 0 || s.CellPadding < 0 {
		return fmt.Errorf("%w: negative grid padding", ErrInvalidGeometry)
	}
	if s.ValueTopPadding < s.LabelTopPadding {
		return fmt.Errorf("%w: value padding %.1f above label padding %.1f", ErrInvalidGeometry, s.ValueTopPadding, s.LabelTopPadding)
	}
	return nil
}

// Cell is one measured label/value pair.
type Cell struct {
	Label string
	Lines []string
}

// RowPlacement records where a grid row landed.
type RowPlacement struct {
	Section string
	// SectionIndex is the position of the section in the report.
	SectionIndex int
	// Index is the row number within the section.
	Index   int
	Page    int
	Y       float64
	Height  float64
	Cells   []Cell
	Clamped bool
}

// GridEngine lays out label/value fields in fixed columns.
type GridEngine struct {
	canvas    Canvas
	paginator *Paginator
	bands     *Bands
	formatter *api.Formatter
	style     GridStyle
	label     Style
	value     Style
	rowAlt    Style
	separator Style
	log       logger.Logger
}

type measuredRow struct {
	cells   []Cell
	height  float64
	clamped bool
}

// Render lays out section's title band and field rows starting at cur.
// The title and the first row are reserved as one unit; later rows break
// independently. All values are formatted before anything is drawn.
func (g *GridEngine) Render(cur Cursor, section api.Section, columns int) (Cursor, []RowPlacement, error) {
	if columns < 1 {
		return cur, nil, fmt.Errorf("%w: section %q has %d", ErrInvalidColumns, section.Title, columns)
	}

	geometry := g.paginator.Geometry()
	colWidth := geometry.UsableWidth() / float64(columns)
	chunks := lo.Chunk(section.Items, columns)

	if len(chunks) == 0 {
		cur = g.paginator.EnsureSpace(cur, g.bands.TitleHeight())
		return g.bands.DrawTitle(cur, section.Title), nil, nil
	}

	rows := make([]measuredRow, len(chunks))
	for i, chunk := range chunks {
		limit := geometry.UsableHeight()
		if i == 0 {
			limit -= g.bands.TitleHeight()
		}
		row, err := g.measure(chunk, colWidth, limit)
		if err != nil {
			return cur, nil, fmt.Errorf("section %q row %d: %w", section.Title, i+1, err)
		}
		if row.clamped {
			g.log.Warnf("section %q row %d does not fit on a page, values truncated to %.1fmm", section.Title, i+1, row.height)
		}
		rows[i] = row
	}

	placements := make([]RowPlacement, 0, len(rows))
	for i, row := range rows {
		if i == 0 {
			cur = g.paginator.EnsureSpace(cur, g.bands.TitleHeight()+row.height)
			cur = g.bands.DrawTitle(cur, section.Title)
		} else {
			cur = g.paginator.EnsureSpace(cur, row.height)
		}
		g.draw(cur, i, row, colWidth)
		placements = append(placements, RowPlacement{
			Section: section.Title,
			Index:   i,
			Page:    cur.Page,
			Y:       cur.Y,
			Height:  row.height,
			Cells:   row.cells,
			Clamped: row.clamped,
		})
		g.log.Debugf("section %q row %d on page %d at %.1f (%.1fmm)", section.Title, i+1, cur.Page, cur.Y, row.height)
		cur = g.paginator.Advance(cur, row.height)
	}
	return cur, placements, nil
}

func (g *GridEngine) lineHeights() (label, value float64) {
	return g.canvas.LineHeight(g.label.Size), g.canvas.LineHeight(g.value.Size)
}

// RowHeight is the height of a row whose tallest value wraps to lines.
func (g *GridEngine) RowHeight(lines int) float64 {
	labelLine, valueLine := g.lineHeights()
	return labelLine + g.valueOffset() + float64(max(lines, 1))*valueLine + g.style.BottomPadding
}

func (g *GridEngine) valueOffset() float64 {
	return g.style.ValueTopPadding - g.style.LabelTopPadding
}

func (g *GridEngine) measure(items []api.FieldItem, colWidth, limit float64) (measuredRow, error) {
	textWidth := colWidth - 2*g.style.CellPadding
	labelWidth := func(s string) float64 { return g.canvas.TextWidth(s, g.label.Size, g.label.FontStyle) }
	valueWidth := func(s string) float64 { return g.canvas.TextWidth(s, g.value.Size, g.value.FontStyle) }

	row := measuredRow{cells: make([]Cell, len(items))}
	maxLines := 1
	for i, item := range items {
		text, err := g.formatter.Format(item.Value)
		if err != nil {
			return row, fmt.Errorf("field %q: %w", item.Label, err)
		}
		lines := g.canvas.SplitText(g.value.Text(text), textWidth, g.value.Size, g.value.FontStyle)
		if len(lines) == 0 {
			lines = []string{""}
		}
		row.cells[i] = Cell{
			Label: Truncate(g.label.Text(item.Label), textWidth, labelWidth),
			Lines: lines,
		}
		maxLines = max(maxLines, len(lines))
	}

	row.height = g.RowHeight(maxLines)
	if row.height <= limit+epsilon {
		return row, nil
	}

	_, valueLine := g.lineHeights()
	fixed := g.RowHeight(1) - valueLine
	allowed := max(1, int(math.Floor((limit-fixed+epsilon)/valueLine)))
	for i, cell := range row.cells {
		if len(cell.Lines) > allowed {
			kept := append([]string(nil), cell.Lines[:allowed]...)
			kept[allowed-1] = Ellipsize(kept[allowed-1], textWidth, valueWidth)
			row.cells[i].Lines = kept
		}
	}
	row.height = g.RowHeight(allowed)
	row.clamped = true
	return row, nil
}

func (g *GridEngine) draw(cur Cursor, index int, row measuredRow, colWidth float64) {
	geometry := g.paginator.Geometry()
	labelLine, valueLine := g.lineHeights()
	band := Rect{X: geometry.MarginLeft, Y: cur.Y, Width: geometry.UsableWidth(), Height: row.height}

	if g.style.AlternateRows && index%2 == 1 && g.rowAlt.Fill != nil {
		g.canvas.FillRect(band, *g.rowAlt.Fill)
	}

	for c, cell := range row.cells {
		x := geometry.MarginLeft + float64(c)*colWidth + g.style.CellPadding
		w := colWidth - 2*g.style.CellPadding

		label := g.label.Run(Rect{X: x, Y: cur.Y, Width: w, Height: labelLine}, cell.Label)
		label.Align = alignCenter
		g.canvas.DrawText(label)

		top := cur.Y + labelLine + g.valueOffset()
		for j, line := range cell.Lines {
			run := g.value.Run(Rect{X: x, Y: top + float64(j)*valueLine, Width: w, Height: valueLine}, line)
			run.Align = alignCenter
			g.canvas.DrawText(run)
		}
	}

	if g.style.Separators && g.separator.Fill != nil {
		const rule = 0.2
		g.canvas.FillRect(Rect{X: band.X, Y: band.Bottom() - rule, Width: band.Width, Height: rule}, *g.separator.Fill)
	}
}

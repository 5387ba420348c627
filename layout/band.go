package layout

import (
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
)

const (
	alignLeft   = align.Left
	alignCenter = align.Center
	alignRight  = align.Right
)

// BandStyle sizes the full-width section title and summary bands, in mm.
type BandStyle struct {
	TitleHeight   float64 `yaml:"titleHeight" json:"titleHeight"`
	SectionGap    float64 `yaml:"sectionGap" json:"sectionGap"`
	SummaryHeight float64 `yaml:"summaryHeight" json:"summaryHeight"`
	SummaryGap    float64 `yaml:"summaryGap" json:"summaryGap"`
}

func DefaultBandStyle() BandStyle {
	return BandStyle{TitleHeight: 9, SectionGap: 2, SummaryHeight: 14, SummaryGap: 6}
}

// Bands draws section titles and the closing summary.
type Bands struct {
	canvas   Canvas
	geometry Geometry
	style    BandStyle
	section  Style
	summary  Style
}

func NewBands(canvas Canvas, geometry Geometry, style BandStyle, section, summary Style) *Bands {
	return &Bands{canvas: canvas, geometry: geometry, style: style, section: section, summary: summary}
}

// TitleHeight is the vertical space a title band consumes, gap included.
func (b *Bands) TitleHeight() float64 {
	return b.style.TitleHeight + b.style.SectionGap
}

// DrawTitle paints a title band at cur, which must already have room for it.
func (b *Bands) DrawTitle(cur Cursor, title string) Cursor {
	band := Rect{X: b.geometry.MarginLeft, Y: cur.Y, Width: b.geometry.UsableWidth(), Height: b.style.TitleHeight}
	if b.section.Fill != nil {
		b.canvas.FillRect(band, *b.section.Fill)
	}
	inner := Rect{X: band.X + b.section.Inset, Y: band.Y, Width: band.Width - 2*b.section.Inset, Height: band.Height}
	text := Truncate(b.section.Text(title), inner.Width, func(s string) float64 {
		return b.canvas.TextWidth(s, b.section.Size, b.section.FontStyle)
	})
	b.canvas.DrawText(b.section.Run(inner, text))
	cur.Y += b.TitleHeight()
	return cur
}

// SummaryHeight is the vertical space the summary band consumes, gap included.
func (b *Bands) SummaryHeight() float64 {
	return b.style.SummaryGap + b.style.SummaryHeight
}

// DrawSummary paints the highlighted total band: label left, value right.
func (b *Bands) DrawSummary(cur Cursor, label, value string) Cursor {
	band := Rect{X: b.geometry.MarginLeft, Y: cur.Y + b.style.SummaryGap, Width: b.geometry.UsableWidth(), Height: b.style.SummaryHeight}
	if b.summary.Fill != nil {
		b.canvas.FillRect(band, *b.summary.Fill)
	}
	inner := Rect{X: band.X + b.summary.Inset, Y: band.Y, Width: band.Width - 2*b.summary.Inset, Height: band.Height}
	width := func(s string) float64 { return b.canvas.TextWidth(s, b.summary.Size, b.summary.FontStyle) }

	valueRun := b.summary.Run(inner, value)
	valueRun.Align = alignRight
	b.canvas.DrawText(valueRun)

	labelWidth := inner.Width - width(value) - b.summary.Size*PointToMM
	labelRun := b.summary.Run(inner, Truncate(b.summary.Text(label), labelWidth, width))
	labelRun.Align = alignLeft
	b.canvas.DrawText(labelRun)

	cur.Y += b.SummaryHeight()
	return cur
}

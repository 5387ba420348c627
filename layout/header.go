package layout

import "github.com/flanksource/informe/api"

// HeaderFooter paints the running title band and page caption of content pages.
// It draws at absolute positions and never touches the cursor.
type HeaderFooter struct {
	canvas     Canvas
	geometry   Geometry
	locale     api.Locale
	title      string
	identifier string
	header     Style
	footer     Style
}

func NewHeaderFooter(canvas Canvas, geometry Geometry, locale api.Locale, title, identifier string, header, footer Style) *HeaderFooter {
	return &HeaderFooter{
		canvas:     canvas,
		geometry:   geometry,
		locale:     locale,
		title:      title,
		identifier: identifier,
		header:     header,
		footer:     footer,
	}
}

func (h *HeaderFooter) OnNewPage(page int) {
	g := h.geometry
	if g.HeaderHeight > 0 {
		band := Rect{X: g.MarginLeft, Y: g.MarginTop, Width: g.UsableWidth(), Height: g.HeaderHeight}
		if h.header.Fill != nil {
			h.canvas.FillRect(band, *h.header.Fill)
		}
		inner := Rect{X: band.X + h.header.Inset, Y: band.Y, Width: band.Width - 2*h.header.Inset, Height: band.Height}

		width := func(s string) float64 { return h.canvas.TextWidth(s, h.header.Size, h.header.FontStyle) }
		identifier := h.header.Text(h.identifier)
		idWidth := 0.0
		if identifier != "" {
			identifier = Truncate(identifier, inner.Width/2, width)
			idWidth = width(identifier) + h.header.Size*PointToMM
			run := h.header.Run(inner, identifier)
			run.Align = alignRight
			h.canvas.DrawText(run)
		}
		if title := h.header.Text(h.title); title != "" {
			run := h.header.Run(inner, Truncate(title, inner.Width-idWidth, width))
			run.Align = alignLeft
			h.canvas.DrawText(run)
		}
	}

	if g.FooterHeight > 0 {
		box := Rect{X: g.MarginLeft, Y: g.Bottom(), Width: g.UsableWidth(), Height: g.FooterHeight}
		run := h.footer.Run(box, h.footer.Text(h.locale.Page(page)))
		h.canvas.DrawText(run)
	}
}

package layout

import (
	"github.com/flanksource/informe/api"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
)

const coverLogoHeight = 40.0

type coverLine struct {
	text  string
	scale float64
}

// drawCover paints the full-bleed first page. It carries no header or footer.
func (a *Assembler) drawCover(report api.Report, formatter *api.Formatter, style Style) Cursor {
	g := a.geometry
	a.canvas.NewPage()
	cur := Cursor{Page: 1, Y: g.MarginTop}

	if style.Fill != nil {
		a.canvas.FillRect(Rect{X: 0, Y: 0, Width: g.PageWidth, Height: g.PageHeight}, *style.Fill)
	}

	y := g.PageHeight * 0.15
	if a.logo != nil {
		if a.logo.OK() {
			frame := Fit(Rect{X: g.MarginLeft, Y: y, Width: g.UsableWidth(), Height: coverLogoHeight}, a.logo.Width, a.logo.Height)
			img := Image{
				Ref:         a.logo.Ref.String(),
				Data:        a.logo.Data,
				Encoding:    a.logo.Encoding,
				PixelWidth:  a.logo.Width,
				PixelHeight: a.logo.Height,
			}
			if err := a.canvas.DrawImage(img, frame); err != nil {
				a.log.Warnf("cover logo %s: %v", a.logo.Ref, err)
			}
		} else {
			a.log.Warnf("cover logo %s: %v", a.logo.Ref, a.logo.Err)
		}
		y += coverLogoHeight
	}
	y = max(y+10, g.PageHeight*0.35)

	cover := report.Cover
	title := cover.Title
	if title == "" {
		title = report.Title
	}
	lines := []coverLine{{title, 1}, {cover.Subtitle, 0.55}, {cover.Address, 0.45}}
	if cover.Date != nil {
		lines = append(lines, coverLine{formatter.Date(*cover.Date), 0.45})
	}
	lines = append(lines, coverLine{report.Identifier, 0.4})

	limit := g.PageHeight - g.MarginBottom
	for _, line := range lines {
		if line.text == "" {
			continue
		}
		size := style.Size * line.scale
		fontStyle := style.FontStyle
		if line.scale < 1 {
			fontStyle = fontstyle.Normal
		}
		lh := a.canvas.LineHeight(size)
		for _, text := range a.canvas.SplitText(style.Text(line.text), g.UsableWidth(), size, fontStyle) {
			if y+lh > limit {
				a.log.Warnf("cover text truncated at %q", text)
				return cur
			}
			a.canvas.DrawText(TextRun{
				X: g.MarginLeft, Y: y, Width: g.UsableWidth(), Height: lh,
				Text: text, Size: size, Style: fontStyle, Align: alignCenter, Color: style.Color,
			})
			y += lh
		}
		y += lh * 0.6
	}
	return cur
}

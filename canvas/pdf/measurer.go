package pdf

import (
	"github.com/flanksource/informe/layout"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/jung-kurt/gofpdf"
)

// DefaultFontFamily is the core font used for every run.
const DefaultFontFamily = "Helvetica"

// Measurer measures text with the metrics of a gofpdf core font. Text is
// translated to cp1252 before measuring, the encoding it is written with.
type Measurer struct {
	pdf    *gofpdf.Fpdf
	family string
	tr     func(string) string
}

// NewMeasurer returns a standalone measurer, for canvases that do not own a
// PDF document but want its metrics.
func NewMeasurer(family string) *Measurer {
	return newMeasurer(gofpdf.New("P", "mm", "A4", ""), family)
}

func newMeasurer(pdf *gofpdf.Fpdf, family string) *Measurer {
	if family == "" {
		family = DefaultFontFamily
	}
	return &Measurer{pdf: pdf, family: family, tr: pdf.UnicodeTranslatorFromDescriptor("")}
}

func (m *Measurer) setFont(size float64, style fontstyle.Type) {
	m.pdf.SetFont(m.family, string(style), size)
}

func (m *Measurer) TextWidth(text string, fontSize float64, style fontstyle.Type) float64 {
	m.setFont(fontSize, style)
	return m.pdf.GetStringWidth(m.tr(text))
}

func (m *Measurer) SplitText(text string, maxWidth, fontSize float64, style fontstyle.Type) []string {
	m.setFont(fontSize, style)
	return layout.WrapWords(text, maxWidth, func(s string) float64 {
		return m.pdf.GetStringWidth(m.tr(s))
	})
}

func (m *Measurer) LineHeight(fontSize float64) float64 {
	return layout.LineHeight(fontSize)
}

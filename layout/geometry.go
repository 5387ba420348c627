package layout

import (
	"fmt"

	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
)

// Geometry is the fixed page frame in millimetres.
//
//	MarginTop
//	HeaderHeight  (running title band)
//	HeaderGap
//	-- Top() --   content
//	-- Bottom() --
//	FooterHeight  (page caption, inside MarginBottom)
type Geometry struct {
	PageWidth    float64 `yaml:"pageWidth" json:"pageWidth"`
	PageHeight   float64 `yaml:"pageHeight" json:"pageHeight"`
	MarginTop    float64 `yaml:"marginTop" json:"marginTop"`
	MarginBottom float64 `yaml:"marginBottom" json:"marginBottom"`
	MarginLeft   float64 `yaml:"marginLeft" json:"marginLeft"`
	MarginRight  float64 `yaml:"marginRight" json:"marginRight"`
	HeaderHeight float64 `yaml:"headerHeight" json:"headerHeight"`
	HeaderGap    float64 `yaml:"headerGap" json:"headerGap"`
	FooterHeight float64 `yaml:"footerHeight" json:"footerHeight"`
}

// GeometryFor returns the default frame for a maroto page size.
func GeometryFor(size pagesize.Type) Geometry {
	w, h := pagesize.GetDimensions(size)
	return Geometry{
		PageWidth:    w,
		PageHeight:   h,
		MarginTop:    12,
		MarginBottom: 18,
		MarginLeft:   15,
		MarginRight:  15,
		HeaderHeight: 10,
		HeaderGap:    6,
		FooterHeight: 8,
	}
}

// DefaultGeometry is A4 portrait.
func DefaultGeometry() Geometry {
	return GeometryFor(pagesize.A4)
}

func (g Geometry) UsableWidth() float64 {
	return g.PageWidth - g.MarginLeft - g.MarginRight
}

// Top is the vertical offset content resumes at after a page break.
func (g Geometry) Top() float64 {
	return g.MarginTop + g.HeaderHeight + g.HeaderGap
}

// Bottom is the lowest offset content may reach.
func (g Geometry) Bottom() float64 {
	return g.PageHeight - g.MarginBottom
}

func (g Geometry) UsableHeight() float64 {
	return g.Bottom() - g.Top()
}

// Validate checks the frame leaves room for content and a footer.
func (g Geometry) Validate() error {
	switch {
	case g.PageWidth <= 0 || g.PageHeight <= 0:
		return fmt.Errorf("%w: page size %.1fx%.1f", ErrInvalidGeometry, g.PageWidth, g.PageHeight)
	case g.MarginTop < 0 || g.MarginBottom < 0 || g.MarginLeft < 0 || g.MarginRight < 0:
		return fmt.Errorf("%w: negative margin", ErrInvalidGeometry)
	case g.HeaderHeight < 0 || g.HeaderGap < 0 || g.FooterHeight < 0:
		return fmt.Errorf("%w: negative header or footer", ErrInvalidGeometry)
	case g.UsableWidth() <= 0:
		return fmt.Errorf("%w: usable width %.1f", ErrInvalidGeometry, g.UsableWidth())
	case g.UsableHeight() <= 0:
		return fmt.Errorf("%w: usable height %.1f", ErrInvalidGeometry, g.UsableHeight())
	case g.FooterHeight > g.MarginBottom:
		return fmt.Errorf("%w: footer %.1f taller than bottom margin %.1f", ErrInvalidGeometry, g.FooterHeight, g.MarginBottom)
	}
	return nil
}

// Content is the usable rectangle of a content page.
func (g Geometry) Content() Rect {
	return Rect{X: g.MarginLeft, Y: g.Top(), Width: g.UsableWidth(), Height: g.UsableHeight()}
}

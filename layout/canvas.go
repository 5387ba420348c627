// Package layout positions report content onto fixed-size pages.
//
// Every engine takes a Cursor and returns the advanced Cursor; page breaks are
// decided only by the Paginator, which is the single place that calls
// Canvas.NewPage for content pages.
package layout

import (
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/extension"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/props"
)

// Rect is an axis-aligned box in page units (mm), origin top-left.
type Rect struct {
	X, Y, Width, Height float64
}

// Bottom edge of the box.
func (r Rect) Bottom() float64 { return r.Y + r.Height }

// TextRun is a single, already wrapped line of text drawn inside a box.
// The text is vertically centered in the box and aligned horizontally by Align.
type TextRun struct {
	X, Y, Width, Height float64
	Text                string
	Size                float64 // points
	Style               fontstyle.Type
	Align               align.Type
	Color               props.Color
}

// Image is a decoded, accepted raster ready to be blitted.
type Image struct {
	Ref         string
	Data        []byte
	Encoding    extension.Type
	PixelWidth  int
	PixelHeight int
}

// Measurer wraps and measures text for a font family.
type Measurer interface {
	// SplitText wraps text into lines no wider than maxWidth.
	SplitText(text string, maxWidth, fontSize float64, style fontstyle.Type) []string
	TextWidth(text string, fontSize float64, style fontstyle.Type) float64
	LineHeight(fontSize float64) float64
}

// Canvas is a paged drawing surface. Implementations own the byte encoding.
type Canvas interface {
	Measurer
	NewPage()
	FillRect(r Rect, color props.Color)
	DrawText(run TextRun)
	DrawImage(img Image, r Rect) error
}

// Package raster paints laid out pages into RGBA images and encodes them as
// a PNG sequence.
package raster

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	_ "image/jpeg" // photo decoders
	"image/png"
	"math"

	"github.com/flanksource/informe/layout"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gobolditalic"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// DefaultDPI gives A4 pages of 1240x1754 pixels.
const DefaultDPI = 150.0

type faceKey struct {
	size  float64
	style fontstyle.Type
}

// Canvas is a layout.Canvas backed by one RGBA image per page. Text is
// measured with the same Go fonts it is drawn with.
type Canvas struct {
	geometry layout.Geometry
	dpi      float64
	fonts    map[fontstyle.Type]*opentype.Font
	faces    map[faceKey]font.Face
	pages    []*image.RGBA
}

func New(g layout.Geometry, dpi float64) (*Canvas, error) {
	if dpi <= 0 {
		dpi = DefaultDPI
	}
	c := &Canvas{
		geometry: g,
		dpi:      dpi,
		fonts:    map[fontstyle.Type]*opentype.Font{},
		faces:    map[faceKey]font.Face{},
	}
	for style, ttf := range map[fontstyle.Type][]byte{
		fontstyle.Normal:     goregular.TTF,
		fontstyle.Bold:       gobold.TTF,
		fontstyle.Italic:     goitalic.TTF,
		fontstyle.BoldItalic: gobolditalic.TTF,
	} {
		f, err := opentype.Parse(ttf)
		if err != nil {
			return nil, fmt.Errorf("failed to parse font: %w", err)
		}
		c.fonts[style] = f
	}
	return c, nil
}

func (c *Canvas) pxPerMM() float64 {
	return c.dpi / 25.4
}

func (c *Canvas) px(mm float64) int {
	return int(math.Round(mm * c.pxPerMM()))
}

func (c *Canvas) face(size float64, style fontstyle.Type) font.Face {
	key := faceKey{size, style}
	if f, ok := c.faces[key]; ok {
		return f
	}
	ttf, ok := c.fonts[style]
	if !ok {
		ttf = c.fonts[fontstyle.Normal]
	}
	f, err := opentype.NewFace(ttf, &opentype.FaceOptions{Size: size, DPI: c.dpi, Hinting: font.HintingNone})
	if err != nil {
		// only fails for non-positive sizes
		f, _ = opentype.NewFace(c.fonts[fontstyle.Normal], &opentype.FaceOptions{Size: 1, DPI: c.dpi})
	}
	c.faces[key] = f
	return f
}

func (c *Canvas) TextWidth(text string, fontSize float64, style fontstyle.Type) float64 {
	adv := font.MeasureString(c.face(fontSize, style), text)
	return float64(adv) / 64 / c.pxPerMM()
}

func (c *Canvas) SplitText(text string, maxWidth, fontSize float64, style fontstyle.Type) []string {
	return layout.WrapWords(text, maxWidth, func(s string) float64 {
		return c.TextWidth(s, fontSize, style)
	})
}

func (c *Canvas) LineHeight(fontSize float64) float64 {
	return layout.LineHeight(fontSize)
}

func (c *Canvas) NewPage() {
	page := image.NewRGBA(image.Rect(0, 0, c.px(c.geometry.PageWidth), c.px(c.geometry.PageHeight)))
	draw.Draw(page, page.Bounds(), image.White, image.Point{}, draw.Src)
	c.pages = append(c.pages, page)
}

func (c *Canvas) current() *image.RGBA {
	if len(c.pages) == 0 {
		c.NewPage()
	}
	return c.pages[len(c.pages)-1]
}

func rgba(col props.Color) color.RGBA {
	return color.RGBA{R: uint8(col.Red), G: uint8(col.Green), B: uint8(col.Blue), A: 255}
}

func (c *Canvas) rect(r layout.Rect) image.Rectangle {
	return image.Rect(c.px(r.X), c.px(r.Y), c.px(r.X+r.Width), c.px(r.Y+r.Height))
}

func (c *Canvas) FillRect(r layout.Rect, col props.Color) {
	page := c.current()
	draw.Draw(page, c.rect(r), image.NewUniform(rgba(col)), image.Point{}, draw.Over)
}

func (c *Canvas) DrawText(run layout.TextRun) {
	page := c.current()
	face := c.face(run.Size, run.Style)

	width := c.TextWidth(run.Text, run.Size, run.Style)
	x := run.X
	switch run.Align {
	case align.Center:
		x += (run.Width - width) / 2
	case align.Right:
		x += run.Width - width
	}

	m := face.Metrics()
	ascent, descent := float64(m.Ascent)/64, float64(m.Descent)/64
	baseline := (run.Y+run.Height/2)*c.pxPerMM() + (ascent-descent)/2

	d := &font.Drawer{
		Dst:  page,
		Src:  image.NewUniform(rgba(run.Color)),
		Face: face,
		Dot:  fixed.Point26_6{X: fixed.Int26_6(x * c.pxPerMM() * 64), Y: fixed.Int26_6(baseline * 64)},
	}
	d.DrawString(run.Text)
}

// DrawImage decodes the photo and scales it into r.
func (c *Canvas) DrawImage(img layout.Image, r layout.Rect) error {
	src, _, err := image.Decode(bytes.NewReader(img.Data))
	if err != nil {
		return fmt.Errorf("failed to decode image %s: %w", img.Ref, err)
	}
	draw.CatmullRom.Scale(c.current(), c.rect(r), src, src.Bounds(), draw.Over, nil)
	return nil
}

// Page returns page n (1-based), or nil.
func (c *Canvas) Page(n int) *image.RGBA {
	if n < 1 || n > len(c.pages) {
		return nil
	}
	return c.pages[n-1]
}

// Pages encodes every page as PNG.
func (c *Canvas) Pages() ([][]byte, error) {
	out := make([][]byte, 0, len(c.pages))
	for i, page := range c.pages {
		var buf bytes.Buffer
		if err := png.Encode(&buf, page); err != nil {
			return nil, fmt.Errorf("failed to encode page %d: %w", i+1, err)
		}
		out = append(out, buf.Bytes())
	}
	return out, nil
}

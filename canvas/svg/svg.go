// Package svg renders each laid out page as a standalone SVG document, used
// for print previews in a browser.
package svg

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"math"

	svg "github.com/ajstarks/svgo"
	"github.com/flanksource/informe/canvas/pdf"
	"github.com/flanksource/informe/layout"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/extension"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/props"
)

// DefaultScale is the number of SVG user units per millimetre.
const DefaultScale = 4.0

// Canvas writes SVG pages. Text is measured with the PDF core font metrics so
// the preview breaks pages exactly like the PDF.
type Canvas struct {
	*pdf.Measurer
	geometry layout.Geometry
	scale    float64
	title    string
	pages    []*bytes.Buffer
	doc      *svg.SVG
}

func New(g layout.Geometry, scale float64, title string) *Canvas {
	if scale <= 0 {
		scale = DefaultScale
	}
	return &Canvas{Measurer: pdf.NewMeasurer(""), geometry: g, scale: scale, title: title}
}

func (c *Canvas) px(mm float64) int {
	return int(math.Round(mm * c.scale))
}

func (c *Canvas) NewPage() {
	c.finish()
	buf := &bytes.Buffer{}
	c.pages = append(c.pages, buf)
	c.doc = svg.New(buf)
	w, h := c.px(c.geometry.PageWidth), c.px(c.geometry.PageHeight)
	c.doc.Start(w, h, fmt.Sprintf(`viewBox="0 0 %d %d"`, w, h))
	if c.title != "" {
		c.doc.Title(fmt.Sprintf("%s - %d", c.title, len(c.pages)))
	}
	c.doc.Rect(0, 0, w, h, "fill:#ffffff")
}

func (c *Canvas) finish() {
	if c.doc != nil {
		c.doc.End()
		c.doc = nil
	}
}

func (c *Canvas) current() *svg.SVG {
	if c.doc == nil {
		c.NewPage()
	}
	return c.doc
}

func rgb(color props.Color) string {
	return fmt.Sprintf("rgb(%d,%d,%d)", color.Red, color.Green, color.Blue)
}

func (c *Canvas) FillRect(r layout.Rect, color props.Color) {
	c.current().Rect(c.px(r.X), c.px(r.Y), c.px(r.Width), c.px(r.Height), "fill:"+rgb(color))
}

func (c *Canvas) DrawText(run layout.TextRun) {
	x, anchor := run.X, "start"
	switch run.Align {
	case align.Center:
		x, anchor = run.X+run.Width/2, "middle"
	case align.Right:
		x, anchor = run.X+run.Width, "end"
	}
	style := fmt.Sprintf("font-family:Helvetica,Arial,sans-serif;font-size:%.2fpx;fill:%s;text-anchor:%s;dominant-baseline:central",
		run.Size*layout.PointToMM*c.scale, rgb(run.Color), anchor)
	switch run.Style {
	case fontstyle.Bold:
		style += ";font-weight:bold"
	case fontstyle.Italic:
		style += ";font-style:italic"
	case fontstyle.BoldItalic:
		style += ";font-weight:bold;font-style:italic"
	}
	c.current().Text(c.px(x), c.px(run.Y+run.Height/2), run.Text, style)
}

// DrawImage embeds the image as a data URI; the frame is already fitted.
func (c *Canvas) DrawImage(img layout.Image, r layout.Rect) error {
	mime := "image/png"
	switch img.Encoding {
	case extension.Jpg:
		mime = "image/jpeg"
	case extension.Png:
	default:
		return fmt.Errorf("image %s: unsupported encoding %q", img.Ref, img.Encoding)
	}
	if len(img.Data) == 0 {
		return fmt.Errorf("image %s: no data", img.Ref)
	}
	uri := "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(img.Data)
	c.current().Image(c.px(r.X), c.px(r.Y), c.px(r.Width), c.px(r.Height), uri, `preserveAspectRatio="none"`)
	return nil
}

// Pages closes the last page and returns every document.
func (c *Canvas) Pages() [][]byte {
	c.finish()
	out := make([][]byte, len(c.pages))
	for i, p := range c.pages {
		out[i] = p.Bytes()
	}
	return out
}

// Package record implements an in-memory canvas that keeps every drawing
// operation per page.
package record

import (
	"strconv"
	"strings"

	"github.com/flanksource/informe/layout"
	"github.com/johnfercher/maroto/v2/pkg/props"
)

type Kind string

const (
	KindFill  Kind = "fill"
	KindText  Kind = "text"
	KindImage Kind = "image"
)

// Op is one recorded drawing call.
type Op struct {
	Kind  Kind
	Rect  layout.Rect
	Color props.Color
	Run   layout.TextRun
	Image layout.Image
}

type Page struct {
	Number int
	Ops    []Op
}

// Canvas records operations. Measurement is delegated to the embedded
// Measurer, a layout.MonoMeasurer by default.
type Canvas struct {
	layout.Measurer
	// ImageErr, when set, decides whether DrawImage fails for an image.
	ImageErr func(img layout.Image) error
	pages    []Page
}

func New(m layout.Measurer) *Canvas {
	if m == nil {
		m = layout.MonoMeasurer{}
	}
	return &Canvas{Measurer: m}
}

func (c *Canvas) NewPage() {
	c.pages = append(c.pages, Page{Number: len(c.pages) + 1})
}

func (c *Canvas) current() *Page {
	if len(c.pages) == 0 {
		c.NewPage()
	}
	return &c.pages[len(c.pages)-1]
}

func (c *Canvas) FillRect(r layout.Rect, color props.Color) {
	p := c.current()
	p.Ops = append(p.Ops, Op{Kind: KindFill, Rect: r, Color: color})
}

func (c *Canvas) DrawText(run layout.TextRun) {
	p := c.current()
	p.Ops = append(p.Ops, Op{
		Kind:  KindText,
		Rect:  layout.Rect{X: run.X, Y: run.Y, Width: run.Width, Height: run.Height},
		Color: run.Color,
		Run:   run,
	})
}

func (c *Canvas) DrawImage(img layout.Image, r layout.Rect) error {
	if c.ImageErr != nil {
		if err := c.ImageErr(img); err != nil {
			return err
		}
	}
	p := c.current()
	p.Ops = append(p.Ops, Op{Kind: KindImage, Rect: r, Image: img})
	return nil
}

func (c *Canvas) Pages() []Page {
	return c.pages
}

func (c *Canvas) PageCount() int {
	return len(c.pages)
}

// Texts returns the text drawn on page n (1-based) in drawing order.
func (c *Canvas) Texts(n int) []string {
	if n < 1 || n > len(c.pages) {
		return nil
	}
	var texts []string
	for _, op := range c.pages[n-1].Ops {
		if op.Kind == KindText {
			texts = append(texts, op.Run.Text)
		}
	}
	return texts
}

// Images returns the recorded image operations of every page.
func (c *Canvas) Images() []Op {
	var ops []Op
	for _, p := range c.pages {
		for _, op := range p.Ops {
			if op.Kind == KindImage {
				ops = append(ops, op)
			}
		}
	}
	return ops
}

// FindText returns the first page containing a text run equal to s, or 0.
func (c *Canvas) FindText(s string) int {
	for _, p := range c.pages {
		for _, op := range p.Ops {
			if op.Kind == KindText && op.Run.Text == s {
				return p.Number
			}
		}
	}
	return 0
}

// String renders the text of every page, one line per run.
func (c *Canvas) String() string {
	var sb strings.Builder
	for _, p := range c.pages {
		sb.WriteString("--- page ")
		sb.WriteString(strconv.Itoa(p.Number))
		sb.WriteString(" ---\n")
		for _, t := range c.Texts(p.Number) {
			sb.WriteString(t)
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}

package layout

import (
	"math"

	"github.com/flanksource/commons/logger"
)

// epsilon absorbs floating point drift when comparing offsets.
const epsilon = 1e-6

// Cursor is the current page (1-based, the cover is page 1) and vertical
// offset on it.
type Cursor struct {
	Page int
	Y    float64
}

// PageDecorator paints the furniture of a freshly started content page.
type PageDecorator interface {
	OnNewPage(page int)
}

// Break records one content page start.
type Break struct {
	// Page is the page that was started.
	Page int
	// FromY is where the cursor was on the previous page.
	FromY float64
	// Required is the height of the unit that did not fit, 0 for explicit starts.
	Required float64
}

// Paginator owns the page break decision. It is the only caller of
// Canvas.NewPage once the cover is done.
type Paginator struct {
	geometry  Geometry
	canvas    Canvas
	decorator PageDecorator
	log       logger.Logger
	breaks    []Break
}

func NewPaginator(geometry Geometry, canvas Canvas, decorator PageDecorator, log logger.Logger) *Paginator {
	if log == nil {
		log = logger.GetLogger("layout")
	}
	return &Paginator{geometry: geometry, canvas: canvas, decorator: decorator, log: log}
}

func (p *Paginator) Geometry() Geometry {
	return p.geometry
}

// AtTop reports whether nothing has been placed on the cursor's page yet.
func (p *Paginator) AtTop(cur Cursor) bool {
	return cur.Y <= p.geometry.Top()+epsilon
}

// Fits reports whether a unit of height h fits below the cursor.
func (p *Paginator) Fits(cur Cursor, h float64) bool {
	return cur.Y+h <= p.geometry.Bottom()+epsilon
}

// EnsureSpace returns a cursor at which a unit of height h can be drawn,
// starting a new page when it does not fit below cur. A unit taller than a
// whole page is placed at the top of a page and reported; the caller is
// expected to clamp it.
func (p *Paginator) EnsureSpace(cur Cursor, h float64) Cursor {
	if p.Fits(cur, h) {
		return cur
	}
	if h > p.geometry.UsableHeight()+epsilon {
		p.log.Warnf("unit of %.1fmm exceeds the usable page height of %.1fmm", h, p.geometry.UsableHeight())
		if p.AtTop(cur) {
			return cur
		}
	}
	return p.startPage(cur, h)
}

// NewPage starts a content page unconditionally.
func (p *Paginator) NewPage(cur Cursor) Cursor {
	return p.startPage(cur, 0)
}

func (p *Paginator) startPage(cur Cursor, required float64) Cursor {
	next := Cursor{Page: cur.Page + 1, Y: p.geometry.Top()}
	p.canvas.NewPage()
	if p.decorator != nil {
		p.decorator.OnNewPage(next.Page)
	}
	p.breaks = append(p.breaks, Break{Page: next.Page, FromY: cur.Y, Required: required})
	p.log.Debugf("page %d started (offset %.1f, needed %.1f)", next.Page, cur.Y, required)
	return next
}

// Advance moves the cursor down by dy, never past the bottom of the page.
func (p *Paginator) Advance(cur Cursor, dy float64) Cursor {
	cur.Y = math.Min(cur.Y+dy, p.geometry.Bottom())
	return cur
}

// Breaks returns the page starts recorded so far.
func (p *Paginator) Breaks() []Break {
	return append([]Break(nil), p.breaks...)
}

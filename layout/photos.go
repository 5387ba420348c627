package layout

import (
	"fmt"
	"math"

	"github.com/flanksource/commons/logger"
	"github.com/flanksource/informe/api"
	"github.com/flanksource/informe/images"
)

// PhotoStyle sizes the photo grid, in mm.
type PhotoStyle struct {
	TileWidth   float64 `yaml:"tileWidth" json:"tileWidth"`
	TileHeight  float64 `yaml:"tileHeight" json:"tileHeight"`
	Gap         float64 `yaml:"gap" json:"gap"`
	LabelHeight float64 `yaml:"labelHeight" json:"labelHeight"`
}

func DefaultPhotoStyle() PhotoStyle {
	return PhotoStyle{TileWidth: 85, TileHeight: 64, Gap: 5, LabelHeight: 8}
}

func (s PhotoStyle) Validate(g Geometry) error {
	if s.TileWidth <= 0 || s.TileHeight <= 0 || s.Gap < 0 || s.LabelHeight < 0 {
		return fmt.Errorf("%w: photo tile %.1fx%.1f gap %.1f", ErrInvalidGeometry, s.TileWidth, s.TileHeight, s.Gap)
	}
	if s.LabelHeight+s.TileHeight > g.UsableHeight() {
		return fmt.Errorf("%w: photo row %.1fmm taller than usable height %.1fmm", ErrInvalidGeometry, s.LabelHeight+s.TileHeight, g.UsableHeight())
	}
	if s.TileWidth > g.UsableWidth() {
		return fmt.Errorf("%w: photo tile %.1fmm wider than usable width %.1fmm", ErrInvalidGeometry, s.TileWidth, g.UsableWidth())
	}
	return nil
}

// PerRow is the number of tiles that fit across the usable width.
func (s PhotoStyle) PerRow(usableWidth float64) int {
	return max(1, int(math.Floor((usableWidth+s.Gap+epsilon)/(s.TileWidth+s.Gap))))
}

// PhotoPlacement records where a photo was drawn.
type PhotoPlacement struct {
	Section string
	// SectionIndex is the position of the section in the report.
	SectionIndex int
	Ref          api.ImageRef
	Page         int
	Row          int
	Column       int
	// Tile is the slot; Frame is the fitted image inside it.
	Tile  Rect
	Frame Rect
}

// PhotoFailure is a photo that was skipped.
type PhotoFailure struct {
	Section      string
	SectionIndex int
	Ref          api.ImageRef
	Err          error
}

// PhotoEngine lays out a section's photographs in a fixed tile grid.
type PhotoEngine struct {
	canvas    Canvas
	paginator *Paginator
	style     PhotoStyle
	label     Style
	caption   string
	log       logger.Logger
}

// Render places photos in order, left to right. Each row is reserved as one
// unit; the first row also reserves the caption, which is repeated when a
// later row moves to a new page. Failed photos are skipped without leaving a
// gap.
func (e *PhotoEngine) Render(cur Cursor, section string, photos []images.Result) (Cursor, []PhotoPlacement, []PhotoFailure) {
	var failures []PhotoFailure
	queue := make([]images.Result, 0, len(photos))
	for _, p := range photos {
		if !p.OK() {
			failures = append(failures, e.skip(section, p.Ref, p.Err))
			continue
		}
		queue = append(queue, p)
	}
	if len(queue) == 0 {
		return cur, nil, failures
	}

	geometry := e.paginator.Geometry()
	perRow := e.style.PerRow(geometry.UsableWidth())
	captionPage := 0
	row := 0

	var placements []PhotoPlacement
	for len(queue) > 0 {
		need := e.style.TileHeight
		if cur.Page != captionPage {
			need += e.style.LabelHeight
		}
		next := e.paginator.EnsureSpace(cur, need)
		// the caption is drawn with the first tile that lands on a page
		pending := next.Page != captionPage
		top := next
		if pending {
			top.Y += e.style.LabelHeight
		}

		column := 0
		for column < perRow && len(queue) > 0 {
			photo := queue[0]
			queue = queue[1:]

			tile := Rect{
				X:      geometry.MarginLeft + float64(column)*(e.style.TileWidth+e.style.Gap),
				Y:      top.Y,
				Width:  e.style.TileWidth,
				Height: e.style.TileHeight,
			}
			frame := Fit(tile, photo.Width, photo.Height)
			img := Image{
				Ref:         photo.Ref.String(),
				Data:        photo.Data,
				Encoding:    photo.Encoding,
				PixelWidth:  photo.Width,
				PixelHeight: photo.Height,
			}
			if err := e.canvas.DrawImage(img, frame); err != nil {
				failures = append(failures, e.skip(section, photo.Ref, err))
				continue
			}
			if pending {
				e.drawCaption(next)
				captionPage = next.Page
				pending = false
			}
			placements = append(placements, PhotoPlacement{
				Section: section,
				Ref:     photo.Ref,
				Page:    next.Page,
				Row:     row,
				Column:  column,
				Tile:    tile,
				Frame:   frame,
			})
			column++
		}

		if column > 0 {
			cur = e.paginator.Advance(top, e.style.TileHeight+e.style.Gap)
			row++
		} else {
			cur = next
		}
	}
	return cur, placements, failures
}

func (e *PhotoEngine) drawCaption(cur Cursor) {
	if e.style.LabelHeight <= 0 {
		return
	}
	g := e.paginator.Geometry()
	box := Rect{X: g.MarginLeft, Y: cur.Y, Width: g.UsableWidth(), Height: e.style.LabelHeight}
	e.canvas.DrawText(e.label.Run(box, e.label.Text(e.caption)))
}

func (e *PhotoEngine) skip(section string, ref api.ImageRef, err error) PhotoFailure {
	e.log.Warnf("section %q: skipping photo %s: %v", section, ref, err)
	return PhotoFailure{Section: section, Ref: ref, Err: err}
}

// Fit centers an image of the given pixel size inside box, preserving its
// aspect ratio. Unknown sizes fill the box.
func Fit(box Rect, pixelWidth, pixelHeight int) Rect {
	if pixelWidth <= 0 || pixelHeight <= 0 {
		return box
	}
	scale := math.Min(box.Width/float64(pixelWidth), box.Height/float64(pixelHeight))
	w, h := float64(pixelWidth)*scale, float64(pixelHeight)*scale
	return Rect{X: box.X + (box.Width-w)/2, Y: box.Y + (box.Height-h)/2, Width: w, Height: h}
}

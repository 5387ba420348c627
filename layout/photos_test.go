package layout

import (
	"errors"
	"testing"

	"github.com/flanksource/informe/api"
	"github.com/flanksource/informe/images"
	"github.com/johnfercher/maroto/v2/pkg/consts/extension"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func okPhoto(ref string) images.Result {
	return images.Result{Ref: api.ImageRef(ref), Data: []byte{0xff}, Encoding: extension.Jpg, Width: 400, Height: 300}
}

func failedPhoto(ref string) images.Result {
	return images.Result{Ref: api.ImageRef(ref), Err: &images.ResolveError{Ref: api.ImageRef(ref), Stage: images.StageDetect, Err: images.ErrUnsupportedEncoding}}
}

func refs(placements []PhotoPlacement) []string {
	var out []string
	for _, p := range placements {
		out = append(out, p.Ref.String())
	}
	return out
}

func TestPhotosPerRow(t *testing.T) {
	s := DefaultPhotoStyle()
	assert.Equal(t, 2, s.PerRow(180))
	assert.Equal(t, 1, s.PerRow(60))
	assert.Equal(t, 3, PhotoStyle{TileWidth: 50, Gap: 5}.PerRow(160))
	assert.Equal(t, 3, PhotoStyle{TileWidth: 50, Gap: 5}.PerRow(163))
}

func TestPhotosSkipFailedWithoutGaps(t *testing.T) {
	f := newFixture(2)
	photos := []images.Result{okPhoto("a.jpg"), failedPhoto("b.gif"), okPhoto("c.jpg"), okPhoto("d.jpg")}
	_, placed, failed := f.photos.Render(Cursor{Page: 2, Y: 28}, "Fachada", photos)

	assert.Equal(t, []string{"a.jpg", "c.jpg", "d.jpg"}, refs(placed))
	require.Len(t, failed, 1)
	assert.Equal(t, api.ImageRef("b.gif"), failed[0].Ref)
	assert.True(t, errors.Is(failed[0].Err, images.ErrUnsupportedEncoding))

	assert.Equal(t, []int{0, 0, 1}, []int{placed[0].Row, placed[1].Row, placed[2].Row})
	assert.Equal(t, []int{0, 1, 0}, []int{placed[0].Column, placed[1].Column, placed[2].Column})
	assert.Equal(t, 15.0, placed[0].Tile.X)
	assert.Equal(t, 105.0, placed[1].Tile.X)
	assert.Equal(t, placed[0].Tile.Y, placed[1].Tile.Y)
	assert.Equal(t, placed[0].Tile.Y+64+5, placed[2].Tile.Y)
}

func TestPhotosDrawFailureIsSkipped(t *testing.T) {
	f := newFixture(2)
	f.canvas.failRef = "b.jpg"
	_, placed, failed := f.photos.Render(Cursor{Page: 2, Y: 28}, "Fachada", []images.Result{okPhoto("a.jpg"), okPhoto("b.jpg"), okPhoto("c.jpg")})

	assert.Equal(t, []string{"a.jpg", "c.jpg"}, refs(placed))
	assert.Equal(t, 1, placed[1].Column)
	require.Len(t, failed, 1)
	assert.Equal(t, api.ImageRef("b.jpg"), failed[0].Ref)
}

func TestPhotosAllFailedDrawNothing(t *testing.T) {
	f := newFixture(2)
	cur := Cursor{Page: 2, Y: 100}
	next, placed, failed := f.photos.Render(cur, "X", []images.Result{failedPhoto("a.gif")})
	assert.Equal(t, cur, next)
	assert.Empty(t, placed)
	assert.Len(t, failed, 1)
	assert.Empty(t, f.canvas.texts)
}

func TestPhotosCaptionRepeatsAfterBreak(t *testing.T) {
	f := newFixture(2)
	g := f.paginator.Geometry()
	style := f.photos.style
	start := Cursor{Page: 2, Y: g.Bottom() - style.LabelHeight - style.TileHeight - 1}

	cur, placed, _ := f.photos.Render(start, "Fachada", []images.Result{okPhoto("a.jpg"), okPhoto("b.jpg"), okPhoto("c.jpg")})
	require.Len(t, placed, 3)
	assert.Equal(t, 2, placed[0].Page)
	assert.Equal(t, 2, placed[1].Page)
	assert.Equal(t, 3, placed[2].Page)
	assert.Equal(t, g.Top()+style.LabelHeight, placed[2].Tile.Y)
	assert.Equal(t, 3, cur.Page)

	caption := f.photos.label.Text("Fotografías")
	assert.Equal(t, 2, f.canvas.count(caption))
}

func TestPhotosCaptionNeedsADrawnTile(t *testing.T) {
	f := newFixture(2)
	g := f.paginator.Geometry()
	style := f.photos.style
	start := Cursor{Page: 2, Y: g.Bottom() - style.LabelHeight - style.TileHeight - 1}
	f.canvas.failRef = "c.jpg"

	_, placed, failed := f.photos.Render(start, "Fachada", []images.Result{okPhoto("a.jpg"), okPhoto("b.jpg"), okPhoto("c.jpg")})
	assert.Equal(t, []string{"a.jpg", "b.jpg"}, refs(placed))
	require.Len(t, failed, 1)

	caption := f.photos.label.Text("Fotografías")
	assert.Equal(t, 1, f.canvas.count(caption))
	for _, text := range f.canvas.texts {
		assert.Equal(t, 2, text.page, "unexpected text %q", text.run.Text)
	}
}

func TestPhotosCaptionDrawnWithFirstTile(t *testing.T) {
	f := newFixture(2)
	f.canvas.failRef = "a.jpg"
	f.photos.style.TileWidth = 180
	start := Cursor{Page: 2, Y: 28}

	_, placed, failed := f.photos.Render(start, "Fachada", []images.Result{okPhoto("a.jpg"), okPhoto("b.jpg")})
	require.Len(t, placed, 1)
	require.Len(t, failed, 1)
	assert.Equal(t, 0, placed[0].Row)
	assert.Equal(t, start.Y+f.photos.style.LabelHeight, placed[0].Tile.Y)

	caption, ok := f.canvas.find(f.photos.label.Text("Fotografías"))
	require.True(t, ok)
	assert.Equal(t, start.Y, caption.run.Y)
	assert.Equal(t, 1, f.canvas.count(f.photos.label.Text("Fotografías")))
}

func TestPhotosFirstRowReservesCaption(t *testing.T) {
	f := newFixture(2)
	g := f.paginator.Geometry()
	style := f.photos.style
	// room for a tile but not caption plus tile
	start := Cursor{Page: 2, Y: g.Bottom() - style.TileHeight - 1}

	_, placed, _ := f.photos.Render(start, "Fachada", []images.Result{okPhoto("a.jpg")})
	require.Len(t, placed, 1)
	assert.Equal(t, 3, placed[0].Page)
	caption, ok := f.canvas.find(f.photos.label.Text("Fotografías"))
	require.True(t, ok)
	assert.Equal(t, 3, caption.page)
}

func TestFit(t *testing.T) {
	box := Rect{X: 10, Y: 20, Width: 80, Height: 60}

	wide := Fit(box, 800, 300)
	assert.InDelta(t, 80, wide.Width, 1e-9)
	assert.InDelta(t, 30, wide.Height, 1e-9)
	assert.InDelta(t, 35, wide.Y, 1e-9)

	tall := Fit(box, 300, 600)
	assert.InDelta(t, 30, tall.Width, 1e-9)
	assert.InDelta(t, 60, tall.Height, 1e-9)
	assert.InDelta(t, 35, tall.X, 1e-9)

	assert.Equal(t, box, Fit(box, 0, 0))
}

func TestPhotoStyleValidate(t *testing.T) {
	g := DefaultGeometry()
	assert.NoError(t, DefaultPhotoStyle().Validate(g))
	assert.True(t, errors.Is(PhotoStyle{TileWidth: 50, TileHeight: 300, LabelHeight: 8}.Validate(g), ErrInvalidGeometry))
	assert.True(t, errors.Is(PhotoStyle{TileWidth: 500, TileHeight: 50}.Validate(g), ErrInvalidGeometry))
}

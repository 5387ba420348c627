package layout

import (
	"fmt"

	"github.com/flanksource/informe/api"
	"github.com/johnfercher/maroto/v2/pkg/props"
)

type drawnText struct {
	page int
	run  TextRun
}

type drawnImage struct {
	page int
	img  Image
	rect Rect
}

// testCanvas numbers pages like the cursor does, starting from startPage.
type testCanvas struct {
	MonoMeasurer
	page    int
	texts   []drawnText
	images  []drawnImage
	fills   []Rect
	failRef string
}

func newTestCanvas(startPage int) *testCanvas {
	return &testCanvas{page: startPage}
}

func (c *testCanvas) NewPage() { c.page++ }

func (c *testCanvas) FillRect(r Rect, _ props.Color) { c.fills = append(c.fills, r) }

func (c *testCanvas) DrawText(run TextRun) {
	c.texts = append(c.texts, drawnText{page: c.page, run: run})
}

func (c *testCanvas) DrawImage(img Image, r Rect) error {
	if img.Ref == c.failRef {
		return fmt.Errorf("cannot draw %s", img.Ref)
	}
	c.images = append(c.images, drawnImage{page: c.page, img: img, rect: r})
	return nil
}

func (c *testCanvas) find(text string) (drawnText, bool) {
	for _, t := range c.texts {
		if t.run.Text == text {
			return t, true
		}
	}
	return drawnText{}, false
}

func (c *testCanvas) count(text string) int {
	n := 0
	for _, t := range c.texts {
		if t.run.Text == text {
			n++
		}
	}
	return n
}

type pageRecorder struct {
	pages []int
}

func (p *pageRecorder) OnNewPage(n int) { p.pages = append(p.pages, n) }

type fixture struct {
	canvas    *testCanvas
	decorator *pageRecorder
	paginator *Paginator
	bands     *Bands
	grid      *GridEngine
	photos    *PhotoEngine
}

func newFixture(startPage int) *fixture {
	g := DefaultGeometry()
	c := newTestCanvas(startPage)
	d := &pageRecorder{}
	p := NewPaginator(g, c, d, nil)
	st := DefaultTheme().resolve()
	bands := NewBands(c, g, DefaultBandStyle(), st.section, st.summary)
	return &fixture{
		canvas:    c,
		decorator: d,
		paginator: p,
		bands:     bands,
		grid: &GridEngine{
			canvas:    c,
			paginator: p,
			bands:     bands,
			formatter: api.NewFormatter(api.Spanish()),
			style:     DefaultGridStyle(),
			label:     st.label,
			value:     st.value,
			rowAlt:    st.rowAlt,
			separator: st.separator,
			log:       p.log,
		},
		photos: &PhotoEngine{
			canvas:    c,
			paginator: p,
			style:     DefaultPhotoStyle(),
			label:     st.photos,
			caption:   "Fotografías",
			log:       p.log,
		},
	}
}

func items(n int) []api.FieldItem {
	out := make([]api.FieldItem, n)
	for i := range out {
		out[i] = api.FieldItem{Label: fmt.Sprintf("Campo %d", i+1), Value: fmt.Sprintf("Valor %d", i+1)}
	}
	return out
}

package pdf

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/jpeg"
	"strings"
	"testing"
	"time"

	"github.com/flanksource/informe/api"
	"github.com/flanksource/informe/images"
	"github.com/flanksource/informe/layout"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/extension"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMeasurer(t *testing.T) {
	m := NewMeasurer("")

	narrow := m.TextWidth("iiii", 10, fontstyle.Normal)
	wide := m.TextWidth("MMMM", 10, fontstyle.Normal)
	assert.Greater(t, wide, narrow)
	assert.InDelta(t, 2*wide, m.TextWidth("MMMM", 20, fontstyle.Normal), 1e-6)
	assert.Greater(t, m.TextWidth("Informe", 10, fontstyle.Bold), m.TextWidth("Informe", 10, fontstyle.Normal))
	// accented letters are single cp1252 glyphs
	assert.InDelta(t, m.TextWidth("Pagina", 10, fontstyle.Normal), m.TextWidth("Página", 10, fontstyle.Normal), 0.5)

	lines := m.SplitText("la cubierta presenta fisuras en el encuentro con el peto perimetral", 40, 10, fontstyle.Normal)
	require.Greater(t, len(lines), 1)
	for _, line := range lines {
		assert.LessOrEqual(t, m.TextWidth(line, 10, fontstyle.Normal), 40.0)
	}
	assert.InDelta(t, 10*layout.PointToMM*layout.LineSpacing, m.LineHeight(10), 1e-9)
}

func jpegBytes(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 64, 48))
	for x := 0; x < 64; x++ {
		for y := 0; y < 48; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 4), G: 90, B: uint8(y * 5), A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, img, nil))
	return buf.Bytes()
}

func TestBuilderRendersReport(t *testing.T) {
	report := api.Report{
		Title:      "Informe de inspeccion",
		Identifier: "INS-2024-001",
		Sections: []api.Section{
			{Title: "Inmueble", Items: []api.FieldItem{{Label: "Direccion", Value: "Calle Mayor 1"}}},
			{Title: "Cubiertas", Items: []api.FieldItem{{Label: "Tipo", Value: "Plana"}}, Photos: []api.ImageRef{"img1.jpg"}},
		},
	}
	r := images.MapResolver{"img1.jpg": jpegBytes(t)}

	g := layout.DefaultGeometry()
	b := NewBuilder(g,
		WithMetadata(Metadata{Title: report.Title, Author: "informe tests"}),
		WithCreationDate(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)))
	result, err := layout.New(b, layout.WithResolver(r, images.DefaultOptions())).Generate(context.Background(), report, nil)
	require.NoError(t, err)
	require.Len(t, result.Photos, 1)
	assert.Equal(t, result.Pages, b.PageCount())

	out, err := b.Output()
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))

	again, err := b.Output()
	require.NoError(t, err)
	assert.Equal(t, out, again)

	info, err := GetPDFInfo(out)
	require.NoError(t, err)
	assert.Equal(t, 2, info.Pages)
	assert.Equal(t, len(out), info.Size)

	pages, err := ExtractText(out)
	require.NoError(t, err)
	require.Len(t, pages, 2)
	for _, text := range []string{"Calle Mayor 1", "INS-2024-001", "Cubiertas", "Plana"} {
		assert.True(t, strings.Contains(pages[1], text), "page 2 should contain %q, got %q", text, pages[1])
	}
	// the cover carries no footer
	assert.NotContains(t, pages[0], "gina 1")
}

func TestBuilderImageFailureIsRecoverable(t *testing.T) {
	b := NewBuilder(layout.DefaultGeometry())
	b.NewPage()

	broken := layout.Image{Ref: "broken.png", Data: []byte("\x89PNG\r\n\x1a\nnot really"), Encoding: extension.Png}
	assert.Error(t, b.DrawImage(broken, layout.Rect{X: 10, Y: 10, Width: 50, Height: 40}))

	good := layout.Image{Ref: "ok.jpg", Data: jpegBytes(t), Encoding: extension.Jpg, PixelWidth: 64, PixelHeight: 48}
	require.NoError(t, b.DrawImage(good, layout.Rect{X: 10, Y: 60, Width: 64, Height: 48}))
	require.NoError(t, b.DrawImage(good, layout.Rect{X: 80, Y: 60, Width: 64, Height: 48}))

	b.FillRect(layout.Rect{X: 0, Y: 0, Width: 20, Height: 20}, props.Color{Red: 12, Green: 74, Blue: 110})
	b.DrawText(layout.TextRun{X: 10, Y: 120, Width: 100, Height: 6, Text: "Fotografías", Size: 10, Align: align.Left})

	out, err := b.Output()
	require.NoError(t, err)
	info, err := GetPDFInfo(out)
	require.NoError(t, err)
	assert.Equal(t, 1, info.Pages)
}

func TestGetPDFInfoRejectsGarbage(t *testing.T) {
	_, err := GetPDFInfo([]byte("not a pdf"))
	assert.Error(t, err)
	_, err = ExtractText([]byte("not a pdf"))
	assert.Error(t, err)
}

// Package pdf encodes laid out reports as PDF documents with gofpdf.
package pdf

import (
	"bytes"
	"fmt"
	"time"

	"github.com/flanksource/informe/layout"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/jung-kurt/gofpdf"
)

// Metadata is written to the document information dictionary.
type Metadata struct {
	Title    string
	Author   string
	Subject  string
	Creator  string
	Keywords string
}

// Builder is a layout.Canvas writing straight to a gofpdf document with
// absolute positioning. Pages break only when NewPage is called.
type Builder struct {
	*Measurer
	pdf      *gofpdf.Fpdf
	geometry layout.Geometry
	meta     Metadata
	created  time.Time
	compress bool
	images   map[string]bool
	output   []byte
}

// BuilderOption is a function that configures a Builder
type BuilderOption func(*Builder)

func WithMetadata(m Metadata) BuilderOption {
	return func(b *Builder) {
		b.meta = m
	}
}

// WithCreationDate fixes the creation date, making output reproducible
func WithCreationDate(t time.Time) BuilderOption {
	return func(b *Builder) {
		b.created = t
	}
}

func WithCompression(enabled bool) BuilderOption {
	return func(b *Builder) {
		b.compress = enabled
	}
}

// NewBuilder creates a document with pages of g's size.
func NewBuilder(g layout.Geometry, opts ...BuilderOption) *Builder {
	b := &Builder{geometry: g, compress: true, images: map[string]bool{}}
	for _, opt := range opts {
		opt(b)
	}

	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "mm",
		Size:           gofpdf.SizeType{Wd: g.PageWidth, Ht: g.PageHeight},
	})
	pdf.SetMargins(0, 0, 0)
	pdf.SetCellMargin(0)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetCompression(b.compress)
	if !b.created.IsZero() {
		pdf.SetCreationDate(b.created)
	}
	if b.meta.Title != "" {
		pdf.SetTitle(b.meta.Title, true)
	}
	if b.meta.Author != "" {
		pdf.SetAuthor(b.meta.Author, true)
	}
	if b.meta.Subject != "" {
		pdf.SetSubject(b.meta.Subject, true)
	}
	if b.meta.Keywords != "" {
		pdf.SetKeywords(b.meta.Keywords, true)
	}
	creator := b.meta.Creator
	if creator == "" {
		creator = "informe"
	}
	pdf.SetCreator(creator, true)

	b.pdf = pdf
	b.Measurer = newMeasurer(pdf, DefaultFontFamily)
	return b
}

func (b *Builder) NewPage() {
	b.pdf.AddPage()
}

func (b *Builder) ensurePage() {
	if b.pdf.PageNo() == 0 {
		b.pdf.AddPage()
	}
}

func (b *Builder) FillRect(r layout.Rect, color props.Color) {
	b.ensurePage()
	b.pdf.SetFillColor(color.Red, color.Green, color.Blue)
	b.pdf.Rect(r.X, r.Y, r.Width, r.Height, "F")
}

func (b *Builder) DrawText(run layout.TextRun) {
	b.ensurePage()
	b.setFont(run.Size, run.Style)
	b.pdf.SetTextColor(run.Color.Red, run.Color.Green, run.Color.Blue)
	b.pdf.SetXY(run.X, run.Y)
	b.pdf.CellFormat(run.Width, run.Height, b.tr(run.Text), "", 0, string(run.Align)+"M", false, 0, "")
}

// DrawImage places an accepted raster in r. Images are embedded once per
// reference. A failure leaves the document usable.
func (b *Builder) DrawImage(img layout.Image, r layout.Rect) error {
	b.ensurePage()
	opts := gofpdf.ImageOptions{ImageType: string(img.Encoding), ReadDpi: false}
	if !b.images[img.Ref] {
		b.pdf.RegisterImageOptionsReader(img.Ref, opts, bytes.NewReader(img.Data))
		if err := b.pdf.Error(); err != nil {
			b.pdf.ClearError()
			return fmt.Errorf("failed to embed image %s: %w", img.Ref, err)
		}
		b.images[img.Ref] = true
	}
	b.pdf.ImageOptions(img.Ref, r.X, r.Y, r.Width, r.Height, false, opts, 0, "")
	if err := b.pdf.Error(); err != nil {
		b.pdf.ClearError()
		return fmt.Errorf("failed to draw image %s: %w", img.Ref, err)
	}
	return nil
}

// PageCount returns the number of pages added so far.
func (b *Builder) PageCount() int {
	return b.pdf.PageCount()
}

// Output generates the final PDF content. It may be called more than once.
func (b *Builder) Output() ([]byte, error) {
	if b.output != nil {
		return b.output, nil
	}
	if err := b.pdf.Error(); err != nil {
		return nil, fmt.Errorf("failed to generate PDF: %w", err)
	}
	var buf bytes.Buffer
	if err := b.pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to generate PDF: %w", err)
	}
	b.output = buf.Bytes()
	return b.output, nil
}

package pdf

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// Info is basic information about a PDF
type Info struct {
	Pages int
	Size  int
}

// GetPDFInfo validates the document structure and counts its pages.
func GetPDFInfo(pdfData []byte) (Info, error) {
	ctx, err := api.ReadContext(bytes.NewReader(pdfData), model.NewDefaultConfiguration())
	if err != nil {
		return Info{}, fmt.Errorf("failed to read PDF: %w", err)
	}
	if err := ctx.EnsurePageCount(); err != nil {
		return Info{}, fmt.Errorf("failed to count pages: %w", err)
	}
	return Info{Pages: ctx.PageCount, Size: len(pdfData)}, nil
}

// ExtractText returns the plain text of every page, in page order.
func ExtractText(pdfData []byte) ([]string, error) {
	r, err := pdf.NewReader(bytes.NewReader(pdfData), int64(len(pdfData)))
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF: %w", err)
	}
	pages := make([]string, 0, r.NumPage())
	for i := 1; i <= r.NumPage(); i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			pages = append(pages, "")
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			return nil, fmt.Errorf("failed to extract text from page %d: %w", i, err)
		}
		pages = append(pages, strings.TrimSpace(text))
	}
	return pages, nil
}

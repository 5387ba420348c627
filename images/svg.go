package images

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"

	"github.com/flanksource/informe/api"
	"github.com/rustyoz/svg"
	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
)

func isSVG(data []byte) bool {
	head := data
	if len(head) > 1024 {
		head = head[:1024]
	}
	return bytes.Contains(bytes.ToLower(head), []byte("<svg"))
}

// RasterizeSVG renders an SVG document to PNG, widthPx wide with the height
// following the document aspect ratio.
func RasterizeSVG(data []byte, widthPx int) ([]byte, error) {
	if widthPx <= 0 {
		widthPx = 400
	}
	if err := checkSVG(data); err != nil {
		return nil, err
	}

	icon, err := oksvg.ReadIconStream(bytes.NewReader(data), oksvg.WarnErrorMode)
	if err != nil {
		return nil, fmt.Errorf("failed to parse SVG: %w", err)
	}
	w, h := icon.ViewBox.W, icon.ViewBox.H
	if w <= 0 || h <= 0 {
		// square fallback
		w, h = 100, 100
	}
	heightPx := max(1, int(float64(widthPx)*h/w))
	icon.SetTarget(0, 0, float64(widthPx), float64(heightPx))

	rgba := image.NewRGBA(image.Rect(0, 0, widthPx, heightPx))
	scanner := rasterx.NewScannerGV(widthPx, heightPx, rgba, rgba.Bounds())
	raster := rasterx.NewDasher(widthPx, heightPx, scanner)
	icon.Draw(raster, 1.0)

	var buf bytes.Buffer
	if err := png.Encode(&buf, rgba); err != nil {
		return nil, fmt.Errorf("failed to encode PNG: %w", err)
	}
	return buf.Bytes(), nil
}

// checkSVG rejects documents without any drawable element.
func checkSVG(data []byte) error {
	doc, err := svg.ParseSvg(string(data), "logo", 1.0)
	if err != nil {
		return fmt.Errorf("failed to parse SVG: %w", err)
	}
	if len(doc.Groups) == 0 && len(doc.Elements) == 0 {
		return fmt.Errorf("SVG has no drawable elements")
	}
	return nil
}

// LoadLogo resolves a cover logo. Unlike photos, SVG is accepted and
// rasterized to PNG widthPx wide.
func LoadLogo(ctx context.Context, r Resolver, ref api.ImageRef, widthPx int) Result {
	data, err := r.Resolve(ctx, ref)
	if err != nil {
		return Result{Ref: ref, Err: &ResolveError{Ref: ref, Stage: StageFetch, Err: err}}
	}
	if isSVG(data) {
		data, err = RasterizeSVG(data, widthPx)
		if err != nil {
			return Result{Ref: ref, Err: &ResolveError{Ref: ref, Stage: StageDecode, Err: err}}
		}
	}
	return Decode(ref, data)
}

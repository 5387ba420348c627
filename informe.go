// Package informe renders inspection reports to PDF, SVG or PNG pages.
//
// Render wires the pieces together: photo resolution (with an optional SQLite
// cache), the cover logo, the layout Assembler and one of the canvases.
package informe

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/flanksource/commons/logger"
	"github.com/flanksource/informe/api"
	"github.com/flanksource/informe/canvas/pdf"
	"github.com/flanksource/informe/canvas/record"
	"github.com/flanksource/informe/canvas/raster"
	"github.com/flanksource/informe/canvas/svg"
	"github.com/flanksource/informe/config"
	"github.com/flanksource/informe/images"
	"github.com/flanksource/informe/images/cache"
	"github.com/flanksource/informe/layout"
	"github.com/samber/lo"
)

// Options are per call collaborators that do not belong in the config file.
type Options struct {
	// BaseDir anchors relative photo paths, usually the report's directory.
	BaseDir string
	// Resolver replaces the file/HTTP fetcher, and bypasses the cache.
	Resolver images.Resolver
	// Cache is an already open photo cache; when nil one is opened from the
	// config unless caching is disabled.
	Cache *cache.Cache
}

// Document is a rendered report. PDF output has a single part, SVG and PNG one
// part per page.
type Document struct {
	Format string
	Parts  [][]byte
	Layout *layout.Result
}

// Render lays out report and encodes it in format.
func Render(ctx context.Context, report api.Report, cfg config.Config, format string, opts Options) (*Document, error) {
	format = strings.ToLower(format)
	if !lo.Contains(api.Formats, format) {
		return nil, fmt.Errorf("unsupported format %q, expected one of %s", format, strings.Join(api.Formats, ", "))
	}
	layoutOpts, err := cfg.LayoutOptions()
	if err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	g, _ := cfg.Frame()

	resolver, closeCache, err := newResolver(cfg, opts)
	if err != nil {
		return nil, err
	}
	defer closeCache()

	layoutOpts = append(layoutOpts, layout.WithResolver(resolver, cfg.Fetch))
	if report.Cover.Logo != "" {
		logo := images.LoadLogo(ctx, resolver, api.ImageRef(report.Cover.Logo), cfg.Output.LogoWidth)
		layoutOpts = append(layoutOpts, layout.WithLogo(logo))
	}

	doc := &Document{Format: format}
	switch format {
	case api.FormatPDF:
		b := pdf.NewBuilder(g, pdf.WithMetadata(pdf.Metadata{
			Title:   report.Title,
			Subject: report.Identifier,
			Author:  cfg.Output.Author,
		}))
		if doc.Layout, err = layout.New(b, layoutOpts...).Generate(ctx, report, nil); err != nil {
			return nil, err
		}
		out, err := b.Output()
		if err != nil {
			return nil, err
		}
		doc.Parts = [][]byte{out}
	case api.FormatSVG:
		c := svg.New(g, cfg.Output.Scale, report.Title)
		if doc.Layout, err = layout.New(c, layoutOpts...).Generate(ctx, report, nil); err != nil {
			return nil, err
		}
		doc.Parts = c.Pages()
	case api.FormatPNG:
		c, err := raster.New(g, cfg.Output.DPI)
		if err != nil {
			return nil, err
		}
		if doc.Layout, err = layout.New(c, layoutOpts...).Generate(ctx, report, nil); err != nil {
			return nil, err
		}
		if doc.Parts, err = c.Pages(); err != nil {
			return nil, err
		}
	}
	return doc, nil
}

// Plan lays out report without encoding it, measuring text with the PDF
// fonts so page assignments match Render's PDF output.
func Plan(ctx context.Context, report api.Report, cfg config.Config, opts Options) (*layout.Result, *record.Canvas, error) {
	layoutOpts, err := cfg.LayoutOptions()
	if err != nil {
		return nil, nil, fmt.Errorf("invalid configuration: %w", err)
	}
	resolver, closeCache, err := newResolver(cfg, opts)
	if err != nil {
		return nil, nil, err
	}
	defer closeCache()

	c := record.New(pdf.NewMeasurer(""))
	result, err := layout.New(c, append(layoutOpts, layout.WithResolver(resolver, cfg.Fetch))...).Generate(ctx, report, nil)
	if err != nil {
		return nil, nil, err
	}
	return result, c, nil
}

func newResolver(cfg config.Config, opts Options) (images.Resolver, func(), error) {
	noop := func() {}
	if opts.Resolver != nil {
		return opts.Resolver, noop, nil
	}
	fetcher := images.NewFetcher(opts.BaseDir, cfg.Fetch.PerImageTimeout)
	if opts.Cache != nil {
		return cache.NewResolver(opts.Cache, fetcher), noop, nil
	}
	if cfg.Cache.NoCache {
		return fetcher, noop, nil
	}
	c, err := cache.New(cfg.Cache)
	if err != nil {
		logger.Warnf("photo cache unavailable: %v", err)
		return fetcher, noop, nil
	}
	return cache.NewResolver(c, fetcher), func() { _ = c.Close() }, nil
}

// Paths returns the file names Write uses for path: path itself for a single
// part, otherwise name-1.ext, name-2.ext...
func (d *Document) Paths(path string) []string {
	if len(d.Parts) == 1 {
		return []string{path}
	}
	ext := filepath.Ext(path)
	if ext == "" {
		ext = "." + d.Format
	}
	base := strings.TrimSuffix(path, filepath.Ext(path))
	return lo.Times(len(d.Parts), func(i int) string {
		return fmt.Sprintf("%s-%d%s", base, i+1, ext)
	})
}

// Write stores the document under path and returns the files written.
func (d *Document) Write(path string) ([]string, error) {
	paths := d.Paths(path)
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	for i, p := range paths {
		if err := os.WriteFile(p, d.Parts[i], 0o644); err != nil {
			return paths[:i], fmt.Errorf("failed to write %s: %w", p, err)
		}
	}
	return paths, nil
}

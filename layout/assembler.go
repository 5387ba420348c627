package layout

import (
	"context"
	"fmt"

	"github.com/flanksource/commons/logger"
	"github.com/flanksource/informe/api"
	"github.com/flanksource/informe/images"
)

// Photos holds resolved photos keyed by section index, each in reference order.
type Photos map[int][]images.Result

// Result describes the laid out document.
type Result struct {
	Pages    int
	Rows     []RowPlacement
	Photos   []PhotoPlacement
	Failures []PhotoFailure
	Breaks   []Break
}

// PagesOf returns the distinct pages a section's rows landed on.
func (r Result) PagesOf(section int) []int {
	var pages []int
	for _, row := range r.Rows {
		if row.SectionIndex != section {
			continue
		}
		if len(pages) == 0 || pages[len(pages)-1] != row.Page {
			pages = append(pages, row.Page)
		}
	}
	return pages
}

// Assembler drives one report through cover, sections and summary.
// An Assembler holds no state between Generate calls.
type Assembler struct {
	canvas   Canvas
	geometry Geometry
	locale   api.Locale
	theme    Theme
	grid     GridStyle
	photo    PhotoStyle
	band     BandStyle
	columns  int
	resolver images.Resolver
	fetch    images.Options
	logo     *images.Result
	log      logger.Logger
}

// New creates an Assembler drawing onto canvas.
func New(canvas Canvas, opts ...Option) *Assembler {
	a := &Assembler{
		canvas:   canvas,
		geometry: DefaultGeometry(),
		locale:   api.Spanish(),
		theme:    DefaultTheme(),
		grid:     DefaultGridStyle(),
		photo:    DefaultPhotoStyle(),
		band:     DefaultBandStyle(),
		columns:  api.DefaultColumns,
		fetch:    images.DefaultOptions(),
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.log == nil {
		a.log = logger.GetLogger("layout")
	}
	return a
}

func (a *Assembler) validate() error {
	if err := a.geometry.Validate(); err != nil {
		return err
	}
	if err := a.grid.Validate(); err != nil {
		return err
	}
	if err := a.photo.Validate(a.geometry); err != nil {
		return err
	}
	if a.band.TitleHeight <= 0 || a.band.SectionGap < 0 || a.band.SummaryHeight <= 0 || a.band.SummaryGap < 0 {
		return fmt.Errorf("%w: band sizes", ErrInvalidGeometry)
	}
	if a.band.TitleHeight+a.band.SectionGap > a.geometry.UsableHeight() {
		return fmt.Errorf("%w: section title band taller than usable height", ErrInvalidGeometry)
	}
	if a.band.SummaryHeight+a.band.SummaryGap > a.geometry.UsableHeight() {
		return fmt.Errorf("%w: summary band taller than usable height", ErrInvalidGeometry)
	}
	if a.columns < 1 {
		return fmt.Errorf("%w: default columns %d", ErrInvalidColumns, a.columns)
	}
	return a.theme.Validate()
}

// Generate lays out report onto the canvas. photos may be nil when a resolver
// was configured with WithResolver; sections without resolved photos draw no
// photo grid and report every reference as a failure.
func (a *Assembler) Generate(ctx context.Context, report api.Report, photos Photos) (*Result, error) {
	if err := a.validate(); err != nil {
		return nil, err
	}
	if photos == nil && a.resolver != nil {
		photos = a.prefetch(ctx, report)
	}

	st := a.theme.resolve()
	formatter := api.NewFormatter(a.locale)
	decorator := NewHeaderFooter(a.canvas, a.geometry, a.locale, report.Title, report.Identifier, st.header, st.footer)
	paginator := NewPaginator(a.geometry, a.canvas, decorator, a.log)
	bands := NewBands(a.canvas, a.geometry, a.band, st.section, st.summary)
	grid := &GridEngine{
		canvas:    a.canvas,
		paginator: paginator,
		bands:     bands,
		formatter: formatter,
		style:     a.grid,
		label:     st.label,
		value:     st.value,
		rowAlt:    st.rowAlt,
		separator: st.separator,
		log:       a.log,
	}
	photoEngine := &PhotoEngine{
		canvas:    a.canvas,
		paginator: paginator,
		style:     a.photo,
		label:     st.photos,
		caption:   a.locale.PhotosLabel,
		log:       a.log,
	}

	result := &Result{}
	cur := a.drawCover(report, formatter, st.cover)
	cur = paginator.NewPage(cur)

	defaultColumns := a.columns
	if report.Columns > 0 {
		defaultColumns = report.Columns
	}

	for i, section := range report.Sections {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("generation cancelled at section %q: %w", section.Title, err)
		}

		var rows []RowPlacement
		var err error
		cur, rows, err = grid.Render(cur, section, section.ColumnsOr(defaultColumns))
		if err != nil {
			return nil, err
		}
		for j := range rows {
			rows[j].SectionIndex = i
		}
		result.Rows = append(result.Rows, rows...)

		if !section.HasPhotos() {
			continue
		}
		resolved, ok := photos[i]
		if !ok {
			resolved = unresolved(section.Photos)
		}
		var placed []PhotoPlacement
		var failed []PhotoFailure
		cur, placed, failed = photoEngine.Render(cur, section.Title, resolved)
		for j := range placed {
			placed[j].SectionIndex = i
		}
		for j := range failed {
			failed[j].SectionIndex = i
		}
		result.Photos = append(result.Photos, placed...)
		result.Failures = append(result.Failures, failed...)
	}

	if report.Summary != nil {
		cur = paginator.EnsureSpace(cur, bands.SummaryHeight())
		value := formatter.Amount(report.Summary.Value, report.Summary.Currency)
		cur = bands.DrawSummary(cur, report.Summary.Label, value)
	}

	result.Pages = cur.Page
	result.Breaks = paginator.Breaks()
	a.log.Infof("report %q laid out on %d pages: %d rows, %d photos, %d skipped",
		report.Title, result.Pages, len(result.Rows), len(result.Photos), len(result.Failures))
	return result, nil
}

// prefetch resolves every photo of the report in one bounded batch and
// splits the results back per section.
func (a *Assembler) prefetch(ctx context.Context, report api.Report) Photos {
	results := images.Prefetch(ctx, a.resolver, report.Photos(), a.fetch)
	photos := Photos{}
	offset := 0
	for i, section := range report.Sections {
		if n := len(section.Photos); n > 0 {
			photos[i] = results[offset : offset+n]
			offset += n
		}
	}
	return photos
}

func unresolved(refs []api.ImageRef) []images.Result {
	results := make([]images.Result, len(refs))
	for i, ref := range refs {
		results[i] = images.Result{Ref: ref, Err: &images.ResolveError{Ref: ref, Stage: images.StageFetch, Err: fmt.Errorf("not resolved")}}
	}
	return results
}

package layout

import (
	"github.com/flanksource/commons/logger"
	"github.com/flanksource/informe/api"
	"github.com/flanksource/informe/images"
)

// Option configures an Assembler
type Option func(*Assembler)

// WithLogger sets the logger used for placement decisions
func WithLogger(log logger.Logger) Option {
	return func(a *Assembler) {
		a.log = log
	}
}

func WithGeometry(g Geometry) Option {
	return func(a *Assembler) {
		a.geometry = g
	}
}

func WithLocale(l api.Locale) Option {
	return func(a *Assembler) {
		a.locale = l
	}
}

func WithTheme(t Theme) Option {
	return func(a *Assembler) {
		a.theme = t
	}
}

func WithGridStyle(s GridStyle) Option {
	return func(a *Assembler) {
		a.grid = s
	}
}

func WithPhotoStyle(s PhotoStyle) Option {
	return func(a *Assembler) {
		a.photo = s
	}
}

func WithBandStyle(s BandStyle) Option {
	return func(a *Assembler) {
		a.band = s
	}
}

// WithColumns sets the grid column count for reports and sections that do not set one
func WithColumns(n int) Option {
	return func(a *Assembler) {
		a.columns = n
	}
}

// WithResolver lets Generate fetch photos itself when none are passed in
func WithResolver(r images.Resolver, opts images.Options) Option {
	return func(a *Assembler) {
		a.resolver = r
		a.fetch = opts
	}
}

// WithLogo sets an already resolved cover logo
func WithLogo(logo images.Result) Option {
	return func(a *Assembler) {
		a.logo = &logo
	}
}

// Package config loads rendering settings from YAML and command line flags.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/flanksource/informe/api"
	"github.com/flanksource/informe/images"
	"github.com/flanksource/informe/images/cache"
	"github.com/flanksource/informe/layout"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"
)

var pageSizes = map[string]pagesize.Type{
	"a3":     pagesize.A3,
	"a4":     pagesize.A4,
	"a5":     pagesize.A5,
	"letter": pagesize.Letter,
	"legal":  pagesize.Legal,
}

// Output controls the encoders.
type Output struct {
	// Scale is SVG user units per millimetre.
	Scale float64 `yaml:"scale,omitempty" json:"scale,omitempty"`
	// DPI of PNG pages.
	DPI    float64 `yaml:"dpi,omitempty" json:"dpi,omitempty"`
	Author string  `yaml:"author,omitempty" json:"author,omitempty"`
	// LogoWidth is the pixel width SVG logos are rasterized at.
	LogoWidth int `yaml:"logoWidth,omitempty" json:"logoWidth,omitempty"`
}

type Config struct {
	// PageSize names a maroto page size; when set it overrides Geometry's page dimensions.
	PageSize string            `yaml:"pageSize,omitempty" json:"pageSize,omitempty"`
	Geometry layout.Geometry   `yaml:"geometry" json:"geometry"`
	Grid     layout.GridStyle  `yaml:"grid" json:"grid"`
	Photos   layout.PhotoStyle `yaml:"photos" json:"photos"`
	Bands    layout.BandStyle  `yaml:"bands" json:"bands"`
	Theme    layout.Theme      `yaml:"theme" json:"theme"`
	Locale   string            `yaml:"locale,omitempty" json:"locale,omitempty"`
	Columns  int               `yaml:"columns,omitempty" json:"columns,omitempty"`
	Fetch    images.Options    `yaml:"fetch" json:"fetch"`
	Cache    cache.Config      `yaml:"cache" json:"cache"`
	Output   Output            `yaml:"output" json:"output"`
}

func Default() Config {
	return Config{
		PageSize: "a4",
		Geometry: layout.DefaultGeometry(),
		Grid:     layout.DefaultGridStyle(),
		Photos:   layout.DefaultPhotoStyle(),
		Bands:    layout.DefaultBandStyle(),
		Theme:    layout.DefaultTheme(),
		Locale:   "es",
		Columns:  api.DefaultColumns,
		Fetch:    images.DefaultOptions(),
		Cache:    cache.Config{TTL: 7 * 24 * time.Hour},
		Output:   Output{Scale: 4, DPI: 150, LogoWidth: 600},
	}
}

// Load reads path over the defaults. Unknown keys are rejected.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func Parse(data []byte) (Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, nil
}

// Frame returns the page geometry with PageSize applied.
func (c Config) Frame() (layout.Geometry, error) {
	g := c.Geometry
	if c.PageSize == "" {
		return g, nil
	}
	size, ok := pageSizes[strings.ToLower(c.PageSize)]
	if !ok {
		return g, fmt.Errorf("unknown page size %q", c.PageSize)
	}
	g.PageWidth, g.PageHeight = pagesize.GetDimensions(size)
	return g, nil
}

func (c Config) Validate() error {
	g, err := c.Frame()
	if err != nil {
		return err
	}
	if _, err := api.LocaleFor(c.Locale); err != nil {
		return err
	}
	if c.Columns < 1 {
		return fmt.Errorf("%w: columns %d", layout.ErrInvalidColumns, c.Columns)
	}
	if c.Fetch.Concurrency < 1 {
		return fmt.Errorf("fetch concurrency must be at least 1, got %d", c.Fetch.Concurrency)
	}
	if err := g.Validate(); err != nil {
		return err
	}
	if err := c.Grid.Validate(); err != nil {
		return err
	}
	if err := c.Photos.Validate(g); err != nil {
		return err
	}
	return c.Theme.Validate()
}

// LayoutOptions converts the configuration to Assembler options.
func (c Config) LayoutOptions() ([]layout.Option, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	g, _ := c.Frame()
	locale, _ := api.LocaleFor(c.Locale)
	return []layout.Option{
		layout.WithGeometry(g),
		layout.WithLocale(locale),
		layout.WithTheme(c.Theme),
		layout.WithGridStyle(c.Grid),
		layout.WithPhotoStyle(c.Photos),
		layout.WithBandStyle(c.Bands),
		layout.WithColumns(c.Columns),
	}, nil
}

// BindPFlags registers the flags most often overridden per run.
func BindPFlags(flags *pflag.FlagSet, c *Config) {
	flags.StringVar(&c.PageSize, "page-size", c.PageSize, "Page size: a3, a4, a5, letter, legal")
	flags.StringVar(&c.Locale, "locale", c.Locale, "Locale for values and captions: es, en")
	flags.IntVar(&c.Columns, "columns", c.Columns, "Grid columns for sections that do not set their own")
	flags.BoolVar(&c.Grid.AlternateRows, "alternate-rows", c.Grid.AlternateRows, "Shade alternate grid rows")
	flags.BoolVar(&c.Grid.Separators, "separators", c.Grid.Separators, "Draw separators between grid cells")

	flags.IntVar(&c.Fetch.Concurrency, "concurrency", c.Fetch.Concurrency, "Photos fetched in parallel")
	flags.DurationVar(&c.Fetch.PerImageTimeout, "photo-timeout", c.Fetch.PerImageTimeout, "Timeout for a single photo")
	flags.DurationVar(&c.Fetch.TotalTimeout, "fetch-timeout", c.Fetch.TotalTimeout, "Timeout for fetching all photos")

	flags.StringVar(&c.Cache.DBPath, "cache-path", c.Cache.DBPath, "Photo cache database (default ~/.cache/informe.db)")
	flags.DurationVar(&c.Cache.TTL, "cache-ttl", c.Cache.TTL, "Photo cache TTL")
	flags.BoolVar(&c.Cache.NoCache, "no-cache", c.Cache.NoCache, "Disable the photo cache")

	flags.Float64Var(&c.Output.DPI, "dpi", c.Output.DPI, "Resolution of PNG pages")
	flags.StringVar(&c.Output.Author, "author", c.Output.Author, "PDF author metadata")
}

func (c Config) String() string {
	data, err := yaml.Marshal(c)
	if err != nil {
		return err.Error()
	}
	return string(data)
}

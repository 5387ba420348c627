package api

import "time"

// Report is everything a single generation call lays out: the cover page, the
// ordered sections and an optional closing summary band.
//
// Sections arrive already filtered and ordered by the data-loading collaborator;
// the layout engine never re-orders or drops them.
type Report struct {
	// Title is the running document title printed on the cover and in every header band.
	Title string `json:"title" yaml:"title"`
	// Identifier is the report reference printed on the right of the header band.
	Identifier string `json:"identifier,omitempty" yaml:"identifier,omitempty"`
	// Columns is the grid column count used by sections that do not set their own.
	Columns  int       `json:"columns,omitempty" yaml:"columns,omitempty"`
	Cover    CoverInfo `json:"cover,omitempty" yaml:"cover,omitempty"`
	Sections []Section `json:"sections" yaml:"sections"`
	Summary  *Summary  `json:"summary,omitempty" yaml:"summary,omitempty"`
}

// CoverInfo holds the content of the first, full-bleed page.
type CoverInfo struct {
	Title    string     `json:"title,omitempty" yaml:"title,omitempty"`
	Subtitle string     `json:"subtitle,omitempty" yaml:"subtitle,omitempty"`
	Address  string     `json:"address,omitempty" yaml:"address,omitempty"`
	Date     *time.Time `json:"date,omitempty" yaml:"date,omitempty"`
	// Logo is an image reference (PNG, JPEG or SVG) drawn above the title.
	Logo string `json:"logo,omitempty" yaml:"logo,omitempty"`
}

// Section is a named block of the report: a grid of label/value fields followed
// by an optional photo grid.
type Section struct {
	Title string `json:"title" yaml:"title"`
	// Columns overrides Report.Columns for this section; 0 means inherit.
	Columns int         `json:"columns,omitempty" yaml:"columns,omitempty"`
	Items   []FieldItem `json:"items,omitempty" yaml:"items,omitempty"`
	Photos  []ImageRef  `json:"photos,omitempty" yaml:"photos,omitempty"`
}

// HasPhotos reports whether the section carries a trailing photo grid.
func (s Section) HasPhotos() bool {
	return len(s.Photos) > 0
}

// ColumnsOr returns the section column count, falling back to def.
func (s Section) ColumnsOr(def int) int {
	if s.Columns > 0 {
		return s.Columns
	}
	return def
}

// FieldItem is one label/value cell of a section grid. Value is a Displayable:
// nil, bool, an ISO date string or time.Time, any integer or float, or a string.
type FieldItem struct {
	Key   string      `json:"key,omitempty" yaml:"key,omitempty"`
	Label string      `json:"label" yaml:"label"`
	Value interface{} `json:"value" yaml:"value"`
}

// ImageRef is an opaque reference (URL or path) resolvable to raw image bytes.
type ImageRef string

func (r ImageRef) String() string {
	return string(r)
}

// Summary is the single aggregate value printed after the last section.
type Summary struct {
	Label string  `json:"label" yaml:"label"`
	Value float64 `json:"value" yaml:"value"`
	// Currency is printed after the value; empty uses the locale default.
	Currency string `json:"currency,omitempty" yaml:"currency,omitempty"`
}

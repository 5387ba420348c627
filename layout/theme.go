package layout

import (
	"github.com/flanksource/informe/api/tailwind"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/props"
)

// Theme styles each band of the report with Tailwind utility classes.
type Theme struct {
	Cover     string `yaml:"cover" json:"cover"`
	Header    string `yaml:"header" json:"header"`
	Footer    string `yaml:"footer" json:"footer"`
	Section   string `yaml:"section" json:"section"`
	Label     string `yaml:"label" json:"label"`
	Value     string `yaml:"value" json:"value"`
	RowAlt    string `yaml:"rowAlt" json:"rowAlt"`
	Separator string `yaml:"separator" json:"separator"`
	Photos    string `yaml:"photos" json:"photos"`
	Summary   string `yaml:"summary" json:"summary"`
}

func DefaultTheme() Theme {
	return Theme{
		Cover:     "bg-sky-900 text-white text-3xl font-bold",
		Header:    "bg-slate-700 text-white text-xs px-2",
		Footer:    "text-slate-500 text-xs text-center",
		Section:   "bg-sky-800 text-white font-bold text-base px-2",
		Label:     "text-slate-500 text-[9pt] font-bold",
		Value:     "text-slate-900 text-[10pt]",
		RowAlt:    "bg-slate-100",
		Separator: "bg-slate-200",
		Photos:    "text-sky-800 text-sm font-bold uppercase",
		Summary:   "bg-amber-400 text-slate-900 font-bold text-lg px-3",
	}
}

// Validate checks every class string resolves to known colors.
func (t Theme) Validate() error {
	for _, s := range []string{t.Cover, t.Header, t.Footer, t.Section, t.Label, t.Value, t.RowAlt, t.Separator, t.Photos, t.Summary} {
		if err := tailwind.Validate(s); err != nil {
			return err
		}
	}
	return nil
}

// Style is a theme entry resolved to drawing properties.
type Style struct {
	// Fill is nil when the band has no background.
	Fill      *props.Color
	Color     props.Color
	Size      float64 // points
	FontStyle fontstyle.Type
	Align     align.Type
	// Inset is the horizontal padding in mm.
	Inset     float64
	Transform string
}

var black = props.Color{}

// ResolveStyle converts Tailwind classes into a Style. defaultSize applies
// when no text-size utility is present.
func ResolveStyle(classes string, defaultSize float64) Style {
	tw := tailwind.ParseStyle(classes)
	style := Style{
		Color:     black,
		Size:      defaultSize,
		FontStyle: fontstyle.Normal,
		Align:     align.Left,
		Transform: tw.TextTransform,
	}
	if tw.Background != "" {
		if c, ok := hexColor(tw.Background); ok {
			style.Fill = &c
		}
	}
	if tw.Foreground != "" {
		if c, ok := hexColor(tw.Foreground); ok {
			style.Color = c
		}
	}
	if tw.FontSize > 0 {
		style.Size = tailwind.Points(tw.FontSize)
	}
	switch {
	case tw.Bold && tw.Italic:
		style.FontStyle = fontstyle.BoldItalic
	case tw.Bold:
		style.FontStyle = fontstyle.Bold
	case tw.Italic:
		style.FontStyle = fontstyle.Italic
	}
	switch tw.Align {
	case "center":
		style.Align = align.Center
	case "right":
		style.Align = align.Right
	}
	_, right, _, left := tw.Padding.Or(0)
	style.Inset = tailwind.Millimeters((left + right) / 2)
	return style
}

func hexColor(hex string) (props.Color, bool) {
	r, g, b, err := tailwind.RGB(hex)
	if err != nil {
		return props.Color{}, false
	}
	return props.Color{Red: r, Green: g, Blue: b}, true
}

// Text applies the style's text transform.
func (s Style) Text(text string) string {
	return tailwind.TransformText(text, s.Transform)
}

// Run builds a TextRun for a single line inside box.
func (s Style) Run(box Rect, text string) TextRun {
	return TextRun{
		X:      box.X,
		Y:      box.Y,
		Width:  box.Width,
		Height: box.Height,
		Text:   text,
		Size:   s.Size,
		Style:  s.FontStyle,
		Align:  s.Align,
		Color:  s.Color,
	}
}

// styles is the resolved theme of one generation.
type styles struct {
	cover, header, footer, section, label, value, rowAlt, separator, photos, summary Style
}

func (t Theme) resolve() styles {
	return styles{
		cover:     ResolveStyle(t.Cover, 26),
		header:    ResolveStyle(t.Header, 9),
		footer:    ResolveStyle(t.Footer, 8),
		section:   ResolveStyle(t.Section, 12),
		label:     ResolveStyle(t.Label, 9),
		value:     ResolveStyle(t.Value, 10),
		rowAlt:    ResolveStyle(t.RowAlt, 10),
		separator: ResolveStyle(t.Separator, 10),
		photos:    ResolveStyle(t.Photos, 10),
		summary:   ResolveStyle(t.Summary, 13),
	}
}

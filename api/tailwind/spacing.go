package tailwind

import (
	"strconv"
	"strings"
)

// RootFontPoints is the size of 1rem on the printed page.
const RootFontPoints = 12.0

// TailwindSpacing defines the Tailwind CSS spacing scale in rem units
var TailwindSpacing = map[string]float64{
	"0":   0,
	"px":  0.0625, // 1px
	"0.5": 0.125,
	"1":   0.25,
	"1.5": 0.375,
	"2":   0.5,
	"2.5": 0.625,
	"3":   0.75,
	"3.5": 0.875,
	"4":   1,
	"5":   1.25,
	"6":   1.5,
	"8":   2,
	"10":  2.5,
	"12":  3,
	"16":  4,
}

// TailwindFontSizes defines Tailwind font size scale in rem units
var TailwindFontSizes = map[string]float64{
	"xs":   0.75,
	"sm":   0.875,
	"base": 1,
	"lg":   1.125,
	"xl":   1.25,
	"2xl":  1.5,
	"3xl":  1.875,
	"4xl":  2.25,
	"5xl":  3,
}

// Points converts rem to typographic points.
func Points(rem float64) float64 {
	return rem * RootFontPoints
}

// Millimeters converts rem to mm.
func Millimeters(rem float64) float64 {
	return Points(rem) * 25.4 / 72
}

var paddingSides = map[string][4]bool{
	"p":  {true, true, true, true},
	"px": {false, true, false, true},
	"py": {true, false, true, false},
	"pt": {true, false, false, false},
	"pr": {false, true, false, false},
	"pb": {false, false, true, false},
	"pl": {false, false, false, true},
}

// ParsePadding parses a Tailwind padding utility class
// Returns padding values in rem units for each side (top, right, bottom, left)
// Returns nil values for sides that are not set
func ParsePadding(class string) (top, right, bottom, left *float64) {
	prefix, valueStr, ok := strings.Cut(class, "-")
	if !ok {
		return nil, nil, nil, nil
	}
	sides, ok := paddingSides[prefix]
	if !ok {
		return nil, nil, nil, nil
	}

	value, exists := TailwindSpacing[valueStr]
	if !exists {
		custom, ok := unbracket(valueStr)
		if !ok {
			return nil, nil, nil, nil
		}
		v, err := parseCustomSpacing(custom)
		if err != nil {
			return nil, nil, nil, nil
		}
		value = v
	}

	out := [4]*float64{}
	for i, set := range sides {
		if set {
			v := value
			out[i] = &v
		}
	}
	return out[0], out[1], out[2], out[3]
}

// ParseFontSize parses a Tailwind font size utility class
// Returns the font size in rem units, or 0 if not a font size class
func ParseFontSize(class string) float64 {
	if !strings.HasPrefix(class, "text-") {
		return 0
	}
	sizeStr := strings.TrimPrefix(class, "text-")
	if size, exists := TailwindFontSizes[sizeStr]; exists {
		return size
	}
	if custom, ok := unbracket(sizeStr); ok {
		if v, err := parseCustomSpacing(custom); err == nil {
			return v
		}
	}
	return 0
}

// parseCustomSpacing parses custom spacing values like "10px", "1.5rem", "8pt", "24"
func parseCustomSpacing(value string) (float64, error) {
	value = strings.TrimSpace(value)

	units := []struct {
		suffix string
		toRem  float64
	}{
		{"rem", 1},
		{"px", 1.0 / 16},
		{"pt", 1 / RootFontPoints},
		{"em", 1},
	}
	for _, u := range units {
		if strings.HasSuffix(value, u.suffix) {
			v, err := strconv.ParseFloat(strings.TrimSuffix(value, u.suffix), 64)
			if err != nil {
				return 0, err
			}
			return v * u.toRem, nil
		}
	}

	// unitless values are rem
	return strconv.ParseFloat(value, 64)
}

// MergePadding merges padding values, with later values overriding earlier ones
// nil values don't override existing values
func MergePadding(existing, override Padding) Padding {
	result := existing
	if override.Top != nil {
		result.Top = override.Top
	}
	if override.Right != nil {
		result.Right = override.Right
	}
	if override.Bottom != nil {
		result.Bottom = override.Bottom
	}
	if override.Left != nil {
		result.Left = override.Left
	}
	return result
}

// Or returns the side values in rem, substituting def for unset sides.
func (p Padding) Or(def float64) (top, right, bottom, left float64) {
	get := func(v *float64) float64 {
		if v == nil {
			return def
		}
		return *v
	}
	return get(p.Top), get(p.Right), get(p.Bottom), get(p.Left)
}

package tailwind

import (
	"fmt"
	"strconv"
	"strings"
)

var colorPrefixes = []string{"bg-", "text-", "border-", "fill-", "stroke-"}

// ParseTailwindColor parses a Tailwind color class and returns the hex color value
// Supports formats like:
// - "red-500" -> base color with shade
// - "bg-blue-700" -> background color prefix
// - "red" -> defaults to 500 shade
// - "black", "white", "transparent" -> special colors
// - "#1e293b" -> returned as-is
func ParseTailwindColor(colorClass string) (string, error) {
	if colorClass == "" {
		return "", fmt.Errorf("empty color class")
	}

	colorName := colorClass
	for _, prefix := range colorPrefixes {
		if strings.HasPrefix(colorClass, prefix) {
			colorName = strings.TrimPrefix(colorClass, prefix)
			break
		}
	}

	if color, ok := TailwindSpecialColors[colorName]; ok {
		return color, nil
	}
	if arbitrary, ok := unbracket(colorName); ok {
		return arbitrary, nil
	}

	parts := strings.Split(colorName, "-")
	switch len(parts) {
	case 1:
		if shades, ok := TailwindColors[parts[0]]; ok {
			return shades["500"], nil
		}
	case 2:
		if shades, ok := TailwindColors[parts[0]]; ok {
			if hex, ok := shades[parts[1]]; ok {
				return hex, nil
			}
			return "", fmt.Errorf("invalid shade '%s' for color '%s'", parts[1], parts[0])
		}
	}
	// Not a Tailwind color, might be a hex color
	return colorName, nil
}

// Color converts a Tailwind color class to a hex string, "" for transparent.
// Unparseable classes are returned unchanged.
func Color(colorClass string) string {
	hex, err := ParseTailwindColor(colorClass)
	if err != nil {
		return colorClass
	}
	if hex == "transparent" {
		return ""
	}
	return hex
}

// RGB decodes "#rrggbb" or "#rgb".
func RGB(hex string) (r, g, b int, err error) {
	h := strings.TrimPrefix(hex, "#")
	if len(h) == 3 {
		h = string([]byte{h[0], h[0], h[1], h[1], h[2], h[2]})
	}
	if len(h) != 6 {
		return 0, 0, 0, fmt.Errorf("invalid hex color %q", hex)
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("invalid hex color %q: %w", hex, err)
	}
	return int(v >> 16 & 0xff), int(v >> 8 & 0xff), int(v & 0xff), nil
}

func unbracket(s string) (string, bool) {
	if strings.HasPrefix(s, "[") && strings.HasSuffix(s, "]") {
		return strings.TrimSuffix(strings.TrimPrefix(s, "["), "]"), true
	}
	return "", false
}

// Style is the subset of Tailwind utilities a report band understands.
type Style struct {
	Foreground string // hex, empty when unset
	Background string // hex, empty when unset or transparent
	Bold       bool
	Italic     bool
	// FontSize in rem, 0 when unset
	FontSize float64
	// Align is "left", "center" or "right", empty when unset
	Align   string
	Padding Padding
	// TextTransform is "uppercase", "lowercase", "capitalize" or empty
	TextTransform string
}

// Padding in rem per side, nil when unset.
type Padding struct {
	Top, Right, Bottom, Left *float64
}

// ParseStyle parses a Tailwind style string and returns a Style struct
func ParseStyle(styleStr string) Style {
	style := Style{}

	for _, class := range strings.Fields(styleStr) {
		switch {
		case strings.HasPrefix(class, "text-"):
			if size := ParseFontSize(class); size > 0 {
				style.FontSize = size
			} else if align, ok := textAlign[class]; ok {
				style.Align = align
			} else {
				style.Foreground = Color(class)
			}
		case strings.HasPrefix(class, "bg-"):
			style.Background = Color(class)
		case strings.HasPrefix(class, "p"):
			top, right, bottom, left := ParsePadding(class)
			style.Padding = MergePadding(style.Padding, Padding{top, right, bottom, left})
		}

		switch class {
		case "bold", "font-bold", "font-semibold", "font-medium":
			style.Bold = true
		case "font-normal":
			style.Bold = false
		case "italic":
			style.Italic = true
		case "not-italic":
			style.Italic = false
		case "uppercase", "lowercase", "capitalize":
			style.TextTransform = class
		case "normal-case":
			style.TextTransform = ""
		}
	}

	return style
}

var textAlign = map[string]string{
	"text-left":   "left",
	"text-center": "center",
	"text-right":  "right",
}

// Validate reports the first color class in styleStr that names a Tailwind
// family with an unknown shade, or a color that does not decode as hex.
func Validate(styleStr string) error {
	for _, class := range strings.Fields(styleStr) {
		if !strings.HasPrefix(class, "bg-") && !(strings.HasPrefix(class, "text-") && ParseFontSize(class) == 0 && textAlign[class] == "") {
			continue
		}
		hex, err := ParseTailwindColor(class)
		if err != nil {
			return err
		}
		if hex == "transparent" || hex == "currentColor" {
			continue
		}
		if _, _, _, err := RGB(hex); err != nil {
			return fmt.Errorf("%s: %w", class, err)
		}
	}
	return nil
}

// TransformText applies text transformation based on the transform type
func TransformText(text string, transform string) string {
	switch transform {
	case "uppercase":
		return strings.ToUpper(text)
	case "lowercase":
		return strings.ToLower(text)
	case "capitalize":
		return capitalizeWords(text)
	default:
		return text
	}
}

func capitalizeWords(text string) string {
	words := strings.Fields(text)
	for i, word := range words {
		runes := []rune(word)
		words[i] = strings.ToUpper(string(runes[0])) + string(runes[1:])
	}
	return strings.Join(words, " ")
}

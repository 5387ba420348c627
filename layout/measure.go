package layout

import (
	"strings"
	"unicode/utf8"

	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
)

const (
	// PointToMM converts font points to page millimetres.
	PointToMM = 25.4 / 72
	// LineSpacing is the line box height as a multiple of the font size.
	LineSpacing = 1.2
	// Ellipsis marks truncated text.
	Ellipsis = "..."
)

// LineHeight is the shared line box formula used by every Measurer.
func LineHeight(fontSize float64) float64 {
	return fontSize * PointToMM * LineSpacing
}

// WidthFunc measures a single line.
type WidthFunc func(s string) float64

// WrapWords greedily wraps text to maxWidth. Explicit newlines are kept, and
// words wider than maxWidth are broken between runes. The result always has
// at least one line.
func WrapWords(text string, maxWidth float64, width WidthFunc) []string {
	var lines []string
	for _, paragraph := range strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n") {
		lines = append(lines, wrapParagraph(paragraph, maxWidth, width)...)
	}
	if len(lines) == 0 {
		return []string{""}
	}
	return lines
}

func wrapParagraph(paragraph string, maxWidth float64, width WidthFunc) []string {
	words := strings.Fields(paragraph)
	if len(words) == 0 {
		return []string{""}
	}

	var lines []string
	current := ""
	for _, word := range words {
		candidate := word
		if current != "" {
			candidate = current + " " + word
		}
		if width(candidate) <= maxWidth {
			current = candidate
			continue
		}
		if current != "" {
			lines = append(lines, current)
			current = ""
		}
		if width(word) <= maxWidth {
			current = word
			continue
		}
		pieces := breakWord(word, maxWidth, width)
		lines = append(lines, pieces[:len(pieces)-1]...)
		current = pieces[len(pieces)-1]
	}
	if current != "" {
		lines = append(lines, current)
	}
	return lines
}

// breakWord splits a word into rune runs that fit maxWidth; every run holds at
// least one rune so a zero or tiny width still terminates.
func breakWord(word string, maxWidth float64, width WidthFunc) []string {
	var pieces []string
	start := 0
	for start < len(word) {
		end := start
		_, size := utf8.DecodeRuneInString(word[end:])
		end += size
		for end < len(word) {
			_, size := utf8.DecodeRuneInString(word[end:])
			if width(word[start:end+size]) > maxWidth {
				break
			}
			end += size
		}
		pieces = append(pieces, word[start:end])
		start = end
	}
	return pieces
}

// Truncate shortens s so that s plus Ellipsis fits maxWidth. Strings that
// already fit are returned unchanged.
func Truncate(s string, maxWidth float64, width WidthFunc) string {
	if width(s) <= maxWidth {
		return s
	}
	return ellipsize([]rune(s), len([]rune(s))-1, maxWidth, width)
}

// Ellipsize always suffixes s with Ellipsis, dropping trailing runes until the
// result fits maxWidth.
func Ellipsize(s string, maxWidth float64, width WidthFunc) string {
	runes := []rune(s)
	return ellipsize(runes, len(runes), maxWidth, width)
}

func ellipsize(runes []rune, n int, maxWidth float64, width WidthFunc) string {
	for ; n > 0; n-- {
		candidate := strings.TrimRight(string(runes[:n]), " ") + Ellipsis
		if width(candidate) <= maxWidth {
			return candidate
		}
	}
	return Ellipsis
}

// MonoMeasurer measures every rune with the same advance, expressed as a
// fraction of the font size. It is deterministic and font-free.
type MonoMeasurer struct {
	// Advance per rune in em; 0.5 when unset.
	Advance float64
}

func (m MonoMeasurer) advance() float64 {
	if m.Advance <= 0 {
		return 0.5
	}
	return m.Advance
}

func (m MonoMeasurer) TextWidth(text string, fontSize float64, _ fontstyle.Type) float64 {
	return float64(utf8.RuneCountInString(text)) * m.advance() * fontSize * PointToMM
}

func (m MonoMeasurer) SplitText(text string, maxWidth, fontSize float64, style fontstyle.Type) []string {
	return WrapWords(text, maxWidth, func(s string) float64 {
		return m.TextWidth(s, fontSize, style)
	})
}

func (m MonoMeasurer) LineHeight(fontSize float64) float64 {
	return LineHeight(fontSize)
}

package api

import (
	"strings"
	"unicode"
)

// PrettifyFieldName turns a field key ("building_year", "roofType",
// "área-útil") into a caption ("Building Year", "Roof Type", "Área Útil").
func PrettifyFieldName(key string) string {
	words := strings.FieldsFunc(key, func(r rune) bool {
		return r == '_' || r == '-' || r == '.' || unicode.IsSpace(r)
	})
	if len(words) == 1 {
		words = SplitCamelCase(words[0])
	}
	for i, w := range words {
		words[i] = titleWord(w)
	}
	return strings.Join(words, " ")
}

// SplitCamelCase breaks s before every upper-case rune that follows a
// lower-case one. Runs of capitals ("HTTPRequest") stay together.
func SplitCamelCase(s string) []string {
	runes := []rune(s)
	var words []string
	start := 0
	for i := 1; i < len(runes); i++ {
		if unicode.IsUpper(runes[i]) && unicode.IsLower(runes[i-1]) {
			words = append(words, string(runes[start:i]))
			start = i
		}
	}
	if start < len(runes) {
		words = append(words, string(runes[start:]))
	}
	return words
}

func titleWord(w string) string {
	runes := []rune(strings.ToLower(w))
	if len(runes) == 0 {
		return ""
	}
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}

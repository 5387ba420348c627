package api

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
)

// Locale carries the tokens and conventions used to turn Displayable values
// and fixed captions into text.
type Locale struct {
	Tag         language.Tag
	Yes         string
	No          string
	Empty       string
	DateLayout  string
	PageLabel   string // fmt pattern taking the page number
	PhotosLabel string
	Currency    string
}

// Spanish is the default locale of inspection reports.
func Spanish() Locale {
	return Locale{
		Tag:         language.Spanish,
		Yes:         "Sí",
		No:          "No",
		Empty:       "-",
		DateLayout:  "02/01/2006",
		PageLabel:   "Página %d",
		PhotosLabel: "Fotografías",
		Currency:    "€",
	}
}

func English() Locale {
	return Locale{
		Tag:         language.English,
		Yes:         "Yes",
		No:          "No",
		Empty:       "-",
		DateLayout:  "01/02/2006",
		PageLabel:   "Page %d",
		PhotosLabel: "Photographs",
		Currency:    "€",
	}
}

// LocaleFor resolves a BCP 47 name ("es", "es-ES", "en-GB") to a Locale.
func LocaleFor(name string) (Locale, error) {
	if name == "" {
		return Spanish(), nil
	}
	tag, err := language.Parse(name)
	if err != nil {
		return Locale{}, fmt.Errorf("invalid locale %q: %w", name, err)
	}
	base, _ := tag.Base()
	switch strings.ToLower(base.String()) {
	case "es":
		l := Spanish()
		l.Tag = tag
		return l, nil
	case "en":
		l := English()
		l.Tag = tag
		return l, nil
	}
	return Locale{}, fmt.Errorf("unsupported locale %q", name)
}

// Page formats the footer caption for page n.
func (l Locale) Page(n int) string {
	return fmt.Sprintf(l.PageLabel, n)
}

package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"time"

	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// ErrUnformattable is returned for values that have no Displayable rendering.
var ErrUnformattable = errors.New("value cannot be displayed")

var isoDate = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}([T ]\d{2}:\d{2}(:\d{2}(\.\d+)?)?(Z|[+-]\d{2}:?\d{2})?)?$`)

// Formatter renders Displayable values for a locale.
type Formatter struct {
	Locale  Locale
	printer *message.Printer
}

func NewFormatter(l Locale) *Formatter {
	return &Formatter{Locale: l, printer: message.NewPrinter(l.Tag)}
}

func (f *Formatter) p() *message.Printer {
	if f.printer == nil {
		f.printer = message.NewPrinter(f.Locale.Tag)
	}
	return f.printer
}

// Format returns the display string for a field value:
//   - nil renders as the placeholder dash
//   - booleans as the yes/no tokens
//   - ISO-like date strings and time.Time as localized dates
//   - numbers with the locale thousands separator
//   - other strings as-is
func (f *Formatter) Format(value interface{}) (string, error) {
	switch v := value.(type) {
	case nil:
		return f.Locale.Empty, nil
	case bool:
		if v {
			return f.Locale.Yes, nil
		}
		return f.Locale.No, nil
	case *bool:
		if v == nil {
			return f.Locale.Empty, nil
		}
		return f.Format(*v)
	case string:
		return f.formatString(v), nil
	case *string:
		if v == nil {
			return f.Locale.Empty, nil
		}
		return f.formatString(*v), nil
	case time.Time:
		return f.Date(v), nil
	case *time.Time:
		if v == nil {
			return f.Locale.Empty, nil
		}
		return f.Date(*v), nil
	case json.Number:
		if i, err := v.Int64(); err == nil {
			return f.Integer(i), nil
		}
		fl, err := v.Float64()
		if err != nil {
			return "", fmt.Errorf("%w: json number %q", ErrUnformattable, v.String())
		}
		return f.Float(fl, 2), nil
	case fmt.Stringer:
		return v.String(), nil
	}

	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return f.Integer(rv.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return f.p().Sprintf("%v", number.Decimal(rv.Uint())), nil
	case reflect.Float32, reflect.Float64:
		return f.Float(rv.Float(), 2), nil
	case reflect.Ptr:
		if rv.IsNil() {
			return f.Locale.Empty, nil
		}
		return f.Format(rv.Elem().Interface())
	}
	return "", fmt.Errorf("%w: %T", ErrUnformattable, value)
}

func (f *Formatter) formatString(s string) string {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return f.Locale.Empty
	}
	if isoDate.MatchString(trimmed) {
		if t, ok := parseISO(trimmed); ok {
			return f.Date(t)
		}
	}
	return s
}

func parseISO(s string) (time.Time, bool) {
	for _, layout := range []string{DateFormat, RFC3339Format, DateTimeFormat, "2006-01-02T15:04:05", "2006-01-02T15:04"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// Date formats t with the locale date layout.
func (f *Formatter) Date(t time.Time) string {
	return t.Format(f.Locale.DateLayout)
}

// Integer formats n with locale digit grouping.
func (f *Formatter) Integer(n int64) string {
	return f.p().Sprintf("%v", number.Decimal(n))
}

// Float formats v with locale grouping and at most digits fraction digits.
func (f *Formatter) Float(v float64, digits int) string {
	return f.p().Sprintf("%v", number.Decimal(v, number.MaxFractionDigits(digits)))
}

// Amount formats a monetary value with exactly two fraction digits followed by
// the currency symbol.
func (f *Formatter) Amount(v float64, currency string) string {
	if currency == "" {
		currency = f.Locale.Currency
	}
	s := f.p().Sprintf("%v", number.Decimal(v, number.MinFractionDigits(2), number.MaxFractionDigits(2)))
	if currency == "" {
		return s
	}
	return s + " " + currency
}

package api

// Output format constants
const (
	FormatPDF = "pdf"
	FormatSVG = "svg"
	FormatPNG = "png"
)

// Date layouts recognised in Displayable string values
const (
	DateTimeFormat = "2006-01-02 15:04:05"
	DateFormat     = "2006-01-02"
	RFC3339Format  = "2006-01-02T15:04:05Z07:00"
)

// DefaultColumns is the grid column count when neither the report nor the
// section sets one.
const DefaultColumns = 3

// Formats lists the output encodings accepted by Render.
var Formats = []string{FormatPDF, FormatSVG, FormatPNG}

package images

import (
	"fmt"

	"github.com/h2non/filetype"
	"github.com/johnfercher/maroto/v2/pkg/consts/extension"
)

// Detect identifies the encoding from the leading magic bytes. File names and
// content types are never consulted.
func Detect(data []byte) (extension.Type, error) {
	if len(data) == 0 {
		return "", fmt.Errorf("%w: empty data", ErrUnsupportedEncoding)
	}
	kind, err := filetype.Match(data)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnsupportedEncoding, err)
	}
	if kind == filetype.Unknown {
		return "", fmt.Errorf("%w: unknown format", ErrUnsupportedEncoding)
	}
	switch kind.MIME.Value {
	case "image/jpeg":
		return extension.Jpg, nil
	case "image/png":
		return extension.Png, nil
	}
	return "", fmt.Errorf("%w: %s", ErrUnsupportedEncoding, kind.Extension)
}

// IsSVG sniffs an SVG document, used for the cover logo only.
func IsSVG(data []byte) bool {
	return isSVG(data)
}

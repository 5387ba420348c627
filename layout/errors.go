package layout

import "errors"

var (
	// ErrInvalidGeometry is returned when the page cannot hold a single atomic unit.
	ErrInvalidGeometry = errors.New("invalid page geometry")
	// ErrInvalidColumns is returned for grids with fewer than one column.
	ErrInvalidColumns = errors.New("grid needs at least one column")
)

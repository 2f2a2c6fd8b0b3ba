package fixture

import "errors"

// Sentinel kinds for fixture errors.
var (
	ErrLoadFixture    = errors.New("load catalog fixture")
	ErrInvalidFixture = errors.New("invalid catalog fixture")
)

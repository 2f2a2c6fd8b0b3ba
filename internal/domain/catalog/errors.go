package catalog

import "errors"

// Sentinel error kinds for this package. These allow errors.Is from callers.
var (
	ErrInvalidCatalog = errors.New("invalid catalog")
	ErrBookNotFound   = errors.New("book not found")
)

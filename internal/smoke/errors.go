package smoke

import "errors"

// Error constants.
var (
	ErrUnhealthy    = errors.New("storefront unhealthy")
	ErrRequest      = errors.New("storefront request failed")
	ErrMismatch     = errors.New("storefront response mismatch")
	ErrVerification = errors.New("smoke verification failed")
)

package tui

import "errors"

// Error constants.
var (
	ErrBrowse = errors.New("terminal browser failed")
)

package session

import "errors"

// ErrSessionStore is returned when the session cookie cannot be read or written.
var ErrSessionStore = errors.New("session store failure")

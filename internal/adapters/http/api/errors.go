package api

import "errors"

var (
	// ErrServe indicates a failure of the HTTP server itself.
	ErrServe = errors.New("serve http")
	// ErrBadRequest indicates an unparseable or invalid request body.
	ErrBadRequest = errors.New("bad request")
)

package domain

import "errors"

// Sentinel errors for the domain layer.
var (
	ErrNotFound     = errors.New("domain: not found")
	ErrBadRequest   = errors.New("domain: bad request")
	ErrConflict     = errors.New("domain: conflict")
	ErrUnauthorized = errors.New("domain: unauthorized")
	ErrForbidden    = errors.New("domain: forbidden")
	ErrRender       = errors.New("domain: render failed")
)

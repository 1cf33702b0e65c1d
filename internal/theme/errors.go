package theme

import "errors"

var (
	// ErrNotFound is returned when a theme directory or manifest is missing.
	ErrNotFound = errors.New("theme: not found")

	// ErrInvalidManifest is returned when a manifest cannot be parsed or
	// lacks a required key.
	ErrInvalidManifest = errors.New("theme: invalid manifest")
)

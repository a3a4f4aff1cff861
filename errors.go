package bemselector

import "errors"

// Common errors used throughout the bemselector package
var (
	// ErrConfigValidation is returned when configuration validation fails.
	ErrConfigValidation = errors.New("configuration validation failed")
	// ErrUnknownFormat indicates an output format other than text, json, yaml or xml.
	ErrUnknownFormat = errors.New("unknown output format")
)

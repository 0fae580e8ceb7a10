package models

import "errors"

// Service errors. Every failure crossing a service boundary wraps exactly one
// of these, so handlers can map them to HTTP statuses with errors.Is.
var (
	ErrUnsupportedFormat = errors.New("unsupported image format")
	ErrSourceNotFound    = errors.New("source file not found")
	ErrNoValidInput      = errors.New("no valid input files")
	ErrImageProcessing   = errors.New("image processing failed")
	ErrNoValidPages      = errors.New("no valid pages selected")
	ErrEmptyContent      = errors.New("empty text content")
)

package models

import "errors"

// Custom errors
var (
	ErrUnknownPosition     = errors.New("unknown position category")
	ErrInsufficientSamples = errors.New("insufficient training samples")
	ErrNotFound            = errors.New("record not found")
)

package services

import "errors"

// Analysis service errors
var (
	ErrDatasetNotFound = errors.New("dataset not found")
	ErrMissingInput    = errors.New("both yearly input files are required")
	ErrEmptyInput      = errors.New("input file is empty")
)

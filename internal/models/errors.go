package models

import "errors"

// Custom errors
var (
	ErrInvalidDate         = errors.New("date must be formatted as YYYY-MM-DD")
	ErrUpstreamUnavailable = errors.New("upstream data unavailable")
	ErrNotFound            = errors.New("record not found")
)

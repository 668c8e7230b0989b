package parser

import "errors"

// ErrNilReport is returned when an ingestor is called without a report.
var ErrNilReport = errors.New("nil permutation report")

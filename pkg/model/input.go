package model

import "io"

// PermutationInput carries the documents of one permutation. SizeMap is
// required; SplitPoints and Dependencies may be nil.
type PermutationInput struct {
	PermutationID int
	SizeMap       io.Reader
	SplitPoints   io.Reader
	Dependencies  io.Reader
}

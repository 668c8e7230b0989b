package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSuggestion_String(t *testing.T) {
	s := Suggestion{Rule: "large_leftovers", Severity: SeverityWarning, Message: "40% of the code is in leftovers"}
	assert.Equal(t, "[warning] large_leftovers: 40% of the code is in leftovers", s.String())
}

func TestShare(t *testing.T) {
	assert.Equal(t, 0.0, Share(10, 0))
	assert.Equal(t, 25.0, Share(1, 4))
}

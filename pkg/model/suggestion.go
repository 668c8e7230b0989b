package model

import "fmt"

// Severity grades a suggestion.
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
)

// Suggestion is a size hint derived from a ReportSummary.
type Suggestion struct {
	// Rule names the check that produced the suggestion.
	Rule     string   `json:"rule"`
	Severity Severity `json:"severity"`

	// Breakdown is the id of the breakdown the hint is about.
	Breakdown string `json:"breakdown,omitempty"`

	// Subject is the class, package or category concerned, if any.
	Subject string `json:"subject,omitempty"`

	// Share is the subject's percentage of the total program size.
	Share float64 `json:"share"`

	Message string `json:"message"`
}

// String renders the suggestion on one line.
func (s Suggestion) String() string {
	return fmt.Sprintf("[%s] %s: %s", s.Severity, s.Rule, s.Message)
}

// Share returns part as a percentage of total, or 0 for an empty total.
func Share(part, total int64) float64 {
	if total <= 0 {
		return 0
	}
	return float64(part) * 100 / float64(total)
}

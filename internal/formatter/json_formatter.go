package formatter

import (
	"encoding/json"
	"io"

	"github.com/compile-report/pkg/model"
)

// JSONFormatter writes the summary as one JSON document.
type JSONFormatter struct {
	Indent string
}

// Name returns "json".
func (f *JSONFormatter) Name() string { return "json" }

// Format writes s as JSON.
func (f *JSONFormatter) Format(w io.Writer, s *model.ReportSummary) error {
	enc := json.NewEncoder(w)
	if f.Indent != "" {
		enc.SetIndent("", f.Indent)
	}
	return enc.Encode(s)
}

package formatter

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/dustin/go-humanize"

	"github.com/compile-report/pkg/model"
)

// TextFormatter writes a human readable report with sizes in SI units.
type TextFormatter struct {
	// Breakdowns restricts output to the listed breakdown ids.
	Breakdowns []string
}

// Name returns "text".
func (f *TextFormatter) Name() string { return "text" }

// Format writes s as aligned text.
func (f *TextFormatter) Format(w io.Writer, s *model.ReportSummary) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)

	fmt.Fprintf(tw, "=== Permutation %d ===\n", s.PermutationID)
	fmt.Fprintf(tw, "Classes:\t%s\n", humanize.Comma(int64(s.ClassCount)))
	fmt.Fprintf(tw, "Packages:\t%s\n", humanize.Comma(int64(s.PackageCount)))
	if !s.AnalyzedAt.IsZero() {
		fmt.Fprintf(tw, "Analyzed:\t%s\n", s.AnalyzedAt.Format("2006-01-02 15:04:05 MST"))
	}

	if len(s.SplitPoints) > 0 {
		fmt.Fprintln(tw)
		fmt.Fprintln(tw, "=== Split Points ===")
		for _, sp := range s.SplitPoints {
			fmt.Fprintf(tw, "  %d\t%s\n", sp.ID, sp.Location)
		}
		if len(s.InitialLoadSequence) > 0 {
			seq := make([]string, len(s.InitialLoadSequence))
			for i, id := range s.InitialLoadSequence {
				seq[i] = fmt.Sprint(id)
			}
			fmt.Fprintf(tw, "  Initial load sequence:\t%s\n", strings.Join(seq, ", "))
		}
	}

	for i := range s.Breakdowns {
		b := &s.Breakdowns[i]
		if !f.selected(b.ID) {
			continue
		}
		fmt.Fprintln(tw)
		writeBreakdown(tw, b)
	}

	if len(s.Suggestions) > 0 {
		fmt.Fprintln(tw)
		fmt.Fprintln(tw, "=== Suggestions ===")
		for _, sg := range s.Suggestions {
			fmt.Fprintf(tw, "  %s\n", sg)
		}
	}

	if len(s.DependencyGraphs) > 0 {
		fmt.Fprintln(tw)
		fmt.Fprintf(tw, "Dependency graphs:\t%s\n", strings.Join(s.DependencyGraphs, ", "))
	}
	return tw.Flush()
}

func (f *TextFormatter) selected(id string) bool {
	if len(f.Breakdowns) == 0 {
		return true
	}
	for _, want := range f.Breakdowns {
		if want == id {
			return true
		}
	}
	return false
}

func writeBreakdown(w io.Writer, b *model.SliceSummary) {
	fmt.Fprintf(w, "=== %s: %s (%s) ===\n", b.ID, b.Description, formatBytes(b.TotalSize))

	fmt.Fprintln(w, "  Categories:")
	for _, kind := range model.AllCategoryKinds() {
		size := b.Categories[kind.String()]
		if size == 0 {
			continue
		}
		fmt.Fprintf(w, "    %s\t%s\t%s\n", kind.Description(), formatBytes(size), percent(size, b.TotalSize))
	}

	if len(b.Literals) > 0 {
		fmt.Fprintln(w, "  Literals:")
		for _, kind := range model.AllLiteralKinds() {
			if size, ok := b.Literals[kind.String()]; ok {
				fmt.Fprintf(w, "    %s\t%s\t%s\n", kind.String(), formatBytes(size), percent(size, b.TotalSize))
			}
		}
	}

	writeEntries(w, "Top packages", b.TopPackages, b.TotalSize)
	writeEntries(w, "Top classes", b.TopClasses, b.TotalSize)
	writeEntries(w, "Top methods", b.TopMethods, b.TotalSize)
}

func writeEntries(w io.Writer, title string, entries []model.SizeEntry, total int64) {
	if len(entries) == 0 {
		return
	}
	fmt.Fprintf(w, "  %s:\n", title)
	for i, e := range entries {
		fmt.Fprintf(w, "    %2d. %s\t%s\t%s\n", i+1, truncateString(e.Name, 80), formatBytes(e.Size), percent(e.Size, total))
	}
}

func formatBytes(n int64) string {
	if n < 0 {
		return "-" + humanize.Bytes(uint64(-n))
	}
	return humanize.Bytes(uint64(n))
}

func percent(part, total int64) string {
	if total <= 0 {
		return "-"
	}
	return fmt.Sprintf("%.1f%%", float64(part)*100/float64(total))
}

func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}

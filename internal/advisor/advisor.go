// Package advisor derives size hints from permutation summaries.
package advisor

import (
	"fmt"
	"strings"

	"github.com/compile-report/pkg/model"
)

// Advisor generates suggestions based on a permutation summary.
type Advisor struct {
	rules []Rule
}

// Rule represents a suggestion rule.
type Rule struct {
	Name        string
	Description string
	// Threshold is a percentage of the total program size.
	Threshold float64
	Check     RuleCheckFunc
}

// RuleCheckFunc reports the suggestions of rule r for summary s.
type RuleCheckFunc func(r *Rule, s *model.ReportSummary) []model.Suggestion

// NewAdvisor creates a new Advisor with default rules.
func NewAdvisor() *Advisor {
	return &Advisor{rules: DefaultRules()}
}

// NewAdvisorWithRules creates a new Advisor with custom rules.
func NewAdvisorWithRules(rules []Rule) *Advisor {
	return &Advisor{rules: rules}
}

// Advise runs every rule over s. A summary without a total breakdown
// yields no suggestions.
func (a *Advisor) Advise(s *model.ReportSummary) []model.Suggestion {
	suggestions := make([]model.Suggestion, 0)
	if s == nil || totalSize(s) <= 0 {
		return suggestions
	}

	for i := range a.rules {
		rule := &a.rules[i]
		if rule.Check != nil {
			suggestions = append(suggestions, rule.Check(rule, s)...)
		}
	}
	return suggestions
}

// DefaultRules returns the default set of size rules.
func DefaultRules() []Rule {
	return []Rule{
		{
			Name:        "large_leftovers",
			Description: "Code needed by more than one split point ends up in the leftovers fragment",
			Threshold:   30,
			Check:       checkLeftovers,
		},
		{
			Name:        "large_initial_download",
			Description: "Split points exist but most code is still downloaded up front",
			Threshold:   80,
			Check:       checkInitialDownload,
		},
		{
			Name:        "empty_split_point",
			Description: "A split point has no exclusive code",
			Check:       checkEmptySplitPoints,
		},
		{
			Name:        "generated_serializers",
			Description: "Generated RPC serializers and proxies are large",
			Threshold:   10,
			Check:       checkCategory(model.CategoryRPCGen),
		},
		{
			Name:        "jre_emulation",
			Description: "JRE emulation is a large part of the program",
			Threshold:   25,
			Check:       checkCategory(model.CategoryJRE),
		},
		{
			Name:        "dominant_class",
			Description: "A single class is a large part of the program",
			Threshold:   10,
			Check:       checkDominantClasses,
		},
	}
}

func totalSize(s *model.ReportSummary) int64 {
	if b := s.Breakdown(model.BreakdownTotal); b != nil {
		return b.TotalSize
	}
	return 0
}

func checkLeftovers(r *Rule, s *model.ReportSummary) []model.Suggestion {
	b := s.Breakdown(model.BreakdownLeftovers)
	if b == nil {
		return nil
	}
	share := model.Share(b.TotalSize, totalSize(s))
	if share <= r.Threshold {
		return nil
	}
	return []model.Suggestion{{
		Rule:      r.Name,
		Severity:  model.SeverityWarning,
		Breakdown: b.ID,
		Share:     share,
		Message: fmt.Sprintf("%s%% of the program is shared between split points and loaded as leftovers; "+
			"consider merging split points that always load together", formatPercent(share)),
	}}
}

func checkInitialDownload(r *Rule, s *model.ReportSummary) []model.Suggestion {
	b := s.Breakdown(model.BreakdownInitial)
	if b == nil || len(s.SplitPoints) == 0 {
		return nil
	}
	share := model.Share(b.TotalSize, totalSize(s))
	if share <= r.Threshold {
		return nil
	}
	return []model.Suggestion{{
		Rule:      r.Name,
		Severity:  model.SeverityInfo,
		Breakdown: b.ID,
		Share:     share,
		Message: fmt.Sprintf("%s%% of the program is in the initial download despite %d split points",
			formatPercent(share), len(s.SplitPoints)),
	}}
}

func checkEmptySplitPoints(r *Rule, s *model.ReportSummary) []model.Suggestion {
	var out []model.Suggestion
	for _, sp := range s.SplitPoints {
		id := fmt.Sprintf("sp%d", sp.ID)
		b := s.Breakdown(id)
		if b != nil && b.TotalSize > 0 {
			continue
		}
		out = append(out, model.Suggestion{
			Rule:      r.Name,
			Severity:  model.SeverityInfo,
			Breakdown: id,
			Subject:   sp.Location,
			Message:   fmt.Sprintf("split point %d (%s) has no exclusive code", sp.ID, sp.Location),
		})
	}
	return out
}

func checkCategory(kind model.CategoryKind) RuleCheckFunc {
	return func(r *Rule, s *model.ReportSummary) []model.Suggestion {
		b := s.Breakdown(model.BreakdownTotal)
		share := model.Share(b.Categories[kind.String()], b.TotalSize)
		if share <= r.Threshold {
			return nil
		}
		return []model.Suggestion{{
			Rule:      r.Name,
			Severity:  model.SeverityWarning,
			Breakdown: b.ID,
			Subject:   kind.String(),
			Share:     share,
			Message:   fmt.Sprintf("%s take %s%% of the program", strings.ToLower(kind.Description()), formatPercent(share)),
		}}
	}
}

func checkDominantClasses(r *Rule, s *model.ReportSummary) []model.Suggestion {
	b := s.Breakdown(model.BreakdownTotal)
	var out []model.Suggestion
	for _, e := range b.TopClasses {
		share := model.Share(e.Size, b.TotalSize)
		if share <= r.Threshold {
			break
		}
		out = append(out, model.Suggestion{
			Rule:      r.Name,
			Severity:  model.SeverityInfo,
			Breakdown: b.ID,
			Subject:   e.Name,
			Share:     share,
			Message:   fmt.Sprintf("class %s is %s%% of the program", e.Name, formatPercent(share)),
		})
	}
	return out
}

// formatPercent formats a percentage with up to two decimals and no
// trailing zeros.
func formatPercent(pct float64) string {
	s := fmt.Sprintf("%.2f", pct)
	s = strings.TrimRight(s, "0")
	return strings.TrimRight(s, ".")
}

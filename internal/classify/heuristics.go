// Package classify runs the post-ingestion classification pass that turns
// the inline category memberships into a partition of the program's
// classes.
package classify

import (
	"fmt"

	"github.com/compile-report/pkg/model"
)

// Apply runs, for every breakdown of report, the allOther fallback and then
// the RPC fold. It must run after all size-map ingestion of the
// permutation and is idempotent.
func Apply(report *model.PermutationReport) {
	classes := report.Classes()
	for _, b := range report.AllBreakdowns() {
		applyFallback(b.Categories, classes)
		foldRPC(b.Categories)
	}
}

// applyFallback puts every class that is in none of the specific
// categories into allOther.
func applyFallback(c *model.Categories, classes []string) {
	for _, class := range classes {
		if c.Widget.Contains(class) || c.RPCUser.Contains(class) || c.RPCGwt.Contains(class) ||
			c.RPCGen.Contains(class) || c.JRE.Contains(class) || c.GwtLang.Contains(class) {
			continue
		}
		c.AllOther.Add(class)
	}
}

// foldRPC moves RPC support classes into allOther when no generated RPC
// code exists, since then the program does not actually use RPC.
func foldRPC(c *model.Categories) {
	if !c.RPCGen.IsEmpty() {
		return
	}
	for _, rpc := range []*model.CodeCategory{c.RPCUser, c.RPCGwt} {
		for _, class := range rpc.Classes() {
			if c.Widget.Contains(class) || c.JRE.Contains(class) || c.GwtLang.Contains(class) {
				continue
			}
			c.AllOther.Add(class)
		}
		rpc.Clear()
	}
}

// Violation is a class that is not in exactly one category of a breakdown.
type Violation struct {
	Breakdown  string
	Class      string
	Categories []model.CategoryKind
}

func (v Violation) String() string {
	if len(v.Categories) == 0 {
		return fmt.Sprintf("%s: %s is in no category", v.Breakdown, v.Class)
	}
	return fmt.Sprintf("%s: %s is in %d categories %v", v.Breakdown, v.Class, len(v.Categories), v.Categories)
}

// Verify checks that every registered class belongs to exactly one
// category in every breakdown. It is meaningful only after Apply.
func Verify(report *model.PermutationReport) []Violation {
	var out []Violation
	classes := report.Classes()
	for _, b := range report.AllBreakdowns() {
		for _, class := range classes {
			kinds := b.Categories.MembershipOf(class)
			if len(kinds) != 1 {
				out = append(out, Violation{Breakdown: b.ID(), Class: class, Categories: kinds})
			}
		}
	}
	return out
}

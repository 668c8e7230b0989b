package model

import "sort"

// CategoryKind identifies one of the fixed code categories of a breakdown.
type CategoryKind int

// Category kinds, in reporting order.
const (
	CategoryAllOther CategoryKind = iota
	CategoryWidget
	CategoryRPCUser
	CategoryRPCGen
	CategoryRPCGwt
	CategoryGwtLang
	CategoryJRE
)

var categoryKindInfo = [...]struct {
	token       string
	description string
}{
	CategoryAllOther: {"allOther", "Other code"},
	CategoryWidget:   {"widget", "Widgets"},
	CategoryRPCUser:  {"rpcUser", "Server communication (user-written serializers)"},
	CategoryRPCGen:   {"rpcGen", "Server communication (generated serializers and proxies)"},
	CategoryRPCGwt:   {"rpcGwt", "Server communication (library)"},
	CategoryGwtLang:  {"gwtLang", "Compiler runtime support"},
	CategoryJRE:      {"jre", "JRE emulation"},
}

// String returns the stable token used as a report key.
func (k CategoryKind) String() string {
	if k < 0 || int(k) >= len(categoryKindInfo) {
		return "unknown"
	}
	return categoryKindInfo[k].token
}

// Description returns human readable text for the kind.
func (k CategoryKind) Description() string {
	if k < 0 || int(k) >= len(categoryKindInfo) {
		return ""
	}
	return categoryKindInfo[k].description
}

// AllCategoryKinds returns every category kind in reporting order.
func AllCategoryKinds() []CategoryKind {
	kinds := make([]CategoryKind, len(categoryKindInfo))
	for i := range categoryKindInfo {
		kinds[i] = CategoryKind(i)
	}
	return kinds
}

// ParseCategoryKind maps a token back to its kind.
func ParseCategoryKind(token string) (CategoryKind, bool) {
	for i, info := range categoryKindInfo {
		if info.token == token {
			return CategoryKind(i), true
		}
	}
	return 0, false
}

type cachedSize struct {
	membership uint64
	generation uint64
	size       int64
}

// CodeCategory is a mutable set of class names. Membership in several
// categories at once is allowed; the heuristics are responsible for
// producing a partition.
type CodeCategory struct {
	kind       CategoryKind
	classes    map[string]struct{}
	membership uint64
	cache      map[*SizeBreakdown]cachedSize
}

// NewCodeCategory creates an empty category.
func NewCodeCategory(kind CategoryKind) *CodeCategory {
	return &CodeCategory{
		kind:    kind,
		classes: make(map[string]struct{}),
		cache:   make(map[*SizeBreakdown]cachedSize),
	}
}

// Kind returns the category kind.
func (c *CodeCategory) Kind() CategoryKind {
	return c.kind
}

// Add inserts className. Adding an existing member is a no-op.
func (c *CodeCategory) Add(className string) {
	if _, ok := c.classes[className]; ok {
		return
	}
	c.classes[className] = struct{}{}
	c.membership++
}

// Remove deletes className if present.
func (c *CodeCategory) Remove(className string) {
	if _, ok := c.classes[className]; !ok {
		return
	}
	delete(c.classes, className)
	c.membership++
}

// Contains reports membership.
func (c *CodeCategory) Contains(className string) bool {
	_, ok := c.classes[className]
	return ok
}

// Len returns the number of member classes.
func (c *CodeCategory) Len() int {
	return len(c.classes)
}

// IsEmpty reports whether the category has no members.
func (c *CodeCategory) IsEmpty() bool {
	return len(c.classes) == 0
}

// Clear removes every member.
func (c *CodeCategory) Clear() {
	if len(c.classes) == 0 {
		return
	}
	c.classes = make(map[string]struct{})
	c.membership++
}

// Classes returns the members sorted by name.
func (c *CodeCategory) Classes() []string {
	out := make([]string, 0, len(c.classes))
	for name := range c.classes {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// CumulativeSize sums the class sizes of every member present in b.
// Members without a size in b contribute zero. The result is cached until
// either the membership or b's class sizes change.
func (c *CodeCategory) CumulativeSize(b *SizeBreakdown) int64 {
	if b == nil {
		return 0
	}
	if cached, ok := c.cache[b]; ok && cached.membership == c.membership && cached.generation == b.generation {
		return cached.size
	}

	var total int64
	for name := range c.classes {
		total += b.ClassToSize[name]
	}
	c.cache[b] = cachedSize{membership: c.membership, generation: b.generation, size: total}
	return total
}

// Categories holds one CodeCategory per kind.
type Categories struct {
	AllOther *CodeCategory
	Widget   *CodeCategory
	RPCUser  *CodeCategory
	RPCGen   *CodeCategory
	RPCGwt   *CodeCategory
	GwtLang  *CodeCategory
	JRE      *CodeCategory
}

// NewCategories creates the full set of empty categories.
func NewCategories() *Categories {
	return &Categories{
		AllOther: NewCodeCategory(CategoryAllOther),
		Widget:   NewCodeCategory(CategoryWidget),
		RPCUser:  NewCodeCategory(CategoryRPCUser),
		RPCGen:   NewCodeCategory(CategoryRPCGen),
		RPCGwt:   NewCodeCategory(CategoryRPCGwt),
		GwtLang:  NewCodeCategory(CategoryGwtLang),
		JRE:      NewCodeCategory(CategoryJRE),
	}
}

// Get returns the category for kind, or nil for an out-of-range kind.
func (c *Categories) Get(kind CategoryKind) *CodeCategory {
	switch kind {
	case CategoryAllOther:
		return c.AllOther
	case CategoryWidget:
		return c.Widget
	case CategoryRPCUser:
		return c.RPCUser
	case CategoryRPCGen:
		return c.RPCGen
	case CategoryRPCGwt:
		return c.RPCGwt
	case CategoryGwtLang:
		return c.GwtLang
	case CategoryJRE:
		return c.JRE
	}
	return nil
}

// MembershipOf returns the kinds that currently contain className.
func (c *Categories) MembershipOf(className string) []CategoryKind {
	var kinds []CategoryKind
	for _, kind := range AllCategoryKinds() {
		if c.Get(kind).Contains(className) {
			kinds = append(kinds, kind)
		}
	}
	return kinds
}

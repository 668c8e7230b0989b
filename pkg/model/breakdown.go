package model

import "sort"

// SizeEntry is a named size used in top-N listings.
type SizeEntry struct {
	Name string `json:"name"`
	Size int64  `json:"size"`
}

// SizeBreakdown is one slice of the compiled program: the whole program,
// the initial download, the leftovers or the code exclusive to one split
// point.
//
// ClassToSize must only be changed through AddClassSize so that cached
// category sizes are invalidated.
type SizeBreakdown struct {
	id          string
	description string

	ClassToSize   map[string]int64
	MethodToSize  map[string]int64
	PackageToSize map[string]int64
	TotalSize     int64

	Categories *Categories
	Literals   *Literals

	generation uint64
}

// NewSizeBreakdown creates an empty breakdown.
func NewSizeBreakdown(id, description string) *SizeBreakdown {
	return &SizeBreakdown{
		id:            id,
		description:   description,
		ClassToSize:   make(map[string]int64),
		MethodToSize:  make(map[string]int64),
		PackageToSize: make(map[string]int64),
		Categories:    NewCategories(),
		Literals:      NewLiterals(),
	}
}

// ID returns the stable token used as a report key.
func (b *SizeBreakdown) ID() string {
	return b.id
}

// Description returns the human readable name of the slice.
func (b *SizeBreakdown) Description() string {
	return b.description
}

// AddClassSize accumulates size for className.
func (b *SizeBreakdown) AddClassSize(className string, size int64) {
	b.ClassToSize[className] += size
	b.generation++
}

// ClassSize returns the size of className and whether it has one.
func (b *SizeBreakdown) ClassSize(className string) (int64, bool) {
	size, ok := b.ClassToSize[className]
	return size, ok
}

// SetMethodSize records the size of a method. The last write wins.
func (b *SizeBreakdown) SetMethodSize(method string, size int64) {
	b.MethodToSize[method] = size
}

// AddTotal adds size to the running total of the slice.
func (b *SizeBreakdown) AddTotal(size int64) {
	b.TotalSize += size
}

// RecomputePackageSizes rebuilds PackageToSize from ClassToSize. Packages
// with no sized class in this breakdown are omitted.
func (b *SizeBreakdown) RecomputePackageSizes(packageToClasses map[string]map[string]struct{}) {
	sizes := make(map[string]int64, len(packageToClasses))
	for pkg, classes := range packageToClasses {
		var total int64
		found := false
		for class := range classes {
			if size, ok := b.ClassToSize[class]; ok {
				total += size
				found = true
			}
		}
		if found {
			sizes[pkg] = total
		}
	}
	b.PackageToSize = sizes
}

// CategorySize is shorthand for the cumulative size of one category.
func (b *SizeBreakdown) CategorySize(kind CategoryKind) int64 {
	return b.Categories.Get(kind).CumulativeSize(b)
}

// TopClasses returns the n largest classes.
func (b *SizeBreakdown) TopClasses(n int) []SizeEntry {
	return topEntries(b.ClassToSize, n)
}

// TopPackages returns the n largest packages as of the last recomputation.
func (b *SizeBreakdown) TopPackages(n int) []SizeEntry {
	return topEntries(b.PackageToSize, n)
}

// TopMethods returns the n largest methods.
func (b *SizeBreakdown) TopMethods(n int) []SizeEntry {
	return topEntries(b.MethodToSize, n)
}

// topEntries sorts by size descending, then name. n <= 0 returns all entries.
func topEntries(sizes map[string]int64, n int) []SizeEntry {
	entries := make([]SizeEntry, 0, len(sizes))
	for name, size := range sizes {
		entries = append(entries, SizeEntry{Name: name, Size: size})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Size != entries[j].Size {
			return entries[i].Size > entries[j].Size
		}
		return entries[i].Name < entries[j].Name
	})
	if n > 0 && len(entries) > n {
		entries = entries[:n]
	}
	return entries
}

// Package filter provides the inline class classification rules applied
// while size maps are ingested.
package filter

import (
	"strings"
	"sync"

	"github.com/compile-report/pkg/config"
	"github.com/compile-report/pkg/model"
)

// Rules lists the name patterns behind each inline category.
type Rules struct {
	// Package prefixes of emulated JRE classes.
	JREPrefixes []string
	// Package prefixes of the compiler's runtime support code.
	RuntimePrefixes []string
	// Package prefixes of the widget library.
	WidgetPrefixes []string
	// Package prefixes of the RPC library.
	RPCLibraryPrefixes []string
	// Substrings marking user-written custom field serializers.
	CustomSerializerMarkers []string
	// Class name suffixes of generated serializers and proxies.
	GeneratedSuffixes []string
}

// DefaultRules returns the rules matching the compiler's own layout.
func DefaultRules() Rules {
	return Rules{
		JREPrefixes:             []string{"java"},
		RuntimePrefixes:         []string{"com.google.gwt.lang"},
		WidgetPrefixes:          []string{"com.google.gwt.user.client.ui"},
		RPCLibraryPrefixes:      []string{"com.google.gwt.user.client.rpc"},
		CustomSerializerMarkers: []string{"_CustomFieldSerializer"},
		GeneratedSuffixes:       []string{"_FieldSerializer", "_Proxy", "_TypeSerializer"},
	}
}

// RulesFromConfig converts the classify config section.
func RulesFromConfig(cfg config.ClassifyConfig) Rules {
	return Rules{
		JREPrefixes:             cfg.JREPrefixes,
		RuntimePrefixes:         cfg.RuntimePrefixes,
		WidgetPrefixes:          cfg.WidgetPrefixes,
		RPCLibraryPrefixes:      cfg.RPCLibraryPrefixes,
		CustomSerializerMarkers: cfg.CustomSerializerMarkers,
		GeneratedSuffixes:       cfg.GeneratedSuffixes,
	}
}

// CategoryFilter classifies classes into zero or more code categories.
// Every check is independent, so one class may land in several
// categories. It is safe for concurrent use.
type CategoryFilter struct {
	mu        sync.RWMutex
	rules     Rules
	cache     map[string][]model.CategoryKind
	cacheSize int
}

// NewCategoryFilter creates a filter for rules.
func NewCategoryFilter(rules Rules) *CategoryFilter {
	return &CategoryFilter{
		rules:     rules,
		cache:     make(map[string][]model.CategoryKind),
		cacheSize: 10000,
	}
}

// Classify returns the categories className belongs to. packageName is
// the package derived for the class.
func (f *CategoryFilter) Classify(className, packageName string) []model.CategoryKind {
	f.mu.RLock()
	if kinds, ok := f.cache[className]; ok {
		f.mu.RUnlock()
		return kinds
	}
	rules := f.rules
	f.mu.RUnlock()

	kinds := classify(rules, className, packageName)

	f.mu.Lock()
	if len(f.cache) < f.cacheSize {
		f.cache[className] = kinds
	}
	f.mu.Unlock()

	return kinds
}

func classify(rules Rules, className, packageName string) []model.CategoryKind {
	var kinds []model.CategoryKind
	if hasAnyPrefix(packageName, rules.WidgetPrefixes) {
		kinds = append(kinds, model.CategoryWidget)
	}
	if containsAny(className, rules.CustomSerializerMarkers) {
		kinds = append(kinds, model.CategoryRPCUser)
	}
	if hasAnySuffix(className, rules.GeneratedSuffixes) {
		kinds = append(kinds, model.CategoryRPCGen)
	}
	if hasAnyPrefix(packageName, rules.RPCLibraryPrefixes) {
		kinds = append(kinds, model.CategoryRPCGwt)
	}
	if hasAnyPrefix(packageName, rules.RuntimePrefixes) {
		kinds = append(kinds, model.CategoryGwtLang)
	}
	if hasAnyPrefix(packageName, rules.JREPrefixes) {
		kinds = append(kinds, model.CategoryJRE)
	}
	return kinds
}

func hasAnyPrefix(s string, prefixes []string) bool {
	for _, p := range prefixes {
		if p != "" && strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}

func hasAnySuffix(s string, suffixes []string) bool {
	for _, suf := range suffixes {
		if suf != "" && strings.HasSuffix(s, suf) {
			return true
		}
	}
	return false
}

func containsAny(s string, markers []string) bool {
	for _, m := range markers {
		if m != "" && strings.Contains(s, m) {
			return true
		}
	}
	return false
}

// Rules returns a copy of the current rules.
func (f *CategoryFilter) Rules() Rules {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.rules
}

// CacheStats returns cache statistics.
func (f *CategoryFilter) CacheStats() (size int, maxSize int) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return len(f.cache), f.cacheSize
}

// SetCacheSize sets the maximum number of cached class names. Shrinking
// below the current fill drops the cache.
func (f *CategoryFilter) SetCacheSize(size int) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.cacheSize = size
	if len(f.cache) > size {
		f.cache = make(map[string][]model.CategoryKind)
	}
}

// DefaultFilter is the shared filter built from DefaultRules.
var DefaultFilter = NewCategoryFilter(DefaultRules())

package model

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// RefKind is the reference kind of a size-map record.
type RefKind string

// Reference kinds accepted in size maps.
const (
	RefString RefKind = "string"
	RefVar    RefKind = "var"
	RefType   RefKind = "type"
	RefMethod RefKind = "method"
	RefField  RefKind = "field"
)

// ParseRefKind validates a reference kind token.
func ParseRefKind(token string) (RefKind, bool) {
	switch k := RefKind(token); k {
	case RefString, RefVar, RefType, RefMethod, RefField:
		return k, true
	}
	return "", false
}

// DerivePackage returns the package of a fully qualified class name by
// cutting the name at the first segment that starts with an upper-case
// letter. A name without dots has the empty package; a dotted name with no
// capitalised segment is its own package.
//
// Packages with capitalised segments are truncated early. Category and
// package reports depend on exactly this behaviour.
func DerivePackage(className string) string {
	if !strings.Contains(className, ".") {
		return ""
	}
	for i := 0; i < len(className)-1; i++ {
		if className[i] != '.' {
			continue
		}
		if next, _ := utf8.DecodeRuneInString(className[i+1:]); unicode.IsUpper(next) {
			return className[:i]
		}
	}
	return className
}

// OwningClass returns the class a reference is attributed to. Method and
// field references are qualified as Class::member.
func OwningClass(kind RefKind, ref string) string {
	if kind != RefMethod && kind != RefField {
		return ref
	}
	if idx := strings.Index(ref, "::"); idx >= 0 {
		return ref[:idx]
	}
	return ref
}

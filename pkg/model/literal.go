package model

import "sort"

// LiteralKind identifies one of the fixed literal buckets of a breakdown.
type LiteralKind int

// Literal kinds, in reporting order.
const (
	LiteralString LiteralKind = iota
	LiteralInt
	LiteralLong
	LiteralFloat
	LiteralDouble
	LiteralBoolean
	LiteralChar
	LiteralClass
	LiteralNull
	LiteralUndefined
	LiteralNumber
)

var literalKindNames = [...]string{
	LiteralString:    "string",
	LiteralInt:       "int",
	LiteralLong:      "long",
	LiteralFloat:     "float",
	LiteralDouble:    "double",
	LiteralBoolean:   "boolean",
	LiteralChar:      "char",
	LiteralClass:     "class",
	LiteralNull:      "null",
	LiteralUndefined: "undefined",
	LiteralNumber:    "number",
}

// String returns the token used for the kind in reports.
func (k LiteralKind) String() string {
	if k < 0 || int(k) >= len(literalKindNames) {
		return "unknown"
	}
	return literalKindNames[k]
}

// AllLiteralKinds returns every literal kind in reporting order.
func AllLiteralKinds() []LiteralKind {
	kinds := make([]LiteralKind, len(literalKindNames))
	for i := range literalKindNames {
		kinds[i] = LiteralKind(i)
	}
	return kinds
}

// ParseLiteralKind maps a token back to its kind.
func ParseLiteralKind(token string) (LiteralKind, bool) {
	for i, name := range literalKindNames {
		if name == token {
			return LiteralKind(i), true
		}
	}
	return 0, false
}

// LiteralBucket accumulates the size of one literal kind. Size grows with
// every occurrence while the text of each distinct literal is kept once.
type LiteralBucket struct {
	Size     int64
	literals map[string]struct{}
}

// NewLiteralBucket creates an empty bucket.
func NewLiteralBucket() *LiteralBucket {
	return &LiteralBucket{literals: make(map[string]struct{})}
}

// Add records one occurrence of literal.
func (b *LiteralBucket) Add(literal string, size int64) {
	b.Size += size
	b.literals[literal] = struct{}{}
}

// Contains reports whether literal has been observed.
func (b *LiteralBucket) Contains(literal string) bool {
	_, ok := b.literals[literal]
	return ok
}

// Count returns the number of distinct literals.
func (b *LiteralBucket) Count() int {
	return len(b.literals)
}

// Sorted returns the distinct literals in lexical order.
func (b *LiteralBucket) Sorted() []string {
	out := make([]string, 0, len(b.literals))
	for l := range b.literals {
		out = append(out, l)
	}
	sort.Strings(out)
	return out
}

// Literals holds one bucket per literal kind.
type Literals struct {
	String    *LiteralBucket
	Int       *LiteralBucket
	Long      *LiteralBucket
	Float     *LiteralBucket
	Double    *LiteralBucket
	Boolean   *LiteralBucket
	Char      *LiteralBucket
	Class     *LiteralBucket
	Null      *LiteralBucket
	Undefined *LiteralBucket
	Number    *LiteralBucket
}

// NewLiterals creates the full set of empty buckets.
func NewLiterals() *Literals {
	return &Literals{
		String:    NewLiteralBucket(),
		Int:       NewLiteralBucket(),
		Long:      NewLiteralBucket(),
		Float:     NewLiteralBucket(),
		Double:    NewLiteralBucket(),
		Boolean:   NewLiteralBucket(),
		Char:      NewLiteralBucket(),
		Class:     NewLiteralBucket(),
		Null:      NewLiteralBucket(),
		Undefined: NewLiteralBucket(),
		Number:    NewLiteralBucket(),
	}
}

// Get returns the bucket for kind, or nil for an out-of-range kind.
func (l *Literals) Get(kind LiteralKind) *LiteralBucket {
	switch kind {
	case LiteralString:
		return l.String
	case LiteralInt:
		return l.Int
	case LiteralLong:
		return l.Long
	case LiteralFloat:
		return l.Float
	case LiteralDouble:
		return l.Double
	case LiteralBoolean:
		return l.Boolean
	case LiteralChar:
		return l.Char
	case LiteralClass:
		return l.Class
	case LiteralNull:
		return l.Null
	case LiteralUndefined:
		return l.Undefined
	case LiteralNumber:
		return l.Number
	}
	return nil
}

// TotalSize sums every bucket.
func (l *Literals) TotalSize() int64 {
	var total int64
	for _, kind := range AllLiteralKinds() {
		total += l.Get(kind).Size
	}
	return total
}

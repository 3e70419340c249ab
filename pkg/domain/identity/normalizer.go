// Package identity canonicalizes lot identifiers so that the same physical
// lot can be matched across production, shipping, and quality logs that
// each format the identifier differently ("LOT-123" vs "lot 123" vs
// "LOT_123").
//
// Normalization happens once at write time and the canonical key is stored
// alongside the original identifier. Lookups then normalize the search term
// and hit the indexed canonical column, turning an O(n*m) fuzzy scan into
// an O(log n) exact-key lookup.
package identity

import "strings"

// Normalize converts a raw lot identifier into its canonical comparison
// form: leading/trailing whitespace trimmed, every hyphen, underscore, and
// internal space removed (runs collapse to nothing), and the remainder
// uppercased byte-wise. Case mapping is ASCII-only on purpose so results
// never depend on the process locale.
//
// Normalize is idempotent: Normalize(Normalize(s)) == Normalize(s).
// An empty input yields an empty output.
func Normalize(raw string) string {
	trimmed := strings.TrimSpace(raw)
	var b strings.Builder
	b.Grow(len(trimmed))
	for i := 0; i < len(trimmed); i++ {
		c := trimmed[i]
		switch c {
		case '-', '_', ' ':
			continue
		}
		if c >= 'a' && c <= 'z' {
			c -= 'a' - 'A'
		}
		b.WriteByte(c)
	}
	return b.String()
}

// NormalizePtr is the absence-propagating form of Normalize: a nil input
// yields nil, never an error. Used where "no identifier" and "empty
// identifier" must stay distinct.
func NormalizePtr(raw *string) *string {
	if raw == nil {
		return nil
	}
	n := Normalize(*raw)
	return &n
}

// Equivalent reports whether two raw identifiers refer to the same lot
// after normalization.
func Equivalent(a, b string) bool {
	return Normalize(a) == Normalize(b)
}

// EquivalentPtr compares two optional identifiers. Two nils are considered
// equivalent (both absent); a nil and a non-nil are not. Callers doing
// lookups must not use a nil as a wildcard — a nil search term means "no
// match", which is the repository layer's responsibility to enforce.
func EquivalentPtr(a, b *string) bool {
	if a == nil && b == nil {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	return Equivalent(*a, *b)
}

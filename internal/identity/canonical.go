package identity

import (
	"sort"
	"strings"
	"unicode"
)

// The directory has stored card identities under several schemes over the
// years: long-form prefixed ("NFC-000012345" for standard subjects,
// "STF-000012345" for staff), bare numerics from a bulk import ("12345"),
// and a short-form "FC" prefix written by a batch of legacy bus readers
// ("FC12345"). Canonicalize is the single place that knows about all of
// them; matching anywhere else in the codebase is set intersection over its
// output, never direct string equality.
const (
	prefixStandard = "NFC-"
	prefixStaff    = "STF-"
	prefixLegacy   = "FC"

	paddedWidth = 9
)

var longPrefixes = []string{prefixStandard, prefixStaff}

// Canonicalize expands one raw tag reading into its canonical equivalence
// set, returned as a sorted, deduplicated slice. It is a total, pure
// function: the same input always yields the same output and it never fails.
func Canonicalize(raw string) []string {
	cleaned := clean(raw)

	set := map[string]struct{}{cleaned: {}}

	for _, p := range longPrefixes {
		if strings.HasPrefix(cleaned, p) {
			set[strings.TrimPrefix(cleaned, p)] = struct{}{}
		}
	}

	if strings.HasPrefix(cleaned, prefixLegacy) && !hasLongPrefix(cleaned) {
		digits := strings.TrimPrefix(cleaned, prefixLegacy)
		if isNumeric(digits) {
			padded := pad(digits)
			set[digits] = struct{}{}
			set[padded] = struct{}{}
			for _, p := range longPrefixes {
				set[p+padded] = struct{}{}
			}
		}
	}

	if isNumeric(cleaned) && cleaned != "" {
		padded := pad(cleaned)
		set[padded] = struct{}{}
		for _, p := range longPrefixes {
			set[p+padded] = struct{}{}
			set[p+cleaned] = struct{}{}
		}
	}

	// Directory values were stored case-inconsistently; cover both cases.
	for c := range set {
		set[strings.ToLower(c)] = struct{}{}
	}

	out := make([]string, 0, len(set))
	for c := range set {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}

// Intersects reports whether two canonical sets share at least one form.
// Both slices must come from Canonicalize (sorted, deduplicated).
func Intersects(a, b []string) bool {
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		switch {
		case a[i] == b[j]:
			return true
		case a[i] < b[j]:
			i++
		default:
			j++
		}
	}
	return false
}

// MatchesStored applies the matching rule between a live reading and a value
// as stored in the directory: canonicalize both sides and test intersection.
func MatchesStored(reading, stored string) bool {
	return Intersects(Canonicalize(reading), Canonicalize(stored))
}

func clean(raw string) string {
	trimmed := strings.TrimSpace(raw)
	var b strings.Builder
	b.Grow(len(trimmed))
	for _, r := range trimmed {
		if unicode.IsControl(r) {
			continue
		}
		b.WriteRune(r)
	}
	return strings.ToUpper(b.String())
}

func hasLongPrefix(s string) bool {
	for _, p := range longPrefixes {
		if strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}

func isNumeric(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func pad(digits string) string {
	if len(digits) >= paddedWidth {
		return digits
	}
	return strings.Repeat("0", paddedWidth-len(digits)) + digits
}

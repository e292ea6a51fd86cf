// Package strings normalizes the free-text lists that arrive on contracts and
// catalog entries.
package strings

import (
	"strings"
)

// DedupeAndTrim drops blanks and repeats after trimming, keeping first-seen
// order. Used for extracted contract terms.
func DedupeAndTrim(values []string) []string {
	return dedupe(values, strings.TrimSpace)
}

// NormalizeCountryCodes turns " ng", "NG", "ke" into "NG", "KE".
func NormalizeCountryCodes(values []string) []string {
	return dedupe(values, func(v string) string {
		return strings.ToUpper(strings.TrimSpace(v))
	})
}

func dedupe(values []string, normalize func(string) string) []string {
	if len(values) == 0 {
		return values
	}
	seen := make(map[string]struct{}, len(values))
	out := values[:0:0]
	for _, v := range values {
		n := normalize(v)
		if n == "" {
			continue
		}
		if _, dup := seen[n]; dup {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	return out
}

// Package catalog turns a plain snapshot of listings into the views the
// admin console renders: canonical labels, a category/brand/product tree and
// filtered, paginated tables. Everything here is pure and never mutates its
// input.
package catalog

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

const (
	// Unknown stands in for a missing brand or title.
	Unknown = "Unknown"
	// Uncategorized stands in for a missing category.
	Uncategorized = "Uncategorized"
)

// Predicate tests a lower-cased key.
type Predicate func(key string) bool

// Rule maps every key its predicate accepts to one canonical label.
type Rule struct {
	Match Predicate
	Label string
}

// Normalizer canonicalizes one free-text field. Rules are tried in order and
// the first match wins.
type Normalizer struct {
	Sentinel string
	Rules    []Rule
}

// Equals matches keys equal to any of words, ignoring case.
func Equals(words ...string) Predicate {
	lowered := lowerAll(words)
	return func(key string) bool {
		for _, w := range lowered {
			if key == w {
				return true
			}
		}
		return false
	}
}

// HasPrefix matches keys starting with any of prefixes, ignoring case.
func HasPrefix(prefixes ...string) Predicate {
	lowered := lowerAll(prefixes)
	return func(key string) bool {
		for _, p := range lowered {
			if strings.HasPrefix(key, p) {
				return true
			}
		}
		return false
	}
}

// Normalize returns the canonical label for raw. Empty or blank input yields
// the sentinel; input no rule accepts comes back trimmed with its first
// letter upper-cased. Rules see the lower-cased form of that fallback, so
// Normalize(Normalize(x)) == Normalize(x).
func (n Normalizer) Normalize(raw string) string {
	s := strings.TrimSpace(norm.NFKC.String(raw))
	if s == "" {
		return n.sentinel()
	}
	// Upper-casing can leave a composable pair behind (I + U+0307).
	candidate := norm.NFKC.String(capitalize(s))
	key := strings.ToLower(candidate)
	for _, r := range n.Rules {
		if r.Match != nil && r.Match(key) {
			return r.Label
		}
	}
	return candidate
}

// NormalizeAll normalizes each value into a new slice.
func (n Normalizer) NormalizeAll(raw []string) []string {
	out := make([]string, len(raw))
	for i, s := range raw {
		out[i] = n.Normalize(s)
	}
	return out
}

// Labels returns the distinct canonical labels in rule order.
func (n Normalizer) Labels() []string {
	seen := make(map[string]struct{}, len(n.Rules))
	out := make([]string, 0, len(n.Rules))
	for _, r := range n.Rules {
		if _, dup := seen[r.Label]; dup {
			continue
		}
		seen[r.Label] = struct{}{}
		out = append(out, r.Label)
	}
	return out
}

func (n Normalizer) sentinel() string {
	if n.Sentinel == "" {
		return Unknown
	}
	return n.Sentinel
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

func lowerAll(in []string) []string {
	out := make([]string, len(in))
	for i, s := range in {
		out[i] = strings.ToLower(s)
	}
	return out
}

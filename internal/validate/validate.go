package validate

import (
	"math"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"filmgrid/internal/domain"
)

var (
	reEmail = regexp.MustCompile(`^[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}$`)
	reQ     = regexp.MustCompile(`^[\p{L}\p{N} _'./&+(),-]{1,50}$`)
	reID    = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)
)

func Email(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if len(s) == 0 || len(s) > 50 {
		return "", false
	}
	return s, reEmail.MatchString(s)
}

// Q validates a search query: trims, enforces allowed characters and max length
func Q(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", false
	}
	if r := []rune(s); len(r) > 50 {
		s = string(r[:50])
	}
	return s, reQ.MatchString(s)
}

// ID validates a listing or user identifier.
func ID(s string) (string, bool) {
	s = strings.TrimSpace(s)
	return s, s != "" && reID.MatchString(s)
}

// Kind accepts one of the listing kinds, case-insensitively.
func Kind(s string) (string, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	return s, slices.Contains(domain.Kinds, s)
}

// Status accepts "", "active" or "inactive".
func Status(s string) (string, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	return s, s == "" || s == "active" || s == "inactive"
}

// Bool accepts "true" or "false" only.
func Bool(s string) (bool, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true":
		return true, true
	case "false":
		return false, true
	}
	return false, false
}

// Role accepts "", USER or ADMIN.
func Role(s string) (string, bool) {
	s = strings.ToUpper(strings.TrimSpace(s))
	return s, s == "" || s == domain.RoleUser || s == domain.RoleAdmin
}

// MaxPage caps requested page numbers.
const MaxPage = 100000

// Page parses a 1-based page number; junk and values below 1 become 1.
func Page(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 1 {
		return 1
	}
	return min(n, MaxPage)
}

// Rate parses a non-negative daily rate. Blank means 0.
func Rate(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, true
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || v < 0 || v > 1e7 {
		return 0, false
	}
	return v, true
}

// Name validates a displayable name with a reasonable max length.
func Name(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" || len(s) > 80 {
		return "", false
	}
	return s, true
}

// Label validates an optional category or brand entry.
func Label(s string) (string, bool) {
	s = strings.TrimSpace(s)
	return s, len(s) <= 60
}

// Password enforces a simple length window for login checks.
func Password(s string) bool {
	l := len(s)
	if l < 8 || l > 20 {
		return false
	}
	var hasLower, hasUpper, hasDigit, hasSymbol bool
	for _, r := range s {
		switch {
		case 'a' <= r && r <= 'z':
			hasLower = true
		case 'A' <= r && r <= 'Z':
			hasUpper = true
		case '0' <= r && r <= '9':
			hasDigit = true
		default:
			hasSymbol = true
		}
	}
	return hasLower && hasUpper && hasDigit && hasSymbol
}

package domain

import (
	"regexp"
	"strings"
)

var (
	emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	namePattern  = regexp.MustCompile(`^[a-zA-Z\s\-']{2,50}$`)
)

// IsValidEmail reports whether s is a syntactically valid address under an
// RFC 5321 inspired rule: at most 254 characters, exactly one "@", local
// part at most 64 characters, domain at most 253, no consecutive dots, no
// leading or trailing dot, and an alphabetic TLD of at least two characters.
func IsValidEmail(s string) bool {
	if s == "" || len(s) > 254 {
		return false
	}
	if strings.Contains(s, "..") {
		return false
	}
	if strings.HasPrefix(s, ".") || strings.HasSuffix(s, ".") {
		return false
	}

	local, dom, ok := strings.Cut(s, "@")
	if !ok || strings.Contains(dom, "@") {
		return false
	}
	if len(local) > 64 || len(dom) > 253 {
		return false
	}

	return emailPattern.MatchString(s)
}

// IsValidName reports whether s looks like a person's display name:
// 2-50 letters, spaces, hyphens, or apostrophes after trimming.
func IsValidName(s string) bool {
	return namePattern.MatchString(strings.TrimSpace(s))
}

// IsValidCity reports whether s looks like a place name. Cities share the
// name character set.
func IsValidCity(s string) bool {
	return namePattern.MatchString(strings.TrimSpace(s))
}

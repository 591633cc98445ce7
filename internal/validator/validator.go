// Package validator normalizes and validates domain name input.
// All functions are pure: they perform no I/O and never panic on bad input.
package validator

import (
	"regexp"
	"strings"

	"golang.org/x/net/publicsuffix"
)

// maxDomainLength is the maximum total length of a domain name per RFC 1035
const maxDomainLength = 253

// labelPattern matches a single domain label: 1-63 alphanumerics or hyphens,
// with no leading or trailing hyphen
var labelPattern = regexp.MustCompile(`^[a-z0-9]([a-z0-9-]{0,61}[a-z0-9])?$`)

// tldPattern matches a conservative TLD: at least two alphabetic characters
var tldPattern = regexp.MustCompile(`^[a-z]{2,}$`)

// Normalize converts raw user input into a bare, lowercase domain name.
// It strips a leading scheme (https://, http://, or any scheme://), anything
// after the first path, query, or fragment separator, a leading "www." label,
// a port suffix, and trailing dots and slashes. Normalization is best-effort
// and never fails; unparseable input is returned lowercased and trimmed.
func Normalize(input string) string {
	domain := strings.ToLower(strings.TrimSpace(input))

	// Strip scheme
	if idx := strings.Index(domain, "://"); idx != -1 {
		domain = domain[idx+3:]
	}

	// Strip path, query, and fragment
	if idx := strings.IndexAny(domain, "/?#"); idx != -1 {
		domain = domain[:idx]
	}

	// Strip userinfo and port
	if idx := strings.LastIndex(domain, "@"); idx != -1 {
		domain = domain[idx+1:]
	}
	if idx := strings.Index(domain, ":"); idx != -1 {
		domain = domain[:idx]
	}

	domain = strings.TrimPrefix(domain, "www.")
	domain = strings.TrimRight(domain, "./")

	return domain
}

// IsValid reports whether the input, after normalization, is a plausible
// registrable domain name: labels of 1-63 alphanumerics/hyphens with no
// leading or trailing hyphen, at least one dot, an alphabetic TLD of two or
// more characters, and a public suffix from the ICANN section of the public
// suffix list.
func IsValid(input string) bool {
	domain := Normalize(input)
	if domain == "" || len(domain) > maxDomainLength {
		return false
	}

	labels := strings.Split(domain, ".")
	if len(labels) < 2 {
		return false
	}
	for _, label := range labels {
		if !labelPattern.MatchString(label) {
			return false
		}
	}
	if !tldPattern.MatchString(labels[len(labels)-1]) {
		return false
	}

	// The suffix must be ICANN-managed, and there must be a registrable
	// label in front of it.
	if _, icann := publicsuffix.PublicSuffix(domain); !icann {
		return false
	}
	if _, err := publicsuffix.EffectiveTLDPlusOne(domain); err != nil {
		return false
	}

	return true
}

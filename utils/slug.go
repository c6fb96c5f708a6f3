package utils

import (
	"crypto/rand"
	"regexp"
	"strings"
)

var slugStrip = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify builds the externally addressable key for a campground: the
// lowercased name with everything non-alphanumeric collapsed to hyphens,
// plus a short random suffix so two campgrounds may share a name.
func Slugify(name string) string {
	base := slugStrip.ReplaceAllString(strings.ToLower(name), "-")
	base = strings.Trim(base, "-")
	if base == "" {
		base = "campground"
	}
	return base + "-" + GenerateShortToken(3)
}

// EscapeSearch neutralizes regex metacharacters in a user query so the
// campground search is a literal, case-insensitive substring match.
func EscapeSearch(query string) string {
	return regexp.QuoteMeta(query)
}

// EscapeLike neutralizes LIKE wildcards for dialects without a regex
// operator; pair it with ESCAPE '\' in the clause.
func EscapeLike(query string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(query)
}

// GenerateShortToken returns a URL-safe random string of the given length (bytes*2 hex).
func GenerateShortToken(n int) string {
	b := make([]byte, n)
	_, err := rand.Read(b)
	if err != nil {
		return ""
	}
	// hex encoding doubles length; that's fine for uniqueness and safety
	const hex = "0123456789abcdef"
	out := make([]byte, n*2)
	for i, v := range b {
		out[i*2] = hex[v>>4]
		out[i*2+1] = hex[v&0x0f]
	}
	return string(out)
}

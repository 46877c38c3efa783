package utils

import "regexp"

var (
	urlPattern  = regexp.MustCompile(`https?://\S+`)
	linkPattern = regexp.MustCompile(`^https?://\S+$`)
)

// ExtractLink returns the first http(s) URL in content, or "" when there is
// none. Submissions are links; anything further than "looks like a URL" is
// not validated here.
func ExtractLink(content string) string {
	return urlPattern.FindString(content)
}

// ContainsLink reports whether content carries at least one http(s) URL.
func ContainsLink(content string) bool {
	return urlPattern.MatchString(content)
}

// ValidLink reports whether s is a single well-formed http(s) URL, for
// command input where the whole argument must be the link.
func ValidLink(s string) bool {
	return linkPattern.MatchString(s)
}

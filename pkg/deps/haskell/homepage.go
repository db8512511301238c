package haskell

import (
	"regexp"
	"strings"
)

// fragmentRE matches the homepage fragment to strip: everything from the
// first '#' that is not immediately followed by '?'. Best-effort text
// surgery, not a URL parser; upstream homepage strings are too messy for
// strict parsing.
var fragmentRE = regexp.MustCompile(`#(?:[^?].*)?$`)

// SanitizeHomepage normalizes a homepage URL for report output: the http
// scheme is rewritten to https (textual substitution, so any literal
// "http:" in the string is rewritten) and the URL fragment is stripped.
// Empty input yields empty output, and the function is idempotent.
func SanitizeHomepage(url string) string {
	if url == "" {
		return ""
	}
	url = strings.ReplaceAll(url, "http:", "https:")
	return fragmentRE.ReplaceAllString(url, "")
}

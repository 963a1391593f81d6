package catalog

import (
	"regexp"
	"strings"
)

var slugSeparator = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify derives the URL-safe identifier for a product name: lower-cased,
// every run of characters outside [a-z0-9] collapsed to a single hyphen,
// and no leading or trailing hyphens. The result may be empty.
func Slugify(name string) string {
	s := strings.ToLower(name)
	s = slugSeparator.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

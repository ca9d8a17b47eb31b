// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package sid

import "regexp"

// lineBreak matches a line break element that ends a source line.
var lineBreak = regexp.MustCompile(`(?i)<br\s*/?>\r?\n`)

// Reshape rewrites a rendered data paragraph so that every record sits in
// its own paragraph. The upstream markup separates records with "<br/>"
// at the end of a line; each such break becomes a paragraph boundary.
// Breaks inside a line are left alone.
func Reshape(fragment string) string {
	return lineBreak.ReplaceAllString(fragment, "</p><p>")
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package sid reads family detail pages of the Seed Information Database.
//
// A detail page carries no field names in its markup. Its data region
// (div#sid) opens with a bold record count, followed by a legend paragraph
// of styled spans ("Mean seed weight", "Oil content", ...) and a data
// paragraph in which taxa are separated by line breaks. Each trait value in
// the data paragraph is a span styled like the matching legend entry, so
// the legend is read once to learn which style denotes which field.
package sid

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// DefaultBaseURL is the Seed Information Database site root.
const DefaultBaseURL = "https://data.kew.org"

const (
	dataRegionSelector = "div#sid"
	servletPath        = "/sid/SidServlet"
)

// DetailURL returns the detail page URL for family. Every filter other than
// the family is left empty and storage behaviour is fixed to "any".
func DetailURL(baseURL, family string) string {
	var b strings.Builder
	b.WriteString(strings.TrimRight(baseURL, "/"))
	b.WriteString(servletPath)
	b.WriteString("?Clade=&Order=&Family=")
	b.WriteString(url.QueryEscape(family))
	b.WriteString("&APG=off&Genus=&Species=&StorBehav=0")
	return b.String()
}

// dataRegion returns the page's div#sid, or an empty selection.
func dataRegion(doc *goquery.Document) *goquery.Selection {
	return doc.Find(dataRegionSelector).First()
}

// RecordCount returns the declared record count text: the first bold
// element of the data region, with surrounding whitespace trimmed. ok is
// false when the page has no count marker or it is blank.
func RecordCount(doc *goquery.Document) (count string, ok bool) {
	b := dataRegion(doc).Find("b").First()
	if b.Length() == 0 {
		return "", false
	}
	count = strings.TrimSpace(b.Text())
	return count, count != ""
}

// HasRecords reports whether the page declares a count that does not start
// with "0". Pages without a count are treated as empty.
func HasRecords(doc *goquery.Document) bool {
	count, ok := RecordCount(doc)
	return ok && !strings.HasPrefix(count, "0")
}

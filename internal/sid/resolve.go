// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package sid

import (
	"github.com/PuerkitoBio/goquery"

	"github.com/pdiddy/sidscraper/internal/textnorm"
	"github.com/pdiddy/sidscraper/pkg/types"
)

// ResolveStyles reads the legend paragraph, the first paragraph of the data
// region, and maps each labelled span to its style attribute. Labels are
// normalized with textnorm.NormalizeIdentifier. Spans without a label or
// without a style are skipped, and the first span for a label wins.
func ResolveStyles(doc *goquery.Document) types.FieldStyleMap {
	observed := make(map[string]string)
	legend := dataRegion(doc).Find("p").First()
	legend.Find("span").Each(func(_ int, span *goquery.Selection) {
		key := textnorm.NormalizeIdentifier(span.Text())
		style, ok := span.Attr("style")
		if key == "" || !ok {
			return
		}
		if _, seen := observed[key]; !seen {
			observed[key] = style
		}
	})
	return types.NewFieldStyleMap(observed)
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package sid

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/pdiddy/sidscraper/internal/textnorm"
	"github.com/pdiddy/sidscraper/pkg/types"
)

// ExtractRecords returns one row per taxon block on a detail page, in page
// order. Pages that declare a count starting with "0", or no count, yield
// nothing without being parsed further. A page without a data paragraph
// also yields nothing. The error is non-nil only when the data paragraph
// cannot be rendered or reparsed.
func ExtractRecords(doc *goquery.Document, styles types.FieldStyleMap) ([]types.TraitRow, error) {
	if !HasRecords(doc) {
		return nil, nil
	}
	data := dataRegion(doc).Find("p").Eq(1)
	if data.Length() == 0 {
		return nil, nil
	}

	blocks, err := splitBlocks(data)
	if err != nil {
		return nil, err
	}

	var rows []types.TraitRow
	blocks.Each(func(_ int, block *goquery.Selection) {
		if row, ok := extractRow(block, styles); ok {
			rows = append(rows, row)
		}
	})
	return rows, nil
}

// splitBlocks renders the data paragraph, reshapes it, and returns one
// paragraph per record.
func splitBlocks(data *goquery.Selection) (*goquery.Selection, error) {
	markup, err := goquery.OuterHtml(data)
	if err != nil {
		return nil, fmt.Errorf("rendering data paragraph: %w", err)
	}
	reshaped, err := goquery.NewDocumentFromReader(strings.NewReader(Reshape(markup)))
	if err != nil {
		return nil, fmt.Errorf("parsing reshaped data paragraph: %w", err)
	}
	return reshaped.Find("p"), nil
}

// extractRow builds a row from one record block. Blocks without a link are
// headings or noise and produce no row.
func extractRow(block *goquery.Selection, styles types.FieldStyleMap) (types.TraitRow, bool) {
	link := block.Find("a").First()
	if link.Length() == 0 {
		return types.TraitRow{}, false
	}

	row := types.TraitRow{
		Taxa:           textnorm.CleanText(link.Text(), false),
		MeanSeedWeight: textnorm.CleanText(styledText(block, styles, types.FieldMeanSeedWeight), true),
		OilContent:     textnorm.CleanText(styledText(block, styles, types.FieldOilContent), true),
		ProteinContent: textnorm.CleanText(styledText(block, styles, types.FieldProteinContent), true),
	}
	if styledSpan(block, styles, types.FieldSaltTolerance).Length() > 0 {
		row.SaltTolerance = 1
	}
	return row, true
}

// styledSpan returns the first span in block whose style equals the style
// recorded for field. The selection is empty when the field has no style.
func styledSpan(block *goquery.Selection, styles types.FieldStyleMap, field types.Field) *goquery.Selection {
	want, ok := styles.Style(field)
	return block.Find("span").FilterFunction(func(_ int, s *goquery.Selection) bool {
		style, has := s.Attr("style")
		return ok && has && style == want
	}).First()
}

func styledText(block *goquery.Selection, styles types.FieldStyleMap, field types.Field) string {
	return styledSpan(block, styles, field).Text()
}

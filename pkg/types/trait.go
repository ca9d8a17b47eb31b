// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "strconv"

// Field names a seed trait whose value is encoded on detail pages by a
// reusable inline style rather than by markup structure.
type Field string

const (
	FieldMeanSeedWeight Field = "mean_seed_weight"
	FieldOilContent     Field = "oil_content"
	FieldProteinContent Field = "protein_content"
	FieldSaltTolerance  Field = "salt_tolerance"
)

// Fields lists every trait field in column order.
var Fields = []Field{
	FieldMeanSeedWeight,
	FieldOilContent,
	FieldProteinContent,
	FieldSaltTolerance,
}

// FieldStyleMap associates each trait field with the style attribute value
// observed to denote it. A FieldStyleMap is built once and never modified;
// it exposes no mutators.
type FieldStyleMap struct {
	styles map[Field]string
}

// NewFieldStyleMap copies the known fields out of observed. Keys that are
// not trait fields are ignored.
func NewFieldStyleMap(observed map[string]string) FieldStyleMap {
	styles := make(map[Field]string, len(Fields))
	for _, f := range Fields {
		if v, ok := observed[string(f)]; ok {
			styles[f] = v
		}
	}
	return FieldStyleMap{styles: styles}
}

// Style returns the style key recorded for f.
func (m FieldStyleMap) Style(f Field) (string, bool) {
	v, ok := m.styles[f]
	return v, ok
}

// Len returns the number of fields with a recorded style.
func (m FieldStyleMap) Len() int {
	return len(m.styles)
}

// Columns is the fixed header of the output table, in order.
var Columns = []string{
	"taxa",
	"mean_seed_weight_g",
	"perc_oil_content",
	"perc_protein_content",
	"salt_tolerance",
}

// TraitRow is one taxon's seed-trait record as scraped from a detail page.
// Magnitude fields hold cleaned numeric text and may be empty.
type TraitRow struct {
	Taxa           string `json:"taxa" yaml:"taxa"`
	MeanSeedWeight string `json:"mean_seed_weight_g" yaml:"mean_seed_weight_g"`
	OilContent     string `json:"perc_oil_content" yaml:"perc_oil_content"`
	ProteinContent string `json:"perc_protein_content" yaml:"perc_protein_content"`
	SaltTolerance  int    `json:"salt_tolerance" yaml:"salt_tolerance"`
}

// Record returns the row's values in Columns order.
func (r TraitRow) Record() []string {
	return []string{
		r.Taxa,
		r.MeanSeedWeight,
		r.OilContent,
		r.ProteinContent,
		strconv.Itoa(r.SaltTolerance),
	}
}

// ResultTable is the ordered sequence of rows produced by a run, in
// encounter order across families.
type ResultTable []TraitRow

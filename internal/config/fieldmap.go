// =============================================================================
// Contract Generator - Field Map Configuration
// =============================================================================
//
// The field map binds each canonical template key (the stable placeholder name
// used inside the contract templates) to its preferred source column in the
// settlement export, plus an optional ordered list of fallback columns. The
// compiled-in defaults match the standard CMS settlement layout; a YAML file
// can override or extend them when a sale barn exports different headings.
//
// YAML layout:
//
//   contract_no:
//     column: "Contract #"
//   lot_no:
//     column: "Lot Number #2"
//     fallbacks: ["Lot Number"]
//
// =============================================================================

package config

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

// FieldSource describes where a canonical key reads its value from.
type FieldSource struct {
	// Column is the preferred source column heading.
	Column string `yaml:"column"`

	// Fallbacks are tried in order when the preferred column is empty or
	// absent for a row.
	Fallbacks []string `yaml:"fallbacks,omitempty"`
}

// FieldMap maps canonical template keys to their source columns.
type FieldMap map[string]FieldSource

// DefaultFieldMap returns the compiled-in mapping for the standard CMS
// auction-settlement export.
func DefaultFieldMap() FieldMap {
	return FieldMap{
		"contract_no":        {Column: "Contract #"},
		"consignor":          {Column: "Consignor"},
		"buyer":              {Column: "Buyer"},
		"lot_no":             {Column: "Lot Number #2"},
		"head_count":         {Column: "Head Count"},
		"breed":              {Column: "Breed"},
		"sex":                {Column: "Sex"},
		"base_weight":        {Column: "Base Weight"},
		"delivery":           {Column: "Delivery"},
		"year":               {Column: "Year"},
		"location":           {Column: "Location"},
		"shrink":             {Column: "Shrink"},
		"slide":              {Column: "Slide"},
		"description":        {Column: "Description"},
		"second_description": {Column: "Second Description"},
		"price_cwt":          {Column: "Calculated High Bid"},
		"down_money_due":     {Column: "Down Money Due"},
	}
}

// LoadFieldMap reads a YAML field map file and merges it over the defaults.
// Keys present in the file replace the default source; new keys are added.
// An empty path returns the defaults unchanged.
func LoadFieldMap(path string) (FieldMap, error) {
	fields := DefaultFieldMap()
	if path == "" {
		return fields, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read field map file: %w", err)
	}

	overrides := FieldMap{}
	if err := yaml.Unmarshal(data, &overrides); err != nil {
		return nil, fmt.Errorf("failed to parse field map file %s: %w", path, err)
	}

	for key, src := range overrides {
		if src.Column == "" {
			return nil, fmt.Errorf("field map entry %q has no source column", key)
		}
		fields[key] = src
	}

	return fields, nil
}

// Keys returns the canonical keys in sorted order. Iteration over the map
// itself is non-deterministic; everything that walks the field map uses this
// so repeated passes behave identically.
func (m FieldMap) Keys() []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Columns returns every source column named by the map (preferred plus
// fallbacks), deduplicated, in sorted order.
func (m FieldMap) Columns() []string {
	seen := make(map[string]struct{})
	for _, src := range m {
		seen[src.Column] = struct{}{}
		for _, fb := range src.Fallbacks {
			seen[fb] = struct{}{}
		}
	}
	cols := make([]string, 0, len(seen))
	for c := range seen {
		cols = append(cols, c)
	}
	sort.Strings(cols)
	return cols
}

package spl

import "strings"

// Mapping is one emitted NDC to DUNS relationship. NDCDigits is NDC with
// the dashes removed and is nil exactly when NDC is nil.
type Mapping struct {
	NDC       *string `json:"ndc"`
	DUNS      *string `json:"duns"`
	NDCDigits *string `json:"ndc_digits"`
}

// NewMapping builds a Mapping and derives NDCDigits.
func NewMapping(ndc, duns *string) Mapping {
	m := Mapping{NDC: ndc, DUNS: duns}
	if ndc != nil {
		digits := NDCDigits(*ndc)
		m.NDCDigits = &digits
	}
	return m
}

// NDCDigits strips the separator dashes from a formatted NDC.
func NDCDigits(ndc string) string {
	return strings.ReplaceAll(ndc, "-", "")
}

// Manufacturers selects the organizations classified as manufacturers. When
// there are none it falls back to the author organizations, since labels
// without activity markup are usually authored by their sole manufacturer.
func Manufacturers(orgs, authors []Organization) []Organization {
	var out []Organization
	for _, org := range orgs {
		if org.Manufacturer {
			out = append(out, org)
		}
	}
	if len(out) > 0 {
		return out
	}
	for _, org := range authors {
		org.Manufacturer = true
		out = append(out, org)
	}
	return out
}

// Correlate joins products to manufacturers. A product with a related DUNS
// maps only to that manufacturer; a product without one maps to the first
// manufacturer. A later occurrence of an NDC replaces the earlier mapping
// but keeps its position.
func Correlate(manufacturers []Organization, products []Product) []Mapping {
	byDUNS := make(map[string]Organization, len(manufacturers))
	for _, m := range manufacturers {
		if _, ok := byDUNS[m.DUNS]; !ok {
			byDUNS[m.DUNS] = m
		}
	}

	var mappings []Mapping
	index := make(map[string]int)
	for _, p := range products {
		var owner Organization
		if p.RelatedDUNS != nil && *p.RelatedDUNS != "" {
			m, ok := byDUNS[*p.RelatedDUNS]
			if !ok {
				continue
			}
			owner = m
		} else {
			if len(manufacturers) == 0 {
				continue
			}
			owner = manufacturers[0]
		}

		ndc, duns := p.NDC, owner.DUNS
		m := NewMapping(&ndc, &duns)
		if i, ok := index[ndc]; ok {
			mappings[i] = m
			continue
		}
		index[ndc] = len(mappings)
		mappings = append(mappings, m)
	}
	return mappings
}

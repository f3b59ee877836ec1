package spl

import (
	"github.com/antchfx/xmlquery"
)

// EstablishmentRecord is one establishment × activity × NDC combination.
// Index is the 1-based position of the establishment in the document, or 0
// for the placeholder record of a document without establishments.
type EstablishmentRecord struct {
	Index        int
	Name         *string
	DUNS         *string
	Activity     *string
	ActivityCode *string
	NDC          *string
}

var (
	establishmentsExpr = compile("//v3:author/v3:assignedEntity/v3:representedOrganization" +
		"/v3:assignedEntity/v3:assignedOrganization/v3:assignedEntity")
	performancesExpr = compile(".//v3:performance/v3:actDefinition")
	materialNDCsExpr = compile("./v3:product/v3:manufacturedProduct/v3:manufacturedMaterialKind/v3:code" + ndcPredicate)
)

// Establishments walks the registered establishments of d and returns one
// record per establishment, activity and NDC. Missing activities or NDCs
// produce a single record with those fields nil, and a document without
// establishments produces one all-nil record.
func Establishments(d *Document) []EstablishmentRecord {
	nodes := selectAll(d.root, establishmentsExpr)
	if len(nodes) == 0 {
		return []EstablishmentRecord{{}}
	}

	var records []EstablishmentRecord
	for i, estab := range nodes {
		base := EstablishmentRecord{
			Index: i + 1,
			Name:  optText(selectOne(estab, nestedNameExpr)),
			DUNS:  nonEmpty(nestedDUNS(estab)),
		}

		acts := selectAll(estab, performancesExpr)
		if len(acts) == 0 {
			records = append(records, base)
			continue
		}
		for _, act := range acts {
			records = append(records, activityRecords(base, act)...)
		}
	}
	return records
}

func activityRecords(base EstablishmentRecord, act *xmlquery.Node) []EstablishmentRecord {
	codes := selectAll(act, actCodeExpr)
	base.Activity = firstAttr(codes, "displayName")
	base.ActivityCode = firstAttr(codes, "code")

	var records []EstablishmentRecord
	for _, n := range selectAll(act, materialNDCsExpr) {
		if ndc := nonEmpty(optAttr(n, "code")); ndc != nil {
			r := base
			r.NDC = ndc
			records = append(records, r)
		}
	}
	if len(records) == 0 {
		records = append(records, base)
	}
	return records
}

// EstablishmentMappings converts establishment records to mappings, dropping
// records with neither NDC nor DUNS. With manufactureOnly set, only records
// whose activity label is exactly MANUFACTURE are kept.
func EstablishmentMappings(records []EstablishmentRecord, manufactureOnly bool) []Mapping {
	var mappings []Mapping
	for _, r := range records {
		if manufactureOnly && (r.Activity == nil || !IsExactManufacture(*r.Activity)) {
			continue
		}
		if r.NDC == nil && r.DUNS == nil {
			continue
		}
		mappings = append(mappings, NewMapping(r.NDC, r.DUNS))
	}
	return mappings
}

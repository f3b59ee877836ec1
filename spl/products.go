package spl

import (
	"github.com/antchfx/xmlquery"
)

// ProductSource identifies the locator rule that found an NDC.
type ProductSource string

const (
	ActivityProduct   ProductSource = "actDefinition"
	EquivalentProduct ProductSource = "asEquivalentEntity"
	BodyProduct       ProductSource = "documentBody"
)

// Product is one NDC occurrence with the DUNS the document associates it
// with, if any.
type Product struct {
	NDC         string
	Source      ProductSource
	RelatedDUNS *string
}

const ndcPredicate = "[@codeSystem='" + NDCCodeSystem + "']"

var (
	actDefinitionsExpr = compile("//v3:performance/v3:actDefinition")
	actCodeExpr        = compile("./v3:code")
	activityNDCsExpr   = compile("./v3:product/v3:manufacturedProduct/v3:manufacturedMaterialKind/v3:code" + ndcPredicate)
	equivalentsExpr    = compile("//v3:asEquivalentEntity[@classCode='EQUIV']")
	nestedNDCsExpr     = compile(".//v3:code" + ndcPredicate)
	bodyProductsExpr   = compile("//v3:component/v3:structuredBody//v3:manufacturedProduct")
	bodyNDCsExpr       = compile("./v3:manufacturedMedicine/v3:code" + ndcPredicate + " | ./v3:manufacturedProduct/v3:code" + ndcPredicate)
	authorDUNSExpr     = compile("//v3:author/v3:assignedEntity/v3:representedOrganization/v3:id[@root='" + DUNSRoot + "']")
)

// productLocator is one structural rule for finding NDCs.
type productLocator func(d *Document) []Product

// productLocators all run; a document may list NDCs in several sections.
var productLocators = []productLocator{
	activityProducts,
	equivalentProducts,
	bodyProducts,
}

// FindProducts returns every NDC occurrence in d, grouped by locator.
// Occurrences are not deduplicated across locators.
func FindProducts(d *Document) []Product {
	var products []Product
	for _, locate := range productLocators {
		products = append(products, locate(d)...)
	}
	return products
}

// activityProducts reads NDCs listed under manufacturing activities. The
// owning DUNS comes from the establishment the activity is registered to.
func activityProducts(d *Document) []Product {
	var products []Product
	for _, act := range selectAll(d.root, actDefinitionsExpr) {
		code := selectOne(act, actCodeExpr)
		if code == nil {
			continue
		}
		if label, _ := attr(code, "displayName"); !IsManufacturing(label) {
			continue
		}

		var related *string
		if org := establishmentOf(act); org != nil {
			related = nestedDUNS(org)
		}
		for _, ndc := range selectAll(act, activityNDCsExpr) {
			if v, ok := attr(ndc, "code"); ok {
				products = append(products, Product{NDC: v, Source: ActivityProduct, RelatedDUNS: related})
			}
		}
	}
	return products
}

// establishmentOf returns the assignedOrganization child of the outermost
// assignedEntity ancestor of n that has one.
func establishmentOf(n *xmlquery.Node) *xmlquery.Node {
	var found *xmlquery.Node
	for p := n.Parent; p != nil; p = p.Parent {
		if !isElement(p, "assignedEntity") {
			continue
		}
		if org := childElement(p, "assignedOrganization"); org != nil {
			found = org
		}
	}
	return found
}

// equivalentProducts reads NDCs from equivalence sections. When the section
// belongs to a manufactured product, the author organization owns them.
func equivalentProducts(d *Document) []Product {
	var products []Product
	author := authorDUNS(d)
	for _, equiv := range selectAll(d.root, equivalentsExpr) {
		var related *string
		if nearestAncestor(equiv, func(n *xmlquery.Node) bool { return isElement(n, "manufacturedProduct") }) != nil {
			related = author
		}
		for _, ndc := range selectAll(equiv, nestedNDCsExpr) {
			if v, ok := attr(ndc, "code"); ok {
				products = append(products, Product{NDC: v, Source: EquivalentProduct, RelatedDUNS: related})
			}
		}
	}
	return products
}

// bodyProducts reads NDCs from the structured body's product data elements,
// owned by the author organization.
func bodyProducts(d *Document) []Product {
	var products []Product
	author := authorDUNS(d)
	seen := make(map[string]bool)
	for _, product := range selectAll(d.root, bodyProductsExpr) {
		for _, ndc := range selectAll(product, bodyNDCsExpr) {
			v, ok := attr(ndc, "code")
			if !ok || seen[v] {
				continue
			}
			seen[v] = true
			products = append(products, Product{NDC: v, Source: BodyProduct, RelatedDUNS: author})
		}
	}
	return products
}

// authorDUNS returns the DUNS on the first author organization id, if any.
func authorDUNS(d *Document) *string {
	return firstAttr(selectAll(d.root, authorDUNSExpr), "extension")
}

package spl

import (
	"github.com/antchfx/xmlquery"
)

// OrgStrategy identifies the locator rule that found an organization.
type OrgStrategy string

const (
	AuthorOrg   OrgStrategy = "author"
	AssignedOrg OrgStrategy = "assignedOrganization"
	AnyDUNS     OrgStrategy = "dunsScan"
)

// Organization is an establishment or registrant identified by a DUNS
// number somewhere in a document.
type Organization struct {
	DUNS         string
	Name         *string
	Manufacturer bool
	Strategy     OrgStrategy
}

var (
	authorOrgsExpr    = compile("//v3:author/v3:assignedEntity/v3:representedOrganization")
	assignedOrgsExpr  = compile("//v3:assignedOrganization")
	dunsIDsExpr       = compile("//v3:id[@root='" + DUNSRoot + "']")
	nestedDUNSExpr    = compile(".//v3:id[@root='" + DUNSRoot + "']")
	childNameExpr     = compile("./v3:name")
	nestedNameExpr    = compile(".//v3:name")
	activityCodesExpr = compile(".//v3:performance/v3:actDefinition/v3:code")
)

// orgLocator is one structural rule for finding organizations.
type orgLocator func(d *Document) []Organization

// orgLocators run in priority order; the first rule to report a DUNS owns it.
var orgLocators = []orgLocator{
	authorOrganizations,
	assignedOrganizations,
	dunsIdentifiers,
}

// FindOrganizations returns every DUNS-bearing organization in d, one entry
// per DUNS, in locator priority order and document order within a locator.
func FindOrganizations(d *Document) []Organization {
	var orgs []Organization
	seen := make(map[string]bool)
	for _, locate := range orgLocators {
		for _, org := range locate(d) {
			if seen[org.DUNS] {
				continue
			}
			seen[org.DUNS] = true
			orgs = append(orgs, org)
		}
	}
	return orgs
}

// AuthorOrganizations returns the document author's represented
// organizations that carry a DUNS, regardless of their activities.
func AuthorOrganizations(d *Document) []Organization {
	return authorOrganizations(d)
}

func authorOrganizations(d *Document) []Organization {
	var orgs []Organization
	for _, n := range selectAll(d.root, authorOrgsExpr) {
		duns := nestedDUNS(n)
		if duns == nil || *duns == "" {
			continue
		}
		orgs = append(orgs, Organization{
			DUNS:         *duns,
			Name:         optText(selectOne(n, childNameExpr)),
			Manufacturer: performsManufacturing(n),
			Strategy:     AuthorOrg,
		})
	}
	return orgs
}

func assignedOrganizations(d *Document) []Organization {
	var orgs []Organization
	for _, n := range selectAll(d.root, assignedOrgsExpr) {
		duns := nestedDUNS(n)
		if duns == nil || *duns == "" {
			continue
		}
		orgs = append(orgs, Organization{
			DUNS:         *duns,
			Name:         optText(selectOne(n, nestedNameExpr)),
			Manufacturer: performsManufacturing(n),
			Strategy:     AssignedOrg,
		})
	}
	return orgs
}

// dunsIdentifiers scans every DUNS id in the document. Name and activities
// come from the nearest ancestor that has a name of its own.
func dunsIdentifiers(d *Document) []Organization {
	var orgs []Organization
	for _, id := range selectAll(d.root, dunsIDsExpr) {
		duns, _ := attr(id, "extension")
		if duns == "" {
			continue
		}
		org := Organization{DUNS: duns, Strategy: AnyDUNS}
		owner := nearestAncestor(id, func(n *xmlquery.Node) bool {
			return childElement(n, "name") != nil
		})
		if owner != nil {
			org.Name = optText(selectOne(owner, nestedNameExpr))
			org.Manufacturer = performsManufacturing(owner)
		}
		orgs = append(orgs, org)
	}
	return orgs
}

// nestedDUNS returns the extension of the first DUNS id at or below n.
func nestedDUNS(n *xmlquery.Node) *string {
	return firstAttr(selectAll(n, nestedDUNSExpr), "extension")
}

// performsManufacturing reports whether any activity nested under n is
// classified as manufacturing.
func performsManufacturing(n *xmlquery.Node) bool {
	for _, code := range selectAll(n, activityCodesExpr) {
		if label, _ := attr(code, "displayName"); IsManufacturing(label) {
			return true
		}
	}
	return false
}

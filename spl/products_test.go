package spl

import "testing"

func TestFindProductsEstablishmentListing(t *testing.T) {
	d := parseFixture(t, "establishment_listing.xml")

	products := FindProducts(d)

	expected := []struct {
		ndc     string
		source  ProductSource
		related string
	}{
		// Activity NDCs belong to the registrant, the assigned organization
		// the manufacturing activity is nested in.
		{"50090-0001-1", ActivityProduct, "555555555"},
		{"50090-0001-2", ActivityProduct, "555555555"},
		{"50090-0009-9", EquivalentProduct, "111111111"},
		{"50090-0001-1", BodyProduct, "111111111"},
	}
	if len(products) != len(expected) {
		t.Fatalf("expected %d products, got %d: %+v", len(expected), len(products), products)
	}
	for i, want := range expected {
		got := products[i]
		if got.NDC != want.ndc || got.Source != want.source || str(got.RelatedDUNS) != want.related {
			t.Errorf("product %d = {%s %s %s}, expected {%s %s %s}",
				i, got.NDC, got.Source, str(got.RelatedDUNS), want.ndc, want.source, want.related)
		}
	}
}

func TestFindProductsSkipsNonManufacturingActivities(t *testing.T) {
	d := parseString(t, `<document xmlns="urn:hl7-org:v3">
  <performance>
    <actDefinition>
      <code displayName="REPACK"/>
      <product>
        <manufacturedProduct>
          <manufacturedMaterialKind>
            <code code="11111-222-33" codeSystem="2.16.840.1.113883.6.69"/>
          </manufacturedMaterialKind>
        </manufacturedProduct>
      </product>
    </actDefinition>
  </performance>
  <performance>
    <actDefinition>
      <product>
        <manufacturedProduct>
          <manufacturedMaterialKind>
            <code code="44444-555-66" codeSystem="2.16.840.1.113883.6.69"/>
          </manufacturedMaterialKind>
        </manufacturedProduct>
      </product>
    </actDefinition>
  </performance>
</document>`)

	if products := FindProducts(d); len(products) != 0 {
		t.Errorf("expected no products, got %+v", products)
	}
}

func TestFindProductsActivityWithoutOrganization(t *testing.T) {
	d := parseString(t, `<document xmlns="urn:hl7-org:v3">
  <performance>
    <actDefinition>
      <code displayName="MANUFACTURE"/>
      <product>
        <manufacturedProduct>
          <manufacturedMaterialKind>
            <code code="11111-222-33" codeSystem="2.16.840.1.113883.6.69"/>
            <code code="99999" codeSystem="2.16.840.1.113883.6.1"/>
          </manufacturedMaterialKind>
        </manufacturedProduct>
      </product>
    </actDefinition>
  </performance>
</document>`)

	products := FindProducts(d)
	if len(products) != 1 {
		t.Fatalf("expected 1 product, got %d: %+v", len(products), products)
	}
	if products[0].NDC != "11111-222-33" {
		t.Errorf("NDC = %s, expected 11111-222-33", products[0].NDC)
	}
	if products[0].RelatedDUNS != nil {
		t.Errorf("RelatedDUNS = %s, expected nil", str(products[0].RelatedDUNS))
	}
}

func TestFindProductsBodyDuplicatesSuppressed(t *testing.T) {
	d := parseString(t, `<document xmlns="urn:hl7-org:v3">
  <component>
    <structuredBody>
      <component>
        <section>
          <subject>
            <manufacturedProduct>
              <manufacturedProduct>
                <code code="0002-1433-80" codeSystem="2.16.840.1.113883.6.69"/>
              </manufacturedProduct>
            </manufacturedProduct>
          </subject>
          <subject>
            <manufacturedProduct>
              <manufacturedMedicine>
                <code code="0002-1433-80" codeSystem="2.16.840.1.113883.6.69"/>
              </manufacturedMedicine>
            </manufacturedProduct>
          </subject>
          <subject>
            <manufacturedProduct>
              <manufacturedMedicine>
                <code code="0002-7510-01" codeSystem="2.16.840.1.113883.6.69"/>
              </manufacturedMedicine>
            </manufacturedProduct>
          </subject>
        </section>
      </component>
    </structuredBody>
  </component>
</document>`)

	products := FindProducts(d)
	if len(products) != 2 {
		t.Fatalf("expected 2 products, got %d: %+v", len(products), products)
	}
	if products[0].NDC != "0002-1433-80" || products[1].NDC != "0002-7510-01" {
		t.Errorf("unexpected NDCs: %s, %s", products[0].NDC, products[1].NDC)
	}
	for _, p := range products {
		if p.Source != BodyProduct {
			t.Errorf("Source = %s, expected %s", p.Source, BodyProduct)
		}
		if p.RelatedDUNS != nil {
			t.Errorf("RelatedDUNS = %s, expected nil without an author DUNS", str(p.RelatedDUNS))
		}
	}
}

func TestFindProductsEquivalentOutsideProduct(t *testing.T) {
	// Outside a manufactured product the equivalence section has no owner,
	// even though the document has an author DUNS.
	d := parseString(t, `<document xmlns="urn:hl7-org:v3">
  <author>
    <assignedEntity>
      <representedOrganization>
        <id extension="123456789" root="1.3.6.1.4.1.519.1"/>
      </representedOrganization>
    </assignedEntity>
  </author>
  <asEquivalentEntity classCode="EQUIV">
    <code code="0002-1433-99" codeSystem="2.16.840.1.113883.6.69"/>
  </asEquivalentEntity>
  <asEquivalentEntity classCode="SAME">
    <code code="0002-1433-98" codeSystem="2.16.840.1.113883.6.69"/>
  </asEquivalentEntity>
</document>`)

	products := FindProducts(d)
	if len(products) != 1 {
		t.Fatalf("expected 1 product, got %d: %+v", len(products), products)
	}
	if products[0].Source != EquivalentProduct || products[0].RelatedDUNS != nil {
		t.Errorf("unexpected product %+v (related %s)", products[0], str(products[0].RelatedDUNS))
	}
}

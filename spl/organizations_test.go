package spl

import "testing"

func TestFindOrganizationsEstablishmentListing(t *testing.T) {
	d := parseFixture(t, "establishment_listing.xml")

	orgs := FindOrganizations(d)

	expected := []struct {
		duns         string
		name         string
		manufacturer bool
		strategy     OrgStrategy
	}{
		{"111111111", "Acme Labeler Inc", true, AuthorOrg},
		{"555555555", "Acme Registrant", true, AssignedOrg},
		{"222222222", "Acme Plant A", false, AssignedOrg},
		{"333333333", "Beta Analytical", false, AssignedOrg},
		{"444444444", "Gamma Holdings", false, AssignedOrg},
	}
	if len(orgs) != len(expected) {
		t.Fatalf("expected %d organizations, got %d: %+v", len(expected), len(orgs), orgs)
	}
	for i, want := range expected {
		got := orgs[i]
		if got.DUNS != want.duns {
			t.Errorf("org %d: DUNS = %s, expected %s", i, got.DUNS, want.duns)
		}
		if str(got.Name) != want.name {
			t.Errorf("org %d: Name = %s, expected %s", i, str(got.Name), want.name)
		}
		if got.Manufacturer != want.manufacturer {
			t.Errorf("org %d (%s): Manufacturer = %v, expected %v", i, got.DUNS, got.Manufacturer, want.manufacturer)
		}
		if got.Strategy != want.strategy {
			t.Errorf("org %d (%s): Strategy = %s, expected %s", i, got.DUNS, got.Strategy, want.strategy)
		}
	}
}

func TestFindOrganizationsDeduplicatesByDUNS(t *testing.T) {
	// The same DUNS appears under the author and again as an assigned
	// organization without activities; the author entry must survive.
	d := parseString(t, `<document xmlns="urn:hl7-org:v3">
  <author>
    <assignedEntity>
      <representedOrganization>
        <id extension="999999999" root="1.3.6.1.4.1.519.1"/>
        <name>Author Org</name>
        <assignedEntity>
          <performance>
            <actDefinition>
              <code displayName="MANUFACTURE"/>
            </actDefinition>
          </performance>
        </assignedEntity>
      </representedOrganization>
    </assignedEntity>
  </author>
  <performer>
    <assignedEntity>
      <assignedOrganization>
        <id extension="999999999" root="1.3.6.1.4.1.519.1"/>
        <name>Duplicate Org</name>
      </assignedOrganization>
    </assignedEntity>
  </performer>
</document>`)

	orgs := FindOrganizations(d)
	if len(orgs) != 1 {
		t.Fatalf("expected 1 organization, got %d: %+v", len(orgs), orgs)
	}
	if !orgs[0].Manufacturer {
		t.Error("later locator overwrote the manufacturer flag")
	}
	if str(orgs[0].Name) != "Author Org" {
		t.Errorf("Name = %s, expected Author Org", str(orgs[0].Name))
	}
	if orgs[0].Strategy != AuthorOrg {
		t.Errorf("Strategy = %s, expected %s", orgs[0].Strategy, AuthorOrg)
	}
}

func TestFindOrganizationsIgnoresOtherIDRoots(t *testing.T) {
	d := parseString(t, `<document xmlns="urn:hl7-org:v3">
  <author>
    <assignedEntity>
      <representedOrganization>
        <id extension="3001234567" root="2.16.840.1.113883.4.82"/>
        <name>FEI Only</name>
      </representedOrganization>
    </assignedEntity>
  </author>
</document>`)

	if orgs := FindOrganizations(d); len(orgs) != 0 {
		t.Errorf("expected no organizations, got %+v", orgs)
	}
}

func TestFindOrganizationsCatchAllScan(t *testing.T) {
	// A DUNS id outside any organization element is still found; its name
	// and activities come from the nearest named ancestor.
	d := parseString(t, `<document xmlns="urn:hl7-org:v3">
  <participant>
    <participantRole>
      <name>Contract Site</name>
      <scopingEntity>
        <id extension="246813579" root="1.3.6.1.4.1.519.1"/>
      </scopingEntity>
      <performance>
        <actDefinition>
          <code displayName="MANUFACTURE"/>
        </actDefinition>
      </performance>
    </participantRole>
  </participant>
  <subject>
    <id extension="135792468" root="1.3.6.1.4.1.519.1"/>
  </subject>
</document>`)

	orgs := FindOrganizations(d)
	if len(orgs) != 2 {
		t.Fatalf("expected 2 organizations, got %d: %+v", len(orgs), orgs)
	}
	if orgs[0].DUNS != "246813579" || str(orgs[0].Name) != "Contract Site" || !orgs[0].Manufacturer {
		t.Errorf("unexpected first organization: DUNS=%s Name=%s Manufacturer=%v",
			orgs[0].DUNS, str(orgs[0].Name), orgs[0].Manufacturer)
	}
	if orgs[0].Strategy != AnyDUNS {
		t.Errorf("Strategy = %s, expected %s", orgs[0].Strategy, AnyDUNS)
	}
	if orgs[1].DUNS != "135792468" || orgs[1].Name != nil || orgs[1].Manufacturer {
		t.Errorf("unexpected second organization: DUNS=%s Name=%s Manufacturer=%v",
			orgs[1].DUNS, str(orgs[1].Name), orgs[1].Manufacturer)
	}
}

func TestAuthorOrganizations(t *testing.T) {
	d := parseFixture(t, "author_only.xml")

	authors := AuthorOrganizations(d)
	if len(authors) != 1 {
		t.Fatalf("expected 1 author organization, got %d", len(authors))
	}
	if authors[0].DUNS != "123456789" {
		t.Errorf("DUNS = %s, expected 123456789", authors[0].DUNS)
	}
	if authors[0].Manufacturer {
		t.Error("author without activities should not be classified as manufacturer")
	}
}

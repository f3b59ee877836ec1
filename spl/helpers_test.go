package spl

import (
	"path/filepath"
	"strings"
	"testing"
)

// parseString parses an inline SPL fixture.
func parseString(t *testing.T, xml string) *Document {
	t.Helper()
	d, err := Parse(t.Name(), strings.NewReader(xml))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	return d
}

// parseFixture parses a file under testdata/.
func parseFixture(t *testing.T, name string) *Document {
	t.Helper()
	d, err := ParseFile(filepath.Join("testdata", name))
	if err != nil {
		t.Fatalf("ParseFile(%s): %v", name, err)
	}
	return d
}

// str renders an optional string for comparisons and messages.
func str(s *string) string {
	if s == nil {
		return "<nil>"
	}
	return *s
}

// strPtr returns a pointer to s.
func strPtr(s string) *string { return &s }

// mappingPairs flattens mappings into "ndc|duns" strings.
func mappingPairs(ms []Mapping) []string {
	out := make([]string, len(ms))
	for i, m := range ms {
		out[i] = str(m.NDC) + "|" + str(m.DUNS)
	}
	return out
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// twoManufacturersDoc has two manufacturing organizations, listed first and
// second as given, and one body NDC with no owning organization.
func twoManufacturersDoc(first, second string) string {
	org := func(duns, name string) string {
		return `
    <assignedEntity>
      <assignedOrganization>
        <id extension="` + duns + `" root="1.3.6.1.4.1.519.1"/>
        <name>` + name + `</name>
        <assignedEntity>
          <performance>
            <actDefinition>
              <code code="C43360" codeSystem="2.16.840.1.113883.3.26.1.1" displayName="MANUFACTURE"/>
            </actDefinition>
          </performance>
        </assignedEntity>
      </assignedOrganization>
    </assignedEntity>`
	}
	return `<?xml version="1.0" encoding="UTF-8"?>
<document xmlns="urn:hl7-org:v3">
  <author>
    <assignedEntity>
      <representedOrganization>
        <name>Unregistered Author</name>
      </representedOrganization>
    </assignedEntity>
  </author>
  <performer>` + org(first, "Maker "+first) + org(second, "Maker "+second) + `
  </performer>
  <component>
    <structuredBody>
      <component>
        <section>
          <subject>
            <manufacturedProduct>
              <manufacturedProduct>
                <code code="12345-678-90" codeSystem="2.16.840.1.113883.6.69"/>
              </manufacturedProduct>
            </manufacturedProduct>
          </subject>
        </section>
      </component>
    </structuredBody>
  </component>
</document>`
}

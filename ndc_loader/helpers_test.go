package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"ndcduns/spl"
)

// labelXML renders an SPL document authored by duns that lists ndcs as
// body products and has no establishment section.
func labelXML(duns string, ndcs ...string) string {
	var products strings.Builder
	for _, ndc := range ndcs {
		fmt.Fprintf(&products, `
          <subject>
            <manufacturedProduct>
              <manufacturedProduct>
                <code code="%s" codeSystem="2.16.840.1.113883.6.69"/>
              </manufacturedProduct>
            </manufacturedProduct>
          </subject>`, ndc)
	}
	return `<?xml version="1.0" encoding="UTF-8"?>
<document xmlns="urn:hl7-org:v3">
  <author>
    <assignedEntity>
      <representedOrganization>
        <id extension="` + duns + `" root="1.3.6.1.4.1.519.1"/>
        <name>Labeler ` + duns + `</name>
      </representedOrganization>
    </assignedEntity>
  </author>
  <component>
    <structuredBody>
      <component>
        <section>` + products.String() + `
        </section>
      </component>
    </structuredBody>
  </component>
</document>`
}

// writeLabel writes labelXML to dir/name and returns the path.
func writeLabel(t *testing.T, dir, name, duns string, ndcs ...string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(labelXML(duns, ndcs...)), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

// copyFixture copies testdata/name into dir.
func copyFixture(t *testing.T, dir, name string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("testdata", name))
	if err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

// strPtr returns a pointer to s.
func strPtr(s string) *string { return &s }

func str(s *string) string {
	if s == nil {
		return "<nil>"
	}
	return *s
}

// pairs flattens mappings into "ndc|duns" strings.
func pairs(ms []spl.Mapping) []string {
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

// Package spl extracts NDC to DUNS relationships from HL7 v3 Structured
// Product Label documents.
//
// A Document is parsed once and then queried read-only by the locators in
// this package. Two extraction generations are available and must be chosen
// explicitly through Config.Mode:
//
//   - ModeFiltered keeps only manufacturing establishments and emits at most
//     one mapping per NDC, both NDC and DUNS present.
//   - ModeEmitAll walks the registered establishments and emits every
//     establishment × activity × NDC combination, nulls allowed.
package spl

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/antchfx/xmlquery"
	"github.com/antchfx/xpath"
)

// Namespace is the HL7 v3 namespace of every SPL element.
const Namespace = "urn:hl7-org:v3"

const (
	// DUNSRoot is the id root OID that marks an id extension as a DUNS number.
	DUNSRoot = "1.3.6.1.4.1.519.1"
	// NDCCodeSystem is the code system OID of National Drug Codes.
	NDCCodeSystem = "2.16.840.1.113883.6.69"
)

var namespaces = map[string]string{"v3": Namespace}

var errNoRootElement = errors.New("no root element")

// compile compiles an XPath expression against the v3 prefix. Expressions in
// this package are constants, so a failure is a programming error.
func compile(expr string) *xpath.Expr {
	e, err := xpath.CompileWithNS(expr, namespaces)
	if err != nil {
		panic(fmt.Sprintf("spl: compile %q: %v", expr, err))
	}
	return e
}

// DocumentError reports a document that could not be parsed or extracted.
// It is recoverable: callers skip the document and continue the batch.
type DocumentError struct {
	Name string
	Err  error
}

func (e *DocumentError) Error() string {
	return fmt.Sprintf("document %s: %v", e.Name, e.Err)
}

func (e *DocumentError) Unwrap() error { return e.Err }

// Document is one parsed label. It is never modified after Parse.
type Document struct {
	Name string
	root *xmlquery.Node
}

// Parse reads a complete SPL document from r. name identifies the document
// in errors and logs.
func Parse(name string, r io.Reader) (*Document, error) {
	root, err := xmlquery.Parse(r)
	if err != nil {
		return nil, &DocumentError{Name: name, Err: err}
	}
	if root == nil || !hasElementChild(root) {
		return nil, &DocumentError{Name: name, Err: errNoRootElement}
	}
	return &Document{Name: name, root: root}, nil
}

// ParseFile opens and parses the SPL document at path.
func ParseFile(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &DocumentError{Name: path, Err: err}
	}
	defer f.Close()

	return Parse(path, bufio.NewReaderSize(f, 64*1024))
}

func selectAll(n *xmlquery.Node, e *xpath.Expr) []*xmlquery.Node {
	return xmlquery.QuerySelectorAll(n, e)
}

func selectOne(n *xmlquery.Node, e *xpath.Expr) *xmlquery.Node {
	return xmlquery.QuerySelector(n, e)
}

// attr returns the value of the unqualified attribute name and whether it
// is present at all.
func attr(n *xmlquery.Node, name string) (string, bool) {
	if n == nil {
		return "", false
	}
	for _, a := range n.Attr {
		if a.Name.Local == name && a.Name.Space == "" {
			return a.Value, true
		}
	}
	return "", false
}

// optAttr is attr as a nullable value.
func optAttr(n *xmlquery.Node, name string) *string {
	v, ok := attr(n, name)
	if !ok {
		return nil
	}
	return &v
}

// firstAttr returns the named attribute of the first node carrying it,
// mirroring an XPath "expr/@name" lookup.
func firstAttr(nodes []*xmlquery.Node, name string) *string {
	for _, n := range nodes {
		if v := optAttr(n, name); v != nil {
			return v
		}
	}
	return nil
}

func nonEmpty(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	return s
}

// optText returns the text content of n, or nil for a missing or empty node.
func optText(n *xmlquery.Node) *string {
	if n == nil {
		return nil
	}
	s := n.InnerText()
	if s == "" {
		return nil
	}
	return &s
}

// nearestAncestor walks up from n and returns the first element satisfying
// match, or nil.
func nearestAncestor(n *xmlquery.Node, match func(*xmlquery.Node) bool) *xmlquery.Node {
	for p := n.Parent; p != nil; p = p.Parent {
		if p.Type == xmlquery.ElementNode && match(p) {
			return p
		}
	}
	return nil
}

func hasElementChild(n *xmlquery.Node) bool {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == xmlquery.ElementNode {
			return true
		}
	}
	return false
}

// isElement reports whether n is the v3 element with the given local name.
func isElement(n *xmlquery.Node, local string) bool {
	return n != nil && n.Type == xmlquery.ElementNode && n.Data == local && n.NamespaceURI == Namespace
}

// childElement returns the first v3 child element of n with the given local
// name.
func childElement(n *xmlquery.Node, local string) *xmlquery.Node {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if isElement(c, local) {
			return c
		}
	}
	return nil
}

package xmltree

import (
	"testing"

	"github.com/RoyWorkerLuo/libyang/pkg/dict"
	"github.com/RoyWorkerLuo/libyang/pkg/diag"
)

func mustParse(t *testing.T, src string) *Element {
	t.Helper()
	root, err := Parse([]byte(src), diag.NewSink(), dict.New())
	if err != nil {
		t.Fatalf("Parse(%q): %v", src, err)
	}
	return root
}

func TestParseSimpleElement(t *testing.T) {
	root := mustParse(t, `<module name="m"><leaf name="x"/></module>`)
	if root.Name.Value() != "module" {
		t.Fatalf("root name = %q, want module", root.Name.Value())
	}
	if got := root.AttrValue("name"); got != "m" {
		t.Fatalf("name attr = %q, want m", got)
	}
	if ChildCount(root) != 1 {
		t.Fatalf("ChildCount = %d, want 1", ChildCount(root))
	}
	leaf := root.FirstChild
	if leaf.Name.Value() != "leaf" || leaf.AttrValue("name") != "x" {
		t.Fatalf("leaf child malformed: %+v", leaf)
	}
}

func TestParseNamespaceResolution(t *testing.T) {
	root := mustParse(t, `<a xmlns="urn:x"><b xmlns:p="urn:y" p:q="1"/></a>`)
	if root.NS == nil || root.NS.Value() != "urn:x" {
		t.Fatalf("root namespace = %v, want urn:x", root.NS)
	}
	b := root.FirstChild
	if b.NS == nil || b.NS.Value() != "urn:x" {
		t.Fatalf("b inherits default namespace, got %v", b.NS)
	}
	attr := b.Attr("q")
	if attr == nil || attr.NS == nil || attr.NS.Value() != "urn:y" {
		t.Fatalf("attribute q namespace = %v, want urn:y", attr)
	}
}

func TestParseUnresolvablePrefixFails(t *testing.T) {
	_, err := Parse([]byte(`<p:a/>`), diag.NewSink(), dict.New())
	if err == nil {
		t.Fatalf("expected unresolvable prefix error")
	}
}

func TestParseEntitiesAndNumericRefs(t *testing.T) {
	root := mustParse(t, `<x>a&lt;b&amp;c&#65;&#x42;</x>`)
	if got, want := root.Text.Value(), "a<b&cAB"; got != want {
		t.Fatalf("text = %q, want %q", got, want)
	}
}

func TestParseCDATA(t *testing.T) {
	root := mustParse(t, `<x><![CDATA[<not a tag> & stuff]]></x>`)
	if got, want := root.Text.Value(), "<not a tag> & stuff"; got != want {
		t.Fatalf("text = %q, want %q", got, want)
	}
}

func TestParseComment(t *testing.T) {
	root := mustParse(t, `<x><!-- comment --><y/></x>`)
	if ChildCount(root) != 1 {
		t.Fatalf("comment was not discarded: ChildCount = %d", ChildCount(root))
	}
}

func TestParseMixedContentFlag(t *testing.T) {
	root := mustParse(t, `<x>some text<y/></x>`)
	if !root.Mixed {
		t.Fatalf("expected Mixed = true")
	}
}

func TestParseWhitespaceBetweenChildrenIsNotMixed(t *testing.T) {
	root := mustParse(t, "<x>\n  <y/>\n</x>")
	if root.Mixed {
		t.Fatalf("pretty-printing whitespace should not set Mixed")
	}
}

func TestParseMismatchedEndTagFails(t *testing.T) {
	_, err := Parse([]byte(`<a><b></a></b>`), diag.NewSink(), dict.New())
	if err == nil {
		t.Fatalf("expected mismatched end tag error")
	}
}

func TestParseEmptyDocumentFails(t *testing.T) {
	_, err := Parse([]byte(""), diag.NewSink(), dict.New())
	if err == nil {
		t.Fatalf("expected empty document error")
	}
}

func TestParseSelfClosingAttributeQuoting(t *testing.T) {
	root := mustParse(t, `<leaf name='x' xmlns='urn:z'/>`)
	if root.AttrValue("name") != "x" {
		t.Fatalf("single-quoted attribute not parsed")
	}
	if root.NS.Value() != "urn:z" {
		t.Fatalf("single-quoted xmlns not parsed")
	}
}

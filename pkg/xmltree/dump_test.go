package xmltree

import (
	"testing"

	"github.com/RoyWorkerLuo/libyang/pkg/dict"
	"github.com/RoyWorkerLuo/libyang/pkg/diag"
)

func TestDumpRoundTrip(t *testing.T) {
	srcs := []string{
		`<module name="m"><leaf name="x"><type name="string"/></leaf></module>`,
		`<a xmlns="urn:x"><b xmlns:p="urn:y" p:q="1"/></a>`,
		`<x>hello</x>`,
		`<empty/>`,
	}
	for _, src := range srcs {
		root, err := Parse([]byte(src), diag.NewSink(), dict.New())
		if err != nil {
			t.Fatalf("Parse(%q): %v", src, err)
		}
		first := String(root, DumpOptions{})

		root2, err := Parse([]byte(first), diag.NewSink(), dict.New())
		if err != nil {
			t.Fatalf("re-parsing dumped output %q: %v", first, err)
		}
		second := String(root2, DumpOptions{})

		if first != second {
			t.Fatalf("round trip not stable:\n first=%q\nsecond=%q", first, second)
		}
	}
}

func TestDumpChildNamespaceBoundOnlyViaAncestorPrefix(t *testing.T) {
	d := dict.New()
	b := d.Insert("urn:B")
	a := &Element{Name: d.Insert("a")}
	a.FirstAttr = &Attr{Kind: StdAttr, Name: d.Insert("attr"), Value: d.Insert("1"), NS: b, Parent: a}
	c := &Element{Name: d.Insert("c"), NS: b}
	AppendChild(a, c)

	out := String(a, DumpOptions{})

	root2, err := Parse([]byte(out), diag.NewSink(), dict.New())
	if err != nil {
		t.Fatalf("re-parsing dumped output %q: %v", out, err)
	}
	child := root2.FirstChild
	if child == nil || child.NS == nil || child.NS.Value() != "urn:B" {
		t.Fatalf("dump = %q: child namespace urn:B lost on round trip", out)
	}
}

func TestDumpOpenOnly(t *testing.T) {
	root, _ := Parse([]byte(`<leaf name="x"><type name="string"/></leaf>`), diag.NewSink(), dict.New())
	out := String(root, DumpOptions{OpenOnly: true})
	if out != `<leaf name="x">` {
		t.Fatalf("open-only dump = %q", out)
	}
}

func TestDumpAttrsOnly(t *testing.T) {
	root, _ := Parse([]byte(`<leaf name="x" config="false"/>`), diag.NewSink(), dict.New())
	out := String(root, DumpOptions{AttrsOnly: true})
	if out != `name="x" config="false"` {
		t.Fatalf("attrs-only dump = %q", out)
	}
}

func TestDumpEscaping(t *testing.T) {
	root, _ := Parse([]byte(`<x>a&lt;b</x>`), diag.NewSink(), dict.New())
	out := String(root, DumpOptions{})
	if out != `<x>a&lt;b</x>` {
		t.Fatalf("dump = %q", out)
	}
}

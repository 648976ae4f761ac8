package xmltree

import (
	"testing"

	"github.com/RoyWorkerLuo/libyang/pkg/dict"
)

func ring(n int) *Element {
	root := &Element{}
	for i := 0; i < n; i++ {
		AppendChild(root, &Element{})
	}
	return root
}

func checkRing(t *testing.T, root *Element, n int) {
	t.Helper()
	if n == 0 {
		if root.FirstChild != nil {
			t.Fatalf("expected no children, got some")
		}
		return
	}
	first := root.FirstChild
	last := LastChild(root)
	if first.Prev != last {
		t.Fatalf("first.Prev != last")
	}
	if last.Next != nil {
		t.Fatalf("last.Next != nil")
	}
	steps := 0
	for c := first; c != last; c = c.Next {
		steps++
		if steps > n {
			t.Fatalf("walking Next from first never reached last")
		}
	}
	if steps != n-1 {
		t.Fatalf("walking Next from first to last took %d steps, want %d", steps, n-1)
	}
	if got := ChildCount(root); got != n {
		t.Fatalf("ChildCount = %d, want %d", got, n)
	}
}

func TestHalfRingInvariantAfterAppend(t *testing.T) {
	for n := 0; n <= 5; n++ {
		checkRing(t, ring(n), n)
	}
}

func TestRemoveChildMiddle(t *testing.T) {
	root := ring(5)
	children := Children(root)
	RemoveChild(root, children[2])
	checkRing(t, root, 4)
	if children[2].Parent != nil || children[2].Next != nil || children[2].Prev != nil {
		t.Fatalf("removed child still linked")
	}
}

func TestRemoveChildFirst(t *testing.T) {
	root := ring(3)
	children := Children(root)
	RemoveChild(root, children[0])
	checkRing(t, root, 2)
	if root.FirstChild != children[1] {
		t.Fatalf("FirstChild not updated after removing the first child")
	}
}

func TestRemoveChildLast(t *testing.T) {
	root := ring(3)
	children := Children(root)
	RemoveChild(root, children[2])
	checkRing(t, root, 2)
	if LastChild(root) != children[1] {
		t.Fatalf("LastChild not updated after removing the last child")
	}
}

func TestRemoveOnlyChild(t *testing.T) {
	root := ring(1)
	children := Children(root)
	RemoveChild(root, children[0])
	checkRing(t, root, 0)
}

func TestRemoveThenReAppend(t *testing.T) {
	root := ring(2)
	children := Children(root)
	moved := children[0]
	RemoveChild(root, moved)
	AppendChild(root, moved)
	checkRing(t, root, 2)
	if LastChild(root) != moved {
		t.Fatalf("re-appended child is not last")
	}
}

func TestFreeReleasesDictRefs(t *testing.T) {
	d := dict.New()
	name := d.Insert("a")
	attrName := d.Insert("x")
	attrValue := d.Insert("1")
	ns := d.Insert("urn:test")

	root := &Element{Name: name, NS: ns}
	root.FirstAttr = &Attr{Kind: StdAttr, Name: attrName, Value: attrValue, Parent: root}
	child := &Element{Name: d.Insert("a")}
	AppendChild(root, child)

	if got := name.RefCount(); got != 2 {
		t.Fatalf("name refcount before Free = %d, want 2", got)
	}

	Free(d, root)

	if got := name.RefCount(); got != 0 {
		t.Fatalf("name refcount after Free = %d, want 0", got)
	}
	if got := attrName.RefCount(); got != 0 {
		t.Fatalf("attr name refcount after Free = %d, want 0", got)
	}
	if got := attrValue.RefCount(); got != 0 {
		t.Fatalf("attr value refcount after Free = %d, want 0", got)
	}
	if got := ns.RefCount(); got != 0 {
		t.Fatalf("ns refcount after Free = %d, want 0", got)
	}
	if root.FirstChild != nil || root.Name != nil || root.NS != nil {
		t.Fatalf("root not cleared after Free")
	}
}

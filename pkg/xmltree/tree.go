// Copyright 2015 Google Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package xmltree implements the in-memory XML tree used as the lexing
// and parsing substrate for YIN (spec §3.1, §4.4): a namespace-aware DOM
// whose sibling lists are arranged as a half-ring (the first child's Prev
// points at the last child, but the last child's Next is nil), so that
// appending a child is O(1) without keeping a separate tail pointer.
package xmltree

import "github.com/RoyWorkerLuo/libyang/pkg/dict"

// AttrKind distinguishes a standard attribute from a namespace
// declaration; the parser classifies every attribute into one of the two
// at parse time (spec §4.4).
type AttrKind int

const (
	// StdAttr is an ordinary name="value" attribute.
	StdAttr AttrKind = iota
	// NSDecl is an xmlns or xmlns:prefix namespace declaration.
	NSDecl
)

// Namespace is a resolved (prefix, URI) binding.  Prefix is nil for the
// default namespace.
type Namespace struct {
	Prefix *dict.String
	URI    *dict.String
}

// Attr is a single attribute in an element's singly linked attribute
// list.  For a StdAttr, NS is the namespace the attribute's own prefix
// (if any) resolved to; for an NSDecl, Name holds the declared prefix
// (nil for the default namespace) and Value holds the URI.
type Attr struct {
	Next   *Attr
	Parent *Element

	Kind AttrKind
	Name *dict.String
	// Value is the attribute's entity-unescaped text (StdAttr) or the
	// declared namespace URI (NSDecl).
	Value *dict.String
	// NS is the resolved namespace of a StdAttr's name; always nil for
	// an NSDecl.
	NS *dict.String
}

// Element is one node of the XML tree.  Children are linked as a
// half-ring: FirstChild.Prev points at the last child; the last child's
// Next is nil.  Walking Next from FirstChild reaches the last child in
// N-1 steps for an N-child element.
type Element struct {
	Parent     *Element
	FirstChild *Element
	Next, Prev *Element
	FirstAttr  *Attr

	Name *dict.String
	// NS is the element's own resolved namespace URI (not its prefix).
	NS *dict.String
	// Text is the element's character content, set only when the
	// element has no child elements.  Mixed is set instead when both
	// character data and child elements are present.
	Text  *dict.String
	Mixed bool
	// Line is the 1-based source line the open tag started on, or 0 if
	// the tree was not produced by Parse (e.g. built programmatically).
	Line int
}

// AppendChild appends child to the end of parent's child half-ring and
// sets child.Parent.  child must not already be linked into a tree.
func AppendChild(parent, child *Element) {
	child.Parent = parent
	child.Next = nil
	if parent.FirstChild == nil {
		child.Prev = child
		parent.FirstChild = child
		return
	}
	last := parent.FirstChild.Prev
	last.Next = child
	child.Prev = last
	parent.FirstChild.Prev = child
}

// RemoveChild detaches child from its parent's half-ring, re-linking both
// Next and Prev so the ring invariant (first.Prev == last) holds for the
// remaining children.  child.Parent is set to nil; child.Next/Prev are
// cleared.
func RemoveChild(parent, child *Element) {
	if parent == nil || child.Parent != parent {
		return
	}
	first := parent.FirstChild
	last := first.Prev

	prev := child.Prev
	next := child.Next

	switch {
	case child == first && child == last:
		// only child
		parent.FirstChild = nil
	case child == first:
		parent.FirstChild = next
		next.Prev = last
	case child == last:
		first.Prev = prev
		prev.Next = nil
	default:
		prev.Next = next
		next.Prev = prev
	}

	child.Parent = nil
	child.Next = nil
	child.Prev = nil
}

// Children returns child elements in document order as a slice; it is a
// convenience for callers that do not want to walk Next by hand.
func Children(e *Element) []*Element {
	if e == nil || e.FirstChild == nil {
		return nil
	}
	var out []*Element
	for c := e.FirstChild; c != nil; c = c.Next {
		out = append(out, c)
	}
	return out
}

// ChildCount returns the number of direct children of e.
func ChildCount(e *Element) int {
	n := 0
	for c := e.FirstChild; c != nil; c = c.Next {
		n++
	}
	return n
}

// LastChild returns e's last child, using the half-ring's O(1) back
// pointer, or nil if e has no children.
func LastChild(e *Element) *Element {
	if e == nil || e.FirstChild == nil {
		return nil
	}
	return e.FirstChild.Prev
}

// Attrs returns e's standard (non-namespace-declaration) attributes in
// document order.
func Attrs(e *Element) []*Attr {
	var out []*Attr
	for a := e.FirstAttr; a != nil; a = a.Next {
		if a.Kind == StdAttr {
			out = append(out, a)
		}
	}
	return out
}

// Attr returns e's standard attribute named name (unprefixed, matched on
// local name only), or nil.
func (e *Element) Attr(name string) *Attr {
	for a := e.FirstAttr; a != nil; a = a.Next {
		if a.Kind == StdAttr && a.Name.Value() == name {
			return a
		}
	}
	return nil
}

// AttrValue is shorthand for Attr(name)'s value, or "" if absent.
func (e *Element) AttrValue(name string) string {
	if a := e.Attr(name); a != nil {
		return a.Value.Value()
	}
	return ""
}

// Free recursively detaches and clears e and its descendants, releasing
// every *dict.String field (Name, NS, Text, and each attribute's Name,
// Value and NS) back to d.  It is provided to satisfy spec §4.4's "caller
// owns the tree and must free it" contract for callers porting libyang
// idioms; it is not required for memory safety under the Go garbage
// collector, but it does make a double-free or use-after-free a
// deterministic nil-pointer panic rather than undefined behavior, and it
// keeps d's refcounts in step with spec §5's "every insert is paired with
// a remove when the referencing structure is destroyed."
func Free(d *dict.Dictionary, e *Element) {
	if e == nil {
		return
	}
	for c := e.FirstChild; c != nil; {
		next := c.Next
		Free(d, c)
		c = next
	}
	for a := e.FirstAttr; a != nil; {
		next := a.Next
		freeAttr(d, a)
		a = next
	}
	d.Remove(e.Name)
	d.Remove(e.NS)
	d.Remove(e.Text)
	e.FirstChild = nil
	e.FirstAttr = nil
	e.Parent = nil
	e.Next = nil
	e.Prev = nil
	e.Name = nil
	e.NS = nil
	e.Text = nil
}

// freeAttr releases a's interned fields and detaches it from its sibling
// list.  NSDecl attrs have a nil NS (spec §4.4), so the NS removal is a
// no-op for those; Remove itself is already a no-op on a nil String.
func freeAttr(d *dict.Dictionary, a *Attr) {
	d.Remove(a.Name)
	d.Remove(a.Value)
	d.Remove(a.NS)
	a.Parent = nil
	a.Next = nil
	a.Name = nil
	a.Value = nil
	a.NS = nil
}

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

package yang

import (
	"github.com/RoyWorkerLuo/libyang/pkg/dict"
	"github.com/RoyWorkerLuo/libyang/pkg/xmltree"
)

// Kind discriminates the data-definition statements a Node can represent
// (spec §3.2's "Schema node" row).
type Kind int

const (
	KindContainer Kind = iota
	KindList
	KindLeaf
	KindLeafList
	KindChoice
	KindCase
	KindUses
	KindGrouping
	KindAnyxml
)

func (k Kind) String() string {
	switch k {
	case KindContainer:
		return "container"
	case KindList:
		return "list"
	case KindLeaf:
		return "leaf"
	case KindLeafList:
		return "leaf-list"
	case KindChoice:
		return "choice"
	case KindCase:
		return "case"
	case KindUses:
		return "uses"
	case KindGrouping:
		return "grouping"
	case KindAnyxml:
		return "anyxml"
	default:
		return "unknown"
	}
}

// Node is a single compiled schema-tree node: a container, list, leaf,
// leaf-list, choice, case, uses, grouping or anyxml.  Children of the
// same parent form a half-ring exactly like xmltree.Element's (spec
// §3.2, §4.5): FirstChild.Prev is the last child; the last child's Next
// is nil.
//
// Rather than a tagged union of per-kind payload structs, Node follows
// the teacher's Entry convention of one flattened struct whose
// kind-specific fields are meaningful only for the Kinds that use them;
// Kind is always the discriminant to consult first.
type Node struct {
	Kind Kind

	Parent             *Node
	FirstChild         *Node
	Next, Prev         *Node
	Module             *Module
	Name               *dict.String
	Description        *dict.String
	Reference          *dict.String
	Status             Status
	Config             Config
	Mandatory          bool
	OrderedByUser      bool
	// Presence holds the (possibly empty) presence-statement text for a
	// presence container, and is nil for a non-presence container.
	Presence *dict.String

	// Typedefs is populated for KindContainer, KindList and
	// KindGrouping, which is the set of ancestor kinds spec §4.6's
	// fill_type walk consults.
	Typedefs []*Typedef

	// List-specific.
	Keys           []*Node
	MinElements    uint64
	MaxElements    uint64
	HasMinElements bool
	HasMaxElements bool

	// Leaf / leaf-list specific.
	Type    *Type
	Units   *dict.String
	Default *dict.String

	// Uses-specific.  UsesGrouping is nil until resolution completes;
	// Refinements/Augments are recorded unparsed per spec's Non-goals
	// ("refinement/augment application to uses" is explicitly out of
	// scope).
	UsesGrouping *Node
	Refinements  []*xmltree.Element
}

// AddChild appends child to parent's half-ring of children and sets
// child.Parent, mirroring xmltree.AppendChild at the schema-node level
// (spec §4.5).
func AddChild(parent, child *Node) {
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

// RemoveChild detaches child from parent's half-ring.
func RemoveChild(parent, child *Node) {
	if parent == nil || child.Parent != parent {
		return
	}
	first := parent.FirstChild
	last := first.Prev
	prev, next := child.Prev, child.Next
	switch {
	case child == first && child == last:
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
	child.Parent, child.Next, child.Prev = nil, nil, nil
}

// Children returns n's direct children in document order.
func Children(n *Node) []*Node {
	if n == nil {
		return nil
	}
	var out []*Node
	for c := n.FirstChild; c != nil; c = c.Next {
		out = append(out, c)
	}
	return out
}

// FindNodeByName performs the linear half-ring search of spec §4.5's
// find_node_by_name.  kindMask, if non-empty, restricts the search to
// the listed Kinds; an empty mask matches any kind.
func FindNodeByName(parent *Node, name string, kindMask ...Kind) *Node {
	for c := parent.FirstChild; c != nil; c = c.Next {
		if c.Name.Value() != name {
			continue
		}
		if len(kindMask) == 0 {
			return c
		}
		for _, k := range kindMask {
			if c.Kind == k {
				return c
			}
		}
	}
	return nil
}

// FreeNode recursively detaches and clears n and its descendants,
// releasing the kind-specific slices it owns and every *dict.String field
// n holds (Name, Description, Reference, Units, Default, Presence, and
// its Type/Typedefs, spec §5, §8).  Cross-links such as UsesGrouping and
// Keys are non-owning back-references and are merely cleared, not freed
// (spec §4.5, §9).
func FreeNode(n *Node) {
	if n == nil {
		return
	}
	for c := n.FirstChild; c != nil; {
		next := c.Next
		FreeNode(c)
		c = next
	}
	if n.Module != nil && n.Module.Ctx != nil {
		d := n.Module.Ctx.Dict
		d.Remove(n.Name)
		d.Remove(n.Description)
		d.Remove(n.Reference)
		d.Remove(n.Units)
		d.Remove(n.Default)
		d.Remove(n.Presence)
		freeType(d, n.Type)
		for _, td := range n.Typedefs {
			freeTypedef(d, td)
		}
	}
	n.FirstChild = nil
	n.Parent = nil
	n.Next = nil
	n.Prev = nil
	n.Typedefs = nil
	n.Keys = nil
	n.UsesGrouping = nil
	n.Refinements = nil
}

// EffectiveConfig resolves n's Config flag, inheriting from ancestors
// when unset and defaulting to ConfigWrite at the top level (spec
// §3.2 Flags).
func (n *Node) EffectiveConfig() Config {
	for cur := n; cur != nil; cur = cur.Parent {
		if cur.Config != ConfigUnset {
			return cur.Config
		}
	}
	return ConfigWrite
}

// EffectiveStatus resolves n's Status flag, inheriting from the nearest
// ancestor that sets one and defaulting to StatusCurrent.
func (n *Node) EffectiveStatus() Status {
	for cur := n; cur != nil; cur = cur.Parent {
		if cur.Status != StatusCurrent {
			return cur.Status
		}
	}
	return StatusCurrent
}

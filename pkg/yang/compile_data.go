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
	"strconv"
	"strings"

	"github.com/RoyWorkerLuo/libyang/pkg/diag"
	"github.com/RoyWorkerLuo/libyang/pkg/xmltree"
)

// pass3 walks the staging root gathered by pass1 and constructs the
// module's top-level data tree, dispatching each child by element name
// to its kind-specific constructor (spec §4.6 "Pass 3 — data nodes").
func (c *compiler) pass3() error {
	for _, el := range c.staging {
		if err := c.readDataDef(nil, nil, el); err != nil {
			return err
		}
	}
	return nil
}

// readDataDef dispatches el to the constructor for its statement kind,
// attaching the resulting Node to parent via AddChild.  scope is the
// nearest enclosing container/list/grouping Node used for typedef
// resolution (spec §4.6 fill_type step 3); it is usually parent itself
// but differs inside a "case", which does not carry a typedef table.
func (c *compiler) readDataDef(parent, scope *Node, el *xmltree.Element) error {
	var (
		n   *Node
		err error
	)
	switch el.Name.Value() {
	case "container":
		n, err = c.readContainer(parent, scope, el)
	case "leaf":
		n, err = c.readLeaf(parent, scope, el)
	case "leaf-list":
		n, err = c.readLeafList(parent, scope, el)
	case "list":
		n, err = c.readList(parent, scope, el)
	case "choice":
		n, err = c.readChoice(parent, scope, el)
	case "case":
		n, err = c.readCase(parent, scope, el)
	case "uses":
		n, err = c.readUses(parent, scope, el)
	case "grouping":
		n, err = c.readGrouping(parent, scope, el)
	case "anyxml", "anydata":
		n, err = c.readAnyxml(parent, scope, el)
	default:
		return c.sink.Errorf(diag.CodeUnknownStatement, el.Line,
			"unexpected data-definition statement %q", el.Name.Value())
	}
	if err != nil {
		return err
	}
	if parent != nil {
		AddChild(parent, n)
	} else {
		c.appendTop(n)
	}
	return nil
}

// appendTop appends n to the module's top-level data half-ring.
func (c *compiler) appendTop(n *Node) {
	if c.mod.Data == nil {
		n.Prev = n
		c.mod.Data = n
		return
	}
	last := c.mod.Data.Prev
	last.Next = n
	n.Prev = last
	c.mod.Data.Prev = n
}

// readCommon fills the attributes every schema node kind shares:
// name, description, reference, status and config (spec §3.2 "Flags").
// It stores the element's "name" argument in n.Name and reports a
// missing-name error directly so every caller stays terse.
func (c *compiler) readCommon(n *Node, el *xmltree.Element) error {
	name := el.AttrValue("name")
	if name == "" {
		return c.missingArg(el, "name")
	}
	n.Module = c.mod
	n.Name = c.mod.Ctx.Dict.Insert(name)
	for ch := el.FirstChild; ch != nil; ch = ch.Next {
		switch ch.Name.Value() {
		case "description":
			n.Description = c.mod.Ctx.Dict.Insert(textArg(ch))
		case "reference":
			n.Reference = c.mod.Ctx.Dict.Insert(textArg(ch))
		case "status":
			n.Status = parseStatus(ch.AttrValue("value"))
		case "config":
			if ch.AttrValue("value") == "true" {
				n.Config = ConfigWrite
			} else {
				n.Config = ConfigRead
			}
		}
	}
	return nil
}

// readTypedefs fills n.Typedefs from el's "typedef" children, for the
// Kinds (container, list, grouping) whose payload carries a typedef
// table (spec §3.2 List/Grouping payload). Nested "grouping" statements
// are not handled here: they are ordinary data-definition children
// dispatched by readChildren alongside containers, lists and leaves.
func (c *compiler) readTypedefs(n *Node, el *xmltree.Element) error {
	var typedefEls []*xmltree.Element
	for ch := el.FirstChild; ch != nil; ch = ch.Next {
		if ch.Name.Value() == "typedef" {
			typedefEls = append(typedefEls, ch)
		}
	}
	n.Typedefs = make([]*Typedef, len(typedefEls))
	for i, ch := range typedefEls {
		name := ch.AttrValue("name")
		if name == "" {
			return c.missingArg(ch, "name")
		}
		n.Typedefs[i] = &Typedef{Module: c.mod, Name: c.mod.Ctx.Dict.Insert(name)}
	}
	for i, ch := range typedefEls {
		if err := c.fillTypedefBody(n, n.Typedefs[i], ch); err != nil {
			return err
		}
	}
	return nil
}

func (c *compiler) readContainer(parent, scope *Node, el *xmltree.Element) (*Node, error) {
	n := &Node{Kind: KindContainer, Parent: parent}
	if err := c.readCommon(n, el); err != nil {
		return nil, err
	}
	for ch := el.FirstChild; ch != nil; ch = ch.Next {
		if ch.Name.Value() == "presence" {
			n.Presence = c.mod.Ctx.Dict.Insert(ch.AttrValue("value"))
		}
	}
	if err := c.readTypedefs(n, el); err != nil {
		return nil, err
	}
	if err := c.readChildren(n, n, el); err != nil {
		return nil, err
	}
	return n, nil
}

func (c *compiler) readLeaf(parent, scope *Node, el *xmltree.Element) (*Node, error) {
	n := &Node{Kind: KindLeaf, Parent: parent}
	if err := c.readCommon(n, el); err != nil {
		return nil, err
	}
	var typeEl *xmltree.Element
	for ch := el.FirstChild; ch != nil; ch = ch.Next {
		switch ch.Name.Value() {
		case "type":
			typeEl = ch
		case "units":
			n.Units = c.mod.Ctx.Dict.Insert(ch.AttrValue("name"))
		case "default":
			n.Default = c.mod.Ctx.Dict.Insert(ch.AttrValue("value"))
		case "mandatory":
			n.Mandatory = ch.AttrValue("value") == "true"
		}
	}
	if typeEl == nil {
		return nil, c.missingArg(el, "type")
	}
	t, err := c.fillType(effectiveScope(parent, scope), typeEl)
	if err != nil {
		return nil, err
	}
	n.Type = t
	return n, nil
}

func (c *compiler) readLeafList(parent, scope *Node, el *xmltree.Element) (*Node, error) {
	n := &Node{Kind: KindLeafList, Parent: parent}
	if err := c.readCommon(n, el); err != nil {
		return nil, err
	}
	var typeEl *xmltree.Element
	for ch := el.FirstChild; ch != nil; ch = ch.Next {
		switch ch.Name.Value() {
		case "type":
			typeEl = ch
		case "units":
			n.Units = c.mod.Ctx.Dict.Insert(ch.AttrValue("name"))
		case "min-elements":
			n.MinElements, n.HasMinElements = parseUintArg(ch.AttrValue("value"))
		case "max-elements":
			if v := ch.AttrValue("value"); v != "unbounded" {
				n.MaxElements, n.HasMaxElements = parseUintArg(v)
			}
		case "ordered-by":
			n.OrderedByUser = ch.AttrValue("value") == "user"
		}
	}
	if typeEl == nil {
		return nil, c.missingArg(el, "type")
	}
	t, err := c.fillType(effectiveScope(parent, scope), typeEl)
	if err != nil {
		return nil, err
	}
	n.Type = t
	return n, nil
}

// readList implements spec §4.6's list constructor and key binding: the
// list's child data nodes are constructed first, then the
// space-separated key string is tokenized and each token bound to an
// existing direct leaf child.  Any binding failure destroys the
// partially built list and propagates the error (spec §4.6 "List key
// binding").
func (c *compiler) readList(parent, scope *Node, el *xmltree.Element) (*Node, error) {
	n := &Node{Kind: KindList, Parent: parent}
	if err := c.readCommon(n, el); err != nil {
		return nil, err
	}
	var keyText string
	haveKey := false
	for ch := el.FirstChild; ch != nil; ch = ch.Next {
		switch ch.Name.Value() {
		case "key":
			keyText = ch.AttrValue("value")
			haveKey = true
		case "min-elements":
			n.MinElements, n.HasMinElements = parseUintArg(ch.AttrValue("value"))
		case "max-elements":
			if v := ch.AttrValue("value"); v != "unbounded" {
				n.MaxElements, n.HasMaxElements = parseUintArg(v)
			}
		case "ordered-by":
			n.OrderedByUser = ch.AttrValue("value") == "user"
		}
	}
	if err := c.readTypedefs(n, el); err != nil {
		FreeNode(n)
		return nil, err
	}
	if err := c.readChildren(n, n, el); err != nil {
		FreeNode(n)
		return nil, err
	}
	if err := c.bindListKeys(n, el, keyText, haveKey); err != nil {
		FreeNode(n)
		return nil, err
	}
	return n, nil
}

// bindListKeys implements spec §3.2 invariant (b) and §4.6 "List key
// binding": a list declared config true must carry a non-empty key
// sequence, each key must name an existing direct leaf child with a
// non-empty type and the list's own config flag, and no two keys may
// name the same leaf (spec §3.2 invariant (c)).
func (c *compiler) bindListKeys(n *Node, el *xmltree.Element, keyText string, haveKey bool) error {
	listConfig := n.EffectiveConfig()
	tokens := strings.Fields(keyText)
	if listConfig == ConfigWrite && (!haveKey || len(tokens) == 0) {
		return c.sink.Errorf(diag.CodeMissingKey, el.Line,
			"list %q: config true requires a non-empty key", n.Name.Value())
	}
	seen := map[string]bool{}
	for _, tok := range tokens {
		if seen[tok] {
			return c.sink.Errorf(diag.CodeDuplicateKey, el.Line,
				"list %q: duplicate key %q", n.Name.Value(), tok)
		}
		seen[tok] = true
		leaf := FindNodeByName(n, tok, KindLeaf)
		if leaf == nil {
			return c.sink.Errorf(diag.CodeKeyNotLeaf, el.Line,
				"list %q: key %q is not a direct leaf child", n.Name.Value(), tok)
		}
		if leaf.Type != nil && leaf.Type.Kind == KindEmpty {
			return c.sink.Errorf(diag.CodeKeyTypeEmpty, el.Line,
				"list %q: key %q has type empty", n.Name.Value(), tok)
		}
		if leaf.EffectiveConfig() != listConfig {
			return c.sink.Errorf(diag.CodeKeyConfigMismatch, el.Line,
				"list %q: key %q config does not match the list's", n.Name.Value(), tok)
		}
		n.Keys = append(n.Keys, leaf)
	}
	return nil
}

func (c *compiler) readChoice(parent, scope *Node, el *xmltree.Element) (*Node, error) {
	n := &Node{Kind: KindChoice, Parent: parent}
	if err := c.readCommon(n, el); err != nil {
		return nil, err
	}
	for ch := el.FirstChild; ch != nil; ch = ch.Next {
		if ch.Name.Value() == "mandatory" {
			n.Mandatory = ch.AttrValue("value") == "true"
		}
	}
	// A bare data-definition statement directly under "choice" is
	// shorthand for a single-node "case" (RFC 6020 §7.9.2); it is attached
	// directly as a child of the choice node, and no implicit "case" node
	// is created for it.
	for ch := el.FirstChild; ch != nil; ch = ch.Next {
		name := ch.Name.Value()
		if name == "case" {
			if err := c.readDataDef(n, n, ch); err != nil {
				return nil, err
			}
			continue
		}
		if isDataDef(name) {
			if err := c.readDataDef(n, n, ch); err != nil {
				return nil, err
			}
		}
	}
	return n, nil
}

func (c *compiler) readCase(parent, scope *Node, el *xmltree.Element) (*Node, error) {
	n := &Node{Kind: KindCase, Parent: parent}
	if err := c.readCommon(n, el); err != nil {
		return nil, err
	}
	if err := c.readChildren(n, nil, el); err != nil {
		return nil, err
	}
	return n, nil
}

func (c *compiler) readAnyxml(parent, scope *Node, el *xmltree.Element) (*Node, error) {
	n := &Node{Kind: KindAnyxml, Parent: parent}
	if err := c.readCommon(n, el); err != nil {
		return nil, err
	}
	for ch := el.FirstChild; ch != nil; ch = ch.Next {
		if ch.Name.Value() == "mandatory" {
			n.Mandatory = ch.AttrValue("value") == "true"
		}
	}
	return n, nil
}

func (c *compiler) readGrouping(parent, scope *Node, el *xmltree.Element) (*Node, error) {
	n := &Node{Kind: KindGrouping, Parent: parent}
	if err := c.readCommon(n, el); err != nil {
		return nil, err
	}
	if err := c.readTypedefs(n, el); err != nil {
		return nil, err
	}
	if err := c.readChildren(n, n, el); err != nil {
		return nil, err
	}
	return n, nil
}

// readUses implements spec §4.6's uses resolution, corrected per §9's
// flagged bug ("local grouping lookup does not respect scope, and
// searches module->data twice"): a grouping used inside another
// grouping is left unresolved for later expansion; otherwise the
// referenced grouping is located by walking the node's own ancestor
// chain first (respecting lexical scope), then the module's top level,
// then, if prefixed, through the imported module — each exactly once.
func (c *compiler) readUses(parent, scope *Node, el *xmltree.Element) (*Node, error) {
	n := &Node{Kind: KindUses, Parent: parent}
	if err := c.readCommon(n, el); err != nil {
		return nil, err
	}
	for ch := el.FirstChild; ch != nil; ch = ch.Next {
		if ch.Name.Value() == "refine" || ch.Name.Value() == "augment" {
			n.Refinements = append(n.Refinements, ch)
		}
	}
	if withinGrouping(parent) {
		// Deferred: the enclosing grouping may itself be expanded
		// later, at which point this uses is resolved relative to its
		// eventual instantiation site.
		return n, nil
	}
	raw := n.Name.Value()
	prefix, local := splitPrefix(raw)
	var grouping *Node
	if prefix == "" || prefix == c.mod.Prefix.Value() {
		grouping = findGroupingInScope(parent, local)
		if grouping == nil {
			for _, top := range c.mod.topLevelGroupings() {
				if top.Name.Value() == local {
					grouping = top
					break
				}
			}
		}
	} else {
		for _, imp := range c.mod.Imports {
			if imp.Prefix.Value() == prefix {
				for _, top := range imp.Module.topLevelGroupings() {
					if top.Name.Value() == local {
						grouping = top
						break
					}
				}
				break
			}
		}
	}
	if grouping == nil {
		return nil, c.sink.Errorf(diag.CodeInvalidArgumentToUses, el.Line,
			"uses %q: grouping not found", raw)
	}
	n.UsesGrouping = grouping
	return n, nil
}

// withinGrouping reports whether n (or any ancestor) is a grouping.
func withinGrouping(n *Node) bool {
	for cur := n; cur != nil; cur = cur.Parent {
		if cur.Kind == KindGrouping {
			return true
		}
	}
	return false
}

// findGroupingInScope walks from n upward (n itself, then its
// ancestors), looking for a direct KindGrouping child named local. A nil
// n (a top-level uses) finds nothing; readUses then falls back to the
// module's top-level groupings.
func findGroupingInScope(n *Node, local string) *Node {
	for cur := n; cur != nil; cur = cur.Parent {
		if g := FindNodeByName(cur, local, KindGrouping); g != nil {
			return g
		}
	}
	return nil
}

// topLevelGroupings returns m's direct top-level "grouping" nodes.
func (m *Module) topLevelGroupings() []*Node {
	var out []*Node
	for c := m.Data; c != nil; c = c.Next {
		if c.Kind == KindGrouping {
			out = append(out, c)
		}
	}
	return out
}

// readChildren walks el's data-definition children, constructing each
// and attaching it to dst.  scope is passed through to fill_type's
// ancestor walk; it is nil for "case", which carries no typedef table
// of its own (RFC 6020: a case is purely a grouping of children).
func (c *compiler) readChildren(dst, scope *Node, el *xmltree.Element) error {
	for ch := el.FirstChild; ch != nil; ch = ch.Next {
		name := ch.Name.Value()
		if !isDataDef(name) {
			continue
		}
		if err := c.readDataDef(dst, scope, ch); err != nil {
			return err
		}
	}
	return nil
}

// effectiveScope resolves the scope a leaf/leaf-list should walk for
// fill_type step 3: scope when it is set, otherwise parent.  Inside a
// "case" scope is nil, so the case node itself is returned and
// lookupTypedefInScope walks past it to the enclosing container/list/
// grouping.
func effectiveScope(parent, scope *Node) *Node {
	if scope != nil {
		return scope
	}
	return parent
}

func parseUintArg(v string) (uint64, bool) {
	n, err := strconv.ParseUint(v, 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

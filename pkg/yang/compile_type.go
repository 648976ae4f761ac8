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
	"math"
	"strconv"
	"strings"

	"github.com/RoyWorkerLuo/libyang/pkg/diag"
	"github.com/RoyWorkerLuo/libyang/pkg/xmltree"
)

// fillType implements spec §4.6's fill_type: given a <type> element,
// resolve its "name" argument to either a built-in or a Typedef
// derivation, then dispatch to kind-specific parsing.  scope is the
// nearest enclosing container/list/grouping Node (nil at module scope),
// used to walk typedef tables outward per step 3 of fill_type.
func (c *compiler) fillType(scope *Node, el *xmltree.Element) (*Type, error) {
	raw := el.AttrValue("name")
	if raw == "" {
		return nil, c.missingArg(el, "name")
	}
	prefix, local := splitPrefix(raw)
	if prefix == c.mod.Prefix.Value() {
		prefix = "" // step 1: a self-prefix is the same as no prefix
	}

	t := &Type{Name: c.mod.Ctx.Dict.Insert(local)}
	if prefix != "" {
		t.Prefix = c.mod.Ctx.Dict.Insert(prefix)
	}

	var td *Typedef
	switch {
	case prefix == "":
		if k, ok := LookupBuiltin(local); ok {
			t.Kind = k
			return c.fillTypeInfo(scope, t, k, nil, el)
		}
		td = c.lookupTypedefInScope(scope, local)
		if td == nil {
			td = lookupTypedefTable(c.mod.Typedefs, local)
		}
		if td == nil {
			for _, inc := range c.mod.Includes {
				if inc.Submodule == nil {
					continue
				}
				if td = lookupTypedefTable(inc.Submodule.Typedefs, local); td != nil {
					break
				}
			}
		}
		if td == nil {
			return nil, c.sink.Errorf(diag.CodeUnresolvablePrefix, el.Line,
				"unknown type %q", local)
		}
	default:
		var target *Module
		for _, imp := range c.mod.Imports {
			if imp.Prefix.Value() == prefix {
				target = imp.Module
				break
			}
		}
		if target == nil {
			return nil, c.sink.Errorf(diag.CodeUnresolvablePrefix, el.Line,
				"unresolvable prefix %q", prefix)
		}
		td = lookupTypedefTable(target.Typedefs, local)
		if td == nil {
			return nil, c.sink.Errorf(diag.CodeUnresolvablePrefix, el.Line,
				"type %q not found in module %q", local, target.Name.Value())
		}
	}

	t.Derivation = td
	baseKind := td.Type.Kind
	t.Kind = baseKind
	return c.fillTypeInfo(scope, t, baseKind, td, el)
}

// lookupTypedefInScope implements fill_type step 3: walk the enclosing
// node's ancestor chain, consulting the typedef table of every
// container/list/grouping ancestor (other kinds are skipped without
// terminating the walk); the first match wins.
func (c *compiler) lookupTypedefInScope(scope *Node, local string) *Typedef {
	for n := scope; n != nil; n = n.Parent {
		switch n.Kind {
		case KindContainer, KindList, KindGrouping:
			if td := lookupTypedefTable(n.Typedefs, local); td != nil {
				return td
			}
		}
	}
	return nil
}

func lookupTypedefTable(table []*Typedef, local string) *Typedef {
	for _, td := range table {
		if td.Name.Value() == local {
			return td
		}
	}
	return nil
}

// fillTypeInfo dispatches on baseKind to fill t's kind-specific payload
// (spec §4.6 step 6).  td is the Typedef t derives from directly, or
// nil for a bare built-in; it supplies the inherited leafref path,
// decimal64 fraction-digits and identityref base when el does not set
// them.  The other kinds, enumeration and bits included, do not consult
// it: their payload holds only what el itself declares.
func (c *compiler) fillTypeInfo(scope *Node, t *Type, baseKind TypeKind, td *Typedef, el *xmltree.Element) (*Type, error) {
	switch baseKind {
	case KindEnumeration:
		return c.fillEnum(t, td, el)
	case KindBits:
		return c.fillBits(t, td, el)
	case KindIdentityref:
		return c.fillIdentityref(t, td, el)
	case KindUnion:
		return c.fillUnion(scope, t, el)
	case KindLeafref:
		for ch := el.FirstChild; ch != nil; ch = ch.Next {
			switch ch.Name.Value() {
			case "path":
				t.LeafrefPath = c.mod.Ctx.Dict.Insert(ch.AttrValue("value"))
			case "require-instance":
				t.RequireInstance = ch.AttrValue("value") == "true"
			}
		}
		if t.LeafrefPath == nil && td != nil {
			t.LeafrefPath = td.Type.LeafrefPath
		}
	case KindInstanceIdentifier:
		for ch := el.FirstChild; ch != nil; ch = ch.Next {
			if ch.Name.Value() == "require-instance" {
				t.RequireInstance = ch.AttrValue("value") == "true"
			}
		}
	case KindDecimal64:
		for ch := el.FirstChild; ch != nil; ch = ch.Next {
			if ch.Name.Value() == "fraction-digits" {
				n, _ := strconv.Atoi(ch.AttrValue("value"))
				t.FractionDigits = uint8(n)
			}
		}
		if t.FractionDigits == 0 && td != nil {
			t.FractionDigits = td.Type.FractionDigits
		}
		for ch := el.FirstChild; ch != nil; ch = ch.Next {
			if ch.Name.Value() == "range" {
				t.Range = &Range{Raw: c.mod.Ctx.Dict.Insert(ch.AttrValue("value"))}
			}
		}
	case KindInt8, KindInt16, KindInt32, KindInt64,
		KindUint8, KindUint16, KindUint32, KindUint64:
		for ch := el.FirstChild; ch != nil; ch = ch.Next {
			if ch.Name.Value() == "range" {
				t.Range = &Range{Raw: c.mod.Ctx.Dict.Insert(ch.AttrValue("value"))}
			}
		}
	case KindString:
		for ch := el.FirstChild; ch != nil; ch = ch.Next {
			switch ch.Name.Value() {
			case "length":
				t.Length = &Range{Raw: c.mod.Ctx.Dict.Insert(ch.AttrValue("value"))}
			case "pattern":
				t.Pattern = append(t.Pattern, ch.AttrValue("value"))
			}
		}
	case KindBinary:
		for ch := el.FirstChild; ch != nil; ch = ch.Next {
			if ch.Name.Value() == "length" {
				t.Length = &Range{Raw: c.mod.Ctx.Dict.Insert(ch.AttrValue("value"))}
			}
		}
	case KindBoolean, KindEmpty:
		// no additional arguments
	}
	return t, nil
}

// fillEnum implements spec §4.6's enumeration handling: collect every
// "enum" child, validate name whitespace/uniqueness, and auto-assign
// values in source order (first unassigned value is 0; each subsequent
// unassigned value is one greater than the highest previously assigned
// value).
func (c *compiler) fillEnum(t *Type, td *Typedef, el *xmltree.Element) (*Type, error) {
	seenName := map[string]bool{}
	seenValue := map[int32]bool{}
	var highest int32 = -1
	haveHighest := false

	for ch := el.FirstChild; ch != nil; ch = ch.Next {
		if ch.Name.Value() != "enum" {
			continue
		}
		name := ch.AttrValue("name")
		if name == "" {
			return nil, c.missingArg(ch, "name")
		}
		if strings.TrimSpace(name) != name {
			return nil, c.sink.Errorf(diag.CodeWhitespaceInEnumName, ch.Line,
				"enum name %q has leading or trailing whitespace", name)
		}
		if seenName[name] {
			return nil, c.sink.Errorf(diag.CodeDuplicateEnumName, ch.Line,
				"duplicate enum name %q", name)
		}
		seenName[name] = true

		var value int32
		explicit := false
		for gc := ch.FirstChild; gc != nil; gc = gc.Next {
			if gc.Name.Value() == "value" {
				explicit = true
				n, err := strconv.ParseInt(gc.AttrValue("value"), 10, 64)
				if err != nil || n < math.MinInt32 || n > math.MaxInt32 {
					return nil, c.sink.Errorf(diag.CodeInvalidArgumentValue, gc.Line,
						"enum %q: value out of int32 range", name)
				}
				value = int32(n)
			}
		}
		if !explicit {
			if !haveHighest {
				value = 0
			} else {
				if highest == math.MaxInt32 {
					return nil, c.sink.Errorf(diag.CodeInvalidArgumentValue, ch.Line,
						"enum %q: cannot auto-assign past int32 max", name)
				}
				value = highest + 1
			}
		}
		if seenValue[value] {
			return nil, c.sink.Errorf(diag.CodeDuplicateEnumValue, ch.Line,
				"duplicate enum value %d for %q", value, name)
		}
		seenValue[value] = true
		if !haveHighest || value > highest {
			highest = value
			haveHighest = true
		}
		t.Enums = append(t.Enums, &EnumValue{Name: c.mod.Ctx.Dict.Insert(name), Value: value})
	}
	return t, nil
}

// fillBits parses "bit" children analogously to fillEnum, auto-assigning
// the position one greater than the previous highest when omitted.
func (c *compiler) fillBits(t *Type, td *Typedef, el *xmltree.Element) (*Type, error) {
	var highest uint32
	haveHighest := false
	for ch := el.FirstChild; ch != nil; ch = ch.Next {
		if ch.Name.Value() != "bit" {
			continue
		}
		name := ch.AttrValue("name")
		if name == "" {
			return nil, c.missingArg(ch, "name")
		}
		var pos uint32
		explicit := false
		for gc := ch.FirstChild; gc != nil; gc = gc.Next {
			if gc.Name.Value() == "position" {
				explicit = true
				n, _ := strconv.ParseUint(gc.AttrValue("value"), 10, 32)
				pos = uint32(n)
			}
		}
		if !explicit {
			if haveHighest {
				pos = highest + 1
			}
		}
		if !haveHighest || pos > highest {
			highest = pos
			haveHighest = true
		}
		t.Bits = append(t.Bits, &BitValue{Name: c.mod.Ctx.Dict.Insert(name), Position: pos})
	}
	return t, nil
}

// fillIdentityref implements spec §4.6's identityref handling: exactly
// one "base" child is mandatory and is resolved with the same
// prefix/imports rules as an identity's own base.  A type derived from a
// typedef that already carries a base may omit it and inherits td's.
func (c *compiler) fillIdentityref(t *Type, td *Typedef, el *xmltree.Element) (*Type, error) {
	var baseEl *xmltree.Element
	for ch := el.FirstChild; ch != nil; ch = ch.Next {
		if ch.Name.Value() == "base" {
			if baseEl != nil {
				return nil, c.dup(ch, "base")
			}
			baseEl = ch
		}
	}
	if baseEl == nil {
		if td != nil && td.Type.IdentityBase != nil {
			t.IdentityBase = td.Type.IdentityBase
			return t, nil
		}
		return nil, c.missingArg(el, "base")
	}
	raw := baseEl.AttrValue("name")
	if raw == "" {
		return nil, c.missingArg(baseEl, "name")
	}
	base, err := c.resolveIdentity(raw, baseEl.Line)
	if err != nil {
		return nil, err
	}
	t.IdentityBase = base
	return t, nil
}

// fillUnion recursively resolves each member "type" child.
func (c *compiler) fillUnion(scope *Node, t *Type, el *xmltree.Element) (*Type, error) {
	for ch := el.FirstChild; ch != nil; ch = ch.Next {
		if ch.Name.Value() != "type" {
			continue
		}
		member, err := c.fillType(scope, ch)
		if err != nil {
			return nil, err
		}
		t.Union = append(t.Union, member)
	}
	if len(t.Union) == 0 {
		return nil, c.missingArg(el, "type")
	}
	return t, nil
}

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
	"github.com/RoyWorkerLuo/libyang/pkg/diag"
	"github.com/RoyWorkerLuo/libyang/pkg/xmltree"
)

// pass2 allocates and fills the arrays whose sizes pass1 already
// determined: imports, includes, revisions, identities and typedefs
// (spec §4.6 "Pass 2 — allocate and fill arrays").  Imports and
// includes resolve their targets through the context, loading from disk
// via the search directory if necessary.  Identities are allocated in
// one sweep and have their "base" back-references bound in a second
// sweep, since a base may forward-reference an identity later in the
// same module.
func (c *compiler) pass2() error {
	if err := c.fillImports(); err != nil {
		return err
	}
	if err := c.fillIncludes(); err != nil {
		return err
	}
	if err := c.fillRevisions(); err != nil {
		return err
	}
	if err := c.fillFeatures(); err != nil {
		return err
	}
	if err := c.fillIdentities(); err != nil {
		return err
	}
	if err := c.fillTypedefs(); err != nil {
		return err
	}
	return nil
}

func (c *compiler) fillImports() error {
	c.mod.Imports = make([]*Import, 0, len(c.importEls))
	for _, el := range c.importEls {
		modName := el.AttrValue("module")
		if modName == "" {
			return c.missingArg(el, "module")
		}
		var prefix, revDate string
		for ch := el.FirstChild; ch != nil; ch = ch.Next {
			switch ch.Name.Value() {
			case "prefix":
				prefix = ch.AttrValue("value")
			case "revision-date":
				revDate = ch.AttrValue("date")
			}
		}
		if prefix == "" {
			return c.missingArg(el, "prefix")
		}
		if modName == c.mod.Name.Value() {
			return c.sink.Errorf(diag.CodeCyclicReference, el.Line,
				"module %q may not import itself", modName)
		}
		target, ok := c.ctx.LookupModule(modName, revDate)
		if !ok {
			c.ctx.importDepth++
			var err error
			target, err = c.ctx.LoadModuleByName(modName, revDate)
			c.ctx.importDepth--
			if err != nil {
				return c.sink.Errorf(diag.CodeUnresolvablePrefix, el.Line,
					"import %q: %v", modName, err)
			}
		}
		imp := &Import{
			Prefix: c.ctx.Dict.Insert(prefix),
			Module: target,
		}
		if revDate != "" {
			imp.RevisionDate = c.ctx.Dict.Insert(revDate)
		}
		c.mod.Imports = append(c.mod.Imports, imp)
	}
	return nil
}

func (c *compiler) fillIncludes() error {
	c.mod.Includes = make([]*Include, 0, len(c.includeEls))
	for _, el := range c.includeEls {
		subName := el.AttrValue("module")
		if subName == "" {
			return c.missingArg(el, "module")
		}
		var revDate string
		for ch := el.FirstChild; ch != nil; ch = ch.Next {
			if ch.Name.Value() == "revision-date" {
				revDate = ch.AttrValue("date")
			}
		}
		sub, ok := c.ctx.LookupSubmodule(c.mod, subName, revDate)
		if !ok {
			var err error
			sub, err = c.ctx.LoadModuleByName(subName, revDate)
			if err != nil {
				return c.sink.Errorf(diag.CodeUnresolvablePrefix, el.Line,
					"include %q: %v", subName, err)
			}
		}
		inc := &Include{Submodule: sub}
		if revDate != "" {
			inc.RevisionDate = c.ctx.Dict.Insert(revDate)
		}
		c.mod.Includes = append(c.mod.Includes, inc)
	}
	return nil
}

func (c *compiler) fillRevisions() error {
	c.mod.Revisions = make([]*Revision, 0, len(c.revisionEls))
	for _, el := range c.revisionEls {
		date := el.AttrValue("date")
		if date == "" {
			return c.missingArg(el, "date")
		}
		rev := &Revision{Date: c.ctx.Dict.Insert(date)}
		for ch := el.FirstChild; ch != nil; ch = ch.Next {
			switch ch.Name.Value() {
			case "description":
				rev.Description = c.ctx.Dict.Insert(textArg(ch))
			case "reference":
				rev.Reference = c.ctx.Dict.Insert(textArg(ch))
			}
		}
		c.mod.Revisions = append(c.mod.Revisions, rev)
	}
	return nil
}

func (c *compiler) fillFeatures() error {
	c.mod.Features = make([]*Feature, 0, len(c.featureEls))
	for _, el := range c.featureEls {
		name := el.AttrValue("name")
		if name == "" {
			return c.missingArg(el, "name")
		}
		f := &Feature{Name: c.ctx.Dict.Insert(name)}
		for ch := el.FirstChild; ch != nil; ch = ch.Next {
			switch ch.Name.Value() {
			case "description":
				f.Description = c.ctx.Dict.Insert(textArg(ch))
			case "status":
				f.Status = parseStatus(ch.AttrValue("value"))
			}
		}
		c.mod.Features = append(c.mod.Features, f)
	}
	return nil
}

// fillIdentities allocates every identity declared by this module, then
// resolves "base" references in a second sweep so that an identity may
// name a base declared later in the same module (spec §4.6).
func (c *compiler) fillIdentities() error {
	c.mod.Identities = make([]*Identity, len(c.identityEls))
	for i, el := range c.identityEls {
		name := el.AttrValue("name")
		if name == "" {
			return c.missingArg(el, "name")
		}
		id := &Identity{Module: c.mod, Name: c.ctx.Dict.Insert(name)}
		for ch := el.FirstChild; ch != nil; ch = ch.Next {
			switch ch.Name.Value() {
			case "description":
				id.Description = c.ctx.Dict.Insert(textArg(ch))
			case "reference":
				id.Reference = c.ctx.Dict.Insert(textArg(ch))
			case "status":
				id.Status = parseStatus(ch.AttrValue("value"))
			}
		}
		c.mod.Identities[i] = id
	}
	for i, el := range c.identityEls {
		id := c.mod.Identities[i]
		var baseEl *xmltree.Element
		for ch := el.FirstChild; ch != nil; ch = ch.Next {
			if ch.Name.Value() == "base" {
				baseEl = ch
				break
			}
		}
		if baseEl == nil {
			continue
		}
		raw := baseEl.AttrValue("name")
		if raw == "" {
			return c.missingArg(baseEl, "name")
		}
		base, err := c.resolveIdentity(raw, baseEl.Line)
		if err != nil {
			return err
		}
		if base == id || isDescendant(id, base) {
			return c.sink.Errorf(diag.CodeCyclicReference, baseEl.Line,
				"identity %q: cyclic base reference to %q", id.Name.Value(), raw)
		}
		bindIdentityBase(id, base)
	}
	return nil
}

// resolveIdentity resolves a possibly-prefixed identity reference
// ("base" argument of an identity or identityref type) against the
// current module, its submodules, or an imported module (spec §4.6
// "Identity base resolution").
func (c *compiler) resolveIdentity(raw string, line int) (*Identity, error) {
	prefix, local := splitPrefix(raw)
	if prefix == "" || prefix == c.mod.Prefix.Value() {
		if id := findIdentityLocal(c.mod, local); id != nil {
			return id, nil
		}
		for _, inc := range c.mod.Includes {
			if inc.Submodule == nil {
				continue
			}
			if id := findIdentityLocal(inc.Submodule, local); id != nil {
				return id, nil
			}
		}
		return nil, c.sink.Errorf(diag.CodeUnresolvablePrefix, line,
			"identity %q not found in module %q", local, c.mod.Name.Value())
	}
	for _, imp := range c.mod.Imports {
		if imp.Prefix.Value() == prefix {
			if id := findIdentityLocal(imp.Module, local); id != nil {
				return id, nil
			}
			return nil, c.sink.Errorf(diag.CodeUnresolvablePrefix, line,
				"identity %q not found in module %q", local, imp.Module.Name.Value())
		}
	}
	return nil, c.sink.Errorf(diag.CodeUnresolvablePrefix, line,
		"unresolvable prefix %q in identity reference %q", prefix, raw)
}

func findIdentityLocal(mod *Module, local string) *Identity {
	if mod == nil {
		return nil
	}
	for _, id := range mod.Identities {
		if id.Name.Value() == local {
			return id
		}
	}
	return nil
}

// fillTypedefs allocates every top-level typedef (so that a typedef may
// reference a sibling typedef regardless of source order, spec §4.6
// "Typedefs ... may themselves chain to other typedefs"), then fills
// each one's base Type descriptor.
func (c *compiler) fillTypedefs() error {
	c.mod.Typedefs = make([]*Typedef, len(c.typedefEls))
	for i, el := range c.typedefEls {
		name := el.AttrValue("name")
		if name == "" {
			return c.missingArg(el, "name")
		}
		c.mod.Typedefs[i] = &Typedef{Module: c.mod, Name: c.ctx.Dict.Insert(name)}
	}
	for i, el := range c.typedefEls {
		td := c.mod.Typedefs[i]
		if err := c.fillTypedefBody(nil, td, el); err != nil {
			return err
		}
	}
	return nil
}

// fillTypedefBody fills in td's Type and metadata from el, the <typedef>
// element.  scope is the enclosing container/list/grouping Node, or nil
// for a module-level typedef.
func (c *compiler) fillTypedefBody(scope *Node, td *Typedef, el *xmltree.Element) error {
	var typeEl *xmltree.Element
	for ch := el.FirstChild; ch != nil; ch = ch.Next {
		switch ch.Name.Value() {
		case "type":
			typeEl = ch
		case "units":
			td.Units = c.ctx.Dict.Insert(ch.AttrValue("name"))
		case "default":
			td.Default = c.ctx.Dict.Insert(ch.AttrValue("value"))
		case "status":
			td.Status = parseStatus(ch.AttrValue("value"))
		case "description":
			td.Description = c.ctx.Dict.Insert(textArg(ch))
		case "reference":
			td.Reference = c.ctx.Dict.Insert(textArg(ch))
		}
	}
	if typeEl == nil {
		return c.missingArg(el, "type")
	}
	t, err := c.fillType(scope, typeEl)
	if err != nil {
		return err
	}
	td.Type = t
	return nil
}

func parseStatus(v string) Status {
	switch v {
	case "deprecated":
		return StatusDeprecated
	case "obsolete":
		return StatusObsolete
	default:
		return StatusCurrent
	}
}

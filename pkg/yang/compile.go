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
	"strings"

	"github.com/RoyWorkerLuo/libyang/pkg/diag"
	"github.com/RoyWorkerLuo/libyang/pkg/xmltree"
)

// yinNamespace is the XML namespace YIN documents are expected to use
// for every YANG statement (spec §7: "statements whose namespace is not
// the YIN namespace are discarded with a warning").
const yinNamespace = "urn:ietf:params:xml:ns:yang:yin:1"

// statements the compiler recognizes but deliberately does not give
// deeper semantics to, per spec §1 Non-goals ("when", "must", "unique",
// refinement/augment application).  They are skipped without a
// diagnostic, unlike a genuinely unknown statement.
var knownButUnimplemented = map[string]bool{
	"when":       true,
	"must":       true,
	"unique":     true,
	"augment":    true,
	"extension":  true,
	"deviation":  true,
	"if-feature": true,
}

// compiler holds the per-module state threaded through the three
// compilation passes of spec §4.6.
type compiler struct {
	ctx  *Context
	sink *diag.Sink
	mod  *Module

	// staging is the detached, in-source-order list of data-definition
	// children gathered by pass1 (spec §9 "Staging root": "replicate
	// this as a small owned list outside the XML tree rather than
	// mutating the input").
	staging []*xmltree.Element

	importEls   []*xmltree.Element
	includeEls  []*xmltree.Element
	revisionEls []*xmltree.Element
	typedefEls  []*xmltree.Element
	identityEls []*xmltree.Element
	featureEls  []*xmltree.Element
}

// compile is the schema compiler's entry point (spec §4.6): it accepts
// the XML tree of a single "module" or "submodule" YIN root element and
// returns the compiled Module, or an error if any pass fails.  On
// failure the partially built module is torn down before returning, per
// spec §4.6 "Failure semantics".
func compile(ctx *Context, root *xmltree.Element) (*Module, error) {
	if root == nil {
		return nil, ctx.Sink.Errorf(diag.CodeMalformedXML, 0, "nil document root")
	}
	rootName := root.Name.Value()
	if rootName != "module" && rootName != "submodule" {
		return nil, ctx.Sink.Errorf(diag.CodeUnknownStatement, root.Line,
			"expected module or submodule, got %q", rootName)
	}
	name := root.AttrValue("name")
	if name == "" {
		return nil, ctx.Sink.Errorf(diag.CodeMissingArgument, root.Line,
			"%s is missing required \"name\" argument", rootName)
	}

	mod := &Module{
		Ctx:         ctx,
		Name:        ctx.Dict.Insert(name),
		IsSubmodule: rootName == "submodule",
	}
	c := &compiler{ctx: ctx, sink: ctx.Sink, mod: mod}

	if err := c.pass1(root); err != nil {
		freeModule(mod)
		return nil, err
	}
	if err := c.pass2(); err != nil {
		freeModule(mod)
		return nil, err
	}
	if err := c.pass3(); err != nil {
		freeModule(mod)
		return nil, err
	}
	return mod, nil
}

// isDataDef reports whether local is one of the data-definition
// statement names pass1 detaches into the staging list (spec §4.6
// pass1).
func isDataDef(local string) bool {
	switch local {
	case "container", "leaf", "leaf-list", "list", "choice", "uses", "grouping", "anyxml", "anydata":
		return true
	}
	return false
}

// pass1 walks root's children once, assigning singleton statements
// directly into c.mod, counting/collecting the sequence statements, and
// detaching data-definition children into c.staging (spec §4.6 "Pass
// 1 — classify").
func (c *compiler) pass1(root *xmltree.Element) error {
	var sawNamespace, sawPrefix, sawYangVersion, sawDescription bool
	var sawReference, sawOrganization, sawContact, sawBelongsTo bool

	for el := root.FirstChild; el != nil; el = el.Next {
		if !c.inYIN(el) {
			continue
		}
		local := el.Name.Value()
		switch local {
		case "namespace":
			if sawNamespace {
				return c.dup(el, "namespace")
			}
			sawNamespace = true
			uri := el.AttrValue("uri")
			if uri == "" {
				return c.missingArg(el, "uri")
			}
			c.mod.Namespace = c.ctx.Dict.Insert(uri)
		case "prefix":
			if sawPrefix {
				return c.dup(el, "prefix")
			}
			sawPrefix = true
			v := el.AttrValue("value")
			if v == "" {
				return c.missingArg(el, "value")
			}
			c.mod.Prefix = c.ctx.Dict.Insert(v)
		case "belongs-to":
			if sawBelongsTo {
				return c.dup(el, "belongs-to")
			}
			sawBelongsTo = true
			v := el.AttrValue("module")
			if v == "" {
				return c.missingArg(el, "module")
			}
			c.mod.BelongsTo = c.ctx.Dict.Insert(v)
			if pfx := xmltree.Children(el); len(pfx) > 0 {
				for _, p := range pfx {
					if p.Name.Value() == "prefix" {
						c.mod.Prefix = c.ctx.Dict.Insert(p.AttrValue("value"))
					}
				}
			}
		case "yang-version":
			if sawYangVersion {
				return c.dup(el, "yang-version")
			}
			sawYangVersion = true
			c.mod.YangVersion = c.ctx.Dict.Insert(el.AttrValue("value"))
		case "description":
			if sawDescription {
				return c.dup(el, "description")
			}
			sawDescription = true
			c.mod.Description = c.ctx.Dict.Insert(textArg(el))
		case "reference":
			if sawReference {
				return c.dup(el, "reference")
			}
			sawReference = true
			c.mod.Reference = c.ctx.Dict.Insert(textArg(el))
		case "organization":
			if sawOrganization {
				return c.dup(el, "organization")
			}
			sawOrganization = true
			c.mod.Organization = c.ctx.Dict.Insert(textArg(el))
		case "contact":
			if sawContact {
				return c.dup(el, "contact")
			}
			sawContact = true
			c.mod.Contact = c.ctx.Dict.Insert(textArg(el))
		case "import":
			c.importEls = append(c.importEls, el)
		case "include":
			c.includeEls = append(c.includeEls, el)
		case "revision":
			c.revisionEls = append(c.revisionEls, el)
		case "typedef":
			c.typedefEls = append(c.typedefEls, el)
		case "identity":
			c.identityEls = append(c.identityEls, el)
		case "feature":
			c.featureEls = append(c.featureEls, el)
		default:
			if isDataDef(local) {
				c.staging = append(c.staging, el)
				continue
			}
			if knownButUnimplemented[local] {
				continue
			}
			c.sink.Warnf(diag.CodeUnknownStatement, el.Line, "unknown statement %q, skipped", local)
		}
	}
	if !c.mod.IsSubmodule && c.mod.Namespace == nil {
		return c.missingArg(root, "namespace")
	}
	if !c.mod.IsSubmodule && c.mod.Prefix == nil {
		return c.missingArg(root, "prefix")
	}
	if c.mod.IsSubmodule && c.mod.BelongsTo == nil {
		return c.missingArg(root, "belongs-to")
	}
	return nil
}

// inYIN reports whether el should be treated as a YANG statement: its
// resolved namespace is either unset (lenient default for documents
// that never declare xmlns explicitly) or exactly the YIN namespace.
func (c *compiler) inYIN(el *xmltree.Element) bool {
	if el.NS == nil {
		return true
	}
	if el.NS.Value() == yinNamespace {
		return true
	}
	c.sink.Warnf(diag.CodeUnknownStatement, el.Line,
		"statement %q is not in the YIN namespace, discarded", el.Name.Value())
	return false
}

func (c *compiler) dup(el *xmltree.Element, stmt string) error {
	return c.sink.Errorf(diag.CodeTooManyOccurrences, el.Line, "duplicate %q statement", stmt)
}

func (c *compiler) missingArg(el *xmltree.Element, arg string) error {
	return c.sink.Errorf(diag.CodeMissingArgument, el.Line,
		"%s is missing required %q argument", el.Name.Value(), arg)
}

// textArg returns the argument text of a description/reference/contact/
// organization statement: YIN wraps free text in a nested <text>
// element; fall back to the element's own text for lenient inputs that
// skip the wrapper.
func textArg(el *xmltree.Element) string {
	for c := el.FirstChild; c != nil; c = c.Next {
		if c.Name.Value() == "text" {
			return c.Text.Value()
		}
	}
	return el.Text.Value()
}

// splitPrefix splits a possibly-prefixed YANG identifier ("pp:foo") into
// (prefix, local).  prefix is "" when raw has none.
func splitPrefix(raw string) (prefix, local string) {
	if i := strings.IndexByte(raw, ':'); i >= 0 {
		return raw[:i], raw[i+1:]
	}
	return "", raw
}

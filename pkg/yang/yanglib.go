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
	"crypto/sha1"
	"fmt"
	"sort"

	"github.com/RoyWorkerLuo/libyang/pkg/dict"
	"github.com/RoyWorkerLuo/libyang/pkg/xmltree"
)

const yangLibraryNamespace = "urn:ietf:params:xml:ns:yang:ietf-yang-library"

// Info synthesizes an instance tree conformant with
// ietf-yang-library@2015-07-03 describing every module currently loaded
// into c (spec §4.3 ly_ctx_info, §6 "YANG library module"): a
// "modules" container with a "module-set-id" leaf and one "module" list
// entry per loaded module, carrying name/revision/namespace/conformance
// and nested submodules.
//
// The returned tree is a data-instance tree, not a schema tree, so it
// can be fed straight through the same xmltree dumper used everywhere
// else in this package.
func (c *Context) Info() *xmltree.Element {
	modulesEl := newInstanceElement(c.Dict, yangLibraryNamespace, "modules")

	mods := c.Modules()
	sort.Slice(mods, func(i, j int) bool { return mods[i].Key() < mods[j].Key() })

	setID := newInstanceElement(c.Dict, yangLibraryNamespace, "module-set-id")
	setID.Text = c.Dict.Insert(c.moduleSetID())
	xmltree.AppendChild(modulesEl, setID)

	for _, mod := range mods {
		xmltree.AppendChild(modulesEl, moduleInstanceElement(c.Dict, mod))
	}
	return modulesEl
}

// moduleSetID returns an opaque string that changes whenever the set of
// loaded modules changes, computed as a hash over every module's
// name@revision key in registration order so it is deterministic for a
// given load sequence but not meaningfully decodable (spec §6: "opaque
// string that changes whenever the module set changes").
func (c *Context) moduleSetID() string {
	h := sha1.New()
	for _, m := range c.modules {
		fmt.Fprintf(h, "%s\n", m.Key())
	}
	return fmt.Sprintf("%x", h.Sum(nil))
}

func moduleInstanceElement(d *dict.Dictionary, mod *Module) *xmltree.Element {
	el := newInstanceElement(d, yangLibraryNamespace, "module")

	nameEl := newInstanceElement(d, yangLibraryNamespace, "name")
	nameEl.Text = d.Insert(mod.Name.Value())
	xmltree.AppendChild(el, nameEl)

	revEl := newInstanceElement(d, yangLibraryNamespace, "revision")
	revEl.Text = d.Insert(mod.LatestRevision())
	xmltree.AppendChild(el, revEl)

	nsEl := newInstanceElement(d, yangLibraryNamespace, "namespace")
	nsEl.Text = d.Insert(mod.Namespace.Value())
	xmltree.AppendChild(el, nsEl)

	confEl := newInstanceElement(d, yangLibraryNamespace, "conformance")
	conf := mod.Conformance
	if conf == "" {
		conf = "implement"
	}
	confEl.Text = d.Insert(conf)
	xmltree.AppendChild(el, confEl)

	var subs []*Module
	for _, inc := range mod.Includes {
		if inc.Submodule != nil {
			subs = append(subs, inc.Submodule)
		}
	}
	if len(subs) > 0 {
		submodulesEl := newInstanceElement(d, yangLibraryNamespace, "submodules")
		for _, sub := range subs {
			subEl := newInstanceElement(d, yangLibraryNamespace, "submodule")

			subNameEl := newInstanceElement(d, yangLibraryNamespace, "name")
			subNameEl.Text = d.Insert(sub.Name.Value())
			xmltree.AppendChild(subEl, subNameEl)

			subRevEl := newInstanceElement(d, yangLibraryNamespace, "revision")
			subRevEl.Text = d.Insert(sub.LatestRevision())
			xmltree.AppendChild(subEl, subRevEl)

			xmltree.AppendChild(submodulesEl, subEl)
		}
		xmltree.AppendChild(el, submodulesEl)
	}
	return el
}

// newInstanceElement builds a bare *xmltree.Element with its name and
// namespace interned into d; it is used instead of xmltree.Parse
// because this tree is synthesized by the library, not read from bytes.
func newInstanceElement(d *dict.Dictionary, ns, name string) *xmltree.Element {
	return &xmltree.Element{
		Name: d.Insert(name),
		NS:   d.Insert(ns),
	}
}

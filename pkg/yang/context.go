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
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"

	"github.com/RoyWorkerLuo/libyang/pkg/dict"
	"github.com/RoyWorkerLuo/libyang/pkg/diag"
	"github.com/RoyWorkerLuo/libyang/pkg/xmltree"
)

var revisionFileRE = regexp.MustCompile(`^(.+)@(\d{4}-\d{2}-\d{2})\.yin$`)

// Context is the registry of loaded modules and submodules described in
// spec §4.3: it owns the Dictionary every compiled string is interned
// into, and a search directory used to auto-load modules by name.
type Context struct {
	Dict *dict.Dictionary
	Sink *diag.Sink

	searchDir string

	modules    []*Module // registration order; spec §4.3 "growable array"
	byKey      map[string]*Module // "name" or "name@revision" -> module
	submodules []*Module

	// importDepth is non-zero while fillImports is loading a module
	// solely to resolve another module's import statement; RegisterModule
	// consults it to tag the new module's Conformance as "import" rather
	// than "implement".
	importDepth int
}

// NewContext returns an empty Context with a fresh Dictionary and a
// warning-level diagnostic Sink.
func NewContext() *Context {
	return &Context{
		Dict:  dict.New(),
		Sink:  diag.NewSink(),
		byKey: make(map[string]*Module),
	}
}

// SetSearchDirectory sets the directory LoadModuleByName searches for
// "<name>.yin" / "<name>@<revision>.yin" files.
func (c *Context) SetSearchDirectory(dir string) {
	c.searchDir = dir
}

// SearchDirectory returns the currently configured search directory.
func (c *Context) SearchDirectory() string {
	return c.searchDir
}

// LoadModuleByName finds "<name>.yin" or, if revision is non-empty,
// "<name>@<revision>.yin" in the search directory, parses it as YIN and
// registers the resulting module (spec §4.3, §6).
func (c *Context) LoadModuleByName(name, revision string) (*Module, error) {
	if m, ok := c.LookupModule(name, revision); ok {
		return m, nil
	}
	if c.searchDir == "" {
		return nil, c.Sink.Errorf(diag.CodeIOError, 0, "no search directory configured, cannot load %q", name)
	}
	fname := name + ".yin"
	if revision != "" {
		fname = fmt.Sprintf("%s@%s.yin", name, revision)
	}
	path := filepath.Join(c.searchDir, fname)
	data, err := os.ReadFile(path)
	if err != nil {
		if revision == "" {
			path, data, err = c.findAnyRevision(name)
		}
		if err != nil {
			return nil, c.Sink.Errorf(diag.CodeIOError, 0, "module %q: %v", name, err)
		}
	}
	root, err := xmltree.Parse(data, c.Sink, c.Dict)
	if err != nil {
		return nil, err
	}
	return c.RegisterModule(root)
}

// findAnyRevision scans the search directory for "<name>@*.yin" and
// returns the lexically greatest (i.e. newest, since revisions are
// YYYY-MM-DD) match.
func (c *Context) findAnyRevision(name string) (string, []byte, error) {
	entries, err := os.ReadDir(c.searchDir)
	if err != nil {
		return "", nil, err
	}
	var best, bestRev string
	for _, e := range entries {
		m := revisionFileRE.FindStringSubmatch(e.Name())
		if m == nil || m[1] != name {
			continue
		}
		if best == "" || m[2] > bestRev {
			best, bestRev = e.Name(), m[2]
		}
	}
	if best == "" {
		return "", nil, fmt.Errorf("not found in %s", c.searchDir)
	}
	path := filepath.Join(c.searchDir, best)
	data, err := os.ReadFile(path)
	return path, data, err
}

// RegisterModule compiles root (the XML tree of a YIN "module" or
// "submodule" element) and adds it to the context.  Registration is
// rejected if it would duplicate an already-registered (name, revision)
// pair, or a revision-less module of the same name (spec §4.3).
func (c *Context) RegisterModule(root *xmltree.Element) (*Module, error) {
	mod, err := compile(c, root)
	if err != nil {
		return nil, err
	}
	key := mod.Key()
	if _, dup := c.byKey[key]; dup {
		err := c.Sink.Errorf(diag.CodeDuplicateModule, 0,
			"module %q is already registered", key)
		freeModule(mod)
		return nil, err
	}
	if c.importDepth > 0 {
		mod.Conformance = "import"
	} else {
		mod.Conformance = "implement"
	}
	if mod.IsSubmodule {
		c.submodules = append(c.submodules, mod)
	} else {
		c.modules = append(c.modules, mod)
	}
	c.byKey[key] = mod
	return mod, nil
}

// LookupModule returns the module named name.  If revision is "", the
// newest registered revision of name is returned.
func (c *Context) LookupModule(name, revision string) (*Module, bool) {
	if revision != "" {
		m, ok := c.byKey[name+"@"+revision]
		return m, ok
	}
	var best *Module
	for _, m := range c.modules {
		if m.Name.Value() != name {
			continue
		}
		if best == nil || m.LatestRevision() > best.LatestRevision() {
			best = m
		}
	}
	return best, best != nil
}

// LookupSubmodule returns the submodule named name belonging to parent.
func (c *Context) LookupSubmodule(parent *Module, name, revision string) (*Module, bool) {
	var best *Module
	for _, m := range c.submodules {
		if m.Name.Value() != name {
			continue
		}
		if m.BelongsTo == nil || m.BelongsTo.Value() != parent.Name.Value() {
			continue
		}
		if revision != "" {
			if m.LatestRevision() == revision {
				return m, true
			}
			continue
		}
		if best == nil || m.LatestRevision() > best.LatestRevision() {
			best = m
		}
	}
	return best, best != nil
}

// ListModuleNames returns the names of every top-level module currently
// registered, in registration order.
func (c *Context) ListModuleNames() []string {
	names := make([]string, len(c.modules))
	for i, m := range c.modules {
		names[i] = m.Name.Value()
	}
	return names
}

// Modules returns every registered top-level module, in registration
// order.
func (c *Context) Modules() []*Module {
	out := make([]*Module, len(c.modules))
	copy(out, c.modules)
	return out
}

// Destroy frees every module in reverse registration order, driving each
// one's dictionary refcounts to zero via freeModule, and then the
// dictionary itself, per spec §4.3.  Under the Go garbage collector this
// mainly matters for determinism (re-registering a module by the same
// name after Destroy must behave like a fresh Context, not see stale
// state); see DESIGN.md's note on manual refcount teardown.
func (c *Context) Destroy() {
	for i := len(c.submodules) - 1; i >= 0; i-- {
		freeModule(c.submodules[i])
	}
	for i := len(c.modules) - 1; i >= 0; i-- {
		freeModule(c.modules[i])
	}
	c.modules = nil
	c.submodules = nil
	c.byKey = make(map[string]*Module)
	c.Dict = dict.New()
}

// sortedModuleNames returns the names of mods in sorted order.
func sortedModuleNames(mods []*Module) []string {
	names := make([]string, len(mods))
	for i, m := range mods {
		names[i] = m.Name.Value()
	}
	sort.Strings(names)
	return names
}

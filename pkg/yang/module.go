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

import "github.com/RoyWorkerLuo/libyang/pkg/dict"

// Module is a compiled YANG module or submodule (spec §3.2).  A
// submodule has IsSubmodule set and carries BelongsTo instead of a
// Namespace/Prefix of its own.
type Module struct {
	Ctx *Context

	Name      *dict.String
	Namespace *dict.String
	Prefix    *dict.String

	IsSubmodule bool
	BelongsTo   *dict.String // submodule's parent module name

	// Conformance is "implement" if the module was explicitly requested
	// by the caller, or "import" if it was only pulled in to satisfy
	// another module's import statement (spec §6 yang-library
	// synthesis).
	Conformance string

	YangVersion  *dict.String
	Description  *dict.String
	Reference    *dict.String
	Organization *dict.String
	Contact      *dict.String

	Revisions []*Revision
	Imports   []*Import
	Includes  []*Include
	Typedefs  []*Typedef
	Identities []*Identity
	Features  []*Feature

	// Data is the first node of the module's top-level half-ring of
	// data-definition nodes (spec §3.2's "data root").
	Data *Node
}

// LatestRevision returns m's most recent revision date, or "" if m has
// none.
func (m *Module) LatestRevision() string {
	if len(m.Revisions) == 0 {
		return ""
	}
	latest := m.Revisions[0].Date.Value()
	for _, r := range m.Revisions[1:] {
		if d := r.Date.Value(); d > latest {
			latest = d
		}
	}
	return latest
}

// Key is the name@revision identifier used for registration conflict
// checks and context lookups; with no revision it is just the name.
func (m *Module) Key() string {
	if rev := m.LatestRevision(); rev != "" {
		return m.Name.Value() + "@" + rev
	}
	return m.Name.Value()
}

// freeModule releases every *dict.String mod owns directly (its own
// singleton fields, the Revision/Import/Include/Feature tables, its
// Typedefs and Identities) and frees its data tree via FreeNode, then
// clears mod.Data.  Cross-module references (Import.Module,
// Include.Submodule, Identity.Base/Derived) are non-owning and are left
// untouched, matching the ownership rules FreeNode and freeType already
// follow (spec §5, §8, §9).
func freeModule(mod *Module) {
	if mod == nil || mod.Ctx == nil {
		return
	}
	d := mod.Ctx.Dict
	FreeNode(mod.Data)
	mod.Data = nil

	d.Remove(mod.Name)
	d.Remove(mod.Namespace)
	d.Remove(mod.Prefix)
	d.Remove(mod.BelongsTo)
	d.Remove(mod.YangVersion)
	d.Remove(mod.Description)
	d.Remove(mod.Reference)
	d.Remove(mod.Organization)
	d.Remove(mod.Contact)

	for _, r := range mod.Revisions {
		d.Remove(r.Date)
		d.Remove(r.Description)
		d.Remove(r.Reference)
	}
	for _, imp := range mod.Imports {
		d.Remove(imp.Prefix)
		d.Remove(imp.RevisionDate)
	}
	for _, inc := range mod.Includes {
		d.Remove(inc.RevisionDate)
	}
	for _, f := range mod.Features {
		d.Remove(f.Name)
		d.Remove(f.Description)
	}
	for _, id := range mod.Identities {
		// fillIdentities pre-sizes this slice by element count before
		// filling each slot in source order; a failure partway through
		// leaves trailing slots nil.
		if id == nil {
			continue
		}
		d.Remove(id.Name)
		d.Remove(id.Description)
		d.Remove(id.Reference)
	}
	for _, td := range mod.Typedefs {
		// same pre-sized-then-filled pattern as Identities, in fillTypedefs.
		freeTypedef(d, td)
	}
}

// Revision is a single "revision" statement (spec §3.2).
type Revision struct {
	Date        *dict.String
	Description *dict.String
	Reference   *dict.String
}

// Import is a resolved "import" statement.
type Import struct {
	Prefix       *dict.String
	RevisionDate *dict.String
	Module       *Module
}

// Include is a resolved "include" statement.
type Include struct {
	RevisionDate *dict.String
	Submodule    *Module
}

// Feature is a "feature" statement.
type Feature struct {
	Name        *dict.String
	Status      Status
	Description *dict.String
	Enabled     bool
}

// Status is the current/deprecated/obsolete status of a schema element
// (spec §3.2 Flags).
type Status int

const (
	StatusCurrent Status = iota
	StatusDeprecated
	StatusObsolete
)

func (s Status) String() string {
	switch s {
	case StatusDeprecated:
		return "deprecated"
	case StatusObsolete:
		return "obsolete"
	default:
		return "current"
	}
}

// Config is the read-write/read-only configuration flag of a schema node
// (spec §3.2 Flags).  ConfigUnset means "inherit from parent"; a module's
// top-level default, once resolved, is ConfigWrite.
type Config int

const (
	ConfigUnset Config = iota
	ConfigWrite
	ConfigRead
)

func (c Config) String() string {
	switch c {
	case ConfigRead:
		return "R"
	case ConfigWrite:
		return "W"
	default:
		return "unset"
	}
}

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
	"github.com/google/go-cmp/cmp"

	"github.com/RoyWorkerLuo/libyang/pkg/dict"
)

// TypeKind enumerates the built-in YANG type kinds plus KindUnknownType,
// twenty values in total per spec §3.2's "base kind (enum of 20
// built-ins)".
type TypeKind int

const (
	KindUnknownType TypeKind = iota
	KindBinary
	KindBits
	KindBoolean
	KindDecimal64
	KindEmpty
	KindEnumeration
	KindIdentityref
	KindInstanceIdentifier
	KindInt8
	KindInt16
	KindInt32
	KindInt64
	KindLeafref
	KindString
	KindUint8
	KindUint16
	KindUint32
	KindUint64
	KindUnion
)

var builtinNames = map[string]TypeKind{
	"binary":              KindBinary,
	"bits":                KindBits,
	"boolean":             KindBoolean,
	"decimal64":           KindDecimal64,
	"empty":               KindEmpty,
	"enumeration":         KindEnumeration,
	"identityref":         KindIdentityref,
	"instance-identifier": KindInstanceIdentifier,
	"int8":                KindInt8,
	"int16":               KindInt16,
	"int32":               KindInt32,
	"int64":               KindInt64,
	"leafref":             KindLeafref,
	"string":              KindString,
	"uint8":               KindUint8,
	"uint16":              KindUint16,
	"uint32":              KindUint32,
	"uint64":              KindUint64,
	"union":               KindUnion,
}

func (k TypeKind) String() string {
	for name, kk := range builtinNames {
		if kk == k {
			return name
		}
	}
	return "unknown"
}

// LookupBuiltin returns the TypeKind named name and true, or
// (KindUnknownType, false) if name is not one of the 19 YANG built-ins.
func LookupBuiltin(name string) (TypeKind, bool) {
	k, ok := builtinNames[name]
	return k, ok
}

// EnumValue is one "enum" child of an enumeration type (spec §4.6).
type EnumValue struct {
	Name  *dict.String
	Value int32
}

// BitValue is one "bit" child of a bits type.
type BitValue struct {
	Name     *dict.String
	Position uint32
}

// Range is a stub numeric-range/length constraint: the raw argument text
// is recorded but not compiled into bounds, per spec §4.6's "deeper
// constraint parsing is permitted to be a stub that records the raw
// children for later passes."
type Range struct {
	Raw *dict.String
}

// Type is the tagged-variant type descriptor of spec §3.2: a base kind,
// a derivation pointer to the Typedef it was resolved from (nil only for
// a bare built-in), and a kind-tagged payload.  Like Node, the payload
// is flattened into named fields rather than a Go union, each
// meaningful only for the Kind(s) that set it.
type Type struct {
	Kind       TypeKind
	Derivation *Typedef     `json:"-"` // owns a back-reference to Module; would recurse forever
	Prefix     *dict.String `json:",omitempty"`
	Name       *dict.String `json:",omitempty"`

	Enums []*EnumValue `json:",omitempty"` // KindEnumeration
	Bits  []*BitValue  `json:",omitempty"` // KindBits

	IdentityBase *Identity `json:"-"` // KindIdentityref; same back-reference concern as Derivation

	Union []*Type `json:",omitempty"` // KindUnion

	Range  *Range `json:",omitempty"` // numeric kinds
	Length *Range `json:",omitempty"` // KindString, KindBinary

	Pattern []string `json:",omitempty"` // KindString, raw regexes (unstubbed)

	LeafrefPath     *dict.String `json:",omitempty"` // KindLeafref
	RequireInstance bool         `json:",omitempty"` // KindInstanceIdentifier / KindLeafref
	FractionDigits  uint8        `json:",omitempty"` // KindDecimal64
}

// Equal reports whether t and u describe the same type, structurally.
// It is grounded on the teacher's YangType.Equal, which likewise uses
// cmp.Equal with a custom Comparer for its enumeration payload instead
// of hand-writing a deep-compare function.
func (t *Type) Equal(u *Type) bool {
	if t == u {
		return true
	}
	if t == nil || u == nil {
		return false
	}
	return cmp.Equal(t, u,
		cmp.Comparer(func(a, b *dict.String) bool { return a.Value() == b.Value() }),
		cmp.Comparer(func(a, b *Typedef) bool { return a == b }),
		cmp.Comparer(func(a, b *Identity) bool { return a == b }),
	)
}

// Typedef is a named derivation of a Type (spec §3.2).
type Typedef struct {
	Module      *Module
	Name        *dict.String
	Type        *Type
	Status      Status
	Description *dict.String
	Reference   *dict.String
	Default     *dict.String
	Units       *dict.String
}

// freeType releases t's own interned fields back to d: Name, Prefix,
// LeafrefPath, each EnumValue's and BitValue's Name, and Range.Raw/
// Length.Raw, recursing into Union members since those Type structs are
// owned by t.  Derivation and IdentityBase are non-owning back-references
// into another Typedef's or Identity's Module (spec §9) and must not be
// followed here, or a typedef shared by many leaves would be released
// once per leaf instead of once.
func freeType(d *dict.Dictionary, t *Type) {
	if t == nil {
		return
	}
	d.Remove(t.Name)
	d.Remove(t.Prefix)
	d.Remove(t.LeafrefPath)
	for _, e := range t.Enums {
		d.Remove(e.Name)
	}
	for _, b := range t.Bits {
		d.Remove(b.Name)
	}
	if t.Range != nil {
		d.Remove(t.Range.Raw)
	}
	if t.Length != nil {
		d.Remove(t.Length.Raw)
	}
	for _, u := range t.Union {
		freeType(d, u)
	}
}

// freeTypedef releases td's own fields (Name, Description, Reference,
// Default, Units, Type) back to d.  It does not touch td.Module, which
// is a non-owning pointer to the Typedef's defining Module.
func freeTypedef(d *dict.Dictionary, td *Typedef) {
	if td == nil {
		return
	}
	d.Remove(td.Name)
	d.Remove(td.Description)
	d.Remove(td.Reference)
	d.Remove(td.Default)
	d.Remove(td.Units)
	freeType(d, td.Type)
}

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
	"strings"
	"testing"

	"github.com/openconfig/gnmi/errdiff"

	"github.com/RoyWorkerLuo/libyang/pkg/xmltree"
)

const yinHeader = `<?xml version="1.0" encoding="UTF-8"?>`

func yinWrap(body string) string {
	return yinHeader + `
<module name="m" xmlns="` + yinNamespace + `">
  <namespace uri="urn:m"/>
  <prefix value="m"/>
` + body + `
</module>`
}

func parseAndRegister(t *testing.T, ctx *Context, doc string) (*Module, error) {
	t.Helper()
	root, err := xmltree.Parse([]byte(doc), ctx.Sink, ctx.Dict)
	if err != nil {
		return nil, err
	}
	return ctx.RegisterModule(root)
}

// Scenario 1: minimal module.
func TestCompileMinimalModule(t *testing.T) {
	ctx := NewContext()
	mod, err := parseAndRegister(t, ctx, yinWrap(`<leaf name="x"><type name="string"/></leaf>`))
	if err != nil {
		t.Fatalf("RegisterModule: %v", err)
	}
	if mod.Name.Value() != "m" {
		t.Errorf("Name = %q, want m", mod.Name.Value())
	}
	leaf := mod.Data
	if leaf == nil || leaf.Kind != KindLeaf || leaf.Name.Value() != "x" {
		t.Fatalf("Data = %+v, want leaf x", leaf)
	}
	if leaf.Type.Kind != KindString {
		t.Errorf("leaf.Type.Kind = %v, want string", leaf.Type.Kind)
	}
	if leaf.EffectiveConfig() != ConfigWrite {
		t.Errorf("EffectiveConfig = %v, want W", leaf.EffectiveConfig())
	}
	if leaf.EffectiveStatus() != StatusCurrent {
		t.Errorf("EffectiveStatus = %v, want current", leaf.EffectiveStatus())
	}

	info := ctx.Info()
	modules := xmltree.Children(info)
	var found bool
	for _, e := range modules {
		if e.Name.Value() != "module" {
			continue
		}
		found = true
		for _, f := range xmltree.Children(e) {
			switch f.Name.Value() {
			case "name":
				if f.Text.Value() != "m" {
					t.Errorf("module/name = %q, want m", f.Text.Value())
				}
			case "revision":
				if f.Text.Value() != "" {
					t.Errorf("module/revision = %q, want empty", f.Text.Value())
				}
			case "namespace":
				if f.Text.Value() != "urn:m" {
					t.Errorf("module/namespace = %q, want urn:m", f.Text.Value())
				}
			case "conformance":
				if f.Text.Value() != "implement" {
					t.Errorf("module/conformance = %q, want implement", f.Text.Value())
				}
			}
		}
	}
	if !found {
		t.Error("Info() produced no module entry")
	}
}

// Scenario 2: enum auto-assignment.
func TestCompileEnumAutoAssignment(t *testing.T) {
	ctx := NewContext()
	doc := yinWrap(`
  <leaf name="x">
    <type name="enumeration">
      <enum name="a"/>
      <enum name="b"><value value="5"/></enum>
      <enum name="c"/>
    </type>
  </leaf>`)
	mod, err := parseAndRegister(t, ctx, doc)
	if err != nil {
		t.Fatalf("RegisterModule: %v", err)
	}
	got := map[string]int32{}
	for _, e := range mod.Data.Type.Enums {
		got[e.Name.Value()] = e.Value
	}
	want := map[string]int32{"a": 0, "b": 5, "c": 6}
	for name, v := range want {
		if got[name] != v {
			t.Errorf("enum %q = %d, want %d", name, got[name], v)
		}
	}
}

// Scenario 3: duplicate enum value.
func TestCompileDuplicateEnumValue(t *testing.T) {
	ctx := NewContext()
	doc := yinWrap(`
  <leaf name="x">
    <type name="enumeration">
      <enum name="a"><value value="1"/></enum>
      <enum name="b"><value value="1"/></enum>
    </type>
  </leaf>`)
	_, err := parseAndRegister(t, ctx, doc)
	if diff := errdiff.Check(err, "duplicate-enum-value"); diff != "" {
		t.Error(diff)
	}
}

// Scenario 4: list key validation.
func TestCompileListKeyValidation(t *testing.T) {
	base := `
  <list name="L">
    <key value="k"/>
    <config value="true"/>
    <leaf name="k">%s</leaf>
    <leaf name="v"><type name="string"/></leaf>
  </list>`

	t.Run("valid key", func(t *testing.T) {
		ctx := NewContext()
		doc := yinWrap(fmt.Sprintf(base, `<type name="string"/>`))
		mod, err := parseAndRegister(t, ctx, doc)
		if err != nil {
			t.Fatalf("RegisterModule: %v", err)
		}
		list := mod.Data
		if len(list.Keys) != 1 || list.Keys[0].Name.Value() != "k" {
			t.Fatalf("Keys = %+v, want [k]", list.Keys)
		}
	})

	t.Run("empty key type", func(t *testing.T) {
		ctx := NewContext()
		doc := yinWrap(fmt.Sprintf(base, `<type name="empty"/>`))
		_, err := parseAndRegister(t, ctx, doc)
		if diff := errdiff.Check(err, "key-type-is-empty"); diff != "" {
			t.Error(diff)
		}
	})

	t.Run("missing key statement", func(t *testing.T) {
		ctx := NewContext()
		doc := yinWrap(`
  <list name="L">
    <config value="true"/>
    <leaf name="k"><type name="string"/></leaf>
    <leaf name="v"><type name="string"/></leaf>
  </list>`)
		_, err := parseAndRegister(t, ctx, doc)
		if diff := errdiff.Check(err, "missing-key"); diff != "" {
			t.Error(diff)
		}
	})
}

// Scenario 5: identity derivation.
func TestCompileIdentityDerivation(t *testing.T) {
	ctx := NewContext()
	doc := yinWrap(`
  <identity name="base"/>
  <identity name="a"><base name="base"/></identity>
  <identity name="b"><base name="a"/></identity>`)
	mod, err := parseAndRegister(t, ctx, doc)
	if err != nil {
		t.Fatalf("RegisterModule: %v", err)
	}
	byName := map[string]*Identity{}
	for _, id := range mod.Identities {
		byName[id.Name.Value()] = id
	}
	base, a, b := byName["base"], byName["a"], byName["b"]
	if !containsIdentity(base.Derived, a) || !containsIdentity(base.Derived, b) {
		t.Errorf("base.Derived = %v, want {a, b}", namesOf(base.Derived))
	}
	if !containsIdentity(a.Derived, b) {
		t.Errorf("a.Derived = %v, want {b}", namesOf(a.Derived))
	}
	if b.Base != a {
		t.Errorf("b.Base = %v, want a", b.Base)
	}
	if a.Base != base {
		t.Errorf("a.Base = %v, want base", a.Base)
	}
}

func containsIdentity(ids []*Identity, chk *Identity) bool {
	for _, id := range ids {
		if id == chk {
			return true
		}
	}
	return false
}

func namesOf(ids []*Identity) []string {
	var out []string
	for _, id := range ids {
		out = append(out, id.Name.Value())
	}
	return out
}

// Scenario 6: cross-module typedef.
func TestCompileCrossModuleTypedef(t *testing.T) {
	ctx := NewContext()
	p := yinHeader + `
<module name="p" xmlns="` + yinNamespace + `">
  <namespace uri="urn:p"/>
  <prefix value="p"/>
  <typedef name="t"><type name="uint32"/></typedef>
</module>`
	if _, err := parseAndRegister(t, ctx, p); err != nil {
		t.Fatalf("register p: %v", err)
	}

	q := yinHeader + `
<module name="q" xmlns="` + yinNamespace + `">
  <namespace uri="urn:q"/>
  <prefix value="q"/>
  <import module="p"><prefix value="pp"/></import>
  <leaf name="n"><type name="pp:t"/></leaf>
</module>`
	qMod, err := parseAndRegister(t, ctx, q)
	if err != nil {
		t.Fatalf("register q: %v", err)
	}
	pMod, _ := ctx.LookupModule("p", "")
	if qMod.Data.Type.Derivation != pMod.Typedefs[0] {
		t.Errorf("q.data.n.type.Derivation = %v, want p.Typedefs[0]", qMod.Data.Type.Derivation)
	}
	if qMod.Data.Type.Kind != KindUint32 {
		t.Errorf("q.data.n.type.Kind = %v, want uint32", qMod.Data.Type.Kind)
	}
}

// Boundary: self-importing module must fail.
func TestCompileSelfImportFails(t *testing.T) {
	ctx := NewContext()
	doc := yinHeader + `
<module name="m" xmlns="` + yinNamespace + `">
  <namespace uri="urn:m"/>
  <prefix value="m"/>
  <import module="m"><prefix value="mm"/></import>
</module>`
	_, err := parseAndRegister(t, ctx, doc)
	if err == nil {
		t.Fatal("expected error for self-import, got nil")
	}
}

// Idempotence: loading the same module twice fails the second time and
// leaves the context's module set unchanged.
func TestCompileDuplicateModuleRejected(t *testing.T) {
	ctx := NewContext()
	doc := yinWrap(`<leaf name="x"><type name="string"/></leaf>`)
	if _, err := parseAndRegister(t, ctx, doc); err != nil {
		t.Fatalf("first register: %v", err)
	}
	before := len(ctx.Modules())
	_, err := parseAndRegister(t, ctx, doc)
	if diff := errdiff.Check(err, "duplicate-module"); diff != "" {
		t.Error(diff)
	}
	if got := len(ctx.Modules()); got != before {
		t.Errorf("module count after failed duplicate register = %d, want %d", got, before)
	}
}

// Round-trip: dumping with no options, re-parsing and dumping again
// yields byte-identical output (spec §8).
func TestXMLRoundTrip(t *testing.T) {
	ctx := NewContext()
	doc := yinWrap(`<leaf name="x"><type name="string"/></leaf>`)
	root, err := xmltree.Parse([]byte(doc), ctx.Sink, ctx.Dict)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	first := xmltree.String(root, xmltree.DumpOptions{})

	root2, err := xmltree.Parse([]byte(first), ctx.Sink, ctx.Dict)
	if err != nil {
		t.Fatalf("re-Parse: %v", err)
	}
	second := xmltree.String(root2, xmltree.DumpOptions{})
	if first != second {
		t.Errorf("round-trip mismatch:\n%s\n---\n%s", first, second)
	}
}

func TestSplitPrefix(t *testing.T) {
	if p, l := splitPrefix("pp:foo"); p != "pp" || l != "foo" {
		t.Errorf("splitPrefix(pp:foo) = %q, %q", p, l)
	}
	if p, l := splitPrefix("foo"); p != "" || l != "foo" {
		t.Errorf("splitPrefix(foo) = %q, %q", p, l)
	}
}

func TestStrings(t *testing.T) {
	if !strings.Contains(yinNamespace, "yin") {
		t.Fatal("sanity")
	}
}

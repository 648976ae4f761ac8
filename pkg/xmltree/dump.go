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

package xmltree

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/RoyWorkerLuo/libyang/pkg/dict"
	"github.com/RoyWorkerLuo/libyang/pkg/indent"
)

// DumpOptions selects what Dump renders (spec §4.4).
type DumpOptions struct {
	// OpenOnly renders only the start tag (no children, no close tag).
	OpenOnly bool
	// CloseOnly renders only the end tag.
	CloseOnly bool
	// AttrsOnly renders only the attribute list, space-separated, with
	// no surrounding tag syntax; mutually exclusive with the others.
	AttrsOnly bool
	// Formatted indents nested children one level per depth.
	Formatted bool
}

// Dump renders e (and, unless restricted by opt, its descendants) to w.
func Dump(w io.Writer, e *Element, opt DumpOptions) error {
	d := &dumper{w: w, opt: opt}
	return d.dump(e, newDumpScope(nil))
}

// String is a convenience wrapper returning Dump's output as a string.
func String(e *Element, opt DumpOptions) string {
	var b strings.Builder
	_ = Dump(&b, e, opt)
	return b.String()
}

// dumpScope tracks which namespace URIs are already bound to which
// prefix (or to the default) at the current position in the output, so
// Dump never re-emits a redundant xmlns declaration (spec §4.4).
type dumpScope struct {
	parent  *dumpScope
	dflt    *dict.String
	prefix  *dict.String // prefix bound at this scope frame, nil if this frame only sets the default
	boundNS *dict.String // the URI that prefix is bound to
	counter *int
}

func newDumpScope(parent *dumpScope) *dumpScope {
	if parent != nil {
		return &dumpScope{parent: parent, dflt: parent.dflt, counter: parent.counter}
	}
	n := 0
	return &dumpScope{counter: &n}
}

func (s *dumpScope) isDefault(ns *dict.String) bool {
	return s.dflt == ns
}

func (s *dumpScope) prefixFor(ns *dict.String) (string, bool) {
	for f := s; f != nil; f = f.parent {
		if f.boundNS == ns {
			return f.prefix.Value(), true
		}
		if f.dflt == ns {
			return "", true
		}
	}
	return "", false
}

func (s *dumpScope) nextPrefix() string {
	*s.counter++
	return fmt.Sprintf("ns%d", *s.counter)
}

type dumper struct {
	w   io.Writer
	opt DumpOptions
}

func (d *dumper) dump(e *Element, scope *dumpScope) error {
	if e == nil {
		return nil
	}
	if d.opt.AttrsOnly {
		return d.writeAttrs(e, scope)
	}

	needed, childScope := d.resolveNamespaces(e, scope)

	if !d.opt.CloseOnly {
		if err := d.writeOpen(e, needed, childScope); err != nil {
			return err
		}
	}
	if d.opt.OpenOnly {
		return nil
	}

	hasChildren := e.FirstChild != nil
	if hasChildren && !d.opt.CloseOnly {
		for c := e.FirstChild; c != nil; c = c.Next {
			w := d.w
			if d.opt.Formatted {
				w = indent.NewWriter(d.w, "  ")
				fmt.Fprintln(d.w)
			}
			cd := &dumper{w: w, opt: d.opt}
			if err := cd.dump(c, childScope); err != nil {
				return err
			}
		}
		if d.opt.Formatted {
			fmt.Fprintln(d.w)
		}
	} else if !d.opt.CloseOnly && !hasChildren {
		if err := d.writeText(e); err != nil {
			return err
		}
	}

	return d.writeClose(e)
}

// resolveNamespaces computes the xmlns declarations e must carry at this
// position and returns the scope its children (and its own attributes)
// should be resolved against.
func (d *dumper) resolveNamespaces(e *Element, scope *dumpScope) ([]nsDecl, *dumpScope) {
	var needed []nsDecl
	child := newDumpScope(scope)

	if e.NS != nil && !scope.isDefault(e.NS) {
		// writeOpen always renders e's own tag name bare, never
		// prefixed, so e.NS must be covered by a default-namespace
		// declaration here even if it is already bound to a non-default
		// prefix by an ancestor's attribute (scope.prefixFor's boundNS
		// arm): that binding only qualifies attribute names, not a bare
		// element tag.
		needed = append(needed, nsDecl{prefix: nil, uri: e.NS})
		child.dflt = e.NS
	}

	for a := e.FirstAttr; a != nil; a = a.Next {
		if a.Kind != StdAttr || a.NS == nil {
			continue
		}
		if _, ok := child.prefixFor(a.NS); ok {
			continue
		}
		pfx := child.nextPrefix()
		pfxID := internedPrefix(pfx)
		needed = append(needed, nsDecl{prefix: pfxID, uri: a.NS})
		child = &dumpScope{parent: child, dflt: child.dflt, counter: child.counter,
			prefix: pfxID, boundNS: a.NS}
	}

	return needed, child
}

// internedPrefix avoids threading a *dict.Dictionary through the dumper
// just to box a handful of generated prefixes.
func internedPrefix(s string) *dict.String {
	d := dict.New()
	return d.Insert(s)
}

type nsDecl struct {
	prefix *dict.String // nil means default namespace
	uri    *dict.String
}

func (d *dumper) writeOpen(e *Element, needed []nsDecl, childScope *dumpScope) error {
	if _, err := fmt.Fprintf(d.w, "<%s", e.Name.Value()); err != nil {
		return err
	}
	for _, n := range needed {
		if n.prefix == nil {
			if _, err := fmt.Fprintf(d.w, ` xmlns="%s"`, escapeAttr(n.uri.Value())); err != nil {
				return err
			}
			continue
		}
		if _, err := fmt.Fprintf(d.w, ` xmlns:%s="%s"`, n.prefix.Value(), escapeAttr(n.uri.Value())); err != nil {
			return err
		}
	}
	for a := e.FirstAttr; a != nil; a = a.Next {
		if a.Kind != StdAttr {
			continue
		}
		name := a.Name.Value()
		if a.NS != nil {
			if pfx, ok := childScope.prefixFor(a.NS); ok && pfx != "" {
				name = pfx + ":" + name
			}
		}
		if _, err := fmt.Fprintf(d.w, ` %s="%s"`, name, escapeAttr(a.Value.Value())); err != nil {
			return err
		}
	}
	hasContent := e.FirstChild != nil || e.Text != nil || e.Mixed
	if !hasContent && !d.opt.OpenOnly {
		_, err := fmt.Fprint(d.w, "/>")
		return err
	}
	_, err := fmt.Fprint(d.w, ">")
	return err
}

func (d *dumper) writeClose(e *Element) error {
	hasContent := e.FirstChild != nil || e.Text != nil || e.Mixed
	if !hasContent {
		return nil // self-closed already in writeOpen
	}
	_, err := fmt.Fprintf(d.w, "</%s>", e.Name.Value())
	return err
}

func (d *dumper) writeText(e *Element) error {
	if e.Text == nil {
		return nil
	}
	_, err := fmt.Fprint(d.w, escapeText(e.Text.Value()))
	return err
}

func (d *dumper) writeAttrs(e *Element, scope *dumpScope) error {
	first := true
	for a := e.FirstAttr; a != nil; a = a.Next {
		if a.Kind != StdAttr {
			continue
		}
		if !first {
			if _, err := fmt.Fprint(d.w, " "); err != nil {
				return err
			}
		}
		first = false
		if _, err := fmt.Fprintf(d.w, `%s="%s"`, a.Name.Value(), escapeAttr(a.Value.Value())); err != nil {
			return err
		}
	}
	return nil
}

func escapeText(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch r {
		case '<':
			b.WriteString("&lt;")
		case '>':
			b.WriteString("&gt;")
		case '&':
			b.WriteString("&amp;")
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

func escapeAttr(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch r {
		case '<':
			b.WriteString("&lt;")
		case '&':
			b.WriteString("&amp;")
		case '"':
			b.WriteString("&quot;")
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// DumpToFile writes e per opt to a *bufio.Writer wrapping w, flushing on
// success; it exists to satisfy spec §4.4's "file descriptor (via write)"
// output target without forcing every caller to manage buffering.
func DumpToFile(w io.Writer, e *Element, opt DumpOptions) error {
	bw := bufio.NewWriter(w)
	if err := Dump(bw, e, opt); err != nil {
		return err
	}
	return bw.Flush()
}

// WriteFunc adapts a callback of the shape libyang's ly_write_clb takes
// (spec §4.4: "a caller-provided write callback") into an io.Writer.
type WriteFunc func(p []byte) (int, error)

func (f WriteFunc) Write(p []byte) (int, error) { return f(p) }

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

// Package dict implements the process-local string interning table that
// backs every identifier, prefix, namespace, description, and attribute
// value flowing through the schema compiler.  Equality of two *dict.String
// values obtained from the same Dictionary is pointer equality; callers
// must never compare interned strings with ==/bytes.Equal against a string
// obtained any other way.
package dict

import (
	"encoding/json"
	"sync"
)

// String is a canonical, refcounted copy of an interned byte sequence.
// The zero value is not valid; obtain one from Dictionary.Insert.
type String struct {
	s   string
	ref int
}

// Value returns the interned text.
func (s *String) Value() string {
	if s == nil {
		return ""
	}
	return s.s
}

func (s *String) String() string { return s.Value() }

// MarshalJSON renders an interned String as its plain text, so that a
// struct holding *dict.String fields marshals the way a caller expects a
// string field to look rather than exposing the refcounted internals.
func (s *String) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Value())
}

// Dictionary is a hash table mapping byte sequences to their single
// canonical *String.  It is owned by a single yang.Context and is not
// safe for concurrent use without external serialization (see spec §5).
type Dictionary struct {
	mu      sync.Mutex
	entries map[string]*String
}

// New returns an empty Dictionary.
func New() *Dictionary {
	return &Dictionary{entries: make(map[string]*String)}
}

// Insert returns the canonical *String for s, incrementing its refcount.
// The copy is allocated only on first occurrence.
func (d *Dictionary) Insert(s string) *String {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.entries == nil {
		d.entries = make(map[string]*String)
	}
	if cs, ok := d.entries[s]; ok {
		cs.ref++
		return cs
	}
	cs := &String{s: s, ref: 1}
	d.entries[s] = cs
	return cs
}

// InsertBytes is Insert for a byte slice, avoiding an allocation on a
// repeat occurrence.
func (d *Dictionary) InsertBytes(b []byte) *String {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.entries == nil {
		d.entries = make(map[string]*String)
	}
	// A map lookup by string(b) does not allocate a copy of b in the
	// common (miss-free) case; see the compiler's mapaccess optimization
	// for []byte-keyed-by-string-conversion lookups.
	if cs, ok := d.entries[string(b)]; ok {
		cs.ref++
		return cs
	}
	cs := &String{s: string(b), ref: 1}
	d.entries[cs.s] = cs
	return cs
}

// Remove decrements s's refcount, freeing the entry once it reaches zero.
// Remove is a no-op on a nil String.
func (d *Dictionary) Remove(s *String) {
	if s == nil {
		return
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	s.ref--
	if s.ref <= 0 {
		delete(d.entries, s.s)
	}
}

// RefCount reports s's current reference count, or 0 for nil.  It exists
// for tests and invariant checks (spec §8: "dictionary refcount(s) >=
// uses of s").
func (s *String) RefCount() int {
	if s == nil {
		return 0
	}
	return s.ref
}

// Len reports the number of distinct strings currently interned.
func (d *Dictionary) Len() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.entries)
}

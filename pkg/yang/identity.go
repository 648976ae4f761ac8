// Copyright 2016 Google Inc.
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

// Identity is a single "identity" statement.  Base and Derived form a
// bidirectional, acyclic graph: Base is the non-owning back-reference to
// the identity this one derives from (nil for a root identity), and
// Derived lists every identity that derives from this one, directly or
// transitively, kept in sync by bindIdentityBase so that subtree lookups
// are O(depth) rather than a full scan (spec §3.2, §4.6).
type Identity struct {
	Module      *Module
	Name        *dict.String
	Base        *Identity
	Derived     []*Identity
	Status      Status
	Description *dict.String
	Reference   *dict.String
}

// PrefixedName returns "prefix:name" using i's own module's prefix.
func (i *Identity) PrefixedName() string {
	return i.Module.Prefix.Value() + ":" + i.Name.Value()
}

// bindIdentityBase links child to base, appending child to base.Derived
// and walking upward so every transitive ancestor also lists child and
// every identity already derived from child (bound earlier through a
// forward reference), exactly as spec §4.6 requires ("this is
// load-bearing for identity-subtree queries").
func bindIdentityBase(child, base *Identity) {
	child.Base = base
	for b := base; b != nil; b = b.Base {
		b.Derived = appendIfAbsent(b.Derived, child)
		for _, d := range child.Derived {
			b.Derived = appendIfAbsent(b.Derived, d)
		}
	}
}

func appendIfAbsent(ids []*Identity, chk *Identity) []*Identity {
	for _, id := range ids {
		if id == chk {
			return ids
		}
	}
	return append(ids, chk)
}

// isDescendant reports whether chk appears anywhere in base's transitive
// Derived set, used to reject a cyclic base assignment before it is
// made (spec §8: "the derivation graph is acyclic").
func isDescendant(base, chk *Identity) bool {
	for _, d := range base.Derived {
		if d == chk {
			return true
		}
	}
	return false
}

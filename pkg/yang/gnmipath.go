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
	gnmipb "github.com/openconfig/gnmi/proto/gnmi"
)

// GNMIPath converts n's ancestor chain into a gnmipb.Path: one PathElem
// per schema node from the top-level data root down to n, inclusive.
// A list node contributes its key leaves' names as the PathElem's Key
// map, each with the wildcard value "*" since a schema node carries no
// instance data.  PathElem names are the nodes' local names, with no
// module prefix.  This is the natural companion operation for a YANG schema
// library feeding a gNMI/OpenConfig-speaking device.
func GNMIPath(n *Node) *gnmipb.Path {
	var chain []*Node
	for cur := n; cur != nil; cur = cur.Parent {
		chain = append(chain, cur)
	}
	// chain is root-to-leaf reversed; walk it backwards.
	elems := make([]*gnmipb.PathElem, 0, len(chain))
	for i := len(chain) - 1; i >= 0; i-- {
		elems = append(elems, pathElem(chain[i]))
	}
	return &gnmipb.Path{Elem: elems}
}

func pathElem(n *Node) *gnmipb.PathElem {
	pe := &gnmipb.PathElem{Name: n.Name.Value()}
	if n.Kind == KindList && len(n.Keys) > 0 {
		pe.Key = make(map[string]string, len(n.Keys))
		for _, k := range n.Keys {
			pe.Key[k.Name.Value()] = "*"
		}
	}
	return pe
}

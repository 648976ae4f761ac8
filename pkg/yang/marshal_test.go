// Copyright 2017 Google Inc.
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
	"encoding/json"
	"testing"

	"github.com/kylelemons/godebug/pretty"

	"github.com/RoyWorkerLuo/libyang/pkg/dict"
)

// TestMarshalType exercises JSON marshaling of a compiled Type, the way
// a caller dumping a schema for external inspection would, with
// pretty.Compare rendering a readable diff on mismatch instead of a raw
// string comparison.
func TestMarshalType(t *testing.T) {
	d := dict.New()
	tests := []struct {
		name string
		in   *Type
		want string
	}{{
		name: "bare string type",
		in:   &Type{Kind: KindString, Name: d.Insert("string")},
		want: `{
  "Kind": 14,
  "Name": "string"
}`,
	}, {
		name: "enumeration with auto-assigned values",
		in: &Type{
			Kind: KindEnumeration,
			Name: d.Insert("enumeration"),
			Enums: []*EnumValue{
				{Name: d.Insert("a"), Value: 0},
				{Name: d.Insert("b"), Value: 5},
			},
		},
		want: `{
  "Kind": 6,
  "Name": "enumeration",
  "Enums": [
    {
      "Name": "a",
      "Value": 0
    },
    {
      "Name": "b",
      "Value": 5
    }
  ]
}`,
	}}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := json.MarshalIndent(tt.in, "", "  ")
			if err != nil {
				t.Fatalf("MarshalIndent: %v", err)
			}
			if diff := pretty.Compare(string(got), tt.want); diff != "" {
				t.Errorf("Type JSON mismatch (-got +want):\n%s", diff)
			}
		})
	}
}

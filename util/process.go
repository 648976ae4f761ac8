// Copyright 2020 Google Inc.
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

// Package util provides a bulk-load helper sitting just outside the
// core (spec §1): callers that just want a set of YIN files turned into
// a populated yang.Context, without driving the three-pass compiler or
// search directory setup themselves, can call ProcessFiles once.
package util

import (
	"fmt"
	"os"

	"github.com/RoyWorkerLuo/libyang/pkg/xmltree"
	"github.com/RoyWorkerLuo/libyang/pkg/yang"
)

// ProcessFiles reads each named YIN file, registers it into a fresh
// Context whose search directory is path, and returns the resulting
// Context along with a map from each registered module's declared name
// to that module.  An error naming the first failure is
// returned if any file fails to parse or register.
func ProcessFiles(yangf []string, path string) (*yang.Context, map[string]*yang.Module, error) {
	ctx := yang.NewContext()
	ctx.SetSearchDirectory(path)

	mods := make(map[string]*yang.Module)
	for _, name := range yangf {
		data, err := os.ReadFile(name)
		if err != nil {
			return nil, nil, fmt.Errorf("%s: %w", name, err)
		}
		root, err := xmltree.Parse(data, ctx.Sink, ctx.Dict)
		if err != nil {
			return nil, nil, fmt.Errorf("%s: %w", name, err)
		}
		mod, err := ctx.RegisterModule(root)
		if err != nil {
			return nil, nil, fmt.Errorf("%s: %w", name, err)
		}
		mods[mod.Name.Value()] = mod
	}
	return ctx, mods, nil
}

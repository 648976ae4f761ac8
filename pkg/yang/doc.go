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

// Package yang implements the YANG schema model and the YIN (XML
// serialization of YANG) schema compiler: a Context loads modules by
// reading a YIN document into a *xmltree.Element tree (pkg/xmltree) and
// compiling it into a cross-linked schema tree of typedefs, identities
// and data-definition nodes.
//
// Only the YIN encoding is accepted; this package does not parse the
// compact YANG grammar.
package yang

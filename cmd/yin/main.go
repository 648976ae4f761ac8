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

// Command yin is a small interactive shell over a single yang.Context,
// covering the command surface enumerated in spec §6: add, print, list,
// searchpath, feature, verb, clear, quit/exit and help.  It is a thin
// wrapper over pkg/yang; the line editor, completion, and the data,
// filter and xpath commands' actual bodies are external collaborators
// out of this module's core scope (spec §1) and are stubbed here with a
// diagnostic.
package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/pborman/getopt"

	"github.com/RoyWorkerLuo/libyang/pkg/diag"
	"github.com/RoyWorkerLuo/libyang/pkg/xmltree"
	"github.com/RoyWorkerLuo/libyang/pkg/yang"
)

func main() {
	ctx := yang.NewContext()
	sc := bufio.NewScanner(os.Stdin)
	fmt.Print("> ")
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line != "" {
			if exit := dispatch(ctx, line); exit {
				return
			}
		}
		fmt.Print("> ")
	}
}

// dispatch parses and runs a single REPL line, reporting exit == true
// for "quit"/"exit".
func dispatch(ctx *yang.Context, line string) (exit bool) {
	fields := strings.Fields(line)
	cmd, args := fields[0], fields[1:]

	switch cmd {
	case "quit", "exit":
		return true
	case "help", "?":
		printHelp()
	case "add":
		cmdAdd(ctx, args)
	case "print":
		cmdPrint(ctx, args)
	case "list":
		cmdList(ctx)
	case "searchpath":
		cmdSearchpath(ctx, args)
	case "feature":
		cmdFeature(ctx, args)
	case "verb":
		cmdVerb(ctx, args)
	case "clear":
		*ctx = *yang.NewContext()
	case "data", "config", "filter":
		fmt.Fprintln(os.Stderr, "not implemented in this build: data-instance parsing is an external collaborator (spec §1)")
	case "xpath":
		fmt.Fprintln(os.Stderr, "not implemented in this build: the XPath evaluator is an external collaborator (spec §1)")
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q; try \"help\"\n", cmd)
	}
	return false
}

func printHelp() {
	fmt.Println(`commands:
  add <path>+                 parse and register the named YIN file(s)
  print [-f yang|tree|info] [-t target] [-o out] <model>[@rev]
  list                         list loaded module names
  searchpath <dir>             set the module auto-load search directory
  feature [-e|-d name,...] <model>[@rev]
  verb (error|warning|verbose|debug|0|1|2|3)
  clear                        discard all loaded modules
  quit | exit
  help | ?`)
}

func cmdAdd(ctx *yang.Context, args []string) {
	for _, path := range args {
		data, err := os.ReadFile(path)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			continue
		}
		root, err := xmltree.Parse(data, ctx.Sink, ctx.Dict)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			continue
		}
		if _, err := ctx.RegisterModule(root); err != nil {
			fmt.Fprintln(os.Stderr, err)
		}
	}
}

func cmdPrint(ctx *yang.Context, args []string) {
	set := getopt.New()
	format := set.StringLong("format", 'f', "tree", "output format: yang, tree, info")
	target := set.StringLong("target", 't', "", "target node path")
	out := set.StringLong("output", 'o', "", "output file (default stdout)")
	if err := set.Getopt(args, nil); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return
	}
	rest := set.Args()
	if len(rest) == 0 {
		fmt.Fprintln(os.Stderr, "print: missing <model>[@rev]")
		return
	}
	name, rev := splitModelRev(rest[0])

	w := os.Stdout
	if *out != "" {
		f, err := os.Create(*out)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return
		}
		defer f.Close()
		w = f
	}

	switch *format {
	case "info":
		xmltree.Dump(w, ctx.Info(), xmltree.DumpOptions{Formatted: true})
	case "tree":
		mod, ok := ctx.LookupModule(name, rev)
		if !ok {
			fmt.Fprintf(os.Stderr, "print: module %q not loaded\n", name)
			return
		}
		printTree(w, mod, *target)
	case "yang":
		fmt.Fprintln(os.Stderr, "not implemented in this build: compact-syntax printing is an external collaborator (spec §1)")
	default:
		fmt.Fprintf(os.Stderr, "print: unknown format %q\n", *format)
	}
}

func splitModelRev(s string) (name, rev string) {
	if i := strings.IndexByte(s, '@'); i >= 0 {
		return s[:i], s[i+1:]
	}
	return s, ""
}

func printTree(w *os.File, mod *yang.Module, target string) {
	fmt.Fprintf(w, "module: %s\n", mod.Name.Value())
	printTreeNodes(w, mod.Data, "  ", target)
}

func printTreeNodes(w *os.File, n *yang.Node, indent string, target string) {
	for cur := n; cur != nil; cur = cur.Next {
		if target != "" && cur.Name.Value() != target {
			printTreeNodes(w, cur.FirstChild, indent, target)
			continue
		}
		cfg := "rw"
		if cur.EffectiveConfig() == yang.ConfigRead {
			cfg = "ro"
		}
		fmt.Fprintf(w, "%s%s %s\n", indent, cfg, cur.Name.Value())
		printTreeNodes(w, cur.FirstChild, indent+"  ", "")
	}
}

func cmdList(ctx *yang.Context) {
	for _, name := range ctx.ListModuleNames() {
		fmt.Println(name)
	}
}

func cmdSearchpath(ctx *yang.Context, args []string) {
	if len(args) == 0 {
		fmt.Println(ctx.SearchDirectory())
		return
	}
	ctx.SetSearchDirectory(args[0])
}

func cmdFeature(ctx *yang.Context, args []string) {
	set := getopt.New()
	enable := set.StringLong("enable", 'e', "", "comma separated list of features to enable")
	disable := set.StringLong("disable", 'd', "", "comma separated list of features to disable")
	if err := set.Getopt(args, nil); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return
	}
	rest := set.Args()
	if len(rest) == 0 {
		fmt.Fprintln(os.Stderr, "feature: missing <model>[@rev]")
		return
	}
	name, rev := splitModelRev(rest[0])
	mod, ok := ctx.LookupModule(name, rev)
	if !ok {
		fmt.Fprintf(os.Stderr, "feature: module %q not loaded\n", name)
		return
	}
	setFeatureState(mod, *enable, true)
	setFeatureState(mod, *disable, false)
	if *enable == "" && *disable == "" {
		for _, f := range mod.Features {
			state := "off"
			if f.Enabled {
				state = "on"
			}
			fmt.Printf("%s\t%s\n", f.Name.Value(), state)
		}
	}
}

func setFeatureState(mod *yang.Module, list string, enabled bool) {
	if list == "" {
		return
	}
	for _, name := range strings.Split(list, ",") {
		for _, f := range mod.Features {
			if f.Name.Value() == name {
				f.Enabled = enabled
			}
		}
	}
}

func cmdVerb(ctx *yang.Context, args []string) {
	if len(args) == 0 {
		fmt.Println(ctx.Sink.Threshold)
		return
	}
	lvl, ok := diag.ParseLevel(args[0])
	if !ok {
		fmt.Fprintf(os.Stderr, "verb: unknown level %q\n", args[0])
		return
	}
	ctx.Sink.Threshold = lvl
}

// Package main runs Lua scripts against a sectioned collection. Every event
// the script's mutations produce is printed to stdout, which makes it a
// quick harness for exploring how batches coalesce into change-sets.
package main

import (
	"flag"
	"fmt"
	"os"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/sectionlist/internal/engine/diff"
	"github.com/dshills/sectionlist/internal/engine/list"
	"github.com/dshills/sectionlist/internal/event"
	"github.com/dshills/sectionlist/internal/scenario"
)

func main() {
	os.Exit(run())
}

func run() int {
	var seedPath string
	flag.StringVar(&seedPath, "scenario", "", "Scenario file providing the initial sections")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: sectionscript [options] script.lua\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		return 2
	}

	l, err := buildList(seedPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	if _, err := l.Events().Subscribe(event.HandlerFunc(printEvent)); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	L := lua.NewState()
	defer L.Close()
	registerList(L, l)

	if err := L.DoFile(flag.Arg(0)); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func buildList(seedPath string) (*list.List[string], error) {
	if seedPath == "" {
		return list.New[string](list.WithSectionCount(1), list.WithSource("script")), nil
	}
	scn, err := scenario.Load(seedPath)
	if err != nil {
		return nil, err
	}
	return scn.Build(list.WithSource("script")), nil
}

func printEvent(ev event.Event) {
	switch ev.Kind {
	case event.KindReloaded:
		fmt.Printf("[%d] reloaded\n", ev.Metadata.Seq)
	case event.KindUpdated:
		fmt.Printf("[%d] %v\n", ev.Metadata.Seq, ev.Changes)
	}
}

// registerList exposes the collection as a Lua module named "list".
func registerList(L *lua.LState, l *list.List[string]) {
	mod := L.NewTable()

	L.SetFuncs(mod, map[string]lua.LGFunction{
		"insert": func(L *lua.LState) int {
			at := coord(L, 1)
			value := L.CheckString(3)
			protect(L, func() { l.Insert(value, at) })
			return 0
		},
		"remove": func(L *lua.LState) int {
			at := coord(L, 1)
			protect(L, func() { l.Remove(at) })
			return 0
		},
		"replace": func(L *lua.LState) int {
			at := coord(L, 1)
			value := L.CheckString(3)
			protect(L, func() { l.Replace(at, value) })
			return 0
		},
		"move": func(L *lua.LState) int {
			from := coord(L, 1)
			to := coord(L, 3)
			protect(L, func() { l.Move(from, to) })
			return 0
		},
		"insert_section": func(L *lua.LState) int {
			index := L.CheckInt(1)
			label := L.OptString(2, "")
			protect(L, func() { l.InsertSection(index, label) })
			return 0
		},
		"remove_section": func(L *lua.LState) int {
			index := L.CheckInt(1)
			protect(L, func() { l.RemoveSection(index) })
			return 0
		},
		"batch": func(L *lua.LState) int {
			fn := L.CheckFunction(1)
			protect(L, func() {
				l.Batch(func() {
					if err := L.CallByParam(lua.P{Fn: fn, NRet: 0, Protect: false}); err != nil {
						panic(err)
					}
				})
			})
			return 0
		},
		"reset": func(L *lua.LState) int {
			protect(L, func() { l.Reset(nil) })
			return 0
		},
		"sections": func(L *lua.LState) int {
			L.Push(lua.LNumber(l.SectionCount()))
			return 1
		},
		"count": func(L *lua.LState) int {
			section := L.CheckInt(1)
			var n int
			protect(L, func() { n = l.RowCount(section) })
			L.Push(lua.LNumber(n))
			return 1
		},
		"element": func(L *lua.LState) int {
			at := coord(L, 1)
			var v string
			protect(L, func() { v = l.ElementAt(at) })
			L.Push(lua.LString(v))
			return 1
		},
		"label": func(L *lua.LState) int {
			section := L.CheckInt(1)
			label, ok := l.SectionLabel(section)
			L.Push(lua.LString(label))
			L.Push(lua.LBool(ok))
			return 2
		},
		"rows": func(L *lua.LState) int {
			section := L.CheckInt(1)
			var rows []string
			protect(L, func() { rows = l.SectionRows(section) })
			t := L.NewTable()
			for i, v := range rows {
				t.RawSetInt(i+1, lua.LString(v))
			}
			L.Push(t)
			return 1
		},
		"dump": func(L *lua.LState) int {
			for s := 0; s < l.SectionCount(); s++ {
				label, _ := l.SectionLabel(s)
				fmt.Printf("section %d %q: %v\n", s, label, l.SectionRows(s))
			}
			return 0
		},
	})

	L.SetGlobal("list", mod)
}

// coord reads a (section, row) argument pair starting at idx.
func coord(L *lua.LState, idx int) diff.Coordinate {
	return diff.Coordinate{Section: L.CheckInt(idx), Row: L.CheckInt(idx + 1)}
}

// protect converts a coordinate violation panic into a Lua error so scripts
// fail with a traceback instead of crashing the process.
func protect(L *lua.LState, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			L.RaiseError("%v", r)
		}
	}()
	fn()
}

package loader

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/mveld/grimvale/catalog"
	lua "github.com/yuin/gopher-lua"
)

// collector accumulates Lua definitions during file execution.
type collector struct {
	game *lua.LTable
	defs []rawDef
}

// Load reads all .lua files from dir, compiles them into the template
// catalog, and validates references. Malformed or missing files degrade
// to warnings and an empty catalog for whatever failed to load; Load
// never fails on content. The Lua VM is discarded after loading.
func Load(dir string) (*catalog.Catalog, []string) {
	var warnings []string

	entries, err := os.ReadDir(dir)
	if err != nil {
		warnings = append(warnings, fmt.Sprintf("reading data directory %s: %v", dir, err))
		return catalog.New(), warnings
	}

	var luaFiles []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".lua") {
			luaFiles = append(luaFiles, e.Name())
		}
	}
	if len(luaFiles) == 0 {
		warnings = append(warnings, fmt.Sprintf("no .lua files found in %s", dir))
		return catalog.New(), warnings
	}

	luaFiles = sortedLuaFiles(luaFiles)

	// Sandboxed VM: safe libs only, no file or clock access.
	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	defer L.Close()
	openSafeLibs(L)
	sandbox(L)

	coll := &collector{}
	registerAPI(L, coll)

	for _, f := range luaFiles {
		path := filepath.Join(dir, f)
		if err := L.DoFile(path); err != nil {
			// A broken file loses its own definitions only.
			warnings = append(warnings, fmt.Sprintf("executing %s: %v", f, err))
		}
	}

	cat := compile(coll)
	warnings = append(warnings, validate(cat)...)
	return cat, warnings
}

// openSafeLibs opens only the safe subset of Lua standard libraries.
func openSafeLibs(L *lua.LState) {
	lua.OpenBase(L)
	lua.OpenTable(L)
	lua.OpenString(L)
	lua.OpenMath(L)
}

// sandbox removes dangerous globals and functions.
func sandbox(L *lua.LState) {
	dangerous := []string{
		"dofile", "loadfile", "load", "loadstring",
		"rawset", "rawget", "rawequal",
		"collectgarbage",
	}
	for _, name := range dangerous {
		L.SetGlobal(name, lua.LNil)
	}

	// Remove math.randomseed to preserve determinism.
	if mathTbl := L.GetGlobal("math"); mathTbl != lua.LNil {
		if tbl, ok := mathTbl.(*lua.LTable); ok {
			tbl.RawSetString("randomseed", lua.LNil)
		}
	}
}

// sortedLuaFiles returns .lua files with game.lua first and the rest
// sorted alphabetically.
func sortedLuaFiles(files []string) []string {
	var gameFile string
	var others []string
	for _, f := range files {
		if f == "game.lua" {
			gameFile = f
		} else {
			others = append(others, f)
		}
	}
	sort.Strings(others)
	if gameFile != "" {
		return append([]string{gameFile}, others...)
	}
	return others
}

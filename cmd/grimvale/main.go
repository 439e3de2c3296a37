// Grimvale is a deterministic, data-driven simulation core for turn-based
// text RPGs.
// Usage: grimvale [--version] [--plain] [--script <file>] [--trace]
//
//	[--check] [--seed <n>] [--name <player>] [--saves <dir>] <game_directory>
package main

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/mveld/grimvale/cli"
	"github.com/mveld/grimvale/engine"
	"github.com/mveld/grimvale/loader"
	"github.com/mveld/grimvale/tui"
)

// Set via -ldflags at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func usage() {
	fmt.Fprintf(os.Stderr, "Usage: grimvale [--version] [--plain] [--script <file>] [--trace] [--check] [--seed <n>] [--name <player>] [--saves <dir>] <game_directory>\n")
	os.Exit(1)
}

func main() {
	plain := false
	trace := false
	check := false
	seed := time.Now().UnixNano()
	playerName := "Adventurer"
	var gameDir string
	var scriptFile string
	var saveDir string

	args := os.Args[1:]
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "--version":
			fmt.Printf("grimvale %s (commit %s, built %s)\n", version, commit, date)
			return
		case "--plain":
			plain = true
		case "--trace":
			trace = true
		case "--check":
			check = true
		case "--script":
			if i+1 >= len(args) {
				fmt.Fprintf(os.Stderr, "--script requires a file path\n")
				os.Exit(1)
			}
			i++
			scriptFile = args[i]
		case "--seed":
			if i+1 >= len(args) {
				fmt.Fprintf(os.Stderr, "--seed requires a number\n")
				os.Exit(1)
			}
			i++
			n, err := strconv.ParseInt(args[i], 10, 64)
			if err != nil {
				fmt.Fprintf(os.Stderr, "--seed requires a number: %v\n", err)
				os.Exit(1)
			}
			seed = n
		case "--name":
			if i+1 >= len(args) {
				fmt.Fprintf(os.Stderr, "--name requires a value\n")
				os.Exit(1)
			}
			i++
			playerName = args[i]
		case "--saves":
			if i+1 >= len(args) {
				fmt.Fprintf(os.Stderr, "--saves requires a directory\n")
				os.Exit(1)
			}
			i++
			saveDir = args[i]
		default:
			if gameDir == "" {
				gameDir = args[i]
			}
		}
	}

	if gameDir == "" {
		usage()
	}

	// Strict authoring check: report every catalog problem and exit.
	if check {
		if verr := loader.Check(gameDir); verr != nil {
			fmt.Fprintln(os.Stderr, verr.Error())
			os.Exit(1)
		}
		fmt.Println("Catalog OK.")
		return
	}

	// Load and compile Lua game content. Content problems degrade to
	// warnings; play proceeds with whatever compiled.
	cat, warnings := loader.Load(gameDir)
	for _, w := range warnings {
		fmt.Fprintf(os.Stderr, "warning: %s\n", w)
	}

	eng := engine.New(cat, playerName, seed)

	// Script mode: open file, force plain, echo commands.
	if scriptFile != "" {
		f, err := os.Open(scriptFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error opening script: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		printBanner(cat.Game.Title, cat.Game.Version, cat.Game.Author)
		c := cli.New(eng)
		c.In = f
		c.EchoInput = true
		c.Trace = trace
		if saveDir != "" {
			c.SaveDir = saveDir
		}
		c.Run()
		return
	}

	// Use plain CLI if --plain flag or stdout is not a terminal.
	if plain || !isTerminal() {
		printBanner(cat.Game.Title, cat.Game.Version, cat.Game.Author)
		c := cli.New(eng)
		c.Trace = trace
		if saveDir != "" {
			c.SaveDir = saveDir
		}
		c.Run()
		return
	}

	if err := tui.Run(eng, saveDir); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printBanner(title, version, author string) {
	fmt.Printf("%s v%s by %s\n\n", title, version, author)
}

// isTerminal returns true if stdout is a terminal (not piped/redirected).
func isTerminal() bool {
	fi, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}

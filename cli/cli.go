// Package cli provides terminal I/O, output formatting, and meta-command
// dispatch for the Grimvale simulation core.
package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/mveld/grimvale/engine"
	"github.com/mveld/grimvale/engine/save"
	"github.com/mveld/grimvale/types"
)

// CLI handles terminal interaction with the player.
type CLI struct {
	Engine    *engine.Engine
	In        io.Reader
	Out       io.Writer
	SaveDir   string
	Trace     bool
	EchoInput bool   // echo each input line after the prompt (for script playback)
	lastCmd   string // for "again"/"g" repeat
}

// New creates a CLI wired to the given engine.
func New(eng *engine.Engine) *CLI {
	home, _ := os.UserHomeDir()
	saveDir := filepath.Join(home, ".grimvale", "saves")
	return &CLI{
		Engine:  eng,
		In:      os.Stdin,
		Out:     os.Stdout,
		SaveDir: saveDir,
	}
}

// Run starts the game loop. It shows the intro, describes the starting
// location, then loops: prompt → input → dispatch → output.
func (c *CLI) Run() {
	c.printResult(c.Engine.Intro())

	scanner := bufio.NewScanner(c.In)
	for {
		c.print(c.prompt())
		if !scanner.Scan() {
			break
		}
		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}
		// Skip comment lines (for script files).
		if strings.HasPrefix(input, "#") {
			continue
		}
		if c.EchoInput {
			c.printLine(input)
		}

		// Meta-commands start with '/'.
		if strings.HasPrefix(input, "/") {
			if c.handleMeta(input) {
				return // /quit
			}
			continue
		}

		// "again" / "g" repeats the last game command.
		lower := strings.ToLower(input)
		if lower == "again" || lower == "g" {
			if c.lastCmd == "" {
				c.printLine("Nothing to repeat.")
				continue
			}
			input = c.lastCmd
		} else {
			c.lastCmd = input
		}

		result := c.Engine.Step(input)
		c.printResult(result)

		if c.Trace {
			c.printTrace(result)
		}
	}
}

// prompt shows vitals so the player always sees their condition.
func (c *CLI) prompt() string {
	p := c.Engine.Player
	if c.Engine.InCombat() {
		return fmt.Sprintf("[hp %d/%d mp %d/%d] ! ", p.HP, p.MaxHP, p.MP, p.MaxMP)
	}
	return fmt.Sprintf("[hp %d/%d mp %d/%d] > ", p.HP, p.MaxHP, p.MP, p.MaxMP)
}

// handleMeta dispatches meta-commands. Returns true if the game should exit.
func (c *CLI) handleMeta(input string) bool {
	parts := strings.Fields(input)
	cmd := parts[0]
	var arg string
	if len(parts) > 1 {
		arg = parts[1]
	}

	switch cmd {
	case "/quit", "/exit":
		c.printSystem("Goodbye.")
		return true

	case "/save":
		c.cmdSave(arg)

	case "/load":
		c.cmdLoad(arg)

	case "/saves":
		c.cmdSaves()

	case "/help":
		c.cmdHelp()

	case "/state":
		c.cmdState()

	case "/trace":
		c.Trace = !c.Trace
		if c.Trace {
			c.printSystem("Trace output enabled.")
		} else {
			c.printSystem("Trace output disabled.")
		}

	default:
		c.printSystem(fmt.Sprintf("Unknown command: %s. Type /help for available commands.", cmd))
	}

	return false
}

func (c *CLI) slot(arg string) int {
	if arg == "" {
		return 1
	}
	n, err := strconv.Atoi(arg)
	if err != nil || n < 1 {
		return 1
	}
	return n
}

func (c *CLI) cmdSave(arg string) {
	slot := c.slot(arg)
	if err := c.Engine.SaveSlot(c.SaveDir, slot); err != nil {
		c.printSystem(fmt.Sprintf("Save failed: %v", err))
		return
	}
	c.printSystem(fmt.Sprintf("Game saved to slot %d.", slot))
}

func (c *CLI) cmdLoad(arg string) {
	slot := c.slot(arg)
	if err := c.Engine.LoadSlot(c.SaveDir, slot); err != nil {
		c.printSystem(fmt.Sprintf("Load failed: %v", err))
		return
	}
	c.printSystem(fmt.Sprintf("Game loaded from slot %d.", slot))

	// Show current location after loading.
	result := c.Engine.Step("look")
	c.printResult(result)
}

func (c *CLI) cmdSaves() {
	infos := save.ListSlots(c.SaveDir, 9)
	if len(infos) == 0 {
		c.printSystem("No saves yet.")
		return
	}
	for _, info := range infos {
		c.printSystem(fmt.Sprintf("Slot %d: %s (level %d, day %d, saved %s)",
			info.Slot, info.Name, info.Level, info.Day, info.SavedAt.Format("2006-01-02 15:04")))
	}
}

func (c *CLI) cmdHelp() {
	help := []string{
		"System:",
		"  /save [slot]  — Save game (default: slot 1)",
		"  /load [slot]  — Load game (default: slot 1)",
		"  /saves        — List save slots",
		"  /quit         — Exit game",
		"  /help         — Show this help",
		"  /state        — Debug: dump current state",
		"  /trace        — Toggle debug trace output",
		"",
		"World commands:",
		"  look (l)              — Describe the location",
		"  go/walk <dir>         — Move (or just type n/s/e/w/u/d)",
		"  examine <thing> (x)   — Look closely at something",
		"  talk/speak <npc>      — Talk to someone",
		"  accept <quest>        — Accept an offered quest",
		"  quests                — Show your quest journal",
		"  shop / buy <n> / sell <item>",
		"  use <item>            — Drink or apply an item",
		"  equip / unequip       — Manage equipment",
		"  inventory (i)         — Check what you're carrying",
		"  status / skills / titles / achievements",
		"  attack <enemy>        — Start a fight",
		"  rest                  — Camp until the next watch",
		"  wait (z)              — Let time pass",
		"  again (g)             — Repeat your last command",
		"",
		"Battle commands:",
		"  attack, skill <name>, use <item>, defend, analyze, flee",
	}
	for _, line := range help {
		c.printLine(line)
	}
}

func (c *CLI) cmdState() {
	eng := c.Engine
	c.printSystem(fmt.Sprintf("Location: %s", eng.World.Location))
	c.printSystem(fmt.Sprintf("Day %d, %s (elapsed %ds)", eng.World.Day(), eng.World.Period(), eng.World.Elapsed))
	c.printSystem(fmt.Sprintf("Level %d, xp %d, gold %d", eng.Player.Level, eng.Player.XP, eng.Player.Gold))
	c.printSystem(fmt.Sprintf("Inventory: %v", eng.Player.Inventory))
	c.printSystem(fmt.Sprintf("Difficulty modifier: %.1f", eng.Adaptive.Modifier))
	c.printSystem(fmt.Sprintf("Playstyle: %s", eng.Adaptive.Playstyle()))
	if names := eng.World.EventNames(); len(names) > 0 {
		c.printSystem(fmt.Sprintf("Events: %v", names))
	}
	c.printSystem(fmt.Sprintf("RNG: seed=%d pos=%d", eng.RNG.Seed(), eng.RNG.Position()))
}

func (c *CLI) printTrace(result *types.Result) {
	if len(result.Events) > 0 {
		c.printSystem(fmt.Sprintf("[trace] Events: %d", len(result.Events)))
		for _, e := range result.Events {
			c.printSystem(fmt.Sprintf("[trace]   %s %v", e.Type, e.Data))
		}
	}
}

func (c *CLI) printResult(result *types.Result) {
	for _, line := range result.Output {
		c.printLine(line)
	}
}

func (c *CLI) printLine(text string) {
	fmt.Fprintln(c.Out, text)
}

func (c *CLI) print(text string) {
	fmt.Fprint(c.Out, text)
}

func (c *CLI) printSystem(text string) {
	fmt.Fprintf(c.Out, "[%s]\n", text)
}

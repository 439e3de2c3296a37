package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mveld/grimvale/catalog"
	"github.com/mveld/grimvale/engine"
	"github.com/mveld/grimvale/types"
)

func testCatalog() *catalog.Catalog {
	cat := catalog.New()
	cat.Game = catalog.GameDef{
		Title: "Test", Version: "1.0.0", Intro: "Welcome to the valley.",
		Start: "village", StartClass: "squire",
	}
	cat.Classes["squire"] = catalog.ClassDef{
		ID: "squire", Name: "Squire", HP: 40, MP: 20,
		Stats: types.Stats{"attack": 10, "defense": 2},
	}
	cat.Locations["village"] = catalog.LocationDef{
		ID: "village", Name: "Village", Description: "A quiet square.",
		Exits: map[string]string{"north": "meadow"},
	}
	cat.Locations["meadow"] = catalog.LocationDef{
		ID: "meadow", Name: "Meadow",
		Exits: map[string]string{"south": "village"},
	}
	cat.Achievements["first_steps"] = catalog.AchievementDef{
		ID: "first_steps", Name: "First Steps", Description: "Leave home.",
		Category: "explore", Goal: 1,
	}
	return cat
}

func newTestCLI(t *testing.T, input string) (*CLI, *bytes.Buffer) {
	t.Helper()
	eng := engine.New(testCatalog(), "Tav", 1)
	var out bytes.Buffer
	return &CLI{
		Engine:  eng,
		In:      strings.NewReader(input),
		Out:     &out,
		SaveDir: t.TempDir(),
	}, &out
}

func TestRun_IntroAndStart(t *testing.T) {
	c, out := newTestCLI(t, "/quit\n")
	c.Run()

	output := out.String()
	assert.Contains(t, output, "Welcome to the valley.")
	assert.Contains(t, output, "A quiet square.")
	assert.Contains(t, output, "[hp 40/40 mp 20/20] > ")
	assert.Contains(t, output, "[Goodbye.]")
}

func TestRun_EndsOnEOF(t *testing.T) {
	c, out := newTestCLI(t, "look\n")
	c.Run()

	assert.Contains(t, out.String(), "Village")
}

func TestRun_SkipsBlanksAndComments(t *testing.T) {
	c, out := newTestCLI(t, "\n# a script comment\nlook\n/quit\n")
	c.Run()

	output := out.String()
	assert.NotContains(t, output, "script comment")
	assert.NotContains(t, output, "I don't understand")
}

func TestRun_AgainRepeats(t *testing.T) {
	c, out := newTestCLI(t, "again\ngo north\ng\n/quit\n")
	c.Run()

	output := out.String()
	assert.Contains(t, output, "Nothing to repeat.")
	assert.Contains(t, output, "Meadow")
	assert.Contains(t, output, "You can't go north from here.", "the repeat replays the same command")
	assert.Equal(t, "meadow", c.Engine.World.Location)
}

func TestRun_EchoInput(t *testing.T) {
	c, out := newTestCLI(t, "look\n/quit\n")
	c.EchoInput = true
	c.Run()

	assert.Contains(t, out.String(), "look\n")
}

func TestMeta_SaveAndLoad(t *testing.T) {
	c, out := newTestCLI(t, "go north\n/save 2\ngo south\n/load 2\n/quit\n")
	c.Run()

	output := out.String()
	assert.Contains(t, output, "[Game saved to slot 2.]")
	assert.Contains(t, output, "[Game loaded from slot 2.]")
	assert.Equal(t, "meadow", c.Engine.World.Location)
}

func TestMeta_Saves(t *testing.T) {
	c, out := newTestCLI(t, "/saves\n/save\n/saves\n/quit\n")
	c.Run()

	output := out.String()
	assert.Contains(t, output, "[No saves yet.]")
	assert.Contains(t, output, "Slot 1: Tav (level 1, day 1")
}

func TestMeta_LoadMissingSlot(t *testing.T) {
	c, out := newTestCLI(t, "/load 9\n/quit\n")
	c.Run()

	assert.Contains(t, out.String(), "Load failed:")
}

func TestMeta_StateAndHelp(t *testing.T) {
	c, out := newTestCLI(t, "/state\n/help\n/bogus\n/quit\n")
	c.Run()

	output := out.String()
	assert.Contains(t, output, "[Location: village]")
	assert.Contains(t, output, "RNG: seed=1 pos=")
	assert.Contains(t, output, "Battle commands:")
	assert.Contains(t, output, "Unknown command: /bogus.")
}

func TestMeta_TraceToggle(t *testing.T) {
	c, out := newTestCLI(t, "/trace\ngo north\n/trace\n/quit\n")
	c.Run()

	output := out.String()
	assert.Contains(t, output, "[Trace output enabled.]")
	assert.Contains(t, output, "[trace]")
	assert.Contains(t, output, "[Trace output disabled.]")
}

func TestSlotParsing(t *testing.T) {
	c, _ := newTestCLI(t, "")
	assert.Equal(t, 1, c.slot(""))
	assert.Equal(t, 1, c.slot("junk"))
	assert.Equal(t, 1, c.slot("-3"))
	assert.Equal(t, 4, c.slot("4"))
}

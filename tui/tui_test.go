package tui

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mveld/grimvale/catalog"
	"github.com/mveld/grimvale/engine"
	"github.com/mveld/grimvale/types"
)

func testEngine() *engine.Engine {
	cat := catalog.New()
	cat.Game = catalog.GameDef{Title: "Test", Start: "village", StartClass: "squire"}
	cat.Classes["squire"] = catalog.ClassDef{
		ID: "squire", Name: "Squire", HP: 30, MP: 10,
		Stats: types.Stats{"attack": 5, "defense": 1},
	}
	cat.Locations["village"] = catalog.LocationDef{ID: "village", Name: "Village"}
	return engine.New(cat, "Tav", 1)
}

func TestNewModel_SaveDir(t *testing.T) {
	eng := testEngine()

	m := newModel(eng, "")
	assert.Contains(t, m.saveDir, ".grimvale", "empty override keeps the home default")

	m = newModel(eng, "/tmp/slots")
	assert.Equal(t, "/tmp/slots", m.saveDir)
}

func TestHistory_Navigation(t *testing.T) {
	h := NewHistory(3)

	_, ok := h.Prev()
	require.False(t, ok, "empty history has nothing to walk")

	h.Push("look")
	h.Push("look") // consecutive duplicate
	h.Push("go north")
	h.Push("attack")
	h.Push("status") // evicts "look"

	got, _ := h.Prev()
	assert.Equal(t, "status", got)
	got, _ = h.Prev()
	assert.Equal(t, "attack", got)
	got, _ = h.Prev()
	assert.Equal(t, "go north", got)
	got, _ = h.Prev()
	assert.Equal(t, "go north", got, "the cursor stops at the oldest retained line")

	got, _ = h.Next()
	assert.Equal(t, "attack", got)
	got, _ = h.Next()
	assert.Equal(t, "status", got)
	_, ok = h.Next()
	assert.False(t, ok, "stepping past the newest line returns to fresh input")

	h.ResetCursor()
	got, _ = h.Prev()
	assert.Equal(t, "status", got)
}

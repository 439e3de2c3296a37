package save

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mveld/grimvale/catalog"
	"github.com/mveld/grimvale/engine/adaptive"
	"github.com/mveld/grimvale/engine/player"
	"github.com/mveld/grimvale/engine/progress"
	"github.com/mveld/grimvale/engine/rng"
	"github.com/mveld/grimvale/engine/world"
	"github.com/mveld/grimvale/types"
)

func testCatalog() *catalog.Catalog {
	cat := catalog.New()
	cat.Game = catalog.GameDef{Title: "Test", Start: "village", StartClass: "squire"}
	cat.Classes["squire"] = catalog.ClassDef{ID: "squire", HP: 30, MP: 10, Stats: types.Stats{"attack": 8}}
	cat.Locations["village"] = catalog.LocationDef{ID: "village", Name: "Village"}
	cat.Locations["woods"] = catalog.LocationDef{ID: "woods", Name: "Woods"}
	return cat
}

func testSession(cat *catalog.Catalog) (*player.Player, *world.World, *progress.Tracker, *adaptive.Engine, *rng.RNG) {
	class, _ := cat.Class("squire")
	p := player.New("Tav", class)
	r := rng.New(42)
	w := world.New(cat, r)
	return p, w, progress.New(cat), adaptive.New(), r
}

func TestRoundTrip(t *testing.T) {
	cat := testCatalog()
	p, w, tr, a, r := testSession(cat)

	p.Level = 3
	p.Gold = 120
	p.AddItem("iron_sword")
	p.AddTitle("wanderer")
	p.RecordKill("wolf")
	w.Enter("woods", p)
	w.Elapsed = 4200
	w.Fired["lament"] = true
	w.Secrets["pendant_cache"] = true
	w.Bosses["dire_alpha"] = true
	w.SynthesizeLocation("crypt", "woods")
	tr.Progress["wolfsbane"] = 2
	tr.Unlocked["first_blood"] = true
	a.Track("combat", "attack")
	a.RecordOutcome(true)
	r.Roll(20)
	r.Roll(20)

	data, err := Marshal(Snapshot("1.0.0", p, w, tr, a, r))
	require.NoError(t, err)

	loaded, err := Load(data)
	require.NoError(t, err)
	p2, w2, tr2, a2, r2 := Apply(loaded, cat)

	assert.Equal(t, "Tav", p2.Name)
	assert.Equal(t, 3, p2.Level)
	assert.Equal(t, 120, p2.Gold)
	assert.True(t, p2.HasItem("iron_sword"))
	assert.Equal(t, []string{"wanderer"}, p2.Titles)
	assert.Equal(t, 1, p2.Kills["wolf"])

	assert.Equal(t, "woods", w2.Location)
	assert.Equal(t, int64(4200), w2.Elapsed)
	assert.Equal(t, w.Day(), w2.Day())
	assert.True(t, w2.Visited["woods"])
	assert.True(t, w2.Fired["lament"])
	assert.True(t, w2.Secrets["pendant_cache"])
	assert.True(t, w2.Bosses["dire_alpha"])
	_, ok := w2.Loc("crypt")
	assert.True(t, ok, "synthesized locations survive the trip")

	assert.Equal(t, 2, tr2.Progress["wolfsbane"])
	assert.True(t, tr2.IsUnlocked("first_blood"))

	assert.InDelta(t, 1.1, a2.Modifier, 0.0001)
	require.Len(t, a2.Log, 1)
	assert.Equal(t, "combat", a2.Log[0].Kind)

	// The restored stream continues exactly where the original left off.
	assert.Equal(t, r.Position(), r2.Position())
	assert.Equal(t, r.Roll(100), r2.Roll(100))
	assert.Equal(t, r.Roll(100), r2.Roll(100))
}

func TestLoad_RejectsCorruptData(t *testing.T) {
	_, err := Load([]byte("not json{"))
	assert.Error(t, err)
}

func TestLoad_NormalizesEmptySnapshot(t *testing.T) {
	sd, err := Load([]byte(`{"version":"1.0.0"}`))
	require.NoError(t, err)

	assert.NotNil(t, sd.World.Visits)
	assert.NotNil(t, sd.World.Counts)
	assert.NotNil(t, sd.Achievements.Progress)
	assert.NotNil(t, sd.Player.Inventory)
	assert.NotNil(t, sd.Player.Skills)
}

func TestSlotPath(t *testing.T) {
	assert.Equal(t, filepath.Join("saves", "save_slot3.json"), SlotPath("saves", 3))
}

func TestSlots(t *testing.T) {
	cat := testCatalog()
	p, w, tr, a, r := testSession(cat)
	dir := filepath.Join(t.TempDir(), "saves")

	assert.Empty(t, ListSlots(dir, 9), "a missing directory lists nothing")

	data, err := Marshal(Snapshot("1.0.0", p, w, tr, a, r))
	require.NoError(t, err)
	require.NoError(t, WriteSlot(dir, 2, data))

	read, err := ReadSlot(dir, 2)
	require.NoError(t, err)
	assert.Equal(t, data, read)

	_, err = ReadSlot(dir, 5)
	assert.Error(t, err)

	infos := ListSlots(dir, 9)
	require.Len(t, infos, 1)
	assert.Equal(t, 2, infos[0].Slot)
	assert.Equal(t, "Tav", infos[0].Name)
	assert.Equal(t, 1, infos[0].Level)
	assert.Equal(t, 1, infos[0].Day)
}

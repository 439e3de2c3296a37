package engine

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mveld/grimvale/catalog"
	"github.com/mveld/grimvale/engine/combat"
	"github.com/mveld/grimvale/types"
)

func testCatalog() *catalog.Catalog {
	cat := catalog.New()
	cat.Game = catalog.GameDef{
		Title: "Test", Version: "1.0.0", Intro: "Night falls on the valley.",
		Start: "village", StartClass: "squire",
	}
	cat.Classes["squire"] = catalog.ClassDef{
		ID: "squire", Name: "Squire", HP: 40, MP: 20,
		Stats:  types.Stats{"attack": 10, "defense": 2, "luck": 0},
		Skills: []string{"quick_slash"},
	}
	cat.Skills["quick_slash"] = catalog.SkillDef{
		ID: "quick_slash", Name: "Quick Slash", Type: "damage", Power: 6, MPCost: 2, Growth: 1,
	}
	cat.Locations["village"] = catalog.LocationDef{
		ID: "village", Name: "Village",
		Exits: map[string]string{"north": "meadow"},
		Shops: []string{"mercers"},
	}
	cat.Locations["meadow"] = catalog.LocationDef{
		ID: "meadow", Name: "Meadow",
		Exits: map[string]string{"south": "village", "east": "wilds"},
	}
	cat.Locations["wilds"] = catalog.LocationDef{
		ID: "wilds", Name: "Wilds",
		Exits:   map[string]string{"west": "meadow"},
		Danger:  1,
		Enemies: []string{"wolf"},
	}
	cat.Shops["mercers"] = catalog.ShopDef{
		ID: "mercers", Name: "Mercer's Goods", Items: []string{"healing_draught"},
	}
	cat.Items["healing_draught"] = catalog.ItemDef{
		ID: "healing_draught", Name: "Healing Draught", Value: 20,
		Effect: map[string]int{"hp": 15},
	}
	cat.Items["wolf_pelt"] = catalog.ItemDef{ID: "wolf_pelt", Name: "Wolf Pelt", Value: 14}
	cat.Monsters["wolf"] = catalog.MonsterDef{
		ID: "wolf", Name: "Wolf", Level: 1, HP: 12, Attack: 4, Defense: 1,
		Loot: []catalog.LootEntry{{Item: "wolf_pelt", Chance: 100}},
	}
	cat.Quests["pelts"] = catalog.QuestDef{
		ID: "pelts", Name: "Pelts for the Tanner", Description: "Bring back a wolf pelt.",
		Objectives: []catalog.ObjectiveDef{{ID: "skin", Type: "collect", Target: "wolf_pelt", Count: 1}},
		RewardGold: 15,
	}
	return cat
}

// ambush drops a deterministic enemy into the current location.
func ambush(e *Engine, id string, level int) {
	def, _ := e.Cat.Monster(id)
	e.World.Ambient = append(e.World.Ambient, combat.Spawn(def, level))
}

func testEngine() *Engine {
	return New(testCatalog(), "Tav", 1)
}

func TestNew(t *testing.T) {
	e := testEngine()

	assert.Equal(t, "Tav", e.Player.Name)
	assert.Equal(t, "squire", e.Player.Class)
	assert.Equal(t, "village", e.World.Location)
	assert.False(t, e.InCombat())
}

func TestIntro(t *testing.T) {
	e := testEngine()

	res := e.Intro()

	joined := strings.Join(res.Output, "\n")
	assert.Contains(t, joined, "Night falls on the valley.")
	assert.Contains(t, joined, "Village")
	assert.Equal(t, 20, e.Player.XP, "entering the start counts as a first visit")
}

func TestStep_EmptyAndUnknown(t *testing.T) {
	e := testEngine()

	res := e.Step("   ")
	assert.Empty(t, res.Output)

	res = e.Step("dance wildly")
	assert.Equal(t, "I don't understand that.", res.Output[0])
}

func TestStep_MoveAdvancesClock(t *testing.T) {
	e := testEngine()
	e.Intro()

	e.Step("go north")

	assert.Equal(t, "meadow", e.World.Location)
	assert.Equal(t, int64(30), e.World.Elapsed, "one world action costs thirty seconds")
	assert.Equal(t, 1, e.Player.Actions["explore"])
}

func TestStep_LookDoesNotAdvance(t *testing.T) {
	e := testEngine()
	e.Intro()

	res := e.Step("look")

	assert.Contains(t, strings.Join(res.Output, "\n"), "Village")
	assert.Zero(t, e.World.Elapsed)
}

func TestStep_BuyRejectsNonNumeric(t *testing.T) {
	e := testEngine()
	e.Intro()

	res := e.Step("buy sword")
	assert.Equal(t, "Buy which number? Try 'shop' to see the list.", res.Output[0])
	assert.Equal(t, 50, e.Player.Gold)

	res = e.Step("buy 1")
	assert.Contains(t, res.Output[0], "You buy Healing Draught")
	assert.Equal(t, 30, e.Player.Gold)
}

func TestStep_UseOutsideCombat(t *testing.T) {
	e := testEngine()
	e.Intro()
	e.Player.HP = 20
	e.Player.AddItem("healing_draught")

	res := e.Step("use healing draught")

	assert.Contains(t, res.Output[0], "You use Healing Draught.")
	assert.Equal(t, 35, e.Player.HP)

	res = e.Step("use healing draught")
	assert.Equal(t, "You are not carrying that.", res.Output[0])
}

func TestCombat_VictoryHooks(t *testing.T) {
	e := testEngine()
	e.Intro()
	e.Player.Stats["attack"] = 100
	ambush(e, "wolf", 1)

	res := e.Step("attack wolf")
	require.True(t, e.InCombat())
	assert.Contains(t, strings.Join(res.Output, "\n"), "Wolf (level 1) moves to attack!")
	assert.Empty(t, e.World.Ambient, "the target left the ambient pool")

	e.Step("attack")

	assert.False(t, e.InCombat())
	assert.Nil(t, e.Encounter)
	assert.Equal(t, 1, e.Player.Kills["wolf"])
	assert.InDelta(t, 1.1, e.Adaptive.Modifier, 0.0001, "a win nudges difficulty up")
}

func TestCombat_LootAdvancesCollectObjectives(t *testing.T) {
	e := testEngine()
	e.Intro()
	e.Player.Stats["attack"] = 100
	e.World.AcceptQuest("pelts", e.Player)
	gold := e.Player.Gold
	ambush(e, "wolf", 1)

	e.Step("attack wolf")
	res := e.Step("attack")

	require.False(t, e.InCombat())
	assert.True(t, e.Player.HasItem("wolf_pelt"))
	joined := strings.Join(res.Output, "\n")
	assert.Contains(t, joined, "Wolf drops Wolf Pelt.")
	assert.Contains(t, joined, "Quest complete: Pelts for the Tanner!")
	assert.True(t, e.Player.QuestCompleted("pelts"))
	assert.Equal(t, gold+15, e.Player.Gold)
}

func TestCombat_DefeatReturnsToStart(t *testing.T) {
	e := testEngine()
	e.Intro()
	e.Step("go north")
	e.Player.HP = 1
	ambush(e, "wolf", 1)

	e.Step("attack wolf")
	for i := 0; e.InCombat() && i < 10; i++ {
		e.Step("defend")
	}

	assert.False(t, e.InCombat())
	assert.Equal(t, e.Player.MaxHP/2, e.Player.HP, "defeat costs half the health bar, not the run")
	assert.Equal(t, "village", e.World.Location)
	assert.InDelta(t, 0.9, e.Adaptive.Modifier, 0.0001)
}

func TestCombat_RoutesVerbs(t *testing.T) {
	e := testEngine()
	e.Intro()
	ambush(e, "wolf", 1)
	e.Step("attack wolf")
	require.True(t, e.InCombat())

	res := e.Step("go north")
	assert.Contains(t, res.Output[0], "In battle you can")
	assert.Equal(t, "village", e.World.Location)

	res = e.Step("skill nonsense")
	assert.Equal(t, "You don't know that skill.", res.Output[0])

	res = e.Step("use nothing")
	assert.Equal(t, "You are not carrying that.", res.Output[0])

	res = e.Step("status")
	assert.Contains(t, res.Output[0], "Tav")

	res = e.Step("skill quick slash")
	assert.Contains(t, strings.Join(res.Output, "\n"), "Quick Slash")
}

func TestStartCombat_NeedsTarget(t *testing.T) {
	e := testEngine()
	e.Intro()

	res := e.Step("attack")
	assert.Equal(t, "There is nothing here to fight.", res.Output[0])

	ambush(e, "wolf", 1)
	res = e.Step("attack dragon")
	assert.Equal(t, "There is no such enemy here.", res.Output[0])
	assert.False(t, e.InCombat())
}

func TestStep_QuestAndTitleSurfaces(t *testing.T) {
	e := testEngine()
	e.Intro()

	res := e.Step("quests")
	assert.Equal(t, "Your journal is empty.", res.Output[0])

	res = e.Step("titles")
	assert.Equal(t, "You have earned no titles.", res.Output[0])

	res = e.Step("skills")
	assert.Contains(t, res.Output[0], "Quick Slash (level 1)")

	res = e.Step("events")
	assert.Equal(t, "The world is quiet.", res.Output[0])

	res = e.Step("advice")
	require.Len(t, res.Output, 3, "safe ground gets no rating line")
}

func TestStep_AdviceRatesDangerousGround(t *testing.T) {
	e := testEngine()
	e.Intro()
	e.Step("go north")
	e.Step("go east")

	res := e.Step("advice")

	require.Len(t, res.Output, 4)
	assert.Contains(t, res.Output[3], "This area rates 1.0")
}

func TestSaveAndLoadSlot(t *testing.T) {
	e := testEngine()
	e.Intro()
	e.Step("go north")
	e.Player.Gold = 200
	dir := t.TempDir()

	require.NoError(t, e.SaveSlot(dir, 1))

	e.Step("go south")
	e.Player.Gold = 0
	ambush(e, "wolf", 1)
	e.Step("attack wolf")

	require.NoError(t, e.LoadSlot(dir, 1))

	assert.Equal(t, "meadow", e.World.Location)
	assert.Equal(t, 200, e.Player.Gold)
	assert.False(t, e.InCombat())
	assert.Nil(t, e.Encounter)

	assert.Error(t, e.LoadSlot(dir, 7), "a missing slot leaves the session untouched")
	assert.Equal(t, 200, e.Player.Gold)
}

package world

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mveld/grimvale/catalog"
	"github.com/mveld/grimvale/engine/player"
	"github.com/mveld/grimvale/engine/rng"
	"github.com/mveld/grimvale/types"
)

// Safe locations carry danger 0, so entering them never rolls for
// ambient enemies and every walk below is deterministic.
func testCatalog() *catalog.Catalog {
	cat := catalog.New()
	cat.Game = catalog.GameDef{Title: "Test", Start: "village", StartClass: "squire"}
	cat.Classes["squire"] = catalog.ClassDef{
		ID: "squire", Name: "Squire", HP: 40, MP: 20,
		Stats: types.Stats{"attack": 10, "defense": 2, "luck": 0},
	}
	cat.Locations["village"] = catalog.LocationDef{
		ID: "village", Name: "Village", Description: "A quiet square.",
		Exits:   map[string]string{"north": "woods", "east": "gone"},
		NPCs:    []string{"maren"},
		Shops:   []string{"mercers"},
		Objects: []string{"old_well"},
	}
	cat.Locations["woods"] = catalog.LocationDef{
		ID: "woods", Name: "Woods",
		Exits:   map[string]string{"south": "village"},
		Danger:  1,
		Enemies: []string{"wolf"},
	}
	for i := 0; i < 10; i++ {
		id := fmt.Sprintf("field_%d", i)
		cat.Locations[id] = catalog.LocationDef{ID: id, Name: "Field"}
	}
	cat.NPCs["maren"] = catalog.NPCDef{
		ID: "maren", Name: "Elder Maren",
		Dialogue: []string{"Welcome.", "Still here?"},
		Quest:    "wolf_cull",
	}
	cat.Shops["mercers"] = catalog.ShopDef{
		ID: "mercers", Name: "Mercer's Goods", Greeting: "Have a look.",
		Items: []string{"iron_sword", "healing_draught"},
	}
	cat.Items["iron_sword"] = catalog.ItemDef{ID: "iron_sword", Name: "Iron Sword", Slot: "weapon", Value: 60}
	cat.Items["healing_draught"] = catalog.ItemDef{ID: "healing_draught", Name: "Healing Draught", Value: 20, Effect: map[string]int{"hp": 15}}
	cat.Items["wolf_pelt"] = catalog.ItemDef{ID: "wolf_pelt", Name: "Wolf Pelt", Value: 14}
	cat.Items["moon_pendant"] = catalog.ItemDef{ID: "moon_pendant", Name: "Moon Pendant", Value: 200, Unsellable: true}
	cat.Monsters["wolf"] = catalog.MonsterDef{ID: "wolf", Name: "Wolf", Level: 1, HP: 12, Attack: 4, Defense: 1}
	cat.Monsters["dire_alpha"] = catalog.MonsterDef{ID: "dire_alpha", Name: "Dire Alpha", Level: 4, HP: 30, Attack: 8, Boss: true}
	cat.Quests["wolf_cull"] = catalog.QuestDef{
		ID: "wolf_cull", Name: "Wolf Cull", Description: "Thin the pack.",
		Giver:      "maren",
		Objectives: []catalog.ObjectiveDef{{ID: "cull", Type: "kill", Target: "wolf", Count: 3}},
		RewardXP:   30, RewardGold: 25, RewardItems: []string{"healing_draught"},
	}
	cat.Quests["well_watch"] = catalog.QuestDef{
		ID: "well_watch", Name: "Well Watch", Description: "Look into the old well.",
		Giver:      "maren",
		Objectives: []catalog.ObjectiveDef{{ID: "peer", Type: "interact", Target: "old_well", Count: 1}},
		RewardGold: 10,
	}
	cat.Titles["wanderer"] = catalog.TitleDef{ID: "wanderer", Name: "Wanderer"}
	cat.Titles["pathfinder"] = catalog.TitleDef{ID: "pathfinder", Name: "Pathfinder"}
	cat.Titles["week_survivor"] = catalog.TitleDef{ID: "week_survivor", Name: "Week Survivor"}
	cat.Titles["moon_survivor"] = catalog.TitleDef{ID: "moon_survivor", Name: "Moon Survivor"}
	cat.Secrets["pendant_cache"] = catalog.SecretDef{
		ID: "pendant_cache", Name: "Pendant Cache",
		Location: "village", Object: "old_well",
		Trigger: catalog.SecretTrigger{Type: "examine_count", Count: 3},
		Effect:  catalog.SecretEffect{Type: "give_item", Item: "moon_pendant"},
	}
	return cat
}

func testWorld(cat *catalog.Catalog) (*World, *player.Player) {
	class, _ := cat.Class("squire")
	p := player.New("Tav", class)
	w := New(cat, rng.New(1))
	return w, p
}

func TestClock_Partitions(t *testing.T) {
	assert.Equal(t, 1, DayOf(0))
	assert.Equal(t, 1, DayOf(1799))
	assert.Equal(t, 2, DayOf(1800))
	assert.Equal(t, 3, DayOf(3600))

	assert.Equal(t, types.TimeDay, PeriodOf(0))
	assert.Equal(t, types.TimeDay, PeriodOf(599))
	assert.Equal(t, types.TimeEvening, PeriodOf(600))
	assert.Equal(t, types.TimeEvening, PeriodOf(900))
	assert.Equal(t, types.TimeEvening, PeriodOf(1199))
	assert.Equal(t, types.TimeNight, PeriodOf(1200))
	assert.Equal(t, types.TimeDay, PeriodOf(1800))
}

func TestAdvance_NewDayRegen(t *testing.T) {
	cat := testCatalog()
	w, p := testWorld(cat)
	p.HP = 10
	p.MP = 2

	res := w.Advance(SecondsPerDay, p)

	assert.Equal(t, 2, w.Day())
	joined := strings.Join(res.Output, "\n")
	assert.Contains(t, joined, "Day 2 breaks.")
	assert.Equal(t, 10+8, p.HP, "a new day restores a fifth of max hp")
	assert.Equal(t, 2+6, p.MP, "and three tenths of max mp")
}

func TestAdvance_NegativeIsIgnored(t *testing.T) {
	cat := testCatalog()
	w, p := testWorld(cat)

	res := w.Advance(-100, p)

	assert.Empty(t, res.Output)
	assert.Zero(t, w.Elapsed)
}

func TestAdvance_DayTitles(t *testing.T) {
	cat := testCatalog()
	w, p := testWorld(cat)

	w.Advance(6*SecondsPerDay, p)
	assert.True(t, p.HasTitle("week_survivor"), "day 7 grants the week title")
	assert.False(t, p.HasTitle("moon_survivor"))

	w.Advance(23*SecondsPerDay, p)
	assert.True(t, p.HasTitle("moon_survivor"), "day 30 grants the month title")
}

func TestEnter_FirstVisitBonusOnce(t *testing.T) {
	cat := testCatalog()
	w, p := testWorld(cat)

	w.Enter("village", p)
	assert.Equal(t, 20, p.XP)

	w.Enter("village", p)
	assert.Equal(t, 20, p.XP, "the bonus is first-visit only")
	assert.Equal(t, 2, w.Visits["village"])
}

func TestEnter_ExplorationTitles(t *testing.T) {
	cat := testCatalog()
	w, p := testWorld(cat)

	for i := 0; i < 4; i++ {
		w.Enter(fmt.Sprintf("field_%d", i), p)
	}
	assert.False(t, p.HasTitle("wanderer"))
	w.Enter("field_4", p)
	assert.True(t, p.HasTitle("wanderer"), "five distinct locations")

	for i := 5; i < 10; i++ {
		w.Enter(fmt.Sprintf("field_%d", i), p)
	}
	assert.True(t, p.HasTitle("pathfinder"), "ten distinct locations")
}

func TestMove(t *testing.T) {
	cat := testCatalog()
	w, p := testWorld(cat)
	w.Enter("village", p)

	res := w.Move("west", p)
	assert.Equal(t, "You can't go west from here.", res.Output[0])
	assert.Equal(t, "village", w.Location)

	res = w.Move("east", p)
	assert.Equal(t, "The way east is impassable.", res.Output[0])
	assert.Equal(t, "village", w.Location)

	w.Move("north", p)
	assert.Equal(t, "woods", w.Location)
}

func TestPopulate_Bounds(t *testing.T) {
	cat := testCatalog()
	w, p := testWorld(cat)

	w.Enter("woods", p)

	n := len(w.Ambient)
	assert.GreaterOrEqual(t, n, 1, "danger 1 spawns at least one enemy by day")
	assert.LessOrEqual(t, n, 3)
	for _, m := range w.Ambient {
		assert.Equal(t, "wolf", m.ID)
		assert.GreaterOrEqual(t, m.Level, 1)
		assert.LessOrEqual(t, m.Level, p.Level+1)
	}
}

func TestPopulate_DifficultyScaling(t *testing.T) {
	cat := testCatalog()
	w, p := testWorld(cat)

	w.SetDifficulty(2.0)
	w.Enter("woods", p)
	n := len(w.Ambient)
	assert.GreaterOrEqual(t, n, 2, "danger 1 at the ceiling spawns at least two")
	assert.LessOrEqual(t, n, 6)
	for _, m := range w.Ambient {
		assert.GreaterOrEqual(t, m.Level, 1)
		assert.LessOrEqual(t, m.Level, p.Level+2, "spawn levels shift up at the ceiling")
	}

	w.SetDifficulty(0.5)
	w.Enter("woods", p)
	require.Len(t, w.Ambient, 1, "the floor thins packs to a single enemy")
	assert.Equal(t, 1, w.Ambient[0].Level, "spawn levels shift down at the floor")

	w.SetDifficulty(0)
	w.Enter("woods", p)
	n = len(w.Ambient)
	assert.GreaterOrEqual(t, n, 1, "non-positive scales reset to neutral")
	assert.LessOrEqual(t, n, 3)
}

func TestBoss_ExplorationTrigger(t *testing.T) {
	cat := testCatalog()
	cat.Locations["grove"] = catalog.LocationDef{
		ID: "grove", Name: "Grove",
		Boss: &catalog.BossDef{Monster: "dire_alpha", Trigger: "exploration_count", Value: 3},
	}
	w, p := testWorld(cat)

	w.Enter("grove", p)
	w.Enter("grove", p)
	assert.Empty(t, w.Ambient)

	res := w.Enter("grove", p)
	require.Len(t, w.Ambient, 1)
	boss := w.Ambient[0]
	assert.Equal(t, "dire_alpha", boss.ID)
	assert.Equal(t, 5, boss.Level, "boss level floors at five")
	assert.Contains(t, strings.Join(res.Output, "\n"), "terrible presence")

	// A defeated boss never returns.
	w.RecordBossDefeat("dire_alpha")
	w.Enter("grove", p)
	assert.Empty(t, w.Ambient)
}

func TestBoss_KillCountTrigger(t *testing.T) {
	cat := testCatalog()
	cat.Locations["keep"] = catalog.LocationDef{
		ID: "keep", Name: "Keep",
		Boss: &catalog.BossDef{Monster: "dire_alpha", Trigger: "kill_count", Value: 2, Target: "wolf"},
	}
	w, p := testWorld(cat)
	p.Level = 6

	w.Enter("keep", p)
	assert.Empty(t, w.Ambient)

	p.RecordKill("wolf")
	p.RecordKill("wolf")
	w.Enter("keep", p)
	require.Len(t, w.Ambient, 1)
	assert.Equal(t, 8, w.Ambient[0].Level, "player level plus two above the floor")
}

func TestBoss_LevelTracksDifficulty(t *testing.T) {
	cat := testCatalog()
	cat.Locations["keep"] = catalog.LocationDef{
		ID: "keep", Name: "Keep",
		Boss: &catalog.BossDef{Monster: "dire_alpha", Trigger: "kill_count", Value: 1, Target: "wolf"},
	}
	w, p := testWorld(cat)
	p.Level = 6
	p.RecordKill("wolf")

	w.SetDifficulty(2.0)
	w.Enter("keep", p)
	require.Len(t, w.Ambient, 1)
	assert.Equal(t, 9, w.Ambient[0].Level, "boss levels shift up at the ceiling")
}

func TestAmbientLookup(t *testing.T) {
	cat := testCatalog()
	w, p := testWorld(cat)
	w.Enter("woods", p)
	require.NotEmpty(t, w.Ambient)

	m, ok := w.FindAmbient("WOLF")
	require.True(t, ok)
	assert.Equal(t, "wolf", m.ID)

	_, ok = w.FindAmbient("dragon")
	assert.False(t, ok)

	before := len(w.Ambient)
	w.RemoveAmbient(m.UID)
	assert.Len(t, w.Ambient, before-1)
}

func TestExamine_SecretByCount(t *testing.T) {
	cat := testCatalog()
	w, p := testWorld(cat)
	w.Enter("village", p)

	res := w.Examine("lamppost", p)
	assert.Equal(t, "You don't see that here.", res.Output[0])

	w.Examine("old well", p)
	w.Examine("old_well", p)
	assert.False(t, p.HasItem("moon_pendant"))

	res = w.Examine("Old Well", p)
	joined := strings.Join(res.Output, "\n")
	assert.Contains(t, joined, "Secret discovered")
	assert.True(t, p.HasItem("moon_pendant"))
	assert.True(t, w.Secrets["pendant_cache"])

	// Unlocking is one-way.
	w.Examine("old_well", p)
	assert.Equal(t, 1, p.CountItem("moon_pendant"))
}

func TestSecret_Teleport(t *testing.T) {
	cat := testCatalog()
	cat.Secrets["passage"] = catalog.SecretDef{
		ID: "passage", Name: "Hidden Passage",
		Location: "village", Object: "old_well",
		Trigger: catalog.SecretTrigger{Type: "item_required", Item: "iron_sword"},
		Effect:  catalog.SecretEffect{Type: "teleport", Location: "undercroft"},
	}
	delete(cat.Secrets, "pendant_cache")
	w, p := testWorld(cat)
	w.Enter("village", p)
	p.AddItem("iron_sword")

	w.Examine("old well", p)

	assert.Equal(t, "undercroft", w.Location)
	def, ok := w.Loc("undercroft")
	require.True(t, ok, "unknown destinations are synthesized")
	assert.Equal(t, "village", def.Exits["back"])
}

func TestExamine_AdvancesInteractObjectives(t *testing.T) {
	cat := testCatalog()
	w, p := testWorld(cat)
	w.Enter("village", p)
	w.AcceptQuest("well_watch", p)
	gold := p.Gold

	res := w.Examine("old well", p)

	joined := strings.Join(res.Output, "\n")
	assert.Contains(t, joined, "Quest complete: Well Watch!")
	assert.True(t, p.QuestCompleted("well_watch"))
	assert.Equal(t, gold+10, p.Gold)
}

func TestTalk_DialogueCyclesAndOffersQuest(t *testing.T) {
	cat := testCatalog()
	w, p := testWorld(cat)
	w.Enter("village", p)

	res := w.Talk("elder maren", p)
	joined := strings.Join(res.Output, "\n")
	assert.Contains(t, joined, "Welcome.")
	assert.Contains(t, joined, "accept wolf_cull")

	res = w.Talk("maren", p)
	assert.Contains(t, strings.Join(res.Output, "\n"), "Still here?")

	res = w.Talk("maren", p)
	assert.Contains(t, strings.Join(res.Output, "\n"), "Welcome.", "dialogue cycles")

	w.AcceptQuest("wolf_cull", p)
	res = w.Talk("maren", p)
	assert.NotContains(t, strings.Join(res.Output, "\n"), "accept wolf_cull", "accepted quests are not re-offered")

	res = w.Talk("nobody", p)
	assert.Equal(t, "There is no one here by that name.", res.Output[0])
}

func TestQuest_NotifyAndComplete(t *testing.T) {
	cat := testCatalog()
	w, p := testWorld(cat)
	w.Enter("village", p)
	w.AcceptQuest("wolf_cull", p)
	gold := p.Gold

	w.QuestNotify(p, "kill", "wolf", 1)
	w.QuestNotify(p, "kill", "wolf", 1)
	assert.True(t, p.QuestActive("wolf_cull"))

	res := w.QuestNotify(p, "kill", "wolf", 1)
	joined := strings.Join(res.Output, "\n")
	assert.Contains(t, joined, "Objective complete")
	assert.Contains(t, joined, "Quest complete: Wolf Cull!")
	assert.True(t, p.QuestCompleted("wolf_cull"))
	assert.Equal(t, gold+25, p.Gold)
	assert.True(t, p.HasItem("healing_draught"))
	assert.GreaterOrEqual(t, p.XP, 30)

	// Further kills touch nothing.
	xp := p.XP
	w.QuestNotify(p, "kill", "wolf", 1)
	assert.Equal(t, xp, p.XP)

	res = w.AcceptQuest("wolf_cull", p)
	assert.Equal(t, "You already know that task.", res.Output[0])
}

func TestQuest_UnmatchedTypeDoesNotAdvance(t *testing.T) {
	cat := testCatalog()
	w, p := testWorld(cat)
	w.AcceptQuest("wolf_cull", p)

	w.QuestNotify(p, "collect", "wolf", 5)
	w.QuestNotify(p, "kill", "boar", 5)

	assert.True(t, p.QuestActive("wolf_cull"))
}

func TestShop_ListingAndBuy(t *testing.T) {
	cat := testCatalog()
	w, p := testWorld(cat)
	w.Enter("village", p)

	res := w.ShopListing()
	joined := strings.Join(res.Output, "\n")
	assert.Contains(t, joined, "Have a look.")
	assert.Contains(t, joined, "1. Iron Sword — 60 gold")

	res = w.Buy(3, p)
	assert.Equal(t, "That is not on offer.", res.Output[0])

	res = w.Buy(1, p)
	assert.Contains(t, res.Output[0], "can't afford")
	assert.Equal(t, 50, p.Gold)

	res = w.Buy(2, p)
	assert.Contains(t, res.Output[0], "You buy Healing Draught for 20 gold.")
	assert.Equal(t, 30, p.Gold)
	assert.True(t, p.HasItem("healing_draught"))
}

func TestShop_PricesModifier(t *testing.T) {
	cat := testCatalog()
	cat.Events["caravan"] = catalog.EventDef{
		ID: "caravan", Name: "Caravan", Trigger: "random", Chance: 0,
		Duration: 3, Modifiers: map[string]int{"prices": -2},
	}
	w, p := testWorld(cat)
	w.Enter("village", p)
	w.Events = append(w.Events, &ActiveEvent{ID: "caravan", Remaining: 3})

	def, _ := cat.Item("iron_sword")
	assert.Equal(t, 48, w.PriceOf(def), "each modifier point shifts ten percent")

	res := w.Buy(2, p)
	assert.Contains(t, res.Output[0], "for 16 gold")
	assert.Equal(t, 34, p.Gold)
}

func TestSell(t *testing.T) {
	cat := testCatalog()
	w, p := testWorld(cat)
	w.Enter("village", p)
	p.AddItem("wolf_pelt")
	p.AddItem("moon_pendant")

	res := w.Sell("wolf pelt", p)
	assert.Equal(t, "You sell Wolf Pelt for 7 gold.", res.Output[0])
	assert.Equal(t, 57, p.Gold)
	assert.False(t, p.HasItem("wolf_pelt"))

	res = w.Sell("moon pendant", p)
	assert.Equal(t, "Moon Pendant cannot be sold.", res.Output[0])
	assert.True(t, p.HasItem("moon_pendant"))

	res = w.Sell("ghost item", p)
	assert.Equal(t, "You are not carrying that.", res.Output[0])
}

func TestSell_RequiresShop(t *testing.T) {
	cat := testCatalog()
	w, p := testWorld(cat)
	w.Enter("field_0", p)
	p.AddItem("wolf_pelt")

	res := w.Sell("wolf pelt", p)
	assert.Equal(t, "There is no shop here.", res.Output[0])
	res = w.Buy(1, p)
	assert.Equal(t, "There is no shop here.", res.Output[0])
}

func TestEvents_OneShotNeverRefires(t *testing.T) {
	cat := testCatalog()
	cat.Events["lament"] = catalog.EventDef{
		ID: "lament", Name: "The Lament", Trigger: "day_count", Value: 2, Duration: 2,
		Modifiers: map[string]int{"danger": 1},
	}
	w, p := testWorld(cat)

	res := w.Advance(SecondsPerDay, p)
	assert.Contains(t, strings.Join(res.Output, "\n"), "The Lament")
	assert.True(t, w.Fired["lament"])
	assert.Equal(t, 1, w.ActiveModifier("danger"))

	// It ages out, then stays out.
	w.Advance(3*SecondsPerDay, p)
	assert.Empty(t, w.Events)
	assert.Equal(t, 0, w.ActiveModifier("danger"))

	res = w.Advance(SecondsPerDay, p)
	assert.NotContains(t, strings.Join(res.Output, "\n"), "The Lament")
}

func TestEvents_RepeatableInterval(t *testing.T) {
	cat := testCatalog()
	cat.Events["blood_moon"] = catalog.EventDef{
		ID: "blood_moon", Name: "Blood Moon", Trigger: "day_count",
		Value: 2, Interval: 3, Duration: 1, Repeatable: true,
	}
	w, p := testWorld(cat)

	res := w.Advance(SecondsPerDay, p)
	assert.Contains(t, strings.Join(res.Output, "\n"), "Blood Moon")
	assert.False(t, w.Fired["blood_moon"], "repeatable events are not retired")

	w.Advance(SecondsPerDay, p) // day 3: off the interval, the active one expires
	assert.Empty(t, w.Events)

	w.Advance(SecondsPerDay, p) // day 4
	assert.Empty(t, w.Events)

	res = w.Advance(SecondsPerDay, p) // day 5: value 2 + interval 3
	assert.Contains(t, strings.Join(res.Output, "\n"), "Blood Moon")
}

func TestEventNames(t *testing.T) {
	cat := testCatalog()
	cat.Events["caravan"] = catalog.EventDef{ID: "caravan", Name: "Caravan", Trigger: "random", Chance: 0, Duration: 3}
	w, _ := testWorld(cat)
	assert.Empty(t, w.EventNames())

	w.Events = append(w.Events, &ActiveEvent{ID: "caravan", Remaining: 2})
	names := w.EventNames()
	require.Len(t, names, 1)
	assert.Equal(t, "Caravan (2 days left)", names[0])
}

func TestSynthesizeLocation(t *testing.T) {
	cat := testCatalog()
	w, _ := testWorld(cat)

	def := w.SynthesizeLocation("crypt", "village")
	assert.Equal(t, "Crypt", def.Name)
	assert.Equal(t, "village", def.Exits["back"])

	// An existing catalog location is never shadowed.
	def = w.SynthesizeLocation("village", "woods")
	assert.Equal(t, "Village", def.Name)
	assert.NotContains(t, w.Synth, "village")
}

func TestRebind_RepairsState(t *testing.T) {
	cat := testCatalog()
	w := &World{Location: "village", Elapsed: 3 * SecondsPerDay}

	w.Rebind(cat, rng.New(7))

	assert.NotNil(t, w.Visited)
	assert.NotNil(t, w.Fired)
	assert.NotNil(t, w.Synth)
	assert.Equal(t, 4, w.Day())
	assert.Equal(t, w.Period(), w.lastPeriod)
}

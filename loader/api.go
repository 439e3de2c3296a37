package loader

import (
	lua "github.com/yuin/gopher-lua"
)

// Template kinds the DSL can declare.
const (
	kindItem        = "item"
	kindMonster     = "monster"
	kindSkill       = "skill"
	kindClass       = "class"
	kindQuest       = "quest"
	kindAchievement = "achievement"
	kindTitle       = "title"
	kindLocation    = "location"
	kindNPC         = "npc"
	kindShop        = "shop"
	kindSecret      = "secret"
	kindEvent       = "event"
)

// registerAPI registers the Lua constructors as globals. Every kind
// uses the same curried shape: Kind "id" { ... }.
func registerAPI(L *lua.LState, coll *collector) {
	// Game { title = "...", start = "...", ... }
	L.SetGlobal("Game", L.NewFunction(func(L *lua.LState) int {
		tbl := L.CheckTable(1)
		coll.game = tbl
		return 0
	}))

	constructors := map[string]string{
		"Item":        kindItem,
		"Monster":     kindMonster,
		"Skill":       kindSkill,
		"Class":       kindClass,
		"Quest":       kindQuest,
		"Achievement": kindAchievement,
		"Title":       kindTitle,
		"Location":    kindLocation,
		"NPC":         kindNPC,
		"Shop":        kindShop,
		"Secret":      kindSecret,
		"Event":       kindEvent,
	}
	for global, kind := range constructors {
		kind := kind
		L.SetGlobal(global, L.NewFunction(func(L *lua.LState) int {
			id := L.CheckString(1)
			L.Push(L.NewFunction(func(L *lua.LState) int {
				tbl := L.CheckTable(1)
				coll.defs = append(coll.defs, rawDef{id: id, kind: kind, table: tbl})
				return 0
			}))
			return 1
		}))
	}

	registerTriggerHelpers(L)
}

// registerTriggerHelpers installs small constructors for the trigger
// and effect tables used by Secret, Event, and Location bosses, so
// data files read declaratively instead of spelling raw tables.
func registerTriggerHelpers(L *lua.LState) {
	// ExamineCount(3)
	L.SetGlobal("ExamineCount", L.NewFunction(func(L *lua.LState) int {
		count := L.CheckInt(1)
		tbl := L.NewTable()
		tbl.RawSetString("type", lua.LString("examine_count"))
		tbl.RawSetString("count", lua.LNumber(count))
		L.Push(tbl)
		return 1
	}))

	// RequiresItem("rusted_key")
	L.SetGlobal("RequiresItem", L.NewFunction(func(L *lua.LState) int {
		item := L.CheckString(1)
		tbl := L.NewTable()
		tbl.RawSetString("type", lua.LString("item_required"))
		tbl.RawSetString("item", lua.LString(item))
		L.Push(tbl)
		return 1
	}))

	// RequiresTitle("veteran")
	L.SetGlobal("RequiresTitle", L.NewFunction(func(L *lua.LState) int {
		title := L.CheckString(1)
		tbl := L.NewTable()
		tbl.RawSetString("type", lua.LString("title_required"))
		tbl.RawSetString("title", lua.LString(title))
		L.Push(tbl)
		return 1
	}))

	// RequiresSkill("firebolt", 3)
	L.SetGlobal("RequiresSkill", L.NewFunction(func(L *lua.LState) int {
		skill := L.CheckString(1)
		level := L.CheckInt(2)
		tbl := L.NewTable()
		tbl.RawSetString("type", lua.LString("skill_required"))
		tbl.RawSetString("skill", lua.LString(skill))
		tbl.RawSetString("level", lua.LNumber(level))
		L.Push(tbl)
		return 1
	}))

	// GiveItem("moon_pendant")
	L.SetGlobal("GiveItem", L.NewFunction(func(L *lua.LState) int {
		item := L.CheckString(1)
		tbl := L.NewTable()
		tbl.RawSetString("type", lua.LString("give_item"))
		tbl.RawSetString("item", lua.LString(item))
		L.Push(tbl)
		return 1
	}))

	// RevealSkill("shadowstep")
	L.SetGlobal("RevealSkill", L.NewFunction(func(L *lua.LState) int {
		skill := L.CheckString(1)
		tbl := L.NewTable()
		tbl.RawSetString("type", lua.LString("reveal_skill"))
		tbl.RawSetString("skill", lua.LString(skill))
		L.Push(tbl)
		return 1
	}))

	// Teleport("hidden_grotto")
	L.SetGlobal("Teleport", L.NewFunction(func(L *lua.LState) int {
		location := L.CheckString(1)
		tbl := L.NewTable()
		tbl.RawSetString("type", lua.LString("teleport"))
		tbl.RawSetString("location", lua.LString(location))
		L.Push(tbl)
		return 1
	}))

	// BossRandom("troll_king", 5) — 5% chance per population pass.
	L.SetGlobal("BossRandom", L.NewFunction(func(L *lua.LState) int {
		monster := L.CheckString(1)
		chance := L.CheckInt(2)
		tbl := L.NewTable()
		tbl.RawSetString("monster", lua.LString(monster))
		tbl.RawSetString("trigger", lua.LString("random"))
		tbl.RawSetString("value", lua.LNumber(chance))
		L.Push(tbl)
		return 1
	}))

	// BossAfterVisits("troll_king", 5)
	L.SetGlobal("BossAfterVisits", L.NewFunction(func(L *lua.LState) int {
		monster := L.CheckString(1)
		visits := L.CheckInt(2)
		tbl := L.NewTable()
		tbl.RawSetString("monster", lua.LString(monster))
		tbl.RawSetString("trigger", lua.LString("exploration_count"))
		tbl.RawSetString("value", lua.LNumber(visits))
		L.Push(tbl)
		return 1
	}))

	// BossAfterKills("troll_king", "troll", 10)
	L.SetGlobal("BossAfterKills", L.NewFunction(func(L *lua.LState) int {
		monster := L.CheckString(1)
		target := L.CheckString(2)
		kills := L.CheckInt(3)
		tbl := L.NewTable()
		tbl.RawSetString("monster", lua.LString(monster))
		tbl.RawSetString("trigger", lua.LString("kill_count"))
		tbl.RawSetString("target", lua.LString(target))
		tbl.RawSetString("value", lua.LNumber(kills))
		L.Push(tbl)
		return 1
	}))

	// OnDay(7) / OnDay(7, 10) — fires at day 7, repeating every 10 days.
	L.SetGlobal("OnDay", L.NewFunction(func(L *lua.LState) int {
		day := L.CheckInt(1)
		tbl := L.NewTable()
		tbl.RawSetString("trigger", lua.LString("day_count"))
		tbl.RawSetString("value", lua.LNumber(day))
		if L.GetTop() > 1 {
			tbl.RawSetString("repeatable", lua.LTrue)
			tbl.RawSetString("interval", lua.LNumber(L.CheckInt(2)))
		}
		L.Push(tbl)
		return 1
	}))

	// RandomChance(10) — 10% chance per world-event check, recurring.
	L.SetGlobal("RandomChance", L.NewFunction(func(L *lua.LState) int {
		chance := L.CheckInt(1)
		tbl := L.NewTable()
		tbl.RawSetString("trigger", lua.LString("random"))
		tbl.RawSetString("chance", lua.LNumber(chance))
		tbl.RawSetString("repeatable", lua.LTrue)
		L.Push(tbl)
		return 1
	}))
}

// Package loader loads Lua catalog content into Go structs at startup.
// The Lua VM is discarded after loading — zero Lua at runtime.
package loader

import (
	"github.com/mveld/grimvale/catalog"
	"github.com/mveld/grimvale/types"
	lua "github.com/yuin/gopher-lua"
)

// rawDef holds one declared template before compilation.
type rawDef struct {
	id    string
	kind  string
	table *lua.LTable
}

// getString returns a string field from a Lua table, or "" if missing.
func getString(tbl *lua.LTable, key string) string {
	v := tbl.RawGetString(key)
	if s, ok := v.(lua.LString); ok {
		return string(s)
	}
	return ""
}

// getBool returns a bool field from a Lua table, or the default if missing.
func getBool(tbl *lua.LTable, key string, def bool) bool {
	v := tbl.RawGetString(key)
	if b, ok := v.(lua.LBool); ok {
		return bool(b)
	}
	return def
}

// getNumber returns a numeric field from a Lua table, or 0 if missing.
func getNumber(tbl *lua.LTable, key string) float64 {
	v := tbl.RawGetString(key)
	if n, ok := v.(lua.LNumber); ok {
		return float64(n)
	}
	return 0
}

// getInt returns an int field from a Lua table, or 0 if missing.
func getInt(tbl *lua.LTable, key string) int {
	return int(getNumber(tbl, key))
}

// getIntDefault returns an int field, or def if missing.
func getIntDefault(tbl *lua.LTable, key string, def int) int {
	v := tbl.RawGetString(key)
	if n, ok := v.(lua.LNumber); ok {
		return int(n)
	}
	return def
}

// getTable returns a table field from a Lua table, or nil if missing.
func getTable(tbl *lua.LTable, key string) *lua.LTable {
	v := tbl.RawGetString(key)
	if t, ok := v.(*lua.LTable); ok {
		return t
	}
	return nil
}

// toStringSlice converts an array-style Lua table to a []string.
func toStringSlice(tbl *lua.LTable) []string {
	if tbl == nil {
		return nil
	}
	var out []string
	for i := 1; i <= tbl.MaxN(); i++ {
		if s, ok := tbl.RawGetInt(i).(lua.LString); ok {
			out = append(out, string(s))
		}
	}
	return out
}

// toStringMap converts a Lua table to a map[string]string.
func toStringMap(tbl *lua.LTable) map[string]string {
	if tbl == nil {
		return nil
	}
	m := map[string]string{}
	tbl.ForEach(func(k, v lua.LValue) {
		if ks, ok := k.(lua.LString); ok {
			if vs, ok := v.(lua.LString); ok {
				m[string(ks)] = string(vs)
			}
		}
	})
	return m
}

// toIntMap converts a Lua table to a map[string]int.
func toIntMap(tbl *lua.LTable) map[string]int {
	if tbl == nil {
		return nil
	}
	m := map[string]int{}
	tbl.ForEach(func(k, v lua.LValue) {
		if ks, ok := k.(lua.LString); ok {
			if vn, ok := v.(lua.LNumber); ok {
				m[string(ks)] = int(vn)
			}
		}
	})
	return m
}

// toFloatMap converts a Lua table to a map[string]float64.
func toFloatMap(tbl *lua.LTable) map[string]float64 {
	if tbl == nil {
		return nil
	}
	m := map[string]float64{}
	tbl.ForEach(func(k, v lua.LValue) {
		if ks, ok := k.(lua.LString); ok {
			if vn, ok := v.(lua.LNumber); ok {
				m[string(ks)] = float64(vn)
			}
		}
	})
	return m
}

// toStats converts a Lua table to a Stats map.
func toStats(tbl *lua.LTable) types.Stats {
	m := toIntMap(tbl)
	if m == nil {
		return nil
	}
	return types.Stats(m)
}

// compile converts all collected Lua data into a Catalog.
func compile(coll *collector) *catalog.Catalog {
	cat := catalog.New()

	if coll.game != nil {
		cat.Game = compileGame(coll.game)
	}

	for _, raw := range coll.defs {
		switch raw.kind {
		case kindItem:
			cat.Items[raw.id] = compileItem(raw)
		case kindMonster:
			cat.Monsters[raw.id] = compileMonster(raw)
		case kindSkill:
			cat.Skills[raw.id] = compileSkill(raw)
		case kindClass:
			cat.Classes[raw.id] = compileClass(raw)
		case kindQuest:
			cat.Quests[raw.id] = compileQuest(raw)
		case kindAchievement:
			cat.Achievements[raw.id] = compileAchievement(raw)
		case kindTitle:
			cat.Titles[raw.id] = compileTitle(raw)
		case kindLocation:
			cat.Locations[raw.id] = compileLocation(raw)
		case kindNPC:
			cat.NPCs[raw.id] = compileNPC(raw)
		case kindShop:
			cat.Shops[raw.id] = compileShop(raw)
		case kindSecret:
			cat.Secrets[raw.id] = compileSecret(raw)
		case kindEvent:
			cat.Events[raw.id] = compileEvent(raw)
		}
	}

	return cat
}

func compileGame(tbl *lua.LTable) catalog.GameDef {
	return catalog.GameDef{
		Title:      getString(tbl, "title"),
		Author:     getString(tbl, "author"),
		Version:    getString(tbl, "version"),
		Intro:      getString(tbl, "intro"),
		Start:      getString(tbl, "start"),
		StartClass: getString(tbl, "start_class"),
	}
}

func compileItem(raw rawDef) catalog.ItemDef {
	tbl := raw.table
	return catalog.ItemDef{
		ID:          raw.id,
		Name:        getString(tbl, "name"),
		Description: getString(tbl, "description"),
		Slot:        getString(tbl, "slot"),
		Value:       getInt(tbl, "value"),
		Rarity:      getString(tbl, "rarity"),
		Unsellable:  getBool(tbl, "unsellable", false),
		Effect:      toIntMap(getTable(tbl, "effect")),
		Stats:       toStats(getTable(tbl, "stats")),
	}
}

func compileMonster(raw rawDef) catalog.MonsterDef {
	tbl := raw.table
	def := catalog.MonsterDef{
		ID:          raw.id,
		Name:        getString(tbl, "name"),
		Description: getString(tbl, "description"),
		Level:       getIntDefault(tbl, "level", 1),
		HP:          getInt(tbl, "hp"),
		Attack:      getInt(tbl, "attack"),
		Defense:     getInt(tbl, "defense"),
		XP:          getInt(tbl, "xp"),
		Boss:        getBool(tbl, "boss", false),
		Abilities:   toStringSlice(getTable(tbl, "abilities")),
	}
	if lootTbl := getTable(tbl, "loot"); lootTbl != nil {
		for i := 1; i <= lootTbl.MaxN(); i++ {
			if entry, ok := lootTbl.RawGetInt(i).(*lua.LTable); ok {
				def.Loot = append(def.Loot, catalog.LootEntry{
					Item:   getString(entry, "item"),
					Chance: getInt(entry, "chance"),
				})
			}
		}
	}
	return def
}

func compileSkill(raw rawDef) catalog.SkillDef {
	tbl := raw.table
	growth := getNumber(tbl, "growth")
	if growth == 0 {
		growth = 1
	}
	return catalog.SkillDef{
		ID:          raw.id,
		Name:        getString(tbl, "name"),
		Description: getString(tbl, "description"),
		Type:        getString(tbl, "type"),
		Power:       getInt(tbl, "power"),
		MPCost:      getInt(tbl, "mp_cost"),
		Stat:        getString(tbl, "stat"),
		Duration:    getInt(tbl, "duration"),
		Special:     getString(tbl, "special"),
		Growth:      growth,
	}
}

func compileClass(raw rawDef) catalog.ClassDef {
	tbl := raw.table
	return catalog.ClassDef{
		ID:          raw.id,
		Name:        getString(tbl, "name"),
		Description: getString(tbl, "description"),
		HP:          getInt(tbl, "hp"),
		MP:          getInt(tbl, "mp"),
		Stats:       toStats(getTable(tbl, "stats")),
		Growth:      toStats(getTable(tbl, "growth")),
		Skills:      toStringSlice(getTable(tbl, "skills")),
	}
}

func compileQuest(raw rawDef) catalog.QuestDef {
	tbl := raw.table
	def := catalog.QuestDef{
		ID:          raw.id,
		Name:        getString(tbl, "name"),
		Description: getString(tbl, "description"),
		Giver:       getString(tbl, "giver"),
		RewardXP:    getInt(tbl, "reward_xp"),
		RewardGold:  getInt(tbl, "reward_gold"),
		RewardItems: toStringSlice(getTable(tbl, "reward_items")),
	}
	if objTbl := getTable(tbl, "objectives"); objTbl != nil {
		for i := 1; i <= objTbl.MaxN(); i++ {
			if entry, ok := objTbl.RawGetInt(i).(*lua.LTable); ok {
				def.Objectives = append(def.Objectives, catalog.ObjectiveDef{
					ID:     getString(entry, "id"),
					Type:   getString(entry, "type"),
					Target: getString(entry, "target"),
					Count:  getIntDefault(entry, "count", 1),
				})
			}
		}
	}
	return def
}

func compileAchievement(raw rawDef) catalog.AchievementDef {
	tbl := raw.table
	return catalog.AchievementDef{
		ID:          raw.id,
		Name:        getString(tbl, "name"),
		Description: getString(tbl, "description"),
		Category:    getString(tbl, "category"),
		Action:      getString(tbl, "action"),
		Goal:        getIntDefault(tbl, "goal", 1),
		Title:       getString(tbl, "title"),
	}
}

func compileTitle(raw rawDef) catalog.TitleDef {
	tbl := raw.table
	return catalog.TitleDef{
		ID:          raw.id,
		Name:        getString(tbl, "name"),
		Description: getString(tbl, "description"),
		Effects:     toFloatMap(getTable(tbl, "effects")),
	}
}

func compileLocation(raw rawDef) catalog.LocationDef {
	tbl := raw.table
	def := catalog.LocationDef{
		ID:          raw.id,
		Name:        getString(tbl, "name"),
		Description: getString(tbl, "description"),
		Danger:      getInt(tbl, "danger"),
		Exits:       toStringMap(getTable(tbl, "exits")),
		NPCs:        toStringSlice(getTable(tbl, "npcs")),
		Shops:       toStringSlice(getTable(tbl, "shops")),
		Objects:     toStringSlice(getTable(tbl, "objects")),
		Enemies:     toStringSlice(getTable(tbl, "enemies")),
	}
	if bossTbl := getTable(tbl, "boss"); bossTbl != nil {
		def.Boss = &catalog.BossDef{
			Monster: getString(bossTbl, "monster"),
			Trigger: getString(bossTbl, "trigger"),
			Value:   getInt(bossTbl, "value"),
			Target:  getString(bossTbl, "target"),
		}
	}
	return def
}

func compileNPC(raw rawDef) catalog.NPCDef {
	tbl := raw.table
	return catalog.NPCDef{
		ID:          raw.id,
		Name:        getString(tbl, "name"),
		Description: getString(tbl, "description"),
		Dialogue:    toStringSlice(getTable(tbl, "dialogue")),
		Quest:       getString(tbl, "quest"),
	}
}

func compileShop(raw rawDef) catalog.ShopDef {
	tbl := raw.table
	return catalog.ShopDef{
		ID:       raw.id,
		Name:     getString(tbl, "name"),
		Greeting: getString(tbl, "greeting"),
		Items:    toStringSlice(getTable(tbl, "items")),
	}
}

func compileSecret(raw rawDef) catalog.SecretDef {
	tbl := raw.table
	def := catalog.SecretDef{
		ID:          raw.id,
		Name:        getString(tbl, "name"),
		Description: getString(tbl, "description"),
		Location:    getString(tbl, "location"),
		Object:      getString(tbl, "object"),
	}
	if trigTbl := getTable(tbl, "trigger"); trigTbl != nil {
		def.Trigger = catalog.SecretTrigger{
			Type:  getString(trigTbl, "type"),
			Count: getInt(trigTbl, "count"),
			Item:  getString(trigTbl, "item"),
			Title: getString(trigTbl, "title"),
			Skill: getString(trigTbl, "skill"),
			Level: getInt(trigTbl, "level"),
		}
	}
	if effTbl := getTable(tbl, "effect"); effTbl != nil {
		def.Effect = catalog.SecretEffect{
			Type:     getString(effTbl, "type"),
			Item:     getString(effTbl, "item"),
			Skill:    getString(effTbl, "skill"),
			Location: getString(effTbl, "location"),
		}
	}
	return def
}

func compileEvent(raw rawDef) catalog.EventDef {
	tbl := raw.table
	def := catalog.EventDef{
		ID:          raw.id,
		Name:        getString(tbl, "name"),
		Description: getString(tbl, "description"),
		Duration:    getIntDefault(tbl, "duration", 1),
		Modifiers:   toIntMap(getTable(tbl, "modifiers")),
	}
	if trigTbl := getTable(tbl, "trigger"); trigTbl != nil {
		def.Trigger = getString(trigTbl, "trigger")
		def.Value = getInt(trigTbl, "value")
		def.Chance = getInt(trigTbl, "chance")
		def.Repeatable = getBool(trigTbl, "repeatable", false)
		def.Interval = getInt(trigTbl, "interval")
	}
	return def
}

// Package engine is the session facade over the simulation core: it
// parses player commands, routes them between the world and combat
// engines, advances the clock, and feeds the progression and adaptive
// trackers. Front ends call Step and render the returned Result.
package engine

import (
	"strconv"
	"strings"

	"github.com/mveld/grimvale/catalog"
	"github.com/mveld/grimvale/engine/adaptive"
	"github.com/mveld/grimvale/engine/combat"
	"github.com/mveld/grimvale/engine/parser"
	"github.com/mveld/grimvale/engine/player"
	"github.com/mveld/grimvale/engine/progress"
	"github.com/mveld/grimvale/engine/rng"
	"github.com/mveld/grimvale/engine/save"
	"github.com/mveld/grimvale/engine/world"
	"github.com/mveld/grimvale/types"
)

// actionSeconds is the simulated time one world action consumes.
const actionSeconds int64 = 30

// Engine owns the full session state. Single-threaded by contract:
// every Step runs to completion before the next is accepted.
type Engine struct {
	Cat       *catalog.Catalog
	RNG       *rng.RNG
	Player    *player.Player
	World     *world.World
	Progress  *progress.Tracker
	Adaptive  *adaptive.Engine
	Encounter *combat.Encounter
}

// New creates a fresh session: a level-1 player of the campaign's
// starting class, positioned at the start location.
func New(cat *catalog.Catalog, playerName string, seed int64) *Engine {
	r := rng.New(seed)
	class, _ := cat.Class(cat.Game.StartClass)
	return &Engine{
		Cat:      cat,
		RNG:      r,
		Player:   player.New(playerName, class),
		World:    world.New(cat, r),
		Progress: progress.New(cat),
		Adaptive: adaptive.New(),
	}
}

// Intro shows the campaign intro and enters the starting location.
func (e *Engine) Intro() *types.Result {
	res := &types.Result{}
	if e.Cat.Game.Intro != "" {
		res.Say("%s", e.Cat.Game.Intro)
		res.Say("")
	}
	res.Merge(e.World.Enter(e.World.Location, e.Player))
	return res
}

// InCombat reports whether an encounter is currently active.
func (e *Engine) InCombat() bool {
	return e.Encounter != nil && e.Encounter.Status == combat.Active
}

// Step processes one player command and returns the result. Invalid
// commands are reported with no state change.
func (e *Engine) Step(input string) *types.Result {
	intent := parser.Parse(input)
	if intent.Verb == "" {
		return &types.Result{}
	}
	e.World.SetDifficulty(e.Adaptive.Modifier)
	if e.InCombat() {
		return e.combatStep(intent)
	}
	return e.worldStep(intent)
}

func (e *Engine) combatStep(intent types.Intent) *types.Result {
	enc := e.Encounter
	var res *types.Result
	switch intent.Verb {
	case "attack":
		res = enc.Attack()
	case "skill":
		id, ok := e.resolveSkill(intent.Object)
		if !ok {
			res = &types.Result{}
			res.Say("You don't know that skill.")
			return res
		}
		res = enc.UseSkill(id)
	case "use":
		id, ok := e.resolveItem(intent.Object)
		if !ok {
			res = &types.Result{}
			res.Say("You are not carrying that.")
			return res
		}
		res = enc.UseItem(id)
	case "defend":
		res = enc.Defend()
	case "analyze":
		res = enc.Analyze()
	case "flee":
		res = enc.Flee()
	case "status":
		return e.statusReport()
	default:
		res = &types.Result{}
		res.Say("In battle you can: attack, skill <name>, use <item>, defend, analyze, flee.")
		return res
	}

	e.Adaptive.Track("combat", intent.Verb)
	if enc.Status.Terminal() {
		e.resolveEncounter(res)
	}
	return res
}

// resolveEncounter fires the progression hooks exactly once per
// terminal encounter, then discards it.
func (e *Engine) resolveEncounter(res *types.Result) {
	enc := e.Encounter
	e.Encounter = nil
	enemy := enc.Enemy

	switch enc.Status {
	case combat.PlayerWon:
		e.Player.RecordKill(enemy.ID)
		if enemy.Boss {
			e.World.RecordBossDefeat(enemy.ID)
			res.Merge(e.Progress.Record("boss", enemy.ID, 1, e.Player))
		}
		res.Merge(e.World.QuestNotify(e.Player, "kill", enemy.ID, 1))
		for _, item := range enc.Loot {
			res.Merge(e.World.QuestNotify(e.Player, "collect", catalog.BaseID(item), 1))
		}
		res.Merge(e.Progress.Record("kill", enemy.ID, 1, e.Player))
		res.Merge(e.Progress.Record("combat", "victory", 1, e.Player))
		e.Adaptive.RecordOutcome(true)
	case combat.PlayerDefeated:
		e.Adaptive.RecordOutcome(false)
		e.World.SetDifficulty(e.Adaptive.Modifier)
		e.Player.HP = e.Player.MaxHP / 2
		if e.Player.HP < 1 {
			e.Player.HP = 1
		}
		res.Say("You awaken back where you started, battered but alive.")
		res.Merge(e.World.Enter(e.Cat.Game.Start, e.Player))
	case combat.PlayerFled:
		res.Merge(e.Progress.Record("combat", "flee", 1, e.Player))
	}
	e.Player.RecordAction("combat")
}

func (e *Engine) worldStep(intent types.Intent) *types.Result {
	res := &types.Result{}
	advance := false

	switch intent.Verb {
	case "look":
		res.Merge(e.World.Describe(e.Player))
	case "go":
		if intent.Object == "" {
			res.Say("Go where?")
			return res
		}
		res.Merge(e.World.Move(intent.Object, e.Player))
		e.Adaptive.Track("explore", intent.Object)
		e.Player.RecordAction("explore")
		res.Merge(e.Progress.Record("explore", "move", 1, e.Player))
		advance = true
	case "examine":
		if intent.Object == "" {
			res.Say("Examine what?")
			return res
		}
		res.Merge(e.World.Examine(intent.Object, e.Player))
		e.Adaptive.Track("explore", "examine")
		e.Player.RecordAction("explore")
		advance = true
	case "talk":
		if intent.Object == "" {
			res.Say("Talk to whom?")
			return res
		}
		res.Merge(e.World.Talk(intent.Object, e.Player))
		e.Adaptive.Track("social", "talk")
		e.Player.RecordAction("social")
		advance = true
	case "accept":
		res.Merge(e.World.AcceptQuest(intent.Object, e.Player))
		e.Adaptive.Track("social", "quest")
	case "quests":
		e.questLog(res)
	case "shop":
		res.Merge(e.World.ShopListing())
		e.Adaptive.Track("social", "shop")
	case "buy":
		index, err := strconv.Atoi(intent.Object)
		if err != nil {
			res.Say("Buy which number? Try 'shop' to see the list.")
			return res
		}
		res.Merge(e.World.Buy(index, e.Player))
		e.Adaptive.Track("social", "buy")
		advance = true
	case "sell":
		if intent.Object == "" {
			res.Say("Sell what?")
			return res
		}
		res.Merge(e.World.Sell(intent.Object, e.Player))
		e.Adaptive.Track("social", "sell")
		advance = true
	case "inventory":
		e.inventoryReport(res)
	case "equip":
		e.equip(intent.Object, res)
		advance = true
	case "unequip":
		e.unequip(intent.Object, res)
		advance = true
	case "use":
		id, ok := e.resolveItem(intent.Object)
		if !ok {
			res.Say("You are not carrying that.")
			return res
		}
		applied, err := e.Player.UseItem(id, e.Cat)
		if err != nil {
			res.Say("%v.", err)
			return res
		}
		def, _ := e.Cat.Item(id)
		res.Say("You use %s.", def.Name)
		if hp := applied["hp"]; hp > 0 {
			res.Say("Restored %d hp.", hp)
		}
		if mp := applied["mp"]; mp > 0 {
			res.Say("Restored %d mp.", mp)
		}
		advance = true
	case "status":
		return e.statusReport()
	case "skills":
		e.skillReport(res)
	case "achievements":
		for _, line := range e.Progress.Summary() {
			res.Say("%s", line)
		}
	case "titles":
		e.titleReport(res)
	case "title":
		if err := e.Player.SetActiveTitle(intent.Object); err != nil {
			res.Say("%v.", err)
			return res
		}
		if intent.Object == "" {
			res.Say("Active title cleared.")
		} else {
			res.Say("Active title set.")
		}
	case "attack":
		return e.startCombat(intent.Object)
	case "rest":
		res.Merge(e.World.Rest(e.Player))
		e.Player.RecordAction("rest")
	case "wait":
		res.Say("Time passes.")
		advance = true
	case "events":
		names := e.World.EventNames()
		if len(names) == 0 {
			res.Say("The world is quiet.")
		}
		for _, name := range names {
			res.Say("%s", name)
		}
	case "advice":
		for _, line := range e.Adaptive.Describe() {
			res.Say("%s", line)
		}
		if loc := e.World.Here(); loc.Danger > 0 {
			rating := e.Adaptive.ChallengeRating(float64(loc.Danger), float64(len(loc.Enemies)))
			res.Say("This area rates %.1f against your record.", rating)
		}
	default:
		res.Say("I don't understand that.")
		return res
	}

	if advance {
		res.Merge(e.World.Advance(actionSeconds, e.Player))
	}
	return res
}

// startCombat opens an encounter against a named ambient enemy, or
// the nearest one when unnamed.
func (e *Engine) startCombat(name string) *types.Result {
	res := &types.Result{}
	var target *combat.Monster
	if name == "" {
		if len(e.World.Ambient) == 0 {
			res.Say("There is nothing here to fight.")
			return res
		}
		target = e.World.Ambient[0]
	} else {
		m, ok := e.World.FindAmbient(name)
		if !ok {
			res.Say("There is no such enemy here.")
			return res
		}
		target = m
	}

	def, ok := e.Cat.Monster(target.ID)
	if !ok {
		res.Say("There is no such enemy here.")
		return res
	}
	e.World.RemoveAmbient(target.UID)
	e.Encounter = combat.New(e.Cat, e.RNG, e.Player)
	res.Merge(e.Encounter.Start(def, target.Level))
	e.Adaptive.Track("combat", "engage")
	e.Player.RecordAction("combat")
	if e.Encounter.Status.Terminal() {
		e.resolveEncounter(res)
	}
	return res
}

func (e *Engine) statusReport() *types.Result {
	res := &types.Result{}
	p := e.Player
	res.Say("%s — level %d %s", p.Name, p.Level, e.className())
	res.Say("hp %d/%d  mp %d/%d  gold %d", p.HP, p.MaxHP, p.MP, p.MaxMP, p.Gold)
	res.Say("xp %d/%d", p.XP, p.XPThreshold())
	stats := p.EffectiveStats(e.Cat)
	res.Say("attack %d  defense %d  luck %d", stats.Get("attack"), stats.Get("defense"), stats.Get("luck"))
	if p.ActiveTitle != "" {
		if def, ok := e.Cat.Title(p.ActiveTitle); ok {
			res.Say("title: %s", def.Name)
		}
	}
	for _, eff := range p.Effects {
		res.Say("%s: %s %+d (%d rounds)", eff.Name, eff.Stat, eff.Amount, eff.Remaining)
	}
	return res
}

func (e *Engine) className() string {
	if def, ok := e.Cat.Class(e.Player.Class); ok {
		return def.Name
	}
	return e.Player.Class
}

func (e *Engine) inventoryReport(res *types.Result) {
	p := e.Player
	if len(p.Inventory) == 0 && len(p.Equipment) == 0 {
		res.Say("You are carrying nothing.")
		return
	}
	for _, id := range p.Inventory {
		if def, ok := e.Cat.Item(id); ok {
			res.Say("  %s", def.Name)
		}
	}
	for slot, id := range p.Equipment {
		if def, ok := e.Cat.Item(id); ok {
			res.Say("  %s (equipped, %s)", def.Name, slot)
		}
	}
	res.Say("Gold: %d", p.Gold)
}

func (e *Engine) questLog(res *types.Result) {
	p := e.Player
	if len(p.Quests) == 0 && len(p.Completed) == 0 {
		res.Say("Your journal is empty.")
		return
	}
	for id, progress := range p.Quests {
		def, ok := e.Cat.Quest(id)
		if !ok {
			continue
		}
		res.Say("%s", def.Name)
		for _, obj := range def.Objectives {
			op := progress.Objectives[obj.ID]
			if op == nil {
				continue
			}
			current := op.Current
			if current > obj.Count {
				current = obj.Count
			}
			res.Say("  %s: %d/%d", e.objectiveLabel(obj), current, obj.Count)
		}
	}
	for _, id := range p.Completed {
		if def, ok := e.Cat.Quest(id); ok {
			res.Say("%s (complete)", def.Name)
		}
	}
}

func (e *Engine) objectiveLabel(obj catalog.ObjectiveDef) string {
	target := obj.Target
	switch obj.Type {
	case "kill":
		if def, ok := e.Cat.Monster(obj.Target); ok {
			target = def.Name
		}
		return "Defeat " + target
	case "collect":
		if def, ok := e.Cat.Item(obj.Target); ok {
			target = def.Name
		}
		return "Collect " + target
	case "interact":
		if def, ok := e.Cat.NPC(obj.Target); ok {
			target = def.Name
		}
		return "Speak with " + target
	}
	return target
}

func (e *Engine) skillReport(res *types.Result) {
	p := e.Player
	if len(p.Skills) == 0 {
		res.Say("You know no skills.")
		return
	}
	for _, def := range e.Cat.AllSkills() {
		rank, ok := p.Skills[def.ID]
		if !ok {
			continue
		}
		res.Say("  %s (level %d) — %s, %d mp", def.Name, rank.Level, def.Type, def.MPCost)
	}
}

func (e *Engine) titleReport(res *types.Result) {
	p := e.Player
	if len(p.Titles) == 0 {
		res.Say("You have earned no titles.")
		return
	}
	for _, id := range p.Titles {
		def, ok := e.Cat.Title(id)
		if !ok {
			continue
		}
		marker := ""
		if id == p.ActiveTitle {
			marker = " (active)"
		}
		res.Say("  %s%s — %s", def.Name, marker, def.Description)
	}
}

func (e *Engine) equip(name string, res *types.Result) {
	id, ok := e.resolveItem(name)
	if !ok {
		res.Say("You are not carrying that.")
		return
	}
	if err := e.Player.Equip(id, e.Cat); err != nil {
		res.Say("%v.", err)
		return
	}
	def, _ := e.Cat.Item(id)
	res.Say("You equip %s.", def.Name)
}

func (e *Engine) unequip(name string, res *types.Result) {
	p := e.Player
	// Accept either a slot name or the equipped item's name.
	if _, ok := p.Equipment[name]; ok {
		id := p.Equipment[name]
		p.Unequip(name)
		if def, ok := e.Cat.Item(id); ok {
			res.Say("You remove %s.", def.Name)
		}
		return
	}
	for slot, id := range p.Equipment {
		def, ok := e.Cat.Item(id)
		if !ok {
			continue
		}
		if strings.EqualFold(name, def.Name) || strings.EqualFold(name, def.ID) {
			p.Unequip(slot)
			res.Say("You remove %s.", def.Name)
			return
		}
	}
	res.Say("Nothing equipped by that name.")
}

// resolveItem matches an inventory entry by template id or display
// name.
func (e *Engine) resolveItem(name string) (string, bool) {
	if name == "" {
		return "", false
	}
	for _, held := range e.Player.Inventory {
		def, ok := e.Cat.Item(held)
		if !ok {
			continue
		}
		if strings.EqualFold(name, def.ID) || strings.EqualFold(name, def.Name) {
			return held, true
		}
	}
	return "", false
}

// resolveSkill matches a learned skill by id or display name.
func (e *Engine) resolveSkill(name string) (string, bool) {
	if name == "" {
		return "", false
	}
	for id := range e.Player.Skills {
		def, ok := e.Cat.Skill(id)
		if !ok {
			continue
		}
		if strings.EqualFold(name, def.ID) || strings.EqualFold(name, def.Name) {
			return id, true
		}
	}
	return "", false
}

// Snapshot captures the session for persistence.
func (e *Engine) Snapshot() *save.SaveData {
	return save.Snapshot(e.Cat.Game.Version, e.Player, e.World, e.Progress, e.Adaptive, e.RNG)
}

// SaveSlot writes the session to a numbered slot.
func (e *Engine) SaveSlot(dir string, slot int) error {
	data, err := save.Marshal(e.Snapshot())
	if err != nil {
		return err
	}
	return save.WriteSlot(dir, slot, data)
}

// LoadSlot replaces the session state from a numbered slot. A corrupt
// or missing snapshot leaves the session untouched.
func (e *Engine) LoadSlot(dir string, slot int) error {
	data, err := save.ReadSlot(dir, slot)
	if err != nil {
		return err
	}
	sd, err := save.Load(data)
	if err != nil {
		return err
	}
	p, w, t, a, r := save.Apply(sd, e.Cat)
	e.Player = p
	e.World = w
	e.Progress = t
	e.Adaptive = a
	e.RNG = r
	e.Encounter = nil
	return nil
}

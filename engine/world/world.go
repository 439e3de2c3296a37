// Package world owns the location graph, the world clock, dynamic
// events, and the NPC/shop/quest/secret interaction surface. It
// populates encounters for the combat engine but never resolves them.
package world

import (
	"fmt"
	"sort"
	"strings"

	"github.com/mveld/grimvale/catalog"
	"github.com/mveld/grimvale/engine/combat"
	"github.com/mveld/grimvale/engine/player"
	"github.com/mveld/grimvale/engine/rng"
	"github.com/mveld/grimvale/types"
)

const (
	maxAmbient    = 10
	firstVisitXP  = 20
	titleWanderer = "wanderer"
	titleExplorer = "pathfinder"
)

// Exploration title thresholds: distinct locations visited.
const (
	wandererVisits = 5
	explorerVisits = 10
)

// Difficulty thresholds where spawn levels shift by one.
const (
	hardScale = 1.5
	easyScale = 0.7
)

// ActiveEvent is a fired world event counting down its duration.
type ActiveEvent struct {
	ID        string `json:"id"`
	Remaining int    `json:"remaining"`
}

// World is the mutable world state for one session. Exported fields
// are the persistence surface; the catalog and random source are
// injected on construction and after load.
type World struct {
	Location string
	Elapsed  int64
	Visited  map[string]bool
	Visits   map[string]int
	Counts   map[string]int // examine/talk counters, keyed "examine:loc/obj"
	Ambient  []*combat.Monster
	Events   []*ActiveEvent
	Fired    map[string]bool // one-shot events that may never refire
	Secrets  map[string]bool // unlocked secret ids
	Bosses   map[string]bool // defeated boss monster ids
	Synth    map[string]catalog.LocationDef

	cat        *catalog.Catalog
	rand       *rng.RNG
	difficulty float64
	lastDay    int
	lastPeriod types.TimeOfDay
}

// New creates a world positioned at the campaign start.
func New(cat *catalog.Catalog, r *rng.RNG) *World {
	return &World{
		Location:   cat.Game.Start,
		Visited:    map[string]bool{},
		Visits:     map[string]int{},
		Counts:     map[string]int{},
		Fired:      map[string]bool{},
		Secrets:    map[string]bool{},
		Bosses:     map[string]bool{},
		Synth:      map[string]catalog.LocationDef{},
		cat:        cat,
		rand:       r,
		difficulty: 1.0,
		lastDay:    1,
		lastPeriod: types.TimeDay,
	}
}

// SetDifficulty updates the population scale. The session layer feeds
// it from the adaptive modifier before world actions run.
func (w *World) SetDifficulty(f float64) {
	if f <= 0 {
		f = 1.0
	}
	w.difficulty = f
}

// Rebind re-injects the catalog and random source after a load, then
// repairs nil maps and the derived clock markers.
func (w *World) Rebind(cat *catalog.Catalog, r *rng.RNG) {
	w.cat = cat
	w.rand = r
	if w.Visited == nil {
		w.Visited = map[string]bool{}
	}
	if w.Visits == nil {
		w.Visits = map[string]int{}
	}
	if w.Counts == nil {
		w.Counts = map[string]int{}
	}
	if w.Fired == nil {
		w.Fired = map[string]bool{}
	}
	if w.Secrets == nil {
		w.Secrets = map[string]bool{}
	}
	if w.Bosses == nil {
		w.Bosses = map[string]bool{}
	}
	if w.Synth == nil {
		w.Synth = map[string]catalog.LocationDef{}
	}
	if w.difficulty == 0 {
		w.difficulty = 1.0
	}
	w.lastDay = w.Day()
	w.lastPeriod = w.Period()
}

// Loc resolves a location id against the catalog, then against
// runtime-synthesized locations.
func (w *World) Loc(id string) (catalog.LocationDef, bool) {
	if def, ok := w.cat.Location(id); ok {
		return def, true
	}
	def, ok := w.Synth[id]
	return def, ok
}

// Here is the current location.
func (w *World) Here() catalog.LocationDef {
	def, _ := w.Loc(w.Location)
	return def
}

// Move validates a direction against the current location's exits and
// enters the destination. Invalid directions and dangling targets
// leave state unchanged.
func (w *World) Move(dir string, p *player.Player) *types.Result {
	res := &types.Result{}
	here := w.Here()
	target, ok := here.Exits[dir]
	if !ok {
		res.Say("You can't go %s from here.", dir)
		return res
	}
	if _, ok := w.Loc(target); !ok {
		res.Say("The way %s is impassable.", dir)
		return res
	}
	res.Merge(w.Enter(target, p))
	return res
}

// Enter moves the player to a location, updates exploration metrics,
// grants the one-time first-visit bonus, and repopulates enemies.
func (w *World) Enter(id string, p *player.Player) *types.Result {
	res := &types.Result{}
	if _, ok := w.Loc(id); !ok {
		res.Say("That place does not exist.")
		return res
	}
	w.Location = id
	w.Visits[id]++

	if !w.Visited[id] {
		w.Visited[id] = true
		res.Say("New ground: +%d experience.", firstVisitXP)
		if levels := p.GainXP(firstVisitXP, w.cat); levels > 0 {
			res.Say("You are now level %d!", p.Level)
		}
		w.checkExplorationTitles(p, res)
	}

	res.Merge(w.Describe(p))
	w.populate(p, res)
	return res
}

func (w *World) checkExplorationTitles(p *player.Player, res *types.Result) {
	n := len(w.Visited)
	if n >= wandererVisits {
		w.grantTitle(p, titleWanderer, res)
	}
	if n >= explorerVisits {
		w.grantTitle(p, titleExplorer, res)
	}
}

// Describe reports the current location: description, time, exits,
// inhabitants, and ambient enemies.
func (w *World) Describe(p *player.Player) *types.Result {
	res := &types.Result{}
	loc := w.Here()
	res.Say("%s", loc.Name)
	if loc.Description != "" {
		res.Say("%s", loc.Description)
	}
	res.Say("It is %s on day %d.", w.Period(), w.Day())

	if len(loc.Exits) > 0 {
		dirs := make([]string, 0, len(loc.Exits))
		for dir := range loc.Exits {
			dirs = append(dirs, dir)
		}
		sort.Strings(dirs)
		res.Say("Exits: %s", strings.Join(dirs, ", "))
	}
	for _, id := range loc.NPCs {
		if def, ok := w.cat.NPC(id); ok {
			res.Say("%s is here.", def.Name)
		}
	}
	for _, id := range loc.Shops {
		if def, ok := w.cat.Shop(id); ok {
			res.Say("%s is open for trade.", def.Name)
		}
	}
	for _, obj := range loc.Objects {
		res.Say("You notice %s.", displayName(obj))
	}
	for _, m := range w.Ambient {
		res.Say("A %s (level %d) lurks nearby.", m.Name, m.Level)
	}
	return res
}

// populate clears and refills the ambient enemy list from the
// location's pool, bounded by danger level, then runs the boss check.
func (w *World) populate(p *player.Player, res *types.Result) {
	w.Ambient = nil
	loc := w.Here()
	danger := loc.Danger + w.ActiveModifier("danger")
	if danger < 0 {
		danger = 0
	}
	if danger == 0 || len(loc.Enemies) == 0 {
		w.bossCheck(p, res)
		return
	}

	count := int(float64(w.rand.Between(danger, 2*danger+1)) * w.difficulty)
	if count < 1 {
		count = 1
	}
	if w.Period() == types.TimeNight {
		count++
	}
	if count > maxAmbient {
		count = maxAmbient
	}

	for i := 0; i < count; i++ {
		id := loc.Enemies[w.rand.Pick(len(loc.Enemies))]
		def, ok := w.cat.Monster(id)
		if !ok {
			continue
		}
		level := p.Level + w.rand.Between(-1, 1) + w.levelBias()
		if level < 1 {
			level = 1
		}
		w.Ambient = append(w.Ambient, combat.Spawn(def, level))
	}
	w.bossCheck(p, res)
}

// levelBias shifts spawn levels by one at the modifier extremes.
func (w *World) levelBias() int {
	switch {
	case w.difficulty >= hardScale:
		return 1
	case w.difficulty <= easyScale:
		return -1
	}
	return 0
}

// bossCheck may add the location's boss to the ambient list. A boss
// recorded as defeated never respawns.
func (w *World) bossCheck(p *player.Player, res *types.Result) {
	loc := w.Here()
	boss := loc.Boss
	if boss == nil || w.Bosses[boss.Monster] {
		return
	}

	triggered := false
	switch boss.Trigger {
	case "random":
		triggered = w.rand.Chance(boss.Value)
	case "exploration_count":
		triggered = w.Visits[loc.ID] >= boss.Value
	case "kill_count":
		triggered = p.Kills[boss.Target] >= boss.Value
	}
	if !triggered {
		return
	}

	def, ok := w.cat.Monster(boss.Monster)
	if !ok {
		return
	}
	level := p.Level + 2 + w.levelBias()
	if level < 5 {
		level = 5
	}
	m := combat.Spawn(def, level)
	w.Ambient = append(w.Ambient, m)
	res.Say("A terrible presence stirs: %s has appeared!", m.Name)
	res.Emit("boss_spawned", map[string]any{"monster": m.ID, "level": m.Level})
}

// FindAmbient resolves a name or id against the ambient enemy list.
func (w *World) FindAmbient(name string) (*combat.Monster, bool) {
	for _, m := range w.Ambient {
		if matches(name, m.ID, m.Name) {
			return m, true
		}
	}
	return nil, false
}

// RemoveAmbient drops a monster from the ambient list (it entered
// combat or was defeated).
func (w *World) RemoveAmbient(uid string) {
	for i, m := range w.Ambient {
		if m.UID == uid {
			w.Ambient = append(w.Ambient[:i], w.Ambient[i+1:]...)
			return
		}
	}
}

// RecordBossDefeat permanently retires a boss monster type.
func (w *World) RecordBossDefeat(monsterID string) {
	w.Bosses[monsterID] = true
}

// matches does case-insensitive comparison against an id or display
// name.
func matches(input, id, name string) bool {
	in := strings.ToLower(strings.TrimSpace(input))
	return in == strings.ToLower(id) || in == strings.ToLower(name)
}

// displayName derives a readable name from an id: "old_well" -> "Old
// Well".
func displayName(id string) string {
	words := strings.Split(id, "_")
	for i, word := range words {
		if len(word) > 0 {
			words[i] = strings.ToUpper(word[:1]) + word[1:]
		}
	}
	return strings.Join(words, " ")
}

// SynthesizeLocation inserts a runtime-only location into the graph
// with a single exit back to the origin. Used by secret teleports
// whose destination is not in the static catalog.
func (w *World) SynthesizeLocation(id, from string) catalog.LocationDef {
	if def, ok := w.Loc(id); ok {
		return def
	}
	def := catalog.LocationDef{
		ID:          id,
		Name:        displayName(id),
		Description: "A place that appears on no map.",
		Exits:       map[string]string{"back": from},
	}
	w.Synth[id] = def
	return def
}

// ActiveModifier sums the named modifier across active events.
func (w *World) ActiveModifier(name string) int {
	total := 0
	for _, ae := range w.Events {
		if def, ok := w.cat.Event(ae.ID); ok {
			total += def.Modifiers[name]
		}
	}
	return total
}

// eventActive reports whether an event id is currently running.
func (w *World) eventActive(id string) bool {
	for _, ae := range w.Events {
		if ae.ID == id {
			return true
		}
	}
	return false
}

// eventPass ages active events and evaluates triggers for the given
// day. Non-repeatable events are guarded by the permanent fired set,
// so a fired-and-expired one-shot never refires even across a long
// elapsed jump.
func (w *World) eventPass(day int, res *types.Result) {
	kept := w.Events[:0]
	for _, ae := range w.Events {
		ae.Remaining--
		if ae.Remaining <= 0 {
			if def, ok := w.cat.Event(ae.ID); ok {
				res.Say("%s has passed.", def.Name)
			}
			continue
		}
		kept = append(kept, ae)
	}
	w.Events = kept

	for _, def := range w.cat.AllEvents() {
		if w.eventActive(def.ID) {
			continue
		}
		fire := false
		switch def.Trigger {
		case "day_count":
			if def.Repeatable && def.Interval > 0 {
				fire = day >= def.Value && (day-def.Value)%def.Interval == 0
			} else {
				fire = day == def.Value && !w.Fired[def.ID]
			}
		case "random":
			fire = !w.Fired[def.ID] && w.rand.Chance(def.Chance)
		}
		if !fire {
			continue
		}
		if !def.Repeatable {
			w.Fired[def.ID] = true
		}
		w.Events = append(w.Events, &ActiveEvent{ID: def.ID, Remaining: def.Duration})
		res.Say("%s", def.Name)
		if def.Description != "" {
			res.Say("%s", def.Description)
		}
		res.Emit("world_event", map[string]any{"event": def.ID})
	}
}

// EventNames lists currently active events for display.
func (w *World) EventNames() []string {
	var names []string
	for _, ae := range w.Events {
		if def, ok := w.cat.Event(ae.ID); ok {
			names = append(names, fmt.Sprintf("%s (%d days left)", def.Name, ae.Remaining))
		}
	}
	return names
}

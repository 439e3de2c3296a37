// Package player holds the mutable player entity: stats, resources,
// inventory, equipment, skills, titles, quest logs, and counters.
// Everything here is owned by exactly one subsystem at a time; combat
// mutates hp/mp during an encounter, the world engine between them.
package player

import (
	"github.com/mveld/grimvale/catalog"
	"github.com/mveld/grimvale/types"
)

// SkillRank tracks one learned skill's independent growth.
type SkillRank struct {
	Level int `json:"level"`
	XP    int `json:"xp"`
}

// ObjectiveProgress tracks one quest objective.
type ObjectiveProgress struct {
	Current int  `json:"current"`
	Done    bool `json:"done"`
}

// QuestProgress is the player-side mirror of a quest's objectives.
type QuestProgress struct {
	Objectives map[string]*ObjectiveProgress `json:"objectives"`
}

// Player is the single long-lived entity of a session.
type Player struct {
	Name        string                    `json:"name"`
	Class       string                    `json:"class"`
	Level       int                       `json:"level"`
	XP          int                       `json:"xp"`
	HP          int                       `json:"hp"`
	MaxHP       int                       `json:"max_hp"`
	MP          int                       `json:"mp"`
	MaxMP       int                       `json:"max_mp"`
	Gold        int                       `json:"gold"`
	Stats       types.Stats               `json:"stats"`
	Inventory   []string                  `json:"inventory"`
	Equipment   map[string]string         `json:"equipment"`
	Skills      map[string]*SkillRank     `json:"skills"`
	Titles      []string                  `json:"titles"`
	ActiveTitle string                    `json:"active_title,omitempty"`
	Effects     []types.StatusEffect      `json:"effects,omitempty"`
	Kills       map[string]int            `json:"kills"`
	Actions     map[string]int            `json:"actions"`
	Quests      map[string]*QuestProgress `json:"quests"`
	Completed   []string                  `json:"completed_quests"`
}

// New creates a level-1 player from a class template. Nested structures
// are copied so the template is never aliased.
func New(name string, class catalog.ClassDef) *Player {
	p := &Player{
		Name:      name,
		Class:     class.ID,
		Level:     1,
		HP:        class.HP,
		MaxHP:     class.HP,
		MP:        class.MP,
		MaxMP:     class.MP,
		Gold:      50,
		Stats:     class.Stats.Clone(),
		Inventory: []string{},
		Equipment: map[string]string{},
		Skills:    map[string]*SkillRank{},
		Kills:     map[string]int{},
		Actions:   map[string]int{},
		Quests:    map[string]*QuestProgress{},
	}
	if p.Stats == nil {
		p.Stats = types.Stats{}
	}
	for _, id := range class.Skills {
		p.Skills[id] = &SkillRank{Level: 1}
	}
	return p
}

// XPThreshold is the experience needed to clear the current level.
func (p *Player) XPThreshold() int {
	return 100 * p.Level
}

// GainXP adds experience (scaled by the active title's xp_gain effect)
// and levels up while the threshold is cleared. Each level restores
// hp/mp to the new maximum and applies class stat growth. Returns the
// number of levels gained.
func (p *Player) GainXP(amount int, cat *catalog.Catalog) int {
	if amount <= 0 {
		return 0
	}
	scaled := float64(amount) * p.titleEffect(cat, "xp_gain", 1)
	p.XP += int(scaled)

	levels := 0
	for p.XP >= p.XPThreshold() {
		p.XP -= p.XPThreshold()
		p.Level++
		levels++
		p.applyGrowth(cat)
		p.HP = p.MaxHP
		p.MP = p.MaxMP
	}
	return levels
}

func (p *Player) applyGrowth(cat *catalog.Catalog) {
	class, ok := cat.Class(p.Class)
	if !ok {
		return
	}
	for stat, gain := range class.Growth {
		p.Stats[stat] += gain
	}
	p.MaxHP += 10
	p.MaxMP += 5
}

// EffectiveStats derives the current stat totals: base stats, equipped
// item bonuses, the active title's flat boosts, and status effect
// amounts. The base map is never modified.
func (p *Player) EffectiveStats(cat *catalog.Catalog) types.Stats {
	out := p.Stats.Clone()
	for _, itemID := range p.Equipment {
		if def, ok := cat.Item(itemID); ok {
			for stat, bonus := range def.Stats {
				out[stat] += bonus
			}
		}
	}
	if p.ActiveTitle != "" {
		if def, ok := cat.Title(p.ActiveTitle); ok {
			for name, amount := range def.Effects {
				if name == "xp_gain" {
					continue
				}
				out[name] += int(amount)
			}
		}
	}
	for _, eff := range p.Effects {
		out[eff.Stat] += eff.Amount
	}
	return out
}

// Attack is the player's current attack stat.
func (p *Player) Attack(cat *catalog.Catalog) int {
	return p.EffectiveStats(cat).Get("attack")
}

// Defense is the player's current defense stat.
func (p *Player) Defense(cat *catalog.Catalog) int {
	return p.EffectiveStats(cat).Get("defense")
}

// LuckMultiplier scales loot drop chances.
func (p *Player) LuckMultiplier(cat *catalog.Catalog) float64 {
	return 1 + float64(p.EffectiveStats(cat).Get("luck"))/100
}

func (p *Player) titleEffect(cat *catalog.Catalog, name string, def float64) float64 {
	if p.ActiveTitle == "" {
		return def
	}
	t, ok := cat.Title(p.ActiveTitle)
	if !ok {
		return def
	}
	if v, ok := t.Effects[name]; ok {
		return v
	}
	return def
}

// Heal restores hp, capped at max. Returns the amount actually healed.
func (p *Player) Heal(amount int) int {
	if amount < 0 {
		return 0
	}
	missing := p.MaxHP - p.HP
	if amount > missing {
		amount = missing
	}
	p.HP += amount
	return amount
}

// RestoreMP restores mp, capped at max. Returns the amount restored.
func (p *Player) RestoreMP(amount int) int {
	if amount < 0 {
		return 0
	}
	missing := p.MaxMP - p.MP
	if amount > missing {
		amount = missing
	}
	p.MP += amount
	return amount
}

// AddStatusEffect appends a timed modifier.
func (p *Player) AddStatusEffect(eff types.StatusEffect) {
	p.Effects = append(p.Effects, eff)
}

// TickEffects decrements every effect's remaining duration and drops
// the expired ones, returning them.
func (p *Player) TickEffects() []types.StatusEffect {
	var expired []types.StatusEffect
	kept := p.Effects[:0]
	for i := range p.Effects {
		p.Effects[i].Remaining--
		if p.Effects[i].Remaining <= 0 {
			expired = append(expired, p.Effects[i])
			continue
		}
		kept = append(kept, p.Effects[i])
	}
	p.Effects = kept
	return expired
}

// ClearEffects discards all status effects (end of an encounter).
func (p *Player) ClearEffects() {
	p.Effects = nil
}

// RecordKill bumps the kill counter for a monster type.
func (p *Player) RecordKill(monsterID string) {
	p.Kills[monsterID]++
}

// RecordAction bumps the action counter for an action kind.
func (p *Player) RecordAction(kind string) {
	p.Actions[kind]++
}

// Normalize repairs nil maps and slices after a load, so downstream
// code never guards against a partially populated snapshot.
func (p *Player) Normalize() {
	if p.Stats == nil {
		p.Stats = types.Stats{}
	}
	if p.Inventory == nil {
		p.Inventory = []string{}
	}
	if p.Equipment == nil {
		p.Equipment = map[string]string{}
	}
	if p.Skills == nil {
		p.Skills = map[string]*SkillRank{}
	}
	if p.Kills == nil {
		p.Kills = map[string]int{}
	}
	if p.Actions == nil {
		p.Actions = map[string]int{}
	}
	if p.Quests == nil {
		p.Quests = map[string]*QuestProgress{}
	}
}

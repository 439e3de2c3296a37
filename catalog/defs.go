// Package catalog holds the immutable template definitions every
// spawnable entity is copied from, plus the Catalog container built
// once at startup by the loader. Templates are never mutated after
// load; runtime code copies what it needs.
package catalog

import "github.com/mveld/grimvale/types"

// GameDef carries campaign metadata and the starting setup.
type GameDef struct {
	Title      string
	Author     string
	Version    string
	Intro      string
	Start      string // starting location id
	StartClass string // class id new players are created from
}

// ItemDef is an item template. Slot is non-empty for equippable items.
// Effect names consumable payloads (hp, mp) applied on use; Stats are
// bonuses granted while equipped.
type ItemDef struct {
	ID          string
	Name        string
	Description string
	Slot        string
	Value       int
	Rarity      string
	Unsellable  bool
	Effect      map[string]int
	Stats       types.Stats
}

// LootEntry is one independent percent-chance drop roll.
type LootEntry struct {
	Item   string
	Chance int
}

// MonsterDef is a monster template at its base level.
type MonsterDef struct {
	ID          string
	Name        string
	Description string
	Level       int
	HP          int
	Attack      int
	Defense     int
	XP          int
	Boss        bool
	Abilities   []string // skill ids
	Loot        []LootEntry
}

// SkillDef declares one skill. Type is one of damage, heal, buff,
// debuff, special. Stat and Duration apply to buff/debuff; Special
// names the flag recorded for special skills.
type SkillDef struct {
	ID          string
	Name        string
	Description string
	Type        string
	Power       int
	MPCost      int
	Stat        string
	Duration    int
	Special     string
	Growth      float64 // skill xp threshold multiplier, defaults to 1
}

// ClassDef is a player class template: base stats, base resource
// pools, starting skills, and per-level stat growth.
type ClassDef struct {
	ID          string
	Name        string
	Description string
	HP          int
	MP          int
	Stats       types.Stats
	Growth      types.Stats
	Skills      []string
}

// ObjectiveDef is one quest objective. Type is interact, kill, or
// collect; Target references an npc/monster/item id.
type ObjectiveDef struct {
	ID     string
	Type   string
	Target string
	Count  int
}

// QuestDef is a quest template. Rewards are applied exactly once on
// completion.
type QuestDef struct {
	ID          string
	Name        string
	Description string
	Giver       string // npc id offering this quest
	Objectives  []ObjectiveDef
	RewardXP    int
	RewardGold  int
	RewardItems []string
}

// AchievementDef declares a progress-counter achievement. Action may
// be empty to match any action within the category. Title, when set,
// is awarded alongside the unlock.
type AchievementDef struct {
	ID          string
	Name        string
	Description string
	Category    string
	Action      string
	Goal        int
	Title       string
}

// TitleDef is an earnable title. Effects are named numeric modifiers
// (xp_gain multiplier, flat stat boosts) active only while the title
// is the player's active one.
type TitleDef struct {
	ID          string
	Name        string
	Description string
	Effects     map[string]float64
}

// BossDef attaches a boss spawn to a location. Trigger is random,
// exploration_count, or kill_count; Value is the threshold (or the
// percent chance for random); Target names the monster type counted
// by kill_count.
type BossDef struct {
	Monster string
	Trigger string
	Value   int
	Target  string
}

// LocationDef is a node in the world graph.
type LocationDef struct {
	ID          string
	Name        string
	Description string
	Danger      int
	Exits       map[string]string
	NPCs        []string
	Shops       []string
	Objects     []string
	Enemies     []string // ambient enemy type pool
	Boss        *BossDef
}

// NPCDef is a non-player character. Dialogue lines are spoken in
// order, cycling; Quest names a quest this npc offers.
type NPCDef struct {
	ID          string
	Name        string
	Description string
	Dialogue    []string
	Quest       string
}

// ShopDef is a merchant inventory. Items are item ids; purchase is by
// 1-based index into this list.
type ShopDef struct {
	ID       string
	Name     string
	Greeting string
	Items    []string
}

// SecretTrigger gates a secret: examine_count (Count examinations of
// the object), item_required, title_required, or skill_required (at
// Level or above).
type SecretTrigger struct {
	Type  string
	Count int
	Item  string
	Title string
	Skill string
	Level int
}

// SecretEffect is what unlocking grants: give_item, reveal_skill, or
// teleport (to Location, synthesized if not in the catalog).
type SecretEffect struct {
	Type     string
	Item     string
	Skill    string
	Location string
}

// SecretDef is hidden content attached to an interactive object in a
// location, unlocked at most once.
type SecretDef struct {
	ID          string
	Name        string
	Description string
	Location    string
	Object      string
	Trigger     SecretTrigger
	Effect      SecretEffect
}

// EventDef is a world event template. Trigger is day_count (fires at
// Value, re-firing every Interval days when Repeatable) or random
// (percent Chance per check). Duration is decremented once per world
// event pass. Modifiers apply while the event is active.
type EventDef struct {
	ID          string
	Name        string
	Description string
	Trigger     string
	Value       int
	Chance      int
	Duration    int
	Repeatable  bool
	Interval    int
	Modifiers   map[string]int
}

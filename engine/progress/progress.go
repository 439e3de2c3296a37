// Package progress tracks achievement counters and unlocks, cascading
// into title awards.
package progress

import (
	"fmt"

	"github.com/mveld/grimvale/catalog"
	"github.com/mveld/grimvale/engine/player"
	"github.com/mveld/grimvale/types"
)

// Tracker accumulates per-achievement progress. Unlocking is one-way
// and idempotent: re-recording past the threshold never re-awards.
type Tracker struct {
	Progress map[string]int  `json:"progress"`
	Unlocked map[string]bool `json:"unlocked"`

	cat *catalog.Catalog
}

// New creates an empty tracker over a catalog.
func New(cat *catalog.Catalog) *Tracker {
	return &Tracker{
		Progress: map[string]int{},
		Unlocked: map[string]bool{},
		cat:      cat,
	}
}

// Rebind re-injects the catalog after a load and repairs nil maps.
func (t *Tracker) Rebind(cat *catalog.Catalog) {
	t.cat = cat
	if t.Progress == nil {
		t.Progress = map[string]int{}
	}
	if t.Unlocked == nil {
		t.Unlocked = map[string]bool{}
	}
}

// Record registers an action: every achievement in the category whose
// action key matches (or is empty) gains amount progress, unlocking
// when the goal is reached. Linked titles are awarded through the
// player's ownership check, so a second unlock path never duplicates.
func (t *Tracker) Record(category, action string, amount int, p *player.Player) *types.Result {
	res := &types.Result{}
	if amount <= 0 {
		return res
	}
	for _, def := range t.cat.AllAchievements() {
		if def.Category != category {
			continue
		}
		if def.Action != "" && def.Action != action {
			continue
		}
		t.Progress[def.ID] += amount
		if t.Unlocked[def.ID] || t.Progress[def.ID] < def.Goal {
			continue
		}
		t.Unlocked[def.ID] = true
		res.Say("Achievement unlocked: %s!", def.Name)
		res.Emit("achievement_unlocked", map[string]any{"achievement": def.ID})
		if def.Title != "" {
			if title, ok := t.cat.Title(def.Title); ok && p.AddTitle(def.Title) {
				res.Say("Title earned: %s.", title.Name)
				res.Emit("title_earned", map[string]any{"title": def.Title})
			}
		}
	}
	return res
}

// IsUnlocked reports whether an achievement has been unlocked.
func (t *Tracker) IsUnlocked(id string) bool {
	return t.Unlocked[id]
}

// Summary renders every achievement with its progress for display.
func (t *Tracker) Summary() []string {
	var lines []string
	for _, def := range t.cat.AllAchievements() {
		mark := " "
		if t.Unlocked[def.ID] {
			mark = "x"
		}
		progress := t.Progress[def.ID]
		if progress > def.Goal {
			progress = def.Goal
		}
		lines = append(lines, fmt.Sprintf("[%s] %s (%d/%d) — %s",
			mark, def.Name, progress, def.Goal, def.Description))
	}
	return lines
}

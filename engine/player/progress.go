package player

import (
	"fmt"

	"github.com/mveld/grimvale/catalog"
)

// HasSkill reports whether the player has learned a skill.
func (p *Player) HasSkill(id string) bool {
	_, ok := p.Skills[id]
	return ok
}

// LearnSkill adds a skill at level 1. Returns false if already known.
func (p *Player) LearnSkill(id string) bool {
	if _, ok := p.Skills[id]; ok {
		return false
	}
	p.Skills[id] = &SkillRank{Level: 1}
	return true
}

// SkillThreshold is the xp a skill needs to clear its current level.
func SkillThreshold(level int, growth float64) int {
	if growth <= 0 {
		growth = 1
	}
	return int(100 * float64(level) * growth)
}

// GainSkillXP adds experience to a learned skill and levels it while
// its threshold is cleared. Returns levels gained; 0 for unknown skills.
func (p *Player) GainSkillXP(id string, amount int, def catalog.SkillDef) int {
	rank, ok := p.Skills[id]
	if !ok || amount <= 0 {
		return 0
	}
	rank.XP += amount
	levels := 0
	for rank.XP >= SkillThreshold(rank.Level, def.Growth) {
		rank.XP -= SkillThreshold(rank.Level, def.Growth)
		rank.Level++
		levels++
	}
	return levels
}

// SkillLevel returns a learned skill's level, or 0.
func (p *Player) SkillLevel(id string) int {
	if rank, ok := p.Skills[id]; ok {
		return rank.Level
	}
	return 0
}

// HasTitle reports title ownership.
func (p *Player) HasTitle(id string) bool {
	for _, t := range p.Titles {
		if t == id {
			return true
		}
	}
	return false
}

// AddTitle awards a title once. The first title earned becomes active.
// Returns false if already owned.
func (p *Player) AddTitle(id string) bool {
	if p.HasTitle(id) {
		return false
	}
	p.Titles = append(p.Titles, id)
	if p.ActiveTitle == "" {
		p.ActiveTitle = id
	}
	return true
}

// SetActiveTitle switches the single active title. Only owned titles
// qualify; an empty id clears the active title.
func (p *Player) SetActiveTitle(id string) error {
	if id == "" {
		p.ActiveTitle = ""
		return nil
	}
	if !p.HasTitle(id) {
		return fmt.Errorf("title %q not earned", id)
	}
	p.ActiveTitle = id
	return nil
}

// AcceptQuest opens a quest log entry with zeroed objectives. Returns
// false if the quest is already active or completed.
func (p *Player) AcceptQuest(def catalog.QuestDef) bool {
	if p.QuestActive(def.ID) || p.QuestCompleted(def.ID) {
		return false
	}
	progress := &QuestProgress{Objectives: map[string]*ObjectiveProgress{}}
	for _, obj := range def.Objectives {
		progress.Objectives[obj.ID] = &ObjectiveProgress{}
	}
	p.Quests[def.ID] = progress
	return true
}

// QuestActive reports whether a quest is in the active log.
func (p *Player) QuestActive(id string) bool {
	_, ok := p.Quests[id]
	return ok
}

// QuestCompleted reports whether a quest has been completed.
func (p *Player) QuestCompleted(id string) bool {
	for _, q := range p.Completed {
		if q == id {
			return true
		}
	}
	return false
}

// FinishQuest moves a quest from active to completed. One-way: a
// completed quest id can never return to the active log.
func (p *Player) FinishQuest(id string) bool {
	if !p.QuestActive(id) || p.QuestCompleted(id) {
		return false
	}
	delete(p.Quests, id)
	p.Completed = append(p.Completed, id)
	return true
}

package loader

import (
	"fmt"
	"strings"

	"github.com/mveld/grimvale/catalog"
)

// ValidationError collects errors and warnings from a strict catalog
// check (the --check flag). Normal loading degrades instead of failing:
// validate prunes dangling references and reports them as warnings.
type ValidationError struct {
	Errors   []string
	Warnings []string
}

func (e *ValidationError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "validation found %d error(s), %d warning(s)", len(e.Errors), len(e.Warnings))
	for _, msg := range e.Errors {
		b.WriteString("\n  error: " + msg)
	}
	for _, msg := range e.Warnings {
		b.WriteString("\n  warning: " + msg)
	}
	return b.String()
}

var validSkillTypes = map[string]bool{
	"damage":  true,
	"heal":    true,
	"buff":    true,
	"debuff":  true,
	"special": true,
}

var validObjectiveTypes = map[string]bool{
	"interact": true,
	"kill":     true,
	"collect":  true,
}

var validSecretTriggers = map[string]bool{
	"examine_count":  true,
	"item_required":  true,
	"title_required": true,
	"skill_required": true,
}

var validSecretEffects = map[string]bool{
	"give_item":    true,
	"reveal_skill": true,
	"teleport":     true,
}

var validBossTriggers = map[string]bool{
	"random":            true,
	"exploration_count": true,
	"kill_count":        true,
}

var validEventTriggers = map[string]bool{
	"day_count": true,
	"random":    true,
}

// validate prunes dangling references from the catalog and returns a
// warning per dropped record or reference. The surviving catalog is
// always safe to run against.
func validate(cat *catalog.Catalog) []string {
	var warns []string
	warn := func(format string, args ...any) {
		warns = append(warns, fmt.Sprintf(format, args...))
	}

	// Game start references.
	if cat.Game.Start != "" {
		if _, ok := cat.Locations[cat.Game.Start]; !ok {
			warn("game start location %q is not defined", cat.Game.Start)
		}
	}
	if cat.Game.StartClass != "" {
		if _, ok := cat.Classes[cat.Game.StartClass]; !ok {
			warn("game start class %q is not defined", cat.Game.StartClass)
		}
	}

	// Skills: unknown type drops the skill.
	for id, def := range cat.Skills {
		if !validSkillTypes[def.Type] {
			warn("skill %q has unknown type %q, dropped", id, def.Type)
			delete(cat.Skills, id)
		}
	}

	// Monsters: prune dangling abilities and loot items.
	for id, def := range cat.Monsters {
		def.Abilities = keepKnown(def.Abilities, cat.Skills, func(ref string) {
			warn("monster %q ability %q is not a defined skill", id, ref)
		})
		var loot []catalog.LootEntry
		for _, entry := range def.Loot {
			if _, ok := cat.Items[entry.Item]; !ok {
				warn("monster %q loot item %q is not defined", id, entry.Item)
				continue
			}
			loot = append(loot, entry)
		}
		def.Loot = loot
		cat.Monsters[id] = def
	}

	// Classes: prune dangling starting skills.
	for id, def := range cat.Classes {
		def.Skills = keepKnown(def.Skills, cat.Skills, func(ref string) {
			warn("class %q starting skill %q is not defined", id, ref)
		})
		cat.Classes[id] = def
	}

	// Quests: drop malformed objectives, prune dangling reward items.
	for id, def := range cat.Quests {
		var objectives []catalog.ObjectiveDef
		for _, obj := range def.Objectives {
			if !validObjectiveTypes[obj.Type] {
				warn("quest %q objective %q has unknown type %q", id, obj.ID, obj.Type)
				continue
			}
			if obj.Count < 1 {
				warn("quest %q objective %q has count %d", id, obj.ID, obj.Count)
				continue
			}
			objectives = append(objectives, obj)
		}
		if len(objectives) == 0 {
			warn("quest %q has no valid objectives, dropped", id)
			delete(cat.Quests, id)
			continue
		}
		def.Objectives = objectives
		def.RewardItems = keepKnown(def.RewardItems, cat.Items, func(ref string) {
			warn("quest %q reward item %q is not defined", id, ref)
		})
		cat.Quests[id] = def
	}

	// Achievements: dangling title is cleared, not fatal.
	for id, def := range cat.Achievements {
		if def.Title != "" {
			if _, ok := cat.Titles[def.Title]; !ok {
				warn("achievement %q title %q is not defined", id, def.Title)
				def.Title = ""
				cat.Achievements[id] = def
			}
		}
	}

	// Locations: prune dangling exits and inhabitant references.
	for id, def := range cat.Locations {
		for dir, target := range def.Exits {
			if _, ok := cat.Locations[target]; !ok {
				warn("location %q exit %q points to undefined location %q", id, dir, target)
				delete(def.Exits, dir)
			}
		}
		def.NPCs = keepKnown(def.NPCs, cat.NPCs, func(ref string) {
			warn("location %q npc %q is not defined", id, ref)
		})
		def.Shops = keepKnown(def.Shops, cat.Shops, func(ref string) {
			warn("location %q shop %q is not defined", id, ref)
		})
		def.Enemies = keepKnown(def.Enemies, cat.Monsters, func(ref string) {
			warn("location %q enemy type %q is not defined", id, ref)
		})
		if def.Boss != nil {
			if !validBossTriggers[def.Boss.Trigger] {
				warn("location %q boss trigger %q is unknown, boss dropped", id, def.Boss.Trigger)
				def.Boss = nil
			} else if _, ok := cat.Monsters[def.Boss.Monster]; !ok {
				warn("location %q boss monster %q is not defined, boss dropped", id, def.Boss.Monster)
				def.Boss = nil
			}
		}
		cat.Locations[id] = def
	}

	// NPCs: dangling quest reference is cleared.
	for id, def := range cat.NPCs {
		if def.Quest != "" {
			if _, ok := cat.Quests[def.Quest]; !ok {
				warn("npc %q quest %q is not defined", id, def.Quest)
				def.Quest = ""
				cat.NPCs[id] = def
			}
		}
	}

	// Shops: prune dangling items.
	for id, def := range cat.Shops {
		def.Items = keepKnown(def.Items, cat.Items, func(ref string) {
			warn("shop %q item %q is not defined", id, ref)
		})
		cat.Shops[id] = def
	}

	// Secrets: unknown trigger or effect drops the secret.
	for id, def := range cat.Secrets {
		if !validSecretTriggers[def.Trigger.Type] {
			warn("secret %q trigger %q is unknown, dropped", id, def.Trigger.Type)
			delete(cat.Secrets, id)
			continue
		}
		if !validSecretEffects[def.Effect.Type] {
			warn("secret %q effect %q is unknown, dropped", id, def.Effect.Type)
			delete(cat.Secrets, id)
			continue
		}
		if _, ok := cat.Locations[def.Location]; !ok {
			warn("secret %q location %q is not defined, dropped", id, def.Location)
			delete(cat.Secrets, id)
		}
	}

	// Events: unknown trigger drops the event.
	for id, def := range cat.Events {
		if !validEventTriggers[def.Trigger] {
			warn("event %q trigger %q is unknown, dropped", id, def.Trigger)
			delete(cat.Events, id)
		}
	}

	return warns
}

// keepKnown filters refs down to ids present in m, reporting each drop.
func keepKnown[T any](refs []string, m map[string]T, report func(string)) []string {
	var out []string
	for _, ref := range refs {
		if _, ok := m[ref]; ok {
			out = append(out, ref)
			continue
		}
		report(ref)
	}
	return out
}

// Check runs a strict validation pass for catalog authors: everything
// normal loading would degrade on is reported as an error, plus the
// structural requirements a playable catalog must meet.
func Check(dir string) *ValidationError {
	cat, loadWarns := Load(dir)
	ve := &ValidationError{}
	ve.Errors = append(ve.Errors, loadWarns...)

	if cat.Game.Title == "" {
		ve.Errors = append(ve.Errors, "Game.title is required")
	}
	if cat.Game.Start == "" {
		ve.Errors = append(ve.Errors, "Game.start is required")
	}
	if cat.Game.StartClass == "" {
		ve.Errors = append(ve.Errors, "Game.start_class is required")
	}
	if len(cat.Locations) == 0 {
		ve.Errors = append(ve.Errors, "no locations defined")
	}
	for _, loc := range cat.AllLocations() {
		if loc.Danger > 0 && len(loc.Enemies) == 0 {
			ve.Warnings = append(ve.Warnings, fmt.Sprintf(
				"location %q has danger %d but no enemy pool", loc.ID, loc.Danger))
		}
	}

	if len(ve.Errors) > 0 || len(ve.Warnings) > 0 {
		return ve
	}
	return nil
}

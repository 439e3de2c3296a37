// Package combat resolves one encounter between the player and a
// monster instance as an alternating-turn state machine.
package combat

import (
	"github.com/google/uuid"
	"github.com/mveld/grimvale/catalog"
	"github.com/mveld/grimvale/types"
)

// Monster is a leveled runtime instance copied from a catalog
// template. Instances own their ability and loot slices; nothing here
// aliases the template. Monsters never outlive their encounter.
type Monster struct {
	UID       string
	ID        string
	Name      string
	Level     int
	HP        int
	MaxHP     int
	Attack    int
	Defense   int
	XPValue   int
	Boss      bool
	Abilities []string
	Loot      []catalog.LootEntry
	Effects   []types.StatusEffect
}

// Spawn levels a template to the target level: +5 hp and +1 attack per
// level above the template's base, doubled for boss variants.
func Spawn(def catalog.MonsterDef, level int) *Monster {
	if level < 1 {
		level = 1
	}
	extra := level - def.Level
	if extra < 0 {
		extra = 0
	}
	hp := def.HP + extra*5
	attack := def.Attack + extra
	if def.Boss {
		hp *= 2
		attack *= 2
	}

	m := &Monster{
		UID:     uuid.NewString(),
		ID:      def.ID,
		Name:    def.Name,
		Level:   level,
		HP:      hp,
		MaxHP:   hp,
		Attack:  attack,
		Defense: def.Defense,
		XPValue: def.XP,
		Boss:    def.Boss,
	}
	m.Abilities = append(m.Abilities, def.Abilities...)
	m.Loot = append(m.Loot, def.Loot...)
	return m
}

// EffectiveAttack is the base attack plus active modifiers.
func (m *Monster) EffectiveAttack() int {
	return m.Attack + m.effectTotal("attack")
}

// EffectiveDefense is the base defense plus active modifiers.
func (m *Monster) EffectiveDefense() int {
	return m.Defense + m.effectTotal("defense")
}

func (m *Monster) effectTotal(stat string) int {
	total := 0
	for _, eff := range m.Effects {
		if eff.Stat == stat {
			total += eff.Amount
		}
	}
	return total
}

// Stunned reports whether a stun modifier is active; a stunned monster
// skips its turn.
func (m *Monster) Stunned() bool {
	for _, eff := range m.Effects {
		if eff.Stat == "stun" && eff.Amount < 0 {
			return true
		}
	}
	return false
}

// AddEffect attaches a timed modifier.
func (m *Monster) AddEffect(eff types.StatusEffect) {
	m.Effects = append(m.Effects, eff)
}

// TickEffects decrements durations and drops expired modifiers,
// returning them.
func (m *Monster) TickEffects() []types.StatusEffect {
	var expired []types.StatusEffect
	kept := m.Effects[:0]
	for i := range m.Effects {
		m.Effects[i].Remaining--
		if m.Effects[i].Remaining <= 0 {
			expired = append(expired, m.Effects[i])
			continue
		}
		kept = append(kept, m.Effects[i])
	}
	m.Effects = kept
	return expired
}

// HPRatio is current hp as a fraction of max.
func (m *Monster) HPRatio() float64 {
	if m.MaxHP == 0 {
		return 0
	}
	return float64(m.HP) / float64(m.MaxHP)
}

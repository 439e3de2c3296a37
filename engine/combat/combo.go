package combat

import "github.com/mveld/grimvale/types"

// Combo is an ordered skill sequence that grants a bonus effect when
// the player's recent skill history ends with it.
type Combo struct {
	Name     string
	Sequence []string
	Bonus    types.StatusEffect
}

// DefaultCombos returns the built-in combo table. Sequences reference
// skill ids; unknown ids simply never match.
func DefaultCombos() []Combo {
	return []Combo{
		{
			Name:     "Overcharge",
			Sequence: []string{"firebolt", "firebolt"},
			Bonus:    types.StatusEffect{Name: "Overcharge", Stat: "attack", Amount: 5, Remaining: 3},
		},
		{
			Name:     "Riposte",
			Sequence: []string{"guard_break", "quick_slash"},
			Bonus:    types.StatusEffect{Name: "Riposte", Stat: "attack", Amount: 4, Remaining: 2},
		},
		{
			Name:     "Mending Surge",
			Sequence: []string{"mend", "firebolt", "mend"},
			Bonus:    types.StatusEffect{Name: "Mending Surge", Stat: "defense", Amount: 3, Remaining: 3},
		},
	}
}

// RegisterCombo adds a combo to this encounter's table.
func (e *Encounter) RegisterCombo(c Combo) {
	e.combos = append(e.combos, c)
}

// recordSkill appends to the bounded skill history and applies the
// first matching combo bonus. A match clears the history so the bonus
// fires once, not retroactively on the next use.
func (e *Encounter) recordSkill(id string, res *types.Result) {
	e.history = append(e.history, id)
	if len(e.history) > comboHistorySize {
		e.history = e.history[len(e.history)-comboHistorySize:]
	}
	for _, combo := range e.combos {
		if !suffixMatch(e.history, combo.Sequence) {
			continue
		}
		e.player.AddStatusEffect(combo.Bonus)
		res.Say("Combo! %s: %s +%d for %d rounds.",
			combo.Name, combo.Bonus.Stat, combo.Bonus.Amount, combo.Bonus.Remaining)
		res.Emit("combo", map[string]any{"name": combo.Name})
		e.history = nil
		return
	}
}

func suffixMatch(history, seq []string) bool {
	if len(seq) == 0 || len(history) < len(seq) {
		return false
	}
	offset := len(history) - len(seq)
	for i, id := range seq {
		if history[offset+i] != id {
			return false
		}
	}
	return true
}

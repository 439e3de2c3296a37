// Package adaptive observes action history and combat outcomes to
// scale a difficulty modifier and suggest content. It reads counters
// and emits parameters; it never mutates player or world state.
package adaptive

import "fmt"

// Difficulty modifier bounds and the per-outcome nudge.
const (
	ModifierFloor   = 0.5
	ModifierCeiling = 2.0
	modifierStep    = 0.1
)

// Playstyle classifications from the majority vote.
const (
	StyleWarrior  = "warrior"
	StyleExplorer = "explorer"
	StyleSocial   = "socialite"
	StyleBalanced = "balanced"
)

// Action is one logged player action: a kind plus free-form context.
type Action struct {
	Kind    string `json:"kind"`
	Context string `json:"context,omitempty"`
}

// Engine holds the append-only action log and the difficulty modifier.
type Engine struct {
	Log      []Action `json:"log"`
	Modifier float64  `json:"modifier"`
}

// New creates an engine at the neutral modifier.
func New() *Engine {
	return &Engine{Modifier: 1.0}
}

// Rebind repairs state after a load.
func (e *Engine) Rebind() {
	if e.Modifier == 0 {
		e.Modifier = 1.0
	}
}

// Track appends a tracked action.
func (e *Engine) Track(kind, context string) {
	e.Log = append(e.Log, Action{Kind: kind, Context: context})
}

// RecordOutcome nudges the modifier after a combat resolution: wins
// push difficulty up, losses pull it down, always within the bounds.
func (e *Engine) RecordOutcome(won bool) {
	if won {
		e.Modifier += modifierStep
	} else {
		e.Modifier -= modifierStep
	}
	if e.Modifier > ModifierCeiling {
		e.Modifier = ModifierCeiling
	}
	if e.Modifier < ModifierFloor {
		e.Modifier = ModifierFloor
	}
}

// Playstyle classifies the log by majority vote over action kinds.
func (e *Engine) Playstyle() string {
	counts := map[string]int{}
	for _, a := range e.Log {
		counts[a.Kind]++
	}
	combatN := counts["combat"]
	exploreN := counts["explore"]
	socialN := counts["social"]

	switch {
	case combatN > exploreN && combatN > socialN:
		return StyleWarrior
	case exploreN > combatN && exploreN > socialN:
		return StyleExplorer
	case socialN > combatN && socialN > exploreN:
		return StyleSocial
	default:
		return StyleBalanced
	}
}

// ChallengeRating scales a base threat and complexity by the current
// modifier.
func (e *Engine) ChallengeRating(threat, complexity float64) float64 {
	return threat * complexity * e.Modifier
}

// Suggest returns content-direction text matched to the playstyle.
func (e *Engine) Suggest() string {
	switch e.Playstyle() {
	case StyleWarrior:
		return "Seek out the dangerous places; worthy foes await."
	case StyleExplorer:
		return "Unvisited paths hold secrets for those who look twice."
	case StyleSocial:
		return "The locals have tasks for a friendly face."
	default:
		return "The world rewards the versatile. Keep wandering."
	}
}

// Describe reports the engine's current reading, for status display.
func (e *Engine) Describe() []string {
	return []string{
		fmt.Sprintf("Playstyle: %s", e.Playstyle()),
		fmt.Sprintf("Difficulty modifier: %.1f", e.Modifier),
		e.Suggest(),
	}
}

// Package types defines the shared value types passed between the
// simulation core and its front ends. Pure data, no behavior beyond
// small derivation helpers.
package types

import "fmt"

// TimeOfDay partitions a world day into three equal periods.
type TimeOfDay string

const (
	TimeDay     TimeOfDay = "day"
	TimeEvening TimeOfDay = "evening"
	TimeNight   TimeOfDay = "night"
)

// Stats maps stat names (strength, agility, attack, defense, luck, ...)
// to integer values.
type Stats map[string]int

// Clone returns an independent copy so instances never alias a template.
func (s Stats) Clone() Stats {
	out := make(Stats, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}

// Get returns the named stat, or 0 if absent.
func (s Stats) Get(name string) int {
	return s[name]
}

// StatusEffect is a timed stat modifier carried by a player or monster.
// Remaining is decremented once per combat round or world day and the
// effect is removed at zero.
type StatusEffect struct {
	Name      string `json:"name"`
	Stat      string `json:"stat"`
	Amount    int    `json:"amount"`
	Remaining int    `json:"remaining"`
}

// Event is a structured notification for the presentation layer.
type Event struct {
	Type string         `json:"type"`
	Data map[string]any `json:"data,omitempty"`
}

// Result carries the output of one core operation back to the caller.
// Output lines are display-ready text; Events are structured signals
// (level_up, quest_completed, combat_ended, ...) the front end may
// style or ignore.
type Result struct {
	Output []string
	Events []Event
}

// Say appends a formatted output line.
func (r *Result) Say(format string, args ...any) {
	if len(args) == 0 {
		r.Output = append(r.Output, format)
		return
	}
	r.Output = append(r.Output, fmt.Sprintf(format, args...))
}

// Emit appends a structured event.
func (r *Result) Emit(eventType string, data map[string]any) {
	r.Events = append(r.Events, Event{Type: eventType, Data: data})
}

// Merge appends another result's output and events onto this one.
func (r *Result) Merge(other *Result) {
	if other == nil {
		return
	}
	r.Output = append(r.Output, other.Output...)
	r.Events = append(r.Events, other.Events...)
}

// Intent is a parsed player command.
type Intent struct {
	Verb   string // canonical verb after alias expansion
	Object string // primary argument ("orc", "healing potion", "2")
	Arg    string // secondary argument ("merchant" in "sell sword to merchant")
	Raw    string // original input line
}

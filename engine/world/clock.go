package world

import (
	"github.com/mveld/grimvale/engine/player"
	"github.com/mveld/grimvale/types"
)

// SecondsPerDay is the length of one world day in simulated seconds.
const SecondsPerDay int64 = 1800

// Regeneration applied when a new day breaks, as fractions of max.
const (
	dayRegenHP = 0.20
	dayRegenMP = 0.30
)

// Day titles granted for surviving long campaigns.
const (
	dayTitleWeek      = 7
	dayTitleMonth     = 30
	titleWeekSurvivor = "week_survivor"
	titleMoonSurvivor = "moon_survivor"
)

// DayOf derives the day counter from elapsed time. Day 1 starts at
// elapsed 0.
func DayOf(elapsed int64) int {
	return 1 + int(elapsed/SecondsPerDay)
}

// PeriodOf partitions the position within the current day into three
// equal periods.
func PeriodOf(elapsed int64) types.TimeOfDay {
	frac := float64(elapsed%SecondsPerDay) / float64(SecondsPerDay)
	switch {
	case frac < 1.0/3.0:
		return types.TimeDay
	case frac < 2.0/3.0:
		return types.TimeEvening
	default:
		return types.TimeNight
	}
}

// Day is the current day counter.
func (w *World) Day() int {
	return DayOf(w.Elapsed)
}

// Period is the current time of day.
func (w *World) Period() types.TimeOfDay {
	return PeriodOf(w.Elapsed)
}

// Advance accumulates elapsed seconds and fires boundary effects: each
// crossed day regenerates the player, re-evaluates world events, and
// checks day-count titles; a period change repopulates ambient
// enemies. Calling again within the same period does nothing extra.
func (w *World) Advance(seconds int64, p *player.Player) *types.Result {
	res := &types.Result{}
	if seconds < 0 {
		return res
	}
	w.Elapsed += seconds

	day := w.Day()
	for d := w.lastDay + 1; d <= day; d++ {
		w.newDay(d, p, res)
	}
	w.lastDay = day

	period := w.Period()
	if period != w.lastPeriod {
		w.lastPeriod = period
		res.Say("It is now %s.", period)
		w.populate(p, res)
	}
	return res
}

func (w *World) newDay(day int, p *player.Player, res *types.Result) {
	res.Say("Day %d breaks.", day)
	res.Emit("new_day", map[string]any{"day": day})

	if healed := p.Heal(int(float64(p.MaxHP) * dayRegenHP)); healed > 0 {
		res.Say("You feel rested: +%d hp.", healed)
	}
	if restored := p.RestoreMP(int(float64(p.MaxMP) * dayRegenMP)); restored > 0 {
		res.Say("Your focus returns: +%d mp.", restored)
	}

	w.eventPass(day, res)

	if day >= dayTitleWeek {
		w.grantTitle(p, titleWeekSurvivor, res)
	}
	if day >= dayTitleMonth {
		w.grantTitle(p, titleMoonSurvivor, res)
	}
}

func (w *World) grantTitle(p *player.Player, id string, res *types.Result) {
	def, ok := w.cat.Title(id)
	if !ok {
		return
	}
	if p.AddTitle(id) {
		res.Say("Title earned: %s.", def.Name)
		res.Emit("title_earned", map[string]any{"title": id})
	}
}

// Rest skips ahead to the next period boundary and restores a little
// extra on top of whatever boundaries trigger.
func (w *World) Rest(p *player.Player) *types.Result {
	res := &types.Result{}
	third := SecondsPerDay / 3
	remaining := third - w.Elapsed%third
	res.Say("You rest for a while.")
	p.Heal(p.MaxHP / 10)
	p.RestoreMP(p.MaxMP / 10)
	res.Merge(w.Advance(remaining, p))
	return res
}

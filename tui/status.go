package tui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// renderStatusBar produces a full-width inverted status line showing
// the character's vitals on the left and the world clock on the right.
func (m Model) renderStatusBar() string {
	eng := m.engine
	p := eng.Player

	here := eng.World.Here()
	locName := here.Name
	if locName == "" {
		locName = eng.World.Location
	}

	dirs := make([]string, 0, len(here.Exits))
	for dir := range here.Exits {
		dirs = append(dirs, dir)
	}
	sort.Strings(dirs)

	left := fmt.Sprintf(" %s L%d | hp %d/%d mp %d/%d | %dg", p.Name, p.Level, p.HP, p.MaxHP, p.MP, p.MaxMP, p.Gold)
	if eng.InCombat() {
		left += " | IN BATTLE"
	}

	right := fmt.Sprintf("Day %d, %s ", eng.World.Day(), eng.World.Period())
	if len(dirs) > 0 {
		candidate := fmt.Sprintf("%s | Exits: %s | Day %d, %s ", locName, strings.Join(dirs, ","), eng.World.Day(), eng.World.Period())
		if lipgloss.Width(left)+lipgloss.Width(candidate)+2 < m.width {
			right = candidate
		} else {
			right = fmt.Sprintf("%s | Day %d, %s ", locName, eng.World.Day(), eng.World.Period())
		}
	}

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 0 {
		gap = 0
	}

	bar := left + strings.Repeat(" ", gap) + right
	return styleStatusBar.Width(m.width).Render(bar)
}

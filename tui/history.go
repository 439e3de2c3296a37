// Package tui provides a Bubble Tea terminal UI for the Grimvale
// simulation core.
package tui

// History keeps recent input lines in a fixed-capacity ring with a
// cursor for up/down navigation. Index 0 is the oldest retained line.
type History struct {
	buf    []string
	head   int // slot the next Push writes to
	count  int
	cursor int // -1 = not navigating, otherwise 0..count-1
}

// NewHistory creates a history buffer that retains at most max lines.
func NewHistory(max int) *History {
	if max < 1 {
		max = 1
	}
	return &History{
		buf:    make([]string, max),
		cursor: -1,
	}
}

// at returns the i-th retained line, oldest first.
func (h *History) at(i int) string {
	if h.count < len(h.buf) {
		return h.buf[i]
	}
	return h.buf[(h.head+i)%len(h.buf)]
}

// Push records an input line, evicting the oldest when full.
// Consecutive duplicates are skipped.
func (h *History) Push(cmd string) {
	if h.count > 0 && h.at(h.count-1) == cmd {
		return
	}
	h.buf[h.head] = cmd
	h.head = (h.head + 1) % len(h.buf)
	if h.count < len(h.buf) {
		h.count++
	}
}

// Prev steps the cursor toward older entries.
// Returns ("", false) if history is empty.
func (h *History) Prev() (string, bool) {
	if h.count == 0 {
		return "", false
	}
	if h.cursor == -1 {
		h.cursor = h.count - 1
	} else if h.cursor > 0 {
		h.cursor--
	}
	return h.at(h.cursor), true
}

// Next steps the cursor toward newer entries.
// Returns ("", false) when past the most recent one (fresh input).
func (h *History) Next() (string, bool) {
	if h.cursor == -1 {
		return "", false
	}
	h.cursor++
	if h.cursor >= h.count {
		h.cursor = -1
		return "", false
	}
	return h.at(h.cursor), true
}

// ResetCursor returns the cursor to the "not navigating" state.
func (h *History) ResetCursor() {
	h.cursor = -1
}

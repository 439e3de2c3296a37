// Package save implements the persistence boundary: a stop-the-world
// JSON snapshot of player, world, achievements, and adaptive state,
// written to numbered slot files. Loading fully reconstructs runtime
// instances before any command is accepted; a corrupt snapshot is
// surfaced as a load failure and never partially applied.
package save

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/mveld/grimvale/catalog"
	"github.com/mveld/grimvale/engine/adaptive"
	"github.com/mveld/grimvale/engine/player"
	"github.com/mveld/grimvale/engine/progress"
	"github.com/mveld/grimvale/engine/rng"
	"github.com/mveld/grimvale/engine/world"
)

// WorldData is the serialized world state. Set-valued metrics are
// stored as sorted lists.
type WorldData struct {
	Location string                         `json:"location"`
	Elapsed  int64                          `json:"elapsed"`
	Day      int                            `json:"day"`
	Time     string                         `json:"time_of_day"`
	Visited  []string                       `json:"visited"`
	Visits   map[string]int                 `json:"visits"`
	Counts   map[string]int                 `json:"counts"`
	Events   []*world.ActiveEvent           `json:"events,omitempty"`
	Fired    []string                       `json:"fired_events"`
	Secrets  []string                       `json:"secrets"`
	Bosses   []string                       `json:"defeated_bosses"`
	Synth    map[string]catalog.LocationDef `json:"synth_locations,omitempty"`
}

// AchievementData is the serialized tracker state.
type AchievementData struct {
	Progress map[string]int `json:"progress"`
	Unlocked []string       `json:"unlocked"`
}

// SaveData is the JSON-serializable snapshot format.
type SaveData struct {
	Version      string           `json:"version"`
	ID           string           `json:"id"`
	SavedAt      time.Time        `json:"saved_at"`
	Player       player.Player    `json:"player"`
	World        WorldData        `json:"world"`
	Achievements AchievementData  `json:"achievements"`
	Adaptive     adaptive.Engine  `json:"adaptive"`
	RNGSeed      int64            `json:"rng_seed"`
	RNGPos       int64            `json:"rng_pos"`
}

// Snapshot captures the full session state. No mutation may occur
// while this runs; the caller owns that guarantee.
func Snapshot(version string, p *player.Player, w *world.World, t *progress.Tracker, a *adaptive.Engine, r *rng.RNG) *SaveData {
	return &SaveData{
		Version: version,
		ID:      uuid.NewString(),
		SavedAt: time.Now().UTC(),
		Player:  *p,
		World: WorldData{
			Location: w.Location,
			Elapsed:  w.Elapsed,
			Day:      w.Day(),
			Time:     string(w.Period()),
			Visited:  sortedKeys(w.Visited),
			Visits:   w.Visits,
			Counts:   w.Counts,
			Events:   w.Events,
			Fired:    sortedKeys(w.Fired),
			Secrets:  sortedKeys(w.Secrets),
			Bosses:   sortedKeys(w.Bosses),
			Synth:    w.Synth,
		},
		Achievements: AchievementData{
			Progress: t.Progress,
			Unlocked: sortedKeys(t.Unlocked),
		},
		Adaptive: *a,
		RNGSeed:  r.Seed(),
		RNGPos:   r.Position(),
	}
}

// Marshal serializes a snapshot to indented JSON.
func Marshal(sd *SaveData) ([]byte, error) {
	return json.MarshalIndent(sd, "", "  ")
}

// Load deserializes snapshot bytes, normalizing nil maps and slices so
// the restored state never needs guarding.
func Load(data []byte) (*SaveData, error) {
	var sd SaveData
	if err := json.Unmarshal(data, &sd); err != nil {
		return nil, fmt.Errorf("reading snapshot: %w", err)
	}
	sd.Player.Normalize()
	if sd.World.Visits == nil {
		sd.World.Visits = map[string]int{}
	}
	if sd.World.Counts == nil {
		sd.World.Counts = map[string]int{}
	}
	if sd.Achievements.Progress == nil {
		sd.Achievements.Progress = map[string]int{}
	}
	return &sd, nil
}

// Apply reconstructs runtime instances from a snapshot against the
// given catalog. The RNG replays to its saved position.
func Apply(sd *SaveData, cat *catalog.Catalog) (*player.Player, *world.World, *progress.Tracker, *adaptive.Engine, *rng.RNG) {
	r := rng.Restore(sd.RNGSeed, sd.RNGPos)

	p := sd.Player
	p.Normalize()

	w := world.New(cat, r)
	w.Location = sd.World.Location
	w.Elapsed = sd.World.Elapsed
	w.Visited = setFrom(sd.World.Visited)
	w.Visits = sd.World.Visits
	w.Counts = sd.World.Counts
	w.Events = sd.World.Events
	w.Fired = setFrom(sd.World.Fired)
	w.Secrets = setFrom(sd.World.Secrets)
	w.Bosses = setFrom(sd.World.Bosses)
	if sd.World.Synth != nil {
		w.Synth = sd.World.Synth
	}
	w.Rebind(cat, r)

	t := progress.New(cat)
	t.Progress = sd.Achievements.Progress
	t.Unlocked = setFrom(sd.Achievements.Unlocked)
	t.Rebind(cat)

	a := sd.Adaptive
	a.Rebind()

	return &p, w, t, &a, r
}

// SlotPath names the file for a numbered save slot.
func SlotPath(dir string, slot int) string {
	return filepath.Join(dir, fmt.Sprintf("save_slot%d.json", slot))
}

// WriteSlot persists snapshot bytes to a slot, creating the directory.
func WriteSlot(dir string, slot int, data []byte) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating save directory: %w", err)
	}
	return os.WriteFile(SlotPath(dir, slot), data, 0o644)
}

// ReadSlot reads a slot's snapshot bytes. A missing slot is reported
// as an error for the caller to fall back on.
func ReadSlot(dir string, slot int) ([]byte, error) {
	data, err := os.ReadFile(SlotPath(dir, slot))
	if err != nil {
		return nil, fmt.Errorf("reading slot %d: %w", slot, err)
	}
	return data, nil
}

// SlotInfo summarizes one existing save slot.
type SlotInfo struct {
	Slot    int
	Name    string
	Level   int
	Day     int
	SavedAt time.Time
}

// ListSlots scans slots 1..max and returns metadata for readable ones.
func ListSlots(dir string, max int) []SlotInfo {
	var infos []SlotInfo
	for slot := 1; slot <= max; slot++ {
		data, err := os.ReadFile(SlotPath(dir, slot))
		if err != nil {
			continue
		}
		sd, err := Load(data)
		if err != nil {
			continue
		}
		infos = append(infos, SlotInfo{
			Slot:    slot,
			Name:    sd.Player.Name,
			Level:   sd.Player.Level,
			Day:     sd.World.Day,
			SavedAt: sd.SavedAt,
		})
	}
	return infos
}

func sortedKeys(m map[string]bool) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func setFrom(keys []string) map[string]bool {
	m := make(map[string]bool, len(keys))
	for _, k := range keys {
		m[k] = true
	}
	return m
}

package catalog

import (
	"sort"
	"strings"
)

// Catalog is the immutable set of templates loaded at startup. Lookup
// methods return a copy-by-value template and an ok flag; All* methods
// return templates sorted by id for deterministic iteration.
type Catalog struct {
	Game         GameDef
	Items        map[string]ItemDef
	Monsters     map[string]MonsterDef
	Skills       map[string]SkillDef
	Classes      map[string]ClassDef
	Quests       map[string]QuestDef
	Achievements map[string]AchievementDef
	Titles       map[string]TitleDef
	Locations    map[string]LocationDef
	NPCs         map[string]NPCDef
	Shops        map[string]ShopDef
	Secrets      map[string]SecretDef
	Events       map[string]EventDef
}

// New returns an empty catalog with all kind maps allocated.
func New() *Catalog {
	return &Catalog{
		Items:        map[string]ItemDef{},
		Monsters:     map[string]MonsterDef{},
		Skills:       map[string]SkillDef{},
		Classes:      map[string]ClassDef{},
		Quests:       map[string]QuestDef{},
		Achievements: map[string]AchievementDef{},
		Titles:       map[string]TitleDef{},
		Locations:    map[string]LocationDef{},
		NPCs:         map[string]NPCDef{},
		Shops:        map[string]ShopDef{},
		Secrets:      map[string]SecretDef{},
		Events:       map[string]EventDef{},
	}
}

// BaseID strips the unique-instance suffix from a bound item id.
// "rusted_key#1f4a" resolves against the "rusted_key" template.
func BaseID(id string) string {
	if i := strings.IndexByte(id, '#'); i >= 0 {
		return id[:i]
	}
	return id
}

// Item looks up an item template, resolving bound-instance ids.
func (c *Catalog) Item(id string) (ItemDef, bool) {
	d, ok := c.Items[BaseID(id)]
	return d, ok
}

// Monster looks up a monster template.
func (c *Catalog) Monster(id string) (MonsterDef, bool) {
	d, ok := c.Monsters[id]
	return d, ok
}

// Skill looks up a skill template.
func (c *Catalog) Skill(id string) (SkillDef, bool) {
	d, ok := c.Skills[id]
	return d, ok
}

// Class looks up a class template.
func (c *Catalog) Class(id string) (ClassDef, bool) {
	d, ok := c.Classes[id]
	return d, ok
}

// Quest looks up a quest template.
func (c *Catalog) Quest(id string) (QuestDef, bool) {
	d, ok := c.Quests[id]
	return d, ok
}

// Achievement looks up an achievement template.
func (c *Catalog) Achievement(id string) (AchievementDef, bool) {
	d, ok := c.Achievements[id]
	return d, ok
}

// Title looks up a title template.
func (c *Catalog) Title(id string) (TitleDef, bool) {
	d, ok := c.Titles[id]
	return d, ok
}

// Location looks up a location template.
func (c *Catalog) Location(id string) (LocationDef, bool) {
	d, ok := c.Locations[id]
	return d, ok
}

// NPC looks up an npc template.
func (c *Catalog) NPC(id string) (NPCDef, bool) {
	d, ok := c.NPCs[id]
	return d, ok
}

// Shop looks up a shop template.
func (c *Catalog) Shop(id string) (ShopDef, bool) {
	d, ok := c.Shops[id]
	return d, ok
}

// Secret looks up a secret template.
func (c *Catalog) Secret(id string) (SecretDef, bool) {
	d, ok := c.Secrets[id]
	return d, ok
}

// Event looks up a world event template.
func (c *Catalog) Event(id string) (EventDef, bool) {
	d, ok := c.Events[id]
	return d, ok
}

// AllItems returns all item templates sorted by id.
func (c *Catalog) AllItems() []ItemDef {
	return sortedValues(c.Items, func(d ItemDef) string { return d.ID })
}

// AllMonsters returns all monster templates sorted by id.
func (c *Catalog) AllMonsters() []MonsterDef {
	return sortedValues(c.Monsters, func(d MonsterDef) string { return d.ID })
}

// AllSkills returns all skill templates sorted by id.
func (c *Catalog) AllSkills() []SkillDef {
	return sortedValues(c.Skills, func(d SkillDef) string { return d.ID })
}

// AllClasses returns all class templates sorted by id.
func (c *Catalog) AllClasses() []ClassDef {
	return sortedValues(c.Classes, func(d ClassDef) string { return d.ID })
}

// AllQuests returns all quest templates sorted by id.
func (c *Catalog) AllQuests() []QuestDef {
	return sortedValues(c.Quests, func(d QuestDef) string { return d.ID })
}

// AllAchievements returns all achievement templates sorted by id.
func (c *Catalog) AllAchievements() []AchievementDef {
	return sortedValues(c.Achievements, func(d AchievementDef) string { return d.ID })
}

// AllTitles returns all title templates sorted by id.
func (c *Catalog) AllTitles() []TitleDef {
	return sortedValues(c.Titles, func(d TitleDef) string { return d.ID })
}

// AllLocations returns all location templates sorted by id.
func (c *Catalog) AllLocations() []LocationDef {
	return sortedValues(c.Locations, func(d LocationDef) string { return d.ID })
}

// AllNPCs returns all npc templates sorted by id.
func (c *Catalog) AllNPCs() []NPCDef {
	return sortedValues(c.NPCs, func(d NPCDef) string { return d.ID })
}

// AllShops returns all shop templates sorted by id.
func (c *Catalog) AllShops() []ShopDef {
	return sortedValues(c.Shops, func(d ShopDef) string { return d.ID })
}

// AllSecrets returns all secret templates sorted by id.
func (c *Catalog) AllSecrets() []SecretDef {
	return sortedValues(c.Secrets, func(d SecretDef) string { return d.ID })
}

// AllEvents returns all world event templates sorted by id.
func (c *Catalog) AllEvents() []EventDef {
	return sortedValues(c.Events, func(d EventDef) string { return d.ID })
}

func sortedValues[T any](m map[string]T, key func(T) string) []T {
	out := make([]T, 0, len(m))
	for _, v := range m {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return key(out[i]) < key(out[j]) })
	return out
}

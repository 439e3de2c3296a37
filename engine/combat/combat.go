package combat

import (
	"github.com/google/uuid"
	"github.com/mveld/grimvale/catalog"
	"github.com/mveld/grimvale/engine/player"
	"github.com/mveld/grimvale/engine/rng"
	"github.com/mveld/grimvale/types"
)

// Status is the encounter state. The three Player* states are terminal.
type Status int

const (
	NotStarted Status = iota
	Active
	PlayerWon
	PlayerFled
	PlayerDefeated
)

// Terminal reports whether the encounter has resolved.
func (s Status) Terminal() bool {
	return s == PlayerWon || s == PlayerFled || s == PlayerDefeated
}

func (s Status) String() string {
	switch s {
	case NotStarted:
		return "not_started"
	case Active:
		return "active"
	case PlayerWon:
		return "player_won"
	case PlayerFled:
		return "player_fled"
	case PlayerDefeated:
		return "player_defeated"
	}
	return "unknown"
}

const (
	surpriseChance   = 10 // percent chance the enemy opens the fight
	fleeChance       = 50 // percent base flee success
	enemyAttackBias  = 70 // percent chance the enemy prefers a basic attack
	enemyHealCutoff  = 0.3
	skillUseXP       = 10 // skill xp granted per successful use
	comboHistorySize = 5
)

// Damage applies the core formula: attack power minus target defense,
// never below 1, so combat always terminates.
func Damage(power, defense int) int {
	d := power - defense
	if d < 1 {
		d = 1
	}
	return d
}

// Encounter is one combat session from Start to a terminal status.
type Encounter struct {
	ID     string
	Status Status
	Round  int
	Enemy  *Monster

	// Totals reported to the progression hooks on resolution.
	DamageDealt int
	Loot        []string
	Surprised   bool

	cat          *catalog.Catalog
	rand         *rng.RNG
	player       *player.Player
	defendActive bool
	history      []string
	combos       []Combo
	specials     []string
}

// New prepares an encounter that has not yet started.
func New(cat *catalog.Catalog, r *rng.RNG, p *player.Player) *Encounter {
	return &Encounter{
		ID:     uuid.NewString(),
		Status: NotStarted,
		cat:    cat,
		rand:   r,
		player: p,
		combos: DefaultCombos(),
	}
}

// SpecialFlags returns the named flags recorded by special skills, for
// the surrounding systems to interpret.
func (e *Encounter) SpecialFlags() []string {
	return e.specials
}

// Start levels the enemy template and enters the turn loop. A surprise
// roll may give the enemy the opening attack.
func (e *Encounter) Start(def catalog.MonsterDef, level int) *types.Result {
	res := &types.Result{}
	if e.Status != NotStarted {
		res.Say("The fight is already underway.")
		return res
	}
	e.Enemy = Spawn(def, level)
	e.Status = Active
	res.Say("%s (level %d) moves to attack!", e.Enemy.Name, e.Enemy.Level)
	res.Emit("combat_started", map[string]any{"enemy": e.Enemy.ID, "level": e.Enemy.Level})

	if e.rand.Chance(surpriseChance) {
		e.Surprised = true
		res.Say("You are caught off guard!")
		e.enemyTurn(res)
	}
	return res
}

// Attack resolves a basic attack, then the enemy's turn.
func (e *Encounter) Attack() *types.Result {
	res := &types.Result{}
	if !e.active(res) {
		return res
	}
	e.Round++
	dmg := Damage(e.player.Attack(e.cat), e.Enemy.EffectiveDefense())
	e.Enemy.HP -= dmg
	e.DamageDealt += dmg
	res.Say("You strike %s for %d damage.", e.Enemy.Name, dmg)
	e.afterPlayerAction(res)
	return res
}

// UseSkill resolves one skill by its declared type. Unknown skills and
// unaffordable mp costs are rejected with no turn consumed.
func (e *Encounter) UseSkill(id string) *types.Result {
	res := &types.Result{}
	if !e.active(res) {
		return res
	}
	def, ok := e.cat.Skill(id)
	if !ok || !e.player.HasSkill(id) {
		res.Say("You don't know that skill.")
		return res
	}
	if e.player.MP < def.MPCost {
		res.Say("Not enough mp for %s (need %d).", def.Name, def.MPCost)
		return res
	}

	e.Round++
	e.player.MP -= def.MPCost
	power := def.Power + 2*(e.player.SkillLevel(id)-1)

	switch def.Type {
	case "damage":
		dmg := Damage(power, e.Enemy.EffectiveDefense())
		e.Enemy.HP -= dmg
		e.DamageDealt += dmg
		res.Say("%s hits %s for %d damage.", def.Name, e.Enemy.Name, dmg)
	case "heal":
		healed := e.player.Heal(power)
		res.Say("%s restores %d hp.", def.Name, healed)
	case "buff":
		e.player.AddStatusEffect(types.StatusEffect{
			Name: def.Name, Stat: def.Stat, Amount: power, Remaining: def.Duration,
		})
		res.Say("%s raises your %s by %d.", def.Name, def.Stat, power)
	case "debuff":
		e.Enemy.AddEffect(types.StatusEffect{
			Name: def.Name, Stat: def.Stat, Amount: -power, Remaining: def.Duration,
		})
		res.Say("%s lowers %s's %s by %d.", def.Name, e.Enemy.Name, def.Stat, power)
	case "special":
		e.specials = append(e.specials, def.Special)
		res.Say("%s takes effect.", def.Name)
		res.Emit("special_skill", map[string]any{"skill": id, "flag": def.Special})
	}

	if levels := e.player.GainSkillXP(id, skillUseXP, def); levels > 0 {
		res.Say("%s reached level %d.", def.Name, e.player.SkillLevel(id))
	}
	e.recordSkill(id, res)
	e.afterPlayerAction(res)
	return res
}

// UseItem consumes a usable inventory item. Failures cost no turn.
func (e *Encounter) UseItem(id string) *types.Result {
	res := &types.Result{}
	if !e.active(res) {
		return res
	}
	applied, err := e.player.UseItem(id, e.cat)
	if err != nil {
		res.Say("%v.", err)
		return res
	}
	e.Round++
	def, _ := e.cat.Item(id)
	res.Say("You use %s.", def.Name)
	if hp := applied["hp"]; hp > 0 {
		res.Say("Restored %d hp.", hp)
	}
	if mp := applied["mp"]; mp > 0 {
		res.Say("Restored %d mp.", mp)
	}
	e.afterPlayerAction(res)
	return res
}

// Defend halves the next incoming attack. The guard is consumed by
// exactly one hit.
func (e *Encounter) Defend() *types.Result {
	res := &types.Result{}
	if !e.active(res) {
		return res
	}
	e.Round++
	e.defendActive = true
	res.Say("You brace behind your guard.")
	e.afterPlayerAction(res)
	return res
}

// Analyze reports the enemy's condition without consuming the turn.
func (e *Encounter) Analyze() *types.Result {
	res := &types.Result{}
	if !e.active(res) {
		return res
	}
	m := e.Enemy
	res.Say("%s — level %d", m.Name, m.Level)
	res.Say("  hp %d/%d  attack %d  defense %d", m.HP, m.MaxHP, m.EffectiveAttack(), m.EffectiveDefense())
	if len(m.Abilities) > 0 {
		for _, id := range m.Abilities {
			if def, ok := e.cat.Skill(id); ok {
				res.Say("  knows %s", def.Name)
			}
		}
	}
	return res
}

// Flee attempts to escape. Success resolves the encounter; failure
// hands the enemy a free turn.
func (e *Encounter) Flee() *types.Result {
	res := &types.Result{}
	if !e.active(res) {
		return res
	}
	e.Round++
	if e.rand.Chance(fleeChance) {
		e.Status = PlayerFled
		res.Say("You break away from the fight.")
		e.finish(res)
		return res
	}
	res.Say("You fail to escape!")
	e.enemyTurn(res)
	e.endOfRound(res)
	return res
}

func (e *Encounter) active(res *types.Result) bool {
	if e.Status == Active {
		return true
	}
	res.Say("There is no fight here.")
	return false
}

// afterPlayerAction runs the victory check, the enemy's reply, and the
// end-of-round bookkeeping.
func (e *Encounter) afterPlayerAction(res *types.Result) {
	if e.checkVictory(res) {
		return
	}
	e.enemyTurn(res)
	if e.Status != Active {
		return
	}
	e.endOfRound(res)
}

// enemyTurn picks and resolves the enemy action: heal when hurt and
// able, otherwise usually a basic attack, occasionally an ability.
// A stunned enemy skips the turn.
func (e *Encounter) enemyTurn(res *types.Result) {
	m := e.Enemy
	if m.Stunned() {
		res.Say("%s is stunned and cannot act.", m.Name)
		return
	}

	if m.HPRatio() < enemyHealCutoff {
		if heal, ok := e.enemyHealSkill(); ok {
			amount := heal.Power
			missing := m.MaxHP - m.HP
			if amount > missing {
				amount = missing
			}
			m.HP += amount
			res.Say("%s casts %s and recovers %d hp.", m.Name, heal.Name, amount)
			return
		}
	}

	if len(m.Abilities) == 0 || e.rand.Chance(enemyAttackBias) {
		e.enemyAttack(res, m.EffectiveAttack(), "")
		return
	}

	weights := make([]int, len(m.Abilities))
	for i, aid := range m.Abilities {
		weights[i] = 1
		if def, ok := e.cat.Skill(aid); ok && def.Power > 0 {
			weights[i] = def.Power
		}
	}
	id := m.Abilities[e.rand.WeightedSelect(weights)]
	def, ok := e.cat.Skill(id)
	if !ok {
		e.enemyAttack(res, m.EffectiveAttack(), "")
		return
	}
	switch def.Type {
	case "damage":
		e.enemyAttack(res, def.Power, def.Name)
	case "heal":
		amount := def.Power
		missing := m.MaxHP - m.HP
		if amount > missing {
			amount = missing
		}
		m.HP += amount
		res.Say("%s casts %s and recovers %d hp.", m.Name, def.Name, amount)
	case "buff":
		m.AddEffect(types.StatusEffect{Name: def.Name, Stat: def.Stat, Amount: def.Power, Remaining: def.Duration})
		res.Say("%s uses %s, raising its %s.", m.Name, def.Name, def.Stat)
	case "debuff":
		e.player.AddStatusEffect(types.StatusEffect{Name: def.Name, Stat: def.Stat, Amount: -def.Power, Remaining: def.Duration})
		res.Say("%s afflicts you with %s.", m.Name, def.Name)
	default:
		e.enemyAttack(res, m.EffectiveAttack(), "")
	}
}

// enemyHealSkill returns the first healing ability the enemy knows.
func (e *Encounter) enemyHealSkill() (catalog.SkillDef, bool) {
	for _, id := range e.Enemy.Abilities {
		def, ok := e.cat.Skill(id)
		if ok && def.Type == "heal" {
			return def, true
		}
	}
	return catalog.SkillDef{}, false
}

func (e *Encounter) enemyAttack(res *types.Result, power int, skillName string) {
	dmg := Damage(power, e.player.Defense(e.cat))
	if e.defendActive {
		dmg /= 2
		e.defendActive = false
		res.Say("Your guard absorbs part of the blow.")
	}
	e.player.HP -= dmg
	if skillName != "" {
		res.Say("%s uses %s on you for %d damage.", e.Enemy.Name, skillName, dmg)
	} else {
		res.Say("%s hits you for %d damage.", e.Enemy.Name, dmg)
	}
	if e.player.HP <= 0 {
		e.player.HP = 0
		e.Status = PlayerDefeated
		res.Say("You collapse.")
		e.finish(res)
	}
}

// endOfRound decrements status effect durations on both sides.
func (e *Encounter) endOfRound(res *types.Result) {
	for _, eff := range e.player.TickEffects() {
		res.Say("%s wears off.", eff.Name)
	}
	for _, eff := range e.Enemy.TickEffects() {
		res.Say("%s's %s wears off.", e.Enemy.Name, eff.Name)
	}
}

// checkVictory resolves loot and experience when the enemy drops.
func (e *Encounter) checkVictory(res *types.Result) bool {
	if e.Enemy.HP > 0 {
		return false
	}
	e.Enemy.HP = 0
	e.Status = PlayerWon
	res.Say("%s is defeated!", e.Enemy.Name)

	e.resolveLoot(res)
	xp := ExperienceFor(e.Enemy.Level, e.player.Level)
	res.Say("You gain %d experience.", xp)
	if levels := e.player.GainXP(xp, e.cat); levels > 0 {
		res.Say("You are now level %d!", e.player.Level)
		res.Emit("level_up", map[string]any{"level": e.player.Level})
	}

	e.finish(res)
	return true
}

// resolveLoot rolls every drop entry independently, scaled by the
// player's luck multiplier.
func (e *Encounter) resolveLoot(res *types.Result) {
	luck := e.player.LuckMultiplier(e.cat)
	for _, entry := range e.Enemy.Loot {
		chance := int(float64(entry.Chance) * luck)
		if chance > 100 {
			chance = 100
		}
		if !e.rand.Chance(chance) {
			continue
		}
		def, ok := e.cat.Item(entry.Item)
		if !ok {
			continue
		}
		e.player.AddItem(entry.Item)
		e.Loot = append(e.Loot, entry.Item)
		res.Say("%s drops %s.", e.Enemy.Name, def.Name)
	}
}

// ExperienceFor computes the kill reward: ten per enemy level plus a
// bonus when the enemy outlevels the player, never below 1.
func ExperienceFor(enemyLevel, playerLevel int) int {
	xp := enemyLevel * 10
	if diff := enemyLevel - playerLevel; diff > 0 {
		xp += diff * 5
	}
	if xp < 1 {
		xp = 1
	}
	return xp
}

// finish discards both status-effect lists and emits the terminal
// event. Progression hooks fire in the session layer exactly once,
// keyed off the terminal status.
func (e *Encounter) finish(res *types.Result) {
	e.player.ClearEffects()
	e.Enemy.Effects = nil
	res.Emit("combat_ended", map[string]any{
		"status": e.Status.String(),
		"enemy":  e.Enemy.ID,
		"rounds": e.Round,
		"damage": e.DamageDealt,
	})
}

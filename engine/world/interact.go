package world

import (
	"strings"

	"github.com/mveld/grimvale/catalog"
	"github.com/mveld/grimvale/engine/player"
	"github.com/mveld/grimvale/types"
)

const sellFraction = 2 // sell price is value / sellFraction

// PriceOf is the current buy price for an item: each point of the
// "prices" event modifier shifts the template value by ten percent.
// Never below 1 gold.
func (w *World) PriceOf(def catalog.ItemDef) int {
	price := def.Value * (10 + w.ActiveModifier("prices")) / 10
	if price < 1 {
		price = 1
	}
	return price
}

// Examine inspects an object in the current location, bumping its
// examine counter and running the secret check.
func (w *World) Examine(name string, p *player.Player) *types.Result {
	res := &types.Result{}
	loc := w.Here()
	var object string
	for _, obj := range loc.Objects {
		if matches(name, obj, displayName(obj)) {
			object = obj
			break
		}
	}
	if object == "" {
		res.Say("You don't see that here.")
		return res
	}

	key := "examine:" + loc.ID + "/" + object
	w.Counts[key]++
	res.Say("You examine %s closely.", displayName(object))

	w.checkSecrets(loc.ID, object, p, res)
	res.Merge(w.QuestNotify(p, "interact", object, 1))
	return res
}

// checkSecrets evaluates every secret attached to the object.
// Unlocking is one-way; an unlocked secret id never triggers again.
func (w *World) checkSecrets(locID, object string, p *player.Player, res *types.Result) {
	for _, def := range w.cat.AllSecrets() {
		if def.Location != locID || def.Object != object || w.Secrets[def.ID] {
			continue
		}
		if !w.secretTriggered(def, locID, object, p) {
			continue
		}
		w.Secrets[def.ID] = true
		res.Say("Secret discovered: %s!", def.Name)
		if def.Description != "" {
			res.Say("%s", def.Description)
		}
		res.Emit("secret_unlocked", map[string]any{"secret": def.ID})
		w.applySecretEffect(def, p, res)
	}
}

func (w *World) secretTriggered(def catalog.SecretDef, locID, object string, p *player.Player) bool {
	t := def.Trigger
	switch t.Type {
	case "examine_count":
		return w.Counts["examine:"+locID+"/"+object] >= t.Count
	case "item_required":
		return p.HasItem(t.Item)
	case "title_required":
		return p.HasTitle(t.Title)
	case "skill_required":
		return p.SkillLevel(t.Skill) >= t.Level
	}
	return false
}

func (w *World) applySecretEffect(def catalog.SecretDef, p *player.Player, res *types.Result) {
	eff := def.Effect
	switch eff.Type {
	case "give_item":
		if item, ok := w.cat.Item(eff.Item); ok {
			id := p.GrantBoundItem(eff.Item)
			res.Say("You obtain %s.", item.Name)
			res.Merge(w.QuestNotify(p, "collect", catalog.BaseID(id), 1))
		}
	case "reveal_skill":
		if skill, ok := w.cat.Skill(eff.Skill); ok {
			if p.LearnSkill(eff.Skill) {
				res.Say("You have learned %s!", skill.Name)
			}
		}
	case "teleport":
		target := eff.Location
		if target == "" {
			target = "secret_" + def.Location
		}
		if _, ok := w.Loc(target); !ok {
			w.SynthesizeLocation(target, def.Location)
		}
		res.Say("The world shifts around you...")
		res.Merge(w.Enter(target, p))
	}
}

// Talk addresses an npc in the current location by case-insensitive
// name. Dialogue lines cycle; quest givers offer their quest while it
// is unaccepted.
func (w *World) Talk(name string, p *player.Player) *types.Result {
	res := &types.Result{}
	loc := w.Here()
	var npc catalog.NPCDef
	found := false
	for _, id := range loc.NPCs {
		if def, ok := w.cat.NPC(id); ok && matches(name, def.ID, def.Name) {
			npc = def
			found = true
			break
		}
	}
	if !found {
		res.Say("There is no one here by that name.")
		return res
	}

	if len(npc.Dialogue) > 0 {
		key := "talk:" + npc.ID
		line := npc.Dialogue[w.Counts[key]%len(npc.Dialogue)]
		w.Counts[key]++
		res.Say("%s says: '%s'", npc.Name, line)
	}

	if npc.Quest != "" && !p.QuestActive(npc.Quest) && !p.QuestCompleted(npc.Quest) {
		if quest, ok := w.cat.Quest(npc.Quest); ok {
			res.Say("%s has a task for you: %s. (accept %s)", npc.Name, quest.Name, quest.ID)
		}
	}

	res.Merge(w.QuestNotify(p, "interact", npc.ID, 1))
	return res
}

// AcceptQuest moves a quest into the active log. Rejected if already
// active or completed.
func (w *World) AcceptQuest(id string, p *player.Player) *types.Result {
	res := &types.Result{}
	def, ok := w.cat.Quest(id)
	if !ok {
		res.Say("No such quest.")
		return res
	}
	if !p.AcceptQuest(def) {
		res.Say("You already know that task.")
		return res
	}
	res.Say("Quest accepted: %s.", def.Name)
	res.Say("%s", def.Description)
	res.Emit("quest_accepted", map[string]any{"quest": id})
	return res
}

// QuestNotify advances matching objectives across all active quests.
// A quest whose objectives are all satisfied completes exactly once,
// applying its rewards; updates on completed quests are rejected by
// the one-way log.
func (w *World) QuestNotify(p *player.Player, objType, target string, n int) *types.Result {
	res := &types.Result{}
	for questID, progress := range p.Quests {
		def, ok := w.cat.Quest(questID)
		if !ok {
			continue
		}
		advanced := false
		for _, obj := range def.Objectives {
			if obj.Type != objType || obj.Target != target {
				continue
			}
			op := progress.Objectives[obj.ID]
			if op == nil || op.Done {
				continue
			}
			op.Current += n
			advanced = true
			if op.Current >= obj.Count {
				op.Done = true
				res.Say("Objective complete: %s.", displayName(obj.ID))
			}
		}
		if advanced && questComplete(def, progress) {
			w.completeQuest(def, p, res)
		}
	}
	return res
}

func questComplete(def catalog.QuestDef, progress *player.QuestProgress) bool {
	for _, obj := range def.Objectives {
		op := progress.Objectives[obj.ID]
		if op == nil || !op.Done {
			return false
		}
	}
	return true
}

func (w *World) completeQuest(def catalog.QuestDef, p *player.Player, res *types.Result) {
	if !p.FinishQuest(def.ID) {
		return
	}
	res.Say("Quest complete: %s!", def.Name)
	res.Emit("quest_completed", map[string]any{"quest": def.ID})
	if def.RewardGold > 0 {
		p.AddGold(def.RewardGold)
		res.Say("Reward: %d gold.", def.RewardGold)
	}
	for _, itemID := range def.RewardItems {
		if item, ok := w.cat.Item(itemID); ok {
			p.AddItem(itemID)
			res.Say("Reward: %s.", item.Name)
		}
	}
	if def.RewardXP > 0 {
		res.Say("Reward: %d experience.", def.RewardXP)
		if levels := p.GainXP(def.RewardXP, w.cat); levels > 0 {
			res.Say("You are now level %d!", p.Level)
		}
	}
}

// CurrentShop returns the first shop in the current location.
func (w *World) CurrentShop() (catalog.ShopDef, bool) {
	loc := w.Here()
	for _, id := range loc.Shops {
		if def, ok := w.cat.Shop(id); ok {
			return def, true
		}
	}
	return catalog.ShopDef{}, false
}

// ShopListing renders the current shop's wares with 1-based indices.
func (w *World) ShopListing() *types.Result {
	res := &types.Result{}
	shop, ok := w.CurrentShop()
	if !ok {
		res.Say("There is no shop here.")
		return res
	}
	if shop.Greeting != "" {
		res.Say("%s: '%s'", shop.Name, shop.Greeting)
	} else {
		res.Say("%s", shop.Name)
	}
	for i, itemID := range shop.Items {
		if def, ok := w.cat.Item(itemID); ok {
			res.Say("  %d. %s — %d gold", i+1, def.Name, w.PriceOf(def))
		}
	}
	return res
}

// Buy purchases by 1-based index from the current shop. Insufficient
// gold or a bad index rejects the purchase with nothing changed.
func (w *World) Buy(index int, p *player.Player) *types.Result {
	res := &types.Result{}
	shop, ok := w.CurrentShop()
	if !ok {
		res.Say("There is no shop here.")
		return res
	}
	if index < 1 || index > len(shop.Items) {
		res.Say("That is not on offer.")
		return res
	}
	itemID := shop.Items[index-1]
	def, ok := w.cat.Item(itemID)
	if !ok {
		res.Say("That is not on offer.")
		return res
	}
	price := w.PriceOf(def)
	if !p.SpendGold(price) {
		res.Say("You can't afford %s (%d gold).", def.Name, price)
		return res
	}
	p.AddItem(itemID)
	res.Say("You buy %s for %d gold.", def.Name, price)
	res.Merge(w.QuestNotify(p, "collect", itemID, 1))
	return res
}

// Sell trades an inventory item for half its template value.
// Unsellable items are refused.
func (w *World) Sell(name string, p *player.Player) *types.Result {
	res := &types.Result{}
	if _, ok := w.CurrentShop(); !ok {
		res.Say("There is no shop here.")
		return res
	}
	itemID, def, ok := w.resolveCarried(name, p)
	if !ok {
		res.Say("You are not carrying that.")
		return res
	}
	if def.Unsellable {
		res.Say("%s cannot be sold.", def.Name)
		return res
	}
	price := def.Value / sellFraction
	p.RemoveItem(itemID)
	p.AddGold(price)
	res.Say("You sell %s for %d gold.", def.Name, price)
	return res
}

// resolveCarried matches an inventory entry by template id or display
// name, case-insensitive.
func (w *World) resolveCarried(name string, p *player.Player) (string, catalog.ItemDef, bool) {
	in := strings.ToLower(strings.TrimSpace(name))
	for _, held := range p.Inventory {
		def, ok := w.cat.Item(held)
		if !ok {
			continue
		}
		if in == strings.ToLower(def.ID) || in == strings.ToLower(def.Name) {
			return held, def, true
		}
	}
	return "", catalog.ItemDef{}, false
}

package player

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/mveld/grimvale/catalog"
)

var (
	// ErrNotCarried is returned when an item id is not in the inventory.
	ErrNotCarried = errors.New("item not in inventory")
	// ErrNotEquippable is returned when an item template declares no slot.
	ErrNotEquippable = errors.New("item has no equipment slot")
	// ErrSlotEmpty is returned when unequipping an empty slot.
	ErrSlotEmpty = errors.New("nothing equipped in that slot")
)

// AddItem appends an item id to the inventory. Order is preserved for
// display.
func (p *Player) AddItem(id string) {
	p.Inventory = append(p.Inventory, id)
}

// GrantBoundItem adds a uniquely identified instance of a template,
// for quest-bound items that must not be confused with ordinary
// copies. Returns the generated instance id.
func (p *Player) GrantBoundItem(templateID string) string {
	id := fmt.Sprintf("%s#%s", templateID, uuid.NewString()[:8])
	p.Inventory = append(p.Inventory, id)
	return id
}

// RemoveItem removes the first inventory entry resolving to the given
// template id. Returns the removed instance id and whether it was found.
func (p *Player) RemoveItem(id string) (string, bool) {
	want := catalog.BaseID(id)
	for i, held := range p.Inventory {
		if catalog.BaseID(held) == want {
			removed := held
			p.Inventory = append(p.Inventory[:i], p.Inventory[i+1:]...)
			return removed, true
		}
	}
	return "", false
}

// HasItem reports whether any inventory entry resolves to the template.
func (p *Player) HasItem(id string) bool {
	want := catalog.BaseID(id)
	for _, held := range p.Inventory {
		if catalog.BaseID(held) == want {
			return true
		}
	}
	return false
}

// CountItem counts inventory entries resolving to the template.
func (p *Player) CountItem(id string) int {
	want := catalog.BaseID(id)
	n := 0
	for _, held := range p.Inventory {
		if catalog.BaseID(held) == want {
			n++
		}
	}
	return n
}

// Equip moves an inventory item into its declared slot. An item
// already occupying the slot swaps back into the inventory, so the
// slot holds at most one item and an equipped item never also sits in
// the inventory.
func (p *Player) Equip(id string, cat *catalog.Catalog) error {
	def, ok := cat.Item(id)
	if !ok {
		return fmt.Errorf("unknown item %q", id)
	}
	if def.Slot == "" {
		return ErrNotEquippable
	}
	instance, found := p.RemoveItem(id)
	if !found {
		return ErrNotCarried
	}
	if prev, occupied := p.Equipment[def.Slot]; occupied {
		p.Inventory = append(p.Inventory, prev)
	}
	p.Equipment[def.Slot] = instance
	return nil
}

// Unequip moves the item in a slot back into the inventory.
func (p *Player) Unequip(slot string) error {
	id, ok := p.Equipment[slot]
	if !ok {
		return ErrSlotEmpty
	}
	delete(p.Equipment, slot)
	p.Inventory = append(p.Inventory, id)
	return nil
}

// EquippedIn returns the instance id occupying a slot, if any.
func (p *Player) EquippedIn(slot string) (string, bool) {
	id, ok := p.Equipment[slot]
	return id, ok
}

// SpendGold deducts an amount if affordable. Gold never goes negative.
func (p *Player) SpendGold(amount int) bool {
	if amount < 0 || p.Gold < amount {
		return false
	}
	p.Gold -= amount
	return true
}

// AddGold credits gold.
func (p *Player) AddGold(amount int) {
	if amount > 0 {
		p.Gold += amount
	}
}

// UseItem consumes an inventory item with an effect payload, applying
// hp/mp restoration. Returns what was restored, or ErrNotCarried /
// an error when the item has no usable effect.
func (p *Player) UseItem(id string, cat *catalog.Catalog) (map[string]int, error) {
	def, ok := cat.Item(id)
	if !ok {
		return nil, fmt.Errorf("unknown item %q", id)
	}
	if len(def.Effect) == 0 {
		return nil, fmt.Errorf("%s cannot be used", def.Name)
	}
	if !p.HasItem(id) {
		return nil, ErrNotCarried
	}
	applied := map[string]int{}
	for name, amount := range def.Effect {
		switch name {
		case "hp":
			applied["hp"] = p.Heal(amount)
		case "mp":
			applied["mp"] = p.RestoreMP(amount)
		}
	}
	p.RemoveItem(id)
	return applied, nil
}

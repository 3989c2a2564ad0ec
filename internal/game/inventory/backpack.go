package inventory

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

var (
	// ErrUnknownItem is returned when an item id is not registered.
	ErrUnknownItem = errors.New("unknown item")
	// ErrBackpackFull is returned when an add would exceed the slot limit.
	ErrBackpackFull = errors.New("backpack full")
	// ErrNotEnough is returned when removing more units than are carried.
	ErrNotEnough = errors.New("not enough items")
)

// ItemInstance is one occupied backpack slot.
type ItemInstance struct {
	InstanceID string `json:"instance_id"`
	ItemDefID  string `json:"item_id"`
	Quantity   int    `json:"quantity"`
}

// Backpack is a slot-limited container. Its exported fields are the
// persisted form carried in player snapshots.
type Backpack struct {
	MaxSlots int            `json:"max_slots"`
	Items    []ItemInstance `json:"items"`
}

// NewBackpack creates an empty Backpack with maxSlots slots.
//
// Precondition: maxSlots >= 0.
func NewBackpack(maxSlots int) *Backpack {
	return &Backpack{MaxSlots: maxSlots, Items: []ItemInstance{}}
}

// Add places quantity units of itemDefID into the backpack, filling existing
// stacks before opening new slots. It is atomic: on error nothing changes.
//
// Precondition: quantity > 0.
func (b *Backpack) Add(itemDefID string, quantity int, reg *Registry) error {
	def, ok := reg.Item(itemDefID)
	if !ok {
		return fmt.Errorf("backpack: %w %q", ErrUnknownItem, itemDefID)
	}
	if quantity <= 0 {
		return fmt.Errorf("backpack: quantity must be > 0")
	}

	remaining := quantity
	room := make([]int, len(b.Items))
	for i, inst := range b.Items {
		if remaining == 0 {
			break
		}
		if inst.ItemDefID != def.ID || inst.Quantity >= def.MaxStack {
			continue
		}
		take := min(remaining, def.MaxStack-inst.Quantity)
		room[i] = take
		remaining -= take
	}
	newSlots := (remaining + def.MaxStack - 1) / def.MaxStack
	if len(b.Items)+newSlots > b.MaxSlots {
		return fmt.Errorf("backpack: %w: %d more slots needed for %q", ErrBackpackFull, newSlots, itemDefID)
	}

	for i, take := range room {
		b.Items[i].Quantity += take
	}
	for remaining > 0 {
		q := min(remaining, def.MaxStack)
		b.Items = append(b.Items, ItemInstance{
			InstanceID: uuid.New().String(),
			ItemDefID:  def.ID,
			Quantity:   q,
		})
		remaining -= q
	}
	return nil
}

// Remove takes quantity units of itemDefID out of the backpack, draining the
// last stacks first. It is atomic: on error nothing changes.
func (b *Backpack) Remove(itemDefID string, quantity int) error {
	if quantity <= 0 {
		return fmt.Errorf("backpack: quantity must be > 0")
	}
	if have := b.Count(itemDefID); have < quantity {
		return fmt.Errorf("backpack: %w: have %d %q, need %d", ErrNotEnough, have, itemDefID, quantity)
	}
	remaining := quantity
	for i := len(b.Items) - 1; i >= 0 && remaining > 0; i-- {
		if b.Items[i].ItemDefID != itemDefID {
			continue
		}
		take := min(remaining, b.Items[i].Quantity)
		b.Items[i].Quantity -= take
		remaining -= take
		if b.Items[i].Quantity == 0 {
			b.Items = append(b.Items[:i], b.Items[i+1:]...)
		}
	}
	return nil
}

// Count returns the total units of itemDefID carried.
func (b *Backpack) Count(itemDefID string) int {
	n := 0
	for _, inst := range b.Items {
		if inst.ItemDefID == itemDefID {
			n += inst.Quantity
		}
	}
	return n
}

// UsedSlots returns the number of occupied slots.
func (b *Backpack) UsedSlots() int {
	return len(b.Items)
}

// Clone returns an independent copy of b.
func (b *Backpack) Clone() *Backpack {
	out := &Backpack{MaxSlots: b.MaxSlots, Items: make([]ItemInstance, len(b.Items))}
	copy(out.Items, b.Items)
	return out
}

package condition

// The helpers in this file never modify the slice they are given; each returns
// a fresh slice so callers can swap state atomically.

// Clone returns an independent copy of effects. A nil input yields an empty,
// non-nil slice.
func Clone(effects []StatusEffect) []StatusEffect {
	out := make([]StatusEffect, len(effects))
	copy(out, effects)
	return out
}

// Find returns the active effect of type t.
func Find(effects []StatusEffect, t Type) (StatusEffect, bool) {
	for _, e := range effects {
		if e.Type == t {
			return e, true
		}
	}
	return StatusEffect{}, false
}

// Replace returns effects with every effect of e.Type removed and e appended.
//
// Postcondition: exactly one effect of e.Type is present in the result.
func Replace(effects []StatusEffect, e StatusEffect) []StatusEffect {
	out := make([]StatusEffect, 0, len(effects)+1)
	for _, cur := range effects {
		if cur.Type != e.Type {
			out = append(out, cur)
		}
	}
	return append(out, e)
}

// Tick decrements every effect's Duration by one and drops those at or below zero.
// It returns the surviving effects and the IDs of the expired ones.
func Tick(effects []StatusEffect) (remaining []StatusEffect, expired []string) {
	remaining = make([]StatusEffect, 0, len(effects))
	for _, e := range effects {
		e.Duration--
		if e.Duration <= 0 {
			expired = append(expired, e.ID)
			continue
		}
		remaining = append(remaining, e)
	}
	return remaining, expired
}

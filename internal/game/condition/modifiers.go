package condition

// Amplify scales n up by pct percent, truncating toward zero.
func Amplify(n, pct int) int {
	return n * (100 + pct) / 100
}

// Diminish scales n down by pct percent, truncating toward zero. A pct of
// 100 or more yields zero.
func Diminish(n, pct int) int {
	if pct >= 100 {
		return 0
	}
	return n * (100 - pct) / 100
}

// Percent returns the Value of the active effect of type t, or 0.
func Percent(effects []StatusEffect, t Type) int {
	if e, ok := Find(effects, t); ok {
		return e.Value
	}
	return 0
}

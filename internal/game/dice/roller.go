package dice

import "go.uber.org/zap"

// Roll evaluates expr with src.
//
// Precondition: expr came from Parse; src is non-nil.
// Postcondition: len(result.Dice) == expr.Count.
func Roll(expr Expression, src Source) RollResult {
	rolled := make([]int, expr.Count)
	for i := range rolled {
		rolled[i] = src.Intn(expr.Sides) + 1
	}
	return RollResult{Expression: expr.Raw, Dice: rolled, Modifier: expr.Modifier}
}

// RollExpr parses and rolls expr in one call.
func RollExpr(expr string, src Source) (RollResult, error) {
	e, err := Parse(expr)
	if err != nil {
		return RollResult{}, err
	}
	return Roll(e, src), nil
}

// Roller is a Source that logs every draw at debug level. The gameserver
// hands one to the resolver so encounter randomness is auditable.
type Roller struct {
	src    Source
	logger *zap.Logger
}

// NewLoggedRoller wraps src so each draw is logged to logger.
//
// Precondition: src and logger must be non-nil.
func NewLoggedRoller(src Source, logger *zap.Logger) *Roller {
	return &Roller{src: src, logger: logger}
}

// Intn draws from the wrapped source and logs the bound and result.
func (r *Roller) Intn(n int) int {
	v := r.src.Intn(n)
	r.logger.Debug("dice draw", zap.Int("n", n), zap.Int("value", v))
	return v
}

// RollExpr parses and rolls expr, logging the full result.
func (r *Roller) RollExpr(expr string) (RollResult, error) {
	res, err := RollExpr(expr, r.src)
	if err != nil {
		return RollResult{}, err
	}
	r.logger.Debug("dice roll",
		zap.String("expression", res.Expression),
		zap.Ints("dice", res.Dice),
		zap.Int("modifier", res.Modifier),
		zap.Int("total", res.Total()),
	)
	return res, nil
}

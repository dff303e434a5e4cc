package safas

import "math/big"

// Hole is a deferred emission recorded because, at the time `d` tried to
// emit it, part of its value depended on a label that was not yet defined.
// Per spec.md §9's design note, it carries the lexical environment of the
// emission site, wrapped in a child frame that binds `ip` to its value at
// emission time: labels defined later in that environment are visible to
// re-evaluation in pass 2, while `ip` stays the one the emission site saw.
type Hole struct {
	Pos      uint64
	Width    uint
	Expr     Value
	Env      *Env
	Resolved bool
}

// Resolver implements spec.md §4.7's two-pass label resolution: pass 1 is
// driven incrementally as the evaluator emits values (RecordHole is called
// whenever an emission can't yet be completed); pass 2 runs once as
// Resolve, iterating to a fixed point.
type Resolver struct {
	holes []*Hole
}

// NewResolver constructs an empty resolver.
func NewResolver() *Resolver { return &Resolver{} }

// RecordHole registers a deferred emission. The cursor has already had
// width zero bits reserved/written at pos by the caller.
func (r *Resolver) RecordHole(pos uint64, width uint, expr Value, env *Env) {
	r.holes = append(r.holes, &Hole{Pos: pos, Width: width, Expr: expr, Env: env})
}

// Pending reports how many unresolved holes remain.
func (r *Resolver) Pending() int {
	n := 0

	for _, h := range r.holes {
		if !h.Resolved {
			n++
		}
	}

	return n
}

// Resolve iterates the deferred holes to a fixed point: each pass
// re-evaluates every still-unresolved hole's expression in its captured
// environment. A hole that now evaluates to a concrete Integer or Binary is
// written to the cursor and marked resolved. The process repeats until no
// holes remain or a pass makes no progress, at which point every still-
// unresolved hole is reported as an UnresolvedLabel error.
func (r *Resolver) Resolve(ev *Evaluator, cursor *Cursor) []*Error {
	for {
		progress := false

		for _, h := range r.holes {
			if h.Resolved {
				continue
			}

			v, err := ev.Eval(h.Expr, h.Env)
			if err != nil {
				continue // still unresolved; try again next pass
			}

			width, bits, werr := patternBits(v)
			if werr != nil {
				continue
			}

			cursor.WriteBits(h.Pos, h.Width, truncateOrExtend(bits, width, h.Width))
			h.Resolved = true
			progress = true
		}

		if r.Pending() == 0 {
			return nil
		}

		if !progress {
			break
		}
	}

	var errs []*Error

	for _, h := range r.holes {
		if !h.Resolved {
			errs = append(errs, Errorf(UnresolvedLabelKind, "could not resolve deferred emission %s", h.Expr.String()))
		}
	}

	return errs
}

// truncateOrExtend reinterprets a raw bit pattern of `from` bits as `to`
// bits, using the same left-truncate/left-zero-extend rule as Binary.Rewidth.
func truncateOrExtend(bits *big.Int, from, to uint) *big.Int {
	if to >= from {
		return bits
	}

	modulus := new(big.Int).Lsh(big.NewInt(1), to)

	return new(big.Int).Mod(bits, modulus)
}

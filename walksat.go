package cavitysat

import "math/rand"

// WalkSat is the randomized local-search fallback invoked when decimation
// detects the paramagnetic regime (average survey bias too weak to guide
// further fixing). It searches directly over Variable.value for the
// sub-formula of clauses survey propagation has not already satisfied,
// using the standard "fast break-count" WalkSAT move.
type WalkSat struct {
	fg  *FactorGraph
	rng *rand.Rand

	noise    float64
	maxTries int
	maxSteps int

	// UseSeparatingPickVar switches variable selection to the
	// separating-non-caching strategy (Liu, 2015) via pickVar, instead of
	// the default break-count selection in Run. Off by default: pickVar
	// is preserved as an alternate strategy, not the live path.
	UseSeparatingPickVar bool
}

func newWalkSat(fg *FactorGraph, rng *rand.Rand, cfg Config) *WalkSat {
	maxSteps := cfg.WSMaxSteps
	if maxSteps == 0 {
		maxSteps = 100 * len(fg.Variables)
	}
	return &WalkSat{
		fg:                   fg,
		rng:                  rng,
		noise:                cfg.WSNoise,
		maxTries:             cfg.WSMaxTries,
		maxSteps:             maxSteps,
		UseSeparatingPickVar: cfg.UseSeparatingPickVar,
	}
}

// Run searches for a satisfying assignment of every currently-unassigned
// variable over the clauses survey propagation left unsatisfied. On
// success it pushes the final value of every variable it assigned onto
// FactorGraph.FixedVars
// and returns true; after WSMaxTries unproductive restarts it returns
// false.
func (w *WalkSat) Run() bool {
	fg := w.fg

	var vars []*Variable
	for i := range fg.Variables {
		if fg.Variables[i].unassigned() {
			vars = append(vars, &fg.Variables[i])
		}
	}
	var clauses []ClauseID
	for cid := range fg.Clauses {
		if !fg.Clauses[cid].Satisfied {
			clauses = append(clauses, ClauseID(cid))
		}
	}
	if len(vars) == 0 {
		return true
	}

	unsat := newUnsatSet(len(fg.Clauses))
	for try := 0; try < w.maxTries; try++ {
		for _, v := range vars {
			if w.rng.Intn(2) == 1 {
				v.Value = 1
			} else {
				v.Value = -1
			}
		}

		unsat.reset()
		for _, cid := range clauses {
			if w.countTrueLiterals(cid) == 0 {
				unsat.add(cid)
			}
		}

		for step := 0; step < w.maxSteps; step++ {
			if unsat.len() == 0 {
				for _, v := range vars {
					fg.FixedVars.push(FixedVar{ID: v.ID, Value: v.Value})
				}
				return true
			}

			cid := unsat.pick(w.rng)
			var selected *Variable
			if w.UseSeparatingPickVar {
				selected = w.pickVar(cid)
			} else {
				selected = w.pickByBreakCount(cid)
			}

			// Drop every clause touching the selected variable from the
			// unsat set, then recompute membership once it has flipped —
			// simpler than trying to predict which will change and
			// equivalent, since re-adding is keyed on the post-flip count.
			for _, lid := range selected.Lits {
				l := &fg.Literals[lid]
				if l.Enabled {
					unsat.remove(l.Clause)
				}
			}

			if selected.Value == 1 {
				selected.Value = -1
			} else {
				selected.Value = 1
			}

			for _, lid := range selected.Lits {
				l := &fg.Literals[lid]
				if l.Enabled && w.countTrueLiterals(l.Clause) == 0 {
					unsat.add(l.Clause)
				}
			}
		}
	}
	return false
}

// countTrueLiterals counts enabled literals of c whose variable currently
// satisfies them.
func (w *WalkSat) countTrueLiterals(cid ClauseID) int {
	n := 0
	for _, lid := range w.fg.Clauses[cid].Lits {
		l := &w.fg.Literals[lid]
		if l.Enabled && w.fg.variable(l.Var).Value == l.Type {
			n++
		}
	}
	return n
}

// unsatSet is the working set of currently-unsatisfied clauses, kept as a
// dense slice (for O(1) uniform random pick, matching the teacher's random
// draws being observable/reproducible) with swap-delete removal and a side
// index for O(1) membership lookup — the Go counterpart of the original's
// vector<Clause*> erase/push_back pattern. A Go map would make pick()'s
// iteration order depend on the runtime's randomized map order rather than
// the solver's own seeded RNG, breaking reproducibility.
type unsatSet struct {
	order []ClauseID
	pos   []int // clause id -> index in order, or -1
}

func newUnsatSet(numClauses int) *unsatSet {
	pos := make([]int, numClauses)
	for i := range pos {
		pos[i] = -1
	}
	return &unsatSet{pos: pos}
}

func (s *unsatSet) reset() {
	for _, cid := range s.order {
		s.pos[cid] = -1
	}
	s.order = s.order[:0]
}

func (s *unsatSet) len() int { return len(s.order) }

func (s *unsatSet) add(cid ClauseID) {
	if s.pos[cid] != -1 {
		return
	}
	s.pos[cid] = len(s.order)
	s.order = append(s.order, cid)
}

func (s *unsatSet) remove(cid ClauseID) {
	i := s.pos[cid]
	if i == -1 {
		return
	}
	last := len(s.order) - 1
	moved := s.order[last]
	s.order[i] = moved
	s.pos[moved] = i
	s.order = s.order[:last]
	s.pos[cid] = -1
}

func (s *unsatSet) pick(rng *rand.Rand) ClauseID {
	return s.order[rng.Intn(len(s.order))]
}

// pickByBreakCount implements the live WalkSAT selection rule: compute each
// clause variable's break-count (how many currently-satisfied clauses
// would become unsatisfied by flipping it), force a zero-break variable or
// a noise-driven random choice, otherwise the lowest-break variable
// (uniformly among ties).
func (w *WalkSat) pickByBreakCount(cid ClauseID) *Variable {
	fg := w.fg
	var candidates []*Variable
	lowest := -1
	var clauseVars []*Variable
	for _, lid := range fg.Clauses[cid].Lits {
		l := &fg.Literals[lid]
		if !l.Enabled {
			continue
		}
		v := fg.variable(l.Var)
		clauseVars = append(clauseVars, v)

		breakCount := 0
		for _, lid2 := range v.Lits {
			e := &fg.Literals[lid2]
			if e.Enabled && v.Value == e.Type && w.countTrueLiterals(e.Clause) == 1 {
				breakCount++
			}
		}

		switch {
		case lowest == -1 || breakCount < lowest:
			lowest = breakCount
			candidates = candidates[:0]
			candidates = append(candidates, v)
		case breakCount == lowest:
			candidates = append(candidates, v)
		}
	}

	if lowest == 0 || w.rng.Float64() > w.noise {
		if len(candidates) == 1 {
			return candidates[0]
		}
		return candidates[w.rng.Intn(len(candidates))]
	}
	return clauseVars[w.rng.Intn(len(clauseVars))]
}

// pickVar is the separating-non-caching WalkSAT variant (Liu, 2015): among
// the clause's variables, prefer one with no "threatened" clause (a clause
// where it is the sole true literal) over computing a full break-count.
// Preserved as an alternate strategy behind WalkSat.UseSeparatingPickVar;
// the live default path is pickByBreakCount.
func (w *WalkSat) pickVar(cid ClauseID) *Variable {
	fg := w.fg
	var vars []*Variable
	for _, lid := range fg.Clauses[cid].Lits {
		l := &fg.Literals[lid]
		if l.Enabled {
			vars = append(vars, fg.variable(l.Var))
		}
	}
	w.rng.Shuffle(len(vars), func(i, j int) { vars[i], vars[j] = vars[j], vars[i] })

	for _, v := range vars {
		zero := true
		for _, lid := range v.Lits {
			e := &fg.Literals[lid]
			if e.Enabled && v.Value == e.Type && w.countTrueLiterals(e.Clause) == 1 {
				zero = false
				break
			}
		}
		if zero {
			return v
		}
	}

	for _, v := range vars {
		v.wsBreak = 1
		for _, lid := range v.Lits {
			e := &fg.Literals[lid]
			if e.Enabled && v.Value == e.Type && w.countTrueLiterals(e.Clause) == 1 {
				v.wsBreak++
			}
		}
	}

	if w.rng.Float64() < w.noise {
		return vars[w.rng.Intn(len(vars))]
	}
	best := vars[0]
	for _, v := range vars {
		if v.wsBreak < best.wsBreak {
			best = v
		}
	}
	return best
}

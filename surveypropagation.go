package cavitysat

import "math/rand"

// SurveyPropagation iterates the survey-propagation fixed-point computation
// over a FactorGraph, writing Literal.Survey on enabled literals and
// {P, M, PZero, MZero} on unassigned variables. It maintains per-variable
// sub-products incrementally (updateSubProduct) so each clause update costs
// O(clause width) rather than O(variable degree).
type SurveyPropagation struct {
	fg  *FactorGraph
	rng *rand.Rand

	epsilon    float64
	eps        float64
	iterations int

	iterCount int // cumulative sweep count, for diagnostics
}

func newSurveyPropagation(fg *FactorGraph, rng *rand.Rand, cfg Config) *SurveyPropagation {
	return &SurveyPropagation{
		fg:         fg,
		rng:        rng,
		epsilon:    cfg.Epsilon,
		eps:        cfg.Eps,
		iterations: cfg.Iterations,
	}
}

// IterCount reports the total number of sweeps run so far across all calls
// to Run on this SurveyPropagation.
func (sp *SurveyPropagation) IterCount() int { return sp.iterCount }

// Run iterates survey updates to a fixed point. It returns true once an
// iteration's maximum |Δsurvey| falls to or below Epsilon, or false if
// Iterations sweeps elapse first.
func (sp *SurveyPropagation) Run() bool {
	sp.computeSubProducts()
	eps := 0.0
	iter := 0
	for {
		sp.iterCount++
		eps = sp.iterate()
		iter++
		if !(eps > sp.epsilon && iter < sp.iterations) {
			break
		}
	}
	return eps <= sp.epsilon
}

// computeSubProducts recomputes {P, M, PZero, MZero} from scratch for every
// unassigned variable, by scanning its enabled literals in unsatisfied
// clauses. Called once per Run, after which updateSurvey maintains these
// values incrementally.
func (sp *SurveyPropagation) computeSubProducts() {
	fg := sp.fg
	for i := range fg.Variables {
		v := &fg.Variables[i]
		if !v.unassigned() {
			continue
		}
		v.P, v.M = 1, 1
		v.PZero, v.MZero = 0, 0
		for _, lid := range v.Lits {
			l := &fg.Literals[lid]
			if !l.Enabled || fg.Clauses[l.Clause].Satisfied {
				continue
			}
			oneMinus := 1 - l.Survey
			if l.Type < 0 {
				if oneMinus > sp.eps {
					v.P *= oneMinus
				} else {
					v.PZero++
				}
			} else {
				if oneMinus > sp.eps {
					v.M *= oneMinus
				} else {
					v.MZero++
				}
			}
		}
	}
}

// iterate runs one sweep: clauses in random order, updateSurvey on each
// unsatisfied one. Returns the largest per-clause eps seen.
func (sp *SurveyPropagation) iterate() float64 {
	fg := sp.fg
	order := make([]ClauseID, len(fg.Clauses))
	for i := range order {
		order[i] = ClauseID(i)
	}
	sp.rng.Shuffle(len(order), func(i, j int) { order[i], order[j] = order[j], order[i] })

	var maxEps float64
	for _, cid := range order {
		if fg.Clauses[cid].Satisfied {
			continue
		}
		if eps := sp.updateSurvey(cid); eps > maxEps {
			maxEps = eps
		}
	}
	return maxEps
}

// cavityProducts computes the incoming cavity products u (disagreeing
// neighbors) and s (agreeing neighbors, excluding l's own clause) for
// literal l of variable v, dividing l's own contribution out of v's
// aggregate P/M the way the cavity method requires.
func (sp *SurveyPropagation) cavityProducts(v *Variable, l *Literal) (u, s float64) {
	oneMinus := 1 - l.Survey
	if l.Type < 0 {
		if v.MZero != 0 {
			u = 0
		} else {
			u = v.M
		}
		switch {
		case v.PZero == 0:
			s = v.P / oneMinus
		case v.PZero == 1 && oneMinus < sp.eps:
			s = v.P
		default:
			s = 0
		}
	} else {
		if v.PZero != 0 {
			u = 0
		} else {
			u = v.P
		}
		switch {
		case v.MZero == 0:
			s = v.M / oneMinus
		case v.MZero == 1 && oneMinus < sp.eps:
			s = v.M
		default:
			s = 0
		}
	}
	return u, s
}

// updateSubProduct folds literal l's (oldSurvey -> newSurvey) transition
// into its variable's aggregate P or M (chosen by l's polarity), crossing
// the PZero/MZero threshold as needed. This is the incremental counterpart
// to computeSubProducts' from-scratch accumulation.
func (sp *SurveyPropagation) updateSubProduct(v *Variable, typ int8, oldSurvey, newSurvey float64) {
	oldOneMinus := 1 - oldSurvey
	newOneMinus := 1 - newSurvey
	mul := func(p *float64, zero *int) {
		if oldOneMinus > sp.eps {
			if newOneMinus > sp.eps {
				*p *= newOneMinus / oldOneMinus
			} else {
				*p /= oldOneMinus
				*zero++
			}
		} else if newOneMinus > sp.eps {
			*p *= newOneMinus
			*zero--
		}
	}
	if typ < 0 {
		mul(&v.P, &v.PZero)
	} else {
		mul(&v.M, &v.MZero)
	}
}

// updateSurvey recomputes the survey on every enabled literal of clause cid
// whose variable is still unassigned, returning the largest |Δsurvey| seen.
// This is the numerically sensitive kernel described in the design notes:
// division by (1-η) is guarded by the PZero/MZero "zero factor" counters
// rather than performed unconditionally.
func (sp *SurveyPropagation) updateSurvey(cid ClauseID) float64 {
	fg := sp.fg
	c := &fg.Clauses[cid]

	var entries []survEntry
	allprod := 1.0
	zeroes := 0

	for _, lid := range c.Lits {
		l := &fg.Literals[lid]
		v := fg.variable(l.Var)
		if !l.Enabled || !v.unassigned() {
			continue
		}

		u, s := sp.cavityProducts(v, l)
		pu := (1 - u) * s
		ps := (1 - s) * u
		pz := s * u

		var prod float64
		if pu != 0 {
			prod = pu / (pu + ps + pz)
		}

		entries = append(entries, survEntry{lid, prod})
		if prod < sp.eps {
			zeroes++
			if zeroes >= 2 {
				break
			}
		} else {
			allprod *= prod
		}
	}
	allZero := zeroes >= 2

	var maxDelta float64
	for _, lid := range c.Lits {
		l := &fg.Literals[lid]
		v := fg.variable(l.Var)
		if !l.Enabled || !v.unassigned() {
			continue
		}

		var newSurvey float64
		if !allZero {
			prod := prodFor(entries, lid)
			switch {
			case zeroes == 0:
				newSurvey = allprod / prod
			case zeroes == 1 && prod < sp.eps:
				newSurvey = allprod
			default:
				newSurvey = 0
			}
		}

		oldSurvey := l.Survey
		sp.updateSubProduct(v, l.Type, oldSurvey, newSurvey)

		delta := oldSurvey - newSurvey
		if delta < 0 {
			delta = -delta
		}
		if delta > maxDelta {
			maxDelta = delta
		}
		l.Survey = newSurvey
	}
	return maxDelta
}

// survEntry holds one literal's cavity product, scanned during the first
// pass of updateSurvey and consumed during its second pass.
type survEntry struct {
	lid  LitID
	prod float64
}

func prodFor(entries []survEntry, lid LitID) float64 {
	for _, e := range entries {
		if e.lid == lid {
			return e.prod
		}
	}
	return 0
}

// initRandomSurveys assigns every enabled literal's survey a fresh uniform
// draw in [0, 1]. Called once before decimation begins and again whenever
// the graph is reset.
func (sp *SurveyPropagation) initRandomSurveys() {
	for i := range sp.fg.Literals {
		l := &sp.fg.Literals[i]
		if l.Enabled {
			l.Survey = sp.rng.Float64()
		}
	}
}

// ComputeBias derives {WP, WM, WZ} for an unassigned variable from its
// current P/M/PZero/MZero, normalizing the three to sum to 1. When both
// sides carry a zero factor (all three are 0 before normalizing), they are
// left at 0.
func (sp *SurveyPropagation) ComputeBias(v *Variable) {
	p := v.P
	if v.PZero != 0 {
		p = 0
	}
	m := v.M
	if v.MZero != 0 {
		m = 0
	}
	wz := p * m
	wp := m - wz
	wm := p - wz

	norm := wp + wm + wz
	if norm == 0 {
		v.WP, v.WM, v.WZ = 0, 0, 0
		return
	}
	v.WP = wp / norm
	v.WM = wm / norm
	v.WZ = wz / norm
}

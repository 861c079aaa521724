package cavitysat

import (
	"math"
	"sort"
)

// Decimation drives the outer survey-inspired-decimation (SID) loop: run
// survey propagation to convergence, compute every unassigned variable's
// bias, fix a batch of the highest-bias variables, and repeat — falling
// back to WalkSat when the graph collapses into the paramagnetic regime
// (average bias too small to decimate informatively).
type Decimation struct {
	fg *FactorGraph
	sp *SurveyPropagation
	ws *WalkSat

	alpha      float64
	paramagnet float64

	// stepSize is this decimation session's fixed per-round batch size. 0
	// means not yet computed for the current session; resetSession clears
	// it back to that state.
	stepSize int
}

func newDecimation(fg *FactorGraph, sp *SurveyPropagation, ws *WalkSat, cfg Config) *Decimation {
	return &Decimation{
		fg:         fg,
		sp:         sp,
		ws:         ws,
		alpha:      cfg.Alpha,
		paramagnet: cfg.Paramagnet,
	}
}

func (d *Decimation) fixPerStep() int {
	n := int(float64(d.fg.UnassignedVars) * d.alpha)
	if n < 1 {
		n = 1
	}
	return n
}

// sessionStep returns this decimation session's fixed batch size, computing
// it once from the unassigned-variable count and reusing it across every
// round thereafter — SPSolver.cc computes fixPerStep once before its while
// loop rather than recomputing it on every iteration, so the batch size does
// not shrink as variables get fixed.
func (d *Decimation) sessionStep() int {
	if d.stepSize == 0 {
		d.stepSize = d.fixPerStep()
	}
	return d.stepSize
}

// resetSession clears the cached batch size, so the next sessionStep call
// recomputes it from scratch for a new decimation session.
func (d *Decimation) resetSession() { d.stepSize = 0 }

// biasComparator orders variables by descending |wp - wm|, the strength of
// their preference for one value over the other.
func biasComparator(vs []*Variable) {
	sort.SliceStable(vs, func(i, j int) bool {
		return math.Abs(vs[i].WP-vs[i].WM) > math.Abs(vs[j].WP-vs[j].WM)
	})
}

// Run is the full survey-inspired-decimation loop (surveyInspiredDecimation
// in the design notes). It returns true once every variable is assigned, or
// false on contradiction or survey-propagation non-convergence. Reaching
// the paramagnetic regime is not a failure: control passes to WalkSat and
// its result is returned directly.
func (d *Decimation) Run() bool {
	if !d.fg.unitPropagation() {
		return false
	}
	d.sp.initRandomSurveys()
	d.resetSession()
	step := d.sessionStep()

	for d.sp.Run() && d.fg.UnassignedVars > 0 {
		unassigned, paramagnetic := d.biasedOrder()
		if paramagnetic {
			return d.ws.Run()
		}

		i := 0
		for d.fg.UnassignedVars > 0 && i < step {
			for len(unassigned) > 0 && !unassigned[0].unassigned() {
				unassigned = unassigned[1:]
			}
			if len(unassigned) == 0 {
				break
			}
			v := unassigned[0]
			unassigned = unassigned[1:]

			d.sp.ComputeBias(v)
			// The variable is fixed to the sign opposite its larger bias:
			// WP > WM gives -1, the reverse of reading WP as a +1
			// preference. Step applies the same rule.
			val := int8(1)
			if v.WP > v.WM {
				val = -1
			}
			if !d.fg.fix(v.ID, val, true) {
				return false
			}
			i++
		}
	}

	return d.fg.UnassignedVars == 0
}

// Step runs exactly one decimation batch (varsToAssign in the design
// notes), for callers that drive the solve loop externally and want to
// inspect FactorGraph.FixedVars between batches. It drains FixedVars
// before running so the caller only sees fixes made by this call.
func (d *Decimation) Step() bool {
	d.fg.FixedVars.clear()

	if !d.sp.Run() || d.fg.UnassignedVars == 0 {
		return false
	}

	unassigned, paramagnetic := d.biasedOrder()
	if paramagnetic {
		return d.ws.Run()
	}

	step := d.sessionStep()
	i := 0
	for d.fg.UnassignedVars > 0 && i < step {
		for len(unassigned) > 0 && !unassigned[0].unassigned() {
			unassigned = unassigned[1:]
		}
		if len(unassigned) == 0 {
			break
		}
		v := unassigned[0]
		unassigned = unassigned[1:]

		d.sp.ComputeBias(v)
		val := int8(1)
		if v.WP > v.WM {
			val = -1
		}
		if !d.fg.fix(v.ID, val, true) {
			return false
		}
		i++
	}
	return true
}

// biasedOrder computes every unassigned variable's bias, reports whether
// the graph has collapsed into the paramagnetic regime, and returns the
// variables sorted by descending bias strength for the decimation batch to
// consume. Sorting happens once per call (not re-sorted within a batch),
// trading a marginally stale order for avoiding an O(n log n) resort after
// every single fix.
func (d *Decimation) biasedOrder() (sorted []*Variable, paramagnetic bool) {
	var unassigned []*Variable
	var summag float64
	for i := range d.fg.Variables {
		v := &d.fg.Variables[i]
		if !v.unassigned() {
			continue
		}
		d.sp.ComputeBias(v)
		maxmag := v.WP
		if v.WM > maxmag {
			maxmag = v.WM
		}
		summag += maxmag
		unassigned = append(unassigned, v)
	}
	if len(unassigned) == 0 {
		return nil, false
	}
	if summag/float64(len(unassigned)) < d.paramagnet {
		return nil, true
	}
	biasComparator(unassigned)
	return unassigned, false
}

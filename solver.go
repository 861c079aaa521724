package cavitysat

import (
	"math/rand"
	"time"
)

// Solver wires one FactorGraph to one SurveyPropagation, one Decimation,
// and one WalkSat, all sharing a single seeded random source — the whole
// unit the external interfaces (spec's surveyInspiredDecimation,
// varsToAssign, WalkSat, resetGraph) operate through.
type Solver struct {
	fg  *FactorGraph
	sp  *SurveyPropagation
	dec *Decimation
	ws  *WalkSat

	rng  *rand.Rand
	seed int64
}

func nanoSeed() int64 { return time.Now().UnixNano() }

// NewSolver builds a solver around fg, filling any zero Config field from
// DefaultConfig. A zero Config.Seed seeds the random source from the
// current time; pass a nonzero seed for reproducible runs.
func NewSolver(fg *FactorGraph, cfg Config) *Solver {
	cfg = cfg.withDefaults()
	seed := cfg.Seed
	if seed == 0 {
		seed = nanoSeed()
	}
	fg.Eps = cfg.Eps

	rng := rand.New(rand.NewSource(seed))
	sp := newSurveyPropagation(fg, rng, cfg)
	ws := newWalkSat(fg, rng, cfg)
	dec := newDecimation(fg, sp, ws, cfg)

	return &Solver{fg: fg, sp: sp, dec: dec, ws: ws, rng: rng, seed: seed}
}

// FactorGraph returns the solver's underlying graph.
func (s *Solver) FactorGraph() *FactorGraph { return s.fg }

// Seed returns the seed the solver's random source was constructed with.
func (s *Solver) Seed() int64 { return s.seed }

// SurveyInspiredDecimation runs the full SID loop end to end: unit
// propagation, random survey initialization, then alternating survey
// propagation and decimation batches until every variable is fixed, a
// contradiction is hit, survey propagation fails to converge, or the
// paramagnetic regime hands off to WalkSat. Returns true iff every
// variable ends up assigned.
func (s *Solver) SurveyInspiredDecimation() bool { return s.dec.Run() }

// Solve is an alias for SurveyInspiredDecimation, named for callers that
// don't care about the SID acronym.
func (s *Solver) Solve() bool { return s.dec.Run() }

// Step runs exactly one decimation batch (varsToAssign), for callers
// driving the solve loop externally. FactorGraph.FixedVars holds the
// variables this call fixed.
func (s *Solver) Step() bool { return s.dec.Step() }

// WalkSat invokes the WalkSAT fallback directly, bypassing decimation.
func (s *Solver) WalkSat() bool { return s.ws.Run() }

// Reseed replaces the solver's shared random source with a freshly seeded
// one. Combined with ResetGraph, this is how a caller reproduces a prior
// run exactly: ResetGraph clears fixing/satisfaction state, Reseed resets
// the draw sequence back to the same starting point.
func (s *Solver) Reseed(seed int64) {
	if seed == 0 {
		seed = nanoSeed()
	}
	s.seed = seed
	s.rng = rand.New(rand.NewSource(seed))
	s.sp.rng = s.rng
	s.ws.rng = s.rng
}

// ResetGraph clears all fixing/satisfaction state and re-randomizes
// surveys, preparing the graph for another solve attempt with the same
// topology. The random source is not reseeded; call NewSolver again for a
// fresh, independent seed.
func (s *Solver) ResetGraph() {
	s.fg.resetGraph()
	s.sp.initRandomSurveys()
	s.dec.resetSession()
}

// Assignment reads off the satisfying assignment after a true return from
// Solve/SurveyInspiredDecimation/Step/WalkSat: variable i+1's value, or 0
// if still unassigned.
func (s *Solver) Assignment() []int { return s.fg.Assignment() }

// DrainFixedVars removes and returns every variable fixed since the last
// drain, in fix order — the mechanism Step's callers use to observe
// incremental progress.
func (s *Solver) DrainFixedVars() []FixedVar { return s.fg.FixedVars.drain() }

// Solve builds a FactorGraph from clauses and runs survey-inspired
// decimation to completion, returning the satisfying assignment (signed
// variable indices matching the input encoding) and whether one was found.
//
// This mirrors the teacher's own package-level Solve: external callers
// that don't need access to the graph or solver internals can use this
// directly instead of composing NewFactorGraph/NewSolver themselves.
func Solve(clauses [][]int, cfg Config) (assignment []int, ok bool) {
	fg := NewFactorGraph(clauses)
	s := NewSolver(fg, cfg)
	if !s.Solve() {
		return nil, false
	}
	values := s.Assignment()
	soln := make([]int, 0, len(values))
	for i, v := range values {
		if v == 0 {
			continue
		}
		id := i + 1
		if v < 0 {
			soln = append(soln, -id)
		} else {
			soln = append(soln, id)
		}
	}
	return soln, true
}

package cavitysat

import (
	"math"
	"math/rand"
	"testing"
)

// TestSurveyBounds exercises scenario 6 from the design notes: after any
// number of iterations, every enabled literal's survey stays in [0, 1]
// within floating-point slop.
func TestSurveyBounds(t *testing.T) {
	clauses := makeRandomKSAT(1, 60, 200, 3)
	fg := NewFactorGraph(clauses)
	if !fg.unitPropagation() {
		t.Fatal("unitPropagation reported contradiction on a random instance")
	}

	cfg := DefaultConfig()
	rng := rand.New(rand.NewSource(2))
	sp := newSurveyPropagation(fg, rng, cfg)
	sp.initRandomSurveys()
	sp.Run()

	const slop = 1e-12
	for i, l := range fg.Literals {
		if !l.Enabled {
			continue
		}
		if l.Survey < -slop || l.Survey > 1+slop {
			t.Errorf("literal %d: survey = %v, want in [0,1]", i, l.Survey)
		}
	}
}

// TestComputeBiasNormalizes checks that WP+WM+WZ sum to 1 for every
// unassigned variable once surveys have converged.
func TestComputeBiasNormalizes(t *testing.T) {
	clauses := makeRandomKSAT(3, 40, 140, 3)
	fg := NewFactorGraph(clauses)
	if !fg.unitPropagation() {
		t.Fatal("unitPropagation reported contradiction on a random instance")
	}

	cfg := DefaultConfig()
	rng := rand.New(rand.NewSource(4))
	sp := newSurveyPropagation(fg, rng, cfg)
	sp.initRandomSurveys()
	sp.Run()

	for i := range fg.Variables {
		v := &fg.Variables[i]
		if !v.unassigned() {
			continue
		}
		sp.ComputeBias(v)
		sum := v.WP + v.WM + v.WZ
		if sum == 0 {
			continue // norm==0 guard: both the P and the M side are zero
		}
		if math.Abs(sum-1) > 1e-9 {
			t.Errorf("var %d: WP+WM+WZ = %v, want 1", v.ID, sum)
		}
	}
}

// TestComputeSubProductsMatchesIncremental checks that computeSubProducts'
// from-scratch P/M/PZero/MZero agree with what a single updateSurvey sweep
// maintains incrementally, after randomizing surveys once.
func TestComputeSubProductsMatchesIncremental(t *testing.T) {
	clauses := makeRandomKSAT(5, 30, 100, 3)
	fg := NewFactorGraph(clauses)
	if !fg.unitPropagation() {
		t.Fatal("unitPropagation reported contradiction on a random instance")
	}

	cfg := DefaultConfig()
	rng := rand.New(rand.NewSource(6))
	sp := newSurveyPropagation(fg, rng, cfg)
	sp.initRandomSurveys()
	sp.computeSubProducts()
	sp.iterate()

	wantP := make([]float64, len(fg.Variables))
	wantM := make([]float64, len(fg.Variables))
	wantPZero := make([]int, len(fg.Variables))
	wantMZero := make([]int, len(fg.Variables))
	for i := range fg.Variables {
		wantP[i], wantM[i] = fg.Variables[i].P, fg.Variables[i].M
		wantPZero[i], wantMZero[i] = fg.Variables[i].PZero, fg.Variables[i].MZero
	}

	sp.computeSubProducts()
	for i := range fg.Variables {
		v := &fg.Variables[i]
		if !v.unassigned() {
			continue
		}
		if v.PZero != wantPZero[i] || v.MZero != wantMZero[i] {
			t.Errorf("var %d: PZero/MZero = %d/%d, want %d/%d", v.ID, v.PZero, v.MZero, wantPZero[i], wantMZero[i])
			continue
		}
		if v.PZero == 0 && math.Abs(v.P-wantP[i]) > 1e-9 {
			t.Errorf("var %d: P = %v, want %v", v.ID, v.P, wantP[i])
		}
		if v.MZero == 0 && math.Abs(v.M-wantM[i]) > 1e-9 {
			t.Errorf("var %d: M = %v, want %v", v.ID, v.M, wantM[i])
		}
	}
}

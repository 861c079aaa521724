package cavitysat

import "testing"

// TestUnitPropagationChain exercises scenario 1 from the design notes: a
// chain of unit clauses should fully assign the formula via unitPropagation
// alone, before survey propagation ever runs.
func TestUnitPropagationChain(t *testing.T) {
	fg := NewFactorGraph([][]int{
		{1},
		{-1, 2},
		{-2, 3},
	})
	if !fg.unitPropagation() {
		t.Fatal("unitPropagation reported contradiction on a satisfiable chain")
	}
	want := []int{1, 1, 1}
	got := fg.Assignment()
	for i, w := range want {
		if got[i] != w {
			t.Errorf("var %d: got %d, want %d", i+1, got[i], w)
		}
	}
	if fg.UnassignedVars != 0 {
		t.Errorf("UnassignedVars = %d, want 0", fg.UnassignedVars)
	}
	for i, c := range fg.Clauses {
		if !c.Satisfied {
			t.Errorf("clause %d not satisfied", i)
		}
	}
}

// TestTrivialContradiction exercises scenario 2: {(x1), (¬x1)} is
// immediately contradictory under unit propagation.
func TestTrivialContradiction(t *testing.T) {
	fg := NewFactorGraph([][]int{
		{1},
		{-1},
	})
	if fg.unitPropagation() {
		t.Fatal("unitPropagation reported success on a contradictory formula")
	}
}

// TestFixInvariants checks the clause bookkeeping invariants after a
// sequence of manual fixes on a slightly larger formula.
func TestFixInvariants(t *testing.T) {
	fg := NewFactorGraph([][]int{
		{1, 2, 3},
		{-1, 2, -3},
		{1, -2, 3},
		{-1, -2, -3},
	})
	if !fg.fix(1, 1, true) {
		t.Fatal("fix(1, +1) unexpectedly failed")
	}
	checkClauseInvariants(t, fg)

	if !fg.fix(2, -1, true) {
		t.Fatal("fix(2, -1) unexpectedly failed")
	}
	checkClauseInvariants(t, fg)
}

func checkClauseInvariants(t *testing.T, fg *FactorGraph) {
	t.Helper()
	for cid := range fg.Clauses {
		c := &fg.Clauses[cid]
		var wantUnassigned, wantTrue int
		for _, lid := range c.Lits {
			l := &fg.Literals[lid]
			if !l.Enabled {
				continue
			}
			v := fg.variable(l.Var)
			if v.Value == 0 {
				wantUnassigned++
			}
			if v.Value == l.Type {
				wantTrue++
			}
		}
		if c.UnassignedLiterals != wantUnassigned {
			t.Errorf("clause %d: UnassignedLiterals = %d, want %d", cid, c.UnassignedLiterals, wantUnassigned)
		}
		if c.TrueLiterals != wantTrue {
			t.Errorf("clause %d: TrueLiterals = %d, want %d", cid, c.TrueLiterals, wantTrue)
		}
	}
	wantUnassignedVars := 0
	for _, v := range fg.Variables {
		if v.Value == 0 {
			wantUnassignedVars++
		}
	}
	if fg.UnassignedVars != wantUnassignedVars {
		t.Errorf("UnassignedVars = %d, want %d", fg.UnassignedVars, wantUnassignedVars)
	}
}

// TestResetGraph checks that resetGraph restores a graph mutated by fix
// back to its just-constructed state.
func TestResetGraph(t *testing.T) {
	fg := NewFactorGraph([][]int{
		{1, 2},
		{-1, -2},
	})
	if !fg.fix(1, 1, true) {
		t.Fatal("fix unexpectedly failed")
	}
	fg.resetGraph()

	if fg.UnassignedVars != len(fg.Variables) {
		t.Errorf("UnassignedVars = %d, want %d", fg.UnassignedVars, len(fg.Variables))
	}
	for _, v := range fg.Variables {
		if v.Value != 0 {
			t.Errorf("var %d: Value = %d, want 0", v.ID, v.Value)
		}
	}
	for _, c := range fg.Clauses {
		if c.Satisfied {
			t.Error("clause unexpectedly satisfied after reset")
		}
		if c.UnassignedLiterals != len(c.Lits) {
			t.Errorf("UnassignedLiterals = %d, want %d", c.UnassignedLiterals, len(c.Lits))
		}
	}
	for _, l := range fg.Literals {
		if !l.Enabled {
			t.Error("literal not re-enabled after reset")
		}
	}
	if !fg.FixedVars.empty() {
		t.Error("FixedVars not cleared after reset")
	}
}

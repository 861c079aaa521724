package cavitysat

// FactorGraph is the bipartite graph of Variables and Clauses, indexed by
// Literal edges. It owns variable fixing, unit propagation, and the
// satisfaction bookkeeping (Clause.Satisfied/UnassignedLiterals/TrueLiterals)
// that SurveyPropagation and Decimation read.
//
// Topology is fixed at construction time (NewFactorGraph); only the
// enabled/value/satisfied flags and the per-variable survey sub-products
// change thereafter, toggled by fix and restored by resetGraph.
type FactorGraph struct {
	Variables []Variable
	Clauses   []Clause
	Literals  []Literal

	UnassignedVars int
	FixedVars      fixedQueue

	// Eps is the numerical zero-factor threshold (see Config.Eps), needed
	// here because fix must keep a fixed variable's neighbors' P/M/PZero/
	// MZero sub-products consistent as their incident literals are
	// disabled.
	Eps float64
}

// fixedQueue is a small FIFO of fixed-variable records, in the style of the
// teacher's own hand-rolled container types (its litHeap wraps
// container/heap for a different purpose; this wraps a plain slice since a
// FIFO needs no ordering machinery).
type fixedQueue struct {
	items []FixedVar
	head  int
}

func (q *fixedQueue) push(fv FixedVar) { q.items = append(q.items, fv) }

func (q *fixedQueue) pop() (FixedVar, bool) {
	if q.head >= len(q.items) {
		return FixedVar{}, false
	}
	fv := q.items[q.head]
	q.head++
	return fv, true
}

func (q *fixedQueue) empty() bool { return q.head >= len(q.items) }

// drain returns and removes every item still queued.
func (q *fixedQueue) drain() []FixedVar {
	out := append([]FixedVar(nil), q.items[q.head:]...)
	q.items = nil
	q.head = 0
	return out
}

func (q *fixedQueue) clear() {
	q.items = nil
	q.head = 0
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

// NewFactorGraph builds a factor graph from a CNF formula: a list of
// clauses, each a list of signed variable indices (negative means negated).
// Variables need not be contiguous, but the highest magnitude seen fixes
// the size of the variable arena; a variable index mentioned by no clause
// is simply isolated (zero incident literals).
func NewFactorGraph(clauses [][]int) *FactorGraph {
	maxVar := 0
	for _, cls := range clauses {
		for _, lit := range cls {
			if lit == 0 {
				panic("cavitysat: zero literal in clause")
			}
			if v := abs(lit); v > maxVar {
				maxVar = v
			}
		}
	}

	fg := &FactorGraph{
		Variables: make([]Variable, maxVar),
		Clauses:   make([]Clause, len(clauses)),
	}
	for i := range fg.Variables {
		fg.Variables[i].ID = VarID(i + 1)
	}
	for cid, cls := range clauses {
		c := &fg.Clauses[cid]
		c.UnassignedLiterals = len(cls)
		c.Lits = make([]LitID, 0, len(cls))
		for _, lit := range cls {
			v := abs(lit)
			typ := int8(1)
			if lit < 0 {
				typ = -1
			}
			lid := LitID(len(fg.Literals))
			fg.Literals = append(fg.Literals, Literal{
				Var:     VarID(v),
				Clause:  ClauseID(cid),
				Type:    typ,
				Enabled: true,
			})
			c.Lits = append(c.Lits, lid)
			fg.Variables[v-1].Lits = append(fg.Variables[v-1].Lits, lid)
		}
	}
	fg.UnassignedVars = len(fg.Variables)
	return fg
}

func (fg *FactorGraph) variable(id VarID) *Variable { return &fg.Variables[id-1] }

// removeLiteralSubProduct undoes l's contribution to its variable's P/M
// sub-product, the inverse of the accumulation computeSubProducts performs.
// Used when a literal is disabled without its variable being the one that
// was just fixed (that variable's sub-products are no longer tracked once
// assigned).
func (fg *FactorGraph) removeLiteralSubProduct(l *Literal) {
	v := fg.variable(l.Var)
	if !v.unassigned() {
		return
	}
	oneMinus := 1 - l.Survey
	if l.Type < 0 {
		if oneMinus > fg.Eps {
			v.P /= oneMinus
		} else {
			v.PZero--
		}
	} else {
		if oneMinus > fg.Eps {
			v.M /= oneMinus
		} else {
			v.MZero--
		}
	}
}

// fix assigns value (must be +1 or -1) to the currently-unassigned variable
// id, then propagates the consequences through every clause the variable
// touches: clauses it satisfies have their remaining literals disabled,
// clauses it falsifies a literal of have that literal disabled and their
// unassigned-literal count decremented. A clause reaching zero unassigned
// literals while unsatisfied is a contradiction and aborts the fix, leaving
// the partial mutation in place (the caller gives up on this attempt). When
// cascade is set, clauses driven down to exactly one unassigned literal are
// recursively fixed via fixUnitClause.
func (fg *FactorGraph) fix(id VarID, value int8, cascade bool) bool {
	v := fg.variable(id)
	if v.Value != 0 {
		panic("cavitysat: fix of already-assigned variable")
	}
	v.Value = value

	var toCascade []ClauseID
	for _, lid := range v.Lits {
		l := &fg.Literals[lid]
		if !l.Enabled {
			continue
		}
		cid := l.Clause
		c := &fg.Clauses[cid]
		if l.Type == value {
			c.Satisfied = true
			c.UnassignedLiterals = 0
			l.Enabled = false
			for _, lid2 := range c.Lits {
				l2 := &fg.Literals[lid2]
				if !l2.Enabled {
					continue
				}
				if l2.Var != id {
					fg.removeLiteralSubProduct(l2)
				}
				l2.Enabled = false
			}
		} else {
			l.Enabled = false
			c.UnassignedLiterals--
			if c.UnassignedLiterals == 0 {
				return false
			}
			if c.UnassignedLiterals == 1 {
				toCascade = append(toCascade, cid)
			}
		}
	}

	if cascade {
		for _, cid := range toCascade {
			c := &fg.Clauses[cid]
			if c.Satisfied || c.UnassignedLiterals != 1 {
				continue
			}
			if !fg.fixUnitClause(cid) {
				return false
			}
		}
	}

	fg.FixedVars.push(FixedVar{ID: id, Value: value})
	fg.UnassignedVars--
	return true
}

// fixUnitClause fixes the unique unassigned enabled literal of c to satisfy
// c. It is a no-op (returns true) if c has no such literal, which can
// happen if an earlier cascade already satisfied it.
func (fg *FactorGraph) fixUnitClause(cid ClauseID) bool {
	c := &fg.Clauses[cid]
	for _, lid := range c.Lits {
		l := &fg.Literals[lid]
		if l.Enabled && fg.variable(l.Var).unassigned() {
			return fg.fix(l.Var, l.Type, true)
		}
	}
	return true
}

// unitPropagation fixes every clause that is already a unit clause
// (exactly one unassigned enabled literal, not yet satisfied). Clauses
// driven to unit status transitively by those fixes are handled by fix's
// own cascade, so a single scan over the clause list suffices.
func (fg *FactorGraph) unitPropagation() bool {
	for cid := range fg.Clauses {
		c := &fg.Clauses[cid]
		if !c.Satisfied && c.UnassignedLiterals == 1 {
			if !fg.fixUnitClause(ClauseID(cid)) {
				return false
			}
		}
	}
	return true
}

// resetGraph clears all fixing/satisfaction state, restoring the graph to
// its just-constructed topology. It does not re-randomize surveys; callers
// needing that (the whole point of a reset, in practice) should follow it
// with SurveyPropagation.initRandomSurveys, as Solver.ResetGraph does.
func (fg *FactorGraph) resetGraph() {
	for i := range fg.Clauses {
		c := &fg.Clauses[i]
		c.Satisfied = false
		c.UnassignedLiterals = len(c.Lits)
		c.TrueLiterals = 0
	}
	for i := range fg.Literals {
		fg.Literals[i].Enabled = true
	}
	for i := range fg.Variables {
		v := &fg.Variables[i]
		v.Value = 0
		v.P, v.M = 1, 1
		v.PZero, v.MZero = 0, 0
		v.WP, v.WM, v.WZ = 0, 0, 0
	}
	fg.FixedVars.clear()
	fg.UnassignedVars = len(fg.Variables)
}

// Assignment reads off the current value of every variable, in ID order.
// Unassigned variables (Value == 0) are reported as 0.
func (fg *FactorGraph) Assignment() []int {
	out := make([]int, len(fg.Variables))
	for i, v := range fg.Variables {
		out[i] = int(v.Value)
	}
	return out
}
